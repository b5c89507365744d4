package model

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Articles
// -----------------------------------------------------------------------------

// Placeholders shown for missing article fields.
const (
	NoTitle       = "No title"
	NoDescription = "No description available"
	UnknownSource = "Unknown source"
)

// WordsPerMinute is the reading speed used for reading-time estimates.
const WordsPerMinute = 200

// Article is a news item as served by the news endpoint and as stored in
// the saved-articles list.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	ImageURL    string `json:"image_url"`
}

// WithDefaults returns a copy with display placeholders for empty fields.
// URL and ImageURL are left untouched.
func (a Article) WithDefaults() Article {
	if strings.TrimSpace(a.Title) == "" {
		a.Title = NoTitle
	}
	if strings.TrimSpace(a.Description) == "" {
		a.Description = NoDescription
	}
	if strings.TrimSpace(a.Source) == "" {
		a.Source = UnknownSource
	}
	return a
}

// ID returns the stable identifier for the article.
func (a Article) ID() string {
	return ArticleID(a.URL)
}

// ReadingMinutes estimates reading time of the description, rounded up.
// An empty description still counts as one minute.
func (a Article) ReadingMinutes() int {
	return ReadingMinutes(a.Description)
}

// ArticleID derives a stable identifier from an article URL.
func ArticleID(articleURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(articleURL)).String()
}

// ReadingMinutes returns ceil(words / WordsPerMinute), minimum 1.
func ReadingMinutes(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 1
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}

// -----------------------------------------------------------------------------
// Fake news verdicts
// -----------------------------------------------------------------------------

// Verdict is the server's classification of a piece of text.
type Verdict struct {
	Prediction string  `json:"prediction"` // "Fake", "Real" or "Unknown"
	Confidence float64 `json:"confidence"` // 0-1
	Message    string  `json:"message"`
}

// IsReal reports whether the prediction is "real" (case-insensitive).
func (v Verdict) IsReal() bool {
	return strings.EqualFold(v.Prediction, "real")
}

// ConfidencePercent formats the confidence as a percentage with one decimal.
func (v Verdict) ConfidencePercent() string {
	return fmt.Sprintf("%.1f%%", v.Confidence*100)
}

// -----------------------------------------------------------------------------
// Reactions
// -----------------------------------------------------------------------------

// Reaction is a per-article like/dislike flag.
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// ParseReaction validates a reaction name.
func ParseReaction(s string) (Reaction, error) {
	switch Reaction(strings.ToLower(strings.TrimSpace(s))) {
	case ReactionLike:
		return ReactionLike, nil
	case ReactionDislike:
		return ReactionDislike, nil
	}
	return ReactionNone, fmt.Errorf("unknown reaction %q", s)
}

// Toggle returns the reaction that results from pressing r while current
// is set: pressing the active reaction clears it, anything else replaces it.
func (current Reaction) Toggle(r Reaction) Reaction {
	if current == r {
		return ReactionNone
	}
	return r
}

// -----------------------------------------------------------------------------
// Theme
// -----------------------------------------------------------------------------

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle flips between dark and light. Unknown values become light.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// -----------------------------------------------------------------------------
// Sharing
// -----------------------------------------------------------------------------

// Share platforms.
const (
	PlatformTwitter  = "twitter"
	PlatformFacebook = "facebook"
	PlatformLinkedIn = "linkedin"
)

// ShareURL builds the share link for an article on the given platform.
func ShareURL(platform string, a Article) (string, error) {
	text := url.QueryEscape(a.Title)
	link := url.QueryEscape(a.URL)

	switch strings.ToLower(platform) {
	case PlatformTwitter:
		return "https://twitter.com/intent/tweet?text=" + text + "&url=" + link, nil
	case PlatformFacebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + link, nil
	case PlatformLinkedIn:
		return "https://www.linkedin.com/shareArticle?mini=true&url=" + link + "&title=" + text, nil
	}
	return "", fmt.Errorf("unsupported share platform %q", platform)
}
