package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rickgao/newsdesk/internal/connection"
	"github.com/rickgao/newsdesk/internal/model"
)

type entryKind int

const (
	entryUser entryKind = iota
	entryInfo
	entryFact
	entryNews
	entryVerdict
)

// entry is one transcript item. Entries are re-rendered on theme change.
type entry struct {
	kind     entryKind
	text     string
	articles []model.Article
	verdict  model.Verdict
	saved    bool
}

func (a *App) renderEntries() string {
	width := max(a.width-2, 20)
	blocks := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		blocks = append(blocks, a.renderEntry(e, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (a *App) renderEntry(e entry, width int) string {
	s := a.styles
	switch e.kind {
	case entryUser:
		return s.prompt.Render("> ") + s.user.Width(width-2).Render(e.text)
	case entryInfo:
		return s.dim.Width(width).Render(e.text)
	case entryFact:
		return s.title.Render("Fact") + "\n" + s.fact.Width(width).Render(e.text)
	case entryVerdict:
		return renderVerdict(s, e.verdict, width)
	case entryNews:
		heading := "News"
		if e.saved {
			heading = "Saved articles"
		}
		lines := []string{s.title.Render(heading)}
		for i, art := range e.articles {
			lines = append(lines, a.renderArticle(i+1, art, width))
		}
		return strings.Join(lines, "\n")
	}
	return e.text
}

func (a *App) renderArticle(n int, art model.Article, width int) string {
	s := a.styles
	art = art.WithDefaults()
	inner := max(width-4, 10)

	title := s.index.Render(fmt.Sprintf("%d.", n)) + " " + s.title.Render(truncateStr(art.Title, inner-4))

	meta := s.source.Render(art.Source) + s.dim.Render(fmt.Sprintf(" · %d min read", art.ReadingMinutes()))
	switch a.reactions[art.ID()] {
	case model.ReactionLike:
		meta += " " + s.liked.Render("[liked]")
	case model.ReactionDislike:
		meta += " " + s.disliked.Render("[disliked]")
	}

	parts := []string{title, meta, s.body.Width(inner).Render(art.Description)}
	if art.URL != "" {
		parts = append(parts, s.link.Render(truncateStr(art.URL, inner)))
	}
	return s.card.Width(width - 2).Render(strings.Join(parts, "\n"))
}

func renderVerdict(s styles, v model.Verdict, width int) string {
	prediction := v.Prediction
	if prediction == "" {
		prediction = "Unknown"
	}
	line := s.title.Render("Prediction: ") + s.verdictStyle(v).Render(prediction) +
		s.dim.Render("  Confidence: ") + v.ConfidencePercent()
	if v.Message == "" {
		return line
	}
	return line + "\n" + s.body.Width(width).Render(v.Message)
}

func (a *App) renderStatusBar() string {
	left := " " + a.connectionLabel()
	if a.status != "" {
		left = " " + a.status
	}
	left += fmt.Sprintf(" · theme %s", a.theme)

	right := " /help  pgup/pgdn scroll  ctrl+c quit "

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + strings.Repeat(" ", gap) + right
	return a.styles.status.Width(a.width).Render(bar)
}

func (a *App) connectionLabel() string {
	if a.state == nil {
		return "offline"
	}
	switch a.state() {
	case connection.StateOpen:
		return "connected"
	case connection.StateConnecting:
		return "connecting..."
	case connection.StateClosed:
		return "disconnected"
	default:
		return "idle"
	}
}

func placeCenter(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// truncateStr cuts s to n runes, ending in "..." when it was cut.
func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
