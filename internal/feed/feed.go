// Package feed fetches RSS and Atom headlines for the headlines command.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/newsdesk/internal/config"
	"github.com/rickgao/newsdesk/internal/model"
)

// maxDescription bounds description length in runes.
const maxDescription = 300

// Headline is a feed item mapped onto an article.
type Headline struct {
	model.Article
	Published time.Time
}

// Fetcher fetches a single feed.
type Fetcher interface {
	Fetch(ctx context.Context, src config.FeedConfig) ([]Headline, error)
}

// RSSFetcher fetches feeds with gofeed.
type RSSFetcher struct {
	parser *gofeed.Parser
}

// NewRSSFetcher creates a fetcher with a default parser.
func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser()}
}

// Fetch parses the feed at src.URL.
func (f *RSSFetcher) Fetch(ctx context.Context, src config.FeedConfig) ([]Headline, error) {
	feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src.Name, err)
	}

	source := src.Name
	if source == "" {
		source = feed.Title
	}

	now := time.Now()
	out := make([]Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}

		var image string
		if item.Image != nil {
			image = item.Image.URL
		}

		out = append(out, Headline{
			Article: model.Article{
				Title:       strings.TrimSpace(item.Title),
				Description: truncate(stripHTML(desc), maxDescription),
				URL:         item.Link,
				Source:      source,
				ImageURL:    image,
			}.WithDefaults(),
			Published: pub,
		})
	}
	return out, nil
}

// Result holds headlines from all feeds, newest first, plus per-feed errors.
type Result struct {
	Headlines []Headline
	Errors    []error
}

// FetchAll fetches every feed concurrently. A failing feed does not stop
// the others.
func FetchAll(ctx context.Context, f Fetcher, feeds []config.FeedConfig, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		mu     sync.Mutex
		result Result
		g      errgroup.Group
	)
	g.SetLimit(4)

	for _, src := range feeds {
		g.Go(func() error {
			items, err := f.Fetch(ctx, src)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("feed fetch failed", "feed", src.Name, "error", err)
				result.Errors = append(result.Errors, err)
				return nil
			}
			logger.Debug("feed fetched", "feed", src.Name, "items", len(items))
			result.Headlines = append(result.Headlines, items...)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(result.Headlines, func(i, j int) bool {
		return result.Headlines[i].Published.After(result.Headlines[j].Published)
	})
	return result
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
