package localstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rickgao/newsdesk/internal/model"
)

// Keys.
const (
	KeySavedArticles  = "savedArticles"
	KeyTheme          = "theme"
	ReactionKeyPrefix = "reaction_"
)

// Store is the typed view over a KV used by the client.
type Store struct {
	kv     KV
	logger *slog.Logger

	// Serializes read-modify-write of the saved list.
	mu sync.Mutex
}

// New wraps kv.
func New(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// Close closes the underlying KV.
func (s *Store) Close() error {
	return s.kv.Close()
}

// -----------------------------------------------------------------------------
// Saved articles
// -----------------------------------------------------------------------------

// SavedArticles returns the saved list, most recent first. A payload that
// is not a list is logged as ErrStorageCorrupt and reset to empty. List
// entries that are not article objects are skipped.
func (s *Store) SavedArticles() ([]model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSaved()
}

// SaveArticle prepends a. It returns false without writing when an article
// with the same URL is already saved.
func (s *Store) SaveArticle(a model.Article) (bool, error) {
	if strings.TrimSpace(a.URL) == "" {
		return false, errors.New("save article: url is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.loadSaved()
	if err != nil {
		return false, err
	}
	for _, existing := range saved {
		if existing.URL == a.URL {
			return false, nil
		}
	}

	saved = append([]model.Article{a}, saved...)
	if err := s.storeSaved(saved); err != nil {
		return false, err
	}
	s.logger.Debug("article saved", "url", a.URL, "count", len(saved))
	return true, nil
}

// RemoveArticle removes the article with url. Removing an absent URL
// succeeds and reports false.
func (s *Store) RemoveArticle(url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.loadSaved()
	if err != nil {
		return false, err
	}

	kept := saved[:0]
	for _, a := range saved {
		if a.URL != url {
			kept = append(kept, a)
		}
	}
	removed := len(kept) != len(saved)

	if err := s.storeSaved(kept); err != nil {
		return false, err
	}
	s.logger.Debug("article removed", "url", url, "found", removed)
	return removed, nil
}

// IsSaved reports whether url is in the saved list.
func (s *Store) IsSaved(url string) (bool, error) {
	saved, err := s.SavedArticles()
	if err != nil {
		return false, err
	}
	for _, a := range saved {
		if a.URL == url {
			return true, nil
		}
	}
	return false, nil
}

// loadSaved must be called with mu held.
func (s *Store) loadSaved() ([]model.Article, error) {
	data, err := s.kv.Get(KeySavedArticles)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []model.Article{}, nil
		}
		return nil, fmt.Errorf("load saved articles: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("resetting saved articles",
			"error", fmt.Errorf("%w: %v", ErrStorageCorrupt, err),
		)
		if err := s.storeSaved(nil); err != nil {
			return nil, err
		}
		return []model.Article{}, nil
	}

	// Entries that are not article objects are skipped, the list is kept.
	saved := make([]model.Article, 0, len(items))
	for i, item := range items {
		var a model.Article
		if !isObject(item) || json.Unmarshal(item, &a) != nil {
			s.logger.Warn("skipping saved entry", "index", i, "error", ErrStorageCorrupt)
			continue
		}
		saved = append(saved, a)
	}
	return saved, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// storeSaved must be called with mu held.
func (s *Store) storeSaved(saved []model.Article) error {
	if saved == nil {
		saved = []model.Article{}
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("marshal saved articles: %w", err)
	}
	return s.kv.Set(KeySavedArticles, data)
}

// -----------------------------------------------------------------------------
// Reactions
// -----------------------------------------------------------------------------

// Reaction returns the stored reaction for an article ID.
func (s *Store) Reaction(articleID string) (model.Reaction, error) {
	data, err := s.kv.Get(ReactionKeyPrefix + articleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.ReactionNone, nil
		}
		return model.ReactionNone, err
	}

	r, err := model.ParseReaction(string(data))
	if err != nil {
		s.logger.Warn("ignoring stored reaction", "id", articleID, "error", err)
		return model.ReactionNone, nil
	}
	return r, nil
}

// ToggleReaction applies r to the stored reaction and returns the result.
// Pressing the active reaction clears it.
func (s *Store) ToggleReaction(articleID string, r model.Reaction) (model.Reaction, error) {
	current, err := s.Reaction(articleID)
	if err != nil {
		return model.ReactionNone, err
	}

	next := current.Toggle(r)
	key := ReactionKeyPrefix + articleID
	if next == model.ReactionNone {
		err = s.kv.Delete(key)
	} else {
		err = s.kv.Set(key, []byte(next))
	}
	if err != nil {
		return current, err
	}
	return next, nil
}

// Reactions returns all stored reactions by article ID.
func (s *Store) Reactions() (map[string]model.Reaction, error) {
	keys, err := s.kv.Keys(ReactionKeyPrefix)
	if err != nil {
		return nil, err
	}

	out := make(map[string]model.Reaction, len(keys))
	for _, k := range keys {
		id := strings.TrimPrefix(k, ReactionKeyPrefix)
		r, err := s.Reaction(id)
		if err != nil {
			return nil, err
		}
		if r != model.ReactionNone {
			out[id] = r
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Theme
// -----------------------------------------------------------------------------

// Theme returns the stored theme, dark by default.
func (s *Store) Theme() (model.Theme, error) {
	data, err := s.kv.Get(KeyTheme)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.ThemeDark, nil
		}
		return model.ThemeDark, err
	}

	switch t := model.Theme(data); t {
	case model.ThemeDark, model.ThemeLight:
		return t, nil
	default:
		return model.ThemeDark, nil
	}
}

// SetTheme stores t.
func (s *Store) SetTheme(t model.Theme) error {
	return s.kv.Set(KeyTheme, []byte(t))
}

// ToggleTheme flips and stores the theme.
func (s *Store) ToggleTheme() (model.Theme, error) {
	current, err := s.Theme()
	if err != nil {
		return current, err
	}
	next := current.Toggle()
	if err := s.SetTheme(next); err != nil {
		return current, err
	}
	return next, nil
}
