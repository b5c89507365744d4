package localstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rickgao/newsdesk/internal/model"
)

// backends opens each KV implementation in a fresh temp dir.
var backends = []struct {
	name string
	open func(t *testing.T) KV
}{
	{"pebble", func(t *testing.T) KV {
		kv, err := OpenPebble(filepath.Join(t.TempDir(), "pebble"))
		if err != nil {
			t.Fatalf("OpenPebble failed: %v", err)
		}
		return kv
	}},
	{"sqlite", func(t *testing.T) KV {
		kv, err := OpenSQLite(filepath.Join(t.TempDir(), "store.db"))
		if err != nil {
			t.Fatalf("OpenSQLite failed: %v", err)
		}
		return kv
	}},
}

func forEachBackend(t *testing.T, fn func(t *testing.T, kv KV)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			kv := b.open(t)
			defer kv.Close()
			fn(t, kv)
		})
	}
}

func article(url, title string) model.Article {
	return model.Article{Title: title, URL: url, Source: "Test"}
}

func TestKV_GetSetDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		if _, err := kv.Get("missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(missing) = %v, want ErrNotFound", err)
		}

		if err := kv.Set("a", []byte("1")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := kv.Set("a", []byte("2")); err != nil {
			t.Fatalf("Set overwrite failed: %v", err)
		}
		got, err := kv.Get("a")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "2" {
			t.Errorf("Get(a) = %q, want %q", got, "2")
		}

		if err := kv.Delete("a"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := kv.Delete("a"); err != nil {
			t.Errorf("Delete of missing key = %v, want nil", err)
		}
		if _, err := kv.Get("a"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get after Delete = %v, want ErrNotFound", err)
		}
	})
}

func TestKV_Keys(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		for _, k := range []string{"reaction_b", "reaction_a", "theme", "reactio"} {
			if err := kv.Set(k, []byte("x")); err != nil {
				t.Fatalf("Set(%s) failed: %v", k, err)
			}
		}

		keys, err := kv.Keys("reaction_")
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		if len(keys) != 2 || keys[0] != "reaction_a" || keys[1] != "reaction_b" {
			t.Errorf("Keys(reaction_) = %v, want [reaction_a reaction_b]", keys)
		}

		all, err := kv.Keys("")
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		if len(all) != 4 {
			t.Errorf("len(Keys()) = %d, want 4", len(all))
		}
	})
}

func TestOpen(t *testing.T) {
	kv, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	kv.Close()

	if _, err := Open("bolt", t.TempDir()); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestPrefixUpperBound(t *testing.T) {
	tests := []struct {
		in   []byte
		want []byte
	}{
		{[]byte("ab"), []byte("ac")},
		{[]byte{'a', 0xff}, []byte("b")},
		{[]byte{0xff, 0xff}, nil},
	}
	for _, tt := range tests {
		got := prefixUpperBound(tt.in)
		if string(got) != string(tt.want) {
			t.Errorf("prefixUpperBound(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStore_SaveThenListMostRecentFirst(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		s := New(kv, nil)

		for _, a := range []model.Article{
			article("https://a.example", "A"),
			article("https://b.example", "B"),
		} {
			added, err := s.SaveArticle(a)
			if err != nil {
				t.Fatalf("SaveArticle failed: %v", err)
			}
			if !added {
				t.Errorf("SaveArticle(%s) added = false, want true", a.URL)
			}
		}

		saved, err := s.SavedArticles()
		if err != nil {
			t.Fatalf("SavedArticles failed: %v", err)
		}
		if len(saved) != 2 {
			t.Fatalf("len(saved) = %d, want 2", len(saved))
		}
		if saved[0].URL != "https://b.example" {
			t.Errorf("saved[0] = %s, want most recent b", saved[0].URL)
		}
	})
}

func TestStore_DuplicateSaveIsNoop(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		s := New(kv, nil)

		s.SaveArticle(article("https://a.example", "A"))
		s.SaveArticle(article("https://b.example", "B"))

		added, err := s.SaveArticle(article("https://a.example", "A again"))
		if err != nil {
			t.Fatalf("SaveArticle failed: %v", err)
		}
		if added {
			t.Error("duplicate SaveArticle added = true, want false")
		}

		saved, _ := s.SavedArticles()
		if len(saved) != 2 {
			t.Errorf("len(saved) = %d, want 2", len(saved))
		}
		if saved[1].Title != "A" {
			t.Errorf("saved[1].Title = %q, want original A", saved[1].Title)
		}
	})
}

func TestStore_RemoveArticle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		s := New(kv, nil)
		s.SaveArticle(article("https://a.example", "A"))
		s.SaveArticle(article("https://b.example", "B"))

		removed, err := s.RemoveArticle("https://nope.example")
		if err != nil {
			t.Fatalf("RemoveArticle(absent) failed: %v", err)
		}
		if removed {
			t.Error("RemoveArticle(absent) removed = true, want false")
		}
		saved, _ := s.SavedArticles()
		if len(saved) != 2 {
			t.Errorf("len(saved) = %d after absent remove, want 2", len(saved))
		}

		removed, err = s.RemoveArticle("https://a.example")
		if err != nil {
			t.Fatalf("RemoveArticle failed: %v", err)
		}
		if !removed {
			t.Error("RemoveArticle removed = false, want true")
		}
		saved, _ = s.SavedArticles()
		if len(saved) != 1 || saved[0].URL != "https://b.example" {
			t.Errorf("saved = %+v, want only b", saved)
		}

		ok, err := s.IsSaved("https://a.example")
		if err != nil || ok {
			t.Errorf("IsSaved(a) = %v, %v; want false, nil", ok, err)
		}
	})
}

func TestStore_RemoveFromEmpty(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		s := New(kv, nil)
		if _, err := s.RemoveArticle("https://a.example"); err != nil {
			t.Fatalf("RemoveArticle on empty store failed: %v", err)
		}
		saved, err := s.SavedArticles()
		if err != nil {
			t.Fatalf("SavedArticles failed: %v", err)
		}
		if len(saved) != 0 {
			t.Errorf("len(saved) = %d, want 0", len(saved))
		}
	})
}

func TestStore_SaveRequiresURL(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		s := New(kv, nil)
		if _, err := s.SaveArticle(model.Article{Title: "no url"}); err == nil {
			t.Error("expected error for article without url")
		}
	})
}

func TestStore_CorruptPayloadResets(t *testing.T) {
	payloads := []string{
		`{"title":"not a list"}`,
		`"string"`,
		`not json`,
	}

	for _, p := range payloads {
		forEachBackend(t, func(t *testing.T, kv KV) {
			if err := kv.Set(KeySavedArticles, []byte(p)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			s := New(kv, nil)

			saved, err := s.SavedArticles()
			if err != nil {
				t.Fatalf("SavedArticles(%s) failed: %v", p, err)
			}
			if len(saved) != 0 {
				t.Errorf("len(saved) = %d, want 0", len(saved))
			}

			raw, err := kv.Get(KeySavedArticles)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(raw) != "[]" {
				t.Errorf("stored payload = %q, want reset to []", raw)
			}

			added, err := s.SaveArticle(article("https://a.example", "A"))
			if err != nil || !added {
				t.Errorf("SaveArticle after reset = %v, %v; want true, nil", added, err)
			}
		})
	}
}

func TestStore_ListWithForeignEntriesKept(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		payload := `[1, {"title":"A","url":"https://a.example"}, "x", null, {"title":"B","url":"https://b.example"}]`
		if err := kv.Set(KeySavedArticles, []byte(payload)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		s := New(kv, nil)

		saved, err := s.SavedArticles()
		if err != nil {
			t.Fatalf("SavedArticles failed: %v", err)
		}
		if len(saved) != 2 || saved[0].URL != "https://a.example" || saved[1].URL != "https://b.example" {
			t.Errorf("saved = %+v, want a then b", saved)
		}

		added, err := s.SaveArticle(article("https://a.example", "A"))
		if err != nil || added {
			t.Errorf("SaveArticle(dup) = %v, %v; want false, nil", added, err)
		}
	})

	forEachBackend(t, func(t *testing.T, kv KV) {
		if err := kv.Set(KeySavedArticles, []byte(`[1,2]`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		s := New(kv, nil)

		saved, err := s.SavedArticles()
		if err != nil {
			t.Fatalf("SavedArticles failed: %v", err)
		}
		if len(saved) != 0 {
			t.Errorf("len(saved) = %d, want 0", len(saved))
		}
		raw, _ := kv.Get(KeySavedArticles)
		if string(raw) != "[1,2]" {
			t.Errorf("stored payload = %q, want untouched [1,2]", raw)
		}
	})
}

func TestStore_Reactions(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		s := New(kv, nil)
		id := model.ArticleID("https://a.example")

		r, err := s.Reaction(id)
		if err != nil || r != model.ReactionNone {
			t.Fatalf("Reaction = %q, %v; want none", r, err)
		}

		r, _ = s.ToggleReaction(id, model.ReactionLike)
		if r != model.ReactionLike {
			t.Errorf("after like = %q, want like", r)
		}
		raw, _ := kv.Get(ReactionKeyPrefix + id)
		if string(raw) != "like" {
			t.Errorf("stored = %q, want like", raw)
		}

		r, _ = s.ToggleReaction(id, model.ReactionDislike)
		if r != model.ReactionDislike {
			t.Errorf("after dislike = %q, want dislike", r)
		}

		r, _ = s.ToggleReaction(id, model.ReactionDislike)
		if r != model.ReactionNone {
			t.Errorf("after second dislike = %q, want none", r)
		}
		if _, err := kv.Get(ReactionKeyPrefix + id); !errors.Is(err, ErrNotFound) {
			t.Errorf("cleared reaction should delete the key, got %v", err)
		}

		other := model.ArticleID("https://b.example")
		s.ToggleReaction(other, model.ReactionLike)
		all, err := s.Reactions()
		if err != nil {
			t.Fatalf("Reactions failed: %v", err)
		}
		if len(all) != 1 || all[other] != model.ReactionLike {
			t.Errorf("Reactions() = %v", all)
		}
	})
}

func TestStore_Theme(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		s := New(kv, nil)

		theme, err := s.Theme()
		if err != nil || theme != model.ThemeDark {
			t.Fatalf("Theme() = %q, %v; want dark default", theme, err)
		}

		theme, err = s.ToggleTheme()
		if err != nil || theme != model.ThemeLight {
			t.Errorf("ToggleTheme() = %q, %v; want light", theme, err)
		}
		if got, _ := s.Theme(); got != model.ThemeLight {
			t.Errorf("Theme() = %q after toggle, want light", got)
		}

		kv.Set(KeyTheme, []byte("sepia"))
		if got, _ := s.Theme(); got != model.ThemeDark {
			t.Errorf("Theme() = %q for unknown value, want dark", got)
		}
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pebble")

	kv, err := OpenPebble(dir)
	if err != nil {
		t.Fatalf("OpenPebble failed: %v", err)
	}
	s := New(kv, nil)
	s.SaveArticle(article("https://a.example", "A"))
	s.SetTheme(model.ThemeLight)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	kv, err = OpenPebble(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	s = New(kv, nil)
	defer s.Close()

	saved, _ := s.SavedArticles()
	if len(saved) != 1 || saved[0].URL != "https://a.example" {
		t.Errorf("saved after reopen = %+v", saved)
	}
	if theme, _ := s.Theme(); theme != model.ThemeLight {
		t.Errorf("theme after reopen = %q, want light", theme)
	}
}
