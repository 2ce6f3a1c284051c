package leaderboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	js, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("json store: %v", err)
	}
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{"json": js, "sqlite": sq}
}

func TestStoreUpsertKeepsBest(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			submits := []Record{
				{Name: "Romeo", Score: 1200},
				{Name: "Juliet", Score: 3400},
				{Name: " romeo ", Score: 900},
				{Name: "ROMEO", Score: 2500},
				{Name: "Tybalt", Score: 10},
			}
			for _, r := range submits {
				if err := s.Submit(ctx, r); err != nil {
					t.Fatalf("submit %+v: %v", r, err)
				}
			}
			top, err := s.Top(ctx, 0)
			if err != nil {
				t.Fatalf("top: %v", err)
			}
			if len(top) != 3 {
				t.Fatalf("expected 3 names, got %d: %+v", len(top), top)
			}
			want := []int{3400, 2500, 10}
			for i, w := range want {
				if top[i].Score != w {
					t.Fatalf("top[%d].Score = %d, want %d", i, top[i].Score, w)
				}
			}
			if top[1].Name != "Romeo" {
				t.Fatalf("first spelling should be kept, got %q", top[1].Name)
			}

			two, err := s.Top(ctx, 2)
			if err != nil || len(two) != 2 {
				t.Fatalf("top 2: %v, %d records", err, len(two))
			}
			best, err := Best(ctx, s)
			if err != nil || best == nil || best.Name != "Juliet" {
				t.Fatalf("best = %+v, %v", best, err)
			}
		})
	}
}

func TestStoreRejectsBadRecords(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Submit(ctx, Record{Name: "x", Score: -1}); !errors.Is(err, ErrNegativeScore) {
				t.Fatalf("expected ErrNegativeScore, got %v", err)
			}
			if err := s.Submit(ctx, Record{Name: "   ", Score: 5}); !errors.Is(err, ErrEmptyName) {
				t.Fatalf("expected ErrEmptyName, got %v", err)
			}
			top, err := s.Top(ctx, 0)
			if err != nil || len(top) != 0 {
				t.Fatalf("rejected records must not be stored: %+v, %v", top, err)
			}
			best, err := Best(ctx, s)
			if err != nil || best != nil {
				t.Fatalf("empty store best = %+v, %v", best, err)
			}
		})
	}
}

func TestJSONStoreUsesConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PACMAN_CONFIG_DIR", dir)

	s, err := NewJSONStore("")
	if err != nil {
		t.Fatalf("json store: %v", err)
	}
	if err := s.Submit(context.Background(), Record{Name: "Cupid", Score: 12345}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if want := filepath.Join(dir, "highscore.json"); s.Path() != want {
		t.Fatalf("path = %q, want %q", s.Path(), want)
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Fatalf("leaderboard file missing: %v", err)
	}
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file should be renamed away, stat err=%v", err)
	}
}

func TestJSONStoreReadsOlderFormats(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "highscore.json"), []byte(`{"name":"Ada","score":77}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, _ := NewJSONStore(dir)
	top, err := s.Top(ctx, 0)
	if err != nil || len(top) != 1 || top[0].Name != "Ada" || top[0].Score != 77 {
		t.Fatalf("single object format: %+v, %v", top, err)
	}

	legacy := t.TempDir()
	if err := os.WriteFile(filepath.Join(legacy, "highscore.txt"), []byte("4242\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, _ = NewJSONStore(legacy)
	top, err = s.Top(ctx, 0)
	if err != nil || len(top) != 1 || top[0].Score != 4242 {
		t.Fatalf("legacy text format: %+v, %v", top, err)
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "highscore.json"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, _ := NewJSONStore(dir)
	if _, err := s.Top(context.Background(), 0); err == nil {
		t.Fatalf("expected an error for a corrupt leaderboard")
	}
	if err := s.Submit(context.Background(), Record{Name: "x", Score: 1}); err == nil {
		t.Fatalf("submit must not overwrite a corrupt leaderboard")
	}
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scores.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Submit(context.Background(), Record{Name: "Valentine", Score: 214, SessionID: "abc"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	top, err := s.Top(context.Background(), 10)
	if err != nil || len(top) != 1 {
		t.Fatalf("top after reopen: %+v, %v", top, err)
	}
	if top[0].Score != 214 || top[0].SessionID != "abc" || top[0].At.IsZero() {
		t.Fatalf("unexpected record %+v", top[0])
	}
}

func TestOpenByKind(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{"json", "SQLite", ""} {
		s, err := Open(kind, dir)
		if err != nil {
			t.Fatalf("open %q: %v", kind, err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("close %q: %v", kind, err)
		}
	}
	if _, err := Open("postgres", dir); err == nil {
		t.Fatalf("expected an error for an unknown store")
	}
}
