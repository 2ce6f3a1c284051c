// Package leaderboard persists named high scores.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const configDirName = "pacman"

var (
	ErrNegativeScore = errors.New("score must be non-negative")
	ErrEmptyName     = errors.New("name must not be empty")
)

// Record is one leaderboard line. Names compare case-insensitively.
type Record struct {
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	SessionID string    `json:"session_id,omitempty"`
	At        time.Time `json:"at"`
}

// Store keeps the best score per player name.
type Store interface {
	// Submit upserts rec, keeping the higher score for an existing name.
	Submit(ctx context.Context, rec Record) error
	// Top returns at most n records, best first. n <= 0 returns all.
	Top(ctx context.Context, n int) ([]Record, error)
	Close() error
}

// ConfigDir determines the base directory to store data in.
// If PACMAN_CONFIG_DIR is set, it is used as-is. Otherwise, use UserConfigDir()/pacman.
func ConfigDir() (string, error) {
	if env := os.Getenv("PACMAN_CONFIG_DIR"); env != "" {
		if err := os.MkdirAll(env, 0o755); err != nil {
			return "", err
		}
		return env, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, configDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Open returns the store named by kind ("json" or "sqlite") rooted at dir.
// An empty dir uses ConfigDir().
func Open(kind, dir string) (Store, error) {
	switch strings.ToLower(kind) {
	case "", "json":
		s, err := NewJSONStore(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		path := ""
		if dir != "" {
			path = filepath.Join(dir, highScoreDBFN)
		}
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown leaderboard store %q", kind)
	}
}

// Best returns the highest record in the store, or nil when it is empty.
func Best(ctx context.Context, s Store) (*Record, error) {
	top, err := s.Top(ctx, 1)
	if err != nil || len(top) == 0 {
		return nil, err
	}
	return &top[0], nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

func validate(rec Record) (Record, error) {
	if rec.Score < 0 {
		return rec, ErrNegativeScore
	}
	rec.Name = normalizeName(rec.Name)
	if rec.Name == "" {
		return rec, ErrEmptyName
	}
	return rec, nil
}

// sortRecords orders by score descending, then by name for stable output.
func sortRecords(list []Record) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
}

func limit(list []Record, n int) []Record {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}
