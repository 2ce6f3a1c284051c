package leaderboard

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	highScoreTxtFN  = "highscore.txt"  // legacy
	highScoreJSONFN = "highscore.json" // current
)

// JSONStore keeps the leaderboard as a JSON array in a single file,
// rewritten atomically on every submit.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONStore stores under dir, or under ConfigDir() when dir is empty.
func NewJSONStore(dir string) (*JSONStore, error) {
	if dir == "" {
		d, err := ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("leaderboard dir: %w", err)
		}
		dir = d
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("leaderboard dir: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) Path() string {
	return filepath.Join(s.dir, highScoreJSONFN)
}

func (s *JSONStore) Submit(_ context.Context, rec Record) error {
	rec, err := validate(rec)
	if err != nil {
		return err
	}
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return err
	}
	updated := false
	for i := range list {
		if strings.EqualFold(normalizeName(list[i].Name), rec.Name) {
			if rec.Score > list[i].Score {
				list[i].Score = rec.Score
				list[i].SessionID = rec.SessionID
				list[i].At = rec.At
			}
			updated = true
			break
		}
	}
	if !updated {
		list = append(list, rec)
	}
	sortRecords(list)

	path := s.Path()
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	return os.Rename(tmp, path)
}

func (s *JSONStore) Top(_ context.Context, n int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load()
	if err != nil {
		return nil, err
	}
	sortRecords(list)
	return limit(list, n), nil
}

func (s *JSONStore) Close() error { return nil }

// load accepts a JSON array of records, a single record object, or the legacy
// text file holding one bare score.
func (s *JSONStore) load() ([]Record, error) {
	data, err := os.ReadFile(s.Path())
	switch {
	case err == nil:
		var arr []Record
		if err := json.Unmarshal(data, &arr); err == nil {
			return arr, nil
		}
		var obj Record
		if err := json.Unmarshal(data, &obj); err == nil && obj.Score >= 0 {
			return []Record{obj}, nil
		}
		return nil, fmt.Errorf("decode %s: unrecognized leaderboard format", s.Path())
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	f, err := os.Open(filepath.Join(s.dir, highScoreTxtFN))
	if err != nil {
		return nil, nil
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err == nil && n >= 0 {
			return []Record{{Name: "", Score: n}}, nil
		}
	}
	return nil, nil
}
