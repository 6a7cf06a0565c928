package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File names follow the reference layout: one UTF-8 JSON document per map.
const (
	fileCurrent  = "chengyu_context.json"
	fileErrors   = "chengyu_errors.json"
	fileFailures = "failure_count.json"
	fileScores   = "chengyu_scores.json"
)

// JSONStore keeps the four user maps in four JSON files under dir. Writes
// go to a temp file and are renamed into place, so a crash never leaves a
// half-written document. The in-memory mirror is only updated after the
// file write succeeds.
type JSONStore struct {
	dir string
	mu  sync.Mutex

	current  map[string]string
	errCount map[string]int
	failures map[string]int
	scores   map[string]int
}

func NewJSONStore(dir string) (*JSONStore, error) {
	s := &JSONStore{
		dir:      dir,
		current:  make(map[string]string),
		errCount: make(map[string]int),
		failures: make(map[string]int),
		scores:   make(map[string]int),
	}
	if err := loadJSON(filepath.Join(dir, fileCurrent), &s.current); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, fileErrors), &s.errCount); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, fileFailures), &s.failures); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, fileScores), &s.scores); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) GetCurrent(ctx context.Context, userID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idiom, ok := s.current[userID]
	return idiom, ok && idiom != "", nil
}

func (s *JSONStore) SetCurrent(ctx context.Context, userID, idiom string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := cloneStr(s.current)
	staged[userID] = idiom
	if err := s.persist(fileCurrent, staged); err != nil {
		return err
	}
	s.current = staged
	return nil
}

func (s *JSONStore) IncrementError(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := cloneInt(s.errCount)
	staged[userID]++
	if err := s.persist(fileErrors, staged); err != nil {
		return 0, err
	}
	s.errCount = staged
	return staged[userID], nil
}

func (s *JSONStore) IncrementFailure(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := cloneInt(s.failures)
	staged[userID]++
	if err := s.persist(fileFailures, staged); err != nil {
		return 0, err
	}
	s.failures = staged
	return staged[userID], nil
}

func (s *JSONStore) Counters(ctx context.Context, userID string) (Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counters{Errors: s.errCount[userID], Failures: s.failures[userID]}, nil
}

func (s *JSONStore) ClearCounters(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stagedErr := cloneInt(s.errCount)
	stagedErr[userID] = 0
	if err := s.persist(fileErrors, stagedErr); err != nil {
		return err
	}
	s.errCount = stagedErr

	stagedFail := cloneInt(s.failures)
	stagedFail[userID] = 0
	if err := s.persist(fileFailures, stagedFail); err != nil {
		return err
	}
	s.failures = stagedFail
	return nil
}

func (s *JSONStore) AdjustScore(ctx context.Context, userID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := cloneInt(s.scores)
	staged[userID] += delta
	if err := s.persist(fileScores, staged); err != nil {
		return 0, err
	}
	s.scores = staged
	return staged[userID], nil
}

func (s *JSONStore) Score(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scores[userID], nil
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) persist(name string, data any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func loadJSON[V any](path string, out *map[string]V) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if *out == nil {
		*out = make(map[string]V)
	}
	return nil
}

func cloneStr(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneInt(m map[string]int) map[string]int {
	out := make(map[string]int, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
