package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestJSONStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	return s, dir
}

func TestJSONStoreCurrentRoundTrip(t *testing.T) {
	s, dir := newTestJSONStore(t)
	ctx := context.Background()

	if _, ok, err := s.GetCurrent(ctx, "u1"); err != nil || ok {
		t.Fatalf("fresh store: ok=%v err=%v", ok, err)
	}
	if err := s.SetCurrent(ctx, "u1", "马到成功"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	idiom, ok, err := s.GetCurrent(ctx, "u1")
	if err != nil || !ok || idiom != "马到成功" {
		t.Fatalf("GetCurrent: idiom=%q ok=%v err=%v", idiom, ok, err)
	}

	// Reload from disk: the state must survive.
	s2, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	idiom, ok, err = s2.GetCurrent(ctx, "u1")
	if err != nil || !ok || idiom != "马到成功" {
		t.Fatalf("after reload: idiom=%q ok=%v err=%v", idiom, ok, err)
	}
}

func TestJSONStoreEmptyCurrentMeansNoSession(t *testing.T) {
	s, _ := newTestJSONStore(t)
	ctx := context.Background()

	if err := s.SetCurrent(ctx, "u1", ""); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if _, ok, err := s.GetCurrent(ctx, "u1"); err != nil || ok {
		t.Fatalf("empty idiom should report no session: ok=%v err=%v", ok, err)
	}
}

func TestJSONStoreCounters(t *testing.T) {
	s, _ := newTestJSONStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := s.IncrementError(ctx, "u1")
		if err != nil || n != i {
			t.Fatalf("IncrementError #%d: n=%d err=%v", i, n, err)
		}
	}
	if n, err := s.IncrementFailure(ctx, "u1"); err != nil || n != 1 {
		t.Fatalf("IncrementFailure: n=%d err=%v", n, err)
	}

	c, err := s.Counters(ctx, "u1")
	if err != nil || c.Errors != 3 || c.Failures != 1 {
		t.Fatalf("Counters: %+v err=%v", c, err)
	}
	// Other users are untouched.
	c, err = s.Counters(ctx, "u2")
	if err != nil || c.Errors != 0 || c.Failures != 0 {
		t.Fatalf("Counters u2: %+v err=%v", c, err)
	}

	if err := s.ClearCounters(ctx, "u1"); err != nil {
		t.Fatalf("ClearCounters: %v", err)
	}
	c, err = s.Counters(ctx, "u1")
	if err != nil || c.Errors != 0 || c.Failures != 0 {
		t.Fatalf("after clear: %+v err=%v", c, err)
	}
}

func TestJSONStoreScore(t *testing.T) {
	s, dir := newTestJSONStore(t)
	ctx := context.Background()

	if n, err := s.Score(ctx, "u1"); err != nil || n != 0 {
		t.Fatalf("fresh score: n=%d err=%v", n, err)
	}
	if n, err := s.AdjustScore(ctx, "u1", 2); err != nil || n != 2 {
		t.Fatalf("AdjustScore: n=%d err=%v", n, err)
	}
	if n, err := s.AdjustScore(ctx, "u1", 2); err != nil || n != 4 {
		t.Fatalf("AdjustScore: n=%d err=%v", n, err)
	}
	if n, err := s.AdjustScore(ctx, "u1", -1); err != nil || n != 3 {
		t.Fatalf("negative delta: n=%d err=%v", n, err)
	}

	if _, err := os.Stat(filepath.Join(dir, "chengyu_scores.json")); err != nil {
		t.Fatalf("score file missing: %v", err)
	}
}

func TestJSONStoreIgnoresMissingFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("NewJSONStore with absent dir: %v", err)
	}
	if err := s.SetCurrent(context.Background(), "u1", "一马当先"); err != nil {
		t.Fatalf("SetCurrent creates dir on demand: %v", err)
	}
}

func TestJSONStoreRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "chengyu_context.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	if _, err := NewJSONStore(dir); err == nil {
		t.Fatal("expected error for corrupt store file")
	}
}
