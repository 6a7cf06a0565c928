package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisStoreRejectsBadURL(t *testing.T) {
	if _, err := NewRedisStore("not-a-url"); err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}

func TestRedisStoreCurrent(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	if _, ok, err := s.GetCurrent(ctx, "u1"); err != nil || ok {
		t.Fatalf("fresh store: ok=%v err=%v", ok, err)
	}
	if err := s.SetCurrent(ctx, "u1", "功亏一篑"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	idiom, ok, err := s.GetCurrent(ctx, "u1")
	if err != nil || !ok || idiom != "功亏一篑" {
		t.Fatalf("GetCurrent: idiom=%q ok=%v err=%v", idiom, ok, err)
	}
	// Clearing to empty is the same as no session.
	if err := s.SetCurrent(ctx, "u1", ""); err != nil {
		t.Fatalf("SetCurrent empty: %v", err)
	}
	if _, ok, err := s.GetCurrent(ctx, "u1"); err != nil || ok {
		t.Fatalf("after clear: ok=%v err=%v", ok, err)
	}
}

func TestRedisStoreCountersAndScore(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	if n, err := s.IncrementError(ctx, "u1"); err != nil || n != 1 {
		t.Fatalf("IncrementError: n=%d err=%v", n, err)
	}
	if n, err := s.IncrementError(ctx, "u1"); err != nil || n != 2 {
		t.Fatalf("IncrementError: n=%d err=%v", n, err)
	}
	if n, err := s.IncrementFailure(ctx, "u1"); err != nil || n != 1 {
		t.Fatalf("IncrementFailure: n=%d err=%v", n, err)
	}
	c, err := s.Counters(ctx, "u1")
	if err != nil || c.Errors != 2 || c.Failures != 1 {
		t.Fatalf("Counters: %+v err=%v", c, err)
	}
	if err := s.ClearCounters(ctx, "u1"); err != nil {
		t.Fatalf("ClearCounters: %v", err)
	}
	c, err = s.Counters(ctx, "u1")
	if err != nil || c.Errors != 0 || c.Failures != 0 {
		t.Fatalf("after clear: %+v err=%v", c, err)
	}

	if n, err := s.AdjustScore(ctx, "u1", 2); err != nil || n != 2 {
		t.Fatalf("AdjustScore: n=%d err=%v", n, err)
	}
	if n, err := s.Score(ctx, "u1"); err != nil || n != 2 {
		t.Fatalf("Score: n=%d err=%v", n, err)
	}
	if n, err := s.Score(ctx, "u2"); err != nil || n != 0 {
		t.Fatalf("Score unknown user: n=%d err=%v", n, err)
	}
}
