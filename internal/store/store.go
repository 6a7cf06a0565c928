// Package store persists per-user game state: the idiom currently in play,
// the error and failure counters, and the score ledger. The four maps are
// independent; every mutation is durable before the call returns.
package store

import "context"

// Counters carries the two rejection counters for one user.
type Counters struct {
	Errors   int `json:"errors"`
	Failures int `json:"failures"`
}

type Store interface {
	// GetCurrent returns the idiom in play for the user, ok=false when the
	// user has no chain in progress.
	GetCurrent(ctx context.Context, userID string) (string, bool, error)
	SetCurrent(ctx context.Context, userID, idiom string) error

	IncrementError(ctx context.Context, userID string) (int, error)
	IncrementFailure(ctx context.Context, userID string) (int, error)
	Counters(ctx context.Context, userID string) (Counters, error)
	// ClearCounters resets both counters to zero.
	ClearCounters(ctx context.Context, userID string) error

	AdjustScore(ctx context.Context, userID string, delta int) (int, error)
	Score(ctx context.Context, userID string) (int, error)

	Close() error
}
