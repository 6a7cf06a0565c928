package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS chengyu_sessions (
    user_id       TEXT PRIMARY KEY,
    current_idiom TEXT NOT NULL DEFAULT '',
    error_count   INTEGER NOT NULL DEFAULT 0,
    failure_count INTEGER NOT NULL DEFAULT 0,
    score         INTEGER NOT NULL DEFAULT 0,
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PGStore struct {
	db *sql.DB
}

func NewPGStore(databaseURL string) (*PGStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, pgSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PGStore{db: db}, nil
}

func (s *PGStore) GetCurrent(ctx context.Context, userID string) (string, bool, error) {
	var idiom string
	err := s.db.QueryRowContext(ctx,
		`SELECT current_idiom FROM chengyu_sessions WHERE user_id = $1`, userID).Scan(&idiom)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select current: %w", err)
	}
	return idiom, idiom != "", nil
}

func (s *PGStore) SetCurrent(ctx context.Context, userID, idiom string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chengyu_sessions (user_id, current_idiom, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id)
		DO UPDATE SET current_idiom = EXCLUDED.current_idiom, updated_at = now()`,
		userID, idiom)
	if err != nil {
		return fmt.Errorf("upsert current: %w", err)
	}
	return nil
}

func (s *PGStore) IncrementError(ctx context.Context, userID string) (int, error) {
	return s.incrementColumn(ctx, userID, "error_count")
}

func (s *PGStore) IncrementFailure(ctx context.Context, userID string) (int, error) {
	return s.incrementColumn(ctx, userID, "failure_count")
}

// column is always one of the fixed counter names, never user input.
func (s *PGStore) incrementColumn(ctx context.Context, userID, column string) (int, error) {
	var n int
	query := fmt.Sprintf(`
		INSERT INTO chengyu_sessions (user_id, %[1]s, updated_at)
		VALUES ($1, 1, now())
		ON CONFLICT (user_id)
		DO UPDATE SET %[1]s = chengyu_sessions.%[1]s + 1, updated_at = now()
		RETURNING %[1]s`, column)
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("increment %s: %w", column, err)
	}
	return n, nil
}

func (s *PGStore) Counters(ctx context.Context, userID string) (Counters, error) {
	var c Counters
	err := s.db.QueryRowContext(ctx,
		`SELECT error_count, failure_count FROM chengyu_sessions WHERE user_id = $1`,
		userID).Scan(&c.Errors, &c.Failures)
	if err == sql.ErrNoRows {
		return Counters{}, nil
	}
	if err != nil {
		return Counters{}, fmt.Errorf("select counters: %w", err)
	}
	return c, nil
}

func (s *PGStore) ClearCounters(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE chengyu_sessions
		SET error_count = 0, failure_count = 0, updated_at = now()
		WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear counters: %w", err)
	}
	return nil
}

func (s *PGStore) AdjustScore(ctx context.Context, userID string, delta int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chengyu_sessions (user_id, score, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id)
		DO UPDATE SET score = chengyu_sessions.score + EXCLUDED.score, updated_at = now()
		RETURNING score`, userID, delta).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("adjust score: %w", err)
	}
	return n, nil
}

func (s *PGStore) Score(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT score FROM chengyu_sessions WHERE user_id = $1`, userID).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select score: %w", err)
	}
	return n, nil
}

func (s *PGStore) Close() error {
	return s.db.Close()
}
