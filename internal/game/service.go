// Package game implements the idiom chain engine: validating player moves
// against the dictionary, advancing the per-user chain, and keeping the
// error, failure and score tallies in the session store.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/moyansheep/chengyu-chain-bot/internal/dict"
	"github.com/moyansheep/chengyu-chain-bot/internal/obslog"
	"github.com/moyansheep/chengyu-chain-bot/internal/store"
)

var (
	ErrNilDictionary = errors.New("game: dictionary index is required")
	ErrNilStore      = errors.New("game: session store is required")
	ErrNotFound      = errors.New("game: idiom not found")
)

// Outcome classifies what a submitted move did to the session.
type Outcome string

const (
	// OutcomeSeeded: no chain was running, so a random idiom was picked
	// and the submission itself was not judged.
	OutcomeSeeded Outcome = "seeded"
	// OutcomeAccepted: the move connected and the engine answered with
	// the next idiom in the chain.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeUnknown: the submission is not in the dictionary.
	OutcomeUnknown Outcome = "unknown_idiom"
	// OutcomeMismatch: the submission is a real idiom but does not
	// connect to the current one.
	OutcomeMismatch Outcome = "mismatch"
	// OutcomeDeadEnd: the move was legal but the engine has no reply.
	// The chain stays on the current idiom so the player can try again.
	OutcomeDeadEnd Outcome = "dead_end"
)

type SubmitResult struct {
	Outcome   Outcome
	Submitted string
	// Current is the idiom the chain sits on after the move.
	Current string
	// Next is the engine's reply idiom, set only for OutcomeAccepted.
	Next string
	// Awarded and Score are set when the move earned points.
	Awarded int
	Score   int
}

type Config struct {
	// PhoneticFallback allows moves and replies to connect on matching
	// pinyin syllables when the exact character does not.
	PhoneticFallback bool
	// PointsPerChain is awarded for every accepted move.
	PointsPerChain int
	// Rand supplies the idiom picker. A fixed-seed source makes runs
	// reproducible; nil gets a time-seeded one.
	Rand *rand.Rand
}

type Service struct {
	ix    *dict.Index
	store store.Store
	cfg   Config
	log   *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	usersMu sync.Mutex
	users   map[string]*sync.Mutex
}

func NewService(ix *dict.Index, st store.Store, cfg Config) (*Service, error) {
	if ix == nil {
		return nil, ErrNilDictionary
	}
	if st == nil {
		return nil, ErrNilStore
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		ix:    ix,
		store: st,
		cfg:   cfg,
		log:   obslog.L().Named("game"),
		rng:   rng,
		users: make(map[string]*sync.Mutex),
	}, nil
}

// userLock serializes moves per user; different users never block each other.
func (s *Service) userLock(userID string) *sync.Mutex {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	mu, ok := s.users[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.users[userID] = mu
	}
	return mu
}

func (s *Service) randomIdiom() string {
	texts := s.ix.Texts()
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return texts[s.rng.Intn(len(texts))]
}

func (s *Service) pick(candidates []string) string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return candidates[s.rng.Intn(len(candidates))]
}

func (s *Service) canChain(prev, next *dict.Record) bool {
	if prev.TailChar() == next.LeadChar() {
		return true
	}
	return s.cfg.PhoneticFallback && prev.TailSyllable() == next.LeadSyllable()
}

// CanChain reports whether b may follow a. Texts that do not resolve in
// the dictionary make the predicate false, never an error.
func (s *Service) CanChain(a, b string) bool {
	ra, ok := s.ix.Lookup(strings.TrimSpace(a))
	if !ok {
		return false
	}
	rb, ok := s.ix.Lookup(strings.TrimSpace(b))
	if !ok {
		return false
	}
	return s.canChain(ra, rb)
}

// replies lists the idioms that may follow r, excluding r itself.
// Exact-character continuations win; the pinyin bucket is consulted only
// when the character bucket is empty and the fallback is enabled.
func (s *Service) replies(r *dict.Record) []string {
	var out []string
	for _, text := range s.ix.StartingWithChar(r.TailChar()) {
		if text != r.Text {
			out = append(out, text)
		}
	}
	if len(out) > 0 || !s.cfg.PhoneticFallback {
		return out
	}
	for _, text := range s.ix.StartingWithSyllable(r.TailSyllable()) {
		if text != r.Text {
			out = append(out, text)
		}
	}
	return out
}

// currentRecord loads the user's chain head. A persisted idiom that is no
// longer in the dictionary is treated as absent so the chain reseeds.
func (s *Service) currentRecord(ctx context.Context, userID string) (*dict.Record, error) {
	idiom, ok, err := s.store.GetCurrent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load current idiom: %w", err)
	}
	if !ok {
		return nil, nil
	}
	rec, ok := s.ix.Lookup(idiom)
	if !ok {
		s.log.Warn("persisted idiom missing from dictionary, reseeding",
			zap.String("user", userID), zap.String("idiom", idiom))
		return nil, nil
	}
	return rec, nil
}

// Submit plays one move for the user. With no chain running the move is
// not judged; a random idiom is seeded instead and the player is invited
// to continue from it.
func (s *Service) Submit(ctx context.Context, userID, text string) (*SubmitResult, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	text = strings.TrimSpace(text)
	cur, err := s.currentRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		seed := s.randomIdiom()
		if err := s.store.SetCurrent(ctx, userID, seed); err != nil {
			return nil, fmt.Errorf("seed chain: %w", err)
		}
		s.log.Info("chain seeded", zap.String("user", userID), zap.String("idiom", seed))
		return &SubmitResult{Outcome: OutcomeSeeded, Submitted: text, Current: seed}, nil
	}

	rec, ok := s.ix.Lookup(text)
	if !ok {
		if _, err := s.store.IncrementError(ctx, userID); err != nil {
			return nil, fmt.Errorf("count error: %w", err)
		}
		return &SubmitResult{Outcome: OutcomeUnknown, Submitted: text, Current: cur.Text}, nil
	}
	if !s.canChain(cur, rec) {
		if _, err := s.store.IncrementError(ctx, userID); err != nil {
			return nil, fmt.Errorf("count error: %w", err)
		}
		return &SubmitResult{Outcome: OutcomeMismatch, Submitted: text, Current: cur.Text}, nil
	}

	candidates := s.replies(rec)
	if len(candidates) == 0 {
		// Legal move with no reply: keep the chain where it is so the
		// player can pick a different continuation.
		if _, err := s.store.IncrementFailure(ctx, userID); err != nil {
			return nil, fmt.Errorf("count failure: %w", err)
		}
		s.log.Info("dead end", zap.String("user", userID), zap.String("idiom", text))
		return &SubmitResult{Outcome: OutcomeDeadEnd, Submitted: text, Current: cur.Text}, nil
	}

	next := s.pick(candidates)
	if err := s.store.SetCurrent(ctx, userID, next); err != nil {
		return nil, fmt.Errorf("advance chain: %w", err)
	}
	res := &SubmitResult{Outcome: OutcomeAccepted, Submitted: text, Current: next, Next: next}
	if s.cfg.PointsPerChain > 0 {
		total, err := s.store.AdjustScore(ctx, userID, s.cfg.PointsPerChain)
		if err != nil {
			return nil, fmt.Errorf("award points: %w", err)
		}
		res.Awarded = s.cfg.PointsPerChain
		res.Score = total
	}
	s.log.Info("move accepted",
		zap.String("user", userID), zap.String("move", text), zap.String("reply", next))
	return res, nil
}

// Current returns the idiom the user's chain sits on, if a chain is running.
func (s *Service) Current(ctx context.Context, userID string) (string, bool, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	rec, err := s.currentRecord(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if rec == nil {
		return "", false, nil
	}
	return rec.Text, true, nil
}

// Reset abandons the user's chain, zeroes the error and failure counters
// and seeds a fresh random idiom. The score is kept.
func (s *Service) Reset(ctx context.Context, userID string) (string, error) {
	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	seed := s.randomIdiom()
	if err := s.store.SetCurrent(ctx, userID, seed); err != nil {
		return "", fmt.Errorf("reset chain: %w", err)
	}
	if err := s.store.ClearCounters(ctx, userID); err != nil {
		return "", fmt.Errorf("reset counters: %w", err)
	}
	s.log.Info("chain reset", zap.String("user", userID), zap.String("idiom", seed))
	return seed, nil
}

// Meaning looks up the dictionary card for an idiom.
func (s *Service) Meaning(text string) (*dict.Record, error) {
	rec, ok := s.ix.Lookup(strings.TrimSpace(text))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, text)
	}
	return rec, nil
}

// Stats reports the user's counters and score.
func (s *Service) Stats(ctx context.Context, userID string) (store.Counters, int, error) {
	c, err := s.store.Counters(ctx, userID)
	if err != nil {
		return store.Counters{}, 0, fmt.Errorf("load counters: %w", err)
	}
	score, err := s.store.Score(ctx, userID)
	if err != nil {
		return store.Counters{}, 0, fmt.Errorf("load score: %w", err)
	}
	return c, score, nil
}
