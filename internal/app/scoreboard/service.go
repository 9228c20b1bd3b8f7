// Package scoreboard tracks the games currently in progress and ranks them on demand.
package scoreboard

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/football-scoreboard/internal/domain/games"
	"github.com/preston-bernstein/football-scoreboard/internal/logging"
	"github.com/preston-bernstein/football-scoreboard/internal/metrics"
	"github.com/preston-bernstein/football-scoreboard/internal/ranking"
	"github.com/preston-bernstein/football-scoreboard/internal/store"
)

// Repository stores the tracked games keyed by identity.
type Repository interface {
	Add(game *games.Game) error
	Remove(id string) error
	GetByID(id string) (*games.Game, bool)
	List() []*games.Game
}

// Option customizes a Scoreboard at construction.
type Option func(*Scoreboard) error

// WithRepository replaces the default in-memory repository.
func WithRepository(repo Repository) Option {
	return func(s *Scoreboard) error {
		if repo == nil {
			return fmt.Errorf("%w: repository cannot be nil", games.ErrInvalidArgument)
		}
		s.repo = repo
		return nil
	}
}

// WithRanker replaces the default ranking policy.
func WithRanker(r ranking.Ranker) Option {
	return func(s *Scoreboard) error {
		if r == nil {
			return fmt.Errorf("%w: ranker cannot be nil", games.ErrInvalidArgument)
		}
		s.ranker = r
		return nil
	}
}

// WithLogger enables structured logging of scoreboard changes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scoreboard) error {
		s.logger = logger
		return nil
	}
}

// WithRecorder records operation metrics.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(s *Scoreboard) error {
		s.metrics = rec
		return nil
	}
}

// Scoreboard is the registry of games in progress.
// A single mutex serializes every operation so lookups and the mutation they
// guard happen atomically.
type Scoreboard struct {
	mu      sync.Mutex
	repo    Repository
	ranker  ranking.Ranker
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// New builds a Scoreboard backed by an in-memory store and the default ranking.
func New(opts ...Option) (*Scoreboard, error) {
	s := &Scoreboard{
		repo:   store.NewMemoryStore(),
		ranker: ranking.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// StartGame starts the game and begins tracking it.
func (s *Scoreboard) StartGame(game *games.Game) (err error) {
	defer s.observe(metrics.OpStartGame, game, s.now())(&err)

	if game == nil {
		return fmt.Errorf("%w: game cannot be nil", games.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Reject duplicates before Start so the candidate is left untouched.
	if _, exists := s.repo.GetByID(game.ID()); exists {
		return fmt.Errorf("%w: %q", games.ErrGameExists, game.ID())
	}
	if game.Started() {
		return fmt.Errorf("%w: game %q already started", games.ErrInvalidState, game.ID())
	}
	// Reserve the slot first so a failed insert never leaves a started, untracked game.
	if err := s.repo.Add(game); err != nil {
		return err
	}
	if err := game.Start(); err != nil {
		// Started by another holder between the check and here.
		if rmErr := s.repo.Remove(game.ID()); rmErr != nil {
			return errors.Join(err, rmErr)
		}
		return err
	}

	s.metrics.AddActiveGames(1)
	return nil
}

// FinishGame stops tracking the game with the same identity.
func (s *Scoreboard) FinishGame(game *games.Game) (err error) {
	defer s.observe(metrics.OpFinishGame, game, s.now())(&err)

	if game == nil {
		return fmt.Errorf("%w: game cannot be nil", games.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Remove(game.ID()); err != nil {
		return err
	}

	s.metrics.AddActiveGames(-1)
	return nil
}

// UpdateScore sets the score of the tracked game with the same identity.
// The tracked instance is mutated, which may differ from the one passed in.
func (s *Scoreboard) UpdateScore(game *games.Game, homeScore, awayScore int) (err error) {
	defer s.observe(metrics.OpUpdateScore, game, s.now(), logging.FieldHomeScore, homeScore, logging.FieldAwayScore, awayScore)(&err)

	if game == nil {
		return fmt.Errorf("%w: game cannot be nil", games.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tracked, ok := s.repo.GetByID(game.ID())
	if !ok {
		return fmt.Errorf("%w: %q", games.ErrGameNotFound, game.ID())
	}
	return tracked.UpdateScore(homeScore, awayScore)
}

// Summary returns the tracked games ranked by the configured policy.
// The default policy never fails. A custom policy's error is wrapped and
// returned with no partial or unranked result.
func (s *Scoreboard) Summary() ([]*games.Game, error) {
	ranked, err := s.summary()
	if err != nil {
		logging.Warn(s.logger, "scoreboard operation rejected", slog.String("operation", metrics.OpSummary), "error", err)
		return nil, err
	}
	return ranked, nil
}

func (s *Scoreboard) summary() (ranked []*games.Game, err error) {
	start := s.now()
	defer func() { s.metrics.RecordOperation(metrics.OpSummary, s.now().Sub(start), err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.repo.List()
	if snapshot == nil {
		snapshot = []*games.Game{}
	}
	ranked, err = s.ranker.Rank(snapshot)
	if err != nil {
		return nil, fmt.Errorf("rank summary: %w", err)
	}
	// Materialize so callers never share backing storage with the ranker.
	out := make([]*games.Game, len(ranked))
	copy(out, ranked)
	return out, nil
}

// GameByID returns the tracked game with the given identity.
func (s *Scoreboard) GameByID(id string) (*games.Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.GetByID(id)
}

// Len reports how many games are being tracked.
func (s *Scoreboard) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.repo.List())
}

// observe logs and records the outcome of a mutating operation.
// Usage: defer s.observe(op, game, start)(&err).
func (s *Scoreboard) observe(op string, game *games.Game, start time.Time, args ...any) func(*error) {
	return func(errp *error) {
		err := *errp
		s.metrics.RecordOperation(op, s.now().Sub(start), err)

		id := ""
		if game != nil {
			id = game.ID()
		}
		args = append(args, slog.String(logging.FieldGameID, id), slog.String("operation", op))
		if err != nil {
			logging.Warn(s.logger, "scoreboard operation rejected", append(args, "error", err)...)
			return
		}
		logging.Info(s.logger, "scoreboard updated", args...)
	}
}
