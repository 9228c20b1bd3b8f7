package store

import (
	"fmt"
	"sync"

	"github.com/preston-bernstein/football-scoreboard/internal/domain/games"
)

// MemoryStore keeps the tracked games in a thread-safe map keyed by identity.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*games.Game
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]*games.Game),
	}
}

// Add tracks a game under its identity.
func (s *MemoryStore) Add(g *games.Game) error {
	if g == nil {
		return fmt.Errorf("%w: game cannot be nil", games.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[g.ID()]; exists {
		return fmt.Errorf("%w: %q", games.ErrGameExists, g.ID())
	}
	s.games[g.ID()] = g
	return nil
}

// Remove stops tracking the game with the given identity.
func (s *MemoryStore) Remove(id string) error {
	if id == "" {
		return fmt.Errorf("%w: game id cannot be empty", games.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; !exists {
		return fmt.Errorf("%w: %q", games.ErrGameNotFound, id)
	}
	delete(s.games, id)
	return nil
}

// GetByID retrieves a tracked game by identity.
func (s *MemoryStore) GetByID(id string) (*games.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	return g, ok
}

// List returns a fresh slice of every tracked game in no particular order.
func (s *MemoryStore) List() []*games.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*games.Game, 0, len(s.games))
	for _, g := range s.games {
		result = append(result, g)
	}
	return result
}

// Len reports how many games are tracked.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
