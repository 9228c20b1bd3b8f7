// Package ranking orders games for the scoreboard summary.
package ranking

import (
	"fmt"
	"slices"
	"time"

	"github.com/preston-bernstein/football-scoreboard/internal/domain/games"
)

// Ranker turns a snapshot of games into an ordered sequence.
// Implementations must not mutate the games or retain the slice.
type Ranker interface {
	Rank(list []*games.Game) ([]*games.Game, error)
}

// Func adapts a plain function to Ranker.
type Func func(list []*games.Game) ([]*games.Game, error)

// Rank calls f.
func (f Func) Rank(list []*games.Game) ([]*games.Game, error) {
	return f(list)
}

// Default returns the total-score/start-time policy.
func Default() Ranker {
	return Func(byTotalThenStart)
}

type rankKey struct {
	game    *games.Game
	total   int
	start   time.Time
	started bool
}

// byTotalThenStart orders by total score descending, then start time descending.
// The sort is stable: games equal on both keys keep their input order.
func byTotalThenStart(list []*games.Game) ([]*games.Game, error) {
	if list == nil {
		return nil, fmt.Errorf("%w: games cannot be nil", games.ErrInvalidArgument)
	}

	keys := make([]rankKey, 0, len(list))
	for i, g := range list {
		if g == nil {
			return nil, fmt.Errorf("%w: game at index %d is nil", games.ErrInvalidArgument, i)
		}
		total, start, started := g.RankKey()
		keys = append(keys, rankKey{game: g, total: total, start: start, started: started})
	}

	slices.SortStableFunc(keys, compareKeys)

	out := make([]*games.Game, len(keys))
	for i, k := range keys {
		out[i] = k.game
	}
	return out, nil
}

func compareKeys(a, b rankKey) int {
	if a.total != b.total {
		if a.total > b.total {
			return -1
		}
		return 1
	}
	switch {
	case a.started && !b.started:
		return -1
	case !a.started && b.started:
		return 1
	case !a.started && !b.started:
		return 0
	}
	// Later start first.
	return b.start.Compare(a.start)
}
