package testutil

import (
	"testing"
	"time"

	"github.com/preston-bernstein/football-scoreboard/internal/domain/games"
)

// Match is a fixture entry: two teams and the score they reach.
type Match struct {
	Home      string
	Away      string
	HomeScore int
	AwayScore int
}

// WorldCupFixture lists matches in the order they start.
func WorldCupFixture() []Match {
	return []Match{
		{Home: "Mexico", Away: "Canada", HomeScore: 0, AwayScore: 5},
		{Home: "Spain", Away: "Brazil", HomeScore: 10, AwayScore: 2},
		{Home: "Germany", Away: "France", HomeScore: 2, AwayScore: 2},
		{Home: "Uruguay", Away: "Italy", HomeScore: 6, AwayScore: 6},
		{Home: "Argentina", Away: "Australia", HomeScore: 3, AwayScore: 1},
	}
}

// WorldCupSummaryOrder is the ranked identity order for WorldCupFixture.
func WorldCupSummaryOrder() []string {
	return []string{
		"Uruguay|Italy",
		"Spain|Brazil",
		"Mexico|Canada",
		"Argentina|Australia",
		"Germany|France",
	}
}

// FixtureEpoch anchors fixture clocks.
var FixtureEpoch = time.Date(2024, 6, 14, 18, 0, 0, 0, time.UTC)

// NewGame builds a game or fails the test.
func NewGame(t testing.TB, home, away string, now func() time.Time) *games.Game {
	t.Helper()
	g, err := games.New(home, away, games.WithClock(now))
	if err != nil {
		t.Fatalf("failed to build game %s vs %s: %v", home, away, err)
	}
	return g
}

// StartedGame builds a game, starts it, and sets its score.
func StartedGame(t testing.TB, home, away string, homeScore, awayScore int, at time.Time) *games.Game {
	t.Helper()
	g := NewGame(t, home, away, NowAt(at))
	if err := g.Start(); err != nil {
		t.Fatalf("failed to start %s: %v", g.ID(), err)
	}
	if err := g.UpdateScore(homeScore, awayScore); err != nil {
		t.Fatalf("failed to score %s: %v", g.ID(), err)
	}
	return g
}

// IDs returns the identities of games in order.
func IDs(list []*games.Game) []string {
	out := make([]string, 0, len(list))
	for _, g := range list {
		out = append(out, g.ID())
	}
	return out
}
