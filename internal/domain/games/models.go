package games

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// IdentitySeparator joins the home and away team names into a game identity.
// Team names are not escaped, so names containing it may collide.
const IdentitySeparator = "|"

// Identity derives the game identity from the two team names.
func Identity(homeTeam, awayTeam string) string {
	return homeTeam + IdentitySeparator + awayTeam
}

// Option customizes a Game at construction.
type Option func(*Game)

// WithClock overrides the clock used to stamp the start time.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		if now != nil {
			g.now = now
		}
	}
}

// Game is a single contest between a home and an away team.
type Game struct {
	id       string
	homeTeam string
	awayTeam string
	now      func() time.Time

	mu        sync.RWMutex
	homeScore int
	awayScore int
	startTime time.Time
	started   bool
}

// New builds a not-started game with a 0-0 score.
func New(homeTeam, awayTeam string, opts ...Option) (*Game, error) {
	if strings.TrimSpace(homeTeam) == "" || strings.TrimSpace(awayTeam) == "" {
		return nil, fmt.Errorf("%w: team names cannot be empty", ErrInvalidArgument)
	}

	g := &Game{
		id:       Identity(homeTeam, awayTeam),
		homeTeam: homeTeam,
		awayTeam: awayTeam,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// ID returns the identity derived from the team names.
func (g *Game) ID() string { return g.id }

// HomeTeam returns the home team name.
func (g *Game) HomeTeam() string { return g.homeTeam }

// AwayTeam returns the away team name.
func (g *Game) AwayTeam() string { return g.awayTeam }

// Start stamps the start time. A game starts at most once.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return fmt.Errorf("%w: game %q has already started", ErrInvalidState, g.id)
	}
	g.startTime = g.now()
	g.started = true
	return nil
}

// UpdateScore replaces both scores. The game must have started.
func (g *Game) UpdateScore(homeScore, awayScore int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started {
		return fmt.Errorf("%w: game %q must start before its score is updated", ErrInvalidState, g.id)
	}
	if homeScore < 0 || awayScore < 0 {
		return fmt.Errorf("%w: scores cannot be negative (home=%d, away=%d)", ErrInvalidArgument, homeScore, awayScore)
	}
	g.homeScore = homeScore
	g.awayScore = awayScore
	return nil
}

// Score returns the home and away scores read together.
func (g *Game) Score() (home, away int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.homeScore, g.awayScore
}

// HomeScore returns the current home score.
func (g *Game) HomeScore() int {
	home, _ := g.Score()
	return home
}

// AwayScore returns the current away score.
func (g *Game) AwayScore() int {
	_, away := g.Score()
	return away
}

// TotalScore returns the combined score of both teams.
func (g *Game) TotalScore() int {
	home, away := g.Score()
	return home + away
}

// StartTime reports when the game started; ok is false until Start succeeds.
func (g *Game) StartTime() (t time.Time, ok bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.startTime, g.started
}

// RankKey reads the total score and start time under one lock.
func (g *Game) RankKey() (total int, start time.Time, started bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.homeScore + g.awayScore, g.startTime, g.started
}

// Started reports whether Start has succeeded.
func (g *Game) Started() bool {
	_, ok := g.StartTime()
	return ok
}

// Score captures home and away goals.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// View is an immutable copy of a game's state, safe to serialize.
type View struct {
	ID        string     `json:"id"`
	HomeTeam  string     `json:"homeTeam"`
	AwayTeam  string     `json:"awayTeam"`
	Score     Score      `json:"score"`
	Total     int        `json:"total"`
	StartTime *time.Time `json:"startTime,omitempty"`
}

// View snapshots the game under a single read lock.
func (g *Game) View() View {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v := View{
		ID:       g.id,
		HomeTeam: g.homeTeam,
		AwayTeam: g.awayTeam,
		Score:    Score{Home: g.homeScore, Away: g.awayScore},
		Total:    g.homeScore + g.awayScore,
	}
	if g.started {
		start := g.startTime
		v.StartTime = &start
	}
	return v
}

// Views snapshots every game in order.
func Views(list []*Game) []View {
	out := make([]View, 0, len(list))
	for _, g := range list {
		if g == nil {
			continue
		}
		out = append(out, g.View())
	}
	return out
}
