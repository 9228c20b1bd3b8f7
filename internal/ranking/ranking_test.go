package ranking

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/preston-bernstein/football-scoreboard/internal/domain/games"
	"github.com/preston-bernstein/football-scoreboard/internal/testutil"
)

func at(minutes int) time.Time {
	return testutil.FixtureEpoch.Add(time.Duration(minutes) * time.Minute)
}

func TestDefaultRejectsNilInput(t *testing.T) {
	_, err := Default().Rank(nil)
	if !errors.Is(err, games.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDefaultRejectsNilElement(t *testing.T) {
	g := testutil.StartedGame(t, "Mexico", "Canada", 0, 5, at(0))
	_, err := Default().Rank([]*games.Game{g, nil})
	if !errors.Is(err, games.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDefaultEmptyInputReturnsEmpty(t *testing.T) {
	out, err := Default().Rank([]*games.Game{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", out)
	}
}

func TestDefaultOrdersByTotalThenLatestStart(t *testing.T) {
	mexico := testutil.StartedGame(t, "Mexico", "Canada", 0, 5, at(0))
	spain := testutil.StartedGame(t, "Spain", "Brazil", 10, 2, at(1))
	germany := testutil.StartedGame(t, "Germany", "France", 2, 2, at(2))
	uruguay := testutil.StartedGame(t, "Uruguay", "Italy", 6, 6, at(3))
	argentina := testutil.StartedGame(t, "Argentina", "Australia", 3, 1, at(4))

	out, err := Default().Rank([]*games.Game{mexico, spain, germany, uruguay, argentina})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := testutil.IDs(out), testutil.WorldCupSummaryOrder(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDefaultIsIndependentOfInputOrder(t *testing.T) {
	var list []*games.Game
	for i, m := range testutil.WorldCupFixture() {
		list = append(list, testutil.StartedGame(t, m.Home, m.Away, m.HomeScore, m.AwayScore, at(i)))
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(list), func(a, b int) { list[a], list[b] = list[b], list[a] })
		out, err := Default().Rank(list)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, want := testutil.IDs(out), testutil.WorldCupSummaryOrder(); !slices.Equal(got, want) {
			t.Fatalf("shuffle %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestDefaultAdjacentPairsAreOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var list []*games.Game
	for i := 0; i < 40; i++ {
		list = append(list, testutil.StartedGame(t,
			"Home"+string(rune('A'+i%26))+string(rune('a'+i/26)),
			"Away",
			rng.Intn(5), rng.Intn(5), at(rng.Intn(10)),
		))
	}

	out, err := Default().Rank(list)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(out); i++ {
		a, b := out[i-1], out[i]
		if a.TotalScore() > b.TotalScore() {
			continue
		}
		if a.TotalScore() < b.TotalScore() {
			t.Fatalf("total out of order at %d: %d < %d", i, a.TotalScore(), b.TotalScore())
		}
		sa, _ := a.StartTime()
		sb, _ := b.StartTime()
		if sa.Before(sb) {
			t.Fatalf("start out of order at %d: %s before %s", i, sa, sb)
		}
	}
}

func TestDefaultKeepsInputOrderOnFullTie(t *testing.T) {
	first := testutil.StartedGame(t, "A", "B", 1, 1, at(0))
	second := testutil.StartedGame(t, "C", "D", 2, 0, at(0))
	third := testutil.StartedGame(t, "E", "F", 0, 2, at(0))

	out, err := Default().Rank([]*games.Game{second, third, first})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"C|D", "E|F", "A|B"}
	if got := testutil.IDs(out); !slices.Equal(got, want) {
		t.Fatalf("expected stable order %v, got %v", want, got)
	}
}

func TestDefaultPlacesNotStartedLast(t *testing.T) {
	idle := testutil.NewGame(t, "Idle", "Team", testutil.NowAt(at(0)))
	live := testutil.StartedGame(t, "Live", "Team", 0, 0, at(0))

	out, err := Default().Rank([]*games.Game{idle, live})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.IDs(out); !slices.Equal(got, []string{"Live|Team", "Idle|Team"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestDefaultDoesNotMutateInputOrGames(t *testing.T) {
	low := testutil.StartedGame(t, "Low", "Score", 0, 0, at(0))
	high := testutil.StartedGame(t, "High", "Score", 4, 4, at(1))
	input := []*games.Game{low, high}

	out, err := Default().Rank(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input[0] != low || input[1] != high {
		t.Fatalf("expected input slice untouched")
	}
	if high.HomeScore() != 4 || low.TotalScore() != 0 {
		t.Fatalf("expected games untouched")
	}

	out[0] = nil
	if input[1] != high {
		t.Fatalf("expected result to be a fresh slice")
	}
}

func TestFuncAdaptsCustomPolicy(t *testing.T) {
	a := testutil.StartedGame(t, "A", "B", 5, 5, at(0))
	b := testutil.StartedGame(t, "C", "D", 0, 0, at(1))

	lowestFirst := Func(func(list []*games.Game) ([]*games.Game, error) {
		out := slices.Clone(list)
		slices.SortFunc(out, func(x, y *games.Game) int { return x.TotalScore() - y.TotalScore() })
		return out, nil
	})

	var r Ranker = lowestFirst
	out, err := r.Rank([]*games.Game{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.IDs(out); !slices.Equal(got, []string{"C|D", "A|B"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestDefaultReadsConsistentKeysUnderConcurrentUpdates(t *testing.T) {
	a := testutil.StartedGame(t, "A", "B", 0, 0, at(0))
	b := testutil.StartedGame(t, "C", "D", 0, 0, at(1))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = a.UpdateScore(i%7, i%5)
		}
	}()
	for i := 0; i < 200; i++ {
		out, err := Default().Rank([]*games.Game{a, b})
		if err != nil || len(out) != 2 {
			t.Fatalf("unexpected result %v (err=%v)", testutil.IDs(out), err)
		}
	}
	<-done
}
