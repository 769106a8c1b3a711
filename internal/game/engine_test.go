package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, maxPlayers int, patternID string, policy Policy) *Engine {
	t.Helper()
	p, ok := PatternByID(patternID)
	if !ok {
		t.Fatalf("unknown pattern %s", patternID)
	}
	return NewEngine(GameState{
		ID:              "game-1",
		RoomID:          "free",
		Currency:        CurrencyGold,
		TicketPrice:     0,
		MaxPlayers:      maxPlayers,
		ScheduledStart:  t0,
		DurationMinutes: 10,
		Pattern:         p,
		PrizePool:       5000,
	}, policy, rand.New(rand.NewSource(11)))
}

func TestJoinGuards(t *testing.T) {
	e := newTestEngine(t, 2, PatternFourCorners, DefaultPolicy())
	a, _, err := e.Join("alice", "Alice", t0)
	if err != nil {
		t.Fatalf("join alice: %v", err)
	}
	b, _, err := e.Join("bob", "Bob", t0)
	if err != nil {
		t.Fatalf("join bob: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct card ids")
	}
	if _, _, err := e.Join("carol", "Carol", t0); !errors.Is(err, ErrGameFull) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected game_full conflict, got %v", err)
	}
	if _, _, err := e.Join("alice", "Alice", t0); !errors.Is(err, ErrDuplicateCard) {
		t.Fatalf("expected duplicate_card, got %v", err)
	}
	if _, _, err := e.Join("", "", t0); !errors.Is(err, ErrInvalidPlayer) {
		t.Fatalf("expected invalid_player, got %v", err)
	}
	if got := e.Snapshot().PlayerCount; got != 2 {
		t.Fatalf("player count = %d, want 2", got)
	}
}

func TestJoinAfterStartConflicts(t *testing.T) {
	e := newTestEngine(t, 10, PatternFourCorners, DefaultPolicy())
	e.Tick(t0)
	if _, _, err := e.Join("alice", "Alice", t0); !errors.Is(err, ErrGameAlreadyStarted) {
		t.Fatalf("expected game_already_started, got %v", err)
	}
}

func TestJoinAddsTicketToPool(t *testing.T) {
	e := newTestEngine(t, 10, PatternFourCorners, DefaultPolicy())
	e.state.TicketPrice = 10
	if _, _, err := e.Join("alice", "Alice", t0); err != nil {
		t.Fatalf("join: %v", err)
	}
	s := e.Snapshot()
	if s.PrizePool != 5010 || s.PrizeRemaining != 5010 {
		t.Fatalf("pool=%d remaining=%d, want 5010", s.PrizePool, s.PrizeRemaining)
	}
}

func TestFourCornersWinRecordedOnce(t *testing.T) {
	e := newTestEngine(t, 10, PatternFourCorners, DefaultPolicy())
	card, _, err := e.Join("alice", "Alice", t0)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, _, err := e.ForceStart(t0); err != nil {
		t.Fatalf("force start: %v", err)
	}
	corners := [][2]int{{0, 0}, {0, 4}, {4, 0}}
	for _, c := range corners {
		got, events, err := e.ToggleMark(card.ID, c[0], c[1], t0)
		if err != nil {
			t.Fatalf("mark: %v", err)
		}
		if got.IsWinner || len(events) != 0 {
			t.Fatalf("won too early at %v", c)
		}
	}
	got, events, err := e.ToggleMark(card.ID, 4, 4, t0)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !got.IsWinner || got.WinningPattern == "" {
		t.Fatalf("expected winner, got %+v", got)
	}
	if len(events) != 1 || events[0].Type != EventWinner {
		t.Fatalf("expected one winner event, got %+v", events)
	}
	// re-evaluation via further toggles must not append again
	e.ToggleMark(card.ID, 1, 1, t0)
	e.ToggleMark(card.ID, 1, 1, t0)
	e.ToggleMark(card.ID, 0, 0, t0)
	e.ToggleMark(card.ID, 0, 0, t0)

	s := e.Snapshot()
	if len(s.Winners) != 1 {
		t.Fatalf("winners = %d, want 1", len(s.Winners))
	}
	if s.Winners[0].Prize != 2500 || s.Winners[0].Currency != CurrencyGold {
		t.Fatalf("unexpected winner %+v", s.Winners[0])
	}
	if after, _ := e.Card(card.ID); !after.IsWinner {
		t.Fatalf("winner flag should persist")
	}
}

func TestSecondWinnerPolicies(t *testing.T) {
	tests := []struct {
		policy PayoutPolicy
		second int64
	}{
		{PayoutHalfOfRemaining, 1250},
		{PayoutHalfOfOriginal, 2500},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			pol := DefaultPolicy()
			pol.Payout = tt.policy
			e := newTestEngine(t, 10, PatternFourCorners, pol)
			var cards []Card
			for _, p := range []string{"a", "b"} {
				card, _, err := e.Join(p, p, t0)
				if err != nil {
					t.Fatalf("join: %v", err)
				}
				cards = append(cards, card)
			}
			if _, _, err := e.ForceStart(t0); err != nil {
				t.Fatalf("force start: %v", err)
			}
			for _, card := range cards {
				for _, c := range [][2]int{{0, 0}, {0, 4}, {4, 0}, {4, 4}} {
					if _, _, err := e.ToggleMark(card.ID, c[0], c[1], t0); err != nil {
						t.Fatalf("mark: %v", err)
					}
				}
			}
			w := e.Snapshot().Winners
			if len(w) != 2 {
				t.Fatalf("winners = %d, want 2", len(w))
			}
			if w[1].Prize != tt.second {
				t.Fatalf("second prize = %d, want %d", w[1].Prize, tt.second)
			}
		})
	}
}

func TestToggleMarkErrors(t *testing.T) {
	e := newTestEngine(t, 10, PatternFourCorners, DefaultPolicy())
	card, _, _ := e.Join("alice", "Alice", t0)

	if _, _, err := e.ToggleMark("nope", 0, 0, t0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	for _, rc := range [][2]int{{-1, 0}, {0, 5}, {5, 5}} {
		if _, _, err := e.ToggleMark(card.ID, rc[0], rc[1], t0); !errors.Is(err, ErrInvalidCell) {
			t.Fatalf("cell %v: expected invalid_cell, got %v", rc, err)
		}
	}
	if _, _, err := e.ToggleMark(card.ID, 0, 0, t0); !errors.Is(err, ErrGameNotStarted) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected game_not_started while waiting, got %v", err)
	}
	e.Tick(t0)
	if _, _, err := e.ToggleMark(card.ID, 0, 0, t0); !errors.Is(err, ErrGameNotStarted) {
		t.Fatalf("expected game_not_started while starting, got %v", err)
	}
	if _, _, err := e.ForceStart(t0); err != nil {
		t.Fatalf("force start: %v", err)
	}
	got, _, err := e.ToggleMark(card.ID, center, center, t0)
	if err != nil || !got.Marks[center][center] {
		t.Fatalf("centre should stay marked, err=%v", err)
	}
	e.ForceComplete(t0, "test")
	if _, _, err := e.ToggleMark(card.ID, 0, 0, t0); !errors.Is(err, ErrGameCompleted) {
		t.Fatalf("expected game_completed, got %v", err)
	}
}

func TestTickLifecycle(t *testing.T) {
	e := newTestEngine(t, 10, PatternFullHouse, DefaultPolicy())
	e.state.ScheduledStart = t0.Add(10 * time.Second)

	now := t0
	for i := 0; i < 10; i++ {
		e.Tick(now)
		if s := e.Status(); s != StatusWaiting {
			t.Fatalf("t=%d: status %s, want waiting", i, s)
		}
		now = now.Add(time.Second)
	}
	// t=10 reaches the scheduled start, then 30 seconds of countdown
	for i := 0; i <= 30; i++ {
		e.Tick(now)
		want := StatusStarting
		if i == 30 {
			want = StatusInProgress
		}
		if s := e.Status(); s != want {
			t.Fatalf("t=%d: status %s, want %s", 10+i, s, want)
		}
		now = now.Add(time.Second)
	}
	s := e.Snapshot()
	if s.TimeRemaining != 600 || s.StartedAt == nil {
		t.Fatalf("in-progress state wrong: remaining=%d started=%v", s.TimeRemaining, s.StartedAt)
	}
}

func TestTwentyFiveTicksDrawFive(t *testing.T) {
	e := newTestEngine(t, 10, PatternFullHouse, DefaultPolicy())
	if _, _, err := e.ForceStart(t0); err != nil {
		t.Fatalf("force start: %v", err)
	}
	now := t0
	for i := 0; i < 25; i++ {
		now = now.Add(time.Second)
		e.Tick(now)
	}
	called := e.CalledNumbers()
	if len(called) != 5 {
		t.Fatalf("called %d numbers, want 5", len(called))
	}
	seen := map[int]bool{}
	for _, c := range called {
		if seen[c.Number] {
			t.Fatalf("duplicate call %d", c.Number)
		}
		seen[c.Number] = true
	}
}

func TestStatusMonotonic(t *testing.T) {
	e := newTestEngine(t, 10, PatternSingleLine, DefaultPolicy())
	e.state.DurationMinutes = 1
	prev := e.Status()
	now := t0.Add(-5 * time.Second)
	for i := 0; i < 200; i++ {
		e.Tick(now)
		cur := e.Status()
		if cur.Before(prev) {
			t.Fatalf("status went backwards: %s -> %s", prev, cur)
		}
		prev = cur
		now = now.Add(time.Second)
	}
	if prev != StatusCompleted {
		t.Fatalf("expected completed after 200 ticks, got %s", prev)
	}
	if r := e.Snapshot().CompletionReason; r != ReasonTimeElapsed {
		t.Fatalf("completion reason %q", r)
	}
}

func TestPoolExhaustionCompletes(t *testing.T) {
	pol := DefaultPolicy()
	pol.CallIntervalTicks = 1
	e := newTestEngine(t, 10, PatternFullHouse, pol)
	e.ForceStart(t0)
	for i := 0; i < MaxNumber+1; i++ {
		e.Tick(t0)
	}
	s := e.Snapshot()
	if s.Status != StatusCompleted || s.CompletionReason != ReasonPoolExhausted {
		t.Fatalf("status=%s reason=%s", s.Status, s.CompletionReason)
	}
	if len(e.CalledNumbers()) != MaxNumber {
		t.Fatalf("called %d", len(e.CalledNumbers()))
	}
}

func TestForceStartGuards(t *testing.T) {
	e := newTestEngine(t, 10, PatternSingleLine, DefaultPolicy())
	if _, _, err := e.ForceStart(t0); err != nil {
		t.Fatalf("force start: %v", err)
	}
	if _, _, err := e.ForceStart(t0); !errors.Is(err, ErrGameAlreadyStarted) {
		t.Fatalf("expected already started, got %v", err)
	}
	e.ForceComplete(t0, "test")
	if _, _, err := e.ForceStart(t0); !errors.Is(err, ErrGameCompleted) {
		t.Fatalf("expected completed, got %v", err)
	}
}

func TestAutoDaubMarksAndWins(t *testing.T) {
	pol := DefaultPolicy()
	pol.AutoDaub = true
	pol.CallIntervalTicks = 1
	e := newTestEngine(t, 10, PatternFullHouse, pol)
	card, _, _ := e.Join("alice", "Alice", t0)
	e.ForceStart(t0)
	var wins int
	for i := 0; i < MaxNumber; i++ {
		for _, ev := range e.Tick(t0) {
			if ev.Type == EventWinner {
				wins++
			}
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want 1", wins)
	}
	got, _ := e.Card(card.ID)
	if !got.IsWinner {
		t.Fatalf("card should have won full house")
	}
}

func TestConcurrentMarksAndTicks(t *testing.T) {
	policy := DefaultPolicy()
	policy.CallIntervalTicks = 1
	policy.AutoDaub = true
	e := newTestEngine(t, 20, PatternFourCorners, policy)

	cards := make([]Card, 0, 20)
	for i := 0; i < 20; i++ {
		c, _, err := e.Join(fmt.Sprintf("p-%d", i), "", t0)
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		cards = append(cards, c)
	}
	if _, _, err := e.ForceStart(t0); err != nil {
		t.Fatalf("force start: %v", err)
	}

	corners := [][2]int{{0, 0}, {0, 4}, {4, 0}, {4, 4}}
	var wg sync.WaitGroup
	for _, c := range cards {
		wg.Add(1)
		go func(cardID string) {
			defer wg.Done()
			for round := 0; round < 10; round++ {
				for _, cell := range corners {
					_, _, err := e.ToggleMark(cardID, cell[0], cell[1], t0)
					if err != nil && !errors.Is(err, ErrGameCompleted) {
						t.Errorf("mark %s: %v", cardID, err)
						return
					}
				}
			}
		}(c.ID)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		now := t0
		for i := 0; i < 200; i++ {
			now = now.Add(time.Second)
			e.Tick(now)
			_ = e.Live(5)
		}
	}()
	wg.Wait()

	s := e.Snapshot()
	if s.Status != StatusCompleted || s.CompletionReason != ReasonPoolExhausted {
		t.Fatalf("status %s reason %q, want completed by pool exhaustion", s.Status, s.CompletionReason)
	}
	winners := map[string]bool{}
	for _, w := range s.Winners {
		if winners[w.CardID] {
			t.Fatalf("card %s recorded as winner twice", w.CardID)
		}
		winners[w.CardID] = true
	}
	called := map[int]bool{}
	for _, n := range e.CalledNumbers() {
		if !n.Called {
			continue
		}
		if called[n.Number] {
			t.Fatalf("number %d called twice", n.Number)
		}
		called[n.Number] = true
	}
	if len(called) != 75 {
		t.Fatalf("called %d numbers, want 75", len(called))
	}
}
