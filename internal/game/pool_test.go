package game

import (
	"math/rand"
	"testing"
	"time"
)

func TestNumberPoolNeverRepeats(t *testing.T) {
	pool := NewNumberPool(rand.New(rand.NewSource(3)))
	seen := map[int]bool{}
	now := time.Unix(0, 0)
	for i := 0; i < MaxNumber; i++ {
		e, ok := pool.Draw(now)
		if !ok {
			t.Fatalf("pool exhausted early after %d draws", i)
		}
		if seen[e.Number] {
			t.Fatalf("number %d called twice", e.Number)
		}
		if e.Letter != LetterFor(e.Number) || !e.Called || e.CalledAt == nil {
			t.Fatalf("bad entry: %+v", e)
		}
		seen[e.Number] = true
	}
	if _, ok := pool.Draw(now); ok {
		t.Fatalf("expected exhausted pool")
	}
	if pool.Remaining() != 0 || len(pool.Called()) != MaxNumber {
		t.Fatalf("remaining=%d called=%d", pool.Remaining(), len(pool.Called()))
	}
}

func TestNumberPoolRecentNewestFirst(t *testing.T) {
	pool := NewNumberPool(rand.New(rand.NewSource(9)))
	var drawn []int
	for i := 0; i < 7; i++ {
		e, _ := pool.Draw(time.Now())
		drawn = append(drawn, e.Number)
	}
	recent := pool.Recent(5)
	if len(recent) != 5 {
		t.Fatalf("expected 5 recent, got %d", len(recent))
	}
	for i, e := range recent {
		if want := drawn[len(drawn)-1-i]; e.Number != want {
			t.Fatalf("recent[%d] = %d, want %d", i, e.Number, want)
		}
	}
	if got := len(pool.Recent(100)); got != 7 {
		t.Fatalf("Recent(100) = %d entries, want 7", got)
	}
}
