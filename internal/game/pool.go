package game

import (
	"math/rand"
	"time"
)

type NumberEntry struct {
	Number   int        `json:"number"`
	Letter   string     `json:"letter"`
	Called   bool       `json:"called"`
	CalledAt *time.Time `json:"called_at,omitempty"`
}

// NumberPool is the reservoir of all 75 callable numbers for one game.
type NumberPool struct {
	rng      *rand.Rand
	entries  []NumberEntry
	uncalled []int
	order    []int
}

func NewNumberPool(rng *rand.Rand) *NumberPool {
	p := &NumberPool{
		rng:      rng,
		entries:  make([]NumberEntry, 0, MaxNumber),
		uncalled: make([]int, 0, MaxNumber),
	}
	for n := 1; n <= MaxNumber; n++ {
		p.entries = append(p.entries, NumberEntry{Number: n, Letter: LetterFor(n)})
	}
	rng.Shuffle(len(p.entries), func(i, j int) {
		p.entries[i], p.entries[j] = p.entries[j], p.entries[i]
	})
	for i := range p.entries {
		p.uncalled = append(p.uncalled, i)
	}
	return p
}

// Draw picks a uniformly random uncalled entry and marks it called. It
// returns false once the pool is exhausted.
func (p *NumberPool) Draw(now time.Time) (NumberEntry, bool) {
	if len(p.uncalled) == 0 {
		return NumberEntry{}, false
	}
	k := p.rng.Intn(len(p.uncalled))
	idx := p.uncalled[k]
	last := len(p.uncalled) - 1
	p.uncalled[k] = p.uncalled[last]
	p.uncalled = p.uncalled[:last]

	at := now
	p.entries[idx].Called = true
	p.entries[idx].CalledAt = &at
	p.order = append(p.order, idx)
	return p.entries[idx], true
}

func (p *NumberPool) Remaining() int {
	return len(p.uncalled)
}

// Called returns called entries in call order.
func (p *NumberPool) Called() []NumberEntry {
	out := make([]NumberEntry, 0, len(p.order))
	for _, idx := range p.order {
		out = append(out, p.entries[idx])
	}
	return out
}

// Recent returns up to n most recent calls, newest first.
func (p *NumberPool) Recent(n int) []NumberEntry {
	if n > len(p.order) {
		n = len(p.order)
	}
	out := make([]NumberEntry, 0, n)
	for i := len(p.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, p.entries[p.order[i]])
	}
	return out
}

func (p *NumberPool) Entries() []NumberEntry {
	out := make([]NumberEntry, len(p.entries))
	copy(out, p.entries)
	return out
}
