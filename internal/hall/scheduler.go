package hall

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"bingo-hall/internal/game"
)

// Clock supplies the scheduler's notion of now.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Tick advances every live game by one step. Ticks never overlap; a fault in
// one game completes that game and the pass continues with the rest.
func (h *Hall) Tick() {
	h.tickMu.Lock()
	defer h.tickMu.Unlock()

	now := h.clock.Now()
	metricTicks.Add(1)
	for _, e := range h.liveEntries() {
		h.tickGame(e, now)
	}
}

func (h *Hall) tickGame(e *gameEntry, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			metricTickFaults.Add(1)
			log.Error().
				Str("game_id", e.engine.ID()).
				Str("room_id", e.roomID).
				Str("panic", fmt.Sprint(r)).
				Msg("game tick panicked; completing game")
			h.publish(e, e.engine.ForceComplete(now, game.ReasonFault))
		}
	}()
	tick := e.engine.Tick
	if e.tick != nil {
		tick = e.tick
	}
	events := tick(now)
	for _, ev := range events {
		if sc, ok := ev.Data.(game.StatusChange); ok && sc.Reason == game.ReasonPoolExhausted {
			log.Info().
				Str("game_id", sc.GameID).
				Str("room_id", e.roomID).
				Msg("number pool exhausted; completing game")
		}
	}
	h.publish(e, events)
}

func (h *Hall) liveEntries() []*gameEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*gameEntry, 0, len(h.games))
	for _, e := range h.games {
		if e.engine.Status() != game.StatusCompleted {
			out = append(out, e)
		}
	}
	return out
}

// Run ticks on the configured interval until ctx is cancelled.
func (h *Hall) Run(ctx context.Context) {
	interval := h.cfg.TickInterval()
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Tick()
		}
	}
}
