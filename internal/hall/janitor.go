package hall

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"bingo-hall/internal/game"
)

// Sweep drops completed games older than the retention window, together
// with their cards, slot reservations and event feeds. When an archiver is
// set each game is archived first; a failed archive keeps the game for the
// next sweep.
func (h *Hall) Sweep(ctx context.Context) int {
	now := h.clock.Now()
	retention := h.cfg.Retention()

	h.mu.RLock()
	archive := h.archive
	var expired []string
	for id, e := range h.games {
		st := e.engine.Snapshot()
		if st.Status != game.StatusCompleted || st.CompletedAt == nil {
			continue
		}
		if now.Sub(*st.CompletedAt) >= retention {
			expired = append(expired, id)
		}
	}
	h.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		e, err := h.entry(id)
		if err != nil {
			continue
		}
		if archive != nil {
			if err := archive.ArchiveGame(ctx, e.engine.Snapshot(), e.engine.CalledNumbers()); err != nil {
				log.Error().Err(err).Str("game_id", id).Msg("archive game failed")
				continue
			}
		}
		h.remove(id, e)
		removed++
	}
	if removed > 0 {
		metricGamesSwept.Add(int64(removed))
		log.Info().Int("removed", removed).Msg("swept completed games")
	}
	return removed
}

func (h *Hall) remove(id string, e *gameEntry) {
	cardIDs := e.engine.CardIDs()
	h.mu.Lock()
	delete(h.games, id)
	delete(h.slots, slotKey(e.roomID, e.slot))
	for _, cid := range cardIDs {
		delete(h.cards, cid)
	}
	ids := h.byRoom[e.roomID]
	for i, gid := range ids {
		if gid == id {
			h.byRoom[e.roomID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	h.mu.Unlock()
	e.events.Close()
}

func (h *Hall) StartJanitor(ctx context.Context) {
	interval := h.cfg.JanitorInterval()
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Sweep(ctx)
			}
		}
	}()
}
