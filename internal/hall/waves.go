package hall

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"bingo-hall/internal/game"
	"bingo-hall/internal/stream"
)

// ScheduleWave makes sure the room has a game for each of the next
// WaveSlots slots on its cadence. Slots that already have a game are
// skipped, so calling it repeatedly is safe. It returns the number of games
// created.
func (h *Hall) ScheduleWave(roomID string) (int, error) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if !ok {
		return 0, game.ErrRoomNotFound
	}
	cadence := room.WaveEvery
	if cadence <= 0 {
		return 0, fmt.Errorf("room %s has no wave cadence", roomID)
	}
	now := h.clock.Now()
	base := now.Truncate(cadence)
	created := 0
	for k := 1; k <= h.cfg.WaveSlots; k++ {
		slot := base.Add(time.Duration(k) * cadence)
		if h.createGame(room, slot, now) {
			created++
		}
	}
	if created > 0 {
		log.Info().Str("room_id", roomID).Int("created", created).Msg("scheduled game wave")
	}
	return created, nil
}

func (h *Hall) createGame(room *Room, slot, now time.Time) bool {
	key := slotKey(room.ID, slot)
	h.mu.RLock()
	_, exists := h.slots[key]
	h.mu.RUnlock()
	if exists {
		return false
	}

	catalog := game.Catalog()
	pattern := catalog[int(slot.Unix()/int64(room.WaveEvery/time.Second))%len(catalog)]
	st := game.GameState{
		ID:              game.NewID(),
		RoomID:          room.ID,
		Currency:        room.Currency,
		TicketPrice:     room.TicketPrice,
		MaxPlayers:      h.cfg.MaxPlayers,
		Status:          game.StatusWaiting,
		ScheduledStart:  slot,
		DurationMinutes: h.cfg.GameDurationMin,
		TimeRemaining:   int(slot.Sub(now).Seconds()),
		Pattern:         pattern,
		PrizePool:       room.SeedPrize,
		PrizeRemaining:  room.SeedPrize,
		IsScheduled:     true,
		NextGameStart:   slot.Add(room.WaveEvery),
	}
	entry := &gameEntry{
		engine: game.NewEngine(st, h.policy(), h.engineRNG()),
		events: stream.NewBuffer(st.ID, eventBacklog),
		roomID: room.ID,
		slot:   slot,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.slots[key]; exists {
		return false
	}
	h.slots[key] = st.ID
	h.games[st.ID] = entry
	h.byRoom[room.ID] = append(h.byRoom[room.ID], st.ID)
	metricGamesCreated.Add(1)
	return true
}

// StartWaves seeds every room immediately and then tops rooms up on their
// own cadence until ctx is cancelled.
func (h *Hall) StartWaves(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.roomOrder))
	for _, id := range h.roomOrder {
		rooms = append(rooms, h.rooms[id])
	}
	h.mu.RUnlock()

	for _, room := range rooms {
		roomID := room.ID
		if _, err := h.ScheduleWave(roomID); err != nil {
			return nil, err
		}
		spec := fmt.Sprintf("@every %s", room.WaveEvery)
		if _, err := c.AddFunc(spec, func() {
			if _, err := h.ScheduleWave(roomID); err != nil {
				log.Error().Err(err).Str("room_id", roomID).Msg("schedule wave failed")
			}
		}); err != nil {
			return nil, fmt.Errorf("add wave job for %s: %w", roomID, err)
		}
	}
	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return c, nil
}

func slotKey(roomID string, slot time.Time) string {
	return fmt.Sprintf("%s@%d", roomID, slot.Unix())
}
