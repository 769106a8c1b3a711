package hall

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"bingo-hall/internal/config"
	"bingo-hall/internal/game"
	"bingo-hall/internal/stream"
)

const (
	RoomFree    = "free"
	RoomPremium = "premium"

	eventBacklog = 256
	recentCalls  = 5
)

// Room is a fixed lobby. Rooms are created once and never removed.
type Room struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Currency    game.Currency `json:"currency"`
	Capacity    int           `json:"capacity"`
	TicketPrice int64         `json:"ticket_price"`
	SeedPrize   int64         `json:"seed_prize"`
	WaveEvery   time.Duration `json:"-"`
}

type RoomView struct {
	Room
	Occupancy int      `json:"occupancy"`
	GameIDs   []string `json:"game_ids"`
}

// PayoutSink receives every appended Winner for crediting by the wallet.
type PayoutSink interface {
	Submit(w game.Winner)
}

// Archiver stores a summary of a completed game before it is dropped from
// memory.
type Archiver interface {
	ArchiveGame(ctx context.Context, st game.GameState, called []game.NumberEntry) error
}

type gameEntry struct {
	engine *game.Engine
	events *stream.Buffer
	roomID string
	slot   time.Time

	// tick overrides engine.Tick in tests.
	tick func(time.Time) []game.Event
}

// Hall owns the rooms and every live game. Registries are keyed by id and
// cross-reference each other by id only; per-game mutation happens inside
// the game's Engine.
type Hall struct {
	cfg   config.EngineConfig
	clock Clock

	mu        sync.RWMutex
	rng       *rand.Rand
	rooms     map[string]*Room
	roomOrder []string
	games     map[string]*gameEntry
	byRoom    map[string][]string
	cards     map[string]string
	slots     map[string]string

	tickMu sync.Mutex

	payouts PayoutSink
	archive Archiver
}

func New(cfg config.EngineConfig, clock Clock) *Hall {
	if clock == nil {
		clock = SystemClock{}
	}
	seed := cfg.RNGSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	h := &Hall{
		cfg:    cfg,
		clock:  clock,
		rng:    rand.New(rand.NewSource(seed)),
		rooms:  map[string]*Room{},
		games:  map[string]*gameEntry{},
		byRoom: map[string][]string{},
		cards:  map[string]string{},
		slots:  map[string]string{},
	}
	for _, r := range DefaultRooms(cfg) {
		room := r
		h.rooms[room.ID] = &room
		h.roomOrder = append(h.roomOrder, room.ID)
	}
	return h
}

func DefaultRooms(cfg config.EngineConfig) []Room {
	return []Room{
		{
			ID:          RoomFree,
			Name:        "Free Play",
			Currency:    game.CurrencyGold,
			Capacity:    cfg.MaxPlayers * cfg.WaveSlots,
			TicketPrice: 0,
			SeedPrize:   5000,
			WaveEvery:   time.Duration(cfg.FreeWaveEveryMin) * time.Minute,
		},
		{
			ID:          RoomPremium,
			Name:        "Premium",
			Currency:    game.CurrencySweeps,
			Capacity:    cfg.MaxPlayers * cfg.WaveSlots,
			TicketPrice: 1,
			SeedPrize:   50,
			WaveEvery:   time.Duration(cfg.PremiumWaveEveryMin) * time.Minute,
		},
	}
}

func (h *Hall) SetPayoutSink(s PayoutSink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.payouts = s
}

func (h *Hall) SetArchiver(a Archiver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.archive = a
}

func (h *Hall) Now() time.Time {
	return h.clock.Now()
}

// ListRooms returns the fixed room set with live occupancy: players holding
// cards in games that have not completed.
func (h *Hall) ListRooms() []RoomView {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]RoomView, 0, len(h.roomOrder))
	for _, id := range h.roomOrder {
		view := RoomView{Room: *h.rooms[id], GameIDs: []string{}}
		for _, gid := range h.byRoom[id] {
			st := h.games[gid].engine.Snapshot()
			view.GameIDs = append(view.GameIDs, gid)
			if st.Status != game.StatusCompleted {
				view.Occupancy += st.PlayerCount
			}
		}
		out = append(out, view)
	}
	return out
}

// ListGames returns the games whose currency matches the room, ordered by
// scheduled start.
func (h *Hall) ListGames(roomID string) ([]game.GameState, error) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	if !ok {
		h.mu.RUnlock()
		return nil, game.ErrRoomNotFound
	}
	engines := make([]*game.Engine, 0, len(h.games))
	for _, e := range h.games {
		engines = append(engines, e.engine)
	}
	h.mu.RUnlock()

	out := make([]game.GameState, 0, len(engines))
	for _, e := range engines {
		st := e.Snapshot()
		if st.Currency == room.Currency {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledStart.Equal(out[j].ScheduledStart) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScheduledStart.Before(out[j].ScheduledStart)
	})
	return out, nil
}

func (h *Hall) entry(gameID string) (*gameEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.games[gameID]
	if !ok {
		return nil, game.ErrGameNotFound
	}
	return e, nil
}

func (h *Hall) engineRNG() *rand.Rand {
	h.mu.Lock()
	defer h.mu.Unlock()
	return rand.New(rand.NewSource(h.rng.Int63()))
}

func (h *Hall) policy() game.Policy {
	return game.Policy{
		CallIntervalTicks: h.cfg.CallIntervalTicks,
		StartingCountdown: h.cfg.StartingCountdownSec,
		FirstWinShare:     h.cfg.FirstWinShare,
		Payout:            game.PayoutPolicy(h.cfg.PayoutPolicy),
		AutoDaub:          h.cfg.AutoDaub,
	}
}
