package game

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const (
	EventStatusChanged = "status_changed"
	EventNumberCalled  = "number_called"
	EventWinner        = "winner"
	EventPlayerJoined  = "player_joined"

	ReasonTimeElapsed   = "time_elapsed"
	ReasonPoolExhausted = "pool_exhausted"
	ReasonFault         = "fault"
)

// Event is a state change produced while holding the game lock. Callers
// publish events after the lock is released.
type Event struct {
	Type string
	Data any
}

type StatusChange struct {
	GameID        string `json:"game_id"`
	From          Status `json:"from"`
	To            Status `json:"to"`
	TimeRemaining int    `json:"time_remaining"`
	Reason        string `json:"reason,omitempty"`
}

type NumberCall struct {
	GameID    string      `json:"game_id"`
	Entry     NumberEntry `json:"entry"`
	Remaining int         `json:"remaining"`
}

type PlayerJoin struct {
	GameID      string `json:"game_id"`
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	PlayerCount int    `json:"player_count"`
	PrizePool   int64  `json:"prize_pool"`
}

type Policy struct {
	CallIntervalTicks int
	StartingCountdown int
	FirstWinShare     float64
	Payout            PayoutPolicy
	AutoDaub          bool
}

func DefaultPolicy() Policy {
	return Policy{
		CallIntervalTicks: 5,
		StartingCountdown: 30,
		FirstWinShare:     0.5,
		Payout:            PayoutHalfOfRemaining,
	}
}

type LiveState struct {
	GameID              string        `json:"game_id"`
	Status              Status        `json:"status"`
	TimeRemaining       int           `json:"time_remaining"`
	RecentCalledNumbers []NumberEntry `json:"recent_called_numbers"`
	CalledCount         int           `json:"called_count"`
	Winners             []Winner      `json:"winners"`
}

// Engine owns one game: its state, number pool and cards. Every mutation
// (tick, join, mark, force-start) runs under mu, so ticks for one game never
// overlap and each draw and win is recorded exactly once.
type Engine struct {
	mu       sync.Mutex
	state    GameState
	policy   Policy
	pool     *NumberPool
	cardGen  *CardGenerator
	cards    map[string]*Card
	byPlayer map[string]string
	order    []string
}

func NewEngine(state GameState, policy Policy, rng *rand.Rand) *Engine {
	if policy.CallIntervalTicks <= 0 {
		policy.CallIntervalTicks = 5
	}
	if policy.FirstWinShare <= 0 {
		policy.FirstWinShare = 0.5
	}
	if state.Status == "" {
		state.Status = StatusWaiting
	}
	if state.PrizeRemaining == 0 {
		state.PrizeRemaining = state.PrizePool
	}
	state.Winners = nil
	return &Engine{
		state:    state,
		policy:   policy,
		pool:     NewNumberPool(rng),
		cardGen:  NewCardGenerator(rng),
		cards:    map[string]*Card{},
		byPlayer: map[string]string{},
	}
}

func (e *Engine) ID() string {
	return e.state.ID
}

func (e *Engine) Snapshot() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Status
}

// Tick advances the game by one scheduler step.
func (e *Engine) Tick(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := &e.state
	switch s.Status {
	case StatusWaiting:
		s.TimeRemaining = secondsUntil(s.ScheduledStart, now)
		if s.TimeRemaining <= 0 {
			return []Event{e.transition(StatusStarting, e.policy.StartingCountdown, now, "")}
		}
	case StatusStarting:
		s.TimeRemaining--
		if s.TimeRemaining <= 0 {
			return []Event{e.transition(StatusInProgress, s.DurationMinutes*60, now, "")}
		}
	case StatusInProgress:
		s.TimeRemaining--
		if s.TimeRemaining <= 0 {
			return []Event{e.transition(StatusCompleted, 0, now, ReasonTimeElapsed)}
		}
		if s.TimeRemaining%e.policy.CallIntervalTicks == 0 {
			return e.drawLocked(now)
		}
	}
	return nil
}

// ForceStart moves a waiting or starting game straight to in-progress.
func (e *Engine) ForceStart(now time.Time) (GameState, []Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state.Status {
	case StatusCompleted:
		return GameState{}, nil, ErrGameCompleted
	case StatusInProgress:
		return GameState{}, nil, ErrGameAlreadyStarted
	}
	ev := e.transition(StatusInProgress, e.state.DurationMinutes*60, now, "forced")
	return e.state.clone(), []Event{ev}, nil
}

// ForceComplete ends the game early. It is a no-op on completed games.
func (e *Engine) ForceComplete(now time.Time, reason string) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Status == StatusCompleted {
		return nil
	}
	return []Event{e.transition(StatusCompleted, 0, now, reason)}
}

func (e *Engine) Join(playerID, playerName string, now time.Time) (Card, []Event, error) {
	if playerID == "" {
		return Card{}, nil, ErrInvalidPlayer
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	s := &e.state
	if s.Status != StatusWaiting {
		return Card{}, nil, ErrGameAlreadyStarted
	}
	if _, ok := e.byPlayer[playerID]; ok {
		return Card{}, nil, ErrDuplicateCard
	}
	if s.PlayerCount >= s.MaxPlayers {
		return Card{}, nil, ErrGameFull
	}
	card, err := e.cardGen.Generate(s.ID, playerID, playerName, now)
	if err != nil {
		return Card{}, nil, err
	}
	e.cards[card.ID] = card
	e.byPlayer[playerID] = card.ID
	e.order = append(e.order, card.ID)
	s.PlayerCount++
	s.PrizePool += s.TicketPrice
	s.PrizeRemaining += s.TicketPrice

	ev := Event{Type: EventPlayerJoined, Data: PlayerJoin{
		GameID:      s.ID,
		PlayerID:    playerID,
		PlayerName:  playerName,
		PlayerCount: s.PlayerCount,
		PrizePool:   s.PrizePool,
	}}
	return *card, []Event{ev}, nil
}

// ToggleMark flips one cell and re-evaluates the game's pattern. The first
// time the card satisfies the pattern a Winner is appended.
func (e *Engine) ToggleMark(cardID string, row, col int, now time.Time) (Card, []Event, error) {
	if err := validateCell(row, col); err != nil {
		return Card{}, nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	card, ok := e.cards[cardID]
	if !ok {
		return Card{}, nil, ErrCardNotFound
	}
	switch e.state.Status {
	case StatusCompleted:
		return Card{}, nil, ErrGameCompleted
	case StatusWaiting, StatusStarting:
		// no number has been called yet
		return Card{}, nil, ErrGameNotStarted
	}
	if row != center || col != center {
		card.Marks[row][col] = !card.Marks[row][col]
	}
	var events []Event
	if ev, won := e.evaluateLocked(card, now); won {
		events = append(events, ev)
	}
	return *card, events, nil
}

func (e *Engine) Card(cardID string) (Card, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.cards[cardID]
	if !ok {
		return Card{}, false
	}
	return *c, true
}

func (e *Engine) CardsFor(playerID string) []Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.byPlayer[playerID]
	if !ok {
		return []Card{}
	}
	return []Card{*e.cards[id]}
}

// CardIDs returns card ids in join order.
func (e *Engine) CardIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

func (e *Engine) CalledNumbers() []NumberEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Called()
}

func (e *Engine) Live(recent int) LiveState {
	e.mu.Lock()
	defer e.mu.Unlock()
	winners := make([]Winner, len(e.state.Winners))
	copy(winners, e.state.Winners)
	return LiveState{
		GameID:              e.state.ID,
		Status:              e.state.Status,
		TimeRemaining:       e.state.TimeRemaining,
		RecentCalledNumbers: e.pool.Recent(recent),
		CalledCount:         len(e.pool.order),
		Winners:             winners,
	}
}

func (e *Engine) drawLocked(now time.Time) []Event {
	entry, ok := e.pool.Draw(now)
	if !ok {
		return []Event{e.transition(StatusCompleted, 0, now, ReasonPoolExhausted)}
	}
	events := []Event{{Type: EventNumberCalled, Data: NumberCall{
		GameID:    e.state.ID,
		Entry:     entry,
		Remaining: e.pool.Remaining(),
	}}}
	if !e.policy.AutoDaub {
		return events
	}
	for _, id := range e.order {
		card := e.cards[id]
		row, col, found := card.Find(entry.Number)
		if !found {
			continue
		}
		card.Marks[row][col] = true
		if ev, won := e.evaluateLocked(card, now); won {
			events = append(events, ev)
		}
	}
	return events
}

func (e *Engine) evaluateLocked(card *Card, now time.Time) (Event, bool) {
	if card.WinningPattern != "" {
		return Event{}, false
	}
	if !Evaluate(card, e.state.Pattern) {
		return Event{}, false
	}
	s := &e.state
	prize, left := ComputePrize(e.policy.Payout, e.policy.FirstWinShare, s.PrizePool, s.PrizeRemaining)
	s.PrizeRemaining = left
	card.IsWinner = true
	card.WinningPattern = s.Pattern.Name
	w := Winner{
		ID:          NewID(),
		GameID:      s.ID,
		RoomID:      s.RoomID,
		PlayerID:    card.PlayerID,
		PlayerName:  card.PlayerName,
		CardID:      card.ID,
		PatternName: s.Pattern.Name,
		Prize:       prize,
		Currency:    s.Currency,
		WonAt:       now,
	}
	s.Winners = append(s.Winners, w)
	return Event{Type: EventWinner, Data: w}, true
}

func (e *Engine) transition(to Status, remaining int, now time.Time, reason string) Event {
	s := &e.state
	from := s.Status
	s.Status = to
	s.TimeRemaining = remaining
	at := now
	switch to {
	case StatusInProgress:
		s.StartedAt = &at
	case StatusCompleted:
		s.CompletedAt = &at
		s.CompletionReason = reason
	}
	return Event{Type: EventStatusChanged, Data: StatusChange{
		GameID:        s.ID,
		From:          from,
		To:            to,
		TimeRemaining: remaining,
		Reason:        reason,
	}}
}

func secondsUntil(t, now time.Time) int {
	return int(math.Ceil(t.Sub(now).Seconds()))
}
