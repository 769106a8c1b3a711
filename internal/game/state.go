package game

import "time"

type Currency string

const (
	CurrencyGold   Currency = "GC"
	CurrencySweeps Currency = "SC"
)

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusStarting   Status = "starting"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) order() int {
	switch s {
	case StatusWaiting:
		return 0
	case StatusStarting:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
	default:
		return -1
	}
}

// Before reports whether s precedes other in the lifecycle.
func (s Status) Before(other Status) bool {
	return s.order() < other.order()
}

type Winner struct {
	ID          string    `json:"id"`
	GameID      string    `json:"game_id"`
	RoomID      string    `json:"room_id"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	CardID      string    `json:"card_id"`
	PatternName string    `json:"pattern_name"`
	Prize       int64     `json:"prize"`
	Currency    Currency  `json:"currency"`
	WonAt       time.Time `json:"won_at"`
}

type GameState struct {
	ID               string     `json:"id"`
	RoomID           string     `json:"room_id"`
	Currency         Currency   `json:"currency"`
	TicketPrice      int64      `json:"ticket_price"`
	MaxPlayers       int        `json:"max_players"`
	PlayerCount      int        `json:"player_count"`
	Status           Status     `json:"status"`
	ScheduledStart   time.Time  `json:"scheduled_start"`
	DurationMinutes  int        `json:"duration_minutes"`
	TimeRemaining    int        `json:"time_remaining"`
	Pattern          Pattern    `json:"pattern"`
	PrizePool        int64      `json:"prize_pool"`
	PrizeRemaining   int64      `json:"prize_remaining"`
	Winners          []Winner   `json:"winners"`
	IsScheduled      bool       `json:"is_scheduled"`
	NextGameStart    time.Time  `json:"next_game_start"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CompletionReason string     `json:"completion_reason,omitempty"`
}

func (s GameState) clone() GameState {
	out := s
	out.Winners = make([]Winner, len(s.Winners))
	copy(out.Winners, s.Winners)
	return out
}
