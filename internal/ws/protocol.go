package ws

import "bingo-hall/internal/game"

const ProtocolVersion = "1.0"

const (
	TypeSnapshot   = "snapshot"
	TypeMark       = "mark"
	TypeMarkResult = "mark_result"
	TypeError      = "error"
)

// Envelope carries one server-to-client message. Feed events reuse the
// event type (number_called, winner, ...) as Type.
type Envelope struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	EventID         string `json:"event_id,omitempty"`
	GameID          string `json:"game_id"`
	ServerTS        int64  `json:"server_ts"`
	Data            any    `json:"data,omitempty"`
}

type ClientMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	CardID    string `json:"card_id,omitempty"`
	Row       *int   `json:"row,omitempty"`
	Col       *int   `json:"col,omitempty"`
}

type MarkResult struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	RequestID       string     `json:"request_id,omitempty"`
	Ok              bool       `json:"ok"`
	Error           string     `json:"error,omitempty"`
	Card            *game.Card `json:"card,omitempty"`
}
