package public

import (
	"bingo-hall/internal/game"
	"bingo-hall/internal/hall"
)

type RoomsResponse struct {
	Items []hall.RoomView `json:"items"`
}

type GamesResponse struct {
	RoomID string           `json:"room_id"`
	Items  []game.GameState `json:"items"`
}

type GameResponse = hall.GameDetail

type JoinRequest struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type CardResponse struct {
	Card game.Card `json:"card"`
}

type CardsResponse struct {
	Items []game.Card `json:"items"`
}

// MarkRequest uses pointers so a missing coordinate is distinguishable from 0.
type MarkRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type PatternsResponse struct {
	Items []game.Pattern `json:"items"`
}

type ForceStartResponse struct {
	Game game.GameState `json:"game"`
}

type LiveResponse = game.LiveState
