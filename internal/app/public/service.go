package public

import (
	"context"
	"strings"

	"bingo-hall/internal/game"
	"bingo-hall/internal/hall"
)

// Service is the request-facing API over the hall, shared by the HTTP and
// MCP surfaces. Identity comes from the caller and is trusted as given.
type Service struct {
	hall *hall.Hall
}

func NewService(h *hall.Hall) *Service {
	return &Service{hall: h}
}

func (s *Service) Rooms(_ context.Context) (*RoomsResponse, error) {
	return &RoomsResponse{Items: s.hall.ListRooms()}, nil
}

func (s *Service) Games(_ context.Context, roomID string) (*GamesResponse, error) {
	roomID = strings.TrimSpace(roomID)
	items, err := s.hall.ListGames(roomID)
	if err != nil {
		return nil, err
	}
	return &GamesResponse{RoomID: roomID, Items: items}, nil
}

func (s *Service) Game(_ context.Context, gameID string) (*GameResponse, error) {
	detail, err := s.hall.GameDetail(strings.TrimSpace(gameID))
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *Service) Join(_ context.Context, gameID string, req JoinRequest) (*CardResponse, error) {
	playerID := strings.TrimSpace(req.PlayerID)
	if playerID == "" {
		return nil, game.ErrInvalidPlayer
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		name = playerID
	}
	card, err := s.hall.Join(strings.TrimSpace(gameID), playerID, name)
	if err != nil {
		return nil, err
	}
	return &CardResponse{Card: card}, nil
}

func (s *Service) PlayerCards(_ context.Context, gameID, playerID string) (*CardsResponse, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, game.ErrInvalidPlayer
	}
	cards, err := s.hall.CardsFor(strings.TrimSpace(gameID), playerID)
	if err != nil {
		return nil, err
	}
	return &CardsResponse{Items: cards}, nil
}

func (s *Service) ToggleMark(_ context.Context, cardID string, req MarkRequest) (*CardResponse, error) {
	if req.Row == nil || req.Col == nil {
		return nil, game.ErrInvalidCell
	}
	card, err := s.hall.ToggleMark(strings.TrimSpace(cardID), *req.Row, *req.Col)
	if err != nil {
		return nil, err
	}
	return &CardResponse{Card: card}, nil
}

func (s *Service) Patterns(_ context.Context) (*PatternsResponse, error) {
	return &PatternsResponse{Items: game.Catalog()}, nil
}

func (s *Service) ForceStart(_ context.Context, gameID string) (*ForceStartResponse, error) {
	st, err := s.hall.ForceStart(strings.TrimSpace(gameID))
	if err != nil {
		return nil, err
	}
	return &ForceStartResponse{Game: st}, nil
}

func (s *Service) Live(_ context.Context, gameID string) (*LiveResponse, error) {
	live, err := s.hall.Live(strings.TrimSpace(gameID))
	if err != nil {
		return nil, err
	}
	return &live, nil
}
