package public

import "bingo-hall/internal/game"

var (
	ErrInvalidRequest = &game.Error{Kind: game.ErrInvalidInput, Code: "invalid_request"}
	ErrInvalidJSON    = &game.Error{Kind: game.ErrInvalidInput, Code: "invalid_json"}
)
