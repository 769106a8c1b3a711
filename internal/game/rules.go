package game

import "errors"

// Error kinds. Every coded error below unwraps to exactly one of these.
var (
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid_input")
)

// Error is a coded domain error. Code is the stable wire value.
type Error struct {
	Kind error
	Code string
}

func (e *Error) Error() string { return e.Code }

func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrRoomNotFound = &Error{Kind: ErrNotFound, Code: "room_not_found"}
	ErrGameNotFound = &Error{Kind: ErrNotFound, Code: "game_not_found"}
	ErrCardNotFound = &Error{Kind: ErrNotFound, Code: "card_not_found"}

	ErrGameFull           = &Error{Kind: ErrConflict, Code: "game_full"}
	ErrGameAlreadyStarted = &Error{Kind: ErrConflict, Code: "game_already_started"}
	ErrDuplicateCard      = &Error{Kind: ErrConflict, Code: "duplicate_card"}
	ErrGameCompleted      = &Error{Kind: ErrConflict, Code: "game_completed"}
	ErrGameNotStarted     = &Error{Kind: ErrConflict, Code: "game_not_started"}

	ErrInvalidCell   = &Error{Kind: ErrInvalidInput, Code: "invalid_cell"}
	ErrInvalidPlayer = &Error{Kind: ErrInvalidInput, Code: "invalid_player"}
)

// Code returns the wire code for err, or "internal_error" for non-domain errors.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "internal_error"
}

func validateCell(row, col int) error {
	if row < 0 || row >= GridSize || col < 0 || col >= GridSize {
		return ErrInvalidCell
	}
	return nil
}
