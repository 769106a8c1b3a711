package game

import (
	"math/rand"
	"sort"
	"time"
)

const (
	GridSize   = 5
	ColumnSpan = 15
	MaxNumber  = GridSize * ColumnSpan

	// FreeSpace is the sentinel stored in the centre cell.
	FreeSpace = 0

	center = GridSize / 2
)

var columnLetters = [GridSize]string{"B", "I", "N", "G", "O"}

// Card is a player's 5x5 grid for one game. Numbers[row][col]; column c holds
// values from [15c+1, 15c+15].
type Card struct {
	ID             string                   `json:"id"`
	GameID         string                   `json:"game_id"`
	PlayerID       string                   `json:"player_id"`
	PlayerName     string                   `json:"player_name"`
	Numbers        [GridSize][GridSize]int  `json:"numbers"`
	Marks          [GridSize][GridSize]bool `json:"marks"`
	IsWinner       bool                     `json:"is_winner"`
	WinningPattern string                   `json:"winning_pattern,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
}

// Marked reports whether a cell counts as marked. The centre always does.
func (c *Card) Marked(row, col int) bool {
	if row == center && col == center {
		return true
	}
	return c.Marks[row][col]
}

// Find returns the position of n on the card.
func (c *Card) Find(n int) (row, col int, ok bool) {
	if n < 1 || n > MaxNumber {
		return 0, 0, false
	}
	col = (n - 1) / ColumnSpan
	for row = 0; row < GridSize; row++ {
		if c.Numbers[row][col] == n {
			return row, col, true
		}
	}
	return 0, 0, false
}

// ColumnRange returns the inclusive number range for column col.
func ColumnRange(col int) (lo, hi int) {
	lo = col*ColumnSpan + 1
	return lo, lo + ColumnSpan - 1
}

// LetterFor maps a callable number to its column letter.
func LetterFor(n int) string {
	if n < 1 || n > MaxNumber {
		return ""
	}
	return columnLetters[(n-1)/ColumnSpan]
}

type CardGenerator struct {
	rng *rand.Rand
}

// NewCardGenerator binds a generator to rng. The generator is not safe for
// concurrent use; callers serialize through the owning Engine.
func NewCardGenerator(rng *rand.Rand) *CardGenerator {
	return &CardGenerator{rng: rng}
}

func (g *CardGenerator) Generate(gameID, playerID, playerName string, now time.Time) (*Card, error) {
	if gameID == "" || playerID == "" {
		return nil, ErrInvalidPlayer
	}
	card := &Card{
		ID:         NewID(),
		GameID:     gameID,
		PlayerID:   playerID,
		PlayerName: playerName,
		CreatedAt:  now,
	}
	for col := 0; col < GridSize; col++ {
		values := g.column(col)
		for row := 0; row < GridSize; row++ {
			card.Numbers[row][col] = values[row]
		}
	}
	card.Numbers[center][center] = FreeSpace
	card.Marks[center][center] = true
	return card, nil
}

// column draws five distinct values from the column range by rejection
// sampling and returns them ascending.
func (g *CardGenerator) column(col int) []int {
	lo, _ := ColumnRange(col)
	seen := make(map[int]bool, GridSize)
	out := make([]int, 0, GridSize)
	for len(out) < GridSize {
		n := lo + g.rng.Intn(ColumnSpan)
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
