package game

// Cell is a [row, col] coordinate on a card.
type Cell [2]int

type Pattern struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Difficulty  string   `json:"difficulty"`
	WinningSets [][]Cell `json:"winning_sets"`
}

const (
	PatternSingleLine  = "single-line"
	PatternDiagonal    = "diagonal"
	PatternFourCorners = "four-corners"
	PatternCross       = "cross"
	PatternFullHouse   = "full-house"
)

var catalog = buildCatalog()

func buildCatalog() []Pattern {
	var rows, cols [][]Cell
	for i := 0; i < GridSize; i++ {
		row := make([]Cell, 0, GridSize)
		col := make([]Cell, 0, GridSize)
		for j := 0; j < GridSize; j++ {
			row = append(row, Cell{i, j})
			col = append(col, Cell{j, i})
		}
		rows = append(rows, row)
		cols = append(cols, col)
	}
	diag := make([]Cell, 0, GridSize)
	anti := make([]Cell, 0, GridSize)
	cross := make([]Cell, 0, 2*GridSize-1)
	full := make([]Cell, 0, GridSize*GridSize)
	for i := 0; i < GridSize; i++ {
		diag = append(diag, Cell{i, i})
		anti = append(anti, Cell{i, GridSize - 1 - i})
		cross = append(cross, Cell{center, i})
		if i != center {
			cross = append(cross, Cell{i, center})
		}
		for j := 0; j < GridSize; j++ {
			full = append(full, Cell{i, j})
		}
	}

	lines := make([][]Cell, 0, 2*GridSize+2)
	lines = append(lines, rows...)
	lines = append(lines, cols...)
	lines = append(lines, diag, anti)

	last := GridSize - 1
	return []Pattern{
		{
			ID:          PatternSingleLine,
			Name:        "Single Line",
			Description: "Any complete row, column or diagonal",
			Icon:        "line",
			Difficulty:  "easy",
			WinningSets: lines,
		},
		{
			ID:          PatternDiagonal,
			Name:        "Diagonal",
			Description: "Either corner-to-corner diagonal",
			Icon:        "diagonal",
			Difficulty:  "easy",
			WinningSets: [][]Cell{diag, anti},
		},
		{
			ID:          PatternFourCorners,
			Name:        "Four Corners",
			Description: "All four corner cells",
			Icon:        "corners",
			Difficulty:  "medium",
			WinningSets: [][]Cell{{{0, 0}, {0, last}, {last, 0}, {last, last}}},
		},
		{
			ID:          PatternCross,
			Name:        "Cross",
			Description: "Middle row and middle column",
			Icon:        "cross",
			Difficulty:  "medium",
			WinningSets: [][]Cell{cross},
		},
		{
			ID:          PatternFullHouse,
			Name:        "Full House",
			Description: "Every cell on the card",
			Icon:        "full",
			Difficulty:  "hard",
			WinningSets: [][]Cell{full},
		},
	}
}

// Catalog returns a copy of the fixed pattern set.
func Catalog() []Pattern {
	out := make([]Pattern, len(catalog))
	copy(out, catalog)
	return out
}

func PatternByID(id string) (Pattern, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Pattern{}, false
}
