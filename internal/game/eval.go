package game

// Evaluate reports whether any of the pattern's winning sets is fully marked
// on the card.
func Evaluate(card *Card, p Pattern) bool {
	for _, set := range p.WinningSets {
		if setMarked(card, set) {
			return true
		}
	}
	return false
}

// WinningSet returns the index of the first fully marked set, or -1.
func WinningSet(card *Card, p Pattern) int {
	for i, set := range p.WinningSets {
		if setMarked(card, set) {
			return i
		}
	}
	return -1
}

func setMarked(card *Card, set []Cell) bool {
	if len(set) == 0 {
		return false
	}
	for _, cell := range set {
		if !card.Marked(cell[0], cell[1]) {
			return false
		}
	}
	return true
}
