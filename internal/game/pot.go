package game

import "math"

type PayoutPolicy string

const (
	// PayoutHalfOfRemaining pays each new winner a share of what is left and
	// decrements the pool, so the total never exceeds the pool.
	PayoutHalfOfRemaining PayoutPolicy = "half_of_remaining"
	// PayoutHalfOfOriginal pays every winner a share of the full pool.
	PayoutHalfOfOriginal PayoutPolicy = "half_of_original"
)

// ComputePrize returns the prize for the next winner and the pool remaining
// after paying it.
func ComputePrize(policy PayoutPolicy, share float64, pool, remaining int64) (prize, left int64) {
	switch policy {
	case PayoutHalfOfOriginal:
		prize = floorShare(pool, share)
		left = remaining - prize
		if left < 0 {
			left = 0
		}
		return prize, left
	default:
		prize = floorShare(remaining, share)
		return prize, remaining - prize
	}
}

func floorShare(amount int64, share float64) int64 {
	if amount <= 0 {
		return 0
	}
	return int64(math.Floor(float64(amount) * share))
}
