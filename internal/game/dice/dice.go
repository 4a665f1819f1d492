// Package dice provides the d6-pool roll primitive for the rules engine: a
// rating R rolls R/3 six-sided dice and adds R%3 pips.
package dice

import "fmt"

// PoolResult holds the full audit trail for a single rating roll.
//
// Postcondition: Total() == sum(Dice) + Pips.
type PoolResult struct {
	Rating int   // the rating the pool was sized from
	Dice   []int // individual die results
	Pips   int   // flat remainder added to the sum (rating mod 3)
}

// Total returns the sum of all die results plus the pips.
//
// Postcondition: return value == sum(r.Dice) + r.Pips.
func (r PoolResult) Total() int {
	total := r.Pips
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"rating 9 → 3d6 [4 5 6] +0 = 15"
func (r PoolResult) String() string {
	return fmt.Sprintf("rating %d → %dd6 %v %+d = %d",
		r.Rating, len(r.Dice), r.Dice, r.Pips, r.Total())
}

// Source is the randomness provider for dice rolls. The engine is
// single-threaded; implementations need not be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
