package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged rating rolls.
// All rolls are logged at debug level with rating, dice values, pips, and
// total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller that rolls with src and logs each roll to
// logger.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// RollRating converts a rating into a d6 pool and rolls it: rating/3 dice
// plus rating%3 pips.
//
// Postcondition: for rating <= 0, the result is empty with Total() == 0.
// Otherwise Total() is in [rating%3, 6*(rating/3) + rating%3].
func (r *Roller) RollRating(rating int) PoolResult {
	if rating <= 0 {
		return PoolResult{Rating: rating}
	}

	count := rating / 3
	rolled := make([]int, count)
	for i := range rolled {
		rolled[i] = r.src.Intn(6) + 1
	}

	result := PoolResult{
		Rating: rating,
		Dice:   rolled,
		Pips:   rating % 3,
	}
	r.logger.Debug("dice roll",
		zap.Int("rating", result.Rating),
		zap.Ints("dice", result.Dice),
		zap.Int("pips", result.Pips),
		zap.Int("total", result.Total()),
	)
	return result
}
