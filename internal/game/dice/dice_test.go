package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/dmeverett/arbiter/internal/game/dice"
)

// fixedSource always returns the same value, clamped to n-1.
type fixedSource struct {
	val int
}

func (f *fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func TestRollRating_PoolShape(t *testing.T) {
	roller := dice.NewRoller(&fixedSource{val: 3}, zap.NewNop())

	result := roller.RollRating(9)
	assert.Equal(t, 9, result.Rating)
	require.Len(t, result.Dice, 3, "rating 9 rolls 9/3 = 3 dice")
	assert.Equal(t, 0, result.Pips)
	assert.Equal(t, 12, result.Total(), "each fixed die shows 4")

	result = roller.RollRating(10)
	require.Len(t, result.Dice, 3)
	assert.Equal(t, 1, result.Pips, "rating 10 adds one pip")
	assert.Equal(t, 13, result.Total())

	result = roller.RollRating(2)
	assert.Empty(t, result.Dice, "rating 2 rolls no dice")
	assert.Equal(t, 2, result.Pips)
	assert.Equal(t, 2, result.Total(), "a dieless pool still yields its pips")
}

func TestRollRating_NonPositiveRating(t *testing.T) {
	roller := dice.NewRoller(&fixedSource{val: 5}, zap.NewNop())

	for _, rating := range []int{0, -1, -10} {
		result := roller.RollRating(rating)
		assert.Empty(t, result.Dice)
		assert.Equal(t, 0, result.Pips)
		assert.Equal(t, 0, result.Total(), "rating %d must total 0", rating)
	}
}

// TestRollRating_TotalBounds checks the pool contract over arbitrary ratings:
// Total is always in [rating%3, 6*(rating/3) + rating%3].
func TestRollRating_TotalBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rating := rapid.IntRange(1, 60).Draw(rt, "rating")
		seed := rapid.Int64().Draw(rt, "seed")

		roller := dice.NewRoller(dice.NewSeededSource(seed), zap.NewNop())
		result := roller.RollRating(rating)

		lo := rating % 3
		hi := 6*(rating/3) + rating%3
		assert.GreaterOrEqual(rt, result.Total(), lo)
		assert.LessOrEqual(rt, result.Total(), hi)
		assert.Len(rt, result.Dice, rating/3)
		for _, d := range result.Dice {
			assert.GreaterOrEqual(rt, d, 1)
			assert.LessOrEqual(rt, d, 6)
		}
	})
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewRoller(dice.NewSeededSource(42), zap.NewNop())
	b := dice.NewRoller(dice.NewSeededSource(42), zap.NewNop())

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.RollRating(9).Dice, b.RollRating(9).Dice,
			"identical seeds must produce identical roll sequences")
	}
}

func TestCryptoSource_Range(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 100; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestSource_PanicsOnNonPositiveN(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(-1) })
}

func TestPoolResult_String(t *testing.T) {
	r := dice.PoolResult{Rating: 9, Dice: []int{4, 5, 6}, Pips: 0}
	assert.Equal(t, "rating 9 → 3d6 [4 5 6] +0 = 15", r.String())

	r = dice.PoolResult{Rating: 10, Dice: []int{1, 1, 1}, Pips: 1}
	assert.Equal(t, "rating 10 → 3d6 [1 1 1] +1 = 4", r.String())
}
