// Package clock implements the in-game calendar: a monotonic seconds counter
// with bounded year rollover over a 12-month, 30-day-month year.
package clock

import "fmt"

// Game-time conversion constants. A game year is 12 months of 30 days.
const (
	SecondsPerMinute int64 = 60
	SecondsPerHour   int64 = 3600
	SecondsPerDay    int64 = 86400
	SecondsPerMonth  int64 = 2592000  // 30 days
	SecondsPerYear   int64 = 31104000 // 12 months
)

// Clock is the game-time source consumed by the rules engine. It only moves
// forward.
//
// Invariant: seconds ∈ [0, SecondsPerYear); the year counter absorbs
// overflow so seconds never grows without bound.
type Clock struct {
	year    int
	seconds int64
}

// New creates a Clock set to the given calendar date.
//
// Precondition: month ∈ [1, 12], day ∈ [1, 30], hour ∈ [0, 23].
// Postcondition: Returns a non-nil normalized Clock.
func New(year, month, day, hour int) *Clock {
	c := &Clock{
		year: year,
		seconds: int64(month-1)*SecondsPerMonth +
			int64(day-1)*SecondsPerDay +
			int64(hour)*SecondsPerHour,
	}
	c.normalize()
	return c
}

func (c *Clock) normalize() {
	for c.seconds >= SecondsPerYear {
		c.seconds -= SecondsPerYear
		c.year++
	}
}

// Now returns the absolute game time in seconds, monotonic across year
// rollovers. Duration and trigger timestamps are stamped from this value.
func (c *Clock) Now() int64 {
	return int64(c.year)*SecondsPerYear + c.seconds
}

// Advance moves the clock forward by the given number of seconds.
//
// Precondition: seconds >= 0.
// Postcondition: Now() increases by exactly seconds; the internal offset
// stays in [0, SecondsPerYear).
func (c *Clock) Advance(seconds int64) {
	if seconds < 0 {
		panic("clock: Advance called with negative seconds")
	}
	c.seconds += seconds
	c.normalize()
}

// Year returns the current game year.
func (c *Clock) Year() int { return c.year }

// Month returns the current month in [1, 12].
func (c *Clock) Month() int { return int(c.seconds/SecondsPerMonth) + 1 }

// Day returns the current day of the month in [1, 30].
func (c *Clock) Day() int { return int(c.seconds%SecondsPerMonth/SecondsPerDay) + 1 }

// Hour returns the current hour in [0, 23].
func (c *Clock) Hour() int { return int(c.seconds % SecondsPerDay / SecondsPerHour) }

// Minute returns the current minute in [0, 59].
func (c *Clock) Minute() int { return int(c.seconds % SecondsPerHour / SecondsPerMinute) }

// Second returns the current second in [0, 59].
func (c *Clock) Second() int { return int(c.seconds % SecondsPerMinute) }

// String returns the calendar timestamp used to prefix narrative output,
// e.g. "Year 1, Month 3, Day 12, Hour 08:00".
func (c *Clock) String() string {
	return fmt.Sprintf("Year %d, Month %d, Day %d, Hour %02d:00",
		c.year, c.Month(), c.Day(), c.Hour())
}
