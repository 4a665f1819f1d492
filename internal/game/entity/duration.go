package entity

// Frequency is a named game-time unit used by duration components and
// triggers.
type Frequency string

const (
	FrequencyRound  Frequency = "round"
	FrequencyMinute Frequency = "minute"
	FrequencyHour   Frequency = "hour"
	FrequencyDay    Frequency = "day"
)

// Seconds returns the length of one unit in game seconds, or 0 for an
// unknown frequency. Callers must treat 0 as invalid.
func (f Frequency) Seconds() int64 {
	switch f {
	case FrequencyRound:
		return 6
	case FrequencyMinute:
		return 60
	case FrequencyHour:
		return 3600
	case FrequencyDay:
		return 86400
	}
	return 0
}

// Valid reports whether f is one of the four known frequencies.
func (f Frequency) Valid() bool {
	return f.Seconds() > 0
}

// DurationComponent bounds the lifetime of a status entity. A status carries
// one or more components; it is removed in full as soon as ANY component
// expires (first-expiry-wins).
type DurationComponent struct {
	// Unit is the frequency the Length counts.
	Unit Frequency
	// Length is the number of units the component lasts. Ignored when
	// Indefinite is set.
	Length int
	// Indefinite marks a component that never expires.
	Indefinite bool
	// Start is the clock timestamp stamped at injection.
	Start int64
}

// Expired reports whether the component's span has elapsed at the given
// clock time. Indefinite components never expire.
func (d DurationComponent) Expired(now int64) bool {
	if d.Indefinite || !d.Unit.Valid() {
		return false
	}
	return now-d.Start >= int64(d.Length)*d.Unit.Seconds()
}

// Trigger fires a status entity's own effects on its host at a fixed
// frequency.
//
// Invariant: a trigger fires at most once per lifecycle tick, no matter how
// many whole intervals elapsed since LastFired (missed intervals are not
// backfilled).
type Trigger struct {
	// Unit is the firing frequency.
	Unit Frequency
	// LastFired is the clock timestamp of the most recent firing, stamped to
	// the injection time when the status is created.
	LastFired int64
	// SelfEffects are applied to the host each time the trigger fires, with
	// the status entity itself as the magnitude's self reference.
	SelfEffects []Effect
}

// Due reports whether at least one whole interval has elapsed since the
// trigger last fired.
func (t *Trigger) Due(now int64) bool {
	if !t.Unit.Valid() {
		return false
	}
	return now-t.LastFired >= t.Unit.Seconds()
}

func (t *Trigger) clone() *Trigger {
	out := *t
	out.SelfEffects = CloneEffects(t.SelfEffects)
	return &out
}
