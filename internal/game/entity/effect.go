package entity

// EffectKind is the closed set of consequence kinds an interaction or
// trigger may apply. Appliers switch over it exhaustively; there is no
// open-ended string dispatch and no silent no-op branch.
type EffectKind int

const (
	// EffectInvalid is the zero value; appliers reject it.
	EffectInvalid EffectKind = iota
	// EffectDamage subtracts a resolved magnitude from the target's cur_hp,
	// clamped at 0.
	EffectDamage
	// EffectHeal adds a resolved magnitude to the target's cur_hp, clamped
	// at max_hp.
	EffectHeal
	// EffectApplyPath damages or restores a named vital field, with the same
	// [0, max] clamping as Damage/Heal.
	EffectApplyPath
	// EffectStatusInject deep-copies a named catalog template onto the
	// target's status list.
	EffectStatusInject
	// EffectInventoryOp adds or removes item quantities on the target.
	EffectInventoryOp
)

// String returns the kind's content-facing name.
func (k EffectKind) String() string {
	switch k {
	case EffectDamage:
		return "damage"
	case EffectHeal:
		return "heal"
	case EffectApplyPath:
		return "apply"
	case EffectStatusInject:
		return "status"
	case EffectInventoryOp:
		return "inventory"
	}
	return "invalid"
}

// InventoryOpKind distinguishes the two inventory operations.
type InventoryOpKind int

const (
	InventoryAdd InventoryOpKind = iota
	InventoryRemove
)

// ItemQuantity names an item and a count for inventory operations and item
// costs.
type ItemQuantity struct {
	Item     string
	Quantity int
}

// MagnitudeKind says whether a resolved base value is used as-is or rolled
// through the d6 pool.
type MagnitudeKind int

const (
	MagnitudeStatic MagnitudeKind = iota
	MagnitudeRoll
)

// Magnitude describes how an effect's numeric strength is computed: a base
// value fetched from a participant's stat (or a literal), optionally rolled,
// plus a flat pre-modifier. Resolution does not clamp; clamping happens at
// the single resource mutation path.
type Magnitude struct {
	// Source selects whose stat the Path resolves against. RoleSelf resolves
	// against the interaction's carrying entity (the status entity, for
	// trigger effects).
	Source Role
	// Path is the stat to fetch when IsLiteral is false.
	Path StatPath
	// Literal overrides the stat lookup when IsLiteral is true.
	Literal   int
	IsLiteral bool
	// PreMod is added after the base (and after any roll).
	PreMod int
	Kind   MagnitudeKind
}

// ResistanceKind distinguishes static resistance from an opposed counter
// lookup on the defender.
type ResistanceKind int

const (
	ResistanceStatic ResistanceKind = iota
	ResistanceOpposed
)

// Resistance reduces a resolved magnitude before it is applied, floored
// at 0.
type Resistance struct {
	Kind ResistanceKind
	// Value is the flat reduction for ResistanceStatic.
	Value int
	// Against is the attacking stat path a ResistanceOpposed lookup counters;
	// the defender's best matching skill is rolled and subtracted.
	Against StatPath
}

// Effect is one consequence of an interaction or trigger. Exactly the fields
// relevant to Kind are populated; the catalog loader guarantees this.
type Effect struct {
	Kind EffectKind

	// Magnitude sizes Damage, Heal, and ApplyPath effects.
	Magnitude Magnitude

	// Field is the vital field an ApplyPath effect mutates (e.g. cur_fp).
	Field string
	// Restore flips an ApplyPath effect from damage to restore.
	Restore bool

	// Status is the catalog template name for StatusInject.
	Status string

	// Op and Items describe an InventoryOp.
	Op    InventoryOpKind
	Items []ItemQuantity

	// Resistance, when non-nil, reduces the resolved magnitude before it is
	// applied.
	Resistance *Resistance
}

// CloneEffects deep-copies a slice of effects.
func CloneEffects(effects []Effect) []Effect {
	if effects == nil {
		return nil
	}
	out := make([]Effect, len(effects))
	for i, e := range effects {
		if e.Items != nil {
			e.Items = append([]ItemQuantity(nil), e.Items...)
		}
		if e.Resistance != nil {
			r := *e.Resistance
			e.Resistance = &r
		}
		out[i] = e
	}
	return out
}
