// Package interaction orchestrates one full rule resolution: range gate,
// requirements, cost payment, proficiency/opposed check, and effect
// application, in a fixed stage order with early-exit failures.
package interaction

import (
	"github.com/dmeverett/arbiter/internal/game/cost"
	"github.com/dmeverett/arbiter/internal/game/entity"
	"github.com/dmeverett/arbiter/internal/game/rules"
)

// Interaction is a declarative action definition: a weapon swing, a spell, a
// skill use, or an item. The external loader populates it; the engine never
// reads content files for it.
type Interaction struct {
	Name        string
	Type        string
	Description string

	// Range is the maximum Chebyshev distance to any target; 0 means
	// unlimited (or melee resolved elsewhere) and disables the gate.
	Range int

	// Per-role effect lists. UserEffects and SelfEffects both land on the
	// user; a self effect differs only in that its magnitudes default to
	// resolving against Source.
	UserEffects   []entity.Effect
	TargetEffects []entity.Effect
	SelfEffects   []entity.Effect

	// Per-role requirement lists, all of which must pass.
	UserRequirements   []*rules.Requirement
	TargetRequirements []*rules.Requirement

	// Proficiency is the optional success check run after costs are paid.
	Proficiency *rules.Requirement

	// Cost is paid atomically by the user before the proficiency check.
	Cost cost.Cost

	// Source is the entity carrying the interaction (the sword, the scroll);
	// RoleSelf magnitudes resolve against it. May be nil.
	Source *entity.Entity
}

// Result is the outcome of one interaction resolution.
type Result struct {
	// OK reports whether the interaction ran to completion.
	OK bool
	// Narrative is the player-facing account, prefixed with the game-clock
	// timestamp.
	Narrative string
	// Log is the terse transcript line for the history record.
	Log string
}
