// Package rules implements the recursive boolean requirement language that
// gates interactions: dice tests, property checks, and and/or/not
// combinators.
package rules

import "github.com/dmeverett/arbiter/internal/game/entity"

// RequirementKind is the closed set of requirement node kinds. The evaluator
// switches over it exhaustively; unknown kinds fail closed.
type RequirementKind int

const (
	// RequirementInvalid is the zero value; evaluation fails closed on it.
	RequirementInvalid RequirementKind = iota
	// RequirementTest rolls an actor's stat against a difficulty.
	RequirementTest
	// RequirementProperty checks a named field against a relation.
	RequirementProperty
	// RequirementAnd succeeds when every child succeeds. Empty = true.
	RequirementAnd
	// RequirementOr succeeds when any child succeeds. Empty = false.
	RequirementOr
	// RequirementNot succeeds when its child fails.
	RequirementNot
)

// String returns the kind's content-facing name.
func (k RequirementKind) String() string {
	switch k {
	case RequirementTest:
		return "test"
	case RequirementProperty:
		return "property"
	case RequirementAnd:
		return "and"
	case RequirementOr:
		return "or"
	case RequirementNot:
		return "not"
	}
	return "invalid"
}

// DifficultyKind says how a test's difficulty is produced.
type DifficultyKind int

const (
	// DifficultyStatic compares against a fixed value.
	DifficultyStatic DifficultyKind = iota
	// DifficultyRoll rolls a named actor's stat.
	DifficultyRoll
	// DifficultyOpposed delegates to the opposition table: the defender's
	// best counter-skill against the test's stat is found and rolled.
	DifficultyOpposed
)

// Difficulty describes how a test requirement's target number is produced.
type Difficulty struct {
	Kind DifficultyKind
	// Value is the fixed target for DifficultyStatic.
	Value int
	// Actor and Stat name the rolled stat for DifficultyRoll.
	Actor entity.Role
	Stat  entity.StatPath
}

// RelationKind distinguishes the three property comparison modes.
type RelationKind int

const (
	// RelationTruthy passes when the field is a non-zero number or a present
	// tag.
	RelationTruthy RelationKind = iota
	// RelationNumeric compares a numeric field. A negative number on a
	// spendable resource is an affordability pre-check (current >= |n|);
	// otherwise the field must be >= n.
	RelationNumeric
	// RelationText requires exact equality on a text field or tag.
	RelationText
)

// Relation is the comparison half of a property requirement.
type Relation struct {
	Kind   RelationKind
	Number int
	Text   string
}

// Requirement is one node of a finite, acyclic requirement tree.
//
// Invariant: the fields relevant to Kind are populated; the catalog loader
// enforces this and bounds tree depth.
type Requirement struct {
	Kind RequirementKind

	// Actor names whose stats or fields a Test or Property examines.
	Actor entity.Role

	// Stat and Difficulty describe a Test.
	Stat       entity.StatPath
	Difficulty Difficulty

	// Field and Relation describe a Property.
	Field    string
	Relation Relation

	// Children are the operands of And/Or.
	Children []*Requirement
	// Child is the single operand of Not.
	Child *Requirement
}
