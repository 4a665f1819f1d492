package rules

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dmeverett/arbiter/internal/game/dice"
	"github.com/dmeverett/arbiter/internal/game/entity"
	"github.com/dmeverett/arbiter/internal/game/oppose"
)

// Evaluator resolves requirement trees against a user/target pair.
type Evaluator struct {
	roller *dice.Roller
	table  *oppose.Table
	logger *zap.Logger
}

// NewEvaluator creates an Evaluator.
//
// Precondition: roller, table, and logger must be non-nil.
func NewEvaluator(roller *dice.Roller, table *oppose.Table, logger *zap.Logger) *Evaluator {
	return &Evaluator{roller: roller, table: table, logger: logger}
}

// Evaluate walks the requirement tree and reports whether it is satisfied,
// together with human-readable diagnostics accumulated along the way.
//
// A nil requirement is trivially satisfied. Malformed or unknown nodes fail
// closed with a warning; externally authored content must not crash a
// session, but it must not pass a gate it cannot express either.
func (e *Evaluator) Evaluate(req *Requirement, user, target *entity.Entity) (bool, []string) {
	if req == nil {
		return true, nil
	}
	var notes []string
	ok := e.eval(req, user, target, &notes)
	return ok, notes
}

// EvaluateAll short-circuits over a requirement list with And semantics.
func (e *Evaluator) EvaluateAll(reqs []*Requirement, user, target *entity.Entity) (bool, []string) {
	var notes []string
	for _, req := range reqs {
		if req == nil {
			continue
		}
		if !e.eval(req, user, target, &notes) {
			return false, notes
		}
	}
	return true, notes
}

func (e *Evaluator) eval(req *Requirement, user, target *entity.Entity, notes *[]string) bool {
	switch req.Kind {
	case RequirementTest:
		return e.evalTest(req, user, target, notes)
	case RequirementProperty:
		return e.evalProperty(req, user, target, notes)
	case RequirementAnd:
		for _, child := range req.Children {
			if !e.eval(child, user, target, notes) {
				return false
			}
		}
		return true
	case RequirementOr:
		for _, child := range req.Children {
			if e.eval(child, user, target, notes) {
				return true
			}
		}
		*notes = append(*notes, "none of the required options are met")
		return false
	case RequirementNot:
		if req.Child == nil {
			e.logger.Warn("not requirement has no child; failing closed")
			return false
		}
		// Diagnostics from the inverted branch would mislead; evaluate it
		// with a discarded note sink.
		var discard []string
		if e.eval(req.Child, user, target, &discard) {
			*notes = append(*notes, "a disqualifying condition is met")
			return false
		}
		return true
	}
	e.logger.Warn("unknown requirement kind; failing closed",
		zap.Int("kind", int(req.Kind)))
	*notes = append(*notes, "the requirement cannot be understood")
	return false
}

// actor resolves a role to a participant. RoleSelf has no meaning in a
// requirement; it resolves to the user.
func actor(role entity.Role, user, target *entity.Entity) *entity.Entity {
	if role == entity.RoleTarget {
		return target
	}
	return user
}

func (e *Evaluator) evalTest(req *Requirement, user, target *entity.Entity, notes *[]string) bool {
	who := actor(req.Actor, user, target)
	if who == nil {
		e.logger.Warn("test requirement has no actor; failing closed",
			zap.String("actor", string(req.Actor)),
			zap.String("stat", req.Stat.String()))
		*notes = append(*notes, "there is no one to attempt the test")
		return false
	}

	roll := e.roller.RollRating(who.Rating(req.Stat)).Total()
	difficulty := e.resolveDifficulty(req, who, user, target, notes)

	if roll >= difficulty {
		*notes = append(*notes, fmt.Sprintf("%s passes the %s test (%d vs %d)",
			who.Name, req.Stat, roll, difficulty))
		return true
	}
	*notes = append(*notes, fmt.Sprintf("need %s of %d, rolled %d",
		req.Stat, difficulty, roll))
	return false
}

func (e *Evaluator) resolveDifficulty(req *Requirement, who, user, target *entity.Entity, notes *[]string) int {
	switch req.Difficulty.Kind {
	case DifficultyStatic:
		return req.Difficulty.Value

	case DifficultyRoll:
		diffActor := actor(req.Difficulty.Actor, user, target)
		if diffActor == nil {
			*notes = append(*notes, "no one opposes the test")
			return 0
		}
		return e.roller.RollRating(diffActor.Rating(req.Difficulty.Stat)).Total()

	case DifficultyOpposed:
		defender := target
		if who == target {
			defender = user
		}
		if defender == nil {
			*notes = append(*notes, "no one opposes the test")
			return 0
		}
		counter := e.table.BestCounter(req.Stat, defender)
		if !counter.Found {
			*notes = append(*notes, fmt.Sprintf("%s has no skill to defend", defender.Name))
			return oppose.FallbackDifficulty
		}
		*notes = append(*notes, fmt.Sprintf("%s defends with %s (rating %d)",
			defender.Name, counter.Path, counter.Rating))
		return e.roller.RollRating(counter.Rating).Total()
	}

	e.logger.Warn("unknown difficulty kind; using fallback",
		zap.Int("kind", int(req.Difficulty.Kind)))
	return oppose.FallbackDifficulty
}

func (e *Evaluator) evalProperty(req *Requirement, user, target *entity.Entity, notes *[]string) bool {
	who := actor(req.Actor, user, target)
	if who == nil {
		*notes = append(*notes, "there is no one to check")
		return false
	}

	switch req.Relation.Kind {
	case RelationNumeric:
		n := req.Relation.Number
		if entity.IsResourceField(req.Field) && n < 0 {
			// Affordability pre-check: a negative relation on a spendable
			// resource means "can pay |n|".
			cur, _, _ := who.Resource(req.Field)
			if cur >= -n {
				return true
			}
			*notes = append(*notes, fmt.Sprintf("not enough %s (need %d, have %d)",
				req.Field, -n, cur))
			return false
		}
		val, ok := who.NumField(req.Field)
		if !ok {
			e.logger.Warn("property check on unknown numeric field",
				zap.String("field", req.Field))
			*notes = append(*notes, fmt.Sprintf("%s has no %s to speak of", who.Name, req.Field))
			return false
		}
		if val >= n {
			return true
		}
		*notes = append(*notes, fmt.Sprintf("need %s of %d, have %d", req.Field, n, val))
		return false

	case RelationText:
		val, ok := who.TextField(req.Field)
		if !ok || val != req.Relation.Text {
			*notes = append(*notes, fmt.Sprintf("%s is not %q", req.Field, req.Relation.Text))
			return false
		}
		return true

	case RelationTruthy:
		if val, ok := who.NumField(req.Field); ok {
			if val != 0 {
				return true
			}
			*notes = append(*notes, fmt.Sprintf("%s has no %s", who.Name, req.Field))
			return false
		}
		if v, ok := who.TextField(req.Field); ok && v != "" {
			return true
		}
		*notes = append(*notes, fmt.Sprintf("%s has no %s", who.Name, req.Field))
		return false
	}

	e.logger.Warn("unknown relation kind; failing closed",
		zap.Int("kind", int(req.Relation.Kind)))
	return false
}
