package interaction

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dmeverett/arbiter/internal/game/clock"
	"github.com/dmeverett/arbiter/internal/game/cost"
	"github.com/dmeverett/arbiter/internal/game/effect"
	"github.com/dmeverett/arbiter/internal/game/entity"
	"github.com/dmeverett/arbiter/internal/game/rules"
)

// Manager sequences the resolution stages of a single interaction. It holds
// no per-call state and assumes exclusive, single-writer access to the
// entity graph for the duration of Execute.
type Manager struct {
	evaluator *rules.Evaluator
	applier   *effect.Applier
	templates effect.TemplateSource
	logger    *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: evaluator, applier, and logger must be non-nil.
func NewManager(evaluator *rules.Evaluator, applier *effect.Applier, templates effect.TemplateSource, logger *zap.Logger) *Manager {
	return &Manager{evaluator: evaluator, applier: applier, templates: templates, logger: logger}
}

// Execute runs one interaction to completion or fails fast at the first
// unsatisfied stage:
//
//	CHECK_RANGE → CHECK_REQUIREMENTS → CONSUME_COSTS →
//	PROFICIENCY/OPPOSED_CHECK → APPLY_EFFECTS → DONE
//
// Hard failures (nil user or interaction, a nil entry in targets,
// target-scoped effects with no targets) abort before any cost is touched. The range gate and requirement
// stages also run before costs; a failed proficiency check runs after, so
// its costs stay spent. No partial cost or partial effect application ever
// survives a failure.
func (m *Manager) Execute(user *entity.Entity, itx *Interaction, targets []*entity.Entity, clk *clock.Clock) Result {
	if user == nil || itx == nil {
		return Result{
			Narrative: "Nothing happens.",
			Log:       "interaction aborted: missing actor or definition",
		}
	}
	for _, t := range targets {
		if t == nil {
			return m.failure(user, itx, clk, "the target is nowhere to be found",
				fmt.Sprintf("%s has a missing target for %s", user.Name, itx.Name))
		}
	}
	if len(itx.TargetEffects) > 0 && len(targets) == 0 {
		return m.failure(user, itx, clk, "there is nothing to aim at",
			fmt.Sprintf("%s has no target for %s", user.Name, itx.Name))
	}
	var primary *entity.Entity
	if len(targets) > 0 {
		primary = targets[0]
	}

	// CHECK_RANGE: only when both actors are positioned and the interaction
	// declares a range. Chebyshev (king-move) distance.
	if itx.Range > 0 && user.Positioned {
		for _, t := range targets {
			if !t.Positioned {
				continue
			}
			if d := chebyshev(user, t); d > itx.Range {
				return m.failure(user, itx, clk,
					fmt.Sprintf("%s is out of reach (%d squares away, range %d)", t.Name, d, itx.Range),
					fmt.Sprintf("%s cannot reach %s with %s", user.Name, t.Name, itx.Name))
			}
		}
	}

	// CHECK_REQUIREMENTS: user requirements once, target requirements per
	// target. Nothing has been paid yet.
	if ok, notes := m.evaluator.EvaluateAll(itx.UserRequirements, user, primary); !ok {
		return m.failure(user, itx, clk,
			noteText(notes, "you cannot do that"),
			fmt.Sprintf("%s fails the requirements for %s", user.Name, itx.Name))
	}
	for _, t := range targets {
		if ok, notes := m.evaluator.EvaluateAll(itx.TargetRequirements, user, t); !ok {
			return m.failure(user, itx, clk,
				noteText(notes, "the target is unsuitable"),
				fmt.Sprintf("%s is an invalid target for %s", t.Name, itx.Name))
		}
	}

	// CONSUME_COSTS: atomic two-phase payment. From here on, failure no
	// longer refunds.
	if ok, note := cost.Apply(user, itx.Cost); !ok {
		return m.failure(user, itx, clk,
			noteText([]string{note}, "you cannot afford that"),
			fmt.Sprintf("%s cannot pay for %s", user.Name, itx.Name))
	}

	// PROFICIENCY/OPPOSED_CHECK: the success roll. Costs stay spent on a
	// miss.
	var checkNotes []string
	if itx.Proficiency != nil {
		ok, notes := m.evaluator.Evaluate(itx.Proficiency, user, primary)
		checkNotes = notes
		if !ok {
			return m.failure(user, itx, clk,
				noteText(notes, "you fail the attempt"),
				fmt.Sprintf("%s fails to use %s effectively", user.Name, itx.Name))
		}
	}

	// APPLY_EFFECTS.
	var lines []string
	lines = append(lines, checkNotes...)
	lines = append(lines, m.applyAll(itx.UserEffects, user, user, itx.Source, clk)...)
	for _, t := range targets {
		lines = append(lines, m.applyAll(itx.TargetEffects, user, t, itx.Source, clk)...)
	}
	lines = append(lines, m.applyAll(itx.SelfEffects, user, user, itx.Source, clk)...)

	action := itx.Description
	if action == "" {
		action = fmt.Sprintf("uses %s", itx.Name)
	}
	narrative := fmt.Sprintf("[%s] %s %s. %s", clk, user.Name, action, strings.Join(lines, " "))
	log := fmt.Sprintf("%s executed %s", user.Name, itx.Name)
	if primary != nil {
		log += fmt.Sprintf(" on %s", primary.Name)
	}

	m.logger.Info("interaction resolved",
		zap.String("user", user.Name),
		zap.String("interaction", itx.Name),
		zap.Int("targets", len(targets)),
	)
	return Result{OK: true, Narrative: strings.TrimSpace(narrative), Log: log}
}

func (m *Manager) applyAll(effects []entity.Effect, user, target, source *entity.Entity, clk *clock.Clock) []string {
	var lines []string
	for _, eff := range effects {
		line, err := m.applier.Apply(eff, effect.Context{
			User:      user,
			Target:    target,
			Source:    source,
			Clock:     clk,
			Templates: m.templates,
		})
		if err != nil {
			m.logger.Warn("effect application failed",
				zap.String("user", user.Name),
				zap.Error(err))
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (m *Manager) failure(user *entity.Entity, itx *Interaction, clk *clock.Clock, reason, log string) Result {
	m.logger.Info("interaction failed",
		zap.String("user", user.Name),
		zap.String("interaction", itx.Name),
		zap.String("reason", reason),
	)
	return Result{
		Narrative: fmt.Sprintf("[%s] %s", clk, capitalize(reason)),
		Log:       log,
	}
}

func noteText(notes []string, fallback string) string {
	var kept []string
	for _, n := range notes {
		if n != "" {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return fallback
	}
	return strings.Join(kept, "; ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// chebyshev returns the king-move distance between two positioned entities.
func chebyshev(a, b *entity.Entity) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
