// Package effect resolves effect magnitudes and applies consequences to
// entities: damage, healing, generic field mutation, status injection, and
// inventory operations.
package effect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmeverett/arbiter/internal/game/clock"
	"github.com/dmeverett/arbiter/internal/game/dice"
	"github.com/dmeverett/arbiter/internal/game/entity"
	"github.com/dmeverett/arbiter/internal/game/oppose"
)

// TemplateSource is the read-only catalog the applier consumes for status
// injection. The catalog package implements it.
type TemplateSource interface {
	// StatusTemplate returns the catalog template for a status name, or
	// (nil, false) if none is registered.
	StatusTemplate(name string) (*entity.Entity, bool)
}

// Context carries the participants and collaborators of one effect
// application.
type Context struct {
	// User is the acting entity.
	User *entity.Entity
	// Target is the entity the effect lands on.
	Target *entity.Entity
	// Source is the entity a RoleSelf magnitude resolves against: the
	// interaction's carrying item, or the status entity for trigger effects.
	// Falls back to User when nil.
	Source *entity.Entity
	// Clock stamps injected status durations and triggers.
	Clock *clock.Clock
	// Templates supplies status templates for injection.
	Templates TemplateSource
}

// Applier applies effects. It holds no per-interaction state and may be
// shared across calls.
type Applier struct {
	roller *dice.Roller
	table  *oppose.Table
	logger *zap.Logger
}

// NewApplier creates an Applier.
//
// Precondition: roller, table, and logger must be non-nil.
func NewApplier(roller *dice.Roller, table *oppose.Table, logger *zap.Logger) *Applier {
	return &Applier{roller: roller, table: table, logger: logger}
}

// Apply resolves and applies one effect, returning a narrative fragment.
// Soft content failures (missing status template, invalid frequency) degrade
// to an empty narrative with a warning; a nil target is a hard failure.
//
// Postcondition: every resource mutation goes through the target's clamped
// mutation path; no value escapes [0, max].
func (a *Applier) Apply(eff entity.Effect, ctx Context) (string, error) {
	if ctx.Target == nil {
		return "", errors.New("effect has no target")
	}

	switch eff.Kind {
	case entity.EffectDamage:
		value := a.resolveMagnitude(eff, ctx)
		a.applyResource(ctx.Target, entity.FieldCurHP, -value)
		return fmt.Sprintf("%s takes %d damage.", ctx.Target.Name, value), nil

	case entity.EffectHeal:
		value := a.resolveMagnitude(eff, ctx)
		a.applyResource(ctx.Target, entity.FieldCurHP, value)
		return fmt.Sprintf("%s heals for %d HP.", ctx.Target.Name, value), nil

	case entity.EffectApplyPath:
		value := a.resolveMagnitude(eff, ctx)
		delta := -value
		verb := "decreases"
		if eff.Restore {
			delta = value
			verb = "increases"
		}
		if _, ok := ctx.Target.AdjustResource(eff.Field, delta); !ok {
			a.logger.Warn("apply effect names unknown field",
				zap.String("field", eff.Field),
				zap.String("target", ctx.Target.Name))
			return "", nil
		}
		return fmt.Sprintf("%s's %s %s by %d.", ctx.Target.Name, eff.Field, verb, value), nil

	case entity.EffectStatusInject:
		return a.injectStatus(eff.Status, ctx)

	case entity.EffectInventoryOp:
		return a.applyInventory(eff, ctx.Target), nil

	case entity.EffectInvalid:
	}
	a.logger.Warn("unknown effect kind; nothing applied",
		zap.Int("kind", int(eff.Kind)))
	return "", nil
}

// applyResource routes a damage/heal delta through the single clamped
// mutation path. cur_hp always exists on an Entity, so the ok result is
// ignored here.
func (a *Applier) applyResource(target *entity.Entity, field string, delta int) {
	target.AdjustResource(field, delta)
}

// resolveMagnitude computes an effect's numeric strength: base value per the
// magnitude's source role (literal overrides the stat lookup), rolled through
// the d6 pool when the kind says so, plus the pre-modifier, minus any
// resistance (floored at 0). No clamping happens here.
func (a *Applier) resolveMagnitude(eff entity.Effect, ctx Context) int {
	m := eff.Magnitude

	base := m.Literal
	if !m.IsLiteral {
		src := a.magnitudeSource(m.Source, ctx)
		if src == nil {
			a.logger.Warn("magnitude source is absent; using 0",
				zap.String("source", string(m.Source)),
				zap.String("stat", m.Path.String()))
			base = 0
		} else {
			base = src.Rating(m.Path)
		}
	}

	if m.Kind == entity.MagnitudeRoll {
		base = a.roller.RollRating(base).Total()
	}
	value := base + m.PreMod

	if eff.Resistance != nil {
		value -= a.resolveResistance(*eff.Resistance, ctx)
		if value < 0 {
			value = 0
		}
	}
	return value
}

func (a *Applier) magnitudeSource(role entity.Role, ctx Context) *entity.Entity {
	switch role {
	case entity.RoleTarget:
		return ctx.Target
	case entity.RoleSelf:
		if ctx.Source != nil {
			return ctx.Source
		}
		return ctx.User
	}
	return ctx.User
}

// resolveResistance computes the defender's reduction: a flat value, or the
// defender's best counter against the attacking stat, rolled.
func (a *Applier) resolveResistance(r entity.Resistance, ctx Context) int {
	switch r.Kind {
	case entity.ResistanceStatic:
		return r.Value
	case entity.ResistanceOpposed:
		counter := a.table.BestCounter(r.Against, ctx.Target)
		if !counter.Found {
			return 0
		}
		return a.roller.RollRating(counter.Rating).Total()
	}
	a.logger.Warn("unknown resistance kind; using 0", zap.Int("kind", int(r.Kind)))
	return 0
}

// injectStatus deep-copies the named template, stamps a fresh instance ID
// and the current clock time into every duration component and trigger, and
// attaches the copy to the target. The instance belongs to the target alone.
func (a *Applier) injectStatus(name string, ctx Context) (string, error) {
	if ctx.Templates == nil {
		a.logger.Warn("status injection without a template source",
			zap.String("status", name))
		return "", nil
	}
	tmpl, ok := ctx.Templates.StatusTemplate(name)
	if !ok {
		a.logger.Warn("status template not found",
			zap.String("status", name))
		return "", nil
	}

	now := ctx.Clock.Now()
	instance := tmpl.Clone()
	instance.ID = uuid.New().String()
	for i := range instance.Durations {
		instance.Durations[i].Start = now
	}
	for _, t := range instance.Triggers {
		t.LastFired = now
	}
	ctx.Target.Statuses = append(ctx.Target.Statuses, instance)
	return fmt.Sprintf("%s is afflicted by %s.", ctx.Target.Name, instance.Name), nil
}

func (a *Applier) applyInventory(eff entity.Effect, target *entity.Entity) string {
	var parts []string
	for _, iq := range eff.Items {
		if iq.Quantity <= 0 {
			a.logger.Warn("inventory effect with non-positive quantity",
				zap.String("item", iq.Item), zap.Int("quantity", iq.Quantity))
			continue
		}
		switch eff.Op {
		case entity.InventoryAdd:
			target.AddItem(iq.Item, iq.Quantity)
			parts = append(parts, fmt.Sprintf("%s gains %d %s.", target.Name, iq.Quantity, iq.Item))
		case entity.InventoryRemove:
			if !target.RemoveItem(iq.Item, iq.Quantity) {
				parts = append(parts, fmt.Sprintf("%s does not have %d %s.", target.Name, iq.Quantity, iq.Item))
				continue
			}
			parts = append(parts, fmt.Sprintf("%s loses %d %s.", target.Name, iq.Quantity, iq.Item))
		}
	}
	return strings.Join(parts, " ")
}
