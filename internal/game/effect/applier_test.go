package effect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmeverett/arbiter/internal/game/clock"
	"github.com/dmeverett/arbiter/internal/game/dice"
	"github.com/dmeverett/arbiter/internal/game/effect"
	"github.com/dmeverett/arbiter/internal/game/entity"
	"github.com/dmeverett/arbiter/internal/game/oppose"
)

// fixedSource always returns the same value, clamped to n-1. Every d6 rolled
// through it shows val+1.
type fixedSource struct {
	val int
}

func (f *fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

// templateMap is a TemplateSource backed by a plain map.
type templateMap map[string]*entity.Entity

func (m templateMap) StatusTemplate(name string) (*entity.Entity, bool) {
	t, ok := m[name]
	return t, ok
}

func newApplier(val int) *effect.Applier {
	roller := dice.NewRoller(&fixedSource{val: val}, zap.NewNop())
	table := oppose.NewTable(map[string][]string{"dodge": {"blade"}})
	return effect.NewApplier(roller, table, zap.NewNop())
}

func attacker() *entity.Entity {
	e := &entity.Entity{Name: "Aldric", CurHP: 20, MaxHP: 20}
	e.Ratings.SetAttribute("physique", 3)
	e.Ratings.SetSkill("physique", "blade", 6)
	return e
}

func victim() *entity.Entity {
	return &entity.Entity{Name: "Snagg", CurHP: 9, MaxHP: 9, CurMP: 3, MaxMP: 3, CurFP: 6, MaxFP: 6}
}

func TestApply_DamageClampsAtZero(t *testing.T) {
	a := newApplier(3)
	target := victim()
	target.CurHP = 3

	msg, err := a.Apply(entity.Effect{
		Kind:      entity.EffectDamage,
		Magnitude: entity.Magnitude{Literal: 5, IsLiteral: true},
	}, effect.Context{User: attacker(), Target: target})

	require.NoError(t, err)
	assert.Equal(t, "Snagg takes 5 damage.", msg,
		"the narrative reports the resolved value, not the clamped delta")
	assert.Equal(t, 0, target.CurHP)
}

func TestApply_HealClampsAtMax(t *testing.T) {
	a := newApplier(3)
	target := victim()
	target.CurHP = 7

	msg, err := a.Apply(entity.Effect{
		Kind:      entity.EffectHeal,
		Magnitude: entity.Magnitude{Literal: 6, IsLiteral: true},
	}, effect.Context{User: attacker(), Target: target})

	require.NoError(t, err)
	assert.Equal(t, "Snagg heals for 6 HP.", msg)
	assert.Equal(t, 9, target.CurHP)
}

func TestApply_RolledMagnitude(t *testing.T) {
	a := newApplier(3)
	target := victim()

	// physique 3 rolls 1d6 = 4, +3 premod = 7 damage.
	msg, err := a.Apply(entity.Effect{
		Kind: entity.EffectDamage,
		Magnitude: entity.Magnitude{
			Source: entity.RoleUser,
			Path:   entity.AttrPath("physique"),
			PreMod: 3,
			Kind:   entity.MagnitudeRoll,
		},
	}, effect.Context{User: attacker(), Target: target})

	require.NoError(t, err)
	assert.Equal(t, "Snagg takes 7 damage.", msg)
	assert.Equal(t, 2, target.CurHP)
}

func TestApply_StaticStatMagnitude(t *testing.T) {
	a := newApplier(3)
	target := victim()

	// Static kind reads the rating without rolling: physique.blade = 9.
	_, err := a.Apply(entity.Effect{
		Kind: entity.EffectDamage,
		Magnitude: entity.Magnitude{
			Source: entity.RoleUser,
			Path:   entity.SkillPath("physique", "blade"),
			Kind:   entity.MagnitudeStatic,
		},
	}, effect.Context{User: attacker(), Target: target})

	require.NoError(t, err)
	assert.Equal(t, 0, target.CurHP, "9 damage against 9 HP")
}

func TestApply_SelfMagnitudeSource(t *testing.T) {
	a := newApplier(3)
	target := victim()

	venom := &entity.Entity{Name: "venom"}
	venom.Ratings.SetAttribute("potency", 2)

	_, err := a.Apply(entity.Effect{
		Kind: entity.EffectDamage,
		Magnitude: entity.Magnitude{
			Source: entity.RoleSelf,
			Path:   entity.AttrPath("potency"),
			Kind:   entity.MagnitudeStatic,
		},
	}, effect.Context{User: attacker(), Target: target, Source: venom})

	require.NoError(t, err)
	assert.Equal(t, 7, target.CurHP, "self resolves against the carrying entity")
}

func TestApply_SelfFallsBackToUser(t *testing.T) {
	a := newApplier(3)
	target := victim()

	_, err := a.Apply(entity.Effect{
		Kind: entity.EffectDamage,
		Magnitude: entity.Magnitude{
			Source: entity.RoleSelf,
			Path:   entity.AttrPath("physique"),
			Kind:   entity.MagnitudeStatic,
		},
	}, effect.Context{User: attacker(), Target: target})

	require.NoError(t, err)
	assert.Equal(t, 6, target.CurHP, "with no source entity, self means the user")
}

func TestApply_StaticResistanceFloorsAtZero(t *testing.T) {
	a := newApplier(3)
	target := victim()

	msg, err := a.Apply(entity.Effect{
		Kind:       entity.EffectDamage,
		Magnitude:  entity.Magnitude{Literal: 4, IsLiteral: true},
		Resistance: &entity.Resistance{Kind: entity.ResistanceStatic, Value: 10},
	}, effect.Context{User: attacker(), Target: target})

	require.NoError(t, err)
	assert.Equal(t, "Snagg takes 0 damage.", msg,
		"resistance exceeding the magnitude means no effect, never healing")
	assert.Equal(t, 9, target.CurHP)
}

func TestApply_OpposedResistance(t *testing.T) {
	a := newApplier(3)
	target := victim()
	target.Ratings.SetAttribute("dexterity", 2)
	target.Ratings.SetSkill("dexterity", "dodge", 3)

	// Magnitude 10; the target's dodge at 5 rolls 1d6+2 = 6; 10-6 = 4.
	_, err := a.Apply(entity.Effect{
		Kind:      entity.EffectDamage,
		Magnitude: entity.Magnitude{Literal: 10, IsLiteral: true},
		Resistance: &entity.Resistance{
			Kind:    entity.ResistanceOpposed,
			Against: entity.SkillPath("physique", "blade"),
		},
	}, effect.Context{User: attacker(), Target: target})

	require.NoError(t, err)
	assert.Equal(t, 5, target.CurHP)
}

func TestApply_OpposedResistanceWithoutCounter(t *testing.T) {
	a := newApplier(3)
	target := victim()

	_, err := a.Apply(entity.Effect{
		Kind:      entity.EffectDamage,
		Magnitude: entity.Magnitude{Literal: 4, IsLiteral: true},
		Resistance: &entity.Resistance{
			Kind:    entity.ResistanceOpposed,
			Against: entity.SkillPath("physique", "blade"),
		},
	}, effect.Context{User: attacker(), Target: target})

	require.NoError(t, err)
	assert.Equal(t, 5, target.CurHP, "no counter means no reduction")
}

func TestApply_PathEffect(t *testing.T) {
	a := newApplier(3)
	target := victim()

	msg, err := a.Apply(entity.Effect{
		Kind:      entity.EffectApplyPath,
		Field:     entity.FieldCurFP,
		Magnitude: entity.Magnitude{Literal: 2, IsLiteral: true},
	}, effect.Context{User: attacker(), Target: target})

	require.NoError(t, err)
	assert.Equal(t, "Snagg's cur_fp decreases by 2.", msg)
	assert.Equal(t, 4, target.CurFP)

	msg, err = a.Apply(entity.Effect{
		Kind:      entity.EffectApplyPath,
		Field:     entity.FieldCurFP,
		Restore:   true,
		Magnitude: entity.Magnitude{Literal: 10, IsLiteral: true},
	}, effect.Context{User: attacker(), Target: target})

	require.NoError(t, err)
	assert.Equal(t, "Snagg's cur_fp increases by 10.", msg)
	assert.Equal(t, 6, target.CurFP, "restoration clamps at the maximum")
}

func TestApply_PathEffectUnknownField(t *testing.T) {
	a := newApplier(3)
	target := victim()

	msg, err := a.Apply(entity.Effect{
		Kind:      entity.EffectApplyPath,
		Field:     "cur_sanity",
		Magnitude: entity.Magnitude{Literal: 2, IsLiteral: true},
	}, effect.Context{User: attacker(), Target: target})

	require.NoError(t, err, "unknown fields in content degrade, they do not crash")
	assert.Empty(t, msg)
}

func TestApply_StatusInjection(t *testing.T) {
	a := newApplier(3)
	target := victim()
	clk := clock.New(1, 1, 1, 8)

	tmpl := &entity.Entity{
		Name: "poisoned",
		Durations: []entity.DurationComponent{
			{Unit: entity.FrequencyRound, Length: 3},
		},
		Triggers: []*entity.Trigger{
			{Unit: entity.FrequencyRound, SelfEffects: []entity.Effect{
				{Kind: entity.EffectDamage, Magnitude: entity.Magnitude{Literal: 1, IsLiteral: true}},
			}},
		},
	}
	templates := templateMap{"poisoned": tmpl}

	msg, err := a.Apply(entity.Effect{
		Kind:   entity.EffectStatusInject,
		Status: "poisoned",
	}, effect.Context{User: attacker(), Target: target, Clock: clk, Templates: templates})

	require.NoError(t, err)
	assert.Equal(t, "Snagg is afflicted by poisoned.", msg)
	require.Len(t, target.Statuses, 1)

	instance := target.Statuses[0]
	assert.NotEmpty(t, instance.ID, "instances get a fresh identity")
	assert.Equal(t, clk.Now(), instance.Durations[0].Start)
	assert.Equal(t, clk.Now(), instance.Triggers[0].LastFired)

	assert.Empty(t, tmpl.ID, "the template is never mutated")
	assert.Equal(t, int64(0), tmpl.Durations[0].Start)
	assert.Equal(t, int64(0), tmpl.Triggers[0].LastFired)

	// A second injection yields a distinct instance.
	_, err = a.Apply(entity.Effect{
		Kind:   entity.EffectStatusInject,
		Status: "poisoned",
	}, effect.Context{User: attacker(), Target: target, Clock: clk, Templates: templates})
	require.NoError(t, err)
	require.Len(t, target.Statuses, 2)
	assert.NotEqual(t, target.Statuses[0].ID, target.Statuses[1].ID)
}

func TestApply_StatusInjectionMissingTemplate(t *testing.T) {
	a := newApplier(3)
	target := victim()

	msg, err := a.Apply(entity.Effect{
		Kind:   entity.EffectStatusInject,
		Status: "petrified",
	}, effect.Context{User: attacker(), Target: target, Clock: clock.New(1, 1, 1, 0), Templates: templateMap{}})

	require.NoError(t, err, "a missing template is a content bug, not a crash")
	assert.Empty(t, msg)
	assert.Empty(t, target.Statuses)
}

func TestApply_InventoryOps(t *testing.T) {
	a := newApplier(3)
	target := victim()
	target.Inventory = []*entity.ItemStack{{Item: "arrow", Quantity: 2}}

	msg, err := a.Apply(entity.Effect{
		Kind:  entity.EffectInventoryOp,
		Op:    entity.InventoryAdd,
		Items: []entity.ItemQuantity{{Item: "gold coin", Quantity: 5}},
	}, effect.Context{User: attacker(), Target: target})
	require.NoError(t, err)
	assert.Equal(t, "Snagg gains 5 gold coin.", msg)
	assert.Equal(t, 5, target.ItemCount("gold coin"))

	msg, err = a.Apply(entity.Effect{
		Kind:  entity.EffectInventoryOp,
		Op:    entity.InventoryRemove,
		Items: []entity.ItemQuantity{{Item: "arrow", Quantity: 2}, {Item: "rope", Quantity: 1}},
	}, effect.Context{User: attacker(), Target: target})
	require.NoError(t, err)
	assert.Equal(t, "Snagg loses 2 arrow. Snagg does not have 1 rope.", msg)
	assert.Equal(t, 0, target.ItemCount("arrow"))
}

func TestApply_NilTargetIsHardFailure(t *testing.T) {
	a := newApplier(3)
	_, err := a.Apply(entity.Effect{
		Kind:      entity.EffectDamage,
		Magnitude: entity.Magnitude{Literal: 1, IsLiteral: true},
	}, effect.Context{User: attacker()})
	assert.Error(t, err)
}

func TestApply_UnknownKindDegrades(t *testing.T) {
	a := newApplier(3)
	target := victim()

	msg, err := a.Apply(entity.Effect{Kind: entity.EffectKind(99)}, effect.Context{User: attacker(), Target: target})
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Equal(t, 9, target.CurHP, "nothing is applied for an unknown kind")
}
