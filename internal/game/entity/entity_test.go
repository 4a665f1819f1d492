package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dmeverett/arbiter/internal/game/entity"
)

func TestAdjustResource_ClampsToBounds(t *testing.T) {
	e := &entity.Entity{Name: "Snagg", CurHP: 9, MaxHP: 9}

	v, ok := e.AdjustResource(entity.FieldCurHP, -3)
	require.True(t, ok)
	assert.Equal(t, 6, v)

	v, ok = e.AdjustResource(entity.FieldCurHP, -100)
	require.True(t, ok)
	assert.Equal(t, 0, v, "resources never go below zero")
	assert.Equal(t, 0, e.CurHP)

	v, ok = e.AdjustResource(entity.FieldCurHP, 100)
	require.True(t, ok)
	assert.Equal(t, 9, v, "resources never exceed their maximum")
}

func TestAdjustResource_UnknownField(t *testing.T) {
	e := &entity.Entity{CurHP: 5, MaxHP: 5}
	_, ok := e.AdjustResource("cur_sanity", 1)
	assert.False(t, ok)
	assert.Equal(t, 5, e.CurHP, "an unknown field must not touch anything")
}

// TestAdjustResource_ClampProperty exercises all three resource pools with
// arbitrary deltas: the result always lands in [0, max] and matches what a
// second read of the field reports.
func TestAdjustResource_ClampProperty(t *testing.T) {
	fields := []string{entity.FieldCurHP, entity.FieldCurMP, entity.FieldCurFP}
	rapid.Check(t, func(rt *rapid.T) {
		max := rapid.IntRange(0, 50).Draw(rt, "max")
		cur := rapid.IntRange(0, max).Draw(rt, "cur")
		delta := rapid.IntRange(-200, 200).Draw(rt, "delta")
		field := rapid.SampledFrom(fields).Draw(rt, "field")

		e := &entity.Entity{
			CurHP: cur, MaxHP: max,
			CurMP: cur, MaxMP: max,
			CurFP: cur, MaxFP: max,
		}
		v, ok := e.AdjustResource(field, delta)
		require.True(rt, ok)
		assert.GreaterOrEqual(rt, v, 0)
		assert.LessOrEqual(rt, v, max)

		got, _, ok := e.Resource(field)
		require.True(rt, ok)
		assert.Equal(rt, v, got, "AdjustResource must report the stored value")
	})
}

func TestResource(t *testing.T) {
	e := &entity.Entity{CurHP: 4, MaxHP: 10, CurMP: 2, MaxMP: 3, CurFP: 0, MaxFP: 7}

	cur, max, ok := e.Resource(entity.FieldCurHP)
	require.True(t, ok)
	assert.Equal(t, 4, cur)
	assert.Equal(t, 10, max)

	cur, max, ok = e.Resource(entity.FieldCurFP)
	require.True(t, ok)
	assert.Equal(t, 0, cur)
	assert.Equal(t, 7, max)

	_, _, ok = e.Resource("stamina")
	assert.False(t, ok)
}

func TestNumField(t *testing.T) {
	e := &entity.Entity{CurHP: 4, MaxHP: 10, CurMP: 2, MaxMP: 3}

	v, ok := e.NumField(entity.FieldMaxHP)
	require.True(t, ok)
	assert.Equal(t, 10, v)

	v, ok = e.NumField(entity.FieldCurMP)
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = e.NumField("luck")
	assert.False(t, ok)
}

func TestTextField(t *testing.T) {
	e := &entity.Entity{
		Name:      "Aldric",
		Supertype: "character",
		Type:      "humanoid",
		Tags:      map[string]string{"faction": "free-company"},
	}

	v, ok := e.TextField("name")
	require.True(t, ok)
	assert.Equal(t, "Aldric", v)

	v, ok = e.TextField("supertype")
	require.True(t, ok)
	assert.Equal(t, "character", v)

	v, ok = e.TextField("faction")
	require.True(t, ok, "unknown text fields fall through to tags")
	assert.Equal(t, "free-company", v)

	_, ok = e.TextField("allegiance")
	assert.False(t, ok)
}

func TestIsResourceField(t *testing.T) {
	assert.True(t, entity.IsResourceField(entity.FieldCurHP))
	assert.True(t, entity.IsResourceField(entity.FieldCurMP))
	assert.True(t, entity.IsResourceField(entity.FieldCurFP))
	assert.False(t, entity.IsResourceField(entity.FieldMaxHP),
		"maxima are readable but not spendable")
	assert.False(t, entity.IsResourceField("name"))
}

func TestClone_DeepAndIndependent(t *testing.T) {
	orig := &entity.Entity{
		ID:    "template-1",
		Name:  "poisoned",
		CurHP: 3, MaxHP: 3,
		Tags: map[string]string{"school": "venom"},
		Durations: []entity.DurationComponent{
			{Unit: entity.FrequencyRound, Length: 3},
		},
		Triggers: []*entity.Trigger{
			{Unit: entity.FrequencyRound, SelfEffects: []entity.Effect{
				{Kind: entity.EffectDamage, Magnitude: entity.Magnitude{Literal: 1, IsLiteral: true}},
			}},
		},
		Inventory: []*entity.ItemStack{{Item: "fang", Quantity: 1}},
	}

	c := orig.Clone()
	assert.Empty(t, c.ID, "clones get no identity until instantiated")
	assert.Equal(t, orig.Name, c.Name)

	c.Tags["school"] = "fire"
	c.Durations[0].Start = 99
	c.Triggers[0].LastFired = 99
	c.Triggers[0].SelfEffects[0].Magnitude.Literal = 50
	c.Inventory[0].Quantity = 10

	assert.Equal(t, "venom", orig.Tags["school"])
	assert.Equal(t, int64(0), orig.Durations[0].Start)
	assert.Equal(t, int64(0), orig.Triggers[0].LastFired)
	assert.Equal(t, 1, orig.Triggers[0].SelfEffects[0].Magnitude.Literal,
		"trigger effects must be deep-copied, not shared")
	assert.Equal(t, 1, orig.Inventory[0].Quantity)
}

func TestRemoveStatus(t *testing.T) {
	host := &entity.Entity{Name: "Snagg"}
	host.Statuses = []*entity.Entity{
		{ID: "a", Name: "poisoned"},
		{ID: "b", Name: "burning"},
	}

	host.RemoveStatus("a")
	require.Len(t, host.Statuses, 1)
	assert.Equal(t, "b", host.Statuses[0].ID)

	host.RemoveStatus("missing")
	assert.Len(t, host.Statuses, 1, "removing an unknown id is a no-op")
}

func TestHasTag(t *testing.T) {
	e := &entity.Entity{Tags: map[string]string{"undead": "true"}}
	assert.True(t, e.HasTag("undead"))
	assert.False(t, e.HasTag("living"))

	var bare entity.Entity
	assert.False(t, bare.HasTag("undead"), "nil tag map must not panic")
}
