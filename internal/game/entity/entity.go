// Package entity defines the game data model: entities with cascading stat
// ratings, clamped vital resources, ordered inventories, and attached status
// entities carrying duration and trigger data.
package entity

// Role selects which participant of an interaction a reference resolves
// against.
type Role string

const (
	// RoleUser is the acting entity.
	RoleUser Role = "user"
	// RoleTarget is the entity being acted upon.
	RoleTarget Role = "target"
	// RoleSelf is the interaction's own carrying entity (the weapon, spell,
	// or item), not the actor.
	RoleSelf Role = "self"
)

// Resource field names accepted by Resource and AdjustResource.
const (
	FieldCurHP = "cur_hp"
	FieldCurMP = "cur_mp"
	FieldCurFP = "cur_fp"
	FieldMaxHP = "max_hp"
	FieldMaxMP = "max_mp"
	FieldMaxFP = "max_fp"
)

// Entity is a generic representation of anything in the game world: a
// character, an item, or a status affliction attached to a host.
//
// Invariant: CurHP ∈ [0, MaxHP], CurMP ∈ [0, MaxMP], CurFP ∈ [0, MaxFP],
// maintained by AdjustResource being the only mutation path for vitals.
// Invariant: every Entity in Statuses is owned exclusively by this entity.
type Entity struct {
	// ID is a unique instance identifier, stamped at clone time for status
	// instances. Catalog templates share the empty ID.
	ID          string
	Name        string
	Supertype   string
	Type        string
	Subtype     string
	Description string

	CurHP, MaxHP int
	CurMP, MaxMP int
	CurFP, MaxFP int

	Ratings   Ratings
	Inventory []*ItemStack
	Statuses  []*Entity

	// Durations and Triggers are populated on status entities only.
	Durations []DurationComponent
	Triggers  []*Trigger

	// Positioned reports whether X and Y hold a real map position.
	Positioned bool
	X, Y       int

	// Tags holds arbitrary named string facts ("quality.eye": "green") used
	// by property requirements.
	Tags map[string]string
}

// Rating returns the cascading rating for path. See Ratings.Rating.
func (e *Entity) Rating(path StatPath) int {
	return e.Ratings.Rating(path)
}

// Resource returns the current and maximum values for a vital resource field.
// ok is false for unknown field names.
func (e *Entity) Resource(field string) (cur, max int, ok bool) {
	switch field {
	case FieldCurHP:
		return e.CurHP, e.MaxHP, true
	case FieldCurMP:
		return e.CurMP, e.MaxMP, true
	case FieldCurFP:
		return e.CurFP, e.MaxFP, true
	}
	return 0, 0, false
}

// AdjustResource applies delta to a vital resource field, clamping the result
// to [0, max]. It is the single mutation path for vitals; every damage, heal,
// cost, and generic field effect goes through it.
//
// Postcondition: on ok, the field holds clamp(cur+delta, 0, max) and the new
// value is returned. Unknown fields return (0, false) and mutate nothing.
func (e *Entity) AdjustResource(field string, delta int) (int, bool) {
	cur, max, ok := e.Resource(field)
	if !ok {
		return 0, false
	}
	next := cur + delta
	if next < 0 {
		next = 0
	}
	if next > max {
		next = max
	}
	switch field {
	case FieldCurHP:
		e.CurHP = next
	case FieldCurMP:
		e.CurMP = next
	case FieldCurFP:
		e.CurFP = next
	}
	return next, true
}

// NumField returns a named numeric field for property checks.
func (e *Entity) NumField(name string) (int, bool) {
	switch name {
	case FieldCurHP:
		return e.CurHP, true
	case FieldMaxHP:
		return e.MaxHP, true
	case FieldCurMP:
		return e.CurMP, true
	case FieldMaxMP:
		return e.MaxMP, true
	case FieldCurFP:
		return e.CurFP, true
	case FieldMaxFP:
		return e.MaxFP, true
	}
	return 0, false
}

// TextField returns a named text field for property checks. Unknown names
// fall through to Tags.
func (e *Entity) TextField(name string) (string, bool) {
	switch name {
	case "name":
		return e.Name, true
	case "supertype":
		return e.Supertype, true
	case "type":
		return e.Type, true
	case "subtype":
		return e.Subtype, true
	}
	if v, ok := e.Tags[name]; ok {
		return v, true
	}
	return "", false
}

// HasTag reports whether the named tag is present with a non-empty value.
func (e *Entity) HasTag(name string) bool {
	return e.Tags[name] != ""
}

// IsResourceField reports whether name is one of the spendable vital fields
// (cur_hp, cur_mp, cur_fp).
func IsResourceField(name string) bool {
	return name == FieldCurHP || name == FieldCurMP || name == FieldCurFP
}

// Clone returns a deep copy of the entity. The copy shares nothing with the
// original: ratings, inventory, statuses, durations, triggers, and tags are
// all duplicated. The copy's ID is cleared; the caller stamps a fresh one.
//
// Clone is the ownership-transferring operation behind status injection: a
// status instance belongs exclusively to its host and is never shared with
// the catalog template it came from.
func (e *Entity) Clone() *Entity {
	out := *e
	out.ID = ""
	out.Ratings = e.Ratings.Clone()
	out.Inventory = cloneStacks(e.Inventory)
	if e.Statuses != nil {
		out.Statuses = make([]*Entity, len(e.Statuses))
		for i, s := range e.Statuses {
			out.Statuses[i] = s.Clone()
		}
	}
	if e.Durations != nil {
		out.Durations = make([]DurationComponent, len(e.Durations))
		copy(out.Durations, e.Durations)
	}
	if e.Triggers != nil {
		out.Triggers = make([]*Trigger, len(e.Triggers))
		for i, t := range e.Triggers {
			out.Triggers[i] = t.clone()
		}
	}
	if e.Tags != nil {
		out.Tags = make(map[string]string, len(e.Tags))
		for k, v := range e.Tags {
			out.Tags[k] = v
		}
	}
	return &out
}

// RemoveStatus detaches the status with the given instance ID from the
// entity, preserving the order of the rest. No-op if absent.
func (e *Entity) RemoveStatus(id string) {
	for i, s := range e.Statuses {
		if s.ID == id {
			e.Statuses = append(e.Statuses[:i], e.Statuses[i+1:]...)
			return
		}
	}
}
