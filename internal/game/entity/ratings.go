package entity

import (
	"fmt"
	"sort"
	"strings"
)

// StatPath identifies a stat at one of three hierarchy levels:
// attribute, attribute.skill, or attribute.skill.specialization.
//
// Invariant: Skill is empty only if Specialization is empty.
type StatPath struct {
	Attribute      string
	Skill          string
	Specialization string
}

// AttrPath returns a depth-1 path for the given attribute.
func AttrPath(attribute string) StatPath {
	return StatPath{Attribute: attribute}
}

// SkillPath returns a depth-2 path for the given attribute and skill.
func SkillPath(attribute, skill string) StatPath {
	return StatPath{Attribute: attribute, Skill: skill}
}

// SpecPath returns a depth-3 path for the given attribute, skill, and specialization.
func SpecPath(attribute, skill, spec string) StatPath {
	return StatPath{Attribute: attribute, Skill: skill, Specialization: spec}
}

// ParseStatPath parses a dot-separated stat path of 1 to 3 levels.
// It exists for content loading only; resolution never parses strings.
//
// Postcondition: Returns a well-formed StatPath or a non-nil error.
func ParseStatPath(s string) (StatPath, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 1 || len(parts) > 3 {
		return StatPath{}, fmt.Errorf("stat path %q must have 1-3 dot-separated levels", s)
	}
	for _, p := range parts {
		if p == "" {
			return StatPath{}, fmt.Errorf("stat path %q contains an empty level", s)
		}
	}
	path := StatPath{Attribute: parts[0]}
	if len(parts) > 1 {
		path.Skill = parts[1]
	}
	if len(parts) > 2 {
		path.Specialization = parts[2]
	}
	return path, nil
}

// IsZero reports whether the path names no stat at all.
func (p StatPath) IsZero() bool {
	return p.Attribute == ""
}

// Depth returns the number of levels present: 1, 2, or 3. Depth of the zero
// path is 0.
func (p StatPath) Depth() int {
	switch {
	case p.Attribute == "":
		return 0
	case p.Skill == "":
		return 1
	case p.Specialization == "":
		return 2
	default:
		return 3
	}
}

// SkillPrefix returns the path truncated to attribute.skill depth.
func (p StatPath) SkillPrefix() StatPath {
	return StatPath{Attribute: p.Attribute, Skill: p.Skill}
}

// String returns the dot-separated form of the path.
func (p StatPath) String() string {
	s := p.Attribute
	if p.Skill != "" {
		s += "." + p.Skill
	}
	if p.Specialization != "" {
		s += "." + p.Specialization
	}
	return s
}

type skillNode struct {
	base            int
	specializations map[string]int
}

type attributeNode struct {
	base   int
	skills map[string]*skillNode
}

// Ratings is a three-level tree of base values: attribute → skill →
// specialization. Each level carries its own base; the rating of a path is
// the sum of the bases present along its prefixes.
//
// The zero value is ready to use.
type Ratings struct {
	attributes map[string]*attributeNode
}

func (r *Ratings) attr(name string) *attributeNode {
	if r.attributes == nil {
		r.attributes = make(map[string]*attributeNode)
	}
	a, ok := r.attributes[name]
	if !ok {
		a = &attributeNode{skills: make(map[string]*skillNode)}
		r.attributes[name] = a
	}
	return a
}

func (a *attributeNode) skill(name string) *skillNode {
	s, ok := a.skills[name]
	if !ok {
		s = &skillNode{specializations: make(map[string]int)}
		a.skills[name] = s
	}
	return s
}

// SetAttribute sets the base value of an attribute, creating it if absent.
func (r *Ratings) SetAttribute(attribute string, base int) {
	r.attr(attribute).base = base
}

// SetSkill sets the base value of a skill under an attribute.
//
// Postcondition: the attribute level exists (with base 0 if newly created).
func (r *Ratings) SetSkill(attribute, skill string, base int) {
	r.attr(attribute).skill(skill).base = base
}

// SetSpecialization sets the base value of a specialization under a skill.
//
// Postcondition: the attribute and skill levels exist (with base 0 if newly created).
func (r *Ratings) SetSpecialization(attribute, skill, spec string, base int) {
	r.attr(attribute).skill(skill).specializations[spec] = base
}

// RemoveSpecialization deletes a specialization entry. No-op if absent.
//
// Postcondition: Rating of the attribute and skill prefixes is unchanged.
func (r *Ratings) RemoveSpecialization(attribute, skill, spec string) {
	a, ok := r.attributes[attribute]
	if !ok {
		return
	}
	s, ok := a.skills[skill]
	if !ok {
		return
	}
	delete(s.specializations, spec)
}

// Rating returns the cascading sum of the base values present at each prefix
// level of path. Missing levels contribute 0; Rating never fails.
//
// Postcondition: Rating(a.b.c) - specialization base == Rating(a.b).
func (r *Ratings) Rating(path StatPath) int {
	a, ok := r.attributes[path.Attribute]
	if !ok {
		return 0
	}
	total := a.base
	if path.Skill == "" {
		return total
	}
	s, ok := a.skills[path.Skill]
	if !ok {
		return total
	}
	total += s.base
	if path.Specialization == "" {
		return total
	}
	total += s.specializations[path.Specialization]
	return total
}

// SkillPaths returns every attribute.skill path present in the tree, sorted
// lexicographically by full path. Deterministic snapshot; mutating the result
// does not affect the tree.
func (r *Ratings) SkillPaths() []StatPath {
	var paths []StatPath
	for attrName, a := range r.attributes {
		for skillName := range a.skills {
			paths = append(paths, SkillPath(attrName, skillName))
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].String() < paths[j].String()
	})
	return paths
}

// SpecializationPaths returns every depth-3 path beneath the given skill path,
// sorted lexicographically.
func (r *Ratings) SpecializationPaths(skill StatPath) []StatPath {
	a, ok := r.attributes[skill.Attribute]
	if !ok {
		return nil
	}
	s, ok := a.skills[skill.Skill]
	if !ok {
		return nil
	}
	var paths []StatPath
	for specName := range s.specializations {
		paths = append(paths, SpecPath(skill.Attribute, skill.Skill, specName))
	}
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].String() < paths[j].String()
	})
	return paths
}

// Clone returns a deep copy of the tree.
func (r *Ratings) Clone() Ratings {
	out := Ratings{}
	for attrName, a := range r.attributes {
		out.SetAttribute(attrName, a.base)
		for skillName, s := range a.skills {
			out.SetSkill(attrName, skillName, s.base)
			for specName, base := range s.specializations {
				out.SetSpecialization(attrName, skillName, specName, base)
			}
		}
	}
	return out
}
