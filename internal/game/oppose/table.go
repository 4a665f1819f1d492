// Package oppose implements the skill-opposition table: which skills may
// defend against which attacking skills, and the search for a defender's
// best counter.
package oppose

import (
	"sort"

	"github.com/dmeverett/arbiter/internal/game/entity"
)

// FallbackDifficulty is the static difficulty used when a defender has no
// rated skill that counters the attack.
const FallbackDifficulty = 10

// Table is an immutable inverted opposition lookup: attacking skill name →
// candidate defending skill names. Built once at ruleset-load time and
// shared read-only afterwards.
type Table struct {
	counters map[string][]string
}

// NewTable builds a Table from the authored, defender-side schema: defending
// skill name → the attacking skills it opposes. The table inverts this into
// attacker → defenders, with each candidate list sorted for deterministic
// iteration.
//
// Postcondition: Candidates(attack) is sorted and duplicate-free for every
// attack skill in the schema.
func NewTable(schema map[string][]string) *Table {
	inverted := make(map[string]map[string]struct{})
	for defender, attacks := range schema {
		for _, attack := range attacks {
			if inverted[attack] == nil {
				inverted[attack] = make(map[string]struct{})
			}
			inverted[attack][defender] = struct{}{}
		}
	}

	counters := make(map[string][]string, len(inverted))
	for attack, defenders := range inverted {
		list := make([]string, 0, len(defenders))
		for d := range defenders {
			list = append(list, d)
		}
		sort.Strings(list)
		counters[attack] = list
	}
	return &Table{counters: counters}
}

// Candidates returns the sorted defending skill names that may counter the
// given attacking skill. The returned slice must not be modified.
func (t *Table) Candidates(attackSkill string) []string {
	return t.counters[attackSkill]
}

// Counter is the outcome of a best-counter search.
type Counter struct {
	// Found is false when the defender has no rated candidate skill; callers
	// fall back to FallbackDifficulty.
	Found bool
	// Path is the defender's chosen stat path (skill or specialization).
	Path entity.StatPath
	// Rating is the cascaded rating at Path.
	Rating int
}

// BestCounter scans the defender's rated skills restricted to the candidates
// that oppose the attacking skill, including the specializations beneath
// each candidate, and returns the highest-rated match.
//
// Ties are broken by lexicographic order of the full stat path: the scan
// visits paths in sorted order and only a strictly higher rating displaces
// the current best.
//
// Postcondition: on Found, Rating == defender.Rating(Path) and Path's skill
// name is a candidate for attack.Skill.
func (t *Table) BestCounter(attack entity.StatPath, defender *entity.Entity) Counter {
	if defender == nil || attack.Skill == "" {
		return Counter{}
	}
	candidates := t.counters[attack.Skill]
	if len(candidates) == 0 {
		return Counter{}
	}
	candidateSet := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		candidateSet[c] = struct{}{}
	}

	best := Counter{Rating: -1}
	for _, skillPath := range defender.Ratings.SkillPaths() {
		if _, ok := candidateSet[skillPath.Skill]; !ok {
			continue
		}
		if r := defender.Rating(skillPath); r > best.Rating {
			best = Counter{Found: true, Path: skillPath, Rating: r}
		}
		for _, specPath := range defender.Ratings.SpecializationPaths(skillPath) {
			if r := defender.Rating(specPath); r > best.Rating {
				best = Counter{Found: true, Path: specPath, Rating: r}
			}
		}
	}
	if !best.Found {
		return Counter{}
	}
	return best
}
