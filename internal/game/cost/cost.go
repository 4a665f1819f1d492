// Package cost implements the atomic two-phase resource ledger: every entry
// of a cost is validated before any entry is applied.
package cost

import (
	"fmt"

	"github.com/dmeverett/arbiter/internal/game/entity"
)

// Entry is one line of a cost: either a vital resource deduction or an item
// consumption.
//
// Invariant: exactly one of Resource and Item is set; Amount > 0.
type Entry struct {
	// Resource is a spendable vital field (cur_hp, cur_mp, cur_fp).
	Resource string
	// Item is an inventory item name consumed from the payer's stacks.
	Item string
	// Amount is the positive quantity deducted.
	Amount int
}

// Cost is an ordered list of entries paid together or not at all.
type Cost struct {
	Entries []Entry
}

// IsZero reports whether the cost has no entries.
func (c Cost) IsZero() bool {
	return len(c.Entries) == 0
}

// Apply checks and pays a cost in two phases. Phase 1 validates every entry
// against the payer's current resources and inventory; if ANY entry is
// unaffordable, Apply returns false with a note and the payer is left
// unmodified. Phase 2 applies every entry.
//
// Postcondition: on false, every resource field and the inventory are
// byte-for-byte unchanged. On true, each resource entry is deducted through
// the clamped mutation path and each item entry is drained in stack
// declaration order.
func Apply(payer *entity.Entity, c Cost) (bool, string) {
	if payer == nil {
		return false, "no one to pay the cost"
	}

	// Phase 1: validate everything before touching anything.
	for _, e := range c.Entries {
		switch {
		case e.Resource != "":
			cur, _, ok := payer.Resource(e.Resource)
			if !ok {
				return false, fmt.Sprintf("unknown resource %q in cost", e.Resource)
			}
			if cur < e.Amount {
				return false, fmt.Sprintf("not enough %s (need %d, have %d)", e.Resource, e.Amount, cur)
			}
		case e.Item != "":
			if have := payer.ItemCount(e.Item); have < e.Amount {
				return false, fmt.Sprintf("not enough %s (need %d, have %d)", e.Item, e.Amount, have)
			}
		default:
			return false, "malformed cost entry names neither resource nor item"
		}
	}

	// Phase 2: all affordable, apply everything.
	for _, e := range c.Entries {
		if e.Resource != "" {
			payer.AdjustResource(e.Resource, -e.Amount)
			continue
		}
		payer.RemoveItem(e.Item, e.Amount)
	}
	return true, ""
}
