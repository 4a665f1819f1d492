package entity

// ItemStack is one ordered inventory entry: an item name with a quantity.
// Stacks may nest (a worn backpack holding its own stacks); counting and
// draining operate on the top level only, in declaration order.
type ItemStack struct {
	Item     string
	Quantity int
	Equipped bool
	Contents []*ItemStack
}

func cloneStacks(stacks []*ItemStack) []*ItemStack {
	if stacks == nil {
		return nil
	}
	out := make([]*ItemStack, len(stacks))
	for i, s := range stacks {
		c := *s
		c.Contents = cloneStacks(s.Contents)
		out[i] = &c
	}
	return out
}

// ItemCount returns the total quantity of the named item across the entity's
// top-level stacks.
func (e *Entity) ItemCount(name string) int {
	total := 0
	for _, s := range e.Inventory {
		if s.Item == name {
			total += s.Quantity
		}
	}
	return total
}

// AddItem merges qty of the named item into the first existing stack with the
// same name, or appends a new stack if none exists.
//
// Precondition: qty > 0.
// Postcondition: ItemCount(name) increases by qty.
func (e *Entity) AddItem(name string, qty int) {
	for _, s := range e.Inventory {
		if s.Item == name {
			s.Quantity += qty
			return
		}
	}
	e.Inventory = append(e.Inventory, &ItemStack{Item: name, Quantity: qty})
}

// RemoveItem drains qty of the named item across the entity's stacks in
// declaration order, deleting any stack whose quantity reaches 0. Returns
// false (and removes nothing) when the entity holds fewer than qty.
//
// Precondition: qty > 0.
// Postcondition: on true, ItemCount(name) decreases by exactly qty; on
// false, the inventory is unchanged.
func (e *Entity) RemoveItem(name string, qty int) bool {
	if e.ItemCount(name) < qty {
		return false
	}
	remaining := qty
	kept := e.Inventory[:0]
	for _, s := range e.Inventory {
		if remaining > 0 && s.Item == name {
			take := s.Quantity
			if take > remaining {
				take = remaining
			}
			s.Quantity -= take
			remaining -= take
			if s.Quantity == 0 {
				continue // drop the emptied stack
			}
		}
		kept = append(kept, s)
	}
	e.Inventory = kept
	return true
}
