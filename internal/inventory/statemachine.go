// Package inventory implements the per-user equipment state machine. Every
// operation mutates the inventory in place and preserves the invariant that
// each item instance lives in exactly one container: the bag or a single
// equipment slot. Operations on missing items or empty slots are silent
// no-ops so that stale client actions never surface as errors.
package inventory

import "github.com/osse101/ArcaneTable_Go/internal/domain"

// Add appends an instance to the bag.
func Add(inv *domain.Inventory, item domain.ItemInstance) {
	inv.Bag = append(inv.Bag, item)
}

// Drop removes the first bag instance with the given item id. Returns false
// when no instance matched.
func Drop(inv *domain.Inventory, itemID string) bool {
	idx := inv.FindBagItem(itemID)
	if idx < 0 {
		return false
	}
	inv.Bag = append(inv.Bag[:idx], inv.Bag[idx+1:]...)
	return true
}

// Equip moves a bag instance into the given slot, evacuating any displaced
// occupants back to the bag.
//
// Two-handed exclusivity: equipping a two-handed item clears both hand slots
// first and the item lands under mainhand regardless of which hand was
// requested. Equipping a one-handed item into a hand slot clears a two-handed
// occupant from either hand. The target slot's occupant always returns to the
// bag, never disappears. Returns false when the item is not in the bag.
func Equip(inv *domain.Inventory, itemID, slot string) bool {
	idx := inv.FindBagItem(itemID)
	if idx < 0 {
		return false
	}
	item := inv.Bag[idx]
	inv.Bag = append(inv.Bag[:idx], inv.Bag[idx+1:]...)

	if item.IsTwoHanded && isHandSlot(slot) {
		evacuate(inv, domain.SlotMainHand)
		evacuate(inv, domain.SlotOffHand)
		slot = domain.SlotMainHand
	} else if isHandSlot(slot) {
		evacuateTwoHanded(inv)
		evacuate(inv, slot)
	} else {
		evacuate(inv, slot)
	}

	inv.Equipment[slot] = item
	return true
}

// Unequip moves a slot occupant back to the bag. Returns false when the slot
// is empty.
func Unequip(inv *domain.Inventory, slot string) bool {
	item, ok := inv.Equipment[slot]
	if !ok {
		return false
	}
	delete(inv.Equipment, slot)
	inv.Bag = append(inv.Bag, item)
	return true
}

func evacuate(inv *domain.Inventory, slot string) {
	if item, ok := inv.Equipment[slot]; ok {
		delete(inv.Equipment, slot)
		inv.Bag = append(inv.Bag, item)
	}
}

// evacuateTwoHanded clears a two-handed occupant from whichever hand holds
// it. A two-handed item occupies one slot entry but claims both hands.
func evacuateTwoHanded(inv *domain.Inventory) {
	for _, slot := range []string{domain.SlotMainHand, domain.SlotOffHand} {
		if item, ok := inv.Equipment[slot]; ok && item.IsTwoHanded {
			delete(inv.Equipment, slot)
			inv.Bag = append(inv.Bag, item)
		}
	}
}

func isHandSlot(slot string) bool {
	return slot == domain.SlotMainHand || slot == domain.SlotOffHand
}
