package session

import (
	"context"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
	"github.com/osse101/ArcaneTable_Go/internal/inventory"
)

// Inventory messages operate on the sender's own inventory. Every mutation
// broadcasts a fresh inventory snapshot and writes the owner's inventory
// through to the store.

func (s *Service) handleInventoryAdd(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.InventoryAddPayload
	if !decode(raw, &p) {
		return nil
	}

	var item domain.ItemInstance
	switch {
	case p.Item != nil:
		item = s.catalog.Hydrate(*p.Item)
	case p.ItemID != "":
		def, ok := s.catalog.ByID(p.ItemID)
		if !ok {
			return nil
		}
		item = domain.InstanceFromDefinition(def)
	default:
		return nil
	}

	room := cs.live.Room
	room.Mu.Lock()
	inv := room.InventoryFor(cs.userID)
	inventory.Add(inv, item)
	snap := s.inventorySnapshot(room)
	s.persistInventory(room.RoomID, inv)
	room.Mu.Unlock()

	cs.live.Hub.Broadcast(snap, nil)
	return nil
}

func (s *Service) handleInventoryEquip(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.InventoryEquipPayload
	if !decode(raw, &p) {
		return nil
	}
	return s.mutateInventory(cs, func(inv *domain.Inventory) bool {
		return inventory.Equip(inv, p.ItemID, p.Slot)
	})
}

func (s *Service) handleInventoryUnequip(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.InventoryUnequipPayload
	if !decode(raw, &p) {
		return nil
	}
	return s.mutateInventory(cs, func(inv *domain.Inventory) bool {
		return inventory.Unequip(inv, p.Slot)
	})
}

func (s *Service) handleInventoryDrop(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.InventoryDropPayload
	if !decode(raw, &p) {
		return nil
	}
	return s.mutateInventory(cs, func(inv *domain.Inventory) bool {
		return inventory.Drop(inv, p.ItemID)
	})
}

// mutateInventory runs one state-machine operation on the caller's
// inventory. A no-op mutation (missing item or empty slot) broadcasts and
// persists nothing.
func (s *Service) mutateInventory(cs *clientSession, fn func(inv *domain.Inventory) bool) error {
	room := cs.live.Room
	room.Mu.Lock()
	inv := room.InventoryFor(cs.userID)
	changed := fn(inv)
	var snap inventorySnapshotMsg
	if changed {
		snap = s.inventorySnapshot(room)
		s.persistInventory(room.RoomID, inv)
	}
	room.Mu.Unlock()

	if changed {
		cs.live.Hub.Broadcast(snap, nil)
	}
	return nil
}
