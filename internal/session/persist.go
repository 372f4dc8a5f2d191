package session

import (
	"context"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
	"github.com/osse101/ArcaneTable_Go/internal/logger"
	"github.com/osse101/ArcaneTable_Go/internal/metrics"
)

// Persistence operation labels.
const (
	opRoom          = "room"
	opInventory     = "inventory"
	opLootBag       = "loot_bag"
	opLootBagDelete = "loot_bag_delete"
	opChat          = "chat"
)

// Write-through persistence is fire-and-forget: the live room remains
// authoritative and a store failure is logged and counted, never surfaced to
// clients. Every snapshot is taken while the caller still holds the room
// mutex so the detached goroutine touches no shared state.

func (s *Service) persistRoom(room *domain.Room) {
	snap := snapshotRoom(room)
	s.detach(opRoom, snap.RoomID, func(ctx context.Context) error {
		return s.store.UpsertRoom(ctx, snap)
	})
}

func (s *Service) persistInventory(roomID string, inv *domain.Inventory) {
	snap := snapshotInventory(inv)
	s.detach(opInventory, roomID, func(ctx context.Context) error {
		return s.store.SaveInventory(ctx, roomID, snap)
	})
}

func (s *Service) persistLootBag(roomID string, bag *domain.LootBag) {
	snap := snapshotLootBag(bag)
	s.detach(opLootBag, roomID, func(ctx context.Context) error {
		return s.store.SaveLootBag(ctx, roomID, snap)
	})
}

func (s *Service) deleteLootBag(roomID, bagID string) {
	s.detach(opLootBagDelete, roomID, func(ctx context.Context) error {
		return s.store.DeleteLootBag(ctx, roomID, bagID)
	})
}

func (s *Service) persistChatMessage(roomID string, msg domain.ChatMessage) {
	s.detach(opChat, roomID, func(ctx context.Context) error {
		return s.store.AppendChatMessage(ctx, roomID, msg)
	})
}

func (s *Service) detach(operation, roomID string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), PersistTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			metrics.PersistenceErrors.WithLabelValues(operation).Inc()
			logger.Error(LogMsgPersistFailed,
				"operation", operation, "room_id", roomID, "error", err)
		}
	}()
}

// snapshotRoom copies the persisted subset of room state.
func snapshotRoom(room *domain.Room) *domain.Room {
	snap := &domain.Room{
		RoomID:      room.RoomID,
		Name:        room.Name,
		CreatedAt:   room.CreatedAt,
		Locked:      room.Locked,
		Scene:       room.Scene,
		Grid:        room.Grid,
		MapImageURL: room.MapImageURL,
		LootBagSeq:  room.LootBagSeq,
	}
	snap.Tokens = make([]domain.Token, len(room.Tokens))
	copy(snap.Tokens, room.Tokens)
	return snap
}

func snapshotInventory(inv *domain.Inventory) *domain.Inventory {
	snap := domain.NewInventory(inv.UserID)
	snap.Bag = make([]domain.ItemInstance, len(inv.Bag))
	copy(snap.Bag, inv.Bag)
	for slot, it := range inv.Equipment {
		snap.Equipment[slot] = it
	}
	return snap
}

func snapshotLootBag(bag *domain.LootBag) *domain.LootBag {
	snap := *bag
	snap.Items = make([]domain.ItemInstance, len(bag.Items))
	copy(snap.Items, bag.Items)
	return &snap
}
