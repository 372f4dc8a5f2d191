package repository

import (
	"context"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

// Room defines the interface for durable room persistence. The live session
// is the source of truth while a room is active; the store exists so a room
// survives a process restart and is rehydrated on the next join.
type Room interface {
	UpsertRoom(ctx context.Context, room *domain.Room) error
	GetRoom(ctx context.Context, roomID string) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.RoomSummary, error)

	GetInventories(ctx context.Context, roomID string) (map[string]*domain.Inventory, error)
	SaveInventory(ctx context.Context, roomID string, inv *domain.Inventory) error

	GetLootBags(ctx context.Context, roomID string) (map[string]*domain.LootBag, error)
	SaveLootBag(ctx context.Context, roomID string, bag *domain.LootBag) error
	DeleteLootBag(ctx context.Context, roomID, bagID string) error

	GetChatLog(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error)
	AppendChatMessage(ctx context.Context, roomID string, msg domain.ChatMessage) error
}
