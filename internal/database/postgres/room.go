// Package postgres implements the repository interfaces over PostgreSQL.
// Live state is serialized as JSONB documents: one state blob per room, one
// row per inventory and loot bag, one row per chat message.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

// RoomRepository implements the room repository for PostgreSQL
type RoomRepository struct {
	db *pgxpool.Pool
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

// roomState is the persisted slice of live room state. Lighting is
// deliberately absent: it resets on rehydration.
type roomState struct {
	Scene       domain.Scene   `json:"scene"`
	Grid        domain.Grid    `json:"grid"`
	MapImageURL string         `json:"map_image_url"`
	Tokens      []domain.Token `json:"tokens"`
	LootBagSeq  int            `json:"loot_bag_seq"`
}

// lootBagRecord re-attaches the generation config, which is stripped from
// wire serialization but must survive a restart.
type lootBagRecord struct {
	domain.LootBag
	Config domain.LootConfig `json:"config"`
}

// UpsertRoom writes the room row and its state blob. The caller must hold
// the room lock or pass a snapshot no longer shared with handlers.
func (r *RoomRepository) UpsertRoom(ctx context.Context, room *domain.Room) error {
	state, err := json.Marshal(roomState{
		Scene:       room.Scene,
		Grid:        room.Grid,
		MapImageURL: room.MapImageURL,
		Tokens:      room.Tokens,
		LootBagSeq:  room.LootBagSeq,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal room state: %w", err)
	}

	query := `
		INSERT INTO rooms (room_id, room_name, locked, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (room_id) DO UPDATE
		SET room_name = EXCLUDED.room_name,
		    locked = EXCLUDED.locked,
		    state = EXCLUDED.state,
		    updated_at = NOW()
	`
	_, err = r.db.Exec(ctx, query, room.RoomID, room.Name, room.Locked, state, room.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert room: %w", err)
	}
	return nil
}

// GetRoom loads the room row and state blob. Inventories, loot bags and chat
// are hydrated separately on first join.
func (r *RoomRepository) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	query := `
		SELECT room_id, room_name, locked, state, created_at
		FROM rooms
		WHERE room_id = $1
	`
	room := domain.NewRoom(roomID, "")
	var stateRaw []byte
	err := r.db.QueryRow(ctx, query, roomID).Scan(
		&room.RoomID, &room.Name, &room.Locked, &stateRaw, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var state roomState
	if err := json.Unmarshal(stateRaw, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room state: %w", err)
	}
	room.Scene = state.Scene
	room.Grid = state.Grid
	room.MapImageURL = state.MapImageURL
	room.LootBagSeq = state.LootBagSeq
	if state.Tokens != nil {
		room.Tokens = state.Tokens
	}
	return room, nil
}

// ListRooms returns summaries of all known rooms, newest first.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]domain.RoomSummary, error) {
	query := `
		SELECT room_id, room_name, locked, created_at
		FROM rooms
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var out []domain.RoomSummary
	for rows.Next() {
		var s domain.RoomSummary
		if err := rows.Scan(&s.RoomID, &s.Name, &s.Locked, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetInventories loads all inventories stored for a room.
func (r *RoomRepository) GetInventories(ctx context.Context, roomID string) (map[string]*domain.Inventory, error) {
	query := `
		SELECT user_id, inventory_data
		FROM room_inventories
		WHERE room_id = $1
	`
	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventories: %w", err)
	}
	defer rows.Close()

	out := map[string]*domain.Inventory{}
	for rows.Next() {
		var userID string
		var raw []byte
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		inv := domain.NewInventory(userID)
		if err := json.Unmarshal(raw, inv); err != nil {
			return nil, fmt.Errorf("failed to unmarshal inventory for %s: %w", userID, err)
		}
		inv.UserID = userID
		inv.Normalize()
		out[userID] = inv
	}
	return out, rows.Err()
}

// SaveInventory upserts one user's inventory blob.
func (r *RoomRepository) SaveInventory(ctx context.Context, roomID string, inv *domain.Inventory) error {
	raw, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}

	query := `
		INSERT INTO room_inventories (room_id, user_id, inventory_data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (room_id, user_id) DO UPDATE
		SET inventory_data = EXCLUDED.inventory_data, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, roomID, inv.UserID, raw); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	return nil
}

// GetLootBags loads all loot bags stored for a room.
func (r *RoomRepository) GetLootBags(ctx context.Context, roomID string) (map[string]*domain.LootBag, error) {
	query := `
		SELECT bag_id, bag_data
		FROM room_loot_bags
		WHERE room_id = $1
	`
	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get loot bags: %w", err)
	}
	defer rows.Close()

	out := map[string]*domain.LootBag{}
	for rows.Next() {
		var bagID string
		var raw []byte
		if err := rows.Scan(&bagID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan loot bag: %w", err)
		}
		var rec lootBagRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal loot bag %s: %w", bagID, err)
		}
		bag := rec.LootBag
		bag.BagID = bagID
		bag.Config = rec.Config
		out[bagID] = &bag
	}
	return out, rows.Err()
}

// SaveLootBag upserts one bag blob, config included.
func (r *RoomRepository) SaveLootBag(ctx context.Context, roomID string, bag *domain.LootBag) error {
	raw, err := json.Marshal(lootBagRecord{LootBag: *bag, Config: bag.Config})
	if err != nil {
		return fmt.Errorf("failed to marshal loot bag: %w", err)
	}

	query := `
		INSERT INTO room_loot_bags (room_id, bag_id, bag_data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (room_id, bag_id) DO UPDATE
		SET bag_data = EXCLUDED.bag_data, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, roomID, bag.BagID, raw); err != nil {
		return fmt.Errorf("failed to save loot bag: %w", err)
	}
	return nil
}

// DeleteLootBag removes an emptied or discarded bag. Deleting a missing bag
// is not an error.
func (r *RoomRepository) DeleteLootBag(ctx context.Context, roomID, bagID string) error {
	query := `DELETE FROM room_loot_bags WHERE room_id = $1 AND bag_id = $2`
	if _, err := r.db.Exec(ctx, query, roomID, bagID); err != nil {
		return fmt.Errorf("failed to delete loot bag: %w", err)
	}
	return nil
}

// GetChatLog returns the most recent limit messages in chronological order.
func (r *RoomRepository) GetChatLog(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error) {
	query := `
		SELECT message_data
		FROM (
			SELECT chat_id, message_data
			FROM room_chat_log
			WHERE room_id = $1
			ORDER BY chat_id DESC
			LIMIT $2
		) recent
		ORDER BY chat_id ASC
	`
	rows, err := r.db.Query(ctx, query, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat log: %w", err)
	}
	defer rows.Close()

	var out []domain.ChatMessage
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		var msg domain.ChatMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat message: %w", err)
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

// AppendChatMessage appends one message to the room's durable log.
func (r *RoomRepository) AppendChatMessage(ctx context.Context, roomID string, msg domain.ChatMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	query := `INSERT INTO room_chat_log (room_id, message_data) VALUES ($1, $2)`
	if _, err := r.db.Exec(ctx, query, roomID, raw); err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}
