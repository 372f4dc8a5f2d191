package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
	"github.com/osse101/ArcaneTable_Go/internal/logger"
	"github.com/osse101/ArcaneTable_Go/internal/metrics"
	"github.com/osse101/ArcaneTable_Go/internal/repository"
)

// Live pairs a room's authoritative state with its connection hub.
type Live struct {
	Room *domain.Room
	Hub  *Hub
}

// Registry owns the map of live rooms. A room enters the map on creation or
// on first join after a restart (rehydration) and stays for the process
// lifetime.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Live
	store repository.Room

	defaultMapURL string
}

// NewRegistry creates a registry backed by the given store. New rooms start
// with defaultMapURL as their battle map (may be empty).
func NewRegistry(store repository.Room, defaultMapURL string) *Registry {
	return &Registry{
		rooms:         map[string]*Live{},
		store:         store,
		defaultMapURL: defaultMapURL,
	}
}

// CreateRoom creates, persists and caches a new room.
func (r *Registry) CreateRoom(ctx context.Context, name string) (*Live, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "New Table"
	}

	room := domain.NewRoom(shortID(), name)
	room.MapImageURL = r.defaultMapURL
	room.Hydrated = true
	if err := r.store.UpsertRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	live := &Live{Room: room, Hub: NewHub()}
	r.mu.Lock()
	r.rooms[room.RoomID] = live
	r.mu.Unlock()

	logger.FromContext(ctx).Info(LogMsgRoomCreated, "room_id", room.RoomID, "name", name)
	return live, nil
}

// Get returns the live room if cached.
func (r *Registry) Get(roomID string) (*Live, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	live, ok := r.rooms[roomID]
	return live, ok
}

// GetOrRehydrate returns the live room, loading it from the store on a cache
// miss. Concurrent rehydrations of the same room converge on whichever
// instance wins the write-lock race; the loser's copy is discarded.
func (r *Registry) GetOrRehydrate(ctx context.Context, roomID string) (*Live, error) {
	if live, ok := r.Get(roomID); ok {
		return live, nil
	}

	room, err := r.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if live, ok := r.rooms[roomID]; ok {
		return live, nil
	}
	live := &Live{Room: room, Hub: NewHub()}
	r.rooms[roomID] = live

	metrics.RoomsRehydrated.Inc()
	logger.FromContext(ctx).Info(LogMsgRoomRehydrated, "room_id", roomID)
	return live, nil
}

// ListRooms returns summaries from the store with live seat counts attached
// by the caller.
func (r *Registry) ListRooms(ctx context.Context) ([]domain.RoomSummary, error) {
	return r.store.ListRooms(ctx)
}

// SeatsUsed returns the live connection count for a room, 0 when not live.
func (r *Registry) SeatsUsed(roomID string) int {
	if live, ok := r.Get(roomID); ok {
		return live.Hub.Len()
	}
	return 0
}

// CanJoin is the admission pre-check: known role, room not locked for
// players, a seat left for the role. The lock never keeps the DM out of
// their own table. Seating itself re-validates capacity atomically in
// Hub.TryAdd; this check exists to reject before hydration I/O starts.
func CanJoin(live *Live, role string) error {
	if role != domain.RoleDM && role != domain.RolePlayer {
		return domain.ErrInvalidRole
	}

	live.Room.Mu.Lock()
	locked := live.Room.Locked
	live.Room.Mu.Unlock()
	if locked && role != domain.RoleDM {
		return domain.ErrRoomLocked
	}

	if live.Hub.Len() >= domain.MaxSeatsTotal {
		return domain.ErrRoomFull
	}
	switch role {
	case domain.RoleDM:
		if live.Hub.DMCount() >= domain.MaxDMs {
			return domain.ErrDMSeatTaken
		}
	case domain.RolePlayer:
		if live.Hub.CountRole(domain.RolePlayer) >= domain.MaxPlayers {
			return domain.ErrPlayerSeatsFull
		}
	}
	return nil
}

// shortID returns an 8-hex-char id, unique enough per room scope.
func shortID() string {
	return uuid.NewString()[:ShortIDLen]
}
