package domain

import (
	"sync"
	"time"
)

// Roles a connection can hold within a room.
const (
	RoleDM     = "dm"
	RolePlayer = "player"
)

// Seat capacity per room. Admission control reads these; no other layer
// hardcodes seat math.
const (
	MaxPlayers    = 6
	MaxDMs        = 1
	MaxSeatsTotal = MaxPlayers + MaxDMs
)

// Scene is the narrative framing shown to everyone in the room.
type Scene struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Grid describes the battle-map grid dimensions in cells plus cell pixel size.
type Grid struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
	Cell int `json:"cell"`
}

// Lighting holds the DM-controlled lighting toggles. Not persisted.
type Lighting struct {
	FogEnabled    bool `json:"fog_enabled"`
	AmbientRadius int  `json:"ambient_radius"`
	Darkness      bool `json:"darkness"`
}

// Token is one figure on the battle map.
type Token struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Kind         string `json:"kind"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Size         int    `json:"size"`
	OwnerUserID  string `json:"owner_user_id,omitempty"`
	Color        *int   `json:"color,omitempty"`
	HP           *int   `json:"hp,omitempty"`
	AC           *int   `json:"ac,omitempty"`
	Initiative   *int   `json:"initiative,omitempty"`
	VisionRadius *int   `json:"vision_radius,omitempty"`
	Darkvision   *bool  `json:"darkvision,omitempty"`
}

// Token kinds.
const (
	TokenKindPlayer = "player"
	TokenKindNPC    = "npc"
	TokenKindObject = "object"
)

// ChatMessage is one chat log entry; system presence messages use the
// "system" pseudo-role.
type ChatMessage struct {
	Type    string  `json:"type"`
	TS      float64 `json:"ts"`
	UserID  string  `json:"user_id"`
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Channel string  `json:"channel"`
	Text    string  `json:"text"`
}

// Room is one independent unit of shared session state. All mutation happens
// under Mu; handlers complete in-memory changes before any broadcast or
// persistence I/O so concurrent handlers never observe half-mutated state.
type Room struct {
	Mu sync.Mutex

	RoomID    string
	Name      string
	CreatedAt time.Time
	Locked    bool

	Scene       Scene
	Grid        Grid
	MapImageURL string
	Lighting    Lighting
	Tokens      []Token

	Inventories map[string]*Inventory
	LootBags    map[string]*LootBag
	ChatLog     []ChatMessage

	// LootBagSeq feeds default community bag names ("Loot Bag <n>").
	LootBagSeq int

	// Hydrated is set once inventories/loot/chat have been loaded from the
	// durable store after a restart.
	Hydrated bool
}

// RoomSummary is the listing projection of a room, without live state.
type RoomSummary struct {
	RoomID    string    `json:"room_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Locked    bool      `json:"locked"`
}

// DefaultScene and DefaultGrid seed newly created rooms.
func DefaultScene() Scene { return Scene{Title: "Campfire", Text: "The party rests..."} }
func DefaultGrid() Grid   { return Grid{Cols: 20, Rows: 20, Cell: 32} }

// NewRoom creates an in-memory room with default scene and grid.
func NewRoom(roomID, name string) *Room {
	return &Room{
		RoomID:      roomID,
		Name:        name,
		CreatedAt:   time.Now(),
		Scene:       DefaultScene(),
		Grid:        DefaultGrid(),
		Tokens:      []Token{},
		Inventories: map[string]*Inventory{},
		LootBags:    map[string]*LootBag{},
		ChatLog:     []ChatMessage{},
	}
}

// InventoryFor returns the user's inventory, creating an empty one on first
// touch.
func (r *Room) InventoryFor(userID string) *Inventory {
	inv, ok := r.Inventories[userID]
	if !ok {
		inv = NewInventory(userID)
		r.Inventories[userID] = inv
	}
	return inv
}

// PruneEmptyLootBags deletes bags whose item list has been emptied. Returns
// the ids removed.
func (r *Room) PruneEmptyLootBags() []string {
	var removed []string
	for id, bag := range r.LootBags {
		if len(bag.Items) == 0 {
			delete(r.LootBags, id)
			removed = append(removed, id)
		}
	}
	return removed
}
