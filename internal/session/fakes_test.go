package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osse101/ArcaneTable_Go/internal/catalog"
	"github.com/osse101/ArcaneTable_Go/internal/domain"
	"github.com/osse101/ArcaneTable_Go/internal/repository"
)

// fakeConn records everything sent to it and feeds inbound frames from a
// channel.
type fakeConn struct {
	mu     sync.Mutex
	sent   []any
	inbox  chan []byte
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbox: make(chan []byte, 16)}
}

func (c *fakeConn) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, v)
	return nil
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	b, ok := <-c.inbox
	if !ok {
		return nil, io.EOF
	}
	return b, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// sentTypes returns the wire type of every message sent so far.
func (c *fakeConn) sentTypes(t *testing.T) []string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]string, 0, len(c.sent))
	for _, v := range c.sent {
		types = append(types, wireType(t, v))
	}
	return types
}

// lastOfType returns the most recent sent message of the given wire type,
// re-marshalled into out.
func (c *fakeConn) lastOfType(t *testing.T, msgType string, out any) bool {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.sent) - 1; i >= 0; i-- {
		if wireType(t, c.sent[i]) == msgType {
			raw, err := json.Marshal(c.sent[i])
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(raw, out))
			return true
		}
	}
	return false
}

func (c *fakeConn) countOfType(t *testing.T, msgType string) int {
	t.Helper()
	n := 0
	for _, typ := range c.sentTypes(t) {
		if typ == msgType {
			n++
		}
	}
	return n
}

func wireType(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var env domain.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env.Type
}

// fakeStore is an in-memory repository.Room with optional error injection.
type fakeStore struct {
	mu    sync.Mutex
	rooms map[string]*domain.Room
	invs  map[string]map[string]*domain.Inventory
	bags  map[string]map[string]*domain.LootBag
	chat  map[string][]domain.ChatMessage

	failAll bool
}

var errStoreDown = errors.New("store down")

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms: map[string]*domain.Room{},
		invs:  map[string]map[string]*domain.Inventory{},
		bags:  map[string]map[string]*domain.LootBag{},
		chat:  map[string][]domain.ChatMessage{},
	}
}

var _ repository.Room = (*fakeStore)(nil)

func (f *fakeStore) UpsertRoom(ctx context.Context, room *domain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errStoreDown
	}
	f.rooms[room.RoomID] = snapshotRoom(room)
	return nil
}

func (f *fakeStore) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errStoreDown
	}
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return snapshotRoom(room), nil
}

func (f *fakeStore) ListRooms(ctx context.Context) ([]domain.RoomSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errStoreDown
	}
	var out []domain.RoomSummary
	for _, room := range f.rooms {
		out = append(out, domain.RoomSummary{
			RoomID:    room.RoomID,
			Name:      room.Name,
			CreatedAt: room.CreatedAt,
			Locked:    room.Locked,
		})
	}
	return out, nil
}

func (f *fakeStore) GetInventories(ctx context.Context, roomID string) (map[string]*domain.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errStoreDown
	}
	out := map[string]*domain.Inventory{}
	for userID, inv := range f.invs[roomID] {
		out[userID] = snapshotInventory(inv)
	}
	return out, nil
}

func (f *fakeStore) SaveInventory(ctx context.Context, roomID string, inv *domain.Inventory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errStoreDown
	}
	if f.invs[roomID] == nil {
		f.invs[roomID] = map[string]*domain.Inventory{}
	}
	f.invs[roomID][inv.UserID] = snapshotInventory(inv)
	return nil
}

func (f *fakeStore) GetLootBags(ctx context.Context, roomID string) (map[string]*domain.LootBag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errStoreDown
	}
	out := map[string]*domain.LootBag{}
	for bagID, bag := range f.bags[roomID] {
		out[bagID] = snapshotLootBag(bag)
	}
	return out, nil
}

func (f *fakeStore) SaveLootBag(ctx context.Context, roomID string, bag *domain.LootBag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errStoreDown
	}
	if f.bags[roomID] == nil {
		f.bags[roomID] = map[string]*domain.LootBag{}
	}
	f.bags[roomID][bag.BagID] = snapshotLootBag(bag)
	return nil
}

func (f *fakeStore) DeleteLootBag(ctx context.Context, roomID, bagID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errStoreDown
	}
	delete(f.bags[roomID], bagID)
	return nil
}

func (f *fakeStore) GetChatLog(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errStoreDown
	}
	log := f.chat[roomID]
	if len(log) > limit {
		log = log[len(log)-limit:]
	}
	return append([]domain.ChatMessage(nil), log...), nil
}

func (f *fakeStore) AppendChatMessage(ctx context.Context, roomID string, msg domain.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errStoreDown
	}
	f.chat[roomID] = append(f.chat[roomID], msg)
	return nil
}

func (f *fakeStore) bagCount(roomID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bags[roomID])
}

// fakeRoller returns a fixed result.
type fakeRoller struct{}

func (fakeRoller) Roll(ctx context.Context, expr string) (domain.DiceResult, error) {
	return domain.DiceResult{Expr: expr, Rolls: []int{4}, Total: 4}, nil
}

func testDefs() []domain.ItemDefinition {
	return []domain.ItemDefinition{
		{ID: "sword_t0", Name: "Sword", Slot: domain.SlotMainHand, Tier: 0, Category: domain.CategoryWeapons, Tags: []string{"sword"}},
		{ID: "sword_t1", Name: "Sword", Slot: domain.SlotMainHand, Tier: 1, Category: domain.CategoryWeapons, Tags: []string{"sword"}},
		{ID: "sword_t2", Name: "Sword", Slot: domain.SlotMainHand, Tier: 2, Category: domain.CategoryWeapons, Tags: []string{"sword"}},
		{ID: "sword_t3", Name: "Sword", Slot: domain.SlotMainHand, Tier: 3, Category: domain.CategoryWeapons, Tags: []string{"sword"}},
		{ID: "shield_t1", Name: "Shield", Slot: domain.SlotOffHand, Tier: 1, Category: domain.CategoryArmor, Tags: []string{"shield"}},
		{ID: "greatsword_t2", Name: "Greatsword", Slot: domain.SlotMainHand, Tier: 2, Category: domain.CategoryWeapons, IsTwoHanded: true, Tags: []string{"sword", "two-handed"}},
		{ID: "ring_t3", Name: "Ring", Slot: "ring", Tier: 3, Category: domain.CategoryJewelry, Tags: []string{"jewelry"}},
	}
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	registry := NewRegistry(store, "")
	cat := catalog.NewFromItems(testDefs())
	svc := NewService(registry, store, cat, fakeRoller{}, rand.New(rand.NewSource(1)))
	return svc, store
}

// newTestRoom creates a live room and seats the given members directly,
// bypassing the websocket lifecycle.
func newTestRoom(t *testing.T, svc *Service) *Live {
	t.Helper()
	live, err := svc.registry.CreateRoom(context.Background(), "Test Table")
	require.NoError(t, err)
	return live
}

func seat(live *Live, userID, name, role string) (*fakeConn, *clientSession) {
	conn := newFakeConn()
	if err := live.Hub.TryAdd(conn, MemberInfo{UserID: userID, Name: name, Role: role}); err != nil {
		panic(err)
	}
	return conn, &clientSession{conn: conn, live: live, userID: userID, name: name, role: role}
}

func frame(t *testing.T, msgType string, payload any) []byte {
	t.Helper()
	m := map[string]any{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &m))
	}
	m["type"] = msgType
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	return raw
}
