package session

import (
	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

// Outbound message envelopes. Builders that read room state must be called
// with the room mutex held; the resulting values are detached copies safe to
// send after unlock.

type roomInfo struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
	Locked bool   `json:"locked"`
}

type stateInitMsg struct {
	Type        string                   `json:"type"`
	You         MemberInfo               `json:"you"`
	Room        roomInfo                 `json:"room"`
	Members     []MemberInfo             `json:"members"`
	Scene       domain.Scene             `json:"scene"`
	Grid        domain.Grid              `json:"grid"`
	MapURL      string                   `json:"map_url"`
	Lighting    domain.Lighting          `json:"lighting"`
	Tokens      []domain.Token           `json:"tokens"`
	Inventories map[string]inventoryView `json:"inventories"`
	LootBags    []LootBagView            `json:"loot_bags"`
	ChatLog     []domain.ChatMessage     `json:"chat_log"`
}

type sceneSnapshotMsg struct {
	Type  string       `json:"type"`
	Scene domain.Scene `json:"scene"`
}

type mapSnapshotMsg struct {
	Type     string          `json:"type"`
	Grid     domain.Grid     `json:"grid"`
	MapURL   string          `json:"map_url"`
	Lighting domain.Lighting `json:"lighting"`
	Tokens   []domain.Token  `json:"tokens"`
}

type tokenAddedMsg struct {
	Type  string       `json:"type"`
	Token domain.Token `json:"token"`
}

type tokenMovedMsg struct {
	Type    string `json:"type"`
	TokenID string `json:"token_id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

type tokenUpdatedMsg struct {
	Type  string       `json:"type"`
	Token domain.Token `json:"token"`
}

type tokenRemovedMsg struct {
	Type    string `json:"type"`
	TokenID string `json:"token_id"`
}

type inventoryView struct {
	Bag       []domain.ItemInstance          `json:"bag"`
	Equipment map[string]domain.ItemInstance `json:"equipment"`
}

type inventorySnapshotMsg struct {
	Type        string                   `json:"type"`
	Inventories map[string]inventoryView `json:"inventories"`
}

type lootSnapshotMsg struct {
	Type string        `json:"type"`
	Bags []LootBagView `json:"bags"`
}

type diceResultMsg struct {
	Type   string            `json:"type"`
	UserID string            `json:"user_id"`
	Name   string            `json:"name"`
	Result domain.DiceResult `json:"result"`
}

type membersUpdateMsg struct {
	Type    string       `json:"type"`
	Members []MemberInfo `json:"members"`
}

// sceneSnapshot copies the scene.
func sceneSnapshot(room *domain.Room) sceneSnapshotMsg {
	return sceneSnapshotMsg{Type: domain.MsgSceneSnapshot, Scene: room.Scene}
}

// mapSnapshot copies the battle-map state.
func mapSnapshot(room *domain.Room) mapSnapshotMsg {
	return mapSnapshotMsg{
		Type:     domain.MsgMapSnapshot,
		Grid:     room.Grid,
		MapURL:   room.MapImageURL,
		Lighting: room.Lighting,
		Tokens:   append([]domain.Token(nil), room.Tokens...),
	}
}

// inventorySnapshot copies all inventories with catalog backfill. Everyone
// at the table sees the party's gear.
func (s *Service) inventorySnapshot(room *domain.Room) inventorySnapshotMsg {
	views := make(map[string]inventoryView, len(room.Inventories))
	for userID, inv := range room.Inventories {
		view := inventoryView{
			Bag:       make([]domain.ItemInstance, 0, len(inv.Bag)),
			Equipment: make(map[string]domain.ItemInstance, len(inv.Equipment)),
		}
		for _, it := range inv.Bag {
			view.Bag = append(view.Bag, s.catalog.Hydrate(it))
		}
		for slot, it := range inv.Equipment {
			view.Equipment[slot] = s.catalog.Hydrate(it)
		}
		views[userID] = view
	}
	return inventorySnapshotMsg{Type: domain.MsgInventorySnapshot, Inventories: views}
}

// lootSnapshotFor projects the bags for one viewer.
func lootSnapshotFor(room *domain.Room, viewer MemberInfo) lootSnapshotMsg {
	return lootSnapshotMsg{Type: domain.MsgLootSnapshot, Bags: ProjectLootBags(room, viewer)}
}

// membersUpdate lists current seats.
func membersUpdate(hub *Hub) membersUpdateMsg {
	return membersUpdateMsg{Type: domain.MsgMembersUpdate, Members: hub.Members()}
}
