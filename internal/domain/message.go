package domain

// Envelope is the bidirectional wire frame: a type discriminator plus the
// message fields. Inbound frames keep the raw bytes so the router can decode
// into the handler's typed payload after dispatch.
type Envelope struct {
	Type string `json:"type"`
}

// Inbound message types. Aliases preserved for older clients.
const (
	MsgChatSend          = "chat.send"
	MsgSceneUpdate       = "scene.update"
	MsgGridSet           = "grid.set"
	MsgGridUpdate        = "grid.update"
	MsgMapSetURL         = "map.set_url"
	MsgMapSet            = "map.set"
	MsgMapLightingSet    = "map.lighting.set"
	MsgTokenAdd          = "token.add"
	MsgTokenMove         = "token.move"
	MsgTokenUpdate       = "token.update"
	MsgTokenRemove       = "token.remove"
	MsgInventoryAdd      = "inventory.add"
	MsgInventoryEquip    = "inventory.equip"
	MsgInventoryUnequip  = "inventory.unequip"
	MsgInventoryDrop     = "inventory.drop"
	MsgLootGenerate      = "loot.generate"
	MsgLootDistribute    = "loot.distribute"
	MsgLootDiscard       = "loot.discard"
	MsgLootSnapshotReq   = "loot.snapshot"
	MsgLootSetVisibility = "loot.set_visibility"
	MsgDiceRoll          = "dice.roll"
)

// Outbound message types.
const (
	MsgStateInit         = "state.init"
	MsgError             = "error"
	MsgChatMessage       = "chat.message"
	MsgSceneSnapshot     = "scene.snapshot"
	MsgMapSnapshot       = "map.snapshot"
	MsgTokenAdded        = "token.added"
	MsgTokenMoved        = "token.moved"
	MsgTokenUpdated      = "token.updated"
	MsgTokenRemoved      = "token.removed"
	MsgInventorySnapshot = "inventory.snapshot"
	MsgLootSnapshot      = "loot.snapshot"
	MsgDiceResult        = "dice.result"
	MsgMembersUpdate     = "members.update"
)

// ErrorMessage is the private error reply envelope.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewError builds an error reply.
func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: MsgError, Message: message}
}

// Inbound payloads, one typed struct per message type. The router decodes
// and validates these before the handler body runs.

// ChatSendPayload carries chat.send.
type ChatSendPayload struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
}

// SceneUpdatePayload carries scene.update.
type SceneUpdatePayload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// GridSetPayload carries grid.set / grid.update. Pointer fields distinguish
// "absent" from zero so partial updates keep current values.
type GridSetPayload struct {
	Cols *int `json:"cols"`
	Rows *int `json:"rows"`
	Cell *int `json:"cell"`
}

// MapSetURLPayload carries map.set_url / map.set.
type MapSetURLPayload struct {
	URL string `json:"url"`
}

// LightingPatch mirrors the client lighting object on map.lighting.set.
type LightingPatch struct {
	FogEnabled    *bool `json:"fog_enabled"`
	Darkness      *bool `json:"darkness"`
	AmbientRadius *int  `json:"ambient_radius"`
}

// MapLightingSetPayload carries map.lighting.set.
type MapLightingSetPayload struct {
	Lighting *LightingPatch `json:"lighting"`
}

// TokenAddPayload carries token.add.
type TokenAddPayload struct {
	Token TokenPatch `json:"token"`
}

// TokenPatch is the writable subset of Token fields accepted from clients.
type TokenPatch struct {
	Label        *string `json:"label"`
	Kind         *string `json:"kind"`
	X            *int    `json:"x"`
	Y            *int    `json:"y"`
	Size         *int    `json:"size"`
	OwnerUserID  *string `json:"owner_user_id"`
	Color        *int    `json:"color"`
	HP           *int    `json:"hp"`
	AC           *int    `json:"ac"`
	Initiative   *int    `json:"initiative"`
	VisionRadius *int    `json:"vision_radius"`
	Darkvision   *bool   `json:"darkvision"`
}

// TokenMovePayload carries token.move.
type TokenMovePayload struct {
	TokenID string `json:"token_id" validate:"required"`
	X       *int   `json:"x"`
	Y       *int   `json:"y"`
}

// TokenUpdatePayload carries token.update.
type TokenUpdatePayload struct {
	TokenID string     `json:"token_id" validate:"required"`
	Patch   TokenPatch `json:"patch"`
}

// TokenRemovePayload carries token.remove.
type TokenRemovePayload struct {
	TokenID string `json:"token_id" validate:"required"`
}

// InventoryAddPayload carries inventory.add. Item may be a full instance
// from the client; ItemID alone is accepted and hydrated from the catalog.
type InventoryAddPayload struct {
	Item   *ItemInstance `json:"item"`
	ItemID string        `json:"itemId"`
}

// InventoryEquipPayload carries inventory.equip.
type InventoryEquipPayload struct {
	ItemID string `json:"itemId" validate:"required"`
	Slot   string `json:"slot" validate:"required"`
}

// InventoryUnequipPayload carries inventory.unequip.
type InventoryUnequipPayload struct {
	Slot string `json:"slot" validate:"required"`
}

// InventoryDropPayload carries inventory.drop.
type InventoryDropPayload struct {
	ItemID string `json:"itemId" validate:"required"`
}

// LootGeneratePayload carries loot.generate. Items, when present, bypass the
// allocator (DM hand-built bags).
type LootGeneratePayload struct {
	Config       *LootConfig    `json:"config"`
	Items        []ItemInstance `json:"items"`
	BagType      string         `json:"bag_type"`
	BagName      string         `json:"bag_name"`
	TargetUserID string         `json:"target_user_id"`
}

// LootDistributePayload carries loot.distribute.
type LootDistributePayload struct {
	BagID        string `json:"bag_id" validate:"required"`
	ItemID       string `json:"item_id" validate:"required"`
	TargetUserID string `json:"target_user_id" validate:"required"`
}

// LootDiscardPayload carries loot.discard.
type LootDiscardPayload struct {
	BagID  string `json:"bag_id" validate:"required"`
	ItemID string `json:"item_id" validate:"required"`
}

// LootSetVisibilityPayload carries loot.set_visibility.
type LootSetVisibilityPayload struct {
	BagID   string `json:"bag_id" validate:"required"`
	Visible *bool  `json:"visible"`
}

// DiceRollPayload carries dice.roll; expression parsing is delegated to the
// external roller.
type DiceRollPayload struct {
	Expr string `json:"expr"`
}

// DiceResult is the outcome of one dice.roll, produced by the external
// roller.
type DiceResult struct {
	Expr     string `json:"expr"`
	Rolls    []int  `json:"rolls"`
	Modifier int    `json:"modifier"`
	Total    int    `json:"total"`
}
