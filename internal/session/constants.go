package session

import "time"

// Validation clamps for client-supplied state. Out-of-range values are
// clamped, not rejected.
const (
	GridMinCols = 1
	GridMaxCols = 100
	GridMinRows = 1
	GridMaxRows = 100
	GridMinCell = 8
	GridMaxCell = 128

	SceneTitleMaxLen = 60
	SceneTextMaxLen  = 2400

	TokenLabelMaxLen = 16
	TokenMinSize     = 1
	TokenMaxSize     = 6

	LightingMaxAmbientRadius = 50

	ChatTextMaxLen = 2000
)

// ChatReplayLimit is how many persisted chat messages are replayed on join.
const ChatReplayLimit = 100

// Chat channels. Narration is reserved for the DM.
const (
	ChannelParty     = "party"
	ChannelNarration = "narration"
)

// DefaultPlayerVision is the vision radius of auto-placed player tokens.
const DefaultPlayerVision = 10

// ShortIDLen is the length of generated room/user/token/bag ids.
const ShortIDLen = 8

// Write-through persistence runs detached from the handler; this bounds each
// store call.
const PersistTimeout = 5 * time.Second

// WriteTimeout bounds a single websocket send so one stalled client cannot
// block a broadcast.
const WriteTimeout = 10 * time.Second

// Log messages
const (
	LogMsgRoomCreated     = "Room created"
	LogMsgRoomRehydrated  = "Room rehydrated from store"
	LogMsgMemberJoined    = "Member joined room"
	LogMsgMemberLeft      = "Member left room"
	LogMsgPersistFailed   = "Write-through persistence failed"
	LogMsgHandlerPanicked = "Message handler panicked"
)
