package domain

import "errors"

// Error message string constants - single source of truth for error messages.
// Use these in assert.Contains() checks when testing error messages.
const (
	ErrMsgRoomNotFound     = "room not found"
	ErrMsgRoomLocked       = "Room is locked."
	ErrMsgRoomFull         = "Room is full."
	ErrMsgDMSeatTaken      = "DM seat already taken."
	ErrMsgPlayerSeatsTaken = "All player seats are taken."
	ErrMsgInvalidRole      = "role must be dm or player"

	ErrMsgDMOnly        = "DM only."
	ErrMsgNotTokenOwner = "Not allowed to move this token."
	ErrMsgPartyChatOnly = "Players can only post to the party channel."

	ErrMsgEmptyLootPool = "No items match loot filters."
	ErrMsgNoItemsLoaded = "no items loaded from item database"

	ErrMsgUnknownMessageType = "Unknown message type"
)

// Common domain errors. Wrap with fmt.Errorf("%w: ...", domain.ErrXxx) for
// additional context.
var (
	ErrRoomNotFound    = errors.New(ErrMsgRoomNotFound)
	ErrRoomLocked      = errors.New(ErrMsgRoomLocked)
	ErrRoomFull        = errors.New(ErrMsgRoomFull)
	ErrDMSeatTaken     = errors.New(ErrMsgDMSeatTaken)
	ErrPlayerSeatsFull = errors.New(ErrMsgPlayerSeatsTaken)
	ErrInvalidRole     = errors.New(ErrMsgInvalidRole)

	ErrEmptyLootPool = errors.New(ErrMsgEmptyLootPool)
	ErrNoItemsLoaded = errors.New(ErrMsgNoItemsLoaded)
)
