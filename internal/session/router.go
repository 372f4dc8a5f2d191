package session

import (
	"context"
	"encoding/json"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
	"github.com/osse101/ArcaneTable_Go/internal/logger"
	"github.com/osse101/ArcaneTable_Go/internal/metrics"
)

type handlerFunc func(ctx context.Context, cs *clientSession, raw []byte) error

// route pairs a handler with its authorization requirement.
type route struct {
	dmOnly bool
	handle handlerFunc
}

func (s *Service) buildRoutes() map[string]route {
	return map[string]route{
		domain.MsgChatSend: {handle: s.handleChatSend},

		domain.MsgSceneUpdate:    {dmOnly: true, handle: s.handleSceneUpdate},
		domain.MsgGridSet:        {dmOnly: true, handle: s.handleGridSet},
		domain.MsgGridUpdate:     {dmOnly: true, handle: s.handleGridSet},
		domain.MsgMapSetURL:      {dmOnly: true, handle: s.handleMapSetURL},
		domain.MsgMapSet:         {dmOnly: true, handle: s.handleMapSetURL},
		domain.MsgMapLightingSet: {dmOnly: true, handle: s.handleLightingSet},

		domain.MsgTokenAdd:    {dmOnly: true, handle: s.handleTokenAdd},
		domain.MsgTokenMove:   {handle: s.handleTokenMove},
		domain.MsgTokenUpdate: {dmOnly: true, handle: s.handleTokenUpdate},
		domain.MsgTokenRemove: {dmOnly: true, handle: s.handleTokenRemove},

		domain.MsgInventoryAdd:     {handle: s.handleInventoryAdd},
		domain.MsgInventoryEquip:   {handle: s.handleInventoryEquip},
		domain.MsgInventoryUnequip: {handle: s.handleInventoryUnequip},
		domain.MsgInventoryDrop:    {handle: s.handleInventoryDrop},

		domain.MsgLootGenerate:      {dmOnly: true, handle: s.handleLootGenerate},
		domain.MsgLootDistribute:    {handle: s.handleLootDistribute},
		domain.MsgLootDiscard:       {handle: s.handleLootDiscard},
		domain.MsgLootSnapshotReq:   {handle: s.handleLootSnapshot},
		domain.MsgLootSetVisibility: {dmOnly: true, handle: s.handleLootSetVisibility},

		domain.MsgDiceRoll: {handle: s.handleDiceRoll},
	}
}

// dispatch routes one inbound frame. Authorization failures and handler
// errors become private error envelopes; nothing here ever terminates the
// connection.
func (s *Service) dispatch(ctx context.Context, cs *clientSession, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			metrics.DispatchErrors.WithLabelValues(metrics.ReasonHandlerError).Inc()
			logger.FromContext(ctx).Error(LogMsgHandlerPanicked,
				"room_id", cs.live.Room.RoomID, "user_id", cs.userID, "panic", r)
			cs.sendError("internal error")
		}
	}()

	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		metrics.DispatchErrors.WithLabelValues(metrics.ReasonBadPayload).Inc()
		return
	}

	rt, ok := s.routes[env.Type]
	if !ok {
		metrics.DispatchErrors.WithLabelValues(metrics.ReasonUnknownType).Inc()
		cs.sendError(domain.ErrMsgUnknownMessageType)
		return
	}

	if rt.dmOnly && !cs.isDM() {
		metrics.DispatchErrors.WithLabelValues(metrics.ReasonUnauthorized).Inc()
		cs.sendError(domain.ErrMsgDMOnly)
		return
	}

	metrics.MessagesDispatched.WithLabelValues(env.Type).Inc()
	if err := rt.handle(ctx, cs, data); err != nil {
		metrics.DispatchErrors.WithLabelValues(metrics.ReasonHandlerError).Inc()
		cs.sendError(err.Error())
	}
}

// decode unmarshals and validates a typed payload. A malformed or invalid
// frame is dropped silently; the session must survive anything a client
// sends.
func decode[T any](raw []byte, v *T) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		metrics.DispatchErrors.WithLabelValues(metrics.ReasonBadPayload).Inc()
		return false
	}
	if err := validate.Struct(v); err != nil {
		metrics.DispatchErrors.WithLabelValues(metrics.ReasonBadPayload).Inc()
		return false
	}
	return true
}
