package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

func TestDispatchUnknownType(t *testing.T) {
	svc, _ := newTestService(t)
	live := newTestRoom(t, svc)
	conn, cs := seat(live, "u1", "P", domain.RolePlayer)

	svc.dispatch(context.Background(), cs, frame(t, "warp.drive", nil))

	var errMsg domain.ErrorMessage
	require.True(t, conn.lastOfType(t, domain.MsgError, &errMsg))
	assert.Equal(t, domain.ErrMsgUnknownMessageType, errMsg.Message)
}

// A player hitting a DM-only route gets exactly one private error and the
// room sees nothing.
func TestDispatchDMOnlyRejected(t *testing.T) {
	svc, _ := newTestService(t)
	live := newTestRoom(t, svc)
	dmConn, _ := seat(live, "dm1", "DM", domain.RoleDM)
	conn, cs := seat(live, "u1", "P", domain.RolePlayer)

	dmOnly := []string{
		domain.MsgSceneUpdate, domain.MsgGridSet, domain.MsgMapSetURL,
		domain.MsgMapLightingSet, domain.MsgTokenAdd, domain.MsgTokenUpdate,
		domain.MsgTokenRemove, domain.MsgLootGenerate, domain.MsgLootSetVisibility,
	}
	for _, msgType := range dmOnly {
		svc.dispatch(context.Background(), cs, frame(t, msgType, nil))
	}

	assert.Equal(t, len(dmOnly), conn.countOfType(t, domain.MsgError))
	var errMsg domain.ErrorMessage
	require.True(t, conn.lastOfType(t, domain.MsgError, &errMsg))
	assert.Equal(t, domain.ErrMsgDMOnly, errMsg.Message)

	assert.Empty(t, dmConn.sentTypes(t), "no broadcast on rejected messages")
}

func TestDispatchMalformedFrameSilentlyDropped(t *testing.T) {
	svc, _ := newTestService(t)
	live := newTestRoom(t, svc)
	conn, cs := seat(live, "u1", "P", domain.RolePlayer)

	svc.dispatch(context.Background(), cs, []byte("{not json"))
	svc.dispatch(context.Background(), cs, []byte(`{"no_type": true}`))

	assert.Empty(t, conn.sentTypes(t))
}

func TestDispatchValidationFailureSilent(t *testing.T) {
	svc, _ := newTestService(t)
	live := newTestRoom(t, svc)
	conn, cs := seat(live, "u1", "P", domain.RolePlayer)

	// token.move with a missing token_id fails required validation
	svc.dispatch(context.Background(), cs, frame(t, domain.MsgTokenMove, map[string]any{"x": 1}))

	assert.Empty(t, conn.sentTypes(t))
}

func TestDispatchDiceRoll(t *testing.T) {
	svc, _ := newTestService(t)
	live := newTestRoom(t, svc)
	conn, cs := seat(live, "u1", "Gor", domain.RolePlayer)
	otherConn, _ := seat(live, "u2", "Mia", domain.RolePlayer)

	svc.dispatch(context.Background(), cs, frame(t, domain.MsgDiceRoll, map[string]any{"expr": "1d6"}))

	var res diceResultMsg
	require.True(t, conn.lastOfType(t, domain.MsgDiceResult, &res))
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, 4, res.Result.Total)
	assert.Equal(t, 1, otherConn.countOfType(t, domain.MsgDiceResult), "rolls are public")
}
