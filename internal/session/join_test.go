package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

func TestServeUnknownRoomRejected(t *testing.T) {
	svc, _ := newTestService(t)
	conn := newFakeConn()

	svc.Serve(context.Background(), conn, "nope", "Mia", domain.RolePlayer)

	var errMsg domain.ErrorMessage
	require.True(t, conn.lastOfType(t, domain.MsgError, &errMsg))
	assert.Equal(t, domain.ErrMsgRoomNotFound, errMsg.Message)
	assert.True(t, conn.closed)
}

func TestServeLockedRoomRejected(t *testing.T) {
	svc, _ := newTestService(t)
	live := newTestRoom(t, svc)
	live.Room.Locked = true
	conn := newFakeConn()

	svc.Serve(context.Background(), conn, live.Room.RoomID, "Mia", domain.RolePlayer)

	var errMsg domain.ErrorMessage
	require.True(t, conn.lastOfType(t, domain.MsgError, &errMsg))
	assert.Equal(t, domain.ErrMsgRoomLocked, errMsg.Message)
}

func TestServeLockedRoomAdmitsDM(t *testing.T) {
	svc, _ := newTestService(t)
	live := newTestRoom(t, svc)
	live.Room.Locked = true

	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Serve(context.Background(), conn, live.Room.RoomID, "Keeper", domain.RoleDM)
	}()

	require.Eventually(t, func() bool {
		return conn.countOfType(t, domain.MsgStateInit) == 1
	}, time.Second, 10*time.Millisecond)

	var init stateInitMsg
	require.True(t, conn.lastOfType(t, domain.MsgStateInit, &init))
	assert.Equal(t, domain.RoleDM, init.You.Role)
	assert.True(t, init.Room.Locked)

	close(conn.inbox)
	<-done
}

func TestServeNormalizesRole(t *testing.T) {
	svc, _ := newTestService(t)
	live := newTestRoom(t, svc)

	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Serve(context.Background(), conn, live.Room.RoomID, "Keeper", "  DM ")
	}()

	require.Eventually(t, func() bool {
		return conn.countOfType(t, domain.MsgStateInit) == 1
	}, time.Second, 10*time.Millisecond)

	var init stateInitMsg
	require.True(t, conn.lastOfType(t, domain.MsgStateInit, &init))
	assert.Equal(t, domain.RoleDM, init.You.Role)

	close(conn.inbox)
	<-done
}

func TestServeSecondDMRejected(t *testing.T) {
	svc, _ := newTestService(t)
	live := newTestRoom(t, svc)
	seat(live, "dm1", "DM", domain.RoleDM)
	conn := newFakeConn()

	svc.Serve(context.Background(), conn, live.Room.RoomID, "Usurper", domain.RoleDM)

	var errMsg domain.ErrorMessage
	require.True(t, conn.lastOfType(t, domain.MsgError, &errMsg))
	assert.Equal(t, domain.ErrMsgDMSeatTaken, errMsg.Message)
}

func TestServePlayerLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	live := newTestRoom(t, svc)
	observer, _ := seat(live, "u0", "Watcher", domain.RolePlayer)

	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Serve(context.Background(), conn, live.Room.RoomID, "  ", domain.RolePlayer)
	}()

	require.Eventually(t, func() bool {
		return conn.countOfType(t, domain.MsgStateInit) == 1
	}, time.Second, 10*time.Millisecond)

	var init stateInitMsg
	require.True(t, conn.lastOfType(t, domain.MsgStateInit, &init))
	assert.Equal(t, defaultMemberName, init.You.Name, "blank names fall back to the default")
	assert.Equal(t, domain.RolePlayer, init.You.Role)
	assert.Len(t, init.You.UserID, ShortIDLen)
	assert.Len(t, init.Members, 2)
	require.Len(t, init.Tokens, 1, "players get an auto token on join")
	assert.Equal(t, init.You.UserID, init.Tokens[0].OwnerUserID)
	assert.Equal(t, domain.TokenKindPlayer, init.Tokens[0].Kind)

	require.Eventually(t, func() bool {
		return observer.countOfType(t, domain.MsgChatMessage) == 1
	}, time.Second, 10*time.Millisecond)
	var joined domain.ChatMessage
	require.True(t, observer.lastOfType(t, domain.MsgChatMessage, &joined))
	assert.Equal(t, "Adventurer joined the table.", joined.Text)
	assert.Equal(t, "system", joined.UserID)
	assert.Equal(t, 1, observer.countOfType(t, domain.MsgTokenAdded))
	assert.Equal(t, 1, observer.countOfType(t, domain.MsgMembersUpdate))

	// Frames fed to the connection flow through the read loop.
	conn.inbox <- frame(t, domain.MsgChatSend, map[string]any{"text": "hail and well met"})
	require.Eventually(t, func() bool {
		return observer.countOfType(t, domain.MsgChatMessage) == 2
	}, time.Second, 10*time.Millisecond)
	var hail domain.ChatMessage
	require.True(t, observer.lastOfType(t, domain.MsgChatMessage, &hail))
	assert.Equal(t, "hail and well met", hail.Text)

	close(conn.inbox)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not shut down after the connection closed")
	}

	require.Eventually(t, func() bool {
		return observer.countOfType(t, domain.MsgChatMessage) == 3
	}, time.Second, 10*time.Millisecond)
	var left domain.ChatMessage
	require.True(t, observer.lastOfType(t, domain.MsgChatMessage, &left))
	assert.Equal(t, "Adventurer left the table.", left.Text)
	assert.Equal(t, 1, live.Hub.Len())
	assert.True(t, conn.closed)
}

func TestServeDMGetsNoAutoToken(t *testing.T) {
	svc, _ := newTestService(t)
	live := newTestRoom(t, svc)

	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Serve(context.Background(), conn, live.Room.RoomID, "Keeper", domain.RoleDM)
	}()

	require.Eventually(t, func() bool {
		return conn.countOfType(t, domain.MsgStateInit) == 1
	}, time.Second, 10*time.Millisecond)

	var init stateInitMsg
	require.True(t, conn.lastOfType(t, domain.MsgStateInit, &init))
	assert.Equal(t, domain.RoleDM, init.You.Role)
	assert.Empty(t, init.Tokens)

	close(conn.inbox)
	<-done
}

func TestServeRehydratesRoomState(t *testing.T) {
	svc, store := newTestService(t)

	room := domain.NewRoom("r1", "Stored")
	require.NoError(t, store.UpsertRoom(context.Background(), room))
	inv := domain.NewInventory("u9")
	inv.Bag = append(inv.Bag, domain.ItemInstance{ID: "ring_t3", Name: "Ring"})
	require.NoError(t, store.SaveInventory(context.Background(), "r1", inv))
	require.NoError(t, store.AppendChatMessage(context.Background(), "r1", domain.ChatMessage{
		Type: domain.MsgChatMessage, Text: "old news", UserID: "u9", Channel: ChannelParty,
	}))

	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Serve(context.Background(), conn, "r1", "Mia", domain.RolePlayer)
	}()

	require.Eventually(t, func() bool {
		return conn.countOfType(t, domain.MsgStateInit) == 1
	}, time.Second, 10*time.Millisecond)

	var init stateInitMsg
	require.True(t, conn.lastOfType(t, domain.MsgStateInit, &init))
	require.Contains(t, init.Inventories, "u9")
	assert.Len(t, init.Inventories["u9"].Bag, 1)
	require.NotEmpty(t, init.ChatLog)
	assert.Equal(t, "old news", init.ChatLog[0].Text)

	close(conn.inbox)
	<-done
}
