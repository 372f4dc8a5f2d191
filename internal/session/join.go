package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
	"github.com/osse101/ArcaneTable_Go/internal/logger"
	"github.com/osse101/ArcaneTable_Go/internal/metrics"
)

const defaultMemberName = "Adventurer"

// Serve runs one connection's full session: admission, hydration, join
// broadcasts, the read loop, and disconnect cleanup. It returns when the
// connection closes.
func (s *Service) Serve(ctx context.Context, conn Conn, roomID, name, role string) {
	defer conn.Close()

	role = strings.ToLower(strings.TrimSpace(role))

	live, err := s.registry.GetOrRehydrate(ctx, roomID)
	if err != nil {
		_ = conn.Send(domain.NewError(domain.ErrMsgRoomNotFound))
		return
	}

	if err := CanJoin(live, role); err != nil {
		_ = conn.Send(domain.NewError(err.Error()))
		return
	}

	if err := s.hydrate(ctx, live); err != nil {
		logger.FromContext(ctx).Error("Room hydration failed",
			"room_id", roomID, "error", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultMemberName
	}

	metrics.WSConnections.Inc()
	defer metrics.WSConnections.Dec()

	cs := &clientSession{
		conn:   conn,
		live:   live,
		userID: shortID(),
		name:   name,
		role:   role,
	}
	you := MemberInfo{UserID: cs.userID, Name: cs.name, Role: cs.role}
	if err := live.Hub.TryAdd(conn, you); err != nil {
		_ = conn.Send(domain.NewError(err.Error()))
		return
	}
	defer s.disconnect(ctx, cs)

	room := live.Room
	room.Mu.Lock()
	var autoToken *domain.Token
	if role == domain.RolePlayer {
		t := s.placePlayerToken(room, cs)
		autoToken = &t
		s.persistRoom(room)
	}
	init := s.buildStateInit(live, you)
	room.Mu.Unlock()

	_ = conn.Send(init)
	if autoToken != nil {
		live.Hub.Broadcast(tokenAddedMsg{Type: domain.MsgTokenAdded, Token: *autoToken}, conn)
	}
	live.Hub.Broadcast(membersUpdate(live.Hub), conn)
	s.systemMessage(live, fmt.Sprintf("%s joined the table.", name))

	logger.FromContext(ctx).Info(LogMsgMemberJoined,
		"room_id", roomID, "user_id", cs.userID, "role", role)

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.dispatch(ctx, cs, data)
	}
}

// disconnect unseats the connection and notifies the room. Runs on every
// exit path after a successful join.
func (s *Service) disconnect(ctx context.Context, cs *clientSession) {
	info, ok := cs.live.Hub.Remove(cs.conn)
	if !ok {
		return
	}
	cs.live.Hub.Broadcast(membersUpdate(cs.live.Hub), nil)
	s.systemMessage(cs.live, fmt.Sprintf("%s left the table.", info.Name))

	logger.FromContext(ctx).Info(LogMsgMemberLeft,
		"room_id", cs.live.Room.RoomID, "user_id", info.UserID)
}

// hydrate loads inventories, loot bags and the chat tail from the store the
// first time a room is touched after a restart. The double check keeps
// concurrent first joins from clobbering each other.
func (s *Service) hydrate(ctx context.Context, live *Live) error {
	live.Room.Mu.Lock()
	if live.Room.Hydrated {
		live.Room.Mu.Unlock()
		return nil
	}
	roomID := live.Room.RoomID
	live.Room.Mu.Unlock()

	invs, err := s.store.GetInventories(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to load inventories: %w", err)
	}
	bags, err := s.store.GetLootBags(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to load loot bags: %w", err)
	}
	chat, err := s.store.GetChatLog(ctx, roomID, ChatReplayLimit)
	if err != nil {
		return fmt.Errorf("failed to load chat log: %w", err)
	}

	live.Room.Mu.Lock()
	defer live.Room.Mu.Unlock()
	if live.Room.Hydrated {
		return nil
	}
	if invs != nil {
		live.Room.Inventories = invs
	}
	if bags != nil {
		live.Room.LootBags = bags
	}
	live.Room.ChatLog = chat
	live.Room.Hydrated = true
	return nil
}

// placePlayerToken drops an auto token for a joining player, positioned by
// player-token count so the party lines up along the grid. Caller holds the
// room mutex.
func (s *Service) placePlayerToken(room *domain.Room, cs *clientSession) domain.Token {
	idx := 0
	for _, t := range room.Tokens {
		if t.Kind == domain.TokenKindPlayer {
			idx++
		}
	}

	cols := room.Grid.Cols
	if cols < 1 {
		cols = 1
	}
	vision := DefaultPlayerVision
	token := domain.Token{
		ID:           shortID(),
		Label:        truncate(cs.name, TokenLabelMaxLen),
		Kind:         domain.TokenKindPlayer,
		X:            idx % cols,
		Y:            idx / cols,
		Size:         TokenMinSize,
		OwnerUserID:  cs.userID,
		VisionRadius: &vision,
	}
	room.Tokens = append(room.Tokens, token)
	return token
}

// buildStateInit assembles the full initial sync for one viewer. Caller
// holds the room mutex and has already seated the viewer.
func (s *Service) buildStateInit(live *Live, you MemberInfo) stateInitMsg {
	room := live.Room

	chat := room.ChatLog
	if len(chat) > ChatReplayLimit {
		chat = chat[len(chat)-ChatReplayLimit:]
	}

	return stateInitMsg{
		Type:        domain.MsgStateInit,
		You:         you,
		Room:        roomInfo{RoomID: room.RoomID, Name: room.Name, Locked: room.Locked},
		Members:     live.Hub.Members(),
		Scene:       room.Scene,
		Grid:        room.Grid,
		MapURL:      room.MapImageURL,
		Lighting:    room.Lighting,
		Tokens:      append([]domain.Token(nil), room.Tokens...),
		Inventories: s.inventorySnapshot(room).Inventories,
		LootBags:    ProjectLootBags(room, you),
		ChatLog:     append([]domain.ChatMessage(nil), chat...),
	}
}
