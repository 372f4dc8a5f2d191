package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

func (s *Service) handleChatSend(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.ChatSendPayload
	if !decode(raw, &p) {
		return nil
	}

	text := strings.TrimSpace(p.Text)
	if text == "" {
		return nil
	}
	text = truncate(text, ChatTextMaxLen)

	// Only narration is a distinct channel; anything else lands in party.
	channel := p.Channel
	if channel != ChannelNarration {
		channel = ChannelParty
	}
	if channel == ChannelNarration && !cs.isDM() {
		return errors.New(domain.ErrMsgPartyChatOnly)
	}

	msg := domain.ChatMessage{
		Type:    domain.MsgChatMessage,
		TS:      nowTS(),
		UserID:  cs.userID,
		Name:    cs.name,
		Role:    cs.role,
		Channel: channel,
		Text:    text,
	}

	room := cs.live.Room
	room.Mu.Lock()
	room.ChatLog = append(room.ChatLog, msg)
	room.Mu.Unlock()

	s.persistChatMessage(room.RoomID, msg)
	cs.live.Hub.Broadcast(msg, nil)
	return nil
}

// systemMessage appends and fans out a presence notice. Caller must NOT
// hold the room mutex.
func (s *Service) systemMessage(live *Live, text string) {
	msg := domain.ChatMessage{
		Type:    domain.MsgChatMessage,
		TS:      nowTS(),
		UserID:  "system",
		Name:    "System",
		Role:    "system",
		Channel: ChannelParty,
		Text:    text,
	}

	live.Room.Mu.Lock()
	live.Room.ChatLog = append(live.Room.ChatLog, msg)
	live.Room.Mu.Unlock()

	s.persistChatMessage(live.Room.RoomID, msg)
	live.Hub.Broadcast(msg, nil)
}

func nowTS() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
