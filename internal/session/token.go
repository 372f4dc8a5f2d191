package session

import (
	"context"
	"errors"
	"strings"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

func (s *Service) handleTokenAdd(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.TokenAddPayload
	if !decode(raw, &p) {
		return nil
	}

	token := domain.Token{
		ID:   shortID(),
		Kind: domain.TokenKindNPC,
		Size: TokenMinSize,
	}
	applyTokenPatch(&token, p.Token)
	if token.Label == "" {
		token.Label = "Token"
	}

	room := cs.live.Room
	room.Mu.Lock()
	token.X = clampInt(token.X, 0, room.Grid.Cols-1)
	token.Y = clampInt(token.Y, 0, room.Grid.Rows-1)
	room.Tokens = append(room.Tokens, token)
	s.persistRoom(room)
	room.Mu.Unlock()

	cs.live.Hub.Broadcast(tokenAddedMsg{Type: domain.MsgTokenAdded, Token: token}, nil)
	return nil
}

func (s *Service) handleTokenMove(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.TokenMovePayload
	if !decode(raw, &p) {
		return nil
	}

	room := cs.live.Room
	room.Mu.Lock()
	token := findToken(room, p.TokenID)
	if token == nil {
		room.Mu.Unlock()
		return nil
	}
	if !cs.isDM() && token.OwnerUserID != cs.userID {
		room.Mu.Unlock()
		return errors.New(domain.ErrMsgNotTokenOwner)
	}
	if p.X != nil {
		token.X = clampInt(*p.X, 0, room.Grid.Cols-1)
	}
	if p.Y != nil {
		token.Y = clampInt(*p.Y, 0, room.Grid.Rows-1)
	}
	moved := tokenMovedMsg{Type: domain.MsgTokenMoved, TokenID: token.ID, X: token.X, Y: token.Y}
	s.persistRoom(room)
	room.Mu.Unlock()

	cs.live.Hub.Broadcast(moved, nil)
	return nil
}

func (s *Service) handleTokenUpdate(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.TokenUpdatePayload
	if !decode(raw, &p) {
		return nil
	}

	room := cs.live.Room
	room.Mu.Lock()
	token := findToken(room, p.TokenID)
	if token == nil {
		room.Mu.Unlock()
		return nil
	}
	applyTokenPatch(token, p.Patch)
	token.X = clampInt(token.X, 0, room.Grid.Cols-1)
	token.Y = clampInt(token.Y, 0, room.Grid.Rows-1)
	updated := tokenUpdatedMsg{Type: domain.MsgTokenUpdated, Token: *token}
	s.persistRoom(room)
	room.Mu.Unlock()

	cs.live.Hub.Broadcast(updated, nil)
	return nil
}

func (s *Service) handleTokenRemove(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.TokenRemovePayload
	if !decode(raw, &p) {
		return nil
	}

	room := cs.live.Room
	room.Mu.Lock()
	removed := false
	for i, t := range room.Tokens {
		if t.ID == p.TokenID {
			room.Tokens = append(room.Tokens[:i], room.Tokens[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		s.persistRoom(room)
	}
	room.Mu.Unlock()

	if removed {
		cs.live.Hub.Broadcast(tokenRemovedMsg{Type: domain.MsgTokenRemoved, TokenID: p.TokenID}, nil)
	}
	return nil
}

func findToken(room *domain.Room, tokenID string) *domain.Token {
	for i := range room.Tokens {
		if room.Tokens[i].ID == tokenID {
			return &room.Tokens[i]
		}
	}
	return nil
}

// applyTokenPatch copies present patch fields onto the token, clamping
// client-supplied values.
func applyTokenPatch(token *domain.Token, patch domain.TokenPatch) {
	if patch.Label != nil {
		token.Label = truncate(strings.TrimSpace(*patch.Label), TokenLabelMaxLen)
	}
	if patch.Kind != nil && validTokenKind(*patch.Kind) {
		token.Kind = *patch.Kind
	}
	if patch.X != nil {
		token.X = *patch.X
	}
	if patch.Y != nil {
		token.Y = *patch.Y
	}
	if patch.Size != nil {
		token.Size = clampInt(*patch.Size, TokenMinSize, TokenMaxSize)
	}
	if patch.OwnerUserID != nil {
		token.OwnerUserID = *patch.OwnerUserID
	}
	if patch.Color != nil {
		token.Color = patch.Color
	}
	if patch.HP != nil {
		token.HP = patch.HP
	}
	if patch.AC != nil {
		token.AC = patch.AC
	}
	if patch.Initiative != nil {
		token.Initiative = patch.Initiative
	}
	if patch.VisionRadius != nil {
		token.VisionRadius = patch.VisionRadius
	}
	if patch.Darkvision != nil {
		token.Darkvision = patch.Darkvision
	}
}

func validTokenKind(kind string) bool {
	switch kind {
	case domain.TokenKindPlayer, domain.TokenKindNPC, domain.TokenKindObject:
		return true
	}
	return false
}
