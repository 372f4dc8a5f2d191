package session

import (
	"context"
	"strings"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

const defaultDiceExpr = "1d20"

func (s *Service) handleDiceRoll(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.DiceRollPayload
	if !decode(raw, &p) {
		return nil
	}

	expr := strings.TrimSpace(p.Expr)
	if expr == "" {
		expr = defaultDiceExpr
	}

	result, err := s.roller.Roll(ctx, expr)
	if err != nil {
		return err
	}

	cs.live.Hub.Broadcast(diceResultMsg{
		Type:   domain.MsgDiceResult,
		UserID: cs.userID,
		Name:   cs.name,
		Result: result,
	}, nil)
	return nil
}
