// Package dice evaluates simple dice expressions of the form "NdS+M".
package dice

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

// Expression limits.
const (
	MaxDice  = 100
	MaxSides = 1000
)

// ErrInvalidExpression is returned for anything the parser does not accept.
var ErrInvalidExpression = errors.New("invalid dice expression")

var exprPattern = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// Roller rolls dice expressions with its own serialized random source.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller creates a roller. A nil rng gets a time-seeded source.
func NewRoller(rng *rand.Rand) *Roller {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Roller{rng: rng}
}

// Roll evaluates expressions like "2d6+3", "d20", "4d8-1".
func (r *Roller) Roll(ctx context.Context, expr string) (domain.DiceResult, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(expr), " ", ""))
	m := exprPattern.FindStringSubmatch(normalized)
	if m == nil {
		return domain.DiceResult{}, ErrInvalidExpression
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > MaxDice {
			return domain.DiceResult{}, ErrInvalidExpression
		}
		count = n
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 2 || sides > MaxSides {
		return domain.DiceResult{}, ErrInvalidExpression
	}

	modifier := 0
	if m[3] != "" {
		modifier, err = strconv.Atoi(m[3])
		if err != nil {
			return domain.DiceResult{}, ErrInvalidExpression
		}
	}

	rolls := make([]int, count)
	total := modifier
	r.mu.Lock()
	for i := range rolls {
		rolls[i] = r.rng.Intn(sides) + 1
		total += rolls[i]
	}
	r.mu.Unlock()

	return domain.DiceResult{
		Expr:     normalized,
		Rolls:    rolls,
		Modifier: modifier,
		Total:    total,
	}, nil
}
