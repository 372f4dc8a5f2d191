// Package session implements the live room engine: admission, the typed
// message router, role-scoped visibility projection, and write-through
// persistence. All room mutation happens under the room mutex; broadcasts
// and store writes happen after unlock.
package session

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/ArcaneTable_Go/internal/catalog"
	"github.com/osse101/ArcaneTable_Go/internal/domain"
	"github.com/osse101/ArcaneTable_Go/internal/loot"
	"github.com/osse101/ArcaneTable_Go/internal/repository"
)

// DiceRoller evaluates a dice expression. The parsing and RNG details are
// the collaborator's concern.
type DiceRoller interface {
	Roll(ctx context.Context, expr string) (domain.DiceResult, error)
}

var validate = validator.New()

// Service is the session engine shared by all rooms.
type Service struct {
	registry *Registry
	store    repository.Room
	catalog  *catalog.Catalog
	alloc    *loot.Allocator
	roller   DiceRoller
	routes   map[string]route

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService wires the engine. A nil rng gets a time-seeded source; tests
// inject a fixed seed.
func NewService(registry *Registry, store repository.Room, cat *catalog.Catalog, roller DiceRoller, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Service{
		registry: registry,
		store:    store,
		catalog:  cat,
		alloc:    loot.NewAllocator(cat),
		roller:   roller,
		rng:      rng,
	}
	s.routes = s.buildRoutes()
	return s
}

// Registry exposes the room registry for the HTTP layer.
func (s *Service) Registry() *Registry {
	return s.registry
}

// withRNG serializes access to the shared random source.
func (s *Service) withRNG(fn func(rng *rand.Rand)) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	fn(s.rng)
}

// clientSession is one connection's view of a room after a successful join.
type clientSession struct {
	conn   Conn
	live   *Live
	userID string
	name   string
	role   string
}

func (cs *clientSession) isDM() bool {
	return cs.role == domain.RoleDM
}

// sendError delivers a private error envelope; delivery is best-effort.
func (cs *clientSession) sendError(message string) {
	_ = cs.conn.Send(domain.NewError(message))
}
