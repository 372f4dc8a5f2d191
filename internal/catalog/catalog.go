// Package catalog loads and serves the immutable item catalog. The catalog
// is read once from an XML definition file and shared process-wide without
// locking; Reload swaps in a fresh immutable snapshot atomically.
package catalog

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

// Magic damage types recognized by affix resolution.
var MagicTypes = map[string]bool{
	"acid":      true,
	"cold":      true,
	"fire":      true,
	"lightning": true,
	"poison":    true,
	"thunder":   true,
	"holy":      true,
	"radiant":   true,
	"necrotic":  true,
	"force":     true,
	"psychic":   true,
}

// ElementalTypes is the ordered subset of MagicTypes used for random
// elemental affixes.
var ElementalTypes = []string{"acid", "cold", "fire", "lightning", "poison", "thunder"}

// MagicalTypes are the non-elemental magic types, in sorted order.
var MagicalTypes = []string{"force", "holy", "necrotic", "psychic", "radiant"}

type snapshot struct {
	items []domain.ItemDefinition
	byID  map[string]domain.ItemDefinition
}

// Catalog is the process-wide item definition lookup.
type Catalog struct {
	path    string
	snap    atomic.Pointer[snapshot]
	version atomic.Uint64
}

// New creates a catalog bound to an XML definition file and performs the
// initial load.
func New(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromItems builds a catalog directly from definitions. Tests use this to
// avoid filesystem fixtures.
func NewFromItems(items []domain.ItemDefinition) *Catalog {
	c := &Catalog{}
	c.install(items)
	return c
}

func (c *Catalog) install(items []domain.ItemDefinition) {
	byID := make(map[string]domain.ItemDefinition, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	c.snap.Store(&snapshot{items: items, byID: byID})
	c.version.Add(1)
}

// Version increments on every successful (re)load. Caches keyed on catalog
// contents include it in their keys.
func (c *Catalog) Version() uint64 {
	return c.version.Load()
}

// Reload re-reads the definition file and swaps in the new snapshot. Readers
// holding the old snapshot are unaffected.
func (c *Catalog) Reload() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("failed to read item database %s: %w", c.path, err)
	}

	items, err := parseItems(data)
	if err != nil {
		return fmt.Errorf("failed to parse item database %s: %w", c.path, err)
	}

	c.install(items)
	return nil
}

// Items returns the current snapshot's definitions. The slice must not be
// mutated.
func (c *Catalog) Items() []domain.ItemDefinition {
	if s := c.snap.Load(); s != nil {
		return s.items
	}
	return nil
}

// ByID looks up one definition by catalog id.
func (c *Catalog) ByID(id string) (domain.ItemDefinition, bool) {
	if id == "" {
		return domain.ItemDefinition{}, false
	}
	s := c.snap.Load()
	if s == nil {
		return domain.ItemDefinition{}, false
	}
	def, ok := s.byID[id]
	return def, ok
}

// Len reports the number of loaded definitions.
func (c *Catalog) Len() int {
	if s := c.snap.Load(); s != nil {
		return len(s.items)
	}
	return 0
}

// Hydrate backfills missing instance fields from the catalog row with the
// same id. Instances with unknown ids are returned unchanged; stale client
// state must not crash the session.
func (c *Catalog) Hydrate(it domain.ItemInstance) domain.ItemInstance {
	def, ok := c.ByID(it.ID)
	if !ok {
		return it
	}
	if it.Name == "" {
		it.Name = def.Name
	}
	if it.Slot == "" || it.Slot == domain.SlotBag {
		it.Slot = def.Slot
	}
	if it.Tier == 0 {
		it.Tier = def.Tier
	}
	if it.Category == "" {
		it.Category = def.Category
	}
	if !it.IsTwoHanded {
		it.IsTwoHanded = def.IsTwoHanded
	}
	if len(it.Tags) == 0 {
		it.Tags = append([]string(nil), def.Tags...)
	}
	return it
}
