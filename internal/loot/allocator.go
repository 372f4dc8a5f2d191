// Package loot implements tier-weighted randomized item allocation and
// magic-affix resolution. The allocator is pure computation: all randomness
// comes from the caller-supplied rand source, so seeded tests are
// deterministic.
package loot

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/ArcaneTable_Go/internal/catalog"
	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

// Allocator samples item instances from the catalog according to a
// LootConfig. Filtered eligible pools are cached per filter signature.
type Allocator struct {
	catalog *catalog.Catalog
	pools   *lru.Cache[string, []domain.ItemDefinition]
}

// NewAllocator creates an allocator over the given catalog.
func NewAllocator(cat *catalog.Catalog) *Allocator {
	pools, _ := lru.New[string, []domain.ItemDefinition](PoolCacheSize)
	return &Allocator{catalog: cat, pools: pools}
}

// Generate samples cfg.Count instances (with replacement) from the eligible
// pool, resolves category affixes and returns them in sampling order.
// Returns domain.ErrEmptyLootPool when no catalog entry passes the filters.
func (a *Allocator) Generate(cfg domain.LootConfig, rng *rand.Rand) ([]domain.ItemInstance, error) {
	if a.catalog.Len() == 0 {
		return nil, domain.ErrNoItemsLoaded
	}

	norm := normalizeConfig(cfg)
	pool := a.eligiblePool(norm)
	if len(pool) == 0 {
		return nil, domain.ErrEmptyLootPool
	}

	bias := tierBias(norm.Source)
	cum := make([]float64, len(pool))
	total := 0.0
	for i, def := range pool {
		w := math.Pow(float64(def.Tier+1), bias)
		if w < MinWeight {
			w = MinWeight
		}
		total += w
		cum[i] = total
	}

	out := make([]domain.ItemInstance, 0, norm.Count)
	for i := 0; i < norm.Count; i++ {
		r := rng.Float64() * total
		idx := sort.SearchFloat64s(cum, r)
		if idx >= len(pool) {
			idx = len(pool) - 1
		}
		out = append(out, domain.InstanceFromDefinition(pool[idx]))
	}

	ApplyCategoryProps(out, norm.CategoryProp, rng)

	if norm.AddElemental {
		for i := range out {
			if out[i].MagicType == "" {
				forceElemental(&out[i], rng)
			}
		}
	}

	return out, nil
}

// eligiblePool returns catalog entries passing all cfg filters, consulting
// the LRU first.
func (a *Allocator) eligiblePool(cfg genConfig) []domain.ItemDefinition {
	key := a.poolKey(cfg)
	if pool, ok := a.pools.Get(key); ok {
		return pool
	}

	var pool []domain.ItemDefinition
	for _, def := range a.catalog.Items() {
		if def.Tier < cfg.TierMin || def.Tier > cfg.TierMax {
			continue
		}
		if len(cfg.Categories) > 0 && !containsFold(cfg.Categories, def.Category) {
			continue
		}
		if len(cfg.Slots) > 0 && !containsFold(cfg.Slots, def.Slot) {
			continue
		}
		if !cfg.AllowMagic && def.IsMagic() {
			continue
		}
		if len(cfg.Tags) > 0 && !hasAllTags(def, cfg.Tags) {
			continue
		}
		pool = append(pool, def)
	}

	a.pools.Add(key, pool)
	return pool
}

func (a *Allocator) poolKey(cfg genConfig) string {
	return fmt.Sprintf("v%d|t%d-%d|m%v|c:%s|s:%s|g:%s",
		a.catalog.Version(),
		cfg.TierMin, cfg.TierMax,
		cfg.AllowMagic,
		strings.Join(cfg.Categories, ","),
		strings.Join(cfg.Slots, ","),
		strings.Join(cfg.Tags, ","),
	)
}

// genConfig is the normalized form of a LootConfig.
type genConfig struct {
	Source       string
	Count        int
	TierMin      int
	TierMax      int
	AllowMagic   bool
	AddElemental bool
	Categories   []string
	Slots        []string
	Tags         []string
	CategoryProp map[string]domain.CategoryProps
}

// normalizeConfig clamps count and tier bounds and lowercases filters. An
// absent tierMax means the full tier range.
func normalizeConfig(cfg domain.LootConfig) genConfig {
	norm := genConfig{
		AllowMagic:   cfg.MagicAllowed(),
		AddElemental: cfg.AddElemental,
		CategoryProp: cfg.CategoryProp,
	}

	norm.Count = cfg.Count
	if norm.Count == 0 {
		norm.Count = DefaultCount
	}
	norm.Count = clamp(norm.Count, MinCount, MaxCount)

	norm.TierMin = cfg.TierMin
	norm.TierMax = domain.MaxTier
	if cfg.TierMax != nil {
		norm.TierMax = *cfg.TierMax
	}
	if norm.TierMin > norm.TierMax {
		norm.TierMin, norm.TierMax = norm.TierMax, norm.TierMin
	}
	norm.TierMin = clamp(norm.TierMin, 0, domain.MaxTier)
	norm.TierMax = clamp(norm.TierMax, 0, domain.MaxTier)

	norm.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	if norm.Source == "" {
		norm.Source = domain.SourceMob
	}
	norm.Categories = lowerTrim(cfg.Categories)
	norm.Slots = trim(cfg.Slots)
	norm.Tags = lowerTrim(cfg.Tags)
	return norm
}

func tierBias(source string) float64 {
	switch source {
	case domain.SourceMob:
		return TierBiasMob
	case domain.SourceChest:
		return TierBiasChest
	case domain.SourceBoss:
		return TierBiasBoss
	case domain.SourceShop:
		return TierBiasShop
	case domain.SourceCustom:
		return TierBiasCustom
	default:
		return TierBiasDefault
	}
}

func hasAllTags(def domain.ItemDefinition, want []string) bool {
	for _, w := range want {
		found := false
		for _, t := range def.Tags {
			if strings.EqualFold(t, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}

func lowerTrim(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func trim(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
