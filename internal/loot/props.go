package loot

import (
	"math/rand"
	"strings"

	"github.com/osse101/ArcaneTable_Go/internal/catalog"
	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

// ApplyCategoryProps resolves per-category affix rules onto items in place.
// The application is idempotent: an instance that already carries a magic
// type or bonus keeps it, and tags are never duplicated, so re-running the
// same rules over a bag (as the lifecycle does on every mutation) is safe.
//
// When both the elemental and magical axes are "random", one fair coin
// decides which single axis gets a random value; both are never randomized
// on the same instance.
func ApplyCategoryProps(items []domain.ItemInstance, props map[string]domain.CategoryProps, rng *rand.Rand) {
	if len(items) == 0 || len(props) == 0 {
		return
	}

	normalized := make(map[string]domain.CategoryProps, len(props))
	for k, v := range props {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}

	for i := range items {
		cat := strings.ToLower(strings.TrimSpace(items[i].Category))
		p, ok := normalized[cat]
		if !ok {
			continue
		}
		applyProps(&items[i], p, rng)
	}
}

func applyProps(it *domain.ItemInstance, p domain.CategoryProps, rng *rand.Rand) {
	bonus := 0
	if p.Bonus >= 1 && p.Bonus <= 3 {
		bonus = p.Bonus
	}

	elementalRandom := strings.EqualFold(strings.TrimSpace(p.Elemental), "random")
	magicalRandom := strings.EqualFold(strings.TrimSpace(p.Magical), "random")

	var elemental, magical string
	if elementalRandom && magicalRandom {
		if rng.Intn(2) == 0 {
			elemental = randomFrom(catalog.ElementalTypes, rng)
		} else {
			magical = randomFrom(catalog.MagicalTypes, rng)
		}
	} else {
		elemental = resolveMagicType(p.Elemental, catalog.ElementalTypes, rng)
		magical = resolveMagicType(p.Magical, catalog.MagicalTypes, rng)
	}

	if bonus > 0 && it.MagicBonus == 0 {
		it.MagicBonus = bonus
	}

	var applied []string
	if elemental != "" {
		applied = append(applied, elemental)
	}
	if magical != "" && magical != elemental {
		applied = append(applied, magical)
	}

	if len(applied) > 0 && it.MagicType == "" {
		it.MagicType = applied[0]
	}

	for _, t := range applied {
		addTag(it, t)
	}
	if (len(applied) > 0 || bonus > 0) && !it.HasTag(TagMagic) && !it.HasTag("magical") {
		addTag(it, TagMagic)
	}
}

// forceElemental assigns a random elemental type to an instance that ended
// generation without one (the addElemental config flag).
func forceElemental(it *domain.ItemInstance, rng *rand.Rand) {
	t := randomFrom(catalog.ElementalTypes, rng)
	if t == "" {
		return
	}
	it.MagicType = t
	addTag(it, t)
	if !it.HasTag(TagMagic) && !it.HasTag("magical") {
		addTag(it, TagMagic)
	}
}

// resolveMagicType maps a rule value to a concrete type: "" stays empty,
// "random" draws from pool, and fixed values must be known magic types.
func resolveMagicType(value string, pool []string, rng *rand.Rand) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return ""
	}
	if v == "random" {
		return randomFrom(pool, rng)
	}
	if catalog.MagicTypes[v] {
		return v
	}
	return ""
}

func randomFrom(pool []string, rng *rand.Rand) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}

func addTag(it *domain.ItemInstance, tag string) {
	if !it.HasTag(tag) {
		it.Tags = append(it.Tags, tag)
	}
}
