package domain

import "time"

// Loot bag types.
const (
	BagTypeCommunity = "community"
	BagTypePlayer    = "player"
)

// Loot sources recognized by the allocator. The source biases tier
// weighting: boss loot skews high, mob loot skews low.
const (
	SourceMob    = "mob"
	SourceChest  = "chest"
	SourceBoss   = "boss"
	SourceShop   = "shop"
	SourceCustom = "custom"
)

// CategoryProps are per-category affix rules applied at loot-generation
// time. Elemental and Magical are either a fixed damage type, the literal
// "random", or empty. Bonus is meaningful only as 1, 2 or 3.
type CategoryProps struct {
	Bonus     int    `json:"bonus,omitempty"`
	Elemental string `json:"elemental,omitempty"`
	Magical   string `json:"magical,omitempty"`
}

// LootConfig drives one loot generation. It is retained on the bag so affix
// rules can be re-applied idempotently to late additions.
type LootConfig struct {
	Source       string                   `json:"source,omitempty"`
	Count        int                      `json:"count,omitempty" validate:"omitempty,min=0,max=25"`
	TierMin      int                      `json:"tierMin,omitempty"`
	TierMax      *int                     `json:"tierMax,omitempty"`
	AllowMagic   *bool                    `json:"allowMagic,omitempty"`
	AddElemental bool                     `json:"addElemental,omitempty"`
	Categories   []string                 `json:"categories,omitempty"`
	Slots        []string                 `json:"slots,omitempty"`
	Tags         []string                 `json:"tags,omitempty"`
	CategoryProp map[string]CategoryProps `json:"categoryProps,omitempty"`
	BagName      string                   `json:"bagName,omitempty"`
}

// MagicAllowed resolves the AllowMagic tri-state (default true).
func (c LootConfig) MagicAllowed() bool {
	return c.AllowMagic == nil || *c.AllowMagic
}

// LootBag is a transient container of item instances awaiting distribution
// or discard. A bag emptied by any mutation is deleted immediately.
type LootBag struct {
	BagID            string         `json:"bag_id"`
	Name             string         `json:"name"`
	Type             string         `json:"type"`
	Items            []ItemInstance `json:"items"`
	CreatedAt        time.Time      `json:"created_at"`
	CreatedBy        string         `json:"created_by"`
	TargetUserID     string         `json:"target_user_id,omitempty"`
	VisibleToPlayers bool           `json:"visible_to_players"`

	// Config is the generation config, kept for idempotent re-application
	// of affix rules. Never serialized over the wire to players.
	Config LootConfig `json:"-"`
}

// RemoveItem removes the first instance matching itemID and returns it.
// The second result is false when no instance matched.
func (b *LootBag) RemoveItem(itemID string) (ItemInstance, bool) {
	for i, it := range b.Items {
		if it.ID == itemID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return it, true
		}
	}
	return ItemInstance{}, false
}
