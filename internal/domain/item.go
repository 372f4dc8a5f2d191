package domain

// MaxTier is the highest item power tier in the catalog.
const MaxTier = 3

// Item categories.
const (
	CategoryWeapons = "weapons"
	CategoryArmor   = "armor"
	CategoryJewelry = "jewelry"
	CategoryMisc    = "misc"
)

// Hand slots, subject to two-handed exclusivity.
const (
	SlotMainHand = "mainhand"
	SlotOffHand  = "offhand"
	SlotBag      = "bag"
)

// ItemDefinition is one immutable catalog row. Logical items that exist at
// several tiers appear as separate rows with a per-tier id suffix
// (e.g. "longsword_t2").
type ItemDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slot        string   `json:"slot"`
	Tier        int      `json:"tier"`
	Category    string   `json:"category"`
	IsTwoHanded bool     `json:"is_two_handed"`
	Tags        []string `json:"tags"`
}

// ItemInstance is a catalog item copy held in a loot bag, an equipment slot
// or an inventory bag. Magic fields are assigned at loot-generation time and
// travel with the instance. An instance is owned by exactly one container;
// transfers move it, never copy it.
type ItemInstance struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slot        string   `json:"slot"`
	Tier        int      `json:"tier"`
	Category    string   `json:"category"`
	IsTwoHanded bool     `json:"is_two_handed"`
	MagicType   string   `json:"magicType,omitempty"`
	MagicBonus  int      `json:"magicBonus,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// InstanceFromDefinition copies a catalog row into a fresh owned instance.
func InstanceFromDefinition(def ItemDefinition) ItemInstance {
	tags := make([]string, len(def.Tags))
	copy(tags, def.Tags)
	return ItemInstance{
		ID:          def.ID,
		Name:        def.Name,
		Slot:        def.Slot,
		Tier:        def.Tier,
		Category:    def.Category,
		IsTwoHanded: def.IsTwoHanded,
		Tags:        tags,
	}
}

// HasTag reports whether the instance carries the given tag (case-insensitive
// comparison is the caller's concern; tags are stored lowercased by the
// catalog loader).
func (it ItemInstance) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsMagic reports whether the definition is tagged as magical.
func (d ItemDefinition) IsMagic() bool {
	for _, t := range d.Tags {
		if t == "magic" || t == "magical" {
			return true
		}
	}
	return false
}
