package catalog

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

// The loader accepts two schemas:
//
//	<item id="" name="" slot="" tier="" category="" tags="" is_two_handed=""/>
//	(attributes or child elements, at any depth)
//
// and the nested category tree, where each <baseItem> expands into one
// definition per tier listed in the category's appliesQuality tierRefs,
// with ids suffixed "_t<tier>".

type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Text     string     `xml:",chardata"`
}

var titleCaser = cases.Title(language.English)

func parseItems(data []byte) ([]domain.ItemDefinition, error) {
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	items := collectFlatItems(&root)
	if len(items) == 0 {
		items = collectBaseItems(&root)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w", domain.ErrNoItemsLoaded)
	}
	return items, nil
}

func collectFlatItems(root *xmlNode) []domain.ItemDefinition {
	var items []domain.ItemDefinition
	walk(root, func(n *xmlNode) {
		if !strings.EqualFold(n.XMLName.Local, "item") {
			return
		}
		id := strings.TrimSpace(field(n, "id"))
		name := strings.TrimSpace(field(n, "name"))
		slot := strings.TrimSpace(field(n, "slot"))
		if id == "" || slot == "" {
			return
		}
		if name == "" {
			name = titleCaser.String(strings.ReplaceAll(id, "_", " "))
		}

		tier := parseInt(field(n, "tier"), 0)
		category := strings.ToLower(strings.TrimSpace(field(n, "category")))
		if category == "" {
			category = inferCategory(slot)
		}

		twoHanded := parseBool(firstNonEmpty(attr(n, "is_two_handed"), attr(n, "two_handed"), childText(n, "is_two_handed")))
		if !twoHanded {
			twoHanded = parseInt(field(n, "hands"), 0) >= 2
		}

		tags := splitTags(field(n, "tags"))
		for _, t := range tags {
			lt := strings.ToLower(t)
			if v, ok := strings.CutPrefix(lt, "tier:"); ok {
				tier = parseInt(v, tier)
			}
			if v, ok := strings.CutPrefix(lt, "cat:"); ok {
				if v = strings.TrimSpace(v); v != "" {
					category = v
				}
			}
		}

		items = append(items, domain.ItemDefinition{
			ID:          id,
			Name:        name,
			Slot:        slot,
			Tier:        tier,
			Category:    category,
			IsTwoHanded: twoHanded,
			Tags:        tags,
		})
	})
	return items
}

func collectBaseItems(root *xmlNode) []domain.ItemDefinition {
	cats := findChild(root, "categories")
	if cats == nil {
		if strings.EqualFold(root.XMLName.Local, "categories") {
			cats = root
		} else {
			return nil
		}
	}

	var items []domain.ItemDefinition
	for i := range cats.Children {
		cat := &cats.Children[i]
		if !strings.EqualFold(cat.XMLName.Local, "category") {
			continue
		}
		catID := strings.ToLower(strings.TrimSpace(attr(cat, "id")))
		if catID == "" {
			continue
		}
		tiers := categoryTiers(cat)

		switch catID {
		case domain.CategoryWeapons:
			walk(cat, func(n *xmlNode) {
				if !strings.EqualFold(n.XMLName.Local, "baseItem") {
					return
				}
				items = append(items, expandBaseItem(n, catID, domain.SlotMainHand, "", tiers)...)
			})
		case domain.CategoryArmor, domain.CategoryJewelry:
			for j := range cat.Children {
				slot := &cat.Children[j]
				if !strings.EqualFold(slot.XMLName.Local, "slot") {
					continue
				}
				slotID := strings.ToLower(strings.TrimSpace(attr(slot, "id")))
				equipSlot := equipSlotFor(catID, slotID)
				for k := range slot.Children {
					base := &slot.Children[k]
					if !strings.EqualFold(base.XMLName.Local, "baseItem") {
						continue
					}
					items = append(items, expandBaseItem(base, catID, equipSlot, slotID, tiers)...)
				}
			}
		default:
			walk(cat, func(n *xmlNode) {
				if !strings.EqualFold(n.XMLName.Local, "baseItem") {
					return
				}
				items = append(items, expandBaseItem(n, catID, domain.SlotBag, "", tiers)...)
			})
		}
	}
	return items
}

func expandBaseItem(n *xmlNode, category, equipSlot, slotID string, tiers []int) []domain.ItemDefinition {
	id := strings.TrimSpace(attr(n, "id"))
	name := strings.TrimSpace(attr(n, "name"))
	if id == "" || name == "" {
		return nil
	}

	twoHanded := false
	if category == domain.CategoryWeapons {
		twoHanded = parseInt(attr(n, "hands"), 1) >= 2
	}

	tags := baseItemTags(n, category, slotID)
	if twoHanded {
		tags = append(tags, "two-handed")
	}

	out := make([]domain.ItemDefinition, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, domain.ItemDefinition{
			ID:          fmt.Sprintf("%s_t%d", id, tier),
			Name:        name,
			Slot:        equipSlot,
			Tier:        tier,
			Category:    category,
			IsTwoHanded: twoHanded,
			Tags:        append([]string(nil), tags...),
		})
	}
	return out
}

// baseItemTags assembles tags from the raw tags attribute plus descriptive
// attributes, the category and the source slot id.
func baseItemTags(n *xmlNode, category, slotID string) []string {
	tags := splitTags(attr(n, "tags"))
	for _, key := range []string{"material", "weaponClass", "rangeType", "damageType", "magicType"} {
		if v := strings.TrimSpace(attr(n, key)); v != "" {
			tags = append(tags, v)
		}
	}
	if category != "" {
		tags = append(tags, category)
	}
	if slotID != "" {
		tags = append(tags, slotID)
	}
	return tags
}

func categoryTiers(cat *xmlNode) []int {
	applies := findChild(cat, "appliesQuality")
	if applies == nil {
		return []int{1}
	}
	var tiers []int
	for _, part := range strings.Split(attr(applies, "tierRefs"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if v, err := strconv.Atoi(part); err == nil {
			tiers = append(tiers, v)
		}
	}
	if len(tiers) == 0 {
		return []int{1}
	}
	return tiers
}

func equipSlotFor(category, slotID string) string {
	switch category {
	case domain.CategoryArmor:
		if mapped, ok := map[string]string{
			"footwear": "boots",
			"leggings": "legs",
			"belt":     "belt",
			"gloves":   "gloves",
			"bracers":  "bracers",
			"headwear": "head",
		}[slotID]; ok {
			return mapped
		}
	case domain.CategoryJewelry:
		if slotID == "ring" || slotID == "necklace" {
			return slotID
		}
	}
	if slotID == "" {
		return domain.SlotBag
	}
	return slotID
}

func inferCategory(slot string) string {
	switch strings.ToLower(strings.TrimSpace(slot)) {
	case "mainhand", "offhand", "twohand", "weapon", "bow", "staff", "dagger", "sword", "axe", "mace":
		return domain.CategoryWeapons
	case "head", "chest", "legs", "boots", "gloves", "belt", "bracers", "shoulders", "armor", "shield":
		return domain.CategoryArmor
	case "ring", "ring1", "ring2", "necklace", "jewelry":
		return domain.CategoryJewelry
	default:
		return domain.CategoryMisc
	}
}

// field reads an attribute first, then a child element of the same name.
func field(n *xmlNode, name string) string {
	if v := attr(n, name); v != "" {
		return v
	}
	return childText(n, name)
}

func attr(n *xmlNode, name string) string {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

func childText(n *xmlNode, name string) string {
	if c := findChild(n, name); c != nil {
		return strings.TrimSpace(c.Text)
	}
	return ""
}

func findChild(n *xmlNode, name string) *xmlNode {
	for i := range n.Children {
		if strings.EqualFold(n.Children[i].XMLName.Local, name) {
			return &n.Children[i]
		}
	}
	return nil
}

func walk(n *xmlNode, fn func(*xmlNode)) {
	fn(n)
	for i := range n.Children {
		walk(&n.Children[i], fn)
	}
}

func splitTags(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(v, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "t":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
