package session

import (
	"sort"
	"time"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

// LootDebugConfig is the DM-only diagnostic block attached to projected
// bags: the affix rules in force plus which config fields were set.
type LootDebugConfig struct {
	CategoryProps map[string]domain.CategoryProps `json:"categoryProps,omitempty"`
	ConfigKeys    []string                        `json:"configKeys,omitempty"`
}

// LootBagView is the wire projection of one loot bag for one viewer. The
// raw generation config never leaves the server; DMs get the debug block
// instead.
type LootBagView struct {
	BagID            string                `json:"bag_id"`
	Name             string                `json:"name"`
	Type             string                `json:"type"`
	Items            []domain.ItemInstance `json:"items"`
	CreatedAt        time.Time             `json:"created_at"`
	CreatedBy        string                `json:"created_by"`
	TargetUserID     string                `json:"target_user_id,omitempty"`
	VisibleToPlayers bool                  `json:"visible_to_players"`
	DebugConfig      *LootDebugConfig      `json:"debug_config,omitempty"`
}

// ProjectLootBags computes the bags a viewer may see, oldest first. The DM
// sees every bag with the debug block; players see only bags flagged
// visible, and player-typed bags only when untargeted or targeted at them.
// Caller holds the room mutex.
func ProjectLootBags(room *domain.Room, viewer MemberInfo) []LootBagView {
	views := make([]LootBagView, 0, len(room.LootBags))
	for _, bag := range room.LootBags {
		if !bagVisibleTo(bag, viewer) {
			continue
		}
		view := LootBagView{
			BagID:            bag.BagID,
			Name:             bag.Name,
			Type:             bag.Type,
			Items:            append([]domain.ItemInstance(nil), bag.Items...),
			CreatedAt:        bag.CreatedAt,
			CreatedBy:        bag.CreatedBy,
			TargetUserID:     bag.TargetUserID,
			VisibleToPlayers: bag.VisibleToPlayers,
		}
		if viewer.Role == domain.RoleDM {
			view.DebugConfig = &LootDebugConfig{
				CategoryProps: bag.Config.CategoryProp,
				ConfigKeys:    configKeys(bag.Config),
			}
		}
		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].BagID < views[j].BagID
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	return views
}

func bagVisibleTo(bag *domain.LootBag, viewer MemberInfo) bool {
	if viewer.Role == domain.RoleDM {
		return true
	}
	if !bag.VisibleToPlayers {
		return false
	}
	if bag.Type == domain.BagTypePlayer && bag.TargetUserID != "" && bag.TargetUserID != viewer.UserID {
		return false
	}
	return true
}

// configKeys lists which generation config fields were explicitly set,
// sorted for stable output.
func configKeys(cfg domain.LootConfig) []string {
	var keys []string
	if cfg.Source != "" {
		keys = append(keys, "source")
	}
	if cfg.Count != 0 {
		keys = append(keys, "count")
	}
	if cfg.TierMin != 0 {
		keys = append(keys, "tierMin")
	}
	if cfg.TierMax != nil {
		keys = append(keys, "tierMax")
	}
	if cfg.AllowMagic != nil {
		keys = append(keys, "allowMagic")
	}
	if cfg.AddElemental {
		keys = append(keys, "addElemental")
	}
	if len(cfg.Categories) > 0 {
		keys = append(keys, "categories")
	}
	if len(cfg.Slots) > 0 {
		keys = append(keys, "slots")
	}
	if len(cfg.Tags) > 0 {
		keys = append(keys, "tags")
	}
	if len(cfg.CategoryProp) > 0 {
		keys = append(keys, "categoryProps")
	}
	if cfg.BagName != "" {
		keys = append(keys, "bagName")
	}
	sort.Strings(keys)
	return keys
}
