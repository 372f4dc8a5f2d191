package session

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
	"github.com/osse101/ArcaneTable_Go/internal/inventory"
	"github.com/osse101/ArcaneTable_Go/internal/loot"
	"github.com/osse101/ArcaneTable_Go/internal/metrics"
)

func (s *Service) handleLootGenerate(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.LootGeneratePayload
	if !decode(raw, &p) {
		return nil
	}

	cfg := domain.LootConfig{}
	if p.Config != nil {
		cfg = *p.Config
	}

	var items []domain.ItemInstance
	var genErr error
	if len(p.Items) > 0 {
		// DM hand-built bag: catalog backfill plus the same affix rules a
		// generated bag would get.
		items = make([]domain.ItemInstance, 0, len(p.Items))
		for _, it := range p.Items {
			items = append(items, s.catalog.Hydrate(it))
		}
		s.withRNG(func(rng *rand.Rand) {
			loot.ApplyCategoryProps(items, cfg.CategoryProp, rng)
		})
	} else {
		s.withRNG(func(rng *rand.Rand) {
			items, genErr = s.alloc.Generate(cfg, rng)
		})
		if genErr != nil {
			return genErr
		}
	}

	bagType := domain.BagTypeCommunity
	if p.BagType == domain.BagTypePlayer || p.TargetUserID != "" {
		bagType = domain.BagTypePlayer
	}

	bag := &domain.LootBag{
		BagID:        shortID(),
		Type:         bagType,
		Items:        items,
		CreatedAt:    time.Now(),
		CreatedBy:    cs.userID,
		TargetUserID: p.TargetUserID,
		Config:       cfg,
	}

	room := cs.live.Room
	room.Mu.Lock()
	bag.Name = s.bagName(cs.live, room, p, cfg)
	room.LootBags[bag.BagID] = bag
	s.persistLootBag(room.RoomID, bag)
	s.persistRoom(room)
	room.Mu.Unlock()

	source := cfg.Source
	if source == "" {
		source = domain.SourceMob
	}
	metrics.LootBagsGenerated.WithLabelValues(source).Inc()

	s.broadcastLoot(cs.live)
	return nil
}

// bagName resolves the display name: explicit name, then target-based, then
// a numbered default. Caller holds the room mutex.
func (s *Service) bagName(live *Live, room *domain.Room, p domain.LootGeneratePayload, cfg domain.LootConfig) string {
	if p.BagName != "" {
		return p.BagName
	}
	if cfg.BagName != "" {
		return cfg.BagName
	}
	if p.TargetUserID != "" {
		target := p.TargetUserID
		if name, ok := live.Hub.NameOf(p.TargetUserID); ok {
			target = name
		}
		return fmt.Sprintf("Loot for %s", target)
	}
	room.LootBagSeq++
	return fmt.Sprintf("Loot Bag %d", room.LootBagSeq)
}

func (s *Service) handleLootDistribute(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.LootDistributePayload
	if !decode(raw, &p) {
		return nil
	}

	room := cs.live.Room
	room.Mu.Lock()
	bag, ok := room.LootBags[p.BagID]
	if !ok {
		room.Mu.Unlock()
		return nil
	}
	item, ok := bag.RemoveItem(p.ItemID)
	if !ok {
		room.Mu.Unlock()
		return nil
	}

	inv := room.InventoryFor(p.TargetUserID)
	inventory.Add(inv, item)

	for _, id := range room.PruneEmptyLootBags() {
		s.deleteLootBag(room.RoomID, id)
	}
	if _, ok := room.LootBags[bag.BagID]; ok {
		s.persistLootBag(room.RoomID, bag)
	}
	s.persistInventory(room.RoomID, inv)
	invSnap := s.inventorySnapshot(room)
	room.Mu.Unlock()

	cs.live.Hub.Broadcast(invSnap, nil)
	s.broadcastLoot(cs.live)
	return nil
}

func (s *Service) handleLootDiscard(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.LootDiscardPayload
	if !decode(raw, &p) {
		return nil
	}

	room := cs.live.Room
	room.Mu.Lock()
	bag, ok := room.LootBags[p.BagID]
	if !ok {
		room.Mu.Unlock()
		return nil
	}
	if _, ok := bag.RemoveItem(p.ItemID); !ok {
		room.Mu.Unlock()
		return nil
	}

	for _, id := range room.PruneEmptyLootBags() {
		s.deleteLootBag(room.RoomID, id)
	}
	if _, ok := room.LootBags[bag.BagID]; ok {
		s.persistLootBag(room.RoomID, bag)
	}
	room.Mu.Unlock()

	s.broadcastLoot(cs.live)
	return nil
}

func (s *Service) handleLootSnapshot(ctx context.Context, cs *clientSession, raw []byte) error {
	room := cs.live.Room
	room.Mu.Lock()
	msg := lootSnapshotFor(room, MemberInfo{UserID: cs.userID, Name: cs.name, Role: cs.role})
	room.Mu.Unlock()

	return cs.conn.Send(msg)
}

func (s *Service) handleLootSetVisibility(ctx context.Context, cs *clientSession, raw []byte) error {
	var p domain.LootSetVisibilityPayload
	if !decode(raw, &p) {
		return nil
	}
	visible := true
	if p.Visible != nil {
		visible = *p.Visible
	}

	room := cs.live.Room
	room.Mu.Lock()
	bag, ok := room.LootBags[p.BagID]
	if !ok {
		room.Mu.Unlock()
		return nil
	}
	bag.VisibleToPlayers = visible
	s.persistLootBag(room.RoomID, bag)
	room.Mu.Unlock()

	s.broadcastLoot(cs.live)
	return nil
}

// broadcastLoot recomputes the viewer-specific loot projection for every
// seated connection.
func (s *Service) broadcastLoot(live *Live) {
	live.Hub.BroadcastEach(func(info MemberInfo) any {
		live.Room.Mu.Lock()
		msg := lootSnapshotFor(live.Room, info)
		live.Room.Mu.Unlock()
		return msg
	})
}
