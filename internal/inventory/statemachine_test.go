package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

func item(id string, twoHanded bool) domain.ItemInstance {
	return domain.ItemInstance{
		ID:          id,
		Name:        id,
		Category:    domain.CategoryWeapons,
		IsTwoHanded: twoHanded,
	}
}

func TestAddAndDrop(t *testing.T) {
	inv := domain.NewInventory("u1")

	Add(inv, item("dagger", false))
	Add(inv, item("dagger", false))
	require.Len(t, inv.Bag, 2)

	assert.True(t, Drop(inv, "dagger"))
	assert.Len(t, inv.Bag, 1, "only the first match is removed")

	assert.False(t, Drop(inv, "missing"), "missing item is a no-op")
	assert.Len(t, inv.Bag, 1)
}

func TestEquipIntoEmptySlot(t *testing.T) {
	inv := domain.NewInventory("u1")
	Add(inv, item("sword", false))

	require.True(t, Equip(inv, "sword", domain.SlotMainHand))
	assert.Empty(t, inv.Bag)
	assert.Equal(t, "sword", inv.Equipment[domain.SlotMainHand].ID)
}

func TestEquipMissingItemNoOp(t *testing.T) {
	inv := domain.NewInventory("u1")

	assert.False(t, Equip(inv, "ghost", domain.SlotMainHand))
	assert.Empty(t, inv.Equipment)
}

func TestEquipEvacuatesSlotOccupant(t *testing.T) {
	inv := domain.NewInventory("u1")
	Add(inv, item("sword", false))
	Add(inv, item("axe", false))

	require.True(t, Equip(inv, "sword", domain.SlotMainHand))
	require.True(t, Equip(inv, "axe", domain.SlotMainHand))

	assert.Equal(t, "axe", inv.Equipment[domain.SlotMainHand].ID)
	require.Len(t, inv.Bag, 1)
	assert.Equal(t, "sword", inv.Bag[0].ID, "displaced occupant returns to bag")
}

// Equipping a two-handed weapon clears both hand slots.
func TestEquipTwoHandedEvacuatesBothHands(t *testing.T) {
	inv := domain.NewInventory("u1")
	Add(inv, item("sword", false))
	Add(inv, item("shield", false))
	Add(inv, item("greatsword", true))
	require.True(t, Equip(inv, "sword", domain.SlotMainHand))
	require.True(t, Equip(inv, "shield", domain.SlotOffHand))

	require.True(t, Equip(inv, "greatsword", domain.SlotMainHand))

	assert.Equal(t, "greatsword", inv.Equipment[domain.SlotMainHand].ID)
	_, offHandOccupied := inv.Equipment[domain.SlotOffHand]
	assert.False(t, offHandOccupied)

	ids := bagIDs(inv)
	assert.ElementsMatch(t, []string{"sword", "shield"}, ids)
}

// A two-handed weapon equipped via the off hand still lands under mainhand.
func TestEquipTwoHandedIntoOffHandStoresMainHand(t *testing.T) {
	inv := domain.NewInventory("u1")
	Add(inv, item("sword", false))
	Add(inv, item("greatsword", true))
	require.True(t, Equip(inv, "sword", domain.SlotMainHand))

	require.True(t, Equip(inv, "greatsword", domain.SlotOffHand))

	assert.Equal(t, "greatsword", inv.Equipment[domain.SlotMainHand].ID)
	_, offHandOccupied := inv.Equipment[domain.SlotOffHand]
	assert.False(t, offHandOccupied)
	assert.ElementsMatch(t, []string{"sword"}, bagIDs(inv))
}

// Equipping a one-handed item into the off hand displaces a two-handed
// weapon held in the main hand.
func TestEquipOneHandedDisplacesTwoHanded(t *testing.T) {
	inv := domain.NewInventory("u1")
	Add(inv, item("greatsword", true))
	Add(inv, item("shield", false))
	require.True(t, Equip(inv, "greatsword", domain.SlotMainHand))

	require.True(t, Equip(inv, "shield", domain.SlotOffHand))

	assert.Equal(t, "shield", inv.Equipment[domain.SlotOffHand].ID)
	_, mainHandOccupied := inv.Equipment[domain.SlotMainHand]
	assert.False(t, mainHandOccupied)
	assert.ElementsMatch(t, []string{"greatsword"}, bagIDs(inv))
}

func TestEquipNonHandSlotLeavesTwoHanded(t *testing.T) {
	inv := domain.NewInventory("u1")
	Add(inv, item("greatsword", true))
	Add(inv, item("helm", false))
	require.True(t, Equip(inv, "greatsword", domain.SlotMainHand))

	require.True(t, Equip(inv, "helm", "head"))

	assert.Equal(t, "greatsword", inv.Equipment[domain.SlotMainHand].ID)
	assert.Equal(t, "helm", inv.Equipment["head"].ID)
}

func TestUnequip(t *testing.T) {
	inv := domain.NewInventory("u1")
	Add(inv, item("sword", false))
	require.True(t, Equip(inv, "sword", domain.SlotMainHand))

	assert.True(t, Unequip(inv, domain.SlotMainHand))
	assert.Empty(t, inv.Equipment)
	assert.ElementsMatch(t, []string{"sword"}, bagIDs(inv))

	assert.False(t, Unequip(inv, domain.SlotMainHand), "empty slot is a no-op")
}

// No sequence of operations may duplicate or lose an instance.
func TestConservationAcrossSequence(t *testing.T) {
	inv := domain.NewInventory("u1")
	Add(inv, item("sword", false))
	Add(inv, item("shield", false))
	Add(inv, item("greatsword", true))

	Equip(inv, "sword", domain.SlotMainHand)
	Equip(inv, "shield", domain.SlotOffHand)
	Equip(inv, "greatsword", domain.SlotOffHand)
	Unequip(inv, domain.SlotOffHand)
	Equip(inv, "sword", domain.SlotMainHand)

	total := len(inv.Bag) + len(inv.Equipment)
	assert.Equal(t, 3, total)
}

func bagIDs(inv *domain.Inventory) []string {
	ids := make([]string, 0, len(inv.Bag))
	for _, it := range inv.Bag {
		ids = append(ids, it.ID)
	}
	return ids
}
