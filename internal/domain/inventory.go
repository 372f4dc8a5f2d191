package domain

// Inventory holds one user's items within a room: an unordered bag plus a
// map of named equipment slots with at most one occupant each. An item
// instance appears in at most one place across bag and equipment.
type Inventory struct {
	UserID    string                  `json:"user_id"`
	Bag       []ItemInstance          `json:"bag"`
	Equipment map[string]ItemInstance `json:"equipment"`
}

// NewInventory creates an empty inventory for a user.
func NewInventory(userID string) *Inventory {
	return &Inventory{
		UserID:    userID,
		Bag:       []ItemInstance{},
		Equipment: map[string]ItemInstance{},
	}
}

// Normalize repairs nil collections after JSON decoding.
func (inv *Inventory) Normalize() {
	if inv.Bag == nil {
		inv.Bag = []ItemInstance{}
	}
	if inv.Equipment == nil {
		inv.Equipment = map[string]ItemInstance{}
	}
}

// FindBagItem returns the index of the first bag instance with the given
// item id, or -1 when absent.
func (inv *Inventory) FindBagItem(itemID string) int {
	for i, it := range inv.Bag {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}
