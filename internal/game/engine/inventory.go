package engine

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/sim"
)

// maxNesting bounds recursion into nested containers.
const maxNesting = 16

const handFlags = sim.FlagInLeftHand | sim.FlagInRightHand

// FindItem implements sim.Inventory.
func (e *Engine) FindItem(owner *sim.Object, id int) *sim.Object {
	return findItem(owner, id, 0)
}

func findItem(owner *sim.Object, id, depth int) *sim.Object {
	if owner == nil || depth > maxNesting {
		return nil
	}
	for _, entry := range owner.Inventory {
		if entry.Item.ID == id {
			return entry.Item
		}
		if found := findItem(entry.Item, id, depth+1); found != nil {
			return found
		}
	}
	return nil
}

func flagged(owner *sim.Object, f sim.Flags) *sim.Object {
	if owner == nil {
		return nil
	}
	for _, entry := range owner.Inventory {
		if entry.Item.Has(f) {
			return entry.Item
		}
	}
	return nil
}

// LeftHand implements sim.Inventory.
func (e *Engine) LeftHand(owner *sim.Object) *sim.Object {
	return flagged(owner, sim.FlagInLeftHand)
}

// RightHand implements sim.Inventory.
func (e *Engine) RightHand(owner *sim.Object) *sim.Object {
	return flagged(owner, sim.FlagInRightHand)
}

// Worn implements sim.Inventory.
func (e *Engine) Worn(owner *sim.Object) *sim.Object {
	return flagged(owner, sim.FlagWorn)
}

// entryIndex returns the position of item among owner's top-level entries.
func entryIndex(owner, item *sim.Object) int {
	if owner == nil || item == nil {
		return -1
	}
	for i, entry := range owner.Inventory {
		if entry.Item == item {
			return i
		}
	}
	return -1
}

// Wield implements sim.Inventory. Armor is worn regardless of hand.
func (e *Engine) Wield(owner, item *sim.Object, hand sim.Hand) error {
	if entryIndex(owner, item) < 0 {
		return rejected("item is not carried")
	}
	if e.ItemType(item) == sim.ItemArmor {
		if worn := e.Worn(owner); worn != nil {
			worn.Flags &^= sim.FlagWorn
		}
		item.Flags &^= handFlags
		item.Flags |= sim.FlagWorn
		return nil
	}
	flag := sim.FlagInLeftHand
	if hand == sim.HandRight {
		flag = sim.FlagInRightHand
	}
	if held := flagged(owner, flag); held != nil {
		held.Flags &^= flag
	}
	item.Flags &^= handFlags | sim.FlagWorn
	item.Flags |= flag
	e.logger.Debug("item wielded", zap.Int("item", item.ID), zap.Int("hand", int(hand)))
	return nil
}

// Unwield implements sim.Inventory. An empty hand is not an error.
func (e *Engine) Unwield(owner *sim.Object, hand sim.Hand) error {
	if owner == nil {
		return rejected("no owner")
	}
	flag := sim.FlagInLeftHand
	if hand == sim.HandRight {
		flag = sim.FlagInRightHand
	}
	if held := flagged(owner, flag); held != nil {
		held.Flags &^= flag
	}
	return nil
}

// RefreshArmor implements sim.Inventory.
func (e *Engine) RefreshArmor(owner, removed *sim.Object) {
	if owner == e.store.Player() {
		e.RefreshArmorClass()
	}
	if removed != nil {
		e.logger.Debug("armor removed", zap.Int("owner", owner.ID), zap.Int("item", removed.ID))
	}
}

// UseItem implements sim.Inventory. Only drugs can be used from the
// inventory.
func (e *Engine) UseItem(owner, item *sim.Object) error {
	i := entryIndex(owner, item)
	if i < 0 {
		return rejected("item is not carried")
	}
	if e.ItemType(item) != sim.ItemDrug || owner.Critter == nil {
		return rejected("item cannot be used")
	}
	spec, _ := e.store.Spec(item.ID)
	healed := 0
	if spec != nil {
		healed = e.heal(owner, spec.Heal)
	}
	e.consume(owner, i)
	e.display("You use the %s and heal %d hit points.", item.Name, healed)
	return nil
}

// consume removes one unit from the entry at index i.
func (e *Engine) consume(owner *sim.Object, i int) {
	owner.Inventory[i].Quantity--
	if owner.Inventory[i].Quantity <= 0 {
		owner.Inventory = append(owner.Inventory[:i], owner.Inventory[i+1:]...)
	}
}

// Drop implements sim.Inventory. The whole stack lands on the owner's tile.
func (e *Engine) Drop(owner, item *sim.Object) error {
	i := entryIndex(owner, item)
	if i < 0 {
		return rejected("item is not carried")
	}
	owner.Inventory = append(owner.Inventory[:i], owner.Inventory[i+1:]...)
	item.Flags &^= handFlags | sim.FlagWorn
	e.store.Place(item, owner.Tile, owner.Elevation)
	e.display("You drop %s.", item.Name)
	return nil
}

// ItemType implements sim.Inventory.
func (e *Engine) ItemType(item *sim.Object) sim.ItemType {
	if item == nil || item.Type() != sim.TypeItem {
		return sim.ItemMisc
	}
	if proto, ok := e.store.Proto(item.PID); ok {
		return proto.ItemType
	}
	return sim.ItemMisc
}

// TryReload implements sim.Inventory. It fills the magazine from the first
// matching ammo stack.
func (e *Engine) TryReload(owner, weapon *sim.Object) error {
	spec := e.weaponSpec(weapon)
	if spec == nil || spec.Capacity <= 0 {
		return rejected("weapon takes no ammo")
	}
	loaded := e.store.Ammo(weapon.ID)
	if loaded >= spec.Capacity {
		return rejected("weapon is full")
	}
	for i, entry := range owner.Inventory {
		if e.ItemType(entry.Item) != sim.ItemAmmo {
			continue
		}
		if spec.AmmoPID != 0 && entry.Item.PID != spec.AmmoPID {
			continue
		}
		rounds := min(spec.Capacity-loaded, entry.Quantity)
		e.store.SetAmmo(weapon.ID, loaded+rounds)
		owner.Inventory[i].Quantity -= rounds
		if owner.Inventory[i].Quantity <= 0 {
			owner.Inventory = append(owner.Inventory[:i], owner.Inventory[i+1:]...)
		}
		e.display("You reload the %s.", weapon.Name)
		return nil
	}
	return rejected("no ammo")
}

// ActionCost implements sim.Inventory.
func (e *Engine) ActionCost(owner *sim.Object, mode sim.HitMode) int {
	spec := e.weaponSpec(e.weaponFor(owner, mode))
	switch mode {
	case sim.HitModeLeftReload, sim.HitModeRightReload:
		if spec != nil && spec.ReloadAP > 0 {
			return spec.ReloadAP
		}
		return defaultReloadAP
	case sim.HitModeLeftPrimary, sim.HitModeRightPrimary:
		if spec == nil {
			return punchAPCost
		}
		if spec.APCost > 0 {
			return spec.APCost
		}
		return defaultWeaponAP
	}
	return punchAPCost
}
