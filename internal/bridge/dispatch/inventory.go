package dispatch

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/simbridge/internal/bridge/command"
	"github.com/cory-johannsen/simbridge/internal/bridge/query"
	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// Equipment slot names.
const (
	slotLeftHand  = "left_hand"
	slotRightHand = "right_hand"
	slotArmor     = "armor"
)

func (d *Dispatcher) handleInventory(context.Context, command.ParseResult) Response {
	return ok(query.InventoryReport(d.sim))
}

// playerItem resolves an item id argument against the avatar's inventory.
// On failure it returns the error token instead.
func (d *Dispatcher) playerItem(arg string) (player, item *sim.Object, failure string) {
	id, isInt := textutil.ParseInt(arg)
	if !isInt {
		return nil, nil, "invalid_item_id"
	}
	player = d.sim.Player()
	if player == nil {
		return nil, nil, "item_not_found"
	}
	item = d.sim.FindItem(player, id)
	if item == nil {
		return nil, nil, "item_not_found"
	}
	return player, item, ""
}

func (d *Dispatcher) handleEquip(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 2 {
		return fail("usage=equip <item_id> <slot>")
	}
	player, item, failure := d.playerItem(req.Arg(0))
	if failure != "" {
		return fail(failure)
	}

	var err error
	switch textutil.Lower(req.Arg(1)) {
	case slotLeftHand:
		err = d.sim.Wield(player, item, sim.HandLeft)
	case slotRightHand:
		err = d.sim.Wield(player, item, sim.HandRight)
	case slotArmor:
		if d.sim.ItemType(item) != sim.ItemArmor {
			return fail("item_is_not_armor")
		}
		err = d.sim.Wield(player, item, sim.HandLeft)
	default:
		return fail("invalid_slot")
	}
	if err != nil {
		return fail("equip_failed")
	}
	d.sim.RefreshItems()
	d.sim.RefreshArmorClass()
	return ok("equipped=1")
}

func (d *Dispatcher) handleUnequip(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=unequip <slot>")
	}
	player := d.sim.Player()
	if player == nil {
		return fail("player_unavailable")
	}

	switch textutil.Lower(req.Arg(0)) {
	case slotLeftHand:
		if err := d.sim.Unwield(player, sim.HandLeft); err != nil {
			return fail("unequip_failed")
		}
	case slotRightHand:
		if err := d.sim.Unwield(player, sim.HandRight); err != nil {
			return fail("unequip_failed")
		}
	case slotArmor:
		armor := d.sim.Worn(player)
		if armor == nil {
			return fail("no_armor_equipped")
		}
		armor.Flags &^= sim.FlagWorn
		d.sim.RefreshArmor(player, armor)
	default:
		return fail("invalid_slot")
	}
	d.sim.RefreshItems()
	d.sim.RefreshArmorClass()
	return ok("unequipped=1")
}

func (d *Dispatcher) handleUse(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=use <item_id>")
	}
	player, item, failure := d.playerItem(req.Arg(0))
	if failure != "" {
		return fail(failure)
	}
	if err := d.sim.UseItem(player, item); err != nil {
		return fail("use_failed")
	}
	d.sim.RefreshItems()
	return ok("used=1")
}

func (d *Dispatcher) handleDrop(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=drop <item_id>")
	}
	player, item, failure := d.playerItem(req.Arg(0))
	if failure != "" {
		return fail(failure)
	}
	if err := d.sim.Drop(player, item); err != nil {
		return fail("drop_failed")
	}
	d.sim.RefreshItems()
	return ok("dropped=1")
}

// handleExamine describes a world object or, failing that, an item the
// avatar carries.
func (d *Dispatcher) handleExamine(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=examine <item_id>")
	}
	id, isInt := textutil.ParseInt(req.Arg(0))
	if !isInt {
		return fail("invalid_item_id")
	}
	obj := query.FindAnyObject(d.sim, id)
	if obj == nil {
		return fail("object_not_found")
	}
	description := obj.Description
	if description == "" {
		if proto, found := d.sim.Proto(obj.PID); found {
			description = proto.Description
		}
	}
	return ok(fmt.Sprintf("name=%s\ndescription=%s\n",
		textutil.Escape(obj.Name),
		textutil.Escape(description),
	))
}
