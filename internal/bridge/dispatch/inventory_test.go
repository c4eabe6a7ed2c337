package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/simbridge/internal/bridge/query"
	"github.com/cory-johannsen/simbridge/internal/game/world"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

func TestEquip(t *testing.T) {
	e, d := newArena(t)
	player := e.Player()

	assert.Equal(t, "equipped=1", requireOK(t, run(d, "equip 10 LEFT_HAND")))
	left := e.LeftHand(player)
	require.NotNil(t, left)
	assert.Equal(t, 10, left.ID)
	assert.Nil(t, e.RightHand(player))

	assert.Equal(t, "equipped=1", requireOK(t, run(d, "equip 13 armor")))
	worn := e.Worn(player)
	require.NotNil(t, worn)
	assert.Equal(t, 13, worn.ID)
	assert.True(t, worn.Has(sim.FlagWorn))
}

func TestEquip_Invalid(t *testing.T) {
	_, d := newArena(t)
	assertFail(t, run(d, "equip 10"), "usage=equip <item_id> <slot>")
	assertFail(t, run(d, "equip pistol left_hand"), "invalid_item_id")
	assertFail(t, run(d, "equip 999 left_hand"), "item_not_found")
	assertFail(t, run(d, "equip 105 left_hand"), "item_not_found")
	assertFail(t, run(d, "equip 11 armor"), "item_is_not_armor")
	assertFail(t, run(d, "equip 10 feet"), "invalid_slot")
}

func TestUnequip(t *testing.T) {
	e, d := newArena(t)
	player := e.Player()

	assert.Equal(t, "unequipped=1", requireOK(t, run(d, "unequip right_hand")))
	assert.Nil(t, e.RightHand(player))
	assert.Equal(t, "unequipped=1", requireOK(t, run(d, "unequip right_hand")))

	assertFail(t, run(d, "unequip armor"), "no_armor_equipped")
	requireOK(t, run(d, "equip 13 armor"))
	assert.Equal(t, "unequipped=1", requireOK(t, run(d, "unequip armor")))
	assert.Nil(t, e.Worn(player))

	assertFail(t, run(d, "unequip"), "usage=unequip <slot>")
	assertFail(t, run(d, "unequip hat"), "invalid_slot")
}

func TestUse(t *testing.T) {
	e, d := newArena(t, func(sc *world.Scenario) {
		sc.Player.Critter.HitPoints = 5
	})
	player := e.Player()

	assert.Equal(t, "used=1", requireOK(t, run(d, "use 12")))
	assert.Equal(t, 15, player.Critter.HitPoints)
	requireOK(t, run(d, "use 12"))
	assert.Nil(t, e.FindItem(player, 12))

	assertFail(t, run(d, "use 13"), "use_failed")
	assertFail(t, run(d, "use"), "usage=use <item_id>")
	assertFail(t, run(d, "use 12"), "item_not_found")
}

func TestDrop(t *testing.T) {
	e, d := newArena(t)
	player := e.Player()

	assert.Equal(t, "dropped=1", requireOK(t, run(d, "drop 11")))
	assert.Nil(t, e.FindItem(player, 11))
	bullets := query.FindWorldObject(e, 11)
	require.NotNil(t, bullets)
	assert.Equal(t, player.Tile, bullets.Tile)

	assertFail(t, run(d, "drop 11"), "item_not_found")
	assertFail(t, run(d, "drop"), "usage=drop <item_id>")
}

func TestExamine(t *testing.T) {
	_, d := newArena(t)
	assert.Equal(t, "name=Pistol\ndescription=A trusty sidearm.\n", requireOK(t, run(d, "examine 10")))
	assert.Equal(t, "name=Rat\ndescription=\n", requireOK(t, run(d, "examine 100")))
	assert.Equal(t, "name=Bullets\ndescription=Standard rounds.\n", requireOK(t, run(d, "examine 11")),
		"an item without its own text falls back to the item description")

	assertFail(t, run(d, "examine"), "usage=examine <item_id>")
	assertFail(t, run(d, "examine it"), "invalid_item_id")
	assertFail(t, run(d, "examine 999"), "object_not_found")
}

func TestInventoryAlias(t *testing.T) {
	e, d := newArena(t)
	assert.Equal(t, query.InventoryReport(e), requireOK(t, run(d, "inv")))
}
