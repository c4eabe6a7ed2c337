package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/simbridge/internal/sim"
	"github.com/cory-johannsen/simbridge/internal/testutil"
)

func TestInterface_ActiveHand(t *testing.T) {
	e := testutil.NewArena(t)
	item, err := e.ActiveItem()
	require.NoError(t, err)
	assert.Equal(t, 10, item.ID)
	assert.True(t, e.ActiveHandIsRight())
	mode, aiming, err := e.CurrentAttack()
	require.NoError(t, err)
	assert.Equal(t, sim.HitModeRightPrimary, mode)
	assert.False(t, aiming)

	require.NoError(t, e.ToggleItems())
	item, err = e.ActiveItem()
	require.NoError(t, err)
	assert.Nil(t, item)
	mode, _, _ = e.CurrentAttack()
	assert.Equal(t, sim.HitModePunch, mode)
}

func TestTryReload(t *testing.T) {
	e := testutil.NewArena(t)
	player := e.Player()
	pistol := object(t, e, 10)

	require.NoError(t, e.TryReload(player, pistol))
	assert.Equal(t, 6, e.Store().Ammo(10))
	assert.Equal(t, 5, player.Inventory[1].Quantity)
	assert.ErrorIs(t, e.TryReload(player, pistol), sim.ErrRejected, "magazine is full")
	assert.ErrorIs(t, e.TryReload(player, object(t, e, 12)), sim.ErrRejected, "not a weapon")
}

func TestActionCost(t *testing.T) {
	e := testutil.NewArena(t)
	player := e.Player()
	assert.Equal(t, 4, e.ActionCost(player, sim.HitModeRightPrimary))
	assert.Equal(t, 2, e.ActionCost(player, sim.HitModeRightReload))
	assert.Equal(t, 3, e.ActionCost(player, sim.HitModeLeftPrimary))
	assert.Equal(t, 3, e.ActionCost(player, sim.HitModePunch))
}

func TestWield_ArmorAndHands(t *testing.T) {
	e := testutil.NewArena(t)
	player := e.Player()
	jacket := object(t, e, 13)
	stimpak := object(t, e, 12)
	bullets := object(t, e, 11)

	require.NoError(t, e.Wield(player, jacket, sim.HandLeft))
	assert.Same(t, jacket, e.Worn(player))
	assert.Nil(t, e.LeftHand(player))
	e.RefreshArmorClass()
	_, _, ac := e.HUD()
	assert.Equal(t, 11, ac)

	require.NoError(t, e.Wield(player, stimpak, sim.HandLeft))
	require.NoError(t, e.Wield(player, bullets, sim.HandLeft))
	assert.Same(t, bullets, e.LeftHand(player))
	assert.False(t, stimpak.Has(sim.FlagInLeftHand))

	require.NoError(t, e.Unwield(player, sim.HandRight))
	assert.Nil(t, e.RightHand(player))
	assert.NoError(t, e.Unwield(player, sim.HandRight), "empty hand")

	assert.ErrorIs(t, e.Wield(player, object(t, e, 105), sim.HandLeft), sim.ErrRejected, "not carried")
}

func TestUseItem_Stimpak(t *testing.T) {
	e := testutil.NewArena(t)
	player := e.Player()
	stimpak := object(t, e, 12)

	require.NoError(t, e.UseItem(player, stimpak))
	assert.Equal(t, 30, player.Critter.HitPoints)
	assert.Equal(t, 1, player.Inventory[2].Quantity)

	require.NoError(t, e.UseItem(player, stimpak))
	assert.Equal(t, 32, player.Critter.HitPoints)
	assert.Nil(t, e.FindItem(player, 12))

	assert.ErrorIs(t, e.UseItem(player, object(t, e, 10)), sim.ErrRejected)
}

func TestDrop_PlacesStackOnOwnerTile(t *testing.T) {
	e := testutil.NewArena(t)
	player := e.Player()
	pistol := object(t, e, 10)

	require.NoError(t, e.Drop(player, pistol))
	assert.Nil(t, e.FindItem(player, 10))
	assert.True(t, e.Store().IsPlaced(10))
	assert.Equal(t, player.Tile, pistol.Tile)
	assert.False(t, pistol.Has(sim.FlagInRightHand))
	assert.ErrorIs(t, e.Drop(player, pistol), sim.ErrRejected)
}

func TestFindItem_Nested(t *testing.T) {
	e := testutil.NewArena(t)
	locker := object(t, e, 107)
	assert.Equal(t, 108, e.FindItem(locker, 108).ID)
	assert.Nil(t, e.FindItem(e.Player(), 108))
	assert.Nil(t, e.FindItem(nil, 108))
}

func TestItemType(t *testing.T) {
	e := testutil.NewArena(t)
	assert.Equal(t, sim.ItemWeapon, e.ItemType(object(t, e, 10)))
	assert.Equal(t, sim.ItemAmmo, e.ItemType(object(t, e, 11)))
	assert.Equal(t, sim.ItemArmor, e.ItemType(object(t, e, 13)))
	assert.Equal(t, sim.ItemMisc, e.ItemType(object(t, e, 100)))
}
