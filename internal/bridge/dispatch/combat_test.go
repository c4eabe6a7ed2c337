package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/simbridge/internal/game/engine"
	"github.com/cory-johannsen/simbridge/internal/sim"
	"github.com/cory-johannsen/simbridge/internal/testutil"
)

// otherTurnSim reports that nobody's turn is the avatar's.
type otherTurnSim struct {
	*engine.Engine
}

func (otherTurnSim) WhoseTurn() *sim.Object { return nil }

func pistolRounds(t *testing.T, e *engine.Engine) int {
	t.Helper()
	return e.Store().Ammo(10)
}

func TestCombatFlow(t *testing.T) {
	e, d := newArena(t)
	player := e.Player()

	assert.Equal(t, "attack_started=1", requireOK(t, run(d, "attack 100")))
	require.True(t, e.InCombat())
	assert.Equal(t, player, e.WhoseTurn())
	assert.Equal(t, 4, player.Critter.ActionPoints)
	assert.Equal(t, 0, pistolRounds(t, e))

	rat, found := e.Store().Get(100)
	require.True(t, found)
	assert.Equal(t, 9, rat.Critter.HitPoints)

	assertFail(t, run(d, "attack 100 head"), "attack_failed")

	assert.Equal(t, "reloaded=1", requireOK(t, run(d, "reload")))
	assert.Equal(t, 6, pistolRounds(t, e))
	assert.Equal(t, 2, player.Critter.ActionPoints)

	assertFail(t, run(d, "attack 100 head"), "attack_failed")

	assert.Equal(t, "turn_ended=1", requireOK(t, run(d, "end_turn")))
	assert.Equal(t, player, e.WhoseTurn())
	assert.Equal(t, e.StatLevel(player, sim.StatMaxActionPoints), player.Critter.ActionPoints)
	assert.Less(t, player.Critter.HitPoints, 20)

	assert.Equal(t, "attack_started=1", requireOK(t, run(d, "attack 100 torso")))
	assert.Equal(t, 5, pistolRounds(t, e))

	assert.Equal(t, "flee_attempted=1", requireOK(t, run(d, "flee")))
	assert.False(t, e.InCombat())
	assertFail(t, run(d, "flee"), "not_in_combat")
	assertFail(t, run(d, "end_turn"), "not_in_combat")
}

func TestAttack_AimedOutsideCombatOnlyStartsCombat(t *testing.T) {
	e, d := newArena(t)
	assert.Equal(t, "combat_started=1 body_part_ignored_until_combat", requireOK(t, run(d, "attack 100 eyes")))
	assert.True(t, e.InCombat())
}

func TestAttack_Invalid(t *testing.T) {
	e, d := newArena(t)
	assertFail(t, run(d, "attack"), "usage=attack <target_id> [body_part]")
	assertFail(t, run(d, "attack rat"), "invalid_target_id")
	assertFail(t, run(d, "attack 999"), "target_not_found")
	assertFail(t, run(d, "attack 100 tail"), "invalid_body_part")
	assert.False(t, e.InCombat())
}

func TestAttack_NotPlayersTurn(t *testing.T) {
	e := testutil.NewArena(t)
	d := newDispatcher(t, otherTurnSim{e})
	requireOK(t, run(d, "attack 100"))
	assertFail(t, run(d, "attack 100 head"), "not_players_turn")
}

func TestReload(t *testing.T) {
	e, d := newArena(t)
	assert.Equal(t, "reloaded=1", requireOK(t, run(d, "reload")))
	assert.Equal(t, 6, pistolRounds(t, e))
	// A full magazine cannot take more.
	assertFail(t, run(d, "reload"), "reload_failed")
}

func TestChangeWeapon(t *testing.T) {
	e, d := newArena(t)
	assert.Equal(t, "weapon_changed=1", requireOK(t, run(d, "change_weapon")))
	assert.False(t, e.ActiveHandIsRight())
	assertFail(t, run(d, "reload"), "no_active_item")

	requireOK(t, run(d, "equip 12 left_hand"))
	assertFail(t, run(d, "reload"), "active_item_not_weapon")

	requireOK(t, run(d, "worldmap"))
	assertFail(t, run(d, "change_weapon"), "change_weapon_failed")
}
