package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/simbridge/internal/game/world"
	"github.com/cory-johannsen/simbridge/internal/sim"
	"github.com/cory-johannsen/simbridge/internal/testutil"
)

func chargen(points int, tagged ...int) func(*world.Scenario) {
	return func(sc *world.Scenario) {
		sc.StartMode = world.StartChargen
		sc.CharacterPoints = points
		sc.TaggedSkills = tagged
	}
}

func TestEditor_IncDecStatBounds(t *testing.T) {
	e := testutil.NewArena(t, chargen(5))
	player := e.Player()

	require.NoError(t, e.IncStat(player, sim.StatAgility))
	assert.Equal(t, 7, e.StatLevel(player, sim.StatAgility))
	require.NoError(t, e.DecStat(player, sim.StatAgility))
	assert.Equal(t, 6, e.StatLevel(player, sim.StatAgility))

	for i := 0; i < 4; i++ {
		require.NoError(t, e.IncStat(player, sim.StatAgility))
	}
	assert.ErrorIs(t, e.IncStat(player, sim.StatAgility), sim.ErrRejected)

	for e.StatLevel(player, sim.StatLuck) > 1 {
		require.NoError(t, e.DecStat(player, sim.StatLuck))
	}
	assert.ErrorIs(t, e.DecStat(player, sim.StatLuck), sim.ErrRejected)
	assert.ErrorIs(t, e.IncStat(player, sim.StatArmorClass), sim.ErrRejected)
}

func TestEditor_TagSkillSlots(t *testing.T) {
	e := testutil.NewArena(t, chargen(0, 0, 6, 9))
	assert.Equal(t, 0, e.RemainingTagSkills())
	assert.ErrorIs(t, e.ToggleTagSkill(3), sim.ErrRejected)

	require.NoError(t, e.ToggleTagSkill(6))
	assert.Equal(t, 1, e.RemainingTagSkills())
	assert.Equal(t, 0, e.TempTagSkill(0))
	assert.Equal(t, 9, e.TempTagSkill(1))
	assert.Equal(t, -1, e.TempTagSkill(2))

	require.NoError(t, e.ToggleTagSkill(3))
	assert.Equal(t, 3, e.TempTagSkill(2))
	assert.Equal(t, -1, e.TempTagSkill(3), "the last slot is reserved")
	assert.Equal(t, -1, e.TempTagSkill(9))
	assert.ErrorIs(t, e.ToggleTagSkill(e.SkillCount()), sim.ErrRejected)
}

func TestEditor_TraitSlotsAndBonuses(t *testing.T) {
	e := testutil.NewArena(t, chargen(0))
	player := e.Player()
	gifted := len(world.DefaultTraits) - 1
	require.Equal(t, "Gifted", e.TraitName(gifted))

	require.NoError(t, e.ToggleTrait(gifted))
	assert.Equal(t, 6, e.StatLevel(player, sim.StatStrength))
	assert.Equal(t, gifted, e.TempTrait(0))
	require.NoError(t, e.ToggleTrait(1))
	assert.Equal(t, 8, e.StatLevel(player, sim.StatStrength), "bruiser adds two strength")
	assert.Equal(t, 0, e.RemainingTraits())
	assert.ErrorIs(t, e.ToggleTrait(2), sim.ErrRejected)

	require.NoError(t, e.ToggleTrait(1))
	assert.Equal(t, 1, e.RemainingTraits())
	assert.Equal(t, -1, e.TempTrait(1))
}

func TestEditor_InvalidSpecialStats(t *testing.T) {
	e := testutil.NewArena(t, chargen(0))
	player := e.Player()
	for e.StatLevel(player, sim.StatAgility) < 10 {
		require.NoError(t, e.IncStat(player, sim.StatAgility))
	}
	assert.False(t, e.HasInvalidSpecialStats())
	require.NoError(t, e.ToggleTrait(len(world.DefaultTraits)-1))
	assert.True(t, e.HasInvalidSpecialStats())
}

func TestEditor_NamesAndCounts(t *testing.T) {
	e := testutil.NewArena(t)
	assert.Equal(t, len(world.DefaultSkills), e.SkillCount())
	assert.Equal(t, "Sneak", e.SkillName(sim.SkillSneak))
	assert.Equal(t, "", e.SkillName(-1))
	assert.Equal(t, len(world.DefaultTraits), e.TraitCount())
	assert.Equal(t, "", e.TraitName(99))
	assert.Equal(t, "Strength", e.StatName(sim.StatStrength))
	assert.Equal(t, "Armor Class", e.StatName(sim.StatArmorClass))
}

func TestEditor_NameEntry(t *testing.T) {
	e := testutil.NewArena(t, chargen(0, 0, 6, 9))
	e.QueueKey(sim.KeyNameEntry)
	for _, c := range "Max Stone the Third" {
		e.QueueKey(int(c))
	}
	e.QueueKey(sim.KeyReturn)
	e.Tick()

	assert.Equal(t, "Max Stone t", e.Player().Name)
	assert.True(t, e.EditorCreationMode(), "committing the name does not leave the editor")
}

func TestEditor_ReturnRequiresFinishedCharacter(t *testing.T) {
	e := testutil.NewArena(t, chargen(1, 0, 6, 9))
	e.QueueKey(sim.KeyReturn)
	e.Tick()
	assert.True(t, e.EditorCreationMode())

	e.SetCharacterPoints(0)
	e.QueueKey(sim.KeyReturn)
	e.Tick()
	assert.False(t, e.EditorActive())
	assert.Contains(t, e.LastMessages(1)[0], "Welcome to the wasteland")
}

func TestEditor_EscapeReturnsToMainMenu(t *testing.T) {
	e := testutil.NewArena(t, chargen(0))
	e.QueueKey(sim.KeyEscape)
	e.Tick()
	assert.True(t, e.InMainMenu())
}

func TestMainMenu_NewGameOpensEditor(t *testing.T) {
	e := testutil.NewArena(t, func(sc *world.Scenario) {
		sc.StartMode = world.StartMainMenu
		sc.CharacterPoints = 5
	})
	e.QueueKey(sim.KeyLowercaseN)
	e.Tick()

	assert.True(t, e.EditorCreationMode())
	assert.Equal(t, 5, e.CharacterPoints())
	player := e.Player()
	assert.Equal(t, e.StatLevel(player, sim.StatMaxHitPoints), player.Critter.HitPoints)
}
