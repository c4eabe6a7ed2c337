package engine

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/game/world"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// RequestQuit implements sim.Session.
func (e *Engine) RequestQuit() {
	e.quit = true
	e.logger.Info("quit requested")
}

// AdvanceGameTime implements sim.Session. The clock saturates instead of
// wrapping.
func (e *Engine) AdvanceGameTime(seconds int) {
	if seconds <= 0 {
		return
	}
	if e.gameTime > math.MaxInt32-seconds {
		e.gameTime = math.MaxInt32
		return
	}
	e.gameTime += seconds
}

// GameTime returns elapsed game seconds.
func (e *Engine) GameTime() int {
	return e.gameTime
}

// RestHeal implements sim.Session. The avatar recovers endurance/3 hit
// points, at least one, per hour.
func (e *Engine) RestHeal(hours int) {
	player := e.store.Player()
	if hours <= 0 || player.Critter.Dead {
		return
	}
	rate := max(e.StatLevel(player, sim.StatEndurance)/3, 1)
	amount := rate * min(hours, math.MaxInt32/rate)
	healed := e.heal(player, amount)
	e.display("You rest for %d hours and recover %d hit points.", hours, healed)
}

// SetQuickSaveSlot implements sim.Session.
func (e *Engine) SetQuickSaveSlot(slot int) {
	e.quickSlot = slot
}

// QuickSave implements sim.Session.
func (e *Engine) QuickSave() error {
	if e.saves == nil {
		return ErrNoSaves
	}
	data, err := world.MarshalScenario(e.snapshot())
	if err != nil {
		return fmt.Errorf("engine: encoding save: %w", err)
	}
	if err := e.saves.Put(e.quickSlot, data); err != nil {
		return fmt.Errorf("engine: writing save slot %d: %w", e.quickSlot, err)
	}
	e.display("Game saved.")
	e.logger.Info("game saved", zap.Int("slot", e.quickSlot), zap.Int("bytes", len(data)))
	return nil
}

// snapshot captures live state as a scenario that starts in exploration.
func (e *Engine) snapshot() *world.Scenario {
	base := *e.scene
	base.Map = e.mapName
	base.StartMode = world.StartExploration
	if e.screen == screenWorldMap {
		base.StartMode = world.StartWorldMap
	}
	base.CharacterPoints = e.points
	base.WorldX, base.WorldY = e.worldX, e.worldY
	base.GameTime = e.gameTime
	base.Level = e.level
	base.Experience = e.experience
	base.Towns = append([]world.TownSpec(nil), e.towns...)
	base.TaggedSkills = packed(e.tagged[:])
	base.ChosenTraits = packed(e.traits[:])
	base.Messages = append([]string(nil), e.messages...)
	return e.store.Snapshot(&base)
}

func packed(slots []int) []int {
	var out []int
	for _, v := range slots {
		if v >= 0 {
			out = append(out, v)
		}
	}
	return out
}

// loadLatest restores the most recent save.
func (e *Engine) loadLatest() {
	if e.saves == nil {
		e.display("There are no saved games.")
		return
	}
	slot, ok, err := e.saves.Latest()
	if err != nil || !ok {
		e.display("There are no saved games.")
		return
	}
	if err := e.Load(slot); err != nil {
		e.logger.Error("load failed", zap.Int("slot", slot), zap.Error(err))
		e.display("Error loading game.")
	}
}

// Load restores the game saved in slot.
func (e *Engine) Load(slot int) error {
	if e.saves == nil {
		return ErrNoSaves
	}
	data, err := e.saves.Get(slot)
	if err != nil {
		return fmt.Errorf("engine: reading save slot %d: %w", slot, err)
	}
	sc, err := world.LoadScenarioFromBytes(data)
	if err != nil {
		return fmt.Errorf("engine: decoding save slot %d: %w", slot, err)
	}
	if err := e.restore(sc); err != nil {
		return err
	}
	e.screen = screenGame
	if sc.StartMode == world.StartWorldMap {
		e.screen = screenWorldMap
	}
	e.quickSlot = slot
	e.logger.Info("game loaded", zap.Int("slot", slot))
	return nil
}

// LastMessages implements sim.Session.
func (e *Engine) LastMessages(n int) []string {
	if n <= 0 {
		return nil
	}
	start := max(len(e.messages)-n, 0)
	return append([]string(nil), e.messages[start:]...)
}
