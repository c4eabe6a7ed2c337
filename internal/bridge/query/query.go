// Package query builds read-only snapshots of simulation state: interaction
// mode detection, proximity lists, look classification, object lookups and
// the text reports answered to the controller.
//
// Every proximity list is ordered by ascending distance with ties broken by
// ascending object id.
package query

import (
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// Scene is the read-only view proximity queries need.
type Scene interface {
	sim.Grid
	sim.World
	sim.Stats
}

// Snapshot is everything the state report reads.
type Snapshot interface {
	Scene
	sim.Modes
	sim.Inventory
	sim.Dialog
	sim.Combat
	sim.WorldMap
	sim.Session
}

// Mode is the interaction mode the simulation is in.
type Mode string

// Interaction modes in detection precedence order.
const (
	ModeMainMenu    Mode = "mainmenu"
	ModeChargen     Mode = "chargen"
	ModeCharacter   Mode = "character"
	ModeWorldMap    Mode = "worldmap"
	ModeDialogue    Mode = "dialogue"
	ModePipboy      Mode = "pipboy"
	ModeInventory   Mode = "inventory"
	ModeCombat      Mode = "combat"
	ModeExploration Mode = "exploration"
)

// CurrentMode checks each subsystem in a fixed order and returns the first
// that reports itself active.
func CurrentMode(m sim.Modes) Mode {
	switch {
	case m.InMainMenu():
		return ModeMainMenu
	case m.EditorActive():
		if m.EditorCreationMode() {
			return ModeChargen
		}
		return ModeCharacter
	case m.WorldMapActive():
		return ModeWorldMap
	case m.DialogActive():
		return ModeDialogue
	case m.PipboyOpen():
		return ModePipboy
	case m.InventoryOpen():
		return ModeInventory
	case m.InCombat():
		return ModeCombat
	default:
		return ModeExploration
	}
}

// minPerceptionRange is the smallest radius any avatar perceives.
const minPerceptionRange = 6

// PerceptionRange is max(6, 3 × perception) for the avatar, or 0 when there
// is no avatar.
func PerceptionRange(s Scene) int {
	player := s.Player()
	if player == nil {
		return 0
	}
	return max(minPerceptionRange, s.StatLevel(player, sim.StatPerception)*3)
}

// TypeLabel names the class of obj for reports. Doors report as "door".
func TypeLabel(obj *sim.Object) string {
	if obj.Type() == sim.TypeScenery && obj.IsPortal() {
		return "door"
	}
	return obj.Type().String()
}
