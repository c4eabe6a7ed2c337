package query

import (
	"strings"

	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// Category is the look-report section an object belongs to.
type Category int

// Look categories. CategoryNone objects are left out of the look report.
const (
	CategoryNone Category = iota
	CategoryNPC
	CategoryExit
	CategoryDoor
	CategoryContainer
	CategoryItem
	CategoryScenery
)

// Name keywords deciding whether generic scenery is worth reporting. An
// excluded keyword wins over an included one.
var (
	sceneryExcluded = []string{"wall", "blocker", "secret block", "cave wall", "pipe", "vent", "light"}
	sceneryIncluded = []string{"computer", "terminal", "elevator", "ladder", "bed", "locker", "desk", "console", "panel"}
)

// Classify places obj in exactly one look category, checking critter, exit
// grid, door, container, item and notable scenery in that order.
func Classify(w sim.World, obj *sim.Object) Category {
	proto, hasProto := w.Proto(obj.PID)
	switch {
	case obj.Type() == sim.TypeCritter:
		return CategoryNPC
	case obj.IsExitGrid():
		return CategoryExit
	case obj.Type() == sim.TypeScenery && hasProto && proto.SceneryType == sim.SceneryDoor:
		return CategoryDoor
	case IsContainer(w, obj):
		return CategoryContainer
	case obj.Type() == sim.TypeItem:
		return CategoryItem
	case IsNotableScenery(w, obj):
		return CategoryScenery
	default:
		return CategoryNone
	}
}

// IsContainer reports whether obj should be listed as something to loot:
// container items, and any item or non-door scenery holding contents.
// Objects without a prototype count when they hold contents.
func IsContainer(w sim.World, obj *sim.Object) bool {
	proto, ok := w.Proto(obj.PID)
	if !ok {
		return len(obj.Inventory) > 0
	}
	switch obj.Type() {
	case sim.TypeItem:
		return proto.ItemType == sim.ItemContainer || len(obj.Inventory) > 0
	case sim.TypeScenery:
		return proto.SceneryType != sim.SceneryDoor && len(obj.Inventory) > 0
	default:
		return false
	}
}

// IsNotableScenery reports whether a non-door scenery object is worth
// listing. Elevators and ladders always are; anything else is judged by name.
func IsNotableScenery(w sim.World, obj *sim.Object) bool {
	if obj.Type() != sim.TypeScenery {
		return false
	}
	proto, ok := w.Proto(obj.PID)
	if !ok {
		return false
	}
	switch proto.SceneryType {
	case sim.SceneryDoor:
		return false
	case sim.SceneryElevator, sim.SceneryLadderUp, sim.SceneryLadderDown:
		return true
	}

	name := textutil.Lower(obj.Name)
	for _, keyword := range sceneryExcluded {
		if strings.Contains(name, keyword) {
			return false
		}
	}
	for _, keyword := range sceneryIncluded {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}
