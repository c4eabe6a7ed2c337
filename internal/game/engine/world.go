package engine

import (
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// TileInDirection implements sim.Grid.
func (e *Engine) TileInDirection(tile sim.Tile, rotation sim.Rotation, distance int) sim.Tile {
	return e.grid.TileInDirection(tile, rotation, distance)
}

// Distance implements sim.Grid.
func (e *Engine) Distance(from, to sim.Tile) int {
	return e.grid.Distance(from, to)
}

// Direction implements sim.Grid.
func (e *Engine) Direction(from, to sim.Tile) sim.Rotation {
	return e.grid.Direction(from, to)
}

// Player implements sim.World.
func (e *Engine) Player() *sim.Object {
	return e.store.Player()
}

// Objects implements sim.World.
func (e *Engine) Objects() []*sim.Object {
	return e.store.Objects()
}

// ObjectsAt implements sim.World.
func (e *Engine) ObjectsAt(elevation int) []*sim.Object {
	return e.store.ObjectsAt(elevation)
}

// Proto implements sim.World.
func (e *Engine) Proto(pid int) (*sim.Proto, bool) {
	return e.store.Proto(pid)
}

// BlockingAt implements sim.World.
func (e *Engine) BlockingAt(mover *sim.Object, tile sim.Tile, elevation int) *sim.Object {
	for _, obj := range e.store.At(tile, elevation) {
		if e.blocks(mover, obj) {
			return obj
		}
	}
	return nil
}

// blocks reports whether obj occupies its tile for mover.
func (e *Engine) blocks(mover, obj *sim.Object) bool {
	if obj == mover {
		return false
	}
	if obj.Has(sim.FlagHidden) || obj.Has(sim.FlagNoBlock) || obj.Has(sim.FlagFlat) {
		return false
	}
	switch obj.Type() {
	case sim.TypeItem, sim.TypeMisc, sim.TypeTile:
		return false
	case sim.TypeCritter:
		return !obj.Critter.Dead
	case sim.TypeScenery:
		return obj.Portal == nil || !obj.Portal.Open
	}
	return true
}

// blocksSight reports whether obj stops a line of sight passing over it.
func blocksSight(obj *sim.Object) bool {
	if obj.Has(sim.FlagHidden) || obj.Has(sim.FlagSeeThru) {
		return false
	}
	switch obj.Type() {
	case sim.TypeWall:
		return true
	case sim.TypeScenery:
		return obj.Portal != nil && !obj.Portal.Open
	}
	return false
}

// CanSee implements sim.World. Walls and closed doors on tiles strictly
// between the two objects block sight.
func (e *Engine) CanSee(viewer, target *sim.Object) bool {
	if viewer == nil || target == nil || viewer.Elevation != target.Elevation {
		return false
	}
	blockers := make(map[sim.Tile]bool)
	for _, obj := range e.store.ObjectsAt(viewer.Elevation) {
		if obj != viewer && obj != target && blocksSight(obj) {
			blockers[obj.Tile] = true
		}
	}
	line := e.grid.Line(viewer.Tile, target.Tile)
	for i := 1; i < len(line)-1; i++ {
		if blockers[line[i]] {
			return false
		}
	}
	return true
}

// ObjectDistance implements sim.World. Each multi-hex object is one tile
// closer than its center.
func (e *Engine) ObjectDistance(a, b *sim.Object) int {
	d := e.grid.Distance(a.Tile, b.Tile)
	if a.Has(sim.FlagMultiHex) {
		d--
	}
	if b.Has(sim.FlagMultiHex) {
		d--
	}
	return max(d, 0)
}

// MapName implements sim.World.
func (e *Engine) MapName() string {
	return e.mapName
}

// MapElevation implements sim.World. It follows the avatar.
func (e *Engine) MapElevation() int {
	return e.store.Player().Elevation
}

// GameState implements sim.World.
func (e *Engine) GameState() int {
	switch {
	case e.quit:
		return GameStateQuitting
	case e.screen == screenMainMenu:
		return GameStateMainMenu
	case e.screen == screenEditor:
		return GameStateChargen
	default:
		return GameStatePlaying
	}
}

// Display implements scripting.Host.
func (e *Engine) Display(text string) {
	e.display("%s", text)
}

// SetLocked implements scripting.Host.
func (e *Engine) SetLocked(objectID int, locked bool) error {
	obj, ok := e.store.Get(objectID)
	if !ok || obj.Portal == nil {
		return rejected("not a door")
	}
	obj.Portal.Locked = locked
	return nil
}

// SetOpen implements scripting.Host.
func (e *Engine) SetOpen(objectID int, open bool) error {
	obj, ok := e.store.Get(objectID)
	if !ok || obj.Portal == nil {
		return rejected("not a door")
	}
	if open && obj.Portal.Locked {
		return rejected("door is locked")
	}
	obj.Portal.Open = open
	return nil
}
