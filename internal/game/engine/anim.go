package engine

import (
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/game/world"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// motion is a queued walk. Each Advance moves the walker one tile.
type motion struct {
	obj   *sim.Object
	steps []sim.Rotation
	// budget is the action points left to spend, or -1 for unlimited.
	budget int
	arrive func()
}

// Busy implements sim.Animator.
func (e *Engine) Busy(obj *sim.Object) bool {
	if obj == nil {
		return false
	}
	_, ok := e.moves[obj.ID]
	return ok
}

// Advance implements sim.Animator. Walkers step in id order.
func (e *Engine) Advance() {
	ids := make([]int, 0, len(e.moves))
	for id := range e.moves {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		e.step(e.moves[id])
	}
}

func (e *Engine) step(m *motion) {
	if len(m.steps) == 0 || m.budget == 0 {
		e.finish(m, len(m.steps) == 0)
		return
	}
	next, ok := e.grid.Neighbor(m.obj.Tile, m.steps[0])
	if !ok || e.BlockingAt(m.obj, next, m.obj.Elevation) != nil {
		e.logger.Debug("walk interrupted",
			zap.Int("object", m.obj.ID),
			zap.Int("tile", int(m.obj.Tile)),
		)
		e.finish(m, false)
		return
	}
	m.obj.Tile = next
	m.obj.Rotation = m.steps[0]
	m.steps = m.steps[1:]
	if m.budget > 0 {
		m.budget--
		if e.combat != nil && m.obj.Critter != nil {
			m.obj.Critter.ActionPoints = max(m.obj.Critter.ActionPoints-1, 0)
		}
	}
	if len(m.steps) == 0 {
		e.finish(m, true)
	}
}

func (e *Engine) finish(m *motion, arrived bool) {
	delete(e.moves, m.obj.ID)
	if m.obj == e.store.Player() {
		e.refreshHUD()
		e.checkExitGrid(m.obj)
	}
	if arrived && m.arrive != nil {
		m.arrive()
	}
}

// RequestMove implements sim.Animator. The walk starts on the next Advance.
func (e *Engine) RequestMove(obj *sim.Object, tile sim.Tile, elevation int, actionPoints int) error {
	if obj == nil {
		return rejected("no object")
	}
	if !e.grid.Valid(tile) {
		return rejected("tile out of range")
	}
	if elevation != obj.Elevation {
		return rejected("cannot walk between elevations")
	}
	if tile == obj.Tile {
		return nil
	}
	path := e.FindPath(sim.PathRequest{Mover: obj, From: obj.Tile, To: tile})
	if len(path.Steps) == 0 {
		return rejected("no path")
	}
	e.startMotion(obj, path.Steps, actionPoints, nil)
	return nil
}

func (e *Engine) startMotion(obj *sim.Object, steps []sim.Rotation, actionPoints int, arrive func()) {
	budget := actionPoints
	if e.combat != nil && obj.Critter != nil {
		if budget < 0 || budget > obj.Critter.ActionPoints {
			budget = obj.Critter.ActionPoints
		}
	} else {
		budget = -1
	}
	e.moves[obj.ID] = &motion{obj: obj, steps: steps, budget: budget, arrive: arrive}
	e.logger.Debug("walk queued",
		zap.Int("object", obj.ID),
		zap.Int("steps", len(steps)),
		zap.Int("budget", budget),
	)
}

// Teleport implements sim.Animator.
func (e *Engine) Teleport(obj *sim.Object, tile sim.Tile, elevation int) error {
	if obj == nil {
		return rejected("no object")
	}
	if !e.grid.Valid(tile) {
		return rejected("tile out of range")
	}
	if elevation < 0 || elevation >= sim.ElevationCount {
		return rejected("elevation out of range")
	}
	delete(e.moves, obj.ID)
	e.store.Place(obj, tile, elevation)
	if obj == e.store.Player() {
		e.checkExitGrid(obj)
	}
	return nil
}

// ScrollTo implements sim.Animator.
func (e *Engine) ScrollTo(tile sim.Tile) {
	if e.grid.Valid(tile) {
		e.camera = tile
	}
}

// checkExitGrid arms a map transition when the avatar stands on an exit grid.
// The transition itself runs at the end of the next Tick.
func (e *Engine) checkExitGrid(player *sim.Object) {
	for _, obj := range e.store.At(player.Tile, player.Elevation) {
		if !obj.IsExitGrid() {
			continue
		}
		spec, ok := e.store.Spec(obj.ID)
		if !ok || spec.Exit == nil {
			continue
		}
		exit := *spec.Exit
		e.pendingExit = &exit
		return
	}
}

func (e *Engine) applyPendingExit() {
	exit := e.pendingExit
	if exit == nil {
		return
	}
	e.pendingExit = nil
	e.enterMap(exit)
}

// enterMap moves the avatar to another map. Objects of the current map stay
// where they are; the reference simulation keeps a single object graph.
func (e *Engine) enterMap(exit *world.ExitSpec) {
	player := e.store.Player()
	if e.combat != nil {
		e.EndCombat()
	}
	e.mapName = exit.Map
	delete(e.moves, player.ID)
	e.store.Place(player, sim.Tile(exit.Tile), exit.Elevation)
	e.camera = player.Tile
	e.display("You enter %s.", exit.Map)
	e.logger.Info("map transition",
		zap.String("map", exit.Map),
		zap.Int("tile", exit.Tile),
		zap.Int("elevation", exit.Elevation),
	)
}
