// Package nav plans and performs bounded avatar movement toward an object or
// tile, falling back to the closest reachable tile when no full route exists.
package nav

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/bridge/query"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// Defaults for Config.
const (
	DefaultMaxSteps    = 100
	DefaultWaitTimeout = 60 * time.Second
	DefaultWaitStep    = 16 * time.Millisecond
)

// Mover is the slice of the simulation the planner drives.
type Mover interface {
	sim.Grid
	sim.World
	sim.PathFinder
	sim.Animator
	sim.Modes
}

// Config bounds one planner invocation.
type Config struct {
	// MaxSteps caps the steps taken toward a target per invocation.
	MaxSteps int
	// WaitTimeout bounds how long to wait for the avatar to stop moving.
	WaitTimeout time.Duration
	// WaitStep is the pause between animation ticks while waiting.
	WaitStep time.Duration
}

// DefaultConfig returns the standard bounds.
func DefaultConfig() Config {
	return Config{
		MaxSteps:    DefaultMaxSteps,
		WaitTimeout: DefaultWaitTimeout,
		WaitStep:    DefaultWaitStep,
	}
}

// TargetKind says how a goto target was resolved.
type TargetKind string

// Target kinds.
const (
	TargetObject TargetKind = "object"
	TargetTile   TargetKind = "tile"
)

// Plan is the movement decided for one target.
type Plan struct {
	Kind TargetKind
	// Object is set for object targets.
	Object     *sim.Object
	TargetTile sim.Tile
	// Destination is where the avatar is sent; the avatar's own tile when no
	// movement is planned.
	Destination  sim.Tile
	PlannedSteps int
	Capped       bool
	// Partial is set when the plan heads for the closest reachable tile
	// because the target itself has no route.
	Partial bool
	// ArrivedAdjacent is set when an object target needs no movement.
	ArrivedAdjacent bool
}

// Result is a Plan after execution.
type Result struct {
	Plan
	FinalTile          sim.Tile
	DistanceFromTarget int
}

// Planner turns targets into bounded moves.
type Planner struct {
	sim    Mover
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewPlanner creates a Planner.
//
// Precondition: s and logger must be non-nil; cfg.MaxSteps must be positive.
func NewPlanner(s Mover, cfg Config, logger *zap.Logger) *Planner {
	return &Planner{sim: s, cfg: cfg, logger: logger, now: time.Now}
}

// Goto waits for the avatar to settle, resolves target as an object id or,
// failing that, a tile id, plans a bounded move toward it and performs it.
//
// Postcondition: On success the result reports where the avatar ended up.
// Errors are ErrNoPlayer, ErrTileOutOfRange, ErrTimeout, ErrMoveFailed,
// *ElevationError, *UnreachableError or a context error.
func (p *Planner) Goto(ctx context.Context, target int) (Result, error) {
	player := p.sim.Player()
	if player == nil {
		return Result{}, ErrNoPlayer
	}
	if err := p.WaitIdle(ctx, player); err != nil {
		return Result{}, err
	}

	var (
		plan Plan
		err  error
	)
	if obj := query.FindWorldObject(p.sim, target); obj != nil {
		plan, err = p.PlanObject(player, obj)
	} else {
		plan, err = p.PlanTile(player, sim.Tile(target))
	}
	if err != nil {
		p.logger.Debug("goto not planned", zap.Int("target", target), zap.Error(err))
		return Result{Plan: plan}, err
	}
	if plan.Capped || plan.Partial {
		p.logger.Debug("goto plan bounded",
			zap.Int("target", target),
			zap.Int("destination", int(plan.Destination)),
			zap.Int("steps", plan.PlannedSteps),
			zap.Bool("capped", plan.Capped),
			zap.Bool("partial", plan.Partial),
		)
	}
	return p.Execute(ctx, player, plan)
}

// PlanObject plans a move that ends next to obj.
//
// Precondition: player and obj must be non-nil.
func (p *Planner) PlanObject(player, obj *sim.Object) (Plan, error) {
	plan := Plan{
		Kind:        TargetObject,
		Object:      obj,
		TargetTile:  obj.Tile,
		Destination: player.Tile,
	}
	if obj.Elevation != player.Elevation {
		return plan, &ElevationError{PlayerElevation: player.Elevation, TargetElevation: obj.Elevation}
	}
	if p.sim.ObjectDistance(player, obj) <= 1 {
		plan.ArrivedAdjacent = true
		return plan, nil
	}

	steps, closest := p.search(player, obj.Tile, true)
	if len(steps) == 0 {
		return p.fallback(player, plan, closest)
	}
	stop := 1
	if obj.Has(sim.FlagMultiHex) {
		stop = 2
	}
	toAdjacent := len(steps) - stop
	if toAdjacent <= 0 {
		plan.ArrivedAdjacent = true
		return plan, nil
	}
	p.advance(&plan, player.Tile, steps, toAdjacent)
	return plan, nil
}

// PlanTile plans a move onto tile, or next to it when something stands there.
//
// Precondition: player must be non-nil.
func (p *Planner) PlanTile(player *sim.Object, tile sim.Tile) (Plan, error) {
	plan := Plan{
		Kind:        TargetTile,
		TargetTile:  tile,
		Destination: player.Tile,
	}
	if tile < 0 || tile >= sim.GridSize {
		return plan, ErrTileOutOfRange
	}
	if tile == player.Tile {
		return plan, nil
	}

	blocked := p.sim.BlockingAt(player, tile, player.Elevation) != nil
	steps, closest := p.search(player, tile, blocked)
	switch {
	case len(steps) == 0:
		return p.fallback(player, plan, closest)
	case blocked:
		p.advance(&plan, player.Tile, steps, len(steps)-1)
	default:
		p.advance(&plan, player.Tile, steps, len(steps))
	}
	return plan, nil
}

// Execute performs plan and waits for the avatar to stop.
//
// Postcondition: Movement is requested only when PlannedSteps > 0. In
// combat the move is limited to the avatar's remaining action points.
func (p *Planner) Execute(ctx context.Context, player *sim.Object, plan Plan) (Result, error) {
	result := Result{Plan: plan}
	if plan.PlannedSteps > 0 {
		actionPoints := -1
		if p.sim.InCombat() && player.Critter != nil {
			actionPoints = player.Critter.ActionPoints
		}
		if err := p.sim.RequestMove(player, plan.Destination, player.Elevation, actionPoints); err != nil {
			return result, fmt.Errorf("%w: %w", ErrMoveFailed, err)
		}
		if err := p.WaitIdle(ctx, player); err != nil {
			return result, err
		}
		p.sim.ScrollTo(player.Tile)
	}

	result.FinalTile = player.Tile
	result.DistanceFromTarget = p.sim.Distance(player.Tile, plan.TargetTile)
	if plan.Kind == TargetObject {
		result.ArrivedAdjacent = p.sim.ObjectDistance(player, plan.Object) <= 1
	}
	return result, nil
}

// WaitIdle advances animation until obj stops, pausing WaitStep between
// ticks.
//
// Postcondition: Returns ErrTimeout once WaitTimeout has elapsed with obj
// still busy, or ctx.Err() if ctx ends first.
func (p *Planner) WaitIdle(ctx context.Context, obj *sim.Object) error {
	start := p.now()
	for p.sim.Busy(obj) {
		p.sim.Advance()
		if p.now().Sub(start) > p.cfg.WaitTimeout {
			return ErrTimeout
		}
		if p.cfg.WaitStep <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		timer := time.NewTimer(p.cfg.WaitStep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// advance fills the destination for taking n steps of a path, capped at
// MaxSteps.
func (p *Planner) advance(plan *Plan, from sim.Tile, steps []sim.Rotation, n int) {
	plan.PlannedSteps = min(n, p.cfg.MaxSteps)
	plan.Capped = plan.PlannedSteps < n
	plan.Destination = walk(p.sim, from, steps[:plan.PlannedSteps])
}

// fallback heads for closest when the target has no route.
func (p *Planner) fallback(player *sim.Object, plan Plan, closest sim.Tile) (Plan, error) {
	unreachable := &UnreachableError{
		ClosestTile: closest,
		Distance:    p.sim.Distance(closest, plan.TargetTile),
	}
	if closest == player.Tile {
		return plan, unreachable
	}
	res := p.sim.FindPath(sim.PathRequest{
		Mover:                   player,
		From:                    player.Tile,
		To:                      closest,
		AllowBlockedDestination: true,
	})
	if len(res.Steps) == 0 {
		return plan, unreachable
	}
	p.advance(&plan, player.Tile, res.Steps, len(res.Steps))
	plan.Partial = true
	return plan, nil
}

// search runs one path search toward to and derives the closest reachable
// tile from the visited trace. The closest tile falls back to the avatar's
// own tile when nothing was visited or it cannot itself be reached.
func (p *Planner) search(player *sim.Object, to sim.Tile, allowBlocked bool) ([]sim.Rotation, sim.Tile) {
	res := p.sim.FindPath(sim.PathRequest{
		Mover:                   player,
		From:                    player.Tile,
		To:                      to,
		AllowBlockedDestination: allowBlocked,
	})
	closest := ClosestVisited(p.sim, res.Visited, to)
	if closest == sim.NoTile {
		return res.Steps, player.Tile
	}
	check := p.sim.FindPath(sim.PathRequest{
		Mover:                   player,
		From:                    player.Tile,
		To:                      closest,
		AllowBlockedDestination: true,
	})
	if len(check.Steps) == 0 {
		return res.Steps, player.Tile
	}
	return res.Steps, closest
}

// ClosestVisited returns the visited tile nearest to target, preferring the
// lower tile on ties, or NoTile when visited is empty.
func ClosestVisited(g sim.Grid, visited []sim.Tile, target sim.Tile) sim.Tile {
	best, bestDistance := sim.NoTile, 0
	for _, tile := range visited {
		d := g.Distance(tile, target)
		if best == sim.NoTile || d < bestDistance || (d == bestDistance && tile < best) {
			best, bestDistance = tile, d
		}
	}
	return best
}

func walk(g sim.Grid, from sim.Tile, steps []sim.Rotation) sim.Tile {
	tile := from
	for _, rot := range steps {
		tile = g.TileInDirection(tile, rot, 1)
	}
	return tile
}
