package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/bridge/command"
	"github.com/cory-johannsen/simbridge/internal/bridge/nav"
	"github.com/cory-johannsen/simbridge/internal/bridge/query"
	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// exitSearchRange bounds the exit grid search for enter.
const exitSearchRange = 999

func (d *Dispatcher) handleMove(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=move <direction>")
	}
	player := d.sim.Player()
	if player == nil {
		return fail("player_unavailable")
	}
	rot, found := parseDirection(req.Arg(0))
	if !found {
		return fail("invalid_direction")
	}
	return d.walkTo(player, d.sim.TileInDirection(player.Tile, rot, 1))
}

func (d *Dispatcher) handleMoveTo(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=move_to <tile>")
	}
	player := d.sim.Player()
	if player == nil {
		return fail("player_unavailable")
	}
	tile, isInt := textutil.ParseInt(req.Arg(0))
	if !isInt {
		return fail("invalid_tile")
	}
	if tile < 0 || tile >= sim.GridSize {
		return fail("tile_out_of_range")
	}
	return d.walkTo(player, sim.Tile(tile))
}

// walkTo queues a walk without waiting for it; the avatar moves on later
// animation ticks.
func (d *Dispatcher) walkTo(player *sim.Object, dest sim.Tile) Response {
	if err := d.sim.RequestMove(player, dest, player.Elevation, d.actionPoints(player)); err != nil {
		d.logger.Debug("move refused", zap.Int("tile", int(dest)), zap.Error(err))
		return fail("move_failed")
	}
	d.sim.ScrollTo(dest)
	return ok(fmt.Sprintf("destination_tile=%d", dest))
}

func (d *Dispatcher) handleGoto(ctx context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=goto <object_id_or_tile>")
	}
	if d.sim.Player() == nil {
		return fail("player_unavailable")
	}
	target, isInt := textutil.ParseInt(req.Arg(0))
	if !isInt {
		return fail("invalid_target")
	}

	res, err := d.planner.Goto(ctx, target)
	if err != nil {
		d.metrics.ObserveGoto(gotoFailureOutcome(err))
		return fail(gotoErrorBody(err))
	}
	d.metrics.ObserveGoto(gotoOutcome(res))
	return ok(gotoBody(res))
}

func gotoBody(res nav.Result) string {
	var b strings.Builder
	if res.Partial {
		b.WriteString("result=partial\n")
	}
	fmt.Fprintf(&b, "target_kind=%s\n", res.Kind)
	if res.Kind == nav.TargetObject {
		fmt.Fprintf(&b, "target_object_id=%d\n", res.Object.ID)
	}
	fmt.Fprintf(&b, "target_tile=%d\n", res.TargetTile)
	fmt.Fprintf(&b, "destination_tile=%d\n", res.Destination)
	fmt.Fprintf(&b, "planned_steps=%d\n", res.PlannedSteps)
	fmt.Fprintf(&b, "capped=%d\n", flag(res.Capped))
	fmt.Fprintf(&b, "final_tile=%d\n", res.FinalTile)
	fmt.Fprintf(&b, "distance_from_target=%d\n", res.DistanceFromTarget)
	fmt.Fprintf(&b, "arrived_adjacent=%d", flag(res.ArrivedAdjacent))
	return b.String()
}

func gotoErrorBody(err error) string {
	var (
		elevation   *nav.ElevationError
		unreachable *nav.UnreachableError
	)
	switch {
	case errors.As(err, &elevation):
		return fmt.Sprintf("different_elevation\nplayer_elevation=%d\ntarget_elevation=%d",
			elevation.PlayerElevation, elevation.TargetElevation)
	case errors.As(err, &unreachable):
		return fmt.Sprintf("unreachable\nclosest_tile=%d\ndistance_from_target=%d",
			unreachable.ClosestTile, unreachable.Distance)
	case errors.Is(err, nav.ErrNoPlayer):
		return "player_unavailable"
	case errors.Is(err, nav.ErrTileOutOfRange):
		return "tile_out_of_range"
	case errors.Is(err, nav.ErrMoveFailed):
		return "move_failed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "animation_timeout"
	}
}

func gotoOutcome(res nav.Result) string {
	switch {
	case res.Partial:
		return "partial"
	case res.Capped:
		return "capped"
	default:
		return "arrived"
	}
}

func gotoFailureOutcome(err error) string {
	var unreachable *nav.UnreachableError
	if errors.As(err, &unreachable) {
		return "unreachable"
	}
	return "failed"
}

// handleEnter teleports the avatar onto the nearest exit grid, which arms
// the map transition.
func (d *Dispatcher) handleEnter(context.Context, command.ParseResult) Response {
	player := d.sim.Player()
	if player == nil {
		return fail("player_unavailable")
	}
	exit := query.NearestExitGrid(d.sim, exitSearchRange)
	if exit == nil {
		return fail("exit_grid_not_found")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "exit_grid_pid=0x%x\n", exit.PID)
	fmt.Fprintf(&b, "exit_grid_tile=%d\n", exit.Tile)
	fmt.Fprintf(&b, "exit_grid_distance=%d\n", d.sim.Distance(player.Tile, exit.Tile))
	fmt.Fprintf(&b, "exit_grid_object_id=%d\n", exit.ID)

	if err := d.sim.Teleport(player, exit.Tile, player.Elevation); err != nil {
		d.logger.Debug("enter refused", zap.Int("exit", exit.ID), zap.Error(err))
		b.WriteString("entered_exit_grid=0")
		return fail(b.String())
	}
	b.WriteString("entered_exit_grid=1\n")
	fmt.Fprintf(&b, "object_id=%d\n", exit.ID)
	fmt.Fprintf(&b, "tile=%d", exit.Tile)
	return ok(b.String())
}

func (d *Dispatcher) handleScanExits(context.Context, command.ParseResult) Response {
	if d.sim.Player() == nil {
		return fail("player_unavailable")
	}
	return ok(query.ScanExitsReport(d.sim))
}

func (d *Dispatcher) handleSneak(context.Context, command.ParseResult) Response {
	if err := d.sim.ToggleSneak(); err != nil {
		return fail("sneak_toggle_failed")
	}
	return ok("sneak_toggled=1")
}
