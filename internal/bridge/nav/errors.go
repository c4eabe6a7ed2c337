package nav

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/simbridge/internal/sim"
)

var (
	// ErrNoPlayer is returned when there is no avatar to move.
	ErrNoPlayer = errors.New("player_unavailable")
	// ErrTileOutOfRange is returned for a tile target outside the grid.
	ErrTileOutOfRange = errors.New("tile_out_of_range")
	// ErrTimeout is returned when the avatar is still animating after the
	// configured wait. Movement already committed is not undone.
	ErrTimeout = errors.New("animation_timeout")
	// ErrMoveFailed wraps a movement request the simulation refused.
	ErrMoveFailed = errors.New("move_failed")
)

// ElevationError reports an object target on another elevation.
type ElevationError struct {
	PlayerElevation int
	TargetElevation int
}

func (e *ElevationError) Error() string {
	return fmt.Sprintf("different_elevation: player %d, target %d", e.PlayerElevation, e.TargetElevation)
}

// UnreachableError reports a target with no path and no partial progress to
// make. ClosestTile is the best tile the search reached.
type UnreachableError struct {
	ClosestTile sim.Tile
	// Distance is from ClosestTile to the target.
	Distance int
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("unreachable: closest tile %d is %d from target", e.ClosestTile, e.Distance)
}
