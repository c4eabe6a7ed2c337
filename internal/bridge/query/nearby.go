package query

import (
	"slices"

	"github.com/cory-johannsen/simbridge/internal/sim"
)

// DebugRange is the radius used by the unfiltered nearby dump and exit search.
const DebugRange = 999

// Nearby is one object relative to the avatar.
type Nearby struct {
	Object   *sim.Object
	Distance int
	// Direction is RotationNone when Distance is zero.
	Direction sim.Rotation
}

// DirectionLabel is the compass label, or "here" for a coincident object.
func (n Nearby) DirectionLabel() string {
	if n.Direction == sim.RotationNone {
		return "here"
	}
	return n.Direction.String()
}

// Collect returns the non-hidden objects on elevation.
func Collect(w sim.World, elevation int) []*sim.Object {
	var out []*sim.Object
	for _, obj := range w.ObjectsAt(elevation) {
		if obj.Has(sim.FlagHidden) {
			continue
		}
		out = append(out, obj)
	}
	return out
}

// Relate measures obj from the avatar by tile distance.
func Relate(g sim.Grid, from sim.Tile, obj *sim.Object) Nearby {
	n := Nearby{Object: obj, Distance: g.Distance(from, obj.Tile), Direction: sim.RotationNone}
	if n.Distance > 0 {
		n.Direction = g.Direction(from, obj.Tile)
	}
	return n
}

// Visible lists what the avatar perceives: non-hidden objects on its
// elevation, other than itself, within PerceptionRange and, unless on the
// avatar's own tile, within line of sight.
//
// Postcondition: The result is sorted; nil when there is no avatar.
func Visible(s Scene) []Nearby {
	player := s.Player()
	if player == nil {
		return nil
	}
	radius := PerceptionRange(s)
	var out []Nearby
	for _, obj := range Collect(s, player.Elevation) {
		if obj == player {
			continue
		}
		n := Relate(s, player.Tile, obj)
		if n.Distance > radius {
			continue
		}
		if n.Distance > 0 && !s.CanSee(player, obj) {
			continue
		}
		out = append(out, n)
	}
	Sort(out)
	return out
}

// Around lists every non-hidden object on the avatar's elevation within
// radius, with no line-of-sight filter.
//
// Postcondition: The result is sorted; nil when there is no avatar.
func Around(s Scene, radius int) []Nearby {
	player := s.Player()
	if player == nil {
		return nil
	}
	var out []Nearby
	for _, obj := range Collect(s, player.Elevation) {
		if obj == player {
			continue
		}
		n := Relate(s, player.Tile, obj)
		if n.Distance > radius {
			continue
		}
		out = append(out, n)
	}
	Sort(out)
	return out
}

// Enemies lists living critters on the current map elevation that are not on
// the avatar's team.
//
// Postcondition: The result is sorted; nil when there is no avatar.
func Enemies(s Scene) []Nearby {
	player := s.Player()
	if player == nil || player.Critter == nil {
		return nil
	}
	var out []Nearby
	for _, obj := range Collect(s, s.MapElevation()) {
		if obj == player || obj.Type() != sim.TypeCritter || obj.Critter == nil {
			continue
		}
		if obj.Critter.Dead || !obj.IsHostileTo(player) {
			continue
		}
		out = append(out, Nearby{
			Object:    obj,
			Distance:  s.Distance(player.Tile, obj.Tile),
			Direction: s.Direction(player.Tile, obj.Tile),
		})
	}
	Sort(out)
	return out
}

// ExitGrids lists every exit grid on the avatar's elevation, hidden ones
// included. Direction is left as RotationNone.
//
// Postcondition: The result is sorted; nil when there is no avatar.
func ExitGrids(s Scene) []Nearby {
	player := s.Player()
	if player == nil {
		return nil
	}
	var out []Nearby
	for _, obj := range s.ObjectsAt(player.Elevation) {
		if !obj.IsExitGrid() {
			continue
		}
		out = append(out, Nearby{
			Object:    obj,
			Distance:  s.Distance(player.Tile, obj.Tile),
			Direction: sim.RotationNone,
		})
	}
	Sort(out)
	return out
}

// NearestExitGrid returns the closest exit grid within maxDistance on the
// avatar's elevation, preferring the lower id on ties, or nil.
func NearestExitGrid(s Scene, maxDistance int) *sim.Object {
	for _, n := range ExitGrids(s) {
		if n.Distance <= maxDistance {
			return n.Object
		}
		return nil
	}
	return nil
}

// Sort orders entries by distance, then id.
func Sort(entries []Nearby) {
	slices.SortStableFunc(entries, func(a, b Nearby) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.Object.ID - b.Object.ID
	})
}
