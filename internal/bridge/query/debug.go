package query

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// DebugObjectsPerElevation caps how many objects the object dump lists per
// elevation; the rest are only counted.
const DebugObjectsPerElevation = 50

// DebugObjectsReport dumps the non-hidden objects of every elevation with
// per-class counts.
func DebugObjectsReport(s Scene) string {
	var b strings.Builder
	player := s.Player()
	playerTile, playerElevation := -1, -1
	if player != nil {
		playerTile, playerElevation = int(player.Tile), player.Elevation
	}
	fmt.Fprintf(&b, "player_tile=%d\n", playerTile)
	fmt.Fprintf(&b, "player_elevation=%d", playerElevation)

	for elevation := 0; elevation < sim.ElevationCount; elevation++ {
		objects := Collect(s, elevation)
		fmt.Fprintf(&b, "\n\n[elevation %d]\n", elevation)

		counts := make(map[sim.ObjectType]int)
		shown := 0
		for _, obj := range objects {
			counts[obj.Type()]++
			if shown >= DebugObjectsPerElevation {
				continue
			}
			distance := -1
			if player != nil {
				distance = s.Distance(player.Tile, obj.Tile)
			}
			fmt.Fprintf(&b, "[%d] pid=0x%x type=%s name=%s tile=%d elevation=%d flags=0x%x distance=%d\n",
				obj.ID, obj.PID, obj.Type(), textutil.Escape(obj.Name), obj.Tile, obj.Elevation, uint32(obj.Flags), distance)
			shown++
		}

		fmt.Fprintf(&b, "count=%d\n", len(objects))
		fmt.Fprintf(&b, "shown=%d\n", shown)
		for _, t := range []sim.ObjectType{sim.TypeCritter, sim.TypeItem, sim.TypeScenery, sim.TypeWall, sim.TypeTile, sim.TypeMisc} {
			fmt.Fprintf(&b, "type_%s=%d\n", t, counts[t])
		}
		fmt.Fprintf(&b, "truncated=%d", len(objects)-shown)
	}
	return b.String()
}

// DebugNearbyReport lists every non-hidden object on the avatar's elevation
// within DebugRange, ignoring line of sight.
//
// Precondition: The avatar must be present.
func DebugNearbyReport(s Scene) string {
	player := s.Player()
	around := Around(s, DebugRange)
	var b strings.Builder
	fmt.Fprintf(&b, "range=%d\n", DebugRange)
	fmt.Fprintf(&b, "count=%d\n", len(around))
	for _, n := range around {
		writeSurrounding(&b, s, player, n)
	}
	return b.String()
}

// ScanExitsReport lists exit grids on the avatar's elevation.
//
// Precondition: The avatar must be present.
func ScanExitsReport(s Scene) string {
	exits := ExitGrids(s)
	var b strings.Builder
	fmt.Fprintf(&b, "count=%d", len(exits))
	for _, n := range exits {
		fmt.Fprintf(&b, "\n[%d] pid=0x%x tile=%d distance=%d", n.Object.ID, n.Object.PID, n.Object.Tile, n.Distance)
	}
	return b.String()
}
