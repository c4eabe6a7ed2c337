// Package hexgrid implements the hex-grid metric used by the reference
// simulation: tiles are row-major indices into a grid of pointy-top hexes with
// odd rows shifted half a hex to the right.
package hexgrid

import (
	"math"

	"github.com/cory-johannsen/simbridge/internal/sim"
)

// axialDeltas are the (q, r) offsets of each neighbor direction, indexed by
// sim.Rotation.
var axialDeltas = [sim.RotationCount][2]int{
	sim.RotationNE: {1, -1},
	sim.RotationE:  {1, 0},
	sim.RotationSE: {0, 1},
	sim.RotationSW: {-1, 1},
	sim.RotationW:  {-1, 0},
	sim.RotationNW: {0, -1},
}

// sectorRotations maps a 60 degree sector index (counter-clockwise from east)
// to a rotation.
var sectorRotations = [sim.RotationCount]sim.Rotation{
	sim.RotationE,
	sim.RotationNE,
	sim.RotationNW,
	sim.RotationW,
	sim.RotationSW,
	sim.RotationSE,
}

// Grid is a fixed-size hex grid. The zero value is unusable; use New.
type Grid struct {
	width  int
	height int
}

// New returns a grid of width columns and height rows.
//
// Precondition: width > 0 and height > 0.
func New(width, height int) Grid {
	return Grid{width: width, height: height}
}

// Standard returns the grid every map uses.
func Standard() Grid {
	return New(sim.GridWidth, sim.GridHeight)
}

// Size is the number of tiles in the grid.
func (g Grid) Size() int {
	return g.width * g.height
}

// Valid reports whether t indexes a tile of g.
func (g Grid) Valid(t sim.Tile) bool {
	return t >= 0 && int(t) < g.Size()
}

// Coords returns the column and row of t.
func (g Grid) Coords(t sim.Tile) (col, row int) {
	return int(t) % g.width, int(t) / g.width
}

// TileAt returns the tile at col, row; ok is false outside the grid.
func (g Grid) TileAt(col, row int) (sim.Tile, bool) {
	if col < 0 || row < 0 || col >= g.width || row >= g.height {
		return sim.NoTile, false
	}
	return sim.Tile(row*g.width + col), true
}

func (g Grid) axial(t sim.Tile) (q, r int) {
	col, row := g.Coords(t)
	return col - (row-(row&1))/2, row
}

func (g Grid) fromAxial(q, r int) (sim.Tile, bool) {
	if r < 0 {
		return sim.NoTile, false
	}
	return g.TileAt(q+(r-(r&1))/2, r)
}

// Neighbor returns the tile adjacent to t in direction rot; ok is false at the
// map edge or for an invalid rotation.
func (g Grid) Neighbor(t sim.Tile, rot sim.Rotation) (sim.Tile, bool) {
	if rot < 0 || rot >= sim.RotationCount || !g.Valid(t) {
		return sim.NoTile, false
	}
	q, r := g.axial(t)
	d := axialDeltas[rot]
	return g.fromAxial(q+d[0], r+d[1])
}

// TileInDirection walks distance steps from t toward rot, stopping early at
// the map edge.
func (g Grid) TileInDirection(t sim.Tile, rot sim.Rotation, distance int) sim.Tile {
	current := t
	for i := 0; i < distance; i++ {
		next, ok := g.Neighbor(current, rot)
		if !ok {
			break
		}
		current = next
	}
	return current
}

// Distance is the number of hex steps between two tiles.
func (g Grid) Distance(from, to sim.Tile) int {
	fq, fr := g.axial(from)
	tq, tr := g.axial(to)
	dq := fq - tq
	dr := fr - tr
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

// Direction returns the neighbor direction whose 60 degree sector contains the
// bearing from one tile to another.
func (g Grid) Direction(from, to sim.Tile) sim.Rotation {
	if from == to {
		return sim.RotationNone
	}
	x, y := g.pixel(to)
	fx, fy := g.pixel(from)
	angle := math.Atan2(-(y-fy), x-fx) * 180 / math.Pi
	sector := int(math.Round(angle / 60))
	sector = ((sector % sim.RotationCount) + sim.RotationCount) % sim.RotationCount
	return sectorRotations[sector]
}

// Line returns the tiles on the straight line between two tiles, endpoints
// included.
func (g Grid) Line(from, to sim.Tile) []sim.Tile {
	n := g.Distance(from, to)
	if n == 0 {
		return []sim.Tile{from}
	}
	fq, fr := g.axial(from)
	tq, tr := g.axial(to)
	// Nudge off exact hex corners so ties resolve consistently.
	const eps = 1e-6
	line := make([]sim.Tile, 0, n+1)
	for i := 0; i <= n; i++ {
		step := float64(i) / float64(n)
		q := lerp(float64(fq)+eps, float64(tq)+eps, step)
		r := lerp(float64(fr)+eps, float64(tr)+eps, step)
		rq, rr := roundAxial(q, r)
		tile, ok := g.fromAxial(rq, rr)
		if !ok {
			continue
		}
		line = append(line, tile)
	}
	return line
}

func (g Grid) pixel(t sim.Tile) (x, y float64) {
	q, r := g.axial(t)
	return math.Sqrt(3) * (float64(q) + float64(r)/2), 1.5 * float64(r)
}

func roundAxial(q, r float64) (int, int) {
	s := -q - r
	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)
	dq := math.Abs(rq - q)
	dr := math.Abs(rr - r)
	ds := math.Abs(rs - s)
	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	}
	return int(rq), int(rr)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
