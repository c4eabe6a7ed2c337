package engine

import (
	"slices"

	"github.com/cory-johannsen/simbridge/internal/sim"
)

// FindPath implements sim.PathFinder with a breadth-first search over the
// six hex neighbors. Paths longer than MaxPathLength are not found.
//
// Precondition: req.Mover must be non-nil.
// Postcondition: Steps is empty when From equals To or no path exists.
func (e *Engine) FindPath(req sim.PathRequest) sim.PathResult {
	var res sim.PathResult
	if !e.grid.Valid(req.From) || !e.grid.Valid(req.To) || req.From == req.To {
		return res
	}
	blocked := e.blockedTiles(req.Mover, req.Mover.Elevation)
	if blocked[req.To] && !req.AllowBlockedDestination {
		return res
	}

	type node struct {
		parent sim.Tile
		dir    sim.Rotation
		depth  int
	}
	seen := map[sim.Tile]node{req.From: {parent: sim.NoTile, dir: sim.RotationNone}}
	queue := []sim.Tile{req.From}
	found := false
	for len(queue) > 0 && !found {
		cur := queue[0]
		queue = queue[1:]
		depth := seen[cur].depth
		if depth >= MaxPathLength {
			continue
		}
		for rot := sim.Rotation(0); rot < sim.RotationCount; rot++ {
			next, ok := e.grid.Neighbor(cur, rot)
			if !ok {
				continue
			}
			if _, dup := seen[next]; dup {
				continue
			}
			if next == req.To {
				seen[next] = node{parent: cur, dir: rot, depth: depth + 1}
				found = true
				break
			}
			if blocked[next] {
				continue
			}
			seen[next] = node{parent: cur, dir: rot, depth: depth + 1}
			res.Visited = append(res.Visited, next)
			queue = append(queue, next)
		}
	}
	if !found {
		return res
	}
	for t := req.To; t != req.From; t = seen[t].parent {
		res.Steps = append(res.Steps, seen[t].dir)
	}
	slices.Reverse(res.Steps)
	return res
}

// blockedTiles indexes every tile on elevation that mover cannot enter.
func (e *Engine) blockedTiles(mover *sim.Object, elevation int) map[sim.Tile]bool {
	blocked := make(map[sim.Tile]bool)
	for _, obj := range e.store.ObjectsAt(elevation) {
		if e.blocks(mover, obj) {
			blocked[obj.Tile] = true
		}
	}
	return blocked
}

// walk returns the tile reached by following steps from start.
func (e *Engine) walk(start sim.Tile, steps []sim.Rotation) sim.Tile {
	t := start
	for _, rot := range steps {
		next, ok := e.grid.Neighbor(t, rot)
		if !ok {
			break
		}
		t = next
	}
	return t
}
