package dispatch

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/simbridge/internal/bridge/command"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

func (d *Dispatcher) handleWorldMap(context.Context, command.ParseResult) Response {
	if err := d.sim.LeaveMap(); err != nil {
		return fail("worldmap_transition_failed")
	}
	return ok("worldmap_requested=1")
}

// handleTravel requests travel to a known town by name.
func (d *Dispatcher) handleTravel(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=travel <location_name>")
	}
	if !d.sim.WorldMapActive() {
		return fail("not_on_worldmap")
	}
	town := d.sim.FindTown(req.Rest(0))
	if town < 0 {
		return fail("unknown_location")
	}
	if !d.sim.TownKnown(town) {
		return fail("location_not_known")
	}
	d.sim.QueueKey(sim.KeyTownBase + town)
	return ok(fmt.Sprintf("travel_requested=%d", town))
}

func (d *Dispatcher) handleCancel(context.Context, command.ParseResult) Response {
	if !d.sim.WorldMapActive() {
		return fail("not_on_worldmap")
	}
	return d.queueKey(sim.KeyEscape)
}
