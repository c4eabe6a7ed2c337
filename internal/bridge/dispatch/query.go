package dispatch

import (
	"context"

	"github.com/cory-johannsen/simbridge/internal/bridge/command"
	"github.com/cory-johannsen/simbridge/internal/bridge/query"
)

func (d *Dispatcher) handleHelp(context.Context, command.ParseResult) Response {
	return ok(d.registry.HelpText())
}

func (d *Dispatcher) handleState(context.Context, command.ParseResult) Response {
	return ok(query.StateReport(d.sim))
}

func (d *Dispatcher) handleLook(context.Context, command.ParseResult) Response {
	if d.sim.Player() == nil {
		return fail("player_unavailable")
	}
	return ok(query.LookReport(d.sim))
}

func (d *Dispatcher) handleDebugObjects(context.Context, command.ParseResult) Response {
	return ok(query.DebugObjectsReport(d.sim))
}

func (d *Dispatcher) handleDebugNearby(context.Context, command.ParseResult) Response {
	if d.sim.Player() == nil {
		return fail("player_unavailable")
	}
	return ok(query.DebugNearbyReport(d.sim))
}
