// Package dispatch executes parsed bridge commands against the simulation.
//
// Every command reports through a Response; no error crosses the command
// boundary. Failure bodies are short machine-readable tokens or key=value
// lines.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/bridge/command"
	"github.com/cory-johannsen/simbridge/internal/bridge/nav"
	"github.com/cory-johannsen/simbridge/internal/observability"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// Response is the outcome of one command.
type Response struct {
	OK   bool
	Body string
}

// ok builds a successful Response.
func ok(body string) Response {
	return Response{OK: true, Body: body}
}

// fail builds a failed Response.
func fail(body string) Response {
	return Response{Body: body}
}

// handlerFunc executes one command.
type handlerFunc func(ctx context.Context, req command.ParseResult) Response

// Options configures a Dispatcher.
type Options struct {
	// Registry resolves command names. Nil uses command.DefaultRegistry.
	Registry *command.Registry
	// Navigation bounds goto.
	Navigation nav.Config
	// Logger must be non-nil.
	Logger *zap.Logger
	// Metrics may be nil.
	Metrics *observability.Metrics
}

// Dispatcher maps command names to handlers.
type Dispatcher struct {
	sim      sim.Simulation
	registry *command.Registry
	planner  *nav.Planner
	handlers map[string]handlerFunc
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// New builds a Dispatcher over s.
//
// Precondition: s and opts.Logger must be non-nil.
// Postcondition: Returns an error if a registered command has no handler.
func New(s sim.Simulation, opts Options) (*Dispatcher, error) {
	registry := opts.Registry
	if registry == nil {
		registry = command.DefaultRegistry()
	}
	d := &Dispatcher{
		sim:      s,
		registry: registry,
		planner:  nav.NewPlanner(s, opts.Navigation, opts.Logger),
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
	d.handlers = d.handlerTable()
	for _, cmd := range registry.Commands() {
		if _, found := d.handlers[cmd.Name]; !found {
			return nil, fmt.Errorf("command %q has no handler", cmd.Name)
		}
	}
	return d, nil
}

func (d *Dispatcher) handlerTable() map[string]handlerFunc {
	return map[string]handlerFunc{
		"help":          d.handleHelp,
		"state":         d.handleState,
		"look":          d.handleLook,
		"debug_objects": d.handleDebugObjects,
		"debug_nearby":  d.handleDebugNearby,

		"new_game":  d.handleNewGame,
		"load_game": d.handleLoadGame,
		"exit":      d.handleExit,
		"key":       d.handleKey,

		"stat_inc":     d.statHandler(true),
		"stat_dec":     d.statHandler(false),
		"tag_skill":    d.handleTagSkill,
		"trait_select": d.handleTraitSelect,
		"set_name":     d.handleSetName,
		"done":         d.handleDone,

		"move":       d.handleMove,
		"move_to":    d.handleMoveTo,
		"goto":       d.handleGoto,
		"enter":      d.handleEnter,
		"scan_exits": d.handleScanExits,

		"interact":  d.objectActionHandler(d.sim.UseObject),
		"talk":      d.objectActionHandler(d.sim.TalkTo),
		"pickup":    d.objectActionHandler(d.sim.PickUp),
		"use_skill": d.handleUseSkill,
		"wait":      d.handleWait,

		"attack":        d.handleAttack,
		"end_turn":      d.handleEndTurn,
		"reload":        d.handleReload,
		"change_weapon": d.handleChangeWeapon,
		"flee":          d.handleFlee,

		"say":    d.handleSay,
		"barter": d.handleBarter,
		"end":    d.handleEnd,

		"inventory": d.handleInventory,
		"equip":     d.handleEquip,
		"unequip":   d.handleUnequip,
		"use":       d.handleUse,
		"drop":      d.handleDrop,
		"examine":   d.handleExamine,

		"worldmap": d.handleWorldMap,
		"travel":   d.handleTravel,
		"cancel":   d.handleCancel,

		"save":      d.handleSave,
		"pipboy":    d.keyHandler(sim.KeyLowercaseP),
		"character": d.keyHandler(sim.KeyLowercaseC),
		"automap":   d.keyHandler(sim.KeyTab),
		"sneak":     d.handleSneak,
	}
}

// Dispatch parses line and runs the matching handler.
//
// Precondition: ctx bounds any wait a handler performs.
// Postcondition: Always returns a Response; unknown names yield
// "unknown_command" and blank lines "empty_command".
func (d *Dispatcher) Dispatch(ctx context.Context, line string) Response {
	start := time.Now()
	requestID := uuid.NewString()

	name := "unknown"
	var resp Response
	req, err := command.Parse(line)
	switch {
	case err != nil:
		resp = fail(err.Error())
	default:
		cmd, found := d.registry.Resolve(req.Command)
		if !found {
			resp = fail("unknown_command")
			break
		}
		name = cmd.Name
		resp = d.handlers[cmd.Name](ctx, req)
	}

	elapsed := time.Since(start)
	d.metrics.ObserveCommand(name, resp.OK, elapsed)
	d.logger.Debug("command processed",
		zap.String("request_id", requestID),
		zap.String("command", name),
		zap.String("line", line),
		zap.Bool("ok", resp.OK),
		zap.Duration("elapsed", elapsed),
	)
	return resp
}

// queueKey injects code and reports it.
func (d *Dispatcher) queueKey(code int) Response {
	d.sim.QueueKey(code)
	return ok(fmt.Sprintf("queued_key=%d", code))
}

func (d *Dispatcher) keyHandler(code int) handlerFunc {
	return func(context.Context, command.ParseResult) Response {
		return d.queueKey(code)
	}
}

// actionPoints is the avatar's movement budget: its remaining AP in combat,
// unlimited (-1) otherwise.
func (d *Dispatcher) actionPoints(player *sim.Object) int {
	if d.sim.InCombat() && player.Critter != nil {
		return player.Critter.ActionPoints
	}
	return -1
}
