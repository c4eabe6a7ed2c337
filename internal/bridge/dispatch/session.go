package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/bridge/command"
	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// Quick-save slots are numbered 1..10 on the wire and 0..9 internally.
const saveSlotCount = 10

func (d *Dispatcher) handleNewGame(context.Context, command.ParseResult) Response {
	if !d.sim.InMainMenu() {
		return fail("new_game_available_only_in_main_menu")
	}
	return d.queueKey(sim.KeyLowercaseN)
}

func (d *Dispatcher) handleLoadGame(context.Context, command.ParseResult) Response {
	if !d.sim.InMainMenu() {
		return fail("load_game_available_only_in_main_menu")
	}
	return d.queueKey(sim.KeyLowercaseL)
}

func (d *Dispatcher) handleExit(context.Context, command.ParseResult) Response {
	if d.sim.InMainMenu() {
		d.sim.QueueKey(sim.KeyLowercaseE)
	} else {
		d.sim.RequestQuit()
	}
	return ok("quit_requested=1")
}

func (d *Dispatcher) handleKey(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=key <code|name>")
	}
	code := parseKeyCode(req.Arg(0))
	if code < 0 {
		return fail("invalid_key")
	}
	return d.queueKey(code)
}

func (d *Dispatcher) handleSave(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=save <slot>")
	}
	slot, isInt := textutil.ParseInt(req.Arg(0))
	if !isInt {
		return fail("invalid_slot")
	}
	if slot >= 1 && slot <= saveSlotCount {
		slot--
	}
	if slot < 0 || slot >= saveSlotCount {
		return fail("slot_out_of_range")
	}
	d.sim.SetQuickSaveSlot(slot)
	if err := d.sim.QuickSave(); err != nil {
		d.logger.Warn("quick save failed", zap.Int("slot", slot), zap.Error(err))
		return fail("save_failed")
	}
	return ok(fmt.Sprintf("saved_slot=%d", slot+1))
}
