package dispatch

import (
	"context"
	"strings"

	"github.com/cory-johannsen/simbridge/internal/bridge/command"
	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// farewellWords mark the option that ends a conversation.
var farewellWords = []string{"goodbye", "bye", "leave", "done"}

func (d *Dispatcher) handleSay(_ context.Context, req command.ParseResult) Response {
	if !d.sim.DialogActive() {
		return fail("not_in_dialogue")
	}
	if len(req.Args) < 1 {
		return fail("usage=say <option_number>")
	}
	option, isInt := textutil.ParseInt(req.Arg(0))
	if !isInt || option <= 0 {
		return fail("invalid_option_number")
	}
	if err := d.sim.SelectOption(option - 1); err != nil {
		return fail("option_selection_failed")
	}
	return ok("option_selected=1")
}

func (d *Dispatcher) handleBarter(context.Context, command.ParseResult) Response {
	if !d.sim.DialogActive() {
		return fail("not_in_dialogue")
	}
	return d.queueKey(sim.KeyLowercaseB)
}

// handleEnd picks the first farewell option, or the last option when none
// reads like one.
func (d *Dispatcher) handleEnd(context.Context, command.ParseResult) Response {
	if !d.sim.DialogActive() {
		return fail("not_in_dialogue")
	}
	options := d.sim.Options()
	if len(options) == 0 {
		return fail("no_dialogue_options")
	}
	if err := d.sim.SelectOption(farewellOption(options)); err != nil {
		return fail("option_selection_failed")
	}
	return ok("option_selected=1")
}

func farewellOption(options []string) int {
	for i, text := range options {
		lowered := textutil.Lower(textutil.StripDialogPrefix(text))
		for _, word := range farewellWords {
			if strings.Contains(lowered, word) {
				return i
			}
		}
	}
	return len(options) - 1
}
