package dispatch

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/bridge/command"
	"github.com/cory-johannsen/simbridge/internal/bridge/query"
	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

const secondsPerHour = 3600

// objectActionHandler runs an avatar action against a world object.
func (d *Dispatcher) objectActionHandler(action func(actor, target *sim.Object) error) handlerFunc {
	return func(_ context.Context, req command.ParseResult) Response {
		if len(req.Args) < 1 {
			return fail("usage=interact|talk|pickup <object_id>")
		}
		id, isInt := textutil.ParseInt(req.Arg(0))
		if !isInt {
			return fail("invalid_object_id")
		}
		target := query.FindWorldObject(d.sim, id)
		if target == nil {
			return fail("object_not_found")
		}
		player := d.sim.Player()
		if player == nil {
			return fail("player_unavailable")
		}
		if err := action(player, target); err != nil {
			d.logger.Debug("action refused",
				zap.String("command", req.Command),
				zap.Int("target", id),
				zap.Error(err),
			)
			return fail("action_failed")
		}
		return ok("action_started=1")
	}
}

// handleUseSkill takes the last argument as the target id and everything
// before it as the skill name, so multi-word names need no quoting.
func (d *Dispatcher) handleUseSkill(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 2 {
		return fail("usage=use_skill <skill_name> <target_id>")
	}
	last := len(req.Args) - 1
	id, isInt := textutil.ParseInt(req.Args[last])
	if !isInt {
		return fail("invalid_target_id")
	}
	skill := parseSkill(d.sim, textutil.JoinTokens(req.Args[:last], 0))
	if skill < 0 {
		return fail("invalid_skill_name")
	}
	target := query.FindWorldObject(d.sim, id)
	if target == nil {
		return fail("target_not_found")
	}
	player := d.sim.Player()
	if player == nil {
		return fail("player_unavailable")
	}
	if err := d.sim.UseSkillOn(player, target, skill); err != nil {
		return fail("skill_use_failed")
	}
	return ok("action_started=1")
}

func (d *Dispatcher) handleWait(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=wait <hours>")
	}
	hours, isInt := textutil.ParseInt(req.Arg(0))
	if !isInt || hours <= 0 {
		return fail("invalid_hours")
	}
	if d.sim.InCombat() {
		return fail("cannot_wait_in_combat")
	}
	seconds := min(int64(hours)*secondsPerHour, math.MaxInt32)
	d.sim.AdvanceGameTime(int(seconds))
	d.sim.RestHeal(hours)
	return ok(fmt.Sprintf("hours_advanced=%d", hours))
}
