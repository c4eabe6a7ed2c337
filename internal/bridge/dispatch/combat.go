package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/bridge/command"
	"github.com/cory-johannsen/simbridge/internal/bridge/query"
	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// handleAttack starts or continues combat against a target. An aimed attack
// names a body part and needs combat running and the avatar's turn; outside
// combat it only starts combat.
func (d *Dispatcher) handleAttack(_ context.Context, req command.ParseResult) Response {
	if len(req.Args) < 1 {
		return fail("usage=attack <target_id> [body_part]")
	}
	id, isInt := textutil.ParseInt(req.Arg(0))
	if !isInt {
		return fail("invalid_target_id")
	}
	target := query.FindWorldObject(d.sim, id)
	if target == nil {
		return fail("target_not_found")
	}

	if len(req.Args) < 2 {
		d.sim.StartAttack(target)
		return ok("attack_started=1")
	}

	location, found := parseHitLocation(req.Arg(1))
	if !found {
		return fail("invalid_body_part")
	}
	if !d.sim.InCombat() {
		d.sim.StartAttack(target)
		return ok("combat_started=1 body_part_ignored_until_combat")
	}
	player := d.sim.Player()
	if player == nil || d.sim.WhoseTurn() != player {
		return fail("not_players_turn")
	}
	mode, _, err := d.sim.CurrentAttack()
	if err != nil {
		return fail("cannot_get_attack_mode")
	}
	if err := d.sim.Attack(player, target, mode, location); err != nil {
		d.logger.Debug("attack refused", zap.Int("target", id), zap.Error(err))
		return fail("attack_failed")
	}
	return ok("attack_started=1")
}

func (d *Dispatcher) handleEndTurn(context.Context, command.ParseResult) Response {
	if !d.sim.InCombat() {
		return fail("not_in_combat")
	}
	d.sim.EndTurn()
	return ok("turn_ended=1")
}

// handleReload reloads the weapon in the active hand. In combat the reload
// cost comes out of the avatar's action points, floored at zero.
func (d *Dispatcher) handleReload(context.Context, command.ParseResult) Response {
	weapon, err := d.sim.ActiveItem()
	if err != nil || weapon == nil {
		return fail("no_active_item")
	}
	if d.sim.ItemType(weapon) != sim.ItemWeapon {
		return fail("active_item_not_weapon")
	}
	player := d.sim.Player()
	if err := d.sim.TryReload(player, weapon); err != nil {
		return fail("reload_failed")
	}

	if d.sim.InCombat() && player != nil && player.Critter != nil {
		mode := sim.HitModeLeftReload
		if d.sim.ActiveHandIsRight() {
			mode = sim.HitModeRightReload
		}
		cost := d.sim.ActionCost(player, mode)
		player.Critter.ActionPoints = max(player.Critter.ActionPoints-cost, 0)
		d.sim.RefreshActionPoints(player.Critter.ActionPoints, d.sim.FreeMove())
	}
	d.sim.RefreshItems()
	return ok("reloaded=1")
}

func (d *Dispatcher) handleChangeWeapon(context.Context, command.ParseResult) Response {
	if err := d.sim.ToggleItems(); err != nil {
		return fail("change_weapon_failed")
	}
	return ok("weapon_changed=1")
}

func (d *Dispatcher) handleFlee(context.Context, command.ParseResult) Response {
	if !d.sim.InCombat() {
		return fail("not_in_combat")
	}
	d.sim.EndCombat()
	return ok("flee_attempted=1")
}
