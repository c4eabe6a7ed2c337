package engine

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/scripting"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// approach walks actor next to target and then runs act. When actor is
// already adjacent act runs immediately.
func (e *Engine) approach(actor, target *sim.Object, act func()) error {
	if actor == nil || target == nil {
		return rejected("no object")
	}
	if !e.store.IsPlaced(target.ID) {
		return rejected("target is not on the map")
	}
	if actor.Elevation != target.Elevation {
		return rejected("target is on another elevation")
	}
	if e.ObjectDistance(actor, target) <= 1 {
		act()
		return nil
	}
	path := e.FindPath(sim.PathRequest{Mover: actor, From: actor.Tile, To: target.Tile, AllowBlockedDestination: true})
	stop := 1
	if target.Has(sim.FlagMultiHex) {
		stop = 2
	}
	if len(path.Steps) <= stop {
		return rejected("target unreachable")
	}
	actionPoints := -1
	if e.combat != nil && actor.Critter != nil {
		actionPoints = actor.Critter.ActionPoints
	}
	e.startMotion(actor, path.Steps[:len(path.Steps)-stop], actionPoints, act)
	return nil
}

// UseObject implements sim.Actions.
func (e *Engine) UseObject(actor, target *sim.Object) error {
	return e.approach(actor, target, func() { e.useNow(actor, target) })
}

func (e *Engine) useNow(actor, target *sim.Object) {
	if e.scripts.Handled(target.ID, scripting.HookUse) {
		return
	}
	switch {
	case target.Portal != nil:
		if target.Portal.Locked {
			e.display("The %s is locked.", strings.ToLower(target.Name))
			return
		}
		target.Portal.Open = !target.Portal.Open
		if target.Portal.Open {
			e.display("You open the %s.", strings.ToLower(target.Name))
		} else {
			e.display("You close the %s.", strings.ToLower(target.Name))
		}
	case len(target.Inventory) > 0:
		e.display("You search the %s.", strings.ToLower(target.Name))
		for _, entry := range target.Inventory {
			actor.Inventory = append(actor.Inventory, entry)
			e.display("You take %s.", entry.Item.Name)
		}
		target.Inventory = nil
	case target.Type() == sim.TypeScenery:
		e.useScenery(actor, target)
	default:
		e.display("You see nothing out of the ordinary.")
	}
}

func (e *Engine) useScenery(actor, target *sim.Object) {
	proto, ok := e.store.Proto(target.PID)
	if !ok {
		e.display("Nothing happens.")
		return
	}
	elevation := actor.Elevation
	switch proto.SceneryType {
	case sim.SceneryLadderUp, sim.SceneryStairs:
		elevation++
	case sim.SceneryLadderDown:
		elevation--
	case sim.SceneryElevator:
		elevation = (elevation + 1) % sim.ElevationCount
	default:
		e.display("Nothing happens.")
		return
	}
	if elevation < 0 || elevation >= sim.ElevationCount {
		e.display("It doesn't go any further.")
		return
	}
	if err := e.Teleport(actor, actor.Tile, elevation); err != nil {
		e.display("Nothing happens.")
		return
	}
	e.display("You take the %s to level %d.", strings.ToLower(target.Name), elevation+1)
}

// TalkTo implements sim.Actions.
func (e *Engine) TalkTo(actor, target *sim.Object) error {
	if target == nil || target.Critter == nil {
		return rejected("not a critter")
	}
	if target.Critter.Dead {
		return rejected("target is dead")
	}
	if e.combat != nil {
		return rejected("cannot talk during combat")
	}
	return e.approach(actor, target, func() { e.talkNow(target) })
}

func (e *Engine) talkNow(target *sim.Object) {
	if e.scripts.Handled(target.ID, scripting.HookTalk) {
		return
	}
	spec, ok := e.store.Spec(target.ID)
	if !ok || spec.Dialogue == nil {
		e.display("%s doesn't have anything to say.", target.Name)
		return
	}
	e.startDialog(target, spec.Dialogue)
}

// PickUp implements sim.Actions.
func (e *Engine) PickUp(actor, target *sim.Object) error {
	if target == nil || target.Type() != sim.TypeItem {
		return rejected("not an item")
	}
	return e.approach(actor, target, func() {
		e.store.Lift(target)
		actor.Inventory = append(actor.Inventory, sim.InventoryItem{Item: target, Quantity: 1})
		e.display("You pick up %s.", target.Name)
	})
}

// UseSkillOn implements sim.Actions.
func (e *Engine) UseSkillOn(actor, target *sim.Object, skill int) error {
	if skill < 0 || skill >= e.SkillCount() {
		return rejected("unknown skill")
	}
	return e.approach(actor, target, func() { e.skillNow(actor, target, skill) })
}

func (e *Engine) skillNow(actor, target *sim.Object, skill int) {
	if e.scripts.Handled(target.ID, scripting.HookSkill, lua.LNumber(skill)) {
		return
	}
	chance := e.skillLevel(actor, skill)
	switch strings.ToLower(e.SkillName(skill)) {
	case "lockpick":
		if target.Portal == nil || !target.Portal.Locked {
			e.display("That doesn't need picking.")
			return
		}
		if e.roller.Percent(chance) {
			target.Portal.Locked = false
			e.display("You pick the lock.")
			return
		}
		e.display("You fail to pick the lock.")
	case "first aid", "doctor":
		if target.Critter == nil || target.Critter.Dead {
			e.display("Nothing happens.")
			return
		}
		if !e.roller.Percent(chance) {
			e.display("You fail to do any healing.")
			return
		}
		res, _ := e.roller.RollExpr("1d10")
		healed := e.heal(target, res.Total())
		e.display("You heal %d hit points.", healed)
	case "sneak":
		_ = e.ToggleSneak()
	default:
		e.display("Nothing happens.")
	}
	e.logger.Debug("skill used",
		zap.String("skill", e.SkillName(skill)),
		zap.Int("target", target.ID),
		zap.Int("chance", chance),
	)
}

// heal restores up to amount hit points and returns how many were restored.
func (e *Engine) heal(obj *sim.Object, amount int) int {
	before := obj.Critter.HitPoints
	obj.Critter.HitPoints = min(before+amount, e.maxHitPoints(obj))
	return obj.Critter.HitPoints - before
}

// ToggleSneak implements sim.Actions.
func (e *Engine) ToggleSneak() error {
	if e.screen != screenGame {
		return rejected("not on a map")
	}
	e.sneaking = !e.sneaking
	if e.sneaking {
		e.display("You are now sneaking.")
	} else {
		e.display("You stop sneaking.")
	}
	return nil
}

// Sneaking reports whether the avatar is sneaking.
func (e *Engine) Sneaking() bool {
	return e.sneaking
}
