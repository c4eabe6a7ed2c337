package engine

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/game/world"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// hudState is what the interface bar last displayed.
type hudState struct {
	actionPoints int
	freeMove     int
	armorClass   int
	leftItem     int
	rightItem    int
}

// HUD returns the interface bar readouts: action points, free move and
// armor class.
func (e *Engine) HUD() (actionPoints, freeMove, armorClass int) {
	return e.hud.actionPoints, e.hud.freeMove, e.hud.armorClass
}

func (e *Engine) refreshHUD() {
	player := e.store.Player()
	e.hud.actionPoints = player.Critter.ActionPoints
	e.hud.freeMove = e.FreeMove()
	e.RefreshArmorClass()
	e.RefreshItems()
}

// weaponFor returns the item mode attacks with, or nil for unarmed attacks.
func (e *Engine) weaponFor(owner *sim.Object, mode sim.HitMode) *sim.Object {
	var item *sim.Object
	switch mode {
	case sim.HitModeLeftPrimary, sim.HitModeLeftReload:
		item = e.LeftHand(owner)
	case sim.HitModeRightPrimary, sim.HitModeRightReload:
		item = e.RightHand(owner)
	}
	if item == nil || e.ItemType(item) != sim.ItemWeapon {
		return nil
	}
	return item
}

func (e *Engine) weaponSpec(item *sim.Object) *world.WeaponSpec {
	if item == nil {
		return nil
	}
	spec, ok := e.store.Spec(item.ID)
	if !ok {
		return nil
	}
	return spec.Weapon
}

// CurrentAttack implements sim.Interface.
func (e *Engine) CurrentAttack() (sim.HitMode, bool, error) {
	player := e.store.Player()
	if player == nil {
		return sim.HitModePunch, false, rejected("no avatar")
	}
	if e.activeRight {
		if e.weaponFor(player, sim.HitModeRightPrimary) != nil {
			return sim.HitModeRightPrimary, false, nil
		}
	} else if e.weaponFor(player, sim.HitModeLeftPrimary) != nil {
		return sim.HitModeLeftPrimary, false, nil
	}
	return sim.HitModePunch, false, nil
}

// ActiveItem implements sim.Interface. An empty active hand yields nil.
func (e *Engine) ActiveItem() (*sim.Object, error) {
	player := e.store.Player()
	if e.activeRight {
		return e.RightHand(player), nil
	}
	return e.LeftHand(player), nil
}

// ActiveHandIsRight implements sim.Interface.
func (e *Engine) ActiveHandIsRight() bool {
	return e.activeRight
}

// ToggleItems implements sim.Interface.
func (e *Engine) ToggleItems() error {
	if e.screen != screenGame {
		return rejected("not on a map")
	}
	e.activeRight = !e.activeRight
	e.RefreshItems()
	return nil
}

// RefreshItems implements sim.Interface.
func (e *Engine) RefreshItems() {
	player := e.store.Player()
	e.hud.leftItem, e.hud.rightItem = 0, 0
	if item := e.LeftHand(player); item != nil {
		e.hud.leftItem = item.ID
	}
	if item := e.RightHand(player); item != nil {
		e.hud.rightItem = item.ID
	}
}

// RefreshActionPoints implements sim.Interface.
func (e *Engine) RefreshActionPoints(actionPoints, freeMove int) {
	e.hud.actionPoints = actionPoints
	e.hud.freeMove = freeMove
	e.logger.Debug("action points refreshed",
		zap.Int("action_points", actionPoints),
		zap.Int("free_move", freeMove),
	)
}

// RefreshArmorClass implements sim.Interface.
func (e *Engine) RefreshArmorClass() {
	e.hud.armorClass = e.StatLevel(e.store.Player(), sim.StatArmorClass)
}
