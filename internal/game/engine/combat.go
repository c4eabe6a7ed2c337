package engine

import (
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/game/dice"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

const (
	// combatJoinRadius is how far from the defender its allies join a fight.
	combatJoinRadius = 15
	defaultToHit     = 50
	punchDamage      = "1d3"
	punchAPCost      = 3
	defaultWeaponAP  = 4
	defaultReloadAP  = 2
	killExperience   = 25
)

// calledShotPenalty is the to-hit modifier for aiming at each body part.
var calledShotPenalty = map[sim.HitLocation]int{
	sim.HitHead:     -40,
	sim.HitEyes:     -60,
	sim.HitGroin:    -30,
	sim.HitLeftArm:  -30,
	sim.HitRightArm: -30,
	sim.HitLeftLeg:  -20,
	sim.HitRightLeg: -20,
}

type combatState struct {
	order    []*sim.Object
	turn     int
	freeMove int
}

func (c *combatState) current() *sim.Object {
	return c.order[c.turn]
}

// WhoseTurn implements sim.Combat.
func (e *Engine) WhoseTurn() *sim.Object {
	if e.combat == nil {
		return nil
	}
	return e.combat.current()
}

// FreeMove implements sim.Combat.
func (e *Engine) FreeMove() int {
	if e.combat == nil {
		return 0
	}
	return e.combat.freeMove
}

// StartAttack implements sim.Combat. Outside combat it starts a fight with
// the avatar acting first and opens with an unaimed attack.
func (e *Engine) StartAttack(target *sim.Object) {
	player := e.store.Player()
	if target == nil || target.Critter == nil || target.Critter.Dead || target == player {
		e.display("You can't attack that.")
		return
	}
	if e.combat == nil {
		e.beginCombat(target)
	}
	if e.combat.current() != player {
		e.display("It is not your turn.")
		return
	}
	mode, _, _ := e.CurrentAttack()
	if err := e.Attack(player, target, mode, sim.HitUncalled); err != nil {
		e.display("You can't attack right now.")
	}
}

func (e *Engine) beginCombat(target *sim.Object) {
	player := e.store.Player()
	var others []*sim.Object
	for _, obj := range e.store.ObjectsAt(player.Elevation) {
		if obj == player || obj.Critter == nil || obj.Critter.Dead {
			continue
		}
		if obj == target || (obj.Critter.Team == target.Critter.Team &&
			e.grid.Distance(obj.Tile, target.Tile) <= combatJoinRadius) {
			others = append(others, obj)
		}
	}
	slices.SortFunc(others, func(a, b *sim.Object) int { return a.ID - b.ID })
	e.combat = &combatState{order: append([]*sim.Object{player}, others...)}
	for _, c := range e.combat.order {
		c.Critter.ActionPoints = e.StatLevel(c, sim.StatMaxActionPoints)
	}
	e.display("Combat begins.")
	e.logger.Info("combat started",
		zap.Int("target", target.ID),
		zap.Int("combatants", len(e.combat.order)),
	)
	e.refreshHUD()
}

// Attack implements sim.Combat.
func (e *Engine) Attack(attacker, target *sim.Object, mode sim.HitMode, location sim.HitLocation) error {
	if e.combat == nil {
		return rejected("not in combat")
	}
	if attacker == nil || e.combat.current() != attacker {
		return rejected("not the attacker's turn")
	}
	if target == nil || target.Critter == nil || target.Critter.Dead {
		return rejected("invalid target")
	}
	if attacker.Elevation != target.Elevation {
		return rejected("target is on another elevation")
	}
	cost := e.ActionCost(attacker, mode)
	if attacker.Critter.ActionPoints < cost {
		return rejected("not enough action points")
	}
	weapon := e.weaponFor(attacker, mode)
	reach := 1
	damage := punchDamage
	spec := e.weaponSpec(weapon)
	if spec != nil {
		reach = max(spec.Range, 1)
		damage = spec.Damage
	} else if cs, ok := e.store.Spec(attacker.ID); ok && cs.Critter != nil && cs.Critter.Damage != "" {
		damage = cs.Critter.Damage
	}
	distance := e.ObjectDistance(attacker, target)
	if distance > reach {
		return rejected("target out of range")
	}
	if spec != nil && spec.Capacity > 0 {
		rounds := e.store.Ammo(weapon.ID)
		if rounds == 0 {
			return rejected("out of ammo")
		}
		e.store.SetAmmo(weapon.ID, rounds-1)
	}
	attacker.Critter.ActionPoints -= cost

	chance := e.toHit(attacker, distance) + calledShotPenalty[location]
	chance = min(max(chance, 5), 95)
	if !e.roller.Percent(chance) {
		e.display("%s missed %s.", attacker.Name, target.Name)
		e.afterAttack(attacker)
		return nil
	}
	expr, err := dice.Parse(damage)
	if err != nil {
		expr = dice.MustParse(punchDamage)
	}
	amount := e.roller.Roll(expr).Total()
	if location == sim.HitHead || location == sim.HitEyes {
		amount += amount / 2
	}
	target.Critter.HitPoints -= amount
	e.display("%s hit %s for %d hit points.", attacker.Name, target.Name, amount)
	if target.Critter.HitPoints <= 0 {
		e.kill(attacker, target)
	}
	e.afterAttack(attacker)
	return nil
}

func (e *Engine) toHit(attacker *sim.Object, distance int) int {
	if attacker == e.store.Player() {
		return defaultToHit + 4*e.StatLevel(attacker, sim.StatAgility) - 3*distance
	}
	if spec, ok := e.store.Spec(attacker.ID); ok && spec.Critter != nil && spec.Critter.ToHit > 0 {
		return spec.Critter.ToHit
	}
	return defaultToHit
}

func (e *Engine) kill(killer, victim *sim.Object) {
	victim.Critter.HitPoints = 0
	victim.Critter.Dead = true
	victim.Flags |= sim.FlagFlat
	delete(e.moves, victim.ID)
	e.display("%s was killed.", victim.Name)
	if killer == e.store.Player() {
		e.experience += killExperience
	}
	e.logger.Info("critter killed", zap.Int("killer", killer.ID), zap.Int("victim", victim.ID))
}

// afterAttack ends combat once one side is left standing.
func (e *Engine) afterAttack(attacker *sim.Object) {
	if attacker == e.store.Player() {
		e.refreshHUD()
	}
	if e.combat == nil {
		return
	}
	player := e.store.Player()
	if player.Critter.Dead {
		e.display("You have died.")
		e.EndCombat()
		return
	}
	for _, c := range e.combat.order {
		if c != player && !c.Critter.Dead && c.IsHostileTo(player) {
			return
		}
	}
	e.EndCombat()
}

// EndTurn implements sim.Combat. Every other combatant acts before control
// returns to the avatar.
func (e *Engine) EndTurn() {
	if e.combat == nil {
		return
	}
	player := e.store.Player()
	for e.combat != nil {
		e.combat.turn = (e.combat.turn + 1) % len(e.combat.order)
		c := e.combat.current()
		if c == player {
			c.Critter.ActionPoints = e.StatLevel(c, sim.StatMaxActionPoints)
			e.combat.freeMove = 0
			e.refreshHUD()
			return
		}
		if c.Critter.Dead {
			continue
		}
		e.aiTurn(c)
	}
}

// aiTurn closes on the avatar and attacks until out of action points.
func (e *Engine) aiTurn(c *sim.Object) {
	player := e.store.Player()
	c.Critter.ActionPoints = e.StatLevel(c, sim.StatMaxActionPoints)
	if !c.IsHostileTo(player) || c.Elevation != player.Elevation {
		return
	}
	for e.combat != nil && c.Critter.ActionPoints > 0 && !player.Critter.Dead {
		if e.ObjectDistance(c, player) <= 1 {
			if err := e.Attack(c, player, sim.HitModePunch, sim.HitUncalled); err != nil {
				return
			}
			continue
		}
		path := e.FindPath(sim.PathRequest{Mover: c, From: c.Tile, To: player.Tile, AllowBlockedDestination: true})
		if len(path.Steps) < 2 {
			return
		}
		next, _ := e.grid.Neighbor(c.Tile, path.Steps[0])
		c.Tile = next
		c.Rotation = path.Steps[0]
		c.Critter.ActionPoints--
	}
}

// EndCombat implements sim.Combat.
func (e *Engine) EndCombat() {
	if e.combat == nil {
		return
	}
	e.combat = nil
	player := e.store.Player()
	player.Critter.ActionPoints = e.StatLevel(player, sim.StatMaxActionPoints)
	e.display("Combat ends.")
	e.logger.Info("combat ended")
	e.refreshHUD()
}
