package engine

import (
	"strings"

	"github.com/cory-johannsen/simbridge/internal/game/world"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// Primary stats are bounded to this range by the editor.
const (
	statMin = 1
	statMax = 10
)

// traitBonus returns the primary stat modifier granted by the avatar's
// chosen traits.
func (e *Engine) traitBonus(stat sim.Stat) int {
	bonus := 0
	for _, trait := range e.traits {
		if trait < 0 {
			continue
		}
		switch strings.ToLower(e.TraitName(trait)) {
		case "gifted":
			bonus++
		case "bruiser":
			if stat == sim.StatStrength {
				bonus += 2
			}
		case "small frame":
			if stat == sim.StatAgility {
				bonus++
			}
		}
	}
	return bonus
}

// StatLevel implements sim.Stats.
func (e *Engine) StatLevel(obj *sim.Object, stat sim.Stat) int {
	if obj == nil || obj.Critter == nil {
		return 0
	}
	if stat >= 0 && stat < sim.SpecialStatCount {
		v := e.store.BaseStat(obj.ID, stat)
		if obj == e.store.Player() {
			v += e.traitBonus(stat)
		}
		return v
	}
	switch stat {
	case sim.StatMaxHitPoints:
		return e.maxHitPoints(obj)
	case sim.StatMaxActionPoints:
		return 5 + e.StatLevel(obj, sim.StatAgility)/2
	case sim.StatArmorClass:
		ac := e.StatLevel(obj, sim.StatAgility)
		if armor := e.Worn(obj); armor != nil {
			if spec, ok := e.store.Spec(armor.ID); ok {
				ac += spec.ArmorClass
			}
		}
		return ac
	}
	return 0
}

// maxHitPoints derives the avatar's maximum from strength and endurance.
// Other critters keep the hit points they were authored with as their
// maximum.
func (e *Engine) maxHitPoints(obj *sim.Object) int {
	if obj == e.store.Player() {
		return 15 + e.StatLevel(obj, sim.StatStrength) + 2*e.StatLevel(obj, sim.StatEndurance) + 2*(e.level-1)
	}
	if spec, ok := e.store.Spec(obj.ID); ok && spec.Critter != nil && spec.Critter.HitPoints > 0 {
		return spec.Critter.HitPoints
	}
	return 15 + e.StatLevel(obj, sim.StatStrength) + 2*e.StatLevel(obj, sim.StatEndurance)
}

// PCStat implements sim.Stats.
func (e *Engine) PCStat(stat sim.PCStat) int {
	switch stat {
	case sim.PCStatExperience:
		return e.experience
	case sim.PCStatLevel:
		return e.level
	}
	return 0
}

// StatName implements sim.Stats.
func (e *Engine) StatName(stat sim.Stat) string {
	switch stat {
	case sim.StatMaxHitPoints:
		return "Hit Points"
	case sim.StatMaxActionPoints:
		return "Action Points"
	case sim.StatArmorClass:
		return "Armor Class"
	}
	name := world.StatName(stat)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// RecalcDerived implements sim.Stats. During character creation the avatar
// is kept at full health and action points.
func (e *Engine) RecalcDerived(obj *sim.Object) {
	if obj == nil || obj.Critter == nil {
		return
	}
	maxHP := e.maxHitPoints(obj)
	if e.screen == screenEditor && obj == e.store.Player() {
		obj.Critter.HitPoints = maxHP
		obj.Critter.ActionPoints = e.StatLevel(obj, sim.StatMaxActionPoints)
		return
	}
	obj.Critter.HitPoints = min(obj.Critter.HitPoints, maxHP)
}

// skillLevel is the avatar's percentage chance with skill.
func (e *Engine) skillLevel(obj *sim.Object, skill int) int {
	level := 2 * (e.StatLevel(obj, sim.StatAgility) + e.StatLevel(obj, sim.StatPerception))
	if obj == e.store.Player() {
		for _, tagged := range e.tagged {
			if tagged == skill {
				level += 20
				break
			}
		}
	}
	return level
}
