package engine

import (
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// CharacterPoints implements sim.Editor.
func (e *Engine) CharacterPoints() int {
	return e.points
}

// SetCharacterPoints implements sim.Editor.
func (e *Engine) SetCharacterPoints(points int) {
	e.points = points
}

// IncStat implements sim.Editor.
func (e *Engine) IncStat(obj *sim.Object, stat sim.Stat) error {
	if obj == nil || obj.Critter == nil || stat < 0 || stat >= sim.SpecialStatCount {
		return rejected("not a primary stat")
	}
	base := e.store.BaseStat(obj.ID, stat)
	if base >= statMax {
		return rejected("stat at maximum")
	}
	e.store.SetBaseStat(obj.ID, stat, base+1)
	return nil
}

// DecStat implements sim.Editor.
func (e *Engine) DecStat(obj *sim.Object, stat sim.Stat) error {
	if obj == nil || obj.Critter == nil || stat < 0 || stat >= sim.SpecialStatCount {
		return rejected("not a primary stat")
	}
	base := e.store.BaseStat(obj.ID, stat)
	if base <= statMin {
		return rejected("stat at minimum")
	}
	e.store.SetBaseStat(obj.ID, stat, base-1)
	return nil
}

// RemainingTagSkills implements sim.Editor.
func (e *Engine) RemainingTagSkills() int {
	used := 0
	for _, s := range e.tagged {
		if s >= 0 {
			used++
		}
	}
	return max(maxCreationTags-used, 0)
}

// RemainingTraits implements sim.Editor.
func (e *Engine) RemainingTraits() int {
	used := 0
	for _, t := range e.traits {
		if t >= 0 {
			used++
		}
	}
	return sim.TraitSlots - used
}

// TempTagSkill implements sim.Editor.
func (e *Engine) TempTagSkill(index int) int {
	if index < 0 || index >= len(e.tagged) {
		return -1
	}
	return e.tagged[index]
}

// TempTrait implements sim.Editor.
func (e *Engine) TempTrait(index int) int {
	if index < 0 || index >= len(e.traits) {
		return -1
	}
	return e.traits[index]
}

// ToggleTagSkill implements sim.Editor.
func (e *Engine) ToggleTagSkill(skill int) error {
	if skill < 0 || skill >= e.SkillCount() {
		return rejected("unknown skill")
	}
	if toggleSlot(e.tagged[:], skill, maxCreationTags) {
		return nil
	}
	return rejected("no tag slots remaining")
}

// ToggleTrait implements sim.Editor.
func (e *Engine) ToggleTrait(trait int) error {
	if trait < 0 || trait >= e.TraitCount() {
		return rejected("unknown trait")
	}
	if toggleSlot(e.traits[:], trait, sim.TraitSlots) {
		e.RecalcDerived(e.store.Player())
		return nil
	}
	return rejected("no trait slots remaining")
}

// toggleSlot removes v from slots, or stores it in the first free slot among
// the first limit. Remaining entries are kept packed at the front.
func toggleSlot(slots []int, v, limit int) bool {
	for i, s := range slots {
		if s != v {
			continue
		}
		copy(slots[i:], slots[i+1:])
		slots[len(slots)-1] = -1
		return true
	}
	for i := 0; i < limit && i < len(slots); i++ {
		if slots[i] < 0 {
			slots[i] = v
			return true
		}
	}
	return false
}

// HasInvalidSpecialStats implements sim.Editor. Trait bonuses may push a
// stat past the maximum.
func (e *Engine) HasInvalidSpecialStats() bool {
	player := e.store.Player()
	for stat := sim.Stat(0); stat < sim.SpecialStatCount; stat++ {
		if e.StatLevel(player, stat) > statMax {
			return true
		}
	}
	return false
}

// SkillCount implements sim.Editor.
func (e *Engine) SkillCount() int {
	return len(e.scene.SkillNames())
}

// SkillName implements sim.Editor.
func (e *Engine) SkillName(skill int) string {
	names := e.scene.SkillNames()
	if skill < 0 || skill >= len(names) {
		return ""
	}
	return names[skill]
}

// TraitCount implements sim.Editor.
func (e *Engine) TraitCount() int {
	return len(e.scene.TraitNames())
}

// TraitName implements sim.Editor.
func (e *Engine) TraitName(trait int) string {
	names := e.scene.TraitNames()
	if trait < 0 || trait >= len(names) {
		return ""
	}
	return names[trait]
}

// creationComplete reports whether the new character may leave the editor.
func (e *Engine) creationComplete() bool {
	return e.points == 0 && e.RemainingTagSkills() == 0 && !e.HasInvalidSpecialStats()
}
