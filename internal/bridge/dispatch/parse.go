package dispatch

import (
	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

var directions = map[string]sim.Rotation{
	"n":  sim.RotationNE,
	"ne": sim.RotationNE,
	"e":  sim.RotationE,
	"se": sim.RotationSE,
	"s":  sim.RotationSW,
	"sw": sim.RotationSW,
	"w":  sim.RotationW,
	"nw": sim.RotationNW,
}

// parseDirection resolves a compass name. North and south have no hex
// neighbor and map to north-east and south-west.
func parseDirection(s string) (sim.Rotation, bool) {
	rot, found := directions[textutil.Lower(s)]
	return rot, found
}

var specialStats = map[string]sim.Stat{
	"str":          sim.StatStrength,
	"strength":     sim.StatStrength,
	"per":          sim.StatPerception,
	"perception":   sim.StatPerception,
	"end":          sim.StatEndurance,
	"endurance":    sim.StatEndurance,
	"cha":          sim.StatCharisma,
	"charisma":     sim.StatCharisma,
	"int":          sim.StatIntelligence,
	"intelligence": sim.StatIntelligence,
	"agi":          sim.StatAgility,
	"agility":      sim.StatAgility,
	"luk":          sim.StatLuck,
	"luck":         sim.StatLuck,
}

func parseSpecialStat(s string) (sim.Stat, bool) {
	stat, found := specialStats[textutil.NormalizeName(s)]
	return stat, found
}

var hitLocations = map[string]sim.HitLocation{
	"head":     sim.HitHead,
	"leftarm":  sim.HitLeftArm,
	"larm":     sim.HitLeftArm,
	"rightarm": sim.HitRightArm,
	"rarm":     sim.HitRightArm,
	"torso":    sim.HitTorso,
	"body":     sim.HitTorso,
	"rightleg": sim.HitRightLeg,
	"rleg":     sim.HitRightLeg,
	"leftleg":  sim.HitLeftLeg,
	"lleg":     sim.HitLeftLeg,
	"eyes":     sim.HitEyes,
	"eye":      sim.HitEyes,
	"groin":    sim.HitGroin,
}

func parseHitLocation(s string) (sim.HitLocation, bool) {
	loc, found := hitLocations[textutil.NormalizeName(s)]
	return loc, found
}

var keyNames = map[string]int{
	"enter":    sim.KeyReturn,
	"return":   sim.KeyReturn,
	"esc":      sim.KeyEscape,
	"escape":   sim.KeyEscape,
	"space":    sim.KeySpace,
	"tab":      sim.KeyTab,
	"up":       sim.KeyArrowUp,
	"down":     sim.KeyArrowDown,
	"left":     sim.KeyArrowLeft,
	"right":    sim.KeyArrowRight,
	"home":     sim.KeyHome,
	"end":      sim.KeyEnd,
	"pgup":     sim.KeyPageUp,
	"pageup":   sim.KeyPageUp,
	"pgdown":   sim.KeyPageDown,
	"pagedown": sim.KeyPageDown,
}

// parseKeyCode accepts an integer code, a key name or a single character.
// It returns -1 when s is none of these.
func parseKeyCode(s string) int {
	if code, isInt := textutil.ParseInt(s); isInt {
		return code
	}
	if code, found := keyNames[textutil.Lower(s)]; found {
		return code
	}
	if len(s) == 1 {
		return int(s[0])
	}
	return -1
}

// parseSkill matches a skill by normalized display name, or returns -1.
func parseSkill(ed sim.Editor, s string) int {
	want := textutil.NormalizeName(s)
	for skill := range ed.SkillCount() {
		name := ed.SkillName(skill)
		if name != "" && textutil.NormalizeName(name) == want {
			return skill
		}
	}
	return -1
}

// parseTrait matches a trait by 1-based index, then 0-based index, then
// normalized display name. It returns -1 when nothing matches.
func parseTrait(ed sim.Editor, s string) int {
	count := ed.TraitCount()
	if index, isInt := textutil.ParseInt(s); isInt {
		if index >= 1 && index <= count {
			return index - 1
		}
		if index >= 0 && index < count {
			return index
		}
	}
	want := textutil.NormalizeName(s)
	for trait := range count {
		name := ed.TraitName(trait)
		if name != "" && textutil.NormalizeName(name) == want {
			return trait
		}
	}
	return -1
}
