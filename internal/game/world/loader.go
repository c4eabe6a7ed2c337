package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/simbridge/internal/sim"
)

// yamlScenarioFile is the top-level YAML structure for scenario files.
type yamlScenarioFile struct {
	Scenario Scenario `yaml:"scenario"`
}

// LoadScenarioFromFile reads and validates a scenario YAML file.
//
// Precondition: path must point to a readable YAML scenario file.
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %s: %w", path, err)
	}
	return LoadScenarioFromBytes(data)
}

// LoadScenarioFromBytes parses and validates a scenario from YAML bytes.
//
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadScenarioFromBytes(data []byte) (*Scenario, error) {
	var file yamlScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	sc := &file.Scenario
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}
	return sc, nil
}

// MarshalScenario renders sc in the same YAML layout LoadScenarioFromBytes reads.
func MarshalScenario(sc *Scenario) ([]byte, error) {
	data, err := yaml.Marshal(yamlScenarioFile{Scenario: *sc})
	if err != nil {
		return nil, fmt.Errorf("encoding scenario YAML: %w", err)
	}
	return data, nil
}

var flagNames = []struct {
	name string
	flag sim.Flags
}{
	{"hidden", sim.FlagHidden},
	{"flat", sim.FlagFlat},
	{"no_block", sim.FlagNoBlock},
	{"multihex", sim.FlagMultiHex},
	{"in_left_hand", sim.FlagInLeftHand},
	{"in_right_hand", sim.FlagInRightHand},
	{"worn", sim.FlagWorn},
	{"light_thru", sim.FlagLightThru},
	{"see_thru", sim.FlagSeeThru},
	{"shoot_thru", sim.FlagShootThru},
}

// ParseFlag resolves a YAML flag name.
func ParseFlag(name string) (sim.Flags, bool) {
	name = strings.ToLower(name)
	for _, f := range flagNames {
		if f.name == name {
			return f.flag, true
		}
	}
	return 0, false
}

// FlagNames lists the YAML names of every bit set in flags, in a fixed order.
func FlagNames(flags sim.Flags) []string {
	var names []string
	for _, f := range flagNames {
		if flags&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

var itemTypeNames = map[string]sim.ItemType{
	"armor":     sim.ItemArmor,
	"container": sim.ItemContainer,
	"drug":      sim.ItemDrug,
	"weapon":    sim.ItemWeapon,
	"ammo":      sim.ItemAmmo,
	"misc":      sim.ItemMisc,
	"key":       sim.ItemKey,
}

// ParseItemType resolves a YAML item_type name.
func ParseItemType(name string) (sim.ItemType, bool) {
	t, ok := itemTypeNames[strings.ToLower(name)]
	return t, ok
}

var sceneryTypeNames = map[string]sim.SceneryType{
	"door":        sim.SceneryDoor,
	"stairs":      sim.SceneryStairs,
	"elevator":    sim.SceneryElevator,
	"ladder_up":   sim.SceneryLadderUp,
	"ladder_down": sim.SceneryLadderDown,
	"generic":     sim.SceneryGeneric,
}

// ParseSceneryType resolves a YAML scenery_type name.
func ParseSceneryType(name string) (sim.SceneryType, bool) {
	t, ok := sceneryTypeNames[strings.ToLower(name)]
	return t, ok
}

// ParseRotation resolves a compass label such as "ne".
func ParseRotation(name string) (sim.Rotation, bool) {
	name = strings.ToLower(name)
	for r := sim.Rotation(0); r < sim.RotationCount; r++ {
		if r.String() == name {
			return r, true
		}
	}
	return sim.RotationNone, false
}

var statNames = []string{
	sim.StatStrength:     "strength",
	sim.StatPerception:   "perception",
	sim.StatEndurance:    "endurance",
	sim.StatCharisma:     "charisma",
	sim.StatIntelligence: "intelligence",
	sim.StatAgility:      "agility",
	sim.StatLuck:         "luck",
}

// ParseStat resolves a primary stat name.
func ParseStat(name string) (sim.Stat, bool) {
	name = strings.ToLower(name)
	for i, n := range statNames {
		if n == name {
			return sim.Stat(i), true
		}
	}
	return 0, false
}

// StatName returns the YAML name of a primary stat, or "" for derived stats.
func StatName(stat sim.Stat) string {
	if stat < 0 || int(stat) >= len(statNames) {
		return ""
	}
	return statNames[stat]
}
