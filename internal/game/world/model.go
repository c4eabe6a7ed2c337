// Package world provides the reference simulation's scenario model: the YAML
// description of one map with its avatar, objects, towns and editor data, and
// the live object store built from it.
package world

import (
	"fmt"

	"github.com/cory-johannsen/simbridge/internal/game/dice"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// Start modes a scenario may begin in.
const (
	StartMainMenu    = "mainmenu"
	StartChargen     = "chargen"
	StartExploration = "exploration"
	StartWorldMap    = "worldmap"
)

// Equip slots an inventory entry may occupy.
const (
	EquipLeft  = "left"
	EquipRight = "right"
	EquipWorn  = "worn"
)

// DefaultSkills is the skill list used when a scenario does not name its own.
var DefaultSkills = []string{
	"Small Guns", "Big Guns", "Energy Weapons", "Unarmed", "Melee Weapons",
	"Throwing", "First Aid", "Doctor", "Sneak", "Lockpick", "Steal", "Traps",
	"Science", "Repair", "Speech", "Barter", "Gambling", "Outdoorsman",
}

// DefaultTraits is the trait list used when a scenario does not name its own.
var DefaultTraits = []string{
	"Fast Metabolism", "Bruiser", "Small Frame", "One Hander", "Finesse",
	"Kamikaze", "Heavy Handed", "Fast Shot", "Bloody Mess", "Jinxed",
	"Good Natured", "Chem Reliant", "Chem Resistant", "Sex Appeal", "Skilled",
	"Gifted",
}

// Scenario is one playable map and the state surrounding it.
type Scenario struct {
	Name            string       `yaml:"name"`
	Map             string       `yaml:"map"`
	StartMode       string       `yaml:"start_mode,omitempty"`
	Seed            uint64       `yaml:"seed,omitempty"`
	CharacterPoints int          `yaml:"character_points,omitempty"`
	WorldX          int          `yaml:"world_x,omitempty"`
	WorldY          int          `yaml:"world_y,omitempty"`
	GameTime        int          `yaml:"game_time,omitempty"`
	Level           int          `yaml:"level,omitempty"`
	Experience      int          `yaml:"experience,omitempty"`
	Player          ObjectSpec   `yaml:"player"`
	Objects         []ObjectSpec `yaml:"objects,omitempty"`
	Towns           []TownSpec   `yaml:"towns,omitempty"`
	Skills          []string     `yaml:"skills,omitempty"`
	Traits          []string     `yaml:"traits,omitempty"`
	TaggedSkills    []int        `yaml:"tagged_skills,omitempty"`
	ChosenTraits    []int        `yaml:"chosen_traits,omitempty"`
	Messages        []string     `yaml:"messages,omitempty"`
}

// ObjectSpec describes one object on the map or inside an inventory.
type ObjectSpec struct {
	ID          int    `yaml:"id"`
	PID         int    `yaml:"pid"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// ItemDescription is shared by every item with this pid.
	ItemDescription string        `yaml:"item_description,omitempty"`
	Tile            int           `yaml:"tile,omitempty"`
	Elevation       int           `yaml:"elevation,omitempty"`
	Rotation        string        `yaml:"rotation,omitempty"`
	Flags           []string      `yaml:"flags,omitempty"`
	ItemType        string        `yaml:"item_type,omitempty"`
	SceneryType     string        `yaml:"scenery_type,omitempty"`
	Quantity        int           `yaml:"quantity,omitempty"`
	Equip           string        `yaml:"equip,omitempty"`
	ArmorClass      int           `yaml:"armor_class,omitempty"`
	Heal            int           `yaml:"heal,omitempty"`
	Inventory       []ObjectSpec  `yaml:"inventory,omitempty"`
	Critter         *CritterSpec  `yaml:"critter,omitempty"`
	Portal          *PortalSpec   `yaml:"portal,omitempty"`
	Exit            *ExitSpec     `yaml:"exit,omitempty"`
	Weapon          *WeaponSpec   `yaml:"weapon,omitempty"`
	Dialogue        *DialogueSpec `yaml:"dialogue,omitempty"`
	Script          string        `yaml:"script,omitempty"`
}

// CritterSpec is the combat profile of a critter.
type CritterSpec struct {
	Stats        map[string]int `yaml:"stats,omitempty"`
	HitPoints    int            `yaml:"hit_points"`
	ActionPoints int            `yaml:"action_points,omitempty"`
	Team         int            `yaml:"team,omitempty"`
	Dead         bool           `yaml:"dead,omitempty"`
	ToHit        int            `yaml:"to_hit,omitempty"`
	Damage       string         `yaml:"damage,omitempty"`
}

// PortalSpec is the initial state of a door.
type PortalSpec struct {
	Open   bool `yaml:"open,omitempty"`
	Locked bool `yaml:"locked,omitempty"`
}

// ExitSpec is where an exit grid sends the avatar.
type ExitSpec struct {
	Map       string `yaml:"map"`
	Tile      int    `yaml:"tile"`
	Elevation int    `yaml:"elevation,omitempty"`
}

// WeaponSpec is the attack profile of a weapon item.
type WeaponSpec struct {
	Damage   string `yaml:"damage"`
	APCost   int    `yaml:"ap_cost,omitempty"`
	ReloadAP int    `yaml:"reload_ap,omitempty"`
	Range    int    `yaml:"range,omitempty"`
	Ammo     int    `yaml:"ammo,omitempty"`
	Capacity int    `yaml:"capacity,omitempty"`
	AmmoPID  int    `yaml:"ammo_pid,omitempty"`
}

// DialogueSpec is a conversation tree.
type DialogueSpec struct {
	Start string         `yaml:"start"`
	Nodes []DialogueNode `yaml:"nodes"`
}

// DialogueNode is one reply with its answer options.
type DialogueNode struct {
	ID      string           `yaml:"id"`
	Reply   string           `yaml:"reply"`
	Options []DialogueOption `yaml:"options,omitempty"`
}

// DialogueOption is an answer. An empty Next ends the conversation.
type DialogueOption struct {
	Text   string `yaml:"text"`
	Next   string `yaml:"next,omitempty"`
	Barter bool   `yaml:"barter,omitempty"`
}

// Node returns the dialogue node with the given id.
func (d *DialogueSpec) Node(id string) (*DialogueNode, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// TownSpec is a world map location.
type TownSpec struct {
	Name  string `yaml:"name"`
	Known bool   `yaml:"known,omitempty"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
}

// SkillNames returns the scenario's skill list, or DefaultSkills.
func (s *Scenario) SkillNames() []string {
	if len(s.Skills) > 0 {
		return s.Skills
	}
	return DefaultSkills
}

// TraitNames returns the scenario's trait list, or DefaultTraits.
func (s *Scenario) TraitNames() []string {
	if len(s.Traits) > 0 {
		return s.Traits
	}
	return DefaultTraits
}

// Validate checks scenario invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name must not be empty")
	}
	switch s.StartMode {
	case "", StartMainMenu, StartChargen, StartExploration, StartWorldMap:
	default:
		return fmt.Errorf("scenario %q: unknown start_mode %q", s.Name, s.StartMode)
	}
	if s.Player.Critter == nil {
		return fmt.Errorf("scenario %q: player must have a critter section", s.Name)
	}
	if s.Player.PID != 0 && sim.PIDType(s.Player.PID) != sim.TypeCritter {
		return fmt.Errorf("scenario %q: player pid %#x is not a critter", s.Name, s.Player.PID)
	}

	seen := make(map[int]bool)
	if err := s.validateObject(&s.Player, true, seen); err != nil {
		return err
	}
	for i := range s.Objects {
		if err := s.validateObject(&s.Objects[i], true, seen); err != nil {
			return err
		}
	}

	skills := len(s.SkillNames())
	for _, idx := range s.TaggedSkills {
		if idx < 0 || idx >= skills {
			return fmt.Errorf("scenario %q: tagged skill %d out of range", s.Name, idx)
		}
	}
	if len(s.TaggedSkills) > sim.TaggedSkillSlots {
		return fmt.Errorf("scenario %q: at most %d tagged skills", s.Name, sim.TaggedSkillSlots)
	}
	traits := len(s.TraitNames())
	for _, idx := range s.ChosenTraits {
		if idx < 0 || idx >= traits {
			return fmt.Errorf("scenario %q: chosen trait %d out of range", s.Name, idx)
		}
	}
	if len(s.ChosenTraits) > sim.TraitSlots {
		return fmt.Errorf("scenario %q: at most %d chosen traits", s.Name, sim.TraitSlots)
	}

	towns := make(map[string]bool, len(s.Towns))
	for _, town := range s.Towns {
		if town.Name == "" {
			return fmt.Errorf("scenario %q: town name must not be empty", s.Name)
		}
		if towns[town.Name] {
			return fmt.Errorf("scenario %q: duplicate town %q", s.Name, town.Name)
		}
		towns[town.Name] = true
	}
	return nil
}

func (s *Scenario) validateObject(o *ObjectSpec, placed bool, seen map[int]bool) error {
	if o.ID <= 0 {
		return fmt.Errorf("scenario %q: object %q: id must be positive", s.Name, o.Name)
	}
	if seen[o.ID] {
		return fmt.Errorf("scenario %q: duplicate object id %d", s.Name, o.ID)
	}
	seen[o.ID] = true

	if placed {
		if o.Tile < 0 || o.Tile >= sim.GridSize {
			return fmt.Errorf("scenario %q: object %d: tile %d out of range", s.Name, o.ID, o.Tile)
		}
		if o.Elevation < 0 || o.Elevation >= sim.ElevationCount {
			return fmt.Errorf("scenario %q: object %d: elevation %d out of range", s.Name, o.ID, o.Elevation)
		}
	}
	if o.Rotation != "" {
		if _, ok := ParseRotation(o.Rotation); !ok {
			return fmt.Errorf("scenario %q: object %d: unknown rotation %q", s.Name, o.ID, o.Rotation)
		}
	}
	for _, name := range o.Flags {
		if _, ok := ParseFlag(name); !ok {
			return fmt.Errorf("scenario %q: object %d: unknown flag %q", s.Name, o.ID, name)
		}
	}
	if o.ItemType != "" {
		if _, ok := ParseItemType(o.ItemType); !ok {
			return fmt.Errorf("scenario %q: object %d: unknown item_type %q", s.Name, o.ID, o.ItemType)
		}
	}
	if o.SceneryType != "" {
		if _, ok := ParseSceneryType(o.SceneryType); !ok {
			return fmt.Errorf("scenario %q: object %d: unknown scenery_type %q", s.Name, o.ID, o.SceneryType)
		}
	}
	switch o.Equip {
	case "", EquipLeft, EquipRight, EquipWorn:
	default:
		return fmt.Errorf("scenario %q: object %d: unknown equip slot %q", s.Name, o.ID, o.Equip)
	}
	if o.Equip != "" && placed {
		return fmt.Errorf("scenario %q: object %d: only carried items can be equipped", s.Name, o.ID)
	}
	if o.Critter != nil {
		if sim.PIDType(o.PID) != sim.TypeCritter && o != &s.Player {
			return fmt.Errorf("scenario %q: object %d: critter section on non-critter pid %#x", s.Name, o.ID, o.PID)
		}
		for name := range o.Critter.Stats {
			if _, ok := ParseStat(name); !ok {
				return fmt.Errorf("scenario %q: object %d: unknown stat %q", s.Name, o.ID, name)
			}
		}
		if o.Critter.Damage != "" {
			if _, err := dice.Parse(o.Critter.Damage); err != nil {
				return fmt.Errorf("scenario %q: object %d: %w", s.Name, o.ID, err)
			}
		}
	}
	if o.Portal != nil && sim.PIDType(o.PID) != sim.TypeScenery {
		return fmt.Errorf("scenario %q: object %d: portal section on non-scenery pid %#x", s.Name, o.ID, o.PID)
	}
	if o.Weapon != nil {
		if _, err := dice.Parse(o.Weapon.Damage); err != nil {
			return fmt.Errorf("scenario %q: object %d: %w", s.Name, o.ID, err)
		}
	}
	if o.Exit != nil {
		if o.Exit.Tile < 0 || o.Exit.Tile >= sim.GridSize {
			return fmt.Errorf("scenario %q: object %d: exit tile %d out of range", s.Name, o.ID, o.Exit.Tile)
		}
		if o.Exit.Elevation < 0 || o.Exit.Elevation >= sim.ElevationCount {
			return fmt.Errorf("scenario %q: object %d: exit elevation %d out of range", s.Name, o.ID, o.Exit.Elevation)
		}
	}
	if o.Dialogue != nil {
		if _, ok := o.Dialogue.Node(o.Dialogue.Start); !ok {
			return fmt.Errorf("scenario %q: object %d: dialogue start %q not found", s.Name, o.ID, o.Dialogue.Start)
		}
		for _, node := range o.Dialogue.Nodes {
			for _, opt := range node.Options {
				if opt.Next == "" {
					continue
				}
				if _, ok := o.Dialogue.Node(opt.Next); !ok {
					return fmt.Errorf("scenario %q: object %d: dialogue node %q targets unknown node %q", s.Name, o.ID, node.ID, opt.Next)
				}
			}
		}
	}
	for i := range o.Inventory {
		if err := s.validateObject(&o.Inventory[i], false, seen); err != nil {
			return err
		}
	}
	return nil
}
