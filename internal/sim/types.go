// Package sim defines the contract between the bridge and the simulation it
// drives: the value types the simulation exposes and the narrow interfaces for
// every primitive the bridge calls. The bridge never implements any of these
// primitives itself.
package sim

import "errors"

// ErrRejected marks a mutation the simulation refused to perform.
var ErrRejected = errors.New("sim: action rejected")

// Tile is an index into the hex grid.
type Tile int

// NoTile is the sentinel for "no tile".
const NoTile Tile = -1

// Rotation is one of the six hex neighbor directions.
type Rotation int

// Hex neighbor directions in clockwise order starting at north-east.
const (
	RotationNE Rotation = iota
	RotationE
	RotationSE
	RotationSW
	RotationW
	RotationNW
)

// RotationCount is the number of hex neighbor directions.
const RotationCount = 6

// RotationNone is reported when two tiles coincide.
const RotationNone Rotation = -1

// String returns the lowercase compass label, or "unknown" for values outside
// the six directions.
func (r Rotation) String() string {
	switch r {
	case RotationNE:
		return "ne"
	case RotationE:
		return "e"
	case RotationSE:
		return "se"
	case RotationSW:
		return "sw"
	case RotationW:
		return "w"
	case RotationNW:
		return "nw"
	default:
		return "unknown"
	}
}

// ObjectType is the prototype class encoded in the top byte of a pid.
type ObjectType int

// Prototype classes.
const (
	TypeItem ObjectType = iota
	TypeCritter
	TypeScenery
	TypeWall
	TypeTile
	TypeMisc
)

// PIDType extracts the prototype class from a pid.
func PIDType(pid int) ObjectType {
	return ObjectType((pid & 0x0F000000) >> 24)
}

// String returns the lowercase class label.
func (t ObjectType) String() string {
	switch t {
	case TypeCritter:
		return "critter"
	case TypeItem:
		return "item"
	case TypeScenery:
		return "scenery"
	case TypeWall:
		return "wall"
	case TypeTile:
		return "tile"
	case TypeMisc:
		return "misc"
	default:
		return "unknown"
	}
}

// MakePID builds a pid from a class and an index within that class.
func MakePID(t ObjectType, index int) int {
	return int(t)<<24 | (index & 0x00FFFFFF)
}

// Flags are per-object state bits.
type Flags uint32

// Object flag bits.
const (
	FlagHidden      Flags = 0x00000001
	FlagFlat        Flags = 0x00000008
	FlagNoBlock     Flags = 0x00000010
	FlagMultiHex    Flags = 0x00000800
	FlagInLeftHand  Flags = 0x01000000
	FlagInRightHand Flags = 0x02000000
	FlagWorn        Flags = 0x04000000
	FlagLightThru   Flags = 0x20000000
	FlagSeeThru     Flags = 0x40000000
	FlagShootThru   Flags = 0x80000000
)

// ItemType is the sub-type of an item prototype.
type ItemType int

// Item sub-types.
const (
	ItemArmor ItemType = iota
	ItemContainer
	ItemDrug
	ItemWeapon
	ItemAmmo
	ItemMisc
	ItemKey
)

// SceneryType is the sub-type of a scenery prototype.
type SceneryType int

// Scenery sub-types.
const (
	SceneryDoor SceneryType = iota
	SceneryStairs
	SceneryElevator
	SceneryLadderUp
	SceneryLadderDown
	SceneryGeneric
)

// Proto is the static prototype behind a pid.
type Proto struct {
	PID         int
	ItemType    ItemType
	SceneryType SceneryType
	// Description is the item-level text shown when an object has none of
	// its own.
	Description string
}

// Stat identifies a critter statistic.
type Stat int

// Primary and derived statistics.
const (
	StatStrength Stat = iota
	StatPerception
	StatEndurance
	StatCharisma
	StatIntelligence
	StatAgility
	StatLuck
	StatMaxHitPoints
	StatMaxActionPoints
	StatArmorClass
)

// SpecialStatCount is the number of primary statistics (strength through luck).
const SpecialStatCount = 7

// PCStat identifies a player-only statistic.
type PCStat int

// Player-only statistics.
const (
	PCStatExperience PCStat = iota
	PCStatLevel
)

// SkillSneak is the index of the sneak skill.
const SkillSneak = 8

// TaggedSkillSlots is the number of temporary tag-skill slots in the editor.
const TaggedSkillSlots = 4

// TraitSlots is the number of selectable trait slots in the editor.
const TraitSlots = 2

// HitLocation is a body part for aimed attacks.
type HitLocation int

// Body parts.
const (
	HitHead HitLocation = iota
	HitLeftArm
	HitRightArm
	HitTorso
	HitRightLeg
	HitLeftLeg
	HitEyes
	HitGroin
	HitUncalled
)

// HitMode is the attack or action mode of the active hand.
type HitMode int

// Attack modes.
const (
	HitModeLeftPrimary HitMode = iota
	HitModeRightPrimary
	HitModePunch
	HitModeLeftReload
	HitModeRightReload
)

// Hand selects a wielding hand.
type Hand int

// Hands.
const (
	HandLeft Hand = iota
	HandRight
)

// GridWidth and GridHeight describe the standard map grid.
const (
	GridWidth  = 200
	GridHeight = 200
	GridSize   = GridWidth * GridHeight
)

// ElevationCount is the number of map elevations.
const ElevationCount = 3
