package sim

// Object is a world object owned by the simulation. The bridge reads these
// fields and, for a few commands, flips flags; it never creates or frees them.
type Object struct {
	ID          int
	PID         int
	Name        string
	Description string
	Tile        Tile
	Elevation   int
	Rotation    Rotation
	Flags       Flags
	Inventory   []InventoryItem
	// Critter is non-nil for critters.
	Critter *CritterState
	// Portal is non-nil for doors.
	Portal *PortalState
}

// InventoryItem is a stack of one item held by an object.
type InventoryItem struct {
	Item     *Object
	Quantity int
}

// CritterState is the mutable combat state of a critter.
type CritterState struct {
	HitPoints    int
	ActionPoints int
	Team         int
	Dead         bool
}

// PortalState is the open/locked state of a door.
type PortalState struct {
	Open   bool
	Locked bool
}

// Type returns the prototype class of o.
func (o *Object) Type() ObjectType {
	return PIDType(o.PID)
}

// Has reports whether every bit of f is set on o.
func (o *Object) Has(f Flags) bool {
	return o.Flags&f == f
}

// IsPortal reports whether o is a door.
func (o *Object) IsPortal() bool {
	return o.Type() == TypeScenery && o.Portal != nil
}

// IsHostileTo reports whether o and other are critters on different teams.
//
// Precondition: both objects must be critters.
func (o *Object) IsHostileTo(other *Object) bool {
	return o.Critter.Team != other.Critter.Team
}

// ExitGridFirstPID and ExitGridLastPID bound the misc prototypes that mark
// map-transition triggers.
const (
	ExitGridFirstPID = 0x5000010
	ExitGridLastPID  = 0x5000017
)

// IsExitGrid reports whether o is a map-transition marker.
func (o *Object) IsExitGrid() bool {
	if o == nil || o.Type() != TypeMisc {
		return false
	}
	return o.PID >= ExitGridFirstPID && o.PID <= ExitGridLastPID
}
