package sim

// Grid is the hex-grid metric.
type Grid interface {
	// TileInDirection walks distance steps from tile, stopping at the map edge.
	TileInDirection(tile Tile, rotation Rotation, distance int) Tile
	// Distance is the hex distance between two tiles.
	Distance(from, to Tile) int
	// Direction is the neighbor direction that best points from one tile to
	// another, or RotationNone when they coincide.
	Direction(from, to Tile) Rotation
}

// World exposes the live object graph of the current map.
type World interface {
	// Player returns the controllable avatar, or nil outside a loaded map.
	Player() *Object
	// Objects returns every object on every elevation, hidden ones included.
	Objects() []*Object
	// ObjectsAt returns every object on one elevation, hidden ones included.
	ObjectsAt(elevation int) []*Object
	// Proto resolves a pid; ok is false when no prototype exists.
	Proto(pid int) (proto *Proto, ok bool)
	// BlockingAt returns the object that would stop mover from entering tile.
	BlockingAt(mover *Object, tile Tile, elevation int) *Object
	// CanSee reports line of sight from viewer to target.
	CanSee(viewer, target *Object) bool
	// ObjectDistance is the hex distance between two objects accounting for
	// multi-hex footprints.
	ObjectDistance(a, b *Object) int
	MapName() string
	MapElevation() int
	GameState() int
}

// PathRequest describes one path search.
type PathRequest struct {
	Mover *Object
	From  Tile
	To    Tile
	// AllowBlockedDestination lets the final step enter a blocked tile.
	AllowBlockedDestination bool
}

// PathResult is the outcome of one path search. An empty Steps slice means
// no path exists.
type PathResult struct {
	Steps []Rotation
	// Visited lists every unblocked tile the search examined, in order.
	Visited []Tile
}

// PathFinder is the path-search primitive.
type PathFinder interface {
	FindPath(req PathRequest) PathResult
}

// Animator schedules movement and advances animation time.
type Animator interface {
	// Busy reports whether obj has animation still queued.
	Busy(obj *Object) bool
	// Advance runs one animation tick.
	Advance()
	// RequestMove queues a walk to tile. actionPoints of -1 means unlimited.
	RequestMove(obj *Object, tile Tile, elevation int, actionPoints int) error
	// Teleport relocates obj immediately.
	Teleport(obj *Object, tile Tile, elevation int) error
	ScrollTo(tile Tile)
}

// Stats reads and recomputes critter statistics.
type Stats interface {
	StatLevel(obj *Object, stat Stat) int
	PCStat(stat PCStat) int
	StatName(stat Stat) string
	RecalcDerived(obj *Object)
}

// Modes reports which interactive subsystems are active. At most one of them
// is expected to be active at a time.
type Modes interface {
	InMainMenu() bool
	EditorActive() bool
	EditorCreationMode() bool
	WorldMapActive() bool
	DialogActive() bool
	PipboyOpen() bool
	InventoryOpen() bool
	InCombat() bool
}

// Input injects raw input events into the simulation's input queue.
type Input interface {
	QueueKey(code int)
}

// Editor is the character editor used during character creation.
type Editor interface {
	CharacterPoints() int
	SetCharacterPoints(points int)
	IncStat(obj *Object, stat Stat) error
	DecStat(obj *Object, stat Stat) error
	RemainingTagSkills() int
	RemainingTraits() int
	// TempTagSkill returns the skill in tag slot index, or -1.
	TempTagSkill(index int) int
	// TempTrait returns the trait in trait slot index, or -1.
	TempTrait(index int) int
	ToggleTagSkill(skill int) error
	ToggleTrait(trait int) error
	HasInvalidSpecialStats() bool
	SkillCount() int
	SkillName(skill int) string
	TraitCount() int
	TraitName(trait int) string
}

// Actions starts avatar interactions with world objects.
type Actions interface {
	UseObject(actor, target *Object) error
	TalkTo(actor, target *Object) error
	PickUp(actor, target *Object) error
	UseSkillOn(actor, target *Object, skill int) error
	ToggleSneak() error
}

// Combat drives the turn-based sub-mode.
type Combat interface {
	WhoseTurn() *Object
	// StartAttack enters combat against target, or queues a default attack
	// when combat is already running.
	StartAttack(target *Object)
	Attack(attacker, target *Object, mode HitMode, location HitLocation) error
	EndTurn()
	EndCombat()
	// FreeMove is the remaining bonus movement for the current turn.
	FreeMove() int
}

// Interface is the player HUD: active hand, attack mode and readouts.
type Interface interface {
	CurrentAttack() (mode HitMode, aiming bool, err error)
	ActiveItem() (*Object, error)
	ActiveHandIsRight() bool
	ToggleItems() error
	RefreshItems()
	RefreshActionPoints(actionPoints, freeMove int)
	RefreshArmorClass()
}

// Inventory mutates and inspects what a critter carries.
type Inventory interface {
	// FindItem searches owner's inventory, nested containers included.
	FindItem(owner *Object, id int) *Object
	LeftHand(owner *Object) *Object
	RightHand(owner *Object) *Object
	Worn(owner *Object) *Object
	Wield(owner, item *Object, hand Hand) error
	Unwield(owner *Object, hand Hand) error
	// RefreshArmor recomputes armor class and appearance after removed was
	// taken off.
	RefreshArmor(owner, removed *Object)
	UseItem(owner, item *Object) error
	Drop(owner, item *Object) error
	ItemType(item *Object) ItemType
	TryReload(owner, weapon *Object) error
	ActionCost(owner *Object, mode HitMode) int
}

// Dialog is the active conversation.
type Dialog interface {
	DialogTarget() *Object
	ReplyText() string
	Options() []string
	SelectOption(index int) error
}

// WorldMap is the overland travel screen.
type WorldMap interface {
	WorldPosition() (x, y int)
	KnownTowns() []int
	TownName(town int) string
	// FindTown returns the town index for name, or -1.
	FindTown(name string) int
	TownKnown(town int) bool
	// LeaveMap transitions from the local map to the world map.
	LeaveMap() error
}

// Session covers game-wide services: quitting, time, saves and the message log.
type Session interface {
	RequestQuit()
	AdvanceGameTime(seconds int)
	RestHeal(hours int)
	SetQuickSaveSlot(slot int)
	QuickSave() error
	// LastMessages returns up to n of the newest message-log lines, oldest first.
	LastMessages(n int) []string
}

// Simulation is every primitive the bridge needs.
type Simulation interface {
	Grid
	World
	PathFinder
	Animator
	Stats
	Modes
	Input
	Editor
	Actions
	Combat
	Interface
	Inventory
	Dialog
	WorldMap
	Session
}
