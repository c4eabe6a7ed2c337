// Package engine is the reference in-memory simulation. It implements every
// interface in package sim on top of a scenario loaded by package world, so
// the bridge can run standalone and be tested against live state.
//
// An Engine is not safe for concurrent use: the host loop calls Tick and the
// bridge hook from one goroutine.
package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/game/dice"
	"github.com/cory-johannsen/simbridge/internal/game/hexgrid"
	"github.com/cory-johannsen/simbridge/internal/game/world"
	"github.com/cory-johannsen/simbridge/internal/scripting"
	"github.com/cory-johannsen/simbridge/internal/sim"
)

// Game states reported by GameState.
const (
	GameStateMainMenu = 1
	GameStateChargen  = 2
	GameStatePlaying  = 4
	GameStateQuitting = 5
)

// MaxPathLength bounds the number of steps FindPath will return.
const MaxPathLength = 800

// messageLogCapacity bounds the retained message log.
const messageLogCapacity = 100

// maxCreationTags is the number of skills a new character tags. The last
// temporary slot is reserved for perks.
const maxCreationTags = 3

// ErrNoSaves is returned by QuickSave when the engine has no slot store.
var ErrNoSaves = errors.New("engine: no save store configured")

// SlotStore persists quick-save snapshots.
type SlotStore interface {
	Put(slot int, data []byte) error
	Get(slot int) ([]byte, error)
	Latest() (slot int, ok bool, err error)
}

// Options configures an Engine.
type Options struct {
	Logger *zap.Logger
	// Saves backs QuickSave and loading from the main menu. May be nil.
	Saves SlotStore
	// Source drives every dice roll. Nil uses a source seeded from the
	// scenario seed, or crypto randomness when the seed is zero.
	Source                 dice.Source
	ScriptInstructionLimit int
}

type screen int

const (
	screenMainMenu screen = iota
	screenEditor
	screenGame
	screenWorldMap
)

// Engine is the reference simulation.
type Engine struct {
	grid    hexgrid.Grid
	base    *world.Scenario
	scene   *world.Scenario
	store   *world.Store
	logger  *zap.Logger
	roller  *dice.Roller
	scripts *scripting.Manager
	saves   SlotStore
	opts    Options

	mapName   string
	screen    screen
	charSheet bool
	pipboy    bool
	automap   bool
	inventory bool
	dialog    *dialogState
	combat    *combatState
	sneaking  bool
	quit      bool

	naming     bool
	nameBuffer []byte

	points     int
	tagged     [sim.TaggedSkillSlots]int
	traits     [sim.TraitSlots]int
	level      int
	experience int

	worldX, worldY int
	towns          []world.TownSpec
	gameTime       int
	quickSlot      int

	activeRight bool
	hud         hudState

	messages    []string
	keys        []int
	moves       map[int]*motion
	pendingExit *world.ExitSpec
	camera      sim.Tile
	ticks       uint64
}

// New builds an Engine from sc.
//
// Precondition: sc must have passed Validate; opts.Logger must be non-nil.
// Postcondition: Returns a running Engine in sc's start mode, or an error.
func New(sc *world.Scenario, opts Options) (*Engine, error) {
	src := opts.Source
	if src == nil {
		if sc.Seed != 0 {
			src = dice.NewSeededSource(sc.Seed)
		} else {
			src = dice.NewCryptoSource()
		}
	}
	e := &Engine{
		grid:   hexgrid.Standard(),
		base:   sc,
		logger: opts.Logger,
		roller: dice.NewRoller(src, opts.Logger),
		saves:  opts.Saves,
		opts:   opts,
	}
	if err := e.restore(sc); err != nil {
		return nil, err
	}
	switch sc.StartMode {
	case world.StartMainMenu:
		e.screen = screenMainMenu
	case world.StartChargen:
		e.screen = screenEditor
	case world.StartWorldMap:
		e.screen = screenWorldMap
	default:
		e.screen = screenGame
	}
	return e, nil
}

// restore replaces all live state with sc.
func (e *Engine) restore(sc *world.Scenario) error {
	store, err := world.NewStore(sc)
	if err != nil {
		return fmt.Errorf("engine: building scenario %q: %w", sc.Name, err)
	}
	scripts := scripting.NewManager(e, e.roller, e.opts.ScriptInstructionLimit, e.logger)
	for _, obj := range store.Objects() {
		spec, _ := store.Spec(obj.ID)
		if spec.Script == "" {
			continue
		}
		if err := scripts.Load(obj.ID, spec.Script); err != nil {
			scripts.Close()
			return fmt.Errorf("engine: scenario %q: %w", sc.Name, err)
		}
	}
	if e.scripts != nil {
		e.scripts.Close()
	}

	e.scene = sc
	e.store = store
	e.scripts = scripts
	e.mapName = sc.Map
	e.charSheet, e.pipboy, e.automap, e.inventory = false, false, false, false
	e.dialog = nil
	e.combat = nil
	e.sneaking = false
	e.naming = false
	e.nameBuffer = nil
	e.points = sc.CharacterPoints
	for i := range e.tagged {
		e.tagged[i] = -1
	}
	copy(e.tagged[:], sc.TaggedSkills)
	for i := range e.traits {
		e.traits[i] = -1
	}
	copy(e.traits[:], sc.ChosenTraits)
	e.level = max(sc.Level, 1)
	e.experience = sc.Experience
	e.worldX, e.worldY = sc.WorldX, sc.WorldY
	e.towns = append([]world.TownSpec(nil), sc.Towns...)
	e.gameTime = sc.GameTime
	e.activeRight = true
	e.messages = append([]string(nil), sc.Messages...)
	e.keys = nil
	e.moves = make(map[int]*motion)
	e.pendingExit = nil
	e.camera = store.Player().Tile
	for _, obj := range store.Objects() {
		if obj.Critter != nil && obj.Critter.ActionPoints <= 0 {
			obj.Critter.ActionPoints = e.StatLevel(obj, sim.StatMaxActionPoints)
		}
	}
	e.refreshHUD()
	e.logger.Info("scenario loaded",
		zap.String("scenario", sc.Name),
		zap.String("map", sc.Map),
		zap.Int("objects", len(store.Objects())),
	)
	return nil
}

// Tick runs one frame: queued input, one animation step and any pending map
// transition.
func (e *Engine) Tick() {
	e.ticks++
	e.drainInput()
	e.Advance()
	e.applyPendingExit()
}

// Quit reports whether a quit was requested.
func (e *Engine) Quit() bool {
	return e.quit
}

// Close releases script VMs.
func (e *Engine) Close() {
	if e.scripts != nil {
		e.scripts.Close()
	}
}

// Store exposes the live object store.
func (e *Engine) Store() *world.Store {
	return e.store
}

// Camera returns the tile the view is centered on.
func (e *Engine) Camera() sim.Tile {
	return e.camera
}

func (e *Engine) display(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.messages = append(e.messages, msg)
	if over := len(e.messages) - messageLogCapacity; over > 0 {
		e.messages = e.messages[over:]
	}
	e.logger.Debug("display message", zap.String("text", msg))
}

func rejected(reason string) error {
	return fmt.Errorf("%w: %s", sim.ErrRejected, reason)
}

var _ sim.Simulation = (*Engine)(nil)
