package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/simbridge/internal/sim"
)

// DefaultStatLevel is the value of a primary stat a scenario leaves unset.
const DefaultStatLevel = 5

// Store holds the live object graph built from a Scenario. It indexes every
// object, carried items included, by id.
type Store struct {
	mu      sync.RWMutex
	objects map[int]*sim.Object
	placed  map[int]bool
	protos  map[int]*sim.Proto
	specs   map[int]*ObjectSpec
	stats   map[int]*[sim.SpecialStatCount]int
	ammo    map[int]int
	player  *sim.Object
}

// NewStore builds live objects from sc.
//
// Precondition: sc must have passed Validate.
// Postcondition: Returns a Store whose Player is non-nil, or an error when two
// objects disagree about the prototype behind a shared pid.
func NewStore(sc *Scenario) (*Store, error) {
	s := &Store{
		objects: make(map[int]*sim.Object),
		placed:  make(map[int]bool),
		protos:  make(map[int]*sim.Proto),
		specs:   make(map[int]*ObjectSpec),
		stats:   make(map[int]*[sim.SpecialStatCount]int),
		ammo:    make(map[int]int),
	}
	player, err := s.add(&sc.Player, true)
	if err != nil {
		return nil, err
	}
	if sim.PIDType(player.PID) != sim.TypeCritter {
		player.PID = sim.MakePID(sim.TypeCritter, 0)
	}
	s.player = player
	for i := range sc.Objects {
		if _, err := s.add(&sc.Objects[i], true); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) add(spec *ObjectSpec, placed bool) (*sim.Object, error) {
	obj := &sim.Object{
		ID:          spec.ID,
		PID:         spec.PID,
		Name:        spec.Name,
		Description: spec.Description,
		Rotation:    sim.RotationNE,
	}
	if placed {
		obj.Tile = sim.Tile(spec.Tile)
		obj.Elevation = spec.Elevation
	} else {
		obj.Tile = sim.NoTile
	}
	if r, ok := ParseRotation(spec.Rotation); ok {
		obj.Rotation = r
	}
	for _, name := range spec.Flags {
		f, _ := ParseFlag(name)
		obj.Flags |= f
	}
	switch spec.Equip {
	case EquipLeft:
		obj.Flags |= sim.FlagInLeftHand
	case EquipRight:
		obj.Flags |= sim.FlagInRightHand
	case EquipWorn:
		obj.Flags |= sim.FlagWorn
	}

	if spec.Critter != nil {
		obj.Critter = &sim.CritterState{
			HitPoints:    spec.Critter.HitPoints,
			ActionPoints: spec.Critter.ActionPoints,
			Team:         spec.Critter.Team,
			Dead:         spec.Critter.Dead,
		}
		stats := &[sim.SpecialStatCount]int{}
		for i := range stats {
			stats[i] = DefaultStatLevel
		}
		for name, v := range spec.Critter.Stats {
			stat, _ := ParseStat(name)
			stats[stat] = v
		}
		s.stats[obj.ID] = stats
	}
	if spec.Portal != nil {
		obj.Portal = &sim.PortalState{Open: spec.Portal.Open, Locked: spec.Portal.Locked}
	}
	if spec.Weapon != nil {
		s.ammo[obj.ID] = spec.Weapon.Ammo
	}
	if err := s.registerProto(obj, spec); err != nil {
		return nil, err
	}

	for i := range spec.Inventory {
		child, err := s.add(&spec.Inventory[i], false)
		if err != nil {
			return nil, err
		}
		qty := spec.Inventory[i].Quantity
		if qty <= 0 {
			qty = 1
		}
		obj.Inventory = append(obj.Inventory, sim.InventoryItem{Item: child, Quantity: qty})
	}

	s.objects[obj.ID] = obj
	s.specs[obj.ID] = spec
	if placed {
		s.placed[obj.ID] = true
	}
	return obj, nil
}

func (s *Store) registerProto(obj *sim.Object, spec *ObjectSpec) error {
	var proto sim.Proto
	switch obj.Type() {
	case sim.TypeItem:
		proto = sim.Proto{PID: obj.PID, ItemType: sim.ItemMisc, Description: spec.ItemDescription}
		if t, ok := ParseItemType(spec.ItemType); ok {
			proto.ItemType = t
		}
	case sim.TypeScenery:
		proto = sim.Proto{PID: obj.PID, SceneryType: sim.SceneryGeneric}
		if spec.Portal != nil {
			proto.SceneryType = sim.SceneryDoor
		}
		if t, ok := ParseSceneryType(spec.SceneryType); ok {
			proto.SceneryType = t
		}
	default:
		proto = sim.Proto{PID: obj.PID}
	}
	if existing, ok := s.protos[obj.PID]; ok {
		// Any object of the pid may carry the item description.
		same := proto
		same.Description = existing.Description
		if *existing != same || (proto.Description != "" && existing.Description != "" && proto.Description != existing.Description) {
			return fmt.Errorf("object %d: pid %#x already registered with a different prototype", obj.ID, obj.PID)
		}
		if existing.Description == "" {
			existing.Description = proto.Description
		}
		return nil
	}
	s.protos[obj.PID] = &proto
	return nil
}

// Player returns the avatar.
func (s *Store) Player() *sim.Object {
	return s.player
}

// Get returns the object with the given id, carried or placed.
//
// Postcondition: Returns (obj, true) if found, or (nil, false) otherwise.
func (s *Store) Get(id int) (*sim.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[id]
	return obj, ok
}

// IsPlaced reports whether the object lies on the map rather than in an inventory.
func (s *Store) IsPlaced(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.placed[id]
}

// Objects returns every placed object ordered by id.
func (s *Store) Objects() []*sim.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*sim.Object, 0, len(s.placed))
	for id := range s.placed {
		out = append(out, s.objects[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ObjectsAt returns every placed object on one elevation ordered by id.
func (s *Store) ObjectsAt(elevation int) []*sim.Object {
	var out []*sim.Object
	for _, obj := range s.Objects() {
		if obj.Elevation == elevation {
			out = append(out, obj)
		}
	}
	return out
}

// At returns every placed object on tile at elevation ordered by id.
func (s *Store) At(tile sim.Tile, elevation int) []*sim.Object {
	var out []*sim.Object
	for _, obj := range s.Objects() {
		if obj.Tile == tile && obj.Elevation == elevation {
			out = append(out, obj)
		}
	}
	return out
}

// Proto resolves a pid.
func (s *Store) Proto(pid int) (*sim.Proto, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.protos[pid]
	return p, ok
}

// Spec returns the static description an object was built from.
func (s *Store) Spec(id int) (*ObjectSpec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	spec, ok := s.specs[id]
	return spec, ok
}

// BaseStat returns a critter's unmodified primary stat, or 0 for non-critters.
func (s *Store) BaseStat(id int, stat sim.Stat) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[id]
	if !ok || stat < 0 || int(stat) >= sim.SpecialStatCount {
		return 0
	}
	return stats[stat]
}

// SetBaseStat overwrites a critter's primary stat.
//
// Precondition: stat is a primary stat.
func (s *Store) SetBaseStat(id int, stat sim.Stat, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.stats[id]
	if !ok {
		stats = &[sim.SpecialStatCount]int{}
		s.stats[id] = stats
	}
	stats[stat] = value
}

// Ammo returns the rounds loaded in a weapon.
func (s *Store) Ammo(id int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ammo[id]
}

// SetAmmo records the rounds loaded in a weapon.
func (s *Store) SetAmmo(id, rounds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ammo[id] = rounds
}

// Place puts obj on the map at tile and elevation.
func (s *Store) Place(obj *sim.Object, tile sim.Tile, elevation int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj.Tile = tile
	obj.Elevation = elevation
	s.placed[obj.ID] = true
}

// Lift removes obj from the map. It stays indexed so inventories can hold it.
func (s *Store) Lift(obj *sim.Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj.Tile = sim.NoTile
	delete(s.placed, obj.ID)
}

// Snapshot rebuilds a Scenario from live state. Scenario-level fields are
// copied from base; the player and every placed object reflect the store.
func (s *Store) Snapshot(base *Scenario) *Scenario {
	sc := *base
	sc.Player = s.export(s.player, true)
	sc.Objects = nil
	for _, obj := range s.Objects() {
		if obj == s.player {
			continue
		}
		sc.Objects = append(sc.Objects, s.export(obj, true))
	}
	return &sc
}

func (s *Store) export(obj *sim.Object, placed bool) ObjectSpec {
	s.mu.RLock()
	spec := *s.specs[obj.ID]
	stats := s.stats[obj.ID]
	ammo, hasAmmo := s.ammo[obj.ID]
	s.mu.RUnlock()

	spec.Name = obj.Name
	spec.Description = obj.Description
	spec.PID = obj.PID
	spec.Rotation = obj.Rotation.String()
	spec.Flags = FlagNames(obj.Flags &^ (sim.FlagInLeftHand | sim.FlagInRightHand | sim.FlagWorn))
	spec.Equip = ""
	spec.Quantity = 0
	if placed {
		spec.Tile = int(obj.Tile)
		spec.Elevation = obj.Elevation
	} else {
		spec.Tile = 0
		spec.Elevation = 0
		switch {
		case obj.Has(sim.FlagInLeftHand):
			spec.Equip = EquipLeft
		case obj.Has(sim.FlagInRightHand):
			spec.Equip = EquipRight
		case obj.Has(sim.FlagWorn):
			spec.Equip = EquipWorn
		}
	}

	if obj.Critter != nil {
		critter := CritterSpec{}
		if spec.Critter != nil {
			critter = *spec.Critter
		}
		critter.HitPoints = obj.Critter.HitPoints
		critter.ActionPoints = obj.Critter.ActionPoints
		critter.Team = obj.Critter.Team
		critter.Dead = obj.Critter.Dead
		if stats != nil {
			critter.Stats = make(map[string]int, sim.SpecialStatCount)
			for i, v := range stats {
				critter.Stats[StatName(sim.Stat(i))] = v
			}
		}
		spec.Critter = &critter
	}
	if obj.Portal != nil {
		spec.Portal = &PortalSpec{Open: obj.Portal.Open, Locked: obj.Portal.Locked}
	}
	if spec.Weapon != nil && hasAmmo {
		weapon := *spec.Weapon
		weapon.Ammo = ammo
		spec.Weapon = &weapon
	}

	spec.Inventory = nil
	for _, entry := range obj.Inventory {
		child := s.export(entry.Item, false)
		child.Quantity = entry.Quantity
		spec.Inventory = append(spec.Inventory, child)
	}
	return spec
}
