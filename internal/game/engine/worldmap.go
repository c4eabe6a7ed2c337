package engine

import (
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/sim"
)

// WorldPosition implements sim.WorldMap.
func (e *Engine) WorldPosition() (int, int) {
	return e.worldX, e.worldY
}

// KnownTowns implements sim.WorldMap.
func (e *Engine) KnownTowns() []int {
	var known []int
	for i, town := range e.towns {
		if town.Known {
			known = append(known, i)
		}
	}
	return known
}

// TownName implements sim.WorldMap.
func (e *Engine) TownName(town int) string {
	if town < 0 || town >= len(e.towns) {
		return ""
	}
	return e.towns[town].Name
}

// FindTown implements sim.WorldMap. Names match case-insensitively.
func (e *Engine) FindTown(name string) int {
	for i, town := range e.towns {
		if strings.EqualFold(town.Name, name) {
			return i
		}
	}
	return -1
}

// TownKnown implements sim.WorldMap.
func (e *Engine) TownKnown(town int) bool {
	return town >= 0 && town < len(e.towns) && e.towns[town].Known
}

// LeaveMap implements sim.WorldMap.
func (e *Engine) LeaveMap() error {
	if e.screen != screenGame {
		return rejected("not on a local map")
	}
	if e.combat != nil {
		return rejected("cannot leave during combat")
	}
	e.dialog = nil
	e.pipboy, e.automap, e.inventory, e.charSheet = false, false, false, false
	delete(e.moves, e.store.Player().ID)
	e.screen = screenWorldMap
	e.logger.Info("world map opened", zap.String("from", e.mapName))
	return nil
}

func (e *Engine) worldMapKey(code int) {
	switch {
	case code == sim.KeyEscape:
		e.screen = screenGame
	case code >= sim.KeyTownBase && code < sim.KeyTownBase+len(e.towns):
		e.travel(code - sim.KeyTownBase)
	}
}

// travel moves the party across the world map. Each unit of distance costs
// one minute of game time.
func (e *Engine) travel(town int) {
	if !e.TownKnown(town) {
		return
	}
	dest := e.towns[town]
	dx, dy := dest.X-e.worldX, dest.Y-e.worldY
	e.AdvanceGameTime(60 * (abs(dx) + abs(dy)))
	e.worldX, e.worldY = dest.X, dest.Y
	e.display("You arrive at %s.", dest.Name)
	e.logger.Info("world map travel", zap.String("town", dest.Name))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
