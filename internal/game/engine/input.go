package engine

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/sim"
)

// QueueKey implements sim.Input. Keys are handled on the next Tick.
func (e *Engine) QueueKey(code int) {
	e.keys = append(e.keys, code)
}

func (e *Engine) drainInput() {
	keys := e.keys
	e.keys = nil
	for _, code := range keys {
		e.handleKey(code)
	}
}

// handleKey routes one key to the screen that owns input.
func (e *Engine) handleKey(code int) {
	switch {
	case e.screen == screenMainMenu:
		e.mainMenuKey(code)
	case e.screen == screenEditor:
		e.editorKey(code)
	case e.charSheet:
		if code == sim.KeyEscape || code == sim.KeyReturn || code == sim.KeyLowercaseC {
			e.charSheet = false
		}
	case e.screen == screenWorldMap:
		e.worldMapKey(code)
	case e.dialog != nil:
		e.dialogKey(code)
	case e.pipboy:
		if code == sim.KeyEscape || code == sim.KeyLowercaseP {
			e.pipboy = false
		}
	case e.automap:
		if code == sim.KeyEscape || code == sim.KeyTab {
			e.automap = false
		}
	case e.inventory:
		if code == sim.KeyEscape || code == 'i' {
			e.inventory = false
		}
	default:
		e.gameKey(code)
	}
}

func (e *Engine) mainMenuKey(code int) {
	switch code {
	case sim.KeyLowercaseN:
		if err := e.restore(e.base); err != nil {
			e.logger.Error("new game failed", zap.Error(err))
			return
		}
		e.screen = screenEditor
		e.RecalcDerived(e.store.Player())
	case sim.KeyLowercaseL:
		e.loadLatest()
	case sim.KeyLowercaseE, sim.KeyEscape:
		e.RequestQuit()
	}
}

func (e *Engine) editorKey(code int) {
	if e.naming {
		switch {
		case code == sim.KeyReturn:
			if len(e.nameBuffer) > 0 {
				e.store.Player().Name = string(e.nameBuffer)
			}
			e.naming = false
		case code == sim.KeyEscape:
			e.naming = false
		case code >= sim.KeyFirstInputCharacter && code <= sim.KeyLastInputCharacter:
			if len(e.nameBuffer) < sim.NameEntryMaxLength {
				e.nameBuffer = append(e.nameBuffer, byte(code))
			}
		}
		return
	}
	switch code {
	case sim.KeyNameEntry:
		e.naming = true
		e.nameBuffer = e.nameBuffer[:0]
	case sim.KeyReturn:
		if !e.creationComplete() {
			e.display("You must spend all character points and tag %d skills.", maxCreationTags)
			return
		}
		e.screen = screenGame
		player := e.store.Player()
		e.RecalcDerived(player)
		e.camera = player.Tile
		e.display("Welcome to the wasteland, %s.", player.Name)
		e.logger.Info("character created", zap.String("name", player.Name))
	case sim.KeyEscape:
		e.screen = screenMainMenu
	}
}

func (e *Engine) gameKey(code int) {
	switch code {
	case sim.KeyLowercaseP:
		e.pipboy = true
	case sim.KeyLowercaseC:
		e.charSheet = true
	case sim.KeyTab:
		e.automap = true
	case 'i':
		e.inventory = true
	case sim.KeyArrowUp:
		e.ScrollTo(e.grid.TileInDirection(e.camera, sim.RotationNE, 1))
	case sim.KeyArrowDown:
		e.ScrollTo(e.grid.TileInDirection(e.camera, sim.RotationSW, 1))
	case sim.KeyArrowLeft:
		e.ScrollTo(e.grid.TileInDirection(e.camera, sim.RotationW, 1))
	case sim.KeyArrowRight:
		e.ScrollTo(e.grid.TileInDirection(e.camera, sim.RotationE, 1))
	case sim.KeyHome:
		e.ScrollTo(e.store.Player().Tile)
	}
}
