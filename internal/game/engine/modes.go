package engine

// InMainMenu implements sim.Modes.
func (e *Engine) InMainMenu() bool {
	return e.screen == screenMainMenu
}

// EditorActive implements sim.Modes. The character sheet opened from a map
// shares the editor with character creation.
func (e *Engine) EditorActive() bool {
	return e.screen == screenEditor || e.charSheet
}

// EditorCreationMode implements sim.Modes.
func (e *Engine) EditorCreationMode() bool {
	return e.screen == screenEditor
}

// WorldMapActive implements sim.Modes.
func (e *Engine) WorldMapActive() bool {
	return e.screen == screenWorldMap
}

// DialogActive implements sim.Modes.
func (e *Engine) DialogActive() bool {
	return e.dialog != nil
}

// PipboyOpen implements sim.Modes.
func (e *Engine) PipboyOpen() bool {
	return e.pipboy
}

// InventoryOpen implements sim.Modes.
func (e *Engine) InventoryOpen() bool {
	return e.inventory
}

// AutomapOpen reports whether the automap overlay is showing.
func (e *Engine) AutomapOpen() bool {
	return e.automap
}

// InCombat implements sim.Modes.
func (e *Engine) InCombat() bool {
	return e.combat != nil
}
