package scripting

import lua "github.com/yuin/gopher-lua"

// RegisterModules installs the engine table into L:
//
//	engine.display(text)
//	engine.set_locked(id, locked)
//	engine.set_open(id, open)
//	engine.roll(expr) -> total
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetFuncs(engine, map[string]lua.LGFunction{
		"display":    m.luaDisplay,
		"set_locked": m.luaSetLocked,
		"set_open":   m.luaSetOpen,
		"roll":       m.luaRoll,
	})
	L.SetGlobal("engine", engine)
}

func (m *Manager) luaDisplay(L *lua.LState) int {
	m.host.Display(L.CheckString(1))
	return 0
}

func (m *Manager) luaSetLocked(L *lua.LState) int {
	id := L.CheckInt(1)
	locked := L.CheckBool(2)
	if err := m.host.SetLocked(id, locked); err != nil {
		L.RaiseError("set_locked(%d): %s", id, err.Error())
	}
	return 0
}

func (m *Manager) luaSetOpen(L *lua.LState) int {
	id := L.CheckInt(1)
	open := L.CheckBool(2)
	if err := m.host.SetOpen(id, open); err != nil {
		L.RaiseError("set_open(%d): %s", id, err.Error())
	}
	return 0
}

func (m *Manager) luaRoll(L *lua.LState) int {
	res, err := m.roller.RollExpr(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(res.Total()))
	return 1
}
