package scripting

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/simbridge/internal/game/dice"
)

// Hook names a script may define.
const (
	HookUse   = "on_use"
	HookTalk  = "on_talk"
	HookSkill = "on_skill"
)

// Host is the part of the simulation scripts may reach.
type Host interface {
	Display(text string)
	SetLocked(objectID int, locked bool) error
	SetOpen(objectID int, open bool) error
}

// Manager owns one sandboxed LState per scripted object and dispatches hooks
// into it.
type Manager struct {
	mu        sync.Mutex
	states    map[int]*lua.LState
	host      Host
	roller    *dice.Roller
	instLimit int
	logger    *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: host, roller and logger must be non-nil; instLimit >= 0.
// Postcondition: Returns a Manager with no loaded scripts.
func NewManager(host Host, roller *dice.Roller, instLimit int, logger *zap.Logger) *Manager {
	return &Manager{
		states:    make(map[int]*lua.LState),
		host:      host,
		roller:    roller,
		instLimit: instLimit,
		logger:    logger,
	}
}

// Load compiles source into a fresh VM bound to objectID, replacing any
// earlier script for that object.
//
// Postcondition: returns an error when the chunk fails to load or run.
func (m *Manager) Load(objectID int, source string) error {
	L := NewSandboxedState(m.instLimit)
	m.RegisterModules(L)
	if err := withBudget(L, m.instLimit, func() error { return L.DoString(source) }); err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading script for object %d: %w", objectID, err)
	}

	m.mu.Lock()
	if old, ok := m.states[objectID]; ok {
		old.Close()
	}
	m.states[objectID] = L
	m.mu.Unlock()
	return nil
}

// Has reports whether objectID's script defines hook.
func (m *Manager) Has(objectID int, hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	L, ok := m.states[objectID]
	return ok && L.GetGlobal(hook) != lua.LNil
}

// CallHook calls hook in objectID's VM. Returns LNil when no script or hook
// exists. Lua runtime errors are logged at Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(objectID int, hook string, args ...lua.LValue) lua.LValue {
	m.mu.Lock()
	defer m.mu.Unlock()

	L, ok := m.states[objectID]
	if !ok {
		return lua.LNil
	}
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil
	}

	err := withBudget(L, m.instLimit, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.Int("object", objectID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret
}

// Handled calls hook and reports whether the script claimed the event by
// returning true.
func (m *Manager) Handled(objectID int, hook string, args ...lua.LValue) bool {
	return lua.LVAsBool(m.CallHook(objectID, hook, args...))
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, L := range m.states {
		L.Close()
		delete(m.states, id)
	}
}
