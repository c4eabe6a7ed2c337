// Package scripting runs the optional Lua hooks scenarios attach to objects.
// It has no dependency on the simulation; everything a script may touch is
// injected through Host.
package scripting

import (
	"context"
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget of one hook call when the
// host configures none.
const DefaultInstructionLimit = 100_000

// sandboxLibs are the only standard libraries a scenario script sees.
var sandboxLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// strippedGlobals are base-library functions that reach the filesystem,
// compile code at run time or steer the collector.
var strippedGlobals = []string{"dofile", "loadfile", "load", "collectgarbage", "require"}

// opBudget is a context that cancels itself once it has been polled limit
// times. The interpreter polls Done once per opcode while a context is set.
type opBudget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func newOpBudget(limit int) *opBudget {
	ctx, cancel := context.WithCancel(context.Background())
	b := &opBudget{Context: ctx, cancel: cancel}
	b.left.Store(int64(limit))
	return b
}

func (b *opBudget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

func effectiveLimit(instLimit int) int {
	if instLimit <= 0 {
		return DefaultInstructionLimit
	}
	return instLimit
}

// NewSandboxedState creates an interpreter that only has the base, table,
// string and math libraries, without the globals in strippedGlobals, and
// with an opcode budget of instLimit for code run directly on it.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: The caller owns the LState and must call L.Close() when done.
func NewSandboxedState(instLimit int) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range sandboxLibs {
		err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), Protect: true}, lua.LString(lib.name))
		if err != nil {
			panic(fmt.Sprintf("scripting: opening %s library: %v", lib.name, err))
		}
	}
	for _, name := range strippedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetContext(newOpBudget(effectiveLimit(instLimit)))
	return L
}

// withBudget runs fn under a fresh opcode budget and leaves L without one.
func withBudget(L *lua.LState, instLimit int, fn func() error) error {
	budget := newOpBudget(effectiveLimit(instLimit))
	defer budget.cancel()
	L.SetContext(budget)
	defer L.RemoveContext()
	return fn()
}
