// Package scripting hosts sandboxed GopherLua VMs for enemy behaviour scripts.
// It knows nothing about game types; callers marshal state into Lua values.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget for one load or one hook call
// when no override is configured.
const DefaultInstructionLimit = 100_000

// budgetContext cancels itself once Done has been called limit times.
// GopherLua polls Done once per opcode while a context is set, so this is an
// exact instruction budget.
type budgetContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining atomic.Int64
}

func (c *budgetContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newBudget returns a context that cancels after limit opcodes.
// Precondition: limit > 0.
func newBudget(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	c := &budgetContext{Context: base, cancel: cancel}
	c.remaining.Store(int64(limit))
	return c, cancel
}

// NewSandboxedState creates an LState with only the base, table, string and
// math libraries, and with every global that can reach the filesystem or load
// code removed.
//
// The returned state has no opcode budget attached; Manager attaches a fresh
// one around each load and call via runBudgeted.
//
// Postcondition: the caller owns the LState and must Close it.
func NewSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// runBudgeted runs fn with an opcode budget of limit attached to L.
// Exceeding the budget makes fn's Lua call fail with a context error.
func runBudgeted(L *lua.LState, limit int, fn func() error) error {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	ctx, cancel := newBudget(limit)
	defer cancel()
	L.SetContext(ctx)
	defer L.RemoveContext()
	return fn()
}
