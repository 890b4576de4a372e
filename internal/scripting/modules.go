package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the engine table into L:
//
//	engine.log(msg)  writes msg to the Manager's logger at debug level
//	engine.roll(n)   returns a uniform integer in [1, n]; n < 1 raises an error
//
// Precondition: L must come from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState, script string) {
	engine := L.NewTable()
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("lua", zap.String("script", script), zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetField(engine, "roll", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "sides must be >= 1")
			return 0
		}
		if m.roller == nil {
			L.Push(lua.LNumber(1))
			return 1
		}
		L.Push(lua.LNumber(m.roller.Intn(n) + 1))
		return 1
	}))
	L.SetGlobal("engine", engine)
}
