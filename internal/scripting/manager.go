package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

// ErrUnknownScript is returned by Call when no script is loaded under the requested name.
var ErrUnknownScript = errors.New("scripting: unknown script")

// vm is one loaded script. An LState is single-threaded, so every use holds mu.
type vm struct {
	mu sync.Mutex
	L  *lua.LState
}

// Manager owns one sandboxed VM per script, keyed by script name.
// All methods are safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	limit  int
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates an empty Manager.
//
// Precondition: instLimit <= 0 selects DefaultInstructionLimit. roller may be nil,
// in which case engine.roll always returns 1.
// Postcondition: Returns a non-nil Manager with no scripts loaded.
func NewManager(roller *dice.Roller, instLimit int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	return &Manager{
		vms:    make(map[string]*vm),
		limit:  instLimit,
		roller: roller,
		logger: logger,
	}
}

// LoadDirectory loads every *.lua file in dir into its own VM, named by the
// file's base name without extension ("berserker.lua" becomes "berserker").
//
// Precondition: dir must be a readable directory.
// Postcondition: on error, scripts loaded before the failing file remain registered.
func (m *Manager) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for _, f := range files {
		src, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return fmt.Errorf("scripting: reading %q: %w", f, err)
		}
		if err := m.LoadString(strings.TrimSuffix(f, ".lua"), string(src)); err != nil {
			return err
		}
	}
	return nil
}

// LoadString compiles and runs src in a fresh VM registered as name,
// replacing and closing any VM previously registered under that name.
//
// Precondition: name must be non-empty.
// Postcondition: Returns an error if src fails to compile, fails at top level, or exhausts its budget.
func (m *Manager) LoadString(name, src string) error {
	if name == "" {
		return errors.New("scripting: script name must not be empty")
	}
	L := NewSandboxedState()
	m.RegisterModules(L, name)
	if err := runBudgeted(L, m.limit, func() error { return L.DoString(src) }); err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading %q: %w", name, err)
	}

	m.mu.Lock()
	old := m.vms[name]
	m.vms[name] = &vm{L: L}
	m.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("script loaded", zap.String("script", name))
	return nil
}

// Has reports whether a script is registered under name.
func (m *Manager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[name]
	return ok
}

// Names returns the registered script names in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vms))
	for n := range m.vms {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Call invokes the global function hook in script name with a fresh opcode budget.
//
// A hook that is not defined returns (LNil, nil). Lua runtime errors, including
// budget exhaustion, are logged at Warn and also return (LNil, nil) so a broken
// script can never abort the caller.
//
// Postcondition: Returns ErrUnknownScript if name is not registered; otherwise
// the hook's first return value or LNil.
func (m *Manager) Call(name, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[name]
	m.mu.RUnlock()
	if !ok {
		return lua.LNil, fmt.Errorf("%w: %q", ErrUnknownScript, name)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	fn := v.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}
	err := runBudgeted(v.L, m.limit, func() error {
		return v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", name),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close closes every VM and empties the registry.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
	}
}
