package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l1jgo/regioncore/internal/combat"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. One engine per region: the VM is only
// touched from that region's goroutine.
type Engine struct {
	vm       *lua.LState
	roll     combat.Roller
	fallback combat.StatMath
	log      *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
// Scripts draw random numbers through rand_int so a seeded roller replays.
func NewEngine(scriptsDir string, roll combat.Roller, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(2))

	e := &Engine{vm: vm, roll: roll, fallback: combat.StatMath{Roll: roll}, log: log}
	vm.SetGlobal("rand_int", vm.NewFunction(e.luaRandInt))

	// Load core scripts first, then feature scripts
	for _, sub := range []string{"core", "combat", "ai"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// LoadString runs a chunk of Lua source, mostly for tests and hot fixes.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// rand_int(n) returns an integer in [0, n).
func (e *Engine) luaRandInt(L *lua.LState) int {
	n := L.CheckInt(1)
	if n <= 0 {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(e.roll.IntN(n)))
	return 1
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lFloat reads a number field from a Lua table.
func lFloat(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

func lBool(b bool) lua.LValue {
	if b {
		return lua.LTrue
	}
	return lua.LFalse
}

// call invokes a global function with one table argument and returns its
// single result. ok is false when the function is missing or raised an error.
func (e *Engine) call(name string, arg lua.LValue) (lua.LValue, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return lua.LNil, false
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return lua.LNil, false
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result, true
}

// Has reports whether a global Lua function is defined.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
