package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/slocgo/loader/internal/trigger"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM running scripted trigger handlers.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger

	// world is the trigger.World of the handler call in progress; the
	// "world" Lua module operates on it.
	world trigger.World
}

// NewEngine creates a Lua engine and loads all scripts from scriptsDir,
// then from its "core" and "triggers" subdirectories.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	e.openWorldModule()

	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "core"), filepath.Join(scriptsDir, "triggers")} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
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

// DoString runs a chunk of Lua, e.g. an inline handler definition.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether a global Lua function exists.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
