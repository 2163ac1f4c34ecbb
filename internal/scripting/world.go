package scripting

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/sloc"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Entity IDs cross into Lua as decimal strings: a float64 cannot hold every
// generation of a 64-bit ID.
func pushID(id ecs.EntityID) lua.LString {
	return lua.LString(strconv.FormatUint(uint64(id), 10))
}

func checkID(L *lua.LState, n int) ecs.EntityID {
	v, err := strconv.ParseUint(L.CheckString(n), 10, 64)
	if err != nil {
		L.ArgError(n, "entity id expected")
	}
	return ecs.EntityID(v)
}

func vecTable(L *lua.LState, v mgl32.Vec3) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("x", lua.LNumber(v[0]))
	t.RawSetString("y", lua.LNumber(v[1]))
	t.RawSetString("z", lua.LNumber(v[2]))
	return t
}

// openWorldModule installs the global "world" table:
//
//	world.position(id)                         -> {x, y, z} or nil
//	world.teleport(id, x, y, z [, keep_momentum]) -> bool
//	world.kill(id, cause)                      -> bool
//	world.log(msg)
func (e *Engine) openWorldModule() {
	mod := e.vm.NewTable()
	e.vm.SetFuncs(mod, map[string]lua.LGFunction{
		"position": e.luaPosition,
		"teleport": e.luaTeleport,
		"kill":     e.luaKill,
		"log":      e.luaLog,
	})
	e.vm.SetGlobal("world", mod)
}

func (e *Engine) luaPosition(L *lua.LState) int {
	id := checkID(L, 1)
	if e.world == nil {
		L.Push(lua.LNil)
		return 1
	}
	pos, _, ok := e.world.WorldTransform(id)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(vecTable(L, pos))
	return 1
}

func (e *Engine) luaTeleport(L *lua.LState) int {
	id := checkID(L, 1)
	pos := mgl32.Vec3{float32(L.CheckNumber(2)), float32(L.CheckNumber(3)), float32(L.CheckNumber(4))}
	var opts sloc.TeleportOptions
	if L.OptBool(5, false) {
		opts |= sloc.OptionPreserveMomentum
	}
	ok := false
	if e.world != nil {
		_, rot, found := e.world.WorldTransform(id)
		ok = found && e.world.Teleport(id, pos, rot, opts)
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (e *Engine) luaKill(L *lua.LState) int {
	id := checkID(L, 1)
	cause := L.OptString(2, "")
	ok := e.world != nil && e.world.Kill(id, cause)
	L.Push(lua.LBool(ok))
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
