package scripting

import (
	"errors"
	"fmt"

	"github.com/slocgo/loader/internal/config"
	"github.com/slocgo/loader/internal/sloc"
	"github.com/slocgo/loader/internal/trigger"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Handler is a trigger handler implemented by a global Lua function. The
// function receives a context table and may return an error message.
//
//	function on_enter(ctx)
//	  -- ctx.self, ctx.other: entity ids
//	  -- ctx.kind, ctx.event, ctx.action: names
//	  -- ctx.position / ctx.offset / ctx.room / ctx.cause: action payload
//	end
type Handler struct {
	engine  *Engine
	fn      string
	targets sloc.TargetType
}

// Handler binds fn as a trigger handler accepting targets.
func (e *Engine) Handler(fn string, targets sloc.TargetType) *Handler {
	return &Handler{engine: e, fn: fn, targets: targets}
}

func (h *Handler) Targets() sloc.TargetType { return h.targets }

func (h *Handler) Handle(w trigger.World, in trigger.Interaction, data sloc.ActionData) error {
	e := h.engine
	fn := e.vm.GetGlobal(h.fn)
	if fn == lua.LNil {
		return fmt.Errorf("lua function %s not found", h.fn)
	}

	e.world = w
	defer func() { e.world = nil }()

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, h.context(in, data)); err != nil {
		return fmt.Errorf("lua %s: %w", h.fn, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	if msg, ok := result.(lua.LString); ok && msg != "" {
		return fmt.Errorf("lua %s: %s", h.fn, string(msg))
	}
	return nil
}

func (h *Handler) context(in trigger.Interaction, data sloc.ActionData) *lua.LTable {
	L := h.engine.vm
	t := L.NewTable()
	t.RawSetString("self", pushID(in.Self))
	t.RawSetString("other", pushID(in.Other))
	t.RawSetString("kind", lua.LString(in.Kind.String()))
	t.RawSetString("event", lua.LString(in.Event.String()))
	t.RawSetString("action", lua.LString(data.ActionType().String()))
	t.RawSetString("options", lua.LNumber(data.Base().Options))

	switch d := data.(type) {
	case *sloc.TeleportToPositionData:
		t.RawSetString("position", vecTable(L, d.Position))
	case *sloc.RuntimeTeleportToSpawnedObjectData:
		t.RawSetString("target", pushID(d.Target))
		t.RawSetString("offset", vecTable(L, d.Offset))
	case *sloc.TeleportToRoomData:
		t.RawSetString("room", lua.LString(d.Room))
		t.RawSetString("position", vecTable(L, d.Position))
	case *sloc.MoveRelativeToSelfData:
		t.RawSetString("offset", vecTable(L, d.Offset))
	case *sloc.KillPlayerData:
		t.RawSetString("cause", lua.LString(d.Cause))
	}
	return t
}

// BindHandlers registers one Lua handler per binding into reg, replacing
// any built-in handler for the same action type.
func (e *Engine) BindHandlers(reg *trigger.Registry, bindings []config.ScriptHandler) error {
	var errs []error
	for _, b := range bindings {
		t, err := sloc.ParseActionType(b.Action)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		targets, err := parseTargets(b.Targets)
		if err != nil {
			errs = append(errs, fmt.Errorf("handler %s: %w", b.Function, err))
			continue
		}
		if !e.HasFunction(b.Function) {
			errs = append(errs, fmt.Errorf("handler for %s: lua function %s not found", t, b.Function))
			continue
		}
		reg.Register(t, e.Handler(b.Function, targets))
		e.log.Info("lua trigger handler bound",
			zap.Stringer("action", t),
			zap.String("function", b.Function),
			zap.Stringer("targets", targets),
		)
	}
	return errors.Join(errs...)
}

// parseTargets folds target kind names into a set. No names means all kinds.
func parseTargets(names []string) (sloc.TargetType, error) {
	if len(names) == 0 {
		return sloc.TargetAll, nil
	}
	targets := sloc.TargetNone
	for _, name := range names {
		k, err := sloc.ParseTargetType(name)
		if err != nil {
			return sloc.TargetNone, err
		}
		targets |= k
	}
	return targets, nil
}
