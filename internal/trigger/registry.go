package trigger

import (
	"github.com/slocgo/loader/internal/sloc"
	"go.uber.org/zap"
)

// Registry maps action types to handlers. At most one handler exists per type.
//
// Registration is expected during startup, before any dispatch happens.
// The registry is not safe for registration concurrent with lookups.
type Registry struct {
	handlers map[sloc.ActionType]Handler
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		handlers: make(map[sloc.ActionType]Handler),
		log:      log,
	}
}

var defaultRegistry = NewRegistry(nil)

// Default returns the process-wide registry. Populate it (RegisterBuiltins plus
// any custom handlers) before creating objects.
func Default() *Registry {
	return defaultRegistry
}

// SetLogger replaces the registry's logger.
func (reg *Registry) SetLogger(log *zap.Logger) {
	reg.log = log
}

// Register maps t to h. The last registration for a type wins; a nil handler
// removes the mapping.
func (reg *Registry) Register(t sloc.ActionType, h Handler) {
	if h == nil {
		delete(reg.handlers, t)
		reg.log.Debug("trigger handler removed", zap.Stringer("action", t))
		return
	}
	if _, replaced := reg.handlers[t]; replaced {
		reg.log.Debug("trigger handler replaced", zap.Stringer("action", t), zap.Stringer("targets", h.Targets()))
	} else {
		reg.log.Debug("trigger handler registered", zap.Stringer("action", t), zap.Stringer("targets", h.Targets()))
	}
	reg.handlers[t] = h
}

// TryGetHandler looks up the handler for t.
func (reg *Registry) TryGetHandler(t sloc.ActionType) (Handler, bool) {
	h, ok := reg.handlers[t]
	return h, ok
}

// Len returns the number of registered handlers.
func (reg *Registry) Len() int {
	return len(reg.handlers)
}
