package system

import (
	"time"

	"github.com/slocgo/loader/internal/core/event"
	coresys "github.com/slocgo/loader/internal/core/system"
	"github.com/slocgo/loader/internal/trigger"
	"go.uber.org/zap"
)

// EventSystem delivers last tick's events at the start of this tick.
// Interactions go to the trigger dispatcher, which logs handler failures.
// Phase 0 (Input).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus, dispatcher *trigger.Dispatcher) *EventSystem {
	event.Subscribe(bus, func(in trigger.Interaction) {
		_ = dispatcher.Dispatch(in)
	})
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *EventSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

// LogSceneEvents writes a debug line for every spawned and destroyed root.
func LogSceneEvents(bus *event.Bus, log *zap.Logger) {
	if log == nil {
		return
	}
	event.Subscribe(bus, func(ev event.ObjectsSpawned) {
		log.Debug("objects spawned",
			zap.String("asset", ev.Asset),
			zap.Stringer("root", ev.Root),
			zap.Int("count", ev.Count))
	})
	event.Subscribe(bus, func(ev event.RootDestroyed) {
		log.Debug("root destroyed", zap.Stringer("root", ev.Root))
	})
}
