package trigger

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Dispatcher routes interaction events to the listeners of the owning entity.
// It runs synchronously inside the host's interaction callback.
type Dispatcher struct {
	listeners *Listeners
	world     World
	log       *zap.Logger
}

func NewDispatcher(listeners *Listeners, world World, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{listeners: listeners, world: world, log: log}
}

// Dispatch invokes every handler in Self's list for in.Event whose action
// and handler both accept in.Kind. All matching handlers run; their errors
// are joined.
func (d *Dispatcher) Dispatch(in Interaction) error {
	l, ok := d.listeners.Get(in.Self)
	if !ok {
		return nil
	}
	var errs []error
	for _, pair := range l.For(in.Event) {
		if !pair.Data.Base().SelectedTargets.Has(in.Kind) || !pair.Handler.Targets().Has(in.Kind) {
			continue
		}
		if err := d.safeCall(pair, in); err != nil {
			d.log.Error("trigger action failed",
				zap.Stringer("action", pair.Data.ActionType()),
				zap.Stringer("self", in.Self),
				zap.Stringer("other", in.Other),
				zap.Stringer("event", in.Event),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// safeCall executes a handler with panic recovery so a single faulty
// handler cannot take down the game loop.
func (d *Dispatcher) safeCall(pair HandlerDataPair, in Interaction) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic for %s: %v", pair.Data.ActionType(), rec)
		}
	}()
	return pair.Handler.Handle(d.world, in, pair.Data)
}
