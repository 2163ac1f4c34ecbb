package trigger

import (
	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/sloc"
)

// HandlerDataPair binds an action payload to the handler that executes it.
type HandlerDataPair struct {
	Data    sloc.ActionData
	Handler Handler
}

// Listener holds an entity's configured actions, one list per event kind.
// Lists keep insertion order.
type Listener struct {
	Enter []HandlerDataPair
	Stay  []HandlerDataPair
	Exit  []HandlerDataPair
}

// Add appends the pair to every list selected by data's events. An action
// without selected events is ignored and Add reports false.
func (l *Listener) Add(data sloc.ActionData, h Handler) bool {
	e := data.Base().SelectedEvents
	if e == sloc.EventNone {
		return false
	}
	pair := HandlerDataPair{Data: data, Handler: h}
	added := false
	if e.Is(sloc.EventEnter) {
		l.Enter = append(l.Enter, pair)
		added = true
	}
	if e.Is(sloc.EventStay) {
		l.Stay = append(l.Stay, pair)
		added = true
	}
	if e.Is(sloc.EventExit) {
		l.Exit = append(l.Exit, pair)
		added = true
	}
	return added
}

// For returns the list for a single event kind.
func (l *Listener) For(ev sloc.EventType) []HandlerDataPair {
	switch ev {
	case sloc.EventEnter:
		return l.Enter
	case sloc.EventStay:
		return l.Stay
	case sloc.EventExit:
		return l.Exit
	}
	return nil
}

// Empty reports whether no list has entries.
func (l *Listener) Empty() bool {
	return len(l.Enter) == 0 && len(l.Stay) == 0 && len(l.Exit) == 0
}

// Listeners stores one Listener per entity. Register it with the ECS
// registry so a listener is dropped together with its entity.
type Listeners struct {
	store *ecs.PtrComponentStore[Listener]
}

func NewListeners() *Listeners {
	return &Listeners{store: ecs.NewPtrComponentStore[Listener]()}
}

func (ls *Listeners) Get(id ecs.EntityID) (*Listener, bool) {
	return ls.store.Get(id)
}

// Attach merges l into id's listener. Empty listeners are not stored.
func (ls *Listeners) Attach(id ecs.EntityID, l *Listener) {
	if l == nil || l.Empty() {
		return
	}
	existing, ok := ls.store.Get(id)
	if !ok {
		ls.store.Set(id, l)
		return
	}
	existing.Enter = append(existing.Enter, l.Enter...)
	existing.Stay = append(existing.Stay, l.Stay...)
	existing.Exit = append(existing.Exit, l.Exit...)
}

// AddTriggerAction adds one action to id's listener after creation.
func (ls *Listeners) AddTriggerAction(id ecs.EntityID, data sloc.ActionData, h Handler) bool {
	if data.Base().SelectedEvents == sloc.EventNone {
		return false
	}
	l := ls.store.GetOrCreate(id, func() *Listener { return &Listener{} })
	return l.Add(data, h)
}

// Remove implements ecs.Removable.
func (ls *Listeners) Remove(id ecs.EntityID) {
	ls.store.Remove(id)
}

func (ls *Listeners) Len() int {
	return ls.store.Len()
}
