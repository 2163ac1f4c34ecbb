package ecs

// Registry lists the component stores an entity is dropped from when the
// World flushes it.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{stores: make([]Removable, 0, 16)}
}

func (r *Registry) Register(stores ...Removable) {
	r.stores = append(r.stores, stores...)
}

func (r *Registry) Len() int { return len(r.stores) }

// RemoveAll clears id from every registered store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
