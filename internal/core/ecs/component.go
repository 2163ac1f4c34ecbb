package ecs

import "iter"

// Removable lets the Registry drop a destroyed entity from every store.
type Removable interface {
	Remove(id EntityID)
}

// PtrComponentStore holds one component per entity by pointer, so scene
// systems mutate components in place.
type PtrComponentStore[T any] struct {
	data map[EntityID]*T
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{data: make(map[EntityID]*T, 64)}
}

func (s *PtrComponentStore[T]) Set(id EntityID, c *T) { s.data[id] = c }

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

// GetOrCreate returns the component for id, creating it with newFn when absent.
func (s *PtrComponentStore[T]) GetOrCreate(id EntityID, newFn func() *T) *T {
	c, ok := s.data[id]
	if !ok {
		c = newFn()
		s.data[id] = c
	}
	return c
}

func (s *PtrComponentStore[T]) Remove(id EntityID) { delete(s.data, id) }

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int { return len(s.data) }

// All yields every entity and its component in unspecified order.
// Removing the yielded entity during iteration is allowed.
func (s *PtrComponentStore[T]) All() iter.Seq2[EntityID, *T] {
	return func(yield func(EntityID, *T) bool) {
		for id, c := range s.data {
			if !yield(id, c) {
				return
			}
		}
	}
}
