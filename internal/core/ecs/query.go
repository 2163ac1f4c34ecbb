package ecs

// Each2 visits entities that carry both an A and a B, walking the
// smaller store and looking each entity up in the larger one.
func Each2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for id, a := range sa.All() {
			if b, ok := sb.Get(id); ok {
				fn(id, a, b)
			}
		}
		return
	}
	for id, b := range sb.All() {
		if a, ok := sa.Get(id); ok {
			fn(id, a, b)
		}
	}
}
