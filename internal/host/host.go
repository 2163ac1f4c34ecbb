// Package host declares the engine primitives the creation pipeline calls into.
// The pipeline never implements them; package scene provides an in-memory host.
package host

import (
	"errors"

	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/sloc"
)

// Kind selects the entity template the host instantiates.
type Kind uint8

const (
	KindRoot Kind = iota
	KindPrimitive
	KindLight
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindPrimitive:
		return "Primitive"
	case KindLight:
		return "Light"
	case KindEmpty:
		return "Empty"
	default:
		return "Unknown"
	}
}

// ErrMissingPrefab is returned when an entity template has not been loaded yet.
// Callers must load templates before creating objects.
var ErrMissingPrefab = errors.New("prefab is not loaded")

// Host is the engine side of entity creation. All methods are called from the
// game loop goroutine.
type Host interface {
	// CreateEntity instantiates a template. payload is *sloc.PrimitiveData for
	// KindPrimitive, *sloc.LightData for KindLight and nil otherwise.
	CreateEntity(kind Kind, payload any) (ecs.EntityID, error)
	SetLocalTransform(id ecs.EntityID, t sloc.Transform)
	SetParent(id, parent ecs.EntityID)
	// ApplyAbsoluteTransform recomputes id's world transform from parent's.
	// A zero parent means world space.
	ApplyAbsoluteTransform(id, parent ecs.EntityID)
	AddCollisionVolume(id ecs.EntityID, shape sloc.PrimitiveShape, isTrigger bool)
	MakeVisibleToObservers(id ecs.EntityID)
}
