// Package trigger maps trigger action types to handlers and routes physical
// interaction events to the handlers configured on each entity.
package trigger

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/sloc"
)

// ErrPayloadMismatch means a handler received a payload variant it was not
// registered for. This is a wiring bug, never a data problem.
var ErrPayloadMismatch = errors.New("trigger action payload does not match handler")

// Interaction is one physical interaction event between the trigger owner
// (Self) and an interacting object (Other) of the given kind.
type Interaction struct {
	Self  ecs.EntityID
	Other ecs.EntityID
	Kind  sloc.TargetType
	Event sloc.EventType
}

// World is what handlers may observe and change.
type World interface {
	WorldTransform(id ecs.EntityID) (pos mgl32.Vec3, rot mgl32.Quat, ok bool)
	Teleport(id ecs.EntityID, pos mgl32.Vec3, rot mgl32.Quat, opts sloc.TeleportOptions) bool
	Kill(id ecs.EntityID, cause string) bool
}

// RoomLocator resolves a room name to its live anchor.
type RoomLocator interface {
	Room(name string) (pos mgl32.Vec3, rot mgl32.Quat, ok bool)
}

// Handler executes one kind of trigger action.
type Handler interface {
	// Targets lists the interacting object kinds the handler accepts.
	Targets() sloc.TargetType
	Handle(w World, in Interaction, data sloc.ActionData) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc struct {
	Kinds sloc.TargetType
	Fn    func(w World, in Interaction, data sloc.ActionData) error
}

func (h HandlerFunc) Targets() sloc.TargetType { return h.Kinds }

func (h HandlerFunc) Handle(w World, in Interaction, data sloc.ActionData) error {
	return h.Fn(w, in, data)
}

// payloadAs asserts the concrete payload type a handler expects.
func payloadAs[T sloc.ActionData](data sloc.ActionData) (T, error) {
	d, ok := data.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: got %T, want %T", ErrPayloadMismatch, data, zero)
	}
	return d, nil
}
