package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/core/event"
	"github.com/slocgo/loader/internal/host"
	"github.com/slocgo/loader/internal/sloc"
	"github.com/slocgo/loader/internal/trigger"
	"go.uber.org/zap"
)

// Actor is an object that can interact with trigger volumes: a player, a
// pickup, a toy or a ragdoll.
type Actor struct {
	Kind         sloc.TargetType
	Name         string
	Velocity     mgl32.Vec3
	FallDistance float32
	Dead         bool
	DeathCause   string
}

// SpawnActor adds an actor at pos in world space. Actors are not prefabs and
// can be added before prefabs are loaded.
func (s *Scene) SpawnActor(kind sloc.TargetType, name string, pos mgl32.Vec3) ecs.EntityID {
	id := s.newNode(host.KindEmpty)
	n, _ := s.nodes.Get(id)
	n.Local.Position = pos
	n.Position = pos
	s.actors.Set(id, &Actor{Kind: kind, Name: name})
	return id
}

func (s *Scene) Actor(id ecs.EntityID) (*Actor, bool) { return s.actors.Get(id) }

// MoveActor places an actor at pos and keeps its velocity.
func (s *Scene) MoveActor(id ecs.EntityID, pos mgl32.Vec3) bool {
	n, ok := s.nodes.Get(id)
	if !ok || !s.actors.Has(id) {
		return false
	}
	s.setWorld(id, n, pos, n.Rotation)
	return true
}

// Interact emits one interaction between the trigger owner self and the
// actor other. It is delivered on the next tick.
func (s *Scene) Interact(self, other ecs.EntityID, ev sloc.EventType) bool {
	a, ok := s.actors.Get(other)
	if !ok || !s.world.Alive(self) {
		return false
	}
	event.Emit(s.bus, trigger.Interaction{Self: self, Other: other, Kind: a.Kind, Event: ev})
	return true
}

func (s *Scene) WorldTransform(id ecs.EntityID) (mgl32.Vec3, mgl32.Quat, bool) {
	if !s.world.Alive(id) {
		return mgl32.Vec3{}, mgl32.Quat{}, false
	}
	n, ok := s.nodes.Get(id)
	if !ok {
		return mgl32.Vec3{}, mgl32.Quat{}, false
	}
	return n.Position, n.Rotation, true
}

func (s *Scene) Teleport(id ecs.EntityID, pos mgl32.Vec3, rot mgl32.Quat, opts sloc.TeleportOptions) bool {
	n, ok := s.nodes.Get(id)
	if !ok || !s.world.Alive(id) {
		return false
	}
	s.setWorld(id, n, pos, sloc.OrIdentity(rot))
	if a, ok := s.actors.Get(id); ok {
		if !opts.Has(sloc.OptionPreserveMomentum) {
			a.Velocity = mgl32.Vec3{}
		}
		if opts.Has(sloc.OptionResetFallDamage) {
			a.FallDistance = 0
		}
	}
	s.log.Debug("teleported", zap.Stringer("entity", id), zap.Float32("x", pos[0]), zap.Float32("y", pos[1]), zap.Float32("z", pos[2]))
	return true
}

// Kill marks a player actor dead. Other kinds cannot die.
func (s *Scene) Kill(id ecs.EntityID, cause string) bool {
	a, ok := s.actors.Get(id)
	if !ok || a.Kind != sloc.TargetPlayer || a.Dead {
		return false
	}
	a.Dead = true
	a.DeathCause = cause
	a.Velocity = mgl32.Vec3{}
	s.log.Info("player killed", zap.String("name", a.Name), zap.String("cause", cause))
	return true
}

// setWorld moves id to a world pose by rewriting its local transform
// relative to its parent.
func (s *Scene) setWorld(id ecs.EntityID, n *Node, pos mgl32.Vec3, rot mgl32.Quat) {
	p, ok := s.nodes.Get(n.Parent)
	if !ok {
		n.Local.Position, n.Local.Rotation = pos, rot
	} else {
		inv := p.Rotation.Inverse()
		local := inv.Rotate(pos.Sub(p.Position))
		n.Local.Position = divElem(local, p.Scale)
		n.Local.Rotation = inv.Mul(rot).Normalize()
	}
	s.refresh(id, n, p)
}

func divElem(a, b mgl32.Vec3) mgl32.Vec3 {
	for i := range 3 {
		if b[i] != 0 {
			a[i] /= b[i]
		}
	}
	return a
}
