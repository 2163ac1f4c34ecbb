package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/core/event"
	"github.com/slocgo/loader/internal/host"
	"github.com/slocgo/loader/internal/sloc"
	"go.uber.org/zap"
)

func (s *Scene) CreateEntity(kind host.Kind, payload any) (ecs.EntityID, error) {
	if !s.prefabsLoaded {
		return 0, fmt.Errorf("%s: %w", kind, host.ErrMissingPrefab)
	}
	id := s.newNode(kind)
	switch p := payload.(type) {
	case *sloc.PrimitiveData:
		c := *p
		s.primitives.Set(id, &c)
	case *sloc.LightData:
		c := *p
		s.lights.Set(id, &c)
	}
	return id, nil
}

func (s *Scene) newNode(kind host.Kind) ecs.EntityID {
	id := s.world.CreateEntity()
	t := sloc.IdentityTransform()
	s.nodes.Set(id, &Node{
		Kind:     kind,
		Local:    t,
		Rotation: t.Rotation,
		Scale:    t.Scale,
	})
	return id
}

func (s *Scene) SetLocalTransform(id ecs.EntityID, t sloc.Transform) {
	if n, ok := s.nodes.Get(id); ok {
		n.Local = t
	}
}

// SetParent moves id under parent. A zero or unknown parent detaches id.
func (s *Scene) SetParent(id, parent ecs.EntityID) {
	n, ok := s.nodes.Get(id)
	if !ok || n.Parent == parent {
		return
	}
	s.detach(id, n)
	if p, ok := s.nodes.Get(parent); ok && parent != id {
		n.Parent = parent
		p.Children = append(p.Children, id)
	}
}

func (s *Scene) detach(id ecs.EntityID, n *Node) {
	if p, ok := s.nodes.Get(n.Parent); ok {
		for i, c := range p.Children {
			if c == id {
				p.Children = append(p.Children[:i], p.Children[i+1:]...)
				break
			}
		}
	}
	n.Parent = 0
}

// ApplyAbsoluteTransform derives id's world transform from parent's and
// propagates it to id's subtree.
func (s *Scene) ApplyAbsoluteTransform(id, parent ecs.EntityID) {
	n, ok := s.nodes.Get(id)
	if !ok {
		return
	}
	p, _ := s.nodes.Get(parent)
	s.refresh(id, n, p)
}

func (s *Scene) refresh(id ecs.EntityID, n, parent *Node) {
	local := n.Local
	rot := sloc.OrIdentity(local.Rotation)
	scale := s.hierarchyScale(id, local.Scale)
	if parent == nil {
		n.Position, n.Rotation, n.Scale = local.Position, rot, scale
	} else {
		scaled := mulElem(parent.Scale, local.Position)
		n.Position = parent.Position.Add(parent.Rotation.Rotate(scaled))
		n.Rotation = parent.Rotation.Mul(rot).Normalize()
		n.Scale = mulElem(parent.Scale, scale)
	}
	if c, ok := s.colliders.Get(id); ok && c.Trigger {
		s.volumes.Place(id, n.Position, n.Scale)
	}
	for _, child := range n.Children {
		if cn, ok := s.nodes.Get(child); ok {
			s.refresh(child, cn, n)
		}
	}
}

// hierarchyScale strips the "no client collider" sign marker from a
// primitive's local scale. The marker stays in Node.Local for observers.
func (s *Scene) hierarchyScale(id ecs.EntityID, scale mgl32.Vec3) mgl32.Vec3 {
	p, ok := s.primitives.Get(id)
	if !ok || p.ColliderMode.HasClientCollider() {
		return scale
	}
	return mgl32.Vec3{abs(scale[0]), abs(scale[1]), abs(scale[2])}
}

func (s *Scene) AddCollisionVolume(id ecs.EntityID, shape sloc.PrimitiveShape, isTrigger bool) {
	n, ok := s.nodes.Get(id)
	if !ok {
		return
	}
	s.colliders.Set(id, &Collider{Shape: shape, Trigger: isTrigger})
	if isTrigger {
		s.volumes.Place(id, n.Position, n.Scale)
	}
}

func (s *Scene) MakeVisibleToObservers(id ecs.EntityID) {
	if s.nodes.Has(id) {
		s.visible.Set(id, &Visible{})
	}
}

// Destroy queues root and its whole subtree for destruction at the end of
// the tick. Listeners go with their entities.
func (s *Scene) Destroy(root ecs.EntityID) int {
	n, ok := s.nodes.Get(root)
	if !ok {
		return 0
	}
	s.detach(root, n)
	count := s.markSubtree(root)
	event.Emit(s.bus, event.RootDestroyed{Root: root})
	s.log.Debug("object graph destroyed", zap.Stringer("root", root), zap.Int("entities", count))
	return count
}

func (s *Scene) markSubtree(id ecs.EntityID) int {
	count := 1
	s.world.MarkForDestruction(id)
	if n, ok := s.nodes.Get(id); ok {
		for _, c := range n.Children {
			count += s.markSubtree(c)
		}
	}
	return count
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
