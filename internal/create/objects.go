package create

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/host"
	"github.com/slocgo/loader/internal/sloc"
)

// UnknownObjectTypeError is returned for an object whose type tag no creator
// handles.
type UnknownObjectTypeError struct {
	Type sloc.ObjectType
}

func (e *UnknownObjectTypeError) Error() string {
	return fmt.Sprintf("unknown object type %s", e.Type)
}

// createObject dispatches on the object type and parents the new entity
// under parent.
func (p *Pipeline) createObject(obj *sloc.Object, parent ecs.EntityID) (ecs.EntityID, error) {
	if obj.Type.Known() {
		if err := obj.Validate(); err != nil {
			return 0, fmt.Errorf("invalid %s object: %w", obj.Type, err)
		}
	}
	switch obj.Type {
	case sloc.TypePrimitive:
		return p.createPrimitive(obj, parent)
	case sloc.TypeLight:
		return p.place(host.KindLight, obj.Light, obj.Transform, parent)
	case sloc.TypeEmpty:
		return p.place(host.KindEmpty, nil, obj.Transform, parent)
	}
	return 0, &UnknownObjectTypeError{Type: obj.Type}
}

func (p *Pipeline) createPrimitive(obj *sloc.Object, parent ecs.EntityID) (ecs.EntityID, error) {
	prim := obj.Primitive
	mode := prim.ColliderMode.Resolved()

	t := obj.Transform
	if !mode.HasClientCollider() {
		// a negative scale tells observers the primitive has no collider
		t.Scale = negAbs(t.Scale)
	}
	id, err := p.place(host.KindPrimitive, prim, t, parent)
	if err != nil {
		return 0, err
	}
	if mode.HasServerCollider() {
		p.host.AddCollisionVolume(id, prim.Shape, mode.IsTrigger())
	}
	return id, nil
}

func (p *Pipeline) place(kind host.Kind, payload any, t sloc.Transform, parent ecs.EntityID) (ecs.EntityID, error) {
	id, err := p.host.CreateEntity(kind, payload)
	if err != nil {
		return 0, fmt.Errorf("create %s entity: %w", kind, err)
	}
	t.Rotation = sloc.OrIdentity(t.Rotation)
	p.host.SetParent(id, parent)
	p.host.SetLocalTransform(id, t)
	p.host.ApplyAbsoluteTransform(id, parent)
	return id, nil
}

func shouldSpawn(obj *sloc.Object) bool {
	if obj.Type == sloc.TypePrimitive {
		return obj.Primitive.ColliderMode.ShouldSpawn()
	}
	return true
}

func negAbs(v mgl32.Vec3) mgl32.Vec3 {
	for i, c := range v {
		if c > 0 {
			v[i] = -c
		}
	}
	return v
}
