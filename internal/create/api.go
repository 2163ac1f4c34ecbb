package create

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/sloc"
	"github.com/slocgo/loader/internal/sloc/source"
)

// CreateObjects creates every object of src under a new root placed by opts.
func (p *Pipeline) CreateObjects(src source.Source, opts Options) (Result, error) {
	return p.CreateOrSpawn(src, opts, false)
}

// SpawnObjects is CreateObjects followed by making each object visible to
// observers, except primitives whose collider mode opts out.
func (p *Pipeline) SpawnObjects(src source.Source, opts Options) (Result, error) {
	return p.CreateOrSpawn(src, opts, true)
}

func (p *Pipeline) CreateObjectsAt(src source.Source, pos mgl32.Vec3, rot mgl32.Quat) (Result, error) {
	return p.CreateObjects(src, Options{Position: pos, Rotation: rot})
}

func (p *Pipeline) SpawnObjectsAt(src source.Source, pos mgl32.Vec3, rot mgl32.Quat) (Result, error) {
	return p.SpawnObjects(src, Options{Position: pos, Rotation: rot})
}

// CreateObject creates a single object directly under parent, without a
// batch root. An ID-based action on obj can only reference obj itself (ID 0).
func (p *Pipeline) CreateObject(obj sloc.Object, parent ecs.EntityID) (ecs.EntityID, error) {
	return p.single(obj, parent, false)
}

// SpawnObject is CreateObject followed by the visibility step.
func (p *Pipeline) SpawnObject(obj sloc.Object, parent ecs.EntityID) (ecs.EntityID, error) {
	return p.single(obj, parent, true)
}

func (p *Pipeline) single(obj sloc.Object, parent ecs.EntityID, spawn bool) (ecs.EntityID, error) {
	b := &batch{
		root:      parent,
		spawn:     spawn,
		instances: make(map[int32]ecs.EntityID, 1),
	}
	if err := p.createInBatch(b, 0, &obj); err != nil {
		return 0, err
	}
	p.resolve(b)
	return b.instances[0], nil
}
