// Package create turns sloc object sources into live entities and wires
// their trigger actions.
package create

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/host"
	"github.com/slocgo/loader/internal/sloc"
	"github.com/slocgo/loader/internal/sloc/source"
	"github.com/slocgo/loader/internal/trigger"
	"go.uber.org/zap"
)

// Options places a batch in the world.
type Options struct {
	Position mgl32.Vec3
	// Rotation of the batch root. The zero quaternion means identity.
	Rotation mgl32.Quat
	// Parent of the batch root. Zero means world space.
	Parent ecs.EntityID
	// SkipUnknownTypes omits objects of unknown type instead of failing the batch.
	SkipUnknownTypes bool
	// BaseID is the sequence ID of the first object in the source.
	BaseID int32
}

// Result describes a created batch.
type Result struct {
	Root  ecs.EntityID
	Count int
}

// Pipeline creates batches on a host. Calls run on the game loop goroutine
// and must not overlap.
type Pipeline struct {
	host      host.Host
	registry  *trigger.Registry
	listeners *trigger.Listeners
	log       *zap.Logger
}

// New returns a pipeline. A nil registry means trigger.Default().
func New(h host.Host, registry *trigger.Registry, listeners *trigger.Listeners, log *zap.Logger) *Pipeline {
	if registry == nil {
		registry = trigger.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{host: h, registry: registry, listeners: listeners, log: log}
}

// pendingRef is an ID-based action waiting for the whole batch to exist.
type pendingRef struct {
	owner ecs.EntityID
	data  *sloc.TeleportToSpawnedObjectData
}

// batch is the call-scoped state of one CreateOrSpawn call.
type batch struct {
	root      ecs.EntityID
	spawn     bool
	skip      bool
	instances map[int32]ecs.EntityID
	pending   []pendingRef
	count     int
	skipped   int
	actions   int
	unhandled int
}

// CreateOrSpawn creates a root at opts and one child per object of src, in
// order. When spawn is set the children are also made visible to observers.
//
// On error the returned Result still names the root created so far, so the
// caller can destroy the partial graph.
func (p *Pipeline) CreateOrSpawn(src source.Source, opts Options, spawn bool) (Result, error) {
	b, err := p.run(src, opts, spawn)
	if b == nil {
		return Result{}, err
	}
	return Result{Root: b.root, Count: b.count}, err
}

func (p *Pipeline) run(src source.Source, opts Options, spawn bool) (*batch, error) {
	root, err := p.createRoot(opts)
	if err != nil {
		return nil, err
	}
	b := &batch{
		root:      root,
		spawn:     spawn,
		skip:      opts.SkipUnknownTypes,
		instances: make(map[int32]ecs.EntityID),
	}

	seq := opts.BaseID
	for obj, err := range src.Objects() {
		if err != nil {
			return b, err
		}
		if err := p.createInBatch(b, seq, &obj); err != nil {
			return b, err
		}
		seq++
	}

	resolved, dropped := p.resolve(b)
	p.log.Info("sloc batch created",
		zap.Stringer("root", b.root),
		zap.Bool("spawned", spawn),
		zap.Int("objects", b.count),
		zap.Int("skipped", b.skipped),
		zap.Int("actions", b.actions),
		zap.Int("unhandled_actions", b.unhandled),
		zap.Int("references_resolved", resolved),
		zap.Int("references_dropped", dropped),
	)
	return b, nil
}

func (p *Pipeline) createRoot(opts Options) (ecs.EntityID, error) {
	root, err := p.host.CreateEntity(host.KindRoot, nil)
	if err != nil {
		return 0, err
	}
	t := sloc.IdentityTransform()
	t.Position = opts.Position
	t.Rotation = sloc.OrIdentity(opts.Rotation)
	p.host.SetParent(root, opts.Parent)
	p.host.SetLocalTransform(root, t)
	p.host.ApplyAbsoluteTransform(root, opts.Parent)
	return root, nil
}

// createInBatch materializes one object under the batch root and registers
// it under seq.
func (p *Pipeline) createInBatch(b *batch, seq int32, obj *sloc.Object) error {
	id, err := p.createObject(obj, b.root)
	if err != nil {
		var unknown *UnknownObjectTypeError
		if b.skip && errors.As(err, &unknown) {
			b.skipped++
			p.log.Debug("unknown object type skipped", zap.Int32("seq", seq), zap.Stringer("type", obj.Type))
			return nil
		}
		return err
	}
	b.instances[seq] = id
	b.count++

	if b.spawn && shouldSpawn(obj) {
		p.host.MakeVisibleToObservers(id)
	}
	p.attachActions(b, id, obj.TriggerActions)
	return nil
}

// attachActions partitions actions into id's listener. ID-based actions are
// deferred to the resolver; actions without a handler are omitted.
func (p *Pipeline) attachActions(b *batch, id ecs.EntityID, actions []sloc.ActionData) {
	if len(actions) == 0 {
		return
	}
	var l trigger.Listener
	for _, data := range actions {
		b.actions++
		if ref, ok := data.(*sloc.TeleportToSpawnedObjectData); ok {
			b.pending = append(b.pending, pendingRef{owner: id, data: ref})
			continue
		}
		h, ok := p.registry.TryGetHandler(data.ActionType())
		if !ok {
			b.unhandled++
			p.log.Debug("no handler for trigger action", zap.Stringer("entity", id), zap.Stringer("action", data.ActionType()))
			continue
		}
		l.Add(data, h)
	}
	p.listeners.Attach(id, &l)
}
