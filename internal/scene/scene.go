// Package scene is an in-memory host for created object graphs. It keeps a
// transform hierarchy, the actors that interact with trigger volumes and the
// prefab gate, all as ECS component stores.
// Accessed only from the game loop goroutine, without locks.
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

// Node places an entity in the hierarchy. Local is relative to Parent and is
// what observers receive, including the negative scale that marks a primitive
// without a client collider. Position, Rotation and Scale are the derived
// world values and never carry that marker.
type Node struct {
	Kind     host.Kind
	Parent   ecs.EntityID
	Children []ecs.EntityID
	Local    sloc.Transform

	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Collider is a collision volume added by the creation pipeline.
type Collider struct {
	Shape   sloc.PrimitiveShape
	Trigger bool
}

// Visible marks entities replicated to observers.
type Visible struct{}

// Scene implements host.Host and trigger.World.
type Scene struct {
	world *ecs.World
	bus   *event.Bus
	log   *zap.Logger

	nodes      *ecs.PtrComponentStore[Node]
	primitives *ecs.PtrComponentStore[sloc.PrimitiveData]
	lights     *ecs.PtrComponentStore[sloc.LightData]
	colliders  *ecs.PtrComponentStore[Collider]
	visible    *ecs.PtrComponentStore[Visible]
	actors     *ecs.PtrComponentStore[Actor]
	listeners  *trigger.Listeners
	volumes    *VolumeGrid

	inside map[overlap]struct{}

	prefabsLoaded bool
	onPrefabs     []func()
}

var (
	_ host.Host     = (*Scene)(nil)
	_ trigger.World = (*Scene)(nil)
)

// New creates a scene on world. Every component store, including the trigger
// listeners, is registered with the world so destroyed entities drop them.
func New(world *ecs.World, bus *event.Bus, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scene{
		world:      world,
		bus:        bus,
		log:        log,
		nodes:      ecs.NewPtrComponentStore[Node](),
		primitives: ecs.NewPtrComponentStore[sloc.PrimitiveData](),
		lights:     ecs.NewPtrComponentStore[sloc.LightData](),
		colliders:  ecs.NewPtrComponentStore[Collider](),
		visible:    ecs.NewPtrComponentStore[Visible](),
		actors:     ecs.NewPtrComponentStore[Actor](),
		listeners:  trigger.NewListeners(),
		volumes:    NewVolumeGrid(),
		inside:     make(map[overlap]struct{}),
	}
	world.Registry().Register(s.nodes, s.primitives, s.lights, s.colliders,
		s.visible, s.actors, s.listeners, s.volumes)
	return s
}

func (s *Scene) World() *ecs.World { return s.world }

func (s *Scene) Bus() *event.Bus { return s.bus }

// Listeners is the trigger listener store the creation pipeline writes to.
func (s *Scene) Listeners() *trigger.Listeners { return s.listeners }

func (s *Scene) Node(id ecs.EntityID) (*Node, bool) { return s.nodes.Get(id) }

// Children returns id's direct children in creation order.
func (s *Scene) Children(id ecs.EntityID) []ecs.EntityID {
	n, ok := s.nodes.Get(id)
	if !ok {
		return nil
	}
	return n.Children
}

// Collider returns id's collision volume.
func (s *Scene) Collider(id ecs.EntityID) (*Collider, bool) { return s.colliders.Get(id) }

// IsVisible reports whether id was made visible to observers.
func (s *Scene) IsVisible(id ecs.EntityID) bool { return s.visible.Has(id) }

// LoadPrefabs opens the gate for entity creation and runs the
// OnPrefabsLoaded hooks. Loading twice is a no-op.
func (s *Scene) LoadPrefabs() {
	if s.prefabsLoaded {
		return
	}
	s.prefabsLoaded = true
	s.log.Info("prefabs loaded", zap.Int("hooks", len(s.onPrefabs)))
	for _, fn := range s.onPrefabs {
		fn()
	}
}

// UnsetPrefabs closes the gate, e.g. while a round restarts.
func (s *Scene) UnsetPrefabs() {
	s.prefabsLoaded = false
}

func (s *Scene) PrefabsLoaded() bool { return s.prefabsLoaded }

// OnPrefabsLoaded registers fn to run every time prefabs become loaded.
func (s *Scene) OnPrefabsLoaded(fn func()) {
	s.onPrefabs = append(s.onPrefabs, fn)
}
