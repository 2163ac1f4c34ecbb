package trigger

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/sloc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pose struct {
	pos mgl32.Vec3
	rot mgl32.Quat
}

type teleport struct {
	id   ecs.EntityID
	pos  mgl32.Vec3
	rot  mgl32.Quat
	opts sloc.TeleportOptions
}

// fakeWorld records the effects handlers apply.
type fakeWorld struct {
	poses     map[ecs.EntityID]pose
	teleports []teleport
	killed    map[ecs.EntityID]string
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{poses: map[ecs.EntityID]pose{}, killed: map[ecs.EntityID]string{}}
}

func (w *fakeWorld) WorldTransform(id ecs.EntityID) (mgl32.Vec3, mgl32.Quat, bool) {
	p, ok := w.poses[id]
	return p.pos, p.rot, ok
}

func (w *fakeWorld) Teleport(id ecs.EntityID, pos mgl32.Vec3, rot mgl32.Quat, opts sloc.TeleportOptions) bool {
	w.teleports = append(w.teleports, teleport{id, pos, rot, opts})
	w.poses[id] = pose{pos, rot}
	return true
}

func (w *fakeWorld) Kill(id ecs.EntityID, cause string) bool {
	w.killed[id] = cause
	return true
}

type roomMap map[string]pose

func (r roomMap) Room(name string) (mgl32.Vec3, mgl32.Quat, bool) {
	p, ok := r[name]
	return p.pos, p.rot, ok
}

func base(targets sloc.TargetType, events sloc.EventType) sloc.ActionBase {
	return sloc.ActionBase{SelectedTargets: targets, SelectedEvents: events}
}

func vecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-5), "want %v, got %v", want, got)
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	reg := NewRegistry(nil)
	_, ok := reg.TryGetHandler(sloc.ActionKillPlayer)
	assert.False(t, ok)

	first := HandlerFunc{Kinds: sloc.TargetPlayer, Fn: func(World, Interaction, sloc.ActionData) error { return nil }}
	reg.Register(sloc.ActionKillPlayer, first)
	reg.Register(sloc.ActionKillPlayer, KillPlayer{})

	h, ok := reg.TryGetHandler(sloc.ActionKillPlayer)
	require.True(t, ok)
	assert.IsType(t, KillPlayer{}, h)
	assert.Equal(t, 1, reg.Len())

	reg.Register(sloc.ActionKillPlayer, nil)
	_, ok = reg.TryGetHandler(sloc.ActionKillPlayer)
	assert.False(t, ok)
}

func TestListenerPartitionsByEvents(t *testing.T) {
	var l Listener
	data := &sloc.KillPlayerData{ActionBase: base(sloc.TargetPlayer, sloc.EventEnter|sloc.EventExit)}
	require.True(t, l.Add(data, KillPlayer{}))

	assert.Len(t, l.Enter, 1)
	assert.Empty(t, l.Stay)
	assert.Len(t, l.Exit, 1)
	assert.Same(t, data, l.Enter[0].Data)

	none := &sloc.KillPlayerData{ActionBase: base(sloc.TargetPlayer, sloc.EventNone)}
	assert.False(t, l.Add(none, KillPlayer{}))
	assert.Len(t, l.Enter, 1)
}

func TestListenersAttachAndAdd(t *testing.T) {
	ls := NewListeners()
	ls.Attach(1, &Listener{})
	assert.Equal(t, 0, ls.Len(), "empty listeners are not stored")

	var l Listener
	l.Add(&sloc.NoneData{ActionBase: base(sloc.TargetAll, sloc.EventStay)}, KillPlayer{})
	ls.Attach(1, &l)
	ok := ls.AddTriggerAction(1, &sloc.NoneData{ActionBase: base(sloc.TargetAll, sloc.EventStay)}, KillPlayer{})
	assert.True(t, ok)

	got, found := ls.Get(1)
	require.True(t, found)
	assert.Len(t, got.Stay, 2)

	ls.Remove(1)
	_, found = ls.Get(1)
	assert.False(t, found)
}

func TestDispatchFiltersTargetsAndKeepsOrder(t *testing.T) {
	ls := NewListeners()
	var calls []string
	record := func(name string, kinds sloc.TargetType) Handler {
		return HandlerFunc{Kinds: kinds, Fn: func(World, Interaction, sloc.ActionData) error {
			calls = append(calls, name)
			return nil
		}}
	}
	ls.AddTriggerAction(1, &sloc.NoneData{ActionBase: base(sloc.TargetPlayer, sloc.EventEnter)}, record("first", sloc.TargetAll))
	ls.AddTriggerAction(1, &sloc.NoneData{ActionBase: base(sloc.TargetRagdoll, sloc.EventEnter)}, record("ragdoll-only", sloc.TargetAll))
	ls.AddTriggerAction(1, &sloc.NoneData{ActionBase: base(sloc.TargetAll, sloc.EventEnter)}, record("handler-rejects", sloc.TargetPickup))
	ls.AddTriggerAction(1, &sloc.NoneData{ActionBase: base(sloc.TargetAll, sloc.EventEnter)}, record("last", sloc.TargetAll))
	ls.AddTriggerAction(1, &sloc.NoneData{ActionBase: base(sloc.TargetAll, sloc.EventExit)}, record("exit", sloc.TargetAll))

	d := NewDispatcher(ls, newFakeWorld(), nil)
	require.NoError(t, d.Dispatch(Interaction{Self: 1, Other: 2, Kind: sloc.TargetPlayer, Event: sloc.EventEnter}))
	assert.Equal(t, []string{"first", "last"}, calls)

	calls = nil
	require.NoError(t, d.Dispatch(Interaction{Self: 9, Other: 2, Kind: sloc.TargetPlayer, Event: sloc.EventEnter}))
	assert.Empty(t, calls, "entity without listener")
}

func TestDispatchRunsEveryHandlerAndJoinsErrors(t *testing.T) {
	ls := NewListeners()
	boom := errors.New("boom")
	ran := 0
	ls.AddTriggerAction(1, &sloc.NoneData{ActionBase: base(sloc.TargetAll, sloc.EventEnter)},
		HandlerFunc{Kinds: sloc.TargetAll, Fn: func(World, Interaction, sloc.ActionData) error { ran++; return boom }})
	ls.AddTriggerAction(1, &sloc.NoneData{ActionBase: base(sloc.TargetAll, sloc.EventEnter)},
		HandlerFunc{Kinds: sloc.TargetAll, Fn: func(World, Interaction, sloc.ActionData) error { ran++; panic("bad handler") }})
	ls.AddTriggerAction(1, &sloc.NoneData{ActionBase: base(sloc.TargetAll, sloc.EventEnter)},
		HandlerFunc{Kinds: sloc.TargetAll, Fn: func(World, Interaction, sloc.ActionData) error { ran++; return nil }})

	err := NewDispatcher(ls, newFakeWorld(), nil).Dispatch(Interaction{Self: 1, Other: 2, Kind: sloc.TargetToy, Event: sloc.EventEnter})
	assert.Equal(t, 3, ran)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "bad handler")
}

func TestMismatchedPayloadFailsLoudly(t *testing.T) {
	ls := NewListeners()
	ls.AddTriggerAction(1, &sloc.MoveRelativeToSelfData{ActionBase: base(sloc.TargetAll, sloc.EventEnter)}, TeleportToPosition{})

	err := NewDispatcher(ls, newFakeWorld(), nil).Dispatch(Interaction{Self: 1, Other: 2, Kind: sloc.TargetPlayer, Event: sloc.EventEnter})
	assert.ErrorIs(t, err, ErrPayloadMismatch)
}

func TestTeleportToPosition(t *testing.T) {
	w := newFakeWorld()
	data := &sloc.TeleportToPositionData{
		ActionBase: sloc.ActionBase{Options: sloc.OptionPreserveMomentum},
		Position:   mgl32.Vec3{10, 0, 5},
	}
	require.NoError(t, TeleportToPosition{}.Handle(w, Interaction{Self: 1, Other: 2, Kind: sloc.TargetPlayer}, data))
	require.Len(t, w.teleports, 1)
	assert.Equal(t, mgl32.Vec3{10, 0, 5}, w.teleports[0].pos)
	assert.Equal(t, mgl32.QuatIdent(), w.teleports[0].rot, "zero rotation means identity")
	assert.Equal(t, sloc.OptionPreserveMomentum, w.teleports[0].opts)
}

func TestTeleportToSpawnedObjectUsesTargetFrame(t *testing.T) {
	w := newFakeWorld()
	quarter := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	w.poses[7] = pose{mgl32.Vec3{5, 0, 0}, quarter}

	data := &sloc.RuntimeTeleportToSpawnedObjectData{Target: 7, Offset: mgl32.Vec3{0, 0, 1}}
	require.NoError(t, TeleportToSpawnedObject{}.Handle(w, Interaction{Other: 2}, data))
	require.Len(t, w.teleports, 1)
	vecNear(t, mgl32.Vec3{6, 0, 0}, w.teleports[0].pos)

	// the serializable form never reaches a handler
	err := TeleportToSpawnedObject{}.Handle(w, Interaction{Other: 2}, &sloc.TeleportToSpawnedObjectData{ID: 1})
	assert.ErrorIs(t, err, ErrPayloadMismatch)

	// destroyed target: no-op
	w.teleports = nil
	require.NoError(t, TeleportToSpawnedObject{}.Handle(w, Interaction{Other: 2}, &sloc.RuntimeTeleportToSpawnedObjectData{Target: 99}))
	assert.Empty(t, w.teleports)
}

func TestTeleportToRoom(t *testing.T) {
	w := newFakeWorld()
	rooms := roomMap{"armory": {mgl32.Vec3{100, 0, 0}, mgl32.QuatIdent()}}
	h := TeleportToRoom{Rooms: rooms}

	require.NoError(t, h.Handle(w, Interaction{Other: 2}, &sloc.TeleportToRoomData{Room: "armory", Position: mgl32.Vec3{0, 1, 0}}))
	require.Len(t, w.teleports, 1)
	vecNear(t, mgl32.Vec3{100, 1, 0}, w.teleports[0].pos)

	require.NoError(t, h.Handle(w, Interaction{Other: 2}, &sloc.TeleportToRoomData{Room: "nowhere"}))
	assert.Len(t, w.teleports, 1, "missing room is a soft no-op")

	require.NoError(t, TeleportToRoom{}.Handle(w, Interaction{Other: 2}, &sloc.TeleportToRoomData{Room: "armory"}))
	assert.Len(t, w.teleports, 1)
}

func TestMoveRelativeToSelf(t *testing.T) {
	w := newFakeWorld()
	quarter := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	w.poses[1] = pose{mgl32.Vec3{0, 0, 0}, quarter}
	w.poses[2] = pose{mgl32.Vec3{3, 0, 3}, mgl32.QuatIdent()}

	data := &sloc.MoveRelativeToSelfData{Offset: mgl32.Vec3{0, 0, 2}}
	require.NoError(t, MoveRelativeToSelf{}.Handle(w, Interaction{Self: 1, Other: 2}, data))
	require.Len(t, w.teleports, 1)
	vecNear(t, mgl32.Vec3{5, 0, 3}, w.teleports[0].pos)
	assert.Equal(t, mgl32.QuatIdent(), w.teleports[0].rot)
}

func TestKillPlayerOnlyKillsPlayers(t *testing.T) {
	w := newFakeWorld()
	data := &sloc.KillPlayerData{Cause: "lava"}

	require.NoError(t, KillPlayer{}.Handle(w, Interaction{Other: 3, Kind: sloc.TargetRagdoll}, data))
	assert.Empty(t, w.killed)

	require.NoError(t, KillPlayer{}.Handle(w, Interaction{Other: 3, Kind: sloc.TargetPlayer}, data))
	assert.Equal(t, "lava", w.killed[3])
}

func TestRegisterBuiltins(t *testing.T) {
	reg := NewRegistry(nil)
	RegisterBuiltins(reg, nil)
	assert.Equal(t, 5, reg.Len())
	_, ok := reg.TryGetHandler(sloc.ActionNone)
	assert.False(t, ok)
}
