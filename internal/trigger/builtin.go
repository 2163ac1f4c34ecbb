package trigger

import (
	"github.com/slocgo/loader/internal/sloc"
)

// RegisterBuiltins installs the stock handlers. rooms may be nil, in which
// case TeleportToRoom never finds a room.
func RegisterBuiltins(reg *Registry, rooms RoomLocator) {
	reg.Register(sloc.ActionTeleportToPosition, TeleportToPosition{})
	reg.Register(sloc.ActionTeleportToSpawnedObject, TeleportToSpawnedObject{})
	reg.Register(sloc.ActionTeleportToRoom, TeleportToRoom{Rooms: rooms})
	reg.Register(sloc.ActionMoveRelativeToSelf, MoveRelativeToSelf{})
	reg.Register(sloc.ActionKillPlayer, KillPlayer{})
}

// TeleportToPosition moves the interacting object to an absolute position and rotation.
type TeleportToPosition struct{}

func (TeleportToPosition) Targets() sloc.TargetType { return sloc.TargetAll }

func (TeleportToPosition) Handle(w World, in Interaction, data sloc.ActionData) error {
	d, err := payloadAs[*sloc.TeleportToPositionData](data)
	if err != nil {
		return err
	}
	w.Teleport(in.Other, d.Position, sloc.OrIdentity(d.Rotation), d.Options)
	return nil
}

// TeleportToSpawnedObject moves the interacting object next to another object
// of the same batch. Only the resolved runtime payload is accepted.
type TeleportToSpawnedObject struct{}

func (TeleportToSpawnedObject) Targets() sloc.TargetType { return sloc.TargetAll }

func (TeleportToSpawnedObject) Handle(w World, in Interaction, data sloc.ActionData) error {
	d, err := payloadAs[*sloc.RuntimeTeleportToSpawnedObjectData](data)
	if err != nil {
		return err
	}
	pos, rot, ok := w.WorldTransform(d.Target)
	if !ok {
		return nil // target destroyed since
	}
	w.Teleport(in.Other, pos.Add(rot.Rotate(d.Offset)), rot, d.Options)
	return nil
}

// TeleportToRoom moves the interacting object relative to a named room.
// A missing room is a no-op.
type TeleportToRoom struct {
	Rooms RoomLocator
}

func (TeleportToRoom) Targets() sloc.TargetType { return sloc.TargetAll }

func (h TeleportToRoom) Handle(w World, in Interaction, data sloc.ActionData) error {
	d, err := payloadAs[*sloc.TeleportToRoomData](data)
	if err != nil {
		return err
	}
	if h.Rooms == nil {
		return nil
	}
	pos, rot, ok := h.Rooms.Room(d.Room)
	if !ok {
		return nil
	}
	w.Teleport(in.Other, pos.Add(rot.Rotate(d.Position)), rot, d.Options)
	return nil
}

// MoveRelativeToSelf displaces the interacting object by an offset in the
// trigger owner's local space, evaluated at event time.
type MoveRelativeToSelf struct{}

func (MoveRelativeToSelf) Targets() sloc.TargetType { return sloc.TargetAll }

func (MoveRelativeToSelf) Handle(w World, in Interaction, data sloc.ActionData) error {
	d, err := payloadAs[*sloc.MoveRelativeToSelfData](data)
	if err != nil {
		return err
	}
	_, selfRot, ok := w.WorldTransform(in.Self)
	if !ok {
		return nil
	}
	pos, rot, ok := w.WorldTransform(in.Other)
	if !ok {
		return nil
	}
	w.Teleport(in.Other, pos.Add(selfRot.Rotate(d.Offset)), rot, d.Options)
	return nil
}

// KillPlayer kills interacting players and ignores every other kind.
type KillPlayer struct{}

func (KillPlayer) Targets() sloc.TargetType { return sloc.TargetPlayer }

func (KillPlayer) Handle(w World, in Interaction, data sloc.ActionData) error {
	d, err := payloadAs[*sloc.KillPlayerData](data)
	if err != nil {
		return err
	}
	if in.Kind != sloc.TargetPlayer {
		return nil
	}
	w.Kill(in.Other, d.Cause)
	return nil
}
