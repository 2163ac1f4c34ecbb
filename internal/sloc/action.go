package sloc

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/core/ecs"
)

// ActionType identifies a trigger action variant. Values are part of the wire format.
type ActionType uint16

const (
	ActionNone                    ActionType = 0
	ActionTeleportToPosition      ActionType = 1
	ActionTeleportToSpawnedObject ActionType = 2
	ActionTeleportToRoom          ActionType = 3
	ActionMoveRelativeToSelf      ActionType = 4
	ActionKillPlayer              ActionType = 5
)

var actionNames = map[ActionType]string{
	ActionNone:                    "None",
	ActionTeleportToPosition:      "TeleportToPosition",
	ActionTeleportToSpawnedObject: "TeleportToSpawnedObject",
	ActionTeleportToRoom:          "TeleportToRoom",
	ActionMoveRelativeToSelf:      "MoveRelativeToSelf",
	ActionKillPlayer:              "KillPlayer",
}

func (t ActionType) String() string {
	if n, ok := actionNames[t]; ok {
		return n
	}
	return fmt.Sprintf("ActionType(%d)", uint16(t))
}

// ParseActionType resolves a case-insensitive action type name.
func ParseActionType(name string) (ActionType, error) {
	for t, n := range actionNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown action type %q", name)
}

// EventType is a bit set over the physical interaction events.
type EventType uint8

const (
	EventNone  EventType = 0
	EventEnter EventType = 1 << 0
	EventStay  EventType = 1 << 1
	EventExit  EventType = 1 << 2
)

// Is reports whether all bits of flag are set.
func (e EventType) Is(flag EventType) bool { return flag != 0 && e&flag == flag }

func (e EventType) String() string {
	return flagString(uint8(e), []string{"Enter", "Stay", "Exit"})
}

// TargetType is a bit set over the kinds of objects that can interact with a trigger.
type TargetType uint8

const (
	TargetNone    TargetType = 0
	TargetPlayer  TargetType = 1 << 0
	TargetPickup  TargetType = 1 << 1
	TargetToy     TargetType = 1 << 2
	TargetRagdoll TargetType = 1 << 3
	TargetAll                = TargetPlayer | TargetPickup | TargetToy | TargetRagdoll
)

// Has reports whether any bit of kind is set.
func (t TargetType) Has(kind TargetType) bool { return t&kind != 0 }

func (t TargetType) String() string {
	return flagString(uint8(t), []string{"Player", "Pickup", "Toy", "Ragdoll"})
}

// ParseTargetType resolves a case-insensitive target kind name ("All" included).
func ParseTargetType(name string) (TargetType, error) {
	switch strings.ToLower(name) {
	case "player":
		return TargetPlayer, nil
	case "pickup":
		return TargetPickup, nil
	case "toy":
		return TargetToy, nil
	case "ragdoll":
		return TargetRagdoll, nil
	case "all":
		return TargetAll, nil
	}
	return TargetNone, fmt.Errorf("unknown target type %q", name)
}

// TeleportOptions tweaks how teleporting actions move the interacting object.
type TeleportOptions uint8

const (
	OptionNone             TeleportOptions = 0
	OptionResetFallDamage  TeleportOptions = 1 << 0
	OptionPreserveMomentum TeleportOptions = 1 << 1
)

func (o TeleportOptions) Has(flag TeleportOptions) bool { return o&flag == flag }

func flagString(v uint8, names []string) string {
	if v == 0 {
		return "None"
	}
	var parts []string
	for i, n := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	if rest := v &^ (1<<len(names) - 1); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02x", rest))
	}
	return strings.Join(parts, "|")
}

// ActionBase holds the fields every trigger action carries.
type ActionBase struct {
	SelectedTargets TargetType
	SelectedEvents  EventType
	Options         TeleportOptions
}

// Base returns the common fields.
func (b *ActionBase) Base() *ActionBase { return b }

// ActionData is a trigger action payload. The set of implementations is closed:
// the variant is identified by ActionType and never changes after construction.
type ActionData interface {
	ActionType() ActionType
	Base() *ActionBase
	isActionData()
}

type NoneData struct {
	ActionBase
}

type TeleportToPositionData struct {
	ActionBase
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// TeleportToSpawnedObjectData targets another object of the same batch by its
// sequence ID. It cannot be resolved until the whole batch has been created.
type TeleportToSpawnedObjectData struct {
	ActionBase
	ID     int32
	Offset mgl32.Vec3
}

// RuntimeTeleportToSpawnedObjectData is the resolved form of
// TeleportToSpawnedObjectData. It only exists at runtime and is never encoded.
type RuntimeTeleportToSpawnedObjectData struct {
	ActionBase
	Target ecs.EntityID
	Offset mgl32.Vec3
}

// TeleportToRoomData teleports relative to a named room's anchor.
type TeleportToRoomData struct {
	ActionBase
	Room     string
	Position mgl32.Vec3
}

// MoveRelativeToSelfData displaces the interacting object by Offset expressed in
// the trigger owner's local space.
type MoveRelativeToSelfData struct {
	ActionBase
	Offset mgl32.Vec3
}

type KillPlayerData struct {
	ActionBase
	Cause string
}

func (*NoneData) ActionType() ActionType                           { return ActionNone }
func (*TeleportToPositionData) ActionType() ActionType             { return ActionTeleportToPosition }
func (*TeleportToSpawnedObjectData) ActionType() ActionType        { return ActionTeleportToSpawnedObject }
func (*RuntimeTeleportToSpawnedObjectData) ActionType() ActionType { return ActionTeleportToSpawnedObject }
func (*TeleportToRoomData) ActionType() ActionType                 { return ActionTeleportToRoom }
func (*MoveRelativeToSelfData) ActionType() ActionType             { return ActionMoveRelativeToSelf }
func (*KillPlayerData) ActionType() ActionType                     { return ActionKillPlayer }

func (*NoneData) isActionData()                           {}
func (*TeleportToPositionData) isActionData()             {}
func (*TeleportToSpawnedObjectData) isActionData()        {}
func (*RuntimeTeleportToSpawnedObjectData) isActionData() {}
func (*TeleportToRoomData) isActionData()                 {}
func (*MoveRelativeToSelfData) isActionData()             {}
func (*KillPlayerData) isActionData()                     {}

// NewActionData returns an empty payload for t, or false when t is not a
// serializable action type.
func NewActionData(t ActionType) (ActionData, bool) {
	switch t {
	case ActionNone:
		return &NoneData{}, true
	case ActionTeleportToPosition:
		return &TeleportToPositionData{Rotation: mgl32.QuatIdent()}, true
	case ActionTeleportToSpawnedObject:
		return &TeleportToSpawnedObjectData{}, true
	case ActionTeleportToRoom:
		return &TeleportToRoomData{}, true
	case ActionMoveRelativeToSelf:
		return &MoveRelativeToSelfData{}, true
	case ActionKillPlayer:
		return &KillPlayerData{}, true
	}
	return nil, false
}
