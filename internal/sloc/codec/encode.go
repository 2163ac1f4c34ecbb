package codec

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/slocgo/loader/internal/sloc"
)

// Encode writes the header followed by one frame per object, in iteration order.
func Encode(w io.Writer, objects iter.Seq[sloc.Object]) error {
	if err := writeHeader(w); err != nil {
		return err
	}
	body := NewWriter()
	i := 0
	for obj := range objects {
		body.Reset()
		if err := encodeObject(body, &obj); err != nil {
			return fmt.Errorf("encode object %d: %w", i, err)
		}
		if err := WriteFrame(w, body.Bytes()); err != nil {
			return fmt.Errorf("encode object %d: %w", i, err)
		}
		i++
	}
	return nil
}

// EncodeSlice is Encode over a slice.
func EncodeSlice(w io.Writer, objects []sloc.Object) error {
	return Encode(w, slices.Values(objects))
}

// Marshal encodes objects into a new byte slice.
func Marshal(objects []sloc.Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeSlice(&buf, objects); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeObject(w *Writer, obj *sloc.Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	w.WriteU8(uint8(obj.Type))
	w.WriteTransform(obj.Transform)

	switch obj.Type {
	case sloc.TypePrimitive:
		p := obj.Primitive
		w.WriteU8(uint8(p.Shape))
		w.WriteU8(uint8(p.ColliderMode))
		w.WriteColor(p.MaterialColor)
		w.WriteU8(p.MovementSmoothing)
	case sloc.TypeLight:
		l := obj.Light
		w.WriteColor(l.Color)
		w.WriteF32(l.Range)
		w.WriteF32(l.Intensity)
		w.WriteBool(l.Shadows)
		w.WriteU8(l.MovementSmoothing)
	case sloc.TypeEmpty:
	default:
		// Decoders skip the rest of an unknown-type frame, so nothing else is written.
		if len(obj.TriggerActions) != 0 {
			return fmt.Errorf("%s object cannot carry trigger actions", obj.Type)
		}
		return nil
	}

	if len(obj.TriggerActions) > 0xFFFF {
		return fmt.Errorf("too many trigger actions: %d", len(obj.TriggerActions))
	}
	w.WriteU16(uint16(len(obj.TriggerActions)))
	for i, a := range obj.TriggerActions {
		if err := encodeAction(w, a); err != nil {
			return fmt.Errorf("trigger action %d: %w", i, err)
		}
	}
	return nil
}

// encodeAction writes the discriminant first so decoders never backtrack.
func encodeAction(w *Writer, a sloc.ActionData) error {
	if a == nil {
		return fmt.Errorf("nil trigger action")
	}
	if _, ok := a.(*sloc.RuntimeTeleportToSpawnedObjectData); ok {
		return ErrNotSerializable
	}
	base := a.Base()
	w.WriteU16(uint16(a.ActionType()))
	w.WriteU8(uint8(base.SelectedTargets))
	w.WriteU8(uint8(base.SelectedEvents))
	w.WriteU8(uint8(base.Options))

	switch d := a.(type) {
	case *sloc.NoneData:
	case *sloc.TeleportToPositionData:
		w.WriteVec3(d.Position)
		w.WriteQuat(d.Rotation)
	case *sloc.TeleportToSpawnedObjectData:
		w.WriteI32(d.ID)
		w.WriteVec3(d.Offset)
	case *sloc.TeleportToRoomData:
		w.WriteString(d.Room)
		w.WriteVec3(d.Position)
	case *sloc.MoveRelativeToSelfData:
		w.WriteVec3(d.Offset)
	case *sloc.KillPlayerData:
		w.WriteString(d.Cause)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownActionType, a)
	}
	if err := w.Err(); err != nil {
		return fmt.Errorf("%s: %w", a.ActionType(), err)
	}
	return nil
}
