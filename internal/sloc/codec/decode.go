package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/slocgo/loader/internal/sloc"
)

// Decode returns a lazy, strictly sequential sequence of the objects in r.
// The header is read when iteration starts. The sequence ends after the first
// error, which is yielded with a zero Object; a clean end of stream yields no error.
// Iterating twice re-reads r from its current position, so replaying requires a
// fresh reader (see package source).
func Decode(r io.Reader) iter.Seq2[sloc.Object, error] {
	return func(yield func(sloc.Object, error) bool) {
		br := bufio.NewReader(r)
		if err := readHeader(br); err != nil {
			yield(sloc.Object{}, err)
			return
		}
		for i := 0; ; i++ {
			body, err := ReadFrame(br)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(sloc.Object{}, wrapFormat(i, err))
				return
			}
			obj, err := decodeObject(body)
			if err != nil {
				yield(sloc.Object{}, wrapFormat(i, err))
				return
			}
			if !yield(obj, nil) {
				return
			}
		}
	}
}

// Unmarshal decodes every object in data.
func Unmarshal(data []byte) ([]sloc.Object, error) {
	var out []sloc.Object
	for obj, err := range Decode(bytes.NewReader(data)) {
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

func wrapFormat(index int, err error) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		return err
	}
	if errors.Is(err, ErrTruncated) || errors.Is(err, ErrFrameLength) || errors.Is(err, ErrUnknownActionType) {
		return &FormatError{Index: index, Err: err}
	}
	return fmt.Errorf("sloc object %d: %w", index, err)
}

func decodeObject(body []byte) (sloc.Object, error) {
	r := NewReader(body)
	obj := sloc.Object{
		Type:      sloc.ObjectType(r.ReadU8()),
		Transform: r.ReadTransform(),
	}

	switch obj.Type {
	case sloc.TypePrimitive:
		obj.Primitive = &sloc.PrimitiveData{
			Shape:             sloc.PrimitiveShape(r.ReadU8()),
			ColliderMode:      sloc.ColliderMode(r.ReadU8()),
			MaterialColor:     r.ReadColor(),
			MovementSmoothing: r.ReadU8(),
		}
	case sloc.TypeLight:
		obj.Light = &sloc.LightData{
			Color:             r.ReadColor(),
			Range:             r.ReadF32(),
			Intensity:         r.ReadF32(),
			Shadows:           r.ReadBool(),
			MovementSmoothing: r.ReadU8(),
		}
	case sloc.TypeEmpty:
	default:
		// Unknown type: the frame length lets us skip the payload. The creation
		// pipeline decides whether an unknown type is fatal.
		return obj, r.Err()
	}

	count := int(r.ReadU16())
	if count > 0 && r.Err() == nil {
		obj.TriggerActions = make([]sloc.ActionData, 0, count)
	}
	for i := 0; i < count && r.Err() == nil; i++ {
		a, err := decodeAction(r)
		if err != nil {
			return sloc.Object{}, fmt.Errorf("trigger action %d: %w", i, err)
		}
		obj.TriggerActions = append(obj.TriggerActions, a)
	}
	if err := r.Err(); err != nil {
		return sloc.Object{}, err
	}
	if r.Remaining() != 0 {
		return sloc.Object{}, fmt.Errorf("%w: %d trailing bytes", ErrFrameLength, r.Remaining())
	}
	return obj, nil
}

func decodeAction(r *Reader) (sloc.ActionData, error) {
	t := sloc.ActionType(r.ReadU16())
	if err := r.Err(); err != nil {
		return nil, err
	}
	a, ok := sloc.NewActionData(t)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownActionType, uint16(t))
	}
	base := a.Base()
	base.SelectedTargets = sloc.TargetType(r.ReadU8())
	base.SelectedEvents = sloc.EventType(r.ReadU8())
	base.Options = sloc.TeleportOptions(r.ReadU8())

	switch d := a.(type) {
	case *sloc.NoneData:
	case *sloc.TeleportToPositionData:
		d.Position = r.ReadVec3()
		d.Rotation = r.ReadQuat()
	case *sloc.TeleportToSpawnedObjectData:
		d.ID = r.ReadI32()
		d.Offset = r.ReadVec3()
	case *sloc.TeleportToRoomData:
		d.Room = r.ReadString()
		d.Position = r.ReadVec3()
	case *sloc.MoveRelativeToSelfData:
		d.Offset = r.ReadVec3()
	case *sloc.KillPlayerData:
		d.Cause = r.ReadString()
	}
	return a, r.Err()
}
