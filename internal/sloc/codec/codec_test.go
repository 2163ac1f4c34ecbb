package codec

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/sloc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScene() []sloc.Object {
	rot := mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})
	return []sloc.Object{
		{
			Type: sloc.TypePrimitive,
			Transform: sloc.Transform{
				Position: mgl32.Vec3{1.5, -2, 3.25},
				Rotation: rot,
				Scale:    mgl32.Vec3{2, 2, 2},
			},
			Primitive: &sloc.PrimitiveData{
				Shape:             sloc.ShapeCylinder,
				ColliderMode:      sloc.ColliderTrigger,
				MaterialColor:     sloc.Color{R: 0.1, G: 0.2, B: 0.3, A: 0.4},
				MovementSmoothing: 60,
			},
			TriggerActions: []sloc.ActionData{
				&sloc.TeleportToPositionData{
					ActionBase: sloc.ActionBase{
						SelectedTargets: sloc.TargetPlayer | sloc.TargetPickup,
						SelectedEvents:  sloc.EventEnter,
						Options:         sloc.OptionPreserveMomentum,
					},
					Position: mgl32.Vec3{10, 0, 5},
					Rotation: mgl32.QuatIdent(),
				},
				&sloc.TeleportToSpawnedObjectData{
					ActionBase: sloc.ActionBase{SelectedTargets: sloc.TargetAll, SelectedEvents: sloc.EventStay},
					ID:         3,
					Offset:     mgl32.Vec3{0, 1, 0},
				},
				&sloc.TeleportToRoomData{
					ActionBase: sloc.ActionBase{SelectedTargets: sloc.TargetRagdoll, SelectedEvents: sloc.EventExit},
					Room:       "LCZ_Armory",
					Position:   mgl32.Vec3{0, 0.5, -1},
				},
				&sloc.MoveRelativeToSelfData{
					ActionBase: sloc.ActionBase{SelectedTargets: sloc.TargetToy, SelectedEvents: sloc.EventEnter | sloc.EventExit},
					Offset:     mgl32.Vec3{0, 0, 4},
				},
				&sloc.KillPlayerData{
					ActionBase: sloc.ActionBase{SelectedTargets: sloc.TargetPlayer, SelectedEvents: sloc.EventEnter},
					Cause:      "fell into the void ☠",
				},
				&sloc.NoneData{ActionBase: sloc.ActionBase{SelectedEvents: sloc.EventEnter}},
			},
		},
		{
			Type: sloc.TypeLight,
			Transform: sloc.Transform{
				Position: mgl32.Vec3{0, 4, 0},
				Rotation: mgl32.QuatIdent(),
				Scale:    mgl32.Vec3{1, 1, 1},
			},
			Light: &sloc.LightData{
				Color:     sloc.Color{R: 1, G: 0.5, B: 0, A: 1},
				Range:     12.5,
				Intensity: 3,
				Shadows:   true,
			},
		},
		{
			Type:      sloc.TypeEmpty,
			Transform: sloc.IdentityTransform(),
		},
	}
}

func TestRoundTrip(t *testing.T) {
	objs := sampleScene()
	data, err := Marshal(objs)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, objs, got)
}

func TestRoundTripIsBitExact(t *testing.T) {
	weird := []float32{
		float32(math.Copysign(0, -1)),
		math.Float32frombits(0x7fc00001), // NaN with payload
		float32(math.Inf(1)),
		math.SmallestNonzeroFloat32,
		math.MaxFloat32,
	}
	obj := sloc.Object{
		Type: sloc.TypeEmpty,
		Transform: sloc.Transform{
			Position: mgl32.Vec3{weird[0], weird[1], weird[2]},
			Rotation: mgl32.Quat{W: weird[3], V: mgl32.Vec3{weird[4], weird[0], weird[1]}},
			Scale:    mgl32.Vec3{weird[2], weird[3], weird[4]},
		},
	}
	first, err := Marshal([]sloc.Object{obj})
	require.NoError(t, err)
	decoded, err := Unmarshal(first)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, math.Float32bits(weird[1]), math.Float32bits(decoded[0].Transform.Position[1]))

	second, err := Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecodeEmptyStream(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnknownActionTypeIsFormatError(t *testing.T) {
	obj := sloc.Object{
		Type:           sloc.TypeEmpty,
		Transform:      sloc.IdentityTransform(),
		TriggerActions: []sloc.ActionData{&sloc.NoneData{}},
	}
	data, err := Marshal([]sloc.Object{obj})
	require.NoError(t, err)

	// header(6) + frame length(4) + type(1) + transform(40) + action count(2)
	binary.LittleEndian.PutUint16(data[53:], 99)

	_, err = Unmarshal(data)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.Index)
	assert.ErrorIs(t, err, ErrUnknownActionType)
}

func TestTruncatedStream(t *testing.T) {
	data, err := Marshal(sampleScene())
	require.NoError(t, err)

	_, err = Unmarshal(data[:len(data)-1])
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Index)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestHeaderErrors(t *testing.T) {
	_, err := Unmarshal([]byte("NOPE\x01\x00"))
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = Unmarshal([]byte("SLOC\x07\x00"))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Unmarshal([]byte("SL"))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestFrameLengthMismatch(t *testing.T) {
	data, err := Marshal([]sloc.Object{{Type: sloc.TypeEmpty, Transform: sloc.IdentityTransform()}})
	require.NoError(t, err)

	// grow the frame by one trailing byte
	n := binary.LittleEndian.Uint32(data[6:])
	binary.LittleEndian.PutUint32(data[6:], n+1)
	data = append(data, 0)

	_, err = Unmarshal(data)
	assert.ErrorIs(t, err, ErrFrameLength)
}

func TestUnknownObjectTypeIsSkippedByFrame(t *testing.T) {
	objs := []sloc.Object{
		{Type: sloc.ObjectType(42), Transform: sloc.IdentityTransform()},
		{Type: sloc.TypeEmpty, Transform: sloc.IdentityTransform()},
	}
	data, err := Marshal(objs)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, sloc.ObjectType(42), got[0].Type)
	assert.False(t, got[0].Type.Known())
	assert.Equal(t, sloc.TypeEmpty, got[1].Type)
}

func TestDecodeYieldsObjectsBeforeError(t *testing.T) {
	data, err := Marshal(sampleScene())
	require.NoError(t, err)
	data = data[:len(data)-3]

	var types []sloc.ObjectType
	var lastErr error
	for obj, err := range Decode(bytes.NewReader(data)) {
		if err != nil {
			lastErr = err
			break
		}
		types = append(types, obj.Type)
	}
	assert.Equal(t, []sloc.ObjectType{sloc.TypePrimitive, sloc.TypeLight}, types)
	assert.ErrorIs(t, lastErr, ErrTruncated)
}

func TestDecodeStopsWhenConsumerBreaks(t *testing.T) {
	data, err := Marshal(sampleScene())
	require.NoError(t, err)

	n := 0
	for _, err := range Decode(bytes.NewReader(data)) {
		require.NoError(t, err)
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestRuntimeActionIsNotSerializable(t *testing.T) {
	obj := sloc.Object{
		Type:           sloc.TypeEmpty,
		Transform:      sloc.IdentityTransform(),
		TriggerActions: []sloc.ActionData{&sloc.RuntimeTeleportToSpawnedObjectData{Target: 5}},
	}
	_, err := Marshal([]sloc.Object{obj})
	assert.ErrorIs(t, err, ErrNotSerializable)
}

func TestOverlongStringIsRejected(t *testing.T) {
	room := strings.Repeat("é", 40000) // 80000 bytes
	obj := sloc.Object{
		Type:      sloc.TypeEmpty,
		Transform: sloc.IdentityTransform(),
		TriggerActions: []sloc.ActionData{
			&sloc.TeleportToRoomData{ActionBase: sloc.ActionBase{SelectedEvents: sloc.EventEnter}, Room: room},
		},
	}
	_, err := Marshal([]sloc.Object{obj})
	require.ErrorIs(t, err, ErrStringTooLong)
	assert.ErrorContains(t, err, "TeleportToRoom")

	// the longest encodable string survives intact
	obj.TriggerActions = []sloc.ActionData{
		&sloc.KillPlayerData{ActionBase: sloc.ActionBase{SelectedEvents: sloc.EventEnter}, Cause: strings.Repeat("x", math.MaxUint16)},
	}
	data, err := Marshal([]sloc.Object{obj})
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, obj.TriggerActions[0], got[0].TriggerActions[0])
}

func TestWriterResetClearsError(t *testing.T) {
	w := NewWriter()
	w.WriteString(strings.Repeat("a", math.MaxUint16+1))
	assert.ErrorIs(t, w.Err(), ErrStringTooLong)
	assert.Zero(t, w.Len(), "nothing written")
	w.Reset()
	assert.NoError(t, w.Err())
}

func TestEncodeRejectsMismatchedPayload(t *testing.T) {
	_, err := Marshal([]sloc.Object{{Type: sloc.TypePrimitive, Transform: sloc.IdentityTransform()}})
	assert.Error(t, err)
}
