package sloc

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ObjectType tags the variant of a descriptor.
type ObjectType uint8

const (
	TypeNone ObjectType = iota
	TypePrimitive
	TypeLight
	TypeEmpty
)

func (t ObjectType) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypePrimitive:
		return "Primitive"
	case TypeLight:
		return "Light"
	case TypeEmpty:
		return "Empty"
	default:
		return fmt.Sprintf("ObjectType(%d)", uint8(t))
	}
}

// Known reports whether t is a type the creation pipeline can materialize.
func (t ObjectType) Known() bool {
	return t == TypePrimitive || t == TypeLight || t == TypeEmpty
}

// PrimitiveShape is the mesh of a primitive object.
type PrimitiveShape uint8

const (
	ShapeCube PrimitiveShape = iota
	ShapeSphere
	ShapeCylinder
	ShapePlane
	ShapeCapsule
	ShapeQuad
)

var shapeNames = [...]string{"Cube", "Sphere", "Cylinder", "Plane", "Capsule", "Quad"}

func (s PrimitiveShape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("PrimitiveShape(%d)", uint8(s))
}

// PrimitiveData is the payload of a TypePrimitive descriptor.
type PrimitiveData struct {
	Shape             PrimitiveShape
	ColliderMode      ColliderMode
	MaterialColor     Color
	MovementSmoothing uint8
}

// LightData is the payload of a TypeLight descriptor.
type LightData struct {
	Color             Color
	Range             float32
	Intensity         float32
	Shadows           bool
	MovementSmoothing uint8
}

// Object is one decoded scene object (a descriptor).
// Primitive is set iff Type is TypePrimitive, Light iff Type is TypeLight.
type Object struct {
	Type           ObjectType
	Transform      Transform
	Primitive      *PrimitiveData
	Light          *LightData
	TriggerActions []ActionData
}

// Validate checks that the payload fields match the type tag.
func (o *Object) Validate() error {
	switch o.Type {
	case TypePrimitive:
		if o.Primitive == nil || o.Light != nil {
			return fmt.Errorf("primitive object must carry exactly a primitive payload")
		}
	case TypeLight:
		if o.Light == nil || o.Primitive != nil {
			return fmt.Errorf("light object must carry exactly a light payload")
		}
	default:
		if o.Primitive != nil || o.Light != nil {
			return fmt.Errorf("%s object must not carry a type payload", o.Type)
		}
	}
	return nil
}

// NewDefaultObject returns a descriptor of the given type with an identity
// transform and default payload, or false for an unknown type.
func NewDefaultObject(t ObjectType, shape PrimitiveShape) (Object, bool) {
	o := Object{Type: t, Transform: IdentityTransform()}
	switch t {
	case TypePrimitive:
		o.Primitive = &PrimitiveData{Shape: shape, MaterialColor: White}
	case TypeLight:
		o.Light = &LightData{Color: White, Range: 10, Intensity: 1}
	case TypeEmpty:
	default:
		return Object{}, false
	}
	return o, true
}

// NewPrimitive is a shorthand for a primitive descriptor at pos with the given scale.
func NewPrimitive(shape PrimitiveShape, pos, scale mgl32.Vec3, actions ...ActionData) Object {
	return Object{
		Type: TypePrimitive,
		Transform: Transform{
			Position: pos,
			Rotation: mgl32.QuatIdent(),
			Scale:    scale,
		},
		Primitive:      &PrimitiveData{Shape: shape, MaterialColor: White},
		TriggerActions: actions,
	}
}
