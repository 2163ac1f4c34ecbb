package sloc

import "github.com/go-gl/mathgl/mgl32"

// Transform is a position, rotation and scale in the parent's local space.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// IdentityTransform has no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// OrIdentity returns q, or the identity rotation when q is the zero quaternion.
func OrIdentity(q mgl32.Quat) mgl32.Quat {
	if q == (mgl32.Quat{}) {
		return mgl32.QuatIdent()
	}
	return q
}

// Color is an RGBA color with float components, usually in [0, 1].
type Color struct {
	R, G, B, A float32
}

var White = Color{1, 1, 1, 1}
