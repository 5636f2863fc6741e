// Package transform holds position, rotation and scale for scene objects.
package transform

import (
	"github.com/Faultbox/forwardlit/pkg/math"
)

// Canonical basis directions in local space.
var (
	localForward = math.Vec3{Z: 1}
	localRight   = math.Vec3{X: 1}
	localUp      = math.Vec3{Y: 1}
)

// Transform is the placement of an object in the world.
// Rotation is stored as Euler angles in degrees: X is pitch, Y is yaw, Z is roll.
// The world matrix is rebuilt by every setter so it never lags behind the fields.
type Transform struct {
	position math.Vec3
	rotation math.Vec3
	scale    math.Vec3

	world math.Mat4
	rot   math.Mat4
}

// New creates a transform with the given components.
func New(position, rotation, scale math.Vec3) Transform {
	t := Transform{position: position, rotation: rotation, scale: scale}
	t.UpdateWorldMatrix()
	return t
}

// Identity returns a transform at the origin with unit scale.
func Identity() Transform {
	return New(math.Vec3{}, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
}

// Position returns the world position.
func (t *Transform) Position() math.Vec3 { return t.position }

// Rotation returns the Euler angles in degrees.
func (t *Transform) Rotation() math.Vec3 { return t.rotation }

// Scale returns the per-axis scale.
func (t *Transform) Scale() math.Vec3 { return t.scale }

// World returns the object-to-world matrix.
func (t *Transform) World() math.Mat4 { return t.world }

// SetPosition moves the object.
func (t *Transform) SetPosition(p math.Vec3) {
	t.position = p
	t.UpdateWorldMatrix()
}

// SetRotation sets the Euler angles in degrees.
func (t *Transform) SetRotation(r math.Vec3) {
	t.rotation = r
	t.UpdateWorldMatrix()
}

// SetScale sets the per-axis scale.
func (t *Transform) SetScale(s math.Vec3) {
	t.scale = s
	t.UpdateWorldMatrix()
}

// UpdateWorldMatrix rebuilds World = Scale * Rotation * Translation.
func (t *Transform) UpdateWorldMatrix() {
	t.rot = RotationMatrix(t.rotation)
	t.world = math.Scale(t.scale.X, t.scale.Y, t.scale.Z).
		Mul(t.rot).
		Mul(math.Translate(t.position.X, t.position.Y, t.position.Z))
}

// RotationMatrix converts Euler degrees (pitch X, yaw Y, roll Z) to a rotation
// matrix that applies roll, then pitch, then yaw.
func RotationMatrix(deg math.Vec3) math.Mat4 {
	return math.RotateRollPitchYaw(
		math.DegreesToRadian(deg.X),
		math.DegreesToRadian(deg.Y),
		math.DegreesToRadian(deg.Z),
	)
}

// Forward returns local +Z rotated into world space.
func (t *Transform) Forward() math.Vec3 {
	return t.rot.TransformDirection(localForward)
}

// Right returns local +X rotated into world space.
func (t *Transform) Right() math.Vec3 {
	return t.rot.TransformDirection(localRight)
}

// Up returns local +Y rotated into world space.
func (t *Transform) Up() math.Vec3 {
	return t.rot.TransformDirection(localUp)
}
