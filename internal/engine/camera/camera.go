// Package camera provides the free-fly camera used by the renderer.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/forwardlit/pkg/math"
)

// maxPitchDot bounds how close forward may get to the up vector before a
// pitch step is refused; LookTo degenerates when they are parallel.
const maxPitchDot = 0.999

// Settings configures projection and initial placement.
type Settings struct {
	Position math.Vec3
	Forward  math.Vec3
	Up       math.Vec3
	Speed    float32

	FovDegrees float32
	Near       float32
	Far        float32
}

// DefaultSettings returns an 80 degree camera five units behind the origin.
func DefaultSettings() Settings {
	return Settings{
		Position:   math.Vec3{Z: -5},
		Forward:    math.Vec3{Z: 1},
		Up:         math.Vec3{Y: 1},
		Speed:      0.5,
		FovDegrees: 80,
		Near:       0.1,
		Far:        10000,
	}
}

// Camera looks along an explicit forward vector (look-to mode).
// The view matrix is rebuilt on every mutation.
type Camera struct {
	position math.Vec3
	forward  math.Vec3
	up       math.Vec3
	speed    float32

	fov, near, far float32
	aspect         float32

	view       math.Mat4
	projection math.Mat4
}

// New creates a camera. The projection uses a square aspect until
// UpdateProjection is called with the viewport size.
func New(s Settings) *Camera {
	c := &Camera{
		position: s.Position,
		forward:  s.Forward.Normalize(),
		up:       s.Up.Normalize(),
		speed:    s.Speed,
		fov:      math.DegreesToRadian(s.FovDegrees),
		near:     s.Near,
		far:      s.Far,
	}
	c.UpdateViewMatrix()
	c.UpdateProjection(1, 1)
	return c
}

// Position returns the eye position.
func (c *Camera) Position() math.Vec3 { return c.position }

// Forward returns the unit look direction.
func (c *Camera) Forward() math.Vec3 { return c.forward }

// Up returns the up vector.
func (c *Camera) Up() math.Vec3 { return c.up }

// Right returns -(Forward x Up), which points to +X for the default pose.
func (c *Camera) Right() math.Vec3 {
	return c.forward.Cross(c.up).Neg()
}

// Speed returns the movement scale.
func (c *Camera) Speed() float32 { return c.speed }

// SetSpeed sets the movement scale.
func (c *Camera) SetSpeed(s float32) { c.speed = s }

// View returns the world-to-view matrix.
func (c *Camera) View() math.Mat4 { return c.view }

// Projection returns the view-to-clip matrix.
func (c *Camera) Projection() math.Mat4 { return c.projection }

// Aspect returns the aspect ratio used by the projection.
func (c *Camera) Aspect() float32 { return c.aspect }

// SetPosition moves the eye.
func (c *Camera) SetPosition(p math.Vec3) {
	c.position = p
	c.UpdateViewMatrix()
}

// SetForward sets the look direction.
func (c *Camera) SetForward(f math.Vec3) {
	c.forward = f.Normalize()
	c.UpdateViewMatrix()
}

// SetUp sets the up vector.
func (c *Camera) SetUp(u math.Vec3) {
	c.up = u.Normalize()
	c.UpdateViewMatrix()
}

// UpdateViewMatrix rebuilds the view from position, forward and up.
func (c *Camera) UpdateViewMatrix() {
	c.view = math.LookToLH(c.position, c.forward, c.up)
}

// UpdateProjection rebuilds the projection for a viewport size.
// Sizes below one pixel are clamped.
func (c *Camera) UpdateProjection(width, height int) {
	w := float32(max(width, 1))
	h := float32(max(height, 1))
	c.aspect = w / h
	c.projection = math.PerspectiveFovLH(c.fov, c.aspect, c.near, c.far)
}

// Zoom moves along the forward vector by v * speed.
func (c *Camera) Zoom(v float32) {
	c.SetPosition(c.position.Add(c.forward.Scale(v * c.speed)))
}

// MoveRight strafes along the right vector by v * speed.
func (c *Camera) MoveRight(v float32) {
	c.SetPosition(c.position.Add(c.Right().Scale(v * c.speed)))
}

// MoveUp moves along the up vector by v * speed.
func (c *Camera) MoveUp(v float32) {
	c.SetPosition(c.position.Add(c.up.Scale(v * c.speed)))
}

// RotateYaw turns the forward vector about the up vector. angle is in radians.
func (c *Camera) RotateYaw(angle float32) {
	c.SetForward(math.RotateAxis(c.up, angle).TransformDirection(c.forward))
}

// RotatePitch turns the forward vector about the right vector. angle is in
// radians. Steps that would align forward with up are ignored.
func (c *Camera) RotatePitch(angle float32) {
	f := math.RotateAxis(c.Right(), angle).TransformDirection(c.forward).Normalize()
	if math32.Abs(f.Dot(c.up)) > maxPitchDot {
		return
	}
	c.SetForward(f)
}

// Reset places the camera at p looking down +Z with the given speed.
func (c *Camera) Reset(p math.Vec3, speed float32) {
	c.forward = math.Vec3{Z: 1}
	c.up = math.Vec3{Y: 1}
	c.speed = speed
	c.SetPosition(p)
}
