// Package lighting describes scene lights and the records uploaded for shading.
package lighting

import (
	"github.com/Faultbox/forwardlit/internal/engine/transform"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// Kind selects the light variant.
type Kind uint8

const (
	// Directional lights only use Direction; position is informational.
	Directional Kind = iota
	// Point lights fall off with Attenuation and stop at Range.
	Point
)

func (k Kind) String() string {
	switch k {
	case Directional:
		return "directional"
	case Point:
		return "point"
	default:
		return "unknown"
	}
}

// DefaultPointRange is the cutoff distance given to point lights without one.
const DefaultPointRange = 500

// Light is a colored light source. Fields that do not apply to Kind are ignored.
type Light struct {
	Kind      Kind
	Transform transform.Transform

	Ambient  math.Vec4
	Diffuse  math.Vec4
	Specular math.Vec4

	// Directional
	Direction math.Vec3

	// Point: constant, linear, quadratic
	Attenuation math.Vec3
	Range       float32
}

// NewDirectional creates a directional light.
func NewDirectional(position math.Vec3, ambient, diffuse, specular math.Vec4, direction math.Vec3) Light {
	l := Light{
		Kind:      Directional,
		Transform: transform.Identity(),
		Ambient:   ambient,
		Diffuse:   diffuse,
		Specular:  specular,
		Direction: direction,
	}
	l.Transform.SetPosition(position)
	return l
}

// NewPoint creates a point light with the default range.
func NewPoint(position math.Vec3, ambient, diffuse, specular math.Vec4, attenuation math.Vec3) Light {
	l := Light{
		Kind:        Point,
		Transform:   transform.Identity(),
		Ambient:     ambient,
		Diffuse:     diffuse,
		Specular:    specular,
		Attenuation: attenuation,
		Range:       DefaultPointRange,
	}
	l.Transform.SetPosition(position)
	return l
}

// DefaultSun is used when a scene provides no directional light.
func DefaultSun() Light {
	dir := math.Vec3{X: 0.8, Y: -0.1, Z: -0.6}
	return NewDirectional(dir,
		math.RGBA(0.1, 0.1, 0.1, 1),
		math.RGBA(1, 1, 1, 1),
		math.RGBA(1, 1, 1, 1),
		dir,
	)
}

// MinimumAmbient is applied to imported directional lights that carry no
// ambient term, since the renderer has no global illumination.
var MinimumAmbient = math.RGBA(0.1, 0.1, 0.1, 1)

// BoostAmbient replaces a black ambient color with MinimumAmbient.
// It reports whether the color changed.
func (l *Light) BoostAmbient() bool {
	if !l.Ambient.IsZeroRGB() {
		return false
	}
	l.Ambient = MinimumAmbient
	return true
}

// Position returns the light's world position.
func (l *Light) Position() math.Vec3 {
	return l.Transform.Position()
}

// NudgeDirection offsets the direction vector.
func (l *Light) NudgeDirection(d math.Vec3) {
	l.Direction = l.Direction.Add(d)
}
