package mesh

import (
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// DefaultSpecularExponent replaces negative or missing shininess.
const DefaultSpecularExponent = 64

// Material is the Phong surface description of a mesh.
type Material struct {
	Ambient          math.Vec3
	Diffuse          math.Vec3
	Specular         math.Vec3
	SpecularExponent float32
}

// DefaultMaterial returns the material used when an import has none.
func DefaultMaterial() Material {
	return Material{
		Ambient:          math.Vec3{X: 1, Y: 1, Z: 1},
		Diffuse:          math.Vec3{X: 0.3, Y: 0.2, Z: 0.2},
		Specular:         math.Vec3{X: 1},
		SpecularExponent: DefaultSpecularExponent,
	}
}

// SpecularExponentOf maps an imported shininess to an exponent.
func SpecularExponentOf(shininess float32) float32 {
	if shininess < 0 {
		return DefaultSpecularExponent
	}
	return shininess
}

// TexturePaths holds one optional image path per texture slot. An empty
// path means the slot is unbound.
type TexturePaths [shader.TextureSlots]string

// Albedo returns the base color texture path.
func (t TexturePaths) Albedo() string { return t[shader.TextureAlbedo] }

// Normal returns the normal map path.
func (t TexturePaths) Normal() string { return t[shader.TextureNormal] }

// Specular returns the specular map path.
func (t TexturePaths) Specular() string { return t[shader.TextureSpecular] }
