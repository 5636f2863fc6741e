package mesh

import (
	"github.com/Faultbox/forwardlit/internal/engine/transform"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// cubeFaces lists each face's four corners (clockwise seen from outside)
// with texture coordinates. V grows upward, matching images flipped for upload.
var cubeFaces = [6][4]struct {
	p  math.Vec3
	uv [2]float32
}{
	// front (-Z)
	{{math.Vec3{X: -1, Y: -1, Z: -1}, [2]float32{0, 0}}, {math.Vec3{X: -1, Y: 1, Z: -1}, [2]float32{0, 1}}, {math.Vec3{X: 1, Y: 1, Z: -1}, [2]float32{1, 1}}, {math.Vec3{X: 1, Y: -1, Z: -1}, [2]float32{1, 0}}},
	// back (+Z)
	{{math.Vec3{X: -1, Y: -1, Z: 1}, [2]float32{1, 0}}, {math.Vec3{X: 1, Y: -1, Z: 1}, [2]float32{0, 0}}, {math.Vec3{X: 1, Y: 1, Z: 1}, [2]float32{0, 1}}, {math.Vec3{X: -1, Y: 1, Z: 1}, [2]float32{1, 1}}},
	// top (+Y)
	{{math.Vec3{X: -1, Y: 1, Z: -1}, [2]float32{0, 0}}, {math.Vec3{X: -1, Y: 1, Z: 1}, [2]float32{0, 1}}, {math.Vec3{X: 1, Y: 1, Z: 1}, [2]float32{1, 1}}, {math.Vec3{X: 1, Y: 1, Z: -1}, [2]float32{1, 0}}},
	// bottom (-Y)
	{{math.Vec3{X: -1, Y: -1, Z: -1}, [2]float32{1, 0}}, {math.Vec3{X: 1, Y: -1, Z: -1}, [2]float32{0, 0}}, {math.Vec3{X: 1, Y: -1, Z: 1}, [2]float32{0, 1}}, {math.Vec3{X: -1, Y: -1, Z: 1}, [2]float32{1, 1}}},
	// left (-X)
	{{math.Vec3{X: -1, Y: -1, Z: 1}, [2]float32{0, 0}}, {math.Vec3{X: -1, Y: 1, Z: 1}, [2]float32{0, 1}}, {math.Vec3{X: -1, Y: 1, Z: -1}, [2]float32{1, 1}}, {math.Vec3{X: -1, Y: -1, Z: -1}, [2]float32{1, 0}}},
	// right (+X)
	{{math.Vec3{X: 1, Y: -1, Z: -1}, [2]float32{0, 0}}, {math.Vec3{X: 1, Y: 1, Z: -1}, [2]float32{0, 1}}, {math.Vec3{X: 1, Y: 1, Z: 1}, [2]float32{1, 1}}, {math.Vec3{X: 1, Y: -1, Z: 1}, [2]float32{1, 0}}},
}

// NewCube builds a 2x2x2 cube centered on the origin: 24 vertices, 36
// indices. Each vertex normal is its corner direction, which gives the cube
// a rounded look under lighting.
func NewCube(name string, t transform.Transform, albedo string) *Mesh {
	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, face := range cubeFaces {
		base := uint32(len(vertices))
		for _, c := range face {
			vertices = append(vertices, Vertex{
				Position: c.p,
				Normal:   c.p.Normalize(),
				TexCoord: c.uv,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	GenerateTangents(vertices, indices)

	m := New(name, vertices, indices)
	m.Transform = t
	m.Textures[0] = albedo
	return m
}
