package mesh

import (
	"github.com/Faultbox/forwardlit/internal/engine/gpu"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// Vertex is the interleaved vertex format of every drawable mesh.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	Tangent  math.Vec3
	Binormal math.Vec3
	TexCoord [2]float32
}

// VertexStride is the size of a Vertex in bytes.
const VertexStride = 14 * 4

// Layout describes Vertex to the vertex stage. Attribute order matches the
// input locations of the mesh vertex shader.
func Layout() gpu.InputLayoutDesc {
	return gpu.InputLayoutDesc{
		Stride: VertexStride,
		Attributes: []gpu.VertexAttribute{
			{Semantic: "POSITION", Components: 3, Offset: 0},
			{Semantic: "NORMAL", Components: 3, Offset: 12},
			{Semantic: "TANGENT", Components: 3, Offset: 24},
			{Semantic: "BINORMAL", Components: 3, Offset: 36},
			{Semantic: "TEXCOORD", Components: 2, Offset: 48},
		},
	}
}

// GenerateTangents derives per-vertex tangent and binormal vectors from
// texture coordinate gradients. Tangents are orthonormalized against the
// vertex normal; vertices without usable UVs get an arbitrary basis.
func GenerateTangents(vertices []Vertex, indices []uint32) {
	n := len(vertices)
	tan := make([]math.Vec3, n)
	btan := make([]math.Vec3, n)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}
		v0, v1, v2 := vertices[i0], vertices[i1], vertices[i2]

		edge1 := v1.Position.Sub(v0.Position)
		edge2 := v2.Position.Sub(v0.Position)
		du1, dv1 := v1.TexCoord[0]-v0.TexCoord[0], v1.TexCoord[1]-v0.TexCoord[1]
		du2, dv2 := v2.TexCoord[0]-v0.TexCoord[0], v2.TexCoord[1]-v0.TexCoord[1]

		det := du1*dv2 - dv1*du2
		if det == 0 {
			continue
		}
		inv := 1 / det
		t := edge1.Scale(dv2 * inv).Sub(edge2.Scale(dv1 * inv))
		b := edge2.Scale(du1 * inv).Sub(edge1.Scale(du2 * inv))

		for _, idx := range [3]uint32{i0, i1, i2} {
			tan[idx] = tan[idx].Add(t)
			btan[idx] = btan[idx].Add(b)
		}
	}

	for i := range vertices {
		nrm := vertices[i].Normal
		// Gram-Schmidt: T' = normalize(T - N * dot(N, T))
		t := tan[i].Sub(nrm.Scale(nrm.Dot(tan[i])))
		if t.Length() < 1e-6 {
			t = fallbackTangent(nrm)
		}
		t = t.Normalize()

		b := nrm.Cross(t)
		if b.Dot(btan[i]) < 0 {
			b = b.Neg()
		}
		vertices[i].Tangent = t
		vertices[i].Binormal = b
	}
}

// fallbackTangent returns any unit vector perpendicular to n.
func fallbackTangent(n math.Vec3) math.Vec3 {
	axis := math.Vec3{X: 1}
	if n.Normalize().Dot(axis) > 0.9 || n.Normalize().Dot(axis) < -0.9 {
		axis = math.Vec3{Y: 1}
	}
	t := axis.Sub(n.Scale(n.Dot(axis)))
	if t.Length() < 1e-6 {
		return math.Vec3{X: 1}
	}
	return t
}
