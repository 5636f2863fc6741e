package renderer

import (
	"bytes"
	"encoding/binary"

	"github.com/Faultbox/forwardlit/internal/engine/lighting"
	"github.com/Faultbox/forwardlit/internal/engine/mesh"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// Uniform block images in std140 layout. Matrices are stored transposed
// because the shaders multiply row vectors from the left.

type perObjectVS struct {
	WorldViewProj     math.Mat4
	World             math.Mat4
	WorldInvTranspose math.Mat4
}

type perFramePS struct {
	Sun            lighting.DirectionalData
	PointLights    [lighting.MaxPointLights]lighting.PointData
	CameraPosition [3]float32
	LightsCount    float32
}

type perObjectPS struct {
	Ambient          [3]float32
	_                float32
	Diffuse          [3]float32
	_                float32
	Specular         [3]float32
	SpecularExponent float32
	TextureFlags     [4]float32
}

// Block sizes in bytes.
var (
	perObjectVSSize = binary.Size(perObjectVS{})
	perFramePSSize  = binary.Size(perFramePS{})
	perObjectPSSize = binary.Size(perObjectPS{})
)

func pack(v any) []byte {
	var buf bytes.Buffer
	buf.Grow(binary.Size(v))
	// Fixed-size structs of float32 cannot fail to encode.
	_ = binary.Write(&buf, binary.LittleEndian, v)
	return buf.Bytes()
}

// objectVS builds the vertex stage block for a world matrix.
func objectVS(world, viewProj math.Mat4) perObjectVS {
	return perObjectVS{
		WorldViewProj: world.Mul(viewProj).Transpose(),
		World:         world.Transpose(),
		// (W^-1)^T transposed for upload
		WorldInvTranspose: world.Inverse(),
	}
}

// frameBlock builds the per-frame pixel block. Only the first
// MaxPointLights records are uploaded.
func frameBlock(sun lighting.Light, points []lighting.Light, eye math.Vec3) perFramePS {
	var buf lighting.PointLightBuffer
	buf.SetLights(points)
	return perFramePS{
		Sun:            lighting.DirectionalShading(sun),
		PointLights:    buf.Records,
		CameraPosition: eye.Array(),
		LightsCount:    float32(buf.Count),
	}
}

func objectPS(m *mesh.Mesh) perObjectPS {
	mat := m.Material
	return perObjectPS{
		Ambient:          mat.Ambient.Array(),
		Diffuse:          mat.Diffuse.Array(),
		Specular:         mat.Specular.Array(),
		SpecularExponent: mat.SpecularExponent,
		TextureFlags:     m.TextureFlags(),
	}
}
