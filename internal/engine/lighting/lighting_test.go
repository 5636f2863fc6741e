package lighting

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/forwardlit/pkg/math"
)

func TestBoostAmbientOnlyWhenBlack(t *testing.T) {
	white := math.RGBA(1, 1, 1, 1)

	sun := NewDirectional(math.Vec3{}, math.RGBA(0, 0, 0, 1), white, white, math.Vec3{Y: -1})
	assert.True(t, sun.BoostAmbient())
	assert.Equal(t, MinimumAmbient, sun.Ambient)

	lit := NewDirectional(math.Vec3{}, math.RGBA(0.3, 0.2, 0.1, 1), white, white, math.Vec3{Y: -1})
	assert.False(t, lit.BoostAmbient())
	assert.Equal(t, math.RGBA(0.3, 0.2, 0.1, 1), lit.Ambient)
}

func TestDefaultSun(t *testing.T) {
	sun := DefaultSun()
	assert.Equal(t, Directional, sun.Kind)
	assert.Equal(t, math.Vec3{X: 0.8, Y: -0.1, Z: -0.6}, sun.Direction)
	assert.False(t, sun.Ambient.IsZeroRGB())
}

func TestShadingRecords(t *testing.T) {
	p := NewPoint(math.Vec3{X: -100, Y: 100},
		math.RGBA(0, 0, 0, 1), math.RGBA(1, 0, 0, 1), math.RGBA(1, 0, 0, 1),
		math.Vec3{X: 1, Y: 0.0014, Z: 0.000007})

	rec := PointShading(p)
	assert.Equal(t, [3]float32{-100, 100, 0}, rec.Position)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, rec.Diffuse)
	assert.Equal(t, float32(DefaultPointRange), rec.Range)

	sun := DirectionalShading(DefaultSun())
	assert.Equal(t, [3]float32{0.8, -0.1, -0.6}, sun.Direction)
}

func TestRecordSizesMatchStd140(t *testing.T) {
	assert.Equal(t, 64, binary.Size(DirectionalData{}))
	assert.Equal(t, 80, binary.Size(PointData{}))
}

func TestPointLightBufferTruncates(t *testing.T) {
	lights := make([]Light, MaxPointLights+5)
	for i := range lights {
		lights[i] = NewPoint(math.Vec3{X: float32(i)}, math.Vec4{}, math.Vec4{}, math.Vec4{}, math.Vec3{X: 1})
	}

	var b PointLightBuffer
	b.SetLights(lights)
	require.Equal(t, MaxPointLights, b.Count)
	assert.Equal(t, float32(MaxPointLights-1), b.Records[MaxPointLights-1].Position[0])

	b.SetLights(lights[:2])
	assert.Equal(t, 2, b.Count)
	assert.Equal(t, PointData{}, b.Records[2])
}
