package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/forwardlit/internal/config"
	"github.com/Faultbox/forwardlit/internal/engine/lighting"
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/pkg/math"
)

func TestRendererConfigDefaults(t *testing.T) {
	cfg := config.Default()
	rc, err := RendererConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, 1920, rc.Width)
	assert.Equal(t, 1080, rc.Height)
	assert.True(t, rc.VSync)
	assert.Equal(t, float32(80), rc.FovDegrees)
	assert.Equal(t, math.RGBA(0, 1, 1, 1), rc.ClearColor)
	assert.Equal(t, shader.Lit, rc.ShadingMode)
	assert.False(t, rc.Multisample)
	assert.Equal(t, "assets/scene.yaml", rc.ScenePath)
	assert.Equal(t, "assets/textures/light.png", rc.EmitterTexture)
	assert.Equal(t, math.Vec3{Y: 5, Z: -7}, rc.LoadPosition)
	assert.Equal(t, math.Vec3{Z: -7}, rc.Controls.ResetPosition)
	assert.Equal(t, float32(0.5), rc.CameraSpeed)

	require.Len(t, rc.PointLights, 2)
	red := rc.PointLights[0]
	assert.Equal(t, lighting.Point, red.Kind)
	assert.Equal(t, math.Vec3{X: -100, Y: 100}, red.Position())
	assert.Equal(t, math.RGBA(1, 0, 0, 1), red.Diffuse)
	assert.Equal(t, math.Vec3{X: 1, Y: 0.0014, Z: 0.000007}, red.Attenuation)
	assert.Equal(t, float32(500), red.Range)
}

func TestRendererConfigOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Graphics.ShadingMode = "Normal"
	cfg.Graphics.MSAASamples = 4
	cfg.Scene.PointLights = []config.PointLightConfig{{Position: [3]float32{1, 2, 3}}}

	rc, err := RendererConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, shader.Normal, rc.ShadingMode)
	assert.True(t, rc.Multisample)
	require.Len(t, rc.PointLights, 1)
	assert.Equal(t, float32(lighting.DefaultPointRange), rc.PointLights[0].Range)
}

func TestRendererConfigRejectsUnknownMode(t *testing.T) {
	cfg := config.Default()
	cfg.Graphics.ShadingMode = "toon"
	_, err := RendererConfig(cfg)
	assert.Error(t, err)
}
