package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/forwardlit/internal/engine/gpu/gputest"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode("NORMAL")
	require.NoError(t, err)
	assert.Equal(t, Normal, got)

	_, err = ParseMode("toon")
	assert.Error(t, err)
}

func TestPixelSourcesDefineLightCapacity(t *testing.T) {
	for _, m := range Modes {
		d := PixelDesc(m)
		assert.Contains(t, d.Source, "#define MAX_POINT_LIGHTS 32")
		assert.Contains(t, d.Source, "void main()")
		assert.Equal(t, BlockPerObjectPS, d.ConstantBuffers[SlotPerObjectPS])
		assert.Len(t, d.Textures, TextureSlots)
	}
}

func TestCompileLinksOneProgramPerMode(t *testing.T) {
	dev := gputest.New(8, 8)

	p, err := Compile(dev)
	require.NoError(t, err)
	assert.Equal(t, 4, dev.Count("CompileShader"))
	assert.Equal(t, 3, dev.Count("LinkProgram"))

	assert.NotSame(t, p.Program(Lit), p.Program(Unlit))
	assert.Equal(t, p.Program(Lit), p.Program(Mode(42)))

	require.NoError(t, p.Release())
	assert.Zero(t, dev.Live())
}

func TestCompileFailureReleasesPartialSet(t *testing.T) {
	dev := gputest.New(8, 8)
	dev.FailShader = "normal.frag"

	p, err := Compile(dev)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Zero(t, dev.Live(), "leaked %v", dev.LiveKinds())
}
