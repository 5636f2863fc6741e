package renderer

import (
	"encoding/binary"
	"errors"
	"image"
	stdmath "math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/forwardlit/internal/engine/debug"
	"github.com/Faultbox/forwardlit/internal/engine/debugui"
	"github.com/Faultbox/forwardlit/internal/engine/gpu"
	"github.com/Faultbox/forwardlit/internal/engine/gpu/gputest"
	"github.com/Faultbox/forwardlit/internal/engine/input"
	"github.com/Faultbox/forwardlit/internal/engine/lighting"
	"github.com/Faultbox/forwardlit/internal/engine/loader"
	"github.com/Faultbox/forwardlit/internal/engine/mesh"
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/internal/engine/transform"
	"github.com/Faultbox/forwardlit/pkg/math"
)

type fakeSource struct {
	queue    []input.Snapshot
	relative []bool
}

func (s *fakeSource) Poll() input.Snapshot {
	if len(s.queue) == 0 {
		return input.Snapshot{}
	}
	snap := s.queue[0]
	s.queue = s.queue[1:]
	return snap
}

func (s *fakeSource) SetRelativeMouse(on bool) { s.relative = append(s.relative, on) }

func (s *fakeSource) push(snaps ...input.Snapshot) { s.queue = append(s.queue, snaps...) }

type fakeImporter struct {
	loads []string
	// scenes build a fresh result per load; unknown paths fail.
	scenes map[string]func() loader.Result
}

func (f *fakeImporter) Load(path string) (loader.Result, error) {
	f.loads = append(f.loads, path)
	build, ok := f.scenes[path]
	if !ok {
		return loader.Result{}, loader.ErrUnsupportedFormat
	}
	res := build()
	res.Source = path
	return res, nil
}

type fakeTextures struct{ fail bool }

func (f fakeTextures) Load(string) (*image.RGBA, error) {
	if f.fail {
		return nil, errors.New("missing")
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func oneCube() loader.Result {
	return loader.Result{Meshes: []*mesh.Mesh{mesh.NewCube("box", transform.Identity(), "box.png")}}
}

func testLights(n int) []lighting.Light {
	lights := make([]lighting.Light, n)
	for i := range lights {
		lights[i] = lighting.NewPoint(math.Vec3{X: float32(i) * 10},
			math.RGBA(0, 0, 0, 1), math.RGBA(1, 0, 0, 1), math.RGBA(1, 1, 1, 1),
			math.Vec3{X: 1, Y: 0.0014, Z: 0.000007})
	}
	return lights
}

// steppingClock advances 16ms per call.
func steppingClock() func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(16 * time.Millisecond)
		return t
	}
}

type harness struct {
	r        *Renderer
	factory  *gputest.Factory
	src      *fakeSource
	importer *fakeImporter
}

func newHarness(t *testing.T, cfg Config, deps Deps) *harness {
	t.Helper()
	h := &harness{
		factory:  &gputest.Factory{Width: cfg.Width, Height: cfg.Height},
		src:      &fakeSource{},
		importer: &fakeImporter{scenes: map[string]func() loader.Result{"scene.obj": oneCube}},
	}
	deps.Devices = h.factory.Create
	deps.Input = h.src
	deps.Importer = h.importer
	if deps.Textures == nil {
		deps.Textures = fakeTextures{}
	}
	if deps.Now == nil {
		deps.Now = steppingClock()
	}
	r, err := New(cfg, deps)
	require.NoError(t, err)
	h.r = r
	return h
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 32
	cfg.ScenePath = "scene.obj"
	cfg.PointLights = testLights(2)
	cfg.EmitterTexture = "light.png"
	return cfg
}

func started(t *testing.T, cfg Config, deps Deps) *harness {
	t.Helper()
	h := newHarness(t, cfg, deps)
	require.NoError(t, h.r.Initialize())
	return h
}

// frame runs the priming tick and one rendered tick.
func (h *harness) frame(t *testing.T) *gputest.Device {
	t.Helper()
	if h.r.Clock().FrameCount() == 0 {
		require.NoError(t, h.r.Tick())
	}
	dev := h.factory.Last()
	dev.Reset()
	require.NoError(t, h.r.Tick())
	return dev
}

func lightsCount(block []byte) float32 {
	return stdmath.Float32frombits(binary.LittleEndian.Uint32(block[len(block)-4:]))
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(testConfig(), Deps{})
	assert.Error(t, err)
}

func TestInitialize(t *testing.T) {
	h := started(t, testConfig(), Deps{})

	assert.Equal(t, Running, h.r.State())
	require.Len(t, h.factory.Devices, 1)
	assert.Equal(t, []string{"scene.obj"}, h.importer.loads)

	scene := h.r.Scene()
	require.Len(t, scene.Meshes, 1)
	assert.True(t, scene.Meshes[0].Ready())
	require.Len(t, scene.Lights, 2)
	for _, pl := range scene.Lights {
		require.NotNil(t, pl.Emitter)
		assert.Equal(t, math.Vec3{X: 1}, pl.Emitter.Material.Diffuse)
		assert.Equal(t, math.Vec3{X: EmitterScale, Y: EmitterScale, Z: EmitterScale}, pl.Emitter.Transform.Scale())
	}
	assert.Equal(t, lighting.DefaultSun(), scene.Sun)
	assert.Equal(t, math.Vec3{Y: 5, Z: -7}, h.r.Camera().Position())
	assert.InDelta(t, 2.0, h.r.Camera().Aspect(), 1e-6)

	assert.Equal(t, 1, h.factory.Last().Count("CreateDepthStencilState"))
	assert.Equal(t, 2, h.factory.Last().Count("CreateRasterizerState"))
}

func TestInitializeTwiceFails(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	assert.Error(t, h.r.Initialize())
}

func TestInitializeDeviceFailure(t *testing.T) {
	h := newHarness(t, testConfig(), Deps{})
	h.factory.Fail = true
	assert.ErrorIs(t, h.r.Initialize(), gputest.ErrInjected)
}

func TestFirstTickOnlyStartsClock(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	dev := h.factory.Last()

	require.NoError(t, h.r.Tick())
	assert.Empty(t, dev.Draws)
	assert.Zero(t, dev.Count("Present"))
	assert.Zero(t, h.r.FrameTime())

	require.NoError(t, h.r.Tick())
	assert.Equal(t, 1, dev.Count("Present"))
	assert.Equal(t, 16*time.Millisecond, h.r.FrameTime())

	require.NoError(t, h.r.Tick())
	assert.Equal(t, uint64(2), h.r.Clock().FrameCount())
	assert.Equal(t, 32*time.Millisecond, h.r.Clock().Total())
}

func TestFrameDrawsMeshesThenEmitters(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	dev := h.frame(t)

	require.Len(t, dev.Draws, 3)
	assert.Equal(t, "lit.frag", dev.Draws[0].Program)
	assert.Equal(t, 36, dev.Draws[0].IndexCount)
	assert.True(t, dev.Draws[0].DepthTested)
	assert.Equal(t, gpu.FillSolid, dev.Draws[0].Rasterizer.Fill)
	for _, d := range dev.Draws[1:] {
		assert.Equal(t, "unlit.frag", d.Program)
	}

	ops := dev.Ops()
	assert.Equal(t, "ClearRenderTarget", ops[0])
	assert.Equal(t, "Present", ops[len(ops)-1])

	clear := dev.Calls()[0]
	assert.Equal(t, math.RGBA(0, 1, 1, 1), clear.Args[0])
}

func TestConstantBlocks(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	dev := h.frame(t)
	require.NotEmpty(t, dev.Draws)
	d := dev.Draws[0]

	assert.Len(t, d.ConstantsAt(gpu.StageVertex, shader.SlotPerObjectVS), 192)
	frame := d.ConstantsAt(gpu.StagePixel, shader.SlotPerFramePS)
	require.Len(t, frame, 2640)
	assert.Equal(t, float32(2), lightsCount(frame))
	assert.Len(t, d.ConstantsAt(gpu.StagePixel, shader.SlotPerObjectPS), 64)

	want := pack(objectPS(h.r.Scene().Meshes[0]))
	assert.Equal(t, want, d.ConstantsAt(gpu.StagePixel, shader.SlotPerObjectPS))

	emitter := dev.Draws[1].ConstantsAt(gpu.StagePixel, shader.SlotPerObjectPS)
	assert.Equal(t, pack(objectPS(h.r.Scene().Lights[0].Emitter)), emitter)
}

func TestPointLightsTruncated(t *testing.T) {
	cfg := testConfig()
	cfg.PointLights = testLights(40)
	h := started(t, cfg, Deps{})
	dev := h.frame(t)

	assert.Len(t, h.r.Scene().Lights, 40)
	require.Len(t, dev.Draws, 41)
	frame := dev.Draws[0].ConstantsAt(gpu.StagePixel, shader.SlotPerFramePS)
	assert.Equal(t, float32(lighting.MaxPointLights), lightsCount(frame))
}

func TestToggleEmitters(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	h.r.ToggleEmitters()
	assert.False(t, h.r.EmittersVisible())

	dev := h.frame(t)
	assert.Len(t, dev.Draws, 1)
}

func TestShadingModeAndWireframe(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	h.r.SetShadingMode(shader.Normal)
	h.r.SetWireframe(true)

	dev := h.frame(t)
	require.NotEmpty(t, dev.Draws)
	assert.Equal(t, "normal.frag", dev.Draws[0].Program)
	assert.Equal(t, gpu.FillWireframe, dev.Draws[0].Rasterizer.Fill)
	assert.Equal(t, shader.Normal, h.r.ShadingMode())
	assert.True(t, h.r.Wireframe())
}

func TestKeyboardSelectsShadingMode(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	var snap input.Snapshot
	snap.Press(input.KeyU)
	h.src.push(input.Snapshot{}, snap)

	require.NoError(t, h.r.Tick())
	require.NoError(t, h.r.Tick())
	assert.Equal(t, shader.Unlit, h.r.ShadingMode())
}

func TestDeviceLossRecovers(t *testing.T) {
	h := newHarness(t, testConfig(), Deps{})
	h.factory.Configure = func(d *gputest.Device) {
		if d.ID == 1 {
			d.LoseOnPresent = 1
		}
	}
	require.NoError(t, h.r.Initialize())
	require.NoError(t, h.r.Tick())
	require.NoError(t, h.r.Tick())

	require.Len(t, h.factory.Devices, 2)
	lost := h.factory.Devices[0]
	assert.True(t, lost.IsReleased())
	assert.Zero(t, lost.Live(), "leaked: %v", lost.LiveKinds())

	assert.Equal(t, Running, h.r.State())
	assert.Equal(t, []string{"scene.obj", "scene.obj"}, h.importer.loads)
	require.Len(t, h.r.Scene().Meshes, 1)
	assert.True(t, h.r.Scene().Meshes[0].Ready())

	fresh := h.factory.Last()
	fresh.Reset()
	require.NoError(t, h.r.Tick())
	assert.Len(t, fresh.Draws, 3)
	assert.Equal(t, 1, fresh.Count("Present"))
}

func TestLossDuringSetupRetries(t *testing.T) {
	h := newHarness(t, testConfig(), Deps{})
	h.factory.Configure = func(d *gputest.Device) {
		switch d.ID {
		case 1:
			d.LoseOnResize = true
		case 2:
			d.LoseOnShader = "lit.frag"
		}
	}
	require.NoError(t, h.r.Initialize())

	assert.Equal(t, Running, h.r.State())
	require.Len(t, h.factory.Devices, 3)
	for _, d := range h.factory.Devices[:2] {
		assert.True(t, d.IsReleased())
		assert.Zero(t, d.Live(), "device %d leaked: %v", d.ID, d.LiveKinds())
	}
	assert.Len(t, h.importer.loads, 3)

	dev := h.frame(t)
	assert.Len(t, dev.Draws, 3)
}

func TestPersistentLossIsFatal(t *testing.T) {
	h := newHarness(t, testConfig(), Deps{})
	h.factory.Configure = func(d *gputest.Device) { d.LoseOnResize = true }

	err := h.r.Initialize()
	require.ErrorIs(t, err, ErrUnrecoverable)
	assert.True(t, gpu.IsDeviceLost(err))

	assert.Equal(t, Closed, h.r.State())
	require.Len(t, h.factory.Devices, MaxRecoveryAttempts+1)
	for _, d := range h.factory.Devices {
		assert.True(t, d.IsReleased())
		assert.Zero(t, d.Live(), "device %d leaked: %v", d.ID, d.LiveKinds())
	}
	assert.ErrorIs(t, h.r.Tick(), ErrNotRunning)
	assert.NoError(t, h.r.Close())
}

func TestLossOnResizeRecovers(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	h.factory.Devices[0].LoseOnResize = true

	require.NoError(t, h.r.Resize(80, 40))
	assert.Equal(t, Running, h.r.State())
	require.Len(t, h.factory.Devices, 2)
	assert.True(t, h.factory.Devices[0].IsReleased())
	assert.Equal(t, 80, h.factory.Last().Width)
}

func TestFailedImportLeavesDefaultSun(t *testing.T) {
	cfg := testConfig()
	cfg.ScenePath = "missing.fbx"
	h := started(t, cfg, Deps{})

	scene := h.r.Scene()
	assert.Empty(t, scene.Meshes)
	assert.Empty(t, scene.Lights)
	assert.Equal(t, lighting.DefaultSun(), scene.Sun)

	dev := h.frame(t)
	assert.Empty(t, dev.Draws)
	assert.Equal(t, 1, dev.Count("Present"))
}

func TestLoadNewModelIsAtomic(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	var pair []*mesh.Mesh
	h.importer.scenes["pair.obj"] = func() loader.Result {
		pair = []*mesh.Mesh{
			mesh.NewCube("a", transform.Identity(), ""),
			mesh.NewCube("b", transform.Identity(), ""),
		}
		return loader.Result{Meshes: pair}
	}
	old := h.r.Scene().Meshes[0]

	// Scene buffers (2 per mesh and emitter) plus three constant buffers.
	h.factory.Last().FailBufferAfter = 11
	err := h.r.LoadNewModel("pair.obj")
	require.ErrorIs(t, err, gputest.ErrInjected)

	assert.False(t, old.Ready())
	require.Len(t, pair, 2)
	assert.False(t, pair[0].Ready())
	assert.False(t, pair[1].Ready())
	assert.Empty(t, h.r.Scene().Meshes)
	assert.Empty(t, h.r.Scene().Lights)
	assert.Equal(t, lighting.DefaultSun(), h.r.Scene().Sun)
}

func TestLoadNewModelLights(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	first := lighting.NewDirectional(math.Vec3{}, math.Vec4{0, 0, 0, 1}, math.RGBA(1, 1, 0, 1), math.RGBA(1, 1, 1, 1), math.Vec3{Y: -1})
	second := lighting.NewDirectional(math.Vec3{}, math.RGBA(0.5, 0.5, 0.5, 1), math.RGBA(0, 1, 0, 1), math.RGBA(1, 1, 1, 1), math.Vec3{X: 1})
	h.importer.scenes["lit.yaml"] = func() loader.Result {
		res := oneCube()
		res.Lights = append([]lighting.Light{first, second}, testLights(1)...)
		return res
	}

	h.r.Camera().SetPosition(math.Vec3{X: 42})
	require.NoError(t, h.r.LoadNewModel("lit.yaml"))

	sun := h.r.Sun()
	assert.Equal(t, lighting.MinimumAmbient, sun.Ambient)
	assert.Equal(t, math.RGBA(1, 1, 0, 1), sun.Diffuse)
	assert.Len(t, h.r.Scene().Lights, 3)
	assert.Equal(t, "lit.yaml", h.r.Scene().Source)
	assert.Equal(t, math.Vec3{Y: 5, Z: -7}, h.r.Camera().Position())
}

func TestLoadNewModelWithoutDevice(t *testing.T) {
	h := newHarness(t, testConfig(), Deps{})
	assert.ErrorIs(t, h.r.LoadNewModel("scene.obj"), ErrNoDevice)
}

func TestMissingTexturesStillDraw(t *testing.T) {
	h := started(t, testConfig(), Deps{Textures: fakeTextures{fail: true}})
	dev := h.frame(t)

	require.Len(t, dev.Draws, 3)
	assert.Nil(t, dev.Draws[0].Texture)
	assert.Equal(t, [4]float32{}, h.r.FirstMesh().TextureFlags())
}

func TestResizeClampsToOne(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	h.src.push(input.Snapshot{Window: input.WindowEvents{Resized: true}})

	require.NoError(t, h.r.Tick())
	dev := h.factory.Last()
	assert.Equal(t, 1, dev.Width)
	assert.Equal(t, 1, dev.Height)
	assert.InDelta(t, 1.0, h.r.Camera().Aspect(), 1e-6)
	assert.Equal(t, Running, h.r.State())
	assert.Equal(t, 2, dev.Count("BackBuffer"))
}

func TestResizeReleasesOldViews(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	dev := h.factory.Last()
	before := dev.Live()

	require.NoError(t, h.r.Resize(800, 600))
	assert.Equal(t, before, dev.Live())
	assert.Equal(t, 800, dev.Width)
}

func TestMinimizeSuspends(t *testing.T) {
	var slept []time.Duration
	h := started(t, testConfig(), Deps{Sleep: func(d time.Duration) { slept = append(slept, d) }})
	require.NoError(t, h.r.Tick())
	dev := h.factory.Last()

	h.src.push(input.Snapshot{Window: input.WindowEvents{Minimized: true}}, input.Snapshot{})
	require.NoError(t, h.r.Tick())
	require.NoError(t, h.r.Tick())
	assert.Zero(t, dev.Count("Present"))
	assert.Equal(t, []time.Duration{SuspendedWait, SuspendedWait}, slept)

	h.src.push(input.Snapshot{Window: input.WindowEvents{Restored: true}})
	require.NoError(t, h.r.Tick())
	assert.Equal(t, 1, dev.Count("Present"))
}

func TestQuitRequestsExit(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	h.src.push(input.Snapshot{Window: input.WindowEvents{Quit: true}})

	require.NoError(t, h.r.Tick())
	assert.True(t, h.r.ExitRequested())
	assert.Zero(t, h.factory.Last().Count("Present"))
}

func TestScreenshot(t *testing.T) {
	dir := t.TempDir()
	h := started(t, testConfig(), Deps{Screenshots: debug.NewScreenshotCapture(dir, "shot")})
	h.r.RequestScreenshot()
	dev := h.frame(t)

	assert.Equal(t, 1, dev.Count("ReadBackBuffer"))
	files, err := filepath.Glob(filepath.Join(dir, "shot_*.png"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	info, err := os.Stat(files[0])
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	dev.Reset()
	require.NoError(t, h.r.Tick())
	assert.Zero(t, dev.Count("ReadBackBuffer"))
}

func TestOpenModel(t *testing.T) {
	picks := []struct {
		path string
		ok   bool
		err  error
	}{
		{"", false, nil},
		{"", false, errors.New("no display")},
		{"scene.obj", true, nil},
	}
	var calls int
	pick := func() (string, bool, error) {
		p := picks[calls]
		calls++
		return p.path, p.ok, p.err
	}
	h := started(t, testConfig(), Deps{PickModel: pick})

	for range picks {
		h.r.RequestOpenModel()
		require.NoError(t, h.r.Tick())
	}
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"scene.obj", "scene.obj"}, h.importer.loads)
}

func TestOverlayLifecycle(t *testing.T) {
	h := started(t, testConfig(), Deps{UI: debugui.OverlayFactory})
	dev := h.frame(t)

	require.NotEmpty(t, dev.Draws)
	assert.Equal(t, "lit.frag", dev.Draws[0].Program)
	assert.Greater(t, len(dev.Draws), 3)

	require.NoError(t, h.r.Close())
	assert.True(t, dev.IsReleased())
	assert.Zero(t, dev.Live(), "leaked: %v", dev.LiveKinds())
}

func TestClose(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	dev := h.factory.Last()

	require.NoError(t, h.r.Close())
	assert.Equal(t, Closed, h.r.State())
	assert.True(t, dev.IsReleased())
	assert.Zero(t, dev.Live(), "leaked: %v", dev.LiveKinds())
	assert.ErrorIs(t, h.r.Tick(), ErrNotRunning)
	assert.NoError(t, h.r.Close())
}

func TestCloseAggregatesReleaseErrors(t *testing.T) {
	h := started(t, testConfig(), Deps{})
	dev := h.factory.Last()
	dev.FailRelease = true

	err := h.r.Close()
	assert.ErrorIs(t, err, gputest.ErrInjected)
	assert.True(t, dev.IsReleased())
	assert.Nil(t, h.r.FirstMesh())
}
