package debugui

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/forwardlit/internal/engine/camera"
	"github.com/Faultbox/forwardlit/internal/engine/gpu/gputest"
	"github.com/Faultbox/forwardlit/internal/engine/input"
	"github.com/Faultbox/forwardlit/internal/engine/lighting"
	"github.com/Faultbox/forwardlit/internal/engine/mesh"
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/internal/engine/transform"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// scriptedUI records widget calls and answers them from a script.
type scriptedUI struct {
	closed   bool
	calls    []string
	clicks   map[string]bool
	sliders  map[string]float32
	vectors  map[string][3]float32
	checks   map[string]bool
	headers  map[string]bool
	sameLine int
}

func newScriptedUI() *scriptedUI {
	return &scriptedUI{
		clicks:  map[string]bool{},
		sliders: map[string]float32{},
		vectors: map[string][3]float32{},
		checks:  map[string]bool{},
		headers: map[string]bool{},
	}
}

func (s *scriptedUI) NewFrame(input.Snapshot) {}
func (s *scriptedUI) Render() error { return nil }
func (s *scriptedUI) Begin(title string) bool {
	s.calls = append(s.calls, "Begin:"+title)
	return !s.closed
}
func (s *scriptedUI) End() { s.calls = append(s.calls, "End") }
func (s *scriptedUI) SameLine() { s.sameLine++ }
func (s *scriptedUI) Text(format string, args ...any) {
	s.calls = append(s.calls, "Text:"+fmt.Sprintf(format, args...))
}
func (s *scriptedUI) Button(label string) bool {
	s.calls = append(s.calls, "Button:"+label)
	return s.clicks[label]
}
func (s *scriptedUI) Checkbox(label string, v *bool) bool {
	s.calls = append(s.calls, "Checkbox:"+label)
	nv, ok := s.checks[label]
	if !ok || nv == *v {
		return false
	}
	*v = nv
	return true
}
func (s *scriptedUI) SliderFloat(label string, v *float32, lo, hi float32) bool {
	s.calls = append(s.calls, "Slider:"+label)
	nv, ok := s.sliders[label]
	if !ok {
		return false
	}
	*v = math.Clamp(nv, lo, hi)
	return true
}
func (s *scriptedUI) SliderFloat3(label string, v *[3]float32, lo, hi float32) bool {
	s.calls = append(s.calls, "Slider3:"+label)
	nv, ok := s.vectors[label]
	if !ok {
		return false
	}
	*v = nv
	return true
}
func (s *scriptedUI) ColorEdit(label string, c *[4]float32) bool {
	s.calls = append(s.calls, "Color:"+label)
	return false
}
func (s *scriptedUI) CollapsingHeader(label string) bool {
	s.calls = append(s.calls, "Header:"+label)
	open, ok := s.headers[label]
	return !ok || open
}
func (s *scriptedUI) WantsMouse() bool { return false }
func (s *scriptedUI) Resize(int, int) {}
func (s *scriptedUI) Close() error { return nil }

type panelTarget struct {
	cam       *camera.Camera
	sun       lighting.Light
	meshes    []*mesh.Mesh
	mode      shader.Mode
	wireframe bool
	emitters  int
	opens     int
}

func newPanelTarget() *panelTarget {
	return &panelTarget{
		cam: camera.New(camera.DefaultSettings()),
		sun: lighting.DefaultSun(),
		meshes: []*mesh.Mesh{
			mesh.NewCube("cube", transform.New(math.Vec3{X: 1}, math.Vec3{Y: 45}, math.Vec3{X: 1, Y: 1, Z: 1}), ""),
		},
	}
}

func (p *panelTarget) Camera() *camera.Camera { return p.cam }
func (p *panelTarget) Sun() *lighting.Light { return &p.sun }
func (p *panelTarget) ShadingMode() shader.Mode { return p.mode }
func (p *panelTarget) SetShadingMode(m shader.Mode) {
	p.mode = m
}
func (p *panelTarget) ToggleEmitters() { p.emitters++ }
func (p *panelTarget) Wireframe() bool { return p.wireframe }
func (p *panelTarget) SetWireframe(b bool) { p.wireframe = b }
func (p *panelTarget) RequestOpenModel() { p.opens++ }
func (p *panelTarget) FirstMesh() *mesh.Mesh {
	if len(p.meshes) == 0 {
		return nil
	}
	return p.meshes[0]
}

func TestPanelLayout(t *testing.T) {
	ui := newScriptedUI()
	tg := newPanelTarget()

	DrawPanel(ui, tg, 16*time.Millisecond)

	assert.Equal(t, []string{
		"Begin:Settings",
		"Slider:Camera Speed",
		"Header:Directional",
		"Color:Sun Diffuse",
		"Color:Sun Ambient",
		"Color:Sun Specular",
		"Slider3:Sun Direction",
		"Text:Rotation: 0.0 45.0 0.0",
		"Slider3:Rotation",
		"Slider3:Position",
		"Text:View",
		"Button:Lit",
		"Button:Unlit",
		"Button:Normal",
		"Button:Toggle Light Emitters",
		"Checkbox:Wireframe",
		"Button:Open Model",
		"Text:FrameTime: 16.000 ms/frame (62.5 FPS)",
		"End",
	}, ui.calls)
	assert.Equal(t, 2, ui.sameLine)
}

func TestPanelCollapsedAndEmptyScene(t *testing.T) {
	ui := newScriptedUI()
	ui.headers["Directional"] = false
	tg := newPanelTarget()
	tg.meshes = nil

	DrawPanel(ui, tg, 0)

	assert.NotContains(t, ui.calls, "Color:Sun Diffuse")
	assert.NotContains(t, ui.calls, "Slider3:Rotation")
	assert.Contains(t, ui.calls, "Text:FrameTime: 0.000 ms/frame (0.0 FPS)")
}

func TestPanelClosedWindowDrawsNothing(t *testing.T) {
	ui := newScriptedUI()
	ui.closed = true

	DrawPanel(ui, newPanelTarget(), time.Millisecond)

	assert.Equal(t, []string{"Begin:Settings"}, ui.calls)
}

func TestPanelEditsTarget(t *testing.T) {
	ui := newScriptedUI()
	ui.sliders["Camera Speed"] = 80
	ui.vectors["Sun Direction"] = [3]float32{0, -1, 0}
	ui.vectors["Rotation"] = [3]float32{10, 20, 30}
	ui.vectors["Position"] = [3]float32{1, 2, 3}
	ui.clicks["Normal"] = true
	ui.clicks["Toggle Light Emitters"] = true
	ui.clicks["Open Model"] = true
	ui.checks["Wireframe"] = true
	tg := newPanelTarget()

	DrawPanel(ui, tg, time.Millisecond)

	assert.Equal(t, float32(MaxCameraSpeed), tg.cam.Speed())
	assert.Equal(t, math.Vec3{Y: -1}, tg.sun.Direction)
	m := tg.meshes[0]
	assert.Equal(t, math.Vec3{X: 10, Y: 20, Z: 30}, m.Transform.Rotation())
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, m.Transform.Position())
	assert.Equal(t, shader.Normal, tg.mode)
	assert.Equal(t, 1, tg.emitters)
	assert.Equal(t, 1, tg.opens)
	assert.True(t, tg.wireframe)
}

func TestOverlayDrawsThroughDevice(t *testing.T) {
	dev := gputest.New(800, 600)
	o, err := NewOverlay(dev, 800, 600)
	require.NoError(t, err)

	tg := newPanelTarget()
	var snap input.Snapshot
	o.NewFrame(snap)
	DrawPanel(o, tg, 10*time.Millisecond)
	require.NoError(t, o.Render())

	assert.NotZero(t, dev.Count("DrawIndexed"))
	assert.False(t, o.WantsMouse())

	// The panel sits at the top left once its height is measured.
	snap.Mouse.X, snap.Mouse.Y = 20, 20
	o.NewFrame(snap)
	DrawPanel(o, tg, 10*time.Millisecond)
	require.NoError(t, o.Render())
	assert.True(t, o.WantsMouse())

	require.NoError(t, o.Close())
	assert.Zero(t, dev.Live())
}

func TestOverlayWheelIsDelta(t *testing.T) {
	dev := gputest.New(320, 240)
	o, err := NewOverlay(dev, 320, 240)
	require.NoError(t, err)

	var snap input.Snapshot
	snap.Mouse.Wheel = 5
	o.NewFrame(snap)
	assert.Zero(t, o.ctx.Input().ScrollY)
	require.NoError(t, o.Render())

	snap.Mouse.Wheel = 7
	o.NewFrame(snap)
	assert.Equal(t, float32(2), o.ctx.Input().ScrollY)
	require.NoError(t, o.Render())
}

func TestOverlayCheckboxToggles(t *testing.T) {
	dev := gputest.New(800, 600)
	o, err := NewOverlay(dev, 800, 600)
	require.NoError(t, err)

	on := false
	run := func(x, y int32, down bool) bool {
		var snap input.Snapshot
		snap.Mouse.X, snap.Mouse.Y = x, y
		snap.Mouse.Buttons[input.ButtonLeft] = down
		o.NewFrame(snap)
		changed := false
		if o.Begin("Box") {
			changed = o.Checkbox("flag", &on)
			o.End()
		}
		require.NoError(t, o.Render())
		return changed
	}

	// The first widget sits at the window's content origin.
	bx, by := int32(windowX+8+4), int32(windowY+20+8+4)
	run(0, 0, false)
	run(bx, by, true)
	assert.True(t, run(bx, by, false))
	assert.True(t, on)
}
