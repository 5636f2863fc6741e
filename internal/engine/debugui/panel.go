package debugui

import (
	"time"

	"github.com/Faultbox/forwardlit/internal/engine/camera"
	"github.com/Faultbox/forwardlit/internal/engine/lighting"
	"github.com/Faultbox/forwardlit/internal/engine/mesh"
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// PanelTitle is the settings window title.
const PanelTitle = "Settings"

// Slider ranges.
const (
	MinCameraSpeed = 0.1
	MaxCameraSpeed = 50
	MeshRange      = 180
)

// PanelTarget is the state the settings panel edits.
type PanelTarget interface {
	Camera() *camera.Camera
	Sun() *lighting.Light
	// FirstMesh returns nil when the scene is empty.
	FirstMesh() *mesh.Mesh
	ShadingMode() shader.Mode
	SetShadingMode(m shader.Mode)
	ToggleEmitters()
	Wireframe() bool
	SetWireframe(on bool)
	RequestOpenModel()
}

var viewButtons = [...]struct {
	label string
	mode  shader.Mode
}{
	{"Lit", shader.Lit},
	{"Unlit", shader.Unlit},
	{"Normal", shader.Normal},
}

// DrawPanel emits the settings window for one frame.
func DrawPanel(ui UI, t PanelTarget, frameTime time.Duration) {
	if !ui.Begin(PanelTitle) {
		return
	}
	defer ui.End()

	cam := t.Camera()
	speed := cam.Speed()
	if ui.SliderFloat("Camera Speed", &speed, MinCameraSpeed, MaxCameraSpeed) {
		cam.SetSpeed(speed)
	}

	if sun := t.Sun(); sun != nil && ui.CollapsingHeader("Directional") {
		ui.ColorEdit("Sun Diffuse", (*[4]float32)(&sun.Diffuse))
		ui.ColorEdit("Sun Ambient", (*[4]float32)(&sun.Ambient))
		ui.ColorEdit("Sun Specular", (*[4]float32)(&sun.Specular))
		dir := sun.Direction.Array()
		if ui.SliderFloat3("Sun Direction", &dir, -1, 1) {
			sun.Direction = math.Vec3From(dir)
		}
	}

	if m := t.FirstMesh(); m != nil {
		rot := m.Transform.Rotation()
		ui.Text("Rotation: %.1f %.1f %.1f", rot.X, rot.Y, rot.Z)

		r := rot.Array()
		if ui.SliderFloat3("Rotation", &r, -MeshRange, MeshRange) {
			m.Transform.SetRotation(math.Vec3From(r))
		}
		p := m.Transform.Position().Array()
		if ui.SliderFloat3("Position", &p, -MeshRange, MeshRange) {
			m.Transform.SetPosition(math.Vec3From(p))
		}
	}

	ui.Text("View")
	for i, b := range viewButtons {
		if i > 0 {
			ui.SameLine()
		}
		if ui.Button(b.label) {
			t.SetShadingMode(b.mode)
		}
	}
	if ui.Button("Toggle Light Emitters") {
		t.ToggleEmitters()
	}

	wire := t.Wireframe()
	if ui.Checkbox("Wireframe", &wire) {
		t.SetWireframe(wire)
	}
	if ui.Button("Open Model") {
		t.RequestOpenModel()
	}

	ms := float64(frameTime) / float64(time.Millisecond)
	fps := 0.0
	if frameTime > 0 {
		fps = float64(time.Second) / float64(frameTime)
	}
	ui.Text("FrameTime: %.3f ms/frame (%.1f FPS)", ms, fps)
}
