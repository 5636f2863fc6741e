// Package renderer drives the forward-lit frame. It owns the device, the
// camera and the scene, and rebuilds all of them when the device is lost.
package renderer

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/forwardlit/internal/engine/camera"
	"github.com/Faultbox/forwardlit/internal/engine/debug"
	"github.com/Faultbox/forwardlit/internal/engine/debugui"
	"github.com/Faultbox/forwardlit/internal/engine/gpu"
	"github.com/Faultbox/forwardlit/internal/engine/input"
	"github.com/Faultbox/forwardlit/internal/engine/lighting"
	"github.com/Faultbox/forwardlit/internal/engine/loader"
	"github.com/Faultbox/forwardlit/internal/engine/mesh"
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/internal/engine/transform"
	"github.com/Faultbox/forwardlit/internal/logger"
	"github.com/Faultbox/forwardlit/pkg/math"
)

var (
	// ErrNotRunning is returned by Tick before Initialize or after Close.
	ErrNotRunning = errors.New("renderer: not running")
	// ErrNoDevice is returned by LoadNewModel when no device exists yet.
	ErrNoDevice = errors.New("renderer: no device")
	// ErrUnrecoverable is returned when every fresh device was lost again.
	ErrUnrecoverable = errors.New("renderer: device could not be recovered")
)

const (
	// EmitterScale is the uniform scale of the cubes marking point lights.
	EmitterScale = 5
	// MaxRecoveryAttempts bounds how many fresh devices are tried after a
	// loss before giving up.
	MaxRecoveryAttempts = 3
	// SuspendedWait is how long a suspended Tick idles before returning.
	SuspendedWait = 50 * time.Millisecond
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool

	FovDegrees float32
	Near       float32
	Far        float32
	ClearColor math.Vec4

	Wireframe    bool
	Multisample  bool
	ShadingMode  shader.Mode
	ShowEmitters bool

	// ScenePath is imported during device creation and again after every
	// device loss.
	ScenePath string
	// PointLights are added to every loaded scene, each with an emitter cube.
	PointLights    []lighting.Light
	EmitterTexture string
	// LoadPosition is where the camera goes when a model is loaded.
	LoadPosition math.Vec3

	CameraSpeed float32
	Controls    input.Settings
}

// DefaultConfig returns the stock renderer settings without point lights.
func DefaultConfig() Config {
	cam := camera.DefaultSettings()
	return Config{
		Width:        1920,
		Height:       1080,
		VSync:        true,
		FovDegrees:   cam.FovDegrees,
		Near:         cam.Near,
		Far:          cam.Far,
		ClearColor:   math.RGBA(0, 1, 1, 1),
		ShadingMode:  shader.Lit,
		ShowEmitters: true,
		LoadPosition: math.Vec3{Y: 5, Z: -7},
		CameraSpeed:  cam.Speed,
		Controls:     input.DefaultSettings(),
	}
}

// Importer turns a file into meshes and lights.
type Importer interface {
	Load(path string) (loader.Result, error)
}

// ModelPicker asks for a model file. ok is false when the user cancelled.
type ModelPicker func() (path string, ok bool, err error)

// Deps are the collaborators a Renderer is built from. Devices, Input and
// Importer are required.
type Deps struct {
	Devices  gpu.Factory
	Input    input.Source
	Importer Importer
	Textures mesh.TextureSource
	// UI creates the debug overlay on each new device. Nil disables it.
	UI debugui.Factory
	// PickModel defaults to the native file dialog.
	PickModel   ModelPicker
	Screenshots *debug.ScreenshotCapture
	Now         func() time.Time
	// Sleep idles a suspended renderer. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Renderer runs the frame loop.
type Renderer struct {
	cfg   Config
	deps  Deps
	state State

	width, height int
	suspended     bool

	clock      *Clock
	frameTime  time.Duration
	controller *input.Controller
	camera     *camera.Camera
	scene      Scene
	scenePath  string

	mode         shader.Mode
	wireframe    bool
	showEmitters bool

	exitRequested       bool
	openRequested       bool
	screenshotRequested bool

	dev      gpu.Device
	programs *shader.Programs
	layout   gpu.InputLayout
	ui       debugui.UI

	backBuffer  gpu.RenderTarget
	depthView   gpu.DepthStencilView
	perObjectVS gpu.Buffer
	perFramePS  gpu.Buffer
	perObjectPS gpu.Buffer
	solid       gpu.RasterizerState
	wire        gpu.RasterizerState
	depthState  gpu.DepthStencilState
	opaque      gpu.BlendState
}

// New creates a renderer. Nothing touches the GPU until Initialize.
func New(cfg Config, deps Deps) (*Renderer, error) {
	if deps.Devices == nil || deps.Input == nil || deps.Importer == nil {
		return nil, errors.New("renderer: device factory, input source and importer are required")
	}
	if deps.PickModel == nil {
		deps.PickModel = NativeModelPicker
	}
	if deps.Sleep == nil {
		deps.Sleep = time.Sleep
	}
	if deps.Screenshots == nil {
		deps.Screenshots = debug.NewScreenshotCapture(debug.DefaultScreenshotDir, "forwardlit")
	}
	r := &Renderer{
		cfg:          cfg,
		deps:         deps,
		width:        max(cfg.Width, 1),
		height:       max(cfg.Height, 1),
		clock:        NewClock(deps.Now),
		controller:   input.NewController(cfg.Controls),
		scene:        Scene{Sun: lighting.DefaultSun()},
		scenePath:    cfg.ScenePath,
		mode:         cfg.ShadingMode,
		wireframe:    cfg.Wireframe,
		showEmitters: cfg.ShowEmitters,
	}
	return r, nil
}

// Initialize creates the device and every resource, then starts running.
func (r *Renderer) Initialize() error {
	if r.state != Uninitialized {
		return fmt.Errorf("renderer: initialize in state %s", r.state)
	}
	return r.bringUp()
}

// bringUp advances the lifecycle to Running. A device loss on the way
// discards the device and starts over from DeviceLost; other errors are
// returned as is.
func (r *Renderer) bringUp() error {
	losses := 0
	for r.state != Running {
		var err error
		switch r.state {
		case Uninitialized, DeviceLost:
			err = r.createDevice()
		case DeviceReady:
			err = r.createResources()
		case ResourcesReady:
			r.state = Running
		default:
			return fmt.Errorf("renderer: cannot start from state %s", r.state)
		}
		if err == nil {
			continue
		}
		if !gpu.IsDeviceLost(err) {
			return err
		}
		if losses++; losses > MaxRecoveryAttempts {
			r.discardDevice()
			r.state = Closed
			return fmt.Errorf("%w after %d attempts: %w", ErrUnrecoverable, MaxRecoveryAttempts, err)
		}
		logger.Warn("device lost during setup, retrying",
			zap.Int("attempt", losses), zap.Error(err))
		r.discardDevice()
	}
	return nil
}

func (r *Renderer) cameraSettings() camera.Settings {
	s := camera.DefaultSettings()
	s.FovDegrees = r.cfg.FovDegrees
	s.Near = r.cfg.Near
	s.Far = r.cfg.Far
	s.Speed = r.cfg.CameraSpeed
	return s
}

// createDevice builds everything that lives as long as the device.
func (r *Renderer) createDevice() error {
	dev, err := r.deps.Devices()
	if err != nil {
		return fmt.Errorf("create device: %w", err)
	}
	r.dev = dev
	r.camera = camera.New(r.cameraSettings())

	if r.scenePath != "" {
		if err := r.LoadNewModel(r.scenePath); err != nil {
			if gpu.IsDeviceLost(err) {
				return fmt.Errorf("reload scene: %w", err)
			}
			logger.Warn("scene unavailable, starting empty",
				zap.String("path", r.scenePath), zap.Error(err))
		}
	}

	if r.programs, err = shader.Compile(dev); err != nil {
		return fmt.Errorf("compile shaders: %w", err)
	}
	if r.layout, err = dev.CreateInputLayout(mesh.Layout()); err != nil {
		return fmt.Errorf("create input layout: %w", err)
	}
	if r.deps.UI != nil {
		if r.ui, err = r.deps.UI(dev, r.width, r.height); err != nil {
			return fmt.Errorf("create debug ui: %w", err)
		}
	}
	r.state = DeviceReady
	return nil
}

// depthStencilDesc counts front faces failing depth up and back faces down.
func depthStencilDesc() gpu.DepthStencilDesc {
	return gpu.DepthStencilDesc{
		DepthEnable:      true,
		DepthWrite:       true,
		DepthFunc:        gpu.CompareLess,
		StencilEnable:    true,
		StencilReadMask:  0xff,
		StencilWriteMask: 0xff,
		Front: gpu.StencilFace{
			Fail:      gpu.StencilKeep,
			DepthFail: gpu.StencilIncr,
			Pass:      gpu.StencilKeep,
			Func:      gpu.CompareAlways,
		},
		Back: gpu.StencilFace{
			Fail:      gpu.StencilKeep,
			DepthFail: gpu.StencilDecr,
			Pass:      gpu.StencilKeep,
			Func:      gpu.CompareAlways,
		},
	}
}

// createResources builds everything that depends on the window size.
func (r *Renderer) createResources() error {
	dev := r.dev
	if err := dev.ResizeSwapchain(r.width, r.height); err != nil {
		return fmt.Errorf("resize swapchain: %w", err)
	}

	var err error
	if r.backBuffer, err = dev.BackBuffer(); err != nil {
		return fmt.Errorf("get back buffer: %w", err)
	}
	if r.depthView, err = dev.CreateDepthStencilView(r.width, r.height); err != nil {
		return fmt.Errorf("create depth stencil view: %w", err)
	}
	r.camera.UpdateProjection(r.width, r.height)

	constant := func(size int) (gpu.Buffer, error) {
		return dev.CreateBuffer(gpu.BufferDesc{Kind: gpu.ConstantBuffer, Size: size}, nil)
	}
	if r.perObjectVS, err = constant(perObjectVSSize); err != nil {
		return fmt.Errorf("create %s buffer: %w", shader.BlockPerObjectVS, err)
	}
	if r.perFramePS, err = constant(perFramePSSize); err != nil {
		return fmt.Errorf("create %s buffer: %w", shader.BlockPerFramePS, err)
	}
	if r.perObjectPS, err = constant(perObjectPSSize); err != nil {
		return fmt.Errorf("create %s buffer: %w", shader.BlockPerObjectPS, err)
	}

	raster := gpu.RasterizerDesc{
		Fill:        gpu.FillSolid,
		Cull:        gpu.CullNone,
		DepthClip:   true,
		Multisample: r.cfg.Multisample,
	}
	if r.solid, err = dev.CreateRasterizerState(raster); err != nil {
		return fmt.Errorf("create rasterizer state: %w", err)
	}
	raster.Fill = gpu.FillWireframe
	if r.wire, err = dev.CreateRasterizerState(raster); err != nil {
		return fmt.Errorf("create wireframe rasterizer state: %w", err)
	}
	if r.depthState, err = dev.CreateDepthStencilState(depthStencilDesc()); err != nil {
		return fmt.Errorf("create depth stencil state: %w", err)
	}
	if r.opaque, err = dev.CreateBlendState(gpu.BlendDesc{}); err != nil {
		return fmt.Errorf("create blend state: %w", err)
	}

	if r.ui != nil {
		r.ui.Resize(r.width, r.height)
	}
	r.state = ResourcesReady
	return nil
}

func release(err *error, res gpu.Resource) {
	if res != nil {
		*err = multierr.Append(*err, res.Release())
	}
}

// releaseResources frees the size-dependent resources, views last.
func (r *Renderer) releaseResources() error {
	var err error
	release(&err, r.opaque)
	release(&err, r.depthState)
	release(&err, r.wire)
	release(&err, r.solid)
	release(&err, r.perObjectPS)
	release(&err, r.perFramePS)
	release(&err, r.perObjectVS)
	release(&err, r.depthView)
	release(&err, r.backBuffer)
	r.opaque, r.depthState, r.wire, r.solid = nil, nil, nil, nil
	r.perObjectPS, r.perFramePS, r.perObjectVS = nil, nil, nil
	r.depthView, r.backBuffer = nil, nil
	return err
}

// releaseAll frees everything the device created and then the device.
// Every handle is dropped even when a release fails.
func (r *Renderer) releaseAll() error {
	var err error
	if r.ui != nil {
		err = multierr.Append(err, r.ui.Close())
		r.ui = nil
	}
	err = multierr.Append(err, r.scene.Clear())
	release(&err, r.layout)
	r.layout = nil
	if r.programs != nil {
		err = multierr.Append(err, r.programs.Release())
		r.programs = nil
	}
	err = multierr.Append(err, r.releaseResources())
	if r.dev != nil {
		err = multierr.Append(err, r.dev.Release())
		r.dev = nil
	}
	return err
}

// discardDevice drops the device and everything it owned and moves to
// DeviceLost.
func (r *Renderer) discardDevice() {
	if err := r.releaseAll(); err != nil {
		logger.Warn("release after device loss", zap.Error(err))
	}
	r.state = DeviceLost
}

// onDeviceLost builds a fresh device and reloads the current scene.
func (r *Renderer) onDeviceLost(cause error) error {
	logger.Warn("device lost, recreating",
		zap.String("scene", r.scenePath), zap.Error(cause))
	r.discardDevice()
	if err := r.bringUp(); err != nil {
		return fmt.Errorf("recover lost device: %w", err)
	}
	logger.Info("device recovered")
	return nil
}

// Resize rebuilds the size-dependent resources. Sizes below one are clamped.
func (r *Renderer) Resize(width, height int) error {
	r.width, r.height = max(width, 1), max(height, 1)
	if r.state != Running {
		return nil
	}
	if err := r.releaseResources(); err != nil {
		logger.Warn("release before resize", zap.Error(err))
	}
	r.state = DeviceReady
	if err := r.createResources(); err != nil {
		if gpu.IsDeviceLost(err) {
			return r.onDeviceLost(err)
		}
		return err
	}
	r.state = Running
	logger.Debug("resized", zap.Int("width", r.width), zap.Int("height", r.height))
	return nil
}

// Suspend stops rendering until Resume.
func (r *Renderer) Suspend() { r.suspended = true }

// Resume restarts rendering without counting the suspended time as a step.
func (r *Renderer) Resume() {
	if !r.suspended {
		return
	}
	r.suspended = false
	r.clock.ResetElapsed()
}

// LoadNewModel replaces the scene with the content of path plus the
// configured point lights. The replacement is atomic: on any failure the
// scene is left empty apart from the default sun.
func (r *Renderer) LoadNewModel(path string) error {
	if r.dev == nil {
		return ErrNoDevice
	}
	if r.camera != nil {
		r.camera.SetPosition(r.cfg.LoadPosition)
	}
	if err := r.scene.Clear(); err != nil {
		logger.Warn("release previous scene", zap.Error(err))
	}
	r.scenePath = path

	res, err := r.deps.Importer.Load(path)
	if err != nil {
		return err
	}

	next := Scene{ID: res.ID, Source: res.Source, Sun: lighting.DefaultSun()}
	fail := func(err error) error {
		return multierr.Append(err, next.Release())
	}

	sunFound := false
	var points []lighting.Light
	for _, l := range res.Lights {
		switch {
		case l.Kind == lighting.Directional && !sunFound:
			if l.BoostAmbient() {
				logger.Debug("boosted black sun ambient")
			}
			next.Sun = l
			sunFound = true
		case l.Kind == lighting.Point:
			points = append(points, l)
		}
	}
	points = append(points, r.cfg.PointLights...)

	for _, m := range res.Meshes {
		if err := m.InitGpuResources(r.dev, r.deps.Textures); err != nil {
			return fail(fmt.Errorf("mesh %q: %w", m.Name, err))
		}
		next.Meshes = append(next.Meshes, m)
	}
	for i, l := range points {
		emitter := r.newEmitter(i, l)
		if err := emitter.InitGpuResources(r.dev, r.deps.Textures); err != nil {
			return fail(fmt.Errorf("emitter %d: %w", i, err))
		}
		next.Lights = append(next.Lights, PointLight{Light: l, Emitter: emitter})
	}

	r.scene = next
	logger.Info("scene loaded",
		zap.String("path", path),
		zap.Int("meshes", len(next.Meshes)),
		zap.Int("point_lights", len(next.Lights)),
		zap.Bool("imported_sun", sunFound))
	if len(next.Lights) > lighting.MaxPointLights {
		logger.Warn("too many point lights, extra ones are not shaded",
			zap.Int("count", len(next.Lights)), zap.Int("max", lighting.MaxPointLights))
	}
	return nil
}

// newEmitter builds the unlit cube drawn at a point light, colored with the
// light's diffuse.
func (r *Renderer) newEmitter(i int, l lighting.Light) *mesh.Mesh {
	t := transform.New(l.Position(), math.Vec3{}, math.Vec3{X: EmitterScale, Y: EmitterScale, Z: EmitterScale})
	m := mesh.NewCube(fmt.Sprintf("emitter-%d", i), t, r.cfg.EmitterTexture)
	m.Material.Diffuse = l.Diffuse.XYZ()
	return m
}

// Tick polls input, updates and renders one frame.
func (r *Renderer) Tick() error {
	if r.state != Running {
		return ErrNotRunning
	}
	snap := r.deps.Input.Poll()
	if err := r.handleWindow(snap.Window); err != nil {
		return err
	}
	if r.suspended {
		if snap.Window.Quit {
			r.RequestExit()
			return nil
		}
		r.deps.Sleep(SuspendedWait)
		return nil
	}

	r.frameTime = r.clock.Tick()
	r.update(snap)
	if r.exitRequested {
		return nil
	}
	// The first tick only starts the clock.
	if r.clock.FrameCount() == 0 {
		return nil
	}
	return r.render(snap)
}

func (r *Renderer) handleWindow(ev input.WindowEvents) error {
	if ev.Minimized {
		r.Suspend()
	}
	if ev.Restored {
		r.Resume()
	}
	if ev.Resized {
		return r.Resize(ev.Width, ev.Height)
	}
	return nil
}

func (r *Renderer) update(snap input.Snapshot) {
	if r.ui != nil && r.ui.WantsMouse() {
		snap.Mouse.Buttons = [input.ButtonCount]bool{}
	}
	r.controller.Update(snap, r)
	r.deps.Input.SetRelativeMouse(r.controller.Looking())

	if r.openRequested {
		r.openRequested = false
		r.openModel()
	}
}

func (r *Renderer) openModel() {
	path, ok, err := r.deps.PickModel()
	if err != nil {
		logger.Warn("open model dialog failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if err := r.LoadNewModel(path); err != nil {
		logger.Warn("model load failed", zap.String("path", path), zap.Error(err))
	}
}

func (r *Renderer) clear() {
	dev := r.dev
	dev.ClearRenderTarget(r.backBuffer, r.cfg.ClearColor)
	dev.ClearDepthStencil(r.depthView, 1, 0)
	dev.SetRenderTargets(r.backBuffer, r.depthView)
	dev.SetViewport(gpu.Viewport{
		Width:    float32(r.width),
		Height:   float32(r.height),
		MaxDepth: 1,
	})
}

func (r *Renderer) render(snap input.Snapshot) error {
	if r.ui != nil {
		r.ui.NewFrame(snap)
		debugui.DrawPanel(r.ui, r, r.frameTime)
	}

	r.clear()
	dev := r.dev
	if r.wireframe {
		dev.SetRasterizerState(r.wire)
	} else {
		dev.SetRasterizerState(r.solid)
	}
	dev.SetDepthStencilState(r.depthState, 0)
	dev.SetBlendState(r.opaque)
	dev.SetInputLayout(r.layout)
	dev.SetPrimitiveTopology(gpu.TriangleList)

	frame := frameBlock(r.scene.Sun, r.scene.pointLights(), r.camera.Position())
	if err := dev.UpdateBuffer(r.perFramePS, pack(&frame)); err != nil {
		return fmt.Errorf("upload %s: %w", shader.BlockPerFramePS, err)
	}
	dev.BindConstantBuffer(gpu.StageVertex, shader.SlotPerObjectVS, r.perObjectVS)
	dev.BindConstantBuffer(gpu.StagePixel, shader.SlotPerFramePS, r.perFramePS)
	dev.BindConstantBuffer(gpu.StagePixel, shader.SlotPerObjectPS, r.perObjectPS)

	viewProj := r.camera.View().Mul(r.camera.Projection())

	dev.UseProgram(r.programs.Program(r.mode))
	for _, m := range r.scene.Meshes {
		if err := r.drawMesh(m, viewProj); err != nil {
			return err
		}
	}

	if r.showEmitters && len(r.scene.Lights) > 0 {
		dev.UseProgram(r.programs.Program(shader.Unlit))
		for _, pl := range r.scene.Lights {
			if pl.Emitter == nil {
				continue
			}
			if err := r.drawMesh(pl.Emitter, viewProj); err != nil {
				return err
			}
		}
	}

	if r.ui != nil {
		if err := r.ui.Render(); err != nil {
			return fmt.Errorf("render debug ui: %w", err)
		}
	}
	if r.screenshotRequested {
		r.screenshotRequested = false
		r.captureScreenshot()
	}
	return r.present()
}

func (r *Renderer) drawMesh(m *mesh.Mesh, viewProj math.Mat4) error {
	vs := objectVS(m.Transform.World(), viewProj)
	if err := r.dev.UpdateBuffer(r.perObjectVS, pack(&vs)); err != nil {
		return fmt.Errorf("upload %s: %w", shader.BlockPerObjectVS, err)
	}
	ps := objectPS(m)
	if err := r.dev.UpdateBuffer(r.perObjectPS, pack(&ps)); err != nil {
		return fmt.Errorf("upload %s: %w", shader.BlockPerObjectPS, err)
	}
	if err := m.Draw(r.dev); err != nil {
		return fmt.Errorf("draw %q: %w", m.Name, err)
	}
	return nil
}

func (r *Renderer) captureScreenshot() {
	img, err := r.dev.ReadBackBuffer()
	if err != nil {
		logger.Warn("screenshot read back failed", zap.Error(err))
		return
	}
	path, err := r.deps.Screenshots.Save(img)
	if err != nil {
		logger.Warn("screenshot save failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (r *Renderer) present() error {
	err := r.dev.Present(r.cfg.VSync)
	if err == nil {
		return nil
	}
	if gpu.IsDeviceLost(err) {
		return r.onDeviceLost(err)
	}
	return fmt.Errorf("present: %w", err)
}

// Close releases everything. The renderer cannot be used afterwards.
func (r *Renderer) Close() error {
	if r.state == Closed {
		return nil
	}
	logger.Info("closing renderer")
	err := r.releaseAll()
	r.state = Closed
	return err
}

// State returns the lifecycle stage.
func (r *Renderer) State() State { return r.state }

// ExitRequested reports whether input asked to quit.
func (r *Renderer) ExitRequested() bool { return r.exitRequested }

// Scene returns the current scene.
func (r *Renderer) Scene() *Scene { return &r.scene }

// Clock returns the frame clock.
func (r *Renderer) Clock() *Clock { return r.clock }

// FrameTime returns the last measured frame step.
func (r *Renderer) FrameTime() time.Duration { return r.frameTime }

// EmittersVisible reports whether light emitter cubes are drawn.
func (r *Renderer) EmittersVisible() bool { return r.showEmitters }

// Camera implements input.Target and debugui.PanelTarget.
func (r *Renderer) Camera() *camera.Camera { return r.camera }

// NudgeSun tilts the sun direction by d.
func (r *Renderer) NudgeSun(d math.Vec3) { r.scene.Sun.NudgeDirection(d) }

// Sun returns the directional light for editing.
func (r *Renderer) Sun() *lighting.Light { return &r.scene.Sun }

// FirstMesh returns the first scene mesh, or nil for an empty scene.
func (r *Renderer) FirstMesh() *mesh.Mesh {
	if len(r.scene.Meshes) == 0 {
		return nil
	}
	return r.scene.Meshes[0]
}

// ShadingMode returns the program used for scene meshes.
func (r *Renderer) ShadingMode() shader.Mode { return r.mode }

// SetShadingMode selects the program used for scene meshes.
func (r *Renderer) SetShadingMode(m shader.Mode) { r.mode = m }

// ToggleEmitters shows or hides the point light cubes.
func (r *Renderer) ToggleEmitters() { r.showEmitters = !r.showEmitters }

// Wireframe reports whether meshes are drawn as lines.
func (r *Renderer) Wireframe() bool { return r.wireframe }

// SetWireframe switches between the solid and wireframe rasterizer.
func (r *Renderer) SetWireframe(on bool) { r.wireframe = on }

// RequestScreenshot saves the next rendered frame.
func (r *Renderer) RequestScreenshot() { r.screenshotRequested = true }

// RequestOpenModel shows the model picker on the next update.
func (r *Renderer) RequestOpenModel() { r.openRequested = true }

// RequestExit ends the main loop after the current tick.
func (r *Renderer) RequestExit() { r.exitRequested = true }

var (
	_ input.Target        = (*Renderer)(nil)
	_ debugui.PanelTarget = (*Renderer)(nil)
)
