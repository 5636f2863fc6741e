package input

import (
	"github.com/Faultbox/forwardlit/internal/engine/camera"
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// Target receives the actions the controller derives from input.
type Target interface {
	Camera() *camera.Camera
	NudgeSun(d math.Vec3)
	SetShadingMode(m shader.Mode)
	ToggleEmitters()
	RequestScreenshot()
	RequestOpenModel()
	RequestExit()
}

// Settings tune the controller.
type Settings struct {
	MinSpeed         float32
	MaxSpeed         float32
	SpeedDecrement   float32
	SpeedIncrement   float32
	RotateStep       float32
	MouseSensitivity float32
	SunStep          float32
	GamepadDeadzone  float32
	ResetPosition    math.Vec3
	ResetSpeed       float32
}

// DefaultSettings returns the stock control tuning.
func DefaultSettings() Settings {
	return Settings{
		MinSpeed:         0.1,
		MaxSpeed:         50,
		SpeedDecrement:   0.05,
		SpeedIncrement:   0.1,
		RotateStep:       0.025,
		MouseSensitivity: 0.0025,
		SunStep:          0.01,
		GamepadDeadzone:  0.2,
		ResetPosition:    math.Vec3{Z: -7},
		ResetSpeed:       1,
	}
}

var shadingKeys = [...]struct {
	key  Key
	mode shader.Mode
}{
	{KeyN, shader.Normal},
	{KeyU, shader.Unlit},
	{KeyL, shader.Lit},
}

// Controller polls once per tick and applies the key map. It keeps only
// what it needs to diff against: the previous snapshot and the wheel total.
type Controller struct {
	settings Settings

	prev      Snapshot
	primed    bool
	lastWheel int32
	looking   bool
}

// NewController creates a controller.
func NewController(s Settings) *Controller {
	return &Controller{settings: s}
}

// Settings returns the active tuning.
func (c *Controller) Settings() Settings { return c.settings }

// Looking reports whether mouse look is active. The caller should switch
// the source to relative mouse mode while it is.
func (c *Controller) Looking() bool { return c.looking }

func (c *Controller) pressed(s *Snapshot, k Key) bool {
	return s.Down(k) && !c.prev.Down(k)
}

// Update applies one snapshot to t.
func (c *Controller) Update(s Snapshot, t Target) {
	if !c.primed {
		c.prev = s
		c.lastWheel = s.Mouse.Wheel
		c.primed = true
	}
	cam := t.Camera()
	cfg := c.settings

	if s.Down(KeyEscape) || s.Window.Quit {
		t.RequestExit()
	}
	if s.Down(KeyHome) {
		cam.Reset(cfg.ResetPosition, cfg.ResetSpeed)
	}

	if s.Down(KeyUp) || s.Down(KeyZ) {
		cam.Zoom(1)
	}
	if s.Down(KeyDown) || s.Down(KeyS) {
		cam.Zoom(-1)
	}
	if s.Down(KeyA) {
		cam.RotateYaw(-cfg.RotateStep)
	}
	if s.Down(KeyE) {
		cam.RotateYaw(cfg.RotateStep)
	}
	if s.Down(KeyW) {
		cam.RotatePitch(-cfg.RotateStep)
	}
	if s.Down(KeyC) {
		cam.RotatePitch(cfg.RotateStep)
	}
	if s.Down(KeyLeft) || s.Down(KeyQ) {
		cam.MoveRight(-1)
	}
	if s.Down(KeyRight) || s.Down(KeyD) {
		cam.MoveRight(1)
	}
	if s.Down(KeyPageUp) || s.Down(KeySpace) {
		cam.MoveUp(1)
	}
	if s.Down(KeyPageDown) || s.Down(KeyX) {
		cam.MoveUp(-1)
	}

	if d := s.Mouse.Wheel - c.lastWheel; d != 0 {
		cam.Zoom(float32(d))
		c.lastWheel = s.Mouse.Wheel
	}

	if s.Down(KeyKP1) {
		cam.SetSpeed(math.Clamp(cam.Speed()-cfg.SpeedDecrement, cfg.MinSpeed, cfg.MaxSpeed))
	}
	if s.Down(KeyKP3) {
		cam.SetSpeed(math.Clamp(cam.Speed()+cfg.SpeedIncrement, cfg.MinSpeed, cfg.MaxSpeed))
	}

	for _, sk := range shadingKeys {
		if s.Down(sk.key) {
			t.SetShadingMode(sk.mode)
		}
	}

	if s.Down(KeyKP8) {
		t.NudgeSun(math.Vec3{Z: cfg.SunStep})
	}
	if s.Down(KeyKP2) {
		t.NudgeSun(math.Vec3{Z: -cfg.SunStep})
	}
	if s.Down(KeyKP4) {
		t.NudgeSun(math.Vec3{Y: cfg.SunStep})
	}
	if s.Down(KeyKP6) {
		t.NudgeSun(math.Vec3{Y: -cfg.SunStep})
	}

	if c.pressed(&s, KeyT) {
		t.ToggleEmitters()
	}
	if c.pressed(&s, KeyF12) {
		t.RequestScreenshot()
	}
	if c.pressed(&s, KeyO) {
		t.RequestOpenModel()
	}

	c.mouseLook(&s, cam)
	c.gamepad(&s.Gamepad, cam)

	c.prev = s
}

// mouseLook turns the camera while the right button is held, and only when
// the pointer actually moved since the last poll. Motion from before the
// press is ignored.
func (c *Controller) mouseLook(s *Snapshot, cam *camera.Camera) {
	started := !c.looking
	c.looking = s.Mouse.Buttons[ButtonRight]
	if !c.looking || started {
		return
	}
	dx := s.Mouse.MotionX - c.prev.Mouse.MotionX
	dy := s.Mouse.MotionY - c.prev.Mouse.MotionY
	if dx == 0 && dy == 0 {
		return
	}
	sens := c.settings.MouseSensitivity
	if dx != 0 {
		cam.RotateYaw(float32(dx) * sens)
	}
	if dy != 0 {
		cam.RotatePitch(float32(dy) * sens)
	}
}

func (c *Controller) deadzone(v float32) float32 {
	if v > -c.settings.GamepadDeadzone && v < c.settings.GamepadDeadzone {
		return 0
	}
	return v
}

// gamepad maps the left stick to movement, the right stick to look and the
// shoulders to vertical movement.
func (c *Controller) gamepad(g *Gamepad, cam *camera.Camera) {
	if !g.Connected {
		return
	}
	if v := c.deadzone(g.LeftY); v != 0 {
		cam.Zoom(-v)
	}
	if v := c.deadzone(g.LeftX); v != 0 {
		cam.MoveRight(v)
	}
	if v := c.deadzone(g.RightX); v != 0 {
		cam.RotateYaw(v * c.settings.RotateStep)
	}
	if v := c.deadzone(g.RightY); v != 0 {
		cam.RotatePitch(v * c.settings.RotateStep)
	}
	if g.RightShoulder {
		cam.MoveUp(1)
	}
	if g.LeftShoulder {
		cam.MoveUp(-1)
	}
}
