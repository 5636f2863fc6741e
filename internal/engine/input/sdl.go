package input

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/forwardlit/internal/logger"
)

var scancodes = [KeyCount]sdl.Scancode{
	KeyUp:       sdl.SCANCODE_UP,
	KeyDown:     sdl.SCANCODE_DOWN,
	KeyLeft:     sdl.SCANCODE_LEFT,
	KeyRight:    sdl.SCANCODE_RIGHT,
	KeyPageUp:   sdl.SCANCODE_PAGEUP,
	KeyPageDown: sdl.SCANCODE_PAGEDOWN,
	KeySpace:    sdl.SCANCODE_SPACE,
	KeyHome:     sdl.SCANCODE_HOME,
	KeyEscape:   sdl.SCANCODE_ESCAPE,
	KeyF12:      sdl.SCANCODE_F12,
	KeyA:        sdl.SCANCODE_A,
	KeyC:        sdl.SCANCODE_C,
	KeyD:        sdl.SCANCODE_D,
	KeyE:        sdl.SCANCODE_E,
	KeyL:        sdl.SCANCODE_L,
	KeyN:        sdl.SCANCODE_N,
	KeyO:        sdl.SCANCODE_O,
	KeyQ:        sdl.SCANCODE_Q,
	KeyS:        sdl.SCANCODE_S,
	KeyT:        sdl.SCANCODE_T,
	KeyU:        sdl.SCANCODE_U,
	KeyW:        sdl.SCANCODE_W,
	KeyX:        sdl.SCANCODE_X,
	KeyZ:        sdl.SCANCODE_Z,
	KeyKP1:      sdl.SCANCODE_KP_1,
	KeyKP2:      sdl.SCANCODE_KP_2,
	KeyKP3:      sdl.SCANCODE_KP_3,
	KeyKP4:      sdl.SCANCODE_KP_4,
	KeyKP6:      sdl.SCANCODE_KP_6,
	KeyKP8:      sdl.SCANCODE_KP_8,
}

// SDLSource pumps SDL events into snapshots. It must be polled from the
// thread that created the window.
type SDLSource struct {
	snap     Snapshot
	pad      *sdl.GameController
	relative bool
	drawable drawableLookup
}

// drawableLookup returns the pixel size of a window's GL drawable.
type drawableLookup func(windowID uint32) (w, h int32, ok bool)

func glDrawableSize(windowID uint32) (int32, int32, bool) {
	win, err := sdl.GetWindowFromID(windowID)
	if err != nil {
		return 0, 0, false
	}
	w, h := win.GLGetDrawableSize()
	return w, h, w > 0 && h > 0
}

// resizedTo returns the new back buffer size for a size change. Events carry
// window points, which are not pixels on high-DPI displays.
func resizedTo(e *sdl.WindowEvent, drawable drawableLookup) (int, int) {
	if drawable != nil {
		if w, h, ok := drawable(e.WindowID); ok {
			return int(w), int(h)
		}
	}
	return int(e.Data1), int(e.Data2)
}

// NewSDLSource opens the first attached game controller, if any.
func NewSDLSource() *SDLSource {
	s := &SDLSource{drawable: glDrawableSize}
	for i := 0; i < sdl.NumJoysticks(); i++ {
		if s.openPad(i) {
			break
		}
	}
	return s
}

func (s *SDLSource) openPad(index int) bool {
	if s.pad != nil || !sdl.IsGameController(index) {
		return false
	}
	s.pad = sdl.GameControllerOpen(index)
	if s.pad == nil {
		return false
	}
	logger.Log.Info("gamepad connected", zap.String("name", s.pad.Name()))
	return true
}

func (s *SDLSource) closePad() {
	if s.pad == nil {
		return
	}
	logger.Log.Info("gamepad disconnected")
	s.pad.Close()
	s.pad = nil
}

// Close releases the game controller.
func (s *SDLSource) Close() {
	s.closePad()
}

// SetRelativeMouse captures the pointer for mouse look.
func (s *SDLSource) SetRelativeMouse(on bool) {
	if on == s.relative {
		return
	}
	sdl.SetRelativeMouseMode(on)
	s.relative = on
}

// Poll drains the SDL event queue and returns the resulting state.
func (s *SDLSource) Poll() Snapshot {
	s.snap.Window = WindowEvents{}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.snap.Window.Quit = true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				s.snap.Window.Resized = true
				s.snap.Window.Width, s.snap.Window.Height = resizedTo(e, s.drawable)
			case sdl.WINDOWEVENT_MINIMIZED:
				s.snap.Window.Minimized = true
			case sdl.WINDOWEVENT_RESTORED:
				s.snap.Window.Restored = true
			}

		case *sdl.MouseMotionEvent:
			s.snap.Mouse.X = e.X
			s.snap.Mouse.Y = e.Y
			s.snap.Mouse.MotionX += e.XRel
			s.snap.Mouse.MotionY += e.YRel

		case *sdl.MouseButtonEvent:
			pressed := e.State == sdl.PRESSED
			switch e.Button {
			case sdl.BUTTON_LEFT:
				s.snap.Mouse.Buttons[ButtonLeft] = pressed
			case sdl.BUTTON_RIGHT:
				s.snap.Mouse.Buttons[ButtonRight] = pressed
			case sdl.BUTTON_MIDDLE:
				s.snap.Mouse.Buttons[ButtonMiddle] = pressed
			}

		case *sdl.MouseWheelEvent:
			s.snap.Mouse.Wheel += e.Y

		case *sdl.ControllerDeviceEvent:
			switch e.Type {
			case sdl.CONTROLLERDEVICEADDED:
				s.openPad(int(e.Which))
			case sdl.CONTROLLERDEVICEREMOVED:
				if s.pad != nil && !s.pad.Attached() {
					s.closePad()
				}
			}
		}
	}

	state := sdl.GetKeyboardState()
	for k, sc := range scancodes {
		s.snap.Keys[k] = int(sc) < len(state) && state[sc] != 0
	}

	s.snap.Gamepad = Gamepad{}
	if s.pad != nil {
		s.snap.Gamepad = Gamepad{
			Connected:     true,
			LeftX:         axis(s.pad.Axis(sdl.CONTROLLER_AXIS_LEFTX)),
			LeftY:         axis(s.pad.Axis(sdl.CONTROLLER_AXIS_LEFTY)),
			RightX:        axis(s.pad.Axis(sdl.CONTROLLER_AXIS_RIGHTX)),
			RightY:        axis(s.pad.Axis(sdl.CONTROLLER_AXIS_RIGHTY)),
			LeftShoulder:  s.pad.Button(sdl.CONTROLLER_BUTTON_LEFTSHOULDER) != 0,
			RightShoulder: s.pad.Button(sdl.CONTROLLER_BUTTON_RIGHTSHOULDER) != 0,
		}
	}
	return s.snap
}

func axis(v int16) float32 {
	return max(float32(v)/32767, -1)
}
