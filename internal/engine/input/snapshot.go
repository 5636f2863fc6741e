// Package input turns polled keyboard, mouse and gamepad state into camera
// and renderer actions.
package input

// Key is a physical key the controller understands.
type Key uint8

// Keys in the control map.
const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeySpace
	KeyHome
	KeyEscape
	KeyF12
	KeyA
	KeyC
	KeyD
	KeyE
	KeyL
	KeyN
	KeyO
	KeyQ
	KeyS
	KeyT
	KeyU
	KeyW
	KeyX
	KeyZ
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP6
	KeyKP8
	KeyCount
)

// Button is a mouse button.
type Button uint8

// Mouse buttons.
const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	ButtonCount
)

// Mouse is the pointer state. X and Y are the cursor in window pixels.
// MotionX and MotionY accumulate relative motion since startup, so they keep
// moving while the cursor is captured.
type Mouse struct {
	X, Y             int32
	MotionX, MotionY int32
	Buttons          [ButtonCount]bool
	// Wheel is a running total of vertical wheel notches.
	Wheel int32
}

// Gamepad holds the first connected controller. Axes are normalized to
// [-1, 1] with Y pointing down.
type Gamepad struct {
	Connected      bool
	LeftX, LeftY   float32
	RightX, RightY float32
	LeftShoulder   bool
	RightShoulder  bool
}

// WindowEvents are the window changes seen during one poll.
type WindowEvents struct {
	Quit      bool
	Resized   bool
	Width     int
	Height    int
	Minimized bool
	Restored  bool
}

// Snapshot is the full input state for one tick.
type Snapshot struct {
	Keys    [KeyCount]bool
	Mouse   Mouse
	Gamepad Gamepad
	Window  WindowEvents
}

// Down reports whether k is held.
func (s *Snapshot) Down(k Key) bool {
	return k < KeyCount && s.Keys[k]
}

// Press sets k as held. Intended for tests and synthetic input.
func (s *Snapshot) Press(keys ...Key) {
	for _, k := range keys {
		s.Keys[k] = true
	}
}

// Release clears k.
func (s *Snapshot) Release(keys ...Key) {
	for _, k := range keys {
		s.Keys[k] = false
	}
}

// Source produces snapshots.
type Source interface {
	Poll() Snapshot
	SetRelativeMouse(on bool)
}
