package ui2d

// InputState holds the current input state for the UI.
type InputState struct {
	MouseX      float32
	MouseY      float32
	MouseDeltaX float32
	MouseDeltaY float32

	MouseLeftDown     bool
	MouseLeftPressed  bool
	MouseLeftReleased bool

	ScrollY float32

	prevMouseLeft bool
	prevMouseX    float32
	prevMouseY    float32
}

// Update prepares input state for a new frame.
// Call this at the start of each frame after updating raw input values.
func (i *InputState) Update() {
	i.MouseDeltaX = i.MouseX - i.prevMouseX
	i.MouseDeltaY = i.MouseY - i.prevMouseY

	i.MouseLeftPressed = i.MouseLeftDown && !i.prevMouseLeft
	i.MouseLeftReleased = !i.MouseLeftDown && i.prevMouseLeft

	i.prevMouseLeft = i.MouseLeftDown
	i.prevMouseX = i.MouseX
	i.prevMouseY = i.MouseY
}

// EndFrame clears per-frame input state.
func (i *InputState) EndFrame() {
	i.ScrollY = 0
}

// IsMouseInRect checks if the mouse is within a rectangle.
func (i *InputState) IsMouseInRect(x, y, w, h float32) bool {
	return i.MouseX >= x && i.MouseX < x+w &&
		i.MouseY >= y && i.MouseY < y+h
}
