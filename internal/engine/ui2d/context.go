package ui2d

import (
	"fmt"

	"github.com/Faultbox/forwardlit/internal/engine/gpu"
)

const (
	titleBarH  = float32(20)
	padding    = float32(8)
	defaultRow = float32(20)
	textScale  = float32(1)
)

// Context is the main UI context that manages rendering and input.
type Context struct {
	renderer *Renderer
	input    *InputState

	// Active/hot widget tracking for interaction
	hotWidget    string
	activeWidget string

	windows map[string]*WindowState

	currentWindow *WindowState

	// Layout state
	cursorX float32
	cursorY float32
	rowH    float32

	// Collapsing header open state by full ID
	headers map[string]bool
}

// WindowState holds state for a UI window.
type WindowState struct {
	ID     string
	X, Y   float32
	W, H   float32
	Open   bool
	Moving bool

	// autoHeight is measured at EndWindow and used on the next frame when
	// the window was opened without an explicit height.
	autoHeight bool
}

// NewContext creates a UI context drawing through dev.
func NewContext(dev gpu.Device, width, height int) (*Context, error) {
	r, err := New(dev, width, height)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	return &Context{
		renderer: r,
		input:    &InputState{},
		windows:  make(map[string]*WindowState),
		headers:  make(map[string]bool),
	}, nil
}

// Close releases resources.
func (c *Context) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// Renderer returns the underlying renderer.
func (c *Context) Renderer() *Renderer {
	return c.renderer
}

// Resize updates the screen size.
func (c *Context) Resize(width, height int) {
	c.renderer.Resize(width, height)
}

// Input returns the input state for modification.
func (c *Context) Input() *InputState {
	return c.input
}

// Begin starts a new UI frame.
func (c *Context) Begin() {
	c.input.Update()
	c.renderer.Begin()
	c.hotWidget = ""
}

// End finishes the UI frame and draws it.
func (c *Context) End() error {
	err := c.renderer.End()
	c.input.EndFrame()
	return err
}

// WantsMouse reports whether the mouse is over a window or a widget is
// being dragged, so scene controls can ignore it.
func (c *Context) WantsMouse() bool {
	if c.activeWidget != "" {
		return true
	}
	for _, ws := range c.windows {
		if ws.Open && c.input.IsMouseInRect(ws.X, ws.Y, ws.W, ws.H) {
			return true
		}
	}
	return false
}

// BeginWindow starts a new window. A zero height sizes the window to the
// content drawn on the previous frame.
// Returns false if the window is closed.
func (c *Context) BeginWindow(id string, x, y, w, h float32, title string) bool {
	ws, ok := c.windows[id]
	if !ok {
		ws = &WindowState{ID: id, X: x, Y: y, W: w, H: h, Open: true, autoHeight: h == 0}
		if ws.autoHeight {
			ws.H = titleBarH + padding
		}
		c.windows[id] = ws
	}

	if !ws.Open {
		return false
	}

	c.currentWindow = ws

	titleBarRect := Rect{ws.X, ws.Y, ws.W, titleBarH}
	if c.input.MouseLeftPressed && titleBarRect.Contains(c.input.MouseX, c.input.MouseY) {
		ws.Moving = true
		c.activeWidget = id + "_titlebar"
	}

	if ws.Moving && c.input.MouseLeftDown {
		ws.X += c.input.MouseDeltaX
		ws.Y += c.input.MouseDeltaY
	}

	if c.input.MouseLeftReleased {
		ws.Moving = false
		if c.activeWidget == id+"_titlebar" {
			c.activeWidget = ""
		}
	}

	c.renderer.DrawPanel(ws.X, ws.Y, ws.W, ws.H, ColorPanelBg, ColorPanelBorder)
	c.renderer.DrawRect(ws.X+1, ws.Y+1, ws.W-2, titleBarH-1, ColorButtonNormal)

	_, textH := c.renderer.MeasureText(title, textScale)
	c.renderer.DrawText(ws.X+padding, ws.Y+(titleBarH-textH)/2, title, textScale, ColorText)

	c.cursorX = ws.X + padding
	c.cursorY = ws.Y + titleBarH + padding
	c.rowH = 0

	return true
}

// EndWindow ends the current window.
func (c *Context) EndWindow() {
	if ws := c.currentWindow; ws != nil && ws.autoHeight {
		ws.H = c.cursorY + c.rowH + padding - ws.Y
	}
	c.currentWindow = nil
}

// Row starts a new row with the given height.
func (c *Context) Row(height float32) {
	if c.currentWindow == nil {
		return
	}
	c.cursorX = c.currentWindow.X + padding
	c.cursorY += c.rowH + 4
	c.rowH = height
}

func (c *Context) rowHeight() float32 {
	if c.rowH == 0 {
		c.rowH = defaultRow
	}
	return c.rowH
}

func (c *Context) contentWidth() float32 {
	return c.currentWindow.W - 2*padding
}

// ContentWidth returns the usable width of the current window, or zero
// outside a window.
func (c *Context) ContentWidth() float32 {
	if c.currentWindow == nil {
		return 0
	}
	return c.contentWidth()
}

// Button draws a button and returns true if clicked.
func (c *Context) Button(id string, width float32, label string) bool {
	if c.currentWindow == nil {
		return false
	}

	x := c.cursorX
	y := c.cursorY
	h := c.rowHeight()
	if width == 0 {
		width = c.contentWidth()
	}

	fullID := c.currentWindow.ID + "_" + id
	rect := Rect{x, y, width, h}

	// Click on press for better responsiveness
	hovered := rect.Contains(c.input.MouseX, c.input.MouseY)
	clicked := false

	if hovered {
		c.hotWidget = fullID
		if c.input.MouseLeftPressed {
			c.activeWidget = fullID
			clicked = true
		}
	}

	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		c.activeWidget = ""
	}

	color := ColorButtonNormal
	if c.activeWidget == fullID {
		color = ColorButtonActive
	} else if hovered {
		color = ColorButtonHover
	}

	c.renderer.DrawRect(x, y, width, h, color)
	c.renderer.DrawRectOutline(x, y, width, h, 1, ColorPanelBorder)

	textW, textH := c.renderer.MeasureText(label, textScale)
	c.renderer.DrawText(x+(width-textW)/2, y+(h-textH)/2, label, textScale, ColorText)

	c.cursorX += width + 4

	return clicked
}

// Label draws a text label.
func (c *Context) Label(text string) {
	c.LabelColored(text, ColorText)
}

// LabelColored draws a text label with a specific color.
func (c *Context) LabelColored(text string, color Color) {
	if c.currentWindow == nil {
		return
	}

	w, h := c.renderer.MeasureText(text, textScale)
	c.renderer.DrawText(c.cursorX, c.cursorY, text, textScale, color)
	c.rowH = max(c.rowH, h)
	c.cursorX += w + 4
}

// Separator draws a horizontal separator line.
func (c *Context) Separator() {
	if c.currentWindow == nil {
		return
	}
	c.cursorY += c.rowH + 4
	c.rowH = 0
	x := c.currentWindow.X + padding
	c.renderer.DrawRect(x, c.cursorY, c.contentWidth(), 1, ColorPanelBorder)
	c.cursorY += 4
	c.cursorX = x
}

// Checkbox draws a checkbox and returns the new state.
func (c *Context) Checkbox(id string, label string, checked bool) bool {
	if c.currentWindow == nil {
		return checked
	}

	x := c.cursorX
	y := c.cursorY
	boxSize := float32(14)

	fullID := c.currentWindow.ID + "_" + id
	rect := Rect{x, y, boxSize, boxSize}

	hovered := rect.Contains(c.input.MouseX, c.input.MouseY)

	if hovered && c.input.MouseLeftPressed {
		c.activeWidget = fullID
	}

	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		if hovered {
			checked = !checked
		}
		c.activeWidget = ""
	}

	bgColor := ColorInputBg
	if hovered {
		bgColor = ColorButtonHover
	}
	c.renderer.DrawRect(x, y, boxSize, boxSize, bgColor)
	c.renderer.DrawRectOutline(x, y, boxSize, boxSize, 1, ColorPanelBorder)

	if checked {
		inner := float32(3)
		c.renderer.DrawRect(x+inner, y+inner, boxSize-inner*2, boxSize-inner*2, ColorHighlight)
	}

	labelW, textH := c.renderer.MeasureText(label, textScale)
	c.renderer.DrawText(x+boxSize+6, y+(boxSize-textH)/2, label, textScale, ColorText)

	c.rowH = max(c.rowH, boxSize)
	c.cursorX += boxSize + 6 + labelW + 8

	return checked
}

// SliderFloat draws a horizontal slider. Dragging anywhere on the track sets
// the value proportionally. Returns the new value and whether it changed.
func (c *Context) SliderFloat(id string, width float32, label string, value, lo, hi float32) (float32, bool) {
	if c.currentWindow == nil || hi <= lo {
		return value, false
	}

	x := c.cursorX
	y := c.cursorY
	h := c.rowHeight()
	if width == 0 {
		width = c.contentWidth()
	}

	fullID := c.currentWindow.ID + "_" + id
	rect := Rect{x, y, width, h}
	hovered := rect.Contains(c.input.MouseX, c.input.MouseY)

	if hovered && c.input.MouseLeftPressed {
		c.activeWidget = fullID
	}

	changed := false
	if c.activeWidget == fullID {
		if c.input.MouseLeftDown {
			t := (c.input.MouseX - x) / width
			t = min(max(t, 0), 1)
			if nv := lo + t*(hi-lo); nv != value {
				value = nv
				changed = true
			}
		}
		if c.input.MouseLeftReleased {
			c.activeWidget = ""
		}
	}

	bg := ColorInputBg
	if hovered || c.activeWidget == fullID {
		bg = ColorButtonHover
	}
	c.renderer.DrawRect(x, y, width, h, bg)
	t := min(max((value-lo)/(hi-lo), 0), 1)
	c.renderer.DrawRect(x+1, y+1, (width-2)*t, h-2, ColorSliderFill)
	c.renderer.DrawRectOutline(x, y, width, h, 1, ColorInputBorder)

	text := fmt.Sprintf("%s %.3f", label, value)
	textW, textH := c.renderer.MeasureText(text, textScale)
	c.renderer.DrawText(x+(width-textW)/2, y+(h-textH)/2, text, textScale, ColorText)

	c.cursorX += width + 4
	return value, changed
}

// ColorEdit draws a swatch followed by one slider per RGBA channel.
// Returns the new color and whether any channel changed.
func (c *Context) ColorEdit(id string, label string, color Color) (Color, bool) {
	if c.currentWindow == nil {
		return color, false
	}

	c.Label(label)
	swatch := c.rowHeight()
	c.renderer.DrawRect(c.cursorX, c.cursorY, swatch*2, swatch, color.Opaque())
	c.renderer.DrawRectOutline(c.cursorX, c.cursorY, swatch*2, swatch, 1, ColorPanelBorder)

	names := [4]string{"R", "G", "B", "A"}
	changed := false
	width := (c.contentWidth() - 12) / 4
	c.Row(defaultRow)
	for i := range color {
		var ok bool
		color[i], ok = c.SliderFloat(fmt.Sprintf("%s_%d", id, i), width, names[i], color[i], 0, 1)
		changed = changed || ok
	}
	return color, changed
}

// CollapsingHeader draws a clickable section header and returns whether the
// section is expanded. Sections start expanded.
func (c *Context) CollapsingHeader(id string, label string) bool {
	if c.currentWindow == nil {
		return false
	}
	fullID := c.currentWindow.ID + "_" + id
	open, seen := c.headers[fullID]
	if !seen {
		open = true
	}

	marker := "- "
	if !open {
		marker = "+ "
	}
	if c.Button(id, 0, marker+label) {
		open = !open
	}
	c.headers[fullID] = open
	return open
}

// GetScreenSize returns the current screen dimensions.
func (c *Context) GetScreenSize() (float32, float32) {
	w, h := c.renderer.GetScreenSize()
	return float32(w), float32(h)
}

// Rect is a simple rectangle struct.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
