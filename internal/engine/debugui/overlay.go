package debugui

import (
	"fmt"

	"github.com/Faultbox/forwardlit/internal/engine/gpu"
	"github.com/Faultbox/forwardlit/internal/engine/input"
	"github.com/Faultbox/forwardlit/internal/engine/ui2d"
)

const (
	windowX     = 10
	windowY     = 10
	windowWidth = 340
)

// Overlay implements UI on the ui2d immediate-mode context.
type Overlay struct {
	ctx *ui2d.Context

	lastWheel int32
	primed    bool
	sameLine  bool
}

var _ UI = (*Overlay)(nil)

// NewOverlay creates the overlay and its GPU resources.
func NewOverlay(dev gpu.Device, width, height int) (*Overlay, error) {
	ctx, err := ui2d.NewContext(dev, width, height)
	if err != nil {
		return nil, err
	}
	return &Overlay{ctx: ctx}, nil
}

// OverlayFactory adapts NewOverlay to Factory.
func OverlayFactory(dev gpu.Device, width, height int) (UI, error) {
	return NewOverlay(dev, width, height)
}

// NewFrame copies pointer state into the UI input and begins a frame.
func (o *Overlay) NewFrame(in input.Snapshot) {
	if !o.primed {
		o.lastWheel = in.Mouse.Wheel
		o.primed = true
	}
	st := o.ctx.Input()
	st.MouseX = float32(in.Mouse.X)
	st.MouseY = float32(in.Mouse.Y)
	st.MouseLeftDown = in.Mouse.Buttons[input.ButtonLeft]
	st.ScrollY = float32(in.Mouse.Wheel - o.lastWheel)
	o.lastWheel = in.Mouse.Wheel

	o.ctx.Begin()
}

// Render flushes the frame's quads.
func (o *Overlay) Render() error {
	return o.ctx.End()
}

// Begin opens a window sized to its content.
func (o *Overlay) Begin(title string) bool {
	o.sameLine = true
	return o.ctx.BeginWindow(title, windowX, windowY, windowWidth, 0, title)
}

// End closes the window.
func (o *Overlay) End() {
	o.ctx.EndWindow()
}

// SameLine keeps the next widget on the current row.
func (o *Overlay) SameLine() {
	o.sameLine = true
}

func (o *Overlay) row() {
	if o.sameLine {
		o.sameLine = false
		return
	}
	o.ctx.Row(0)
}

func (o *Overlay) Text(format string, args ...any) {
	o.row()
	o.ctx.Label(fmt.Sprintf(format, args...))
}

func (o *Overlay) Button(label string) bool {
	o.row()
	w, _ := o.ctx.Renderer().MeasureText(label, 1)
	return o.ctx.Button(label, w+16, label)
}

func (o *Overlay) Checkbox(label string, v *bool) bool {
	o.row()
	nv := o.ctx.Checkbox(label, label, *v)
	changed := nv != *v
	*v = nv
	return changed
}

func (o *Overlay) SliderFloat(label string, v *float32, lo, hi float32) bool {
	o.row()
	nv, changed := o.ctx.SliderFloat(label, 0, label, *v, lo, hi)
	*v = nv
	return changed
}

// SliderFloat3 draws a caption row and then one slider per component.
func (o *Overlay) SliderFloat3(label string, v *[3]float32, lo, hi float32) bool {
	o.row()
	o.ctx.Label(label)
	o.ctx.Row(0)

	names := [3]string{"X", "Y", "Z"}
	width := (o.ctx.ContentWidth() - 8) / 3
	changed := false
	for i := range v {
		nv, ok := o.ctx.SliderFloat(fmt.Sprintf("%s_%d", label, i), width, names[i], v[i], lo, hi)
		v[i] = nv
		changed = changed || ok
	}
	return changed
}

func (o *Overlay) ColorEdit(label string, c *[4]float32) bool {
	o.row()
	nc, changed := o.ctx.ColorEdit(label, label, ui2d.Color(*c))
	*c = [4]float32(nc)
	return changed
}

func (o *Overlay) CollapsingHeader(label string) bool {
	o.row()
	return o.ctx.CollapsingHeader(label, label)
}

func (o *Overlay) WantsMouse() bool {
	return o.ctx.WantsMouse()
}

func (o *Overlay) Resize(width, height int) {
	o.ctx.Resize(width, height)
}

// Close releases the overlay's GPU resources.
func (o *Overlay) Close() error {
	return o.ctx.Close()
}
