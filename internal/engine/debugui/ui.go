// Package debugui is the settings overlay drawn on top of the scene.
//
// UI is the immediate-mode surface the renderer draws through. Widgets take
// pointers and report whether the user changed the value this frame.
package debugui

import (
	"github.com/Faultbox/forwardlit/internal/engine/gpu"
	"github.com/Faultbox/forwardlit/internal/engine/input"
)

// UI is an immediate-mode debug interface.
type UI interface {
	// NewFrame feeds this tick's input and starts collecting widgets.
	NewFrame(in input.Snapshot)
	// Render draws everything collected since NewFrame.
	Render() error

	Begin(title string) bool
	End()
	SameLine()

	Text(format string, args ...any)
	Button(label string) bool
	Checkbox(label string, v *bool) bool
	SliderFloat(label string, v *float32, lo, hi float32) bool
	SliderFloat3(label string, v *[3]float32, lo, hi float32) bool
	ColorEdit(label string, c *[4]float32) bool
	CollapsingHeader(label string) bool

	// WantsMouse reports whether the pointer is over the overlay.
	WantsMouse() bool
	Resize(width, height int)
	Close() error
}

// Factory creates a UI on a device. The renderer calls it again after the
// device is recreated.
type Factory func(dev gpu.Device, width, height int) (UI, error)
