package ui2d

// Color is straight-alpha RGBA in [0, 1]. It has the same layout as the
// [4]float32 colors the debug panel edits.
type Color [4]float32

// Panel palette.
var (
	ColorPanelBg      = Color{0.08, 0.08, 0.12, 0.95}
	ColorPanelBorder  = Color{0.3, 0.3, 0.4, 1}
	ColorButtonNormal = Color{0.15, 0.15, 0.2, 1}
	ColorButtonHover  = Color{0.25, 0.25, 0.35, 1}
	ColorButtonActive = Color{0.1, 0.3, 0.5, 1}
	ColorInputBg      = Color{0.05, 0.05, 0.08, 1}
	ColorSliderFill   = Color{0.15, 0.4, 0.6, 1}
	ColorInputBorder  = Color{0.2, 0.2, 0.3, 1}
	ColorText         = Color{0.9, 0.9, 0.9, 1}
	ColorHighlight    = Color{0.2, 0.6, 0.9, 1}
)

// Opaque returns c with full alpha.
func (c Color) Opaque() Color {
	c[3] = 1
	return c
}
