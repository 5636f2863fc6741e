package ui2d

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph  = 32
	glyphCount  = 96
	atlasCols   = 16
	atlasRows   = glyphCount / atlasCols
	placeholder = '?'
)

// Font is a fixed-width bitmap font rasterized into an atlas image.
// The cell after the last glyph row is solid white and backs untextured quads.
type Font struct {
	atlas  *image.RGBA
	glyphW int
	glyphH int
}

// NewFont rasterizes the printable ASCII range of the 7x13 basic font.
func NewFont() *Font {
	face := basicfont.Face7x13
	f := &Font{
		glyphW: face.Advance,
		glyphH: face.Height,
	}
	// One extra row holds the white cell.
	f.atlas = image.NewRGBA(image.Rect(0, 0, atlasCols*f.glyphW, (atlasRows+1)*f.glyphH))

	d := font.Drawer{Dst: f.atlas, Src: image.White, Face: face}
	for i := 0; i < glyphCount; i++ {
		x := (i % atlasCols) * f.glyphW
		y := (i / atlasCols) * f.glyphH
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(rune(firstGlyph + i)))
	}

	white := image.Rect(0, atlasRows*f.glyphH, f.glyphW, (atlasRows+1)*f.glyphH)
	draw.Draw(f.atlas, white, image.White, image.Point{}, draw.Src)
	return f
}

// Atlas returns the glyph atlas. Coverage is stored in the alpha channel.
func (f *Font) Atlas() *image.RGBA { return f.atlas }

// GlyphSize returns the cell size in pixels.
func (f *Font) GlyphSize() (int, int) { return f.glyphW, f.glyphH }

// GetGlyphUV returns the atlas rectangle of r. Unknown runes map to '?'.
func (f *Font) GetGlyphUV(r rune) (u0, v0, u1, v1 float32) {
	idx := int(r) - firstGlyph
	if idx < 0 || idx >= glyphCount {
		idx = placeholder - firstGlyph
	}
	return f.cellUV(idx%atlasCols, idx/atlasCols)
}

// WhiteUV returns a texture coordinate inside the solid white cell.
func (f *Font) WhiteUV() (u, v float32) {
	u0, v0, u1, v1 := f.cellUV(0, atlasRows)
	return (u0 + u1) / 2, (v0 + v1) / 2
}

func (f *Font) cellUV(col, row int) (u0, v0, u1, v1 float32) {
	b := f.atlas.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	u0 = float32(col*f.glyphW) / w
	v0 = float32(row*f.glyphH) / h
	u1 = float32((col+1)*f.glyphW) / w
	v1 = float32((row+1)*f.glyphH) / h
	return
}

// MeasureText returns the size of text at scale, honoring newlines.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	lines, widest, cur := 1, 0, 0
	for _, r := range text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		widest = max(widest, cur)
	}
	return float32(widest*f.glyphW) * scale, float32(lines*f.glyphH) * scale
}
