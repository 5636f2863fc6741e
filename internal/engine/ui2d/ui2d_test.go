package ui2d

import (
	"testing"

	"github.com/Faultbox/forwardlit/internal/engine/gpu/gputest"
)

func newTestContext(t *testing.T) (*Context, *gputest.Device) {
	t.Helper()
	dev := gputest.New(800, 600)
	ctx, err := NewContext(dev, 800, 600)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx, dev
}

// frame runs one UI frame with the mouse at (x, y).
func frame(t *testing.T, ctx *Context, x, y float32, down bool, body func()) {
	t.Helper()
	in := ctx.Input()
	in.MouseX, in.MouseY, in.MouseLeftDown = x, y, down
	ctx.Begin()
	if ctx.BeginWindow("w", 0, 0, 300, 0, "Test") {
		body()
		ctx.EndWindow()
	}
	if err := ctx.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
}

func TestFontMeasure(t *testing.T) {
	f := NewFont()
	w, h := f.GlyphSize()
	if w != 7 || h != 13 {
		t.Fatalf("GlyphSize = %dx%d, want 7x13", w, h)
	}
	mw, mh := f.MeasureText("abc\nde", 2)
	if mw != 42 || mh != 52 {
		t.Errorf("MeasureText = %v,%v, want 42,52", mw, mh)
	}
	u0, v0, _, _ := f.GetGlyphUV('☃')
	p0, q0, _, _ := f.GetGlyphUV('?')
	if u0 != p0 || v0 != q0 {
		t.Error("unknown rune should map to the placeholder glyph")
	}
}

func TestFontAtlasHasWhiteCell(t *testing.T) {
	f := NewFont()
	u, v := f.WhiteUV()
	b := f.Atlas().Bounds()
	px := f.Atlas().RGBAAt(int(u*float32(b.Dx())), int(v*float32(b.Dy())))
	if px.A != 255 {
		t.Errorf("white cell alpha = %d, want 255", px.A)
	}
}

func TestSliderDrag(t *testing.T) {
	ctx, _ := newTestContext(t)
	value := float32(0.5)

	layout := func() {
		ctx.Row(20)
		value, _ = ctx.SliderFloat("s", 200, "speed", value, 0, 10)
	}
	// First frame measures layout; the slider sits at x 8..208, y 32..52.
	frame(t, ctx, 0, 0, false, layout)
	frame(t, ctx, 108, 40, true, layout)

	if value < 4.9 || value > 5.1 {
		t.Errorf("value after drag to middle = %v, want ~5", value)
	}

	frame(t, ctx, 500, 40, true, layout)
	if value != 10 {
		t.Errorf("value after drag past end = %v, want 10", value)
	}
}

func TestButtonClick(t *testing.T) {
	ctx, _ := newTestContext(t)
	clicks := 0
	body := func() {
		ctx.Row(20)
		if ctx.Button("b", 100, "Press") {
			clicks++
		}
	}
	frame(t, ctx, 50, 40, false, body)
	frame(t, ctx, 50, 40, true, body)
	frame(t, ctx, 50, 40, true, body)
	frame(t, ctx, 50, 40, false, body)

	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestCheckboxTogglesOnRelease(t *testing.T) {
	ctx, _ := newTestContext(t)
	on := false
	body := func() {
		ctx.Row(20)
		on = ctx.Checkbox("c", "emitters", on)
	}
	frame(t, ctx, 12, 36, true, body)
	if on {
		t.Fatal("checkbox toggled on press")
	}
	frame(t, ctx, 12, 36, false, body)
	if !on {
		t.Error("checkbox not toggled on release")
	}
}

func TestEndDrawsQueuedQuads(t *testing.T) {
	ctx, dev := newTestContext(t)
	frame(t, ctx, 0, 0, false, func() {
		ctx.Row(20)
		ctx.Label("hello")
	})
	if n := dev.Count("DrawIndexed"); n != 1 {
		t.Fatalf("DrawIndexed calls = %d, want 1", n)
	}
	if dev.Draws[0].IndexCount%6 != 0 || dev.Draws[0].IndexCount == 0 {
		t.Errorf("index count %d is not a whole number of quads", dev.Draws[0].IndexCount)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	ctx, dev := newTestContext(t)
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if dev.Live() != 0 {
		t.Errorf("live resources after Close: %v", dev.LiveKinds())
	}
	if err := ctx.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestNewReleasesOnFailure(t *testing.T) {
	dev := gputest.New(10, 10)
	dev.FailTextures = true
	if _, err := New(dev, 10, 10); err == nil {
		t.Fatal("expected error")
	}
	if dev.Live() != 0 {
		t.Errorf("leaked: %v", dev.LiveKinds())
	}
}
