package glbackend

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// backBuffer is the offscreen color target everything renders into.
// Present blits it to the window. Depth and stencil are attached separately
// from a DepthStencilView so the two can be recreated independently.
//
// With more than one sample the scene renders into a multisampled
// renderbuffer and is resolved into colorTexture before it is shown or read.
type backBuffer struct {
	fbo          uint32
	colorTexture uint32
	width        int32
	height       int32
	samples      int32

	// Multisampled path only.
	msFBO   uint32
	msColor uint32
}

// sampleCount clamps a requested MSAA sample count to what the driver
// supports. Anything below two means no multisampling.
func sampleCount(requested, limit int32) int32 {
	if requested < 2 || limit < 2 {
		return 1
	}
	return min(requested, limit)
}

func newBackBuffer(width, height, samples int32) (*backBuffer, error) {
	bb := &backBuffer{
		width:   max(width, 1),
		height:  max(height, 1),
		samples: max(samples, 1),
	}
	if err := bb.create(); err != nil {
		return nil, fmt.Errorf("creating back buffer: %w", err)
	}
	return bb, nil
}

func (bb *backBuffer) multisampled() bool { return bb.samples > 1 }

// target is the framebuffer draws go to.
func (bb *backBuffer) target() uint32 {
	if bb.multisampled() {
		return bb.msFBO
	}
	return bb.fbo
}

func (bb *backBuffer) create() error {
	gl.GenFramebuffers(1, &bb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, bb.fbo)

	gl.GenTextures(1, &bb.colorTexture)
	gl.BindTexture(gl.TEXTURE_2D, bb.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, bb.width, bb.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, bb.colorTexture, 0)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		bb.destroy()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}

	if bb.multisampled() {
		gl.GenFramebuffers(1, &bb.msFBO)
		gl.BindFramebuffer(gl.FRAMEBUFFER, bb.msFBO)
		gl.GenRenderbuffers(1, &bb.msColor)
		gl.BindRenderbuffer(gl.RENDERBUFFER, bb.msColor)
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, bb.samples, gl.RGBA8, bb.width, bb.height)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, bb.msColor)

		if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			bb.destroy()
			return fmt.Errorf("multisampled framebuffer incomplete: 0x%x", status)
		}
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, bb.target())
	return nil
}

// attachDepthStencil binds the draw FBO and attaches rbo (0 detaches). The
// renderbuffer must have the back buffer's sample count.
func (bb *backBuffer) attachDepthStencil(rbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, bb.target())
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, rbo)
}

func (bb *backBuffer) resize(width, height int32) {
	width = max(width, 1)
	height = max(height, 1)
	if width == bb.width && height == bb.height {
		return
	}
	bb.width = width
	bb.height = height

	gl.BindTexture(gl.TEXTURE_2D, bb.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, bb.width, bb.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	if bb.multisampled() {
		gl.BindRenderbuffer(gl.RENDERBUFFER, bb.msColor)
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, bb.samples, gl.RGBA8, bb.width, bb.height)
	}
}

// resolve collapses the multisampled color into colorTexture.
func (bb *backBuffer) resolve() {
	if !bb.multisampled() {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, bb.msFBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, bb.fbo)
	gl.BlitFramebuffer(0, 0, bb.width, bb.height, 0, 0, bb.width, bb.height, gl.COLOR_BUFFER_BIT, gl.NEAREST)
}

// blit resolves and copies the color onto the default framebuffer, scaled
// to the drawable size.
func (bb *backBuffer) blit(dstW, dstH int32) {
	bb.resolve()
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, bb.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, bb.width, bb.height, 0, 0, dstW, dstH, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, bb.target())
}

// readPixels returns the color attachment top row first.
func (bb *backBuffer) readPixels() *image.RGBA {
	w, h := int(bb.width), int(bb.height)
	pixels := make([]byte, w*h*4)

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	bb.resolve()
	gl.BindFramebuffer(gl.FRAMEBUFFER, bb.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, bb.width, bb.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))

	// OpenGL has origin at bottom-left
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rowSize := w * 4
	for y := 0; y < h; y++ {
		src := (h - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return img
}

func (bb *backBuffer) destroy() {
	if bb.fbo != 0 {
		gl.DeleteFramebuffers(1, &bb.fbo)
		bb.fbo = 0
	}
	if bb.colorTexture != 0 {
		gl.DeleteTextures(1, &bb.colorTexture)
		bb.colorTexture = 0
	}
	if bb.msFBO != 0 {
		gl.DeleteFramebuffers(1, &bb.msFBO)
		bb.msFBO = 0
	}
	if bb.msColor != 0 {
		gl.DeleteRenderbuffers(1, &bb.msColor)
		bb.msColor = 0
	}
}
