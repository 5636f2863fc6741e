// Package glbackend implements gpu.Device on an OpenGL 4.1 core context
// created on an SDL window.
package glbackend

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/forwardlit/internal/engine/gpu"
	"github.com/Faultbox/forwardlit/internal/logger"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// glContextLost is GL_CONTEXT_LOST from KHR_robustness, which the 4.1 core
// bindings do not export.
const glContextLost = 0x0507

var errWrongBackend = errors.New("glbackend: resource from another device")

// Device is an OpenGL device bound to one SDL window.
type Device struct {
	win *sdl.Window
	ctx sdl.GLContext
	vao uint32
	bb  *backBuffer

	layout   *inputLayout
	topology uint32
	vsync    int

	// live counts resources created and not yet released.
	live int
}

var _ gpu.Device = (*Device)(nil)

// Factory returns a gpu.Factory that creates devices on win with the given
// MSAA sample count.
func Factory(win *sdl.Window, samples int) gpu.Factory {
	return func() (gpu.Device, error) {
		return New(win, samples)
	}
}

// New creates an OpenGL context on win and an offscreen back buffer sized to
// the drawable area. samples above one render into a multisampled target
// that is resolved on Present; the count is clamped to GL_MAX_SAMPLES.
func New(win *sdl.Window, samples int) (*Device, error) {
	ctx, err := win.GLCreateContext()
	if err != nil {
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}
	if err := win.GLMakeCurrent(ctx); err != nil {
		sdl.GLDeleteContext(ctx)
		return nil, fmt.Errorf("SDL_GL_MakeCurrent failed: %w", err)
	}
	if err := gl.Init(); err != nil {
		sdl.GLDeleteContext(ctx)
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}

	d := &Device{win: win, ctx: ctx, topology: gl.TRIANGLES, vsync: -1}

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	var limit int32
	gl.GetIntegerv(gl.MAX_SAMPLES, &limit)
	msaa := sampleCount(int32(samples), limit)
	if msaa != int32(max(samples, 1)) {
		logger.Warn("MSAA sample count clamped", zap.Int("requested", samples), zap.Int32("used", msaa))
	}

	w, h := win.GLGetDrawableSize()
	if d.bb, err = newBackBuffer(w, h, msaa); err != nil {
		gl.DeleteVertexArrays(1, &d.vao)
		sdl.GLDeleteContext(ctx)
		return nil, err
	}

	logger.Info("OpenGL device created",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.Int32("width", w),
		zap.Int32("height", h),
		zap.Int32("samples", msaa),
	)
	return d, nil
}

// ResizeSwapchain resizes the offscreen back buffer. The window itself is
// sized by SDL.
func (d *Device) ResizeSwapchain(width, height int) error {
	d.bb.resize(int32(width), int32(height))
	return d.checkError("resize swapchain")
}

// BackBuffer returns a view of the offscreen color target.
func (d *Device) BackBuffer() (gpu.RenderTarget, error) {
	return &renderTarget{bb: d.bb}, nil
}

// CreateDepthStencilView allocates a depth-stencil renderbuffer with the
// back buffer's sample count.
func (d *Device) CreateDepthStencilView(width, height int) (gpu.DepthStencilView, error) {
	v := &depthStencilView{dev: d, width: max(width, 1), height: max(height, 1)}
	gl.GenRenderbuffers(1, &v.rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, v.rbo)
	if d.bb.multisampled() {
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, d.bb.samples, gl.DEPTH24_STENCIL8, int32(v.width), int32(v.height))
	} else {
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(v.width), int32(v.height))
	}
	if err := d.checkError("create depth stencil"); err != nil {
		gl.DeleteRenderbuffers(1, &v.rbo)
		return nil, err
	}
	d.live++
	return v, nil
}

func bufferUsage(desc gpu.BufferDesc) uint32 {
	if desc.Immutable {
		return gl.STATIC_DRAW
	}
	return gl.DYNAMIC_DRAW
}

// CreateBuffer creates a vertex, index or uniform buffer.
func (d *Device) CreateBuffer(desc gpu.BufferDesc, data []byte) (gpu.Buffer, error) {
	if desc.Size <= 0 {
		return nil, fmt.Errorf("create %s buffer: size %d", desc.Kind, desc.Size)
	}
	if desc.Immutable && len(data) != desc.Size {
		return nil, fmt.Errorf("create %s buffer: immutable buffer needs %d bytes, got %d", desc.Kind, desc.Size, len(data))
	}

	b := &buffer{dev: d, desc: desc}
	gl.GenBuffers(1, &b.id)
	// COPY_WRITE_BUFFER leaves the VAO's element binding untouched.
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	if len(data) > 0 {
		gl.BufferData(gl.COPY_WRITE_BUFFER, desc.Size, gl.Ptr(data), bufferUsage(desc))
	} else {
		gl.BufferData(gl.COPY_WRITE_BUFFER, desc.Size, nil, bufferUsage(desc))
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	if err := d.checkError("create buffer"); err != nil {
		gl.DeleteBuffers(1, &b.id)
		return nil, err
	}
	d.live++
	return b, nil
}

// UpdateBuffer replaces the content of a dynamic buffer.
func (d *Device) UpdateBuffer(b gpu.Buffer, data []byte) error {
	buf, ok := b.(*buffer)
	if !ok {
		return errWrongBackend
	}
	if buf.desc.Immutable {
		return fmt.Errorf("update %s buffer: buffer is immutable", buf.desc.Kind)
	}
	if len(data) > buf.desc.Size {
		return fmt.Errorf("update %s buffer: %d bytes exceeds size %d", buf.desc.Kind, len(data), buf.desc.Size)
	}
	if len(data) == 0 {
		return nil
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, buf.id)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	return nil
}

// CreateTexture uploads img as a mipmapped RGBA8 texture.
func (d *Device) CreateTexture(img *image.RGBA) (gpu.Texture, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("create texture: empty image")
	}
	// Sub-images share their parent's stride; repack to a tight buffer.
	if img.Stride != w*4 || bounds.Min != (image.Point{}) {
		tight := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(tight, tight.Bounds(), img, bounds.Min, draw.Src)
		img = tight
	}

	t := &texture{dev: d, width: w, height: h}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := d.checkError("create texture"); err != nil {
		gl.DeleteTextures(1, &t.id)
		return nil, err
	}
	d.live++
	return t, nil
}

// CreateSampler creates a sampler object.
func (d *Device) CreateSampler(desc gpu.SamplerDesc) (gpu.Sampler, error) {
	s := &sampler{dev: d}
	gl.GenSamplers(1, &s.id)
	applySampler(s.id, desc)
	d.live++
	return s, nil
}

// CreateRasterizerState records desc; it is applied on bind.
func (d *Device) CreateRasterizerState(desc gpu.RasterizerDesc) (gpu.RasterizerState, error) {
	return &rasterizerState{desc: desc}, nil
}

// CreateDepthStencilState records desc; it is applied on bind.
func (d *Device) CreateDepthStencilState(desc gpu.DepthStencilDesc) (gpu.DepthStencilState, error) {
	return &depthStencilState{desc: desc}, nil
}

// CreateBlendState records desc; it is applied on bind.
func (d *Device) CreateBlendState(desc gpu.BlendDesc) (gpu.BlendState, error) {
	return &blendState{desc: desc}, nil
}

// CompileShader compiles one GLSL stage.
func (d *Device) CompileShader(desc gpu.ShaderDesc) (gpu.Shader, error) {
	id, err := compileShader(desc)
	if err != nil {
		return nil, err
	}
	d.live++
	return &shader{dev: d, id: id, desc: desc}, nil
}

// LinkProgram links a vertex and a pixel stage and binds their uniform
// blocks to the slots they declare.
func (d *Device) LinkProgram(vs, ps gpu.Shader) (gpu.Program, error) {
	v, ok1 := vs.(*shader)
	p, ok2 := ps.(*shader)
	if !ok1 || !ok2 {
		return nil, errWrongBackend
	}
	if v.desc.Stage != gpu.StageVertex || p.desc.Stage != gpu.StagePixel {
		return nil, fmt.Errorf("link: want vertex+pixel, got %s+%s", v.desc.Stage, p.desc.Stage)
	}
	id, err := linkProgram(v, p)
	if err != nil {
		return nil, err
	}
	d.live++
	return &program{dev: d, id: id}, nil
}

// CreateInputLayout records the vertex attributes set up on each
// BindVertexBuffer.
func (d *Device) CreateInputLayout(desc gpu.InputLayoutDesc) (gpu.InputLayout, error) {
	if desc.Stride <= 0 || len(desc.Attributes) == 0 {
		return nil, errors.New("create input layout: empty layout")
	}
	return &inputLayout{desc: desc}, nil
}

// ClearRenderTarget clears the back buffer color to c.
func (d *Device) ClearRenderTarget(_ gpu.RenderTarget, c math.Vec4) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.bb.target())
	gl.ColorMask(true, true, true, true)
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// ClearDepthStencil attaches ds and clears it.
func (d *Device) ClearDepthStencil(ds gpu.DepthStencilView, depth float32, stencil uint8) {
	v, ok := ds.(*depthStencilView)
	if !ok {
		return
	}
	d.bb.attachDepthStencil(v.rbo)
	gl.DepthMask(true)
	gl.StencilMask(0xFF)
	gl.ClearDepthf(depth)
	gl.ClearStencil(int32(stencil))
	gl.Clear(gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

// SetRenderTargets attaches ds to the back buffer. There is only one color
// target.
func (d *Device) SetRenderTargets(_ gpu.RenderTarget, ds gpu.DepthStencilView) {
	var rbo uint32
	if v, ok := ds.(*depthStencilView); ok {
		rbo = v.rbo
	}
	d.bb.attachDepthStencil(rbo)
}

// SetViewport sets the viewport and depth range.
func (d *Device) SetViewport(vp gpu.Viewport) {
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
	gl.DepthRangef(vp.MinDepth, vp.MaxDepth)
}

// SetRasterizerState applies a state from CreateRasterizerState.
func (d *Device) SetRasterizerState(s gpu.RasterizerState) {
	if r, ok := s.(*rasterizerState); ok {
		applyRasterizer(r.desc)
	}
}

// SetDepthStencilState applies a state from CreateDepthStencilState.
func (d *Device) SetDepthStencilState(s gpu.DepthStencilState, stencilRef uint32) {
	if ds, ok := s.(*depthStencilState); ok {
		applyDepthStencil(ds.desc, stencilRef)
	}
}

// SetBlendState enables straight alpha blending or turns blending off.
func (d *Device) SetBlendState(s gpu.BlendState) {
	b, ok := s.(*blendState)
	if !ok || !b.desc.Enable {
		gl.Disable(gl.BLEND)
		return
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

// SetInputLayout selects the layout used by later vertex buffer binds.
func (d *Device) SetInputLayout(l gpu.InputLayout) {
	d.layout, _ = l.(*inputLayout)
}

// SetPrimitiveTopology sets the primitive type for DrawIndexed.
func (d *Device) SetPrimitiveTopology(t gpu.Topology) {
	switch t {
	case gpu.LineList:
		d.topology = gl.LINES
	default:
		d.topology = gl.TRIANGLES
	}
}

// UseProgram makes p current.
func (d *Device) UseProgram(p gpu.Program) {
	if prog, ok := p.(*program); ok {
		gl.UseProgram(prog.id)
	}
}

// BindConstantBuffer binds b to the uniform block binding for stage/slot.
func (d *Device) BindConstantBuffer(stage gpu.Stage, slot int, b gpu.Buffer) {
	if buf, ok := b.(*buffer); ok {
		gl.BindBufferBase(gl.UNIFORM_BUFFER, blockBinding(stage, slot), buf.id)
	}
}

// BindVertexBuffer binds b and points the current input layout at it.
func (d *Device) BindVertexBuffer(b gpu.Buffer, stride int) {
	buf, ok := b.(*buffer)
	if !ok || d.layout == nil {
		return
	}
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.id)
	for i, attr := range d.layout.desc.Attributes {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), int32(attr.Components), gl.FLOAT, false, int32(stride), uintptr(attr.Offset))
	}
}

// BindIndexBuffer binds b as the element array buffer.
func (d *Device) BindIndexBuffer(b gpu.Buffer) {
	if buf, ok := b.(*buffer); ok {
		gl.BindVertexArray(d.vao)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.id)
	}
}

// BindTexture binds t to texture unit slot.
func (d *Device) BindTexture(slot int, t gpu.Texture) {
	tex, ok := t.(*texture)
	if !ok {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
}

// BindSampler binds s to texture unit slot.
func (d *Device) BindSampler(slot int, s gpu.Sampler) {
	if smp, ok := s.(*sampler); ok {
		gl.BindSampler(uint32(slot), smp.id)
	}
}

// DrawIndexed draws indexCount 32-bit indices from the bound index buffer.
func (d *Device) DrawIndexed(indexCount int) {
	gl.DrawElements(d.topology, int32(indexCount), gl.UNSIGNED_INT, nil)
}

// Present blits the back buffer to the window and swaps. A lost context
// surfaces as gpu.ErrDeviceLost.
func (d *Device) Present(vsync bool) error {
	interval := 0
	if vsync {
		interval = 1
	}
	if interval != d.vsync {
		if err := sdl.GLSetSwapInterval(interval); err != nil {
			logger.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
		}
		d.vsync = interval
	}

	w, h := d.win.GLGetDrawableSize()
	d.bb.blit(w, h)
	d.win.GLSwap()

	return d.checkError("present")
}

// ReadBackBuffer returns the resolved back buffer, top row first.
func (d *Device) ReadBackBuffer() (*image.RGBA, error) {
	img := d.bb.readPixels()
	if err := d.checkError("read back buffer"); err != nil {
		return nil, err
	}
	return img, nil
}

// Release destroys the context. Resources still alive are leaked with it.
func (d *Device) Release() error {
	if d.ctx == nil {
		return nil
	}
	if d.live != 0 {
		logger.Warn("releasing device with live resources", zap.Int("count", d.live))
	}
	d.bb.destroy()
	gl.DeleteVertexArrays(1, &d.vao)
	sdl.GLDeleteContext(d.ctx)
	d.ctx = nil
	logger.Info("OpenGL device released")
	return nil
}

// checkError drains the GL error queue. A lost context wins over other codes.
func (d *Device) checkError(op string) error {
	var first uint32
	for range 16 {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		if code == glContextLost {
			return fmt.Errorf("%s: %w", op, gpu.ErrDeviceLost)
		}
		if first == 0 {
			first = code
		}
	}
	if first != 0 {
		return fmt.Errorf("%s: GL error 0x%x", op, first)
	}
	return nil
}
