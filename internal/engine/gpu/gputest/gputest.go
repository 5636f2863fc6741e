// Package gputest provides an in-memory gpu.Device that records calls.
package gputest

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/Faultbox/forwardlit/internal/engine/gpu"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("gputest: injected failure")

// Call is one recorded device operation.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Op
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Op + "(" + strings.Join(parts, ",") + ")"
}

// Device is a fake gpu.Device. Zero values of the failure knobs disable them.
type Device struct {
	mu sync.Mutex

	ID     int
	Width  int
	Height int

	// LoseOnPresent makes the n-th Present (1-based) and every later one
	// return ErrDeviceLost.
	LoseOnPresent int
	// LoseOnResize makes every ResizeSwapchain return ErrDeviceLost.
	LoseOnResize bool
	// LoseOnShader makes CompileShader return ErrDeviceLost for the named
	// shader.
	LoseOnShader string
	// FailBufferAfter makes CreateBuffer fail once this many buffers exist.
	FailBufferAfter int
	// FailTextures makes CreateTexture fail.
	FailTextures bool
	// FailRelease makes resource Release return ErrInjected.
	FailRelease bool
	// FailShader makes CompileShader fail for the named shader.
	FailShader string

	presents int
	buffers  int
	live     map[*resource]struct{}
	calls    []Call
	released bool

	// Constant buffer contents by binding, captured at draw time.
	bound map[string]gpu.Buffer
	state *pipeline
	Draws []Draw
}

// Draw captures pipeline state at a DrawIndexed call.
type Draw struct {
	Program     string
	IndexCount  int
	VertexBuf   gpu.Buffer
	IndexBuf    gpu.Buffer
	Texture     gpu.Texture
	Constants   map[string][]byte
	Rasterizer  gpu.RasterizerDesc
	DepthTested bool
}

var _ gpu.Device = (*Device)(nil)

// New creates a fake device with a back buffer of the given size.
func New(width, height int) *Device {
	return &Device{
		Width:  width,
		Height: height,
		live:   make(map[*resource]struct{}),
		bound:  make(map[string]gpu.Buffer),
	}
}

// Factory hands out fake devices and remembers them.
type Factory struct {
	Width, Height int
	// Configure runs on every new device before it is returned.
	Configure func(*Device)
	// Fail makes the next Create return an error.
	Fail bool

	Devices []*Device
}

// Create implements gpu.Factory.
func (f *Factory) Create() (gpu.Device, error) {
	if f.Fail {
		f.Fail = false
		return nil, ErrInjected
	}
	d := New(f.Width, f.Height)
	d.ID = len(f.Devices) + 1
	if f.Configure != nil {
		f.Configure(d)
	}
	f.Devices = append(f.Devices, d)
	return d, nil
}

// Last returns the most recently created device.
func (f *Factory) Last() *Device {
	if len(f.Devices) == 0 {
		return nil
	}
	return f.Devices[len(f.Devices)-1]
}

type resource struct {
	dev  *Device
	kind string
	name string

	w, h   int
	buf    gpu.BufferDesc
	data   []byte
	stage  gpu.Stage
	raster gpu.RasterizerDesc
	depth  gpu.DepthStencilDesc
	layout gpu.InputLayoutDesc
	gone   bool
}

func (r *resource) Release() error {
	d := r.dev
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailRelease {
		return fmt.Errorf("release %s: %w", r.kind, ErrInjected)
	}
	if r.gone {
		return nil
	}
	r.gone = true
	delete(d.live, r)
	d.record("Release", r.kind)
	return nil
}

func (r *resource) Desc() gpu.BufferDesc { return r.buf }
func (r *resource) Size() (int, int)     { return r.w, r.h }
func (r *resource) Stage() gpu.Stage     { return r.stage }
func (r *resource) Name() string         { return r.name }

// Data returns the last bytes written to a buffer resource.
func Data(b gpu.Buffer) []byte {
	if r, ok := b.(*resource); ok {
		return r.data
	}
	return nil
}

// Released reports whether the resource has been released.
func Released(res gpu.Resource) bool {
	r, ok := res.(*resource)
	return ok && r.gone
}

func (d *Device) record(op string, args ...any) {
	d.calls = append(d.calls, Call{Op: op, Args: args})
}

func (d *Device) newResource(kind string) *resource {
	r := &resource{dev: d, kind: kind}
	d.live[r] = struct{}{}
	return r
}

// Calls returns a copy of the recorded calls.
func (d *Device) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// Ops returns the recorded operation names.
func (d *Device) Ops() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	ops := make([]string, len(d.calls))
	for i, c := range d.calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many times op was recorded.
func (d *Device) Count(op string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset clears recorded calls and draws.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
	d.Draws = nil
}

// Live returns the number of resources not yet released.
func (d *Device) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

// LiveKinds returns the kinds of unreleased resources.
func (d *Device) LiveKinds() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var kinds []string
	for r := range d.live {
		kinds = append(kinds, r.kind)
	}
	return kinds
}

// IsReleased reports whether Release was called on the device.
func (d *Device) IsReleased() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

func (d *Device) ResizeSwapchain(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Width, d.Height = width, height
	d.record("ResizeSwapchain", width, height)
	if d.LoseOnResize {
		return fmt.Errorf("resize swapchain: %w", gpu.ErrDeviceLost)
	}
	return nil
}

func (d *Device) BackBuffer() (gpu.RenderTarget, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := d.newResource("RenderTarget")
	r.w, r.h = d.Width, d.Height
	d.record("BackBuffer")
	return r, nil
}

func (d *Device) CreateDepthStencilView(width, height int) (gpu.DepthStencilView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := d.newResource("DepthStencilView")
	r.w, r.h = width, height
	d.record("CreateDepthStencilView", width, height)
	return r, nil
}

func (d *Device) CreateBuffer(desc gpu.BufferDesc, data []byte) (gpu.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreateBuffer", desc.Kind, desc.Size)
	if d.FailBufferAfter > 0 && d.buffers >= d.FailBufferAfter {
		return nil, fmt.Errorf("create %s buffer: %w", desc.Kind, ErrInjected)
	}
	if desc.Immutable && len(data) != desc.Size {
		return nil, fmt.Errorf("immutable %s buffer needs %d bytes, got %d", desc.Kind, desc.Size, len(data))
	}
	d.buffers++
	r := d.newResource(desc.Kind.String() + "Buffer")
	r.buf = desc
	r.data = append([]byte(nil), data...)
	return r, nil
}

func (d *Device) UpdateBuffer(b gpu.Buffer, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := b.(*resource)
	if !ok || r.gone {
		return errors.New("update of released or foreign buffer")
	}
	if r.buf.Immutable {
		return errors.New("update of immutable buffer")
	}
	if len(data) > r.buf.Size {
		return fmt.Errorf("update of %d bytes exceeds size %d", len(data), r.buf.Size)
	}
	r.data = append(r.data[:0], data...)
	d.record("UpdateBuffer", r.buf.Kind, len(data))
	return nil
}

func (d *Device) CreateTexture(img *image.RGBA) (gpu.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreateTexture")
	if d.FailTextures {
		return nil, fmt.Errorf("create texture: %w", ErrInjected)
	}
	r := d.newResource("Texture")
	r.w, r.h = img.Bounds().Dx(), img.Bounds().Dy()
	return r, nil
}

func (d *Device) CreateSampler(gpu.SamplerDesc) (gpu.Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreateSampler")
	return d.newResource("Sampler"), nil
}

func (d *Device) CreateRasterizerState(desc gpu.RasterizerDesc) (gpu.RasterizerState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreateRasterizerState", desc.Fill)
	r := d.newResource("RasterizerState")
	r.raster = desc
	return r, nil
}

func (d *Device) CreateDepthStencilState(desc gpu.DepthStencilDesc) (gpu.DepthStencilState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreateDepthStencilState")
	r := d.newResource("DepthStencilState")
	r.depth = desc
	return r, nil
}

func (d *Device) CreateBlendState(desc gpu.BlendDesc) (gpu.BlendState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreateBlendState", desc.Enable)
	return d.newResource("BlendState"), nil
}

func (d *Device) CompileShader(desc gpu.ShaderDesc) (gpu.Shader, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CompileShader", desc.Name)
	if d.FailShader != "" && d.FailShader == desc.Name {
		return nil, fmt.Errorf("compile %s: %w", desc.Name, ErrInjected)
	}
	if d.LoseOnShader != "" && d.LoseOnShader == desc.Name {
		return nil, fmt.Errorf("compile %s: %w", desc.Name, gpu.ErrDeviceLost)
	}
	r := d.newResource("Shader")
	r.name = desc.Name
	r.stage = desc.Stage
	return r, nil
}

func (d *Device) LinkProgram(vs, ps gpu.Shader) (gpu.Program, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("LinkProgram", vs.Name(), ps.Name())
	r := d.newResource("Program")
	r.name = ps.Name()
	return r, nil
}

func (d *Device) CreateInputLayout(desc gpu.InputLayoutDesc) (gpu.InputLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreateInputLayout", desc.Stride)
	r := d.newResource("InputLayout")
	r.layout = desc
	return r, nil
}

// pipeline is the bound state captured by DrawIndexed.
type pipeline struct {
	program string
	vb, ib  gpu.Buffer
	tex     gpu.Texture
	raster  gpu.RasterizerDesc
	depth   bool
}

func (d *Device) pipe() *pipeline {
	if d.state == nil {
		d.state = &pipeline{}
	}
	return d.state
}

func (d *Device) ClearRenderTarget(_ gpu.RenderTarget, c math.Vec4) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("ClearRenderTarget", c)
}

func (d *Device) ClearDepthStencil(_ gpu.DepthStencilView, depth float32, stencil uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("ClearDepthStencil", depth, stencil)
}

func (d *Device) SetRenderTargets(gpu.RenderTarget, gpu.DepthStencilView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SetRenderTargets")
}

func (d *Device) SetViewport(vp gpu.Viewport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SetViewport", vp.Width, vp.Height)
}

func (d *Device) SetRasterizerState(s gpu.RasterizerState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r, ok := s.(*resource); ok {
		d.pipe().raster = r.raster
	}
	d.record("SetRasterizerState")
}

func (d *Device) SetDepthStencilState(s gpu.DepthStencilState, ref uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r, ok := s.(*resource); ok {
		d.pipe().depth = r.depth.DepthEnable
	}
	d.record("SetDepthStencilState", ref)
}

func (d *Device) SetBlendState(gpu.BlendState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SetBlendState")
}

func (d *Device) SetInputLayout(gpu.InputLayout) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SetInputLayout")
}

func (d *Device) SetPrimitiveTopology(t gpu.Topology) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("SetPrimitiveTopology", t)
}

func (d *Device) UseProgram(p gpu.Program) {
	d.mu.Lock()
	defer d.mu.Unlock()
	name := ""
	if r, ok := p.(*resource); ok {
		name = r.name
	}
	d.pipe().program = name
	d.record("UseProgram", name)
}

func bindingKey(stage gpu.Stage, slot int) string {
	return fmt.Sprintf("%s%d", stage, slot)
}

func (d *Device) BindConstantBuffer(stage gpu.Stage, slot int, b gpu.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bound[bindingKey(stage, slot)] = b
	d.record("BindConstantBuffer", stage, slot)
}

func (d *Device) BindVertexBuffer(b gpu.Buffer, stride int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pipe().vb = b
	d.record("BindVertexBuffer", stride)
}

func (d *Device) BindIndexBuffer(b gpu.Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pipe().ib = b
	d.record("BindIndexBuffer")
}

func (d *Device) BindTexture(slot int, t gpu.Texture) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pipe().tex = t
	d.record("BindTexture", slot)
}

func (d *Device) BindSampler(slot int, _ gpu.Sampler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("BindSampler", slot)
}

func (d *Device) DrawIndexed(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.pipe()
	consts := make(map[string][]byte, len(d.bound))
	for k, b := range d.bound {
		if r, ok := b.(*resource); ok {
			consts[k] = append([]byte(nil), r.data...)
		}
	}
	d.Draws = append(d.Draws, Draw{
		Program:     p.program,
		IndexCount:  n,
		VertexBuf:   p.vb,
		IndexBuf:    p.ib,
		Texture:     p.tex,
		Constants:   consts,
		Rasterizer:  p.raster,
		DepthTested: p.depth,
	})
	d.record("DrawIndexed", n)
}

// ConstantsAt returns the bytes bound at stage/slot for a captured draw.
func (dr Draw) ConstantsAt(stage gpu.Stage, slot int) []byte {
	return dr.Constants[bindingKey(stage, slot)]
}

func (d *Device) Present(vsync bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.presents++
	d.record("Present", vsync)
	if d.LoseOnPresent > 0 && d.presents >= d.LoseOnPresent {
		return fmt.Errorf("present: %w", gpu.ErrDeviceLost)
	}
	return nil
}

func (d *Device) ReadBackBuffer() (*image.RGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("ReadBackBuffer")
	return image.NewRGBA(image.Rect(0, 0, max(d.Width, 1), max(d.Height, 1))), nil
}

func (d *Device) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released = true
	d.record("ReleaseDevice")
	return nil
}
