// Package gpu defines the graphics backend the renderer draws through.
//
// A Device owns one API context. Every resource it creates must be released
// before the device itself; after ErrDeviceLost all of them are invalid and
// the caller rebuilds from a fresh Device.
package gpu

import (
	"errors"
	"image"

	"github.com/Faultbox/forwardlit/pkg/math"
)

// ErrDeviceLost is returned by Present when the device was removed or reset.
var ErrDeviceLost = errors.New("gpu: device lost")

// Resource is any device-owned object.
type Resource interface {
	Release() error
}

type (
	// Buffer is a vertex, index or constant buffer.
	Buffer interface {
		Resource
		Desc() BufferDesc
	}
	// Texture is a sampled 2D image.
	Texture interface {
		Resource
		Size() (width, height int)
	}
	// Sampler holds filtering and addressing state.
	Sampler interface{ Resource }
	// Shader is a compiled single-stage shading routine.
	Shader interface {
		Resource
		Stage() Stage
		Name() string
	}
	// Program combines a vertex and a pixel shader.
	Program interface{ Resource }
	// InputLayout describes how vertex buffer bytes map to shader inputs.
	InputLayout interface{ Resource }
	// RasterizerState holds fill and cull state.
	RasterizerState interface{ Resource }
	// DepthStencilState holds depth test and stencil state.
	DepthStencilState interface{ Resource }
	// BlendState holds color blending state.
	BlendState interface{ Resource }
	// RenderTarget is a color target, usually the swapchain back buffer.
	RenderTarget interface {
		Resource
		Size() (width, height int)
	}
	// DepthStencilView is a depth/stencil target.
	DepthStencilView interface {
		Resource
		Size() (width, height int)
	}
)

// Device is the graphics backend.
type Device interface {
	// ResizeSwapchain resizes the presentation surface. Views of the
	// previous back buffer must be released first.
	ResizeSwapchain(width, height int) error
	// BackBuffer returns a render target view of the current back buffer.
	BackBuffer() (RenderTarget, error)
	CreateDepthStencilView(width, height int) (DepthStencilView, error)

	// CreateBuffer creates a buffer of desc.Size bytes. data may be nil for
	// buffers filled later with UpdateBuffer.
	CreateBuffer(desc BufferDesc, data []byte) (Buffer, error)
	UpdateBuffer(b Buffer, data []byte) error
	CreateTexture(img *image.RGBA) (Texture, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)
	CreateRasterizerState(desc RasterizerDesc) (RasterizerState, error)
	CreateDepthStencilState(desc DepthStencilDesc) (DepthStencilState, error)
	CreateBlendState(desc BlendDesc) (BlendState, error)
	CompileShader(desc ShaderDesc) (Shader, error)
	LinkProgram(vs, ps Shader) (Program, error)
	CreateInputLayout(desc InputLayoutDesc) (InputLayout, error)

	ClearRenderTarget(rt RenderTarget, color math.Vec4)
	ClearDepthStencil(ds DepthStencilView, depth float32, stencil uint8)
	SetRenderTargets(rt RenderTarget, ds DepthStencilView)
	SetViewport(vp Viewport)
	SetRasterizerState(s RasterizerState)
	SetDepthStencilState(s DepthStencilState, stencilRef uint32)
	SetBlendState(s BlendState)
	SetInputLayout(l InputLayout)
	SetPrimitiveTopology(t Topology)
	UseProgram(p Program)
	BindConstantBuffer(stage Stage, slot int, b Buffer)
	BindVertexBuffer(b Buffer, stride int)
	BindIndexBuffer(b Buffer)
	BindTexture(slot int, t Texture)
	BindSampler(slot int, s Sampler)
	DrawIndexed(indexCount int)

	// Present shows the back buffer. It returns ErrDeviceLost (possibly
	// wrapped) when the device must be recreated.
	Present(vsync bool) error
	// ReadBackBuffer copies the current back buffer contents.
	ReadBackBuffer() (*image.RGBA, error)

	// Release destroys the device context.
	Release() error
}

// Factory creates a new device.
type Factory func() (Device, error)

// IsDeviceLost reports whether err signals a lost device.
func IsDeviceLost(err error) bool {
	return errors.Is(err, ErrDeviceLost)
}
