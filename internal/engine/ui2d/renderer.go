// Package ui2d provides a simple immediate-mode 2D UI drawn through the
// gpu device abstraction.
package ui2d

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/forwardlit/internal/engine/gpu"
)

const (
	// Vertex format: pos(2) + uv(2) + color(4) = 8 floats
	floatsPerVertex = 8
	vertexStride    = floatsPerVertex * 4
	maxQuads        = 4096
)

const uiVertexSource = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

layout (std140) uniform UIProjection {
    mat4 uProjection;
};

out vec2 vTexCoord;
out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
    vTexCoord = aTexCoord;
    vColor = aColor;
}
`

const uiFragmentSource = `
#version 410 core

uniform sampler2D uAtlas;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
    float alpha = texture(uAtlas, vTexCoord).a;
    FragColor = vec4(vColor.rgb, vColor.a * alpha);
}
`

// Renderer batches UI quads and draws them on top of the current frame.
type Renderer struct {
	dev          gpu.Device
	screenWidth  int
	screenHeight int

	font     *Font
	whiteU   float32
	whiteV   float32
	vertices []float32
	scratch  []byte

	vs, ps   gpu.Shader
	program  gpu.Program
	layout   gpu.InputLayout
	vbuf     gpu.Buffer
	ibuf     gpu.Buffer
	cbuf     gpu.Buffer
	atlas    gpu.Texture
	sampler  gpu.Sampler
	blend    gpu.BlendState
	depth    gpu.DepthStencilState
	raster   gpu.RasterizerState
	released bool
}

// New creates a UI renderer on dev. On failure everything created so far is
// released.
func New(dev gpu.Device, width, height int) (*Renderer, error) {
	r := &Renderer{
		dev:          dev,
		screenWidth:  width,
		screenHeight: height,
		vertices:     make([]float32, 0, 4096),
		font:         NewFont(),
	}
	r.whiteU, r.whiteV = r.font.WhiteUV()

	if err := r.createResources(); err != nil {
		return nil, multierr.Append(err, r.Close())
	}
	return r, nil
}

func (r *Renderer) createResources() error {
	var err error
	r.vs, err = r.dev.CompileShader(gpu.ShaderDesc{
		Stage:           gpu.StageVertex,
		Name:            "ui.vert",
		Source:          uiVertexSource,
		ConstantBuffers: []string{"UIProjection"},
	})
	if err != nil {
		return fmt.Errorf("create ui shader: %w", err)
	}
	r.ps, err = r.dev.CompileShader(gpu.ShaderDesc{
		Stage:    gpu.StagePixel,
		Name:     "ui.frag",
		Source:   uiFragmentSource,
		Textures: []string{"uAtlas"},
	})
	if err != nil {
		return fmt.Errorf("create ui shader: %w", err)
	}
	if r.program, err = r.dev.LinkProgram(r.vs, r.ps); err != nil {
		return fmt.Errorf("link ui program: %w", err)
	}

	r.layout, err = r.dev.CreateInputLayout(gpu.InputLayoutDesc{
		Stride: vertexStride,
		Attributes: []gpu.VertexAttribute{
			{Semantic: "POSITION", Components: 2, Offset: 0},
			{Semantic: "TEXCOORD", Components: 2, Offset: 8},
			{Semantic: "COLOR", Components: 4, Offset: 16},
		},
	})
	if err != nil {
		return fmt.Errorf("create ui layout: %w", err)
	}

	r.vbuf, err = r.dev.CreateBuffer(gpu.BufferDesc{Kind: gpu.VertexBuffer, Size: maxQuads * 4 * vertexStride}, nil)
	if err != nil {
		return fmt.Errorf("create ui vertex buffer: %w", err)
	}
	r.ibuf, err = r.dev.CreateBuffer(gpu.BufferDesc{Kind: gpu.IndexBuffer, Size: maxQuads * 6 * 4, Immutable: true}, quadIndices())
	if err != nil {
		return fmt.Errorf("create ui index buffer: %w", err)
	}
	r.cbuf, err = r.dev.CreateBuffer(gpu.BufferDesc{Kind: gpu.ConstantBuffer, Size: 64}, nil)
	if err != nil {
		return fmt.Errorf("create ui constant buffer: %w", err)
	}

	if r.atlas, err = r.dev.CreateTexture(r.font.Atlas()); err != nil {
		return fmt.Errorf("create font atlas: %w", err)
	}
	if r.sampler, err = r.dev.CreateSampler(gpu.SamplerDesc{Filter: gpu.FilterPoint, AddressU: gpu.AddressClamp, AddressV: gpu.AddressClamp}); err != nil {
		return fmt.Errorf("create ui sampler: %w", err)
	}
	if r.blend, err = r.dev.CreateBlendState(gpu.BlendDesc{Enable: true}); err != nil {
		return fmt.Errorf("create ui blend state: %w", err)
	}
	if r.depth, err = r.dev.CreateDepthStencilState(gpu.DepthStencilDesc{}); err != nil {
		return fmt.Errorf("create ui depth state: %w", err)
	}
	if r.raster, err = r.dev.CreateRasterizerState(gpu.RasterizerDesc{Fill: gpu.FillSolid, Cull: gpu.CullNone, DepthClip: true}); err != nil {
		return fmt.Errorf("create ui rasterizer state: %w", err)
	}
	return nil
}

func quadIndices() []byte {
	buf := make([]byte, 0, maxQuads*6*4)
	for q := uint32(0); q < maxQuads; q++ {
		base := q * 4
		for _, i := range [6]uint32{base, base + 1, base + 2, base, base + 2, base + 3} {
			buf = binary.LittleEndian.AppendUint32(buf, i)
		}
	}
	return buf
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// GetScreenSize returns the current screen dimensions.
func (r *Renderer) GetScreenSize() (int, int) {
	return r.screenWidth, r.screenHeight
}

// Begin starts a new UI frame.
func (r *Renderer) Begin() {
	r.vertices = r.vertices[:0]
}

// QuadCount returns the number of quads queued this frame.
func (r *Renderer) QuadCount() int {
	return len(r.vertices) / (4 * floatsPerVertex)
}

// End draws every queued quad in batches of at most maxQuads.
func (r *Renderer) End() error {
	if len(r.vertices) == 0 {
		return nil
	}

	proj := orthoMatrix(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)
	r.scratch, _ = binary.Append(r.scratch[:0], binary.LittleEndian, proj)
	if err := r.dev.UpdateBuffer(r.cbuf, r.scratch); err != nil {
		return fmt.Errorf("upload ui projection: %w", err)
	}

	r.dev.SetBlendState(r.blend)
	r.dev.SetDepthStencilState(r.depth, 0)
	r.dev.SetRasterizerState(r.raster)
	r.dev.SetInputLayout(r.layout)
	r.dev.SetPrimitiveTopology(gpu.TriangleList)
	r.dev.UseProgram(r.program)
	r.dev.BindConstantBuffer(gpu.StageVertex, 0, r.cbuf)
	r.dev.BindTexture(0, r.atlas)
	r.dev.BindSampler(0, r.sampler)
	r.dev.BindIndexBuffer(r.ibuf)

	const batch = maxQuads * 4 * floatsPerVertex
	for start := 0; start < len(r.vertices); start += batch {
		chunk := r.vertices[start:min(start+batch, len(r.vertices))]
		r.scratch, _ = binary.Append(r.scratch[:0], binary.LittleEndian, chunk)
		if err := r.dev.UpdateBuffer(r.vbuf, r.scratch); err != nil {
			return fmt.Errorf("upload ui vertices: %w", err)
		}
		r.dev.BindVertexBuffer(r.vbuf, vertexStride)
		r.dev.DrawIndexed(len(chunk) / (4 * floatsPerVertex) * 6)
	}
	return nil
}

// Close releases renderer resources. It is safe to call more than once.
func (r *Renderer) Close() error {
	if r.released {
		return nil
	}
	r.released = true

	var err error
	for _, res := range []gpu.Resource{
		r.raster, r.depth, r.blend, r.sampler, r.atlas,
		r.cbuf, r.ibuf, r.vbuf, r.layout, r.program, r.ps, r.vs,
	} {
		if res != nil {
			err = multierr.Append(err, res.Release())
		}
	}
	return err
}

// DrawRect draws a filled rectangle.
func (r *Renderer) DrawRect(x, y, width, height float32, color Color) {
	r.addQuad(x, y, width, height, r.whiteU, r.whiteV, r.whiteU, r.whiteV, color)
}

// DrawRectOutline draws a rectangle outline.
func (r *Renderer) DrawRectOutline(x, y, width, height, thickness float32, color Color) {
	// Top
	r.DrawRect(x, y, width, thickness, color)
	// Bottom
	r.DrawRect(x, y+height-thickness, width, thickness, color)
	// Left
	r.DrawRect(x, y+thickness, thickness, height-thickness*2, color)
	// Right
	r.DrawRect(x+width-thickness, y+thickness, thickness, height-thickness*2, color)
}

// DrawPanel draws a panel with border.
func (r *Renderer) DrawPanel(x, y, width, height float32, bg, border Color) {
	r.DrawRect(x, y, width, height, bg)
	r.DrawRectOutline(x, y, width, height, 1, border)
}

func (r *Renderer) addQuad(x, y, w, h float32, u0, v0, u1, v1 float32, c Color) {
	r.vertices = append(r.vertices,
		x, y, u0, v0, c[0], c[1], c[2], c[3],
		x+w, y, u1, v0, c[0], c[1], c[2], c[3],
		x+w, y+h, u1, v1, c[0], c[1], c[2], c[3],
		x, y+h, u0, v1, c[0], c[1], c[2], c[3],
	)
}

// DrawText draws text at the given position.
func (r *Renderer) DrawText(x, y float32, text string, scale float32, color Color) {
	gw, gh := r.font.GlyphSize()
	charW := float32(gw) * scale
	charH := float32(gh) * scale

	curX := x
	for _, char := range text {
		if char == '\n' {
			curX = x
			y += charH
			continue
		}
		if char != ' ' {
			u0, v0, u1, v1 := r.font.GetGlyphUV(char)
			r.addQuad(curX, y, charW, charH, u0, v0, u1, v1, color)
		}
		curX += charW
	}
}

// MeasureText returns the width and height of rendered text.
func (r *Renderer) MeasureText(text string, scale float32) (float32, float32) {
	return r.font.MeasureText(text, scale)
}

// orthoMatrix creates an orthographic projection matrix (column-major).
func orthoMatrix(left, right, bottom, top, near, far float32) [16]float32 {
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}
