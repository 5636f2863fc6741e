package gpu

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	StageVertex Stage = iota
	StagePixel
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StagePixel:
		return "pixel"
	default:
		return "unknown"
	}
}

// BufferKind is the bind target of a buffer.
type BufferKind uint8

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
	ConstantBuffer
)

func (k BufferKind) String() string {
	switch k {
	case VertexBuffer:
		return "vertex"
	case IndexBuffer:
		return "index"
	case ConstantBuffer:
		return "constant"
	default:
		return "unknown"
	}
}

// BufferDesc describes a buffer. Immutable buffers must be created with data
// and cannot be updated.
type BufferDesc struct {
	Kind      BufferKind
	Size      int
	Immutable bool
}

// FillMode selects solid or wireframe rasterization.
type FillMode uint8

const (
	FillSolid FillMode = iota
	FillWireframe
)

// CullMode selects which faces are discarded.
type CullMode uint8

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// RasterizerDesc configures rasterization.
type RasterizerDesc struct {
	Fill                  FillMode
	Cull                  CullMode
	FrontCounterClockwise bool
	DepthClip             bool
	Multisample           bool
}

// CompareFunc is a depth or stencil comparison.
type CompareFunc uint8

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

// StencilOp is the action taken on a stencil test outcome.
type StencilOp uint8

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncrSat
	StencilDecrSat
	StencilInvert
	StencilIncr
	StencilDecr
)

// StencilFace configures stencil behavior for one face orientation.
type StencilFace struct {
	Fail      StencilOp
	DepthFail StencilOp
	Pass      StencilOp
	Func      CompareFunc
}

// DepthStencilDesc configures depth and stencil testing.
type DepthStencilDesc struct {
	DepthEnable      bool
	DepthWrite       bool
	DepthFunc        CompareFunc
	StencilEnable    bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	Front            StencilFace
	Back             StencilFace
}

// BlendDesc configures color blending. Enabled blending is straight alpha
// (src*a + dst*(1-a)).
type BlendDesc struct {
	Enable bool
}

// Filter selects texture filtering.
type Filter uint8

const (
	FilterLinear Filter = iota
	FilterPoint
)

// AddressMode selects texture coordinate wrapping.
type AddressMode uint8

const (
	AddressWrap AddressMode = iota
	AddressClamp
	AddressMirror
)

// SamplerDesc configures a sampler.
type SamplerDesc struct {
	Filter   Filter
	AddressU AddressMode
	AddressV AddressMode
	MaxLOD   float32
}

// ShaderDesc is the source of one shader stage plus the names of the
// resources it reads. The index of a name is its binding slot.
type ShaderDesc struct {
	Stage           Stage
	Name            string
	Source          string
	ConstantBuffers []string
	Textures        []string
}

// VertexAttribute is one input to the vertex stage. Its index in the
// layout is its shader input location.
type VertexAttribute struct {
	Semantic   string
	Components int
	Offset     int
}

// InputLayoutDesc describes interleaved float vertex data.
type InputLayoutDesc struct {
	Stride     int
	Attributes []VertexAttribute
}

// Topology is the primitive assembly mode.
type Topology uint8

const (
	TriangleList Topology = iota
	LineList
)

// Viewport is the rectangle rasterization maps to.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}
