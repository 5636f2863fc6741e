package glbackend

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/forwardlit/internal/engine/gpu"
)

var compareFuncs = [...]uint32{
	gpu.CompareNever:        gl.NEVER,
	gpu.CompareLess:         gl.LESS,
	gpu.CompareEqual:        gl.EQUAL,
	gpu.CompareLessEqual:    gl.LEQUAL,
	gpu.CompareGreater:      gl.GREATER,
	gpu.CompareNotEqual:     gl.NOTEQUAL,
	gpu.CompareGreaterEqual: gl.GEQUAL,
	gpu.CompareAlways:       gl.ALWAYS,
}

var stencilOps = [...]uint32{
	gpu.StencilKeep:    gl.KEEP,
	gpu.StencilZero:    gl.ZERO,
	gpu.StencilReplace: gl.REPLACE,
	gpu.StencilIncrSat: gl.INCR,
	gpu.StencilDecrSat: gl.DECR,
	gpu.StencilInvert:  gl.INVERT,
	gpu.StencilIncr:    gl.INCR_WRAP,
	gpu.StencilDecr:    gl.DECR_WRAP,
}

var addressModes = [...]int32{
	gpu.AddressWrap:   gl.REPEAT,
	gpu.AddressClamp:  gl.CLAMP_TO_EDGE,
	gpu.AddressMirror: gl.MIRRORED_REPEAT,
}

func applyRasterizer(d gpu.RasterizerDesc) {
	if d.Fill == gpu.FillWireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	switch d.Cull {
	case gpu.CullNone:
		gl.Disable(gl.CULL_FACE)
	case gpu.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	case gpu.CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	if d.FrontCounterClockwise {
		gl.FrontFace(gl.CCW)
	} else {
		gl.FrontFace(gl.CW)
	}

	if d.DepthClip {
		gl.Disable(gl.DEPTH_CLAMP)
	} else {
		gl.Enable(gl.DEPTH_CLAMP)
	}

	if d.Multisample {
		gl.Enable(gl.MULTISAMPLE)
	} else {
		gl.Disable(gl.MULTISAMPLE)
	}
}

func applyDepthStencil(d gpu.DepthStencilDesc, ref uint32) {
	if d.DepthEnable {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(compareFuncs[d.DepthFunc])
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(d.DepthWrite)

	if !d.StencilEnable {
		gl.Disable(gl.STENCIL_TEST)
		return
	}
	gl.Enable(gl.STENCIL_TEST)
	gl.StencilMask(uint32(d.StencilWriteMask))

	// D3D-style clockwise front faces map to GL_FRONT under FrontFace(CW).
	gl.StencilFuncSeparate(gl.FRONT, compareFuncs[d.Front.Func], int32(ref), uint32(d.StencilReadMask))
	gl.StencilOpSeparate(gl.FRONT, stencilOps[d.Front.Fail], stencilOps[d.Front.DepthFail], stencilOps[d.Front.Pass])
	gl.StencilFuncSeparate(gl.BACK, compareFuncs[d.Back.Func], int32(ref), uint32(d.StencilReadMask))
	gl.StencilOpSeparate(gl.BACK, stencilOps[d.Back.Fail], stencilOps[d.Back.DepthFail], stencilOps[d.Back.Pass])
}

func applySampler(id uint32, d gpu.SamplerDesc) {
	if d.Filter == gpu.FilterPoint {
		gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_NEAREST)
		gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	} else {
		gl.SamplerParameteri(id, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.SamplerParameteri(id, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_S, addressModes[d.AddressU])
	gl.SamplerParameteri(id, gl.TEXTURE_WRAP_T, addressModes[d.AddressV])
	if d.MaxLOD > 0 {
		gl.SamplerParameterf(id, gl.TEXTURE_MAX_LOD, d.MaxLOD)
	}
}
