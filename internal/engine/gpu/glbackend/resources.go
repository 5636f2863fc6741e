package glbackend

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/forwardlit/internal/engine/gpu"
)

type buffer struct {
	dev  *Device
	id   uint32
	desc gpu.BufferDesc
}

func (b *buffer) Desc() gpu.BufferDesc { return b.desc }

func (b *buffer) Release() error {
	if b.id == 0 {
		return nil
	}
	gl.DeleteBuffers(1, &b.id)
	b.id = 0
	b.dev.live--
	return nil
}

type texture struct {
	dev           *Device
	id            uint32
	width, height int
}

func (t *texture) Size() (int, int) { return t.width, t.height }

func (t *texture) Release() error {
	if t.id == 0 {
		return nil
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
	t.dev.live--
	return nil
}

type sampler struct {
	dev *Device
	id  uint32
}

func (s *sampler) Release() error {
	if s.id == 0 {
		return nil
	}
	gl.DeleteSamplers(1, &s.id)
	s.id = 0
	s.dev.live--
	return nil
}

type shader struct {
	dev  *Device
	id   uint32
	desc gpu.ShaderDesc
}

func (s *shader) Stage() gpu.Stage { return s.desc.Stage }
func (s *shader) Name() string     { return s.desc.Name }

func (s *shader) Release() error {
	if s.id == 0 {
		return nil
	}
	gl.DeleteShader(s.id)
	s.id = 0
	s.dev.live--
	return nil
}

type program struct {
	dev *Device
	id  uint32
}

func (p *program) Release() error {
	if p.id == 0 {
		return nil
	}
	gl.DeleteProgram(p.id)
	p.id = 0
	p.dev.live--
	return nil
}

// State objects have no GL counterpart; they are applied on Set.
type (
	rasterizerState   struct{ desc gpu.RasterizerDesc }
	depthStencilState struct{ desc gpu.DepthStencilDesc }
	inputLayout       struct{ desc gpu.InputLayoutDesc }
	blendState        struct{ desc gpu.BlendDesc }
)

func (*rasterizerState) Release() error   { return nil }
func (*depthStencilState) Release() error { return nil }
func (*inputLayout) Release() error       { return nil }
func (*blendState) Release() error        { return nil }

// renderTarget is a view of the back buffer.
type renderTarget struct {
	bb *backBuffer
}

func (r *renderTarget) Size() (int, int) { return int(r.bb.width), int(r.bb.height) }
func (*renderTarget) Release() error     { return nil }

type depthStencilView struct {
	dev           *Device
	rbo           uint32
	width, height int
}

func (d *depthStencilView) Size() (int, int) { return d.width, d.height }

func (d *depthStencilView) Release() error {
	if d.rbo == 0 {
		return nil
	}
	gl.DeleteRenderbuffers(1, &d.rbo)
	d.rbo = 0
	d.dev.live--
	return nil
}
