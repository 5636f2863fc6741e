// Package mesh implements drawable meshes and their GPU resources.
package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/forwardlit/internal/engine/gpu"
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/internal/engine/transform"
	"github.com/Faultbox/forwardlit/internal/logger"
)

// ErrNotInitialized is returned by Draw before InitGpuResources succeeded.
var ErrNotInitialized = errors.New("mesh: GPU resources not initialized")

// TextureSource decodes an image file for upload.
type TextureSource interface {
	Load(path string) (*image.RGBA, error)
}

// Mesh is an indexed triangle list with a material, optional textures and
// a transform. GPU resources are created per device by InitGpuResources.
type Mesh struct {
	ID        uuid.UUID
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	Material  Material
	Textures  TexturePaths
	Transform transform.Transform

	vertexBuffer gpu.Buffer
	indexBuffer  gpu.Buffer
	textures     [shader.TextureSlots]gpu.Texture
	sampler      gpu.Sampler
}

// New creates a mesh with the default material and an identity transform.
func New(name string, vertices []Vertex, indices []uint32) *Mesh {
	return &Mesh{
		ID:        uuid.New(),
		Name:      name,
		Vertices:  vertices,
		Indices:   indices,
		Material:  DefaultMaterial(),
		Transform: transform.Identity(),
	}
}

// Ready reports whether the mesh can be drawn.
func (m *Mesh) Ready() bool {
	return m.vertexBuffer != nil && m.indexBuffer != nil
}

// InitGpuResources uploads textures and geometry. A texture that cannot be
// loaded clears its path and is skipped. Failing to create a buffer is fatal
// for the mesh: everything acquired so far is released and the error returned.
func (m *Mesh) InitGpuResources(dev gpu.Device, src TextureSource) error {
	if m.Ready() {
		return fmt.Errorf("mesh %q: GPU resources already initialized", m.Name)
	}
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("mesh %q: no geometry", m.Name)
	}

	m.initTextures(dev, src)

	if m.anyTexture() {
		s, err := dev.CreateSampler(gpu.SamplerDesc{
			Filter:   gpu.FilterLinear,
			AddressU: gpu.AddressWrap,
			AddressV: gpu.AddressWrap,
		})
		if err != nil {
			return m.fail(fmt.Errorf("mesh %q: create sampler: %w", m.Name, err))
		}
		m.sampler = s
	}

	vb, err := dev.CreateBuffer(gpu.BufferDesc{
		Kind:      gpu.VertexBuffer,
		Size:      len(m.Vertices) * VertexStride,
		Immutable: true,
	}, vertexBytes(m.Vertices))
	if err != nil {
		return m.fail(fmt.Errorf("mesh %q: create vertex buffer: %w", m.Name, err))
	}
	m.vertexBuffer = vb

	ib, err := dev.CreateBuffer(gpu.BufferDesc{
		Kind:      gpu.IndexBuffer,
		Size:      len(m.Indices) * 4,
		Immutable: true,
	}, indexBytes(m.Indices))
	if err != nil {
		return m.fail(fmt.Errorf("mesh %q: create index buffer: %w", m.Name, err))
	}
	m.indexBuffer = ib

	return nil
}

func (m *Mesh) initTextures(dev gpu.Device, src TextureSource) {
	for slot, path := range m.Textures {
		if path == "" {
			continue
		}
		var (
			img *image.RGBA
			err error
		)
		if src == nil {
			err = errors.New("no texture source")
		} else {
			img, err = src.Load(path)
		}
		if err == nil {
			m.textures[slot], err = dev.CreateTexture(img)
		}
		if err != nil {
			logger.Warn("texture unavailable, slot left unbound",
				zap.String("mesh", m.Name),
				zap.String("path", path),
				zap.Int("slot", slot),
				zap.Error(err),
			)
			m.Textures[slot] = ""
			m.textures[slot] = nil
		}
	}
}

func (m *Mesh) anyTexture() bool {
	for _, t := range m.textures {
		if t != nil {
			return true
		}
	}
	return false
}

func (m *Mesh) fail(err error) error {
	return multierr.Append(err, m.Release())
}

// TextureFlags reports, per slot, whether a texture is bound (1) or not (0).
// The pixel stage uses it to skip sampling unbound slots.
func (m *Mesh) TextureFlags() [4]float32 {
	var f [4]float32
	for slot, path := range m.Textures {
		if path != "" && m.textures[slot] != nil {
			f[slot] = 1
		}
	}
	return f
}

// Draw binds the mesh geometry and textures and issues one indexed draw.
func (m *Mesh) Draw(dev gpu.Device) error {
	if !m.Ready() {
		return fmt.Errorf("draw %q: %w", m.Name, ErrNotInitialized)
	}
	dev.BindVertexBuffer(m.vertexBuffer, VertexStride)
	dev.BindIndexBuffer(m.indexBuffer)
	for slot, path := range m.Textures {
		if path == "" || m.textures[slot] == nil {
			continue
		}
		dev.BindTexture(slot, m.textures[slot])
		dev.BindSampler(slot, m.sampler)
	}
	dev.DrawIndexed(len(m.Indices))
	return nil
}

// Release frees GPU resources in reverse acquisition order. Every handle is
// dropped even when a release fails.
func (m *Mesh) Release() error {
	var err error
	if m.indexBuffer != nil {
		err = multierr.Append(err, m.indexBuffer.Release())
		m.indexBuffer = nil
	}
	if m.vertexBuffer != nil {
		err = multierr.Append(err, m.vertexBuffer.Release())
		m.vertexBuffer = nil
	}
	if m.sampler != nil {
		err = multierr.Append(err, m.sampler.Release())
		m.sampler = nil
	}
	for i := len(m.textures) - 1; i >= 0; i-- {
		if m.textures[i] != nil {
			err = multierr.Append(err, m.textures[i].Release())
			m.textures[i] = nil
		}
	}
	return err
}

func vertexBytes(vertices []Vertex) []byte {
	buf := make([]byte, 0, len(vertices)*VertexStride)
	for _, v := range vertices {
		buf, _ = binary.Append(buf, binary.LittleEndian, v)
	}
	return buf
}

func indexBytes(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}
