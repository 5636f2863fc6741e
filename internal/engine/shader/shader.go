// Package shader holds the GLSL sources of the mesh pipeline and compiles
// them into one program per shading mode.
package shader

import (
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/forwardlit/internal/engine/gpu"
	"github.com/Faultbox/forwardlit/internal/engine/lighting"
)

//go:embed glsl/mesh.vert
var meshVertexSource string

//go:embed glsl/common.glsl
var pixelCommonSource string

//go:embed glsl/lit.frag
var litSource string

//go:embed glsl/unlit.frag
var unlitSource string

//go:embed glsl/normal.frag
var normalSource string

// Uniform block names and their slots within each stage.
const (
	BlockPerObjectVS = "PerObjectVS"
	BlockPerFramePS  = "PerFramePS"
	BlockPerObjectPS = "PerObjectPS"

	SlotPerObjectVS = 0
	SlotPerFramePS  = 0
	SlotPerObjectPS = 1
)

// Texture slots of the pixel stage.
const (
	TextureAlbedo = iota
	TextureNormal
	TextureSpecular

	TextureSlots
)

// Mode selects the pixel stage used for scene meshes.
type Mode uint8

const (
	Lit Mode = iota
	Unlit
	Normal

	modeCount
)

// Modes lists every shading mode in display order.
var Modes = [...]Mode{Lit, Unlit, Normal}

func (m Mode) String() string {
	switch m {
	case Lit:
		return "lit"
	case Unlit:
		return "unlit"
	case Normal:
		return "normal"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode converts a mode name, as used in config files, to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return Lit, fmt.Errorf("unknown shading mode %q", s)
}

// VertexDesc returns the vertex stage shared by all modes.
func VertexDesc() gpu.ShaderDesc {
	return gpu.ShaderDesc{
		Stage:           gpu.StageVertex,
		Name:            "mesh.vert",
		Source:          meshVertexSource,
		ConstantBuffers: []string{SlotPerObjectVS: BlockPerObjectVS},
	}
}

// PixelDesc returns the pixel stage for a mode.
func PixelDesc(m Mode) gpu.ShaderDesc {
	var body string
	switch m {
	case Unlit:
		body = unlitSource
	case Normal:
		body = normalSource
	default:
		body = litSource
	}

	var src strings.Builder
	src.WriteString("#version 410 core\n")
	fmt.Fprintf(&src, "#define MAX_POINT_LIGHTS %d\n", lighting.MaxPointLights)
	src.WriteString(pixelCommonSource)
	src.WriteString("\n")
	src.WriteString(body)

	return gpu.ShaderDesc{
		Stage:  gpu.StagePixel,
		Name:   m.String() + ".frag",
		Source: src.String(),
		ConstantBuffers: []string{
			SlotPerFramePS:  BlockPerFramePS,
			SlotPerObjectPS: BlockPerObjectPS,
		},
		Textures: []string{
			TextureAlbedo:   "uAlbedo",
			TextureNormal:   "uNormalMap",
			TextureSpecular: "uSpecularMap",
		},
	}
}

// Programs is the set of linked programs, one per Mode, sharing a vertex stage.
type Programs struct {
	vs       gpu.Shader
	ps       [modeCount]gpu.Shader
	programs [modeCount]gpu.Program
}

// Compile builds every mode's program on dev. On failure everything created
// so far is released.
func Compile(dev gpu.Device) (*Programs, error) {
	p := &Programs{}
	fail := func(err error) (*Programs, error) {
		return nil, multierr.Append(err, p.Release())
	}

	var err error
	if p.vs, err = dev.CompileShader(VertexDesc()); err != nil {
		return fail(fmt.Errorf("compile vertex stage: %w", err))
	}
	for _, m := range Modes {
		if p.ps[m], err = dev.CompileShader(PixelDesc(m)); err != nil {
			return fail(fmt.Errorf("compile %s pixel stage: %w", m, err))
		}
		if p.programs[m], err = dev.LinkProgram(p.vs, p.ps[m]); err != nil {
			return fail(fmt.Errorf("link %s program: %w", m, err))
		}
	}
	return p, nil
}

// Program returns the program for m, falling back to Lit for unknown modes.
func (p *Programs) Program(m Mode) gpu.Program {
	if m >= modeCount {
		m = Lit
	}
	return p.programs[m]
}

// Release destroys programs before the stages they were linked from.
func (p *Programs) Release() error {
	var err error
	for i := len(p.programs) - 1; i >= 0; i-- {
		if p.programs[i] != nil {
			err = multierr.Append(err, p.programs[i].Release())
			p.programs[i] = nil
		}
	}
	for i := len(p.ps) - 1; i >= 0; i-- {
		if p.ps[i] != nil {
			err = multierr.Append(err, p.ps[i].Release())
			p.ps[i] = nil
		}
	}
	if p.vs != nil {
		err = multierr.Append(err, p.vs.Release())
		p.vs = nil
	}
	return err
}
