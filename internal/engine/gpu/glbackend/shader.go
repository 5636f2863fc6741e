package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/forwardlit/internal/engine/gpu"
)

// Uniform block binding points are partitioned per stage so that the
// vertex and pixel slot spaces stay independent, as in D3D-style APIs.
const slotsPerStage = 8

func blockBinding(stage gpu.Stage, slot int) uint32 {
	return uint32(stage)*slotsPerStage + uint32(slot)
}

// compileShader compiles a single shader of the given stage.
func compileShader(desc gpu.ShaderDesc) (uint32, error) {
	kind := uint32(gl.VERTEX_SHADER)
	if desc.Stage == gpu.StagePixel {
		kind = gl.FRAGMENT_SHADER
	}

	id := gl.CreateShader(kind)
	csource, free := gl.Strs(desc.Source + "\x00")
	gl.ShaderSource(id, 1, csource, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, max(logLen, 1))
		gl.GetShaderInfoLog(id, logLen, nil, &log[0])
		gl.DeleteShader(id)
		return 0, fmt.Errorf("%s shader %q: %s", desc.Stage, desc.Name, string(log))
	}
	return id, nil
}

// linkProgram links two compiled stages and assigns block bindings and
// sampler units from the shader descriptions.
func linkProgram(vs, ps *shader) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vs.id)
	gl.AttachShader(program, ps.id)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, max(logLen, 1))
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link %s+%s: %s", vs.desc.Name, ps.desc.Name, string(log))
	}

	for _, s := range []*shader{vs, ps} {
		for slot, name := range s.desc.ConstantBuffers {
			idx := gl.GetUniformBlockIndex(program, gl.Str(name+"\x00"))
			if idx == gl.INVALID_INDEX {
				// Inactive blocks are optimized away; nothing to bind.
				continue
			}
			gl.UniformBlockBinding(program, idx, blockBinding(s.desc.Stage, slot))
		}
	}

	gl.UseProgram(program)
	for slot, name := range ps.desc.Textures {
		if loc := gl.GetUniformLocation(program, gl.Str(name+"\x00")); loc >= 0 {
			gl.Uniform1i(loc, int32(slot))
		}
	}
	gl.UseProgram(0)

	return program, nil
}
