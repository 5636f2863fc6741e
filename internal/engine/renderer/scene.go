package renderer

import (
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/Faultbox/forwardlit/internal/engine/lighting"
	"github.com/Faultbox/forwardlit/internal/engine/mesh"
)

// PointLight pairs a point light with the cube drawn at its position when
// emitters are shown.
type PointLight struct {
	Light   lighting.Light
	Emitter *mesh.Mesh
}

// Scene owns everything a loaded model contributes to a frame.
type Scene struct {
	ID     uuid.UUID
	Source string
	Meshes []*mesh.Mesh
	Sun    lighting.Light
	Lights []PointLight
}

// pointLights returns the lights in upload order.
func (s *Scene) pointLights() []lighting.Light {
	out := make([]lighting.Light, len(s.Lights))
	for i, pl := range s.Lights {
		out[i] = pl.Light
	}
	return out
}

// Release frees every mesh's GPU resources, emitters last.
func (s *Scene) Release() error {
	var err error
	for _, m := range s.Meshes {
		err = multierr.Append(err, m.Release())
	}
	for _, pl := range s.Lights {
		if pl.Emitter != nil {
			err = multierr.Append(err, pl.Emitter.Release())
		}
	}
	return err
}

// Clear releases the scene and resets it to the default sun with nothing
// else in it.
func (s *Scene) Clear() error {
	err := s.Release()
	*s = Scene{Sun: lighting.DefaultSun()}
	return err
}
