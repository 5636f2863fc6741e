package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/forwardlit/internal/engine/lighting"
	"github.com/Faultbox/forwardlit/internal/engine/mesh"
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/internal/engine/transform"
	"github.com/Faultbox/forwardlit/pkg/math"
)

// Vec3 is a three component value in a scene file.
type Vec3 [3]float32

func (v Vec3) vec() math.Vec3 { return math.Vec3{X: v[0], Y: v[1], Z: v[2]} }

func (v Vec3) rgba() math.Vec4 { return math.RGBA(v[0], v[1], v[2], 1) }

// SceneFile is the schema of a YAML or TOML scene description.
//
//	meshes:
//	  - model: models/teapot.obj
//	    position: [0, 0, 0]
//	    rotation: [0, 45, 0]
//	  - primitive: cube
//	    scale: [5, 5, 5]
//	lights:
//	  - kind: directional
//	    direction: [0.8, -0.1, -0.6]
//	    diffuse: [1, 1, 1]
type SceneFile struct {
	Meshes []MeshEntry  `yaml:"meshes" toml:"meshes"`
	Lights []LightEntry `yaml:"lights" toml:"lights"`
}

// MeshEntry places a model file or a primitive. Exactly one of Model and
// Primitive is set.
type MeshEntry struct {
	Name      string         `yaml:"name" toml:"name"`
	Model     string         `yaml:"model" toml:"model"`
	Primitive string         `yaml:"primitive" toml:"primitive"`
	Position  Vec3           `yaml:"position" toml:"position"`
	Rotation  Vec3           `yaml:"rotation" toml:"rotation"`
	Scale     *Vec3          `yaml:"scale" toml:"scale"`
	Textures  TextureEntry   `yaml:"textures" toml:"textures"`
	Material  *MaterialEntry `yaml:"material" toml:"material"`
}

// TextureEntry overrides texture slots. Empty fields keep what the model set.
type TextureEntry struct {
	Albedo   string `yaml:"albedo" toml:"albedo"`
	Normal   string `yaml:"normal" toml:"normal"`
	Specular string `yaml:"specular" toml:"specular"`
}

// MaterialEntry replaces the material of every mesh the entry produces.
type MaterialEntry struct {
	Ambient   Vec3     `yaml:"ambient" toml:"ambient"`
	Diffuse   Vec3     `yaml:"diffuse" toml:"diffuse"`
	Specular  Vec3     `yaml:"specular" toml:"specular"`
	Shininess *float32 `yaml:"shininess" toml:"shininess"`
}

// LightEntry describes a directional or point light. Colors are RGB with
// an implied alpha of one.
type LightEntry struct {
	Kind        string  `yaml:"kind" toml:"kind"`
	Position    Vec3    `yaml:"position" toml:"position"`
	Direction   Vec3    `yaml:"direction" toml:"direction"`
	Ambient     Vec3    `yaml:"ambient" toml:"ambient"`
	Diffuse     Vec3    `yaml:"diffuse" toml:"diffuse"`
	Specular    Vec3    `yaml:"specular" toml:"specular"`
	Attenuation *Vec3   `yaml:"attenuation" toml:"attenuation"`
	Range       float32 `yaml:"range" toml:"range"`
}

// DefaultAttenuation is the constant, linear and quadratic falloff given to
// point lights that do not specify one.
var DefaultAttenuation = Vec3{1, 0.0014, 0.000007}

// DecodeScene parses a scene description. ext selects YAML or TOML.
// Unknown keys are errors.
func DecodeScene(data []byte, ext string) (SceneFile, error) {
	var sf SceneFile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sf); err != nil && !errors.Is(err, io.EOF) {
			return sf, fmt.Errorf("yaml: %w", err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sf); err != nil {
			return sf, fmt.Errorf("toml: %w", err)
		}
	default:
		return sf, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return sf, nil
}

func (r *Registry) importScene(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	sf, err := DecodeScene(data, filepath.Ext(path))
	if err != nil {
		return Result{}, err
	}

	dir := filepath.Dir(path)
	var res Result
	for i, e := range sf.Meshes {
		meshes, err := r.meshEntry(dir, e)
		if err != nil {
			return Result{}, fmt.Errorf("mesh %d: %w", i, err)
		}
		res.Meshes = append(res.Meshes, meshes...)
	}
	for i, e := range sf.Lights {
		l, err := e.light()
		if err != nil {
			return Result{}, fmt.Errorf("light %d: %w", i, err)
		}
		res.Lights = append(res.Lights, l)
	}
	return res, nil
}

func relative(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, filepath.FromSlash(p))
}

func (r *Registry) meshEntry(dir string, e MeshEntry) ([]*mesh.Mesh, error) {
	scale := Vec3{1, 1, 1}
	if e.Scale != nil {
		scale = *e.Scale
	}
	t := transform.New(e.Position.vec(), e.Rotation.vec(), scale.vec())

	var meshes []*mesh.Mesh
	switch {
	case e.Model != "" && e.Primitive != "":
		return nil, errors.New("model and primitive are exclusive")
	case e.Model != "":
		res, err := r.importModel(relative(dir, e.Model))
		if err != nil {
			return nil, err
		}
		meshes = res.Meshes
	case strings.EqualFold(e.Primitive, "cube"):
		meshes = []*mesh.Mesh{mesh.NewCube("cube", t, r.opts.CubeTexture)}
	case e.Primitive != "":
		return nil, fmt.Errorf("unknown primitive %q", e.Primitive)
	default:
		return nil, errors.New("entry needs a model or a primitive")
	}

	overrides := [shader.TextureSlots]string{
		shader.TextureAlbedo:   relative(dir, e.Textures.Albedo),
		shader.TextureNormal:   relative(dir, e.Textures.Normal),
		shader.TextureSpecular: relative(dir, e.Textures.Specular),
	}
	for _, m := range meshes {
		m.Transform = t
		if e.Name != "" {
			m.Name = e.Name + "/" + m.Name
		}
		for slot, p := range overrides {
			if p != "" {
				m.Textures[slot] = p
			}
		}
		if e.Material != nil {
			shininess := float32(mesh.DefaultSpecularExponent)
			if e.Material.Shininess != nil {
				shininess = *e.Material.Shininess
			}
			m.Material = mesh.Material{
				Ambient:          e.Material.Ambient.vec(),
				Diffuse:          e.Material.Diffuse.vec(),
				Specular:         e.Material.Specular.vec(),
				SpecularExponent: mesh.SpecularExponentOf(shininess),
			}
		}
	}
	return meshes, nil
}

func (e LightEntry) light() (lighting.Light, error) {
	switch strings.ToLower(e.Kind) {
	case "directional", "sun":
		return lighting.NewDirectional(e.Position.vec(),
			e.Ambient.rgba(), e.Diffuse.rgba(), e.Specular.rgba(),
			e.Direction.vec()), nil
	case "point":
		att := DefaultAttenuation
		if e.Attenuation != nil {
			att = *e.Attenuation
		}
		l := lighting.NewPoint(e.Position.vec(),
			e.Ambient.rgba(), e.Diffuse.rgba(), e.Specular.rgba(),
			att.vec())
		if e.Range > 0 {
			l.Range = e.Range
		}
		return l, nil
	default:
		return lighting.Light{}, fmt.Errorf("unknown light kind %q", e.Kind)
	}
}
