package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/forwardlit/internal/engine/lighting"
	"github.com/Faultbox/forwardlit/internal/engine/mesh"
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/pkg/math"
)

const quadOBJ = `# two materials, one quad each
mtllib quad.mtl
v -1 -1 0
v  1 -1 0
v  1  1 0
v -1  1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
o Quad
usemtl brick
f 1/1/1 2/2/1 3/3/1 4/4/1
usemtl plain
f -4/-4 -3/-3 -2/-2
`

const quadMTL = `newmtl brick
Ka 0 0 0
Kd 0.5 0.25 0.125
Ks 1 1 1
Ns 32
map_Kd -bm 1 textures\brick.png
map_Bump brick_n.png
newmtl plain
Kd 1 1 1
Ns -1
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

func TestImportOBJ(t *testing.T) {
	dir := writeFiles(t, map[string]string{"quad.obj": quadOBJ, "quad.mtl": quadMTL})
	r := NewRegistry(Options{DefaultTexture: "default.png"})

	res, err := r.Load(filepath.Join(dir, "quad.obj"))
	require.NoError(t, err)
	require.Len(t, res.Meshes, 2)
	assert.Empty(t, res.Lights)
	assert.NotEqual(t, res.Meshes[0].ID, res.Meshes[1].ID)

	brick := res.Meshes[0]
	assert.Equal(t, "Quad/brick", brick.Name)
	assert.Len(t, brick.Vertices, 4)
	assert.Equal(t, []uint32{0, 2, 1, 0, 3, 2}, brick.Indices)
	assert.Equal(t, math.Vec3{X: 0.5, Y: 0.25, Z: 0.125}, brick.Material.Diffuse)
	assert.Equal(t, float32(32), brick.Material.SpecularExponent)
	assert.Equal(t, filepath.Join(dir, "textures", "brick.png"), brick.Textures.Albedo())
	assert.Equal(t, filepath.Join(dir, "brick_n.png"), brick.Textures.Normal())
	assert.Empty(t, brick.Textures.Specular())

	// Z is mirrored into left-handed space.
	assert.Equal(t, math.Vec3{Z: -1}, brick.Vertices[0].Normal)
	assert.Equal(t, [2]float32{1, 1}, brick.Vertices[2].TexCoord)

	plain := res.Meshes[1]
	assert.Len(t, plain.Indices, 3)
	assert.Equal(t, float32(mesh.DefaultSpecularExponent), plain.Material.SpecularExponent)
	assert.Equal(t, "default.png", plain.Textures.Albedo())
}

func TestImportOBJComputesMissingNormals(t *testing.T) {
	dir := writeFiles(t, map[string]string{"tri.obj": "v 0 0 0\nv 0 1 0\nv 1 0 0\nf 1 2 3\n"})
	res, err := NewRegistry(Options{}).Load(filepath.Join(dir, "tri.obj"))
	require.NoError(t, err)
	require.Len(t, res.Meshes, 1)

	m := res.Meshes[0]
	assert.Equal(t, mesh.DefaultMaterial(), m.Material)
	for _, v := range m.Vertices {
		assert.True(t, v.Normal.ApproxEqual(math.Vec3{Z: 1}, 1e-5), "normal %v", v.Normal)
	}
}

func TestImportOBJMissingLibraryUsesDefault(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"lonely.obj": "mtllib nowhere.mtl\nv 0 0 0\nv 0 1 0\nv 1 0 0\nusemtl ghost\nf 1 2 3\n",
	})
	res, err := NewRegistry(Options{}).Load(filepath.Join(dir, "lonely.obj"))
	require.NoError(t, err)
	require.Len(t, res.Meshes, 1)
	assert.Equal(t, mesh.DefaultMaterial(), res.Meshes[0].Material)
}

func TestImportOBJErrorsLeaveResultEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"zero.obj":  "v 0 0 0\nv 0 1 0\nv 1 0 0\nf 0 1 2\n",
		"range.obj": "v 0 0 0\nf 1 2 3\n",
		"short.obj": "v 0 0\n",
		"line.obj":  "v 0 0 0\nv 0 1 0\nf 1 2\n",
	} {
		dir := writeFiles(t, map[string]string{name: body})
		res, err := NewRegistry(Options{}).Load(filepath.Join(dir, name))
		assert.Error(t, err, name)
		assert.True(t, res.Empty(), name)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	res, err := NewRegistry(Options{}).Load("scene.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.True(t, res.Empty())
}

func TestMissingFile(t *testing.T) {
	res, err := NewRegistry(Options{}).Load(filepath.Join(t.TempDir(), "gone.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, res.Empty())
}

const sceneYAML = `
meshes:
  - name: floor
    model: models/quad.obj
    position: [0, -1, 0]
    rotation: [90, 0, 0]
    scale: [10, 10, 10]
    textures:
      specular: spec.png
  - primitive: cube
    position: [3, 0, 0]
    material:
      ambient: [0.1, 0.1, 0.1]
      diffuse: [1, 0, 0]
      specular: [1, 1, 1]
lights:
  - kind: directional
    direction: [0, -1, 0]
    diffuse: [1, 1, 1]
    specular: [1, 1, 1]
  - kind: point
    position: [0, 10, 0]
    diffuse: [0, 1, 0]
    range: 50
`

func TestImportYAMLScene(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"scene.yaml":      sceneYAML,
		"models/quad.obj": quadOBJ,
		"models/quad.mtl": quadMTL,
	})
	r := NewRegistry(Options{CubeTexture: "cube.png"})

	res, err := r.Load(filepath.Join(dir, "scene.yaml"))
	require.NoError(t, err)
	require.Len(t, res.Meshes, 3)
	require.Len(t, res.Lights, 2)

	floor := res.Meshes[0]
	assert.Equal(t, "floor/Quad/brick", floor.Name)
	assert.Equal(t, math.Vec3{Y: -1}, floor.Transform.Position())
	assert.Equal(t, math.Vec3{X: 10, Y: 10, Z: 10}, floor.Transform.Scale())
	assert.Equal(t, filepath.Join(dir, "spec.png"), floor.Textures[shader.TextureSpecular])
	assert.Equal(t, filepath.Join(dir, "models", "textures", "brick.png"), floor.Textures.Albedo())

	cube := res.Meshes[2]
	assert.Len(t, cube.Vertices, 24)
	assert.Equal(t, "cube.png", cube.Textures.Albedo())
	assert.Equal(t, math.Vec3{X: 3}, cube.Transform.Position())
	assert.Equal(t, math.Vec3{X: 1}, cube.Material.Diffuse)
	assert.Equal(t, float32(mesh.DefaultSpecularExponent), cube.Material.SpecularExponent)

	sun := res.Lights[0]
	assert.Equal(t, lighting.Directional, sun.Kind)
	assert.True(t, sun.Ambient.IsZeroRGB(), "ambient boost is applied by the renderer")

	point := res.Lights[1]
	assert.Equal(t, lighting.Point, point.Kind)
	assert.Equal(t, float32(50), point.Range)
	assert.Equal(t, DefaultAttenuation.vec(), point.Attenuation)
	assert.Equal(t, math.RGBA(0, 1, 0, 1), point.Diffuse)
}

func TestImportTOMLScene(t *testing.T) {
	dir := writeFiles(t, map[string]string{"scene.toml": `
[[meshes]]
primitive = "cube"
scale = [5.0, 5.0, 5.0]

[[lights]]
kind = "point"
position = [-100.0, 100.0, 0.0]
diffuse = [1.0, 0.0, 0.0]
attenuation = [1.0, 0.01, 0.001]
`})
	res, err := NewRegistry(Options{}).Load(filepath.Join(dir, "scene.toml"))
	require.NoError(t, err)
	require.Len(t, res.Meshes, 1)
	require.Len(t, res.Lights, 1)
	assert.Equal(t, math.Vec3{X: 5, Y: 5, Z: 5}, res.Meshes[0].Transform.Scale())
	assert.Equal(t, float32(lighting.DefaultPointRange), res.Lights[0].Range)
	assert.InDelta(t, 0.01, res.Lights[0].Attenuation.Y, 1e-6)
}

func TestSceneFailuresAreAtomic(t *testing.T) {
	cases := map[string]string{
		"unknown.yaml":   "meshes:\n  - primitive: cube\n    colour: red\n",
		"kind.yaml":      "meshes:\n  - primitive: cube\nlights:\n  - kind: spot\n",
		"model.yaml":     "meshes:\n  - primitive: cube\n  - model: missing.obj\n",
		"nested.yaml":    "meshes:\n  - model: other.toml\n",
		"exclusive.toml": "[[meshes]]\nmodel = \"a.obj\"\nprimitive = \"cube\"\n",
		"empty.toml":     "[[meshes]]\nname = \"nothing\"\n",
	}
	for name, body := range cases {
		dir := writeFiles(t, map[string]string{name: body})
		res, err := NewRegistry(Options{}).Load(filepath.Join(dir, name))
		assert.Error(t, err, name)
		assert.True(t, res.Empty(), name)
	}
}

func TestEmptyYAMLScene(t *testing.T) {
	dir := writeFiles(t, map[string]string{"blank.yml": ""})
	res, err := NewRegistry(Options{}).Load(filepath.Join(dir, "blank.yml"))
	require.NoError(t, err)
	assert.True(t, res.Empty())
}
