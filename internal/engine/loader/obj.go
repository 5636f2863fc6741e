package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/forwardlit/internal/engine/mesh"
	"github.com/Faultbox/forwardlit/internal/engine/shader"
	"github.com/Faultbox/forwardlit/internal/logger"
	"github.com/Faultbox/forwardlit/pkg/math"
)

const absent = -1

// objMaterial is one newmtl block.
type objMaterial struct {
	ambient, diffuse, specular math.Vec3
	shininess                  float32
	textures                   mesh.TexturePaths
}

func newObjMaterial() *objMaterial {
	d := mesh.DefaultMaterial()
	return &objMaterial{
		ambient:   d.Ambient,
		diffuse:   d.Diffuse,
		specular:  d.Specular,
		shininess: -1,
	}
}

// faceVertex indexes position, uv and normal; absent marks a missing part.
type faceVertex struct {
	v, vt, vn int
}

type groupKey struct {
	object, material string
}

// objGroup collects the triangles of one object drawn with one material.
type objGroup struct {
	key       groupKey
	vertices  []mesh.Vertex
	indices   []uint32
	lookup    map[faceVertex]uint32
	smoothing []bool
}

// objDecoder holds the state of one OBJ parse.
type objDecoder struct {
	dir string

	positions []math.Vec3
	normals   []math.Vec3
	uvs       [][2]float32

	matlibs   []string
	materials map[string]*objMaterial

	groups  []*objGroup
	byKey   map[groupKey]*objGroup
	object  string
	usemtl  string
	line    int
	ignored map[string]int
}

func (r *Registry) importOBJ(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	dec := &objDecoder{
		dir:       filepath.Dir(path),
		materials: make(map[string]*objMaterial),
		byKey:     make(map[groupKey]*objGroup),
		object:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		ignored:   make(map[string]int),
	}
	if err := dec.parse(f, dec.objLine); err != nil {
		return Result{}, fmt.Errorf("obj line %d: %w", dec.line, err)
	}
	for _, lib := range dec.matlibs {
		dec.loadMaterialLibrary(lib)
	}
	if len(dec.ignored) > 0 {
		logger.Log.Debug("obj keywords ignored", zap.String("path", path), zap.Any("counts", dec.ignored))
	}
	return Result{Meshes: dec.meshes(r.opts)}, nil
}

// parse feeds trimmed, non-empty, non-comment lines to fn.
func (dec *objDecoder) parse(rd io.Reader, fn func(keyword string, fields []string) error) error {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	dec.line = 0
	for sc.Scan() {
		dec.line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := fn(fields[0], fields[1:]); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (dec *objDecoder) objLine(keyword string, fields []string) error {
	switch keyword {
	case "v":
		p, err := parseVec3(fields)
		if err != nil {
			return err
		}
		dec.positions = append(dec.positions, p)
	case "vn":
		n, err := parseVec3(fields)
		if err != nil {
			return err
		}
		dec.normals = append(dec.normals, n)
	case "vt":
		if len(fields) < 2 {
			return errors.New("vt needs two components")
		}
		u, err := strconv.ParseFloat(fields[0], 32)
		if err != nil {
			return err
		}
		v, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return err
		}
		dec.uvs = append(dec.uvs, [2]float32{float32(u), float32(v)})
	case "f":
		return dec.face(fields)
	case "o", "g":
		if len(fields) > 0 {
			dec.object = strings.Join(fields, " ")
		}
	case "usemtl":
		if len(fields) < 1 {
			return errors.New("usemtl without a name")
		}
		dec.usemtl = fields[0]
	case "mtllib":
		dec.matlibs = append(dec.matlibs, fields...)
	default:
		dec.ignored[keyword]++
	}
	return nil
}

func (dec *objDecoder) group() *objGroup {
	key := groupKey{object: dec.object, material: dec.usemtl}
	if g, ok := dec.byKey[key]; ok {
		return g
	}
	g := &objGroup{key: key, lookup: make(map[faceVertex]uint32)}
	dec.byKey[key] = g
	dec.groups = append(dec.groups, g)
	return g
}

// resolve turns a 1-based or negative relative OBJ index into a 0-based one.
func resolve(field string, count int) (int, error) {
	i, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, errors.New("index 0 is not valid")
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index %s out of range (%d elements)", field, count)
	}
	return i, nil
}

func (dec *objDecoder) faceVertex(field string) (faceVertex, error) {
	fv := faceVertex{v: absent, vt: absent, vn: absent}
	parts := strings.Split(field, "/")

	var err error
	if fv.v, err = resolve(parts[0], len(dec.positions)); err != nil {
		return fv, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if fv.vt, err = resolve(parts[1], len(dec.uvs)); err != nil {
			return fv, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if fv.vn, err = resolve(parts[2], len(dec.normals)); err != nil {
			return fv, err
		}
	}
	return fv, nil
}

// face triangulates a polygon as a fan around its first vertex. Triangles
// are emitted in reverse order to keep front faces clockwise after the Z
// mirror applied in vertex.
func (dec *objDecoder) face(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face with %d vertices", len(fields))
	}
	g := dec.group()
	idx := make([]uint32, len(fields))
	for i, f := range fields {
		fv, err := dec.faceVertex(f)
		if err != nil {
			return err
		}
		idx[i] = g.vertex(dec, fv)
	}
	for i := 2; i < len(idx); i++ {
		g.indices = append(g.indices, idx[0], idx[i], idx[i-1])
	}
	return nil
}

// vertex returns the index of fv in the group, adding it on first use.
// OBJ is right-handed; positions and normals get Z negated to land in the
// renderer's left-handed space.
func (g *objGroup) vertex(dec *objDecoder, fv faceVertex) uint32 {
	if i, ok := g.lookup[fv]; ok {
		return i
	}
	p := dec.positions[fv.v]
	v := mesh.Vertex{Position: math.Vec3{X: p.X, Y: p.Y, Z: -p.Z}}
	if fv.vt != absent {
		v.TexCoord = dec.uvs[fv.vt]
	}
	if fv.vn != absent {
		n := dec.normals[fv.vn]
		v.Normal = math.Vec3{X: n.X, Y: n.Y, Z: -n.Z}
	}
	i := uint32(len(g.vertices))
	g.vertices = append(g.vertices, v)
	g.smoothing = append(g.smoothing, fv.vn == absent)
	g.lookup[fv] = i
	return i
}

// fillNormals gives vertices without a file normal the area-weighted
// average of the faces around them.
func (g *objGroup) fillNormals() {
	need := false
	for _, s := range g.smoothing {
		need = need || s
	}
	if !need {
		return
	}
	for t := 0; t+2 < len(g.indices); t += 3 {
		a, b, c := g.indices[t], g.indices[t+1], g.indices[t+2]
		pa, pb, pc := g.vertices[a].Position, g.vertices[b].Position, g.vertices[c].Position
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		for _, i := range [3]uint32{a, b, c} {
			if g.smoothing[i] {
				g.vertices[i].Normal = g.vertices[i].Normal.Add(n)
			}
		}
	}
	for i, s := range g.smoothing {
		if s {
			g.vertices[i].Normal = g.vertices[i].Normal.Normalize()
		}
	}
}

func (dec *objDecoder) meshes(opts Options) []*mesh.Mesh {
	out := make([]*mesh.Mesh, 0, len(dec.groups))
	for _, g := range dec.groups {
		if len(g.indices) == 0 {
			continue
		}
		g.fillNormals()
		mesh.GenerateTangents(g.vertices, g.indices)

		name := g.key.object
		if g.key.material != "" {
			name += "/" + g.key.material
		}
		m := mesh.New(name, g.vertices, g.indices)

		mat, ok := dec.materials[g.key.material]
		if !ok {
			if g.key.material != "" {
				logger.Log.Warn("material not found, using default",
					zap.String("material", g.key.material), zap.String("mesh", name))
			}
			mat = newObjMaterial()
		}
		m.Material = mesh.Material{
			Ambient:          mat.ambient,
			Diffuse:          mat.diffuse,
			Specular:         mat.specular,
			SpecularExponent: mesh.SpecularExponentOf(mat.shininess),
		}
		m.Textures = mat.textures
		if m.Textures[shader.TextureAlbedo] == "" {
			m.Textures[shader.TextureAlbedo] = opts.DefaultTexture
		}
		out = append(out, m)
	}
	return out
}

// loadMaterialLibrary parses an MTL file. A missing or malformed library
// leaves its materials undefined, and meshes fall back to the default.
func (dec *objDecoder) loadMaterialLibrary(name string) {
	path := dec.resolvePath(name)
	f, err := os.Open(path)
	if err != nil {
		logger.Log.Warn("material library unavailable", zap.String("path", path), zap.Error(err))
		return
	}
	defer f.Close()

	var current *objMaterial
	err = dec.parse(f, func(keyword string, fields []string) error {
		if keyword == "newmtl" {
			if len(fields) < 1 {
				return errors.New("newmtl without a name")
			}
			current = newObjMaterial()
			dec.materials[fields[0]] = current
			return nil
		}
		if current == nil {
			return fmt.Errorf("%s before newmtl", keyword)
		}
		return dec.mtlLine(current, keyword, fields)
	})
	if err != nil {
		logger.Log.Warn("material library malformed",
			zap.String("path", path), zap.Int("line", dec.line), zap.Error(err))
	}
}

func (dec *objDecoder) mtlLine(m *objMaterial, keyword string, fields []string) error {
	var err error
	switch keyword {
	case "Ka":
		m.ambient, err = parseVec3(fields)
	case "Kd":
		m.diffuse, err = parseVec3(fields)
	case "Ks":
		m.specular, err = parseVec3(fields)
	case "Ns":
		if len(fields) < 1 {
			return errors.New("Ns without a value")
		}
		var ns float64
		ns, err = strconv.ParseFloat(fields[0], 32)
		m.shininess = float32(ns)
	case "map_Kd":
		m.textures[shader.TextureAlbedo] = dec.mapPath(fields)
	case "map_Bump", "map_bump", "bump", "norm":
		m.textures[shader.TextureNormal] = dec.mapPath(fields)
	case "map_Ks":
		m.textures[shader.TextureSpecular] = dec.mapPath(fields)
	default:
		dec.ignored[keyword]++
	}
	return err
}

// mapPath takes the file name of a map_* statement; options such as
// "-bm 0.5" precede it.
func (dec *objDecoder) mapPath(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	return dec.resolvePath(fields[len(fields)-1])
}

func (dec *objDecoder) resolvePath(name string) string {
	name = filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dec.dir, name)
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var c [3]float32
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, err
		}
		c[i] = float32(f)
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}
