// Package loader imports scene content from files: Wavefront OBJ models and
// YAML/TOML scene descriptions that place models, primitives and lights.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/forwardlit/internal/engine/lighting"
	"github.com/Faultbox/forwardlit/internal/engine/mesh"
	"github.com/Faultbox/forwardlit/internal/logger"
)

// ErrUnsupportedFormat is returned for files whose extension has no importer.
var ErrUnsupportedFormat = errors.New("loader: unsupported format")

// Result is everything one import produced. Meshes have no GPU resources yet.
type Result struct {
	ID     uuid.UUID
	Source string
	Meshes []*mesh.Mesh
	Lights []lighting.Light
}

// Empty reports whether the import produced nothing.
func (r Result) Empty() bool {
	return len(r.Meshes) == 0 && len(r.Lights) == 0
}

// Importer reads one file format.
type Importer interface {
	Import(path string) (Result, error)
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(path string) (Result, error)

// Import calls f.
func (f ImporterFunc) Import(path string) (Result, error) { return f(path) }

// Options tune how imported content is filled in.
type Options struct {
	// DefaultTexture is bound as albedo for materials that name none.
	DefaultTexture string
	// CubeTexture is the albedo of cube primitives without an explicit one.
	CubeTexture string
}

// Registry maps lower-case file extensions to importers.
type Registry struct {
	opts      Options
	importers map[string]Importer
	scenes    map[string]bool
}

// NewRegistry returns a registry with the OBJ and scene description importers.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		opts:      opts,
		importers: make(map[string]Importer),
		scenes:    make(map[string]bool),
	}
	r.Register(".obj", ImporterFunc(r.importOBJ))
	for _, ext := range []string{".yaml", ".yml", ".toml"} {
		r.Register(ext, ImporterFunc(r.importScene))
		r.scenes[ext] = true
	}
	return r
}

// Register adds or replaces the importer for ext.
func (r *Registry) Register(ext string, imp Importer) {
	r.importers[strings.ToLower(ext)] = imp
}

// Extensions lists the registered extensions.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.importers))
	for ext := range r.importers {
		exts = append(exts, ext)
	}
	return exts
}

func (r *Registry) lookup(path string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	imp, ok := r.importers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return imp, nil
}

// Load imports path. On any failure the returned Result is empty; partial
// content is never handed out.
func (r *Registry) Load(path string) (Result, error) {
	imp, err := r.lookup(path)
	if err != nil {
		return Result{}, err
	}
	res, err := imp.Import(path)
	if err != nil {
		return Result{}, fmt.Errorf("import %s: %w", path, err)
	}
	res.ID = uuid.New()
	res.Source = path

	logger.Log.Info("scene imported",
		zap.String("path", path),
		zap.Stringer("id", res.ID),
		zap.Int("meshes", len(res.Meshes)),
		zap.Int("lights", len(res.Lights)))
	return res, nil
}

// importModel loads a model referenced from a scene description. Scene
// files cannot include other scene files.
func (r *Registry) importModel(path string) (Result, error) {
	if r.scenes[strings.ToLower(filepath.Ext(path))] {
		return Result{}, fmt.Errorf("%w: nested scene %s", ErrUnsupportedFormat, path)
	}
	imp, err := r.lookup(path)
	if err != nil {
		return Result{}, err
	}
	return imp.Import(path)
}
