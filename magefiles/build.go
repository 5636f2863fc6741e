//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const binary = "bin/forwardlit"

// Compiles the viewer into bin/.
func (Build) Viewer() error {
	_, err := executeCmd("go", withArgs("build", "-o", binary, "./cmd/forwardlit"), withStream())
	return err
}

// Checks the GLSL sources with glslangValidator.
func (Build) Shaders() error {
	files, err := filepath.Glob("internal/engine/shader/glsl/*.vert")
	if err != nil {
		return err
	}
	// Pixel stages are assembled at runtime, only the vertex stage is standalone.
	for _, f := range files {
		if _, err := executeCmd("glslangValidator", withArgs(f), withStream()); err != nil {
			return err
		}
	}
	return nil
}

// Runs go mod tidy.
func (Build) Tidy() error {
	return goTidy()
}
