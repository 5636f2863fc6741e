//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and starts the viewer in a window.
func (Run) Viewer() error {
	mg.Deps(Build.Viewer)
	fmt.Println("Run viewer...")
	_, err := executeCmd(binary, withArgs("-windowed", "-debug"), withStream())
	return err
}
