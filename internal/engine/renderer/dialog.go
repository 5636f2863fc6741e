package renderer

import (
	"errors"

	"github.com/sqweek/dialog"
)

// NativeModelPicker opens the system file dialog filtered to importable
// files.
func NativeModelPicker() (string, bool, error) {
	path, err := dialog.File().
		Title("Open Model").
		Filter("Models and scenes", "obj", "yaml", "yml", "toml").
		Filter("All files", "*").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}
