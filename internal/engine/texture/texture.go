// Package texture decodes image files into RGBA pixels ready for upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/forwardlit/internal/logger"
)

// ErrUnknownFormat is returned when neither the content nor the extension
// identifies a supported image format.
var ErrUnknownFormat = errors.New("texture: unknown image format")

// Loader decodes textures from disk. Decoded images are cached by cleaned
// path, so meshes sharing a texture decode it once.
type Loader struct {
	// FlipV mirrors rows so that v=0 is the bottom of the image, matching
	// the texture coordinates produced by the loader and cube geometry.
	FlipV bool

	cache map[string]*image.RGBA
}

// NewLoader returns a loader that flips images for GL upload.
func NewLoader() *Loader {
	return &Loader{FlipV: true, cache: make(map[string]*image.RGBA)}
}

// Load reads and decodes the image at path.
func (l *Loader) Load(path string) (*image.RGBA, error) {
	key := filepath.Clean(path)
	if img, ok := l.cache[key]; ok {
		return img, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texture: %w", err)
	}
	img, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if l.FlipV {
		img = transform.FlipV(img)
	}

	logger.Log.Debug("texture loaded",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))

	if l.cache == nil {
		l.cache = make(map[string]*image.RGBA)
	}
	l.cache[key] = img
	return img, nil
}

// Forget drops every cached image.
func (l *Loader) Forget() {
	clear(l.cache)
}

// Decode converts encoded image bytes to RGBA. The format is sniffed from
// the content; ext is only consulted for TGA, which has no magic number.
func Decode(data []byte, ext string) (*image.RGBA, error) {
	kind, _ := filetype.Match(data)
	if kind == filetype.Unknown || !filetype.IsImage(data) {
		if strings.EqualFold(ext, ".tga") {
			return DecodeTGA(data)
		}
		return nil, ErrUnknownFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind.Extension, err)
	}
	return clone.AsRGBA(img), nil
}
