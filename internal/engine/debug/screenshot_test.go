package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 250*int(time.Millisecond), time.UTC)
}

func TestGenerateFilename(t *testing.T) {
	sc := NewScreenshotCapture("shots", "forwardlit")
	sc.SetClock(fixedClock)

	assert.Equal(t, filepath.Join("shots", "forwardlit_2024-03-09_14-05-07.250.png"), sc.GenerateFilename())

	sc.SetOutputDir("")
	assert.Equal(t, "forwardlit_2024-03-09_14-05-07.250.png", sc.GenerateFilename())
}

func TestSaveWritesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultScreenshotDir)
	sc := NewScreenshotCapture(dir, "shot")
	sc.SetClock(fixedClock)

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	path, err := sc.Save(img)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
	r, _, _, a := decoded.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), a)
}

func TestSaveFailsOnUnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	sc := NewScreenshotCapture(filepath.Join(blocker, "sub"), "shot")
	_, err := sc.Save(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.Error(t, err)
}
