package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWritePNGReportsSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	img.SetRGBA(3, 4, color.RGBA{200, 10, 10, 255})
	path := filepath.Join(t.TempDir(), "view.png")

	size, err := writePNG(path, img)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, uint64(info.Size()), size)
	require.NotZero(t, size)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	decoded, err := png.Decode(file)
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestWritePNGMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "view.png")

	size, err := writePNG(path, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	require.Error(t, err)
	require.Zero(t, size)
	require.Equal(t, ErrTypeSnapshot, errors.Type(err))
}
