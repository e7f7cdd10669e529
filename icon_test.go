package main

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconImageLoad(t *testing.T) {
	icons := writeImages(t, 1, 40, 30)
	img := icons[0].NewIconImage(FitFast(image.Rect(0, 0, 20, 20)))

	fitted, err := img.Fitted()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 15), fitted.Bounds())
	assert.Equal(t, image.Pt(40, 30), img.bounds)
	assert.Empty(t, img.exifInfo, "png files have no exif")
	assert.Equal(t, red, fitted.RGBAAt(10, 7))

	img.Unload()
	assert.Nil(t, img.fitted)
	fitted, err = img.Fitted()
	require.NoError(t, err)
	assert.NotNil(t, fitted)
}

func TestIconImageErrors(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(text, []byte("not an image at all"), 0o644))

	img := NewIcon(text).NewIconImage(FitBest(image.Rect(0, 0, 10, 10)))
	assert.ErrorIs(t, img.Load(), errNotSupportedFormat)

	missing := NewIcon(filepath.Join(dir, "missing.png")).NewIconImage(FitBest(image.Rect(0, 0, 10, 10)))
	_, err := missing.Fitted()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIconMarks(t *testing.T) {
	icon := NewIcon("a.png")
	assert.False(t, icon.Marked())
	icon.ToggleMarked()
	assert.True(t, icon.Marked())
	icon.ToggleMarked()
	assert.False(t, icon.Marked())

	images := NewIconImages([]*Icon{icon, NewIcon("b.png")}, FitFast(image.Rect(0, 0, 1, 1)))
	require.Len(t, images, 2)
	assert.Same(t, icon, images[0].Icon)
}

func TestOrient(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.Set(0, 0, red)

	assert.Same(t, image.Image(src), orient(src, 1))
	assert.Same(t, image.Image(src), orient(src, 9), "unknown orientations are ignored")

	for _, o := range []int{5, 6, 7, 8} {
		assert.Equal(t, image.Pt(2, 4), orient(src, o).Bounds().Size(), "orientation %d", o)
	}
	for _, o := range []int{2, 3, 4} {
		assert.Equal(t, image.Pt(4, 2), orient(src, o).Bounds().Size(), "orientation %d", o)
	}

	r, _, _, _ := orient(src, 2).At(3, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r, "flipped horizontally")
}

func TestReadExifWithoutExif(t *testing.T) {
	info, orientation := readExif(bytes.NewReader([]byte("plain bytes")))
	assert.Empty(t, info)
	assert.Equal(t, 1, orientation)
}
