package main

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringToPoint(t *testing.T) {
	tests := []struct {
		s  string
		p  image.Point
		ok bool
	}{
		{"1300x1000", image.Pt(1300, 1000), true},
		{"32x24", image.Pt(32, 24), true},
		{"32", image.Point{}, false},
		{"32x", image.Point{}, false},
		{"ax24", image.Point{}, false},
		{"1x2x3", image.Point{}, false},
	}
	for _, tt := range tests {
		p, ok := stringToPoint(tt.s)
		assert.Equal(t, tt.ok, ok, tt.s)
		assert.Equal(t, tt.p, p, tt.s)
	}
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, isImageFile("a.jpg"))
	assert.True(t, isImageFile("dir/B.JPEG"))
	assert.True(t, isImageFile("c.webp"))
	assert.False(t, isImageFile("d.txt"))
	assert.False(t, isImageFile("png"))
}

func TestScanForImages(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	for _, name := range []string{"a.png", "b.txt", "sub/c.JPG"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	var paths []string
	for _, icon := range addImagesOfPath(dir) {
		paths = append(paths, icon.path)
	}
	assert.Equal(t, []string{filepath.Join(dir, "a.png"), filepath.Join(sub, "c.JPG")}, paths)

	assert.Len(t, addImagesOfPath(filepath.Join(dir, "a.png")), 1)
	assert.Empty(t, addImagesOfPath(filepath.Join(dir, "b.txt")))
	assert.Empty(t, addImagesOfPath(filepath.Join(dir, "missing")))
}

func TestPluginIDs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"slideshow.so", "compare.so", "readme.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("junk"), 0o644))
	}
	assert.Equal(t, []string{"compare", "slideshow"}, pluginIDs(dir))
	assert.Empty(t, pluginIDs(filepath.Join(dir, "none")))

	vm := newViewManager(testSession(t, 3), dir)
	defer vm.Cleanup()
	assert.Equal(t, len(builtinViews), vm.NumViews(), "broken plugins are skipped")
	_, ok := vm.Lookup("slideshow")
	assert.False(t, ok)
}

func TestStartIn(t *testing.T) {
	s := testSession(t, 5)
	sh, vm := newTestShell(t, s)

	require.True(t, startIn(sh, "darkroom"), "falls back when nothing is selected")
	assert.Equal(t, "lighttable", vm.Name())

	s.Select(2)
	require.True(t, startIn(sh, "darkroom"))
	assert.Equal(t, "darkroom", vm.Name())

	require.True(t, startIn(sh, "nosuchview"))
	assert.Equal(t, "lighttable", vm.Name())

	empty, _ := newTestShell(t, NewSession(nil))
	assert.False(t, startIn(empty, "lighttable"))
}
