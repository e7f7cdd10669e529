package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/anastasop/iview/views"
	"github.com/stretchr/testify/require"
	xdraw "golang.org/x/image/draw"
)

var red = color.RGBA{0xff, 0, 0, 0xff}

// writeImages writes n uniform w x h PNG files in a temporary directory
// and returns their icons.
func writeImages(t *testing.T, n, w, h int) []*Icon {
	t.Helper()
	dir := t.TempDir()
	var icons []*Icon
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		fill(img, img.Bounds(), red)
		path := filepath.Join(dir, fmt.Sprintf("img%02d.png", i))
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
		icons = append(icons, NewIcon(path))
	}
	return icons
}

// testSession returns a session over n small images with a view area
// that fits a 4x2 grid of icons.
func testSession(t *testing.T, n int) *Session {
	s := NewSession(writeImages(t, n, 8, 6))
	s.area = image.Rect(0, 0, 60, 30)
	s.iconSize = image.Pt(10, 10)
	s.padding = 2
	return s
}

// recorder is a view module that records the events it receives.
type recorder struct {
	events  []string
	consume bool
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) take() []string {
	e := r.events
	r.events = nil
	return e
}

func (r *recorder) Expose(self *views.Handle, dst xdraw.Image, width, height, px, py int) {
	r.add("expose %dx%d", width, height)
}

func (r *recorder) MouseLeave(self *views.Handle) bool {
	r.add("leave")
	return r.consume
}

func (r *recorder) MouseMoved(self *views.Handle, x, y float64, which int) bool {
	r.add("move %v,%v", x, y)
	return r.consume
}

func (r *recorder) ButtonPressed(self *views.Handle, x, y float64, which int, typ views.ClickType, state uint32) bool {
	r.add("press %d type %d at %v,%v", which, typ, x, y)
	return r.consume
}

func (r *recorder) ButtonReleased(self *views.Handle, x, y float64, which int, state uint32) bool {
	r.add("release %d", which)
	return r.consume
}

func (r *recorder) KeyPressed(self *views.Handle, code uint16) bool {
	r.add("key %c", rune(code))
	return r.consume
}

func (r *recorder) Configure(self *views.Handle, width, height int) {
	r.add("configure %dx%d", width, height)
}

func (r *recorder) Scrolled(self *views.Handle, x, y float64, dir views.ScrollDirection) {
	r.add("scroll %d", dir)
}

func (r *recorder) BorderScrolled(self *views.Handle, x, y float64, b views.Border, dir views.ScrollDirection) {
	r.add("border %s %d", b, dir)
}

func (r *recorder) Reset(self *views.Handle) {
	r.add("reset")
}
