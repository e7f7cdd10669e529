package main

import (
	"image"
	"testing"

	draw9 "9fans.net/go/draw"
	"github.com/anastasop/iview/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingShell(t *testing.T) (*Shell, *recorder) {
	t.Helper()
	rec := &recorder{}
	reg := views.NewRegistry()
	reg.Register("rec", func() views.Module { return rec })
	vm := views.NewManager(reg, "none")
	t.Cleanup(vm.Cleanup)
	_, err := vm.LoadModule("rec")
	require.NoError(t, err)

	sh := NewShell(vm, NewSession(nil))
	sh.resize(image.Pt(100, 100))
	require.NoError(t, vm.Switch(0))
	return sh, rec
}

func TestShellButtons(t *testing.T) {
	sh, rec := recordingShell(t)
	zp := image.Point{}

	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50)}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Buttons: button1, Msec: 1000}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Msec: 1100}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Buttons: button1, Msec: 1200}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Buttons: button1 | button2, Msec: 1250}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Msec: 1300}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Buttons: button1, Msec: 5000}, zp)

	assert.Equal(t, []string{
		"move 50,50",
		"press 1 type 0 at 50,50",
		"release 1",
		"press 1 type 1 at 50,50",
		"press 2 type 0 at 50,50",
		"release 1",
		"release 2",
		"press 1 type 0 at 50,50",
	}, rec.take())
}

func TestShellWheel(t *testing.T) {
	sh, rec := recordingShell(t)
	zp := image.Point{}

	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Buttons: wheelUp}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50)}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Buttons: wheelDown}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 2), Buttons: wheelUp}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 2)}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(150, 195), Buttons: wheelDown}, image.Pt(100, 100))

	assert.Equal(t, []string{
		"scroll 0",
		"scroll 1",
		"border top 0",
		"border bottom 1",
	}, rec.take(), "the wheel moves the pointer too")
	assert.Equal(t, image.Pt(50, 95), sh.at)
}

func TestShellLeave(t *testing.T) {
	sh, rec := recordingShell(t)
	zp := image.Point{}

	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50)}, zp)
	assert.False(t, sh.mouse(draw9.Mouse{Point: image.Pt(150, 50)}, zp))
	assert.False(t, sh.mouse(draw9.Mouse{Point: image.Pt(160, 50)}, zp))
	rec.consume = true
	assert.True(t, sh.mouse(draw9.Mouse{Point: image.Pt(40, 50)}, zp))
	assert.True(t, sh.mouse(draw9.Mouse{Point: image.Pt(-1, 50)}, zp))

	assert.Equal(t, []string{"move 50,50", "leave", "move 40,50", "leave"}, rec.take())
}

func TestShellKeys(t *testing.T) {
	sh, rec := recordingShell(t)
	rec.take()

	redraw, quit := sh.key('x')
	assert.False(t, redraw)
	assert.False(t, quit)

	redraw, quit = sh.key('r')
	assert.True(t, redraw)
	assert.False(t, quit)

	redraw, _ = sh.key('1')
	assert.True(t, redraw)
	redraw, _ = sh.key('2')
	assert.False(t, redraw, "no view in slot 1")

	_, quit = sh.key('q')
	assert.True(t, quit)

	assert.Equal(t, []string{
		"key x", "key r", "reset", "key 1", "configure 100x100", "key 2", "key q",
	}, rec.take())

	rec.consume = true
	_, quit = sh.key('q')
	assert.False(t, quit, "the view consumed q")
}

func TestShellRender(t *testing.T) {
	sh, rec := recordingShell(t)
	rec.take()

	canvas := image.NewRGBA(image.Rect(0, 0, 100, 100))
	sh.mouse(draw9.Mouse{Point: image.Pt(30, 40)}, image.Point{})
	sh.render(canvas)
	assert.Equal(t, []string{"move 30,40", "expose 100x100"}, rec.take())

	empty := NewShell(views.NewManager(views.NewRegistry(), "iview"), NewSession(nil))
	empty.resize(image.Pt(100, 100))
	empty.render(canvas)
	assert.Equal(t, bgColor, canvas.RGBAAt(0, 0))
}

func TestBorderAt(t *testing.T) {
	r := image.Rect(0, 0, 100, 50)
	tests := []struct {
		p    image.Point
		b    views.Border
		isOn bool
	}{
		{image.Pt(2, 25), views.BorderLeft, true},
		{image.Pt(97, 25), views.BorderRight, true},
		{image.Pt(50, 1), views.BorderTop, true},
		{image.Pt(50, 48), views.BorderBottom, true},
		{image.Pt(50, 25), 0, false},
	}
	for _, tt := range tests {
		b, ok := borderAt(r, tt.p, 5)
		assert.Equal(t, tt.isOn, ok, "%v", tt.p)
		if tt.isOn {
			assert.Equal(t, tt.b, b, "%v", tt.p)
		}
	}
}

func TestScrollbarClick(t *testing.T) {
	sh, _ := recordingShell(t)
	h, _ := sh.vm.Active()

	assert.False(t, sh.scrollbarClick(image.Pt(97, 50)), "nothing to scroll")

	h.SetScroll(views.Scroll{VSize: 10, VViewport: 2})
	assert.False(t, sh.scrollbarClick(image.Pt(50, 50)))
	assert.True(t, sh.scrollbarClick(image.Pt(97, 50)))
	assert.Equal(t, views.Scroll{VSize: 10, VViewport: 2, VPos: 4}, h.Scroll())

	assert.True(t, sh.scrollbarClick(image.Pt(97, 99)))
	assert.Equal(t, float32(8), h.Scroll().VPos)
}

func TestScrollbarDropsRelease(t *testing.T) {
	sh, rec := recordingShell(t)
	h, _ := sh.vm.Active()
	h.SetScroll(views.Scroll{VSize: 10, VViewport: 2})
	zp := image.Point{}

	assert.True(t, sh.mouse(draw9.Mouse{Point: image.Pt(97, 50), Buttons: button1, Msec: 100}, zp))
	sh.mouse(draw9.Mouse{Point: image.Pt(97, 50), Msec: 200}, zp)
	assert.Equal(t, float32(4), h.Scroll().VPos)
	assert.Equal(t, []string{"move 97,50"}, rec.take(), "no press or release reaches the view")

	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Buttons: button1, Msec: 5000}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Msec: 5100}, zp)
	assert.Equal(t, []string{"move 50,50", "press 1 type 0 at 50,50", "release 1"}, rec.take())

	// released outside the window
	sh.mouse(draw9.Mouse{Point: image.Pt(97, 50), Buttons: button1, Msec: 9000}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(150, 50), Msec: 9100}, zp)
	rec.take()
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Buttons: button1, Msec: 12000}, zp)
	sh.mouse(draw9.Mouse{Point: image.Pt(50, 50), Msec: 12100}, zp)
	assert.Equal(t, []string{"press 1 type 0 at 50,50", "release 1"}, rec.take())
}
