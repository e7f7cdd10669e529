package main

import (
	"image"
	"log"

	draw9 "9fans.net/go/draw"
	"github.com/anastasop/iview/views"
)

const (
	// borderWidth is the width of the strips along the window sides
	// where the wheel scrolls the border instead of the content.
	borderWidth = 16

	// doubleClickMsec is the longest time between the clicks of a double click.
	doubleClickMsec = 500
)

// mouse buttons as reported by draw9.
const (
	button1 = 1 << iota
	button2
	button3
	wheelUp
	wheelDown
)

// Shell drives a view manager from the events of the window. It turns
// the mouse states of draw9 into presses, releases, motion and wheel
// events, passes keys to the active view and applies the view switches
// the views requested.
type Shell struct {
	vm      *views.Manager
	session *Session
	size    image.Point // size of the view area

	buttons int         // buttons down at the previous mouse event
	grabbed int         // buttons pressed on the scrollbar, their release is dropped
	at      image.Point // pointer position at the previous mouse event
	inside  bool        // whether the pointer was inside the view area
	press   struct {
		button int
		msec   uint32
		clicks int
	}
}

// NewShell returns a shell for vm. The views share session.
func NewShell(vm *views.Manager, session *Session) *Shell {
	return &Shell{vm: vm, session: session}
}

// resize records the new size of the view area and tells the active view.
func (sh *Shell) resize(size image.Point) {
	sh.size = size
	sh.session.area = image.Rectangle{Max: size}
	sh.vm.Configure(size.X, size.Y)
}

// switchTo activates slot and tells the view its size.
func (sh *Shell) switchTo(slot int) bool {
	if err := sh.vm.Switch(slot); err != nil {
		log.Printf("shell: %v", err)
		return false
	}
	sh.vm.Configure(sh.size.X, sh.size.Y)
	return true
}

// applyRequests switches to the views the modules asked for.
// It returns whether the active view changed.
func (sh *Shell) applyRequests() bool {
	changed := false
	for _, id := range sh.session.takeRequests() {
		slot, ok := sh.vm.Lookup(id)
		if !ok {
			log.Printf("shell: no view %s", id)
			continue
		}
		if sh.switchTo(slot) {
			changed = true
		}
	}
	return changed
}

// key handles a key press. It returns whether the window must be
// redrawn and whether the user asked to quit.
func (sh *Shell) key(k rune) (redraw bool, quit bool) {
	if k >= 0 && k <= 0xFFFF && sh.vm.KeyPressed(uint16(k)) {
		return true, false
	}
	switch {
	case k == 'q' || k == delKey:
		return false, true
	case k == 'r':
		sh.vm.Reset()
		return true, false
	case '1' <= k && k <= '9':
		return sh.switchTo(int(k - '1')), false
	}
	return false, false
}

// mouse handles a mouse state in window coordinates. It returns
// whether the window must be redrawn.
func (sh *Shell) mouse(m draw9.Mouse, origin image.Point) bool {
	p := m.Point.Sub(origin)
	area := image.Rectangle{Max: sh.size}
	changed := sh.buttons ^ m.Buttons
	pressed := changed & m.Buttons
	sh.buttons = m.Buttons

	if !p.In(area) {
		sh.grabbed &= m.Buttons
		if sh.inside {
			sh.inside = false
			return sh.vm.MouseLeave()
		}
		return false
	}
	sh.inside = true
	x, y := float64(p.X), float64(p.Y)

	if pressed&(wheelUp|wheelDown) != 0 {
		dir := views.ScrollDown
		if pressed&wheelUp != 0 {
			dir = views.ScrollUp
		}
		sh.at = p
		if b, ok := borderAt(area, p, borderWidth); ok {
			sh.vm.BorderScrolled(x, y, b, dir)
		} else {
			sh.vm.Scrolled(x, y, dir)
		}
		return true
	}

	if pressed&button1 != 0 && sh.scrollbarClick(p) {
		sh.grabbed |= button1
		return true
	}

	redraw := false
	if p != sh.at {
		sh.at = p
		redraw = sh.vm.MouseMoved(x, y, m.Buttons) || redraw
	}
	for i, bit := range []int{button1, button2, button3} {
		if changed&bit == 0 {
			continue
		}
		which := i + 1
		if sh.grabbed&bit != 0 && m.Buttons&bit == 0 {
			sh.grabbed &^= bit
			continue
		}
		if m.Buttons&bit != 0 {
			typ := sh.clickType(which, m.Msec)
			redraw = sh.vm.ButtonPressed(x, y, which, typ, uint32(m.Buttons)) || redraw
		} else {
			redraw = sh.vm.ButtonReleased(x, y, which, uint32(m.Buttons)) || redraw
		}
	}
	return redraw
}

// clickType counts the presses of the same button in quick succession.
func (sh *Shell) clickType(button int, msec uint32) views.ClickType {
	if button == sh.press.button && sh.press.clicks > 0 && msec-sh.press.msec <= doubleClickMsec {
		sh.press.clicks = min(sh.press.clicks+1, 3)
	} else {
		sh.press.clicks = 1
	}
	sh.press.button = button
	sh.press.msec = msec
	return views.ClickType(sh.press.clicks - 1)
}

// scrollbarRect is where the scrollbar of the active view is drawn.
func (sh *Shell) scrollbarRect() image.Rectangle {
	return edges(image.Rectangle{Max: sh.size}, borderWidth/2)[views.BorderRight]
}

// scrollbarClick moves the active view so that its viewport is centered
// around p, if p is on a visible scrollbar.
func (sh *Shell) scrollbarClick(p image.Point) bool {
	h, ok := sh.vm.Active()
	if !ok {
		return false
	}
	s := h.Scroll()
	r := sh.scrollbarRect()
	if !p.In(r) || s.VSize <= s.VViewport || r.Dy() == 0 {
		return false
	}
	pos := float32(p.Y-r.Min.Y)/float32(r.Dy())*s.VSize - s.VViewport/2
	pos = max(0, min(pos, s.VSize-s.VViewport))
	h.SetScrollbar(s.HPos, s.HSize, s.HViewport, pos, s.VSize, s.VViewport)
	return true
}

// render draws the active view and its scrollbar on dst.
func (sh *Shell) render(dst *image.RGBA) {
	h, ok := sh.vm.Active()
	if !ok {
		fill(dst, dst.Bounds(), bgColor)
		text(dst, image.Pt(borderWidth, borderWidth), sh.vm.Name())
		return
	}
	sh.vm.Expose(dst, sh.size.X, sh.size.Y, sh.at.X, sh.at.Y)
	s := h.Scroll()
	paintScrollbar(dst, sh.scrollbarRect(), s.VPos, s.VSize, s.VViewport)
}

// run is the event loop. It returns when the user quits.
func (sh *Shell) run(dctl *DisplayControl) {
	redraw := func() {
		r := dctl.bounds()
		canvas := dctl.canvasFor(r)
		dctl.showWaitingAndCall(func() { sh.render(canvas) })
		dctl.present()
	}

	sh.resize(dctl.bounds().Size())
	redraw()
	for {
		dirty := false
		select {
		case err := <-dctl.errch:
			log.Printf("display: %v", err)
		case k := <-dctl.kctl.C:
			var quit bool
			dirty, quit = sh.key(k)
			if quit {
				return
			}
		case m := <-dctl.mctl.C:
			dirty = sh.mouse(m, dctl.bounds().Min)
		case <-dctl.mctl.Resize:
			dctl.reattach()
			sh.resize(dctl.bounds().Size())
			dirty = true
		}
		if sh.applyRequests() || dirty {
			redraw()
		}
	}
}

// borderAt returns the border of r that p is on, if p is within w of a side.
func borderAt(r image.Rectangle, p image.Point, w int) (views.Border, bool) {
	for i, e := range edges(r, w) {
		if p.In(e) {
			return views.Border(i), true
		}
	}
	return 0, false
}
