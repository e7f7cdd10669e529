// Package views loads interchangeable view modules and routes rendering and
// input to whichever one is active.
//
// A view module is any Go value. What it can do is decided by which of the
// capability interfaces in this file it implements; a capability it lacks is
// a no-op, or "not handled" for the callbacks that report consumption.
// Every callback receives the Handle that owns the module, which gives it
// access to its private data and scroll state.
package views

import (
	"golang.org/x/image/draw"
)

// Module is a loaded view. See the capability interfaces for what it may do.
// It is an alias so that plugins can export a constructor returning any.
type Module = any

// Namer returns the translated display name of the view.
type Namer interface {
	Name(self *Handle) string
}

// Initer is called once right after the module is loaded. It usually
// allocates the private data with self.SetData.
type Initer interface {
	Init(self *Handle)
}

// Cleaner is called once when the module is unloaded to release its
// private data.
type Cleaner interface {
	Cleanup(self *Handle)
}

// Exposer renders the view into dst, which is width x height and only
// valid for the duration of the call. px, py is the pointer position.
type Exposer interface {
	Expose(self *Handle, dst draw.Image, width, height, px, py int)
}

// EnterTrier checks if the view can be entered. It must not have side
// effects; a non nil error aborts the switch.
type EnterTrier interface {
	TryEnter(self *Handle) error
}

// Enterer is called when the view becomes active.
type Enterer interface {
	Enter(self *Handle)
}

// Leaver is called when the view stops being active. It is called only
// after the next view accepted to be entered.
type Leaver interface {
	Leave(self *Handle)
}

// Resetter restores the default appearance of the view.
type Resetter interface {
	Reset(self *Handle)
}

// MouseLeaver is notified when the pointer leaves the view.
type MouseLeaver interface {
	MouseLeave(self *Handle) bool
}

// MouseMover is notified of pointer motion. which is the button state.
type MouseMover interface {
	MouseMoved(self *Handle, x, y float64, which int) bool
}

// ButtonPresser handles a mouse button press.
type ButtonPresser interface {
	ButtonPressed(self *Handle, x, y float64, which int, typ ClickType, state uint32) bool
}

// ButtonReleaser handles a mouse button release.
type ButtonReleaser interface {
	ButtonReleased(self *Handle, x, y float64, which int, state uint32) bool
}

// KeyPresser handles a key press.
type KeyPresser interface {
	KeyPressed(self *Handle, code uint16) bool
}

// Configurer is notified when the view area changes size.
type Configurer interface {
	Configure(self *Handle, width, height int)
}

// Scroller handles the mouse wheel inside the view.
type Scroller interface {
	Scrolled(self *Handle, x, y float64, dir ScrollDirection)
}

// BorderScroller handles the mouse wheel over one of the view borders.
type BorderScroller interface {
	BorderScrolled(self *Handle, x, y float64, border Border, dir ScrollDirection)
}

// ClickType tells single from double and triple clicks.
type ClickType int

const (
	SingleClick ClickType = iota
	DoubleClick
	TripleClick
)

// ScrollDirection is the direction of a wheel step.
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
)

// Border identifies a side of the view area.
type Border int

const (
	BorderLeft Border = iota
	BorderRight
	BorderTop
	BorderBottom
)

func (b Border) String() string {
	switch b {
	case BorderLeft:
		return "left"
	case BorderRight:
		return "right"
	case BorderTop:
		return "top"
	case BorderBottom:
		return "bottom"
	}
	return "invalid"
}

// callbacks is the bound capability table of a module. Nil entries
// are capabilities the module does not have.
type callbacks struct {
	name           func(*Handle) string
	init           func(*Handle)
	cleanup        func(*Handle)
	expose         func(*Handle, draw.Image, int, int, int, int)
	tryEnter       func(*Handle) error
	enter          func(*Handle)
	leave          func(*Handle)
	reset          func(*Handle)
	mouseLeave     func(*Handle) bool
	mouseMoved     func(*Handle, float64, float64, int) bool
	buttonPressed  func(*Handle, float64, float64, int, ClickType, uint32) bool
	buttonReleased func(*Handle, float64, float64, int, uint32) bool
	keyPressed     func(*Handle, uint16) bool
	configure      func(*Handle, int, int)
	scrolled       func(*Handle, float64, float64, ScrollDirection)
	borderScrolled func(*Handle, float64, float64, Border, ScrollDirection)
}

// bind resolves the capabilities of m.
func bind(m Module) callbacks {
	var cb callbacks
	if c, ok := m.(Namer); ok {
		cb.name = c.Name
	}
	if c, ok := m.(Initer); ok {
		cb.init = c.Init
	}
	if c, ok := m.(Cleaner); ok {
		cb.cleanup = c.Cleanup
	}
	if c, ok := m.(Exposer); ok {
		cb.expose = c.Expose
	}
	if c, ok := m.(EnterTrier); ok {
		cb.tryEnter = c.TryEnter
	}
	if c, ok := m.(Enterer); ok {
		cb.enter = c.Enter
	}
	if c, ok := m.(Leaver); ok {
		cb.leave = c.Leave
	}
	if c, ok := m.(Resetter); ok {
		cb.reset = c.Reset
	}
	if c, ok := m.(MouseLeaver); ok {
		cb.mouseLeave = c.MouseLeave
	}
	if c, ok := m.(MouseMover); ok {
		cb.mouseMoved = c.MouseMoved
	}
	if c, ok := m.(ButtonPresser); ok {
		cb.buttonPressed = c.ButtonPressed
	}
	if c, ok := m.(ButtonReleaser); ok {
		cb.buttonReleased = c.ButtonReleased
	}
	if c, ok := m.(KeyPresser); ok {
		cb.keyPressed = c.KeyPressed
	}
	if c, ok := m.(Configurer); ok {
		cb.configure = c.Configure
	}
	if c, ok := m.(Scroller); ok {
		cb.scrolled = c.Scrolled
	}
	if c, ok := m.(BorderScroller); ok {
		cb.borderScrolled = c.BorderScrolled
	}
	return cb
}
