package views

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// MaxNameLen is the capacity of a module name, including the terminator
// that the on-disk module convention reserves.
const MaxNameLen = 64

// Scroll is the scrollbar state of a view. Sizes and positions are in
// whatever unit the view chooses, rows for a grid or pixels for an image.
// Keeping the viewport no larger than the content is the view's job.
type Scroll struct {
	HSize, HViewport, HPos float32
	VSize, VViewport, VPos float32
}

// Handle is the record of one loaded view module. A Handle must not be
// copied after Load.
type Handle struct {
	name   string
	id     uuid.UUID
	module Module
	data   any
	scroll Scroll
	cb     callbacks
	loaded bool
}

// Load opens the module id with o, binds its capabilities into h and calls
// its Init. If the module cannot be opened h is left zero.
func Load(h *Handle, o Opener, id string) error {
	if h.loaded {
		panic(fmt.Sprintf("views: load %q into handle of loaded module %q", id, h.name))
	}
	m, err := o.Open(id)
	if err != nil {
		*h = Handle{}
		return fmt.Errorf("load %s: %w", id, err)
	}
	if m == nil {
		*h = Handle{}
		return fmt.Errorf("load %s: %w", id, ErrNilModule)
	}

	if len(id) > MaxNameLen-1 {
		id = id[:MaxNameLen-1]
	}
	*h = Handle{
		name:   id,
		id:     uuid.New(),
		module: m,
		cb:     bind(m),
		loaded: true,
	}
	if h.cb.init != nil {
		h.cb.init(h)
	}
	return nil
}

// Unload calls the module Cleanup and drops the module. Unloading a handle
// that is not loaded is a programming error.
func (h *Handle) Unload() {
	h.mustBeLoaded("unload")
	if h.cb.cleanup != nil {
		h.cb.cleanup(h)
	}
	*h = Handle{}
}

// Loaded reports whether h holds a module.
func (h *Handle) Loaded() bool {
	return h.loaded
}

// ModuleName returns the identifier the module was loaded with.
func (h *Handle) ModuleName() string {
	return h.name
}

// ID returns the identity of this loaded instance. Every Load gets a new one,
// so hosts can tell a reloaded module from the instance it replaced. The
// manager tags its log lines with it.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Module returns the loaded module value.
func (h *Handle) Module() Module {
	return h.module
}

// Name returns the display name of the view, or its module name when the
// module does not provide one.
func (h *Handle) Name() string {
	h.mustBeLoaded("name")
	if h.cb.name != nil {
		return h.cb.name(h)
	}
	return h.name
}

// Data returns the private data of the module.
func (h *Handle) Data() any {
	return h.data
}

// SetData replaces the private data of the module. Only the module itself
// should call it.
func (h *Handle) SetData(d any) {
	h.data = d
}

// Scroll returns the current scroll state.
func (h *Handle) Scroll() Scroll {
	return h.scroll
}

// SetScroll is used by the module to publish its scroll state.
func (h *Handle) SetScroll(s Scroll) {
	h.scroll = s
}

// SetScrollbar is used by the host to push scrollbar positions, usually
// after the user dragged a scrollbar.
func (h *Handle) SetScrollbar(hpos, hsize, hwinsize, vpos, vsize, vwinsize float32) {
	h.scroll = Scroll{
		HPos: hpos, HSize: hsize, HViewport: hwinsize,
		VPos: vpos, VSize: vsize, VViewport: vwinsize,
	}
}

func (h *Handle) mustBeLoaded(op string) {
	if !h.loaded {
		panic("views: " + op + " on a handle without a loaded module")
	}
}

// The methods below invoke one callback each, treating a missing
// capability as a no-op or as not handled.

func (h *Handle) tryEnter() error {
	h.mustBeLoaded("try enter")
	if h.cb.tryEnter == nil {
		return nil
	}
	return h.cb.tryEnter(h)
}

func (h *Handle) enter() {
	h.mustBeLoaded("enter")
	if h.cb.enter != nil {
		h.cb.enter(h)
	}
}

func (h *Handle) leave() {
	h.mustBeLoaded("leave")
	if h.cb.leave != nil {
		h.cb.leave(h)
	}
}

func (h *Handle) reset() {
	h.mustBeLoaded("reset")
	if h.cb.reset != nil {
		h.cb.reset(h)
	}
}

func (h *Handle) expose(dst draw.Image, width, height, px, py int) {
	h.mustBeLoaded("expose")
	if h.cb.expose != nil {
		h.cb.expose(h, dst, width, height, px, py)
	}
}

func (h *Handle) mouseLeave() bool {
	h.mustBeLoaded("mouse leave")
	return h.cb.mouseLeave != nil && h.cb.mouseLeave(h)
}

func (h *Handle) mouseMoved(x, y float64, which int) bool {
	h.mustBeLoaded("mouse moved")
	return h.cb.mouseMoved != nil && h.cb.mouseMoved(h, x, y, which)
}

func (h *Handle) buttonPressed(x, y float64, which int, typ ClickType, state uint32) bool {
	h.mustBeLoaded("button pressed")
	return h.cb.buttonPressed != nil && h.cb.buttonPressed(h, x, y, which, typ, state)
}

func (h *Handle) buttonReleased(x, y float64, which int, state uint32) bool {
	h.mustBeLoaded("button released")
	return h.cb.buttonReleased != nil && h.cb.buttonReleased(h, x, y, which, state)
}

func (h *Handle) keyPressed(code uint16) bool {
	h.mustBeLoaded("key pressed")
	return h.cb.keyPressed != nil && h.cb.keyPressed(h, code)
}

func (h *Handle) configure(width, height int) {
	h.mustBeLoaded("configure")
	if h.cb.configure != nil {
		h.cb.configure(h, width, height)
	}
}

func (h *Handle) scrolled(x, y float64, dir ScrollDirection) {
	h.mustBeLoaded("scrolled")
	if h.cb.scrolled != nil {
		h.cb.scrolled(h, x, y, dir)
	}
}

func (h *Handle) borderScrolled(x, y float64, b Border, dir ScrollDirection) {
	h.mustBeLoaded("border scrolled")
	if h.cb.borderScrolled != nil {
		h.cb.borderScrolled(h, x, y, b, dir)
	}
}
