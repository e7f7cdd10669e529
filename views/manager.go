package views

import (
	"errors"
	"fmt"
	"io"
	"log"

	"golang.org/x/image/draw"
)

// MaxModules is the number of modules a Manager can hold.
const MaxModules = 10

var (
	// ErrCapacity is returned when all module slots are in use.
	ErrCapacity = errors.New("no free module slot")
	// ErrInvalidSlot is returned when switching to a slot that holds no module.
	ErrInvalidSlot = errors.New("invalid module slot")
	// ErrEnterRejected is returned when the target view refused to be entered.
	ErrEnterRejected = errors.New("view refused to enter")
	// ErrClosed is returned after the manager has been cleaned up.
	ErrClosed = errors.New("view manager closed")
)

// State is the activity state of a Manager: either no view is active,
// or exactly one slot is.
type State struct {
	active bool
	slot   int
}

// Inactive is the state with no active view.
func Inactive() State {
	return State{}
}

// ActiveOn is the state with slot active.
func ActiveOn(slot int) State {
	return State{active: true, slot: slot}
}

// Slot returns the active slot and whether there is one.
func (s State) Slot() (int, bool) {
	return s.slot, s.active
}

func (s State) String() string {
	if !s.active {
		return "inactive"
	}
	return fmt.Sprintf("active on %d", s.slot)
}

// Manager holds the loaded view modules and forwards rendering and input to
// the active one. It is not safe for concurrent use; it is meant to be
// driven by a single event loop.
type Manager struct {
	opener   Opener
	fallback string
	views    [MaxModules]Handle
	numViews int
	state    State
	closed   bool
	logger   *log.Logger
}

// NewManager returns a manager that opens modules with o. fallback is
// the name reported while no view is active.
func NewManager(o Opener, fallback string) *Manager {
	return &Manager{
		opener:   o,
		fallback: fallback,
		logger:   log.New(io.Discard, "", 0),
	}
}

// SetLogger sets where the manager reports loads and transitions.
func (m *Manager) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	m.logger = l
}

// Cleanup leaves the active view and unloads all modules. The manager
// cannot load or switch afterwards.
func (m *Manager) Cleanup() {
	if m.closed {
		return
	}
	if slot, ok := m.state.Slot(); ok {
		m.views[slot].leave()
	}
	m.state = Inactive()
	for i := 0; i < m.numViews; i++ {
		m.logger.Printf("views: unload %s (%s) from slot %d", m.views[i].name, m.views[i].id, i)
		m.views[i].Unload()
	}
	m.numViews = 0
	m.closed = true
}

// LoadModule loads the module id into the next free slot and returns the slot.
func (m *Manager) LoadModule(id string) (int, error) {
	if m.closed {
		return -1, ErrClosed
	}
	if m.numViews >= MaxModules {
		return -1, fmt.Errorf("load %s: %w", id, ErrCapacity)
	}
	slot := m.numViews
	if err := Load(&m.views[slot], m.opener, id); err != nil {
		return -1, err
	}
	m.numViews++
	m.logger.Printf("views: loaded %s (%s) in slot %d", id, m.views[slot].id, slot)
	return slot, nil
}

// NumViews returns the number of loaded modules.
func (m *Manager) NumViews() int {
	return m.numViews
}

// State returns which view, if any, is active.
func (m *Manager) State() State {
	return m.state
}

// Handle returns the handle in slot, or nil if the slot holds no module.
func (m *Manager) Handle(slot int) *Handle {
	if slot < 0 || slot >= m.numViews {
		return nil
	}
	return &m.views[slot]
}

// Active returns the handle of the active view.
func (m *Manager) Active() (*Handle, bool) {
	slot, ok := m.state.Slot()
	if !ok {
		return nil, false
	}
	return &m.views[slot], true
}

// Lookup returns the slot of the first module loaded as id.
func (m *Manager) Lookup(id string) (int, bool) {
	for i := 0; i < m.numViews; i++ {
		if m.views[i].name == id {
			return i, true
		}
	}
	return -1, false
}

// Switch makes slot k the active view. The target is asked first whether it
// can be entered; if it refuses nothing changes and the current view stays
// active. Otherwise the current view is left and the target entered.
func (m *Manager) Switch(k int) error {
	if m.closed {
		return ErrClosed
	}
	if k < 0 || k >= m.numViews {
		return fmt.Errorf("switch to %d of %d: %w", k, m.numViews, ErrInvalidSlot)
	}

	target := &m.views[k]
	if err := target.tryEnter(); err != nil {
		m.logger.Printf("views: %s (%s) refused to enter: %v", target.name, target.id, err)
		return fmt.Errorf("switch to %s: %w: %w", target.name, ErrEnterRejected, err)
	}
	if cur, ok := m.state.Slot(); ok && cur != k {
		m.logger.Printf("views: leave %s (%s)", m.views[cur].name, m.views[cur].id)
		m.views[cur].leave()
	}
	target.enter()
	m.state = ActiveOn(k)
	m.logger.Printf("views: switched to %s (%s) in slot %d", target.name, target.id, k)
	return nil
}

// Name returns the display name of the active view.
func (m *Manager) Name() string {
	if h, ok := m.Active(); ok {
		return h.Name()
	}
	return m.fallback
}

// Reset restores the default appearance of the active view.
func (m *Manager) Reset() {
	if h, ok := m.Active(); ok {
		h.reset()
	}
}

// Expose renders the active view into dst. dst is only borrowed for the call.
func (m *Manager) Expose(dst draw.Image, width, height, px, py int) {
	if h, ok := m.Active(); ok {
		h.expose(dst, width, height, px, py)
	}
}

// MouseLeave reports the pointer left the view area.
func (m *Manager) MouseLeave() bool {
	if h, ok := m.Active(); ok {
		return h.mouseLeave()
	}
	return false
}

// MouseMoved reports pointer motion. It returns whether the view handled it.
func (m *Manager) MouseMoved(x, y float64, which int) bool {
	if h, ok := m.Active(); ok {
		return h.mouseMoved(x, y, which)
	}
	return false
}

// ButtonPressed reports a button press. It returns whether the view handled it.
func (m *Manager) ButtonPressed(x, y float64, which int, typ ClickType, state uint32) bool {
	if h, ok := m.Active(); ok {
		return h.buttonPressed(x, y, which, typ, state)
	}
	return false
}

// ButtonReleased reports a button release. It returns whether the view handled it.
func (m *Manager) ButtonReleased(x, y float64, which int, state uint32) bool {
	if h, ok := m.Active(); ok {
		return h.buttonReleased(x, y, which, state)
	}
	return false
}

// KeyPressed reports a key press. It returns whether the view handled it.
func (m *Manager) KeyPressed(code uint16) bool {
	if h, ok := m.Active(); ok {
		return h.keyPressed(code)
	}
	return false
}

// Configure reports a new size of the view area.
func (m *Manager) Configure(width, height int) {
	if h, ok := m.Active(); ok {
		h.configure(width, height)
	}
}

// Scrolled reports a wheel step inside the view area.
func (m *Manager) Scrolled(x, y float64, dir ScrollDirection) {
	if h, ok := m.Active(); ok {
		h.scrolled(x, y, dir)
	}
}

// BorderScrolled reports a wheel step over one of the view borders.
func (m *Manager) BorderScrolled(x, y float64, b Border, dir ScrollDirection) {
	if h, ok := m.Active(); ok {
		h.borderScrolled(x, y, b, dir)
	}
}
