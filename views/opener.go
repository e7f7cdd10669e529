package views

import (
	"errors"
	"fmt"
	"path/filepath"
	"plugin"
	"sort"
)

var (
	// ErrUnknownModule is returned by a Registry for ids it does not know.
	ErrUnknownModule = errors.New("unknown module")
	// ErrNilModule is returned when an opener produced no module.
	ErrNilModule = errors.New("nil module")
	// ErrBadSymbol is returned when a plugin exports the constructor with the wrong type.
	ErrBadSymbol = errors.New("bad plugin symbol")
)

// Opener resolves a module identifier to a module instance.
type Opener interface {
	Open(id string) (Module, error)
}

// Factory creates a new instance of a view module.
type Factory func() Module

// Registry is an Opener for view modules compiled into the program.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register makes the module id available. A second registration of the
// same id replaces the first.
func (r *Registry) Register(id string, f Factory) {
	if id == "" || f == nil {
		return
	}
	r.factories[id] = f
}

// IDs returns the registered ids in order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) Open(id string) (Module, error) {
	f, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrUnknownModule)
	}
	return f(), nil
}

// PluginSymbol is the symbol a view plugin must export:
//
//	func NewView() views.Module
//
// or, without importing views, func NewView() any.
const PluginSymbol = "NewView"

// PluginDir is an Opener for view modules built with -buildmode=plugin.
// The module id resolves to the file <Dir>/<id>.so.
type PluginDir struct {
	Dir string
}

// Path returns the file the module id resolves to.
func (p PluginDir) Path(id string) string {
	return filepath.Join(p.Dir, id+".so")
}

func (p PluginDir) Open(id string) (Module, error) {
	pl, err := plugin.Open(p.Path(id))
	if err != nil {
		return nil, err
	}
	sym, err := pl.Lookup(PluginSymbol)
	if err != nil {
		return nil, err
	}
	newView, ok := sym.(func() Module)
	if !ok {
		return nil, fmt.Errorf("%s: %s is %T: %w", p.Path(id), PluginSymbol, sym, ErrBadSymbol)
	}
	return newView(), nil
}

// Chain returns an Opener that tries each of openers in turn and
// returns the first module opened.
func Chain(openers ...Opener) Opener {
	return chain(openers)
}

type chain []Opener

func (c chain) Open(id string) (Module, error) {
	var errs []error
	for _, o := range c {
		m, err := o.Open(id)
		if err == nil {
			return m, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrUnknownModule)
	}
	return nil, errors.Join(errs...)
}
