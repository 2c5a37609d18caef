package resolver

import (
	"fmt"
	"sort"

	"tabdock.dev/shell/internal/plugin"
)

// TabNamespace is the conventional grouping namespace for tab modules,
// tried by the namespaced lookup strategy.
const TabNamespace = "tabs/"

// Factory constructs a native module. Factories run at resolution
// time, not registration time, so a broken module costs nothing until
// a descriptor actually asks for it.
type Factory func() (plugin.Module, error)

// Registry holds the native modules reachable by name, plus any
// modules already loaded and bound under a canonical name. Lookup
// order inside the registry is irrelevant; the resolver decides which
// names to try and in what order.
//
// The registry is populated during startup wiring and read by the
// resolver on the event loop goroutine; it needs no locking.
type Registry struct {
	factories map[string]Factory
	loaded    map[string]*plugin.LoadedModule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		loaded:    make(map[string]*plugin.LoadedModule),
	}
}

// Register makes a native module reachable under its bare name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// RegisterTab makes a native module reachable as a member of the tabs
// namespace.
func (r *Registry) RegisterTab(name string, f Factory) {
	r.factories[TabNamespace+name] = f
}

// Bind records an already loaded module under a canonical name so
// later lookups find it without reloading.
func (r *Registry) Bind(name string, m *plugin.LoadedModule) {
	r.loaded[name] = m
}

// Loaded returns the module bound under name, if any.
func (r *Registry) Loaded(name string) (*plugin.LoadedModule, bool) {
	m, ok := r.loaded[name]
	return m, ok
}

// Names returns every registered factory name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// load attempts to produce a loaded module for name. found is false
// when nothing is registered under name; err is set when something is
// registered but fails to load. Factory panics are recovered and
// reported as load errors.
func (r *Registry) load(name string) (m *plugin.LoadedModule, found bool, err error) {
	if lm, ok := r.loaded[name]; ok {
		return lm, true, nil
	}
	f, ok := r.factories[name]
	if !ok {
		return nil, false, nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			m, err = nil, fmt.Errorf("module %s panicked while loading: %v", name, rec)
		}
	}()

	mod, err := f()
	if err != nil {
		return nil, true, err
	}
	return plugin.Load(name, mod), true, nil
}
