package resolver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tabdock.dev/shell/internal/plugin"
)

// FileLoader loads a plugin module from a file path and binds it under
// the given canonical name. The default loads Lua modules.
type FileLoader func(name, path string) (*plugin.LoadedModule, error)

// Resolver runs the ordered lookup strategies against a registry and
// the filesystem. It never panics and never returns an error: every
// failure is captured in the trace and a nil module is a valid,
// non-fatal outcome.
type Resolver struct {
	registry *Registry
	loadFile FileLoader
	log      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFileLoader overrides how file-path candidates are loaded.
func WithFileLoader(f FileLoader) Option {
	return func(r *Resolver) { r.loadFile = f }
}

// WithLogger sets the logger used for per-attempt diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// New creates a resolver over the given registry.
func New(registry *Registry, opts ...Option) *Resolver {
	r := &Resolver{
		registry: registry,
		loadFile: plugin.LoadLuaFile,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve tries each strategy in order and stops at the first module
// that loads; results from different strategies are never mixed. The
// returned trace records every location attempted, in order, ending
// with a Success entry when a module was found.
//
// Strategy order:
//  1. direct name lookup in the registry, per PreferredModuleNames
//  2. the same names as members of the tabs namespace
//  3. the cross product SearchDirectories x CandidateFilenames, in
//     that nested order, loading from the exact path on a hit
func (r *Resolver) Resolve(d Descriptor) (*plugin.LoadedModule, Trace) {
	var trace Trace

	// Strategy 1: direct name lookup.
	for _, name := range d.PreferredModuleNames {
		if m := r.tryRegistry(d, name, &trace); m != nil {
			return m, trace
		}
	}

	// Strategy 2: namespaced lookup.
	for _, name := range d.PreferredModuleNames {
		if m := r.tryRegistry(d, TabNamespace+name, &trace); m != nil {
			return m, trace
		}
	}

	// Strategy 3: file-path lookup.
	for _, dir := range d.SearchDirectories {
		for _, file := range d.CandidateFilenames {
			if m := r.tryFile(d, filepath.Join(dir, file), &trace); m != nil {
				return m, trace
			}
		}
	}

	r.log.Debug("plugin not resolved", "plugin", d.Name, "attempts", len(trace))
	return nil, trace
}

func (r *Resolver) tryRegistry(d Descriptor, name string, trace *Trace) *plugin.LoadedModule {
	location := "registry:" + name

	m, found, err := r.registry.load(name)
	switch {
	case !found:
		*trace = append(*trace, Attempt{Location: location, Outcome: NotFound})
		return nil
	case err != nil:
		r.log.Debug("module failed to load", "plugin", d.Name, "location", location, "error", err)
		*trace = append(*trace, Attempt{Location: location, Outcome: LoadError, Err: err})
		return nil
	}

	r.registry.Bind(d.Name, m)
	*trace = append(*trace, Attempt{Location: location, Outcome: Success})
	return m
}

func (r *Resolver) tryFile(d Descriptor, path string, trace *Trace) *plugin.LoadedModule {
	// Existence is probed with the literal path; candidate filename
	// casing is significant on case-sensitive filesystems.
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			*trace = append(*trace, Attempt{Location: path, Outcome: NotFound})
		} else {
			*trace = append(*trace, Attempt{Location: path, Outcome: LoadError, Err: err})
		}
		return nil
	}

	m, err := r.safeLoadFile(d.Name, path)
	if err != nil {
		r.log.Debug("module failed to load", "plugin", d.Name, "location", path, "error", err)
		*trace = append(*trace, Attempt{Location: path, Outcome: LoadError, Err: err})
		return nil
	}

	// Bind under the canonical name so later capability lookups
	// succeed without touching the filesystem again.
	r.registry.Bind(d.Name, m)
	*trace = append(*trace, Attempt{Location: path, Outcome: Success})
	return m
}

// safeLoadFile shields Resolve from panicking loaders.
func (r *Resolver) safeLoadFile(name, path string) (m *plugin.LoadedModule, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			m, err = nil, fmt.Errorf("loading %s panicked: %v", path, rec)
		}
	}()
	return r.loadFile(name, path)
}
