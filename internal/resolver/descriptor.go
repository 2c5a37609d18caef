// Package resolver locates and loads optional tab plugin modules.
//
// A plugin's location is not guaranteed: it may be a native module
// registered in-process, a member of the conventional tabs namespace,
// or a Lua file sitting in one of several search directories under one
// of several candidate filenames. Resolve tries a fixed sequence of
// strategies and returns the first module that loads, together with an
// ordered trace of every location attempted. Resolution never fails
// the caller; a missing plugin is a normal outcome.
package resolver

// Descriptor describes where and how to look for one plugin. It is
// created once at startup and never mutated.
type Descriptor struct {
	// Name is the canonical name the module is bound under once
	// loaded. Later capability lookups use this name.
	Name string

	// Label is the display label for the plugin's tab and menu
	// entries. Empty means use Name.
	Label string

	// PreferredModuleNames are registry names to try first, in order.
	PreferredModuleNames []string

	// SearchDirectories are directories probed by the file-path
	// strategy, in order.
	SearchDirectories []string

	// CandidateFilenames are filenames probed inside each search
	// directory, in order. Casing is significant: each spelling is
	// tried literally, never normalized, so plugins keep working on
	// case-sensitive filesystems.
	CandidateFilenames []string
}

// DisplayLabel returns the label to show in the UI.
func (d Descriptor) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Name
}
