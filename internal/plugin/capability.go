package plugin

// Capability names an operation a module may or may not expose.
// Presence is probed exactly once, at load time.
type Capability uint8

const (
	// CapBuildTab marks a module that can construct a tab widget.
	CapBuildTab Capability = 1 << iota

	// CapSetCancelled marks a module that accepts a cooperative
	// cancellation signal during shutdown.
	CapSetCancelled

	// CapShowSettings marks a module that can open a settings dialog.
	CapShowSettings
)

// String returns the wire-level capability name, matching the names
// plugin authors use in their modules.
func (c Capability) String() string {
	switch c {
	case CapBuildTab:
		return "build_tab"
	case CapSetCancelled:
		return "set_cancelled"
	case CapShowSettings:
		return "show_settings_dialog"
	default:
		return "unknown"
	}
}

// CapabilitySet is the immutable set of capabilities a loaded module
// exposes. It is computed once when the module is loaded and never
// re-queried; all call sites branch on this set only.
type CapabilitySet uint8

// Has reports whether the set contains the given capability.
func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// Empty reports whether the module exposes no capabilities at all.
func (s CapabilitySet) Empty() bool {
	return s == 0
}

// List returns the contained capabilities in declaration order.
func (s CapabilitySet) List() []Capability {
	var out []Capability
	for _, c := range []Capability{CapBuildTab, CapSetCancelled, CapShowSettings} {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}
