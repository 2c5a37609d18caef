// Package plugin defines the capability contract between the shell and
// its tab plugins, and the loaded-module handle the shell owns once a
// plugin has been resolved.
//
// A plugin is duck typed: it may expose any subset of the three named
// capabilities (build_tab, set_cancelled, show_settings_dialog).
// Native Go modules declare capabilities by implementing the optional
// interfaces below; Lua modules declare them by defining global
// functions of the same names. Either way the shell probes once at
// load time and caches the result as a CapabilitySet.
package plugin

import (
	"fmt"
)

// Widget is a renderable tab body returned by a plugin's build_tab
// capability. The shell owns the widget for the lifetime of the tab.
type Widget interface {
	View(width, height int) string
}

// Host is the surface a plugin sees of the shell while building its
// tab. It is the sole input to the build_tab capability.
type Host interface {
	// SetStatus updates the shell's status line.
	SetStatus(msg string)
}

// Window is the context handed to show_settings_dialog. The dialog is
// presented through the window rather than returned, so a plugin may
// decide not to open one at all.
type Window interface {
	// ShowDialog opens a non-blocking dialog over the shell.
	ShowDialog(title, body string)
}

// Module is the minimal contract for a native Go plugin module.
// Capabilities are the optional interfaces TabBuilder, Cancelable and
// SettingsProvider.
type Module interface {
	Name() string
}

// TabBuilder is the native form of the build_tab capability.
type TabBuilder interface {
	BuildTab(host Host) (Widget, error)
}

// Cancelable is the native form of the set_cancelled capability.
// Implementations are expected not to fail in the nominal path, but
// the shutdown coordinator tolerates both errors and panics.
type Cancelable interface {
	SetCancelled(flag bool) error
}

// SettingsProvider is the native form of the show_settings_dialog
// capability.
type SettingsProvider interface {
	ShowSettingsDialog(parent Window) error
}

// binding abstracts over native and Lua-backed modules. Invocations
// are only made for capabilities present in the probed set.
type binding interface {
	capabilities() CapabilitySet
	buildTab(host Host) (Widget, error)
	setCancelled(flag bool) error
	showSettings(parent Window) error
}

// LoadedModule is the opaque handle to a successfully loaded plugin.
// It is owned exclusively by the shell once resolved. The capability
// set is computed exactly once at load time and never re-probed.
type LoadedModule struct {
	name string
	caps CapabilitySet
	b    binding
}

// Load wraps a native module, probing its capabilities once.
func Load(name string, m Module) *LoadedModule {
	b := nativeBinding{m: m}
	return &LoadedModule{name: name, caps: b.capabilities(), b: b}
}

// Name returns the canonical name the module was bound under.
func (m *LoadedModule) Name() string { return m.name }

// Capabilities returns the set probed at load time.
func (m *LoadedModule) Capabilities() CapabilitySet { return m.caps }

// BuildTab invokes the module's build_tab capability. Panics inside
// plugin code are recovered and returned as errors so a broken plugin
// cannot take down the shell.
func (m *LoadedModule) BuildTab(host Host) (w Widget, err error) {
	if !m.caps.Has(CapBuildTab) {
		return nil, fmt.Errorf("module %s does not expose %s", m.name, CapBuildTab)
	}
	defer recoverInvocation(m.name, CapBuildTab, &err)
	return m.b.buildTab(host)
}

// SetCancelled delivers the cooperative cancellation signal. The call
// is advisory; the plugin may ignore it or be slow to react.
func (m *LoadedModule) SetCancelled(flag bool) (err error) {
	if !m.caps.Has(CapSetCancelled) {
		return fmt.Errorf("module %s does not expose %s", m.name, CapSetCancelled)
	}
	defer recoverInvocation(m.name, CapSetCancelled, &err)
	return m.b.setCancelled(flag)
}

// ShowSettingsDialog opens the module's settings surface with the main
// window as context.
func (m *LoadedModule) ShowSettingsDialog(parent Window) (err error) {
	if !m.caps.Has(CapShowSettings) {
		return fmt.Errorf("module %s does not expose %s", m.name, CapShowSettings)
	}
	defer recoverInvocation(m.name, CapShowSettings, &err)
	return m.b.showSettings(parent)
}

func recoverInvocation(name string, cap Capability, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("plugin %s: %s panicked: %v", name, cap, r)
	}
}

// nativeBinding adapts a native Go module, probing the optional
// capability interfaces with type assertions.
type nativeBinding struct {
	m Module
}

func (b nativeBinding) capabilities() CapabilitySet {
	var caps CapabilitySet
	if _, ok := b.m.(TabBuilder); ok {
		caps |= CapabilitySet(CapBuildTab)
	}
	if _, ok := b.m.(Cancelable); ok {
		caps |= CapabilitySet(CapSetCancelled)
	}
	if _, ok := b.m.(SettingsProvider); ok {
		caps |= CapabilitySet(CapShowSettings)
	}
	return caps
}

func (b nativeBinding) buildTab(host Host) (Widget, error) {
	return b.m.(TabBuilder).BuildTab(host)
}

func (b nativeBinding) setCancelled(flag bool) error {
	return b.m.(Cancelable).SetCancelled(flag)
}

func (b nativeBinding) showSettings(parent Window) error {
	return b.m.(SettingsProvider).ShowSettingsDialog(parent)
}
