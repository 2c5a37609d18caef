package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bareModule exposes no capabilities.
type bareModule struct{}

func (bareModule) Name() string { return "bare" }

// fullModule exposes all three capabilities.
type fullModule struct {
	statuses  []string
	cancelled []bool
	dialogs   int
}

func (m *fullModule) Name() string { return "full" }

func (m *fullModule) BuildTab(host Host) (Widget, error) {
	host.SetStatus("ready")
	return StaticWidget{Text: "body"}, nil
}

func (m *fullModule) SetCancelled(flag bool) error {
	m.cancelled = append(m.cancelled, flag)
	return nil
}

func (m *fullModule) ShowSettingsDialog(parent Window) error {
	m.dialogs++
	parent.ShowDialog("full settings", "nothing to configure")
	return nil
}

// panicModule panics in every capability.
type panicModule struct{}

func (panicModule) Name() string { return "panic" }

func (panicModule) BuildTab(host Host) (Widget, error) { panic("tab boom") }
func (panicModule) SetCancelled(flag bool) error       { panic("cancel boom") }

type recordingHost struct {
	statuses []string
}

func (h *recordingHost) SetStatus(msg string) { h.statuses = append(h.statuses, msg) }

type recordingWindow struct {
	titles []string
	bodies []string
}

func (w *recordingWindow) ShowDialog(title, body string) {
	w.titles = append(w.titles, title)
	w.bodies = append(w.bodies, body)
}

func TestLoad_ProbesNativeCapabilitiesOnce(t *testing.T) {
	tests := []struct {
		name string
		mod  Module
		want []Capability
	}{
		{name: "NoCapabilities", mod: bareModule{}, want: nil},
		{name: "AllCapabilities", mod: &fullModule{}, want: []Capability{CapBuildTab, CapSetCancelled, CapShowSettings}},
		{name: "SubsetCapabilities", mod: panicModule{}, want: []Capability{CapBuildTab, CapSetCancelled}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lm := Load(tt.mod.Name(), tt.mod)
			assert.Equal(t, tt.want, lm.Capabilities().List())
			assert.Equal(t, len(tt.want) == 0, lm.Capabilities().Empty())
		})
	}
}

func TestLoadedModule_InvokesCapabilities(t *testing.T) {
	mod := &fullModule{}
	lm := Load("full", mod)
	host := &recordingHost{}
	window := &recordingWindow{}

	w, err := lm.BuildTab(host)
	require.NoError(t, err)
	assert.Equal(t, "body", w.View(80, 24))
	assert.Equal(t, []string{"ready"}, host.statuses)

	require.NoError(t, lm.SetCancelled(true))
	assert.Equal(t, []bool{true}, mod.cancelled)

	require.NoError(t, lm.ShowSettingsDialog(window))
	assert.Equal(t, 1, mod.dialogs)
	assert.Equal(t, []string{"full settings"}, window.titles)
}

func TestLoadedModule_MissingCapabilityIsAnError(t *testing.T) {
	lm := Load("bare", bareModule{})

	_, err := lm.BuildTab(&recordingHost{})
	assert.Error(t, err)
	assert.Error(t, lm.SetCancelled(true))
	assert.Error(t, lm.ShowSettingsDialog(&recordingWindow{}))
}

func TestLoadedModule_RecoversCapabilityPanics(t *testing.T) {
	lm := Load("panic", panicModule{})

	_, err := lm.BuildTab(&recordingHost{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tab boom")

	err = lm.SetCancelled(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancel boom")
}

func TestCapability_String(t *testing.T) {
	assert.Equal(t, "build_tab", CapBuildTab.String())
	assert.Equal(t, "set_cancelled", CapSetCancelled.String())
	assert.Equal(t, "show_settings_dialog", CapShowSettings.String())
}

// errSettings fails its settings dialog without panicking.
type errSettings struct{}

func (errSettings) Name() string { return "errsettings" }
func (errSettings) ShowSettingsDialog(parent Window) error {
	return errors.New("no settings backend")
}

func TestLoadedModule_CapabilityErrorsPassThrough(t *testing.T) {
	lm := Load("errsettings", errSettings{})
	err := lm.ShowSettingsDialog(&recordingWindow{})
	require.Error(t, err)
	assert.Equal(t, "no settings backend", err.Error())
}
