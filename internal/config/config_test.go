package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.False(t, c.Debug)
	assert.Equal(t, "Tabdock", c.Window.Title)
	assert.Equal(t, 100, c.Window.Width)
	assert.Equal(t, 32, c.Window.Height)
	assert.Equal(t, 200*time.Millisecond, c.Shutdown.Grace)
	assert.Equal(t, 500*time.Millisecond, c.Shutdown.Final)

	require.Len(t, c.Plugins.Descriptors, 3, "stock plugin set applies when the file lists none")
	assert.Equal(t, "splitter", c.Plugins.Descriptors[0].Name)
	assert.Equal(t, "mvr_runner", c.Plugins.Descriptors[1].Name)
	assert.Equal(t, "future_tool", c.Plugins.Descriptors[2].Name)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
debug = true

[window]
title = "Workbench"
width = 120

[shutdown]
grace = "50ms"
final = "1s"

[plugins]
directories = ["/opt/tabs"]

[[plugins.descriptors]]
name = "notes"
label = "Notes"
names = ["notes"]
files = ["notes.lua"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.True(t, c.Debug)
	assert.Equal(t, "Workbench", c.Window.Title)
	assert.Equal(t, 120, c.Window.Width)
	assert.Equal(t, 32, c.Window.Height, "unset keys keep their defaults")
	assert.Equal(t, 50*time.Millisecond, c.Shutdown.Grace)
	assert.Equal(t, time.Second, c.Shutdown.Final)

	require.Len(t, c.Plugins.Descriptors, 1, "an explicit plugin list replaces the stock set")
	assert.Equal(t, "notes", c.Plugins.Descriptors[0].Name)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TABDOCK_WINDOW_TITLE", "From Env")
	t.Setenv("TABDOCK_SHUTDOWN_GRACE", "75ms")

	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "From Env", c.Window.Title)
	assert.Equal(t, 75*time.Millisecond, c.Shutdown.Grace)
}

func TestLoad_BadFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`window = "not a table`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDescriptors_SharedDirectoriesFillIn(t *testing.T) {
	c := Config{
		Plugins: PluginsConfig{
			Directories: []string{"/shared/tabs"},
			Descriptors: []DescriptorConfig{
				{Name: "a", Label: "A", Names: []string{"a"}, Files: []string{"a.lua"}},
				{Name: "b", Dirs: []string{"/custom"}, Files: []string{"b.lua"}},
			},
		},
	}

	ds := c.Descriptors()
	require.Len(t, ds, 2)

	assert.Equal(t, []string{"/shared/tabs"}, ds[0].SearchDirectories,
		"descriptors without their own directories inherit the shared ones")
	assert.Equal(t, []string{"/custom"}, ds[1].SearchDirectories,
		"explicit directories win over the shared ones")
	assert.Equal(t, "A", ds[0].DisplayLabel())
	assert.Equal(t, "b", ds[1].DisplayLabel(), "an unlabelled descriptor falls back to its name")
}

func TestDefaultDescriptors_CandidateOrder(t *testing.T) {
	ds := DefaultDescriptors()
	require.Len(t, ds, 3)

	assert.Equal(t, []string{"splitter.lua", "Splitter.lua"}, ds[0].Files,
		"lowercase filename is probed before the capitalized variant")
	assert.Equal(t, []string{"mvr_runner", "mvr_runner_automation", "mvr_runner_copypaste"}, ds[1].Names)
	assert.Empty(t, ds[2].Files, "the built-in tab resolves by module name only")
}
