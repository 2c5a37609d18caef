// Package config loads shell configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tabdock.dev/shell/internal/resolver"
)

// Config holds everything the shell needs at startup.
type Config struct {
	Debug    bool
	Window   WindowConfig
	Plugins  PluginsConfig
	Shutdown ShutdownConfig
}

// WindowConfig holds the top-level window surface settings.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
}

// PluginsConfig holds plugin lookup settings.
type PluginsConfig struct {
	// Directories are the default search directories for descriptors
	// that do not declare their own.
	Directories []string

	// Descriptors lists the plugins the shell knows about, in the
	// order their tabs and menu entries should appear.
	Descriptors []DescriptorConfig
}

// DescriptorConfig is the file form of a plugin descriptor.
type DescriptorConfig struct {
	Name  string
	Label string
	Names []string
	Dirs  []string
	Files []string
}

// ShutdownConfig holds the staged shutdown delays.
type ShutdownConfig struct {
	Grace time.Duration
	Final time.Duration
}

// Load reads configuration from file and env. Env overrides use prefix
// TABDOCK_. A missing config file is not an error; defaults cover the
// stock plugin set.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("debug", false)
	v.SetDefault("window.title", "Tabdock")
	v.SetDefault("window.width", 100)
	v.SetDefault("window.height", 32)
	v.SetDefault("plugins.directories", defaultPluginDirs())
	v.SetDefault("shutdown.grace", "200ms")
	v.SetDefault("shutdown.final", "500ms")

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tabdock"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TABDOCK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional, but a broken one is an error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Plugins.Descriptors) == 0 {
		c.Plugins.Descriptors = DefaultDescriptors()
	}
	return c, nil
}

func defaultPluginDirs() []string {
	return []string{
		filepath.Join(os.Getenv("HOME"), ".config", "tabdock", "tabs"),
		"tabs",
	}
}

// DefaultDescriptors returns the stock plugin set: the document
// splitter, the MVR automation runner, and the built-in placeholder
// tab. Tab order follows this order.
func DefaultDescriptors() []DescriptorConfig {
	return []DescriptorConfig{
		{
			Name:  "splitter",
			Label: "Splitter",
			Names: []string{"splitter"},
			Files: []string{"splitter.lua", "Splitter.lua"},
		},
		{
			Name:  "mvr_runner",
			Label: "MVR Runner",
			Names: []string{"mvr_runner", "mvr_runner_automation", "mvr_runner_copypaste"},
			Files: []string{"mvr_runner.lua", "MvrRunner.lua"},
		},
		{
			Name:  "future_tool",
			Label: "Future Tool",
			Names: []string{"future_tool"},
		},
	}
}

// Descriptors converts the configured plugin list into resolver
// descriptors, filling in the shared search directories where a plugin
// does not declare its own.
func (c Config) Descriptors() []resolver.Descriptor {
	out := make([]resolver.Descriptor, 0, len(c.Plugins.Descriptors))
	for _, dc := range c.Plugins.Descriptors {
		dirs := dc.Dirs
		if len(dirs) == 0 {
			dirs = c.Plugins.Directories
		}
		out = append(out, resolver.Descriptor{
			Name:                 dc.Name,
			Label:                dc.Label,
			PreferredModuleNames: dc.Names,
			SearchDirectories:    dirs,
			CandidateFilenames:   dc.Files,
		})
	}
	return out
}
