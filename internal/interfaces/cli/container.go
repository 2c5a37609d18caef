package cli

import (
	"log/slog"
	"os"

	"tabdock.dev/shell/internal/config"
	"tabdock.dev/shell/internal/logging"
	"tabdock.dev/shell/internal/resolver"
	"tabdock.dev/shell/internal/tabs"
)

// Container holds the dependencies shared by the CLI commands.
type Container struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *resolver.Registry
	Resolver *resolver.Resolver
}

// newContainer loads configuration and wires the module registry with
// the built-in tab set.
func newContainer(configPath string, debug bool) (*Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}

	logger := logging.New(os.Stderr, cfg.Debug)

	registry := resolver.NewRegistry()
	registry.RegisterTab("future_tool", tabs.NewFutureTool)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Resolver: resolver.New(registry, resolver.WithLogger(logger)),
	}, nil
}
