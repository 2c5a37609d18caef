package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tabdock.dev/shell/internal/shell"
	"tabdock.dev/shell/internal/shutdown"
)

// NewRunCommand creates the run command, the default action of the
// root command.
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Launch the shell window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd)
		},
	}
}

// runShell starts the window and blocks until it is destroyed. The
// coordinator's forced-termination failsafe means this either returns
// after a clean teardown or the process exits on its own.
func runShell(cmd *cobra.Command) error {
	c, err := containerFromFlags(cmd)
	if err != nil {
		return err
	}

	m := shell.New(c.Resolver, c.Config.Descriptors(), shell.Options{
		Title:  c.Config.Window.Title,
		Width:  c.Config.Window.Width,
		Height: c.Config.Window.Height,
		Logger: c.Logger,
		Shutdown: []shutdown.Option{
			shutdown.WithDelays(c.Config.Shutdown.Grace, c.Config.Shutdown.Final),
		},
	})

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("shell failed: %w", err)
	}

	m.Coordinator().NoteCleanExit()
	return nil
}
