// Package cli wires the tabdock commands.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// NewRootCommand builds the base command. Running tabdock without a
// subcommand launches the shell.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tabdock",
		Short: "Tabdock - a terminal shell hosting independent tab plugins",
		Long: `Tabdock hosts independently-developed tab plugins inside one window.

Plugins are optional: a plugin that cannot be found is simply absent,
and a plugin that fails keeps the rest of the shell usable. Use the
plugins command to see where each configured plugin was looked for.`,
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default is $HOME/.config/tabdock/config.toml)")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewPluginsCommand())

	return rootCmd
}

func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// containerFromFlags builds the dependency container from the
// persistent flags.
func containerFromFlags(cmd *cobra.Command) (*Container, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debugFlag, _ := cmd.Flags().GetBool("debug")
	return newContainer(configPath, debugFlag)
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
