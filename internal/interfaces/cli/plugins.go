package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tabdock.dev/shell/internal/plugin"
	"tabdock.dev/shell/internal/resolver"
)

var (
	pluginNameStyle = lipgloss.NewStyle().Bold(true)
	okStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	missStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// NewPluginsCommand creates the plugins command: resolve every
// configured descriptor without starting the UI and print where each
// one was looked for.
func NewPluginsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "Resolve configured plugins and print each resolution trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := containerFromFlags(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range c.Config.Descriptors() {
				lm, trace := c.Resolver.Resolve(d)
				printResolution(out, d, lm, trace)
			}
			return nil
		},
	}
}

func printResolution(out io.Writer, d resolver.Descriptor, lm *plugin.LoadedModule, trace resolver.Trace) {
	header := pluginNameStyle.Render(d.DisplayLabel())
	if lm != nil {
		caps := make([]string, 0, 3)
		for _, c := range lm.Capabilities().List() {
			caps = append(caps, c.String())
		}
		fmt.Fprintf(out, "%s %s %v\n", header, okStyle.Render("resolved"), caps)
	} else {
		fmt.Fprintf(out, "%s %s\n", header, missStyle.Render("unavailable"))
	}

	for _, a := range trace {
		style := missStyle
		if a.Outcome == resolver.LoadError {
			style = errStyle
		} else if a.Outcome == resolver.Success {
			style = okStyle
		}
		fmt.Fprintf(out, "  %s: %s\n", a.Location, style.Render(a.Reason()))
	}
}
