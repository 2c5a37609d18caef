// Package tabs holds the built-in tab modules that ship with the
// shell. Built-ins are registered in the module registry under the
// tabs namespace, so the resolver finds them by name without touching
// the filesystem.
package tabs

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tabdock.dev/shell/internal/plugin"
)

// FutureTool is the placeholder tab for functionality that does not
// exist yet. It exposes only the build_tab capability.
type FutureTool struct{}

// NewFutureTool is the registry factory for the placeholder tab.
func NewFutureTool() (plugin.Module, error) {
	return FutureTool{}, nil
}

func (FutureTool) Name() string { return "future_tool" }

// BuildTab constructs the placeholder body.
func (FutureTool) BuildTab(host plugin.Host) (plugin.Widget, error) {
	return futureWidget{}, nil
}

var futureTitleStyle = lipgloss.NewStyle().Bold(true)

type futureWidget struct{}

func (futureWidget) View(width, height int) string {
	var b strings.Builder
	b.WriteString(futureTitleStyle.Render("Future Tool"))
	b.WriteString("\n\n")
	b.WriteString("This is a placeholder for future functionality.\n\nAdd your tools here!")
	return b.String()
}
