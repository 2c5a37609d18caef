package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	warningStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 2)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("86")).
			Padding(1, 2)

	menuCursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderHeader()
	body := m.renderBody()
	footer := m.renderFooter()

	if overlay := m.renderOverlay(); overlay != "" {
		body = overlay
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) renderHeader() string {
	title := titleStyle.Render(m.title)

	if len(m.tabs) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			emptyStyle.Render("(no tabs)"))
	}

	headers := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		style := inactiveTabStyle
		if i == m.active {
			style = activeTabStyle
		}
		headers = append(headers, style.Render(t.Label))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Bottom, headers...),
	)
}

func (m *Model) renderBody() string {
	if len(m.tabs) == 0 {
		return emptyStyle.Render("\n  No plugins loaded.\n")
	}
	t := m.tabs[m.active]
	return m.renderWidget(t)
}

// renderWidget calls into plugin code, so a panic here is contained to
// the tab that caused it.
func (m *Model) renderWidget(t TabEntry) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = emptyStyle.Render(fmt.Sprintf("tab %q failed to render: %v", t.Label, r))
		}
	}()
	return t.Widget.View(m.width, m.bodyHeight())
}

func (m *Model) bodyHeight() int {
	// header, tab row, status and help lines
	h := m.height - 5
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) renderFooter() string {
	help := "[tab] switch  [s] settings  [q] quit"
	status := m.status
	if status == "" {
		status = " "
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		statusStyle.Render(status),
		statusStyle.Render(help),
	)
}

// renderOverlay renders whichever overlay is active: the settings
// dialog, the first pending warning, or the settings menu. Overlays
// replace the tab body; the rest of the window stays up.
func (m *Model) renderOverlay() string {
	if m.dialog != nil {
		body := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(m.dialog.title),
			"",
			m.dialog.body,
			"",
			statusStyle.Render("[esc] close"),
		)
		return dialogStyle.Render(body)
	}

	if len(m.warnings) > 0 {
		body := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Warning"),
			"",
			m.warnings[0],
			"",
			statusStyle.Render("[enter] dismiss"),
		)
		return warningStyle.Render(body)
	}

	if m.menuOpen {
		var b strings.Builder
		b.WriteString(titleStyle.Render("Settings"))
		b.WriteString("\n\n")
		for i, e := range m.menu {
			cursor := "  "
			label := e.Label
			if i == m.menuCursor {
				cursor = "> "
				label = menuCursorStyle.Render(label)
			}
			fmt.Fprintf(&b, "%s%s\n", cursor, label)
		}
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("[enter] open  [esc] close"))
		return dialogStyle.Render(b.String())
	}

	return ""
}
