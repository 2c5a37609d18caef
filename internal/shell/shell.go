// Package shell owns the top-level window: the tab container, the
// settings menu, and the staged close protocol. It integrates whatever
// plugins the resolver can find and degrades per plugin on any
// failure; the worst case is a window with zero tabs and a warning per
// broken plugin, never an aborted startup.
package shell

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"tabdock.dev/shell/internal/plugin"
	"tabdock.dev/shell/internal/resolver"
	"tabdock.dev/shell/internal/shutdown"
)

// TabEntry is one hosted tab: the plugin's display label, the widget
// it built, and the module it came from.
type TabEntry struct {
	Label  string
	Widget plugin.Widget
	Source *plugin.LoadedModule
}

// MenuEntry is one Settings menu command contributed by a plugin.
type MenuEntry struct {
	Label  string
	Module *plugin.LoadedModule
}

type dialog struct {
	title string
	body  string
}

// Options configures the shell.
type Options struct {
	Title  string
	Width  int
	Height int
	Logger *slog.Logger

	// Shutdown is passed through to the coordinator.
	Shutdown []shutdown.Option
}

// Model is the bubbletea model for the whole window.
type Model struct {
	title  string
	width  int
	height int

	tabs   []TabEntry
	active int

	menu       []MenuEntry
	menuOpen   bool
	menuCursor int

	warnings []string
	dialog   *dialog
	status   string

	resolved    []*plugin.LoadedModule
	coordinator *shutdown.Coordinator
	log         *slog.Logger
}

// New constructs the window and integrates every descriptor in
// declaration order. The menu and tab container exist before any
// plugin is processed; a plugin that cannot be resolved is skipped
// silently, a plugin whose build_tab fails costs one warning, and
// neither aborts startup.
func New(res *resolver.Resolver, descriptors []resolver.Descriptor, opts Options) *Model {
	m := &Model{
		title:  opts.Title,
		width:  opts.Width,
		height: opts.Height,
		log:    opts.Logger,
	}
	if m.title == "" {
		m.title = "Tabdock"
	}
	if m.log == nil {
		m.log = slog.Default()
	}

	for _, d := range descriptors {
		lm, trace := res.Resolve(d)
		if lm == nil {
			// Absence is not an error: no tab, no menu entry, no
			// dialog. The trace is a diagnostic only.
			m.log.Debug("plugin unavailable", "plugin", d.Name, "trace", trace.String())
			continue
		}
		m.resolved = append(m.resolved, lm)
		m.integrate(d, lm)
	}

	m.coordinator = shutdown.New(m.resolved, append([]shutdown.Option{
		shutdown.WithLogger(m.log),
	}, opts.Shutdown...)...)

	return m
}

// integrate wires one loaded module's capabilities into the UI. The
// capability set was computed at load time; nothing is re-probed here.
func (m *Model) integrate(d resolver.Descriptor, lm *plugin.LoadedModule) {
	caps := lm.Capabilities()

	if caps.Has(plugin.CapBuildTab) {
		w, err := lm.BuildTab(m)
		if err != nil {
			m.warn(fmt.Sprintf("Plugin %q failed to build its tab: %v", d.DisplayLabel(), err))
			m.log.Warn("build_tab failed", "plugin", d.Name, "error", err)
		} else {
			m.tabs = append(m.tabs, TabEntry{Label: d.DisplayLabel(), Widget: w, Source: lm})
		}
	}

	// Menu registration happens at startup order regardless of
	// whether the tab itself succeeded.
	if caps.Has(plugin.CapShowSettings) {
		m.menu = append(m.menu, MenuEntry{Label: d.DisplayLabel(), Module: lm})
	}
}

// warn queues a non-blocking warning overlay.
func (m *Model) warn(msg string) {
	m.warnings = append(m.warnings, msg)
}

// SetStatus implements plugin.Host.
func (m *Model) SetStatus(msg string) {
	m.status = msg
}

// ShowDialog implements plugin.Window.
func (m *Model) ShowDialog(title, body string) {
	m.dialog = &dialog{title: title, body: body}
}

// Tabs returns the hosted tabs in declaration order.
func (m *Model) Tabs() []TabEntry { return m.tabs }

// MenuEntries returns the registered Settings commands.
func (m *Model) MenuEntries() []MenuEntry { return m.menu }

// Warnings returns the pending warning queue.
func (m *Model) Warnings() []string { return m.warnings }

// Resolved returns the loaded plugin set the coordinator will signal.
func (m *Model) Resolved() []*plugin.LoadedModule { return m.resolved }

// Coordinator exposes the shutdown coordinator so the embedding
// application can record a clean exit after the event loop returns.
func (m *Model) Coordinator() *shutdown.Coordinator { return m.coordinator }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case shutdown.GraceElapsedMsg:
		return m, m.coordinator.Update(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Close request always wins, whatever overlay is open.
	switch msg.String() {
	case "q", "ctrl+c":
		return m.coordinator.RequestClose()
	}

	if m.dialog != nil {
		if msg.String() == "esc" || msg.String() == "enter" {
			m.dialog = nil
		}
		return nil
	}

	if len(m.warnings) > 0 {
		if msg.String() == "esc" || msg.String() == "enter" {
			m.warnings = m.warnings[1:]
		}
		return nil
	}

	if m.menuOpen {
		return m.handleMenuKey(msg)
	}

	switch msg.String() {
	case "tab", "right":
		m.nextTab(1)
	case "shift+tab", "left":
		m.nextTab(-1)
	case "s":
		if len(m.menu) > 0 {
			m.menuOpen = true
			m.menuCursor = 0
		} else {
			m.status = "No plugin settings available"
		}
	}
	return nil
}

func (m *Model) nextTab(delta int) {
	if len(m.tabs) <= 1 {
		return
	}
	m.active = (m.active + delta + len(m.tabs)) % len(m.tabs)
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.menuOpen = false
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case "down", "j":
		if m.menuCursor < len(m.menu)-1 {
			m.menuCursor++
		}
	case "enter":
		m.menuOpen = false
		m.invokeSettings(m.menu[m.menuCursor])
	}
	return nil
}

// invokeSettings opens one plugin's settings dialog, at most once per
// selection. A failing dialog costs a warning, nothing more.
func (m *Model) invokeSettings(e MenuEntry) {
	if err := e.Module.ShowSettingsDialog(m); err != nil {
		m.warn(fmt.Sprintf("Plugin %q failed to open settings: %v", e.Label, err))
		m.log.Warn("show_settings_dialog failed", "plugin", e.Module.Name(), "error", err)
	}
}
