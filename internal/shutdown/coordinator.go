// Package shutdown implements the staged close protocol for the shell.
//
// Plugin cancellation is cooperative and may be ignored or slow, so a
// close request escalates through timed stages: signal every resolved
// plugin that supports set_cancelled, wait a short grace period, quit
// the window cleanly, and finally force process termination if the
// clean path never completes. Total shutdown latency is bounded by the
// sum of the two delays regardless of plugin behavior.
package shutdown

import (
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tabdock.dev/shell/internal/plugin"
)

// State tracks shutdown progress. Transitions are strictly forward
// moving; there is exactly one instance per process.
type State int

const (
	Running State = iota
	CancelRequested
	GracePeriodElapsed
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case CancelRequested:
		return "cancel-requested"
	case GracePeriodElapsed:
		return "grace-period-elapsed"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Default stage delays. The final delay is longer than the grace delay
// so escalation is strictly ordered.
const (
	DefaultGraceDelay = 200 * time.Millisecond
	DefaultFinalDelay = 500 * time.Millisecond
)

// GraceElapsedMsg is delivered through the event loop when the grace
// period timer fires.
type GraceElapsedMsg struct{}

// Coordinator drives the close protocol. The grace stage runs on the
// event loop's own timer facility (tea.Tick). The final failsafe is
// armed with a plain timer instead: it exists precisely for the case
// where the loop is wedged by a plugin that never returns, so it must
// fire off-loop. That timer is the only writer touching the state from
// outside the loop, hence the mutex.
type Coordinator struct {
	mu    sync.Mutex
	state State

	grace time.Duration
	final time.Duration

	modules []*plugin.LoadedModule

	terminate func()
	timerFunc func(time.Duration, func())
	log       *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDelays sets the grace and final stage delays.
func WithDelays(grace, final time.Duration) Option {
	return func(c *Coordinator) {
		c.grace = grace
		c.final = final
	}
}

// WithTerminate overrides the forced-termination action. Tests use
// this to observe termination instead of exiting.
func WithTerminate(fn func()) Option {
	return func(c *Coordinator) { c.terminate = fn }
}

// WithTimerFunc overrides how the final failsafe timer is armed.
func WithTimerFunc(fn func(time.Duration, func())) Option {
	return func(c *Coordinator) { c.timerFunc = fn }
}

// WithLogger sets the logger for stage transitions.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

// New creates a coordinator over the resolved plugin set.
func New(modules []*plugin.LoadedModule, opts ...Option) *Coordinator {
	c := &Coordinator{
		state:     Running,
		grace:     DefaultGraceDelay,
		final:     DefaultFinalDelay,
		modules:   modules,
		terminate: func() { os.Exit(0) },
		timerFunc: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.grace <= 0 {
		c.grace = DefaultGraceDelay
	}
	if c.final <= c.grace {
		c.final = c.grace * 2
	}
	return c
}

// State returns the current shutdown state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// advance moves from one state to the next. It returns false when the
// machine has already moved past from, which makes duplicate or late
// timer messages harmless no-ops.
func (c *Coordinator) advance(from, to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != from {
		return false
	}
	c.state = to
	return true
}

// RequestClose enters CancelRequested: every resolved plugin exposing
// set_cancelled is signalled, then the grace timer is scheduled on the
// event loop. Signal failures are swallowed; they must not block
// escalation. If signalling panics outside the per-module containment,
// the coordinator forces termination at once rather than leaving the
// process hung.
func (c *Coordinator) RequestClose() tea.Cmd {
	if !c.advance(Running, CancelRequested) {
		return nil
	}
	c.log.Info("close requested, signalling plugins", "plugins", len(c.modules), "grace", c.grace)

	func() {
		defer func() {
			if r := recover(); r != nil {
				c.log.Warn("cancellation signalling panicked, terminating", "panic", r)
				c.forceTerminate()
			}
		}()
		for _, m := range c.modules {
			if !m.Capabilities().Has(plugin.CapSetCancelled) {
				continue
			}
			if err := m.SetCancelled(true); err != nil {
				c.log.Warn("plugin ignored cancellation signal", "plugin", m.Name(), "error", err)
			}
		}
	}()

	return tea.Tick(c.grace, func(time.Time) tea.Msg {
		return GraceElapsedMsg{}
	})
}

// Update handles coordinator messages delivered through the event
// loop. Messages for stages already passed are ignored.
func (c *Coordinator) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(GraceElapsedMsg); ok {
		return c.graceElapsed()
	}
	return nil
}

// graceElapsed enters GracePeriodElapsed: arm the final failsafe, then
// ask the event loop to tear the window down cleanly. The failsafe
// always terminates unconditionally when it fires; whether the window
// still exists at that point is deliberately not consulted.
func (c *Coordinator) graceElapsed() tea.Cmd {
	if !c.advance(CancelRequested, GracePeriodElapsed) {
		return nil
	}
	c.log.Info("grace period elapsed, destroying window", "final", c.final)

	c.timerFunc(c.final, c.forceTerminate)
	return tea.Quit
}

// NoteCleanExit records that the window was destroyed cleanly before
// the failsafe fired. The embedding application calls this when the
// event loop returns; the process is expected to exit shortly after.
func (c *Coordinator) NoteCleanExit() {
	if c.advance(GracePeriodElapsed, Terminated) {
		c.log.Info("window destroyed cleanly")
	}
}

// forceTerminate unconditionally ends the process. This is the last
// resort guarantee: after a close request, termination must always
// eventually succeed no matter what else fails.
func (c *Coordinator) forceTerminate() {
	c.mu.Lock()
	already := c.state == Terminated
	c.state = Terminated
	c.mu.Unlock()
	if already {
		return
	}
	c.log.Warn("forcing process termination")
	if c.terminate != nil {
		c.terminate()
	}
}
