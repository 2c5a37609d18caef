package resolver

import (
	"fmt"
	"strings"
)

// Outcome classifies one resolution attempt.
type Outcome int

const (
	// NotFound means nothing exists at the attempted location.
	NotFound Outcome = iota

	// LoadError means something was found but failed to load.
	LoadError

	// Success means the module loaded from this location.
	Success
)

func (o Outcome) String() string {
	switch o {
	case NotFound:
		return "not found"
	case LoadError:
		return "load error"
	case Success:
		return "success"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Attempt records one location tried while resolving a plugin.
type Attempt struct {
	// Location identifies what was probed: "registry:<name>" for the
	// name strategies, an absolute or relative file path for the
	// file-path strategy.
	Location string

	Outcome Outcome

	// Err carries the underlying cause for LoadError attempts.
	Err error
}

// Reason returns the human-readable reason for a non-success attempt.
func (a Attempt) Reason() string {
	if a.Outcome == LoadError && a.Err != nil {
		return a.Err.Error()
	}
	return a.Outcome.String()
}

// Trace is the ordered record of every location tried for one
// descriptor. It exists purely for diagnostics: the caller decides
// whether and how to render it.
type Trace []Attempt

// Resolved reports whether the trace ends in a successful load.
func (t Trace) Resolved() bool {
	return len(t) > 0 && t[len(t)-1].Outcome == Success
}

// String renders the trace one attempt per line.
func (t Trace) String() string {
	var b strings.Builder
	for i, a := range t {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", a.Location, a.Reason())
	}
	return b.String()
}
