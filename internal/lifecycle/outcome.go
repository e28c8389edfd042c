package lifecycle

import "github.com/vovakirdan/catgirl-engine/internal/args"

// Outcome is the result of one lifecycle run.
type Outcome struct {
	Host   Host
	State  State       // Always StateTerminated once returned by Enter
	Config args.Config // Configuration the run used
	Ran    bool        // Whether the run phase was invoked
	Err    error       // Nil on success
}

// Success reports whether the lifecycle terminated without error.
func (o Outcome) Success() bool {
	return o.Err == nil
}

// Message returns the failure description, or "" on success.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// ExitCode maps the outcome to a process or C return status.
func (o Outcome) ExitCode() int {
	if o.Err != nil {
		return 1
	}
	return 0
}
