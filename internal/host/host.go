// Package host adapts each calling convention the engine can be entered
// from to the lifecycle coordinator.
package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"unsafe"

	"github.com/vovakirdan/catgirl-engine/internal/args"
	"github.com/vovakirdan/catgirl-engine/internal/lifecycle"
	"github.com/vovakirdan/catgirl-engine/internal/logging"
)

// Binary is the native executable entry point.
type Binary struct {
	Argv   []string
	Stderr io.Writer
}

func (b *Binary) Host() lifecycle.Host { return lifecycle.HostBinary }

func (b *Binary) Arguments() ([]string, error) { return b.Argv, nil }

// Report prints a failure the way a command line tool does.
func (b *Binary) Report(o lifecycle.Outcome) {
	if !o.Success() {
		fmt.Fprintf(b.Stderr, "Error: %s\n", o.Message())
	}
}

// RunBinary enters the engine as an executable and returns the process exit status.
func RunBinary(ctx context.Context, c *lifecycle.Coordinator, argv []string, stderr io.Writer) int {
	out := c.Enter(ctx, &Binary{Argv: argv, Stderr: stderr})
	return out.ExitCode()
}

// Library is the C-ABI entry point used when the engine is loaded as a shared library.
type Library struct {
	Argc int
	Argv unsafe.Pointer // char**, may be nil

	code int
	msg  string
}

func (l *Library) Host() lifecycle.Host { return lifecycle.HostLibrary }

// Arguments copies the foreign vector. A vector that yields no result
// falls back to the process arguments.
func (l *Library) Arguments() ([]string, error) {
	argv, ok, err := args.Ingest(l.Argc, l.Argv)
	if err != nil {
		return nil, err
	}
	if !ok {
		return os.Args, nil
	}
	return argv, nil
}

func (l *Library) Report(o lifecycle.Outcome) {
	l.code = o.ExitCode()
	l.msg = o.Message()
}

// Code returns the status reported by the last lifecycle.
func (l *Library) Code() int { return l.code }

// Message returns the failure text reported by the last lifecycle, or "".
func (l *Library) Message() string { return l.msg }

// StartLibrary enters the engine from a C caller. It returns 0 on success
// and 1 on failure, along with the failure text.
func StartLibrary(c *lifecycle.Coordinator, argc int, argv unsafe.Pointer) (int, string) {
	l := &Library{Argc: argc, Argv: argv}
	c.Enter(context.Background(), l)
	return l.Code(), l.Message()
}

// AppAttacher is implemented by runners that keep the mobile host handle.
type AppAttacher interface {
	AttachApp(app any)
}

// Mobile is the entry point invoked by a mobile host with an opaque app handle.
type Mobile struct{}

func (Mobile) Host() lifecycle.Host { return lifecycle.HostMobile }

// Arguments returns nil: mobile hosts pass no command line.
func (Mobile) Arguments() ([]string, error) { return nil, nil }

func (Mobile) Report(o lifecycle.Outcome) {
	reportStopped(lifecycle.HostMobile, o)
}

// StartMobile attaches app to the runner, if it accepts one, and enters the engine.
func StartMobile(c *lifecycle.Coordinator, app any) lifecycle.Outcome {
	if a, ok := c.Runner().(AppAttacher); ok {
		a.AttachApp(app)
	}
	return c.Enter(context.Background(), Mobile{})
}

// Web is the browser entry point.
type Web struct{}

func (Web) Host() lifecycle.Host { return lifecycle.HostWeb }

// Arguments returns nil: the browser has no command line.
func (Web) Arguments() ([]string, error) { return nil, nil }

func (Web) Report(o lifecycle.Outcome) {
	reportStopped(lifecycle.HostWeb, o)
}

// StartWeb enters the engine from the browser. A panic is logged with its
// stack and then allowed to continue unwinding.
//
// The hook only sees panics on the calling goroutine. The browser run path
// never starts goroutines of its own, so that covers the whole engine there;
// a panic elsewhere still crashes the module with the runtime's own trace.
func StartWeb(ctx context.Context, c *lifecycle.Coordinator) lifecycle.Outcome {
	defer reportPanic(lifecycle.HostWeb)
	return c.Enter(ctx, Web{})
}

// reportStopped logs a clean stop. Failures are already logged by the
// coordinator under the same host prefix.
func reportStopped(h lifecycle.Host, o lifecycle.Outcome) {
	if o.Success() {
		logging.For(h.String()).Info("engine stopped", "ran", o.Ran)
	}
}

func reportPanic(h lifecycle.Host) {
	if r := recover(); r != nil {
		logging.For(h.String()).Error("panic", "value", r, "stack", string(debug.Stack()))
		panic(r)
	}
}
