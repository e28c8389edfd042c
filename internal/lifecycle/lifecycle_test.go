package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/catgirl-engine/internal/args"
	"github.com/vovakirdan/catgirl-engine/internal/buildinfo"
)

type fakeAdapter struct {
	host     Host
	argv     []string
	argErr   error
	argCalls int
	reported []Outcome
}

func (a *fakeAdapter) Host() Host { return a.host }

func (a *fakeAdapter) Arguments() ([]string, error) {
	a.argCalls++
	return a.argv, a.argErr
}

func (a *fakeAdapter) Report(o Outcome) { a.reported = append(a.reported, o) }

type fakeRunner struct {
	mu         sync.Mutex
	prepared   []args.Config
	runs       int
	prepareErr error
	runErr     error
}

func (r *fakeRunner) Prepare(cfg args.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prepared = append(r.prepared, cfg)
	return r.prepareErr
}

func (r *fakeRunner) Run(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
	return r.runErr
}

type harness struct {
	coord       *Coordinator
	runner      *fakeRunner
	store       *args.Store
	stdout      *bytes.Buffer
	logs        *bytes.Buffer
	setupCalls  int
	transitions []State
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		runner: &fakeRunner{},
		store:  args.NewStore(),
		stdout: &bytes.Buffer{},
		logs:   &bytes.Buffer{},
	}
	logger := log.NewWithOptions(h.logs, log.Options{Level: log.DebugLevel})
	h.coord = New(Options{
		Store:  h.store,
		Runner: h.runner,
		Setup:  func() { h.setupCalls++ },
		Logger: func(Host) *log.Logger { return logger },
		OnTransition: func(_ Host, _, to State) {
			h.transitions = append(h.transitions, to)
		},
		Stdout: h.stdout,
		BuildInfo: func() buildinfo.Info {
			return buildinfo.Info{Name: buildinfo.Name, Version: "1.0.0", Commit: "abc", BuildDate: "today"}
		},
		License: "LICENSE TEXT\n",
	})
	return h
}

func TestEnterRunsEngine(t *testing.T) {
	h := newHarness(t)
	a := &fakeAdapter{host: HostBinary, argv: []string{"prog", "--server"}}

	out := h.coord.Enter(context.Background(), a)

	assert.True(t, out.Success())
	assert.True(t, out.Ran)
	assert.Equal(t, StateTerminated, out.State)
	assert.Equal(t, 0, out.ExitCode())
	assert.Equal(t, "", out.Message())
	assert.Equal(t, 1, h.runner.runs)
	require.Len(t, h.runner.prepared, 1)
	assert.Equal(t, args.Config{Server: true}, h.runner.prepared[0])
	assert.Equal(t, []State{StateRunning, StateTerminated}, h.transitions)
	require.Len(t, a.reported, 1)
	assert.Equal(t, out, a.reported[0])
}

func TestEnterCallsSetupFirst(t *testing.T) {
	h := newHarness(t)
	a := &fakeAdapter{host: HostLibrary, argErr: errors.New("boom")}

	h.coord.Enter(context.Background(), a)

	assert.Equal(t, 1, h.setupCalls)
}

func TestEnterVersionNeverRuns(t *testing.T) {
	h := newHarness(t)
	a := &fakeAdapter{host: HostBinary, argv: []string{"prog", "--version"}}

	out := h.coord.Enter(context.Background(), a)

	assert.True(t, out.Success())
	assert.False(t, out.Ran)
	assert.Equal(t, 0, h.runner.runs)
	assert.Empty(t, h.runner.prepared)
	assert.Equal(t, []State{StateTerminated}, h.transitions)
	assert.Equal(t, args.Config{Version: true}, out.Config)

	printed := h.stdout.String()
	assert.Contains(t, printed, "catgirl-engine 1.0.0\n")
	assert.Contains(t, printed, "Commit:     abc\n")
	assert.Contains(t, printed, "Dependencies: none\n\nLICENSE TEXT\n")
}

func TestEnterVersionWinsOverServer(t *testing.T) {
	h := newHarness(t)
	a := &fakeAdapter{host: HostBinary, argv: []string{"prog", "-s", "-v"}}

	out := h.coord.Enter(context.Background(), a)

	assert.True(t, out.Success())
	assert.Equal(t, 0, h.runner.runs)
}

func TestEnterHelpPrintsUsage(t *testing.T) {
	h := newHarness(t)
	a := &fakeAdapter{host: HostBinary, argv: []string{"prog", "--help"}}

	out := h.coord.Enter(context.Background(), a)

	assert.True(t, out.Success())
	assert.Equal(t, 0, h.runner.runs)
	assert.Contains(t, h.stdout.String(), "--server")
}

func TestEnterRunFailure(t *testing.T) {
	h := newHarness(t)
	h.runner.runErr = errors.New("X")
	a := &fakeAdapter{host: HostBinary, argv: []string{"prog"}}

	out := h.coord.Enter(context.Background(), a)

	assert.False(t, out.Success())
	assert.True(t, out.Ran)
	assert.Equal(t, "X", out.Message())
	assert.Equal(t, 1, out.ExitCode())
	assert.Equal(t, []State{StateRunning, StateTerminated}, h.transitions)
	assert.Contains(t, h.logs.String(), "X")
}

func TestEnterPrepareFailure(t *testing.T) {
	h := newHarness(t)
	h.runner.prepareErr = errors.New("bad tick rate")
	a := &fakeAdapter{host: HostBinary, argv: []string{"prog"}}

	out := h.coord.Enter(context.Background(), a)

	assert.False(t, out.Success())
	assert.False(t, out.Ran)
	assert.Equal(t, 0, h.runner.runs)
	assert.Contains(t, out.Message(), "bad tick rate")
	assert.Equal(t, []State{StateTerminated}, h.transitions)
}

func TestEnterIngestionFault(t *testing.T) {
	h := newHarness(t)
	a := &fakeAdapter{host: HostLibrary, argErr: args.ErrInvalidText}

	out := h.coord.Enter(context.Background(), a)

	assert.False(t, out.Success())
	assert.True(t, errors.Is(out.Err, args.ErrInvalidText))
	assert.Equal(t, 0, h.runner.runs)

	_, published := h.store.Get()
	assert.False(t, published, "a failed ingestion must not publish")
}

func TestEnterParseFailure(t *testing.T) {
	h := newHarness(t)
	a := &fakeAdapter{host: HostBinary, argv: []string{"prog", "--warp-speed"}}

	out := h.coord.Enter(context.Background(), a)

	assert.False(t, out.Success())
	assert.Contains(t, out.Message(), "warp-speed")
	assert.Equal(t, 0, h.runner.runs)
}

func TestEnterNoArgumentsUsesDefault(t *testing.T) {
	h := newHarness(t)
	a := &fakeAdapter{host: HostWeb}

	out := h.coord.Enter(context.Background(), a)

	assert.True(t, out.Success())
	cfg, ok := h.store.Get()
	require.True(t, ok)
	assert.Equal(t, args.Default(), cfg)
}

func TestEnterReusesFirstPublishedConfig(t *testing.T) {
	h := newHarness(t)

	first := &fakeAdapter{host: HostLibrary, argv: []string{"prog", "--server"}}
	h.coord.Enter(context.Background(), first)

	second := &fakeAdapter{host: HostLibrary, argv: []string{"prog", "--version"}}
	out := h.coord.Enter(context.Background(), second)

	assert.Equal(t, 0, second.argCalls, "arguments are not re-read once published")
	assert.True(t, out.Ran)
	assert.Equal(t, args.Config{Server: true}, out.Config)
	assert.Equal(t, 2, h.runner.runs)
}

func TestEnterConcurrentEntriesAgree(t *testing.T) {
	store := args.NewStore()
	runner := &fakeRunner{}
	coord := New(Options{
		Store:  store,
		Runner: runner,
		Setup:  func() {},
		Logger: func(Host) *log.Logger { return log.New(io.Discard) },
		Stdout: io.Discard,
	})

	const entries = 16
	outcomes := make([]Outcome, entries)
	var wg sync.WaitGroup
	for i := range entries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			argv := []string{"prog"}
			if i%2 == 0 {
				argv = append(argv, "--server")
			}
			outcomes[i] = coord.Enter(context.Background(), &fakeAdapter{host: HostLibrary, argv: argv})
		}(i)
	}
	wg.Wait()

	published, ok := store.Get()
	require.True(t, ok)
	for _, out := range outcomes {
		assert.Equal(t, published, out.Config)
	}
}

func TestEnterWithoutRunner(t *testing.T) {
	coord := New(Options{
		Store:  args.NewStore(),
		Setup:  func() {},
		Logger: func(Host) *log.Logger { return log.New(io.Discard) },
		Stdout: io.Discard,
	})

	out := coord.Enter(context.Background(), &fakeAdapter{host: HostBinary, argv: []string{"prog"}})

	assert.True(t, errors.Is(out.Err, ErrNoRunner))
}

func TestStateAndHostStrings(t *testing.T) {
	assert.Equal(t, "start", StateStart.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "terminated", StateTerminated.String())
	assert.Equal(t, "unknown", State(42).String())

	assert.Equal(t, "binary", HostBinary.String())
	assert.Equal(t, "library", HostLibrary.String())
	assert.Equal(t, "mobile", HostMobile.String())
	assert.Equal(t, "web", HostWeb.String())
}
