// Package lifecycle drives the startup sequence shared by every host the
// engine can be entered from: obtain the launch configuration, optionally
// print version info and stop, finalize settings, run, and hand the outcome
// back to the host adapter.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/catgirl-engine/internal/args"
	"github.com/vovakirdan/catgirl-engine/internal/buildinfo"
	"github.com/vovakirdan/catgirl-engine/internal/logging"
)

// ErrNoRunner is returned when a coordinator has no run phase.
var ErrNoRunner = errors.New("lifecycle: no runner configured")

const (
	// StateStart is the initial state: configuration not yet obtained.
	StateStart State = iota
	// StateRunning indicates the run phase has been entered.
	StateRunning
	// StateTerminated is final.
	StateTerminated
)

const (
	HostBinary Host = iota
	HostLibrary
	HostMobile
	HostWeb
)

type (
	// State is a lifecycle state.
	State int32

	// Host identifies the execution context the engine was entered from.
	Host int

	// Adapter connects one host calling convention to the coordinator.
	Adapter interface {
		Host() Host
		// Arguments returns the host's argument vector, program name first.
		// A nil slice with a nil error means the host has none.
		Arguments() ([]string, error)
		// Report translates the outcome into the host's idiom.
		Report(Outcome)
	}

	// Runner is the engine's run phase.
	Runner interface {
		// Prepare derives process-level settings from the launch configuration.
		Prepare(cfg args.Config) error
		// Run does the engine's work and returns when it is done.
		Run(ctx context.Context) error
	}

	// Options configures a Coordinator. Zero fields get production defaults.
	Options struct {
		Store  *args.Store
		Runner Runner

		// Setup initializes logging before anything else runs.
		Setup func()
		// Logger returns the logger used for a host.
		Logger func(Host) *log.Logger
		// OnTransition observes every state change.
		OnTransition func(host Host, from, to State)

		Stdout    io.Writer
		BuildInfo func() buildinfo.Info
		License   string
	}

	// Coordinator runs the lifecycle. It is safe to call Enter more than
	// once; each call drives its own state machine to StateTerminated.
	Coordinator struct {
		opts Options
	}
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

func (h Host) String() string {
	switch h {
	case HostBinary:
		return "binary"
	case HostLibrary:
		return "library"
	case HostMobile:
		return "mobile"
	case HostWeb:
		return "web"
	default:
		return "unknown"
	}
}

// New creates a coordinator.
func New(opts Options) *Coordinator {
	if opts.Store == nil {
		opts.Store = args.Process
	}
	if opts.Setup == nil {
		opts.Setup = logging.ConfigureRuntime
	}
	if opts.Logger == nil {
		opts.Logger = func(h Host) *log.Logger { return logging.For(h.String()) }
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.BuildInfo == nil {
		opts.BuildInfo = buildinfo.Current
	}
	if opts.License == "" {
		opts.License = buildinfo.License
	}
	return &Coordinator{opts: opts}
}

// Runner returns the configured run phase.
func (c *Coordinator) Runner() Runner {
	return c.opts.Runner
}

// Store returns the configuration store the coordinator reads.
func (c *Coordinator) Store() *args.Store {
	return c.opts.Store
}

// Enter runs one lifecycle for adapter a and reports the outcome to it.
func (c *Coordinator) Enter(ctx context.Context, a Adapter) Outcome {
	c.opts.Setup()

	m := &machine{
		host:    a.Host(),
		state:   StateStart,
		logger:  c.opts.Logger(a.Host()),
		observe: c.opts.OnTransition,
	}
	out := c.drive(ctx, a, m)

	a.Report(out)
	return out
}

func (c *Coordinator) drive(ctx context.Context, a Adapter, m *machine) Outcome {
	cfg, err := c.configure(a)
	if err != nil {
		return m.terminate(args.Config{}, false, err)
	}

	if cfg.Help {
		if err := args.Usage(c.opts.Stdout); err != nil {
			return m.terminate(cfg, false, fmt.Errorf("lifecycle: print usage: %w", err))
		}
		return m.terminate(cfg, false, nil)
	}

	if cfg.Version {
		if err := buildinfo.Print(c.opts.Stdout, c.opts.BuildInfo(), c.opts.License); err != nil {
			return m.terminate(cfg, false, fmt.Errorf("lifecycle: print version: %w", err))
		}
		return m.terminate(cfg, false, nil)
	}

	if c.opts.Runner == nil {
		return m.terminate(cfg, false, ErrNoRunner)
	}
	if err := c.opts.Runner.Prepare(cfg); err != nil {
		return m.terminate(cfg, false, fmt.Errorf("lifecycle: prepare: %w", err))
	}

	m.logger.Debug("launched", "host", m.host)
	buildinfo.Log(m.logger, c.opts.BuildInfo())

	m.transition(StateRunning)
	// Run errors are passed through untouched so hosts see the exact text.
	return m.terminate(cfg, true, c.opts.Runner.Run(ctx))
}

// configure returns the published configuration, publishing one first if
// the store is still empty. Later entries never re-read host arguments.
func (c *Coordinator) configure(a Adapter) (args.Config, error) {
	if cfg, ok := c.opts.Store.Get(); ok {
		return cfg, nil
	}

	argv, err := a.Arguments()
	if err != nil {
		return args.Config{}, fmt.Errorf("lifecycle: ingest arguments: %w", err)
	}

	cfg := args.Default()
	if argv != nil {
		cfg, err = args.Parse(argv)
		if err != nil {
			return args.Config{}, err
		}
	}

	// Losing the race is fine: use whatever was published first.
	c.opts.Store.TrySet(cfg)
	published, _ := c.opts.Store.Get()
	return published, nil
}

// machine is the single-use state of one Enter call.
type machine struct {
	host    Host
	state   State
	logger  *log.Logger
	observe func(host Host, from, to State)
}

func (m *machine) transition(to State) {
	from := m.state
	m.state = to
	m.logger.Debug("lifecycle", "from", from, "to", to)
	if m.observe != nil {
		m.observe(m.host, from, to)
	}
}

func (m *machine) terminate(cfg args.Config, ran bool, err error) Outcome {
	m.transition(StateTerminated)
	if err != nil {
		m.logger.Error("engine stopped with error", "err", err)
	}
	return Outcome{
		Host:   m.host,
		State:  m.state,
		Config: cfg,
		Ran:    ran,
		Err:    err,
	}
}
