// Package engine is the run phase entered once the lifecycle has a
// configuration: it finalizes settings and then runs either the local
// client or the dedicated server.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/catgirl-engine/internal/args"
	"github.com/vovakirdan/catgirl-engine/internal/buildinfo"
	"github.com/vovakirdan/catgirl-engine/internal/config"
	"github.com/vovakirdan/catgirl-engine/internal/logging"
)

var (
	// ErrNotPrepared is returned by Run before a successful Prepare.
	ErrNotPrepared = errors.New("engine: not prepared")
	// ErrServerUnsupported is returned when the platform cannot host a dedicated server.
	ErrServerUnsupported = errors.New("engine: dedicated server is not supported on this platform")
)

// Options configures an Engine. Zero fields get production defaults.
type Options struct {
	// Logger is resolved at Prepare time so it picks up the configured default.
	Logger *log.Logger
	// LoadConfig reads the engine config file.
	LoadConfig func(path string) (config.EngineConfig, error)
	// Version is shown by the splash screen.
	Version string
}

// Engine implements the lifecycle run phase.
type Engine struct {
	opts Options

	mu       sync.Mutex
	logger   *log.Logger
	settings Settings
	prepared bool
	app      any
}

// New creates an engine.
func New(opts Options) *Engine {
	if opts.LoadConfig == nil {
		opts.LoadConfig = config.Load
	}
	return &Engine{opts: opts}
}

// Prepare loads the config file and derives the run settings from it and cfg.
func (e *Engine) Prepare(cfg args.Config) error {
	file, err := e.opts.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return err
	}

	s, err := Derive(cfg, file)
	if err != nil {
		return err
	}

	logger := e.opts.Logger
	if logger == nil {
		logger = logging.For("engine")
	}
	if err := logging.ApplyLevel(logger, s.LogLevel); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	e.mu.Lock()
	e.logger = logger
	e.settings = s
	e.prepared = true
	e.mu.Unlock()

	logger.Debug("settings prepared",
		"mode", s.Mode,
		"tick_rate", s.TickRate,
		"listen", s.Listen,
		"db", s.DBPath,
	)
	return nil
}

// Run runs the prepared mode until it finishes or ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	s, ok := e.Settings()
	if !ok {
		return ErrNotPrepared
	}

	switch s.Mode {
	case ModeServer:
		return e.runServer(ctx, s)
	default:
		return e.runClient(ctx, s)
	}
}

// Settings returns the prepared settings.
func (e *Engine) Settings() (Settings, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings, e.prepared
}

// AttachApp stores the handle a mobile host passed in.
func (e *Engine) AttachApp(app any) {
	e.mu.Lock()
	e.app = app
	e.mu.Unlock()
}

// App returns the attached mobile handle, if any.
func (e *Engine) App() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.app
}

// appName returns the name the attached handle reports, or "".
func (e *Engine) appName() string {
	if n, ok := e.App().(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}

func (e *Engine) currentLogger() *log.Logger {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logger
}

func (e *Engine) version() string {
	if e.opts.Version != "" {
		return e.opts.Version
	}
	return buildinfo.Current().VersionString()
}
