package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/catgirl-engine/internal/args"
	"github.com/vovakirdan/catgirl-engine/internal/config"
)

const (
	// ModeClient runs the local splash client.
	ModeClient Mode = iota
	// ModeServer runs the dedicated SSH server.
	ModeServer
)

const maxTickRate = 1000

// Mode selects what Run does.
type Mode int

func (m Mode) String() string {
	switch m {
	case ModeClient:
		return "client"
	case ModeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Settings are the process-level values the engine runs with.
type Settings struct {
	Mode        Mode
	Title       string
	TickRate    int
	Seed        int64 // 0 = random based on time
	Listen      string
	HostKeyPath string // Empty = ~/.catgirl-engine/host_key
	DBPath      string
	IdleTimeout time.Duration
	LogLevel    string
}

// Derive overlays the launch configuration on the engine config file.
// Flags left at their zero value keep the file's setting.
func Derive(cfg args.Config, file config.EngineConfig) (Settings, error) {
	s := Settings{
		Mode:        ModeClient,
		Title:       file.Title,
		TickRate:    file.TickRate,
		Seed:        file.Seed,
		Listen:      file.Server.Listen,
		HostKeyPath: file.Server.HostKeyPath,
		DBPath:      file.Server.DBPath,
		IdleTimeout: time.Duration(file.Server.IdleTimeout) * time.Minute,
		LogLevel:    file.Log.Level,
	}

	if cfg.Server {
		s.Mode = ModeServer
	}
	if cfg.TickRate != 0 {
		s.TickRate = cfg.TickRate
	}
	if cfg.Seed != 0 {
		s.Seed = cfg.Seed
	}
	if cfg.Listen != "" {
		s.Listen = cfg.Listen
	}
	if cfg.DBPath != "" {
		s.DBPath = cfg.DBPath
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the settings can be run.
func (s Settings) Validate() error {
	var errs []error
	if s.TickRate < 1 || s.TickRate > maxTickRate {
		errs = append(errs, fmt.Errorf("tick rate %d out of range 1..%d", s.TickRate, maxTickRate))
	}
	if s.Mode == ModeServer && s.Listen == "" {
		errs = append(errs, errors.New("server mode needs a listen address"))
	}
	if s.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("idle timeout %s is negative", s.IdleTimeout))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("engine: invalid settings: %w", err)
	}
	return nil
}

// seed returns the configured seed, or a time based one when unset.
func (s Settings) seed() int64 {
	if s.Seed != 0 {
		return s.Seed
	}
	return time.Now().UnixNano()
}
