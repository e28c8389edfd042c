// Package logging sets up the engine's structured logger.
package logging

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Environment overrides, applied on top of the profile defaults.
const (
	// EnvLogLevel selects the level: trace, debug, info, warn, error or off.
	EnvLogLevel = "CATGIRL_LOG_LEVEL"
	// EnvLogTimestamp turns timestamps on or off.
	EnvLogTimestamp = "CATGIRL_LOG_TIMESTAMP"
	// EnvLogFormat selects text, json or logfmt output.
	EnvLogFormat = "CATGIRL_LOG_FORMAT"
)

// Prefix is the root logger prefix.
const Prefix = "catgirl-engine"

// disabledLevel is above every level charm log emits.
const disabledLevel = log.Level(math.MaxInt32)

// Profile selects the default logger options.
type Profile int

const (
	// ProfileRuntime logs at info with timestamps.
	ProfileRuntime Profile = iota
	// ProfileTest logs at debug without timestamps.
	ProfileTest
)

var configureOnce sync.Once

// ConfigureRuntime configures logging for a running engine.
func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

// ConfigureTests configures logging for test binaries.
func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure installs the default logger. Only the first call has any effect,
// so every entry point may call it unconditionally.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		opts := defaultOptions(profile)
		applyEnvOverrides(&opts)
		log.SetDefault(log.NewWithOptions(os.Stderr, opts))
	})
}

// For returns a child of the default logger tagged with the host name.
func For(host string) *log.Logger {
	return log.Default().WithPrefix(Prefix + "/" + host)
}

// ApplyLevel sets a level coming from a config file on l.
// The environment override always wins over the file.
func ApplyLevel(l *log.Logger, raw string) error {
	if strings.TrimSpace(raw) == "" || os.Getenv(EnvLogLevel) != "" {
		return nil
	}
	lvl, trace, ok := ParseLevel(raw)
	if !ok {
		return fmt.Errorf("logging: unknown level %q", raw)
	}
	l.SetLevel(lvl)
	l.SetReportCaller(trace)
	return nil
}

func defaultOptions(profile Profile) log.Options {
	opts := log.Options{Prefix: Prefix}
	switch profile {
	case ProfileTest:
		opts.Level = log.DebugLevel
		opts.ReportTimestamp = false
	default:
		opts.Level = log.InfoLevel
		opts.ReportTimestamp = true
	}
	return opts
}

func applyEnvOverrides(opts *log.Options) {
	if lvl, trace, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		opts.Level = lvl
		opts.ReportCaller = trace
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		opts.ReportTimestamp = v
	}
	if f, ok := parseFormat(os.Getenv(EnvLogFormat)); ok {
		opts.Formatter = f
	}
}

// ParseLevel maps a level name to a charm log level. "trace" is debug with
// caller reporting turned on.
func ParseLevel(raw string) (lvl log.Level, trace bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return log.InfoLevel, false, false
	case "trace", "diagnostics":
		return log.DebugLevel, true, true
	case "debug":
		return log.DebugLevel, false, true
	case "info":
		return log.InfoLevel, false, true
	case "warn", "warning":
		return log.WarnLevel, false, true
	case "error":
		return log.ErrorLevel, false, true
	case "disabled", "disable", "off", "none":
		return disabledLevel, false, true
	default:
		return log.InfoLevel, false, false
	}
}

func parseFormat(raw string) (log.Formatter, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "text":
		return log.TextFormatter, true
	case "json":
		return log.JSONFormatter, true
	case "logfmt":
		return log.LogfmtFormatter, true
	default:
		return log.TextFormatter, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
