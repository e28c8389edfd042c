// Package args turns raw argument vectors into the engine's launch
// configuration and holds the process-wide copy of it.
package args

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Config is the parsed launch configuration.
// It is a plain value: once published to a Store it is only ever copied.
type Config struct {
	Server     bool   // Start as a dedicated server
	Version    bool   // Print version and copyright info, then exit
	Help       bool   // Print usage, then exit
	TickRate   int    // Ticks per second (0 = use config file)
	Seed       int64  // RNG seed (0 = time based)
	ConfigPath string // Engine config file (YAML or TOML)
	DBPath     string // Session journal database (empty = use config file)
	Listen     string // Dedicated server address (empty = use config file)
}

// Default returns the configuration used when a host supplies no arguments.
func Default() Config {
	return Config{}
}

// flagSpec declares one command line flag and the Config field it fills.
type flagSpec struct {
	Name  string
	Short string
	Usage string
	bind  func(fs *pflag.FlagSet, cfg *Config)
}

// grammar is the complete flag set accepted by every host.
var grammar = []flagSpec{
	boolFlag("server", "s", false, "Start the engine in dedicated server mode",
		func(c *Config) *bool { return &c.Server }),
	boolFlag("version", "v", false, "Display version and copyright info",
		func(c *Config) *bool { return &c.Version }),
	intFlag("fps", 0, "Tick rate in frames per second (0 = config file)",
		func(c *Config) *int { return &c.TickRate }),
	int64Flag("seed", 0, "RNG seed (0 = random based on time)",
		func(c *Config) *int64 { return &c.Seed }),
	stringFlag("config", "", "Path to engine config file (.yaml or .toml)",
		func(c *Config) *string { return &c.ConfigPath }),
	stringFlag("db", "", "Path to session journal database",
		func(c *Config) *string { return &c.DBPath }),
	stringFlag("listen", "", "Dedicated server address (host:port)",
		func(c *Config) *string { return &c.Listen }),
}

func boolFlag(name, short string, def bool, usage string, field func(*Config) *bool) flagSpec {
	return flagSpec{Name: name, Short: short, Usage: usage, bind: func(fs *pflag.FlagSet, cfg *Config) {
		fs.BoolVarP(field(cfg), name, short, def, usage)
	}}
}

func intFlag(name string, def int, usage string, field func(*Config) *int) flagSpec {
	return flagSpec{Name: name, Usage: usage, bind: func(fs *pflag.FlagSet, cfg *Config) {
		fs.IntVar(field(cfg), name, def, usage)
	}}
}

func int64Flag(name string, def int64, usage string, field func(*Config) *int64) flagSpec {
	return flagSpec{Name: name, Usage: usage, bind: func(fs *pflag.FlagSet, cfg *Config) {
		fs.Int64Var(field(cfg), name, def, usage)
	}}
}

func stringFlag(name, def, usage string, field func(*Config) *string) flagSpec {
	return flagSpec{Name: name, Usage: usage, bind: func(fs *pflag.FlagSet, cfg *Config) {
		fs.StringVar(field(cfg), name, def, usage)
	}}
}

// NewCommand builds the root command with every flag bound to cfg.
// A fresh command is built per parse so repeated entries never share state.
func NewCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catgirl-engine",
		Short: "Catgirl Engine - a moddable game engine",
		Long: `Catgirl Engine is a game engine designed for moddability.

It runs as a local client by default, or as a dedicated server with --server.

Examples:
  catgirl-engine
  catgirl-engine --server --listen :23234
  catgirl-engine --fps 30 --seed 42
  catgirl-engine --config ./engine.toml
  catgirl-engine --version`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, f := range grammar {
		f.bind(cmd.Flags(), cfg)
	}
	cmd.InitDefaultHelpFlag()

	return cmd
}

// Parse parses a full argument vector. argv[0] is the program name.
func Parse(argv []string) (Config, error) {
	cfg := Default()
	cmd := NewCommand(&cfg)

	rest := argv
	if len(rest) > 0 {
		rest = rest[1:]
	}

	if err := cmd.ParseFlags(rest); err != nil {
		return Config{}, fmt.Errorf("args: %w", err)
	}
	if err := cmd.ValidateArgs(cmd.Flags().Args()); err != nil {
		return Config{}, fmt.Errorf("args: %w", err)
	}

	help, err := cmd.Flags().GetBool("help")
	if err != nil {
		return Config{}, fmt.Errorf("args: %w", err)
	}
	cfg.Help = help

	return cfg, nil
}

// Usage writes the command help text to w.
func Usage(w io.Writer) error {
	cfg := Default()
	cmd := NewCommand(&cfg)
	cmd.SetOut(w)
	return cmd.Help()
}
