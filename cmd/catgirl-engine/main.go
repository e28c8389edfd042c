// catgirl-engine runs the engine as a native executable.
//
// Usage:
//
//	catgirl-engine                 - Start the local client
//	catgirl-engine --server        - Start the dedicated SSH server
//	catgirl-engine --version       - Print version, build and license info
//
// Flags:
//
//	--fps <rate>      - Set tick rate (default: from config, 60)
//	--seed <value>    - Set RNG seed for reproducible runs
//	--config <path>   - Engine config file (.yaml or .toml)
//	--db <path>       - Session journal database
//	--listen <addr>   - Dedicated server address
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vovakirdan/catgirl-engine/internal/engine"
	"github.com/vovakirdan/catgirl-engine/internal/host"
	"github.com/vovakirdan/catgirl-engine/internal/lifecycle"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	coord := lifecycle.New(lifecycle.Options{
		Runner: engine.New(engine.Options{}),
	})
	code := host.RunBinary(ctx, coord, os.Args, os.Stderr)

	stop()
	os.Exit(code)
}
