//go:build js

package engine

import (
	"context"
	"time"
)

// runClient has no terminal in the browser, so it ticks headless and logs progress.
func (e *Engine) runClient(ctx context.Context, s Settings) error {
	logger := e.currentLogger()
	logger.Info("starting headless client", "title", s.Title, "tick_rate", s.TickRate, "app", e.appName())

	tick := time.NewTicker(time.Second / time.Duration(s.TickRate))
	defer tick.Stop()
	report := time.NewTicker(time.Second)
	defer report.Stop()

	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			logger.Info("client stopped", "ticks", ticks)
			return nil
		case <-tick.C:
			ticks++
		case <-report.C:
			logger.Debug("tick", "count", ticks)
		}
	}
}

func (e *Engine) runServer(context.Context, Settings) error {
	return ErrServerUnsupported
}
