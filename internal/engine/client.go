//go:build !js

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// runClient runs the splash screen in the local terminal.
func (e *Engine) runClient(ctx context.Context, s Settings) error {
	model := NewSplashModel(s, e.version(), "").WithApp(e.appName())

	// Seed the model with the terminal size so the first frame is centered
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		updated, _ := model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		model = updated.(SplashModel)
	}

	e.currentLogger().Info("starting client", "title", s.Title, "tick_rate", s.TickRate)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		// Cancellation is a normal way to stop
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("engine: client: %w", err)
	}
	return nil
}
