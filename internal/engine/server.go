//go:build !js

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/catgirl-engine/internal/storage"
)

const shutdownGrace = 10 * time.Second

// Server wraps a Wish SSH server that hands every session a splash screen.
type Server struct {
	settings Settings
	version  string
	server   *ssh.Server
	logger   *log.Logger

	mu    sync.Mutex
	store *storage.Store // Nil once closed
}

// NewServer creates a dedicated server for s.
func NewServer(s Settings, version string, logger *log.Logger) (*Server, error) {
	// Open storage
	store, err := storage.Open(s.DBPath)
	if err != nil {
		logger.Warn("could not open session journal", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &Server{
		settings: s,
		version:  version,
		store:    store,
		logger:   logger,
	}

	hostKeyPath, err := resolveHostKeyPath(s.HostKeyPath)
	if err != nil {
		srv.closeStore()
		return nil, err
	}

	opts := []ssh.Option{
		wish.WithAddress(s.Listen),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.journalMiddleware,
		),
	}
	if s.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(s.IdleTimeout))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("engine: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// resolveHostKeyPath defaults to ~/.catgirl-engine/host_key and makes sure its directory exists.
func resolveHostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("engine: cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".catgirl-engine", "host_key")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("engine: cannot create host key directory: %w", err)
	}
	return path, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	model := NewSplashModel(s.settings, s.version, sess.User())
	updated, _ := model.Update(tea.WindowSizeMsg{Width: pty.Window.Width, Height: pty.Window.Height})

	return updated, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// journalMiddleware logs and journals SSH session events.
func (s *Server) journalMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		user := sess.User()
		remote := sess.RemoteAddr().String()

		// The session keeps its own handle: the server may close the journal
		// while this handler is still running.
		store := s.journal()
		var id string
		if store != nil {
			var err error
			if id, err = store.StartSession(user, remote); err != nil {
				s.logger.Warn("could not journal session", "user", user, "error", err)
			}
		}

		s.logger.Info("session started", "user", user, "remote", remote, "session", id)
		next(sess)
		s.logger.Info("session ended", "user", user, "remote", remote, "session", id)

		if id != "" {
			if err := store.EndSession(id); err != nil {
				s.logger.Warn("could not close journaled session", "session", id, "error", err)
			}
		}
	}
}

// ListenAndServe serves until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.settings.Listen)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.closeStore()
		if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("engine: server: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown()
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeStore()
	if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("engine: shutdown: %w", err)
	}
	return nil
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.settings.Listen
}

// journal returns the open session journal, or nil.
func (s *Server) journal() *storage.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

func (s *Server) closeStore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// runServer runs the dedicated server until ctx is cancelled.
func (e *Engine) runServer(ctx context.Context, s Settings) error {
	srv, err := NewServer(s, e.version(), e.currentLogger())
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
