// Package storage provides SQLite-based persistence for dedicated server sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for the session journal.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Session is one journaled connection to the dedicated server.
type Session struct {
	ID        string
	User      string
	Remote    string
	StartedAt time.Time
	EndedAt   time.Time // Zero while the session is open
}

// Open reports whether the session is still in progress.
func (s Session) Open() bool {
	return s.EndedAt.IsZero()
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, now: time.Now}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
// Timestamps are stored as Unix nanoseconds.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user TEXT NOT NULL,
			remote TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at INTEGER
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartSession journals a new session and returns its ID.
func (s *Store) StartSession(user, remote string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, user, remote, started_at) VALUES (?, ?, ?, ?)",
		id, user, remote, s.now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot start session: %w", err)
	}
	return id, nil
}

// EndSession marks an open session as finished.
func (s *Store) EndSession(id string) error {
	result, err := s.db.Exec(
		"UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL",
		s.now().UnixNano(), id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot end session: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot end session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("storage: no open session %q", id)
	}
	return nil
}

// RecentSessions returns the newest sessions first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, user, remote, started_at, ended_at
		 FROM sessions
		 ORDER BY started_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var started int64
		var ended sql.NullInt64
		if err := rows.Scan(&sess.ID, &sess.User, &sess.Remote, &started, &ended); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.StartedAt = time.Unix(0, started)
		if ended.Valid {
			sess.EndedAt = time.Unix(0, ended.Int64)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// CountSessions returns how many sessions have been journaled.
func (s *Store) CountSessions() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count sessions: %w", err)
	}
	return n, nil
}
