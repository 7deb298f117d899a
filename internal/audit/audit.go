// Package audit persists a best-effort log of completed actions to
// SQLite, the optional AuditStore from SPEC_FULL.md §11. Grounded on
// pkg/server/internal/db/db.go's sql.Open("sqlite3", ...) plus
// CREATE TABLE IF NOT EXISTS pattern; writes are fire-and-forget so a
// stalled disk never blocks gameplay (mirrored from the teacher's
// notification-broadcast goroutines, which never let a slow consumer
// stall the sender).
package audit

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/decred/slog"
)

// Event is one row written to the audit_events table.
type Event struct {
	GameID    string
	PlayerID  string
	Kind      string
	Detail    string
	Timestamp time.Time
}

// Store appends Events to a SQLite database, dropping writes under backlog
// rather than blocking the caller.
type Store struct {
	db     *sql.DB
	events chan Event
	log    slog.Logger
	done   chan struct{}
}

// Open creates (or reuses) the SQLite file at path and starts the
// background writer goroutine. A blank path disables auditing entirely,
// returning a Store whose Record calls are no-ops.
func Open(path string, log slog.Logger) (*Store, error) {
	if path == "" {
		return &Store{log: log}, nil
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:     db,
		events: make(chan Event, 256),
		log:    log,
		done:   make(chan struct{}),
	}
	go s.run()
	return s, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT,
			created_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (s *Store) run() {
	defer close(s.done)
	for ev := range s.events {
		_, err := s.db.Exec(
			`INSERT INTO audit_events (game_id, player_id, kind, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
			ev.GameID, ev.PlayerID, ev.Kind, ev.Detail, ev.Timestamp,
		)
		if err != nil && s.log != nil {
			s.log.Warnf("audit: failed to persist event: %v", err)
		}
	}
}

// Record enqueues ev for persistence, dropping it silently if the store is
// disabled or the write queue is backed up.
func (s *Store) Record(ev Event) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- ev:
	default:
		if s.log != nil {
			s.log.Warnf("audit: dropping event for game %s, queue full", ev.GameID)
		}
	}
}

// Close stops the writer goroutine and closes the underlying database.
func (s *Store) Close() error {
	if s.events == nil {
		return nil
	}
	close(s.events)
	<-s.done
	return s.db.Close()
}
