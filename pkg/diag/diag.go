// Package diag exposes the operational HTTP endpoints described in §6:
// GET /health for liveness, GET /stats for connection and process
// counters. Grounded on SPEC_FULL.md §11's prometheus/procfs wiring
// (pbnjay/memory lives in internal/config instead) — neither the teacher nor any other example repo
// serves a bare diagnostics endpoint, so the handler shape here follows
// Go's net/http idiom directly rather than a corpus file.
package diag

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/procfs"

	"github.com/gbridge/server/pkg/session"
)

// ProcessStats reports this process's resource footprint, sourced from
// /proc via procfs rather than the stdlib, which exposes neither RSS nor
// open file descriptor counts.
type ProcessStats struct {
	ResidentBytes  uint64 `json:"resident_bytes"`
	OpenFileDescs  int    `json:"open_file_descriptors"`
}

// Stats is the full payload returned by GET /stats.
type Stats struct {
	Connections session.Stats `json:"connections"`
	ActiveGames int           `json:"active_games"`
	Process     *ProcessStats `json:"process,omitempty"`
}

// GameCounter reports how many games are currently in progress.
type GameCounter interface {
	ActiveGameCount() int
}

// Handler serves /health and /stats.
type Handler struct {
	sessions *session.Registry
	games    GameCounter
}

// NewHandler builds a diagnostics handler.
func NewHandler(sessions *session.Registry, games GameCounter) *Handler {
	return &Handler{sessions: sessions, games: games}
}

// Health responds 200 OK with a plain body, used by load balancers and
// orchestrators to check liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("OK"))
}

// StatsHandler responds with connection, game, and process counters.
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := Stats{
		Connections: h.sessions.StatsSnapshot(),
		ActiveGames: h.games.ActiveGameCount(),
		Process:     readProcessStats(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// readProcessStats reads this process's own /proc entry, returning nil if
// procfs isn't mounted (e.g. non-Linux platforms or sandboxed runtimes).
func readProcessStats() *ProcessStats {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil
	}
	proc, err := fs.Self()
	if err != nil {
		return nil
	}
	stat, err := proc.Stat()
	if err != nil {
		return nil
	}
	fds, err := proc.FileDescriptorsLen()
	if err != nil {
		fds = 0
	}
	return &ProcessStats{
		ResidentBytes: uint64(stat.ResidentMemory()),
		OpenFileDescs: fds,
	}
}
