// Package session implements SessionRegistry, the identity-to-transport
// binding described in §3/§5: each authenticated player owns at most one
// active outbound channel, and a disconnected player gets a grace window
// to reconnect before being dropped for good. Grounded on
// original_source/backend/src/connection.rs's ConnectionManager/
// PlayerSession, translated from tokio::sync::RwLock<HashMap<...>> plus an
// mpsc::UnboundedSender into a single sync.Mutex guarding a map of bounded
// Go channels — unbounded channels invite unbounded memory growth against a
// slow or wedged client, so sends here follow the teacher's
// drop-the-slow-consumer convention (pkg/server/notifications.go in
// vctt94-pokerbisonrelay) instead of the original's unbounded mpsc.
package session

import (
	"sync"
	"time"

	"github.com/gbridge/server/internal/apperrors"
)

// outboundBuffer caps how many unread messages accumulate for one player
// before the registry starts dropping them rather than blocking a sender.
const outboundBuffer = 32

// Stats mirrors original_source/backend/src/connection.rs's ConnectionStats,
// the payload behind GET /stats (§6, SPEC_FULL.md §12).
type Stats struct {
	Total    int `json:"total_connections"`
	Active   int `json:"active_connections"`
	Inactive int `json:"inactive_connections"`
}

type session struct {
	id             string
	out            chan []byte
	connectedAt    time.Time
	lastActivity   time.Time
	active         bool
	disconnectedAt time.Time
}

// Registry tracks every known player's transport binding.
type Registry struct {
	mu              sync.Mutex
	sessions        map[string]*session
	reconnectWindow time.Duration
}

// NewRegistry builds a registry with the given reconnect grace window
// (RECONNECT_GRACE_SECS, §6).
func NewRegistry(reconnectWindow time.Duration) *Registry {
	return &Registry{
		sessions:        make(map[string]*session),
		reconnectWindow: reconnectWindow,
	}
}

// Register binds playerID to a fresh outbound channel and returns it for
// the transport's write pump to drain.
func (r *Registry) Register(playerID string) <-chan []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	out := make(chan []byte, outboundBuffer)
	r.sessions[playerID] = &session{
		id:           playerID,
		out:          out,
		connectedAt:  now,
		lastActivity: now,
		active:       true,
	}
	return out
}

// Reconnect rebinds playerID to a new outbound channel, as long as the
// reconnect grace window has not elapsed since it went inactive. It
// returns apperrors.ErrAuthRejected (the reconnect-timeout-expired outcome,
// SPEC_FULL.md §12) when the window has passed.
func (r *Registry) Reconnect(playerID string) (<-chan []byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[playerID]
	if !ok {
		return nil, apperrors.ErrPlayerNotInGame
	}
	if !s.disconnectedAt.IsZero() && time.Since(s.disconnectedAt) > r.reconnectWindow {
		delete(r.sessions, playerID)
		return nil, apperrors.ErrAuthRejected
	}

	out := make(chan []byte, outboundBuffer)
	s.out = out
	s.active = true
	s.lastActivity = time.Now()
	s.disconnectedAt = time.Time{}
	return out, nil
}

// MarkInactive records playerID as disconnected without forgetting it,
// starting its reconnect grace window.
func (r *Registry) MarkInactive(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[playerID]
	if !ok {
		return
	}
	s.active = false
	s.disconnectedAt = time.Now()
}

// Remove forgets playerID unconditionally, used when a player explicitly
// leaves rather than merely disconnecting.
func (r *Registry) Remove(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, playerID)
}

// Touch refreshes playerID's last-activity timestamp.
func (r *Registry) Touch(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[playerID]; ok {
		s.lastActivity = time.Now()
	}
}

// Send enqueues payload for playerID, dropping the message if that
// player's outbound buffer is full rather than blocking the caller —
// one wedged client must never stall the registry for everyone else.
func (r *Registry) Send(playerID string, payload []byte) {
	r.mu.Lock()
	s, ok := r.sessions[playerID]
	r.mu.Unlock()
	if !ok || !s.active {
		return
	}
	select {
	case s.out <- payload:
	default:
	}
}

// Broadcast sends payload to every listed player.
func (r *Registry) Broadcast(playerIDs []string, payload []byte) {
	for _, id := range playerIDs {
		r.Send(id, payload)
	}
}

// ActivePlayers returns every currently connected player ID.
func (r *Registry) ActivePlayers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.sessions))
	for id, s := range r.sessions {
		if s.active {
			out = append(out, id)
		}
	}
	return out
}

// Sweep removes sessions whose reconnect grace window has fully elapsed,
// returning the IDs it dropped. Intended to run on a periodic ticker,
// grounded on cleanup_expired_sessions in connection.rs.
func (r *Registry) Sweep() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []string
	now := time.Now()
	for id, s := range r.sessions {
		if !s.active && !s.disconnectedAt.IsZero() && now.Sub(s.disconnectedAt) > r.reconnectWindow {
			expired = append(expired, id)
			delete(r.sessions, id)
		}
	}
	return expired
}

// StatsSnapshot reports connection counts for GET /stats.
func (r *Registry) StatsSnapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := len(r.sessions)
	active := 0
	for _, s := range r.sessions {
		if s.active {
			active++
		}
	}
	return Stats{Total: total, Active: active, Inactive: total - active}
}
