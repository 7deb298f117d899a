// Package lobby implements LobbyRegistry, the pre-game grouping mechanism
// described in §3/§4: players gather in a lobby, one of them owns host
// privileges, and the host starts the game once enough players have
// joined. Grounded on original_source/backend/src/lobby.rs's LobbyManager,
// with the sea_orm persistence layer dropped entirely — lobbies are
// transient pre-game state with no durability requirement (§1 Non-goals),
// so the registry here keeps only the in-memory half of that file.
package lobby

import (
	"sync"

	"github.com/gbridge/server/internal/apperrors"
	"github.com/google/uuid"
)

// ID identifies a lobby, matching the original's Uuid-based LobbyId.
type ID = string

// Settings describes the game a lobby is waiting to start.
type Settings struct {
	PlayerCount int `json:"player_count"`
}

// Lobby is one pre-game gathering of players.
type Lobby struct {
	ID       ID
	Host     string
	Players  []string
	Settings Settings
}

// IsFull reports whether the lobby has reached its configured player count.
func (l *Lobby) IsFull() bool {
	return len(l.Players) >= l.Settings.PlayerCount
}

// IsHost reports whether playerID currently holds host privileges.
func (l *Lobby) IsHost(playerID string) bool {
	return l.Host == playerID
}

func (l *Lobby) indexOf(playerID string) int {
	for i, p := range l.Players {
		if p == playerID {
			return i
		}
	}
	return -1
}

// Registry holds every open lobby in memory, serialized by a single mutex
// following the teacher's map-of-state-behind-one-lock convention (see
// pkg/poker/game.go's GameManager in the teacher repo).
type Registry struct {
	mu      sync.Mutex
	lobbies map[ID]*Lobby
}

// NewRegistry constructs an empty lobby registry.
func NewRegistry() *Registry {
	return &Registry{lobbies: make(map[ID]*Lobby)}
}

// Create opens a new lobby hosted by host, returning its ID.
func (r *Registry) Create(host string, settings Settings) ID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.lobbies[id] = &Lobby{
		ID:       id,
		Host:     host,
		Players:  []string{host},
		Settings: settings,
	}
	return id
}

// Join adds playerID to the named lobby, a no-op if already present.
func (r *Registry) Join(id ID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lobbies[id]
	if !ok {
		return apperrors.ErrLobbyNotFound
	}
	if l.IsFull() {
		return apperrors.ErrLobbyFull
	}
	if l.indexOf(playerID) == -1 {
		l.Players = append(l.Players, playerID)
	}
	return nil
}

// Leave removes playerID from the lobby, deleting the lobby if it becomes
// empty and transferring host to the next remaining player (in stable join
// order) if the host left.
func (r *Registry) Leave(id ID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lobbies[id]
	if !ok {
		return apperrors.ErrLobbyNotFound
	}

	idx := l.indexOf(playerID)
	if idx == -1 {
		return nil
	}
	l.Players = append(l.Players[:idx], l.Players[idx+1:]...)

	if len(l.Players) == 0 {
		delete(r.lobbies, id)
		return nil
	}
	if l.Host == playerID {
		l.Host = l.Players[0]
	}
	return nil
}

// List returns every lobby that still has room for another player.
func (r *Registry) List() []Lobby {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Lobby, 0, len(r.lobbies))
	for _, l := range r.lobbies {
		if !l.IsFull() {
			out = append(out, cloneLobby(l))
		}
	}
	return out
}

// Get returns a copy of the lobby by ID.
func (r *Registry) Get(id ID) (Lobby, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lobbies[id]
	if !ok {
		return Lobby{}, false
	}
	return cloneLobby(l), true
}

// Start validates that caller is host and the lobby has at least two
// players, removes the lobby, and returns its final player list for
// GameRegistry.CreateGame to consume.
func (r *Registry) Start(id ID, caller string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lobbies[id]
	if !ok {
		return nil, apperrors.ErrLobbyNotFound
	}
	if !l.IsHost(caller) {
		return nil, apperrors.ErrNotHost
	}
	if len(l.Players) < 2 {
		return nil, apperrors.ErrNotEnoughPlayers
	}

	players := append([]string(nil), l.Players...)
	delete(r.lobbies, id)
	return players, nil
}

func cloneLobby(l *Lobby) Lobby {
	return Lobby{
		ID:       l.ID,
		Host:     l.Host,
		Players:  append([]string(nil), l.Players...),
		Settings: l.Settings,
	}
}
