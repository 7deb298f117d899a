// Package gameregistry implements GameRegistry, the per-game serialization
// point described in §4.4: every mutation to a GameState happens while
// that game's own mutex is held, broadcasts are sent only after the lock
// is released, and a TimerService arms a turn-expiry deadline after every
// successful action. Grounded on the teacher's pkg/poker/game.go
// (GameManager: a map of mutex-guarded tables plus a per-table
// auto-action timer) and on original_source/backend/src/game.rs's
// GameManager stub, which SPEC_FULL.md §3 asks this package to actually
// implement.
package gameregistry

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/gbridge/server/internal/apperrors"
	"github.com/gbridge/server/internal/audit"
	"github.com/gbridge/server/pkg/game"
	"github.com/gbridge/server/pkg/utils"
)

// Notifier delivers encoded server messages to players. Router/transport
// implement this; GameRegistry never talks to a websocket directly.
type Notifier interface {
	SendTo(playerID string, msgType string, payload interface{})
	BroadcastTo(playerIDs []string, msgType string, payload interface{})
}

// Auditor records completed actions for later inspection. internal/audit.Store
// implements this; a nil Auditor simply means auditing is disabled.
type Auditor interface {
	Record(ev audit.Event)
}

type entry struct {
	mu    sync.Mutex
	state *game.GameState
}

// Registry owns every active game, keyed by game ID.
type Registry struct {
	mu        sync.RWMutex
	games     map[string]*entry
	notifier  Notifier
	auditor   Auditor
	timers    *TimerService
	turnLimit time.Duration
	log       slog.Logger
}

// NewRegistry builds an empty registry. turnLimit is the per-turn deadline
// (TURN_TIMEOUT_SECS, §6). The Notifier is supplied separately via
// SetNotifier, since the router that implements Notifier also depends on
// this registry — cmd/gbridged wires the pair by constructing the
// registry first, then the router, then closing the loop.
func NewRegistry(turnLimit time.Duration, log slog.Logger) *Registry {
	r := &Registry{
		games:     make(map[string]*entry),
		turnLimit: turnLimit,
		log:       log,
	}
	r.timers = NewTimerService(r.onTurnExpired, log)
	return r
}

// SetNotifier binds the registry's outbound notifier. Must be called
// before any game is created.
func (r *Registry) SetNotifier(notifier Notifier) {
	r.notifier = notifier
}

// SetAuditor binds an optional audit sink. A nil or never-called Auditor
// leaves Record a no-op throughout.
func (r *Registry) SetAuditor(auditor Auditor) {
	r.auditor = auditor
}

func (r *Registry) record(gameID, playerID, kind, detail string) {
	if r.auditor == nil {
		return
	}
	r.auditor.Record(audit.Event{
		GameID:    gameID,
		PlayerID:  playerID,
		Kind:      kind,
		Detail:    detail,
		Timestamp: time.Now(),
	})
}

// CreateGame starts a new game for the given turn-ordered players and arms
// its first turn deadline.
func (r *Registry) CreateGame(id string, players []string, seed int64) *game.GameState {
	rng := rand.New(rand.NewSource(seed))
	state := game.New(id, players, rng)

	r.mu.Lock()
	r.games[id] = &entry{state: state}
	r.mu.Unlock()

	r.armTimer(id, state)
	r.broadcastState(id, state, state.Players())
	return state
}

func (r *Registry) lookup(gameID string) (*entry, error) {
	r.mu.RLock()
	e, ok := r.games[gameID]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrGameNotFound
	}
	return e, nil
}

// HandleAction validates and applies a player action, broadcasting the
// resulting transitions and re-arming (or cancelling) the turn timer.
func (r *Registry) HandleAction(gameID, playerID string, action game.Action) (game.Result, error) {
	e, err := r.lookup(gameID)
	if err != nil {
		return game.Result{}, err
	}

	e.mu.Lock()
	res, err := e.state.Apply(playerID, action)
	var snapshot *game.GameState
	if err == nil {
		snapshot = e.state
	}
	e.mu.Unlock()

	if err != nil {
		return game.Result{}, err
	}

	players := snapshot.Players()
	r.record(gameID, playerID, "action", describeAction(action))
	r.notifier.BroadcastTo(players, "PlayerAction", map[string]interface{}{
		"player_id":   playerID,
		"action":      action,
		"next_player": res.NextPlayer,
	})

	if res.TrickComplete {
		r.record(gameID, res.TrickWinner, "trick_complete", "")
		r.notifier.BroadcastTo(players, "TrickComplete", map[string]interface{}{"winner": res.TrickWinner})
	}
	if res.GameComplete {
		r.record(gameID, "", "game_complete", "")
		r.notifier.BroadcastTo(players, "GameOver", map[string]interface{}{"final_scores": res.FinalScores})
		r.timers.Cancel(gameID)
		r.mu.Lock()
		delete(r.games, gameID)
		r.mu.Unlock()
		return res, nil
	}

	r.broadcastState(gameID, snapshot, players)
	r.armTimer(gameID, snapshot)
	return res, nil
}

// PlayerView returns a single player's projection of a game.
func (r *Registry) PlayerView(gameID, playerID string) (game.View, error) {
	e, err := r.lookup(gameID)
	if err != nil {
		return game.View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.PlayerView(playerID), nil
}

// ActiveGameCount reports how many games are currently in progress,
// backing GET /stats (§6).
func (r *Registry) ActiveGameCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// EndGame forcibly removes a game and cancels its pending turn timer.
func (r *Registry) EndGame(gameID string) {
	r.timers.Cancel(gameID)
	r.mu.Lock()
	delete(r.games, gameID)
	r.mu.Unlock()
}

func (r *Registry) broadcastState(gameID string, state *game.GameState, players []string) {
	r.mu.RLock()
	e := r.games[gameID]
	r.mu.RUnlock()
	if e != nil {
		e.mu.Lock()
	}
	views := make([]game.View, len(players))
	var validActions []game.Action
	for i, p := range players {
		views[i] = state.PlayerView(p)
		if views[i].YourTurn {
			validActions = state.ValidActions()
		}
	}
	if e != nil {
		e.mu.Unlock()
	}

	for i, p := range players {
		view := views[i]
		r.log.Debugf("gameregistry: %s hand for %s: %s", gameID, p, utils.FormatHand(view.YourHand))
		r.notifier.SendTo(p, "GameState", map[string]interface{}{"state": view})
		if view.YourTurn {
			r.notifier.SendTo(p, "YourTurn", map[string]interface{}{"valid_actions": validActions})
		}
	}
}

func (r *Registry) armTimer(gameID string, state *game.GameState) {
	if r.turnLimit <= 0 {
		return
	}
	deadline := time.Now().Add(r.turnLimit)

	r.mu.RLock()
	e := r.games[gameID]
	r.mu.RUnlock()
	if e == nil {
		return
	}

	e.mu.Lock()
	state.SetTurnDeadline(&deadline)
	currentPlayer := state.CurrentPlayer()
	e.mu.Unlock()

	r.timers.Arm(gameID, deadline, currentPlayer)
}

// onTurnExpired is TimerService's expiry callback: it re-validates that the
// deadline it fired for still matches the live game state before applying
// the auto action, since a player may have acted in the narrow window
// between the timer firing and this callback acquiring the lock.
func (r *Registry) onTurnExpired(gameID string, expectedPlayer string, expectedDeadline time.Time) {
	e, err := r.lookup(gameID)
	if err != nil {
		return
	}

	e.mu.Lock()
	deadline := e.state.TurnDeadline()
	stillCurrent := e.state.CurrentPlayer() == expectedPlayer &&
		deadline != nil && deadline.Equal(expectedDeadline)
	if !stillCurrent {
		e.mu.Unlock()
		return
	}
	action := e.state.AutoAction()
	res, applyErr := e.state.Apply(expectedPlayer, action)
	snapshot := e.state
	e.mu.Unlock()

	if applyErr != nil {
		r.log.Warnf("gameregistry: auto-action for game %s player %s failed: %v", gameID, expectedPlayer, applyErr)
		return
	}

	players := snapshot.Players()
	r.record(gameID, expectedPlayer, "auto_action", describeAction(action))
	r.notifier.BroadcastTo(players, "PlayerAction", map[string]interface{}{
		"player_id":   expectedPlayer,
		"action":      action,
		"next_player": res.NextPlayer,
	})
	if res.TrickComplete {
		r.record(gameID, res.TrickWinner, "trick_complete", "")
		r.notifier.BroadcastTo(players, "TrickComplete", map[string]interface{}{"winner": res.TrickWinner})
	}
	if res.GameComplete {
		r.record(gameID, "", "game_complete", "")
		r.notifier.BroadcastTo(players, "GameOver", map[string]interface{}{"final_scores": res.FinalScores})
		r.timers.Cancel(gameID)
		r.mu.Lock()
		delete(r.games, gameID)
		r.mu.Unlock()
		return
	}
	r.broadcastState(gameID, snapshot, players)
	r.armTimer(gameID, snapshot)
}

// describeAction renders an Action for the audit log: "bid 2" or "play 9hearts".
func describeAction(a game.Action) string {
	if a.Bid != nil {
		return fmt.Sprintf("bid %d", *a.Bid)
	}
	if a.PlayCard != nil {
		return "play " + a.PlayCard.String()
	}
	return "unknown"
}
