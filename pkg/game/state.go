// Package game implements GameState, the per-game phase machine described
// in §4.3: deal, bid, play tricks, score, and advance rounds until
// round_number reaches N_max. Grounded on the teacher's pkg/poker/game.go
// for overall shape (a single mutable struct driven by explicit action
// methods, using pkg/statemachine for phase bookkeeping) and on
// original_source/backend/src/game_state.rs for the exact transition and
// scoring semantics, corrected where the original diverges from §4.3/§9
// (round-progression termination, auto-bid legality).
package game

import (
	"math/rand"
	"time"

	"github.com/gbridge/server/pkg/bidding"
	"github.com/gbridge/server/pkg/cards"
	"github.com/gbridge/server/pkg/statemachine"
)

// MaxRounds returns N_max = floor(52 / numPlayers), the round at which the
// game reaches GameComplete.
func MaxRounds(numPlayers int) int {
	return 52 / numPlayers
}

// RoundResult records one round's per-player outcome, the supplemental
// score-history feature described in SPEC_FULL.md §12, grounded on
// original_source/backend/src/protocol.rs's RoundResult/PlayerRoundResult
// (declared there but never populated).
type RoundResult struct {
	RoundNumber int                `json:"round_number"`
	Players     []PlayerRoundResult `json:"players"`
}

// PlayerRoundResult is one player's bid/tricks/score for a scored round.
type PlayerRoundResult struct {
	PlayerID  string `json:"player_id"`
	Bid       int    `json:"bid"`
	TricksWon int    `json:"tricks_won"`
	Score     int    `json:"score"`
}

// GameState is the authoritative state of one active game. All mutation
// happens through Apply, which is the only entry point GameRegistry calls
// while holding this game's lock (see pkg/gameregistry).
type GameState struct {
	id           string
	players      []string
	roundNumber  int
	firstBidder  string
	trumpSuit    cards.Suit
	hands        map[string]cards.Hand
	phase        Phase
	currentTrick cards.Trick
	completed    []cards.CompletedTrick
	ledger       *bidding.Ledger
	tricksWon    map[string]int
	totalScores  map[string]int
	currentPlayer string
	turnDeadline *time.Time
	history      []RoundResult
	rng          *rand.Rand
	sm           *statemachine.StateMachine[GameState]
}

// New constructs a GameState for the given turn-ordered player list and
// immediately runs the first start_round, matching GameRegistry.create_game
// (§4.4), which expects a game to already be mid-round-1-bidding on return.
func New(id string, players []string, rng *rand.Rand) *GameState {
	g := &GameState{
		id:          id,
		players:     append([]string(nil), players...),
		totalScores: make(map[string]int, len(players)),
		rng:         rng,
	}
	for _, p := range players {
		g.totalScores[p] = 0
	}
	g.firstBidder = players[0]
	g.sm = statemachine.NewStateMachine(g, biddingPhaseFn)
	g.startRound()
	return g
}

// ID returns the game's identifier, assigned by GameRegistry at creation.
func (g *GameState) ID() string { return g.id }

// Players returns the fixed turn order.
func (g *GameState) Players() []string { return append([]string(nil), g.players...) }

// RoundNumber returns the current round (1-indexed).
func (g *GameState) RoundNumber() int { return g.roundNumber }

// CurrentPlayer returns whose turn it is.
func (g *GameState) CurrentPlayer() string { return g.currentPlayer }

// TrumpSuit returns this round's trump.
func (g *GameState) TrumpSuit() cards.Suit { return g.trumpSuit }

// TurnDeadline returns the armed deadline for the current turn, if any.
func (g *GameState) TurnDeadline() *time.Time { return g.turnDeadline }

// SetTurnDeadline is called by GameRegistry when it arms a new deadline.
func (g *GameState) SetTurnDeadline(d *time.Time) { g.turnDeadline = d }

// TotalScores returns a copy of the lifetime scores.
func (g *GameState) TotalScores() map[string]int {
	out := make(map[string]int, len(g.totalScores))
	for k, v := range g.totalScores {
		out[k] = v
	}
	return out
}

// History returns the round-by-round score history (supplemental feature,
// SPEC_FULL.md §12).
func (g *GameState) History() []RoundResult {
	return append([]RoundResult(nil), g.history...)
}

func (g *GameState) rotateFirstBidder() string {
	idx := 0
	for i, p := range g.players {
		if p == g.firstBidder {
			idx = i
			break
		}
	}
	return g.players[(idx+1)%len(g.players)]
}

// startRound implements §4.3's start_round operation.
func (g *GameState) startRound() {
	g.roundNumber++
	if g.roundNumber > 1 {
		g.firstBidder = g.rotateFirstBidder()
	}
	g.trumpSuit = cards.RandomTrump(g.rng)

	deck := cards.NewDeck(g.rng)
	g.hands = deck.Deal(g.players, g.roundNumber)

	g.ledger = bidding.New(g.firstBidder, g.players, g.roundNumber)
	g.tricksWon = make(map[string]int, len(g.players))
	for _, p := range g.players {
		g.tricksWon[p] = 0
	}
	g.currentTrick = cards.Trick{}
	g.completed = nil
	g.currentPlayer = g.firstBidder
	g.turnDeadline = nil

	g.transitionTo(biddingPhaseFn)
}

// handsEmpty reports whether every player has played their whole hand.
func (g *GameState) handsEmpty() bool {
	for _, h := range g.hands {
		if len(h) > 0 {
			return false
		}
	}
	return true
}

// shouldContinue reports whether another round should be dealt after the
// current one scores. Per §4.3/§9: terminal at round_number = N_max, never
// wrapping back to round 1 — the defect present in
// original_source/backend/src/game_state.rs's should_continue_game, which
// this implementation deliberately does not reproduce.
func (g *GameState) shouldContinue() bool {
	return g.roundNumber < MaxRounds(len(g.players))
}
