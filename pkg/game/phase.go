package game

import "github.com/gbridge/server/pkg/statemachine"

// Phase is one of the four states a GameState can occupy (§4.3).
type Phase string

const (
	PhaseBidding       Phase = "Bidding"
	PhasePlaying       Phase = "Playing"
	PhaseRoundComplete Phase = "RoundComplete"
	PhaseGameComplete  Phase = "GameComplete"
)

// phaseFn is the StateFn specialization for GameState, following the same
// Rob Pike pattern as the teacher's pkg/statemachine/statemachine.go. Each
// phase function's only job on entry is to record the phase name; actual
// transition decisions live in Apply, which calls sm.SetState with the next
// phase function once its transition condition is met.
type phaseFn = statemachine.StateFn[GameState]

func enter(phase Phase) phaseFn {
	var fn phaseFn
	fn = func(g *GameState, cb func(string, statemachine.StateEvent)) phaseFn {
		g.phase = phase
		if cb != nil {
			cb(string(phase), statemachine.StateEntered)
		}
		return fn
	}
	return fn
}

var (
	biddingPhaseFn       = enter(PhaseBidding)
	playingPhaseFn       = enter(PhasePlaying)
	roundCompletePhaseFn = enter(PhaseRoundComplete)
	gameCompletePhaseFn  = enter(PhaseGameComplete)
)

// Phase returns the game's current phase.
func (g *GameState) Phase() Phase { return g.phase }

func (g *GameState) transitionTo(fn phaseFn) {
	g.sm.SetState(fn)
}
