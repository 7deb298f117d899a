package game

import (
	"github.com/gbridge/server/internal/apperrors"
	"github.com/gbridge/server/pkg/cards"
)

// Action is the tagged union of moves a player can submit, mirroring
// original_source/backend/src/protocol.rs's PlayerAction enum.
type Action struct {
	Bid      *int        `json:"bid,omitempty"`
	PlayCard *cards.Card `json:"play_card,omitempty"`
}

// BidAction builds an Action that bids n tricks.
func BidAction(n int) Action { return Action{Bid: &n} }

// PlayCardAction builds an Action that plays c.
func PlayCardAction(c cards.Card) Action { return Action{PlayCard: &c} }

// Result describes the observable effects of a successful Apply call, so
// GameRegistry knows which broadcasts to fan out (§4.4).
type Result struct {
	BidsComplete  bool
	TrickWinner   string
	TrickComplete bool
	RoundComplete bool
	GameComplete  bool
	FinalScores   map[string]int
	NextPlayer    string
}

// Validate is the pure predicate behind Apply, exposed separately so
// callers (and tests) can check legality without mutating state.
func (g *GameState) Validate(player string, a Action) error {
	if !g.isPlayer(player) {
		return apperrors.ErrPlayerNotInGame
	}

	switch {
	case a.Bid != nil:
		if g.phase != PhaseBidding {
			return apperrors.InvalidMove("not in bidding phase")
		}
		if player != g.currentPlayer {
			return apperrors.ErrNotPlayerTurn
		}
		if *a.Bid > g.roundNumber || *a.Bid < 0 {
			return apperrors.InvalidMove("bid %d exceeds cards dealt (%d)", *a.Bid, g.roundNumber)
		}
		if g.ledger.IsLastBidder(player) {
			return g.ledger.ValidateLastBid(*a.Bid)
		}
		return nil

	case a.PlayCard != nil:
		if g.phase != PhasePlaying {
			return apperrors.InvalidMove("not in playing phase")
		}
		if player != g.currentPlayer {
			return apperrors.ErrNotPlayerTurn
		}
		hand := g.hands[player]
		if !hand.Contains(*a.PlayCard) {
			return apperrors.InvalidMove("card not in hand")
		}
		legal := cards.LegalPlays(hand, g.currentTrick.LeadSuit())
		for _, c := range legal {
			if c == *a.PlayCard {
				return nil
			}
		}
		return apperrors.InvalidMove("must follow suit")

	default:
		return apperrors.InvalidMove("empty action")
	}
}

// nextSeat returns the player one round-robin seat after player, wrapping
// around g.players. Mirrors original_source's advance_turn (game_state.rs).
func (g *GameState) nextSeat(player string) string {
	for i, p := range g.players {
		if p == player {
			return g.players[(i+1)%len(g.players)]
		}
	}
	return player
}

func (g *GameState) isPlayer(id string) bool {
	for _, p := range g.players {
		if p == id {
			return true
		}
	}
	return false
}

// Apply validates and, on success, mutates the game by one action,
// returning a summary of what happened. On failure the state is
// unchanged — the transactional guarantee required by §4.3.
func (g *GameState) Apply(player string, a Action) (Result, error) {
	if err := g.Validate(player, a); err != nil {
		return Result{}, err
	}

	if a.Bid != nil {
		return g.applyBid(player, *a.Bid)
	}
	return g.applyPlayCard(player, *a.PlayCard)
}

func (g *GameState) applyBid(player string, n int) (Result, error) {
	if err := g.ledger.Place(player, n); err != nil {
		return Result{}, err
	}

	res := Result{NextPlayer: g.ledger.CurrentBidder()}
	if g.ledger.IsComplete() {
		res.BidsComplete = true
		g.currentPlayer = g.firstBidder
		g.transitionTo(playingPhaseFn)
		res.NextPlayer = g.currentPlayer
	} else {
		g.currentPlayer = g.ledger.CurrentBidder()
	}
	return res, nil
}

func (g *GameState) applyPlayCard(player string, c cards.Card) (Result, error) {
	hand := g.hands[player]
	hand.Remove(c)
	g.hands[player] = hand
	g.currentTrick.Add(player, c)

	if !g.currentTrick.IsComplete(len(g.players)) {
		g.currentPlayer = g.nextSeat(player)
		return Result{NextPlayer: g.currentPlayer}, nil
	}

	res := Result{NextPlayer: g.currentPlayer}

	winner, _ := g.currentTrick.Winner(&g.trumpSuit)
	g.completed = append(g.completed, cards.CompletedTrick{Winner: winner, Plays: g.currentTrick.Plays})
	g.tricksWon[winner]++
	g.currentTrick = cards.Trick{}
	g.currentPlayer = winner

	res.TrickComplete = true
	res.TrickWinner = winner
	res.NextPlayer = winner

	if !g.handsEmpty() {
		return res, nil
	}

	res.RoundComplete = true
	g.transitionTo(roundCompletePhaseFn)
	g.scoreRound()

	if g.shouldContinue() {
		g.startRound()
		res.NextPlayer = g.currentPlayer
	} else {
		g.transitionTo(gameCompletePhaseFn)
		res.GameComplete = true
		res.FinalScores = g.TotalScores()
		res.NextPlayer = ""
	}
	return res, nil
}
