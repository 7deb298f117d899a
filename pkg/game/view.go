package game

import "github.com/gbridge/server/pkg/cards"

// View is the per-player projection returned by PlayerView (§4.3): it
// reveals the caller's own hand and nothing of anyone else's.
type View struct {
	GameID        string            `json:"game_id"`
	Phase         Phase             `json:"phase"`
	RoundNumber   int               `json:"round_number"`
	TrumpSuit     cards.Suit        `json:"trump_suit"`
	YourHand      []cards.Card      `json:"your_hand"`
	CurrentTrick  []cards.Play      `json:"current_trick"`
	Scores        map[string]int    `json:"scores"`
	CurrentPlayer string            `json:"current_player"`
	YourTurn      bool              `json:"your_turn"`
	History       []RoundResult     `json:"history"`
}

// PlayerView builds the projection for player p. A player's unplayed hand
// is revealed only to that player; every other field is shared state safe
// to disclose to all participants.
func (g *GameState) PlayerView(p string) View {
	return View{
		GameID:        g.id,
		Phase:         g.phase,
		RoundNumber:   g.roundNumber,
		TrumpSuit:     g.trumpSuit,
		YourHand:      append([]cards.Card(nil), g.hands[p]...),
		CurrentTrick:  append([]cards.Play(nil), g.currentTrick.Plays...),
		Scores:        g.TotalScores(),
		CurrentPlayer: g.currentPlayer,
		YourTurn:      g.currentPlayer == p,
		History:       g.History(),
	}
}

// ValidActions lists the currently legal actions for the current player,
// backing the supplemental YourTurn{valid_actions} notification
// (SPEC_FULL.md §12).
func (g *GameState) ValidActions() []Action {
	switch g.phase {
	case PhaseBidding:
		actions := make([]Action, 0, g.roundNumber+1)
		for n := 0; n <= g.roundNumber; n++ {
			if g.ledger.IsLastBidder(g.currentPlayer) && g.ledger.ValidateLastBid(n) != nil {
				continue
			}
			actions = append(actions, BidAction(n))
		}
		return actions
	case PhasePlaying:
		legal := cards.LegalPlays(g.hands[g.currentPlayer], g.currentTrick.LeadSuit())
		actions := make([]Action, 0, len(legal))
		for _, c := range legal {
			actions = append(actions, PlayCardAction(c))
		}
		return actions
	default:
		return nil
	}
}

// AutoAction computes the deterministic default move for the current
// player, used by TimerService on turn-timeout expiry (§4.3, §9). It must
// always pass Validate.
func (g *GameState) AutoAction() Action {
	switch g.phase {
	case PhaseBidding:
		return BidAction(g.ledger.AutoBid())
	case PhasePlaying:
		c, ok := cards.LowestLegal(g.hands[g.currentPlayer], g.currentTrick.LeadSuit())
		if !ok {
			return Action{}
		}
		return PlayCardAction(c)
	default:
		return Action{}
	}
}
