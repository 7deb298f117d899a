// Package bidding implements the per-round BiddingLedger and its
// last-bidder sum-forbidden rule (§4.2). Grounded on
// original_source/backend/src/game_logic/bidding.rs, translated from Rust's
// HashMap<PlayerId,u8>/Vec<PlayerId> into Go; AutoBid departs from the
// original (see its doc). GameState is the sole caller and already
// serializes access per-game, so Ledger itself carries no lock.
package bidding

import "github.com/gbridge/server/internal/apperrors"

// Ledger tracks one round's bids in turn order.
type Ledger struct {
	bids           map[string]int
	playerOrder    []string
	currentBidder  string
	cardsThisRound int
}

// New creates a ledger for a round dealing `cards` cards to each player,
// starting with startingPlayer as the first bidder.
func New(startingPlayer string, players []string, cards int) *Ledger {
	return &Ledger{
		bids:           make(map[string]int, len(players)),
		playerOrder:    append([]string(nil), players...),
		currentBidder:  startingPlayer,
		cardsThisRound: cards,
	}
}

// CurrentBidder returns the player who must bid next.
func (l *Ledger) CurrentBidder() string { return l.currentBidder }

// Bids returns a copy of the bids placed so far.
func (l *Ledger) Bids() map[string]int {
	out := make(map[string]int, len(l.bids))
	for k, v := range l.bids {
		out[k] = v
	}
	return out
}

// IsComplete reports whether every player has bid.
func (l *Ledger) IsComplete() bool {
	return len(l.bids) == len(l.playerOrder)
}

// IsLastBidder reports whether player is the one remaining bidder.
func (l *Ledger) IsLastBidder(player string) bool {
	return len(l.bids) == len(l.playerOrder)-1 && l.currentBidder == player
}

// sumOfBids totals the bids placed so far.
func (l *Ledger) sumOfBids() int {
	sum := 0
	for _, b := range l.bids {
		sum += b
	}
	return sum
}

// ValidateLastBid reports whether bid is legal for the final bidder: the
// running sum plus bid must not equal cardsThisRound.
func (l *Ledger) ValidateLastBid(bid int) error {
	if l.sumOfBids()+bid == l.cardsThisRound {
		return apperrors.InvalidMove("last bidder cannot bid %d: sum would equal cards dealt (%d)", bid, l.cardsThisRound)
	}
	return nil
}

// Place records player's bid of n tricks, advancing to the next bidder.
// It is the ledger's only mutator.
func (l *Ledger) Place(player string, n int) error {
	if player != l.currentBidder {
		return apperrors.ErrNotPlayerTurn
	}
	if n > l.cardsThisRound || n < 0 {
		return apperrors.InvalidMove("bid %d exceeds cards dealt (%d)", n, l.cardsThisRound)
	}
	if l.IsLastBidder(player) {
		if err := l.ValidateLastBid(n); err != nil {
			return err
		}
	}

	l.bids[player] = n
	if !l.IsComplete() {
		l.advanceBidder()
	}
	return nil
}

func (l *Ledger) advanceBidder() {
	idx := 0
	for i, p := range l.playerOrder {
		if p == l.currentBidder {
			idx = i
			break
		}
	}
	l.currentBidder = l.playerOrder[(idx+1)%len(l.playerOrder)]
}

// AutoBid returns the deterministic default bid for the current bidder: 0 if
// permitted under the last-bidder rule, otherwise 1. Per §4.3's auto_action,
// this must never fail Place's validation — unlike the original Rust
// get_auto_action, which always proposes 0 regardless of legality and can
// itself violate the rule it exists to respect.
func (l *Ledger) AutoBid() int {
	if l.IsLastBidder(l.currentBidder) {
		if err := l.ValidateLastBid(0); err != nil {
			return 1
		}
	}
	return 0
}
