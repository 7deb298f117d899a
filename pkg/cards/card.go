// Package cards implements the 52-card deck, per-player hands, and the
// trick-taking comparison rule used by every round of GBridge.
package cards

import (
	"encoding/json"
	"fmt"
)

// Suit is one of the four standard card suits.
type Suit string

const (
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
)

// Suits lists the four suits in a fixed, stable order used for shuffling and
// for trump selection.
var Suits = [4]Suit{Clubs, Spades, Hearts, Diamonds}

// Rank is a card rank with a total order: Two is lowest, Ace is highest.
type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

// Ranks lists all thirteen ranks from lowest to highest.
var Ranks = [13]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var rankOrder = func() map[Rank]int {
	m := make(map[Rank]int, len(Ranks))
	for i, r := range Ranks {
		m[r] = i
	}
	return m
}()

// Less reports whether r ranks below other.
func (r Rank) Less(other Rank) bool {
	return rankOrder[r] < rankOrder[other]
}

// Card is an immutable suit/rank pair.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// value is kept for parity with the reference implementation, which defines
// an unused per-card point value; GBridge scoring is tricks-only (see
// pkg/game/scoring.go), so this is never consulted by game logic.
func (c Card) value() int { return 0 }

// Beats reports whether c wins against other when c is the first card
// compared, given the round's trump suit (optional) and the trick's lead
// suit. This implements §4.1's four-clause rule.
func (c Card) Beats(other Card, trump *Suit, lead Suit) bool {
	cTrump := trump != nil && c.Suit == *trump
	oTrump := trump != nil && other.Suit == *trump

	switch {
	case cTrump && !oTrump:
		return true
	case !cTrump && oTrump:
		return false
	case cTrump && oTrump:
		return other.Rank.Less(c.Rank)
	default:
		// neither is trump
		cLead := c.Suit == lead
		oLead := other.Suit == lead
		if cLead && !oLead {
			return true
		}
		if !cLead && oLead {
			return false
		}
		if cLead && oLead {
			return other.Rank.Less(c.Rank)
		}
		return false
	}
}

// cardJSON mirrors Card for (de)serialization; kept separate so internal
// field names can change without touching the wire format.
type cardJSON struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Suit: c.Suit, Rank: c.Rank})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var j cardJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	c.Suit = j.Suit
	c.Rank = j.Rank
	return nil
}
