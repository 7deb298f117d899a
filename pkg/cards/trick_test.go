package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrickLeadSuitAndCompletion(t *testing.T) {
	tr := Trick{}
	assert.Nil(t, tr.LeadSuit())
	assert.False(t, tr.IsComplete(3))

	tr.Add("alice", Card{Suit: Spades, Rank: Two})
	require := *tr.LeadSuit()
	assert.Equal(t, Spades, require)

	tr.Add("bob", Card{Suit: Hearts, Rank: King})
	tr.Add("carol", Card{Suit: Spades, Rank: Ace})
	assert.True(t, tr.IsComplete(3))
}

func TestTrickWinnerTrumpBeatsLead(t *testing.T) {
	trump := Hearts
	tr := Trick{}
	tr.Add("alice", Card{Suit: Spades, Rank: Ace})
	tr.Add("bob", Card{Suit: Hearts, Rank: Two})
	tr.Add("carol", Card{Suit: Clubs, Rank: King})

	winner, ok := tr.Winner(&trump)
	assert.True(t, ok)
	assert.Equal(t, "bob", winner, "lone trump card wins regardless of rank")
}

func TestTrickWinnerHighestLeadSuitWhenNoTrump(t *testing.T) {
	tr := Trick{}
	tr.Add("alice", Card{Suit: Spades, Rank: Two})
	tr.Add("bob", Card{Suit: Clubs, Rank: Ace})
	tr.Add("carol", Card{Suit: Spades, Rank: King})

	winner, ok := tr.Winner(nil)
	assert.True(t, ok)
	assert.Equal(t, "carol", winner)
}

func TestTrickWinnerEmptyTrick(t *testing.T) {
	tr := Trick{}
	_, ok := tr.Winner(nil)
	assert.False(t, ok)
}
