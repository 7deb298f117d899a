package cards

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)))
	assert.Equal(t, 52, d.Size())

	seen := make(map[Card]bool, 52)
	for {
		c, ok := d.Draw()
		if !ok {
			break
		}
		assert.False(t, seen[c], "duplicate card dealt: %v", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestDealConservesCards(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(2)))
	players := []string{"a", "b", "c", "d"}
	hands := d.Deal(players, 5)

	total := 0
	seen := make(map[Card]bool)
	for _, p := range players {
		assert.Len(t, hands[p], 5)
		for _, c := range hands[p] {
			assert.False(t, seen[c], "card dealt twice: %v", c)
			seen[c] = true
			total++
		}
	}
	assert.Equal(t, 20, total)
	assert.Equal(t, 32, d.Size())
}

func TestDealStopsWhenDeckExhausted(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(3)))
	players := []string{"a", "b", "c"}
	// 18 cards/player * 3 players = 54 > 52, so dealing must stop partway.
	hands := d.Deal(players, 18)
	total := 0
	for _, p := range players {
		total += len(hands[p])
	}
	assert.LessOrEqual(t, total, 52)
}

func TestRandomTrumpIsAlwaysValidSuit(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 50; i++ {
		s := RandomTrump(rng)
		found := false
		for _, want := range Suits {
			if s == want {
				found = true
			}
		}
		assert.True(t, found, "unexpected suit %v", s)
	}
}
