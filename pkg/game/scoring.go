package game

// scoreRound implements §4.3's end-of-round scoring law (property #5):
// a player who bid b and won t tricks scores 10+t² if b=t, else -(t-b)².
// Grounded on original_source/backend/src/game_logic/scoring.rs, which
// leaves ScoreCalculator as an unimplemented stub — the formula itself
// comes from §4.3/§8 of the specification, the only authoritative source.
func (g *GameState) scoreRound() {
	bids := g.ledger.Bids()

	result := RoundResult{RoundNumber: g.roundNumber}
	for _, p := range g.players {
		b := bids[p]
		t := g.tricksWon[p]
		var delta int
		if b == t {
			delta = 10 + t*t
		} else {
			diff := t - b
			delta = -(diff * diff)
		}
		g.totalScores[p] += delta
		result.Players = append(result.Players, PlayerRoundResult{
			PlayerID:  p,
			Bid:       b,
			TricksWon: t,
			Score:     delta,
		})
	}
	g.history = append(g.history, result)
}
