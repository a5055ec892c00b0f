package domain

// DistanceToTarget returns |target - score|, the round win criterion.
func DistanceToTarget(target, score int) int {
	if score > target {
		return score - target
	}
	return target - score
}

// Settlement is the outcome of closing a round's books.
type Settlement struct {
	Winner Side // empty on a tie
	IsTie  bool
}

// SettleRound decides the round by distance to the target score and moves
// credits: the winner gains its own bet, the loser loses its own bet. A tie
// moves nothing. The caller records history and checks for game over.
func SettleRound(g *GameState, targetScore int) Settlement {
	d1 := DistanceToTarget(targetScore, g.RoundScore[SideP1])
	d2 := DistanceToTarget(targetScore, g.RoundScore[SideP2])

	if d1 == d2 {
		return Settlement{IsTie: true}
	}

	winner := SideP1
	if d2 < d1 {
		winner = SideP2
	}
	loser := winner.Opponent()
	g.Credits[winner] += g.Bets[winner]
	g.Credits[loser] -= g.Bets[loser]
	return Settlement{Winner: winner}
}

// GameOverReason explains a terminal game state.
type GameOverReason string

const (
	// ReasonBusted means a side's credits dropped to zero or below.
	ReasonBusted GameOverReason = "busted"
	// ReasonRealWinner means a side reached the credit goal.
	ReasonRealWinner GameOverReason = "real_winner"
)

// CheckGameOver reports whether the game just ended and why. Bust takes
// precedence over the credit goal.
func CheckGameOver(g *GameState, creditGoal int) (winner Side, reason GameOverReason, over bool) {
	for _, side := range Sides {
		if g.Credits[side] <= 0 {
			return side.Opponent(), ReasonBusted, true
		}
	}
	for _, side := range Sides {
		if g.Credits[side] >= creditGoal {
			return side, ReasonRealWinner, true
		}
	}
	return "", "", false
}
