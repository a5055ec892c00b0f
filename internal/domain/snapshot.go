package domain

// Snapshot returns a deep, independent copy of the game state. Broadcast
// payloads must never alias the live state the match loop keeps mutating.
func Snapshot(g *GameState) *GameState {
	if g == nil {
		return nil
	}

	out := &GameState{
		Phase:              g.Phase,
		TurnOwner:          g.TurnOwner,
		RemainingPairs:     g.RemainingPairs,
		WaitingScoreChoice: g.WaitingScoreChoice,
		RoundIndex:         g.RoundIndex,
		Hands:              make(map[Side][]Card, len(g.Hands)),
		RoundScore:         copySideInts(g.RoundScore),
		Credits:            copySideInts(g.Credits),
		Bets:               copySideInts(g.Bets),
		RoundAcks:          copySideBools(g.RoundAcks),
	}

	for side, hand := range g.Hands {
		out.Hands[side] = append([]Card(nil), hand...)
	}

	if g.StartDecision != nil {
		buf := &StartDecisionBuffer{Nominated: make(map[Side]*PlayedCard, len(g.StartDecision.Nominated))}
		for side, pc := range g.StartDecision.Nominated {
			buf.Nominated[side] = copyPlayed(pc)
		}
		out.StartDecision = buf
	}
	if g.Duel != nil {
		duel := *g.Duel
		out.Duel = &duel
	}
	if g.LastDuel != nil {
		rec := &DuelRecord{Cards: make(map[Side]*PlayedCard, len(g.LastDuel.Cards))}
		for side, pc := range g.LastDuel.Cards {
			rec.Cards[side] = copyPlayed(pc)
		}
		out.LastDuel = rec
	}
	if g.PendingScore != nil {
		ps := *g.PendingScore
		out.PendingScore = &ps
	}

	if len(g.History) > 0 {
		out.History = make([]RoundResult, 0, len(g.History))
		for _, r := range g.History {
			rr := r
			rr.Scores = copySideInts(r.Scores)
			rr.Bets = copySideInts(r.Bets)
			out.History = append(out.History, rr)
		}
	}

	return out
}

func copyPlayed(pc *PlayedCard) *PlayedCard {
	if pc == nil {
		return nil
	}
	out := *pc
	return &out
}

func copySideInts(m map[Side]int) map[Side]int {
	out := make(map[Side]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copySideBools(m map[Side]bool) map[Side]bool {
	out := make(map[Side]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
