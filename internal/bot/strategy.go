package bot

import (
	"math/rand"

	"duelo/internal/domain"
)

// MoveKind names the command a bot wants to issue.
type MoveKind string

const (
	MovePlaceBet   MoveKind = "place_bet"
	MoveDecideCard MoveKind = "decide_card"
	MovePlayCard   MoveKind = "play_card"
	MoveApplyScore MoveKind = "apply_score"
	MoveRoundAck   MoveKind = "round_ack"
)

// Move is one planned bot action.
type Move struct {
	Kind   MoveKind
	CardID string
	Amount int
	Mode   string
}

// Strategy plans the bot's next move for the given side, if it has one.
type Strategy interface {
	Plan(st *domain.GameState, side domain.Side) (Move, bool)
}

// basicStrategy bets small, duels random unlocked cards and steers its round
// score toward the target with the sumar/restar choice.
type basicStrategy struct {
	rng         *rand.Rand
	targetScore int
}

// NewBasicStrategy builds the default strategy around an injected rng.
func NewBasicStrategy(rng *rand.Rand, targetScore int) Strategy {
	return &basicStrategy{rng: rng, targetScore: targetScore}
}

func (b *basicStrategy) Plan(st *domain.GameState, side domain.Side) (Move, bool) {
	switch st.Phase {
	case domain.PhaseBetting:
		if st.Bets[side] > 0 {
			return Move{}, false
		}
		amount := 10
		if st.Credits[side] < amount {
			amount = st.Credits[side]
		}
		if amount <= 0 {
			return Move{}, false
		}
		return Move{Kind: MovePlaceBet, Amount: amount}, true

	case domain.PhaseDecideStart:
		if st.StartDecision == nil || st.StartDecision.Nominated[side] != nil {
			return Move{}, false
		}
		if id, ok := b.pickUnlocked(st, side); ok {
			return Move{Kind: MoveDecideCard, CardID: id}, true
		}

	case domain.PhasePlay:
		if st.WaitingScoreChoice {
			if st.PendingScore != nil && st.PendingScore.Winner == side {
				return Move{Kind: MoveApplyScore, Mode: b.pickMode(st, side)}, true
			}
			return Move{}, false
		}
		open := st.Duel == nil && st.TurnOwner == side
		respond := st.Duel != nil && st.Duel.Opener != side
		if open || respond {
			if id, ok := b.pickUnlocked(st, side); ok {
				return Move{Kind: MovePlayCard, CardID: id}, true
			}
		}

	case domain.PhaseRoundEnd:
		if !st.RoundAcks[side] {
			return Move{Kind: MoveRoundAck}, true
		}
	}

	return Move{}, false
}

func (b *basicStrategy) pickUnlocked(st *domain.GameState, side domain.Side) (string, bool) {
	var candidates []string
	for _, c := range st.Hands[side] {
		if !c.Locked {
			candidates = append(candidates, c.ID)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[b.rng.Intn(len(candidates))], true
}

// pickMode picks whichever choice lands the bot's round score closer to the target.
func (b *basicStrategy) pickMode(st *domain.GameState, side domain.Side) string {
	diff := st.PendingScore.Diff
	score := st.RoundScore[side]
	add := domain.DistanceToTarget(b.targetScore, score+diff)
	sub := domain.DistanceToTarget(b.targetScore, score-diff)
	if sub < add {
		return "restar"
	}
	return "sumar"
}
