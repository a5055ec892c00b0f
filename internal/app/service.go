package app

import (
	"errors"
	"math/rand"
	"time"

	"duelo/internal/config"
	"duelo/internal/domain"
)

// Service contains the duel session use-cases operating on domain state.
// All randomness (deals, joker values, tie-breaks) flows through one rng so
// tests can inject determinism.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrWrongPhase     = errors.New("action not valid in current phase")
	ErrInvalidBet     = errors.New("bet must be positive and within credits")
	ErrCardUnavailable = errors.New("card not found or already locked")
	ErrNotYourTurn    = errors.New("not this side's turn to act")
	ErrScorePending   = errors.New("score choice pending, duels blocked")
	ErrNotChoiceWinner = errors.New("only the duel winner may apply the score")
	ErrInvalidMode    = errors.New("score mode must be sumar or restar")
	ErrAlreadyDecided = errors.New("side already nominated a start card")
)

// ScoreModeSumar and ScoreModeRestar are the winner's two score choices.
const (
	ScoreModeSumar  = "sumar"
	ScoreModeRestar = "restar"
)

// NewGame creates a fresh room state in the betting phase of round 1.
func (s *Service) NewGame() *domain.GameState {
	st := &domain.GameState{
		Phase:          domain.PhaseBetting,
		Hands:          domain.DealHands(s.rng),
		RoundScore:     map[domain.Side]int{domain.SideP1: 0, domain.SideP2: 0},
		Credits:        map[domain.Side]int{},
		Bets:           map[domain.Side]int{domain.SideP1: 0, domain.SideP2: 0},
		RemainingPairs: domain.HandSize,
		RoundAcks:      map[domain.Side]bool{},
		RoundIndex:     1,
	}
	for _, side := range domain.Sides {
		st.Credits[side] = config.StartingCredits()
	}
	return st
}

// PlaceBet stakes credits for the round. Both bets set locks them in and
// advances to decide_start.
func (s *Service) PlaceBet(st *domain.GameState, side domain.Side, amount int) ([]Event, error) {
	if st.Phase != domain.PhaseBetting {
		return nil, ErrWrongPhase
	}
	if amount <= 0 || amount > st.Credits[side] {
		return nil, ErrInvalidBet
	}

	st.Bets[side] = amount

	if st.BetsLocked() {
		st.Phase = domain.PhaseDecideStart
		st.StartDecision = &domain.StartDecisionBuffer{Nominated: map[domain.Side]*domain.PlayedCard{}}
		return []Event{{Kind: EventBetsLocked}}, nil
	}
	return []Event{{Kind: EventUpdateState}}, nil
}

// DecideCard nominates one card for the start decision. Once both sides have
// nominated, the higher value owns the first turn; ties break at random.
func (s *Service) DecideCard(st *domain.GameState, side domain.Side, cardID string) ([]Event, error) {
	if st.Phase != domain.PhaseDecideStart || st.StartDecision == nil {
		return nil, ErrWrongPhase
	}
	if st.StartDecision.Nominated[side] != nil {
		return nil, ErrAlreadyDecided
	}
	card := st.FindCard(side, cardID)
	if card == nil || card.Locked {
		return nil, ErrCardUnavailable
	}

	card.Revealed = true
	card.Locked = true
	played := domain.Played(*card)
	st.StartDecision.Nominated[side] = &played

	p1 := st.StartDecision.Nominated[domain.SideP1]
	p2 := st.StartDecision.Nominated[domain.SideP2]
	if p1 == nil || p2 == nil {
		return []Event{{Kind: EventUpdateState}}, nil
	}

	v1 := domain.PlayedCardValue(*p1)
	v2 := domain.PlayedCardValue(*p2)
	starter := domain.SideP1
	switch {
	case v2 > v1:
		starter = domain.SideP2
	case v1 == v2:
		if s.rng.Intn(2) == 1 {
			starter = domain.SideP2
		}
	}

	st.TurnOwner = starter
	st.Phase = domain.PhasePlay
	st.RemainingPairs--
	st.StartDecision = nil

	return []Event{{Kind: EventStartDecided, Payload: StartDecidedPayload{Starter: starter}}}, nil
}

// PlayCard either opens a duel (turn owner, no duel pending) or responds to
// the pending one (the other side), resolving the comparison.
func (s *Service) PlayCard(st *domain.GameState, sched *EffectScheduler, tick int64, side domain.Side, cardID string) ([]Event, error) {
	if st.Phase != domain.PhasePlay {
		return nil, ErrWrongPhase
	}
	if st.WaitingScoreChoice {
		return nil, ErrScorePending
	}

	if st.Duel == nil {
		return s.openDuel(st, sched, tick, side, cardID)
	}
	return s.respondDuel(st, sched, tick, side, cardID)
}

func (s *Service) openDuel(st *domain.GameState, sched *EffectScheduler, tick int64, side domain.Side, cardID string) ([]Event, error) {
	if st.TurnOwner != side {
		return nil, ErrNotYourTurn
	}
	card := st.FindCard(side, cardID)
	if card == nil || card.Locked {
		return nil, ErrCardUnavailable
	}

	card.Revealed = true
	st.Duel = &domain.OpenDuel{Opener: side, Card: domain.Played(*card)}

	events := []Event{{Kind: EventUpdateState}}
	if card.Face == domain.RevealEffectFace {
		target := side.Opponent()
		hand := st.Hands[target]
		for i := range hand {
			if !hand[i].Locked && !hand[i].Revealed {
				hand[i].TempRevealed = true
			}
		}
		sched.ScheduleRevealExpiry(tick, config.RevealEffectSeconds(), st.RoundIndex, target)
		events = append(events, Event{
			Kind:    EventDoctorManhattanReveal,
			Payload: DoctorManhattanRevealPayload{EffectOwner: side},
		})
	}
	return events, nil
}

func (s *Service) respondDuel(st *domain.GameState, sched *EffectScheduler, tick int64, side domain.Side, cardID string) ([]Event, error) {
	if side == st.Duel.Opener {
		// Opening again while a duel is pending is a no-op.
		return nil, ErrNotYourTurn
	}
	card := st.FindCard(side, cardID)
	if card == nil || card.Locked {
		return nil, ErrCardUnavailable
	}

	card.Revealed = true
	response := domain.Played(*card)

	opener := st.Duel.Opener
	pending := st.Duel.Card
	outcome := domain.ResolveDuel(opener, pending, side, response)

	if ownCard := st.FindCard(opener, pending.ID); ownCard != nil {
		ownCard.Locked = true
	}
	card.Locked = true

	st.RemainingPairs--
	st.TurnOwner = side
	st.Duel = nil

	if outcome.Cmp == 0 {
		st.LastDuel = nil
		events := []Event{{Kind: EventUpdateState}}
		return append(events, s.maybeFinishRound(st)...), nil
	}

	pendingCopy := pending
	responseCopy := response
	st.LastDuel = &domain.DuelRecord{Cards: map[domain.Side]*domain.PlayedCard{
		opener: &pendingCopy,
		side:   &responseCopy,
	}}
	st.PendingScore = &domain.PendingScore{Winner: outcome.Winner, Diff: outcome.Diff}
	st.WaitingScoreChoice = true
	sched.ScheduleScoreChoice(tick, config.ScoreChoiceTimeoutSeconds(), st.RoundIndex)

	return []Event{
		{Kind: EventUpdateState},
		{
			Kind:       EventScoreChoice,
			Payload:    ScoreChoicePayload{Winner: outcome.Winner, Diff: outcome.Diff},
			Recipients: []domain.Side{outcome.Winner},
		},
	}, nil
}

// ApplyScore resolves the pending score choice by the winner's explicit pick.
func (s *Service) ApplyScore(st *domain.GameState, sched *EffectScheduler, side domain.Side, mode string) ([]Event, error) {
	if st.PendingScore == nil || !st.WaitingScoreChoice {
		return nil, ErrWrongPhase
	}
	if side != st.PendingScore.Winner {
		return nil, ErrNotChoiceWinner
	}
	if mode != ScoreModeSumar && mode != ScoreModeRestar {
		return nil, ErrInvalidMode
	}

	sched.CancelScoreChoice()
	s.applyPendingScore(st, mode)

	events := []Event{{Kind: EventUpdateState}}
	return append(events, s.maybeFinishRound(st)...), nil
}

// applyPendingScore applies the delta to the winner's own round score and
// clears the choice gate. Shared by the manual path and the timeout path.
func (s *Service) applyPendingScore(st *domain.GameState, mode string) {
	ps := st.PendingScore
	if mode == ScoreModeRestar {
		st.RoundScore[ps.Winner] -= ps.Diff
	} else {
		st.RoundScore[ps.Winner] += ps.Diff
	}
	st.PendingScore = nil
	st.WaitingScoreChoice = false
	st.LastDuel = nil
}

// maybeFinishRound settles the round once all pairs are consumed and no
// score choice is outstanding.
func (s *Service) maybeFinishRound(st *domain.GameState) []Event {
	if st.RemainingPairs != 0 || st.WaitingScoreChoice || st.Phase != domain.PhasePlay {
		return nil
	}

	st.Phase = domain.PhaseRoundEnd
	settlement := domain.SettleRound(st, config.TargetScore())

	st.History = append(st.History, domain.RoundResult{
		Round:  st.RoundIndex,
		Winner: settlement.Winner,
		IsTie:  settlement.IsTie,
		Scores: map[domain.Side]int{
			domain.SideP1: st.RoundScore[domain.SideP1],
			domain.SideP2: st.RoundScore[domain.SideP2],
		},
		Bets: map[domain.Side]int{
			domain.SideP1: st.Bets[domain.SideP1],
			domain.SideP2: st.Bets[domain.SideP2],
		},
	})

	if winner, reason, over := domain.CheckGameOver(st, config.CreditGoal()); over {
		st.Phase = domain.PhaseGameOver
		return []Event{{Kind: EventGameOver, Payload: GameOverPayload{Winner: winner, Reason: reason}}}
	}

	st.RoundAcks = map[domain.Side]bool{}
	return []Event{{
		Kind:    EventRoundResult,
		Payload: RoundResultPayload{Round: st.RoundIndex, Winner: settlement.Winner, IsTie: settlement.IsTie},
	}}
}

// RoundAck marks a side ready for the next round; both acks start it.
func (s *Service) RoundAck(st *domain.GameState, side domain.Side) ([]Event, error) {
	if st.Phase != domain.PhaseRoundEnd {
		return nil, ErrWrongPhase
	}
	if st.RoundAcks[side] {
		return nil, nil
	}
	st.RoundAcks[side] = true

	if !st.RoundAcks[domain.SideP1] || !st.RoundAcks[domain.SideP2] {
		return nil, nil
	}

	s.resetRound(st)
	return []Event{{Kind: EventRoundStarted}}, nil
}

// ResetGame restores starting credits and begins round 1. This is the only
// way out of game_over.
func (s *Service) ResetGame(st *domain.GameState, sched *EffectScheduler) ([]Event, error) {
	sched.CancelAll()
	for _, side := range domain.Sides {
		st.Credits[side] = config.StartingCredits()
	}
	st.RoundIndex = 0
	st.History = nil
	s.resetRound(st)
	return []Event{{Kind: EventGameReset}}, nil
}

// resetRound redeals and returns the room to betting for the next round.
func (s *Service) resetRound(st *domain.GameState) {
	st.Hands = domain.DealHands(s.rng)
	st.RoundScore = map[domain.Side]int{domain.SideP1: 0, domain.SideP2: 0}
	st.Bets = map[domain.Side]int{domain.SideP1: 0, domain.SideP2: 0}
	st.RemainingPairs = domain.HandSize
	st.TurnOwner = ""
	st.Phase = domain.PhaseBetting
	st.StartDecision = nil
	st.Duel = nil
	st.LastDuel = nil
	st.PendingScore = nil
	st.WaitingScoreChoice = false
	st.RoundAcks = map[domain.Side]bool{}
	st.RoundIndex++
}
