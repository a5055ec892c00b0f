package app

import "duelo/internal/domain"

// EffectScheduler tracks the two deferred side effects as tick deadlines.
// The match loop owns one instance per room and drives it once per tick, so
// a torn-down room can never fire anything. Each deadline carries the round
// it was armed in; a fired deadline whose round no longer matches the state,
// or whose flag has already been cleared, is a no-op.
type EffectScheduler struct {
	revealDueTick int64
	revealRound   int
	revealTarget  domain.Side

	choiceDueTick int64
	choiceRound   int
}

// ScheduleRevealExpiry arms the end of a temporary reveal of target's hand.
func (es *EffectScheduler) ScheduleRevealExpiry(tick int64, delaySeconds, round int, target domain.Side) {
	es.revealDueTick = tick + int64(delaySeconds)
	es.revealRound = round
	es.revealTarget = target
}

// ScheduleScoreChoice arms the auto-sumar deadline, replacing any prior one.
func (es *EffectScheduler) ScheduleScoreChoice(tick int64, delaySeconds, round int) {
	es.choiceDueTick = tick + int64(delaySeconds)
	es.choiceRound = round
}

// CancelScoreChoice disarms the auto-sumar deadline.
func (es *EffectScheduler) CancelScoreChoice() {
	es.choiceDueTick = 0
}

// CancelAll disarms every pending deadline.
func (es *EffectScheduler) CancelAll() {
	es.revealDueTick = 0
	es.choiceDueTick = 0
}

// Tick fires any due deadlines against the current state. Guards re-validate
// every precondition because arbitrary state changes may have happened since
// a deadline was armed.
func (s *Service) Tick(st *domain.GameState, sched *EffectScheduler, tick int64) []Event {
	if st == nil || sched == nil {
		return nil
	}

	var events []Event

	if sched.revealDueTick != 0 && tick >= sched.revealDueTick {
		round, target := sched.revealRound, sched.revealTarget
		sched.revealDueTick = 0
		if round == st.RoundIndex {
			changed := false
			hand := st.Hands[target]
			for i := range hand {
				if hand[i].TempRevealed && !hand[i].Locked && !hand[i].Revealed {
					hand[i].TempRevealed = false
					changed = true
				}
			}
			if changed {
				events = append(events, Event{Kind: EventUpdateState})
			}
		}
	}

	if sched.choiceDueTick != 0 && tick >= sched.choiceDueTick {
		round := sched.choiceRound
		sched.choiceDueTick = 0
		if round == st.RoundIndex && st.WaitingScoreChoice && st.PendingScore != nil {
			s.applyPendingScore(st, ScoreModeSumar)
			events = append(events, Event{Kind: EventUpdateState})
			events = append(events, s.maybeFinishRound(st)...)
		}
	}

	return events
}
