package app

import "duelo/internal/domain"

// EventKind identifies emitted session events for transport dispatch.
type EventKind string

const (
	EventRoundStarted          EventKind = "round_started"
	EventBetsLocked            EventKind = "bets_locked"
	EventUpdateState           EventKind = "update_state"
	EventStartDecided          EventKind = "start_decided"
	EventDoctorManhattanReveal EventKind = "doctor_manhattan_reveal"
	EventScoreChoice           EventKind = "score_choice"
	EventRoundResult           EventKind = "round_result"
	EventGameOver              EventKind = "game_over"
	EventGameReset             EventKind = "game_reset"
)

// Event is a session event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []domain.Side // empty means broadcast to both sides
}

type StartDecidedPayload struct {
	Starter domain.Side
}

type DoctorManhattanRevealPayload struct {
	EffectOwner domain.Side
}

type ScoreChoicePayload struct {
	Winner domain.Side
	Diff   int
}

type RoundResultPayload struct {
	Round  int
	Winner domain.Side // empty on a tie
	IsTie  bool
}

type GameOverPayload struct {
	Winner domain.Side
	Reason domain.GameOverReason
}
