package domain

// Side identifies one of the two seats in a room.
type Side string

const (
	SideP1 Side = "p1"
	SideP2 Side = "p2"
)

// Sides lists both seats in a fixed order for deterministic iteration.
var Sides = [2]Side{SideP1, SideP2}

// Opponent returns the other seat.
func (s Side) Opponent() Side {
	if s == SideP1 {
		return SideP2
	}
	return SideP1
}

// Valid reports whether s names a real seat.
func (s Side) Valid() bool {
	return s == SideP1 || s == SideP2
}

// Phase represents the lifecycle stage of a duel round.
type Phase string

const (
	// PhaseBetting is where both sides stake their credits for the round.
	PhaseBetting Phase = "betting"
	// PhaseDecideStart is where each side nominates a card to decide who opens.
	PhaseDecideStart Phase = "decide_start"
	// PhasePlay is the duel phase: the turn owner opens, the other responds.
	PhasePlay Phase = "play"
	// PhaseRoundEnd is the settled state awaiting both sides' acks.
	PhaseRoundEnd Phase = "round_end"
	// PhaseGameOver is terminal; only an explicit reset leaves it.
	PhaseGameOver Phase = "game_over"
)

// Card is a single card in a side's hand. Face and JokerValue never change
// after the deal; Revealed is sticky and Locked is monotonic within a round.
type Card struct {
	ID           string `json:"id"`
	Face         int    `json:"face"`
	JokerValue   int    `json:"jokerValue,omitempty"` // 1..68 when Face is the joker, else 0
	Revealed     bool   `json:"revealed"`
	Locked       bool   `json:"locked"`
	TempRevealed bool   `json:"tempRevealed"`
}

// PlayedCard is the immutable view of a card the moment it was committed to
// a comparison. Payloads embed this rather than the live hand entry.
type PlayedCard struct {
	ID          string `json:"id"`
	Face        int    `json:"face"`
	JokerValue  int    `json:"jokerValue,omitempty"`
	DisplayFace string `json:"displayFace"`
}

// StartDecisionBuffer holds each side's revealed-but-uncompared nomination
// during decide_start. It exists only in that phase and is cleared on exit.
type StartDecisionBuffer struct {
	Nominated map[Side]*PlayedCard `json:"nominated"`
}

// OpenDuel is the unanswered half of an in-progress duel: the card the turn
// owner committed, awaiting the opponent's response.
type OpenDuel struct {
	Opener Side       `json:"opener"`
	Card   PlayedCard `json:"card"`
}

// DuelRecord keeps both cards of the last resolved comparison for clients.
type DuelRecord struct {
	Cards map[Side]*PlayedCard `json:"cards"`
}

// PendingScore is an unresolved duel outcome awaiting the winner's
// sumar/restar choice.
type PendingScore struct {
	Winner Side `json:"winner"`
	Diff   int  `json:"diff"`
}

// RoundResult records one settled round in the game history.
type RoundResult struct {
	Round  int          `json:"round"`
	Winner Side         `json:"winner,omitempty"` // empty on a tie
	IsTie  bool         `json:"isTie"`
	Scores map[Side]int `json:"scores"`
	Bets   map[Side]int `json:"bets"`
}

// GameState is the authoritative per-room state. It is owned by the match
// loop; everything that leaves the room is a Snapshot copy.
type GameState struct {
	Phase Phase `json:"phase"`

	Hands map[Side][]Card `json:"cards"`

	TurnOwner  Side         `json:"turnOwner,omitempty"`
	RoundScore map[Side]int `json:"roundScore"`
	Credits    map[Side]int `json:"credits"`
	// Bets holds each side's stake for the current round; 0 means not placed
	// yet (valid bets are strictly positive).
	Bets map[Side]int `json:"bets"`

	RemainingPairs int `json:"remainingPairs"`

	StartDecision *StartDecisionBuffer `json:"startDecision,omitempty"`
	Duel          *OpenDuel            `json:"duel,omitempty"`
	LastDuel      *DuelRecord          `json:"lastDuel,omitempty"`

	PendingScore       *PendingScore `json:"pendingScore,omitempty"`
	WaitingScoreChoice bool          `json:"waitingScoreChoice"`

	RoundAcks map[Side]bool `json:"roundAcks"`

	RoundIndex int           `json:"roundIndex"`
	History    []RoundResult `json:"history"`
}

// BetsLocked reports whether both sides have staked for the round.
func (g *GameState) BetsLocked() bool {
	return g.Bets[SideP1] > 0 && g.Bets[SideP2] > 0
}

// FindCard returns the live hand entry with the given id, or nil.
func (g *GameState) FindCard(side Side, cardID string) *Card {
	hand := g.Hands[side]
	for i := range hand {
		if hand[i].ID == cardID {
			return &hand[i]
		}
	}
	return nil
}
