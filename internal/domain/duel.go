package domain

import "strconv"

// CardValue computes a card's numeric value: the face itself, or the hidden
// joker value for joker-faced cards.
func CardValue(c Card) int {
	if c.Face == JokerFace {
		return c.JokerValue
	}
	return c.Face
}

// PlayedCardValue mirrors CardValue for committed card views.
func PlayedCardValue(p PlayedCard) int {
	if p.Face == JokerFace {
		return p.JokerValue
	}
	return p.Face
}

// Played converts a live card into its committed, immutable view.
func Played(c Card) PlayedCard {
	display := strconv.Itoa(c.Face)
	if c.Face == JokerFace {
		display = "joker"
	}
	return PlayedCard{
		ID:          c.ID,
		Face:        c.Face,
		JokerValue:  c.JokerValue,
		DisplayFace: display,
	}
}

// Compare returns sign(a-b).
func Compare(a, b int) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// Delta returns |a-b|.
func Delta(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// DuelOutcome is the result of comparing a pending card against a response.
type DuelOutcome struct {
	Cmp    int
	Diff   int
	Winner Side // meaningful only when Cmp != 0
}

// ResolveDuel compares the opener's committed card against the responder's.
func ResolveDuel(opener Side, pending PlayedCard, responder Side, response PlayedCard) DuelOutcome {
	a := PlayedCardValue(pending)
	b := PlayedCardValue(response)
	out := DuelOutcome{Cmp: Compare(a, b), Diff: Delta(a, b)}
	if out.Cmp > 0 {
		out.Winner = opener
	} else if out.Cmp < 0 {
		out.Winner = responder
	}
	return out
}
