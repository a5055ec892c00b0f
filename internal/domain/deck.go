package domain

import (
	"fmt"
	"math/rand"
)

const (
	// FacePoolSize is the number of distinct card faces.
	FacePoolSize = 68
	// JokerFace is the face whose value is a hidden random number fixed at deal time.
	JokerFace = 0
	// RevealEffectFace triggers the temporary reveal of the opponent's hand.
	RevealEffectFace = 67
	// HandSize is the number of cards dealt to each side.
	HandSize = 10
)

// DrawFaces returns n faces drawn without replacement from the 0..67 pool,
// uniformly shuffled.
func DrawFaces(rng *rand.Rand, n int) []int {
	pool := make([]int, FacePoolSize)
	for i := range pool {
		pool[i] = i
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:n]
}

// NewCard builds the card for a hand slot. A joker face also gets its hidden
// value sampled here; this is the only place hidden randomness enters a card.
func NewCard(rng *rand.Rand, owner Side, slot, face int) Card {
	c := Card{
		ID:   fmt.Sprintf("%s_card_%d", owner, slot),
		Face: face,
	}
	if face == JokerFace {
		c.JokerValue = rng.Intn(FacePoolSize) + 1
	}
	return c
}

// DealHands draws 20 distinct faces and splits them into the two hands.
func DealHands(rng *rand.Rand) map[Side][]Card {
	faces := DrawFaces(rng, 2*HandSize)
	hands := make(map[Side][]Card, 2)
	for i, side := range Sides {
		hand := make([]Card, 0, HandSize)
		for slot, face := range faces[i*HandSize : (i+1)*HandSize] {
			hand = append(hand, NewCard(rng, side, slot, face))
		}
		hands[side] = hand
	}
	return hands
}
