package domain

import (
	"math/rand"
	"testing"
)

func TestDrawFaces(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	faces := DrawFaces(rng, 20)
	if len(faces) != 20 {
		t.Fatalf("DrawFaces() returned %d faces, want 20", len(faces))
	}

	seen := make(map[int]bool)
	for _, f := range faces {
		if f < 0 || f >= FacePoolSize {
			t.Fatalf("face out of range: %d", f)
		}
		if seen[f] {
			t.Fatalf("duplicate face drawn: %d", f)
		}
		seen[f] = true
	}
}

func TestNewCardJoker(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		c := NewCard(rng, SideP1, 0, JokerFace)
		if c.JokerValue < 1 || c.JokerValue > FacePoolSize {
			t.Fatalf("joker value out of range: %d", c.JokerValue)
		}
	}

	c := NewCard(rng, SideP2, 3, 42)
	if c.JokerValue != 0 {
		t.Fatalf("non-joker card got a joker value: %d", c.JokerValue)
	}
	if c.ID != "p2_card_3" {
		t.Fatalf("unexpected card id: %s", c.ID)
	}
}

func TestDealHands(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	hands := DealHands(rng)

	if len(hands) != 2 {
		t.Fatalf("DealHands() produced %d hands, want 2", len(hands))
	}

	seen := make(map[int]bool)
	for _, side := range Sides {
		hand := hands[side]
		if len(hand) != HandSize {
			t.Fatalf("side %s dealt %d cards, want %d", side, len(hand), HandSize)
		}
		for _, c := range hand {
			if seen[c.Face] {
				t.Fatalf("face %d dealt to both hands", c.Face)
			}
			seen[c.Face] = true
			if c.Revealed || c.Locked || c.TempRevealed {
				t.Fatalf("freshly dealt card has flags set: %+v", c)
			}
			if c.Face == JokerFace && c.JokerValue == 0 {
				t.Fatalf("dealt joker missing hidden value")
			}
		}
	}
	if len(seen) != 2*HandSize {
		t.Fatalf("dealt %d distinct faces, want %d", len(seen), 2*HandSize)
	}
}
