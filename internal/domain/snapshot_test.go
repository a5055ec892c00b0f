package domain

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestSnapshotNil(t *testing.T) {
	if Snapshot(nil) != nil {
		t.Fatalf("Snapshot(nil) should be nil")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := &GameState{
		Phase:          PhasePlay,
		Hands:          DealHands(rng),
		TurnOwner:      SideP1,
		RoundScore:     map[Side]int{SideP1: 10, SideP2: -4},
		Credits:        map[Side]int{SideP1: 110, SideP2: 90},
		Bets:           map[Side]int{SideP1: 10, SideP2: 10},
		RemainingPairs: 5,
		Duel:           &OpenDuel{Opener: SideP1, Card: PlayedCard{ID: "p1_card_0", Face: 12, DisplayFace: "12"}},
		PendingScore:   &PendingScore{Winner: SideP2, Diff: 7},
		RoundAcks:      map[Side]bool{SideP1: true},
		RoundIndex:     2,
		History: []RoundResult{{
			Round:  1,
			Winner: SideP2,
			Scores: map[Side]int{SideP1: 20, SideP2: 30},
			Bets:   map[Side]int{SideP1: 5, SideP2: 5},
		}},
	}

	snap := Snapshot(g)
	if !reflect.DeepEqual(g, snap) {
		t.Fatalf("snapshot differs from source")
	}

	// Mutating the source must not leak into the snapshot.
	g.Hands[SideP1][0].Revealed = true
	g.RoundScore[SideP1] = 99
	g.Credits[SideP2] = 0
	g.Duel.Card.Face = 60
	g.PendingScore.Diff = 1
	g.RoundAcks[SideP2] = true
	g.History[0].Scores[SideP1] = -1

	if snap.Hands[SideP1][0].Revealed {
		t.Fatalf("snapshot hand aliases source hand")
	}
	if snap.RoundScore[SideP1] != 10 {
		t.Fatalf("snapshot round score aliases source")
	}
	if snap.Credits[SideP2] != 90 {
		t.Fatalf("snapshot credits alias source")
	}
	if snap.Duel.Card.Face != 12 {
		t.Fatalf("snapshot duel aliases source")
	}
	if snap.PendingScore.Diff != 7 {
		t.Fatalf("snapshot pending score aliases source")
	}
	if snap.RoundAcks[SideP2] {
		t.Fatalf("snapshot acks alias source")
	}
	if snap.History[0].Scores[SideP1] != 20 {
		t.Fatalf("snapshot history aliases source")
	}
}
