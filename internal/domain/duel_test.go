package domain

import "testing"

func TestCardValue(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want int
	}{
		{name: "plain face", card: Card{Face: 42}, want: 42},
		{name: "high face", card: Card{Face: 67}, want: 67},
		{name: "joker uses hidden value", card: Card{Face: JokerFace, JokerValue: 55}, want: 55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CardValue(tt.card); got != tt.want {
				t.Fatalf("CardValue() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPlayed(t *testing.T) {
	p := Played(Card{ID: "p1_card_0", Face: 12})
	if p.DisplayFace != "12" {
		t.Fatalf("DisplayFace = %q, want \"12\"", p.DisplayFace)
	}

	j := Played(Card{ID: "p2_card_4", Face: JokerFace, JokerValue: 30})
	if j.DisplayFace != "joker" {
		t.Fatalf("joker DisplayFace = %q, want \"joker\"", j.DisplayFace)
	}
	if PlayedCardValue(j) != 30 {
		t.Fatalf("PlayedCardValue(joker) = %d, want 30", PlayedCardValue(j))
	}
}

func TestResolveDuel(t *testing.T) {
	tests := []struct {
		name       string
		pending    PlayedCard
		response   PlayedCard
		wantCmp    int
		wantDiff   int
		wantWinner Side
	}{
		{
			name:       "opener wins",
			pending:    PlayedCard{Face: 50},
			response:   PlayedCard{Face: 20},
			wantCmp:    1,
			wantDiff:   30,
			wantWinner: SideP1,
		},
		{
			name:       "responder wins",
			pending:    PlayedCard{Face: 10},
			response:   PlayedCard{Face: 44},
			wantCmp:    -1,
			wantDiff:   34,
			wantWinner: SideP2,
		},
		{
			name:     "joker tie",
			pending:  PlayedCard{Face: JokerFace, JokerValue: 25},
			response: PlayedCard{Face: 25},
			wantCmp:  0,
			wantDiff: 0,
		},
		{
			name:       "joker value decides",
			pending:    PlayedCard{Face: JokerFace, JokerValue: 68},
			response:   PlayedCard{Face: 67},
			wantCmp:    1,
			wantDiff:   1,
			wantWinner: SideP1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ResolveDuel(SideP1, tt.pending, SideP2, tt.response)
			if out.Cmp != tt.wantCmp {
				t.Fatalf("Cmp = %d, want %d", out.Cmp, tt.wantCmp)
			}
			if out.Diff != tt.wantDiff {
				t.Fatalf("Diff = %d, want %d", out.Diff, tt.wantDiff)
			}
			if out.Winner != tt.wantWinner {
				t.Fatalf("Winner = %q, want %q", out.Winner, tt.wantWinner)
			}
		})
	}
}
