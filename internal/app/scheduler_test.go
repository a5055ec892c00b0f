package app

import (
	"testing"

	"duelo/internal/domain"
)

func TestRevealExpiry(t *testing.T) {
	svc := testService()
	sched := &EffectScheduler{}
	st := playState([]int{domain.RevealEffectFace, 10}, []int{20, 30})

	mustPlay(t, svc, st, sched, domain.SideP1, "p1_card_0")
	if !st.Hands[domain.SideP2][0].TempRevealed {
		t.Fatalf("reveal effect did not arm")
	}

	// Default duration is 5 seconds at one tick per second.
	if events := svc.Tick(st, sched, 5); len(events) != 0 {
		t.Fatalf("reveal expired early: %v", kinds(events))
	}
	if !st.Hands[domain.SideP2][0].TempRevealed {
		t.Fatalf("temp reveal cleared before deadline")
	}

	events := svc.Tick(st, sched, 6)
	if len(events) != 1 || events[0].Kind != EventUpdateState {
		t.Fatalf("expiry events = %v, want [update_state]", kinds(events))
	}
	for _, c := range st.Hands[domain.SideP2] {
		if c.TempRevealed {
			t.Fatalf("card %s still temp revealed after expiry", c.ID)
		}
	}

	// Deadline is one-shot.
	if events := svc.Tick(st, sched, 7); len(events) != 0 {
		t.Fatalf("expiry fired twice: %v", kinds(events))
	}
}

func TestRevealExpiryKeepsPermanentReveals(t *testing.T) {
	svc := testService()
	sched := &EffectScheduler{}
	st := playState([]int{domain.RevealEffectFace, 10}, []int{20, 30})

	mustPlay(t, svc, st, sched, domain.SideP1, "p1_card_0")

	// A card revealed for real during the window must stay face-up.
	st.Hands[domain.SideP2][0].Revealed = true

	svc.Tick(st, sched, 6)
	if !st.Hands[domain.SideP2][0].Revealed {
		t.Fatalf("permanent reveal lost")
	}
	if st.Hands[domain.SideP2][1].TempRevealed {
		t.Fatalf("temp reveal not cleared")
	}
}

func TestRevealExpiryStaleRound(t *testing.T) {
	svc := testService()
	sched := &EffectScheduler{}
	st := playState([]int{domain.RevealEffectFace, 10}, []int{20, 30})

	mustPlay(t, svc, st, sched, domain.SideP1, "p1_card_0")

	// The round the deadline belongs to is gone.
	st.RoundIndex = 2
	if events := svc.Tick(st, sched, 6); len(events) != 0 {
		t.Fatalf("stale reveal deadline fired: %v", kinds(events))
	}
}

func TestScoreChoiceTimeoutAutoSumar(t *testing.T) {
	svc := testService()
	sched := &EffectScheduler{}
	st := playState([]int{40, 10}, []int{20, 30})

	mustPlay(t, svc, st, sched, domain.SideP1, "p1_card_0")
	mustPlay(t, svc, st, sched, domain.SideP2, "p2_card_0")

	// Default timeout is 30 seconds; armed at tick 1.
	if events := svc.Tick(st, sched, 30); len(events) != 0 {
		t.Fatalf("timeout fired early: %v", kinds(events))
	}

	events := svc.Tick(st, sched, 31)
	if len(events) != 1 || events[0].Kind != EventUpdateState {
		t.Fatalf("timeout events = %v, want [update_state]", kinds(events))
	}
	if st.RoundScore[domain.SideP1] != 20 {
		t.Fatalf("auto-sumar score = %d, want 20", st.RoundScore[domain.SideP1])
	}
	if st.WaitingScoreChoice || st.PendingScore != nil {
		t.Fatalf("score gate should be cleared by timeout")
	}
}

func TestScoreChoiceTimeoutCancelledByManualApply(t *testing.T) {
	svc := testService()
	sched := &EffectScheduler{}
	st := playState([]int{40, 10}, []int{20, 30})

	mustPlay(t, svc, st, sched, domain.SideP1, "p1_card_0")
	mustPlay(t, svc, st, sched, domain.SideP2, "p2_card_0")

	if _, err := svc.ApplyScore(st, sched, domain.SideP1, ScoreModeRestar); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if events := svc.Tick(st, sched, 100); len(events) != 0 {
		t.Fatalf("cancelled timeout fired: %v", kinds(events))
	}
	if st.RoundScore[domain.SideP1] != -20 {
		t.Fatalf("manual restar overwritten: %d", st.RoundScore[domain.SideP1])
	}
}

func TestScoreChoiceTimeoutFinishesRound(t *testing.T) {
	svc := testService()
	sched := &EffectScheduler{}
	st := playState([]int{34}, []int{20})

	mustPlay(t, svc, st, sched, domain.SideP1, "p1_card_0")
	mustPlay(t, svc, st, sched, domain.SideP2, "p2_card_0")

	events := svc.Tick(st, sched, 31)
	if len(events) != 2 || events[1].Kind != EventRoundResult {
		t.Fatalf("events = %v, want [update_state round_result]", kinds(events))
	}
	if st.Phase != domain.PhaseRoundEnd {
		t.Fatalf("phase = %q, want round_end", st.Phase)
	}
}

func TestCancelAll(t *testing.T) {
	svc := testService()
	sched := &EffectScheduler{}
	st := playState([]int{domain.RevealEffectFace, 40}, []int{20, 30})

	mustPlay(t, svc, st, sched, domain.SideP1, "p1_card_0")
	mustPlay(t, svc, st, sched, domain.SideP2, "p2_card_0")

	sched.CancelAll()
	if events := svc.Tick(st, sched, 1000); len(events) != 0 {
		t.Fatalf("cancelled deadlines fired: %v", kinds(events))
	}
}
