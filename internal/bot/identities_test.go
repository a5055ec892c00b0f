package bot

import "testing"

func TestIsBot(t *testing.T) {
	tests := []struct {
		userID string
		want   bool
	}{
		{userID: "bot_lucia", want: true},
		{userID: "bot_x", want: true},
		{userID: "user123", want: false},
		{userID: "", want: false},
	}
	for _, tt := range tests {
		if got := IsBot(tt.userID); got != tt.want {
			t.Fatalf("IsBot(%q) = %v, want %v", tt.userID, got, tt.want)
		}
	}
}

func TestGetBotIdentityCycles(t *testing.T) {
	n := len(identities)
	first := GetBotIdentity(0)
	if first.UserID == "" || !IsBot(first.UserID) {
		t.Fatalf("identity 0 invalid: %+v", first)
	}
	if GetBotIdentity(n) != first {
		t.Fatalf("identity pool should cycle")
	}
}

func TestGetBotUsername(t *testing.T) {
	id := GetBotIdentity(0)
	if got := GetBotUsername(id.UserID); got != id.Username {
		t.Fatalf("GetBotUsername(%q) = %q, want %q", id.UserID, got, id.Username)
	}
	if got := GetBotUsername("bot_unknown"); got != "" {
		t.Fatalf("unknown bot username = %q, want empty", got)
	}
}

func TestNewAgentRejectsHumans(t *testing.T) {
	if _, err := NewAgent("human_1"); err == nil {
		t.Fatalf("expected error for non-bot user id")
	}
	agent, err := NewAgent("bot_lucia")
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	if agent.UserID != "bot_lucia" {
		t.Fatalf("agent user id = %q", agent.UserID)
	}
	if _, ok := agent.Act(nil, "p1"); ok {
		t.Fatalf("agent must idle on nil state")
	}
}
