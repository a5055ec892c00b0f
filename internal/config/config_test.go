package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAccessorDefaults(t *testing.T) {
	old := cfg
	cfg = nil
	defer func() { cfg = old }()

	if StartingCredits() != 100 {
		t.Fatalf("StartingCredits() = %d, want 100", StartingCredits())
	}
	if CreditGoal() != 1000 {
		t.Fatalf("CreditGoal() = %d, want 1000", CreditGoal())
	}
	if TargetScore() != 34 {
		t.Fatalf("TargetScore() = %d, want 34", TargetScore())
	}
	if RevealEffectSeconds() != 5 {
		t.Fatalf("RevealEffectSeconds() = %d, want 5", RevealEffectSeconds())
	}
	if ScoreChoiceTimeoutSeconds() != 30 {
		t.Fatalf("ScoreChoiceTimeoutSeconds() = %d, want 30", ScoreChoiceTimeoutSeconds())
	}
	if BotAutoFillDelaySeconds() != 5 {
		t.Fatalf("BotAutoFillDelaySeconds() = %d, want 5", BotAutoFillDelaySeconds())
	}
}

func TestAccessorsUseLoadedValues(t *testing.T) {
	old := cfg
	cfg = &GameConfig{
		StartingCredits:           200,
		CreditGoal:                500,
		TargetScore:               21,
		RevealEffectSeconds:       3,
		ScoreChoiceTimeoutSeconds: 10,
		BotAutoFillDelaySeconds:   1,
	}
	defer func() { cfg = old }()

	if StartingCredits() != 200 || CreditGoal() != 500 || TargetScore() != 21 {
		t.Fatalf("loaded rule values not served: %d/%d/%d", StartingCredits(), CreditGoal(), TargetScore())
	}
	if RevealEffectSeconds() != 3 || ScoreChoiceTimeoutSeconds() != 10 || BotAutoFillDelaySeconds() != 1 {
		t.Fatalf("loaded timer values not served: %d/%d/%d", RevealEffectSeconds(), ScoreChoiceTimeoutSeconds(), BotAutoFillDelaySeconds())
	}
}

func TestAccessorsIgnoreZeroValues(t *testing.T) {
	old := cfg
	cfg = &GameConfig{}
	defer func() { cfg = old }()

	if StartingCredits() != 100 || TargetScore() != 34 {
		t.Fatalf("zero config values should fall back to defaults")
	}
}

func TestLoadGameConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_config.json")
	body := `{"starting_credits":150,"credit_goal":2000,"target_score":40}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	if err := LoadGameConfig(path); err != nil {
		t.Fatalf("LoadGameConfig: %v", err)
	}
	loaded := GetGameConfig()
	if loaded == nil {
		t.Fatalf("config not retained after load")
	}
	if loaded.StartingCredits != 150 || loaded.CreditGoal != 2000 || loaded.TargetScore != 40 {
		t.Fatalf("loaded config = %+v", loaded)
	}
}
