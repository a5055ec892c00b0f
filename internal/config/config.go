package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig tunes the duel session rules and timer effects.
type GameConfig struct {
	StartingCredits int `json:"starting_credits"`
	CreditGoal      int `json:"credit_goal"`
	TargetScore     int `json:"target_score"`
	// RevealEffectSeconds is how long the opponent's hand stays temporarily visible.
	RevealEffectSeconds int `json:"reveal_effect_seconds"`
	// ScoreChoiceTimeoutSeconds is how long the duel winner has before auto-sumar.
	ScoreChoiceTimeoutSeconds int `json:"score_choice_timeout_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds a solo human waits before a bot fills the other side.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil if never loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// StartingCredits returns each side's opening credit stack.
func StartingCredits() int {
	if cfg != nil && cfg.StartingCredits > 0 {
		return cfg.StartingCredits
	}
	return 100
}

// CreditGoal returns the credit total that wins the game outright.
func CreditGoal() int {
	if cfg != nil && cfg.CreditGoal > 0 {
		return cfg.CreditGoal
	}
	return 1000
}

// TargetScore returns the round score both sides aim for.
func TargetScore() int {
	if cfg != nil && cfg.TargetScore > 0 {
		return cfg.TargetScore
	}
	return 34
}

// RevealEffectSeconds returns the temporary reveal duration.
func RevealEffectSeconds() int {
	if cfg != nil && cfg.RevealEffectSeconds > 0 {
		return cfg.RevealEffectSeconds
	}
	return 5
}

// ScoreChoiceTimeoutSeconds returns the auto-sumar deadline.
func ScoreChoiceTimeoutSeconds() int {
	if cfg != nil && cfg.ScoreChoiceTimeoutSeconds > 0 {
		return cfg.ScoreChoiceTimeoutSeconds
	}
	return 30
}

// BotAutoFillDelaySeconds returns the solo-lobby wait before a bot joins.
func BotAutoFillDelaySeconds() int {
	if cfg != nil && cfg.BotAutoFillDelaySeconds > 0 {
		return cfg.BotAutoFillDelaySeconds
	}
	return 5
}
