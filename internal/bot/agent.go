package bot

import (
	"fmt"
	"math/rand"
	"time"

	"duelo/internal/config"
	"duelo/internal/domain"
)

// Agent drives one bot seat through the duel session.
type Agent struct {
	UserID   string
	strategy Strategy
}

// NewAgent builds an agent for a bot user id.
func NewAgent(userID string) (*Agent, error) {
	if !IsBot(userID) {
		return nil, fmt.Errorf("not a bot user id: %s", userID)
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Agent{
		UserID:   userID,
		strategy: NewBasicStrategy(rng, config.TargetScore()),
	}, nil
}

// NewAgentWithStrategy builds an agent with an injected strategy, for tests.
func NewAgentWithStrategy(userID string, strategy Strategy) *Agent {
	return &Agent{UserID: userID, strategy: strategy}
}

// Act plans the agent's next move for its side, if any is due.
func (a *Agent) Act(st *domain.GameState, side domain.Side) (Move, bool) {
	if st == nil {
		return Move{}, false
	}
	return a.strategy.Plan(st, side)
}
