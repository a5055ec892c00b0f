package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"duelo/internal/app"
	"duelo/internal/bot"
	"duelo/internal/config"
	"duelo/internal/domain"
	"duelo/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for one room.
type MatchState struct {
	Sides     map[domain.Side]string      `json:"sides"` // side -> userID, "" means empty
	Presences map[string]runtime.Presence `json:"-"`     // userID -> presence for targeted messaging
	Tick      int64                       `json:"tick"`

	App     *app.Service         `json:"-"`
	Game    *domain.GameState    `json:"-"`
	Effects *app.EffectScheduler `json:"-"`

	Economy ports.EconomyPort `json:"-"`
	Settled bool              `json:"settled"` // wallet mirror already written for this game

	BotsEnabled      bool                  `json:"bots_enabled"`
	BotMinDelay      int                   `json:"bot_min_delay"`
	BotMaxDelay      int                   `json:"bot_max_delay"`
	BotAutoFillDelay int                   `json:"bot_auto_fill_delay"`
	BotWaitUntil     int64                 `json:"bot_wait_until"`
	LastSoloTick     int64                 `json:"last_solo_tick"`
	Bots             map[string]*bot.Agent `json:"-"`

	rng *rand.Rand
}

// SideOf returns the seat a user occupies.
func (ms *MatchState) SideOf(userID string) (domain.Side, bool) {
	for _, side := range domain.Sides {
		if ms.Sides[side] == userID && userID != "" {
			return side, true
		}
	}
	return "", false
}

// FreeSide returns the first unoccupied seat.
func (ms *MatchState) FreeSide() (domain.Side, bool) {
	for _, side := range domain.Sides {
		if ms.Sides[side] == "" {
			return side, true
		}
	}
	return "", false
}

// OpenSideCount returns the number of empty seats.
func (ms *MatchState) OpenSideCount() int {
	count := 0
	for _, side := range domain.Sides {
		if ms.Sides[side] == "" {
			count++
		}
	}
	return count
}

// HumanCount returns the number of seats held by connected humans.
func (ms *MatchState) HumanCount() int {
	count := 0
	for _, side := range domain.Sides {
		if uid := ms.Sides[side]; uid != "" && !bot.IsBot(uid) {
			count++
		}
	}
	return count
}

// BothReady reports whether both seats are occupied.
func (ms *MatchState) BothReady() bool {
	return ms.Sides[domain.SideP1] != "" && ms.Sides[domain.SideP2] != ""
}

// botSeatReclaimable reports whether a human may still take over a bot seat.
// Only allowed before any credits are staked in round 1.
func (ms *MatchState) botSeatReclaimable() bool {
	return ms.Game != nil && ms.Game.RoundIndex == 1 && ms.Game.Phase == domain.PhaseBetting
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return newMatchHandler(), nil
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// roomLabel is the match label advertised for quick-match queries.
type roomLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// MatchInit boots a new room with a dealt round 1 in the betting phase.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	svc := app.NewService(rng)

	state := &MatchState{
		Sides:     map[domain.Side]string{domain.SideP1: "", domain.SideP2: ""},
		Presences: make(map[string]runtime.Presence),
		App:       svc,
		Game:      svc.NewGame(),
		Effects:   &app.EffectScheduler{},
		Economy:   NewNakamaEconomyAdapter(nk),
		Bots:      make(map[string]*bot.Agent),
		rng:       rng,
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["duelo_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["duelo_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["duelo_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}

	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = 3
	}
	state.BotAutoFillDelay = config.BotAutoFillDelaySeconds()

	tickRate := 1
	return state, tickRate, buildLabel(state)
}

func buildLabel(state *MatchState) string {
	phase := ""
	if state.Game != nil {
		phase = string(state.Game.Phase)
	}
	b, _ := json.Marshal(roomLabel{
		Open:  state.OpenSideCount(),
		Game:  GameLabelName,
		Phase: phase,
	})
	return string(b)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if _, free := matchState.FreeSide(); free {
		return state, true, ""
	}

	// A bot seat may still be reclaimed before round 1 betting completes.
	if matchState.botSeatReclaimable() {
		for _, side := range domain.Sides {
			if bot.IsBot(matchState.Sides[side]) {
				return state, true, ""
			}
		}
	}

	return state, false, "room_full"
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	roomID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		side, assigned := matchState.FreeSide()
		if !assigned && matchState.botSeatReclaimable() {
			for _, candidate := range domain.Sides {
				if bot.IsBot(matchState.Sides[candidate]) {
					logger.Info("MatchJoin: Replacing bot %s with human %s on side %s", matchState.Sides[candidate], p.GetUserId(), candidate)
					delete(matchState.Bots, matchState.Sides[candidate])
					matchState.Game.Bets[candidate] = 0
					side, assigned = candidate, true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no side was available.", p.GetUserId())
			continue
		}

		matchState.Sides[side] = p.GetUserId()
		logger.Info("MatchJoin: %s joined room %s as %s", p.GetUserId(), roomID, side)

		mh.sendTo(matchState, dispatcher, logger, p.GetUserId(), OpJoined, joinedMsg{Side: side, RoomID: roomID})
		mh.sendTo(matchState, dispatcher, logger, p.GetUserId(), OpRoundStarted, stateMsg{GameState: domain.Snapshot(matchState.Game)})
	}

	if matchState.BothReady() {
		mh.broadcast(matchState, dispatcher, logger, OpBothReady, stateMsg{GameState: domain.Snapshot(matchState.Game)})
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave tears the room down: duel state cannot survive a missing side,
// so the survivor is notified and the match terminates.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		side, seated := matchState.SideOf(p.GetUserId())
		if !seated {
			continue
		}
		matchState.Sides[side] = ""
		logger.Info("MatchLeave: %s left, side %s freed.", p.GetUserId(), side)

		mh.broadcast(matchState, dispatcher, logger, OpPlayerLeft, playerLeftMsg{Side: side})
	}

	if matchState.HumanCount() == 0 {
		logger.Info("MatchLeave: Terminating room with no humans.")
		return nil
	}

	mh.broadcast(matchState, dispatcher, logger, OpRoomClosed, roomClosedMsg{Reason: "player_disconnected"})
	logger.Info("MatchLeave: Room closed after disconnect.")
	return nil
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpPlaceBet:
			mh.handlePlaceBet(ctx, matchState, dispatcher, logger, msg)
		case OpDecideCard:
			mh.handleDecideCard(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpApplyScore:
			mh.handleApplyScore(ctx, matchState, dispatcher, logger, msg)
		case OpRoundAck:
			mh.handleRoundAck(ctx, matchState, dispatcher, logger, msg)
		case OpResetGame:
			mh.handleResetGame(ctx, matchState, dispatcher, logger, msg)
		case OpPing:
			mh.sendTo(matchState, dispatcher, logger, msg.GetUserId(), OpPong, pongMsg{})
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	// Deferred effects fire after command handling, once per tick.
	events := matchState.App.Tick(matchState.Game, matchState.Effects, tick)
	for _, ev := range events {
		mh.broadcastEvent(ctx, matchState, dispatcher, logger, ev)
	}

	return matchState
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Room terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

/* ---- command handlers ---- */

func (mh *matchHandler) handlePlaceBet(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	side, ok := state.SideOf(msg.GetUserId())
	if !ok {
		logger.Warn("handlePlaceBet: User %s holds no side.", msg.GetUserId())
		return
	}

	var payload struct {
		Amount int `json:"amount"`
	}
	if err := json.Unmarshal(msg.GetData(), &payload); err != nil {
		logger.Error("handlePlaceBet: Malformed payload from %s: %v", msg.GetUserId(), err)
		return
	}

	events, err := state.App.PlaceBet(state.Game, side, payload.Amount)
	if err != nil {
		if err == app.ErrInvalidBet {
			mh.sendInvalidAction(state, dispatcher, logger, msg.GetUserId(), "invalid_bet")
			return
		}
		logger.Warn("handlePlaceBet: %s (%s) rejected: %v", msg.GetUserId(), side, err)
		return
	}

	logger.Info("handlePlaceBet: %s staked %d credits.", side, payload.Amount)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleDecideCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	side, ok := state.SideOf(msg.GetUserId())
	if !ok {
		logger.Warn("handleDecideCard: User %s holds no side.", msg.GetUserId())
		return
	}

	var payload struct {
		CardID string `json:"cardId"`
	}
	if err := json.Unmarshal(msg.GetData(), &payload); err != nil {
		logger.Error("handleDecideCard: Malformed payload from %s: %v", msg.GetUserId(), err)
		return
	}

	events, err := state.App.DecideCard(state.Game, side, payload.CardID)
	if err != nil {
		logger.Warn("handleDecideCard: %s (%s) rejected: %v", msg.GetUserId(), side, err)
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	side, ok := state.SideOf(msg.GetUserId())
	if !ok {
		logger.Warn("handlePlayCard: User %s holds no side.", msg.GetUserId())
		return
	}

	var payload struct {
		CardID string `json:"cardId"`
	}
	if err := json.Unmarshal(msg.GetData(), &payload); err != nil {
		logger.Error("handlePlayCard: Malformed payload from %s: %v", msg.GetUserId(), err)
		return
	}

	events, err := state.App.PlayCard(state.Game, state.Effects, state.Tick, side, payload.CardID)
	if err != nil {
		logger.Warn("handlePlayCard: %s (%s) rejected: %v", msg.GetUserId(), side, err)
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleApplyScore(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	side, ok := state.SideOf(msg.GetUserId())
	if !ok {
		logger.Warn("handleApplyScore: User %s holds no side.", msg.GetUserId())
		return
	}

	var payload struct {
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal(msg.GetData(), &payload); err != nil {
		logger.Error("handleApplyScore: Malformed payload from %s: %v", msg.GetUserId(), err)
		return
	}

	events, err := state.App.ApplyScore(state.Game, state.Effects, side, payload.Mode)
	if err != nil {
		logger.Warn("handleApplyScore: %s (%s) rejected: %v", msg.GetUserId(), side, err)
		return
	}

	logger.Info("handleApplyScore: %s applied %s.", side, payload.Mode)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleRoundAck(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	side, ok := state.SideOf(msg.GetUserId())
	if !ok {
		logger.Warn("handleRoundAck: User %s holds no side.", msg.GetUserId())
		return
	}

	events, err := state.App.RoundAck(state.Game, side)
	if err != nil {
		logger.Warn("handleRoundAck: %s (%s) rejected: %v", msg.GetUserId(), side, err)
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleResetGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if _, ok := state.SideOf(msg.GetUserId()); !ok {
		logger.Warn("handleResetGame: User %s holds no side.", msg.GetUserId())
		return
	}

	events, err := state.App.ResetGame(state.Game, state.Effects)
	if err != nil {
		logger.Warn("handleResetGame: rejected: %v", err)
		return
	}

	state.Settled = false
	logger.Info("handleResetGame: Game reset by %s.", msg.GetUserId())
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	mh.updateLabel(state, dispatcher, logger)
}

/* ---- bots ---- */

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Auto-fill a solo human's room with a practice opponent after a delay.
	if state.HumanCount() == 1 && state.OpenSideCount() > 0 {
		if state.LastSoloTick == 0 {
			state.LastSoloTick = state.Tick
			logger.Debug("processBots: Solo player detected, starting auto-fill timer.")
		}

		if state.Tick-state.LastSoloTick >= int64(state.BotAutoFillDelay) {
			if side, free := state.FreeSide(); free {
				identity := bot.GetBotIdentity(0)
				agent, err := bot.NewAgent(identity.UserID)
				if err != nil {
					logger.Error("processBots: Failed to create bot agent: %v", err)
				} else {
					state.Sides[side] = identity.UserID
					state.Bots[identity.UserID] = agent
					logger.Info("processBots: Added bot %s (%s) on side %s", identity.Username, identity.UserID, side)

					mh.broadcast(state, dispatcher, logger, OpBothReady, stateMsg{GameState: domain.Snapshot(state.Game)})
					mh.updateLabel(state, dispatcher, logger)
				}
			}
			state.LastSoloTick = 0
		}
	} else {
		state.LastSoloTick = 0
	}

	// Let a seated bot act after a small randomized delay.
	for _, side := range domain.Sides {
		uid := state.Sides[side]
		if !bot.IsBot(uid) {
			continue
		}
		agent, exists := state.Bots[uid]
		if !exists {
			var err error
			agent, err = bot.NewAgent(uid)
			if err != nil {
				logger.Error("processBots: Failed to create fallback agent: %v", err)
				continue
			}
			state.Bots[uid] = agent
		}

		move, due := agent.Act(state.Game, side)
		if !due {
			state.BotWaitUntil = 0
			continue
		}

		if state.BotWaitUntil == 0 {
			delay := state.rng.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
			state.BotWaitUntil = state.Tick + int64(delay)
			logger.Debug("processBots: Bot %s (%s) will act at tick %d (current %d)", uid, side, state.BotWaitUntil, state.Tick)
			continue
		}
		if state.Tick < state.BotWaitUntil {
			continue
		}
		state.BotWaitUntil = 0

		mh.applyBotMove(ctx, state, dispatcher, logger, side, move)
	}
}

func (mh *matchHandler) applyBotMove(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, side domain.Side, move bot.Move) {
	var (
		events []app.Event
		err    error
	)

	switch move.Kind {
	case bot.MovePlaceBet:
		events, err = state.App.PlaceBet(state.Game, side, move.Amount)
	case bot.MoveDecideCard:
		events, err = state.App.DecideCard(state.Game, side, move.CardID)
	case bot.MovePlayCard:
		events, err = state.App.PlayCard(state.Game, state.Effects, state.Tick, side, move.CardID)
	case bot.MoveApplyScore:
		events, err = state.App.ApplyScore(state.Game, state.Effects, side, move.Mode)
	case bot.MoveRoundAck:
		events, err = state.App.RoundAck(state.Game, side)
	default:
		return
	}

	if err != nil {
		logger.Warn("processBots: Bot move %s on side %s rejected: %v", move.Kind, side, err)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

/* ---- event dispatch ---- */

type joinedMsg struct {
	Side   domain.Side `json:"side"`
	RoomID string      `json:"roomId"`
}

type stateMsg struct {
	GameState *domain.GameState `json:"gameState"`
}

type startDecidedMsg struct {
	Starter   domain.Side       `json:"starter"`
	GameState *domain.GameState `json:"gameState"`
}

type revealMsg struct {
	EffectOwner domain.Side       `json:"effectOwner"`
	GameState   *domain.GameState `json:"gameState"`
}

type scoreChoiceMsg struct {
	Winner    domain.Side       `json:"winner"`
	Diff      int               `json:"diff"`
	GameState *domain.GameState `json:"gameState"`
}

type roundResultMsg struct {
	Round     int               `json:"round"`
	Winner    domain.Side       `json:"winner,omitempty"`
	IsTie     bool              `json:"isTie"`
	GameState *domain.GameState `json:"gameState"`
}

type gameOverMsg struct {
	Winner    domain.Side           `json:"winner"`
	Reason    domain.GameOverReason `json:"reason"`
	GameState *domain.GameState     `json:"gameState"`
}

type invalidActionMsg struct {
	Reason    string            `json:"reason"`
	GameState *domain.GameState `json:"gameState"`
}

type playerLeftMsg struct {
	Side domain.Side `json:"side"`
}

type roomClosedMsg struct {
	Reason string `json:"reason"`
}

type pongMsg struct{}

// broadcastEvent converts an app event into an opcode + JSON payload carrying
// a deep state snapshot and dispatches it to its recipients.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	snapshot := domain.Snapshot(state.Game)

	var opCode int64
	var payload any

	switch ev.Kind {
	case app.EventRoundStarted:
		opCode = OpRoundStarted
		payload = stateMsg{GameState: snapshot}
	case app.EventBetsLocked:
		opCode = OpBetsLocked
		payload = stateMsg{GameState: snapshot}
	case app.EventUpdateState:
		opCode = OpUpdateState
		payload = stateMsg{GameState: snapshot}
	case app.EventStartDecided:
		opCode = OpStartDecided
		p := ev.Payload.(app.StartDecidedPayload)
		payload = startDecidedMsg{Starter: p.Starter, GameState: snapshot}
	case app.EventDoctorManhattanReveal:
		opCode = OpDoctorManhattanReveal
		p := ev.Payload.(app.DoctorManhattanRevealPayload)
		payload = revealMsg{EffectOwner: p.EffectOwner, GameState: snapshot}
	case app.EventScoreChoice:
		opCode = OpScoreChoice
		p := ev.Payload.(app.ScoreChoicePayload)
		payload = scoreChoiceMsg{Winner: p.Winner, Diff: p.Diff, GameState: snapshot}
	case app.EventRoundResult:
		opCode = OpRoundResult
		p := ev.Payload.(app.RoundResultPayload)
		payload = roundResultMsg{Round: p.Round, Winner: p.Winner, IsTie: p.IsTie, GameState: snapshot}
	case app.EventGameOver:
		opCode = OpGameOver
		p := ev.Payload.(app.GameOverPayload)
		payload = gameOverMsg{Winner: p.Winner, Reason: p.Reason, GameState: snapshot}
		mh.settleWallets(ctx, state, logger)
		mh.updateLabel(state, dispatcher, logger)
	case app.EventGameReset:
		opCode = OpGameReset
		payload = stateMsg{GameState: snapshot}
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, side := range ev.Recipients {
			if p, ok := state.Presences[state.Sides[side]]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted events with no connected recipient (a bot seat) must not
		// leak to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, data, recipients, nil, true)
}

// settleWallets mirrors each human's net credit result into their wallet.
func (mh *matchHandler) settleWallets(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.Economy == nil || state.Settled {
		return
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	updates := make([]ports.WalletUpdate, 0, len(domain.Sides))
	for _, side := range domain.Sides {
		uid := state.Sides[side]
		if uid == "" || bot.IsBot(uid) {
			continue
		}
		delta := int64(state.Game.Credits[side] - config.StartingCredits())
		if delta == 0 {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: uid,
			Amount: delta,
			Metadata: map[string]interface{}{
				"match_id": matchID,
				"reason":   "game_settlement",
			},
		})
	}

	if len(updates) > 0 {
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("Failed to update balances: %v", err)
			return
		}
	}
	state.Settled = true
}

// sendInvalidAction replies invalid_action with a reason code to one user.
func (mh *matchHandler) sendInvalidAction(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, reason string) {
	mh.sendTo(state, dispatcher, logger, userID, OpInvalidAction, invalidActionMsg{
		Reason:    reason,
		GameState: domain.Snapshot(state.Game),
	})
}

func (mh *matchHandler) sendTo(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, opCode int64, payload any) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send opcode %d to %s: Presence not found", opCode, userID)
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal payload for opcode %d: %v", opCode, err)
		return
	}
	dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcast(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal payload for opcode %d: %v", opCode, err)
		return
	}
	dispatcher.BroadcastMessage(opCode, data, nil, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if err := dispatcher.MatchLabelUpdate(buildLabel(state)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}
