package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest optionally names a room the client wants to rejoin.
type QuickMatchRequest struct {
	RoomID string `json:"room_id,omitempty"`
}

// QuickMatchResponse is the payload returned to clients looking for a room.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch)
}

// rpcQuickMatch resolves a joinable room: the requested room if it still has
// an open seat, otherwise any open room, otherwise a freshly created one.
func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			logger.Warn("rpcQuickMatch [User:%s]: Ignoring malformed payload: %v", userID, err)
		}
	}

	if req.RoomID != "" {
		match, err := nk.MatchGet(ctx, req.RoomID)
		if err == nil && match != nil && matchIsOpen(match.GetLabel().GetValue()) {
			resp := QuickMatchResponse{MatchID: match.MatchId, IsNew: false}
			b, _ := json.Marshal(resp)
			return string(b), nil
		}
		logger.Info("rpcQuickMatch [User:%s]: Requested room %s unavailable, falling back to search.", userID, req.RoomID)
	}

	query := "+label.open:>=1 +label.game:" + GameLabelName

	limit := 10
	authoritative := true
	minSize := 0
	maxSize := 2

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: Failed to list matches: %v", userID, err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameDuelo, map[string]interface{}{})
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}

	logger.Info("rpcQuickMatch [User:%s]: Created new room %s", userID, matchID)
	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

func matchIsOpen(label string) bool {
	var l roomLabel
	if err := json.Unmarshal([]byte(label), &l); err != nil {
		return false
	}
	return l.Game == GameLabelName && l.Open > 0
}
