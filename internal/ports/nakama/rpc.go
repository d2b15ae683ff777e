package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NewMatchRequest is the optional payload of RpcNewMatch.
type NewMatchRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

// NewMatchResponse is returned to clients after a table has been created for them.
type NewMatchResponse struct {
	MatchID string `json:"match_id"`
}

// matchCreator is the subset of runtime.NakamaModule the RPC uses.
type matchCreator interface {
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcNewMatch, rpcNewMatch)
}

func rpcNewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return newMatch(ctx, logger, nk, payload)
}

// newMatch creates a single-player table reserved for the calling user.
func newMatch(ctx context.Context, logger runtime.Logger, nk matchCreator, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("no user in session", 16) // UNAUTHENTICATED
	}

	var req NewMatchRequest
	if err := decodeOptional([]byte(payload), &req); err != nil {
		logger.Warn("RpcNewMatch [User:%s]: Invalid payload: %v", userID, err)
		return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
	}

	params := map[string]interface{}{paramOwner: userID}
	if req.Seed != nil {
		params[paramSeed] = *req.Seed
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameKlondike, params)
	if err != nil {
		logger.Error("RpcNewMatch [User:%s]: Failed to create match: %v", userID, err)
		return "", fmt.Errorf("failed to create match: %w", err)
	}
	logger.Info("RpcNewMatch [User:%s]: Created match %s", userID, matchID)

	b, err := json.Marshal(NewMatchResponse{MatchID: matchID})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
