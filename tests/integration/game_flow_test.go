package integration

import (
	"encoding/json"
	"testing"
	"time"
)

// Wire values of the klondike module; internal packages are not importable from here.
const (
	rpcNewMatch = "klondike_new_match"

	opStockClicked   int64 = 2
	opTableauClicked int64 = 4
	opTableSnapshot  int64 = 101
	opGameError      int64 = 104
)

type snapshot struct {
	Seed     int64             `json:"seed"`
	Stock    []json.RawMessage `json:"stock"`
	Waste    []json.RawMessage `json:"waste"`
	Selected string            `json:"selected"`
}

type gameError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newTable(t *testing.T, tc *TestClient, seed int64) string {
	t.Helper()
	payload, _ := json.Marshal(map[string]int64{"seed": seed})
	out, err := tc.Rpc(rpcNewMatch, string(payload))
	if err != nil {
		t.Fatalf("RPC %s failed: %v", rpcNewMatch, err)
	}
	var resp struct {
		MatchID string `json:"match_id"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil || resp.MatchID == "" {
		t.Fatalf("RPC %s returned %q (%v)", rpcNewMatch, out, err)
	}
	return resp.MatchID
}

func TestOnboardingSetsLangTag(t *testing.T) {
	requireIntegration(t)
	tc := NewTestClient(t, "sl-SI")
	defer tc.Close()

	account, err := tc.Account()
	if err != nil {
		t.Fatalf("Failed to read account: %v", err)
	}
	if account.User.LangTag != "sl" || account.User.DisplayName == "" {
		t.Fatalf("Expected onboarded profile, got %+v", account.User)
	}
}

func TestSolitaireFlow(t *testing.T) {
	requireIntegration(t)
	tc := NewTestClient(t, "en-US")
	defer tc.Close()

	matchID := newTable(t, tc, 42)
	if reply := tc.JoinMatch(t, matchID); reply.GetError() != nil {
		t.Fatalf("Join rejected: %v", reply.GetError().GetMessage())
	}

	var snap snapshot
	tc.WaitForMatchData(t, opTableSnapshot, 5*time.Second, &snap)
	if snap.Seed != 42 || len(snap.Stock) != 24 || snap.Selected != "None" {
		t.Fatalf("Unexpected initial snapshot: seed=%d stock=%d selected=%s", snap.Seed, len(snap.Stock), snap.Selected)
	}

	tc.SendMatchState(t, matchID, opStockClicked, nil)
	tc.WaitForMatchData(t, opTableSnapshot, 5*time.Second, &snap)
	if len(snap.Stock) != 23 || len(snap.Waste) != 1 {
		t.Fatalf("Expected one card drawn, got stock=%d waste=%d", len(snap.Stock), len(snap.Waste))
	}

	tc.SendMatchState(t, matchID, opTableauClicked, map[string]int{"column": 9})
	var gameErr gameError
	tc.WaitForMatchData(t, opGameError, 5*time.Second, &gameErr)
	if gameErr.Code != 400 {
		t.Fatalf("Expected 400 for an out-of-range column, got %+v", gameErr)
	}
}

func TestTableIsSinglePlayer(t *testing.T) {
	requireIntegration(t)
	owner := NewTestClient(t, "")
	defer owner.Close()
	stranger := NewTestClient(t, "")
	defer stranger.Close()

	matchID := newTable(t, owner, 7)
	if reply := stranger.JoinMatch(t, matchID); reply.GetError() == nil {
		t.Fatal("Expected a stranger to be rejected")
	}
}
