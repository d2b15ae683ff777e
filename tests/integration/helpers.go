// Package integration drives a running Nakama server with the klondike module loaded.
// Tests are skipped unless KLONDIKE_INTEGRATION=1.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/rtapi"
	"google.golang.org/protobuf/encoding/protojson"
	"nhooyr.io/websocket"
)

const (
	ServerKey   = "defaultkey"
	DefaultHost = "127.0.0.1:7350"
)

func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("KLONDIKE_INTEGRATION") != "1" {
		t.Skip("set KLONDIKE_INTEGRATION=1 to run against a live Nakama server")
	}
}

func host() string {
	if h := os.Getenv("KLONDIKE_NAKAMA_HOST"); h != "" {
		return h
	}
	return DefaultHost
}

type TestClient struct {
	Host   string
	Token  string
	UserID string
	Conn   *websocket.Conn
	frames chan *rtapi.Envelope
	cancel context.CancelFunc
	http   *http.Client
}

// NewTestClient authenticates a fresh device and opens a realtime socket.
func NewTestClient(t *testing.T, lang string) *TestClient {
	t.Helper()
	tc := &TestClient{Host: host(), http: &http.Client{Timeout: 5 * time.Second}}

	deviceID := fmt.Sprintf("klondike_test_device_%d", time.Now().UnixNano())
	body := map[string]interface{}{"id": deviceID, "vars": map[string]string{"lang": lang}}
	var session struct {
		Token string `json:"token"`
	}
	if err := tc.do(http.MethodPost, "/v2/account/authenticate/device?create=true", body, true, &session); err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}
	tc.Token = session.Token

	account, err := tc.Account()
	if err != nil {
		t.Fatalf("Failed to read account: %v", err)
	}
	tc.UserID = account.User.ID

	ctx, cancel := context.WithCancel(context.Background())
	conn, _, err := websocket.Dial(ctx, "ws://"+tc.Host+"/ws?format=json&token="+url.QueryEscape(tc.Token), nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect socket: %v", err)
	}
	tc.Conn = conn
	tc.cancel = cancel
	tc.frames = make(chan *rtapi.Envelope, 64)
	go tc.readLoop(ctx)
	return tc
}

func (tc *TestClient) Close() {
	if tc.Conn != nil {
		_ = tc.Conn.Close(websocket.StatusNormalClosure, "bye")
	}
	if tc.cancel != nil {
		tc.cancel()
	}
}

type Account struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		LangTag     string `json:"lang_tag"`
	} `json:"user"`
}

// Account fetches the authenticated user's account.
func (tc *TestClient) Account() (*Account, error) {
	var out Account
	if err := tc.do(http.MethodGet, "/v2/account", nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Rpc calls a registered RPC. Nakama expects the payload as a JSON string body.
func (tc *TestClient) Rpc(id string, payload string) (string, error) {
	var out struct {
		Payload string `json:"payload"`
	}
	if err := tc.do(http.MethodPost, "/v2/rpc/"+id, payload, false, &out); err != nil {
		return "", err
	}
	return out.Payload, nil
}

// JoinMatch joins matchID and returns the server's reply envelope.
func (tc *TestClient) JoinMatch(t *testing.T, matchID string) *rtapi.Envelope {
	t.Helper()
	tc.send(t, &rtapi.Envelope{Cid: "join", Message: &rtapi.Envelope_MatchJoin{MatchJoin: &rtapi.MatchJoin{
		Id: &rtapi.MatchJoin_MatchId{MatchId: matchID},
	}}})
	return tc.waitFor(t, 5*time.Second, func(env *rtapi.Envelope) bool { return env.GetCid() == "join" })
}

// SendMatchState sends one match message with a JSON payload.
func (tc *TestClient) SendMatchState(t *testing.T, matchID string, opCode int64, payload interface{}) {
	t.Helper()
	var data []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload: %v", err)
		}
		data = b
	}
	tc.send(t, &rtapi.Envelope{Message: &rtapi.Envelope_MatchDataSend{MatchDataSend: &rtapi.MatchDataSend{
		MatchId:  matchID,
		OpCode:   opCode,
		Data:     data,
		Reliable: true,
	}}})
}

// WaitForMatchData waits for a match message with opCode and decodes its JSON payload into v.
func (tc *TestClient) WaitForMatchData(t *testing.T, opCode int64, timeout time.Duration, v interface{}) {
	t.Helper()
	env := tc.waitFor(t, timeout, func(env *rtapi.Envelope) bool {
		return env.GetMatchData().GetOpCode() == opCode
	})
	if err := json.Unmarshal(env.GetMatchData().GetData(), v); err != nil {
		t.Fatalf("Failed to decode opcode %d: %v", opCode, err)
	}
}

func (tc *TestClient) send(t *testing.T, env *rtapi.Envelope) {
	t.Helper()
	b, err := protojson.Marshal(env)
	if err != nil {
		t.Fatalf("Failed to marshal envelope: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tc.Conn.Write(ctx, websocket.MessageText, b); err != nil {
		t.Fatalf("Failed to write envelope: %v", err)
	}
}

func (tc *TestClient) waitFor(t *testing.T, timeout time.Duration, match func(*rtapi.Envelope) bool) *rtapi.Envelope {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case env, ok := <-tc.frames:
			if !ok {
				t.Fatal("Socket closed while waiting")
			}
			if match(env) {
				return env
			}
		case <-deadline:
			t.Fatalf("Timeout after %s", timeout)
			return nil
		}
	}
}

func (tc *TestClient) readLoop(ctx context.Context) {
	defer close(tc.frames)
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}
	for {
		_, data, err := tc.Conn.Read(ctx)
		if err != nil {
			return
		}
		env := &rtapi.Envelope{}
		if err := opts.Unmarshal(data, env); err != nil {
			continue
		}
		select {
		case tc.frames <- env:
		case <-ctx.Done():
			return
		}
	}
}

func (tc *TestClient) do(method, path string, body interface{}, basic bool, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, "http://"+tc.Host+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if basic {
		req.SetBasicAuth(ServerKey, "")
	} else {
		req.Header.Set("Authorization", "Bearer "+tc.Token)
	}

	resp, err := tc.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
