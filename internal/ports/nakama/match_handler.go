package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"

	"klondike/internal/app"
	"klondike/internal/config"
	"klondike/internal/domain"
	"klondike/internal/notice"
	"klondike/internal/ports"
	"klondike/internal/random"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	paramOwner = "owner"
	paramSeed  = "seed"

	signalSnapshot = "snapshot"
)

// MatchState holds the authoritative runtime state for one solitaire table.
type MatchState struct {
	OwnerUserID string            `json:"owner_user_id"` // Only this user may join; empty until the first join
	Presence    runtime.Presence  `json:"-"`             // Owner's live presence, nil while disconnected
	Tick        int64             `json:"tick"`          // Tick of the last loop
	IdleSince   int64             `json:"idle_since"`    // Tick at which the owner was last seen leaving
	Config      config.GameConfig `json:"config"`
	App         *app.Service      `json:"-"`
	Table       *domain.Table     `json:"-"`
	Printer     *notice.Printer   `json:"-"`
	Accounts    ports.AccountPort `json:"-"`
}

type matchHandler struct {
	accounts ports.AccountPort
}

func newMatchHandler(accounts ports.AccountPort) *matchHandler {
	return &matchHandler{accounts: accounts}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing klondike match.")

	if err := config.LoadGameConfig(configPath); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	cfg := config.GetGameConfig()
	if environ, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		withEnv, err := cfg.WithEnv(environ)
		if err != nil {
			logger.Warn("MatchInit: Ignoring runtime env overrides: %v", err)
		} else {
			cfg = withEnv
		}
	}

	state := &MatchState{
		Config:   cfg,
		App:      app.NewService(nil),
		Printer:  notice.NewPrinter(cfg.DefaultLocale),
		Accounts: mh.accounts,
	}
	if owner, ok := params[paramOwner].(string); ok {
		state.OwnerUserID = owner
	}

	seed, hasSeed := seedParam(params[paramSeed])
	var requested *int64
	if hasSeed {
		requested = &seed
	}
	mh.startGame(state, logger, requested)

	return state, cfg.TickRate, mh.label(state, logger)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.OwnerUserID != "" && matchState.OwnerUserID != presence.GetUserId() {
		return state, false, "Match is single-player"
	}
	if matchState.Presence != nil && matchState.Presence.GetSessionId() != presence.GetSessionId() {
		return state, false, "Already joined from another session"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.OwnerUserID == "" {
			matchState.OwnerUserID = p.GetUserId()
			logger.Debug("MatchJoin: Owner set to %s.", p.GetUserId())
		}
		if p.GetUserId() != matchState.OwnerUserID {
			logger.Warn("MatchJoin: User %s is not the table owner, ignoring.", p.GetUserId())
			continue
		}
		matchState.Presence = p
		matchState.Printer = mh.printerFor(ctx, matchState, logger, p.GetUserId())
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.sendSnapshot(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.Presence != nil && p.GetSessionId() == matchState.Presence.GetSessionId() {
			matchState.Presence = nil
			matchState.IdleSince = tick
			logger.Debug("MatchLeave: Owner %s left at tick %d.", p.GetUserId(), tick)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLoop: state not found")
		return nil
	}
	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetUserId() != matchState.OwnerUserID {
			logger.Warn("MatchLoop: Dropping message from non-owner %s.", msg.GetUserId())
			continue
		}
		mh.handleMessage(matchState, dispatcher, logger, msg)
	}

	if mh.idleExpired(matchState, tick) {
		logger.Info("MatchLoop: Terminating idle match (owner=%s).", matchState.OwnerUserID)
		return nil
	}
	return matchState
}

func (mh *matchHandler) handleMessage(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var (
		events []app.Event
		err    error
	)

	switch msg.GetOpCode() {
	case OpNewGame:
		var req NewGameRequest
		if err := decodeOptional(msg.GetData(), &req); err != nil {
			logger.Warn("handleNewGame: Invalid NewGameRequest: %v", err)
			mh.sendError(state, dispatcher, logger, 400, "malformed new game request")
			return
		}
		events = mh.startGame(state, logger, req.Seed)
		mh.updateLabel(state, dispatcher, logger)
	case OpStockClicked:
		events, err = state.App.ClickStock(state.Table)
	case OpWasteClicked:
		events, err = state.App.ClickWaste(state.Table)
	case OpTableauClicked:
		var req TableauClickRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			logger.Warn("handleTableauClick: Invalid TableauClickRequest: %v", err)
			mh.sendError(state, dispatcher, logger, 400, "malformed tableau click")
			return
		}
		card := app.EmptyPile
		if req.Card != nil {
			card = *req.Card
		}
		events, err = state.App.ClickTableau(state.Table, req.Column, card)
	case OpFoundationClicked:
		var req FoundationClickRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			logger.Warn("handleFoundationClick: Invalid FoundationClickRequest: %v", err)
			mh.sendError(state, dispatcher, logger, 400, "malformed foundation click")
			return
		}
		events, err = state.App.ClickFoundation(state.Table, req.Foundation)
	case OpBackgroundClicked:
		events, err = state.App.ClickBackground(state.Table)
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		return
	}

	if err != nil {
		code := 400
		if errors.Is(err, app.ErrNoGame) {
			code = 409
		}
		logger.Warn("MatchLoop: Rejected opcode %d from %s: %v", msg.GetOpCode(), msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, code, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	if state.Table != nil {
		if err := state.Table.Validate(); err != nil {
			logger.Error("MatchLoop: Table audit failed after opcode %d: %v", msg.GetOpCode(), err)
		}
	}
	mh.sendSnapshot(state, dispatcher, logger)
}

// startGame deals a new table. The seed is the requested one, else the configured fixed
// seed, else a fresh random seed.
func (mh *matchHandler) startGame(state *MatchState, logger runtime.Logger, requested *int64) []app.Event {
	var (
		table  *domain.Table
		events []app.Event
	)
	switch {
	case requested != nil:
		table, events = state.App.StartGameWithSeed(*requested)
	case state.Config.FixedSeed != 0:
		table, events = state.App.StartGameWithSeed(state.Config.FixedSeed)
	default:
		seed, err := random.NewSeed()
		if err != nil {
			logger.Warn("startGame: Falling back to service rng: %v", err)
			table, events = state.App.StartGame()
		} else {
			table, events = state.App.StartGameWithSeed(seed)
		}
	}
	state.Table = table
	return events
}

func (mh *matchHandler) printerFor(ctx context.Context, state *MatchState, logger runtime.Logger, userID string) *notice.Printer {
	if state.Accounts == nil {
		return notice.NewPrinter(state.Config.DefaultLocale)
	}
	tag, err := state.Accounts.LangTag(ctx, userID)
	if err != nil {
		logger.Warn("MatchJoin: Could not read lang tag for %s: %v", userID, err)
	}
	return notice.NewPrinter(tag, state.Config.DefaultLocale)
}

func (mh *matchHandler) idleExpired(state *MatchState, tick int64) bool {
	if state.Presence != nil || state.Config.IdleTimeoutSeconds <= 0 {
		return false
	}
	return tick-state.IdleSince >= int64(state.Config.IdleTimeoutSeconds*state.Config.TickRate)
}

// broadcastEvent forwards the app events clients render on their own.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	switch ev.Kind {
	case app.EventGameStarted:
		p := ev.Payload.(app.GameStartedPayload)
		logger.Info("Event: game_started (owner=%s, seed=%d)", state.OwnerUserID, p.Seed)
	case app.EventInvalidMove:
		p := ev.Payload.(app.InvalidMovePayload)
		logger.Debug("Event: invalid_move (%s onto %s)", p.Card, p.Target)
		mh.send(state, dispatcher, logger, OpNotice, NoticeEvent{
			Code:    string(domain.NoticeInvalidMove),
			Message: state.Printer.Notice(domain.NoticeInvalidMove),
		})
	case app.EventGameWon:
		logger.Info("Event: game_won (owner=%s, seed=%d)", state.OwnerUserID, state.Table.Seed)
		mh.send(state, dispatcher, logger, OpGameWon, GameWonEvent{
			Seed:    state.Table.Seed,
			Message: state.Printer.Win(),
		})
		mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Debug("Event: %s", ev.Kind)
	}
}

func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Table == nil {
		return
	}
	mh.send(state, dispatcher, logger, OpTableSnapshot, snapshotToWire(state.Table.Snapshot(), state.Printer, state.Config.HideFaceDown))
}

// sendError sends a GameErrorEvent to the owner.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	mh.send(state, dispatcher, logger, OpGameError, GameErrorEvent{Code: code, Message: message})
}

func (mh *matchHandler) send(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload any) {
	if state.Presence == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal opcode %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("Failed to send opcode %d: %v", opCode, err)
	}
}

func (mh *matchHandler) label(state *MatchState, logger runtime.Logger) string {
	won := state.Table != nil && state.Table.Won
	var seed string
	if state.Table != nil {
		seed = strconv.FormatInt(state.Table.Seed, 10)
	}
	label, err := structpb.NewStruct(map[string]interface{}{
		"game":      "klondike",
		"owner":     state.OwnerUserID,
		"connected": state.Presence != nil,
		"won":       won,
		"seed":      seed,
	})
	if err != nil {
		logger.Error("UpdateLabel: Failed to build: %v", err)
		return ""
	}
	labelBytes, err := protojson.Marshal(label)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return ""
	}
	return string(labelBytes)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label := mh.label(state, logger)
	if label == "" {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating with %d grace seconds", graceSeconds)
	return state
}

// MatchSignal answers "snapshot" with the current table, unhidden, for operator tooling.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok || data != signalSnapshot || matchState.Table == nil {
		return state, ""
	}
	out, err := json.Marshal(snapshotToWire(matchState.Table.Snapshot(), matchState.Printer, false))
	if err != nil {
		logger.Error("MatchSignal: Failed to marshal snapshot: %v", err)
		return state, ""
	}
	return state, string(out)
}

// seedParam reads a seed from match params, which arrive as Go values from
// nk.MatchCreate or as strings from the console.
func seedParam(v interface{}) (int64, bool) {
	switch s := v.(type) {
	case int64:
		return s, true
	case int:
		return int64(s), true
	case float64:
		return int64(s), true
	case string:
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}
	return 0, false
}

func decodeOptional(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
