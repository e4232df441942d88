package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"time"

	"recall/internal/bot"
	"recall/internal/config"
	"recall/internal/domain"
	"recall/internal/engine"
	"recall/internal/scheduler"
	"recall/internal/view"

	"github.com/heroiclabs/nakama-common/runtime"
)

// matchNotifier implements notifier.Notifier by proxying onto whichever
// runtime.MatchDispatcher Nakama handed the current callback — Nakama
// supplies a fresh dispatcher value per MatchJoin/MatchLeave/MatchLoop
// call, so match_handler.go repoints .dispatcher immediately before any
// call that may reach into the engine.
type matchNotifier struct {
	dispatcher runtime.MatchDispatcher
	presences  map[string]runtime.Presence
	logger     runtime.Logger
}

func (n *matchNotifier) BroadcastState(table *domain.Table) {
	bytes, err := json.Marshal(view.TableView(table))
	if err != nil {
		n.logger.Error("BroadcastState: marshal failed: %v", err)
		return
	}
	if n.dispatcher != nil {
		n.dispatcher.BroadcastMessage(OpState, bytes, nil, nil, true)
	}
}

type eventEnvelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (n *matchNotifier) SendToPlayer(playerID, eventName string, payload any) {
	presence, ok := n.presences[playerID]
	if !ok || n.dispatcher == nil {
		return
	}
	bytes, err := json.Marshal(eventEnvelope{Event: eventName, Payload: payload})
	if err != nil {
		n.logger.Error("SendToPlayer: marshal failed: %v", err)
		return
	}
	n.dispatcher.BroadcastMessage(OpEvent, bytes, []runtime.Presence{presence}, nil, true)
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Table      *domain.Table
	Engine     *engine.Engine
	Dispatcher *engine.Dispatcher
	Notifier   *matchNotifier
	Brain      bot.Brain

	BotsEnabled bool
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created. It builds an empty table
// in waiting_for_players and the engine that owns it; seats are filled as
// presences join.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	matchID := "match"
	if v := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID); v != nil {
		if s, ok := v.(string); ok {
			matchID = s
		}
	}

	table := domain.NewTable(matchID, defaultMaxPlayers, defaultMinPlayers, "public")
	notif := &matchNotifier{presences: make(map[string]runtime.Presence), logger: logger}
	sched := scheduler.NewRealScheduler()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	eng := engine.NewEngine(table, notif, sched, rng, config.Get())

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	botsEnabled := env["recall_bots_enabled"] == "true"

	state := &MatchState{
		Table:       table,
		Engine:      eng,
		Dispatcher:  engine.NewDispatcher(eng),
		Notifier:    notif,
		Brain:       bot.NewSimpleBrain(),
		BotsEnabled: botsEnabled,
	}

	tickRate := 5
	return state, tickRate, matchID
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	ms, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if ms.Table.GameStarted {
		return state, false, "match already started"
	}
	if len(ms.Table.Players) >= ms.Table.MaxPlayers {
		return state, false, "match full"
	}
	return state, true, ""
}

// MatchJoin seats each presence as a human player and starts the game once
// the table's minimum is reached.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	ms.Notifier.dispatcher = dispatcher

	for _, p := range presences {
		ms.Notifier.presences[p.GetUserId()] = p
		player := domain.NewPlayer(p.GetUserId(), p.GetUsername(), domain.Human)
		ms.Table.AddPlayer(player, p.GetSessionId())
	}

	ms.Notifier.BroadcastState(ms.Table)

	if !ms.Table.GameStarted && len(ms.Table.PlayerOrder) >= ms.Table.MinPlayers {
		if err := ms.Engine.StartGame(); err != nil {
			logger.Warn("MatchJoin: StartGame failed: %v", err)
		}
	}

	return ms
}

// MatchLeave marks departing players disconnected; it does not remove them
// from the table, since hand contents and turn order must survive a
// reconnect.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	ms.Notifier.dispatcher = dispatcher

	ms.Engine.Lock()
	for _, p := range presences {
		delete(ms.Notifier.presences, p.GetUserId())
		if player := ms.Table.Players[p.GetUserId()]; player != nil {
			player.Status = domain.StatusDisconnected
		}
	}
	ms.Engine.Unlock()

	ms.Notifier.BroadcastState(ms.Table)
	return ms
}

// MatchLoop routes inbound action messages through the Dispatcher and, when
// bots are enabled, drives any bot-controlled current player.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		return state
	}
	ms.Notifier.dispatcher = dispatcher

	for _, msg := range messages {
		if msg.GetOpCode() != OpAction {
			logger.Warn("MatchLoop: unknown opcode received: %d", msg.GetOpCode())
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal(msg.GetData(), &raw); err != nil {
			logger.Warn("MatchLoop: invalid action payload from %s: %v", msg.GetUserId(), err)
			continue
		}
		if !ms.Dispatcher.OnPlayerAction(msg.GetSessionId(), raw) {
			logger.Debug("MatchLoop: action rejected from %s", msg.GetUserId())
		}
	}

	if ms.BotsEnabled {
		mh.driveBotTurn(ms, logger)
	}

	return ms
}

// driveBotTurn lets the current player's bot brain act once, if the
// current player is a computer seat awaiting input.
func (mh *matchHandler) driveBotTurn(ms *MatchState, logger runtime.Logger) {
	ms.Engine.Lock()
	table := ms.Table
	current := table.GetCurrentPlayer()
	if current == nil || current.Kind != domain.Computer {
		ms.Engine.Unlock()
		return
	}
	move := ms.Brain.Decide(table, current.ID)
	ms.Engine.Unlock()

	raw := map[string]any{"action": move.Action}
	if move.CardID != "" {
		raw["card_id"] = move.CardID
	}
	if !ms.Dispatcher.ApplyAction(current.ID, raw) {
		logger.Debug("driveBotTurn: bot %s action %s rejected", current.ID, move.Action)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
