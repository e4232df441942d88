package engine

// ActionRequest is the normalized form of an inbound action (spec §6). The
// dispatcher builds one from a raw field map, resolving the field-aliasing
// the wire format allows (card_id nested under card.card_id/card.id, etc.),
// mirroring game_round_actions.rs::_build_action_data.
type ActionRequest struct {
	Action string

	CardID        string
	ReplaceCardID string
	ReplaceIndex  int
	Source        string // "deck" or "discard"

	FirstCardID    string
	FirstPlayerID  string
	SecondCardID   string
	SecondPlayerID string

	OwnerID string

	Indices   []int
	PowerData any
}

// NewActionRequest normalizes a raw decoded-JSON field map into an
// ActionRequest.
func NewActionRequest(raw map[string]any) *ActionRequest {
	req := &ActionRequest{
		Action: firstString(raw, "action", "action_type"),
		Source: str(raw["source"]),

		ReplaceCardID: firstNestedOrString(raw, "replace_card_id", "replace_card", "card_id"),
		ReplaceIndex:  toInt(raw["replaceIndex"]),

		FirstCardID:    str(raw["first_card_id"]),
		FirstPlayerID:  str(raw["first_player_id"]),
		SecondCardID:   str(raw["second_card_id"]),
		SecondPlayerID: str(raw["second_player_id"]),

		OwnerID:   str(raw["ownerId"]),
		PowerData: raw["power_data"],
	}

	req.CardID = str(raw["card_id"])
	if req.CardID == "" {
		if card, ok := raw["card"].(map[string]any); ok {
			req.CardID = firstString(card, "card_id", "id")
		}
	}

	if idxs, ok := raw["indices"].([]any); ok {
		for _, v := range idxs {
			req.Indices = append(req.Indices, toInt(v))
		}
	}

	return req
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := str(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstNestedOrString(m map[string]any, flatKey, nestedKey, nestedField string) string {
	if s := str(m[flatKey]); s != "" {
		return s
	}
	if nested, ok := m[nestedKey].(map[string]any); ok {
		return str(nested[nestedField])
	}
	return ""
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// ActionHandler validates and applies one action tag's effect.
type ActionHandler func(e *Engine, playerID string, req *ActionRequest) error

// Dispatcher resolves a session to a player, routes the normalized request
// to its handler, and stamps last_action_time on success (spec §4.4). It
// holds the Engine's single-writer lock for the duration of one action, so
// handlers never interleave on the same table (spec §5).
type Dispatcher struct {
	engine   *Engine
	handlers map[string]ActionHandler
}

// NewDispatcher builds a Dispatcher wired to the standard handler set.
func NewDispatcher(e *Engine) *Dispatcher {
	return &Dispatcher{
		engine: e,
		handlers: map[string]ActionHandler{
			"draw_from_deck":    handleDrawFromDeck,
			"play_card":         handlePlayCard,
			"same_rank_play":    handleSameRankPlay,
			"jack_swap":         handleJackSwap,
			"queen_peek":        handleQueenPeek,
			"discard_card":      handleDiscardCard,
			"take_from_discard": handleTakeFromDiscard,
			"call_recall":       handleCallRecall,
		},
	}
}

// OnPlayerAction resolves sessionID to a player, rejects if the player is
// absent from the table or the action tag is unknown, and otherwise routes
// to the matching handler. Returns true iff the handler accepted the
// action. Validation rejections leave state unchanged; a rejected
// same_rank_play still applies its penalty draw (spec §4.4, §7).
func (d *Dispatcher) OnPlayerAction(sessionID string, raw map[string]any) bool {
	d.engine.Lock()
	defer d.engine.Unlock()

	playerID, ok := d.engine.table.GetSessionPlayer(sessionID)
	if !ok {
		return false
	}
	return d.applyLocked(playerID, raw)
}

// ApplyAction routes an action directly by player id, bypassing session
// resolution. Used for bot-driven moves, which have no Nakama session to
// resolve.
func (d *Dispatcher) ApplyAction(playerID string, raw map[string]any) bool {
	d.engine.Lock()
	defer d.engine.Unlock()
	return d.applyLocked(playerID, raw)
}

// applyLocked runs one action against an already-identified player. Callers
// must hold the engine lock.
func (d *Dispatcher) applyLocked(playerID string, raw map[string]any) bool {
	if _, ok := d.engine.table.Players[playerID]; !ok {
		return false
	}

	req := NewActionRequest(raw)
	if req.Action == "" {
		return false
	}

	handler, ok := d.handlers[req.Action]
	if !ok {
		return false
	}

	if err := handler(d.engine, playerID, req); err != nil {
		return false
	}

	d.engine.table.LastActionTime = d.engine.nowUnix()
	return true
}
