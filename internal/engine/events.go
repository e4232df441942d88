package engine

// Event names the engine sends via Notifier.SendToPlayer (spec §4.7).
const (
	EventTurnStarted     = "turn_started"
	EventSameRankPenalty = "same_rank_penalty"
	EventQueenPeekResult = "queen_peek_result"
)

// TurnStartedPayload is the acknowledgement produced by StartTurn: round
// number, start time, current-player id, phase, and player count, per
// spec §4.5 "Start of a turn".
type TurnStartedPayload struct {
	RoundNumber     int    `json:"round_number"`
	RoundStartTime  int64  `json:"round_start_time"`
	CurrentPlayerID string `json:"current_player_id"`
	Phase           string `json:"phase"`
	PlayerCount     int    `json:"player_count"`
}

// SameRankPenaltyPayload is sent to a player whose same_rank_play was
// rejected and who drew a penalty card.
type SameRankPenaltyPayload struct {
	PenaltyCardDrawn bool `json:"penalty_card_drawn"`
}

// QueenPeekResultPayload carries the peeked card back to the peeking player.
type QueenPeekResultPayload struct {
	CardID string `json:"card_id"`
}

// ActionLogEntry is one entry in the engine's capped action ring buffer
// (grounded on game_round.rs::_log_action / actions_performed — an
// in-memory diagnostic log kept by the round itself, distinct from the
// host-process logger).
type ActionLogEntry struct {
	Timestamp   int64  `json:"timestamp"`
	ActionType  string `json:"action_type"`
	RoundNumber int    `json:"round_number"`
	Data        any    `json:"data"`
}

const actionLogCap = 100

func (e *Engine) logAction(actionType string, data any) {
	e.actionLog = append(e.actionLog, ActionLogEntry{
		Timestamp:   e.nowUnix(),
		ActionType:  actionType,
		RoundNumber: e.roundNumber,
		Data:        data,
	})
	if len(e.actionLog) > actionLogCap {
		e.actionLog = e.actionLog[len(e.actionLog)-actionLogCap:]
	}
}
