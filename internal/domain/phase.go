package domain

// Phase is the table's tagged phase enum (spec §3, §4.5).
type Phase int

const (
	WaitingForPlayers Phase = iota
	DealingCards
	PlayerTurn
	SameRankWindow
	SpecialPlayWindow
	QueenPeekWindow
	TurnPendingEvents
	EndingRound
	EndingTurn
	RecallCalled
	GameEnded
)

var phaseStrings = map[Phase]string{
	WaitingForPlayers: "waiting_for_players",
	DealingCards:      "dealing_cards",
	PlayerTurn:        "player_turn",
	SameRankWindow:    "same_rank_window",
	SpecialPlayWindow: "special_play_window",
	QueenPeekWindow:   "queen_peek_window",
	TurnPendingEvents: "turn_pending_events",
	EndingRound:       "ending_round",
	EndingTurn:        "ending_turn",
	RecallCalled:      "recall_called",
	GameEnded:         "game_ended",
}

var phaseFromString = func() map[string]Phase {
	m := make(map[string]Phase, len(phaseStrings))
	for p, s := range phaseStrings {
		m[s] = p
	}
	return m
}()

func (p Phase) String() string {
	if s, ok := phaseStrings[p]; ok {
		return s
	}
	return "waiting_for_players"
}

// ParsePhase parses the canonical string form of a phase.
func ParsePhase(s string) (Phase, bool) {
	p, ok := phaseFromString[s]
	return p, ok
}
