// Package engine implements the turn/phase state machine (spec §4.5, the
// CORE) together with its supporting action dispatcher (§4.4) and winner
// resolution wiring (§4.6). Grounded on
// _examples/original_source/.../game_round.rs and game_round_actions.rs,
// restructured from the source's single GameRound struct into the
// teacher's handler-plus-engine shape (internal/app/service.go).
package engine

import (
	"math/rand"
	"sync"
	"time"

	"recall/internal/config"
	"recall/internal/domain"
	"recall/internal/notifier"
	"recall/internal/scheduler"
)

// SameRankEntry is one recorded play during a same-rank window, keyed by
// player id with a monotonically increasing play-order index (spec §4.4).
type SameRankEntry struct {
	PlayerID  string
	CardID    string
	Rank      domain.Rank
	PlayOrder int
}

// SpecialCardEntry queues a Jack or Queen special-power play (spec §4.4,
// §4.5 "Special-play window").
type SpecialCardEntry struct {
	PlayerID     string
	CardID       string
	Rank         domain.Rank
	SpecialPower string
}

// PendingEvent is a drain-queue entry processed between the special-play
// window and ending_round (spec §4.5 "Pending-events check").
type PendingEvent struct {
	Tag      string
	PlayerID string
	Payload  any
}

const pendingEventQueenPeekPause = "queen_peek_pause"

// Engine owns one table's phase machine, same-rank window, special-play
// window, and pending-events queue. It is single-writer-per-table (spec
// §5): every exported method that mutates state is expected to run inside
// the caller's serialization boundary (the Dispatcher holds the lock for
// the duration of one action).
type Engine struct {
	mu sync.Mutex

	table     *domain.Table
	notifier  notifier.Notifier
	scheduler scheduler.Scheduler
	rng       *rand.Rand
	cfg       config.TimingConfig
	clock     func() time.Time

	roundNumber    int
	roundStartTime int64
	turnStartTime  int64

	actionLog []ActionLogEntry

	sameRank         []SameRankEntry
	specialCardQueue []SpecialCardEntry // accumulated this turn (special_card_data)
	specialCardWork  []SpecialCardEntry // working copy being drained (special_card_players)
	pendingEvents    []PendingEvent

	roundTimeRemaining int
	timedRoundsEnabled bool
}

// NewEngine constructs an Engine over an existing table. rng drives deck
// shuffling and any randomized bot decisions; both rng and n must be
// safe for concurrent use across distinct table workers (spec §5).
func NewEngine(table *domain.Table, n notifier.Notifier, sched scheduler.Scheduler, rng *rand.Rand, cfg config.TimingConfig) *Engine {
	return &Engine{
		table:     table,
		notifier:  n,
		scheduler: sched,
		rng:       rng,
		cfg:       cfg,
		clock:     time.Now,
	}
}

func (e *Engine) nowUnix() int64 { return e.clock().Unix() }

// Table exposes the underlying table for read-only inspection (e.g. by a
// transport adapter building a snapshot outside an action).
func (e *Engine) Table() *domain.Table { return e.table }

// Lock/Unlock expose the single-writer boundary to callers that need to
// group multiple Engine calls (e.g. a match loop tick) into one
// serialized unit, matching spec §5's "handlers execute to completion
// without interleaving mutations on the same table".
func (e *Engine) Lock()   { e.mu.Lock() }
func (e *Engine) Unlock() { e.mu.Unlock() }

// StartGame transitions waiting_for_players -> dealing_cards -> player_turn:
// builds and shuffles the deck, deals 4 cards to each seated player, picks
// the first current player (join order), and enters StartTurn. Returns
// ErrTooFewPlayers if fewer than the table's minimum have joined.
func (e *Engine) StartGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.table.PlayerOrder) < e.table.MinPlayers {
		return ErrTooFewPlayers
	}

	e.table.Phase = domain.DealingCards
	e.table.DrawPile = domain.NewDeck(e.rng)

	const initialHand = 4
	for i := 0; i < initialHand; i++ {
		for _, pid := range e.table.PlayerOrder {
			p := e.table.Players[pid]
			if p == nil {
				continue
			}
			c := e.table.DrawFromDrawPile()
			if c == nil {
				break
			}
			p.AddCardToHand(c)
		}
	}

	e.table.GameStarted = true
	e.table.CurrentPlayerID = e.table.PlayerOrder[0]
	e.timedRoundsEnabled = e.cfg.TimedRoundsEnabled

	e.startTurnLocked()
	return nil
}

// StartTurn begins a new turn for the current player (spec §4.5 "Start of
// a turn"). Exported for callers that re-enter the engine directly (e.g.
// tests); normal play reaches it only through StartGame or
// advanceToNextPlayer.
func (e *Engine) StartTurn() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startTurnLocked()
}

func (e *Engine) startTurnLocked() {
	e.sameRank = nil
	if e.table.Phase != domain.SpecialPlayWindow {
		e.specialCardQueue = nil
	}

	now := e.nowUnix()
	e.roundStartTime = now
	e.turnStartTime = now

	e.table.Phase = domain.PlayerTurn
	if cur := e.table.GetCurrentPlayer(); cur != nil {
		cur.Status = domain.StatusDrawingCard
	}

	if e.timedRoundsEnabled {
		e.roundTimeRemaining = int(e.cfg.RoundBudget.Seconds())
	}

	e.logAction("round_started", map[string]any{
		"round_number":   e.roundNumber,
		"current_player": e.table.CurrentPlayerID,
		"player_count":   len(e.table.Players),
	})

	e.notifier.BroadcastState(e.table)
	e.notifier.SendToPlayer(e.table.CurrentPlayerID, EventTurnStarted, TurnStartedPayload{
		RoundNumber:     e.roundNumber,
		RoundStartTime:  e.roundStartTime,
		CurrentPlayerID: e.table.CurrentPlayerID,
		Phase:           e.table.Phase.String(),
		PlayerCount:     len(e.table.Players),
	})
}

// continueTurn re-enters the phase machine after a handler has run,
// draining pending events and then advancing the round (spec §4.5
// "Pending-events check" / "Advance to next player"). depth bounds
// reentrancy to one level (spec §9 open question (a)): checkPendingEvents
// calls continueTurn at most once more, and only after its own drain has
// emptied the pending-events list.
func (e *Engine) continueTurn(depth int) {
	e.notifier.BroadcastState(e.table)

	if e.table.Phase == domain.TurnPendingEvents {
		e.checkPendingEventsBeforeEndingRound(depth)
	}

	if e.table.Phase == domain.EndingRound {
		e.advanceToNextPlayer()
	}
}

// checkPendingEventsBeforeEndingRound drains e.pendingEvents. The only
// defined tag is queen_peek_pause, a no-op hook (spec §9 open question
// (b), §4.5). Once drained, phase moves to ending_round and the engine
// re-enters continueTurn exactly once more.
func (e *Engine) checkPendingEventsBeforeEndingRound(depth int) {
	if len(e.pendingEvents) == 0 {
		e.table.Phase = domain.EndingRound
		return
	}

	events := e.pendingEvents
	e.pendingEvents = nil
	for _, ev := range events {
		switch ev.Tag {
		case pendingEventQueenPeekPause:
			// No-op: the hook exists for future expansion (spec §4.5).
		default:
			// Unknown tag: dropped without side effect.
		}
	}

	if depth >= 1 {
		// Reentrancy depth is capped at one level (spec §9 open question
		// (a)); the pending-events list is drained to empty above, so a
		// second re-entry is structurally unreachable in practice.
		e.table.Phase = domain.EndingRound
		return
	}
	e.continueTurn(depth + 1)
}

// advanceToNextPlayer selects the next active player in insertion order
// (spec §4.5 "Advance to next player"). If a recall caller is recorded
// and the newly selected player equals it, the match ends instead of a
// new turn starting (spec §8 property 4).
func (e *Engine) advanceToNextPlayer() {
	active := e.table.ActivePlayerIDs()
	if len(active) == 0 {
		return
	}

	if cur := e.table.GetCurrentPlayer(); cur != nil {
		cur.Status = domain.StatusReady
	}

	currentIndex := 0
	if e.table.CurrentPlayerID != "" {
		for i, id := range active {
			if id == e.table.CurrentPlayerID {
				currentIndex = i
				break
			}
		}
	}
	nextIndex := (currentIndex + 1) % len(active)
	e.table.CurrentPlayerID = active[nextIndex]

	if e.table.RecallCallerID != "" && e.table.CurrentPlayerID == e.table.RecallCallerID {
		e.handleEndOfMatch()
		return
	}

	e.startTurnLocked()
}

// handleEndOfMatch collects active-player results, resolves the winner
// (spec §4.6), applies the verdict, and broadcasts the final state.
func (e *Engine) handleEndOfMatch() {
	results := make(map[string]domain.PlayerResult)
	for _, pid := range e.table.PlayerOrder {
		p := e.table.Players[pid]
		if p == nil || !p.IsActive() {
			continue
		}
		results[pid] = domain.PlayerResult{
			PlayerID:    pid,
			Name:        p.Name,
			CardCount:   p.CardCount(),
			TotalPoints: p.CalculatePoints(),
		}
	}

	verdict := domain.ResolveWinner(results, e.table.RecallCallerID)
	domain.ApplyVerdict(e.table, verdict)
	e.notifier.BroadcastState(e.table)
}
