package engine

import "recall/internal/domain"

func (e *Engine) sameRankTimerID() string { return "same_rank:" + e.table.GameID }
func (e *Engine) specialTimerID() string  { return "special_card:" + e.table.GameID }

// openSameRankWindow is invoked by play_card and a successful
// same_rank_play (spec §4.4, §4.5 "Same-rank window"). It arms the
// configured window duration; the timer callback re-enters the engine
// through the same serialized entry point (spec §5).
func (e *Engine) openSameRankWindow() {
	e.table.Phase = domain.SameRankWindow
	e.table.UpdateAllPlayersStatus(domain.StatusSameRankWindow, true)
	e.notifier.BroadcastState(e.table)

	deadline := e.clock().Add(e.cfg.SameRankWindow)
	e.scheduler.Arm(e.sameRankTimerID(), deadline, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.table.Phase != domain.SameRankWindow {
			return // already closed by another path; late expiry is a no-op
		}
		e.closeSameRankWindow()
	})
}

// CloseSameRankWindowNow closes the window immediately (an "explicit
// closure", spec §4.5) instead of waiting for the timer. Exported so a
// transport adapter or test can force the transition.
func (e *Engine) CloseSameRankWindowNow() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.table.Phase != domain.SameRankWindow {
		return
	}
	e.scheduler.Cancel(e.sameRankTimerID())
	e.closeSameRankWindow()
}

func (e *Engine) closeSameRankWindow() {
	e.table.UpdateAllPlayersStatus(domain.StatusWaiting, true)

	for _, pid := range e.table.ActivePlayerIDs() {
		p := e.table.Players[pid]
		if p != nil && p.CardCount() == 0 {
			e.handleEndOfMatch()
			return
		}
	}

	e.sameRank = nil
	e.notifier.BroadcastState(e.table)
	e.handleSpecialCardsWindow()
}

// handleSpecialCardsWindow enters special_play_window if any Jack/Queen
// plays were queued this turn, otherwise skips straight to ending_round
// (spec §4.5 "Special-play window").
func (e *Engine) handleSpecialCardsWindow() {
	if len(e.specialCardQueue) == 0 {
		e.table.Phase = domain.EndingRound
		e.continueTurn(0)
		return
	}

	e.table.Phase = domain.SpecialPlayWindow
	e.specialCardWork = append([]SpecialCardEntry(nil), e.specialCardQueue...)
	e.processNextSpecialCard()
}

// processNextSpecialCard sets up the head of the special-card working
// queue, or ends the window if the queue is empty. Unknown powers are
// dropped without side effect (spec §4.5).
func (e *Engine) processNextSpecialCard() {
	if len(e.specialCardWork) == 0 {
		e.endSpecialCardsWindow()
		return
	}

	head := e.specialCardWork[0]
	p := e.table.Players[head.PlayerID]
	if p == nil {
		e.specialCardWork = e.specialCardWork[1:]
		e.processNextSpecialCard()
		return
	}

	switch head.SpecialPower {
	case "switch_cards":
		p.Status = domain.StatusJackSwap
	case "peek_at_card":
		p.Status = domain.StatusQueenPeek
	default:
		e.specialCardWork = e.specialCardWork[1:]
		e.processNextSpecialCard()
		return
	}

	deadline := e.clock().Add(e.cfg.SpecialCardWindow)
	e.scheduler.Arm(e.specialTimerID(), deadline, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.onSpecialCardTimerExpired(head.PlayerID)
	})
}

// onSpecialCardTimerExpired reverts the head entry's player to waiting and
// advances the queue, whether or not the action was performed — matching
// the source's "when performed or on timer expiry" discipline. playerID
// guards against a late expiry racing a completeSpecialCard call for a
// different head (the timer is identified by table, not by entry).
func (e *Engine) onSpecialCardTimerExpired(playerID string) {
	if len(e.specialCardWork) == 0 || e.specialCardWork[0].PlayerID != playerID {
		return
	}
	e.popSpecialCardHead(domain.StatusWaiting)
}

// completeSpecialCard is called by the jack_swap handler once the player
// has performed the swap, cancelling the pending timer and advancing the
// queue immediately. queen_peek does not call it; its entry advances on
// timer expiry.
func (e *Engine) completeSpecialCard(playerID string, statusAfter domain.PlayerStatus) {
	if len(e.specialCardWork) == 0 || e.specialCardWork[0].PlayerID != playerID {
		return
	}
	e.scheduler.Cancel(e.specialTimerID())
	e.popSpecialCardHead(statusAfter)
}

func (e *Engine) popSpecialCardHead(statusAfter domain.PlayerStatus) {
	head := e.specialCardWork[0]
	if p := e.table.Players[head.PlayerID]; p != nil {
		p.Status = statusAfter
	}
	e.specialCardWork = e.specialCardWork[1:]
	e.processNextSpecialCard()
}

func (e *Engine) endSpecialCardsWindow() {
	e.scheduler.Cancel(e.specialTimerID())
	e.specialCardQueue = nil
	e.specialCardWork = nil
	e.table.Phase = domain.TurnPendingEvents
	e.continueTurn(0)
}
