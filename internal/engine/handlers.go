package engine

import (
	"strings"

	"recall/internal/domain"
)

// handleDrawFromDeck implements spec §4.4 draw_from_deck.
func handleDrawFromDeck(e *Engine, playerID string, req *ActionRequest) error {
	if req.Source != "deck" && req.Source != "discard" {
		return ErrMissingField
	}
	p := e.table.Players[playerID]
	if p == nil {
		return ErrUnknownPlayer
	}

	var drawn *domain.Card
	if req.Source == "deck" {
		drawn = e.table.DrawFromDrawPile()
	} else {
		drawn = e.table.DrawFromDiscardPile()
	}
	if drawn == nil {
		return ErrPileEmpty
	}

	drawn.OwnerID = playerID
	p.AddCardToHand(drawn)
	p.SetDrawnCard(drawn)
	p.Status = domain.StatusPlayingCard
	return nil
}

// handlePlayCard implements spec §4.4 play_card, including the drawn-card
// repositioning rule (spec §8 property 2) and special-card classification.
func handlePlayCard(e *Engine, playerID string, req *ActionRequest) error {
	if req.CardID == "" {
		return ErrMissingField
	}
	p := e.table.Players[playerID]
	if p == nil {
		return ErrUnknownPlayer
	}

	card, playedIdx := p.FindCardInHand(req.CardID)
	if card == nil {
		return ErrCardsNotInHand
	}

	drawn := p.GetDrawnCard()
	drawnIdx := -1
	if drawn != nil && drawn.ID != req.CardID {
		_, drawnIdx = p.FindCardInHand(drawn.ID)
	}

	removed := p.RemoveCardFromHand(req.CardID)
	if removed == nil {
		return ErrInternal
	}
	removed.OwnerID = ""
	e.table.AddToDiscardPile(removed)
	e.table.LastPlayedCard = removed

	if drawn != nil {
		if drawn.ID != req.CardID && drawnIdx >= 0 {
			p.Hand[drawnIdx] = nil
			p.Hand[playedIdx] = drawn
		}
		p.ClearDrawnCard()
	}

	e.classifySpecialCard(playerID, removed)
	e.logAction("card_played", map[string]any{"player_id": playerID, "card_id": removed.ID, "rank": removed.Rank.String()})
	e.openSameRankWindow()
	return nil
}

// handleSameRankPlay implements spec §4.4 same_rank_play, including the
// penalty draw on a rank mismatch (spec §8 property 5).
func handleSameRankPlay(e *Engine, playerID string, req *ActionRequest) error {
	if req.CardID == "" {
		return ErrMissingField
	}
	p := e.table.Players[playerID]
	if p == nil {
		return ErrUnknownPlayer
	}

	card, _ := p.FindCardInHand(req.CardID)
	if card == nil {
		return ErrCardsNotInHand
	}

	if !e.validSameRankPlay(card.Rank) {
		e.applySameRankPenalty(p)
		return ErrSameRankMismatch
	}

	removed := p.RemoveCardFromHand(req.CardID)
	removed.OwnerID = ""
	e.table.AddToDiscardPile(removed)
	e.table.LastPlayedCard = removed

	e.classifySpecialCard(playerID, removed)
	e.sameRank = append(e.sameRank, SameRankEntry{
		PlayerID:  playerID,
		CardID:    removed.ID,
		Rank:      removed.Rank,
		PlayOrder: len(e.sameRank) + 1,
	})
	e.openSameRankWindow()
	return nil
}

// validSameRankPlay mirrors game_round_actions.rs::_validate_same_rank_play:
// the seed case (exactly one card on the discard pile) accepts
// unconditionally; otherwise the offered rank must match the top card's
// rank (case-insensitive compare of canonical string forms).
func (e *Engine) validSameRankPlay(rank domain.Rank) bool {
	if e.table.IsDiscardPileEmpty() {
		return false
	}
	if e.table.DiscardPileCount() == 1 {
		return true
	}
	top := e.table.TopDiscardCard()
	return strings.EqualFold(rank.String(), top.Rank.String())
}

// applySameRankPenalty draws one card from the draw pile into the actor's
// hand; a no-op if the draw pile is empty (spec §4.4, §7 "Exhaustion").
func (e *Engine) applySameRankPenalty(p *domain.Player) {
	drawn := false
	if card := e.table.DrawFromDrawPile(); card != nil {
		card.OwnerID = p.ID
		p.AddCardToHand(card)
		drawn = true
	}
	p.Status = domain.StatusWaiting
	e.notifier.SendToPlayer(p.ID, EventSameRankPenalty, SameRankPenaltyPayload{PenaltyCardDrawn: drawn})
}

// classifySpecialCard records a special-card queue entry for a played
// Jack or Queen (spec §4.4 "classify").
func (e *Engine) classifySpecialCard(playerID string, c *domain.Card) {
	if !c.HasSpecialPower() {
		return
	}
	e.specialCardQueue = append(e.specialCardQueue, SpecialCardEntry{
		PlayerID:     playerID,
		CardID:       c.ID,
		Rank:         c.Rank,
		SpecialPower: c.SpecialPower,
	})
}

// handleJackSwap implements spec §4.4 jack_swap. A jack_swap is only
// accepted from the player currently at the head of the special-play
// queue with a jack_swap entry.
func handleJackSwap(e *Engine, playerID string, req *ActionRequest) error {
	if req.FirstCardID == "" || req.FirstPlayerID == "" || req.SecondCardID == "" || req.SecondPlayerID == "" {
		return ErrMissingField
	}
	if !e.isHeadOfSpecialQueue(playerID) || e.specialCardWork[0].SpecialPower != "switch_cards" {
		return ErrNotYourTurn
	}

	first := e.table.Players[req.FirstPlayerID]
	second := e.table.Players[req.SecondPlayerID]
	if first == nil || second == nil {
		return ErrUnknownPlayer
	}

	firstCard, firstIdx := first.FindCardInHand(req.FirstCardID)
	secondCard, secondIdx := second.FindCardInHand(req.SecondCardID)
	if firstCard == nil || secondCard == nil {
		return ErrCardsNotInHand
	}

	first.Hand[firstIdx] = secondCard
	second.Hand[secondIdx] = firstCard
	secondCard.OwnerID = req.FirstPlayerID
	firstCard.OwnerID = req.SecondPlayerID

	e.completeSpecialCard(playerID, domain.StatusWaiting)
	return nil
}

// handleQueenPeek implements spec §4.4 queen_peek. Unlike jack_swap, the
// queue is not advanced immediately on success — the actor's status stays
// peeking until the per-card timer expires (spec §8 scenario S4).
func handleQueenPeek(e *Engine, playerID string, req *ActionRequest) error {
	if req.CardID == "" || req.OwnerID == "" {
		return ErrMissingField
	}
	if !e.isHeadOfSpecialQueue(playerID) {
		return ErrNotYourTurn
	}

	target := e.table.Players[req.OwnerID]
	if target == nil {
		return ErrUnknownPlayer
	}
	targetCard, _ := target.FindCardInHand(req.CardID)
	if targetCard == nil {
		return ErrCardsNotInHand
	}

	actor := e.table.Players[playerID]
	if actor == nil {
		return ErrUnknownPlayer
	}
	actor.ClearCardsToPeek()
	actor.AddCardToPeek(targetCard)
	actor.Status = domain.StatusPeeking

	e.notifier.SendToPlayer(playerID, EventQueenPeekResult, QueenPeekResultPayload{CardID: targetCard.ID})
	return nil
}

func (e *Engine) isHeadOfSpecialQueue(playerID string) bool {
	return e.table.Phase == domain.SpecialPlayWindow &&
		len(e.specialCardWork) > 0 &&
		e.specialCardWork[0].PlayerID == playerID
}

// handleDiscardCard, handleTakeFromDiscard: reserved handlers, kept as the
// source's stubs (spec §9 open question (b)) — both validate the actor, and
// take_from_discard also rejects an empty discard pile; neither performs
// any further mutation.
func handleDiscardCard(e *Engine, playerID string, req *ActionRequest) error {
	if e.table.Players[playerID] == nil {
		return ErrUnknownPlayer
	}
	return nil
}

func handleTakeFromDiscard(e *Engine, playerID string, req *ActionRequest) error {
	if e.table.Players[playerID] == nil {
		return ErrUnknownPlayer
	}
	if e.table.IsDiscardPileEmpty() {
		return ErrPileEmpty
	}
	return nil
}

// handleCallRecall implements the supplemented call_recall semantics
// (spec §9 open question (b)): the first caller's id is recorded as the
// recall caller; a second call from any player is a no-op success.
func handleCallRecall(e *Engine, playerID string, req *ActionRequest) error {
	if e.table.Players[playerID] == nil {
		return ErrUnknownPlayer
	}
	if e.table.RecallCallerID == "" {
		e.table.RecallCallerID = playerID
		if p := e.table.Players[playerID]; p != nil {
			p.HasCalledRecall = true
		}
	}
	return nil
}
