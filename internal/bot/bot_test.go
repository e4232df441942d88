package bot

import (
	"math/rand"
	"testing"

	"recall/internal/domain"
)

func newTestTable() *domain.Table {
	t := domain.NewTable("g1", 4, 2, "public")
	p := domain.NewPlayer("p1", "Bot", domain.Computer)
	t.AddPlayer(p, "sess1")
	return t
}

func TestSimpleBrainDrawsWhenEmptyHanded(t *testing.T) {
	table := newTestTable()
	table.DrawPile = domain.NewDeck(rand.New(rand.NewSource(1)))

	move := NewSimpleBrain().Decide(table, "p1")
	if move.Action != "draw_from_deck" {
		t.Fatalf("expected draw_from_deck, got %q", move.Action)
	}
}

func TestSimpleBrainDiscardsHighestPointCard(t *testing.T) {
	table := newTestTable()
	p := table.Players["p1"]

	low := domain.NewCard(domain.Ace, domain.Hearts)
	high := domain.NewCard(domain.King, domain.Spades)
	p.AddCardToHand(low)
	p.AddCardToHand(high)
	p.SetDrawnCard(high)

	move := NewSimpleBrain().Decide(table, "p1")
	if move.Action != "play_card" || move.CardID != high.ID {
		t.Fatalf("expected play_card %s, got %+v", high.ID, move)
	}
}

func TestSimpleBrainCallsRecallOnUnknownPlayer(t *testing.T) {
	table := newTestTable()
	move := NewSimpleBrain().Decide(table, "ghost")
	if move.Action != "call_recall" {
		t.Fatalf("expected call_recall fallback, got %q", move.Action)
	}
}
