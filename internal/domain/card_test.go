package domain

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestRankPoints(t *testing.T) {
	cases := []struct {
		rank Rank
		want int
	}{
		{Joker, 0},
		{Ace, 1},
		{Two, 2},
		{Ten, 10},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
	}
	for _, c := range cases {
		if got := c.rank.Points(); got != c.want {
			t.Errorf("%s.Points() = %d, want %d", c.rank, got, c.want)
		}
	}
}

func TestRankSpecialPower(t *testing.T) {
	if got := Jack.SpecialPower(); got != "switch_cards" {
		t.Errorf("Jack.SpecialPower() = %q, want switch_cards", got)
	}
	if got := Queen.SpecialPower(); got != "peek_at_card" {
		t.Errorf("Queen.SpecialPower() = %q, want peek_at_card", got)
	}
	if got := King.SpecialPower(); got != "" {
		t.Errorf("King.SpecialPower() = %q, want empty", got)
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	c := NewCard(Queen, Spades)
	c.Visible = true
	c.OwnerID = "player-1"

	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Card
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.ID != c.ID || got.Rank != c.Rank || got.Suit != c.Suit ||
		got.Points != c.Points || got.SpecialPower != c.SpecialPower ||
		got.Visible != c.Visible || got.OwnerID != c.OwnerID {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, c)
	}
}

func TestCardUnmarshalUnknownRank(t *testing.T) {
	var c Card
	err := json.Unmarshal([]byte(`{"card_id":"x","rank":"bogus","suit":"hearts"}`), &c)
	if err == nil {
		t.Fatal("expected error for unknown rank")
	}
}

func TestNewDeckSizeAndUniqueIDs(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(1)))
	if len(deck) != 54 {
		t.Fatalf("len(deck) = %d, want 54", len(deck))
	}
	seen := make(map[string]bool, len(deck))
	for _, c := range deck {
		if seen[c.ID] {
			t.Fatalf("duplicate card id %s", c.ID)
		}
		seen[c.ID] = true
	}
	jokers := 0
	for _, c := range deck {
		if c.Rank == Joker {
			jokers++
		}
	}
	if jokers != 2 {
		t.Errorf("jokers = %d, want 2", jokers)
	}
}
