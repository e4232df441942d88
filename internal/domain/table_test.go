package domain

import "testing"

func newTestTable() *Table {
	return NewTable("game-1", 4, 2, "public")
}

func TestAddPlayerRespectsMaxPlayers(t *testing.T) {
	tb := NewTable("g", 1, 1, "public")
	if !tb.AddPlayer(NewPlayer("p1", "A", Human), "") {
		t.Fatal("first player should be accepted")
	}
	if tb.AddPlayer(NewPlayer("p2", "B", Human), "") {
		t.Fatal("second player should be rejected when table is full")
	}
}

func TestSessionBiMap(t *testing.T) {
	tb := newTestTable()
	tb.AddPlayer(NewPlayer("p1", "A", Human), "sess-1")

	if s, ok := tb.GetPlayerSession("p1"); !ok || s != "sess-1" {
		t.Fatalf("GetPlayerSession = %q, %v", s, ok)
	}
	if pid, ok := tb.GetSessionPlayer("sess-1"); !ok || pid != "p1" {
		t.Fatalf("GetSessionPlayer = %q, %v", pid, ok)
	}

	if !tb.UpdatePlayerSession("p1", "sess-2") {
		t.Fatal("UpdatePlayerSession should succeed for a known player")
	}
	if _, ok := tb.GetSessionPlayer("sess-1"); ok {
		t.Fatal("old session binding should be gone after rejoin")
	}
	if pid, ok := tb.GetSessionPlayer("sess-2"); !ok || pid != "p1" {
		t.Fatal("new session binding missing after rejoin")
	}

	pid, ok := tb.RemoveSession("sess-2")
	if !ok || pid != "p1" {
		t.Fatalf("RemoveSession = %q, %v", pid, ok)
	}
	if _, stillPlayer := tb.Players["p1"]; !stillPlayer {
		t.Fatal("removing a session must not remove the player")
	}
}

func TestPileOperations(t *testing.T) {
	tb := newTestTable()
	if tb.DrawFromDrawPile() != nil {
		t.Fatal("expected nil draw from empty draw pile")
	}
	c1, c2 := NewCard(Ace, Hearts), NewCard(Two, Hearts)
	tb.AddToDrawPile(c1)
	tb.AddToDrawPile(c2)
	if got := tb.DrawFromDrawPile(); got != c2 {
		t.Fatal("expected top (last-added) card popped first")
	}
	if tb.DrawPileCount() != 1 {
		t.Fatalf("DrawPileCount = %d, want 1", tb.DrawPileCount())
	}

	tb.AddToDiscardPile(c1)
	if tb.TopDiscardCard() != c1 {
		t.Fatal("TopDiscardCard mismatch")
	}
	if tb.IsDiscardPileEmpty() {
		t.Fatal("discard pile should not be empty")
	}
	removed := tb.RemoveFromDiscardPile(c1.ID)
	if removed != c1 || !tb.IsDiscardPileEmpty() {
		t.Fatal("RemoveFromDiscardPile failed to empty the pile")
	}
}

func TestFindCardLocation(t *testing.T) {
	tb := newTestTable()
	p1 := NewPlayer("p1", "A", Human)
	c := NewCard(Jack, Clubs)
	p1.AddCardToHand(c)
	tb.AddPlayer(p1, "")

	loc := tb.FindCardLocation(c.ID)
	if loc == nil || loc.Type != LocationHand || loc.PlayerID != "p1" || loc.Index != 0 {
		t.Fatalf("FindCardLocation = %+v", loc)
	}

	deckCard := NewCard(Ten, Diamonds)
	tb.AddToDrawPile(deckCard)
	loc = tb.FindCardLocation(deckCard.ID)
	if loc == nil || loc.Type != LocationDrawPile {
		t.Fatalf("FindCardLocation (draw pile) = %+v", loc)
	}

	if tb.FindCardLocation("missing") != nil {
		t.Fatal("expected nil location for unknown card")
	}
}

func TestActivePlayerIDsPreservesJoinOrder(t *testing.T) {
	tb := newTestTable()
	tb.AddPlayer(NewPlayer("p1", "A", Human), "")
	tb.AddPlayer(NewPlayer("p2", "B", Human), "")
	tb.AddPlayer(NewPlayer("p3", "C", Human), "")
	tb.Players["p2"].Status = StatusFinished

	ids := tb.ActivePlayerIDs()
	want := []string{"p1", "p3"}
	if len(ids) != len(want) {
		t.Fatalf("ActivePlayerIDs = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ActivePlayerIDs = %v, want %v", ids, want)
		}
	}
}

func TestRemovePlayerClearsSession(t *testing.T) {
	tb := newTestTable()
	tb.AddPlayer(NewPlayer("p1", "A", Human), "sess-1")
	if !tb.RemovePlayer("p1") {
		t.Fatal("RemovePlayer should succeed for a known player")
	}
	if _, ok := tb.GetSessionPlayer("sess-1"); ok {
		t.Fatal("session mapping should be gone after RemovePlayer")
	}
	for _, id := range tb.PlayerOrder {
		if id == "p1" {
			t.Fatal("PlayerOrder should not retain a removed player")
		}
	}
}
