package domain

import "testing"

func TestResolveWinnerEmptyHand(t *testing.T) {
	results := map[string]PlayerResult{
		"a": {PlayerID: "a", Name: "Ann", CardCount: 0, TotalPoints: 4},
		"b": {PlayerID: "b", Name: "Bo", CardCount: 3, TotalPoints: 2},
	}
	v := ResolveWinner(results, "")
	if v.IsTie || v.WinnerID != "a" || v.Reason != ReasonNoCards {
		t.Fatalf("ResolveWinner = %+v", v)
	}
}

func TestResolveWinnerUniqueMinimum(t *testing.T) {
	results := map[string]PlayerResult{
		"a": {PlayerID: "a", Name: "Ann", CardCount: 2, TotalPoints: 6},
		"b": {PlayerID: "b", Name: "Bo", CardCount: 3, TotalPoints: 9},
	}
	v := ResolveWinner(results, "")
	if v.IsTie || v.WinnerID != "a" || v.Reason != ReasonLowestPoints {
		t.Fatalf("ResolveWinner = %+v", v)
	}
}

func TestResolveWinnerRecallCallerTiebreak(t *testing.T) {
	// spec S6: A (recall caller) 6, B 6, C 10.
	results := map[string]PlayerResult{
		"a": {PlayerID: "a", Name: "Ann", CardCount: 2, TotalPoints: 6},
		"b": {PlayerID: "b", Name: "Bo", CardCount: 2, TotalPoints: 6},
		"c": {PlayerID: "c", Name: "Cy", CardCount: 2, TotalPoints: 10},
	}
	v := ResolveWinner(results, "a")
	if v.IsTie || v.WinnerID != "a" || v.Reason != ReasonRecallCallerLowestPoints {
		t.Fatalf("ResolveWinner = %+v", v)
	}
}

func TestResolveWinnerTie(t *testing.T) {
	results := map[string]PlayerResult{
		"a": {PlayerID: "a", Name: "Ann", CardCount: 2, TotalPoints: 6},
		"b": {PlayerID: "b", Name: "Bo", CardCount: 2, TotalPoints: 6},
	}
	v := ResolveWinner(results, "")
	if !v.IsTie || v.Reason != ReasonTieLowestPoints || len(v.Winners) != 2 {
		t.Fatalf("ResolveWinner = %+v", v)
	}
}

func TestResolveWinnerDeterministic(t *testing.T) {
	results := map[string]PlayerResult{
		"a": {PlayerID: "a", Name: "Ann", CardCount: 2, TotalPoints: 6},
		"b": {PlayerID: "b", Name: "Bo", CardCount: 2, TotalPoints: 6},
		"c": {PlayerID: "c", Name: "Cy", CardCount: 1, TotalPoints: 3},
	}
	first := ResolveWinner(results, "b")
	for i := 0; i < 10; i++ {
		got := ResolveWinner(results, "b")
		if got.IsTie != first.IsTie || got.WinnerID != first.WinnerID || got.Reason != first.Reason {
			t.Fatalf("ResolveWinner not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestApplyVerdictNonTie(t *testing.T) {
	tb := newTestTable()
	tb.AddPlayer(NewPlayer("a", "Ann", Human), "")
	tb.AddPlayer(NewPlayer("b", "Bo", Human), "")
	ApplyVerdict(tb, Verdict{WinnerID: "a", WinnerName: "Ann", Reason: ReasonLowestPoints})

	if tb.Players["a"].Status != StatusWinner {
		t.Fatalf("winner status = %v", tb.Players["a"].Status)
	}
	if tb.Players["b"].Status != StatusFinished {
		t.Fatalf("loser status = %v", tb.Players["b"].Status)
	}
	if tb.Phase != GameEnded || !tb.GameEnded {
		t.Fatalf("phase = %v, ended = %v", tb.Phase, tb.GameEnded)
	}
}

func TestApplyVerdictTie(t *testing.T) {
	tb := newTestTable()
	tb.AddPlayer(NewPlayer("a", "Ann", Human), "")
	tb.AddPlayer(NewPlayer("b", "Bo", Human), "")
	ApplyVerdict(tb, Verdict{IsTie: true, Reason: ReasonTieLowestPoints, Winners: []string{"Ann", "Bo"}})

	if tb.Players["a"].Status != StatusFinished || tb.Players["b"].Status != StatusFinished {
		t.Fatal("both tied players should be finished")
	}
	if tb.Phase != GameEnded {
		t.Fatalf("phase = %v", tb.Phase)
	}
}
