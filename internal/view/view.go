// Package view implements the client-view dialect transform named in
// spec §6: camelCase keys, word-form ranks, and derived display helpers for
// front-ends embedding the engine.
package view

import (
	"encoding/json"
	"fmt"
	"strings"

	"recall/internal/domain"
)

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var rankWords = map[domain.Rank]string{
	domain.Joker: "joker",
	domain.Ace:   "ace",
	domain.Two:   "two",
	domain.Three: "three",
	domain.Four:  "four",
	domain.Five:  "five",
	domain.Six:   "six",
	domain.Seven: "seven",
	domain.Eight: "eight",
	domain.Nine:  "nine",
	domain.Ten:   "ten",
	domain.Jack:  "jack",
	domain.Queen: "queen",
	domain.King:  "king",
}

func rankWord(r domain.Rank) string {
	if w, ok := rankWords[r]; ok {
		return w
	}
	return r.String()
}

// SuitColor returns "red" for hearts/diamonds and "black" for clubs/spades.
func SuitColor(s domain.Suit) string {
	switch s {
	case domain.Hearts, domain.Diamonds:
		return "red"
	default:
		return "black"
	}
}

// Card is the client-view rendering of a domain.Card.
type Card struct {
	CardID       string `json:"cardId"`
	Rank         string `json:"rank"`
	Suit         string `json:"suit"`
	Points       int    `json:"points"`
	SpecialPower string `json:"specialPower,omitempty"`
	IsVisible    bool   `json:"isVisible"`
	OwnerID      string `json:"ownerId,omitempty"`
	DisplayName  string `json:"displayName"`
	Color        string `json:"color"`
}

// CardView renders a domain card in the client-view dialect. Returns nil
// for a nil input.
func CardView(c *domain.Card) *Card {
	if c == nil {
		return nil
	}
	rank := rankWord(c.Rank)
	suit := c.Suit.String()
	display := fmt.Sprintf("%s of %s", capitalize(rank), capitalize(suit))
	if c.Rank == domain.Joker {
		display = "Joker"
	}
	return &Card{
		CardID:       c.ID,
		Rank:         rank,
		Suit:         suit,
		Points:       c.Points,
		SpecialPower: c.SpecialPower,
		IsVisible:    c.Visible,
		OwnerID:      c.OwnerID,
		DisplayName:  display,
		Color:        SuitColor(c.Suit),
	}
}

func cardViews(cards []*domain.Card) []*Card {
	out := make([]*Card, 0, len(cards))
	for _, c := range cards {
		if c == nil {
			continue
		}
		out = append(out, CardView(c))
	}
	return out
}

// Player is the client-view rendering of a domain.Player.
type Player struct {
	PlayerID        string  `json:"playerId"`
	Name            string  `json:"name"`
	PlayerType      string  `json:"playerType"`
	Hand            []*Card `json:"hand"`
	VisibleCards    []*Card `json:"visibleCards"`
	Status          string  `json:"status"`
	HasCalledRecall bool    `json:"hasCalledRecall"`
	CardsToPeek     []*Card `json:"cardsToPeek"`
	IsActive        bool    `json:"isActive"`
}

// PlayerView renders a domain player in the client-view dialect. Empty
// hand slots are omitted rather than rendered as holes; a client-side
// index is not something the view dialect exposes.
func PlayerView(p *domain.Player) *Player {
	return &Player{
		PlayerID:        p.ID,
		Name:            p.Name,
		PlayerType:      p.Kind.String(),
		Hand:            cardViews(p.Hand),
		VisibleCards:    cardViews(p.Visible),
		Status:          p.Status.String(),
		HasCalledRecall: p.HasCalledRecall,
		CardsToPeek:     cardViews(p.CardsToPeek),
		IsActive:        p.Active,
	}
}

// Table is the client-view rendering of a domain.Table. drawPile carries
// only a count, never the ordered cards, matching spec §6's requirement
// that draw order never leak to clients.
type Table struct {
	GameID          string             `json:"gameId"`
	PlayerCount     int                `json:"playerCount"`
	Players         map[string]*Player `json:"players"`
	CurrentPlayer   string             `json:"currentPlayer,omitempty"`
	Phase           string             `json:"phase"`
	DrawPile        int                `json:"drawPile"`
	DiscardPile     []*Card            `json:"discardPile"`
	LastPlayedCard  *Card              `json:"lastPlayedCard,omitempty"`
	RecallCalledBy  string             `json:"recallCalledBy,omitempty"`
	GameEnded       bool               `json:"gameEnded"`
	Winner          string             `json:"winner,omitempty"`
}

// TableView renders a full table snapshot in the client-view dialect.
func TableView(t *domain.Table) *Table {
	players := make(map[string]*Player, len(t.Players))
	for id, p := range t.Players {
		players[id] = PlayerView(p)
	}
	return &Table{
		GameID:         t.GameID,
		PlayerCount:    len(t.Players),
		Players:        players,
		CurrentPlayer:  t.CurrentPlayerID,
		Phase:          t.Phase.String(),
		DrawPile:       t.DrawPileCount(),
		DiscardPile:    cardViews(t.DiscardPile),
		LastPlayedCard: CardView(t.LastPlayedCard),
		RecallCalledBy: t.RecallCallerID,
		GameEnded:      t.GameEnded,
		Winner:         t.WinnerID,
	}
}

// MarshalJSON is a convenience for handlers that want the client-view
// dialect directly as bytes.
func (t *Table) MarshalJSON() ([]byte, error) {
	type alias Table
	return json.Marshal((*alias)(t))
}
