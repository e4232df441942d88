package domain

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Rank is a card's face value.
type Rank int

const (
	Joker Rank = iota
	Ace
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

var rankStrings = map[Rank]string{
	Joker: "joker",
	Ace:   "ace",
	Two:   "2",
	Three: "3",
	Four:  "4",
	Five:  "5",
	Six:   "6",
	Seven: "7",
	Eight: "8",
	Nine:  "9",
	Ten:   "10",
	Jack:  "jack",
	Queen: "queen",
	King:  "king",
}

var rankFromString = func() map[string]Rank {
	m := make(map[string]Rank, len(rankStrings))
	for r, s := range rankStrings {
		m[s] = r
	}
	return m
}()

// String returns the canonical persisted form of the rank (e.g. "jack", "2").
func (r Rank) String() string {
	if s, ok := rankStrings[r]; ok {
		return s
	}
	return "ace"
}

// ParseRank parses the canonical string form of a rank.
func ParseRank(s string) (Rank, bool) {
	r, ok := rankFromString[s]
	return r, ok
}

// Points returns the point value for the rank (ace=1, 2..10=face, J/Q/K=10, joker=0).
func (r Rank) Points() int {
	switch r {
	case Joker:
		return 0
	case Ace:
		return 1
	case Jack, Queen, King:
		return 10
	default:
		// Two..Ten are laid out contiguously starting at Two with face value 2.
		return int(r-Two) + 2
	}
}

// SpecialPower returns the special-power tag for the rank, or "" if none.
func (r Rank) SpecialPower() string {
	switch r {
	case Jack:
		return "switch_cards"
	case Queen:
		return "peek_at_card"
	default:
		return ""
	}
}

// Suit is a card's suit.
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

var suitStrings = map[Suit]string{
	Hearts:   "hearts",
	Diamonds: "diamonds",
	Clubs:    "clubs",
	Spades:   "spades",
}

var suitFromString = func() map[string]Suit {
	m := make(map[string]Suit, len(suitStrings))
	for s, str := range suitStrings {
		m[str] = s
	}
	return m
}()

// String returns the canonical persisted form of the suit.
func (s Suit) String() string {
	if str, ok := suitStrings[s]; ok {
		return str
	}
	return "hearts"
}

// ParseSuit parses the canonical string form of a suit.
func ParseSuit(s string) (Suit, bool) {
	suit, ok := suitFromString[s]
	return suit, ok
}

// Card is an immutable-identity playing card. Its id is stable for the life
// of the match; only its location (hand slot, pile, peek buffer) changes.
type Card struct {
	ID           string
	Rank         Rank
	Suit         Suit
	Points       int
	SpecialPower string // "" if the card has none
	Visible      bool
	OwnerID      string // "" if unowned
}

// NewCard constructs a card with a fresh stable id and the rank's canonical
// point value and special-power tag.
func NewCard(rank Rank, suit Suit) *Card {
	return &Card{
		ID:           uuid.NewString(),
		Rank:         rank,
		Suit:         suit,
		Points:       rank.Points(),
		SpecialPower: rank.SpecialPower(),
	}
}

// HasSpecialPower reports whether the card carries a special power.
func (c *Card) HasSpecialPower() bool {
	return c.SpecialPower != ""
}

type cardDTO struct {
	CardID       string `json:"card_id"`
	Rank         string `json:"rank"`
	Suit         string `json:"suit"`
	Points       int    `json:"points"`
	SpecialPower string `json:"special_power,omitempty"`
	IsVisible    bool   `json:"is_visible"`
	OwnerID      string `json:"owner_id,omitempty"`
}

// MarshalJSON renders the card in the canonical persisted shape (to_dict).
func (c *Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardDTO{
		CardID:       c.ID,
		Rank:         c.Rank.String(),
		Suit:         c.Suit.String(),
		Points:       c.Points,
		SpecialPower: c.SpecialPower,
		IsVisible:    c.Visible,
		OwnerID:      c.OwnerID,
	})
}

// UnmarshalJSON restores a card from its canonical persisted shape (from_dict).
func (c *Card) UnmarshalJSON(data []byte) error {
	var dto cardDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	rank, ok := ParseRank(dto.Rank)
	if !ok {
		return fmt.Errorf("domain: unknown card rank %q", dto.Rank)
	}
	suit, ok := ParseSuit(dto.Suit)
	if !ok {
		return fmt.Errorf("domain: unknown card suit %q", dto.Suit)
	}
	c.ID = dto.CardID
	c.Rank = rank
	c.Suit = suit
	c.Points = dto.Points
	c.SpecialPower = dto.SpecialPower
	c.Visible = dto.IsVisible
	c.OwnerID = dto.OwnerID
	return nil
}

// NewDeck builds one card per rank x suit across the four suits, plus two
// jokers on nominal suits, and shuffles the result with the injected
// randomness source. Deck shuffling randomness is an external capability
// (spec §1); the caller owns the *rand.Rand.
func NewDeck(rng *rand.Rand) []*Card {
	ranks := []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}
	suits := []Suit{Hearts, Diamonds, Clubs, Spades}

	deck := make([]*Card, 0, len(ranks)*len(suits)+2)
	for _, suit := range suits {
		for _, rank := range ranks {
			deck = append(deck, NewCard(rank, suit))
		}
	}
	// Two jokers on nominal suits; suit is not meaningful for a joker.
	deck = append(deck, NewCard(Joker, Hearts), NewCard(Joker, Spades))

	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}
