package domain

import "encoding/json"

// PlayerKind distinguishes a human-controlled seat from a stub computer player.
type PlayerKind int

const (
	Human PlayerKind = iota
	Computer
)

func (k PlayerKind) String() string {
	if k == Computer {
		return "computer"
	}
	return "human"
}

// ParsePlayerKind parses the canonical string form of a player kind.
func ParsePlayerKind(s string) (PlayerKind, bool) {
	switch s {
	case "human":
		return Human, true
	case "computer":
		return Computer, true
	default:
		return 0, false
	}
}

// PlayerStatus is a tagged enum tracking what a player is currently doing or
// expected to do. See spec §3.
type PlayerStatus int

const (
	StatusWaiting PlayerStatus = iota
	StatusReady
	StatusPlaying
	StatusSameRankWindow
	StatusPlayingCard
	StatusDrawingCard
	StatusQueenPeek
	StatusJackSwap
	StatusPeeking
	StatusInitialPeek
	StatusFinished
	StatusDisconnected
	StatusWinner
)

var statusStrings = map[PlayerStatus]string{
	StatusWaiting:        "waiting",
	StatusReady:          "ready",
	StatusPlaying:        "playing",
	StatusSameRankWindow: "same_rank_window",
	StatusPlayingCard:    "playing_card",
	StatusDrawingCard:    "drawing_card",
	StatusQueenPeek:      "queen_peek",
	StatusJackSwap:       "jack_swap",
	StatusPeeking:        "peeking",
	StatusInitialPeek:    "initial_peek",
	StatusFinished:       "finished",
	StatusDisconnected:   "disconnected",
	StatusWinner:         "winner",
}

var statusFromString = func() map[string]PlayerStatus {
	m := make(map[string]PlayerStatus, len(statusStrings))
	for st, s := range statusStrings {
		m[s] = st
	}
	return m
}()

func (s PlayerStatus) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "waiting"
}

// ParsePlayerStatus parses the canonical string form of a player status.
func ParsePlayerStatus(s string) (PlayerStatus, bool) {
	st, ok := statusFromString[s]
	return st, ok
}

// Player holds one participant's hand and turn-local state. The hand is a
// fixed-position sequence of optional slots: a nil slot is a hole left by a
// played card, and positional identity matters for the drawn-card
// repositioning rule (spec §4.4 play_card, §8 property 2).
type Player struct {
	ID     string
	Name   string
	Kind   PlayerKind
	Hand   []*Card
	Visible []*Card // cards this player has been shown (e.g. initial peek)

	Status         PlayerStatus
	HasCalledRecall bool

	DrawnCard   *Card
	CardsToPeek []*Card

	Active bool
}

const initialHandSlots = 4

// NewPlayer constructs a player with the initial 4 empty hand slots.
func NewPlayer(id, name string, kind PlayerKind) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Kind:   kind,
		Hand:   make([]*Card, initialHandSlots),
		Status: StatusWaiting,
		Active: true,
	}
}

// AddCardToHand fills the first empty slot, or appends a new slot if none
// is free.
func (p *Player) AddCardToHand(c *Card) {
	for i, slot := range p.Hand {
		if slot == nil {
			p.Hand[i] = c
			return
		}
	}
	p.Hand = append(p.Hand, c)
}

// RemoveCardFromHand empties the slot holding cardID, preserving the
// positions of every other slot, and returns the removed card. Returns nil
// if the card isn't in the hand.
func (p *Player) RemoveCardFromHand(cardID string) *Card {
	for i, slot := range p.Hand {
		if slot != nil && slot.ID == cardID {
			p.Hand[i] = nil
			return slot
		}
	}
	return nil
}

// FindCardInHand returns the card and its slot index, or (nil, -1).
func (p *Player) FindCardInHand(cardID string) (*Card, int) {
	for i, slot := range p.Hand {
		if slot != nil && slot.ID == cardID {
			return slot, i
		}
	}
	return nil, -1
}

// CalculatePoints sums the point values of all non-empty hand slots.
func (p *Player) CalculatePoints() int {
	total := 0
	for _, slot := range p.Hand {
		if slot != nil {
			total += slot.Points
		}
	}
	return total
}

// CardCount returns the number of non-empty hand slots.
func (p *Player) CardCount() int {
	n := 0
	for _, slot := range p.Hand {
		if slot != nil {
			n++
		}
	}
	return n
}

// SetDrawnCard installs the single drawn-card register.
func (p *Player) SetDrawnCard(c *Card) { p.DrawnCard = c }

// GetDrawnCard returns the currently held drawn card, or nil.
func (p *Player) GetDrawnCard() *Card { return p.DrawnCard }

// ClearDrawnCard empties the drawn-card register.
func (p *Player) ClearDrawnCard() { p.DrawnCard = nil }

// AddCardToPeek appends a card to the peek buffer.
func (p *Player) AddCardToPeek(c *Card) { p.CardsToPeek = append(p.CardsToPeek, c) }

// ClearCardsToPeek empties the peek buffer.
func (p *Player) ClearCardsToPeek() { p.CardsToPeek = nil }

// IsActive reports whether the player counts toward turn order and
// end-of-match scoring: active flag set, and not finished/disconnected.
func (p *Player) IsActive() bool {
	return p.Active && p.Status != StatusFinished && p.Status != StatusDisconnected
}

type playerDTO struct {
	PlayerID        string            `json:"player_id"`
	Name            string            `json:"name"`
	PlayerType      string            `json:"player_type"`
	Hand            []json.RawMessage `json:"hand"`
	VisibleCards    []*Card           `json:"visible_cards"`
	Status          string            `json:"status"`
	HasCalledRecall bool              `json:"has_called_recall"`
	DrawnCard       *Card             `json:"drawn_card"`
	CardsToPeek     []*Card           `json:"cards_to_peek"`
	IsActive        bool              `json:"is_active"`
}

// MarshalJSON renders the player in the canonical persisted shape (to_dict).
// Empty hand slots serialize as JSON null, preserving position on round-trip.
func (p *Player) MarshalJSON() ([]byte, error) {
	hand := make([]json.RawMessage, len(p.Hand))
	for i, slot := range p.Hand {
		if slot == nil {
			hand[i] = json.RawMessage("null")
			continue
		}
		raw, err := json.Marshal(slot)
		if err != nil {
			return nil, err
		}
		hand[i] = raw
	}
	return json.Marshal(playerDTO{
		PlayerID:        p.ID,
		Name:            p.Name,
		PlayerType:      p.Kind.String(),
		Hand:            hand,
		VisibleCards:    nonNilCards(p.Visible),
		Status:          p.Status.String(),
		HasCalledRecall: p.HasCalledRecall,
		DrawnCard:       p.DrawnCard,
		CardsToPeek:     nonNilCards(p.CardsToPeek),
		IsActive:        p.Active,
	})
}

// UnmarshalJSON restores a player from its canonical persisted shape (from_dict).
func (p *Player) UnmarshalJSON(data []byte) error {
	var dto playerDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	hand := make([]*Card, len(dto.Hand))
	for i, raw := range dto.Hand {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var c Card
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		hand[i] = &c
	}
	kind, ok := ParsePlayerKind(dto.PlayerType)
	if !ok {
		kind = Human
	}
	status, ok := ParsePlayerStatus(dto.Status)
	if !ok {
		status = StatusWaiting
	}
	p.ID = dto.PlayerID
	p.Name = dto.Name
	p.Kind = kind
	p.Hand = hand
	p.Visible = dto.VisibleCards
	p.Status = status
	p.HasCalledRecall = dto.HasCalledRecall
	p.DrawnCard = dto.DrawnCard
	p.CardsToPeek = dto.CardsToPeek
	p.Active = dto.IsActive
	return nil
}

func nonNilCards(cards []*Card) []*Card {
	if cards == nil {
		return []*Card{}
	}
	return cards
}
