package domain

import (
	"encoding/json"
	"fmt"
)

// LocationType tags where a card currently lives, as returned by
// FindCardLocation.
type LocationType string

const (
	LocationHand        LocationType = "player_hand"
	LocationDrawPile     LocationType = "draw_pile"
	LocationDiscardPile  LocationType = "discard_pile"
	LocationPendingDraw  LocationType = "pending_draw"
)

// CardLocation is the result of a FindCardLocation search.
type CardLocation struct {
	Card     *Card
	Type     LocationType
	PlayerID string // set only for LocationHand / LocationPendingDraw
	Index    int    // set only for LocationHand / LocationDrawPile / LocationDiscardPile; -1 if not applicable
}

// Table is the authoritative state for one match: piles, the player
// registry, current-player pointer, phase, and the session bi-map. The
// Table exclusively owns all Cards and Players (spec §3 "Ownership").
type Table struct {
	GameID     string
	MaxPlayers int
	MinPlayers int
	Visibility string // "public" or "private"

	Players     map[string]*Player
	PlayerOrder []string // join order, for insertion-ordered active-player iteration

	CurrentPlayerID string
	Phase           Phase
	PreviousPhase   Phase

	DrawPile     []*Card
	DiscardPile  []*Card
	PendingDraws map[string]*Card // reserved; never populated (spec §9(c))

	RecallCallerID string
	LastPlayedCard *Card

	LastActionTime int64
	GameStarted    bool
	GameEnded      bool
	WinnerID       string

	// Session bi-map for targeted messaging (spec §4.3).
	PlayerSessions map[string]string // player_id -> session_id
	SessionPlayers map[string]string // session_id -> player_id

	// Change tracking is a non-authoritative dirty-field hint for the
	// Notifier; it must never affect correctness (spec §9).
	ChangeTrackingEnabled bool
	PendingChanges        map[string]struct{}
}

// NewTable constructs an empty table in waiting_for_players.
func NewTable(gameID string, maxPlayers, minPlayers int, visibility string) *Table {
	return &Table{
		GameID:                gameID,
		MaxPlayers:            maxPlayers,
		MinPlayers:            minPlayers,
		Visibility:            visibility,
		Players:               make(map[string]*Player),
		Phase:                 WaitingForPlayers,
		PendingDraws:          make(map[string]*Card),
		PlayerSessions:        make(map[string]string),
		SessionPlayers:        make(map[string]string),
		ChangeTrackingEnabled: true,
		PendingChanges:        make(map[string]struct{}),
	}
}

// AddPlayer registers a player (optionally with a session id) if there is
// room. Returns false if the table is already full.
func (t *Table) AddPlayer(p *Player, sessionID string) bool {
	if len(t.Players) >= t.MaxPlayers {
		return false
	}
	t.Players[p.ID] = p
	t.PlayerOrder = append(t.PlayerOrder, p.ID)
	if sessionID != "" {
		t.PlayerSessions[p.ID] = sessionID
		t.SessionPlayers[sessionID] = p.ID
	}
	return true
}

// RemovePlayer removes a player and its session mapping, if any. Returns
// false if the player wasn't present.
func (t *Table) RemovePlayer(playerID string) bool {
	if _, ok := t.Players[playerID]; !ok {
		return false
	}
	delete(t.Players, playerID)
	for i, id := range t.PlayerOrder {
		if id == playerID {
			t.PlayerOrder = append(t.PlayerOrder[:i], t.PlayerOrder[i+1:]...)
			break
		}
	}
	if sessionID, ok := t.PlayerSessions[playerID]; ok {
		delete(t.PlayerSessions, playerID)
		delete(t.SessionPlayers, sessionID)
	}
	return true
}

// GetPlayerSession returns the session id bound to a player, if any.
func (t *Table) GetPlayerSession(playerID string) (string, bool) {
	s, ok := t.PlayerSessions[playerID]
	return s, ok
}

// GetSessionPlayer returns the player id bound to a session, if any.
func (t *Table) GetSessionPlayer(sessionID string) (string, bool) {
	p, ok := t.SessionPlayers[sessionID]
	return p, ok
}

// UpdatePlayerSession installs or replaces the session binding for a
// player atomically — the old binding (if any) is fully removed first.
// Returns false if the player is unknown.
func (t *Table) UpdatePlayerSession(playerID, sessionID string) bool {
	if _, ok := t.Players[playerID]; !ok {
		return false
	}
	if oldSession, ok := t.PlayerSessions[playerID]; ok {
		delete(t.SessionPlayers, oldSession)
	}
	t.PlayerSessions[playerID] = sessionID
	t.SessionPlayers[sessionID] = playerID
	return true
}

// RemoveSession removes a session binding and returns the player id it
// was bound to, without removing the player itself.
func (t *Table) RemoveSession(sessionID string) (string, bool) {
	playerID, ok := t.SessionPlayers[sessionID]
	if !ok {
		return "", false
	}
	delete(t.SessionPlayers, sessionID)
	delete(t.PlayerSessions, playerID)
	return playerID, true
}

// ---- discard pile ----

func (t *Table) AddToDiscardPile(c *Card) {
	t.DiscardPile = append(t.DiscardPile, c)
	t.trackChange("discard_pile")
}

func (t *Table) RemoveFromDiscardPile(cardID string) *Card {
	for i, c := range t.DiscardPile {
		if c.ID == cardID {
			t.DiscardPile = append(t.DiscardPile[:i], t.DiscardPile[i+1:]...)
			t.trackChange("discard_pile")
			return c
		}
	}
	return nil
}

func (t *Table) TopDiscardCard() *Card {
	if len(t.DiscardPile) == 0 {
		return nil
	}
	return t.DiscardPile[len(t.DiscardPile)-1]
}

func (t *Table) ClearDiscardPile() []*Card {
	cleared := t.DiscardPile
	t.DiscardPile = nil
	t.trackChange("discard_pile")
	return cleared
}

// ---- draw pile ----

// DrawFromDrawPile pops the top (last) card of the draw pile, or nil if empty.
func (t *Table) DrawFromDrawPile() *Card {
	if len(t.DrawPile) == 0 {
		return nil
	}
	last := len(t.DrawPile) - 1
	c := t.DrawPile[last]
	t.DrawPile = t.DrawPile[:last]
	t.trackChange("draw_pile")
	return c
}

// DrawFromDiscardPile pops the top (last) card of the discard pile, or nil if empty.
func (t *Table) DrawFromDiscardPile() *Card {
	if len(t.DiscardPile) == 0 {
		return nil
	}
	last := len(t.DiscardPile) - 1
	c := t.DiscardPile[last]
	t.DiscardPile = t.DiscardPile[:last]
	t.trackChange("discard_pile")
	return c
}

func (t *Table) AddToDrawPile(c *Card) {
	t.DrawPile = append(t.DrawPile, c)
	t.trackChange("draw_pile")
}

func (t *Table) DrawPileCount() int    { return len(t.DrawPile) }
func (t *Table) DiscardPileCount() int { return len(t.DiscardPile) }
func (t *Table) IsDrawPileEmpty() bool { return len(t.DrawPile) == 0 }
func (t *Table) IsDiscardPileEmpty() bool { return len(t.DiscardPile) == 0 }

// ---- player status ----

// UpdateAllPlayersStatus sets every player's status, optionally restricted
// to active players, and returns the count updated.
func (t *Table) UpdateAllPlayersStatus(status PlayerStatus, filterActive bool) int {
	count := 0
	for _, p := range t.Players {
		if !filterActive || p.IsActive() {
			p.Status = status
			count++
		}
	}
	return count
}

// UpdatePlayersStatusByIDs sets status on the named players only.
func (t *Table) UpdatePlayersStatusByIDs(playerIDs []string, status PlayerStatus) int {
	count := 0
	for _, id := range playerIDs {
		if p, ok := t.Players[id]; ok {
			p.Status = status
			count++
		}
	}
	return count
}

// ClearSameRankData tracks the same_rank_data change; the same-rank
// window's working entries live on the engine, not the table.
func (t *Table) ClearSameRankData() {
	t.trackChange("same_rank_data")
}

// GetCurrentPlayer returns the current player, or nil if unset/unknown.
func (t *Table) GetCurrentPlayer() *Player {
	if t.CurrentPlayerID == "" {
		return nil
	}
	return t.Players[t.CurrentPlayerID]
}

// ActivePlayerIDs lists active players in join order.
func (t *Table) ActivePlayerIDs() []string {
	ids := make([]string, 0, len(t.PlayerOrder))
	for _, id := range t.PlayerOrder {
		if p, ok := t.Players[id]; ok && p.IsActive() {
			ids = append(ids, id)
		}
	}
	return ids
}

// GetCardByID searches hands, piles, and pending draws for a card.
func (t *Table) GetCardByID(cardID string) *Card {
	for _, pid := range t.PlayerOrder {
		p := t.Players[pid]
		if p == nil {
			continue
		}
		if c, _ := p.FindCardInHand(cardID); c != nil {
			return c
		}
	}
	for _, c := range t.DrawPile {
		if c.ID == cardID {
			return c
		}
	}
	for _, c := range t.DiscardPile {
		if c.ID == cardID {
			return c
		}
	}
	for _, c := range t.PendingDraws {
		if c.ID == cardID {
			return c
		}
	}
	return nil
}

// FindCardLocation scans hands, piles, and pending draws for a card id,
// returning the location tag and index. Used by the jack-swap and
// queen-peek handlers to validate ownership before mutating state.
func (t *Table) FindCardLocation(cardID string) *CardLocation {
	for _, pid := range t.PlayerOrder {
		p := t.Players[pid]
		if p == nil {
			continue
		}
		if c, idx := p.FindCardInHand(cardID); c != nil {
			return &CardLocation{Card: c, Type: LocationHand, PlayerID: pid, Index: idx}
		}
	}
	for i, c := range t.DrawPile {
		if c.ID == cardID {
			return &CardLocation{Card: c, Type: LocationDrawPile, Index: i}
		}
	}
	for i, c := range t.DiscardPile {
		if c.ID == cardID {
			return &CardLocation{Card: c, Type: LocationDiscardPile, Index: i}
		}
	}
	for pid, c := range t.PendingDraws {
		if c.ID == cardID {
			return &CardLocation{Card: c, Type: LocationPendingDraw, PlayerID: pid, Index: -1}
		}
	}
	return nil
}

// trackChange records a dirty field name. Purely an optimization hint for
// the notifier — never consulted for correctness.
func (t *Table) trackChange(field string) {
	if t.ChangeTrackingEnabled {
		t.PendingChanges[field] = struct{}{}
	}
}

// EnableChangeTracking / DisableChangeTracking toggle the dirty-field hint.
func (t *Table) EnableChangeTracking()  { t.ChangeTrackingEnabled = true }
func (t *Table) DisableChangeTracking() { t.ChangeTrackingEnabled = false }

// ---- serialization ----

type tableDTO struct {
	GameID          string             `json:"game_id"`
	MaxPlayers      int                `json:"max_players"`
	MinPlayers      int                `json:"min_players"`
	Permission      string             `json:"permission"`
	Players         map[string]*Player `json:"players"`
	PlayerOrder     []string           `json:"player_order"`
	CurrentPlayerID string             `json:"current_player_id,omitempty"`
	Phase           string             `json:"phase"`
	DiscardPile     []*Card            `json:"discard_pile"`
	DrawPileCount   int                `json:"draw_pile_count"`
	LastPlayedCard  *Card              `json:"last_played_card"`
	RecallCalledBy  string             `json:"recall_called_by,omitempty"`
	LastActionTime  int64              `json:"last_action_time"`
	GameEnded       bool               `json:"game_ended"`
	Winner          string             `json:"winner,omitempty"`
	PlayerSessions  map[string]string  `json:"player_sessions"`
	SessionPlayers  map[string]string  `json:"session_players"`
}

// MarshalJSON renders a full state snapshot: the discard pile is fully
// serialized but the draw pile is represented by count only, so the draw
// order is never leaked to clients (spec §6).
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableDTO{
		GameID:          t.GameID,
		MaxPlayers:      t.MaxPlayers,
		MinPlayers:      t.MinPlayers,
		Permission:      t.Visibility,
		Players:         t.Players,
		PlayerOrder:     t.PlayerOrder,
		CurrentPlayerID: t.CurrentPlayerID,
		Phase:           t.Phase.String(),
		DiscardPile:     nonNilCards(t.DiscardPile),
		DrawPileCount:   len(t.DrawPile),
		LastPlayedCard:  t.LastPlayedCard,
		RecallCalledBy:  t.RecallCallerID,
		LastActionTime:  t.LastActionTime,
		GameEnded:       t.GameEnded,
		Winner:          t.WinnerID,
		PlayerSessions:  t.PlayerSessions,
		SessionPlayers:  t.SessionPlayers,
	})
}

// UnmarshalJSON restores a table from its snapshot shape. The draw pile is
// not restored (only its count was serialized); callers that need to
// persist full state must keep the draw pile out of band.
func (t *Table) UnmarshalJSON(data []byte) error {
	var dto tableDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	phase, ok := ParsePhase(dto.Phase)
	if !ok {
		return fmt.Errorf("domain: unknown table phase %q", dto.Phase)
	}
	t.GameID = dto.GameID
	t.MaxPlayers = dto.MaxPlayers
	t.MinPlayers = dto.MinPlayers
	t.Visibility = dto.Permission
	t.Players = dto.Players
	t.PlayerOrder = dto.PlayerOrder
	t.CurrentPlayerID = dto.CurrentPlayerID
	t.Phase = phase
	t.DiscardPile = dto.DiscardPile
	t.LastPlayedCard = dto.LastPlayedCard
	t.RecallCallerID = dto.RecallCalledBy
	t.LastActionTime = dto.LastActionTime
	t.GameEnded = dto.GameEnded
	t.WinnerID = dto.Winner
	t.PlayerSessions = dto.PlayerSessions
	t.SessionPlayers = dto.SessionPlayers
	if t.PendingDraws == nil {
		t.PendingDraws = make(map[string]*Card)
	}
	t.ChangeTrackingEnabled = true
	if t.PendingChanges == nil {
		t.PendingChanges = make(map[string]struct{})
	}
	return nil
}
