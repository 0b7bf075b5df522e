package dto

import "color-engine/entities"

// CardView is a card as shown to clients.
type CardView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Effect      string `json:"effect"`
	Cost        int    `json:"cost"`
	Reward      int    `json:"reward"`
	Weight      int    `json:"weight"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Narrative   string `json:"narrative"`
	IsUsed      bool   `json:"isUsed"`
}

type PlayerSummary struct {
	Name              string     `json:"name"`
	Coins             int        `json:"coins"`
	Inventory         []CardView `json:"inventory"`
	HasBoughtThisTurn bool       `json:"hasBoughtThisTurn"`
}

// TableSnapshot is the full broadcast payload after every successful operation.
type TableSnapshot struct {
	RoomCode      string          `json:"roomCode"`
	Status        string          `json:"status"`
	ActiveColor   string          `json:"activeColor"`
	Market        []CardView      `json:"market"`
	CurrentPlayer string          `json:"currentPlayer"`
	Players       []PlayerSummary `json:"players"`
	RoundNumber   int             `json:"roundNumber"`
	DeckCount     int             `json:"deckCount"`
	Winner        string          `json:"winner,omitempty"`
}

func NewCardView(c entities.CardInstance) CardView {
	return CardView{
		ID:          c.ID,
		Name:        c.Name,
		Color:       string(c.Color),
		Effect:      c.Effect,
		Cost:        c.Cost,
		Reward:      c.Reward,
		Weight:      c.Weight,
		Icon:        c.Icon,
		Description: c.Description,
		Narrative:   c.Narrative,
		IsUsed:      c.IsUsed,
	}
}

func NewCardViews(cards []entities.CardInstance) []CardView {
	views := make([]CardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, NewCardView(c))
	}
	return views
}

// ActivateResponse is returned by card activation: a fresh snapshot plus the effect log.
// Winner is set when the activation ended the game.
type ActivateResponse struct {
	Snapshot TableSnapshot       `json:"snapshot"`
	Logs     []entities.LogEntry `json:"logs"`
	Winner   string              `json:"winner,omitempty"`
}
