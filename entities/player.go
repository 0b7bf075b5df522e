package entities

// Player is the authoritative per-room player record. Connection handles live in the
// websocket hub, never here, so a reconnect does not touch this struct.
type Player struct {
	Name              string         `json:"name"`
	Coins             int            `json:"coins"`
	Inventory         []CardInstance `json:"inventory"`
	HasBoughtThisTurn bool           `json:"hasBoughtThisTurn"`
}

func (p *Player) CanAfford(cost int) bool {
	return p.Coins >= cost
}

// CountByColor counts inventory cards of the given color.
func (p *Player) CountByColor(c Color) int {
	n := 0
	for _, card := range p.Inventory {
		if card.Color == c {
			n++
		}
	}
	return n
}

// ResetUsedCards makes every inventory card activatable again.
func (p *Player) ResetUsedCards() {
	for i := range p.Inventory {
		p.Inventory[i].IsUsed = false
	}
}

func (p *Player) HasWon(winTarget int) bool {
	return p.Coins >= winTarget
}
