package entities

import (
	"fmt"
	"strings"
)

// Color is the sector of a card; only cards of the round's active color can be activated.
type Color string

const (
	ColorBlue   Color = "Blue"
	ColorGold   Color = "Gold"
	ColorRed    Color = "Red"
	ColorPurple Color = "Purple"
)

// Colors lists every card color in a fixed order (used for uniform rolls).
var Colors = []Color{ColorBlue, ColorGold, ColorRed, ColorPurple}

// ParseColor matches a color name case-insensitively.
func ParseColor(s string) (Color, error) {
	for _, c := range Colors {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown card color %q", s)
}

const (
	MinCardWeight = 1
	MaxCardWeight = 100
)

// CardDefinition is one catalog row. Identity is the name.
type CardDefinition struct {
	Name        string `json:"name" yaml:"name"`
	Color       Color  `json:"color" yaml:"color"`
	Effect      string `json:"effect" yaml:"effect"`
	Program     Effect `json:"-" yaml:"-"`
	Cost        int    `json:"cost" yaml:"cost"`
	Reward      int    `json:"reward" yaml:"reward"`
	Weight      int    `json:"weight" yaml:"weight"`
	Icon        string `json:"icon" yaml:"icon"`
	Description string `json:"description" yaml:"description"`
	Narrative   string `json:"narrative" yaml:"narrative"`
}

// CardInstance is a concrete copy of a definition living in exactly one container
// (deck, market or a single inventory).
type CardInstance struct {
	ID string `json:"id"`
	CardDefinition
	IsUsed bool `json:"isUsed"`
}

// NewInstance copies every field of the definition into a fresh, unused instance.
func (d CardDefinition) NewInstance(id string) CardInstance {
	return CardInstance{ID: id, CardDefinition: d}
}

func (d CardDefinition) String() string {
	return fmt.Sprintf("%s [%s] - Cost: %d, Reward: %d, Weight: %d", d.Name, d.Color, d.Cost, d.Reward, d.Weight)
}

// FindCard returns the index of the card with the given id, or -1.
func FindCard(cards []CardInstance, id string) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveCardAt removes and returns the card at index i, keeping the order of the rest.
func RemoveCardAt(cards []CardInstance, i int) ([]CardInstance, CardInstance) {
	card := cards[i]
	out := append(cards[:i:i], cards[i+1:]...)
	return out, card
}
