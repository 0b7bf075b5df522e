package game

import (
	"color-engine/catalog"
	"color-engine/entities"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// BuildDeck draws targetSize definitions by weight, clones each into a fresh instance
// and shuffles the result. A catalog without any positive weight is replaced by the
// single fallback definition.
func BuildDeck(cards []entities.CardDefinition, targetSize int, rng *rand.Rand) []entities.CardInstance {
	if targetSize <= 0 {
		return []entities.CardInstance{}
	}

	defs, totalWeight := weightedDefinitions(cards)
	deck := make([]entities.CardInstance, 0, targetSize)
	for i := 0; i < targetSize; i++ {
		def := drawWeighted(defs, totalWeight, rng)
		deck = append(deck, def.NewInstance(uuid.NewString()))
	}

	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// weightedDefinitions keeps the definitions that can be drawn.
func weightedDefinitions(cards []entities.CardDefinition) ([]entities.CardDefinition, int) {
	defs := make([]entities.CardDefinition, 0, len(cards))
	total := 0
	for _, d := range cards {
		if d.Weight < entities.MinCardWeight {
			continue
		}
		defs = append(defs, d)
		total += d.Weight
	}
	if total == 0 {
		fb := catalog.Fallback()
		return []entities.CardDefinition{fb}, fb.Weight
	}
	return defs, total
}

// drawWeighted rolls over [0, totalWeight) and walks the cumulative weights.
func drawWeighted(defs []entities.CardDefinition, totalWeight int, rng *rand.Rand) entities.CardDefinition {
	roll := rng.Intn(totalWeight)
	current := 0
	for _, d := range defs {
		current += d.Weight
		if roll < current {
			return d
		}
	}
	return defs[len(defs)-1]
}
