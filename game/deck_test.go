package game

import (
	"testing"

	"color-engine/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestBuildDeckInstancesAreUnique(t *testing.T) {
	cards := []entities.CardDefinition{
		testDefinition("Wheat Field", entities.ColorBlue, "GET 1", 1),
		testDefinition("Mine", entities.ColorPurple, "GET 3", 4),
	}
	deck := BuildDeck(cards, 100, rand.New(rand.NewSource(42)))

	require.Len(t, deck, 100)
	seen := make(map[string]bool, len(deck))
	for _, c := range deck {
		assert.NotEmpty(t, c.ID)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		assert.False(t, c.IsUsed)
		seen[c.ID] = true
	}
}

func TestBuildDeckFollowsWeights(t *testing.T) {
	common := testDefinition("Common", entities.ColorBlue, "GET 1", 1)
	common.Weight = 90
	rare := testDefinition("Rare", entities.ColorGold, "GET 5", 6)
	rare.Weight = 10

	deck := BuildDeck([]entities.CardDefinition{common, rare}, 10000, rand.New(rand.NewSource(99)))

	commons := 0
	for _, c := range deck {
		if c.Name == "Common" {
			commons++
		}
	}
	assert.InDelta(t, 0.9, float64(commons)/float64(len(deck)), 0.03)
}

func TestBuildDeckSameSeedSameOrder(t *testing.T) {
	cards := []entities.CardDefinition{
		testDefinition("A", entities.ColorBlue, "GET 1", 1),
		testDefinition("B", entities.ColorRed, "GET 1", 1),
		testDefinition("C", entities.ColorGold, "GET 1", 1),
	}
	names := func(deck []entities.CardInstance) []string {
		out := make([]string, 0, len(deck))
		for _, c := range deck {
			out = append(out, c.Name)
		}
		return out
	}

	first := BuildDeck(cards, 30, rand.New(rand.NewSource(5)))
	second := BuildDeck(cards, 30, rand.New(rand.NewSource(5)))
	assert.Equal(t, names(first), names(second))
}

func TestBuildDeckDegenerateCatalogUsesFallback(t *testing.T) {
	zero := testDefinition("Nothing", entities.ColorBlue, "GET 1", 1)
	zero.Weight = 0

	for _, cards := range [][]entities.CardDefinition{nil, {zero}} {
		deck := BuildDeck(cards, 5, rand.New(rand.NewSource(1)))
		require.Len(t, deck, 5)
		for _, c := range deck {
			assert.Equal(t, "Market Stall", c.Name)
		}
	}
}

func TestBuildDeckEmptyTarget(t *testing.T) {
	deck := BuildDeck([]entities.CardDefinition{testDefinition("A", entities.ColorBlue, "GET 1", 1)}, 0, rand.New(rand.NewSource(1)))
	assert.Empty(t, deck)
}
