package game

import (
	"testing"

	"color-engine/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	eng, state := newTwoPlayerGame(t, testSettings())
	card := state.Market[0]
	require.NoError(t, eng.BuyCard(state, card.ID))

	snap := Snapshot(state)
	assert.Equal(t, "AB12", snap.RoomCode)
	assert.Equal(t, string(entities.GameStatusActive), snap.Status)
	assert.Equal(t, "Ann", snap.CurrentPlayer)
	assert.Equal(t, 1, snap.RoundNumber)
	assert.Equal(t, len(state.Deck), snap.DeckCount)
	assert.Len(t, snap.Market, 2)
	require.Len(t, snap.Players, 2)
	assert.Equal(t, "Bob", snap.Players[0].Name, "players keep join order")
	assert.Equal(t, "Ann", snap.Players[1].Name)
	require.Len(t, snap.Players[1].Inventory, 1)
	assert.Equal(t, card.ID, snap.Players[1].Inventory[0].ID)
	assert.True(t, snap.Players[1].HasBoughtThisTurn)

	// the snapshot is a copy
	snap.Players[1].Coins = 99
	assert.Equal(t, 2, state.Player("Ann").Coins)
}
