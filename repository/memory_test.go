package repository

import (
	"context"
	"testing"
	"time"

	"color-engine/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoomInfo(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, err := m.GetRoomInfo(ctx, "AB12")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	players := []string{"Ann"}
	info := entities.RoomInfo{RoomCode: "AB12", Status: entities.RoomStatusWaiting, Host: "Ann", Players: players, CreatedAt: time.Now()}
	require.NoError(t, m.SaveRoomInfo(ctx, info))
	players[0] = "Mallory"

	got, err := m.GetRoomInfo(ctx, "AB12")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann"}, got.Players, "the store keeps its own copy")

	require.NoError(t, m.AppendGameLog(ctx, "AB12", []entities.LogEntry{{Message: "a", Kind: entities.LogKindGold}}))
	require.NoError(t, m.AppendGameLog(ctx, "AB12", []entities.LogEntry{{Message: "b", Kind: entities.LogKindImportant}}))
	entries, err := m.GameLog(ctx, "AB12")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[1].Message)

	require.NoError(t, m.DeleteRoom(ctx, "AB12"))
	assert.ErrorIs(t, m.DeleteRoom(ctx, "AB12"), ErrRoomNotFound)
	entries, err = m.GameLog(ctx, "AB12")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoryStoreResults(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.SaveResult(context.Background(), entities.GameResult{RoomCode: "AB12", Winner: "Ann", Rounds: 7}))
	results := m.Results()
	require.Len(t, results, 1)
	assert.Equal(t, 7, results[0].Rounds)
}
