package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"color-engine/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server when REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, addr, 0, time.Minute)
	require.NoError(t, err)
	defer s.Close()

	code := "TEST" + time.Now().Format("150405")
	info := entities.RoomInfo{
		RoomCode:   code,
		Status:     entities.RoomStatusPlaying,
		MaxPlayers: 4,
		Host:       "Ann",
		Players:    []string{"Ann", "Bob"},
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, s.SaveRoomInfo(ctx, info))
	got, err := s.GetRoomInfo(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, info.Players, got.Players)
	assert.Equal(t, info.Status, got.Status)
	assert.Equal(t, 4, got.MaxPlayers)

	require.NoError(t, s.AppendGameLog(ctx, code, []entities.LogEntry{{Message: "Ann stole 2 coins from Bob", Kind: entities.LogKindImportant}}))
	entries, err := s.GameLog(ctx, code)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entities.LogKindImportant, entries[0].Kind)

	require.NoError(t, s.DeleteRoom(ctx, code))
	_, err = s.GetRoomInfo(ctx, code)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
