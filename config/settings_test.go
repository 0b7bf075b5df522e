package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	s := DefaultSettings()
	assert.Empty(t, s.Validate())
	assert.Equal(t, 100, s.WinTarget)
	assert.Equal(t, 1, s.DailyIncome)
	assert.True(t, s.IsValidPlayerCount(2))
	assert.True(t, s.IsValidPlayerCount(4))
	assert.False(t, s.IsValidPlayerCount(1))
	assert.False(t, s.IsValidPlayerCount(5))
}

func TestMarketSize(t *testing.T) {
	tests := []struct {
		formula string
		players int
		want    int
	}{
		{"{players_count} + 1", 2, 3},
		{"{players_count} + 1", 4, 5},
		{"2 + {players_count} + 3", 2, 7},
		{"6", 3, 6},
		{"{players_count} * 2", 3, 4},
		{"", 3, 4},
	}
	for _, tt := range tests {
		s := DefaultSettings()
		s.MarketSizeFormula = tt.formula
		assert.Equal(t, tt.want, s.MarketSize(tt.players), "formula %q", tt.formula)
	}
}

func TestStartingCoinsInRange(t *testing.T) {
	s := DefaultSettings()
	rng := rand.New(rand.NewSource(11))
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		c := s.StartingCoins(rng)
		require.GreaterOrEqual(t, c, s.StartCoinsMin)
		require.LessOrEqual(t, c, s.StartCoinsMax)
		seen[c] = true
	}
	assert.Len(t, seen, s.StartCoinsMax-s.StartCoinsMin+1)

	s.StartCoinsMax = s.StartCoinsMin
	assert.Equal(t, s.StartCoinsMin, s.StartingCoins(rng))
}

func TestValidateAndApplyDefaults(t *testing.T) {
	s := GameSettings{
		StartCoinsMin:   8,
		StartCoinsMax:   3,
		WinTarget:       0,
		DailyIncome:     -1,
		MinPlayersCount: 1,
		MaxPlayersCount: 9,
	}
	assert.Len(t, s.Validate(), 6)

	s.ApplyDefaults()
	assert.Empty(t, s.Validate())
	assert.Equal(t, DefaultWinTarget, s.WinTarget)
	assert.Equal(t, DefaultDailyIncome, s.DailyIncome)
	assert.Equal(t, MinPlayers, s.MinPlayersCount)
	assert.Equal(t, MaxPlayers, s.MaxPlayersCount)
	assert.Equal(t, DefaultDeckSize, s.DeckSize)
	assert.Equal(t, "{players_count} + 1", s.MarketSizeFormula)
}

func TestLoadSettings(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("win_target: 50\nmarket_size_formula: \"{players_count} + 2\"\n"), 0o644))
	s, err = LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 50, s.WinTarget)
	assert.Equal(t, 5, s.MarketSize(3))
	assert.Equal(t, DefaultDailyIncome, s.DailyIncome, "unset keys keep their defaults")

	require.NoError(t, os.WriteFile(path, []byte("win_target: [oops"), 0o644))
	_, err = LoadSettings(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("WIN_TARGET", "30")
	t.Setenv("DAILY_INCOME", "0")
	t.Setenv("DECK_SIZE", "nope")

	s := DefaultSettings()
	s.ApplyEnv()
	assert.Equal(t, 30, s.WinTarget)
	assert.Equal(t, 0, s.DailyIncome)
	assert.Equal(t, DefaultDeckSize, s.DeckSize)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ROOM_IDLE_TTL", "30m")
	t.Setenv("FINISHED_ROOM_TTL", "garbage")

	cfg, _ := FromEnv()
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "30m0s", cfg.RoomIdleTTL.String())
	assert.Equal(t, "10m0s", cfg.FinishedRoomTTL.String())
}
