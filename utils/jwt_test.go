package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	tok, err := tokens.Generate("AB12", "Ann")
	require.NoError(t, err)

	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "AB12", claims.RoomCode)
	assert.Equal(t, "Ann", claims.PlayerName)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestTokensRejects(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	other, err := NewTokens("other", time.Hour).Generate("AB12", "Ann")
	require.NoError(t, err)
	_, err = tokens.Parse(other)
	assert.Error(t, err)

	expired, err := NewTokens("secret", -time.Minute).Generate("AB12", "Ann")
	require.NoError(t, err)
	_, err = tokens.Parse(expired)
	assert.Error(t, err)

	_, err = tokens.Parse("not-a-token")
	assert.Error(t, err)
}

func TestTail(t *testing.T) {
	s := []int{1, 2, 3, 4}
	assert.Equal(t, []int{3, 4}, Tail(s, 2))
	assert.Equal(t, s, Tail(s, 10))
	assert.Equal(t, s, Tail(s, 0))
	assert.Empty(t, Tail([]string{}, 3))
}
