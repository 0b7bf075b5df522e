package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEffect(t *testing.T) {
	tests := []struct {
		script string
		want   Effect
	}{
		{"GET 3", Effect{Kind: EffectGet, Amount: 3}},
		{"get 0", Effect{Kind: EffectGet, Amount: 0}},
		{"GETALL 2", Effect{Kind: EffectGetAll, Amount: 2}},
		{"STEAL_MONEY ALL 2", Effect{Kind: EffectStealMoney, Mode: VictimAll, Amount: 2}},
		{"steal_money random 5", Effect{Kind: EffectStealMoney, Mode: VictimRandom, Amount: 5}},
		{"STEAL_CARD RANDOM", Effect{Kind: EffectStealCard, Mode: VictimRandom}},
		{"GETBY Blue 3", Effect{Kind: EffectGetBy, Color: ColorBlue, Amount: 3}},
		{"  GETBY   purple  2 ", Effect{Kind: EffectGetBy, Color: ColorPurple, Amount: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			got, err := ParseEffect(tt.script)
			require.NoError(t, err)
			tt.want.Script = tt.script
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestParseEffectRejects(t *testing.T) {
	for _, script := range []string{
		"",
		"   ",
		"FLY 3",
		"GET",
		"GET many",
		"GET -2",
		"STEAL_MONEY 2",
		"STEAL_MONEY SOME 2",
		"STEAL_MONEY ALL -1",
		"STEAL_CARD",
		"GETBY Green 2",
		"GETBY Blue",
	} {
		t.Run(script, func(t *testing.T) {
			eff, err := ParseEffect(script)
			assert.Error(t, err)
			assert.False(t, eff.Valid())
			assert.Equal(t, script, eff.Script)
		})
	}
}

func TestEffectKindString(t *testing.T) {
	assert.Equal(t, "STEAL_MONEY", EffectStealMoney.String())
	assert.Equal(t, "INVALID", EffectInvalid.String())
}

func TestRemoveCardAtDoesNotAlias(t *testing.T) {
	cards := []CardInstance{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	rest, removed := RemoveCardAt(cards, 1)

	assert.Equal(t, "b", removed.ID)
	require.Len(t, rest, 2)
	assert.Equal(t, "a", rest[0].ID)
	assert.Equal(t, "c", rest[1].ID)
	assert.Equal(t, 1, FindCard(rest, "c"))
	assert.Equal(t, -1, FindCard(rest, "b"))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor(" gold ")
	require.NoError(t, err)
	assert.Equal(t, ColorGold, c)

	_, err = ParseColor("Green")
	assert.Error(t, err)
}
