package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EffectKind is the closed set of card effect commands.
type EffectKind int

const (
	EffectInvalid EffectKind = iota
	EffectGet
	EffectGetAll
	EffectStealMoney
	EffectStealCard
	EffectGetBy
)

var effectCommands = map[string]EffectKind{
	"GET":         EffectGet,
	"GETALL":      EffectGetAll,
	"STEAL_MONEY": EffectStealMoney,
	"STEAL_CARD":  EffectStealCard,
	"GETBY":       EffectGetBy,
}

func (k EffectKind) String() string {
	for name, kind := range effectCommands {
		if kind == k {
			return name
		}
	}
	return "INVALID"
}

// VictimMode selects which opponents an effect targets.
type VictimMode string

const (
	VictimAll    VictimMode = "ALL"
	VictimRandom VictimMode = "RANDOM"
)

var ErrEmptyEffect = errors.New("empty effect script")

// Effect is a parsed effect script.
type Effect struct {
	Kind   EffectKind
	Amount int
	Mode   VictimMode
	Color  Color
	Script string
}

// Valid reports whether the effect parsed into a known command.
func (e Effect) Valid() bool {
	return e.Kind != EffectInvalid
}

// ParseEffect turns a script like "STEAL_MONEY ALL 2" into an Effect. The command is
// case-insensitive; parameters are whitespace separated. On error the returned Effect
// keeps the script but has Kind EffectInvalid.
func ParseEffect(script string) (Effect, error) {
	fields := strings.Fields(script)
	bad := Effect{Kind: EffectInvalid, Script: script}
	if len(fields) == 0 {
		return bad, ErrEmptyEffect
	}

	kind, ok := effectCommands[strings.ToUpper(fields[0])]
	if !ok {
		return bad, fmt.Errorf("unknown effect command %q", fields[0])
	}
	params := fields[1:]
	eff := Effect{Kind: kind, Script: script}

	var err error
	switch kind {
	case EffectGet, EffectGetAll:
		if len(params) < 1 {
			return bad, fmt.Errorf("%s: missing amount", kind)
		}
		eff.Amount, err = parseAmount(params[0])
	case EffectStealMoney:
		if len(params) < 2 {
			return bad, fmt.Errorf("%s: want mode and amount", kind)
		}
		if eff.Mode, err = parseMode(params[0]); err == nil {
			eff.Amount, err = parseAmount(params[1])
		}
	case EffectStealCard:
		if len(params) < 1 {
			return bad, fmt.Errorf("%s: missing mode", kind)
		}
		eff.Mode, err = parseMode(params[0])
	case EffectGetBy:
		if len(params) < 2 {
			return bad, fmt.Errorf("%s: want color and multiplier", kind)
		}
		if eff.Color, err = ParseColor(params[0]); err == nil {
			eff.Amount, err = parseAmount(params[1])
		}
	}
	if err != nil {
		return bad, fmt.Errorf("%s: %w", kind, err)
	}
	return eff, nil
}

func parseAmount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad amount %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative amount %d", n)
	}
	return n, nil
}

func parseMode(s string) (VictimMode, error) {
	switch m := VictimMode(strings.ToUpper(s)); m {
	case VictimAll, VictimRandom:
		return m, nil
	}
	return "", fmt.Errorf("bad victim mode %q", s)
}
