package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWinTarget   = 100
	DefaultDailyIncome = 1
	DefaultDeckSize    = 100
	MinPlayers         = 2
	MaxPlayers         = 4

	playersPlaceholder = "{players_count}"
)

// GameSettings is the balance configuration of a game.
type GameSettings struct {
	StartCoinsMin     int    `yaml:"start_coins_min" json:"start_coins_min"`
	StartCoinsMax     int    `yaml:"start_coins_max" json:"start_coins_max"`
	WinTarget         int    `yaml:"win_target" json:"win_target"`
	DailyIncome       int    `yaml:"daily_income" json:"daily_income"`
	MinPlayersCount   int    `yaml:"min_players_count" json:"min_players_count"`
	MaxPlayersCount   int    `yaml:"max_players_count" json:"max_players_count"`
	MarketSizeFormula string `yaml:"market_size_formula" json:"market_size_formula"`
	DeckSize          int    `yaml:"deck_size" json:"deck_size"`
}

func DefaultSettings() GameSettings {
	return GameSettings{
		StartCoinsMin:     5,
		StartCoinsMax:     10,
		WinTarget:         DefaultWinTarget,
		DailyIncome:       DefaultDailyIncome,
		MinPlayersCount:   MinPlayers,
		MaxPlayersCount:   MaxPlayers,
		MarketSizeFormula: playersPlaceholder + " + 1",
		DeckSize:          DefaultDeckSize,
	}
}

// LoadSettings reads settings from a YAML file on top of the defaults. A missing file
// is not an error: the defaults are returned.
func LoadSettings(path string) (GameSettings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read game settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to unmarshal game settings: %w", err)
	}
	return s, nil
}

// ApplyEnv overrides single values from the environment.
func (s *GameSettings) ApplyEnv() {
	if val := getEnvInt("WIN_TARGET"); val > 0 {
		s.WinTarget = val
	}
	if val := getEnvInt("DAILY_INCOME"); val >= 0 {
		s.DailyIncome = val
	}
	if val := getEnvInt("DECK_SIZE"); val > 0 {
		s.DeckSize = val
	}
}

// Validate lists every problem with the settings; an empty slice means valid.
func (s GameSettings) Validate() []string {
	var errs []string
	if s.StartCoinsMin < 0 {
		errs = append(errs, "start_coins_min must not be negative")
	}
	if s.StartCoinsMax < s.StartCoinsMin {
		errs = append(errs, "start_coins_max must be >= start_coins_min")
	}
	if s.WinTarget <= 0 {
		errs = append(errs, "win_target must be positive")
	}
	if s.DailyIncome < 0 {
		errs = append(errs, "daily_income must not be negative")
	}
	if s.MinPlayersCount < MinPlayers {
		errs = append(errs, fmt.Sprintf("min_players_count must be at least %d", MinPlayers))
	}
	if s.MaxPlayersCount > MaxPlayers {
		errs = append(errs, fmt.Sprintf("max_players_count must be at most %d", MaxPlayers))
	}
	if s.MinPlayersCount > s.MaxPlayersCount {
		errs = append(errs, "min_players_count must not exceed max_players_count")
	}
	if s.DeckSize <= 0 {
		errs = append(errs, "deck_size must be positive")
	}
	return errs
}

// ApplyDefaults repairs every invalid value.
func (s *GameSettings) ApplyDefaults() {
	if s.StartCoinsMin < 0 {
		s.StartCoinsMin = 5
	}
	if s.StartCoinsMax < s.StartCoinsMin {
		s.StartCoinsMax = s.StartCoinsMin + 5
	}
	if s.WinTarget <= 0 {
		s.WinTarget = DefaultWinTarget
	}
	if s.DailyIncome < 0 {
		s.DailyIncome = DefaultDailyIncome
	}
	if s.MinPlayersCount < MinPlayers {
		s.MinPlayersCount = MinPlayers
	}
	if s.MaxPlayersCount > MaxPlayers || s.MaxPlayersCount < MinPlayers {
		s.MaxPlayersCount = MaxPlayers
	}
	if s.MinPlayersCount > s.MaxPlayersCount {
		s.MinPlayersCount = s.MaxPlayersCount
	}
	if s.DeckSize <= 0 {
		s.DeckSize = DefaultDeckSize
	}
	if strings.TrimSpace(s.MarketSizeFormula) == "" {
		s.MarketSizeFormula = playersPlaceholder + " + 1"
	}
}

func (s GameSettings) IsValidPlayerCount(n int) bool {
	return n >= s.MinPlayersCount && n <= s.MaxPlayersCount
}

// MarketSize evaluates the market formula, a sum of integer terms where
// {players_count} stands for the player count. Unparsable formulas fall back to n+1.
func (s GameSettings) MarketSize(playerCount int) int {
	formula := strings.ReplaceAll(s.MarketSizeFormula, playersPlaceholder, strconv.Itoa(playerCount))
	total := 0
	for _, term := range strings.Split(formula, "+") {
		v, err := strconv.Atoi(strings.TrimSpace(term))
		if err != nil {
			return playerCount + 1
		}
		total += v
	}
	if total < 0 {
		return 0
	}
	return total
}

// StartingCoins draws uniformly from [StartCoinsMin, StartCoinsMax].
func (s GameSettings) StartingCoins(rng *rand.Rand) int {
	if s.StartCoinsMax <= s.StartCoinsMin {
		return s.StartCoinsMin
	}
	return s.StartCoinsMin + rng.Intn(s.StartCoinsMax-s.StartCoinsMin+1)
}

func (s GameSettings) String() string {
	return fmt.Sprintf("WinTarget: %d, DailyIncome: %d, Players: %d-%d, StartCoins: %d-%d",
		s.WinTarget, s.DailyIncome, s.MinPlayersCount, s.MaxPlayersCount, s.StartCoinsMin, s.StartCoinsMax)
}
