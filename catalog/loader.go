package catalog

import (
	"fmt"
	"os"
	"strings"

	"color-engine/entities"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWeight   = 50
	iconPrefix      = "/images/cards/"
	placeholderIcon = iconPrefix + "placeholder.png"
)

// Row is one raw catalog entry as authored in the cards file.
type Row struct {
	Name        string `yaml:"name"`
	Color       string `yaml:"color"`
	Effect      string `yaml:"effect"`
	Cost        int    `yaml:"cost"`
	Reward      int    `yaml:"reward"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
	Weight      int    `yaml:"weight"`
	Narrative   string `yaml:"narrative"`
}

// Fallback is the single definition used when the catalog is empty or unusable.
func Fallback() entities.CardDefinition {
	def := entities.CardDefinition{
		Name:        "Market Stall",
		Color:       entities.ColorGold,
		Effect:      "GET 1",
		Cost:        1,
		Reward:      1,
		Weight:      entities.MinCardWeight,
		Icon:        placeholderIcon,
		Description: "Earn 1 coin.",
	}
	def.Program, _ = entities.ParseEffect(def.Effect)
	return def
}

// LoadFile reads and normalizes a YAML catalog. The result is always usable: on read
// or parse failure the fallback catalog is returned together with the error.
func LoadFile(path string, logger *zap.Logger) ([]entities.CardDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("card catalog not readable", zap.String("path", path), zap.Error(err))
		return EnsureUsable(nil, logger), fmt.Errorf("failed to read card catalog: %w", err)
	}

	var rows []Row
	if err := yaml.Unmarshal(data, &rows); err != nil {
		logger.Error("card catalog not parsable", zap.String("path", path), zap.Error(err))
		return EnsureUsable(nil, logger), fmt.Errorf("failed to unmarshal card catalog: %w", err)
	}

	defs := EnsureUsable(Normalize(rows, logger), logger)
	logger.Info("card catalog loaded", zap.String("path", path), zap.Int("cards", len(defs)))
	return defs, nil
}

// Normalize converts raw rows into definitions. Header and nameless rows are skipped,
// unknown colors become Blue, weights are clamped and effect scripts are parsed once.
func Normalize(rows []Row, logger *zap.Logger) []entities.CardDefinition {
	defs := make([]entities.CardDefinition, 0, len(rows))
	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if isHeaderRow(name) {
			continue
		}

		color, err := entities.ParseColor(row.Color)
		if err != nil {
			logger.Error("invalid card color, using Blue",
				zap.Int("row", i+1), zap.String("card", name), zap.String("color", row.Color))
			color = entities.ColorBlue
		}

		def := entities.CardDefinition{
			Name:        name,
			Color:       color,
			Effect:      strings.TrimSpace(row.Effect),
			Cost:        row.Cost,
			Reward:      row.Reward,
			Weight:      normalizeWeight(row.Weight),
			Icon:        iconPath(strings.TrimSpace(row.Icon)),
			Description: row.Description,
			Narrative:   row.Narrative,
		}
		def.Program, err = entities.ParseEffect(def.Effect)
		if err != nil {
			logger.Warn("card effect will be rejected on activation",
				zap.String("card", name), zap.String("effect", def.Effect), zap.Error(err))
		}
		if def.Cost < 0 {
			logger.Warn("negative card cost, using 0", zap.String("card", name), zap.Int("cost", def.Cost))
			def.Cost = 0
		}
		defs = append(defs, def)
	}
	return defs
}

// EnsureUsable substitutes the fallback definition for an empty or all-zero-weight catalog.
func EnsureUsable(defs []entities.CardDefinition, logger *zap.Logger) []entities.CardDefinition {
	for _, d := range defs {
		if d.Weight >= entities.MinCardWeight {
			return defs
		}
	}
	logger.Warn("card catalog empty or degenerate, using fallback card", zap.Int("definitions", len(defs)))
	return []entities.CardDefinition{Fallback()}
}

func isHeaderRow(name string) bool {
	return name == "" || strings.EqualFold(name, "Name")
}

func normalizeWeight(w int) int {
	switch {
	case w <= 0:
		return DefaultWeight
	case w > entities.MaxCardWeight:
		return entities.MaxCardWeight
	}
	return w
}

func iconPath(file string) string {
	if file == "" {
		return placeholderIcon
	}
	return iconPrefix + file
}
