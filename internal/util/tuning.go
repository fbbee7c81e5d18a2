package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is the scenario file: who the player is and what the world looks like at start.
type Tuning struct {
	StartDate     string   `yaml:"start_date"`
	PlayerTag     string   `yaml:"player_tag"`
	StartTreasury float64  `yaml:"start_treasury"`
	StartManpower int      `yaml:"start_manpower"`
	WorldSeed     int64    `yaml:"world_seed"`
	MapWidth      int      `yaml:"map_width"`
	MapHeight     int      `yaml:"map_height"`
	Rivals        []string `yaml:"rivals"`
}

// DefaultTuning matches the built-in campaign start.
func DefaultTuning() Tuning {
	return Tuning{
		StartDate:     "1444-11-11",
		PlayerTag:     "FRA",
		StartTreasury: 100,
		StartManpower: 10000,
		WorldSeed:     1444,
		MapWidth:      24,
		MapHeight:     12,
		Rivals:        []string{"ENG"},
	}
}

// LoadTuning reads path over the defaults. A missing file yields the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return DefaultTuning(), fmt.Errorf("tuning.yaml: %w", err)
	}
	if t.MapWidth <= 0 || t.MapHeight <= 0 {
		return DefaultTuning(), fmt.Errorf("tuning.yaml: map size %dx%d", t.MapWidth, t.MapHeight)
	}
	return t, nil
}
