package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	StartingMoney  int      `yaml:"starting_money"`
	StartingFields []string `yaml:"starting_fields"`
	GridRadius     int      `yaml:"grid_radius"`

	SeasonLengthDays int `yaml:"season_length_days"`

	Location Location `yaml:"location"`

	Remote Remote `yaml:"remote"`

	ItemDefaultDurationDays int     `yaml:"item_default_duration_days"`
	BaseExpToLevel          float64 `yaml:"base_exp_to_level"`
	LevelUpMultiplier       float64 `yaml:"level_up_multiplier"`
}

type Location struct {
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
	Name string  `yaml:"name"`
}

type Remote struct {
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.ApplyDefaults()
	return t, nil
}

func (t *Tuning) ApplyDefaults() {
	if t.StartingMoney <= 0 {
		t.StartingMoney = 500
	}
	if t.GridRadius <= 0 {
		t.GridRadius = 4
	}
	if t.SeasonLengthDays <= 0 {
		t.SeasonLengthDays = 30
	}
	if t.Location.Name == "" {
		t.Location = Location{Lat: 40.7, Lon: -74.0, Name: "Central US Farm"}
	}
	if t.Remote.Model == "" {
		t.Remote.Model = "gemini-2.5-flash"
	}
	if t.Remote.TimeoutSec <= 0 {
		t.Remote.TimeoutSec = 30
	}
	if t.ItemDefaultDurationDays <= 0 {
		t.ItemDefaultDurationDays = 30
	}
	if t.BaseExpToLevel <= 0 {
		t.BaseExpToLevel = 100
	}
	if t.LevelUpMultiplier <= 0 {
		t.LevelUpMultiplier = 1.5
	}
}
