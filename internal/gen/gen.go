// Package gen produces day-advancement change sets: a remote generative
// model proposes deltas, a schema gate rejects anything out of contract,
// and a deterministic fallback keeps the farm running without it.
package gen

import (
	"context"

	"cultivar.farm/internal/sim/weather"
)

// Generator is the capability the simulation engine depends on.
type Generator interface {
	Generate(ctx context.Context, snap Snapshot, days int) (ChangeSet, error)
}

// Snapshot is the world context handed to a generator. It carries plain
// values only so generators never reach back into live world state.
type Snapshot struct {
	CurrentDay       int              `json:"current_day"`
	Season           weather.Season   `json:"season"`
	Location         Location         `json:"location"`
	Fields           []FieldSnapshot  `json:"fields"`
	ActiveSatellites []string         `json:"active_satellites"`
	RecentWeather    weather.Snapshot `json:"recent_weather"`
}

type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

type FieldSnapshot struct {
	ID                string  `json:"id"`
	CropID            string  `json:"crop_id,omitempty"`
	CropName          string  `json:"crop_name,omitempty"`
	GrowthStage       int     `json:"growth_stage"`
	MaxGrowthStages   int     `json:"max_growth_stages"`
	WaterRequirement  float64 `json:"water_requirement"`
	DiseaseResistance float64 `json:"disease_resistance"`
	Growth            float64 `json:"growth"` // percent of total progress
	Health            float64 `json:"health"`
	WaterLevel        float64 `json:"water_level"`
	FertilizerLevel   float64 `json:"fertilizer_level"`
	SoilQuality       float64 `json:"soil_quality"`
	Diseased          bool    `json:"diseased"`
}

func (f FieldSnapshot) HasCrop() bool { return f.CropID != "" }

// ChangeSet is the structured bundle of proposed daily deltas.
type ChangeSet struct {
	Weather      WeatherProposal `json:"weather"`
	SoilMoisture float64         `json:"soil_moisture"`
	CropChanges  []CropChange    `json:"crop_changes"`
	Alerts       []AlertChange   `json:"alerts"`
	Insights     []string        `json:"insights"`
}

type WeatherProposal struct {
	Temperature   float64           `json:"temperature"`
	Precipitation float64           `json:"precipitation"`
	Condition     weather.Condition `json:"condition"`
}

type CropChange struct {
	FieldID               string  `json:"field_id"`
	GrowthIncrease        float64 `json:"growth_increase"`         // [0,100]
	HealthChange          float64 `json:"health_change"`           // [-50,50]
	DiseaseRisk           float64 `json:"disease_risk"`            // [0,100]
	WaterLevelChange      float64 `json:"water_level_change"`      // [-50,0]
	FertilizerLevelChange float64 `json:"fertilizer_level_change"` // [-20,0]
	SoilQualityChange     float64 `json:"soil_quality_change"`     // [-5,2]
	NeedsAttention        bool    `json:"needs_attention"`
	Recommendation        string  `json:"recommendation"`
	CropInsight           string  `json:"crop_insight,omitempty"`
}

type AlertChange struct {
	Kind    string `json:"kind"` // "warning","info","success","satellite_insight"
	Message string `json:"message"`
}
