package gen

import (
	"context"
	"fmt"
	"math/rand/v2"

	"cultivar.farm/internal/sim/weather"
)

// Fallback is the deterministic substitute for the remote generator.
// Given the same snapshot and RNG state it always produces the same
// change set, and Generate never fails.
type Fallback struct {
	rng *rand.Rand
}

func NewFallback(rng *rand.Rand) *Fallback {
	return &Fallback{rng: rng}
}

func (f *Fallback) Generate(_ context.Context, snap Snapshot, days int) (ChangeSet, error) {
	if days < 1 {
		days = 1
	}
	d := float64(days)
	temp := snap.RecentWeather.Temperature
	hotSeason := snap.Season == weather.Summer

	prev := snap.RecentWeather
	next := weather.Next(&prev, snap.Season, f.rng)

	cs := ChangeSet{
		Weather: WeatherProposal{
			Temperature:   next.Temperature,
			Precipitation: next.Precipitation,
			Condition:     next.Condition,
		},
		SoilMoisture: next.SoilMoisture,
		Insights:     []string{"SMAP data shows normal soil moisture levels for the region"},
	}

	for _, fs := range snap.Fields {
		if !fs.HasCrop() {
			continue
		}
		cs.CropChanges = append(cs.CropChanges, f.cropChange(fs, d, temp, hotSeason))
	}
	return cs, nil
}

func (f *Fallback) cropChange(fs FieldSnapshot, d, temp float64, hotSeason bool) CropChange {
	tempStress := temp > 30 || temp < 10
	waterStress := fs.WaterLevel < 30

	waterChange := -(fs.WaterRequirement / 10) * d
	if temp > 25 {
		waterChange *= 1.3
	}

	var growth float64
	if fs.Growth < 100 && !fs.Diseased && !waterStress {
		growth = (2 + f.rng.Float64()*2) * d * 2.5
		if fs.FertilizerLevel > 40 {
			growth *= 1.2
		}
		if tempStress {
			growth *= 0.5
		}
	}

	// Mutually exclusive branches, first match wins.
	var health float64
	switch {
	case fs.Diseased:
		health = -5 * d
	case waterStress:
		health = -3 * d
	case tempStress:
		health = -2 * d
	case fs.Health < 100:
		health = 1 * d
	}

	baseRisk := 100 - fs.DiseaseResistance
	if hotSeason {
		baseRisk *= 1.5
	}
	diseaseRisk := min(100, baseRisk)

	fertilizerChange := -1 * d
	if fs.Growth < 100 {
		fertilizerChange = -3 * d
	}

	cc := CropChange{
		FieldID:               fs.ID,
		GrowthIncrease:        growth,
		HealthChange:          health,
		DiseaseRisk:           diseaseRisk,
		WaterLevelChange:      waterChange,
		FertilizerLevelChange: fertilizerChange,
		SoilQualityChange:     -0.5 * d,
		NeedsAttention:        fs.WaterLevel < 30 || fs.Diseased || fs.Health < 50,
		Recommendation:        recommendation(fs),
	}
	if fs.Growth > 80 {
		cc.CropInsight = fmt.Sprintf("%s approaching maturity", cropName(fs))
	}
	return cc
}

// recommendation picks advice by fixed priority: water, disease,
// fertilizer, health, then healthy-growing.
func recommendation(fs FieldSnapshot) string {
	name := cropName(fs)
	switch {
	case fs.WaterLevel < 30:
		return fmt.Sprintf("%s needs water urgently", name)
	case fs.Diseased:
		return fmt.Sprintf("Treat disease on %s immediately", name)
	case fs.FertilizerLevel < 20:
		return fmt.Sprintf("Apply fertilizer to boost %s growth", name)
	case fs.Health < 50:
		return fmt.Sprintf("%s health is poor, investigate conditions", name)
	default:
		return fmt.Sprintf("%s is growing well, continue current care", name)
	}
}

func cropName(fs FieldSnapshot) string {
	if fs.CropName != "" {
		return fs.CropName
	}
	return "Crop"
}
