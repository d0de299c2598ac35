package world

import (
	"math"
	"math/rand/v2"

	"cultivar.farm/internal/sim/catalogs"
)

// Plant is a single crop instance growing in a field. Growth stage is
// monotonically non-decreasing; health, water and fertilizer stay in
// [0,100].
type Plant struct {
	Def        catalogs.PlantDef
	Stage      int
	Health     float64
	Water      float64
	Fertilizer float64
	Diseased   bool
}

func NewPlant(def catalogs.PlantDef) *Plant {
	return &Plant{
		Def:    def,
		Health: 100,
		Water:  50,
	}
}

func (p *Plant) IsMature() bool { return p.Stage >= p.Def.GrowthStages }

// GrowthPercent is the plant's progress toward maturity in [0,100].
func (p *Plant) GrowthPercent() float64 {
	return float64(p.Stage) / float64(p.Def.GrowthStages) * 100
}

// HarvestValue is zero until mature, then scales market value by health.
func (p *Plant) HarvestValue() int {
	if !p.IsMature() {
		return 0
	}
	return int(math.Round(float64(p.Def.MarketValue) * p.Health / 100))
}

func (p *Plant) NeedsWater() bool { return p.Water < 30 }

func (p *Plant) NeedsFertilizer() bool { return p.Fertilizer < 20 && p.Stage > 0 }

// ApplyGrowthDelta converts a percentage-of-total-progress increment
// into a stage increment. No-op once mature.
func (p *Plant) ApplyGrowthDelta(percent float64) {
	if p.IsMature() || percent <= 0 {
		return
	}
	total := float64(p.Def.GrowthStages)
	progress := math.Min(100, p.GrowthPercent()+percent)
	stage := int(math.Floor(progress / 100 * total))
	if stage > p.Def.GrowthStages {
		stage = p.Def.GrowthStages
	}
	if stage > p.Stage {
		p.Stage = stage
	}
}

func (p *Plant) ApplyHealthDelta(delta float64) {
	p.Health = clamp01(p.Health + delta)
}

func (p *Plant) ApplyWaterDelta(delta float64) {
	p.Water = clamp01(p.Water + delta)
}

func (p *Plant) ApplyFertilizerDelta(delta float64) {
	p.Fertilizer = clamp01(p.Fertilizer + delta)
}

// Infect marks the plant diseased with an immediate health penalty.
// Idempotent: a diseased plant is not penalized again.
func (p *Plant) Infect() {
	if p.Diseased {
		return
	}
	p.Diseased = true
	p.ApplyHealthDelta(-20)
}

// Cure clears the diseased flag only; health recovery is a separate
// explicit action.
func (p *Plant) Cure() { p.Diseased = false }

// DailyUpdate is the offline per-day plant evolution used when no
// change-set entry covers this plant.
func (p *Plant) DailyUpdate(rng *rand.Rand) {
	p.ApplyWaterDelta(-p.Def.WaterRequirement / 10)
	p.ApplyFertilizerDelta(-2)

	if !p.IsMature() {
		if rng.Float64() < 1/float64(p.Def.BaseGrowthTime) {
			p.Stage++
		}
	}

	if p.Water < 20 {
		p.ApplyHealthDelta(-5) // drought damage
	}

	if !p.Diseased && rng.Float64() > p.Def.DiseaseResistance/100 {
		if rng.Float64() < 0.05 {
			p.Infect()
		}
	}

	if p.Diseased {
		p.ApplyHealthDelta(-3)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
