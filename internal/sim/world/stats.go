package world

// RecordHarvest credits the sale, updates production totals and the
// average yield per harvest, and grants experience proportional to
// value.
func (w *World) RecordHarvest(value int, fieldID string) {
	w.money += value
	w.stats.TotalHarvests++
	w.stats.TotalRevenue += value
	w.stats.AverageYieldPerField = float64(w.stats.TotalRevenue) / float64(w.stats.TotalHarvests)
	w.AddExperience(float64(value) / 5)
	_ = fieldID // per-field yield tracking is not kept yet
}

// RecordResourceUsage tracks consumption totals and keeps the
// revenue-per-unit efficiency ratios current. Negative deltas (item
// payloads expressed as consumption) count by magnitude.
func (w *World) RecordResourceUsage(water, fertilizer float64) {
	if water < 0 {
		water = -water
	}
	if fertilizer < 0 {
		fertilizer = -fertilizer
	}
	w.stats.TotalWaterUsed += water
	w.stats.TotalFertilizerUsed += fertilizer
	if w.stats.TotalWaterUsed > 0 {
		w.stats.WaterEfficiency = float64(w.stats.TotalRevenue) / w.stats.TotalWaterUsed
	}
	if w.stats.TotalFertilizerUsed > 0 {
		w.stats.FertilizerEfficiency = float64(w.stats.TotalRevenue) / w.stats.TotalFertilizerUsed
	}
}

func (w *World) UpdateEnvironmentalImpact(carbon, pesticideReduction, soilHealth float64) {
	w.stats.CarbonSequestered += carbon
	w.stats.PesticideReduction = pesticideReduction
	w.stats.SoilHealthAverage = soilHealth
}
