package world

import (
	"context"

	"cultivar.farm/internal/gen"
	"cultivar.farm/internal/sim/weather"
)

// DayLogger is an optional durable sink for per-day bookkeeping
// entries. Implemented in internal/persistence/log.
type DayLogger interface {
	WriteDay(e DayLogEntry) error
}

type DayLogEntry struct {
	Day     int              `json:"day"`
	Season  weather.Season   `json:"season"`
	Weather weather.Snapshot `json:"weather"`
	Money   int              `json:"money"`
	Digest  string           `json:"digest"`
}

// GenSnapshot captures the owned-field context handed to a change
// generator. Values only; generators never see live state.
func (w *World) GenSnapshot() gen.Snapshot {
	snap := gen.Snapshot{
		CurrentDay: w.day,
		Season:     w.season,
		Location: gen.Location{
			Lat:  w.cfg.LocationLat,
			Lon:  w.cfg.LocationLon,
			Name: w.cfg.LocationName,
		},
		ActiveSatellites: w.Satellites(),
		RecentWeather:    w.current,
	}
	for _, id := range w.FieldIDs() {
		f := w.fields[id]
		if !f.Owned {
			continue
		}
		fs := gen.FieldSnapshot{
			ID:          f.ID,
			SoilQuality: f.SoilQuality,
			Health:      100,
			WaterLevel:  100,
		}
		if p := f.Plant; p != nil {
			fs.CropID = p.Def.ID
			fs.CropName = p.Def.Name
			fs.GrowthStage = p.Stage
			fs.MaxGrowthStages = p.Def.GrowthStages
			fs.WaterRequirement = p.Def.WaterRequirement
			fs.DiseaseResistance = p.Def.DiseaseResistance
			fs.Growth = p.GrowthPercent()
			fs.Health = p.Health
			fs.WaterLevel = p.Water
			fs.FertilizerLevel = p.Fertilizer
			fs.Diseased = p.Diseased
		}
		snap.Fields = append(snap.Fields, fs)
	}
	return snap
}

// Advance runs the day-advancement engine: one generator invocation
// amortized over the whole batch, then per-day bookkeeping for each of
// the requested days. Mutation begins only once a valid change set is
// in hand, so a failed generator path never leaves the world partially
// enriched - time still advances via the bookkeeping loop.
func (w *World) Advance(ctx context.Context, g gen.Generator, days int) {
	if days < 1 {
		days = 1
	}

	if g != nil {
		snap := w.GenSnapshot()
		cs, err := g.Generate(ctx, snap, days)
		if err == nil {
			w.applyChangeSet(cs, days)
		}
	}

	for i := 0; i < days; i++ {
		w.advanceDayOnly()
	}
}

func (w *World) applyChangeSet(cs gen.ChangeSet, days int) {
	// Weather is recorded against the pre-increment day.
	w.current = weather.Snapshot{
		Temperature:   cs.Weather.Temperature,
		Precipitation: cs.Weather.Precipitation,
		Condition:     cs.Weather.Condition,
		SoilMoisture:  cs.SoilMoisture,
		Humidity:      w.current.Humidity,
		WindSpeed:     w.current.WindSpeed,
		UVIndex:       w.current.UVIndex,
	}
	w.history[w.day] = w.current

	covered := map[string]struct{}{}
	for _, change := range cs.CropChanges {
		covered[change.FieldID] = struct{}{}
		w.applyCropChange(change)
	}

	// Plants the change set skipped still live through the offline
	// per-day update.
	for _, id := range w.FieldIDs() {
		f := w.fields[id]
		if !f.Owned || f.Plant == nil {
			continue
		}
		if _, ok := covered[f.ID]; ok {
			continue
		}
		for i := 0; i < days; i++ {
			f.Plant.DailyUpdate(w.rng)
			f.DailyDecay()
		}
	}

	for _, a := range cs.Alerts {
		kind := a.Kind
		switch kind {
		case AlertWarning, AlertInfo, AlertSuccess, AlertSatelliteInsight:
		default:
			kind = AlertInfo
		}
		w.AddAlert(kind, a.Message)
	}
	for _, insight := range cs.Insights {
		w.AddSatelliteInsight(insight, "AI Analysis")
	}
}

func (w *World) applyCropChange(change gen.CropChange) {
	f, ok := w.fields[change.FieldID]
	if !ok || f.Plant == nil {
		return
	}
	p := f.Plant

	p.ApplyGrowthDelta(change.GrowthIncrease)
	p.ApplyHealthDelta(change.HealthChange)
	p.ApplyWaterDelta(change.WaterLevelChange)
	p.ApplyFertilizerDelta(change.FertilizerLevelChange)
	f.ApplySoilQualityDelta(change.SoilQualityChange)

	if change.DiseaseRisk > 70 && !p.Diseased && w.rng.Float64()*100 < change.DiseaseRisk {
		p.Infect()
		w.AddFieldAlert(AlertWarning, p.Def.Name+" in "+change.FieldID+" has been infected!", change.FieldID)
	}

	if change.NeedsAttention {
		w.AddFieldAlert(AlertWarning, change.Recommendation, change.FieldID)
	}
	if change.CropInsight != "" {
		w.AddFieldAlert(AlertInfo, change.CropInsight, change.FieldID)
	}
}

// advanceDayOnly is the single-day bookkeeping primitive: day counter,
// season band, inventory expiry purge, observation-history counter and
// the next weather roll. It runs even when enrichment fails.
func (w *World) advanceDayOnly() {
	w.day++
	w.season = weather.SeasonForDay(w.day, w.cfg.SeasonLengthDays)
	w.purgeExpired(w.day)
	w.satData.HistoricalDataDays++

	prev := w.current
	if s, ok := w.history[w.day-1]; ok {
		prev = s
	}
	next := weather.Next(&prev, w.season, w.rng)
	w.history[w.day] = next
	w.current = next

	if w.dayLogger != nil {
		_ = w.dayLogger.WriteDay(DayLogEntry{
			Day:     w.day,
			Season:  w.season,
			Weather: w.current,
			Money:   w.money,
			Digest:  w.StateDigest(),
		})
	}
}
