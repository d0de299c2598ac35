package world

import (
	"fmt"

	"cultivar.farm/internal/persistence/savefile"
	"cultivar.farm/internal/sim/weather"
)

// SaveSummary is the small serializable export consumed by host
// persistence (save slots, cloud export).
type SaveSummary struct {
	Money      int        `json:"money"`
	Day        int        `json:"day"`
	Season     string     `json:"season"`
	Level      int        `json:"level"`
	Experience float64    `json:"experience"`
	Stats      Statistics `json:"statistics"`
}

func (w *World) Summary() SaveSummary {
	return SaveSummary{
		Money:      w.money,
		Day:        w.day,
		Season:     string(w.season),
		Level:      w.progress.Level,
		Experience: w.progress.Experience,
		Stats:      w.stats,
	}
}

// ExportSave captures the full world as a savefile record.
func (w *World) ExportSave(farmID string) savefile.SaveV1 {
	s := savefile.SaveV1{
		Header:           savefile.Header{Version: 1, FarmID: farmID, Day: w.day},
		Seed:             w.cfg.Seed,
		SeasonLengthDays: w.cfg.SeasonLengthDays,
		Money:            w.money,
		Day:              w.day,
		Season:           string(w.season),
		CurrentWeather:   weatherV1(w.current),

		ActiveFieldItems:     map[string]map[string]int{},
		ActiveGlobalUpgrades: map[string]int{},
		ItemsOwned:           map[string]int{},

		UnlockedSources:    sortedKeys(w.satData.UnlockedSources),
		DataQualityLevel:   w.satData.DataQualityLevel,
		HistoricalDataDays: w.satData.HistoricalDataDays,

		Level:        w.progress.Level,
		Experience:   w.progress.Experience,
		ExpToNext:    w.progress.ExpToNext,
		Achievements: sortedKeys(w.progress.Achievements),
		Technologies: sortedKeys(w.progress.Technologies),

		Stats: savefile.StatsV1(w.stats),
	}

	s.WeatherHistory = make(map[int]savefile.WeatherV1, len(w.history))
	for day, snap := range w.history {
		s.WeatherHistory[day] = weatherV1(snap)
	}

	for _, id := range w.FieldIDs() {
		f := w.fields[id]
		fv := savefile.FieldV1{
			ID:            f.ID,
			Q:             f.Coord.Q,
			R:             f.Coord.R,
			Owned:         f.Owned,
			SoilQuality:   f.SoilQuality,
			PurchasePrice: f.PurchasePrice,
		}
		if p := f.Plant; p != nil {
			fv.Plant = &savefile.PlantV1{
				CropID:     p.Def.ID,
				Stage:      p.Stage,
				Health:     p.Health,
				Water:      p.Water,
				Fertilizer: p.Fertilizer,
				Diseased:   p.Diseased,
			}
		}
		s.Fields = append(s.Fields, fv)
	}

	for fieldID, items := range w.inventory.ActiveFieldItems {
		cp := make(map[string]int, len(items))
		for k, v := range items {
			cp[k] = v
		}
		s.ActiveFieldItems[fieldID] = cp
	}
	for k, v := range w.inventory.ActiveGlobalUpgrades {
		s.ActiveGlobalUpgrades[k] = v
	}
	for k, v := range w.inventory.ItemsOwned {
		s.ItemsOwned[k] = v
	}

	for _, a := range w.alerts {
		s.Alerts = append(s.Alerts, savefile.AlertV1(a))
	}
	return s
}

// RestoreFromSave replaces the world state with a saved one. Crop
// definitions are resolved against the live catalog; an unknown crop id
// fails the whole restore.
func (w *World) RestoreFromSave(s savefile.SaveV1) error {
	fields := map[string]*Field{}
	for _, fv := range s.Fields {
		f := &Field{
			ID:            fv.ID,
			Coord:         Coord{Q: fv.Q, R: fv.R, S: -fv.Q - fv.R},
			Owned:         fv.Owned,
			SoilQuality:   fv.SoilQuality,
			PurchasePrice: fv.PurchasePrice,
		}
		if pv := fv.Plant; pv != nil {
			def, ok := w.catalogs.Plants.Defs[pv.CropID]
			if !ok {
				return fmt.Errorf("restore: unknown crop %q on field %s", pv.CropID, fv.ID)
			}
			f.Plant = &Plant{
				Def:        def,
				Stage:      pv.Stage,
				Health:     pv.Health,
				Water:      pv.Water,
				Fertilizer: pv.Fertilizer,
				Diseased:   pv.Diseased,
			}
		}
		fields[f.ID] = f
	}

	w.fields = fields
	w.money = s.Money
	w.day = s.Day
	w.season = weather.Season(s.Season)
	w.current = weatherFromV1(s.CurrentWeather)
	w.history = map[int]weather.Snapshot{}
	for day, wv := range s.WeatherHistory {
		w.history[day] = weatherFromV1(wv)
	}

	w.inventory = Inventory{
		ActiveFieldItems:     map[string]map[string]int{},
		ActiveGlobalUpgrades: map[string]int{},
		ItemsOwned:           map[string]int{},
	}
	for fieldID, items := range s.ActiveFieldItems {
		cp := make(map[string]int, len(items))
		for k, v := range items {
			cp[k] = v
		}
		w.inventory.ActiveFieldItems[fieldID] = cp
	}
	for k, v := range s.ActiveGlobalUpgrades {
		w.inventory.ActiveGlobalUpgrades[k] = v
	}
	for k, v := range s.ItemsOwned {
		w.inventory.ItemsOwned[k] = v
	}

	w.satData = SatelliteData{
		UnlockedSources:    map[string]struct{}{},
		DataQualityLevel:   s.DataQualityLevel,
		HistoricalDataDays: s.HistoricalDataDays,
	}
	for _, src := range s.UnlockedSources {
		w.satData.UnlockedSources[src] = struct{}{}
	}

	w.progress = Progress{
		Level:        s.Level,
		Experience:   s.Experience,
		ExpToNext:    s.ExpToNext,
		Achievements: map[string]struct{}{},
		Technologies: map[string]struct{}{},
	}
	for _, a := range s.Achievements {
		w.progress.Achievements[a] = struct{}{}
	}
	for _, t := range s.Technologies {
		w.progress.Technologies[t] = struct{}{}
	}

	w.stats = Statistics(s.Stats)

	w.alerts = nil
	for _, a := range s.Alerts {
		w.alerts = append(w.alerts, Alert(a))
	}
	return nil
}

func weatherV1(s weather.Snapshot) savefile.WeatherV1 {
	return savefile.WeatherV1{
		Temperature:   s.Temperature,
		Precipitation: s.Precipitation,
		Condition:     string(s.Condition),
		SoilMoisture:  s.SoilMoisture,
		Humidity:      s.Humidity,
		WindSpeed:     s.WindSpeed,
		UVIndex:       s.UVIndex,
	}
}

func weatherFromV1(v savefile.WeatherV1) weather.Snapshot {
	return weather.Snapshot{
		Temperature:   v.Temperature,
		Precipitation: v.Precipitation,
		Condition:     weather.Condition(v.Condition),
		SoilMoisture:  v.SoilMoisture,
		Humidity:      v.Humidity,
		WindSpeed:     v.WindSpeed,
		UVIndex:       v.UVIndex,
	}
}
