// Package world holds the authoritative farm state and the
// day-advancement engine that mutates it. All state is single-writer:
// callers must serialize access (the transport layer owns the lock).
package world

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"cultivar.farm/internal/sim/catalogs"
	"cultivar.farm/internal/sim/tuning"
	"cultivar.farm/internal/sim/weather"
)

type Config struct {
	Seed int64

	StartingMoney  int
	StartingFields []string
	GridRadius     int

	SeasonLengthDays int

	LocationLat  float64
	LocationLon  float64
	LocationName string

	ItemDefaultDurationDays int
	BaseExpToLevel          float64
	LevelUpMultiplier       float64
}

// ConfigFromTuning maps the loaded tuning file onto a world config.
func ConfigFromTuning(t tuning.Tuning, seed int64) Config {
	return Config{
		Seed:                    seed,
		StartingMoney:           t.StartingMoney,
		StartingFields:          t.StartingFields,
		GridRadius:              t.GridRadius,
		SeasonLengthDays:        t.SeasonLengthDays,
		LocationLat:             t.Location.Lat,
		LocationLon:             t.Location.Lon,
		LocationName:            t.Location.Name,
		ItemDefaultDurationDays: t.ItemDefaultDurationDays,
		BaseExpToLevel:          t.BaseExpToLevel,
		LevelUpMultiplier:       t.LevelUpMultiplier,
	}
}

func (c *Config) applyDefaults() {
	if c.StartingMoney <= 0 {
		c.StartingMoney = 500
	}
	if c.GridRadius <= 0 {
		c.GridRadius = 4
	}
	if c.SeasonLengthDays <= 0 {
		c.SeasonLengthDays = 30
	}
	if c.LocationName == "" {
		c.LocationLat, c.LocationLon, c.LocationName = 40.7, -74.0, "Central US Farm"
	}
	if c.ItemDefaultDurationDays <= 0 {
		c.ItemDefaultDurationDays = 30
	}
	if c.BaseExpToLevel <= 0 {
		c.BaseExpToLevel = 100
	}
	if c.LevelUpMultiplier <= 0 {
		c.LevelUpMultiplier = 1.5
	}
}

// SatelliteData tracks which data sources the player has unlocked and
// how much observation history has accumulated.
type SatelliteData struct {
	UnlockedSources    map[string]struct{}
	DataQualityLevel   float64
	HistoricalDataDays int
}

type Progress struct {
	Level        int
	Experience   float64
	ExpToNext    float64
	Achievements map[string]struct{}
	Technologies map[string]struct{}
}

type Statistics struct {
	TotalHarvests       int     `json:"total_harvests"`
	TotalRevenue        int     `json:"total_revenue"`
	TotalWaterUsed      float64 `json:"total_water_used"`
	TotalFertilizerUsed float64 `json:"total_fertilizer_used"`

	AverageYieldPerField float64 `json:"average_yield_per_field"`
	WaterEfficiency      float64 `json:"water_efficiency"`
	FertilizerEfficiency float64 `json:"fertilizer_efficiency"`

	CarbonSequestered  float64 `json:"carbon_sequestered"`
	PesticideReduction float64 `json:"pesticide_reduction"`
	SoilHealthAverage  float64 `json:"soil_health_average"`

	SatelliteDataUsed   int `json:"satellite_data_used"`
	AccuratePredictions int `json:"accurate_predictions"`
}

// World is the aggregate owning money, fields, inventory, progress,
// statistics and alerts. It is not safe for concurrent use.
type World struct {
	cfg      Config
	catalogs *catalogs.Catalogs
	rng      *rand.Rand

	money  int
	fields map[string]*Field

	day     int
	season  weather.Season
	current weather.Snapshot
	history map[int]weather.Snapshot

	inventory Inventory
	satData   SatelliteData
	progress  Progress
	stats     Statistics
	alerts    []Alert

	alertLogger AlertLogger
	dayLogger   DayLogger
}

func New(cfg Config, cats *catalogs.Catalogs) (*World, error) {
	cfg.applyDefaults()
	if cats == nil {
		return nil, fmt.Errorf("nil catalogs")
	}

	w := &World{
		cfg:      cfg,
		catalogs: cats,
		rng:      SeededRNG(cfg.Seed),
	}
	w.bootstrap()
	return w, nil
}

// SetAlertLogger attaches an optional durable alert sink.
func (w *World) SetAlertLogger(l AlertLogger) { w.alertLogger = l }

// SetDayLogger attaches an optional durable per-day sink.
func (w *World) SetDayLogger(l DayLogger) { w.dayLogger = l }

func (w *World) bootstrap() {
	w.money = w.cfg.StartingMoney
	w.day = 1
	w.season = weather.SeasonForDay(1, w.cfg.SeasonLengthDays)
	w.current = weather.Snapshot{
		Temperature:   20,
		Precipitation: 2.5,
		Condition:     weather.Sunny,
		SoilMoisture:  50,
		Humidity:      65,
		WindSpeed:     12,
		UVIndex:       6,
	}
	w.history = map[int]weather.Snapshot{}

	starting := map[string]struct{}{}
	for _, id := range w.cfg.StartingFields {
		starting[id] = struct{}{}
	}
	w.fields = map[string]*Field{}
	r := w.cfg.GridRadius
	for q := -r; q <= r; q++ {
		for rr := -r; rr <= r; rr++ {
			if abs(q)+abs(rr)+abs(-q-rr) > 2*r {
				continue
			}
			id := FieldID(q, rr)
			_, owned := starting[id]
			w.fields[id] = NewField(q, rr, owned, w.rng)
		}
	}

	w.inventory = Inventory{
		ActiveFieldItems:     map[string]map[string]int{},
		ActiveGlobalUpgrades: map[string]int{},
		ItemsOwned:           map[string]int{},
	}
	w.satData = SatelliteData{
		UnlockedSources:    map[string]struct{}{"SMAP": {}},
		DataQualityLevel:   30,
		HistoricalDataDays: 0,
	}
	w.progress = Progress{
		Level:        1,
		ExpToNext:    w.cfg.BaseExpToLevel,
		Achievements: map[string]struct{}{},
		Technologies: map[string]struct{}{
			"basic_irrigation": {},
			"organic_farming":  {},
		},
	}
	w.stats = Statistics{SoilHealthAverage: 85}
	w.alerts = nil

	w.AddAlert(AlertInfo, "Welcome to Cultivar! Use satellite data to optimize your farming.")
	w.AddSatelliteInsight("SMAP satellite unlocked! Monitor soil moisture every 2-3 days at 9km resolution.", "SMAP")
}

// Reset restores the bootstrap state, reseeding the RNG.
func (w *World) Reset() {
	w.rng = SeededRNG(w.cfg.Seed)
	w.bootstrap()
}

func (w *World) Config() Config               { return w.cfg }
func (w *World) Money() int                   { return w.money }
func (w *World) Day() int                     { return w.day }
func (w *World) Season() weather.Season       { return w.season }
func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }

func (w *World) CurrentWeather() weather.Snapshot { return w.current }

// WeatherOn returns the recorded snapshot for a past day, if any.
func (w *World) WeatherOn(day int) (weather.Snapshot, bool) {
	s, ok := w.history[day]
	return s, ok
}

func (w *World) Field(id string) (*Field, bool) {
	f, ok := w.fields[id]
	return f, ok
}

func (w *World) FieldIDs() []string {
	return sortedKeys(w.fields)
}

func (w *World) OwnedFieldCount() int {
	n := 0
	for _, f := range w.fields {
		if f.Owned {
			n++
		}
	}
	return n
}

func (w *World) Progress() Progress   { return w.progress }
func (w *World) Stats() Statistics    { return w.stats }
func (w *World) Satellites() []string { return sortedKeys(w.satData.UnlockedSources) }

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
