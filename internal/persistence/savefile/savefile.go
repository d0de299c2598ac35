// Package savefile reads and writes whole-farm save snapshots as
// zstd-compressed JSON. The world package maps live state to and from
// these V1 records; this package defines the format only.
package savefile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Header struct {
	Version int    `json:"version"`
	FarmID  string `json:"farm_id"`
	Day     int    `json:"day"`
}

type SaveV1 struct {
	Header Header `json:"header"`

	Seed             int64  `json:"seed"`
	SeasonLengthDays int    `json:"season_length_days"`
	Money            int    `json:"money"`
	Day              int    `json:"day"`
	Season           string `json:"season"`

	CurrentWeather WeatherV1         `json:"current_weather"`
	WeatherHistory map[int]WeatherV1 `json:"weather_history,omitempty"`

	Fields []FieldV1 `json:"fields"`

	ActiveFieldItems     map[string]map[string]int `json:"active_field_items,omitempty"`
	ActiveGlobalUpgrades map[string]int            `json:"active_global_upgrades,omitempty"`
	ItemsOwned           map[string]int            `json:"items_owned,omitempty"`

	UnlockedSources    []string `json:"unlocked_sources,omitempty"`
	DataQualityLevel   float64  `json:"data_quality_level"`
	HistoricalDataDays int      `json:"historical_data_days"`

	Level        int      `json:"level"`
	Experience   float64  `json:"experience"`
	ExpToNext    float64  `json:"exp_to_next"`
	Achievements []string `json:"achievements,omitempty"`
	Technologies []string `json:"technologies,omitempty"`

	Stats StatsV1 `json:"stats"`

	Alerts []AlertV1 `json:"alerts,omitempty"`
}

type WeatherV1 struct {
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	Condition     string  `json:"condition"`
	SoilMoisture  float64 `json:"soil_moisture"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	UVIndex       int     `json:"uv_index"`
}

type FieldV1 struct {
	ID            string   `json:"id"`
	Q             int      `json:"q"`
	R             int      `json:"r"`
	Owned         bool     `json:"owned"`
	SoilQuality   float64  `json:"soil_quality"`
	PurchasePrice int      `json:"purchase_price"`
	Plant         *PlantV1 `json:"plant,omitempty"`
}

type PlantV1 struct {
	CropID     string  `json:"crop_id"`
	Stage      int     `json:"stage"`
	Health     float64 `json:"health"`
	Water      float64 `json:"water"`
	Fertilizer float64 `json:"fertilizer"`
	Diseased   bool    `json:"diseased"`
}

type StatsV1 struct {
	TotalHarvests        int     `json:"total_harvests"`
	TotalRevenue         int     `json:"total_revenue"`
	TotalWaterUsed       float64 `json:"total_water_used"`
	TotalFertilizerUsed  float64 `json:"total_fertilizer_used"`
	AverageYieldPerField float64 `json:"average_yield_per_field"`
	WaterEfficiency      float64 `json:"water_efficiency"`
	FertilizerEfficiency float64 `json:"fertilizer_efficiency"`
	CarbonSequestered    float64 `json:"carbon_sequestered"`
	PesticideReduction   float64 `json:"pesticide_reduction"`
	SoilHealthAverage    float64 `json:"soil_health_average"`
	SatelliteDataUsed    int     `json:"satellite_data_used"`
	AccuratePredictions  int     `json:"accurate_predictions"`
}

type AlertV1 struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Day        int    `json:"day"`
	FieldID    string `json:"field_id,omitempty"`
	DataSource string `json:"data_source,omitempty"`
}

// Write stores a save atomically: temp file, then rename.
func Write(path string, s SaveV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)

	if err := json.NewEncoder(bw).Encode(s); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func Load(path string) (SaveV1, error) {
	var s SaveV1
	f, err := os.Open(path)
	if err != nil {
		return s, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return s, err
	}
	defer dec.Close()

	if err := json.NewDecoder(dec).Decode(&s); err != nil {
		return s, fmt.Errorf("decode save %s: %w", path, err)
	}
	if s.Header.Version != 1 {
		return s, fmt.Errorf("unsupported save version %d", s.Header.Version)
	}
	return s, nil
}
