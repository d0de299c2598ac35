package savefile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleSave() SaveV1 {
	return SaveV1{
		Header:           Header{Version: 1, FarmID: "farm-test", Day: 12},
		Seed:             42,
		SeasonLengthDays: 30,
		Money:            730,
		Day:              12,
		Season:           "Spring",
		CurrentWeather: WeatherV1{
			Temperature: 21, Precipitation: 2, Condition: "rainy",
			SoilMoisture: 55, Humidity: 70, WindSpeed: 12, UVIndex: 2,
		},
		WeatherHistory: map[int]WeatherV1{
			11: {Temperature: 24, Condition: "sunny", SoilMoisture: 48, UVIndex: 8},
		},
		Fields: []FieldV1{
			{ID: "hex-0-0", Q: 0, R: 0, Owned: true, SoilQuality: 82.5, PurchasePrice: 100,
				Plant: &PlantV1{CropID: "wheat", Stage: 2, Health: 95, Water: 44, Fertilizer: 28}},
			{ID: "hex-1-0", Q: 1, R: 0, Owned: false, SoilQuality: 74, PurchasePrice: 200},
		},
		ActiveFieldItems:     map[string]map[string]int{"hex-0-0": {"water_drip": 18}},
		ActiveGlobalUpgrades: map[string]int{"landsat_subscription": 40},
		ItemsOwned:           map[string]int{"water_basic": 2},
		UnlockedSources:      []string{"Landsat 8", "SMAP"},
		DataQualityLevel:     1,
		HistoricalDataDays:   12,
		Level:                3,
		Experience:           40,
		ExpToNext:            225,
		Achievements:         []string{"first_harvest"},
		Stats:                StatsV1{TotalHarvests: 4, TotalRevenue: 600, SatelliteDataUsed: 2},
		Alerts: []AlertV1{
			{ID: "a-1", Kind: "warning", Message: "Low water on Field hex-0-0", Day: 11, FieldID: "hex-0-0"},
		},
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves", "12.save.zst")
	want := sampleSave()

	if err := Write(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestWriteCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "1.save.zst")
	if err := Write(path, sampleSave()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "5.save.zst")
	if err := Write(path, sampleSave()); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "5.save.zst" {
		t.Fatalf("dir entries=%v want only the save file", entries)
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.save.zst")
	s := sampleSave()
	s.Header.Version = 2
	if err := Write(path, s); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("want version error")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.save.zst")
	if err := os.WriteFile(path, []byte("not a zstd frame"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("want decode error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.save.zst")); err == nil {
		t.Fatal("want error for missing file")
	}
}
