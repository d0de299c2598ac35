package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Plants PlantCatalog
	Items  ItemCatalog
}

type PlantCatalog struct {
	IDs    []string
	Defs   map[string]PlantDef
	Digest string
}

type PlantDef struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	GrowthStages      int     `json:"growth_stages"`
	BaseGrowthTime    int     `json:"base_growth_time"` // days per stage
	WaterRequirement  float64 `json:"water_requirement"`
	FertilizerBoost   float64 `json:"fertilizer_boost"`
	DiseaseResistance float64 `json:"disease_resistance"`
	MarketValue       int     `json:"market_value"`
	SeedCost          int     `json:"seed_cost"`
}

type ItemCatalog struct {
	IDs    []string
	Defs   map[string]ItemDef
	Digest string
}

type ItemDef struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Kind         string      `json:"kind"` // "water","fertilizer","pesticide","soil_amendment","satellite_data","technology","climate_tool"
	Tier         string      `json:"tier,omitempty"`
	Price        int         `json:"price"`
	UnlockLevel  int         `json:"unlock_level,omitempty"`
	DurationDays int         `json:"duration_days,omitempty"`
	Global       bool        `json:"global,omitempty"`
	Effect       ItemEffect  `json:"effect"`
	DataSource   *DataSource `json:"data_source,omitempty"`
}

type ItemEffect struct {
	Water             float64 `json:"water,omitempty"`
	Fertilizer        float64 `json:"fertilizer,omitempty"`
	Health            float64 `json:"health,omitempty"`
	CureDisease       bool    `json:"cure_disease,omitempty"`
	SoilQuality       float64 `json:"soil_quality,omitempty"`
	GrowthSpeed       float64 `json:"growth_speed,omitempty"`
	YieldBoost        float64 `json:"yield_boost,omitempty"`
	DroughtTolerance  float64 `json:"drought_tolerance,omitempty"`
	DiseaseResistance float64 `json:"disease_resistance,omitempty"`
}

type DataSource struct {
	Satellite       string `json:"satellite"`
	DataType        string `json:"data_type"`
	Resolution      string `json:"resolution,omitempty"`
	UpdateFrequency string `json:"update_frequency,omitempty"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadPlants(filepath.Join(configDir, "plants.json"), &c.Plants); err != nil {
		return nil, err
	}
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}

	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadPlants(path string, out *PlantCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []PlantDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("plants.json: %w", err)
	}
	out.Defs = map[string]PlantDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("plants.json: empty id")
		}
		if d.GrowthStages <= 0 {
			return fmt.Errorf("plants.json: %s: growth_stages must be positive", d.ID)
		}
		if d.BaseGrowthTime <= 0 {
			return fmt.Errorf("plants.json: %s: base_growth_time must be positive", d.ID)
		}
		if d.DiseaseResistance < 0 || d.DiseaseResistance > 100 {
			return fmt.Errorf("plants.json: %s: disease_resistance out of range", d.ID)
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("plants.json: duplicate id %s", d.ID)
		}
		out.Defs[d.ID] = d
	}

	out.IDs = sortedIDs(out.Defs)
	return nil
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Defs = map[string]ItemDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		if d.Price < 0 {
			return fmt.Errorf("items.json: %s: negative price", d.ID)
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("items.json: duplicate id %s", d.ID)
		}
		out.Defs[d.ID] = d
	}

	out.IDs = sortedIDs(out.Defs)
	return nil
}

func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
