package gen

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator gates remote generator output. Anything that fails the JSON
// Schema or the numeric-range contract is a schema failure wholesale;
// the caller falls back rather than clamping.
type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator(schemaPath string) (*Validator, error) {
	s, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("compile changeset schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Parse validates raw JSON against the schema and decodes it.
func (v *Validator) Parse(raw []byte) (ChangeSet, error) {
	var cs ChangeSet

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return cs, fmt.Errorf("changeset json: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return cs, fmt.Errorf("changeset schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cs); err != nil {
		return cs, fmt.Errorf("changeset decode: %w", err)
	}
	if err := checkRanges(cs); err != nil {
		return cs, err
	}
	return cs, nil
}

// checkRanges re-asserts the numeric contract independently of the
// schema file, so a stale or edited schema cannot loosen it.
func checkRanges(cs ChangeSet) error {
	for _, c := range cs.CropChanges {
		switch {
		case c.FieldID == "":
			return fmt.Errorf("crop change: empty field_id")
		case c.GrowthIncrease < 0 || c.GrowthIncrease > 100:
			return fmt.Errorf("crop change %s: growth_increase %v out of [0,100]", c.FieldID, c.GrowthIncrease)
		case c.HealthChange < -50 || c.HealthChange > 50:
			return fmt.Errorf("crop change %s: health_change %v out of [-50,50]", c.FieldID, c.HealthChange)
		case c.DiseaseRisk < 0 || c.DiseaseRisk > 100:
			return fmt.Errorf("crop change %s: disease_risk %v out of [0,100]", c.FieldID, c.DiseaseRisk)
		case c.WaterLevelChange < -50 || c.WaterLevelChange > 0:
			return fmt.Errorf("crop change %s: water_level_change %v out of [-50,0]", c.FieldID, c.WaterLevelChange)
		case c.FertilizerLevelChange < -20 || c.FertilizerLevelChange > 0:
			return fmt.Errorf("crop change %s: fertilizer_level_change %v out of [-20,0]", c.FieldID, c.FertilizerLevelChange)
		case c.SoilQualityChange < -5 || c.SoilQualityChange > 2:
			return fmt.Errorf("crop change %s: soil_quality_change %v out of [-5,2]", c.FieldID, c.SoilQualityChange)
		}
	}
	if cs.SoilMoisture < 0 || cs.SoilMoisture > 100 {
		return fmt.Errorf("soil_moisture %v out of [0,100]", cs.SoilMoisture)
	}
	return nil
}
