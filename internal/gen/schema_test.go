package gen

import (
	"encoding/json"
	"strings"
	"testing"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator("../../configs/changeset.schema.json")
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	return v
}

func validDoc() map[string]any {
	return map[string]any{
		"weather": map[string]any{
			"temperature":   22.5,
			"precipitation": 4.0,
			"condition":     "rainy",
		},
		"soil_moisture": 55.0,
		"crop_changes": []any{
			map[string]any{
				"field_id":                "hex-0-0",
				"growth_increase":         8.0,
				"health_change":           -2.0,
				"disease_risk":            30.0,
				"water_level_change":      -5.0,
				"fertilizer_level_change": -2.0,
				"soil_quality_change":     -0.5,
				"needs_attention":         false,
				"recommendation":          "Wheat is growing well, continue current care",
				"crop_insight":            "Wheat approaching maturity",
			},
		},
		"alerts": []any{
			map[string]any{"kind": "warning", "message": "Storm front approaching"},
		},
		"insights": []any{"SMAP data shows normal soil moisture levels for the region"},
	}
}

func marshalDoc(t *testing.T, doc map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func TestValidatorAcceptsWellFormedChangeSet(t *testing.T) {
	v := newTestValidator(t)

	cs, err := v.Parse(marshalDoc(t, validDoc()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cs.Weather.Temperature != 22.5 || cs.SoilMoisture != 55 {
		t.Fatalf("decoded values wrong: %+v", cs)
	}
	if len(cs.CropChanges) != 1 || cs.CropChanges[0].FieldID != "hex-0-0" {
		t.Fatalf("crop changes wrong: %+v", cs.CropChanges)
	}
	if len(cs.Alerts) != 1 || cs.Alerts[0].Kind != "warning" {
		t.Fatalf("alerts wrong: %+v", cs.Alerts)
	}
}

func TestValidatorRejectsMalformedJSON(t *testing.T) {
	v := newTestValidator(t)
	if _, err := v.Parse([]byte("{not json")); err == nil {
		t.Fatal("want error for malformed json")
	}
}

func TestValidatorRejectsSchemaViolations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(doc map[string]any)
	}{
		{"missing weather", func(doc map[string]any) { delete(doc, "weather") }},
		{"missing soil moisture", func(doc map[string]any) { delete(doc, "soil_moisture") }},
		{"unknown top-level key", func(doc map[string]any) { doc["bonus_money"] = 9999 }},
		{"bad condition", func(doc map[string]any) {
			doc["weather"].(map[string]any)["condition"] = "hailing"
		}},
		{"temperature above band", func(doc map[string]any) {
			doc["weather"].(map[string]any)["temperature"] = 80.0
		}},
		{"soil moisture above 100", func(doc map[string]any) { doc["soil_moisture"] = 150.0 }},
		{"growth above 100", func(doc map[string]any) {
			doc["crop_changes"].([]any)[0].(map[string]any)["growth_increase"] = 120.0
		}},
		{"positive water change", func(doc map[string]any) {
			doc["crop_changes"].([]any)[0].(map[string]any)["water_level_change"] = 5.0
		}},
		{"empty field id", func(doc map[string]any) {
			doc["crop_changes"].([]any)[0].(map[string]any)["field_id"] = ""
		}},
		{"missing recommendation", func(doc map[string]any) {
			delete(doc["crop_changes"].([]any)[0].(map[string]any), "recommendation")
		}},
		{"unknown crop change key", func(doc map[string]any) {
			doc["crop_changes"].([]any)[0].(map[string]any)["yield_multiplier"] = 2.0
		}},
		{"bad alert kind", func(doc map[string]any) {
			doc["alerts"].([]any)[0].(map[string]any)["kind"] = "catastrophe"
		}},
		{"empty alert message", func(doc map[string]any) {
			doc["alerts"].([]any)[0].(map[string]any)["message"] = ""
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := newTestValidator(t)
			doc := validDoc()
			tc.mutate(doc)
			if _, err := v.Parse(marshalDoc(t, doc)); err == nil {
				t.Fatal("want schema rejection")
			}
		})
	}
}

func TestValidatorRangeCheckBacksUpSchema(t *testing.T) {
	// checkRanges must hold even if handed an already-decoded set, so a
	// loosened schema file alone cannot smuggle bad values through.
	cs := ChangeSet{
		SoilMoisture: 50,
		CropChanges: []CropChange{{
			FieldID:          "hex-0-0",
			WaterLevelChange: -60,
			Recommendation:   "anything",
		}},
	}
	err := checkRanges(cs)
	if err == nil || !strings.Contains(err.Error(), "water_level_change") {
		t.Fatalf("err=%v want water_level_change range failure", err)
	}

	cs.CropChanges[0].WaterLevelChange = -10
	if err := checkRanges(cs); err != nil {
		t.Fatalf("in-range set rejected: %v", err)
	}
}

func TestValidatorMissingSchemaFile(t *testing.T) {
	if _, err := NewValidator("../../configs/no-such-schema.json"); err == nil {
		t.Fatal("want compile error for missing schema file")
	}
}
