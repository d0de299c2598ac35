package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadShippedTuning(t *testing.T) {
	tune, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tune.ProtocolVersion != "1.0" {
		t.Fatalf("protocol_version=%q", tune.ProtocolVersion)
	}
	if tune.StartingMoney != 500 || tune.GridRadius != 4 || tune.SeasonLengthDays != 30 {
		t.Fatalf("core tuning wrong: %+v", tune)
	}
	if len(tune.StartingFields) != 10 || tune.StartingFields[0] != "hex-0-0" {
		t.Fatalf("starting fields wrong: %v", tune.StartingFields)
	}
	if tune.Location.Name != "Central US Farm" {
		t.Fatalf("location=%+v", tune.Location)
	}
	if tune.Remote.Model == "" || tune.Remote.TimeoutSec != 30 {
		t.Fatalf("remote=%+v", tune.Remote)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("protocol_version: \"1.0\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tune, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tune.StartingMoney != 500 || tune.GridRadius != 4 || tune.SeasonLengthDays != 30 {
		t.Fatalf("defaults not applied: %+v", tune)
	}
	if tune.ItemDefaultDurationDays != 30 || tune.BaseExpToLevel != 100 || tune.LevelUpMultiplier != 1.5 {
		t.Fatalf("progression defaults not applied: %+v", tune)
	}
	if tune.Location.Name == "" || tune.Remote.Model == "" {
		t.Fatalf("location/remote defaults not applied: %+v", tune)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("want error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("starting_money: [not an int\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("want error for malformed yaml")
	}
}
