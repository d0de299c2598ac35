package world

import (
	"os"
	"path/filepath"
	"testing"

	"cultivar.farm/internal/sim/catalogs"
)

func findRepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find repo root from %s", dir)
		}
		dir = parent
	}
}

func loadTestCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Load(filepath.Join(findRepoRoot(t), "configs"))
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return cats
}

func newTestWorld(t *testing.T, seed int64) *World {
	t.Helper()
	w, err := New(Config{
		Seed:           seed,
		StartingFields: []string{"hex-0-0", "hex-0-1", "hex-1-0"},
	}, loadTestCatalogs(t))
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func mustPlant(t *testing.T, w *World, fieldID, cropID string) *Plant {
	t.Helper()
	if err := w.PlantCrop(fieldID, cropID); err != nil {
		t.Fatalf("plant %s on %s: %v", cropID, fieldID, err)
	}
	f, ok := w.Field(fieldID)
	if !ok || f.Plant == nil {
		t.Fatalf("no plant on %s after planting", fieldID)
	}
	return f.Plant
}
