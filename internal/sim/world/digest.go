package world

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// StateDigest hashes the observable simulation state in a fixed order.
// Two worlds that report the same digest are indistinguishable to a
// player; determinism tests compare digests across seeded runs.
func (w *World) StateDigest() string {
	h := sha256.New()

	fmt.Fprintf(h, "day=%d season=%s money=%d\n", w.day, w.season, w.money)
	fmt.Fprintf(h, "weather=%.4f/%.4f/%s/%.4f\n",
		w.current.Temperature, w.current.Precipitation, w.current.Condition, w.current.SoilMoisture)

	for _, id := range w.FieldIDs() {
		f := w.fields[id]
		fmt.Fprintf(h, "field=%s owned=%t soil=%.4f price=%d", f.ID, f.Owned, f.SoilQuality, f.PurchasePrice)
		if p := f.Plant; p != nil {
			fmt.Fprintf(h, " crop=%s stage=%d health=%.4f water=%.4f fert=%.4f diseased=%t",
				p.Def.ID, p.Stage, p.Health, p.Water, p.Fertilizer, p.Diseased)
		}
		io.WriteString(h, "\n")
	}

	for _, fieldID := range sortedKeys(w.inventory.ActiveFieldItems) {
		items := w.inventory.ActiveFieldItems[fieldID]
		for _, itemID := range sortedKeys(items) {
			fmt.Fprintf(h, "active=%s/%s/%d\n", fieldID, itemID, items[itemID])
		}
	}
	for _, itemID := range sortedKeys(w.inventory.ActiveGlobalUpgrades) {
		fmt.Fprintf(h, "global=%s/%d\n", itemID, w.inventory.ActiveGlobalUpgrades[itemID])
	}
	for _, itemID := range sortedKeys(w.inventory.ItemsOwned) {
		fmt.Fprintf(h, "owned=%s/%d\n", itemID, w.inventory.ItemsOwned[itemID])
	}

	fmt.Fprintf(h, "level=%d exp=%.4f next=%.4f\n",
		w.progress.Level, w.progress.Experience, w.progress.ExpToNext)
	fmt.Fprintf(h, "harvests=%d revenue=%d\n", w.stats.TotalHarvests, w.stats.TotalRevenue)

	return hex.EncodeToString(h.Sum(nil))
}
