package world

import "cultivar.farm/internal/sim/catalogs"

// Inventory holds per-field active effects, global upgrades and
// owned-but-unapplied consumables. An effect is active iff its expiry
// day is strictly greater than the current day.
type Inventory struct {
	// fieldID -> itemID -> expiresOnDay
	ActiveFieldItems map[string]map[string]int
	// itemID -> expiresOnDay
	ActiveGlobalUpgrades map[string]int
	// itemID -> quantity
	ItemsOwned map[string]int
}

// PurchaseItem debits price x quantity and adds the items to the owned
// pool. Experience is granted proportional to spend.
func (w *World) PurchaseItem(itemID string, quantity int) error {
	item, ok := w.catalogs.Items.Defs[itemID]
	if !ok {
		return errUnknownItem(itemID)
	}
	if quantity < 1 {
		quantity = 1
	}
	if item.UnlockLevel > 0 && w.progress.Level < item.UnlockLevel {
		return actionErr("E_BAD_REQUEST", "item %s requires level %d", itemID, item.UnlockLevel)
	}
	total := item.Price * quantity
	if w.money < total {
		return errNoFunds(total, w.money)
	}
	w.money -= total
	w.inventory.ItemsOwned[itemID] += quantity
	w.AddExperience(float64(item.Price) / 10)
	return nil
}

// ApplyItemToField consumes one owned item, applies its immediate
// effect payload to the field, and records a timed activation when the
// item has a duration.
func (w *World) ApplyItemToField(fieldID, itemID string) error {
	f, ok := w.fields[fieldID]
	if !ok {
		return errUnknownField(fieldID)
	}
	if !f.Owned {
		return errFieldUnowned(fieldID)
	}
	item, ok := w.catalogs.Items.Defs[itemID]
	if !ok {
		return errUnknownItem(itemID)
	}
	if w.inventory.ItemsOwned[itemID] < 1 {
		return actionErr("E_NO_ITEM", "no %s in inventory", itemID)
	}
	w.inventory.ItemsOwned[itemID]--

	w.applyEffect(f, item.Effect)

	duration := item.DurationDays
	if duration <= 0 {
		duration = w.cfg.ItemDefaultDurationDays
	}
	if w.inventory.ActiveFieldItems[fieldID] == nil {
		w.inventory.ActiveFieldItems[fieldID] = map[string]int{}
	}
	w.inventory.ActiveFieldItems[fieldID][itemID] = w.day + duration
	return nil
}

// ApplyItem routes an owned item to the right activation path. Global
// items (satellite subscriptions, climate tools) do not need a field.
func (w *World) ApplyItem(fieldID, itemID string) error {
	item, ok := w.catalogs.Items.Defs[itemID]
	if !ok {
		return errUnknownItem(itemID)
	}
	if !item.Global {
		return w.ApplyItemToField(fieldID, itemID)
	}
	if w.inventory.ItemsOwned[itemID] < 1 {
		return actionErr("E_NO_ITEM", "no %s in inventory", itemID)
	}
	w.inventory.ItemsOwned[itemID]--
	if err := w.ApplyGlobalUpgrade(itemID, item.DurationDays); err != nil {
		return err
	}
	if ds := item.DataSource; ds != nil {
		w.UnlockDataSource(ds.Satellite)
	}
	return nil
}

// ApplyGlobalUpgrade activates a farm-wide effect until day+duration.
func (w *World) ApplyGlobalUpgrade(itemID string, duration int) error {
	if _, ok := w.catalogs.Items.Defs[itemID]; !ok {
		return errUnknownItem(itemID)
	}
	if duration <= 0 {
		duration = w.cfg.ItemDefaultDurationDays
	}
	w.inventory.ActiveGlobalUpgrades[itemID] = w.day + duration
	return nil
}

func (w *World) applyEffect(f *Field, e catalogs.ItemEffect) {
	if f.Plant != nil {
		if e.Water != 0 {
			f.Plant.ApplyWaterDelta(e.Water)
			w.RecordResourceUsage(e.Water, 0)
		}
		if e.Fertilizer != 0 {
			f.Plant.ApplyFertilizerDelta(e.Fertilizer)
			w.RecordResourceUsage(0, e.Fertilizer)
		}
		if e.CureDisease {
			f.Plant.Cure()
		}
		if e.Health != 0 {
			f.Plant.ApplyHealthDelta(e.Health)
		}
	}
	if e.SoilQuality != 0 {
		f.FertilizeSoil(e.SoilQuality)
	}
}

// ItemActive reports whether an item effect is active for the field,
// either directly or via a global upgrade.
func (w *World) ItemActive(fieldID, itemID string) bool {
	if exp, ok := w.inventory.ActiveGlobalUpgrades[itemID]; ok && exp > w.day {
		return true
	}
	items, ok := w.inventory.ActiveFieldItems[fieldID]
	if !ok {
		return false
	}
	exp, ok := items[itemID]
	return ok && exp > w.day
}

// ActiveItems lists item ids currently active for a field.
func (w *World) ActiveItems(fieldID string) []string {
	var out []string
	for itemID, exp := range w.inventory.ActiveFieldItems[fieldID] {
		if exp > w.day {
			out = append(out, itemID)
		}
	}
	for itemID, exp := range w.inventory.ActiveGlobalUpgrades {
		if exp > w.day {
			out = append(out, itemID)
		}
	}
	return out
}

func (w *World) OwnedItemCount(itemID string) int {
	return w.inventory.ItemsOwned[itemID]
}

// yieldBoostPercent sums yield boosts from effects active on a field.
func (w *World) yieldBoostPercent(fieldID string) float64 {
	var boost float64
	for _, itemID := range w.ActiveItems(fieldID) {
		if item, ok := w.catalogs.Items.Defs[itemID]; ok {
			boost += item.Effect.YieldBoost
		}
	}
	return boost
}

// purgeExpired removes every activation whose expiry is at or before
// the given day.
func (w *World) purgeExpired(day int) {
	for fieldID, items := range w.inventory.ActiveFieldItems {
		for itemID, exp := range items {
			if exp <= day {
				delete(items, itemID)
			}
		}
		if len(items) == 0 {
			delete(w.inventory.ActiveFieldItems, fieldID)
		}
	}
	for itemID, exp := range w.inventory.ActiveGlobalUpgrades {
		if exp <= day {
			delete(w.inventory.ActiveGlobalUpgrades, itemID)
		}
	}
}
