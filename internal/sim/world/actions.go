package world

import (
	"fmt"
	"math"

	"cultivar.farm/internal/protocol"
)

// ActionError reports an invalid player action. The world is never
// mutated when one is returned.
type ActionError struct {
	Code string
	Msg  string
}

func (e *ActionError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Msg) }

func actionErr(code, format string, args ...any) *ActionError {
	return &ActionError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func errUnknownField(id string) *ActionError {
	return actionErr(protocol.ErrUnknownField, "no field %s", id)
}

func errUnknownItem(id string) *ActionError {
	return actionErr(protocol.ErrUnknownItem, "no item %s in catalog", id)
}

func errFieldUnowned(id string) *ActionError {
	return actionErr(protocol.ErrFieldUnowned, "field %s is not owned", id)
}

func errNoFunds(need, have int) *ActionError {
	return actionErr(protocol.ErrNoFunds, "need %d, have %d", need, have)
}

// PurchaseField transfers ownership for the quoted price. Fails whole
// (no debit) when already owned or funds are short; a short purse also
// raises a warning alert, matching the notification feed behavior.
func (w *World) PurchaseField(fieldID string, price int) error {
	f, ok := w.fields[fieldID]
	if !ok {
		return errUnknownField(fieldID)
	}
	if f.Owned {
		return actionErr(protocol.ErrFieldOwned, "field %s already owned", fieldID)
	}
	if w.money < price {
		w.AddAlert(AlertWarning, "Not enough money to purchase this field!")
		return errNoFunds(price, w.money)
	}
	w.money -= price
	f.Owned = true
	w.AddAlert(AlertSuccess, fmt.Sprintf("Field %s purchased!", fieldID))
	w.AddExperience(10)
	return nil
}

// PlantCrop buys a seed from the catalog and plants it on an owned,
// empty field.
func (w *World) PlantCrop(fieldID, cropID string) error {
	f, ok := w.fields[fieldID]
	if !ok {
		return errUnknownField(fieldID)
	}
	def, ok := w.catalogs.Plants.Defs[cropID]
	if !ok {
		return actionErr(protocol.ErrUnknownCrop, "no crop %s in catalog", cropID)
	}
	if !f.Owned {
		return errFieldUnowned(fieldID)
	}
	if !f.IsEmpty() {
		return actionErr(protocol.ErrFieldOccupied, "field %s already has a crop", fieldID)
	}
	if w.money < def.SeedCost {
		return errNoFunds(def.SeedCost, w.money)
	}
	w.money -= def.SeedCost
	f.PlantCrop(NewPlant(def))
	return nil
}

// HarvestField collects a mature plant, credits its value (with any
// active yield boosts) and records the harvest.
func (w *World) HarvestField(fieldID string) (int, error) {
	f, ok := w.fields[fieldID]
	if !ok {
		return 0, errUnknownField(fieldID)
	}
	if f.IsEmpty() {
		return 0, actionErr(protocol.ErrFieldEmpty, "field %s has no crop", fieldID)
	}
	p := f.Harvest()
	if p == nil {
		return 0, actionErr(protocol.ErrNotMature, "crop on %s is not mature", fieldID)
	}
	value := p.HarvestValue()
	if boost := w.yieldBoostPercent(fieldID); boost > 0 {
		value = int(math.Round(float64(value) * (1 + boost/100)))
	}
	w.RecordHarvest(value, fieldID)
	return value, nil
}

// ClearField removes whatever is growing, mature or not.
func (w *World) ClearField(fieldID string) error {
	f, ok := w.fields[fieldID]
	if !ok {
		return errUnknownField(fieldID)
	}
	f.Clear()
	return nil
}
