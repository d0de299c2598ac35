package world

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Coord is an axial hex coordinate with the derived cube component.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
	S int `json:"s"`
}

func (c Coord) Distance() int {
	return abs(c.Q) + abs(c.R) + abs(c.S)
}

// FieldID is the canonical id for a hex at (q,r).
func FieldID(q, r int) string {
	return fmt.Sprintf("hex-%d-%d", q, r)
}

// Field is one ownable hexagonal land parcel holding at most one plant.
type Field struct {
	ID            string
	Coord         Coord
	Owned         bool
	SoilQuality   float64
	PurchasePrice int
	Plant         *Plant
}

func NewField(q, r int, owned bool, rng *rand.Rand) *Field {
	c := Coord{Q: q, R: r, S: -q - r}
	return &Field{
		ID:            FieldID(q, r),
		Coord:         c,
		Owned:         owned,
		SoilQuality:   70 + rng.Float64()*30,
		PurchasePrice: 100 + 50*c.Distance(),
	}
}

func (f *Field) IsEmpty() bool { return f.Plant == nil }

// PlantCrop succeeds only on an owned, empty field.
func (f *Field) PlantCrop(p *Plant) bool {
	if !f.Owned || !f.IsEmpty() {
		return false
	}
	f.Plant = p
	return true
}

// Harvest returns the plant and clears the slot, but only when mature.
func (f *Field) Harvest() *Plant {
	if f.Plant == nil || !f.Plant.IsMature() {
		return nil
	}
	p := f.Plant
	f.Plant = nil
	return p
}

// Clear unconditionally empties the plant slot.
func (f *Field) Clear() { f.Plant = nil }

func (f *Field) FertilizeSoil(amount float64) {
	f.SoilQuality = clamp01(f.SoilQuality + amount)
}

func (f *Field) ApplySoilQualityDelta(delta float64) {
	f.SoilQuality = clamp01(f.SoilQuality + delta)
}

// DailyDecay degrades soil and damages the resident plant when the soil
// is poor.
func (f *Field) DailyDecay() {
	f.SoilQuality = clamp01(f.SoilQuality - 0.5)
	if f.Plant != nil && f.SoilQuality < 30 {
		f.Plant.ApplyHealthDelta(-2)
	}
}

// Condition is the plant's health, or neutral 50 when empty.
func (f *Field) Condition() float64 {
	if f.Plant == nil {
		return 50
	}
	return f.Plant.Health
}

// ConditionColor interpolates red-white-green by condition, with a
// square-root curve so extremes read clearly.
func (f *Field) ConditionColor() string {
	c := f.Condition()
	if c < 50 {
		v := int(math.Round(255 * math.Sqrt(c/50)))
		return fmt.Sprintf("rgb(255, %d, %d)", v, v)
	}
	v := int(math.Round(255 * (1 - math.Sqrt((c-50)/50))))
	return fmt.Sprintf("rgb(%d, 255, %d)", v, v)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
