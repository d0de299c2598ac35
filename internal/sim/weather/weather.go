// Package weather produces next-day weather snapshots: a four-state
// condition Markov chain, a bounded temperature walk per season, and
// soil-moisture accumulation against evaporation.
package weather

import "math/rand/v2"

type Season string

const (
	Spring Season = "Spring"
	Summer Season = "Summer"
	Autumn Season = "Autumn"
	Winter Season = "Winter"
)

// SeasonForDay partitions the 120-day year into four fixed bands.
func SeasonForDay(day, seasonLengthDays int) Season {
	if seasonLengthDays <= 0 {
		seasonLengthDays = 30
	}
	dayInYear := day % (4 * seasonLengthDays)
	switch {
	case dayInYear < seasonLengthDays:
		return Spring
	case dayInYear < 2*seasonLengthDays:
		return Summer
	case dayInYear < 3*seasonLengthDays:
		return Autumn
	default:
		return Winter
	}
}

type Condition string

const (
	Sunny  Condition = "sunny"
	Cloudy Condition = "cloudy"
	Rainy  Condition = "rainy"
	Stormy Condition = "stormy"
)

// Snapshot is one day of weather plus derived ambient readings.
type Snapshot struct {
	Temperature   float64   `json:"temperature"`
	Precipitation float64   `json:"precipitation"`
	Condition     Condition `json:"condition"`
	SoilMoisture  float64   `json:"soil_moisture"`

	Humidity  float64 `json:"humidity"`
	WindSpeed float64 `json:"wind_speed"`
	UVIndex   int     `json:"uv_index"`
}

// TempRange returns the [min,max] temperature band for a season.
func TempRange(season Season) (float64, float64) {
	switch season {
	case Summer:
		return 25, 35
	case Winter:
		return 0, 10
	case Autumn:
		return 10, 20
	default: // Spring
		return 15, 25
	}
}

// Next rolls weather for the day after prev. prev may be nil (day 1),
// in which case the previous condition defaults to sunny and the
// temperature is drawn uniformly within the season band.
func Next(prev *Snapshot, season Season, rng *rand.Rand) Snapshot {
	lo, hi := TempRange(season)

	var temperature float64
	if prev != nil {
		temperature = clamp(prev.Temperature+(rng.Float64()*6-3), lo, hi)
	} else {
		temperature = lo + rng.Float64()*(hi-lo)
	}

	prevCondition := Sunny
	if prev != nil && prev.Condition != "" {
		prevCondition = prev.Condition
	}
	condition, precipitation := transition(prevCondition, rng)

	prevMoisture := 50.0
	if prev != nil {
		prevMoisture = prev.SoilMoisture
	}
	evaporation := 5 + (temperature-15)/20*10
	soilMoisture := clamp(prevMoisture+precipitation*2-evaporation, 10, 100)

	windSpeed := 5 + rng.Float64()*25
	if condition == Stormy {
		windSpeed = 30 + rng.Float64()*40
	}
	uvIndex := rng.IntN(5)
	if condition == Sunny {
		uvIndex = 7 + rng.IntN(4)
	}

	return Snapshot{
		Temperature:   temperature,
		Precipitation: precipitation,
		Condition:     condition,
		SoilMoisture:  soilMoisture,
		Humidity:      40 + precipitation*3,
		WindSpeed:     windSpeed,
		UVIndex:       uvIndex,
	}
}

// transition applies the fixed per-condition threshold bands.
func transition(prev Condition, rng *rand.Rand) (Condition, float64) {
	roll := rng.Float64()
	switch prev {
	case Cloudy:
		switch {
		case roll < 0.3:
			return Sunny, 0
		case roll < 0.7:
			return Cloudy, rng.Float64() * 3
		default:
			return Rainy, 3 + rng.Float64()*10
		}
	case Rainy:
		switch {
		case roll < 0.2:
			return Sunny, 0
		case roll < 0.5:
			return Cloudy, rng.Float64() * 5
		case roll < 0.85:
			return Rainy, 5 + rng.Float64()*15
		default:
			return Stormy, 15 + rng.Float64()*25
		}
	case Stormy:
		switch {
		case roll < 0.4:
			return Rainy, 10 + rng.Float64()*15
		case roll < 0.7:
			return Cloudy, rng.Float64() * 5
		default:
			return Stormy, 20 + rng.Float64()*30
		}
	default: // sunny
		switch {
		case roll < 0.7:
			return Sunny, 0
		case roll < 0.9:
			return Cloudy, rng.Float64() * 2
		default:
			return Rainy, 2 + rng.Float64()*8
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
