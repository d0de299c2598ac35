package world

import (
	"fmt"
	"math"
)

// AddExperience accumulates experience and performs a single level
// threshold check. One very large award crosses at most one level per
// call; this mirrors the observed reference behavior.
func (w *World) AddExperience(amount float64) {
	w.progress.Experience += amount
	if w.progress.Experience >= w.progress.ExpToNext {
		w.progress.Level++
		w.progress.ExpToNext = math.Floor(w.progress.ExpToNext * w.cfg.LevelUpMultiplier)
		w.AddAlert(AlertSuccess, fmt.Sprintf("Level up! You are now level %d!", w.progress.Level))
	}
}

func (w *World) UnlockTechnology(techID string) {
	if _, ok := w.progress.Technologies[techID]; ok {
		return
	}
	w.progress.Technologies[techID] = struct{}{}
	w.AddAlert(AlertSuccess, "New technology unlocked!")
}

// EarnAchievement is idempotent; the first award grants bonus
// experience.
func (w *World) EarnAchievement(achievementID string) {
	if _, ok := w.progress.Achievements[achievementID]; ok {
		return
	}
	w.progress.Achievements[achievementID] = struct{}{}
	w.AddAlert(AlertSuccess, "Achievement earned!")
	w.AddExperience(50)
}

func (w *World) HasTechnology(techID string) bool {
	_, ok := w.progress.Technologies[techID]
	return ok
}

// UnlockDataSource adds a satellite to the unlocked set and announces
// it as an insight.
func (w *World) UnlockDataSource(satellite string) {
	if _, ok := w.satData.UnlockedSources[satellite]; ok {
		return
	}
	w.satData.UnlockedSources[satellite] = struct{}{}
	w.AddSatelliteInsight(fmt.Sprintf("New satellite unlocked: %s!", satellite), satellite)
}

func (w *World) ImproveDataQuality(amount float64) {
	w.satData.DataQualityLevel = clamp01(w.satData.DataQualityLevel + amount)
}

func (w *World) RecordDataUsage() {
	w.stats.SatelliteDataUsed++
}
