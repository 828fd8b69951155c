package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats summarizes one stats window for CSV output and the live
// observer feed.
type WindowStats struct {
	WindowStartTick int64   `csv:"window_start_tick" json:"window_start_tick"`
	WindowEndTick   int64   `csv:"window_end_tick" json:"window_end_tick"`
	SimTimeSec      float64 `csv:"sim_time_sec" json:"sim_time_sec"`

	Population int `csv:"population" json:"population"`
	FoodCount  int `csv:"food_count" json:"food_count"`

	Births         int `csv:"births" json:"births"`
	DeathsStarved  int `csv:"deaths_starved" json:"deaths_starved"`
	DeathsOldAge   int `csv:"deaths_old_age" json:"deaths_old_age"`
	MealsEaten     int `csv:"meals_eaten" json:"meals_eaten"`
	ActiveClaims   int `csv:"active_claims" json:"active_claims"`
	PendingMatings int `csv:"pending_matings" json:"pending_matings"`
	MaxGeneration  int `csv:"max_generation" json:"max_generation"`

	EnergyMean float64 `csv:"energy_mean" json:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10" json:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50" json:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90" json:"energy_p90"`
}

// ComputeEnergyStats returns mean and empirical p10/p50/p90 of values.
// Returns all zeros for an empty slice.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90
}
