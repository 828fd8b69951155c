package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float32

	windowStartTick int64

	// Event counters for current window
	births        int
	deathsStarved int
	deathsOldAge  int
	mealsEaten    int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int64(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordDeath records a death event by cause name.
func (c *Collector) RecordDeath(cause string) {
	switch cause {
	case "starvation":
		c.deathsStarved++
	case "old_age":
		c.deathsOldAge++
	}
}

// RecordMeal records a food item being eaten.
func (c *Collector) RecordMeal() {
	c.mealsEaten++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// Gauges (population, food, claims, generations) are sampled by the
// caller at flush time; energies feed the percentile stats.
func (c *Collector) Flush(
	currentTick int64,
	population, foodCount int,
	energies []float64,
	activeClaims, pendingMatings, maxGeneration int,
) WindowStats {
	mean, p10, p50, p90 := ComputeEnergyStats(energies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Population: population,
		FoodCount:  foodCount,

		Births:         c.births,
		DeathsStarved:  c.deathsStarved,
		DeathsOldAge:   c.deathsOldAge,
		MealsEaten:     c.mealsEaten,
		ActiveClaims:   activeClaims,
		PendingMatings: pendingMatings,
		MaxGeneration:  maxGeneration,

		EnergyMean: mean,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.deathsStarved = 0
	c.deathsOldAge = 0
	c.mealsEaten = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
