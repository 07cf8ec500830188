package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for current window
	spawns       int
	deaths       int
	despawns     int
	hits         int
	damage       int
	heals        int
	healed       int
	evolutions   int
	energyRanOut int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts e toward the current window.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventSpawn:
		c.spawns++
	case EventDamage:
		c.hits++
		c.damage += e.Amount
	case EventHeal:
		c.heals++
		c.healed += e.Amount
	case EventDeath:
		c.deaths++
	case EventEvolve:
		c.evolutions++
	case EventEnergyRanOut:
		c.energyRanOut++
	case EventDespawn:
		c.despawns++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population is the state of the living creatures sampled at window end.
type Population struct {
	HealthRatios []float64 // Current / max health per creature
	EnergyRatios []float64 // Current / max energy per creature
	Tiers        []float64
	Families     int // Distinct families alive
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop Population) WindowStats {
	var meanDamage float64
	if c.hits > 0 {
		meanDamage = float64(c.damage) / float64(c.hits)
	}

	health := ComputeDistribution(pop.HealthRatios)
	energyMean, energyP10, energyP50, energyP90 := ComputeEnergyStats(pop.EnergyRatios)
	tiers := ComputeDistribution(pop.Tiers)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Population: len(pop.HealthRatios),
		Families:   pop.Families,

		Spawns:       c.spawns,
		Deaths:       c.deaths,
		Despawns:     c.despawns,
		Hits:         c.hits,
		Damage:       c.damage,
		MeanDamage:   meanDamage,
		Heals:        c.heals,
		Healed:       c.healed,
		Evolutions:   c.evolutions,
		EnergyRanOut: c.energyRanOut,

		HealthMean: health.Mean,
		HealthStd:  health.Std,
		HealthP10:  health.P10,
		HealthP50:  health.P50,
		HealthP90:  health.P90,

		EnergyMean: energyMean,
		EnergyP10:  energyP10,
		EnergyP50:  energyP50,
		EnergyP90:  energyP90,

		TierMean: tiers.Mean,
		TierStd:  tiers.Std,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = 0
	c.deaths = 0
	c.despawns = 0
	c.hits = 0
	c.damage = 0
	c.heals = 0
	c.healed = 0
	c.evolutions = 0
	c.energyRanOut = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
