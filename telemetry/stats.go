package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Population int `csv:"population"`
	Families   int `csv:"families"`

	// Events during window
	Spawns       int     `csv:"spawns"`
	Deaths       int     `csv:"deaths"`
	Despawns     int     `csv:"despawns"`
	Hits         int     `csv:"hits"`
	Damage       int     `csv:"damage"`
	MeanDamage   float64 `csv:"mean_damage"`
	Heals        int     `csv:"heals"`
	Healed       int     `csv:"healed"`
	Evolutions   int     `csv:"evolutions"`
	EnergyRanOut int     `csv:"energy_ran_out"`

	// Health ratio distribution (sampled at window end)
	HealthMean float64 `csv:"health_mean"`
	HealthStd  float64 `csv:"health_std"`
	HealthP10  float64 `csv:"health_p10"`
	HealthP50  float64 `csv:"health_p50"`
	HealthP90  float64 `csv:"health_p90"`

	// Energy ratio distribution
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	TierMean float64 `csv:"tier_mean"`
	TierStd  float64 `csv:"tier_std"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates mean, population std, and percentiles.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	var d Distribution
	d.Mean, d.Std = stat.PopMeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("families", s.Families),
		slog.Int("spawns", s.Spawns),
		slog.Int("deaths", s.Deaths),
		slog.Int("despawns", s.Despawns),
		slog.Int("hits", s.Hits),
		slog.Int("damage", s.Damage),
		slog.Float64("mean_damage", s.MeanDamage),
		slog.Int("heals", s.Heals),
		slog.Int("healed", s.Healed),
		slog.Int("evolutions", s.Evolutions),
		slog.Int("energy_ran_out", s.EnergyRanOut),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("health_std", s.HealthStd),
		slog.Float64("health_p10", s.HealthP10),
		slog.Float64("health_p50", s.HealthP50),
		slog.Float64("health_p90", s.HealthP90),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("tier_mean", s.TierMean),
		slog.Float64("tier_std", s.TierStd),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"families", s.Families,
		"spawns", s.Spawns,
		"deaths", s.Deaths,
		"hits", s.Hits,
		"damage", s.Damage,
		"heals", s.Heals,
		"evolutions", s.Evolutions,
		"energy_ran_out", s.EnergyRanOut,
		"health_mean", s.HealthMean,
		"health_p10", s.HealthP10,
		"energy_mean", s.EnergyMean,
		"tier_mean", s.TierMean,
	)
}
