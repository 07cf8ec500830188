package world

import (
	"log/slog"

	"github.com/pthm-cable/mon/telemetry"
)

func (w *World) record(e telemetry.Event) {
	w.collector.Record(e)
	w.lifetimes.Apply(e)
}

// population samples the live creatures for a stats window.
func (w *World) population() telemetry.Population {
	var pop telemetry.Population
	query := w.filter.Query()
	for query.Next() {
		c, _, act := query.Get()
		if act.Dying {
			continue
		}
		health, energy := c.Stats.HealthPool(), c.Stats.EnergyPool()
		pop.HealthRatios = append(pop.HealthRatios, health.Ratio())
		pop.EnergyRatios = append(pop.EnergyRatios, energy.Ratio())
		pop.Tiers = append(pop.Tiers, float64(c.Mon.Tier))
	}
	pop.Families = w.lifetimes.ActiveFamilyCount()
	return pop
}

func (w *World) flushTelemetry() {
	if !w.collector.ShouldFlush(w.tick) {
		return
	}

	stats := w.collector.Flush(w.tick, w.population())
	stats.LogStats()
	if w.onStats != nil {
		w.onStats(stats)
	}
	if err := w.output.WriteTelemetry(stats); err != nil {
		slog.Warn("telemetry_write_failed", "error", err)
	}

	perf := w.perf.Stats()
	perf.LogStats()
	if err := w.output.WritePerf(perf, w.tick); err != nil {
		slog.Warn("perf_write_failed", "error", err)
	}
}
