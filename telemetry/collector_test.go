package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.25)
	if c.WindowDurationTicks() != 4 {
		t.Fatalf("ticks per window = %d, want 4", c.WindowDurationTicks())
	}
	if c.ShouldFlush(3) {
		t.Error("flush before the window elapsed")
	}
	if !c.ShouldFlush(4) {
		t.Error("no flush at window end")
	}

	events := []Event{
		NewSpawnEvent(0, 1, "emberpup", 0),
		NewSpawnEvent(0, 2, "tidling", 1),
		NewDamageEvent(1, 1, 2, 3),
		NewDamageEvent(2, 1, 0, 5),
		NewHealEvent(2, 1, 2),
		NewEvolveEvent(3, 2, "tidling", 2),
		NewEnergyRanOutEvent(3, 2),
		NewDeathEvent(3, 1, "emberpup"),
		NewDespawnEvent(4, 1, "emberpup"),
	}
	for _, e := range events {
		c.Record(e)
	}

	s := c.Flush(4, Population{
		HealthRatios: []float64{0.5},
		EnergyRatios: []float64{1},
		Tiers:        []float64{2},
		Families:     1,
	})

	checks := []struct {
		name      string
		got, want int
	}{
		{"spawns", s.Spawns, 2},
		{"hits", s.Hits, 2},
		{"damage", s.Damage, 8},
		{"heals", s.Heals, 1},
		{"healed", s.Healed, 2},
		{"evolutions", s.Evolutions, 1},
		{"energy ran out", s.EnergyRanOut, 1},
		{"deaths", s.Deaths, 1},
		{"despawns", s.Despawns, 1},
		{"population", s.Population, 1},
		{"families", s.Families, 1},
	}
	for _, tt := range checks {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
	if s.MeanDamage != 4 {
		t.Errorf("mean damage = %v, want 4", s.MeanDamage)
	}
	if s.HealthMean != 0.5 || s.TierMean != 2 {
		t.Errorf("health mean = %v tier mean = %v", s.HealthMean, s.TierMean)
	}
	if math.Abs(s.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("sim time = %v, want 1", s.SimTimeSec)
	}

	next := c.Flush(8, Population{})
	if next.WindowStartTick != 4 || next.Spawns != 0 || next.Hits != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventEnergyRanOut.String() != "energy_ran_out" {
		t.Errorf("got %q", EventEnergyRanOut.String())
	}
	if EventType(200).String() != "unknown" {
		t.Errorf("got %q", EventType(200).String())
	}
}
