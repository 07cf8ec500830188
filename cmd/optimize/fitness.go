package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/mon/catalog"
	"github.com/pthm-cable/mon/config"
	"github.com/pthm-cable/mon/game"
	"github.com/pthm-cable/mon/telemetry"
)

// Targets describe the arena the tuner steers toward.
type Targets struct {
	TierMean     float64 // Mean tier of live creatures
	HealthP50    float64 // Median health ratio
	DeathsPerMon float64 // Deaths per live creature per window
}

// DefaultTargets keeps most creatures alive long enough to reach the
// second tier while fights still finish some of them off.
var DefaultTargets = Targets{
	TierMean:     1.0,
	HealthP50:    0.6,
	DeathsPerMon: 0.1,
}

// FitnessEvaluator runs headless arenas and scores their window stats.
type FitnessEvaluator struct {
	params   *ParamVector
	cat      *catalog.Catalog
	maxTicks int32
	seeds    []int64
	base     *config.Config
	targets  Targets

	mu          sync.Mutex
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, cat *catalog.Catalog, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		cat:      cat,
		maxTicks: maxTicks,
		seeds:    seeds,
		base:     baseCfg,
		targets:  DefaultTargets,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel against one shared config.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := *fe.base
	fe.params.ApplyToConfig(&cfg, x)
	config.Set(&cfg)

	qualities := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			qualities[idx] = fe.computeQuality(fe.runSimulation(s))
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, q := range qualities {
		total += q
	}
	quality := total / float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = quality
	fe.mu.Unlock()

	return -quality
}

// runSimulation executes a single headless run and returns its windows.
func (fe *FitnessEvaluator) runSimulation(seed int64) []telemetry.WindowStats {
	var windows []telemetry.WindowStats
	g, err := game.NewGame(fe.cat, game.Options{
		Seed: seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return nil
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.Update()
	}
	return windows
}

// Quality component weights.
const (
	qualityWeightTier     = 0.40
	qualityWeightHealth   = 0.30
	qualityWeightTurnover = 0.30

	qualityWarmupWindows = 1
)

// computeQuality scores windows in [0, 1] by closeness to the targets.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var sum float64
	var n int
	for _, w := range windows[qualityWarmupWindows:] {
		if w.Population == 0 {
			continue
		}
		turnover := float64(w.Deaths) / float64(w.Population)
		sum += qualityWeightTier*closeness(w.TierMean, fe.targets.TierMean, 0.5) +
			qualityWeightHealth*closeness(w.HealthP50, fe.targets.HealthP50, 0.2) +
			qualityWeightTurnover*closeness(turnover, fe.targets.DeathsPerMon, 0.1)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// closeness is a Gaussian score: 1 at target, falling off with width.
func closeness(v, target, width float64) float64 {
	d := (v - target) / width
	return math.Exp(-d * d)
}
