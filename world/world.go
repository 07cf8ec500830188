// Package world hosts spawned creatures as ark entities and drives their
// stats, effects and timed tasks from a single update loop.
package world

import (
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mon/catalog"
	"github.com/pthm-cable/mon/components"
	"github.com/pthm-cable/mon/config"
	"github.com/pthm-cable/mon/event"
	"github.com/pthm-cable/mon/task"
	"github.com/pthm-cable/mon/telemetry"
)

// World holds every live creature and the scheduler their tasks run on.
type World struct {
	world *ecs.World
	cat   *catalog.Catalog
	sched *task.Scheduler
	rng   *rand.Rand

	creatures *ecs.Map3[components.Creature, components.Habitat, components.Activity]
	filter    *ecs.Filter3[components.Creature, components.Habitat, components.Activity]

	creatureMap *ecs.Map1[components.Creature]
	habitatMap  *ecs.Map1[components.Habitat]
	activityMap *ecs.Map1[components.Activity]

	// Telemetry
	collector *telemetry.Collector
	lifetimes *telemetry.LifetimeTracker
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	onStats   func(telemetry.WindowStats)

	tick   int32
	dt     float32 // seconds per tick
	nextID uint32
	alive  int

	// PlayerHit and CreatureHit fire for every damaging hit, for camera
	// shake and hit sounds.
	PlayerHit   event.Signal
	CreatureHit event.Signal
}

type options struct {
	rng     *rand.Rand
	output  *telemetry.OutputManager
	onStats func(telemetry.WindowStats)
}

// Option configures a World.
type Option func(*options)

// WithRand sets the random source used to generate lineages.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithOutput writes telemetry, perf and lifetime records through om.
func WithOutput(om *telemetry.OutputManager) Option {
	return func(o *options) { o.output = om }
}

// WithStatsCallback calls fn with every flushed stats window.
func WithStatsCallback(fn func(telemetry.WindowStats)) Option {
	return func(o *options) { o.onStats = fn }
}

// New creates an empty world spawning from cat.
func New(cat *catalog.Catalog, opts ...Option) *World {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	cfg := config.Cfg()
	dt := float32(cfg.Derived.TickDuration.Seconds())
	world := ecs.NewWorld()

	return &World{
		world: world,
		cat:   cat,
		sched: task.NewScheduler(),
		rng:   o.rng,

		creatures:   ecs.NewMap3[components.Creature, components.Habitat, components.Activity](world),
		filter:      ecs.NewFilter3[components.Creature, components.Habitat, components.Activity](world),
		creatureMap: ecs.NewMap1[components.Creature](world),
		habitatMap:  ecs.NewMap1[components.Habitat](world),
		activityMap: ecs.NewMap1[components.Activity](world),

		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, dt),
		lifetimes: telemetry.NewLifetimeTracker(),
		perf:      telemetry.NewPerfCollector(cfg.World.TickRate),
		output:    o.output,
		onStats:   o.onStats,

		dt:     dt,
		nextID: 1,
	}
}

// SetCatalog replaces the catalog used by later spawns. Live creatures keep
// the lineage they were generated with.
func (w *World) SetCatalog(cat *catalog.Catalog) {
	w.cat = cat
}

// Catalog returns the catalog new creatures spawn from.
func (w *World) Catalog() *catalog.Catalog {
	return w.cat
}

// Scheduler returns the scheduler driving creature tasks.
func (w *World) Scheduler() *task.Scheduler {
	return w.sched
}

// Tick returns the number of updates run so far.
func (w *World) Tick() int32 {
	return w.tick
}

// Count returns the number of live entities, dying ones included.
func (w *World) Count() int {
	return w.alive
}

// Creature returns the creature components of e.
func (w *World) Creature(e ecs.Entity) (*components.Creature, bool) {
	if !w.world.Alive(e) || !w.creatureMap.HasAll(e) {
		return nil, false
	}
	return w.creatureMap.Get(e), true
}

// Activity returns the transient state of e.
func (w *World) Activity(e ecs.Entity) (*components.Activity, bool) {
	if !w.world.Alive(e) || !w.activityMap.HasAll(e) {
		return nil, false
	}
	return w.activityMap.Get(e), true
}

// Terrain returns the terrain under e.
func (w *World) Terrain(e ecs.Entity) (components.Habitat, bool) {
	if !w.world.Alive(e) || !w.habitatMap.HasAll(e) {
		return components.Habitat{}, false
	}
	return *w.habitatMap.Get(e), true
}

// Entities returns every live entity in storage order.
func (w *World) Entities() []ecs.Entity {
	out := make([]ecs.Entity, 0, w.alive)
	query := w.filter.Query()
	for query.Next() {
		out = append(out, query.Entity())
	}
	return out
}

// Lifetime returns the running lifetime stats of e.
func (w *World) Lifetime(e ecs.Entity) *telemetry.LifetimeStats {
	c, ok := w.Creature(e)
	if !ok {
		return nil
	}
	return w.lifetimes.Get(c.ID)
}

// Perf returns timing stats over the recent updates.
func (w *World) Perf() telemetry.PerfStats {
	return w.perf.Stats()
}

// RecordFrame marks a rendered frame for the FPS readout of interactive
// viewers.
func (w *World) RecordFrame() {
	w.perf.RecordFrame()
}

// Update advances simulated time by dt: timed tasks resume, dead creatures
// are despawned and telemetry windows are flushed.
func (w *World) Update(dt time.Duration) {
	w.perf.StartTick()

	w.perf.StartPhase(telemetry.PhaseTasks)
	w.sched.Advance(dt)
	w.tick++

	w.perf.StartPhase(telemetry.PhaseLifetimes)
	query := w.filter.Query()
	for query.Next() {
		c, _, _ := query.Get()
		w.lifetimes.UpdateSurvivalTime(c.ID, w.tick, w.dt)
	}

	w.perf.StartPhase(telemetry.PhaseCleanup)
	w.cleanupDead()

	w.perf.StartPhase(telemetry.PhaseTelemetry)
	w.flushTelemetry()

	w.perf.EndTick()
}

// Close despawns every creature and cancels all remaining tasks.
func (w *World) Close() {
	for _, e := range w.Entities() {
		w.remove(e)
	}
	w.sched.Close()
}
