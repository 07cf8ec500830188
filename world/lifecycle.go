package world

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mon/components"
	"github.com/pthm-cable/mon/config"
	"github.com/pthm-cable/mon/fx"
	"github.com/pthm-cable/mon/mon"
	"github.com/pthm-cable/mon/passives"
	"github.com/pthm-cable/mon/stats"
	"github.com/pthm-cable/mon/telemetry"
	"github.com/pthm-cable/mon/traits"
)

// SpawnOptions describes a creature to spawn.
type SpawnOptions struct {
	Family      string
	Tier        int // Raised to the family root's tier when below it
	IsPlayer    bool
	StartsWith2 bool
	Dna         *mon.Dna // Nil generates a fresh lineage
	Terrain     traits.Terrain
}

// abilityProbe reports an entity's ability use to its stats.
type abilityProbe struct {
	w *World
	e ecs.Entity
}

func (p abilityProbe) IsUsingAbility() bool {
	act, ok := p.w.Activity(p.e)
	return ok && act.UsingAbility
}

// Spawn creates a creature and plays its appear flash.
func (w *World) Spawn(opts SpawnOptions) (ecs.Entity, error) {
	tier := opts.Tier
	if root, ok := w.cat.Species(opts.Family); ok && tier < root.Tier {
		tier = root.Tier
	}
	m, err := mon.New(w.cat, opts.Family, tier, opts.IsPlayer, opts.StartsWith2, opts.Dna,
		mon.WithRand(w.rng),
		mon.WithScheduler(w.sched),
		mon.WithExpPerTier(config.Cfg().Stats.ExpPerTier),
	)
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("spawning %q: %w", opts.Family, err)
	}

	id := w.nextID
	w.nextID++

	creature := components.Creature{
		ID:       id,
		Mon:      m,
		Passives: passives.NewSource(m),
		FX:       fx.NewPlayer(w.sched),
	}
	habitat := components.Habitat{Terrain: opts.Terrain}
	activity := components.NewActivity()
	entity := w.creatures.NewEntity(&creature, &habitat, &activity)
	w.alive++

	st := stats.New(m, w.sched, stats.Deps{
		Passives:  creature.Passives,
		Abilities: abilityProbe{w: w, e: entity},
		Feedback:  hitFeedback{w: w},
	})
	st.TerrainChanged(opts.Terrain)
	st.Initialize()
	w.creatureMap.Get(entity).Stats = st

	player := creature.FX
	st.DamagedAmount.Subscribe(player.FlashDamage)
	st.Death.On(func() { w.startDeath(entity) })
	st.EnergyRanOut.On(func() {
		w.record(telemetry.NewEnergyRanOutEvent(w.tick, id))
	})
	m.AfterEvolve.Subscribe(func(m *mon.Mon) {
		w.lifetimes.SetSpecies(id, m.ID)
	})

	w.lifetimes.Register(id, w.tick, m.Family, m.ID, m.Tier)
	w.record(telemetry.NewSpawnEvent(w.tick, id, m.Family, m.Tier))
	player.Appear(m.Colors)

	slog.Info("spawn",
		"entity", id,
		"family", m.Family,
		"species", m.ID,
		"tier", m.Tier,
		"passives", m.Passives,
		"player", m.IsPlayer,
	)
	return entity, nil
}

// hitFeedback forwards damaging hits to the world's signals.
type hitFeedback struct {
	w *World
}

func (f hitFeedback) PlayerHit()   { f.w.PlayerHit.Fire() }
func (f hitFeedback) CreatureHit() { f.w.CreatureHit.Fire() }

// startDeath marks e dying. It is despawned on the next update.
func (w *World) startDeath(e ecs.Entity) {
	c, ok := w.Creature(e)
	if !ok {
		return
	}
	act := w.activityMap.Get(e)
	if act.Dying {
		return
	}
	act.Dying = true
	act.UsingAbility = false
	act.Invincibility.Stop()
	act.Transform.Stop()
	c.Stats.StopRegeneration()
	c.FX.StopAll()

	w.record(telemetry.NewDeathEvent(w.tick, c.ID, c.Mon.Family))
	slog.Info("death",
		"entity", c.ID,
		"family", c.Mon.Family,
		"species", c.Mon.ID,
		"tier", c.Mon.Tier,
	)
}

// Despawn removes e immediately. Returns false if e is not alive.
func (w *World) Despawn(e ecs.Entity) bool {
	if !w.world.Alive(e) || !w.creatureMap.HasAll(e) {
		return false
	}
	w.remove(e)
	return true
}

// cleanupDead despawns every dying creature.
func (w *World) cleanupDead() {
	// First pass: collect (must complete before modifying)
	var toRemove []ecs.Entity
	query := w.filter.Query()
	for query.Next() {
		_, _, act := query.Get()
		if act.Dying {
			toRemove = append(toRemove, query.Entity())
		}
	}

	// Second pass: remove (query iteration complete)
	for _, e := range toRemove {
		w.remove(e)
	}
}

func (w *World) remove(e ecs.Entity) {
	c := w.creatureMap.Get(e)
	act := w.activityMap.Get(e)
	id, family := c.ID, c.Mon.Family

	act.Invincibility.Stop()
	act.Transform.Stop()
	c.FX.StopAll()
	c.Stats.Destroy()
	c.Passives.Close()
	c.Mon.Destroy()

	w.record(telemetry.NewDespawnEvent(w.tick, id, family))
	w.lifetimes.UpdateSurvivalTime(id, w.tick, w.dt)
	if life := w.lifetimes.Remove(id); life != nil {
		if err := w.output.WriteLifetime(life.Record(id)); err != nil {
			slog.Warn("lifetime_write_failed", "entity", id, "error", err)
		}
	}

	w.creatures.Remove(e)
	w.alive--

	slog.Info("despawn", "entity", id, "family", family)
}
