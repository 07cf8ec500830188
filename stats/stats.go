// Package stats owns a creature's live health and energy pools and the
// values derived from them: damage, healing, consumption, energy
// regeneration, speed and force damping.
package stats

import (
	"context"
	"fmt"

	"github.com/pthm-cable/mon/config"
	"github.com/pthm-cable/mon/event"
	"github.com/pthm-cable/mon/mon"
	"github.com/pthm-cable/mon/task"
	"github.com/pthm-cable/mon/traits"
)

// PassiveSource supplies the summed passive modifier for a stat.
type PassiveSource interface {
	Modifier(target traits.PassiveTarget) float64
}

// AbilityState reports whether the creature is in the middle of an ability.
type AbilityState interface {
	IsUsingAbility() bool
}

// HitFeedback plays the reaction to a damaging hit. Calls are fire and forget.
type HitFeedback interface {
	PlayerHit()
	CreatureHit()
}

type noPassives struct{}

func (noPassives) Modifier(traits.PassiveTarget) float64 { return 0 }

type idle struct{}

func (idle) IsUsingAbility() bool { return false }

type noFeedback struct{}

func (noFeedback) PlayerHit()   {}
func (noFeedback) CreatureHit() {}

// Deps are the collaborators a Stats consults. Nil fields get inert defaults.
type Deps struct {
	Passives  PassiveSource
	Abilities AbilityState
	Feedback  HitFeedback
}

// Stats is the live stat state of one creature.
type Stats struct {
	mon   *mon.Mon
	sched *task.Scheduler

	passives  PassiveSource
	abilities AbilityState
	feedback  HitFeedback

	health Pool
	energy Pool

	speed           float64
	forceDamping    float64
	terrain         traits.Terrain
	terrainModifier float64

	regen task.Slot

	keyHealthBefore string
	keyHealthAfter  string
	keyEnergyBefore string
	keyEnergyAfter  string

	Death         event.Signal
	Damaged       event.Signal
	DamagedAmount event.Event[int]
	DamagedBy     event.Event[*Stats]
	StatsChanged  event.Signal
	EnergyRanOut  event.Signal
}

// New creates the stat state for m. Regeneration runs on sched.
// Call Initialize before use.
func New(m *mon.Mon, sched *task.Scheduler, deps Deps) *Stats {
	s := &Stats{
		mon:       m,
		sched:     sched,
		passives:  deps.Passives,
		abilities: deps.Abilities,
		feedback:  deps.Feedback,
	}
	if s.passives == nil {
		s.passives = noPassives{}
	}
	if s.abilities == nil {
		s.abilities = idle{}
	}
	if s.feedback == nil {
		s.feedback = noFeedback{}
	}
	id := fmt.Sprintf("stats.%p", s)
	s.keyHealthBefore = id + ".health.before"
	s.keyHealthAfter = id + ".health.after"
	s.keyEnergyBefore = id + ".energy.before"
	s.keyEnergyAfter = id + ".energy.after"
	return s
}

// Initialize resets both pools to the creature's base capacity and derives speed.
func (s *Stats) Initialize() {
	s.health.Max = 0
	s.energy.Max = 0

	s.AddHealth(s.mon)
	s.AddEnergy(s.mon)

	s.MonInstanceWasChanged()
}

// Mon returns the creature the stats belong to.
func (s *Stats) Mon() *mon.Mon {
	return s.mon
}

// Health returns current health.
func (s *Stats) Health() int { return s.health.Current }

// MaxHealth returns health capacity.
func (s *Stats) MaxHealth() int { return s.health.Max }

// Energy returns current energy.
func (s *Stats) Energy() int { return s.energy.Current }

// MaxEnergy returns energy capacity.
func (s *Stats) MaxEnergy() int { return s.energy.Max }

// HealthPool returns a copy of the health pool.
func (s *Stats) HealthPool() Pool { return s.health }

// EnergyPool returns a copy of the energy pool.
func (s *Stats) EnergyPool() Pool { return s.energy }

func (s *Stats) statsChange() {
	s.StatsChanged.Fire()
}

// AddHealth grants m's base health capacity and tracks m's evolutions:
// each evolve retracts the old tier's inherited health, then adds the new
// tier's base and inherited health. Repeated calls never stack handlers.
func (s *Stats) AddHealth(m *mon.Mon) {
	s.trackHealth(m)
	s.ChangeMaxHealth(m.Health)
}

func (s *Stats) trackHealth(m *mon.Mon) {
	m.BeforeEvolve.SubscribeKey(s.keyHealthBefore, s.removeHealthInherited)
	m.AfterEvolve.SubscribeKey(s.keyHealthAfter, s.addHealthEvolved)
}

func (s *Stats) addHealthEvolved(m *mon.Mon) {
	s.trackHealth(m)
	s.ChangeMaxHealth(m.Health + m.HealthInherited)
}

func (s *Stats) removeHealthInherited(m *mon.Mon) {
	s.ChangeMaxHealth(-m.HealthInherited)
}

// RemoveHealth retracts m's base health capacity.
func (s *Stats) RemoveHealth(m *mon.Mon) {
	s.ChangeMaxHealth(-m.Health)
}

// ChangeMaxHealth resizes the health pool.
func (s *Stats) ChangeMaxHealth(delta int) {
	s.health.ChangeMax(delta)
	s.statsChange()
}

// ReceiveDamage applies a hit. Damage notifications fire for every call,
// including zero damage; only positive amounts reduce health.
func (s *Stats) ReceiveDamage(source *Stats, amount int, dmgType traits.Type) {
	if source != nil {
		s.DamagedBy.Emit(source)
	}
	s.Damaged.Fire()
	s.DamagedAmount.Emit(amount)

	if amount <= 0 {
		return
	}

	if s.mon.IsPlayer {
		s.feedback.PlayerHit()
	} else {
		s.feedback.CreatureHit()
	}

	wasAlive := s.health.Current > 0
	s.health.Current = max(0, s.health.Current-amount)
	if wasAlive && s.health.Current == 0 {
		s.Death.Fire()
	}

	s.statsChange()
}

// ReceiveHeal restores health up to capacity. Non-positive amounts are ignored.
func (s *Stats) ReceiveHeal(amount int) {
	if amount <= 0 {
		return
	}
	s.health.Add(amount)
	s.statsChange()
}

// CanConsumeHealth reports whether paying amount leaves the creature alive.
func (s *Stats) CanConsumeHealth(amount int) bool {
	return s.health.Current-amount > 0
}

// ConsumeHealth pays amount of health. Callers check CanConsumeHealth first.
func (s *Stats) ConsumeHealth(amount int) {
	s.health.Current -= amount
	s.statsChange()
}

// AddEnergy grants m's base energy capacity and tracks m's evolutions the
// same way AddHealth does.
func (s *Stats) AddEnergy(m *mon.Mon) {
	s.trackEnergy(m)
	s.ChangeMaxEnergy(m.Energy)
}

func (s *Stats) trackEnergy(m *mon.Mon) {
	m.BeforeEvolve.SubscribeKey(s.keyEnergyBefore, s.removeEnergyInherited)
	m.AfterEvolve.SubscribeKey(s.keyEnergyAfter, s.addEnergyEvolved)
}

func (s *Stats) addEnergyEvolved(m *mon.Mon) {
	s.trackEnergy(m)
	s.ChangeMaxEnergy(m.Energy + m.EnergyInherited)
}

func (s *Stats) removeEnergyInherited(m *mon.Mon) {
	s.ChangeMaxEnergy(-m.EnergyInherited)
}

// RemoveEnergy retracts m's base energy capacity.
func (s *Stats) RemoveEnergy(m *mon.Mon) {
	s.ChangeMaxEnergy(-m.Energy)
}

// ChangeMaxEnergy resizes the energy pool.
func (s *Stats) ChangeMaxEnergy(delta int) {
	s.energy.ChangeMax(delta)
	s.statsChange()
}

// ReceiveEnergy adds amount of energy, clamped to [0, capacity].
func (s *Stats) ReceiveEnergy(amount int) {
	s.energy.Add(amount)
	s.statsChange()
}

// CanConsumeEnergy reports whether amount can be paid without going negative.
func (s *Stats) CanConsumeEnergy(amount int) bool {
	return s.energy.Current-amount >= 0
}

// ConsumeEnergy pays amount of energy and starts regenerating.
func (s *Stats) ConsumeEnergy(amount int) {
	s.energy.Add(-amount)
	s.statsChange()
	s.startRegeneration()
}

// Regenerating reports whether the regeneration task is running.
func (s *Stats) Regenerating() bool {
	return s.regen.Active()
}

func (s *Stats) startRegeneration() {
	if s.sched == nil {
		return
	}
	s.regen.Start(s.sched, context.Background(), s.regenerate)
}

// regenerate refills energy one point per interval, pausing while an
// ability is in use. It ends when the pool is full. The first point is
// granted no earlier than the next update.
func (s *Stats) regenerate(co *task.Co) error {
	if err := co.Yield(); err != nil {
		return err
	}
	for s.energy.Current < s.energy.Max {
		if err := co.WaitUntil(s.abilityIdle); err != nil {
			return err
		}
		if s.energy.Full() {
			break
		}
		if s.energy.Current == 0 {
			s.EnergyRanOut.Fire()
		}
		s.energy.Current++
		s.statsChange()

		if err := co.Delay(config.Cfg().Derived.RegenInterval); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stats) abilityIdle() bool {
	return !s.abilities.IsUsingAbility()
}

// StopRegeneration cancels a running regeneration task.
func (s *Stats) StopRegeneration() {
	s.regen.Stop()
}

// TerrainChanged recomputes the terrain speed modifier for terrain.
// Flying creatures ignore terrain.
func (s *Stats) TerrainChanged(terrain traits.Terrain) {
	s.terrain = terrain
	s.terrainModifier = terrainModifier(s.mon.Movement, terrain)
}

// Terrain returns the last terrain reported.
func (s *Stats) Terrain() traits.Terrain {
	return s.terrain
}

func terrainModifier(movement traits.Movement, terrain traits.Terrain) float64 {
	if movement.Has(traits.MoveAir) {
		return 0
	}
	cfg := config.Cfg().World

	var m float64
	if movement.Has(traits.MoveWater) {
		switch terrain {
		case traits.TerrainWater:
			m += cfg.WaterInWater
		case traits.TerrainGround:
			m += cfg.WaterInGround
		}
	}
	if movement.Has(traits.MoveGround) {
		switch terrain {
		case traits.TerrainGround:
			m += cfg.GroundInGround
		case traits.TerrainWater:
			m += cfg.GroundInWater
		}
	}
	return m
}

// MonInstanceWasChanged re-reads base speed and force damping from the
// creature. Player-owned creatures use their player speed.
func (s *Stats) MonInstanceWasChanged() {
	if s.mon.IsPlayer {
		s.speed = float64(s.mon.SpeedPlayer)
	} else {
		s.speed = float64(s.mon.Speed)
	}
	s.forceDamping = s.mon.ForceDamping
	s.terrainModifier = terrainModifier(s.mon.Movement, s.terrain)
}

// Speed returns base speed plus terrain and passive modifiers.
func (s *Stats) Speed() float64 {
	return s.speed + s.terrainModifier + s.passives.Modifier(traits.TargetSpeed)
}

// ForceDamping returns base force damping plus the weight passive modifier.
func (s *Stats) ForceDamping() float64 {
	return s.forceDamping + s.passives.Modifier(traits.TargetWeight)
}

// Destroy stops regeneration, detaches from the creature and drops every subscriber.
func (s *Stats) Destroy() {
	s.StopRegeneration()
	s.mon.BeforeEvolve.UnsubscribeKey(s.keyHealthBefore)
	s.mon.AfterEvolve.UnsubscribeKey(s.keyHealthAfter)
	s.mon.BeforeEvolve.UnsubscribeKey(s.keyEnergyBefore)
	s.mon.AfterEvolve.UnsubscribeKey(s.keyEnergyAfter)

	s.Death.Clear()
	s.Damaged.Clear()
	s.DamagedAmount.Clear()
	s.DamagedBy.Clear()
	s.StatsChanged.Clear()
	s.EnergyRanOut.Clear()
}
