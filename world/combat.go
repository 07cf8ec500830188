package world

import (
	"context"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mon/catalog"
	"github.com/pthm-cable/mon/components"
	"github.com/pthm-cable/mon/config"
	"github.com/pthm-cable/mon/mon"
	"github.com/pthm-cable/mon/stats"
	"github.com/pthm-cable/mon/task"
	"github.com/pthm-cable/mon/telemetry"
	"github.com/pthm-cable/mon/traits"
)

// live returns the components of a creature that can still act.
func (w *World) live(e ecs.Entity) (*components.Creature, *components.Activity, bool) {
	c, ok := w.Creature(e)
	if !ok {
		return nil, nil, false
	}
	act := w.activityMap.Get(e)
	if act.Dying {
		return nil, nil, false
	}
	return c, act, true
}

// Damage hits target for amount. A zero source entity means environmental
// damage. Hits on dying or invincible creatures are ignored and return false.
// A damaging hit that leaves the target alive opens a damage invincibility
// window.
func (w *World) Damage(target, source ecs.Entity, amount int, dmgType traits.Type) bool {
	c, act, ok := w.live(target)
	if !ok || act.Invincible() {
		return false
	}

	var from *stats.Stats
	var sourceID uint32
	if !source.IsZero() {
		if sc, ok := w.Creature(source); ok {
			from = sc.Stats
			sourceID = sc.ID
		}
	}

	w.record(telemetry.NewDamageEvent(w.tick, c.ID, sourceID, max(amount, 0)))
	c.Stats.ReceiveDamage(from, amount, dmgType)

	if amount > 0 && c.Stats.Health() > 0 {
		w.StartDamageInvincibility(target)
	}
	return true
}

// Heal restores amount of health to e.
func (w *World) Heal(e ecs.Entity, amount int) bool {
	c, _, ok := w.live(e)
	if !ok || amount <= 0 {
		return false
	}
	before := c.Stats.Health()
	c.Stats.ReceiveHeal(amount)
	w.record(telemetry.NewHealEvent(w.tick, c.ID, c.Stats.Health()-before))
	return true
}

// ConsumeEnergy pays amount of energy if e has it, starting regeneration.
func (w *World) ConsumeEnergy(e ecs.Entity, amount int) bool {
	c, _, ok := w.live(e)
	if !ok || !c.Stats.CanConsumeEnergy(amount) {
		return false
	}
	c.Stats.ConsumeEnergy(amount)
	return true
}

// SetUsingAbility marks e as using an ability, which pauses energy
// regeneration until cleared.
func (w *World) SetUsingAbility(e ecs.Entity, using bool) {
	if act, ok := w.Activity(e); ok && !act.Dying {
		act.UsingAbility = using
	}
}

// SetTerrain moves e onto terrain and updates its speed.
func (w *World) SetTerrain(e ecs.Entity, terrain traits.Terrain) {
	c, ok := w.Creature(e)
	if !ok {
		return
	}
	w.habitatMap.Get(e).Terrain = terrain
	c.Stats.TerrainChanged(terrain)
}

// abilityMode picks the variant an ability uses on terrain: the terrain's
// own movement when available, otherwise the first the ability offers.
func abilityMode(a *mon.Ability, m *mon.Mon, terrain traits.Terrain) (traits.Movement, bool) {
	preferred := traits.MoveGround
	switch {
	case m.HasMovement(traits.MoveAir):
		preferred = traits.MoveAir
	case terrain == traits.TerrainWater:
		preferred = traits.MoveWater
	}
	if _, ok := a.Variant(preferred); ok {
		return preferred, true
	}
	modes := a.Modes()
	if len(modes) == 0 {
		return 0, false
	}
	return modes[0], true
}

// UseAbility fires the ability in slot if it is ready and affordable, paying
// its energy and health costs. Dash variants grant dash invincibility.
func (w *World) UseAbility(e ecs.Entity, slot int) (catalog.AbilityVariant, bool) {
	c, _, ok := w.live(e)
	if !ok || slot < 0 || slot >= len(c.Mon.Abilities) {
		return catalog.AbilityVariant{}, false
	}
	a := c.Mon.Abilities[slot]
	if a == nil {
		return catalog.AbilityVariant{}, false
	}
	mode, ok := abilityMode(a, c.Mon, w.habitatMap.Get(e).Terrain)
	if !ok {
		return catalog.AbilityVariant{}, false
	}
	v, _ := a.Variant(mode)
	if !a.Ready() || !c.Stats.CanConsumeEnergy(v.EnergyCost) {
		return catalog.AbilityVariant{}, false
	}
	if v.HealthCost > 0 && !c.Stats.CanConsumeHealth(v.HealthCost) {
		return catalog.AbilityVariant{}, false
	}

	v, _ = a.Use(mode)
	if v.HealthCost > 0 {
		c.Stats.ConsumeHealth(v.HealthCost)
	}
	if v.EnergyCost > 0 {
		c.Stats.ConsumeEnergy(v.EnergyCost)
	}
	if v.Dash {
		w.StartDashInvincibility(e)
	}
	return v, true
}

// IsInvincible reports whether e ignores damage.
func (w *World) IsInvincible(e ecs.Entity) bool {
	act, ok := w.Activity(e)
	return ok && act.Invincible()
}

// StartDamageInvincibility opens the post-hit invincibility window with its
// blink effect. Does nothing while a window is already open.
func (w *World) StartDamageInvincibility(e ecs.Entity) {
	c, act, ok := w.live(e)
	if !ok {
		return
	}
	player := c.FX
	w.invincible(act, config.Cfg().Derived.InvincibilityDuration, func(co *task.Co, d time.Duration) error {
		player.StartInvincibility()
		defer player.StopInvincibility()
		return co.Delay(d)
	})
}

// StartDashInvincibility opens a short invincibility window for a dash. The
// creature counts as using an ability until it closes.
func (w *World) StartDashInvincibility(e ecs.Entity) {
	_, act, ok := w.live(e)
	if !ok {
		return
	}
	w.invincible(act, config.Cfg().Derived.DashInvincibilityDuration, func(co *task.Co, d time.Duration) error {
		w.SetUsingAbility(e, true)
		defer w.SetUsingAbility(e, false)
		return co.Delay(d)
	})
}

func (w *World) invincible(act *components.Activity, d time.Duration, fn func(co *task.Co, d time.Duration) error) {
	act.Invincibility.Start(w.sched, context.Background(), func(co *task.Co) error {
		return fn(co, d)
	})
}
