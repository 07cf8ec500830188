package mon

import (
	"context"
	"time"

	"github.com/pthm-cable/mon/catalog"
	"github.com/pthm-cable/mon/task"
	"github.com/pthm-cable/mon/traits"
)

// Ability is a creature's instance of a catalog ability. It keeps only the
// variants usable with the creature's movement flags and tracks cooldown.
type Ability struct {
	Name     string
	variants map[traits.Movement]catalog.AbilityVariant

	sched    *task.Scheduler
	cooldown task.Slot
	readyAt  time.Duration
}

// newAbility returns nil when no variant matches movement.
func newAbility(cat *catalog.Catalog, name string, movement traits.Movement, sched *task.Scheduler) *Ability {
	variants := cat.AbilityVariants(name, movement)
	if variants == nil {
		return nil
	}
	return &Ability{Name: name, variants: variants, sched: sched}
}

// Variant returns the implementation used while moving in mode.
func (a *Ability) Variant(mode traits.Movement) (catalog.AbilityVariant, bool) {
	v, ok := a.variants[mode]
	return v, ok
}

// Modes returns the movement modes the ability can be used in.
func (a *Ability) Modes() []traits.Movement {
	var modes []traits.Movement
	for _, m := range traits.AllMovements {
		if _, ok := a.variants[m]; ok {
			modes = append(modes, m)
		}
	}
	return modes
}

// Ready reports whether the ability is off cooldown.
func (a *Ability) Ready() bool {
	return !a.cooldown.Active()
}

// CooldownRemaining returns the time left before the ability is ready.
func (a *Ability) CooldownRemaining() time.Duration {
	if !a.cooldown.Active() || a.sched == nil {
		return 0
	}
	if left := a.readyAt - a.sched.Now(); left > 0 {
		return left
	}
	return 0
}

// Use triggers the variant for mode and starts its cooldown. Returns false
// when the ability has no variant for mode or is still cooling down.
// Without a scheduler the ability has no cooldown.
func (a *Ability) Use(mode traits.Movement) (catalog.AbilityVariant, bool) {
	v, ok := a.variants[mode]
	if !ok || !a.Ready() {
		return catalog.AbilityVariant{}, false
	}
	if a.sched != nil && v.Cooldown > 0 {
		d := time.Duration(v.Cooldown * float64(time.Second))
		a.readyAt = a.sched.Now() + d
		a.cooldown.Start(a.sched, context.Background(), func(co *task.Co) error {
			return co.Delay(d)
		})
	}
	return v, true
}

// Release cancels any running cooldown.
func (a *Ability) Release() {
	a.cooldown.Stop()
}
