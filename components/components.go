// Package components defines the ECS components of a creature world.
package components

import (
	"github.com/pthm-cable/mon/fx"
	"github.com/pthm-cable/mon/mon"
	"github.com/pthm-cable/mon/passives"
	"github.com/pthm-cable/mon/stats"
	"github.com/pthm-cable/mon/task"
	"github.com/pthm-cable/mon/traits"
)

// Creature bundles a spawned creature's model objects.
type Creature struct {
	ID       uint32 // Stable for the creature's lifetime; never reused
	Mon      *mon.Mon
	Stats    *stats.Stats
	Passives *passives.Source
	FX       *fx.Player
}

// Habitat is the terrain under a creature.
type Habitat struct {
	Terrain traits.Terrain
}

// Activity is a creature's transient state.
type Activity struct {
	UsingAbility bool
	Evolving     bool
	Dying        bool // Health reached zero; despawned on the next update

	Invincibility *task.Slot // Damage and dash invincibility window
	Transform     *task.Slot // Evolution transform sequence
}

// NewActivity returns an idle activity with empty slots.
func NewActivity() Activity {
	return Activity{
		Invincibility: &task.Slot{},
		Transform:     &task.Slot{},
	}
}

// Invincible reports whether an invincibility window is open.
func (a *Activity) Invincible() bool {
	return a.Invincibility.Active()
}
