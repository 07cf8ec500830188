package world

import (
	"context"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mon/fx"
	"github.com/pthm-cable/mon/task"
	"github.com/pthm-cable/mon/telemetry"
)

// AddExp grants n points of evolution progress and reports whether e can
// now evolve.
func (w *World) AddExp(e ecs.Entity, n int) bool {
	c, _, ok := w.live(e)
	if !ok {
		return false
	}
	c.Mon.GainExp(n)
	return c.Mon.CanEvolve()
}

// Evolve starts the transform sequence: the pre-transform flash plays, the
// creature advances a tier, its speed is re-derived and the post-transform
// flash plays in the new colors. Pools and passives follow the creature's
// evolve notifications. Returns false if e cannot evolve now.
func (w *World) Evolve(e ecs.Entity) bool {
	c, act, ok := w.live(e)
	if !ok || act.Evolving || !c.Mon.CanEvolve() {
		return false
	}
	act.Evolving = true

	m, st, player, id := c.Mon, c.Stats, c.FX, c.ID
	player.TransformPre(m.Colors)
	act.Transform.Start(w.sched, context.Background(), func(co *task.Co) error {
		defer func() {
			if a, ok := w.Activity(e); ok {
				a.Evolving = false
			}
		}()
		if err := co.Delay(fx.Duration(fx.TransformFlash)); err != nil {
			return err
		}

		from := m.ID
		m.Evolve()
		st.MonInstanceWasChanged()
		player.TransformPost(m.Colors)

		w.record(telemetry.NewEvolveEvent(w.tick, id, m.Family, m.Tier))
		slog.Info("evolve",
			"entity", id,
			"family", m.Family,
			"from", from,
			"to", m.ID,
			"tier", m.Tier,
			"passives", m.Passives,
		)
		return nil
	})
	return true
}
