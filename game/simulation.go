package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mon/config"
	"github.com/pthm-cable/mon/traits"
)

// simulationStep rolls each live creature's actions for this tick.
func (g *Game) simulationStep() {
	cfg := config.Cfg().Arena
	entities := g.world.Entities()

	for _, e := range entities {
		if act, ok := g.world.Activity(e); !ok || act.Dying {
			continue
		}

		if g.rng.Float64() < cfg.AttackChance && len(entities) > 1 {
			g.attack(e, entities)
		}
		if g.rng.Float64() < cfg.HealChance {
			g.world.Heal(e, cfg.HealAmount)
		}
		if g.rng.Float64() < cfg.ExpChance {
			if g.world.AddExp(e, 1) {
				g.world.Evolve(e)
			}
		}
		if g.rng.Float64() < cfg.TerrainChance {
			g.world.SetTerrain(e, terrains[g.rng.Intn(len(terrains))])
		}
	}
}

// attack uses a random ability of attacker on a random other creature. The
// hit lands for the variant's damage plus the attacker's damage passives.
func (g *Game) attack(attacker ecs.Entity, entities []ecs.Entity) {
	target := entities[g.rng.Intn(len(entities))]
	if target == attacker {
		return
	}
	c, ok := g.world.Creature(attacker)
	if !ok || len(c.Mon.Abilities) == 0 {
		return
	}

	v, ok := g.world.UseAbility(attacker, g.rng.Intn(len(c.Mon.Abilities)))
	if !ok || v.Damage <= 0 {
		return
	}
	bonus := c.Passives.Modifier(traits.TargetDamage)
	amount := max(0, v.Damage+int(math.Round(bonus)))
	g.world.Damage(target, attacker, amount, c.Mon.Type)
}
