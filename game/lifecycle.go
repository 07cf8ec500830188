package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mon/config"
	"github.com/pthm-cable/mon/traits"
	"github.com/pthm-cable/mon/world"
)

var terrains = []traits.Terrain{traits.TerrainGround, traits.TerrainWater}

// spawnInitialPopulation creates the starting creatures and the player.
func (g *Game) spawnInitialPopulation() error {
	cfg := config.Cfg().Arena

	if cfg.PlayerFamily != "" {
		family, err := g.cat.ResolveFamily(cfg.PlayerFamily)
		if err != nil {
			return err
		}
		e, err := g.world.Spawn(world.SpawnOptions{
			Family:   family,
			IsPlayer: true,
			Terrain:  traits.TerrainGround,
		})
		if err != nil {
			return err
		}
		g.player = e
	}

	for range cfg.Population {
		if _, err := g.spawnRandom(); err != nil {
			return err
		}
	}
	return nil
}

// spawnRandom spawns a root-tier creature of a random family on random terrain.
func (g *Game) spawnRandom() (ecs.Entity, error) {
	family := g.families[g.rng.Intn(len(g.families))]
	return g.world.Spawn(world.SpawnOptions{
		Family:      family,
		StartsWith2: g.rng.Intn(2) == 0,
		Terrain:     terrains[g.rng.Intn(len(terrains))],
	})
}

// respawnIfNeeded tops the population back up once it falls below the threshold.
func (g *Game) respawnIfNeeded() {
	cfg := config.Cfg().Arena
	if g.world.Count() >= cfg.RespawnThreshold {
		return
	}

	spawned := 0
	for range cfg.RespawnCount {
		if _, err := g.spawnRandom(); err != nil {
			slog.Warn("respawn_failed", "error", err)
			continue
		}
		spawned++
	}
	slog.Info("respawn", "tick", g.Tick(), "spawned", spawned, "alive", g.world.Count())
}
