// Package game runs the headless encounter scenario: a population of
// creatures spawned from the catalog that attack, heal, gain experience,
// evolve and wander between terrains at random.
package game

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mon/catalog"
	"github.com/pthm-cable/mon/config"
	"github.com/pthm-cable/mon/telemetry"
	"github.com/pthm-cable/mon/world"
)

// Options configures a new game.
type Options struct {
	Seed      int64
	Families  []string // Empty = every catalog family
	OutputDir string   // Empty = no CSV output

	// StatsCallback receives every flushed stats window, for headless tuning.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete scenario state.
type Game struct {
	world    *world.World
	cat      *catalog.Catalog
	rng      *rand.Rand
	output   *telemetry.OutputManager
	families []string

	player ecs.Entity
}

// NewGame creates a game and spawns the initial population.
func NewGame(cat *catalog.Catalog, opts Options) (*Game, error) {
	families, err := resolveFamilies(cat, opts.Families)
	if err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(config.Cfg()); err != nil {
		output.Close()
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	g := &Game{
		world: world.New(cat,
			world.WithRand(rng),
			world.WithOutput(output),
			world.WithStatsCallback(opts.StatsCallback),
		),
		cat:      cat,
		rng:      rng,
		output:   output,
		families: families,
	}

	if err := g.spawnInitialPopulation(); err != nil {
		g.Unload()
		return nil, err
	}
	return g, nil
}

// resolveFamilies maps requested names to family ids, allowing near misses.
func resolveFamilies(cat *catalog.Catalog, names []string) ([]string, error) {
	if len(names) == 0 {
		return cat.Families(), nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		id, err := cat.ResolveFamily(name)
		if err != nil {
			return nil, fmt.Errorf("family %q: %w", name, err)
		}
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

// SetCatalog swaps in reloaded content. Later spawns use it; live creatures
// keep their lineage. Requested families missing from cat are dropped.
func (g *Game) SetCatalog(cat *catalog.Catalog) {
	available := cat.Families()
	families := slices.DeleteFunc(slices.Clone(g.families), func(f string) bool {
		return !slices.Contains(available, f)
	})
	if len(families) == 0 {
		families = available
	}
	g.cat = cat
	g.families = families
	g.world.SetCatalog(cat)
}

// Families returns the families the game spawns.
func (g *Game) Families() []string {
	return g.families
}

// World returns the creature world.
func (g *Game) World() *world.World {
	return g.world
}

// Player returns the player-owned creature, or the zero entity.
func (g *Game) Player() ecs.Entity {
	return g.player
}

// Update runs one tick: encounters, then the world update, then respawns.
func (g *Game) Update() {
	g.simulationStep()
	g.world.Update(config.Cfg().Derived.TickDuration)
	g.respawnIfNeeded()
}

// Tick returns the current tick.
func (g *Game) Tick() int32 {
	return g.world.Tick()
}

// Unload despawns everything and closes output files.
func (g *Game) Unload() error {
	g.world.Close()
	return g.output.Close()
}
