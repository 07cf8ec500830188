// Monlab is an interactive viewer for a single creature: spawn one from the
// catalog, then poke it with damage, heals, abilities and evolutions while
// watching its pools and effects.
//
// Usage: go run ./cmd/monlab -family emberpup
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mon/camera"
	"github.com/pthm-cable/mon/catalog"
	"github.com/pthm-cable/mon/components"
	"github.com/pthm-cable/mon/config"
	"github.com/pthm-cable/mon/fx"
	"github.com/pthm-cable/mon/traits"
	"github.com/pthm-cable/mon/ui"
	"github.com/pthm-cable/mon/world"
)

const (
	windowWidth  = 960
	windowHeight = 640
)

// lab holds the viewer state around one creature and a sparring partner
// that is credited with hits.
type lab struct {
	w       *world.World
	cam     *camera.Camera
	family  string
	terrain traits.Terrain
	subject ecs.Entity
	sparrer ecs.Entity
	message string
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	catalogPath := flag.String("catalog", "", "Catalog YAML file (empty = embedded)")
	family := flag.String("family", "emberpup", "Family or species to inspect")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	cat := catalog.Default()
	if *catalogPath != "" {
		var err error
		if cat, err = catalog.Load(*catalogPath); err != nil {
			slog.Error("failed to load catalog", "path", *catalogPath, "error", err)
			os.Exit(1)
		}
	}

	fam, err := cat.ResolveFamily(*family)
	if err != nil {
		slog.Error("unknown family", "family", *family, "suggestions", cat.Suggest(*family, 3))
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	w := world.New(cat, world.WithRand(rng))
	defer w.Close()

	cam := camera.New(470, 320, rng)
	w.PlayerHit.On(func() { cam.Shake(0.6) })

	l := &lab{w: w, cam: cam, family: fam, terrain: traits.TerrainGround}
	l.respawn()

	var reloads <-chan string
	if *catalogPath != "" {
		watcher, err := catalog.NewWatcher(filepath.Dir(*catalogPath))
		if err != nil {
			slog.Warn("catalog watch disabled", "error", err)
		} else {
			defer watcher.Close()
			reloads = watcher.Events
			go func() {
				for err := range watcher.Errors {
					slog.Warn("catalog watch error", "error", err)
				}
			}()
		}
	}

	rl.InitWindow(windowWidth, windowHeight, "Monlab")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.World.TickRate))

	renderer := ui.NewRenderer()
	hud := ui.NewHUD()
	panel := ui.CreaturePanel()
	actions := ui.NewActionBar(windowWidth-250, 120)
	paused := false

	for !rl.WindowShouldClose() {
		select {
		case changed := <-reloads:
			if next, err := catalog.Load(*catalogPath); err != nil {
				l.message = fmt.Sprintf("reload failed: %v", err)
			} else {
				w.SetCatalog(next)
				l.message = "catalog reloaded (" + filepath.Base(changed) + "), respawn to apply"
			}
		default:
		}

		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}
		if !paused || rl.IsKeyPressed(rl.KeyPeriod) {
			w.Update(cfg.Derived.TickDuration)
		}
		w.RecordFrame()
		cam.Update(rl.GetFrameTime())

		data, alive := ui.Snapshot(w, l.subject)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 15, G: 18, B: 22, A: 255})

		perf := w.Perf()
		hud.Draw(ui.HUDData{
			Title:   "Monlab",
			Tick:    w.Tick(),
			FPS:     perf.FPS,
			TPS:     perf.TicksPerSecond,
			Alive:   w.Count(),
			Paused:  paused,
			Message: l.message,
		})

		if alive {
			x, y := cam.Focus()
			ui.DrawCreature(x, y, 80, &data)
			renderer.DrawPanelDescriptor(10, 110, panel, &data, 440)
		} else {
			rl.DrawText("gone - press Respawn", 380, 310, 20, rl.Gray)
		}

		if a := actions.Draw(data.Abilities); a != ui.ActionNone {
			l.apply(a, actions)
		}
		hud.DrawControls(windowWidth, windowHeight, "[Space] Pause  [.] Step  [Esc] Quit")

		rl.EndDrawing()
	}
}

// respawn replaces the subject and sparring partner with fresh creatures.
func (l *lab) respawn() {
	for _, e := range []ecs.Entity{l.subject, l.sparrer} {
		if !e.IsZero() {
			l.w.Despawn(e)
		}
	}
	var err error
	l.subject, err = l.w.Spawn(world.SpawnOptions{Family: l.family, IsPlayer: true, Terrain: l.terrain})
	if err != nil {
		l.message = err.Error()
		return
	}
	l.sparrer, err = l.w.Spawn(world.SpawnOptions{Family: l.family, Terrain: l.terrain})
	if err != nil {
		l.message = err.Error()
	}
}

func (l *lab) apply(a ui.Action, bar *ui.ActionBar) {
	amount := int(bar.Amount)
	ok := true
	switch a {
	case ui.ActionDamage:
		dmgType := traits.Type(0)
		if c, found := l.w.Creature(l.sparrer); found {
			dmgType = c.Mon.Type
		}
		ok = l.w.Damage(l.subject, l.sparrer, amount, dmgType)
	case ui.ActionHeal:
		ok = l.w.Heal(l.subject, amount)
	case ui.ActionConsume:
		ok = l.w.ConsumeEnergy(l.subject, amount)
	case ui.ActionExp:
		l.w.AddExp(l.subject, amount)
	case ui.ActionEvolve:
		ok = l.w.Evolve(l.subject)
	case ui.ActionTerrain:
		if l.terrain == traits.TerrainGround {
			l.terrain = traits.TerrainWater
		} else {
			l.terrain = traits.TerrainGround
		}
		l.w.SetTerrain(l.subject, l.terrain)
	case ui.ActionRespawn:
		l.respawn()
		l.cam.Reset()
	case ui.ActionRage:
		var c *components.Creature
		if c, ok = l.w.Creature(l.subject); ok {
			if c.FX.Running(fx.RagePulse) {
				c.FX.StopRage()
			} else {
				c.FX.StartRage()
			}
		}
	case ui.ActionGenes:
		var c *components.Creature
		if c, ok = l.w.Creature(l.subject); ok {
			if c.FX.Stack().Active(fx.GenePalette) {
				c.FX.HideGenePalette()
			} else {
				c.FX.ShowGenePalette(c.Mon.GeneColors())
			}
		}
	case ui.ActionAbility:
		var v catalog.AbilityVariant
		if v, ok = l.w.UseAbility(l.subject, bar.Slot); ok {
			l.message = fmt.Sprintf("used slot %d (%s, %d damage)", bar.Slot+1, v.Movement, v.Damage)
			return
		}
	}
	if ok {
		l.message = ""
	} else {
		l.message = "rejected"
	}
}
