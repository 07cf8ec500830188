package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pthm-cable/mon/catalog"
	"github.com/pthm-cable/mon/config"
	"github.com/pthm-cable/mon/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	catalogPath := flag.String("catalog", "", "Path to catalog.yaml (empty = config catalog.path, then embedded)")
	families := flag.String("family", "", "Comma-separated families to spawn (empty = all)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	watch := flag.Bool("watch", false, "Reload the catalog when its file changes")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	path := *catalogPath
	if path == "" {
		path = cfg.Catalog.Path
	}
	cat, err := loadCatalog(path)
	if err != nil {
		slog.Error("failed to load catalog", "path", path, "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g, err := game.NewGame(cat, game.Options{
		Seed:      rngSeed,
		Families:  splitList(*families),
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := g.Unload(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	var reloads <-chan string
	if *watch && path != "" {
		w, err := catalog.NewWatcher(filepath.Dir(path))
		if err != nil {
			slog.Error("failed to watch catalog", "path", path, "error", err)
			os.Exit(1)
		}
		defer w.Close()
		reloads = w.Events
		go func() {
			for err := range w.Errors {
				slog.Warn("catalog watch error", "error", err)
			}
		}()
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"families", g.Families(),
		"max_ticks", *maxTicks,
		"catalog", path,
	)

	for {
		select {
		case changed, ok := <-reloads:
			if !ok {
				reloads = nil
				break
			}
			reloadCatalog(g, path, changed)
		default:
		}

		g.Update()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

// reloadCatalog swaps in the edited catalog. A catalog that fails to load or
// validate is reported and the running one kept.
func reloadCatalog(g *game.Game, path, changed string) {
	cat, err := catalog.Load(path)
	if err != nil {
		slog.Warn("catalog reload failed", "changed", changed, "error", err)
		return
	}
	g.SetCatalog(cat)
	slog.Info("catalog reloaded", "changed", changed, "families", g.Families())
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
