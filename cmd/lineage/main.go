// Command lineage samples generated lineages of a family and checks the
// unlocked passives against their expected frequencies.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/pthm-cable/mon/catalog"
)

func main() {
	catalogPath := flag.String("catalog", "", "Catalog YAML file (empty = embedded)")
	family := flag.String("family", "sproutle", "Family or species name")
	n := flag.Int("n", 1000, "Number of lineages to generate")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	startsWith2 := flag.Bool("starts-with-2", false, "Generate with two starting abilities")
	csvPath := flag.String("csv", "", "Write every generated line to this CSV file")
	speciesPath := flag.String("species-csv", "", "Write the catalog species sheet to this CSV file")
	flag.Parse()

	cat := catalog.Default()
	if *catalogPath != "" {
		var err error
		if cat, err = catalog.Load(*catalogPath); err != nil {
			log.Fatalf("failed to load catalog: %v", err)
		}
	}

	fam, err := cat.ResolveFamily(*family)
	if err != nil {
		if s := cat.Suggest(*family, 3); len(s) > 0 {
			log.Fatalf("%v (did you mean %v?)", err, s)
		}
		log.Fatal(err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	dnas, err := Sample(cat, fam, *n, *startsWith2, *seed)
	if err != nil {
		log.Fatalf("failed to generate: %v", err)
	}

	fmt.Printf("Family %s, %d lineages, seed %d\n", fam, *n, *seed)
	tiers := Tally(dnas)
	for _, tc := range tiers {
		fmt.Printf("\nTier %d (%s)\n", tc.Tier, tc.Species)
		ids := make([]string, 0, len(tc.Counts))
		for id := range tc.Counts {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("  %-14s %6d  %5.1f%%\n", id, tc.Counts[id], 100*float64(tc.Counts[id])/float64(*n))
		}
	}

	if len(tiers) > 0 {
		root, _ := cat.Species(tiers[0].Species)
		fit, err := FitRoot(RootExpectation(cat, root), tiers[0].Counts)
		switch {
		case errors.Is(err, errNoFreedom):
			fmt.Println("\nRoot tier has a single outcome; nothing to test")
		case err != nil:
			log.Fatalf("root tier: %v", err)
		default:
			fmt.Printf("\nRoot tier chi-square: %.3f (df=%d, p=%.4f)\n", fit.Stat, fit.DF, fit.PValue)
		}
	}

	if *csvPath != "" {
		if err := writeFile(*csvPath, func(f *os.File) error { return WriteLines(f, dnas) }); err != nil {
			log.Fatalf("failed to write lines: %v", err)
		}
	}
	if *speciesPath != "" {
		if err := writeFile(*speciesPath, func(f *os.File) error { return cat.WriteSpeciesCSV(f) }); err != nil {
			log.Fatalf("failed to write species: %v", err)
		}
	}
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
