package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/mon/catalog"
	"github.com/pthm-cable/mon/mon"
)

// noPassive marks a tier that unlocked nothing.
const noPassive = "none"

var errNoFreedom = errors.New("fewer than two possible outcomes")

// Sample generates n lineages of family from one seeded source.
func Sample(cat *catalog.Catalog, family string, n int, startsWith2 bool, seed int64) ([]*mon.Dna, error) {
	rng := rand.New(rand.NewSource(seed))
	out := make([]*mon.Dna, 0, n)
	for range n {
		dna, err := mon.Generate(cat, family, startsWith2, rng)
		if err != nil {
			return nil, err
		}
		out = append(out, dna)
	}
	return out, nil
}

// TierCounts tallies the passive each sampled lineage unlocked at one tier.
type TierCounts struct {
	Tier    int
	Species string
	Counts  map[string]int
}

// Tally counts unlocked passives per tier.
func Tally(dnas []*mon.Dna) []TierCounts {
	byTier := make(map[int]*TierCounts)
	for _, dna := range dnas {
		var prev int
		for tier := dna.StartIndex; tier <= dna.LastIndex; tier++ {
			line := dna.Line(tier)
			if line == nil {
				continue
			}
			tc, ok := byTier[tier]
			if !ok {
				tc = &TierCounts{Tier: tier, Species: line.SpeciesID, Counts: make(map[string]int)}
				byTier[tier] = tc
			}
			picked := noPassive
			if len(line.Passives) > prev {
				picked = line.Passives[len(line.Passives)-1]
			}
			tc.Counts[picked]++
			prev = len(line.Passives)
		}
	}

	out := make([]TierCounts, 0, len(byTier))
	for _, tc := range byTier {
		out = append(out, *tc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}

// RootExpectation returns the probability of each unlock at a lineage's
// first tier: a uniform type of the species, then a uniform active passive
// of that type.
func RootExpectation(cat *catalog.Catalog, sp *catalog.Species) map[string]float64 {
	probs := make(map[string]float64)
	members := sp.Type.Members()
	if len(members) == 0 {
		probs[noPassive] = 1
		return probs
	}
	pType := 1 / float64(len(members))
	for _, m := range members {
		var active []string
		for _, p := range cat.PassivesFor(m) {
			if p.Active {
				active = append(active, p.ID)
			}
		}
		if len(active) == 0 {
			probs[noPassive] += pType
			continue
		}
		for _, id := range active {
			probs[id] += pType / float64(len(active))
		}
	}
	return probs
}

// Fit is the result of a chi-square goodness-of-fit test.
type Fit struct {
	Stat   float64
	DF     int
	PValue float64
}

// FitRoot tests observed root-tier counts against RootExpectation.
func FitRoot(expected map[string]float64, observed map[string]int) (Fit, error) {
	var total int
	for id, n := range observed {
		if expected[id] == 0 {
			return Fit{}, fmt.Errorf("passive %q cannot be unlocked at the root tier", id)
		}
		total += n
	}
	if len(expected) < 2 {
		return Fit{}, errNoFreedom
	}

	ids := make([]string, 0, len(expected))
	for id := range expected {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	obs := make([]float64, len(ids))
	exp := make([]float64, len(ids))
	for i, id := range ids {
		obs[i] = float64(observed[id])
		exp[i] = expected[id] * float64(total)
	}

	chi := stat.ChiSquare(obs, exp)
	df := len(ids) - 1
	dist := distuv.ChiSquared{K: float64(df)}
	return Fit{Stat: chi, DF: df, PValue: 1 - dist.CDF(chi)}, nil
}

// LineRecord is one generated tier in CSV form.
type LineRecord struct {
	Sample    int    `csv:"sample"`
	Tier      int    `csv:"tier"`
	Species   string `csv:"species"`
	Passives  string `csv:"passives"`
	Abilities string `csv:"abilities"`
}

// WriteLines writes every tier of every sample as CSV.
func WriteLines(w io.Writer, dnas []*mon.Dna) error {
	var records []LineRecord
	for i, dna := range dnas {
		for tier := dna.StartIndex; tier <= dna.LastIndex; tier++ {
			line := dna.Line(tier)
			if line == nil {
				continue
			}
			records = append(records, LineRecord{
				Sample:    i,
				Tier:      tier,
				Species:   line.SpeciesID,
				Passives:  strings.Join(line.Passives, "|"),
				Abilities: strings.Join(line.Abilities, "|"),
			})
		}
	}
	return gocsv.Marshal(records, w)
}
