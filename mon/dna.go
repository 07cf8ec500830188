package mon

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/mon/catalog"
)

// Line is the immutable per-tier slice of a lineage.
type Line struct {
	SpeciesID string
	Passives  []string // Cumulative up to and including this tier
	Abilities []string
}

// Dna is a creature's genetic blueprint: one optional Line per tier.
// Populated slots form the contiguous range [StartIndex, LastIndex].
type Dna struct {
	Lines      [catalog.MaxTiers]*Line
	StartIndex int // -1 until the first line is stored
	LastIndex  int
}

// NewDna returns an empty, uninitialized Dna.
func NewDna() *Dna {
	return &Dna{StartIndex: -1, LastIndex: -1}
}

// Line returns the line at tier, or nil when the slot is empty or out of range.
func (d *Dna) Line(tier int) *Line {
	if tier < 0 || tier >= len(d.Lines) {
		return nil
	}
	return d.Lines[tier]
}

// Initialized reports whether at least one line was stored.
func (d *Dna) Initialized() bool {
	return d.StartIndex >= 0
}

// Len returns the number of populated tiers.
func (d *Dna) Len() int {
	if !d.Initialized() {
		return 0
	}
	return d.LastIndex - d.StartIndex + 1
}

func (d *Dna) store(tier int, line *Line) {
	d.Lines[tier] = line
	if d.StartIndex < 0 {
		d.StartIndex = tier
	}
	d.LastIndex = tier
}

// Generate builds the lineage of familyID by walking its evolution chain from
// the root species. Each tier may unlock one passive of a randomly chosen
// member of its type; the passive picked just before is never picked twice in
// a row. The passive list of every line is cumulative.
func Generate(cat *catalog.Catalog, familyID string, startsWith2 bool, rng *rand.Rand) (*Dna, error) {
	chain, err := cat.Chain(familyID)
	if err != nil {
		return nil, fmt.Errorf("family %q: %w", familyID, err)
	}

	dna := NewDna()
	var selected []string
	for _, sp := range chain {
		if sp.Tier < 0 || sp.Tier >= catalog.MaxTiers {
			return nil, fmt.Errorf("species %q tier %d: %w", sp.ID, sp.Tier, catalog.ErrTierOutOfRange)
		}
		if dna.Initialized() && sp.Tier != dna.LastIndex+1 {
			return nil, fmt.Errorf("species %q tier %d after tier %d: %w",
				sp.ID, sp.Tier, dna.LastIndex, catalog.ErrTierGap)
		}

		candidate := sp.Type.Random(rng)
		if pool := cat.PassivesFor(candidate); len(pool) > 0 {
			var last string
			if len(selected) > 0 {
				last = selected[len(selected)-1]
			}
			choices := make([]string, 0, len(pool))
			for _, p := range pool {
				if !p.Active || p.ID == last {
					continue
				}
				choices = append(choices, p.ID)
			}
			if len(choices) > 0 {
				selected = append(selected, choices[rng.Intn(len(choices))])
			}
		}

		abilities := []string(sp.Abilities)
		if startsWith2 && len(abilities) > 2 {
			abilities = abilities[:2]
		}

		dna.store(sp.Tier, &Line{
			SpeciesID: sp.ID,
			Passives:  append([]string(nil), selected...),
			Abilities: append([]string(nil), abilities...),
		})
	}
	return dna, nil
}
