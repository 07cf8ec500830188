// Package mon implements creature lineages and the creature entity that
// walks them tier by tier.
package mon

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/pthm-cable/mon/catalog"
	"github.com/pthm-cable/mon/event"
	"github.com/pthm-cable/mon/task"
	"github.com/pthm-cable/mon/traits"
)

// DefaultExpPerTier is the experience step per tier when no option overrides it.
const DefaultExpPerTier = 5

// ErrTierOutOfRange is returned by New when the requested tier is not
// populated in the creature's Dna.
var ErrTierOutOfRange = errors.New("tier outside lineage")

// Mon is a creature at its current tier. Static fields are copied from the
// tier's species and replaced on every evolution.
type Mon struct {
	cat *catalog.Catalog
	dna *Dna

	Tier    int
	Species *catalog.Species

	ID                  string
	Family              string
	Type                traits.Type
	Movement            traits.Movement
	Weight              traits.Weight
	Health              int
	HealthInherited     int
	Energy              int
	EnergyInherited     int
	Speed               int
	SpeedPlayer         int
	ForceDamping        float64
	EngagedVisionRadius float64
	FollowVisionRadius  float64
	Colors              []string
	Anim                string
	Icon                string

	Abilities []*Ability // nil slot = no implementation for this creature's movement
	Passives  []string

	CurrentExp int
	NeededExp  int

	IsPlayer    bool
	StartsWith2 bool

	ExpAdded     event.Signal
	BeforeEvolve event.Event[*Mon]
	AfterEvolve  event.Event[*Mon]

	expPerTier int
	sched      *task.Scheduler
}

type options struct {
	rng        *rand.Rand
	expPerTier int
	sched      *task.Scheduler
}

// Option configures New.
type Option func(*options)

// WithRand sets the random source used when New generates a Dna.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithExpPerTier sets the experience step: NeededExp = (tier+1) * n.
func WithExpPerTier(n int) Option {
	return func(o *options) { o.expPerTier = n }
}

// WithScheduler runs ability cooldowns on s. Without it abilities have no cooldown.
func WithScheduler(s *task.Scheduler) Option {
	return func(o *options) { o.sched = s }
}

// New creates a creature of familyID at tier. A nil dna is generated.
func New(cat *catalog.Catalog, familyID string, tier int, isPlayer, startsWith2 bool, dna *Dna, opts ...Option) (*Mon, error) {
	o := options{expPerTier: DefaultExpPerTier}
	for _, opt := range opts {
		opt(&o)
	}

	if dna == nil {
		rng := o.rng
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		var err error
		dna, err = Generate(cat, familyID, startsWith2, rng)
		if err != nil {
			return nil, err
		}
	}

	line := dna.Line(tier)
	if line == nil {
		return nil, fmt.Errorf("family %q tier %d (lineage %d..%d): %w",
			familyID, tier, dna.StartIndex, dna.LastIndex, ErrTierOutOfRange)
	}

	m := &Mon{
		cat:         cat,
		dna:         dna,
		IsPlayer:    isPlayer,
		StartsWith2: startsWith2,
		expPerTier:  o.expPerTier,
		sched:       o.sched,
	}
	if err := m.applyTierData(tier, line); err != nil {
		return nil, err
	}
	return m, nil
}

// Dna returns the creature's lineage.
func (m *Mon) Dna() *Dna {
	return m.dna
}

// GeneColors returns a copy of the palette of the last tier in the
// creature's lineage, falling back to its current colors.
func (m *Mon) GeneColors() []string {
	if line := m.dna.Line(m.dna.LastIndex); line != nil {
		if sp, ok := m.cat.Species(line.SpeciesID); ok {
			return append([]string(nil), sp.Colors...)
		}
	}
	return append([]string(nil), m.Colors...)
}

// Catalog returns the catalog the creature was built from.
func (m *Mon) Catalog() *catalog.Catalog {
	return m.cat
}

func (m *Mon) applyTierData(tier int, line *Line) error {
	sp, ok := m.cat.Species(line.SpeciesID)
	if !ok {
		return fmt.Errorf("tier %d species %q: %w", tier, line.SpeciesID, catalog.ErrUnknownSpecies)
	}

	m.Tier = tier
	m.Species = sp
	m.ID = sp.ID
	m.Family = sp.Family
	m.Type = sp.Type
	m.Movement = sp.Movement
	m.Weight = sp.Weight
	m.Health = sp.Health
	m.HealthInherited = sp.HealthInherited
	m.Energy = sp.Energy
	m.EnergyInherited = sp.EnergyInherited
	m.Speed = sp.Speed
	m.SpeedPlayer = sp.SpeedPlayer
	m.ForceDamping = sp.ForceDamping
	m.EngagedVisionRadius = sp.EngagedVisionRadius
	m.FollowVisionRadius = sp.FollowVisionRadius
	m.Colors = append([]string(nil), sp.Colors...)
	m.Anim = sp.Anim
	m.Icon = sp.Icon

	m.releaseAbilities()
	m.Abilities = make([]*Ability, len(line.Abilities))
	for i, name := range line.Abilities {
		m.Abilities[i] = newAbility(m.cat, name, m.Movement, m.sched)
	}

	m.Passives = append([]string(nil), line.Passives...)

	m.CurrentExp = 0
	m.NeededExp = (tier + 1) * m.expPerTier
	return nil
}

func (m *Mon) releaseAbilities() {
	for _, ab := range m.Abilities {
		if ab != nil {
			ab.Release()
		}
	}
}

// HasEvolution reports whether the next tier is populated.
func (m *Mon) HasEvolution() bool {
	return m.dna.Line(m.Tier+1) != nil
}

// CanEvolve reports whether the next tier exists and enough experience was gained.
func (m *Mon) CanEvolve() bool {
	return m.HasEvolution() && m.CurrentExp >= m.NeededExp
}

// Evolve advances one tier. BeforeEvolve observes the old tier's values,
// AfterEvolve the new ones. Callers check CanEvolve first; without a next
// tier Evolve does nothing.
func (m *Mon) Evolve() {
	if !m.HasEvolution() {
		return
	}
	m.BeforeEvolve.Emit(m)
	next := m.Tier + 1
	if err := m.applyTierData(next, m.dna.Line(next)); err != nil {
		// Generate only stores catalog species, so the line always resolves.
		panic(fmt.Sprintf("mon: evolve: %v", err))
	}
	m.AfterEvolve.Emit(m)
}

// AddExpForEvo adds one point of evolution progress. It only has an effect
// once CanEvolve already holds.
func (m *Mon) AddExpForEvo() {
	if !m.CanEvolve() {
		return
	}
	m.CurrentExp++
	m.ExpAdded.Fire()
}

// GainExp adds n points of progress toward the next tier, capped at
// NeededExp. Does nothing at the last tier.
func (m *Mon) GainExp(n int) {
	if n <= 0 || !m.HasEvolution() || m.CurrentExp >= m.NeededExp {
		return
	}
	m.CurrentExp = min(m.CurrentExp+n, m.NeededExp)
	m.ExpAdded.Fire()
}

// HasMovement reports whether the creature has any of the given movement flags.
func (m *Mon) HasMovement(flag traits.Movement) bool {
	return m.Movement.Has(flag)
}

// HasType reports whether the creature has any of the given types.
func (m *Mon) HasType(flag traits.Type) bool {
	return m.Type.Has(flag)
}

// DisplayName returns the current species' display name.
func (m *Mon) DisplayName() string {
	return m.Species.DisplayName()
}

// Destroy drops every subscription and releases ability cooldowns.
func (m *Mon) Destroy() {
	m.ExpAdded.Clear()
	m.BeforeEvolve.Clear()
	m.AfterEvolve.Clear()
	m.releaseAbilities()
}
