package mon

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/pthm-cable/mon/catalog"
	"github.com/pthm-cable/mon/task"
	"github.com/pthm-cable/mon/traits"
)

// chainCatalog builds a single-family catalog of n tiers typed t, with the given passives.
func chainCatalog(t *testing.T, n int, typ traits.Type, passives []*catalog.Passive) *catalog.Catalog {
	t.Helper()
	ids := []string{"t0", "t1", "t2", "t3", "t4"}
	var species []*catalog.Species
	for i := 0; i < n; i++ {
		sp := &catalog.Species{
			ID:              ids[i],
			Family:          "t0",
			Tier:            i,
			Type:            typ,
			Movement:        traits.MoveGround,
			Health:          10 * (i + 1),
			HealthInherited: i + 1,
			Energy:          3,
			Abilities:       catalog.Names{"tackle", "slam", "tackle", "slam"},
		}
		if i+1 < n {
			sp.Evolution = ids[i+1]
		}
		species = append(species, sp)
	}
	abilities := []*catalog.Ability{
		{Name: "tackle", Variants: []catalog.AbilityVariant{{Movement: traits.MoveGround, Cooldown: 1}}},
		{Name: "slam", Variants: []catalog.AbilityVariant{{Movement: traits.MoveGround, Cooldown: 2}}},
	}
	cat, err := catalog.New(species, abilities, passives)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func TestGenerateContiguousRange(t *testing.T) {
	cat := catalog.Default()
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		family    string
		wantStart int
		wantLast  int
	}{
		{"emberpup", 0, 2},
		{"tidling", 0, 1},
		{"sproutle", 0, 3},
		{"gustling", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			dna, err := Generate(cat, tt.family, false, rng)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if dna.StartIndex != tt.wantStart || dna.LastIndex != tt.wantLast {
				t.Errorf("range = [%d, %d], want [%d, %d]", dna.StartIndex, dna.LastIndex, tt.wantStart, tt.wantLast)
			}
			for i, line := range dna.Lines {
				inRange := i >= dna.StartIndex && i <= dna.LastIndex
				if inRange != (line != nil) {
					t.Errorf("line %d populated = %v, want %v", i, line != nil, inRange)
				}
			}
		})
	}
}

func TestGenerateSingleTierFamily(t *testing.T) {
	dna, err := Generate(catalog.Default(), "gustling", false, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if dna.Len() != 1 {
		t.Fatalf("populated tiers = %d, want 1", dna.Len())
	}
	// Normal has no passives registered.
	if got := dna.Lines[0].Passives; len(got) != 0 {
		t.Errorf("passives = %v, want none", got)
	}
}

func TestGenerateNoConsecutiveRepeat(t *testing.T) {
	passives := []*catalog.Passive{
		{ID: "a", Type: traits.Fire, Active: true, Target: traits.TargetSpeed, Modifier: 1},
		{ID: "b", Type: traits.Fire, Active: true, Target: traits.TargetSpeed, Modifier: 1},
	}
	cat := chainCatalog(t, catalog.MaxTiers, traits.Fire, passives)

	for seed := int64(0); seed < 20; seed++ {
		dna, err := Generate(cat, "t0", false, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		final := dna.Lines[dna.LastIndex].Passives
		if len(final) != catalog.MaxTiers {
			t.Fatalf("seed %d: %d passives, want %d", seed, len(final), catalog.MaxTiers)
		}
		for i := 1; i < len(final); i++ {
			if final[i] == final[i-1] {
				t.Errorf("seed %d: consecutive repeat %v", seed, final)
			}
		}
		// Two choices and no consecutive repeat: non-consecutive repeats must occur.
		if final[0] != final[2] {
			t.Errorf("seed %d: expected %q to reappear at tier 2, got %v", seed, final[0], final)
		}
	}
}

func TestGenerateCumulativePassives(t *testing.T) {
	passives := []*catalog.Passive{
		{ID: "on", Type: traits.Rock, Active: true, Target: traits.TargetHealth, Modifier: 2},
		{ID: "off", Type: traits.Rock, Active: false, Target: traits.TargetHealth, Modifier: 2},
	}
	cat := chainCatalog(t, 3, traits.Rock, passives)

	dna, err := Generate(cat, "t0", false, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// Tier 0 takes the only active passive; later tiers have nothing left.
	for tier := 0; tier <= 2; tier++ {
		got := dna.Lines[tier].Passives
		if len(got) != 1 || got[0] != "on" {
			t.Errorf("tier %d passives = %v, want [on]", tier, got)
		}
	}
}

func TestGenerateStartsWith2(t *testing.T) {
	dna, err := Generate(catalog.Default(), "emberpup", true, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for tier := dna.StartIndex; tier <= dna.LastIndex; tier++ {
		if n := len(dna.Lines[tier].Abilities); n != 2 {
			t.Errorf("tier %d abilities = %d, want 2", tier, n)
		}
	}
}

func TestGenerateUnknownFamily(t *testing.T) {
	_, err := Generate(catalog.Default(), "nope", false, rand.New(rand.NewSource(1)))
	if !errors.Is(err, catalog.ErrUnknownSpecies) {
		t.Errorf("error = %v, want ErrUnknownSpecies", err)
	}
}

func TestNewTierOutOfRange(t *testing.T) {
	cat := catalog.Default()
	for _, tier := range []int{-1, 1, catalog.MaxTiers} {
		_, err := New(cat, "gustling", tier, false, false, nil, WithRand(rand.New(rand.NewSource(1))))
		if !errors.Is(err, ErrTierOutOfRange) {
			t.Errorf("tier %d: error = %v, want ErrTierOutOfRange", tier, err)
		}
	}
}

func TestNewAppliesTierData(t *testing.T) {
	cat := catalog.Default()
	m, err := New(cat, "emberpup", 1, true, false, nil, WithRand(rand.New(rand.NewSource(2))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.ID != "emberhound" || m.Tier != 1 {
		t.Errorf("mon = %s tier %d, want emberhound tier 1", m.ID, m.Tier)
	}
	if m.Health != 10 || m.HealthInherited != 8 {
		t.Errorf("health = %d/%d, want 10/8", m.Health, m.HealthInherited)
	}
	if m.NeededExp != 10 || m.CurrentExp != 0 {
		t.Errorf("exp = %d/%d, want 0/10", m.CurrentExp, m.NeededExp)
	}
	if !m.HasType(traits.Rock) || m.HasType(traits.Water) {
		t.Errorf("type = %v, want Fire|Rock", m.Type)
	}
	if !m.HasMovement(traits.MoveGround) || m.HasMovement(traits.MoveAir) {
		t.Errorf("movement = %v, want Ground", m.Movement)
	}
}

func TestGeneColors(t *testing.T) {
	cat := catalog.Default()
	m, err := New(cat, "emberpup", 0, false, false, nil, WithRand(rand.New(rand.NewSource(5))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	line := m.Dna().Line(m.Dna().LastIndex)
	last, ok := cat.Species(line.SpeciesID)
	if !ok {
		t.Fatalf("species %q missing", line.SpeciesID)
	}

	got := m.GeneColors()
	if !slices.Equal(got, []string(last.Colors)) {
		t.Errorf("gene colors = %v, want %v", got, last.Colors)
	}
	if len(got) > 0 {
		got[0] = "#000000"
		if slices.Equal(got, []string(last.Colors)) {
			t.Error("gene colors alias the catalog palette")
		}
	}
}

func TestAbilitySlotAbsentWithoutVariant(t *testing.T) {
	m, err := New(catalog.Default(), "gustling", 0, false, false, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(m.Abilities) != 4 {
		t.Fatalf("abilities = %d, want 4", len(m.Abilities))
	}
	// burrow only has a ground variant; gustling flies.
	if m.Abilities[3] != nil {
		t.Errorf("burrow slot = %+v, want nil", m.Abilities[3])
	}
	for i := 0; i < 3; i++ {
		if m.Abilities[i] == nil {
			t.Errorf("slot %d unexpectedly empty", i)
		}
	}
}

func TestEvolveOrdering(t *testing.T) {
	cat := chainCatalog(t, 2, traits.Normal, nil)
	m, err := New(cat, "t0", 0, false, false, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var order []string
	m.BeforeEvolve.Subscribe(func(got *Mon) {
		order = append(order, "before")
		if got.Tier != 0 || got.HealthInherited != 1 {
			t.Errorf("before evolve saw tier %d inherited %d, want 0 and 1", got.Tier, got.HealthInherited)
		}
	})
	m.AfterEvolve.Subscribe(func(got *Mon) {
		order = append(order, "after")
		if got.Tier != 1 || got.HealthInherited != 2 || got.Health != 20 {
			t.Errorf("after evolve saw tier %d health %d/%d, want 1 and 20/2", got.Tier, got.Health, got.HealthInherited)
		}
	})

	m.Evolve()
	if len(order) != 2 || order[0] != "before" || order[1] != "after" {
		t.Errorf("order = %v, want [before after]", order)
	}
	if m.NeededExp != 10 {
		t.Errorf("needed exp = %d, want 10", m.NeededExp)
	}

	// Last tier: Evolve is a no-op.
	m.Evolve()
	if m.Tier != 1 || len(order) != 2 {
		t.Errorf("evolve past last tier changed state: tier %d, %d notifications", m.Tier, len(order))
	}
}

func TestExperience(t *testing.T) {
	cat := chainCatalog(t, 2, traits.Normal, nil)
	m, err := New(cat, "t0", 0, false, false, nil, WithExpPerTier(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fired := 0
	m.ExpAdded.On(func() { fired++ })

	m.AddExpForEvo()
	if m.CurrentExp != 0 || fired != 0 {
		t.Errorf("AddExpForEvo before CanEvolve: exp %d fired %d, want 0 0", m.CurrentExp, fired)
	}

	m.GainExp(2)
	if m.CanEvolve() {
		t.Error("CanEvolve with 2/3 exp")
	}
	m.GainExp(5)
	if m.CurrentExp != 3 || !m.CanEvolve() {
		t.Errorf("exp = %d/%d canEvolve=%v, want capped 3/3 and true", m.CurrentExp, m.NeededExp, m.CanEvolve())
	}
	m.GainExp(1)
	if fired != 2 {
		t.Errorf("ExpAdded fired %d times, want 2", fired)
	}

	m.AddExpForEvo()
	if m.CurrentExp != 4 || fired != 3 {
		t.Errorf("AddExpForEvo once evolvable: exp %d fired %d, want 4 3", m.CurrentExp, fired)
	}

	m.Evolve()
	if m.CurrentExp != 0 || m.NeededExp != 6 {
		t.Errorf("after evolve exp = %d/%d, want 0/6", m.CurrentExp, m.NeededExp)
	}
	m.GainExp(1)
	if m.CurrentExp != 0 {
		t.Errorf("GainExp at last tier changed exp to %d", m.CurrentExp)
	}
}

func TestAbilityCooldown(t *testing.T) {
	sched := task.NewScheduler()
	defer sched.Close()

	cat := chainCatalog(t, 2, traits.Normal, nil)
	m, err := New(cat, "t0", 0, false, false, nil, WithScheduler(sched))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tackle := m.Abilities[0]
	if _, ok := tackle.Use(traits.MoveWater); ok {
		t.Error("Use succeeded in a mode without a variant")
	}
	if _, ok := tackle.Use(traits.MoveGround); !ok {
		t.Fatal("first Use failed")
	}
	if tackle.Ready() {
		t.Error("ability ready right after use")
	}
	if _, ok := tackle.Use(traits.MoveGround); ok {
		t.Error("Use succeeded during cooldown")
	}
	if got := tackle.CooldownRemaining(); got != time.Second {
		t.Errorf("cooldown remaining = %v, want 1s", got)
	}

	sched.Advance(500 * time.Millisecond)
	if tackle.Ready() {
		t.Error("ready after half the cooldown")
	}
	sched.Advance(500 * time.Millisecond)
	if !tackle.Ready() {
		t.Error("not ready after full cooldown")
	}

	// Evolving releases the old instances' cooldowns.
	slam := m.Abilities[1]
	slam.Use(traits.MoveGround)
	m.GainExp(m.NeededExp)
	m.Evolve()
	if !slam.Ready() {
		t.Error("old ability still cooling down after evolve")
	}
	if sched.Pending() != 0 {
		t.Errorf("pending tasks = %d, want 0", sched.Pending())
	}
}

func TestDestroy(t *testing.T) {
	sched := task.NewScheduler()
	defer sched.Close()

	cat := chainCatalog(t, 2, traits.Normal, nil)
	m, err := New(cat, "t0", 0, false, false, nil, WithScheduler(sched))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.BeforeEvolve.Subscribe(func(*Mon) {})
	m.AfterEvolve.Subscribe(func(*Mon) {})
	m.ExpAdded.On(func() {})
	m.Abilities[0].Use(traits.MoveGround)

	m.Destroy()
	if m.BeforeEvolve.Len()+m.AfterEvolve.Len()+m.ExpAdded.Len() != 0 {
		t.Error("subscriptions survived Destroy")
	}
	if !m.Abilities[0].Ready() {
		t.Error("cooldown survived Destroy")
	}
}

func TestSuppliedDna(t *testing.T) {
	cat := catalog.Default()
	dna, err := Generate(cat, "wispet", false, rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	m, err := New(cat, "wispet", 1, false, false, dna)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.Dna() != dna {
		t.Error("supplied dna was not used")
	}
	if len(m.Passives) != len(dna.Lines[1].Passives) {
		t.Errorf("passives = %v, want %v", m.Passives, dna.Lines[1].Passives)
	}
}
