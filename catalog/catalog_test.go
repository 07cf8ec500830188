package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/mon/traits"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	families := c.Families()
	want := []string{"emberpup", "gustling", "sproutle", "tidling", "wispet"}
	if len(families) != len(want) {
		t.Fatalf("families = %v, want %v", families, want)
	}
	for i := range want {
		if families[i] != want[i] {
			t.Errorf("families[%d] = %q, want %q", i, families[i], want[i])
		}
	}

	chain, err := c.Chain("emberpup")
	if err != nil {
		t.Fatalf("Chain(emberpup): %v", err)
	}
	if len(chain) != 3 || chain[2].ID != "magmawolf" {
		t.Errorf("emberpup chain = %d species, want 3 ending in magmawolf", len(chain))
	}

	sp, ok := c.Species("tidalisk")
	if !ok {
		t.Fatal("tidalisk missing")
	}
	if !sp.Type.Has(traits.Water) || !sp.Type.Has(traits.Ice) {
		t.Errorf("tidalisk type = %v, want Water|Ice", sp.Type)
	}
	if !sp.Movement.Has(traits.MoveWater) || !sp.Movement.Has(traits.MoveGround) {
		t.Errorf("tidalisk movement = %v, want Ground|Water", sp.Movement)
	}
	if sp.Weight != traits.Medium {
		t.Errorf("tidalisk weight = %v, want Medium", sp.Weight)
	}
}

func TestPassivesFor(t *testing.T) {
	c := Default()

	fire := c.PassivesFor(traits.Fire)
	if len(fire) != 3 {
		t.Fatalf("fire passives = %d, want 3", len(fire))
	}
	if fire[0].ID != "kindling" || fire[0].Target != traits.TargetSpeed {
		t.Errorf("first fire passive = %s/%v, want kindling/Speed", fire[0].ID, fire[0].Target)
	}
	if fire[2].Active {
		t.Errorf("smolder should be inactive")
	}

	if got := c.PassivesFor(traits.Normal); len(got) != 0 {
		t.Errorf("normal passives = %d, want 0", len(got))
	}
}

func TestAbilityVariants(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		ability  string
		movement traits.Movement
		want     []traits.Movement
	}{
		{"single variant", "ember", traits.MoveGround, []traits.Movement{traits.MoveGround}},
		{"split variants", "splash", traits.MoveGround | traits.MoveWater, []traits.Movement{traits.MoveGround, traits.MoveWater}},
		{"incompatible", "burrow", traits.MoveAir, nil},
		{"unknown ability", "teleport", traits.MoveGround, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.AbilityVariants(tt.ability, tt.movement)
			if tt.want == nil {
				if got != nil {
					t.Errorf("got %v, want nil", got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d variants, want %d", len(got), len(tt.want))
			}
			for _, m := range tt.want {
				if _, ok := got[m]; !ok {
					t.Errorf("missing variant for %v", m)
				}
			}
		})
	}

	splash := c.AbilityVariants("splash", traits.MoveGround|traits.MoveWater)
	if splash[traits.MoveWater].Damage != 2 || splash[traits.MoveGround].Damage != 1 {
		t.Errorf("splash damage water=%d ground=%d, want 2 and 1",
			splash[traits.MoveWater].Damage, splash[traits.MoveGround].Damage)
	}
}

func TestMalformedChains(t *testing.T) {
	abilities := []*Ability{{Name: "tackle", Variants: []AbilityVariant{{Movement: traits.MoveGround}}}}

	tests := []struct {
		name    string
		species []*Species
		want    error
	}{
		{
			name: "cycle",
			species: []*Species{
				{ID: "a", Family: "a", Tier: 0, Evolution: "b"},
				{ID: "b", Family: "a", Tier: 1, Evolution: "a"},
			},
			want: ErrCyclicEvolution,
		},
		{
			name: "self cycle",
			species: []*Species{
				{ID: "a", Family: "a", Tier: 0, Evolution: "a"},
			},
			want: ErrCyclicEvolution,
		},
		{
			name: "tier gap",
			species: []*Species{
				{ID: "a", Family: "a", Tier: 0, Evolution: "b"},
				{ID: "b", Family: "a", Tier: 2},
			},
			want: ErrTierGap,
		},
		{
			name: "tier out of range",
			species: []*Species{
				{ID: "a", Family: "a", Tier: MaxTiers},
			},
			want: ErrTierOutOfRange,
		},
		{
			name: "missing successor",
			species: []*Species{
				{ID: "a", Family: "a", Tier: 0, Evolution: "ghost"},
			},
			want: ErrUnknownSpecies,
		},
		{
			name: "unknown ability",
			species: []*Species{
				{ID: "a", Family: "a", Tier: 0, Abilities: Names{"laser"}},
			},
			want: ErrUnknownAbility,
		},
		{
			name: "duplicate id",
			species: []*Species{
				{ID: "a", Family: "a"},
				{ID: "a", Family: "a"},
			},
			want: ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.species, abilities, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPassiveMustHaveSingleType(t *testing.T) {
	species := []*Species{{ID: "a", Family: "a"}}
	passives := []*Passive{{ID: "p", Type: traits.Fire | traits.Water, Active: true}}
	if _, err := New(species, nil, passives); err == nil {
		t.Error("expected error for multi-type passive")
	}
}

const speciesSheet = `id,name,family,tier,type,movement,weight,health,health_inherited,energy,energy_inherited,speed,speed_player,force_damping,engaged_vision_radius,follow_vision_radius,colors,anim,icon,abilities,evolution
mossling,Mossling,mossling,0,Grass,Ground,Light,15,3,4,1,5,7,2,5,8,#00ff00|#004400,moss_anim,moss_icon,tackle|vine_whip,mossback
mossback,Mossback,mossling,1,Grass|Rock,Ground|Water,Heavy,10,6,2,1,4,6,4.5,6,9,#228822,mossback_anim,mossback_icon,tackle|vine_whip|rock_slam|roar,
`

func TestLoadSpeciesCSV(t *testing.T) {
	rows, err := LoadSpeciesCSV(strings.NewReader(speciesSheet))
	if err != nil {
		t.Fatalf("LoadSpeciesCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	back := rows[1]
	if back.Type != traits.Grass|traits.Rock {
		t.Errorf("mossback type = %v, want Grass|Rock", back.Type)
	}
	if back.Movement != traits.MoveGround|traits.MoveWater {
		t.Errorf("mossback movement = %v, want Ground|Water", back.Movement)
	}
	if back.Weight != traits.Heavy {
		t.Errorf("mossback weight = %v, want Heavy", back.Weight)
	}
	if len(back.Abilities) != 4 || back.Abilities[2] != "rock_slam" {
		t.Errorf("mossback abilities = %v", back.Abilities)
	}
	if back.ForceDamping != 4.5 {
		t.Errorf("mossback force damping = %v, want 4.5", back.ForceDamping)
	}
	if rows[0].Evolution != "mossback" || back.Evolution != "" {
		t.Errorf("evolution = %q/%q, want mossback/\"\"", rows[0].Evolution, back.Evolution)
	}
}

func TestLoadWithSpeciesSheet(t *testing.T) {
	dir := t.TempDir()
	sheet := filepath.Join(dir, "species.csv")
	if err := os.WriteFile(sheet, []byte(speciesSheet), 0644); err != nil {
		t.Fatal(err)
	}
	doc := `species_csv: species.csv
abilities:
  - name: tackle
    variants:
      - {movement: [Ground, Water], cooldown: 1}
  - name: vine_whip
    variants:
      - {movement: [Ground], cooldown: 1, energy_cost: 1, damage: 3}
  - name: rock_slam
    variants:
      - {movement: [Ground], cooldown: 2, energy_cost: 2, damage: 5}
  - name: roar
    variants:
      - {movement: [Ground], cooldown: 3}
passives:
  - {id: moss_armor, type: Grass, active: true, target: Health, modifier: 2}
`
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	chain, err := c.Chain("mossling")
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(chain) != 2 {
		t.Errorf("chain length = %d, want 2", len(chain))
	}
	if len(c.PassivesFor(traits.Grass)) != 1 {
		t.Errorf("grass passives = %d, want 1", len(c.PassivesFor(traits.Grass)))
	}
}

func TestWriteSpeciesCSVRoundTrip(t *testing.T) {
	c := Default()
	var buf strings.Builder
	if err := c.WriteSpeciesCSV(&buf); err != nil {
		t.Fatalf("WriteSpeciesCSV: %v", err)
	}
	rows, err := LoadSpeciesCSV(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("LoadSpeciesCSV: %v", err)
	}
	if len(rows) != len(c.AllSpecies()) {
		t.Fatalf("rows = %d, want %d", len(rows), len(c.AllSpecies()))
	}
	for i, sp := range c.AllSpecies() {
		if rows[i].ID != sp.ID || rows[i].Type != sp.Type || rows[i].Evolution != sp.Evolution {
			t.Errorf("row %d = %s/%v/%s, want %s/%v/%s",
				i, rows[i].ID, rows[i].Type, rows[i].Evolution, sp.ID, sp.Type, sp.Evolution)
		}
	}
}

func TestResolve(t *testing.T) {
	c := Default()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"emberpup", "emberpup", false},
		{"Tidalisk", "tidalisk", false},
		{"  WISPET ", "wispet", false},
		{"gust", "gustling", false},
		{"ember", "", true}, // emberpup and emberhound
		{"e", "", true},
		{"", "", true},
		{"zzzzzz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := c.Resolve(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownSpecies) {
					t.Errorf("Resolve(%q) error = %v, want ErrUnknownSpecies", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveSuggests(t *testing.T) {
	c := Default()

	_, err := c.Resolve("tidlings")
	if err == nil {
		t.Fatal("expected miss")
	}
	if !strings.Contains(err.Error(), "did you mean tidling") {
		t.Errorf("error = %q, want suggestion for tidling", err.Error())
	}

	got := c.Suggest("phantsm", 3)
	if len(got) == 0 || got[0] != "phantasm" {
		t.Errorf("Suggest(phantsm) = %v, want phantasm first", got)
	}
}

func TestResolveFamily(t *testing.T) {
	c := Default()

	tests := []struct {
		input string
		want  string
	}{
		{"emberhound", "emberpup"},
		{"Elderbloom", "sproutle"},
		{"phantasm", "wispet"},
		{"gustling", "gustling"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := c.ResolveFamily(tt.input)
			if err != nil {
				t.Fatalf("ResolveFamily(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ResolveFamily(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if _, err := c.ResolveFamily("ember"); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("ambiguous name error = %v", err)
	}
}
