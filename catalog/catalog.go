// Package catalog holds the static species, ability and passive data that
// creatures are generated from. A catalog is read-only once loaded.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/mon/traits"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// MaxTiers is the number of evolution slots in a lineage.
const MaxTiers = 5

var (
	ErrUnknownSpecies  = errors.New("unknown species")
	ErrUnknownAbility  = errors.New("unknown ability")
	ErrCyclicEvolution = errors.New("cyclic evolution chain")
	ErrTierOutOfRange  = errors.New("tier out of range")
	ErrTierGap         = errors.New("evolution does not advance exactly one tier")
	ErrDuplicateID     = errors.New("duplicate id")
)

// Species is the static descriptor of one evolutionary form.
type Species struct {
	ID                  string          `yaml:"id" csv:"id"`
	Name                string          `yaml:"name" csv:"name"`
	Family              string          `yaml:"family" csv:"family"`
	Tier                int             `yaml:"tier" csv:"tier"`
	Type                traits.Type     `yaml:"type" csv:"type"`
	Movement            traits.Movement `yaml:"movement" csv:"movement"`
	Weight              traits.Weight   `yaml:"weight" csv:"weight"`
	Health              int             `yaml:"health" csv:"health"`
	HealthInherited     int             `yaml:"health_inherited" csv:"health_inherited"`
	Energy              int             `yaml:"energy" csv:"energy"`
	EnergyInherited     int             `yaml:"energy_inherited" csv:"energy_inherited"`
	Speed               int             `yaml:"speed" csv:"speed"`
	SpeedPlayer         int             `yaml:"speed_player" csv:"speed_player"`
	ForceDamping        float64         `yaml:"force_damping" csv:"force_damping"`
	EngagedVisionRadius float64         `yaml:"engaged_vision_radius" csv:"engaged_vision_radius"`
	FollowVisionRadius  float64         `yaml:"follow_vision_radius" csv:"follow_vision_radius"`
	Colors              Names           `yaml:"colors" csv:"colors"`
	Anim                string          `yaml:"anim" csv:"anim"`
	Icon                string          `yaml:"icon" csv:"icon"`
	Abilities           Names           `yaml:"abilities" csv:"abilities"`
	Evolution           string          `yaml:"evolution" csv:"evolution"` // Empty ends the chain
}

// DisplayName returns Name, falling back to ID.
func (s *Species) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// AbilityVariant is one movement-specific implementation of an ability.
type AbilityVariant struct {
	Movement   traits.Movement `yaml:"movement"`
	Cooldown   float64         `yaml:"cooldown"` // seconds
	EnergyCost int             `yaml:"energy_cost"`
	HealthCost int             `yaml:"health_cost"`
	Damage     int             `yaml:"damage"`
	Dash       bool            `yaml:"dash"` // grants dash invincibility while used
}

// Ability is a named ability with its movement variants.
type Ability struct {
	Name     string           `yaml:"name"`
	Variants []AbilityVariant `yaml:"variants"`
}

// Passive is a trait unlocked at a tier.
type Passive struct {
	ID          string               `yaml:"id"`
	Type        traits.Type          `yaml:"type"`
	Active      bool                 `yaml:"active"`
	Target      traits.PassiveTarget `yaml:"target"`
	Modifier    float64              `yaml:"modifier"`
	Description string               `yaml:"description"`
}

// file is the on-disk catalog layout.
type file struct {
	SpeciesCSV string     `yaml:"species_csv"` // Optional sheet, relative to the catalog file
	Species    []*Species `yaml:"species"`
	Abilities  []*Ability `yaml:"abilities"`
	Passives   []*Passive `yaml:"passives"`
}

// Catalog indexes static creature data.
type Catalog struct {
	species   map[string]*Species
	order     []string
	abilities map[string]*Ability
	passives  map[string]*Passive
	byType    map[traits.Type][]*Passive
}

// Default returns the embedded catalog. Panics if the embedded data is invalid.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog invalid: %v", err))
	}
	return c
}

// Load reads a catalog YAML file. An empty path loads the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalogYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if f.SpeciesCSV != "" {
		csvPath := f.SpeciesCSV
		if !filepath.IsAbs(csvPath) {
			csvPath = filepath.Join(filepath.Dir(path), csvPath)
		}
		sheet, err := LoadSpeciesCSVFile(csvPath)
		if err != nil {
			return nil, err
		}
		f.Species = append(f.Species, sheet...)
	}
	return build(f)
}

// Parse builds a catalog from YAML bytes. species_csv references are ignored.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return build(f)
}

// New builds a catalog from in-memory records and validates it.
func New(species []*Species, abilities []*Ability, passives []*Passive) (*Catalog, error) {
	return build(file{Species: species, Abilities: abilities, Passives: passives})
}

func build(f file) (*Catalog, error) {
	c := &Catalog{
		species:   make(map[string]*Species, len(f.Species)),
		abilities: make(map[string]*Ability, len(f.Abilities)),
		passives:  make(map[string]*Passive, len(f.Passives)),
		byType:    make(map[traits.Type][]*Passive),
	}
	for _, sp := range f.Species {
		if _, ok := c.species[sp.ID]; ok {
			return nil, fmt.Errorf("species %q: %w", sp.ID, ErrDuplicateID)
		}
		c.species[sp.ID] = sp
		c.order = append(c.order, sp.ID)
	}
	for _, ab := range f.Abilities {
		if _, ok := c.abilities[ab.Name]; ok {
			return nil, fmt.Errorf("ability %q: %w", ab.Name, ErrDuplicateID)
		}
		c.abilities[ab.Name] = ab
	}
	for _, p := range f.Passives {
		if _, ok := c.passives[p.ID]; ok {
			return nil, fmt.Errorf("passive %q: %w", p.ID, ErrDuplicateID)
		}
		if len(p.Type.Members()) != 1 {
			return nil, fmt.Errorf("passive %q: type must be a single type, got %v", p.ID, p.Type)
		}
		c.passives[p.ID] = p
		c.byType[p.Type] = append(c.byType[p.Type], p)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every evolution chain. Malformed chains are content errors
// and are reported for the first offending species.
func (c *Catalog) Validate() error {
	for _, id := range c.order {
		sp := c.species[id]
		if sp.Tier < 0 || sp.Tier >= MaxTiers {
			return fmt.Errorf("species %q tier %d: %w", sp.ID, sp.Tier, ErrTierOutOfRange)
		}
		if sp.Family != "" {
			if _, ok := c.species[sp.Family]; !ok {
				return fmt.Errorf("species %q family %q: %w", sp.ID, sp.Family, ErrUnknownSpecies)
			}
		}
		for _, name := range sp.Abilities {
			if _, ok := c.abilities[name]; !ok {
				return fmt.Errorf("species %q ability %q: %w", sp.ID, name, ErrUnknownAbility)
			}
		}
		if _, err := c.Chain(sp.ID); err != nil {
			return err
		}
	}
	return nil
}

// Chain walks the evolution chain starting at id, returning every species in order.
func (c *Catalog) Chain(id string) ([]*Species, error) {
	sp, ok := c.species[id]
	if !ok {
		return nil, fmt.Errorf("species %q: %w", id, ErrUnknownSpecies)
	}
	seen := make(map[string]bool)
	var chain []*Species
	for sp != nil {
		if seen[sp.ID] {
			return nil, fmt.Errorf("species %q: %w", sp.ID, ErrCyclicEvolution)
		}
		seen[sp.ID] = true
		chain = append(chain, sp)

		if sp.Evolution == "" {
			break
		}
		next, ok := c.species[sp.Evolution]
		if !ok {
			return nil, fmt.Errorf("species %q evolution %q: %w", sp.ID, sp.Evolution, ErrUnknownSpecies)
		}
		if !seen[next.ID] && next.Tier != sp.Tier+1 {
			return nil, fmt.Errorf("species %q (tier %d) -> %q (tier %d): %w",
				sp.ID, sp.Tier, next.ID, next.Tier, ErrTierGap)
		}
		sp = next
	}
	return chain, nil
}

// Species returns the species with the given id.
func (c *Catalog) Species(id string) (*Species, bool) {
	sp, ok := c.species[id]
	return sp, ok
}

// Evolution returns the successor of sp, or nil at the end of the chain.
func (c *Catalog) Evolution(sp *Species) *Species {
	if sp == nil || sp.Evolution == "" {
		return nil
	}
	return c.species[sp.Evolution]
}

// AllSpecies returns every species in declaration order.
func (c *Catalog) AllSpecies() []*Species {
	out := make([]*Species, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.species[id])
	}
	return out
}

// Families returns the ids of every family root, sorted.
func (c *Catalog) Families() []string {
	seen := make(map[string]bool)
	for _, id := range c.order {
		fam := c.species[id].Family
		if fam == "" {
			fam = id
		}
		seen[fam] = true
	}
	out := make([]string, 0, len(seen))
	for fam := range seen {
		out = append(out, fam)
	}
	sort.Strings(out)
	return out
}

// PassivesFor returns the passives registered for a single type, in declaration order.
func (c *Catalog) PassivesFor(t traits.Type) []*Passive {
	return c.byType[t]
}

// Passive returns the passive with the given id.
func (c *Catalog) Passive(id string) (*Passive, bool) {
	p, ok := c.passives[id]
	return p, ok
}

// Ability returns the ability with the given name.
func (c *Catalog) Ability(name string) (*Ability, bool) {
	ab, ok := c.abilities[name]
	return ab, ok
}

// AbilityVariants returns the variants of name usable with the given
// movement capabilities. Returns nil when none are compatible.
func (c *Catalog) AbilityVariants(name string, movement traits.Movement) map[traits.Movement]AbilityVariant {
	ab, ok := c.abilities[name]
	if !ok {
		return nil
	}
	var out map[traits.Movement]AbilityVariant
	for _, v := range ab.Variants {
		for _, m := range v.Movement.Members() {
			if !movement.Has(m) {
				continue
			}
			if out == nil {
				out = make(map[traits.Movement]AbilityVariant)
			}
			out[m] = v
		}
	}
	return out
}

// Names is a list of names stored as a YAML sequence or a '|'-separated CSV field.
type Names []string

// UnmarshalCSV splits a '|'-separated field.
func (n *Names) UnmarshalCSV(field string) error {
	var out Names
	for _, part := range strings.Split(field, "|") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*n = out
	return nil
}

// MarshalCSV joins names with '|'.
func (n Names) MarshalCSV() (string, error) {
	return strings.Join(n, "|"), nil
}
