// Package traits defines creature type, movement and terrain flags.
package traits

import (
	"fmt"
	"math/bits"
	"math/rand"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type is a set of elemental types.
type Type uint32

const (
	Normal Type = 1 << iota
	Fire
	Water
	Grass
	Electric
	Ice
	Rock
	Poison
	Psychic
	Ghost
)

// AllTypes lists every elemental type in declaration order.
var AllTypes = []Type{Normal, Fire, Water, Grass, Electric, Ice, Rock, Poison, Psychic, Ghost}

var typeNames = map[Type]string{
	Normal:   "Normal",
	Fire:     "Fire",
	Water:    "Water",
	Grass:    "Grass",
	Electric: "Electric",
	Ice:      "Ice",
	Rock:     "Rock",
	Poison:   "Poison",
	Psychic:  "Psychic",
	Ghost:    "Ghost",
}

// Has checks if the set shares any type with other.
func (t Type) Has(other Type) bool {
	return t&other != 0
}

// Add adds types to the set.
func (t Type) Add(other Type) Type {
	return t | other
}

// Remove removes types from the set.
func (t Type) Remove(other Type) Type {
	return t &^ other
}

// Members returns the single-type flags present in the set, in declaration order.
func (t Type) Members() []Type {
	members := make([]Type, 0, bits.OnesCount32(uint32(t)))
	for _, m := range AllTypes {
		if t.Has(m) {
			members = append(members, m)
		}
	}
	return members
}

// Random picks a member of the set uniformly. Returns 0 for an empty set.
func (t Type) Random(rng *rand.Rand) Type {
	members := t.Members()
	if len(members) == 0 {
		return 0
	}
	return members[rng.Intn(len(members))]
}

func (t Type) String() string {
	return joinNames(t.Members(), typeNames)
}

// ParseType parses a single type name (case-insensitive).
func ParseType(name string) (Type, error) {
	for flag, n := range typeNames {
		if strings.EqualFold(n, name) {
			return flag, nil
		}
	}
	return 0, fmt.Errorf("unknown type %q", name)
}

// MarshalYAML writes the set as a list of names.
func (t Type) MarshalYAML() (any, error) {
	return namesOf(t.Members(), typeNames), nil
}

// UnmarshalYAML accepts a single name or a list of names.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	names, err := decodeNames(node)
	if err != nil {
		return err
	}
	var set Type
	for _, n := range names {
		flag, err := ParseType(n)
		if err != nil {
			return err
		}
		set = set.Add(flag)
	}
	*t = set
	return nil
}

// UnmarshalCSV accepts names separated by '|'.
func (t *Type) UnmarshalCSV(field string) error {
	var set Type
	for _, n := range splitField(field) {
		flag, err := ParseType(n)
		if err != nil {
			return err
		}
		set = set.Add(flag)
	}
	*t = set
	return nil
}

// MarshalCSV writes names separated by '|'.
func (t Type) MarshalCSV() (string, error) {
	return strings.Join(namesOf(t.Members(), typeNames), "|"), nil
}

// Movement is a set of movement capabilities.
type Movement uint8

const (
	MoveGround Movement = 1 << iota
	MoveWater
	MoveAir
)

// AllMovements lists every movement flag in declaration order.
var AllMovements = []Movement{MoveGround, MoveWater, MoveAir}

var movementNames = map[Movement]string{
	MoveGround: "Ground",
	MoveWater:  "Water",
	MoveAir:    "Air",
}

// Has checks if the set shares any capability with other.
func (m Movement) Has(other Movement) bool {
	return m&other != 0
}

// Add adds capabilities to the set.
func (m Movement) Add(other Movement) Movement {
	return m | other
}

// Remove removes capabilities from the set.
func (m Movement) Remove(other Movement) Movement {
	return m &^ other
}

// Members returns the single flags present in the set.
func (m Movement) Members() []Movement {
	var members []Movement
	for _, f := range AllMovements {
		if m.Has(f) {
			members = append(members, f)
		}
	}
	return members
}

func (m Movement) String() string {
	return joinNames(m.Members(), movementNames)
}

// ParseMovement parses a single movement name (case-insensitive).
func ParseMovement(name string) (Movement, error) {
	for flag, n := range movementNames {
		if strings.EqualFold(n, name) {
			return flag, nil
		}
	}
	return 0, fmt.Errorf("unknown movement %q", name)
}

// MarshalYAML writes the set as a list of names.
func (m Movement) MarshalYAML() (any, error) {
	return namesOf(m.Members(), movementNames), nil
}

// UnmarshalYAML accepts a single name or a list of names.
func (m *Movement) UnmarshalYAML(node *yaml.Node) error {
	names, err := decodeNames(node)
	if err != nil {
		return err
	}
	var set Movement
	for _, n := range names {
		flag, err := ParseMovement(n)
		if err != nil {
			return err
		}
		set = set.Add(flag)
	}
	*m = set
	return nil
}

// UnmarshalCSV accepts names separated by '|'.
func (m *Movement) UnmarshalCSV(field string) error {
	var set Movement
	for _, n := range splitField(field) {
		flag, err := ParseMovement(n)
		if err != nil {
			return err
		}
		set = set.Add(flag)
	}
	*m = set
	return nil
}

// MarshalCSV writes names separated by '|'.
func (m Movement) MarshalCSV() (string, error) {
	return strings.Join(namesOf(m.Members(), movementNames), "|"), nil
}

// Terrain is the ground category under a creature.
type Terrain uint8

const (
	TerrainNone Terrain = iota
	TerrainGround
	TerrainWater
)

func (t Terrain) String() string {
	switch t {
	case TerrainGround:
		return "Ground"
	case TerrainWater:
		return "Water"
	default:
		return "None"
	}
}

// Weight is a creature's weight class.
type Weight uint8

const (
	Light Weight = iota
	Medium
	Heavy
)

func (w Weight) String() string {
	switch w {
	case Light:
		return "Light"
	case Heavy:
		return "Heavy"
	default:
		return "Medium"
	}
}

// UnmarshalText parses a weight class name.
func (w *Weight) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "light":
		*w = Light
	case "medium", "":
		*w = Medium
	case "heavy":
		*w = Heavy
	default:
		return fmt.Errorf("unknown weight %q", text)
	}
	return nil
}

// MarshalText writes the weight class name.
func (w Weight) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// PassiveTarget is the stat a passive modifies.
type PassiveTarget uint8

const (
	TargetNone PassiveTarget = iota
	TargetSpeed
	TargetWeight
	TargetHealth
	TargetEnergy
	TargetDamage
)

var targetNames = map[PassiveTarget]string{
	TargetNone:   "None",
	TargetSpeed:  "Speed",
	TargetWeight: "Weight",
	TargetHealth: "Health",
	TargetEnergy: "Energy",
	TargetDamage: "Damage",
}

func (p PassiveTarget) String() string {
	return targetNames[p]
}

// UnmarshalText parses a passive target name.
func (p *PassiveTarget) UnmarshalText(text []byte) error {
	for target, n := range targetNames {
		if strings.EqualFold(n, string(text)) {
			*p = target
			return nil
		}
	}
	return fmt.Errorf("unknown passive target %q", text)
}

// MarshalText writes the passive target name.
func (p PassiveTarget) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func decodeNames(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return nil, err
		}
		return splitField(s), nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return nil, err
		}
		return names, nil
	default:
		return nil, fmt.Errorf("line %d: expected name or list of names", node.Line)
	}
}

func splitField(field string) []string {
	var names []string
	for _, part := range strings.FieldsFunc(field, func(r rune) bool { return r == '|' || r == ',' }) {
		if p := strings.TrimSpace(part); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func namesOf[F comparable](flags []F, names map[F]string) []string {
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		out = append(out, names[f])
	}
	return out
}

func joinNames[F comparable](flags []F, names map[F]string) string {
	if len(flags) == 0 {
		return "None"
	}
	return strings.Join(namesOf(flags, names), "|")
}
