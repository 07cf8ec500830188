package traits

import (
	"math/rand"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestTypeSetOps(t *testing.T) {
	set := Fire.Add(Water)
	if !set.Has(Fire) || !set.Has(Water) {
		t.Errorf("set %v should contain Fire and Water", set)
	}
	if set.Has(Grass) {
		t.Errorf("set %v should not contain Grass", set)
	}
	set = set.Remove(Fire)
	if set.Has(Fire) {
		t.Errorf("Fire should be removed, got %v", set)
	}
	if got := Fire.Add(Rock).String(); got != "Fire|Rock" {
		t.Errorf("String() = %q, want Fire|Rock", got)
	}
}

func TestTypeRandomSamplesOnlyMembers(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	set := Fire | Ghost | Ice
	seen := make(map[Type]int)
	for i := 0; i < 3000; i++ {
		m := set.Random(rng)
		if !set.Has(m) {
			t.Fatalf("Random returned %v outside set %v", m, set)
		}
		seen[m]++
	}
	for _, m := range set.Members() {
		if seen[m] < 800 {
			t.Errorf("member %v sampled %d times, expected roughly 1000", m, seen[m])
		}
	}
	if got := Type(0).Random(rng); got != 0 {
		t.Errorf("Random on empty set = %v, want 0", got)
	}
}

func TestMovementYAML(t *testing.T) {
	var doc struct {
		Single Movement `yaml:"single"`
		List   Movement `yaml:"list"`
	}
	src := "single: Air\nlist: [Ground, Water]\n"
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Single != MoveAir {
		t.Errorf("single = %v, want Air", doc.Single)
	}
	if doc.List != MoveGround|MoveWater {
		t.Errorf("list = %v, want Ground|Water", doc.List)
	}
}

func TestTypeYAMLUnknownName(t *testing.T) {
	var doc struct {
		Type Type `yaml:"type"`
	}
	if err := yaml.Unmarshal([]byte("type: [Fire, Plasma]\n"), &doc); err == nil {
		t.Error("expected error for unknown type name")
	}
}

func TestCSVFields(t *testing.T) {
	var ty Type
	if err := ty.UnmarshalCSV("Fire|Water"); err != nil {
		t.Fatal(err)
	}
	if ty != Fire|Water {
		t.Errorf("got %v, want Fire|Water", ty)
	}
	out, err := ty.MarshalCSV()
	if err != nil || out != "Fire|Water" {
		t.Errorf("MarshalCSV = %q, %v", out, err)
	}

	var mv Movement
	if err := mv.UnmarshalCSV("water, air"); err != nil {
		t.Fatal(err)
	}
	if mv != MoveWater|MoveAir {
		t.Errorf("got %v, want Water|Air", mv)
	}
}
