package ui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mon/fx"
	"github.com/pthm-cable/mon/world"
)

// AbilityData is one ability slot as shown in the inspector.
type AbilityData struct {
	Name     string
	Cooldown time.Duration // Remaining; zero when ready
}

// CreatureData is a frame snapshot of one creature.
type CreatureData struct {
	Name      string
	Species   string
	Family    string
	Tier      int
	Type      string
	Movement  string
	Terrain   string
	Speed     float64
	Health    int
	MaxHealth int
	Energy    int
	MaxEnergy int
	Exp       int
	NeededExp int
	Passives  []string
	Abilities []AbilityData
	Colors    []string
	Look      *fx.Look // Top effect; nil when none plays

	Invincible   bool
	UsingAbility bool
	Evolving     bool
	Dying        bool
	Regenerating bool
}

// Snapshot copies the displayable state of e. Returns false once e is gone.
func Snapshot(w *world.World, e ecs.Entity) (CreatureData, bool) {
	c, ok := w.Creature(e)
	if !ok {
		return CreatureData{}, false
	}
	act, _ := w.Activity(e)
	hab, _ := w.Terrain(e)
	m, st := c.Mon, c.Stats

	d := CreatureData{
		Name:      m.DisplayName(),
		Species:   m.ID,
		Family:    m.Family,
		Tier:      m.Tier,
		Type:      m.Type.String(),
		Movement:  m.Movement.String(),
		Terrain:   hab.Terrain.String(),
		Speed:     st.Speed(),
		Health:    st.Health(),
		MaxHealth: st.MaxHealth(),
		Energy:    st.Energy(),
		MaxEnergy: st.MaxEnergy(),
		Exp:       m.CurrentExp,
		NeededExp: m.NeededExp,
		Colors:    m.Colors,
		Look:      c.FX.Stack().Top(),

		Invincible:   act.Invincible(),
		UsingAbility: act.UsingAbility,
		Evolving:     act.Evolving,
		Dying:        act.Dying,
		Regenerating: st.Regenerating(),
	}
	for _, p := range c.Passives.Passives() {
		d.Passives = append(d.Passives, p.ID)
	}
	for _, a := range m.Abilities {
		if a == nil {
			d.Abilities = append(d.Abilities, AbilityData{Name: "-"})
			continue
		}
		d.Abilities = append(d.Abilities, AbilityData{Name: a.Name, Cooldown: a.CooldownRemaining()})
	}
	return d, true
}

func creature(data any) *CreatureData {
	return data.(*CreatureData)
}

func flags(d *CreatureData) string {
	var out []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{d.Invincible, "invincible"},
		{d.UsingAbility, "ability"},
		{d.Evolving, "evolving"},
		{d.Dying, "dying"},
		{d.Regenerating, "regen"},
	} {
		if f.on {
			out = append(out, f.name)
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, " ")
}

// CreaturePanel lays out the creature inspector.
func CreaturePanel() PanelDescriptor {
	return PanelDescriptor{
		ID:    "creature",
		Title: "Creature",
		Width: 300,
		Sections: []SectionDescriptor{
			{
				ID:    "species",
				Title: "Species",
				Fields: []FieldDescriptor{
					{ID: "name", Label: "Name", TextGetter: func(d any) string { return creature(d).Name }},
					{ID: "family", Label: "Family", TextGetter: func(d any) string { return creature(d).Family }},
					{ID: "tier", Label: "Tier", Format: "%.0f", Getter: func(d any) float32 { return float32(creature(d).Tier) }},
					{ID: "type", Label: "Type", TextGetter: func(d any) string { return creature(d).Type }},
					{ID: "movement", Label: "Movement", TextGetter: func(d any) string { return creature(d).Movement }},
					{ID: "colors", Label: "Colors", Widget: WidgetSwatches, ColorsGetter: func(d any) []rl.Color { return parseColors(creature(d).Colors) }},
				},
			},
			{
				ID:    "pools",
				Title: "Stats",
				Fields: []FieldDescriptor{
					{ID: "health", Label: "Health", Widget: WidgetPool, PoolGetter: func(d any) (int, int) { return creature(d).Health, creature(d).MaxHealth }},
					{ID: "energy", Label: "Energy", Widget: WidgetPool, PoolGetter: func(d any) (int, int) { return creature(d).Energy, creature(d).MaxEnergy }},
					{ID: "exp", Label: "Exp", Widget: WidgetPool, PoolGetter: func(d any) (int, int) { return creature(d).Exp, creature(d).NeededExp },
						Visible: func(d any) bool { return creature(d).NeededExp > 0 }},
					{ID: "speed", Label: "Speed", Format: "%.1f", Getter: func(d any) float32 { return float32(creature(d).Speed) }},
					{ID: "terrain", Label: "Terrain", TextGetter: func(d any) string { return creature(d).Terrain }},
				},
			},
			{
				ID:      "passives",
				Title:   "Passives",
				Visible: func(d any) bool { return len(creature(d).Passives) > 0 },
				Fields: []FieldDescriptor{
					{ID: "passives", Label: "Unlocked", TextGetter: func(d any) string { return strings.Join(creature(d).Passives, ", ") }},
				},
			},
			{
				ID:    "state",
				Title: "State",
				Fields: []FieldDescriptor{
					{ID: "flags", Label: "Flags", TextGetter: func(d any) string { return flags(creature(d)) }},
					{ID: "effect", Label: "Effect", TextGetter: func(d any) string {
						if l := creature(d).Look; l != nil {
							return l.Effect.String()
						}
						return "-"
					}},
				},
			},
		},
	}
}

// AbilityLabel names an ability slot for its button.
func AbilityLabel(slot int, a AbilityData) string {
	if a.Cooldown > 0 {
		return fmt.Sprintf("%d: %s (%.1fs)", slot+1, a.Name, a.Cooldown.Seconds())
	}
	return fmt.Sprintf("%d: %s", slot+1, a.Name)
}

func parseColors(hex []string) []rl.Color {
	out := make([]rl.Color, 0, len(hex))
	for _, h := range hex {
		if c, err := fx.ParseColor(h); err == nil {
			out = append(out, c)
		}
	}
	return out
}
