// Package fx models the visual effects a creature renderer shows. Effects are
// kept in a priority stack; only the highest priority effect is drawn.
package fx

import (
	"github.com/pthm-cable/mon/event"
)

// Effect identifies a visual effect. Lower values take priority.
type Effect uint8

const (
	InvincibilityPalette Effect = iota
	DamageFlash
	TransformFlash
	AppearFlash
	RagePulse
	GenePalette

	numEffects
)

var effectNames = [numEffects]string{
	InvincibilityPalette: "invincibility",
	DamageFlash:          "damage_flash",
	TransformFlash:       "transform_flash",
	AppearFlash:          "appear_flash",
	RagePulse:            "rage_pulse",
	GenePalette:          "gene_palette",
}

func (e Effect) String() string {
	if e < numEffects {
		return effectNames[e]
	}
	return "unknown"
}

// Colors used by the built-in effects.
const (
	White    = "#ffffff"
	OffWhite = "#f4f4f4"
	Black    = "#000000"
	RageRed  = "#d81e1e"
)

// Look is what a renderer applies for an effect.
type Look struct {
	Effect  Effect
	Hidden  bool     // Sprite not drawn
	Tint    string   // Solid hit color; empty for none
	Palette []string // Replacement colors by palette index; empty keeps the sprite's own
}

// Stack holds the active effects of one creature.
type Stack struct {
	looks  [numEffects]*Look
	active int

	// Changed fires with the new top look whenever it may have changed.
	// The payload is nil when no effect is active.
	Changed event.Event[*Look]
}

// Play adds effect look, replacing a previous look for the same effect.
func (s *Stack) Play(look Look) {
	if look.Effect >= numEffects {
		return
	}
	if s.looks[look.Effect] == nil {
		s.active++
	}
	s.looks[look.Effect] = &look
	s.Changed.Emit(s.Top())
}

// Stop removes effect. Stopping an inactive effect does nothing.
func (s *Stack) Stop(effect Effect) {
	if effect >= numEffects || s.looks[effect] == nil {
		return
	}
	s.looks[effect] = nil
	s.active--
	s.Changed.Emit(s.Top())
}

// Top returns the highest priority look, or nil.
func (s *Stack) Top() *Look {
	for _, l := range s.looks {
		if l != nil {
			return l
		}
	}
	return nil
}

// Active reports whether effect is in the stack.
func (s *Stack) Active(effect Effect) bool {
	return effect < numEffects && s.looks[effect] != nil
}

// Len returns the number of active effects.
func (s *Stack) Len() int {
	return s.active
}

// Clear removes every effect.
func (s *Stack) Clear() {
	if s.active == 0 {
		return
	}
	s.looks = [numEffects]*Look{}
	s.active = 0
	s.Changed.Emit(nil)
}
