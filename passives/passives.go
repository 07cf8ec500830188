// Package passives turns a creature's unlocked passive ids into stat modifiers.
package passives

import (
	"github.com/pthm-cable/mon/catalog"
	"github.com/pthm-cable/mon/mon"
	"github.com/pthm-cable/mon/traits"
)

const subscriptionKey = "passives.refresh"

// Source sums the modifiers of a creature's passives per target. Sums are
// rebuilt whenever the creature evolves.
type Source struct {
	cat  *catalog.Catalog
	m    *mon.Mon
	sums map[traits.PassiveTarget]float64
}

// NewSource builds the modifier sums for m and keeps them current across evolutions.
func NewSource(m *mon.Mon) *Source {
	s := &Source{cat: m.Catalog(), m: m}
	s.refresh(m)
	m.AfterEvolve.SubscribeKey(subscriptionKey, s.refresh)
	return s
}

func (s *Source) refresh(m *mon.Mon) {
	s.sums = make(map[traits.PassiveTarget]float64)
	for _, id := range m.Passives {
		p, ok := s.cat.Passive(id)
		if !ok || !p.Active {
			continue
		}
		s.sums[p.Target] += p.Modifier
	}
}

// Modifier returns the summed modifier for target. Zero when no passive applies.
func (s *Source) Modifier(target traits.PassiveTarget) float64 {
	return s.sums[target]
}

// Passives returns the creature's passive descriptors in unlock order.
func (s *Source) Passives() []*catalog.Passive {
	out := make([]*catalog.Passive, 0, len(s.m.Passives))
	for _, id := range s.m.Passives {
		if p, ok := s.cat.Passive(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Close stops tracking evolutions.
func (s *Source) Close() {
	s.m.AfterEvolve.UnsubscribeKey(subscriptionKey)
}
