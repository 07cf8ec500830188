package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Resolve maps a user-typed name to a species id. Matching is exact on id or
// display name (case-insensitive), then by unique prefix. Misses return
// ErrUnknownSpecies with the closest suggestions in the message.
func (c *Catalog) Resolve(name string) (string, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return "", fmt.Errorf("empty name: %w", ErrUnknownSpecies)
	}

	var prefixHits []string
	for _, id := range c.order {
		sp := c.species[id]
		if strings.ToLower(sp.ID) == query || strings.ToLower(sp.Name) == query {
			return sp.ID, nil
		}
		if len(query) >= 2 && (strings.HasPrefix(strings.ToLower(sp.ID), query) ||
			strings.HasPrefix(strings.ToLower(sp.Name), query)) {
			prefixHits = append(prefixHits, sp.ID)
		}
	}
	if len(prefixHits) == 1 {
		return prefixHits[0], nil
	}

	suggestions := c.Suggest(name, 3)
	if len(suggestions) > 0 {
		return "", fmt.Errorf("%q: %w (did you mean %s?)", name, ErrUnknownSpecies, strings.Join(suggestions, ", "))
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownSpecies)
}

// ResolveFamily resolves name like Resolve and returns the family the
// matched species belongs to.
func (c *Catalog) ResolveFamily(name string) (string, error) {
	id, err := c.Resolve(name)
	if err != nil {
		return "", err
	}
	return c.species[id].Family, nil
}

// Suggest returns up to n species ids closest to name by edit distance.
func (c *Catalog) Suggest(name string, n int) []string {
	query := strings.ToLower(strings.TrimSpace(name))
	type scored struct {
		id   string
		dist int
	}
	var results []scored
	for _, id := range c.order {
		sp := c.species[id]
		dist := levenshtein.ComputeDistance(query, strings.ToLower(sp.ID))
		if sp.Name != "" {
			if d := levenshtein.ComputeDistance(query, strings.ToLower(sp.Name)); d < dist {
				dist = d
			}
		}
		if dist > distanceLimit(len(sp.ID)) {
			continue
		}
		results = append(results, scored{id: sp.ID, dist: dist})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].id < results[j].id
		}
		return results[i].dist < results[j].dist
	})

	out := make([]string, 0, n)
	for i := 0; i < len(results) && i < n; i++ {
		out = append(out, results[i].id)
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
