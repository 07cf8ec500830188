package stats

// Pool is a (current, max) capacity pair. Max is an accumulator of capacity
// deltas; current follows growth and is clamped on shrink.
type Pool struct {
	Current int
	Max     int
}

// ChangeMax adds delta to the capacity. An empty pool starts full.
// Growth is added to Current as well; shrinking only clamps Current.
func (p *Pool) ChangeMax(delta int) {
	if p.Max == 0 {
		p.Current = delta
	}
	p.Max += delta
	if delta > 0 {
		p.Current += delta
	}
	p.Current = min(p.Current, p.Max)
}

// Add changes Current by n, clamped to [0, Max].
func (p *Pool) Add(n int) {
	p.Current = max(0, min(p.Current+n, p.Max))
}

// Full reports whether Current has reached Max.
func (p *Pool) Full() bool {
	return p.Current >= p.Max
}

// Ratio returns Current/Max, or 0 for an empty pool.
func (p *Pool) Ratio() float64 {
	if p.Max <= 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Max)
}
