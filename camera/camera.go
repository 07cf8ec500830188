// Package camera provides the viewer's 2D camera: a fixed focus point with
// trauma-driven screen shake for hits.
package camera

import (
	"math"
	"math/rand"
)

// Camera offsets the viewport around a focus point.
type Camera struct {
	// Focus is the screen point the subject is drawn at
	X, Y float32

	// Trauma in [0, 1]; shake magnitude grows with its square
	Trauma float32

	// MaxOffset is the shake offset in pixels at full trauma
	MaxOffset float32

	// Decay is trauma lost per second
	Decay float32

	offX, offY float32
	rng        *rand.Rand
}

// New creates a camera focused on (x, y).
func New(x, y float32, rng *rand.Rand) *Camera {
	return &Camera{
		X:         x,
		Y:         y,
		MaxOffset: 12,
		Decay:     2.5,
		rng:       rng,
	}
}

// Shake adds trauma, capped at 1.
func (c *Camera) Shake(amount float32) {
	c.Trauma = min(c.Trauma+amount, 1)
}

// Update decays trauma by dt seconds and picks this frame's offset.
func (c *Camera) Update(dt float32) {
	c.Trauma = max(c.Trauma-c.Decay*dt, 0)
	if c.Trauma == 0 {
		c.offX, c.offY = 0, 0
		return
	}
	mag := c.MaxOffset * c.Trauma * c.Trauma
	c.offX = mag * (2*c.rng.Float32() - 1)
	c.offY = mag * (2*c.rng.Float32() - 1)
}

// Offset returns the current shake offset.
func (c *Camera) Offset() (dx, dy float32) {
	return c.offX, c.offY
}

// Focus returns the shaken focus point in whole pixels.
func (c *Camera) Focus() (x, y int32) {
	return int32(math.Round(float64(c.X + c.offX))), int32(math.Round(float64(c.Y + c.offY)))
}

// Reset clears any shake.
func (c *Camera) Reset() {
	c.Trauma = 0
	c.offX, c.offY = 0, 0
}
