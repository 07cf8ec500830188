package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DrawCreature draws d as concentric rings in its palette, applying the
// top effect: hidden skips the sprite, a palette swaps the colors and a
// tint covers it.
func DrawCreature(x, y, radius int32, d *CreatureData) {
	colors := d.Colors
	if l := d.Look; l != nil {
		if l.Hidden {
			return
		}
		if len(l.Palette) > 0 {
			colors = l.Palette
		}
	}

	rings := parseColors(colors)
	if len(rings) == 0 {
		rings = []rl.Color{rl.Gray}
	}
	step := float32(radius) / float32(len(rings))
	for i, c := range rings {
		rl.DrawCircle(x, y, float32(radius)-float32(i)*step, c)
	}

	if d.Look != nil && d.Look.Tint != "" {
		if tint := parseColors([]string{d.Look.Tint}); len(tint) == 1 {
			tint[0].A = 200
			rl.DrawCircle(x, y, float32(radius), tint[0])
		}
	}
	rl.DrawCircleLines(x, y, float32(radius), rl.DarkGray)
}
