package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Action is a viewer command issued from the action bar.
type Action int

const (
	ActionNone Action = iota
	ActionDamage
	ActionHeal
	ActionConsume
	ActionExp
	ActionEvolve
	ActionTerrain
	ActionRespawn
	ActionRage
	ActionGenes
	ActionAbility // Slot in ActionBar.Slot
)

var actionLabels = []struct {
	action Action
	label  string
}{
	{ActionDamage, "Damage"},
	{ActionHeal, "Heal"},
	{ActionConsume, "Consume"},
	{ActionExp, "Add exp"},
	{ActionEvolve, "Evolve"},
	{ActionTerrain, "Terrain"},
	{ActionRespawn, "Respawn"},
	{ActionRage, "Rage"},
	{ActionGenes, "Genes"},
}

// ActionBar draws the viewer controls.
type ActionBar struct {
	X, Y   float32
	Amount float32 // Damage/heal/consume amount picked on the slider
	Slot   int     // Ability slot of the last ActionAbility
}

// NewActionBar places the bar at (x, y).
func NewActionBar(x, y float32) *ActionBar {
	return &ActionBar{X: x, Y: y, Amount: 3}
}

// Draw renders the buttons and returns the one pressed this frame.
func (b *ActionBar) Draw(abilities []AbilityData) Action {
	const (
		buttonW = 110
		buttonH = 28
		gap     = 8
	)
	pressed := ActionNone

	x, y := b.X, b.Y
	rl.DrawText("Amount", int32(x), int32(y+6), 14, rl.LightGray)
	b.Amount = float32(int(gui.SliderBar(
		rl.Rectangle{X: x + 60, Y: y, Width: 2*buttonW + gap - 60, Height: 20},
		"1", "20", b.Amount, 1, 20,
	) + 0.5))
	y += 30

	for i, a := range actionLabels {
		bx := x + float32(i%2)*(buttonW+gap)
		by := y + float32(i/2)*(buttonH+gap)
		if gui.Button(rl.Rectangle{X: bx, Y: by, Width: buttonW, Height: buttonH}, a.label) {
			pressed = a.action
		}
	}
	y += float32((len(actionLabels)+1)/2) * (buttonH + gap)

	for slot, a := range abilities {
		r := rl.Rectangle{X: x, Y: y + float32(slot)*(buttonH+gap), Width: 2*buttonW + gap, Height: buttonH}
		if gui.Button(r, AbilityLabel(slot, a)) {
			pressed = ActionAbility
			b.Slot = slot
		}
	}
	return pressed
}
