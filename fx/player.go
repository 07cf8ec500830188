package fx

import (
	"context"
	"time"

	"github.com/pthm-cable/mon/config"
	"github.com/pthm-cable/mon/task"
)

// Player runs timed effects on a scheduler. Each effect has one cancellable
// slot; replaying a one-shot effect restarts it.
type Player struct {
	stack *Stack
	sched *task.Scheduler
	slots [numEffects]task.Slot
}

// NewPlayer creates a player with an empty stack.
func NewPlayer(sched *task.Scheduler) *Player {
	return &Player{stack: &Stack{}, sched: sched}
}

// Stack returns the effect stack the player writes to.
func (p *Player) Stack() *Stack {
	return p.stack
}

// Running reports whether a timed task for effect is active.
func (p *Player) Running(effect Effect) bool {
	return p.slots[effect].Active()
}

func (p *Player) restart(effect Effect, fn func(co *task.Co) error) {
	p.slots[effect].Stop()
	p.slots[effect].Start(p.sched, context.Background(), fn)
}

func (p *Player) stop(effect Effect) {
	p.slots[effect].Stop()
	p.stack.Stop(effect)
}

// ShowGenePalette swaps the sprite palette for colors until hidden.
func (p *Player) ShowGenePalette(colors []string) {
	p.stack.Play(Look{Effect: GenePalette, Palette: append([]string(nil), colors...)})
}

// HideGenePalette removes the gene palette.
func (p *Player) HideGenePalette() {
	p.stack.Stop(GenePalette)
}

// StartInvincibility blinks the sprite until StopInvincibility.
func (p *Player) StartInvincibility() {
	if p.slots[InvincibilityPalette].Active() {
		return
	}
	p.slots[InvincibilityPalette].Start(p.sched, context.Background(), func(co *task.Co) error {
		d := config.Cfg().Derived.DamageFlashDuration
		for {
			if err := co.Delay(d); err != nil {
				return err
			}
			p.stack.Play(Look{Effect: InvincibilityPalette, Hidden: true})
			if err := co.Delay(d); err != nil {
				return err
			}
			p.stack.Stop(InvincibilityPalette)
		}
	})
}

// StopInvincibility ends the blink and shows the sprite.
func (p *Player) StopInvincibility() {
	p.stop(InvincibilityPalette)
}

// FlashDamage tints the sprite white briefly. Non-positive damage is ignored.
func (p *Player) FlashDamage(amount int) {
	if amount <= 0 {
		return
	}
	p.restart(DamageFlash, func(co *task.Co) error {
		p.stack.Play(Look{Effect: DamageFlash, Tint: White})
		if err := co.Delay(config.Cfg().Derived.DamageFlashDuration); err != nil {
			return err
		}
		p.stack.Stop(DamageFlash)
		return nil
	})
}

// StartRage pulses the sprite red until StopRage.
func (p *Player) StartRage() {
	if p.slots[RagePulse].Active() {
		return
	}
	p.slots[RagePulse].Start(p.sched, context.Background(), func(co *task.Co) error {
		d := config.Cfg().Derived.RageFlashDuration
		for {
			p.stack.Play(Look{Effect: RagePulse, Palette: []string{White, RageRed}})
			if err := co.Delay(d); err != nil {
				return err
			}
			p.stack.Stop(RagePulse)
			if err := co.Delay(d); err != nil {
				return err
			}
		}
	})
}

// StopRage ends the rage pulse.
func (p *Player) StopRage() {
	p.stop(RagePulse)
}

// whitened maps every palette color to white, keeping accent as the last entry.
func whitened(colors []string, accent string) []string {
	out := make([]string, len(colors), len(colors)+1)
	for i := range out {
		out[i] = White
	}
	return append(out, accent)
}

// TransformPre plays the flash leading into an evolution. The effect stays
// until TransformPost finishes it.
func (p *Player) TransformPre(colors []string) {
	palette := whitened(colors, Black)
	p.restart(TransformFlash, func(co *task.Co) error {
		d := config.Cfg().Derived.TransformFlashDuration
		p.stack.Play(Look{Effect: TransformFlash, Palette: palette})
		if err := co.Delay(d); err != nil {
			return err
		}
		p.stack.Play(Look{Effect: TransformFlash, Tint: OffWhite})
		return co.Delay(d)
	})
}

// TransformPost plays the flash out of an evolution with the new colors.
func (p *Player) TransformPost(colors []string) {
	palette := whitened(colors, Black)
	p.restart(TransformFlash, func(co *task.Co) error {
		d := config.Cfg().Derived.TransformFlashDuration
		p.stack.Play(Look{Effect: TransformFlash, Tint: OffWhite})
		if err := co.Delay(d); err != nil {
			return err
		}
		p.stack.Play(Look{Effect: TransformFlash, Palette: palette})
		if err := co.Delay(d); err != nil {
			return err
		}
		p.stack.Stop(TransformFlash)
		return nil
	})
}

// Appear plays the spawn flash.
func (p *Player) Appear(colors []string) {
	accent := Black
	if len(colors) > 1 {
		accent = colors[1]
	}
	palette := whitened(colors, accent)
	p.restart(AppearFlash, func(co *task.Co) error {
		d := config.Cfg().Derived.AppearFlashDuration
		p.stack.Play(Look{Effect: AppearFlash, Palette: palette})
		if err := co.Delay(d); err != nil {
			return err
		}
		p.stack.Play(Look{Effect: AppearFlash, Tint: OffWhite})
		if err := co.Delay(d); err != nil {
			return err
		}
		p.stack.Stop(AppearFlash)
		return nil
	})
}

// StopAll cancels every timed effect and clears the stack.
func (p *Player) StopAll() {
	for i := range p.slots {
		p.slots[i].Stop()
	}
	p.stack.Clear()
}

// Duration is how long a one-shot effect shows from start to finish.
// Looping and untimed effects return 0.
func Duration(effect Effect) time.Duration {
	d := config.Cfg().Derived
	switch effect {
	case DamageFlash:
		return d.DamageFlashDuration
	case TransformFlash:
		return 2 * d.TransformFlashDuration
	case AppearFlash:
		return 2 * d.AppearFlashDuration
	}
	return 0
}
