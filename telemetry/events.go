// Package telemetry tracks creature population health, per-creature lifetimes
// and update step timing.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventDamage
	EventHeal
	EventDeath
	EventEvolve
	EventEnergyRanOut
	EventDespawn
)

var eventNames = [...]string{
	EventSpawn:        "spawn",
	EventDamage:       "damage",
	EventHeal:         "heal",
	EventDeath:        "death",
	EventEvolve:       "evolve",
	EventEnergyRanOut: "energy_ran_out",
	EventDespawn:      "despawn",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID uint32
	Family   string

	// Optional fields depending on event type
	SourceID uint32 // attacker for damage events; 0 when unknown
	Tier     int    // tier reached for spawn and evolve events
	Amount   int    // damage taken or health restored
}

// NewSpawnEvent creates a spawn event.
func NewSpawnEvent(tick int32, entityID uint32, family string, tier int) Event {
	return Event{
		Type:     EventSpawn,
		Tick:     tick,
		EntityID: entityID,
		Family:   family,
		Tier:     tier,
	}
}

// NewDamageEvent creates a damage event. sourceID is 0 for environmental damage.
func NewDamageEvent(tick int32, targetID, sourceID uint32, amount int) Event {
	return Event{
		Type:     EventDamage,
		Tick:     tick,
		EntityID: targetID,
		SourceID: sourceID,
		Amount:   amount,
	}
}

// NewHealEvent creates a heal event.
func NewHealEvent(tick int32, entityID uint32, amount int) Event {
	return Event{
		Type:     EventHeal,
		Tick:     tick,
		EntityID: entityID,
		Amount:   amount,
	}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int32, entityID uint32, family string) Event {
	return Event{
		Type:     EventDeath,
		Tick:     tick,
		EntityID: entityID,
		Family:   family,
	}
}

// NewEvolveEvent creates an evolution event for the tier just reached.
func NewEvolveEvent(tick int32, entityID uint32, family string, tier int) Event {
	return Event{
		Type:     EventEvolve,
		Tick:     tick,
		EntityID: entityID,
		Family:   family,
		Tier:     tier,
	}
}

// NewEnergyRanOutEvent creates an event for a drained energy pool starting to refill.
func NewEnergyRanOutEvent(tick int32, entityID uint32) Event {
	return Event{
		Type:     EventEnergyRanOut,
		Tick:     tick,
		EntityID: entityID,
	}
}

// NewDespawnEvent creates a despawn event.
func NewDespawnEvent(tick int32, entityID uint32, family string) Event {
	return Event{
		Type:     EventDespawn,
		Tick:     tick,
		EntityID: entityID,
		Family:   family,
	}
}
