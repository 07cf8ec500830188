package telemetry

// LifetimeStats tracks per-creature statistics over its lifetime.
type LifetimeStats struct {
	SpawnTick       int32
	SurvivalTimeSec float32

	Family    string
	Species   string
	StartTier int
	PeakTier  int

	// Combat
	Hits        int
	DamageTaken int
	Heals       int
	Healed      int

	Evolutions   int
	EnergyRanOut int
	Died         bool
}

// LifetimeRecord is the flat CSV row written when a creature despawns.
type LifetimeRecord struct {
	EntityID        uint32  `csv:"entity"`
	Family          string  `csv:"family"`
	Species         string  `csv:"species"`
	SpawnTick       int32   `csv:"spawn_tick"`
	SurvivalTimeSec float32 `csv:"survival_time"`
	StartTier       int     `csv:"start_tier"`
	PeakTier        int     `csv:"peak_tier"`
	Hits            int     `csv:"hits"`
	DamageTaken     int     `csv:"damage_taken"`
	Heals           int     `csv:"heals"`
	Healed          int     `csv:"healed"`
	Evolutions      int     `csv:"evolutions"`
	EnergyRanOut    int     `csv:"energy_ran_out"`
	Died            bool    `csv:"died"`
}

// Record flattens s for entityID.
func (s *LifetimeStats) Record(entityID uint32) LifetimeRecord {
	return LifetimeRecord{
		EntityID:        entityID,
		Family:          s.Family,
		Species:         s.Species,
		SpawnTick:       s.SpawnTick,
		SurvivalTimeSec: s.SurvivalTimeSec,
		StartTier:       s.StartTier,
		PeakTier:        s.PeakTier,
		Hits:            s.Hits,
		DamageTaken:     s.DamageTaken,
		Heals:           s.Heals,
		Healed:          s.Healed,
		Evolutions:      s.Evolutions,
		EnergyRanOut:    s.EnergyRanOut,
		Died:            s.Died,
	}
}

// LifetimeTracker manages per-creature lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a newly spawned creature.
func (lt *LifetimeTracker) Register(entityID uint32, spawnTick int32, family, species string, tier int) {
	lt.stats[entityID] = &LifetimeStats{
		SpawnTick: spawnTick,
		Family:    family,
		Species:   species,
		StartTier: tier,
		PeakTier:  tier,
	}
}

// Get returns the lifetime stats for an entity, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *LifetimeStats {
	return lt.stats[entityID]
}

// Remove removes an entity's stats and returns them.
func (lt *LifetimeTracker) Remove(entityID uint32) *LifetimeStats {
	stats := lt.stats[entityID]
	delete(lt.stats, entityID)
	return stats
}

// Apply folds e into the stats of the entity it names.
func (lt *LifetimeTracker) Apply(e Event) {
	s := lt.stats[e.EntityID]
	if s == nil {
		return
	}
	switch e.Type {
	case EventDamage:
		s.Hits++
		s.DamageTaken += e.Amount
	case EventHeal:
		s.Heals++
		s.Healed += e.Amount
	case EventDeath:
		s.Died = true
	case EventEvolve:
		s.Evolutions++
		s.PeakTier = max(s.PeakTier, e.Tier)
	case EventEnergyRanOut:
		s.EnergyRanOut++
	}
}

// SetSpecies records the species a creature currently is.
func (lt *LifetimeTracker) SetSpecies(entityID uint32, species string) {
	if s := lt.stats[entityID]; s != nil {
		s.Species = species
	}
}

// UpdateSurvivalTime updates the survival time based on current tick.
func (lt *LifetimeTracker) UpdateSurvivalTime(entityID uint32, currentTick int32, dt float32) {
	if s := lt.stats[entityID]; s != nil {
		s.SurvivalTimeSec = float32(currentTick-s.SpawnTick) * dt
	}
}

// All returns all tracked stats.
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked entities.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// ActiveFamilyCount returns the number of distinct families among living creatures.
func (lt *LifetimeTracker) ActiveFamilyCount() int {
	seen := make(map[string]struct{})
	for _, stats := range lt.stats {
		seen[stats.Family] = struct{}{}
	}
	return len(seen)
}
