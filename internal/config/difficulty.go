package config

// Scaling is how a preset bends the spawn ramps of a level.
type Scaling struct {
	Interval    float64 // Multiplies the seconds between waves
	Speed       float64 // Multiplies block drift speed
	BatchChance float64 // Multiplies the batch probability
	Ramp        bool    // Whether the ramps advance at all
}

// ScalingForPreset returns the spawn scaling of a preset.
func ScalingForPreset(preset DifficultyPreset) Scaling {
	switch preset {
	case DifficultyEasy:
		return Scaling{Interval: 1.3, Speed: 0.8, BatchChance: 0.5, Ramp: true}
	case DifficultyHard:
		return Scaling{Interval: 0.75, Speed: 1.25, BatchChance: 1.5, Ramp: true}
	case DifficultyFixed:
		return Scaling{Interval: 1, Speed: 1, BatchChance: 1, Ramp: false}
	default:
		return Scaling{Interval: 1, Speed: 1, BatchChance: 1, Ramp: true}
	}
}

// ApplyPreset scales the spawn settings of a level in place. The fixed
// preset freezes both ramps at their initial values.
func ApplyPreset(cfg *LevelConfig, preset DifficultyPreset) {
	s := ScalingForPreset(preset)

	cfg.Spawn.Interval.Initial *= s.Interval
	cfg.Spawn.Interval.End *= s.Interval
	cfg.Spawn.Speed.Initial *= s.Speed
	cfg.Spawn.Speed.End *= s.Speed
	cfg.Spawn.BatchChance = clampF(cfg.Spawn.BatchChance*s.BatchChance, 0, 1)

	if !s.Ramp {
		cfg.Spawn.Interval.End = cfg.Spawn.Interval.Initial
		cfg.Spawn.Interval.Rate = 0
		cfg.Spawn.Speed.End = cfg.Spawn.Speed.Initial
		cfg.Spawn.Speed.Rate = 0
	}
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
