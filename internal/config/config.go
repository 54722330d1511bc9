// Package config provides YAML level definitions, their schema validation
// and difficulty presets for Hexfall.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/hexfall/internal/games/hexfall/core"
)

// ErrInvalidLevel is returned for any level file that cannot be played.
var ErrInvalidLevel = errors.New("invalid level")

// LevelConfig is one level file.
type LevelConfig struct {
	ID             string           `yaml:"id"`
	Name           string           `yaml:"name"`
	Order          int              `yaml:"order"`
	Geometry       GeometryConfig   `yaml:"geometry"`
	Scoring        ScoringConfig    `yaml:"scoring"`
	Multiplier     MultiplierConfig `yaml:"multiplier"`
	Spawn          SpawnConfig      `yaml:"spawn"`
	Control        ControlConfig    `yaml:"control"`
	BoundaryRadius float64          `yaml:"boundary_radius"`
	TimeLimit      float64          `yaml:"time_limit"`
	Stars          [3]int           `yaml:"stars"`
	Seed           []SeedConfig     `yaml:"seed,omitempty"`
}

// GeometryConfig sets the block size.
type GeometryConfig struct {
	Radius float64 `yaml:"radius"`
}

// ScoringConfig holds the award table.
type ScoringConfig struct {
	Match3        int `yaml:"match3"`
	Match4        int `yaml:"match4"`
	Match5        int `yaml:"match5"`
	Match5Bonus   int `yaml:"match5_bonus"`
	FloatingBonus int `yaml:"floating_bonus"`
}

// MultiplierConfig holds the multiplier decay parameters.
type MultiplierConfig struct {
	DecayTime float64 `yaml:"decay_time"`
	DecayRate float64 `yaml:"decay_rate"`
	Max       int     `yaml:"max"`
}

// RampConfig is a ramped quantity. The direction follows from initial
// and end: a value ramping down shrinks, one ramping up grows.
type RampConfig struct {
	Initial float64 `yaml:"initial"`
	End     float64 `yaml:"end"`
	Rate    float64 `yaml:"rate"`
	Every   float64 `yaml:"every"` // Seconds between steps
}

// SpawnConfig describes how blocks enter the playfield.
type SpawnConfig struct {
	Points        int        `yaml:"points"`
	Radius        float64    `yaml:"radius"`
	Interval      RampConfig `yaml:"interval"`
	Speed         RampConfig `yaml:"speed"`
	BatchChance   float64    `yaml:"batch_chance"`
	BatchMin      int        `yaml:"batch_min"`
	BatchMax      int        `yaml:"batch_max"`
	SpawnIn       float64    `yaml:"spawn_in"`
	Jitter        float64    `yaml:"jitter"`
	Torque        float64    `yaml:"torque"`
	Types         []string   `yaml:"types"`
	StoneChance   float64    `yaml:"stone_chance"`
	SpecialChance float64    `yaml:"special_chance"`
	Specials      []string   `yaml:"specials,omitempty"`
}

// ControlConfig tunes how input turns the structure.
type ControlConfig struct {
	Impulse float64 `yaml:"impulse"` // Radians per second added per key press
	Damping float64 `yaml:"damping"` // Fraction of spin lost per second
}

// SeedConfig is a block present when the level starts.
type SeedConfig struct {
	Path     []string `yaml:"path"`
	Type     string   `yaml:"type"`
	Property string   `yaml:"property,omitempty"`
}

// Title returns the display name of the level.
func (c LevelConfig) Title() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Timed reports whether the level has a time limit.
func (c LevelConfig) Timed() bool {
	return c.TimeLimit > 0
}

func (r RampConfig) toCore() core.RampConfig {
	op := core.RampIncremental
	if r.End < r.Initial {
		op = core.RampDecremental
	}
	return core.RampConfig{
		Initial:  r.Initial,
		End:      r.End,
		Rate:     r.Rate,
		Interval: r.Every,
		Op:       op,
	}
}

// Settings resolves the level into engine settings. Unknown block, edge
// and property tokens are reported as ErrInvalidLevel.
func (c LevelConfig) Settings() (core.LevelSettings, error) {
	fail := func(format string, args ...any) (core.LevelSettings, error) {
		return core.LevelSettings{}, fmt.Errorf("%w: %s: %s", ErrInvalidLevel, c.ID, fmt.Sprintf(format, args...))
	}

	types := make([]core.BlockType, 0, len(c.Spawn.Types))
	for _, tok := range c.Spawn.Types {
		t, err := core.ParseBlockType(tok)
		if err != nil {
			return fail("spawn types: %v", err)
		}
		types = append(types, t)
	}

	specials := make([]core.PropertyKind, 0, len(c.Spawn.Specials))
	for _, tok := range c.Spawn.Specials {
		p, err := core.ParseProperty(tok)
		if err != nil {
			return fail("spawn specials: %v", err)
		}
		if p != core.PropertyNone {
			specials = append(specials, p)
		}
	}

	seeds := make([]core.SeedBlock, 0, len(c.Seed))
	for i, s := range c.Seed {
		t, err := core.ParseBlockType(s.Type)
		if err != nil {
			return fail("seed %d: %v", i, err)
		}
		p, err := core.ParseProperty(s.Property)
		if err != nil {
			return fail("seed %d: %v", i, err)
		}
		path := make([]core.EdgeIndex, 0, len(s.Path))
		for _, tok := range s.Path {
			e, err := core.ParseEdge(tok)
			if err != nil {
				return fail("seed %d: %v", i, err)
			}
			path = append(path, e)
		}
		seeds = append(seeds, core.SeedBlock{Path: path, Type: t, Property: p})
	}

	settings := core.LevelSettings{
		Geometry: core.NewGeometry(c.Geometry.Radius),
		Scores: core.ScoreTable{
			Match3:        c.Scoring.Match3,
			Match4:        c.Scoring.Match4,
			Match5:        c.Scoring.Match5,
			Match5Bonus:   c.Scoring.Match5Bonus,
			FloatingBonus: c.Scoring.FloatingBonus,
		},
		Multiplier: core.MultiplierConfig{
			DecayTime: c.Multiplier.DecayTime,
			DecayRate: c.Multiplier.DecayRate,
			Max:       c.Multiplier.Max,
		},
		Spawn: core.SpawnConfig{
			Interval:      c.Spawn.Interval.toCore(),
			Speed:         c.Spawn.Speed.toCore(),
			BatchChance:   c.Spawn.BatchChance,
			BatchMin:      c.Spawn.BatchMin,
			BatchMax:      c.Spawn.BatchMax,
			SpawnIn:       c.Spawn.SpawnIn,
			Jitter:        c.Spawn.Jitter,
			Torque:        c.Spawn.Torque,
			Types:         types,
			StoneChance:   c.Spawn.StoneChance,
			SpecialChance: c.Spawn.SpecialChance,
			Specials:      specials,
		},
		SpawnRadius:    c.Spawn.Radius,
		SpawnPoints:    c.Spawn.Points,
		BoundaryRadius: c.BoundaryRadius,
		TimeLimit:      c.TimeLimit,
		Stars:          c.Stars,
		RotateDamping:  c.Control.Damping,
		Seeds:          seeds,
	}
	if err := settings.Validate(); err != nil {
		return fail("%v", err)
	}
	return settings, nil
}

// DifficultyPreset is a named difficulty.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficulty converts a flag value to a preset.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyNormal, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
}
