package hexfall

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/games/hexfall/core"
)

// SimOptions configure a headless run.
type SimOptions struct {
	Seconds  float64 // Upper bound on simulated time
	TickRate int
	Seed     int64
	Logger   *log.Logger
}

// SimResult is the outcome of a headless run.
type SimResult struct {
	Score    int
	Stars    int
	Elapsed  float64
	Attaches int
	Matches  int
	Floating int
	Spawned  int
	Reason   core.GameOverReason
	Err      error
}

// Simulate plays a level without a terminal. Rotation input is random
// but reproducible for a given seed.
func Simulate(cfg config.LevelConfig, opts SimOptions) (SimResult, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return SimResult{}, err
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 30
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	input := rand.New(rand.NewSource(opts.Seed + 1))

	level, err := core.NewLevel(settings, newPhysics, rng, logger)
	if err != nil {
		return SimResult{}, err
	}

	var res SimResult
	dt := 1 / float64(opts.TickRate)
	for !level.Over() && level.Elapsed() < opts.Seconds {
		if input.Float64() < 0.05 {
			impulse := cfg.Control.Impulse
			if input.Intn(2) == 0 {
				impulse = -impulse
			}
			level.Rotate(impulse)
		}

		step := level.Step(dt)
		res.Spawned += len(step.Spawned)
		if step.Attached != core.NoNode {
			res.Attaches++
		}
		if step.Outcome.Matched() {
			res.Matches++
			res.Floating += len(step.Outcome.Floating)
		}

		for _, ev := range level.Events() {
			switch e := ev.(type) {
			case core.MatchResolvedEvent:
				if e.Outcome.Matched() {
					logger.Info("match", "t", level.Elapsed(), "size", len(e.Outcome.Destroyed),
						"floating", len(e.Outcome.Floating), "score", e.Outcome.Total(), "x", e.Outcome.Multiplier)
				}
			case core.GameOverEvent:
				logger.Info("game over", "reason", e.Reason, "score", e.Score, "stars", e.Stars)
			}
		}
	}

	res.Score = level.Score()
	res.Stars = level.Stars()
	res.Elapsed = level.Elapsed()
	res.Reason = level.Reason()
	res.Err = level.Fatal()
	return res, nil
}
