// Package hexfall is the Hexfall puzzle as a platform game: it loads a
// level, maps actions to rotation impulses, advances the engine once per
// tick and draws the playfield.
package hexfall

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexfall/internal/config"
	platformcore "github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/games/hexfall/core"
	"github.com/vovakirdan/hexfall/internal/games/hexfall/physics"
	"github.com/vovakirdan/hexfall/internal/registry"
)

const (
	campaignID = "hexfall"
	endlessID  = "hexfall_endless"

	popupTTL = 1.2 // Seconds a score label stays on screen
)

func init() {
	registry.Register(campaignID, "Hexfall", func(opts registry.Options) (registry.Game, error) {
		return New(opts, false)
	})
	registry.Register(endlessID, "Hexfall Endless", func(opts registry.Options) (registry.Game, error) {
		return New(opts, true)
	})
}

// popup is a floating score label.
type popup struct {
	text string
	at   core.Vec2
	ttl  float64
}

// Game runs one Hexfall level.
type Game struct {
	cfg     config.LevelConfig
	endless bool
	logger  *log.Logger

	level *core.Level
	rng   *rand.Rand
	dt    float64

	popups     []popup
	countdowns map[int]core.SpawnCountdownEvent
	fraction   float64
	lastMatch  core.MatchOutcome
	result     *core.GameOverEvent
	err        error
}

// New loads the requested level and applies the difficulty preset.
// Endless mode drops the time limit.
func New(opts registry.Options, endless bool) (*Game, error) {
	preset, err := config.ParseDifficulty(opts.Difficulty)
	if err != nil {
		return nil, err
	}

	levels, err := config.LoadLevels(opts.LevelsDir)
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no levels found")
	}

	cfg := levels[0]
	if opts.Level != "" {
		found := false
		for _, l := range levels {
			if l.ID == opts.Level {
				cfg, found = l, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("level not found: %s", opts.Level)
		}
	}

	config.ApplyPreset(&cfg, preset)
	if endless {
		cfg.TimeLimit = 0
	}
	return NewFromConfig(cfg, endless, opts.Logger)
}

// NewFromConfig creates a game for an already loaded level.
func NewFromConfig(cfg config.LevelConfig, endless bool, logger *log.Logger) (*Game, error) {
	if _, err := cfg.Settings(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{
		cfg:     cfg,
		endless: endless,
		logger:  logger.WithPrefix(cfg.ID),
	}, nil
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	if g.endless {
		return endlessID
	}
	return campaignID
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.endless {
		return "Hexfall Endless: " + g.cfg.Title()
	}
	return "Hexfall: " + g.cfg.Title()
}

// LevelID returns the level being played.
func (g *Game) LevelID() string {
	return g.cfg.ID
}

// Level returns the running engine level, nil before Reset or after a
// failed one.
func (g *Game) Level() *core.Level {
	return g.level
}

// Reset starts the level over.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.dt = cfg.Dt()
	g.popups = nil
	g.countdowns = make(map[int]core.SpawnCountdownEvent)
	g.fraction = 0
	g.lastMatch = core.MatchOutcome{}
	g.result = nil
	g.err = nil

	settings, err := g.cfg.Settings()
	if err == nil {
		g.level, err = core.NewLevel(settings, newPhysics, g.rng, g.logger)
	}
	if err != nil {
		g.level = nil
		g.err = err
		g.logger.Error("level failed to start", "err", err)
		return
	}
	g.logger.Info("level started", "seed", cfg.Seed, "endless", g.endless)
}

// newPhysics builds the stock solver over a board.
func newPhysics(b *core.Board) core.Physics {
	return physics.NewWorld(b, physics.DefaultConfig())
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if g.level == nil {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionPause) && !g.level.Over() {
		g.level.SetPaused(!g.level.Paused())
	}

	impulse := g.cfg.Control.Impulse
	if in.Has(platformcore.ActionRotateLeft) {
		g.level.Rotate(impulse)
	}
	if in.Has(platformcore.ActionRotateRight) {
		g.level.Rotate(-impulse)
	}

	if !g.level.Paused() {
		g.level.Step(g.dt)
		g.consume(g.level.Events())
		g.agePopups(g.dt)
	}

	return platformcore.StepResult{State: g.State()}
}

// consume applies the engine events of one tick to the view state.
func (g *Game) consume(events []core.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case core.ScoreEvent:
			if e.Delta > 0 {
				g.popups = append(g.popups, popup{text: fmt.Sprintf("+%d", e.Delta), at: e.At, ttl: popupTTL})
			}
		case core.SpawnCountdownEvent:
			g.countdowns[e.Point] = e
		case core.SpawnedEvent:
			delete(g.countdowns, e.Point)
		case core.MultiplierEvent:
			g.fraction = e.Fraction
		case core.MatchResolvedEvent:
			g.lastMatch = e.Outcome
		case core.GameOverEvent:
			result := e
			g.result = &result
			clear(g.countdowns)
			if g.level.Fatal() != nil {
				g.err = g.level.Fatal()
			}
		}
	}
}

// agePopups moves score labels upward and drops expired ones.
func (g *Game) agePopups(dt float64) {
	kept := g.popups[:0]
	for _, p := range g.popups {
		p.ttl -= dt
		p.at.Y += dt * 0.8
		if p.ttl > 0 {
			kept = append(kept, p)
		}
	}
	g.popups = kept
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	if g.level == nil {
		return platformcore.GameState{GameOver: true, Reason: "level failed to start", Err: g.err}
	}
	st := platformcore.GameState{
		Score:      g.level.Score(),
		Stars:      g.level.Stars(),
		Multiplier: g.level.Multiplier().Value(),
		GameOver:   g.level.Over(),
		Paused:     g.level.Paused(),
		Err:        g.err,
	}
	if st.GameOver {
		st.Reason = g.level.Reason().String()
	}
	return st
}

// timeLeft formats the remaining time of a timed level.
func (g *Game) timeLeft() string {
	rem := g.level.TimeRemaining()
	if rem < 0 {
		return "--:--"
	}
	secs := int(math.Ceil(rem))
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
