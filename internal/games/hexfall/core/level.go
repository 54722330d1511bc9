package core

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
)

// Contact is a free block touching an attached one, as reported by physics.
type Contact struct {
	Free     NodeID
	Attached NodeID
	Distance float64
}

// Physics is the rigid-body collaborator driving free blocks.
type Physics interface {
	SpatialQuery

	// Step integrates one frame and returns the contacts it found.
	Step(dt float64) []Contact
}

// SeedBlock is a block placed on the lattice before play starts. Path
// walks linked edges from Central; the block goes beyond the last edge.
type SeedBlock struct {
	Path     []EdgeIndex
	Type     BlockType
	Property PropertyKind
}

// LevelSettings is everything a level needs, already resolved from config.
type LevelSettings struct {
	Geometry       Geometry
	Scores         ScoreTable
	Multiplier     MultiplierConfig
	Spawn          SpawnConfig
	SpawnRadius    float64
	SpawnPoints    int
	BoundaryRadius float64 // Game over once an attached block passes it
	TimeLimit      float64 // Seconds, 0 for untimed
	Stars          [3]int  // Score thresholds for one, two and three stars
	RotateDamping  float64 // Fraction of angular velocity lost per second
	Seeds          []SeedBlock
}

// Validate checks the settings before a level is built from them.
func (s LevelSettings) Validate() error {
	if err := s.Geometry.Validate(); err != nil {
		return fmt.Errorf("geometry: %w", err)
	}
	if s.SpawnPoints < 1 {
		return fmt.Errorf("%w: need at least one spawn point", ErrInvalidConfig)
	}
	if s.SpawnRadius <= s.BoundaryRadius {
		return fmt.Errorf("%w: spawn radius %.2f must exceed boundary radius %.2f", ErrInvalidConfig, s.SpawnRadius, s.BoundaryRadius)
	}
	if s.BoundaryRadius <= s.Geometry.AttachOffset {
		return fmt.Errorf("%w: boundary radius %.2f leaves no room to build", ErrInvalidConfig, s.BoundaryRadius)
	}
	if s.Multiplier.Max < 1 {
		return fmt.Errorf("%w: multiplier max must be at least 1", ErrInvalidConfig)
	}
	if s.Spawn.Interval.Initial <= 0 || s.Spawn.Speed.Initial <= 0 {
		return fmt.Errorf("%w: spawn interval and speed must be positive", ErrInvalidConfig)
	}
	for i := 1; i < len(s.Stars); i++ {
		if s.Stars[i] < s.Stars[i-1] {
			return fmt.Errorf("%w: star thresholds must not decrease", ErrInvalidConfig)
		}
	}
	for _, t := range s.Spawn.Types {
		if !t.IsColor() {
			return fmt.Errorf("%w: spawn type %s is not a color", ErrInvalidConfig, t)
		}
	}
	return nil
}

// StepResult summarizes one frame.
type StepResult struct {
	Spawned  []NodeID
	Attached NodeID // NoNode when nothing attached this frame
	Outcome  MatchOutcome
	Over     bool
}

// Level owns one play session: the board and every engine component, all
// advanced together once per frame.
type Level struct {
	cfg    LevelSettings
	logger *log.Logger

	board      *Board
	physics    Physics
	linker     *Linker
	matcher    *MatchEngine
	multiplier *Multiplier
	spawner    *SpawnScheduler
	events     *EventLog

	score         int
	angVel        float64
	elapsed       float64
	lastRemaining int
	paused        bool
	over          bool
	reason        GameOverReason
	fatal         error
}

// NewLevel builds a level, seeds its lattice and starts the spawner.
// newPhysics receives the board once it exists.
func NewLevel(cfg LevelSettings, newPhysics func(*Board) Physics, rng *rand.Rand, logger *log.Logger) (l *Level, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	board := NewBoard(cfg.Geometry)
	events := &EventLog{}
	multiplier := NewMultiplier(cfg.Multiplier, events)
	phys := newPhysics(board)
	center := board.Central().Pose.Pos

	l = &Level{
		cfg:           cfg,
		logger:        logger,
		board:         board,
		physics:       phys,
		linker:        NewLinker(board, phys),
		matcher:       NewMatchEngine(board, cfg.Scores, multiplier, events),
		multiplier:    multiplier,
		events:        events,
		lastRemaining: -1,
	}
	l.spawner = NewSpawnScheduler(
		cfg.Spawn,
		RingSpawnPoints(center, cfg.SpawnRadius, cfg.SpawnPoints),
		center,
		board,
		rng,
		events,
	)

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			l, err = nil, fmt.Errorf("%w: seeding: %w", ErrInvalidConfig, ie)
		}
	}()
	for i, seed := range cfg.Seeds {
		if err := l.seed(seed); err != nil {
			return nil, fmt.Errorf("seed %d: %w", i, err)
		}
	}

	l.spawner.Start()
	return l, nil
}

// seed places one block on the lattice and links it.
func (l *Level) seed(s SeedBlock) error {
	if len(s.Path) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidConfig)
	}
	if s.Type == BlockCentral {
		return fmt.Errorf("%w: central cannot be seeded", ErrInvalidConfig)
	}

	cur := l.board.Central()
	for _, e := range s.Path[:len(s.Path)-1] {
		if !e.Valid() {
			return fmt.Errorf("%w: edge %d", ErrInvalidConfig, e)
		}
		next := cur.Links[e]
		if next.Empty() {
			return fmt.Errorf("%w: path leaves the structure at %s of block %d", ErrInvalidConfig, e, cur.ID)
		}
		cur = l.board.Node(next.Node)
	}

	last := s.Path[len(s.Path)-1]
	if !last.Valid() {
		return fmt.Errorf("%w: edge %d", ErrInvalidConfig, last)
	}
	if !cur.Links[last].Empty() {
		return fmt.Errorf("%w: cell beyond %s of block %d is taken", ErrInvalidConfig, last, cur.ID)
	}

	pose := l.board.LatticePosition(cur.ID, last)
	n := l.board.Create(s.Type, pose.Pos, pose.Rot)
	n.Property = s.Property
	n.Simulated = false
	n.Parented = true
	if l.linker.Settle(n.ID) == 0 {
		l.board.Destroy(n.ID)
		return fmt.Errorf("%w: block does not touch the structure", ErrInvalidConfig)
	}
	return nil
}

// Board returns the level's board.
func (l *Level) Board() *Board {
	return l.board
}

// Spawner returns the spawn scheduler.
func (l *Level) Spawner() *SpawnScheduler {
	return l.spawner
}

// Multiplier returns the score multiplier.
func (l *Level) Multiplier() *Multiplier {
	return l.multiplier
}

// Settings returns the settings the level was built with.
func (l *Level) Settings() LevelSettings {
	return l.cfg
}

// Score returns the accumulated score.
func (l *Level) Score() int {
	return l.score
}

// Elapsed returns the played time in seconds.
func (l *Level) Elapsed() float64 {
	return l.elapsed
}

// TimeRemaining returns the seconds left on a timed level, or -1.
func (l *Level) TimeRemaining() float64 {
	if l.cfg.TimeLimit <= 0 {
		return -1
	}
	return math.Max(l.cfg.TimeLimit-l.elapsed, 0)
}

// Stars returns the number of star thresholds reached by the score.
func (l *Level) Stars() int {
	stars := 0
	for _, t := range l.cfg.Stars {
		if t > 0 && l.score >= t {
			stars++
		}
	}
	return stars
}

// Over reports whether the level has ended.
func (l *Level) Over() bool {
	return l.over
}

// Reason returns why the level ended.
func (l *Level) Reason() GameOverReason {
	return l.reason
}

// Fatal returns the invariant violation that stopped the level, if any.
func (l *Level) Fatal() error {
	return l.fatal
}

// Paused reports whether the level is paused.
func (l *Level) Paused() bool {
	return l.paused
}

// SetPaused halts or resumes every timer.
func (l *Level) SetPaused(p bool) {
	l.paused = p
}

// Events drains the events raised since the last call.
func (l *Level) Events() []Event {
	return l.events.Drain()
}

// AngularVelocity returns the anchor's spin in radians per second.
func (l *Level) AngularVelocity() float64 {
	return l.angVel
}

// Rotate adds an impulse, in radians per second, to the anchor's spin.
func (l *Level) Rotate(impulse float64) {
	if l.over || l.paused {
		return
	}
	l.angVel += impulse
}

// Step advances the level by dt seconds.
func (l *Level) Step(dt float64) (res StepResult) {
	res.Attached = NoNode
	if l.over || l.paused || dt <= 0 {
		res.Over = l.over
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			l.fail(ie)
			res.Over = true
		}
	}()

	l.elapsed += dt

	if l.angVel != 0 {
		l.board.RotateAttached(l.angVel * dt)
		l.angVel *= math.Max(1-l.cfg.RotateDamping*dt, 0)
		if math.Abs(l.angVel) < 1e-4 {
			l.angVel = 0
		}
	}

	l.multiplier.Tick(dt)
	res.Spawned = l.spawner.Update(dt)
	if l.tickTimeLimit() {
		res.Over = true
		return res
	}

	for _, c := range l.physics.Step(dt) {
		free, links := l.linker.OnCollision(c.Attached, c.Free)
		if links == 0 {
			continue
		}
		l.events.Emit(AttachEvent{Node: free, Links: links})
		l.logger.Debug("block attached", "node", free, "links", links)

		out := l.matcher.OnAttach(free)
		if out.Matched() {
			l.score += out.Total()
			l.logger.Debug("match", "destroyed", len(out.Destroyed), "floating", len(out.Floating), "score", out.Total(), "multiplier", out.Multiplier)
		} else if out.Cancelled {
			l.logger.Debug("match cancelled", "node", free)
		}
		res.Attached = free
		res.Outcome = out
		break
	}

	if l.board.MaxAttachedDistance() > l.cfg.BoundaryRadius {
		l.end(ReasonOverflow)
	}
	res.Over = l.over
	return res
}

// tickTimeLimit counts down a timed level and reports whether it ended.
func (l *Level) tickTimeLimit() bool {
	if l.cfg.TimeLimit <= 0 {
		return false
	}
	remaining := int(math.Ceil(l.TimeRemaining()))
	if remaining != l.lastRemaining {
		l.lastRemaining = remaining
		l.events.Emit(TimeLimitEvent{Remaining: remaining})
	}
	if l.elapsed >= l.cfg.TimeLimit {
		l.end(ReasonTimeUp)
		return true
	}
	return false
}

// Obstruct destroys a block hit by an obstruction and drops everything it
// held up. No score is awarded.
func (l *Level) Obstruct(id NodeID) (floating []NodeID, err error) {
	if l.over {
		return nil, nil
	}
	n := l.board.Node(id)
	if n == nil || !n.Attached || n.Type == BlockCentral {
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			l.fail(ie)
			floating, err = nil, ie
		}
	}()
	return l.matcher.DestroyBatch([]NodeID{id}), nil
}

// end stops the level and reports the result.
func (l *Level) end(reason GameOverReason) {
	if l.over {
		return
	}
	l.over = true
	l.reason = reason
	l.spawner.Stop()
	l.events.Emit(GameOverEvent{
		Score:      l.score,
		Stars:      l.Stars(),
		Thresholds: l.cfg.Stars,
		Reason:     reason,
	})
	l.logger.Info("level over", "reason", reason, "score", l.score, "stars", l.Stars())
}

// fail stops the level after a lattice invariant was broken.
func (l *Level) fail(ie *InvariantError) {
	l.fatal = ie
	l.logger.Error("invariant violated", "op", ie.Op, "err", ie.Detail)
	l.end(ReasonFatal)
}

// IsFatal reports whether err is a lattice invariant violation.
func IsFatal(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
