package core

import (
	"math"
	"math/rand"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// SpawnRequest is a block waiting to appear.
type SpawnRequest struct {
	Type     BlockType
	Property PropertyKind
	SpawnIn  float64 // Countdown length at the spawn point, seconds
	Speed    float64 // Initial drift speed toward the center
	Torque   float64 // Initial spin, radians per second
}

// SpawnConfig holds the spawn cadence and block parameters of a level.
type SpawnConfig struct {
	Interval      RampConfig // Seconds between waves
	Speed         RampConfig // Block drift speed
	BatchChance   float64    // Probability that a wave is a batch
	BatchMin      int
	BatchMax      int
	SpawnIn       float64 // Base countdown length
	Jitter        float64 // Relative jitter applied to batch members
	Torque        float64 // Max absolute initial spin
	Types         []BlockType
	StoneChance   float64
	SpecialChance float64
	Specials      []PropertyKind
}

// BlockFactory creates free blocks. Board implements it.
type BlockFactory interface {
	Create(t BlockType, pos Vec2, rot float64) *Node
}

// SpawnPoint is a rim location that announces and then drops a block.
type SpawnPoint struct {
	ID  int
	Pos Vec2

	busy      bool
	req       SpawnRequest
	countdown *gween.Tween
	progress  float64
}

// Busy reports whether the point is counting down a request.
func (p *SpawnPoint) Busy() bool {
	return p.busy
}

// Request returns the bound request. Valid only while Busy.
func (p *SpawnPoint) Request() SpawnRequest {
	return p.req
}

// Progress returns the countdown progress in [0, 1].
func (p *SpawnPoint) Progress() float64 {
	return p.progress
}

// Remaining returns the seconds left before the block appears.
func (p *SpawnPoint) Remaining() float64 {
	return p.req.SpawnIn * (1 - p.progress)
}

func (p *SpawnPoint) bind(req SpawnRequest) {
	p.busy = true
	p.req = req
	p.progress = 0
	p.countdown = gween.New(0, 1, float32(req.SpawnIn), ease.Linear)
}

// advance moves the countdown and reports whether it finished.
func (p *SpawnPoint) advance(dt float64) bool {
	v, done := p.countdown.Update(float32(dt))
	p.progress = float64(v)
	if done {
		p.progress = 1
	}
	return done
}

func (p *SpawnPoint) release() {
	p.busy = false
	p.req = SpawnRequest{}
	p.countdown = nil
	p.progress = 0
}

// RingSpawnPoints places count points evenly on a circle around center.
func RingSpawnPoints(center Vec2, radius float64, count int) []Vec2 {
	out := make([]Vec2, count)
	for i := range out {
		angle := math.Pi/2 - 2*math.Pi*float64(i)/float64(count)
		out[i] = center.Add(FromAngle(angle).Scale(radius))
	}
	return out
}

// SpawnScheduler turns the spawn cadence into free blocks: it queues
// requests on a ramped interval, binds them to free spawn points and
// instantiates the blocks when the points' countdowns finish.
type SpawnScheduler struct {
	cfg     SpawnConfig
	rng     *rand.Rand
	factory BlockFactory
	sink    EventSink
	center  Vec2

	points []*SpawnPoint
	queue  []SpawnRequest

	intervalRamp *ProgressiveTimer
	speedRamp    *ProgressiveTimer
	interval     float64
	speed        float64
	elapsed      float64
	running      bool
}

// NewSpawnScheduler creates a stopped scheduler.
func NewSpawnScheduler(cfg SpawnConfig, points []Vec2, center Vec2, factory BlockFactory, rng *rand.Rand, sink EventSink) *SpawnScheduler {
	s := &SpawnScheduler{
		cfg:     cfg,
		rng:     rng,
		factory: factory,
		sink:    sinkOrDiscard(sink),
		center:  center,
	}
	for i, pos := range points {
		s.points = append(s.points, &SpawnPoint{ID: i, Pos: pos})
	}

	s.intervalRamp = NewProgressiveTimer(cfg.Interval)
	s.intervalRamp.OnChange = func(v float64) { s.interval = v }
	s.interval = cfg.Interval.Initial

	s.speedRamp = NewProgressiveTimer(cfg.Speed)
	s.speedRamp.OnChange = func(v float64) { s.speed = v }
	s.speed = cfg.Speed.Initial

	return s
}

// Start resumes spawning.
func (s *SpawnScheduler) Start() {
	s.running = true
}

// Stop clears the queue and cancels every busy point without creating
// any block.
func (s *SpawnScheduler) Stop() {
	s.running = false
	s.queue = nil
	s.elapsed = 0
	for _, p := range s.points {
		if p.busy {
			p.release()
		}
	}
}

// Running reports whether the scheduler is active.
func (s *SpawnScheduler) Running() bool {
	return s.running
}

// Queued returns the number of requests waiting for a free point.
func (s *SpawnScheduler) Queued() int {
	return len(s.queue)
}

// Points returns the spawn points.
func (s *SpawnScheduler) Points() []*SpawnPoint {
	return s.points
}

// Interval returns the current seconds between waves.
func (s *SpawnScheduler) Interval() float64 {
	return s.interval
}

// Speed returns the current block drift speed.
func (s *SpawnScheduler) Speed() float64 {
	return s.speed
}

// Enqueue adds a request to the pending queue.
func (s *SpawnScheduler) Enqueue(req SpawnRequest) {
	s.queue = append(s.queue, req)
}

// Update advances the ramps, the wave timer and every busy point.
// Returns the ids of the blocks created this frame.
func (s *SpawnScheduler) Update(dt float64) []NodeID {
	if !s.running {
		return nil
	}

	s.intervalRamp.Update(dt)
	s.speedRamp.Update(dt)

	s.elapsed += dt
	if s.elapsed >= s.interval {
		s.elapsed = 0
		s.enqueueWave()
	}

	s.assign()

	var spawned []NodeID
	for _, p := range s.points {
		if !p.busy {
			continue
		}
		done := p.advance(dt)
		s.sink.Emit(SpawnCountdownEvent{
			Point:     p.ID,
			Type:      p.req.Type,
			Remaining: p.Remaining(),
			Progress:  p.progress,
		})
		if done {
			spawned = append(spawned, s.instantiate(p))
		}
	}
	return spawned
}

// enqueueWave queues one request, or a batch with jittered timings.
func (s *SpawnScheduler) enqueueWave() {
	if s.cfg.BatchMax > 0 && s.rng.Float64() < s.cfg.BatchChance {
		lo, hi := s.cfg.BatchMin, s.cfg.BatchMax
		if lo < 1 {
			lo = 1
		}
		if hi < lo {
			hi = lo
		}
		count := lo + s.rng.Intn(hi-lo+1)
		for i := 0; i < count; i++ {
			req := s.newRequest()
			req.SpawnIn *= 1 + s.jitter()
			req.Speed *= 1 + s.jitter()
			s.Enqueue(req)
		}
		return
	}
	s.Enqueue(s.newRequest())
}

// jitter returns a random factor in [-Jitter, Jitter].
func (s *SpawnScheduler) jitter() float64 {
	return (s.rng.Float64()*2 - 1) * s.cfg.Jitter
}

// newRequest rolls the type, property and spin of a block.
func (s *SpawnScheduler) newRequest() SpawnRequest {
	req := SpawnRequest{
		SpawnIn: s.cfg.SpawnIn,
		Speed:   s.speed,
		Torque:  (s.rng.Float64()*2 - 1) * s.cfg.Torque,
	}

	switch {
	case s.cfg.StoneChance > 0 && s.rng.Float64() < s.cfg.StoneChance:
		req.Type = BlockStone
	case len(s.cfg.Types) > 0:
		req.Type = s.cfg.Types[s.rng.Intn(len(s.cfg.Types))]
	default:
		req.Type = ColorTypes[s.rng.Intn(len(ColorTypes))]
	}

	if req.Type.IsColor() && len(s.cfg.Specials) > 0 && s.rng.Float64() < s.cfg.SpecialChance {
		req.Property = s.cfg.Specials[s.rng.Intn(len(s.cfg.Specials))]
	}
	return req
}

// assign binds queued requests to randomly chosen free points.
func (s *SpawnScheduler) assign() {
	for len(s.queue) > 0 {
		free := make([]*SpawnPoint, 0, len(s.points))
		for _, p := range s.points {
			if !p.busy {
				free = append(free, p)
			}
		}
		if len(free) == 0 {
			return
		}
		p := free[s.rng.Intn(len(free))]
		p.bind(s.queue[0])
		s.queue = s.queue[1:]
	}
}

// instantiate creates the block for a finished point and frees the point.
func (s *SpawnScheduler) instantiate(p *SpawnPoint) NodeID {
	req := p.req
	n := s.factory.Create(req.Type, p.Pos, s.rng.Float64()*2*math.Pi)
	n.Property = req.Property
	n.Motion = Motion{
		Vel:  s.center.Sub(p.Pos).Normalized().Scale(req.Speed),
		Spin: req.Torque,
	}
	p.release()
	s.sink.Emit(SpawnedEvent{Point: p.ID, Node: n.ID, Type: n.Type})
	return n.ID
}
