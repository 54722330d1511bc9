package core_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexfall/internal/games/hexfall/core"
)

func flatRamp(v float64) core.RampConfig {
	return core.RampConfig{Initial: v, End: v, Interval: 1}
}

func newTestScheduler(cfg core.SpawnConfig, points int) (*core.SpawnScheduler, *core.Board, *core.EventLog) {
	b := core.NewBoard(core.DefaultGeometry())
	events := &core.EventLog{}
	s := core.NewSpawnScheduler(
		cfg,
		core.RingSpawnPoints(core.V(0, 0), 10, points),
		core.V(0, 0),
		b,
		rand.New(rand.NewSource(7)),
		events,
	)
	return s, b, events
}

func TestRingSpawnPoints(t *testing.T) {
	pts := core.RingSpawnPoints(core.V(1, 1), 5, 4)
	require.Len(t, pts, 4)
	assert.InDelta(t, 1, pts[0].X, eps)
	assert.InDelta(t, 6, pts[0].Y, eps)
	assert.InDelta(t, 6, pts[1].X, eps)
	assert.InDelta(t, 1, pts[1].Y, eps)
	for _, p := range pts {
		assert.InDelta(t, 5, p.Dist(core.V(1, 1)), eps)
	}
}

func TestSchedulerSpawnsWhenCountdownEnds(t *testing.T) {
	s, b, events := newTestScheduler(core.SpawnConfig{
		Interval: flatRamp(1),
		Speed:    flatRamp(2),
		SpawnIn:  0.5,
		Types:    []core.BlockType{core.BlockRed},
	}, 4)

	assert.Nil(t, s.Update(1), "stopped scheduler does nothing")

	s.Start()
	require.True(t, s.Running())
	assert.Empty(t, s.Update(0.5))
	assert.Equal(t, 1, b.Len())

	spawned := s.Update(0.5)
	require.Len(t, spawned, 1)

	n := b.Node(spawned[0])
	require.NotNil(t, n)
	assert.Equal(t, core.BlockRed, n.Type)
	assert.True(t, n.IsFree())
	assert.True(t, n.Simulated)
	assert.InDelta(t, 10, n.Pose.Pos.Len(), eps)
	assert.InDelta(t, 2, n.Motion.Vel.Len(), eps)
	assert.InDelta(t, -1, n.Motion.Vel.Normalized().Dot(n.Pose.Pos.Normalized()), eps, "drifts toward the center")

	for _, p := range s.Points() {
		assert.False(t, p.Busy(), "point is released after spawning")
	}

	var countdowns, spawnedEvents int
	for _, e := range events.Drain() {
		switch e := e.(type) {
		case core.SpawnCountdownEvent:
			countdowns++
			assert.Equal(t, core.BlockRed, e.Type)
		case core.SpawnedEvent:
			spawnedEvents++
			assert.Equal(t, n.ID, e.Node)
		}
	}
	assert.Equal(t, 1, countdowns)
	assert.Equal(t, 1, spawnedEvents)
}

func TestSchedulerCountdownProgress(t *testing.T) {
	s, b, _ := newTestScheduler(core.SpawnConfig{
		Interval: flatRamp(1),
		Speed:    flatRamp(1),
		SpawnIn:  2,
	}, 3)
	s.Start()

	assert.Empty(t, s.Update(1))

	var busy *core.SpawnPoint
	for _, p := range s.Points() {
		if p.Busy() {
			require.Nil(t, busy, "one request binds one point")
			busy = p
		}
	}
	require.NotNil(t, busy)
	assert.InDelta(t, 0.5, busy.Progress(), 1e-6)
	assert.InDelta(t, 1, busy.Remaining(), 1e-6)
	assert.True(t, busy.Request().Type.IsColor())

	assert.Empty(t, s.Update(0.5))
	assert.InDelta(t, 0.75, busy.Progress(), 1e-6)
	assert.Equal(t, 1, b.Len())
}

func TestSchedulerQueuesWhenPointsAreBusy(t *testing.T) {
	s, b, _ := newTestScheduler(core.SpawnConfig{
		Interval: flatRamp(100),
		Speed:    flatRamp(1),
		SpawnIn:  5,
	}, 2)
	s.Start()

	for i := 0; i < 3; i++ {
		s.Enqueue(core.SpawnRequest{Type: core.BlockBlue, SpawnIn: 5, Speed: 1})
	}
	assert.Equal(t, 3, s.Queued())

	s.Update(0.01)
	assert.Equal(t, 1, s.Queued())
	busy := 0
	for _, p := range s.Points() {
		if p.Busy() {
			busy++
		}
	}
	assert.Equal(t, 2, busy)

	s.Stop()
	assert.False(t, s.Running())
	assert.Zero(t, s.Queued())
	for _, p := range s.Points() {
		assert.False(t, p.Busy())
	}
	assert.Equal(t, 1, b.Len(), "stopping creates no blocks")
	assert.Nil(t, s.Update(10))
}

func TestSchedulerBatchWave(t *testing.T) {
	s, _, _ := newTestScheduler(core.SpawnConfig{
		Interval:    flatRamp(1),
		Speed:       flatRamp(1),
		SpawnIn:     5,
		BatchChance: 1,
		BatchMin:    3,
		BatchMax:    3,
		Jitter:      0.2,
	}, 6)
	s.Start()

	s.Update(1)

	busy := 0
	for _, p := range s.Points() {
		if !p.Busy() {
			continue
		}
		busy++
		req := p.Request()
		assert.InDelta(t, 5, req.SpawnIn, 1.0+eps)
		assert.InDelta(t, 1, req.Speed, 0.2+eps)
	}
	assert.Equal(t, 3, busy)
	assert.Zero(t, s.Queued())
}

func TestSchedulerStonesCarryNoProperty(t *testing.T) {
	s, _, _ := newTestScheduler(core.SpawnConfig{
		Interval:      flatRamp(1),
		Speed:         flatRamp(1),
		SpawnIn:       5,
		StoneChance:   1,
		SpecialChance: 1,
		Specials:      []core.PropertyKind{core.PropertyBomb},
	}, 1)
	s.Start()
	s.Update(1)

	req := s.Points()[0].Request()
	assert.Equal(t, core.BlockStone, req.Type)
	assert.Equal(t, core.PropertyNone, req.Property)
}

func TestSchedulerRampsCadence(t *testing.T) {
	s, _, _ := newTestScheduler(core.SpawnConfig{
		Interval: core.RampConfig{Initial: 3, End: 1.5, Rate: 0.5, Interval: 1, Op: core.RampDecremental},
		Speed:    core.RampConfig{Initial: 1, End: 4, Rate: 1, Interval: 1, Op: core.RampIncremental},
		SpawnIn:  1,
	}, 4)
	s.Start()

	assert.InDelta(t, 3, s.Interval(), eps)
	s.Update(1)
	assert.InDelta(t, 1.5, s.Interval(), eps)
	assert.InDelta(t, 2, s.Speed(), eps)
	s.Update(1)
	assert.InDelta(t, 4, s.Speed(), eps)
}
