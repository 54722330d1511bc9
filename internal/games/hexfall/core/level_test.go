package core_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexfall/internal/games/hexfall/core"
	"github.com/vovakirdan/hexfall/internal/games/hexfall/physics"
)

// scriptedPhysics answers spatial queries from the real world but lets a
// test dictate the contacts of the next frames.
type scriptedPhysics struct {
	*physics.World
	frames    [][]core.Contact
	panicWith any
}

func (p *scriptedPhysics) Step(dt float64) []core.Contact {
	if p.panicWith != nil {
		panic(p.panicWith)
	}
	if len(p.frames) > 0 {
		c := p.frames[0]
		p.frames = p.frames[1:]
		return c
	}
	return p.World.Step(dt)
}

func testSettings(seeds ...core.SeedBlock) core.LevelSettings {
	return core.LevelSettings{
		Geometry:       core.DefaultGeometry(),
		Scores:         core.DefaultScoreTable(),
		Multiplier:     core.MultiplierConfig{DecayTime: 4, DecayRate: 1, Max: 5},
		Spawn:          core.SpawnConfig{Interval: flatRamp(100), Speed: flatRamp(1), SpawnIn: 1},
		SpawnRadius:    12,
		SpawnPoints:    6,
		BoundaryRadius: 8,
		Stars:          [3]int{30, 60, 90},
		RotateDamping:  4,
		Seeds:          seeds,
	}
}

func seed(typ core.BlockType, path ...core.EdgeIndex) core.SeedBlock {
	return core.SeedBlock{Path: path, Type: typ}
}

func newTestLevel(t *testing.T, cfg core.LevelSettings) (*core.Level, *scriptedPhysics) {
	t.Helper()
	var sp *scriptedPhysics
	lvl, err := core.NewLevel(cfg, func(b *core.Board) core.Physics {
		sp = &scriptedPhysics{World: physics.NewWorld(b, physics.DefaultConfig())}
		return sp
	}, rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	return lvl, sp
}

func TestNewLevelSeedsLattice(t *testing.T) {
	cfg := testSettings(
		seed(core.BlockRed, core.EdgeTop),
		seed(core.BlockBlue, core.EdgeBottom),
		seed(core.BlockGreen, core.EdgeTop, core.EdgeRightBottom),
		core.SeedBlock{Path: []core.EdgeIndex{core.EdgeLeftBottom}, Type: core.BlockGreen, Property: core.PropertyChained},
	)
	lvl, _ := newTestLevel(t, cfg)
	b := lvl.Board()

	assert.Equal(t, 4, b.AttachedCount())
	require.NoError(t, b.CheckLinks())

	central := b.Central()
	top := b.Node(central.Links[core.EdgeTop].Node)
	require.NotNil(t, top)
	assert.Equal(t, core.BlockRed, top.Type)

	// Top then RightBottom lands on central's RightTop cell.
	rt := b.Node(central.Links[core.EdgeRightTop].Node)
	require.NotNil(t, rt)
	assert.Equal(t, core.BlockGreen, rt.Type)
	assert.Equal(t, 2, rt.LinkCount())

	lb := b.Node(central.Links[core.EdgeLeftBottom].Node)
	require.NotNil(t, lb)
	assert.Equal(t, core.PropertyChained, lb.Property)

	assert.True(t, lvl.Spawner().Running())
	assert.Equal(t, -1.0, lvl.TimeRemaining())
	assert.False(t, lvl.Over())
}

func TestNewLevelRejectsBadSeeds(t *testing.T) {
	tests := []struct {
		name  string
		seeds []core.SeedBlock
	}{
		{"path leaves structure", []core.SeedBlock{seed(core.BlockRed, core.EdgeTop, core.EdgeTop)}},
		{"cell taken", []core.SeedBlock{seed(core.BlockRed, core.EdgeTop), seed(core.BlockBlue, core.EdgeTop)}},
		{"empty path", []core.SeedBlock{seed(core.BlockRed)}},
		{"central", []core.SeedBlock{seed(core.BlockCentral, core.EdgeTop)}},
		{"bad edge", []core.SeedBlock{seed(core.BlockRed, core.EdgeIndex(9))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.NewLevel(testSettings(tt.seeds...), func(b *core.Board) core.Physics {
				return physics.NewWorld(b, physics.DefaultConfig())
			}, rand.New(rand.NewSource(1)), nil)
			assert.ErrorIs(t, err, core.ErrInvalidConfig)
		})
	}
}

func TestLevelSettingsValidate(t *testing.T) {
	require.NoError(t, testSettings().Validate())

	tests := []struct {
		name   string
		mutate func(*core.LevelSettings)
	}{
		{"no spawn points", func(s *core.LevelSettings) { s.SpawnPoints = 0 }},
		{"spawn inside boundary", func(s *core.LevelSettings) { s.SpawnRadius = 7 }},
		{"boundary too small", func(s *core.LevelSettings) { s.BoundaryRadius = 1 }},
		{"multiplier max", func(s *core.LevelSettings) { s.Multiplier.Max = 0 }},
		{"zero interval", func(s *core.LevelSettings) { s.Spawn.Interval.Initial = 0 }},
		{"stars decrease", func(s *core.LevelSettings) { s.Stars = [3]int{50, 40, 90} }},
		{"stone in types", func(s *core.LevelSettings) { s.Spawn.Types = []core.BlockType{core.BlockStone} }},
		{"bad geometry", func(s *core.LevelSettings) { s.Geometry = core.Geometry{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSettings()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidConfig)
		})
	}
}

func TestLevelStepAttachesAndScores(t *testing.T) {
	lvl, sp := newTestLevel(t, testSettings(
		seed(core.BlockRed, core.EdgeTop),
		seed(core.BlockRed, core.EdgeRightTop),
	))
	b := lvl.Board()
	r1 := b.Central().Links[core.EdgeTop].Node
	lvl.Events()

	free := b.Create(core.BlockRed, core.V(0.05, 4.6), 0)
	sp.frames = [][]core.Contact{{{Free: free.ID, Attached: r1}}}

	res := lvl.Step(0.1)

	assert.Equal(t, free.ID, res.Attached)
	assert.Equal(t, 30, res.Outcome.Score)
	assert.Len(t, res.Outcome.Destroyed, 3)
	assert.False(t, res.Over)
	assert.Equal(t, 30, lvl.Score())
	assert.Equal(t, 1, lvl.Stars())
	assert.Equal(t, 2, lvl.Multiplier().Value())
	assert.Zero(t, b.AttachedCount())

	var attach *core.AttachEvent
	for _, e := range lvl.Events() {
		if a, ok := e.(core.AttachEvent); ok {
			attach = &a
		}
	}
	require.NotNil(t, attach)
	assert.Equal(t, free.ID, attach.Node)
	assert.Equal(t, 1, attach.Links)
}

func TestLevelAttachesOneBlockPerFrame(t *testing.T) {
	lvl, sp := newTestLevel(t, testSettings(seed(core.BlockRed, core.EdgeTop)))
	b := lvl.Board()
	r1 := b.Central().Links[core.EdgeTop].Node

	first := b.Create(core.BlockBlue, core.V(0.05, 4.6), 0)
	second := b.Create(core.BlockGreen, core.V(0.05, -3), 0)
	sp.frames = [][]core.Contact{
		{{Free: first.ID, Attached: r1}, {Free: second.ID, Attached: b.CentralID()}},
		{{Free: second.ID, Attached: b.CentralID()}},
	}

	res := lvl.Step(0.1)
	assert.Equal(t, first.ID, res.Attached)
	assert.True(t, b.Node(second.ID).IsFree())

	res = lvl.Step(0.1)
	assert.Equal(t, second.ID, res.Attached)
	assert.Equal(t, core.Link{Node: b.CentralID(), Edge: core.EdgeBottom}, b.Node(second.ID).Links[core.EdgeTop])
}

func TestLevelSpawnedBlocksReachStructure(t *testing.T) {
	cfg := testSettings()
	cfg.Spawn.Interval = flatRamp(0.5)
	cfg.Spawn.SpawnIn = 0.5
	cfg.Spawn.Speed = flatRamp(2)
	lvl, _ := newTestLevel(t, cfg)

	spawned, attached := 0, core.NoNode
	for i := 0; i < 400 && attached == core.NoNode; i++ {
		res := lvl.Step(0.05)
		require.False(t, res.Over)
		spawned += len(res.Spawned)
		attached = res.Attached
	}

	require.NotEqual(t, core.NoNode, attached, "a spawned block should attach")
	assert.Positive(t, spawned)
	assert.True(t, lvl.Board().Node(attached).Attached)
	require.NoError(t, lvl.Board().CheckLinks())
}

func TestLevelObstructAwardsNothing(t *testing.T) {
	lvl, _ := newTestLevel(t, testSettings(
		seed(core.BlockRed, core.EdgeTop),
		seed(core.BlockBlue, core.EdgeTop, core.EdgeTop),
		seed(core.BlockGreen, core.EdgeBottom),
	))
	b := lvl.Board()
	r1 := b.Central().Links[core.EdgeTop].Node
	blue := b.Node(r1).Links[core.EdgeTop].Node

	floating, err := lvl.Obstruct(r1)

	require.NoError(t, err)
	assert.Equal(t, []core.NodeID{blue}, floating)
	assert.Nil(t, b.Node(r1))
	assert.Nil(t, b.Node(blue))
	assert.Zero(t, lvl.Score())
	assert.Equal(t, 1, b.AttachedCount())

	floating, err = lvl.Obstruct(b.CentralID())
	assert.NoError(t, err)
	assert.Nil(t, floating)

	floating, err = lvl.Obstruct(r1)
	assert.NoError(t, err)
	assert.Nil(t, floating)
}

func TestLevelTimeUp(t *testing.T) {
	cfg := testSettings()
	cfg.TimeLimit = 1
	lvl, _ := newTestLevel(t, cfg)

	res := lvl.Step(0.5)
	assert.False(t, res.Over)
	assert.InDelta(t, 0.5, lvl.TimeRemaining(), eps)

	res = lvl.Step(0.5)
	assert.True(t, res.Over)
	assert.True(t, lvl.Over())
	assert.Equal(t, core.ReasonTimeUp, lvl.Reason())
	assert.Zero(t, lvl.TimeRemaining())
	assert.False(t, lvl.Spawner().Running())

	var remaining []int
	var over *core.GameOverEvent
	for _, e := range lvl.Events() {
		switch e := e.(type) {
		case core.TimeLimitEvent:
			remaining = append(remaining, e.Remaining)
		case core.GameOverEvent:
			over = &e
		}
	}
	assert.Equal(t, []int{1, 0}, remaining)
	require.NotNil(t, over)
	assert.Equal(t, core.ReasonTimeUp, over.Reason)
	assert.Equal(t, [3]int{30, 60, 90}, over.Thresholds)
	assert.Zero(t, over.Stars)

	elapsed := lvl.Elapsed()
	assert.True(t, lvl.Step(1).Over)
	assert.Equal(t, elapsed, lvl.Elapsed(), "a finished level does not advance")
}

func TestLevelOverflow(t *testing.T) {
	var seeds []core.SeedBlock
	var path []core.EdgeIndex
	for i := 0; i < 5; i++ {
		path = append(path, core.EdgeTop)
		seeds = append(seeds, seed(core.BlockStone, append([]core.EdgeIndex(nil), path...)...))
	}
	lvl, _ := newTestLevel(t, testSettings(seeds...))

	res := lvl.Step(0.01)

	assert.True(t, res.Over)
	assert.Equal(t, core.ReasonOverflow, lvl.Reason())
	assert.Equal(t, "structure reached the rim", lvl.Reason().String())
}

func TestLevelRecoversInvariantViolation(t *testing.T) {
	lvl, sp := newTestLevel(t, testSettings())
	sp.panicWith = &core.InvariantError{Op: "test", Detail: "broken lattice"}

	res := lvl.Step(0.1)

	assert.True(t, res.Over)
	assert.Equal(t, core.ReasonFatal, lvl.Reason())
	require.Error(t, lvl.Fatal())
	assert.True(t, core.IsFatal(lvl.Fatal()))
	assert.Contains(t, lvl.Fatal().Error(), "broken lattice")
	assert.False(t, core.IsFatal(core.ErrInvalidConfig))
}

func TestLevelRepanicsForeignPanics(t *testing.T) {
	lvl, sp := newTestLevel(t, testSettings())
	sp.panicWith = "not ours"

	assert.PanicsWithValue(t, "not ours", func() { lvl.Step(0.1) })
}

func TestLevelRotationIsDamped(t *testing.T) {
	lvl, _ := newTestLevel(t, testSettings(seed(core.BlockRed, core.EdgeTop)))
	b := lvl.Board()
	r1 := b.Node(b.Central().Links[core.EdgeTop].Node)

	lvl.Rotate(2)
	lvl.Step(0.1)

	assert.InDelta(t, 0.2, r1.Pose.Rot, eps)
	assert.InDelta(t, math.Sqrt(3), r1.Pose.Pos.Len(), eps)
	assert.InDelta(t, 1.2, lvl.AngularVelocity(), eps)

	for i := 0; i < 100; i++ {
		lvl.Step(0.1)
	}
	assert.Zero(t, lvl.AngularVelocity())
}

func TestLevelPauseFreezesEverything(t *testing.T) {
	cfg := testSettings()
	cfg.TimeLimit = 10
	lvl, _ := newTestLevel(t, cfg)
	lvl.Step(0.5)

	lvl.SetPaused(true)
	assert.True(t, lvl.Paused())
	lvl.Rotate(3)
	lvl.Step(5)

	assert.Zero(t, lvl.AngularVelocity())
	assert.InDelta(t, 0.5, lvl.Elapsed(), eps)

	lvl.SetPaused(false)
	lvl.Step(0.5)
	assert.InDelta(t, 1, lvl.Elapsed(), eps)
}
