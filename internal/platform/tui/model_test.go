package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/storage"
)

// scriptedGame ends after a fixed number of steps.
type scriptedGame struct {
	steps  int
	endAt  int
	resets int
	pauses int
	lastIn core.InputFrame
	state  core.GameState
}

func (g *scriptedGame) ID() string { return "hexfall" }
func (g *scriptedGame) Title() string { return "Scripted" }
func (g *scriptedGame) LevelID() string { return "first-contact" }

func (g *scriptedGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
	g.state = core.GameState{Multiplier: 1}
}

func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.pauses++
	}
	g.lastIn = core.NewInputFrame()
	for a, on := range in.Actions {
		if on {
			g.lastIn.Set(a)
		}
	}
	g.steps++
	g.state.Score += 10
	if g.steps >= g.endAt {
		g.state.GameOver = true
		g.state.Stars = 2
		g.state.Reason = "time_up"
	}
	return core.StepResult{State: g.state}
}

func (g *scriptedGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "scripted") }
func (g *scriptedGame) State() core.GameState { return g.state }

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(TickMsg{})
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestModelSavesRunOnceOnGameOver(t *testing.T) {
	store := openTestStore(t)
	game := &scriptedGame{endAt: 3}
	cfg := core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 30, Seed: 1}

	m := NewModel(game, store, cfg, nil)
	m.Init()
	for range 6 {
		m = tick(t, m)
	}

	runs, err := store.TopScores("hexfall", "first-contact", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 30, runs[0].Score)
	assert.Equal(t, 2, runs[0].Stars)
	assert.Equal(t, "time_up", runs[0].Reason)
	assert.Positive(t, runs[0].Duration)
}

func TestModelForwardsActionsAndClearsFrame(t *testing.T) {
	game := &scriptedGame{endAt: 100}
	m := NewModel(game, nil, core.DefaultConfig(), nil)
	m.Init()

	next, _ := m.Update(runeKey('a'))
	m = next.(Model)
	m = tick(t, m)
	assert.True(t, game.lastIn.Has(core.ActionRotateLeft))

	m = tick(t, m)
	assert.False(t, game.lastIn.Has(core.ActionRotateLeft), "frame should be cleared after a tick")
}

func TestModelRestartAfterGameOver(t *testing.T) {
	game := &scriptedGame{endAt: 1}
	m := NewModel(game, nil, core.DefaultConfig(), nil)
	m.Init()
	m = tick(t, m)
	require.True(t, m.gameState.GameOver)

	next, _ := m.Update(runeKey('r'))
	m = tick(t, next.(Model))

	assert.Equal(t, 2, game.resets)
	assert.False(t, m.gameState.GameOver)
	assert.False(t, m.scoreSaved)
}

func TestModelBackToMenuOnlyWhenOver(t *testing.T) {
	game := &scriptedGame{endAt: 2}
	m := NewModel(game, nil, core.DefaultConfig(), nil)
	m.Init()

	next, _ := m.Update(runeKey('b'))
	m = next.(Model)
	assert.False(t, m.BackToMenu())

	m = tick(t, m)
	m = tick(t, m)
	require.True(t, m.gameState.GameOver)

	next, cmd := m.Update(runeKey('b'))
	m = next.(Model)
	assert.True(t, m.BackToMenu())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestModelResizeKeepsRun(t *testing.T) {
	game := &scriptedGame{endAt: 100}
	m := NewModel(game, nil, core.DefaultConfig(), nil)
	m.Init()
	m = tick(t, m)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)

	assert.Equal(t, 1, game.resets)
	assert.Equal(t, 100, m.Config().ScreenW)
	assert.Equal(t, 40, m.screen.Height())
}

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(5, 2)
	s.DrawText(0, 0, "hex")
	out := RenderScreen(s)
	assert.Equal(t, "hex  \n     ", out)
}
