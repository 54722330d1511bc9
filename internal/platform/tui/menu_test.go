package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/storage"
)

func newTestMenu(t *testing.T, store *storage.Store) MenuModel {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	m := NewMenuModel(store, core.DefaultConfig(), "")
	require.NoError(t, m.loadErr)
	return m
}

func press(t *testing.T, m MenuModel, msg tea.KeyMsg) (MenuModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(MenuModel)
	require.True(t, ok)
	return mm, cmd
}

func TestMenuListsLevelsInOrder(t *testing.T) {
	m := newTestMenu(t, nil)

	ids := make([]string, 0, len(m.items))
	for _, item := range m.items {
		ids = append(ids, item.LevelID)
	}
	assert.Equal(t, []string{"first-contact", "stone-garden", "sparks", "rush"}, ids)
	assert.Equal(t, "First Contact", m.items[0].Title)
	assert.True(t, m.items[3].Timed)
	assert.Contains(t, m.View(), "Mode: Campaign")
}

func TestMenuNavigationStaysInRange(t *testing.T) {
	m := newTestMenu(t, nil)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	for range 10 {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, len(m.items)-1, m.cursor)
}

func TestMenuSelectReturnsLevel(t *testing.T) {
	m := newTestMenu(t, nil)
	m, _ = press(t, m, runeKey('j'))

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.NotNil(t, m.Selected())
	assert.Equal(t, "stone-garden", m.Selected().LevelID)

	res := m.Result()
	assert.Equal(t, ModeCampaign, res.GameID)
	assert.Equal(t, "stone-garden", res.LevelID)
	assert.False(t, res.Quit)
}

func TestMenuToggleModeDropsTimer(t *testing.T) {
	m := newTestMenu(t, nil)

	m, _ = press(t, m, runeKey('e'))
	assert.Equal(t, ModeEndless, m.Mode())
	for _, item := range m.items {
		assert.False(t, item.Timed, item.LevelID)
	}
	assert.Contains(t, m.View(), "Mode: Endless")

	m, _ = press(t, m, runeKey('e'))
	assert.Equal(t, ModeCampaign, m.Mode())
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := newTestMenu(t, nil)

	board, _ := press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, board.WantsScoreboard())
	assert.True(t, board.Result().WantsScoreboard)

	quit, _ := press(t, m, runeKey('q'))
	assert.True(t, quit.IsQuitting())
	assert.True(t, quit.Result().Quit)
	assert.Empty(t, quit.View())
}

func TestMenuShowsStoredProgress(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	store := openTestStore(t)

	for _, score := range []int{40, 70} {
		_, err := store.SaveRun(storage.Run{
			GameID:   ModeCampaign,
			LevelID:  "first-contact",
			Score:    score,
			Stars:    score / 30,
			Duration: time.Minute,
			Reason:   "overflow",
		})
		require.NoError(t, err)
	}

	m := NewMenuModel(store, core.DefaultConfig(), "")
	first := m.items[0]
	assert.Equal(t, 70, first.BestScore)
	assert.Equal(t, 2, first.BestStars)
	assert.Equal(t, 2, first.Plays)
	assert.Contains(t, m.View(), "best 70")

	// Endless progress is tracked separately.
	m, _ = press(t, m, runeKey('e'))
	assert.Zero(t, m.items[0].Plays)
}

func TestMenuResizeUpdatesConfig(t *testing.T) {
	m := newTestMenu(t, nil)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	mm := next.(MenuModel)
	assert.Equal(t, 120, mm.Config().ScreenW)
	assert.Equal(t, 40, mm.Config().ScreenH)
}

func TestStarsAndTruncate(t *testing.T) {
	assert.Equal(t, "**.", stars(2))
	assert.Equal(t, "***", stars(9))
	assert.Equal(t, "...", stars(-1))
	assert.Equal(t, "abc", truncateText("abc", 5))
	assert.Equal(t, "abcd.", truncateText("abcdefgh", 5))
}
