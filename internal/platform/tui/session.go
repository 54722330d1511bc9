package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/registry"
	"github.com/vovakirdan/hexfall/internal/storage"
)

// SessionOptions configure the games a session creates.
type SessionOptions struct {
	LevelsDir  string
	Difficulty string
	Logger     *log.Logger
}

// sessionView is the screen a session is showing.
type sessionView int

const (
	viewMenu sessionView = iota
	viewScoreboard
	viewGame
)

// SessionModel runs the full flow inside one program:
// picker -> game -> picker, with the scoreboard reachable from the picker.
// It is the top-level model of SSH sessions and the interactive CLI.
type SessionModel struct {
	store      *storage.Store
	config     core.RuntimeConfig
	opts       SessionOptions
	view       sessionView
	menu       MenuModel
	scoreboard ScoreboardModel
	game       Model
	lastErr    error
	quitting   bool
}

// NewSessionModel creates a session starting at the level picker.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, opts SessionOptions) SessionModel {
	return SessionModel{
		store:  store,
		config: cfg,
		opts:   opts,
		menu:   NewMenuModel(store, cfg, opts.LevelsDir),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates while the picker is shown.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	result := m.menu.Result()
	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case result.WantsScoreboard:
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH, m.opts.LevelsDir)
		m.view = viewScoreboard
		return m, m.scoreboard.Init()

	case result.GameID != "":
		game, err := registry.Create(result.GameID, registry.Options{
			Level:      result.LevelID,
			LevelsDir:  m.opts.LevelsDir,
			Difficulty: m.opts.Difficulty,
			Logger:     m.opts.Logger,
		})
		if err != nil {
			if m.opts.Logger != nil {
				m.opts.Logger.Error("could not create game", "game", result.GameID, "level", result.LevelID, "err", err)
			}
			m.lastErr = err
			m.resetMenu()
			return m, nil
		}

		m.config.Seed = time.Now().UnixNano()
		m.game = NewModel(game, m.store, m.config, m.opts.Logger)
		m.view = viewGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates while the scoreboard is shown.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.scoreboard.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.scoreboard = board
	}

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scoreboard.IsGoingBack():
		m.resetMenu()
		return m, nil
	}
	return m, cmd
}

// updateGame handles updates while a game runs.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}

	switch {
	case m.game.BackToMenu():
		m.resetMenu()
		return m, nil
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// resetMenu returns to a fresh picker so stored progress is reloaded.
func (m *SessionModel) resetMenu() {
	m.view = viewMenu
	m.menu = NewMenuModel(m.store, m.config, m.opts.LevelsDir)
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.game.View()
	case viewScoreboard:
		return m.scoreboard.View()
	}

	view := m.menu.View()
	if m.lastErr != nil {
		view += "\n" + centerText("Error: "+m.lastErr.Error(), m.config.ScreenW)
	}
	return view
}

// RunSession runs the picker flow in the local terminal.
func RunSession(store *storage.Store, cfg core.RuntimeConfig, opts SessionOptions) error {
	p := tea.NewProgram(NewSessionModel(store, cfg, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
