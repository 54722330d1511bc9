package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/storage"
)

// Game mode ids the picker switches between.
const (
	ModeCampaign = "hexfall"
	ModeEndless  = "hexfall_endless"
)

// MenuItem is a selectable level in the picker.
type MenuItem struct {
	LevelID   string
	Title     string
	Timed     bool
	BestScore int
	BestStars int
	Plays     int
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	levels         []config.LevelConfig
	items          []MenuItem
	cursor         int
	mode           string
	width          int
	height         int
	store          *storage.Store
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	loadErr        error
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates a picker over the levels found in levelsDir and
// the default search path.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, levelsDir string) MenuModel {
	levels, err := config.LoadLevels(levelsDir)

	m := MenuModel{
		levels:    levels,
		mode:      ModeCampaign,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		loadErr:   err,
	}
	m.refresh()
	return m
}

// refresh rebuilds the items with the stored progress of the current mode.
func (m *MenuModel) refresh() {
	var progress map[string]storage.LevelProgress
	if m.store != nil {
		// Progress is decoration; the picker works without it.
		progress, _ = m.store.LevelProgress(m.mode)
	}

	m.items = make([]MenuItem, 0, len(m.levels))
	for _, l := range m.levels {
		item := MenuItem{
			LevelID: l.ID,
			Title:   l.Title(),
			Timed:   l.Timed() && m.mode == ModeCampaign,
		}
		if p, ok := progress[l.ID]; ok {
			item.BestScore = p.BestScore
			item.BestStars = p.BestStars
			item.Plays = p.Plays
		}
		m.items = append(m.items, item)
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionToggleMode:
		if m.mode == ModeCampaign {
			m.mode = ModeEndless
		} else {
			m.mode = ModeCampaign
		}
		m.refresh()

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  H E X F A L L  "), m.width))
	b.WriteString("\n\n")

	mode := "Campaign"
	if m.mode == ModeEndless {
		mode = "Endless"
	}
	b.WriteString(centerText("Mode: "+mode+"  (E to switch)", m.width))
	b.WriteString("\n\n")

	if m.loadErr != nil {
		b.WriteString(centerText("Could not load levels: "+m.loadErr.Error(), m.width))
		b.WriteString("\n")
	}
	if len(m.items) == 0 {
		b.WriteString(centerText(dimStyle.Render("No levels found."), m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%-22s %s", cursor, truncateText(item.Title, 22), stars(item.BestStars))
		if item.Plays > 0 {
			line += fmt.Sprintf("  best %d", item.BestScore)
		}
		if item.Timed {
			line += "  [timed]"
		}
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  E: Mode  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Mode returns the selected game mode id.
func (m MenuModel) Mode() string {
	return m.mode
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// stars renders a three-star rating.
func stars(n int) string {
	n = core.Clamp(n, 0, 3)
	return strings.Repeat("*", n) + strings.Repeat(".", 3-n)
}

// centerText centers text within the given width. Styled text is
// measured without its escape sequences.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// truncateText shortens text to n runes.
func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "."
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	LevelID         string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// Result summarizes the final state of the picker.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.config}
	switch {
	case m.openScoreboard:
		result.WantsScoreboard = true
	case m.selected != nil:
		result.GameID = m.mode
		result.LevelID = m.selected.LevelID
	default:
		result.Quit = true
	}
	return result
}
