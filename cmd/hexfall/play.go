package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/platform/tui"
	"github.com/vovakirdan/hexfall/internal/registry"
	"github.com/vovakirdan/hexfall/internal/storage"
)

var flagEndless bool

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing a level. Without an argument the first level is played.

Controls:
  A/Left     - Rotate counter-clockwise
  D/Right    - Rotate clockwise
  P/Esc      - Pause
  R          - Restart (when paused or over)
  Ctrl+S     - Save a screenshot
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Slower spawns, gentler ramps
  normal - Level as written
  hard   - Faster spawns and steeper ramps
  fixed  - No ramps, spawning stays at its initial pace

Examples:
  hexfall play first-contact
  hexfall play rush --difficulty hard
  hexfall play sparks --endless
  hexfall play my-level --levels ./my-levels`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Play without a time limit")
}

// runtimeConfig builds the runtime config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database, or returns nil with a warning.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores disabled", "db", flagDBPath, "err", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	gameID := tui.ModeCampaign
	if flagEndless {
		gameID = tui.ModeEndless
	}

	opts := registry.Options{
		LevelsDir:  flagLevelsDir,
		Difficulty: flagDifficulty,
		Logger:     logger,
	}
	if len(args) > 0 {
		opts.Level = args[0]
	}

	game, err := registry.Create(gameID, opts)
	if err != nil {
		return fmt.Errorf("%w\nRun 'hexfall list' to see available levels", err)
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	_, err = tui.Run(game, store, runtimeConfig(), logger)
	return err
}
