package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/platform/tui"
)

// runMenu starts the interactive level picker. After a game ends the
// picker comes back so another level can be chosen.
func runMenu(_ *cobra.Command, _ []string) error {
	if _, err := config.ParseDifficulty(flagDifficulty); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	return tui.RunSession(store, runtimeConfig(), tui.SessionOptions{
		LevelsDir:  flagLevelsDir,
		Difficulty: flagDifficulty,
		Logger:     logger,
	})
}
