package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List game modes and levels",
	Long:  `Shows the registered game modes and every level found on the search path.`,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	fmt.Println("Modes:")
	fmt.Println()
	for _, g := range registry.List() {
		fmt.Printf("  %-16s  %s\n", g.ID, g.Title)
	}

	levels, err := config.LoadLevels(flagLevelsDir)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Levels:")
	fmt.Println()
	if len(levels) == 0 {
		fmt.Println("  No levels found.")
		return nil
	}

	// Calculate column widths
	maxIDLen := 2
	for _, l := range levels {
		maxIDLen = max(maxIDLen, len(l.ID))
	}

	fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, "ID", "Name", "Limit")
	fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, "--", "----", "-----")
	for _, l := range levels {
		limit := "-"
		if l.Timed() {
			limit = fmt.Sprintf("%.0fs", l.TimeLimit)
		}
		fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, l.ID, l.Title(), limit)
	}

	fmt.Println()
	fmt.Println("Search path (first wins):")
	for _, dir := range config.LevelDirs(flagLevelsDir) {
		fmt.Printf("  %s\n", dir)
	}
	fmt.Println("  (embedded defaults)")
	fmt.Println()
	fmt.Println("Run 'hexfall play <id>' to play a level.")
	return nil
}
