package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/platform/tui"
	"github.com/vovakirdan/hexfall/internal/storage"
)

var (
	flagScoresEndless bool
	flagScoresClear   bool
	flagScoresLimit   int
	flagScoresTUI     bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show best runs",
	Long: `Without a level, shows the best result of every level.
With a level, lists its top runs.

Examples:
  hexfall scores
  hexfall scores first-contact
  hexfall scores rush --endless
  hexfall scores rush --clear
  hexfall scores --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresEndless, "endless", false, "Show endless mode runs")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the runs instead of showing them")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Open the interactive scoreboard")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagScoresTUI {
		cfg := runtimeConfig()
		_, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH, flagLevelsDir)
		return err
	}

	gameID := tui.ModeCampaign
	if flagScoresEndless {
		gameID = tui.ModeEndless
	}
	levelID := ""
	if len(args) > 0 {
		levelID = args[0]
	}

	if flagScoresClear {
		if err := store.ClearScores(gameID, levelID); err != nil {
			return err
		}
		if levelID == "" {
			fmt.Printf("Cleared all %s runs.\n", gameID)
		} else {
			fmt.Printf("Cleared %s runs of %s.\n", gameID, levelID)
		}
		return nil
	}

	if levelID == "" {
		return printProgress(store, gameID)
	}
	return printLevelScores(store, gameID, levelID)
}

// printProgress prints the best result of each level.
func printProgress(store *storage.Store, gameID string) error {
	levels, err := config.LoadLevels(flagLevelsDir)
	if err != nil {
		return err
	}
	progress, err := store.LevelProgress(gameID)
	if err != nil {
		return err
	}

	fmt.Printf("Progress - %s\n\n", gameID)
	fmt.Printf("  %-24s  %-5s  %-8s  %-5s  %s\n", "Level", "Stars", "Best", "Plays", "Last played")
	fmt.Printf("  %-24s  %-5s  %-8s  %-5s  %s\n", "-----", "-----", "----", "-----", "-----------")
	for _, l := range levels {
		p, ok := progress[l.ID]
		if !ok {
			fmt.Printf("  %-24s  %-5s  %-8s  %-5d  %s\n", l.Title(), "...", "-", 0, "-")
			continue
		}
		fmt.Printf("  %-24s  %-5s  %-8d  %-5d  %s\n",
			l.Title(), starString(p.BestStars), p.BestScore, p.Plays, p.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

// printLevelScores prints the top runs of one level.
func printLevelScores(store *storage.Store, gameID, levelID string) error {
	title := levelID
	if cfg, err := config.LoadLevel(flagLevelsDir, levelID); err == nil {
		title = cfg.Title()
	}

	runs, err := store.TopScores(gameID, levelID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s (%s)\n\n", title, gameID)
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'hexfall play %s' to set the first high score!\n", levelID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-6s  %-16s  %s\n", "Rank", "Score", "Stars", "Time", "Date", "Ended")
	fmt.Printf("  %-4s  %-8s  %-5s  %-6s  %-16s  %s\n", "----", "-----", "-----", "----", "----", "-----")
	for i, r := range runs {
		secs := int(r.Duration.Seconds())
		fmt.Printf("  %-4d  %-8d  %-5s  %-6s  %-16s  %s\n",
			i+1, r.Score, starString(r.Stars), fmt.Sprintf("%d:%02d", secs/60, secs%60),
			r.CreatedAt.Format("2006-01-02 15:04"), r.Reason)
	}

	best, err := store.HighScore(gameID, levelID)
	if err == nil {
		fmt.Printf("\nBest: %d\n", best)
	}
	return nil
}

// starString renders a three-star rating.
func starString(n int) string {
	out := []byte("...")
	for i := 0; i < n && i < 3; i++ {
		out[i] = '*'
	}
	return string(out)
}
