package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/activitybot/internal/adapters/turso"
	"github.com/emiliopalmerini/activitybot/internal/database"
	"github.com/emiliopalmerini/activitybot/internal/domain"
	"github.com/emiliopalmerini/activitybot/internal/infrastructure/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show one user's week summary, streaks and goals",
	Long: `Show a user's trailing-week totals, streaks and goal progress from the
turso backend. Useful for checking data without going through Telegram.

Example:
  activitybot stats --user 123456789`,
	RunE: runStats,
}

var statsUserID int64

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Int64VarP(&statsUserID, "user", "u", 0, "Telegram user ID")
	_ = statsCmd.MarkFlagRequired("user")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.URL, cfg.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	store := turso.NewStore(db)

	rows, err := store.WeekSummary(ctx, statsUserID)
	if err != nil {
		return fmt.Errorf("failed to load week summary: %w", err)
	}

	fmt.Printf("User %d\n\n", statsUserID)

	if len(rows) == 0 {
		fmt.Println("No activities in the last 7 days")
	} else {
		fmt.Println("Last 7 days:")
		for _, row := range rows {
			streak, err := store.Streak(ctx, statsUserID, row.Activity)
			if err != nil {
				return fmt.Errorf("failed to compute streak for %s: %w", row.Activity, err)
			}
			fmt.Printf("  %-20s %4dm  %2dx  streak %d\n", row.Activity, row.TotalMinutes, row.Count, streak)
		}
	}

	goals, err := store.ActiveGoals(ctx, statsUserID)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}
	if len(goals) > 0 {
		fmt.Println("\nActive goals:")
		for _, g := range goals {
			fmt.Printf("  %-20s %d/%dm per %s  %s %.0f%%\n",
				g.Activity, g.CurrentMinutes, g.TargetMinutes, g.Period,
				domain.ProgressBar(g.Percent()), g.Percent())
		}
	}
	return nil
}
