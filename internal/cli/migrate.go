package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/activitybot/internal/database"
	"github.com/emiliopalmerini/activitybot/internal/infrastructure/config"
	"github.com/emiliopalmerini/activitybot/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations against the turso backend.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  activitybot migrate      # Run all pending migrations
  activitybot migrate 1    # Migrate to version 1
  activitybot migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
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

	runner := migrate.NewRunner(db)

	if len(args) == 0 {
		count, err := runner.Up(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Println("No migrations to run")
			return nil
		}
		version, _, _ := runner.Version(ctx)
		fmt.Printf("Migrated to version %d (%d migrations applied)\n", version, count)
		return nil
	}

	target, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version number: %s", args[0])
	}

	count, err := runner.To(ctx, target)
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Println("Already at target version")
		return nil
	}
	fmt.Printf("Migrated to version %d (%d migrations applied)\n", target, count)
	return nil
}
