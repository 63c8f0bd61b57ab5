package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-agent/internal/db"
)

var (
	listRunsDBURL string
	listRunsLimit int

	purgeRunsDBURL string
	purgeRunsDays  int
)

var listRunsCmd = &cobra.Command{
	Use:   "list-runs",
	Short: "List recent generation runs",
	RunE:  runListRuns,
}

var purgeRunsCmd = &cobra.Command{
	Use:   "purge-runs",
	Short: "Delete run records older than a retention window",
	RunE:  runPurgeRuns,
}

func init() {
	listRunsCmd.Flags().StringVar(&listRunsDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	listRunsCmd.Flags().IntVar(&listRunsLimit, "limit", 0, "Maximum runs to show (default 50)")
	rootCmd.AddCommand(listRunsCmd)

	purgeRunsCmd.Flags().StringVar(&purgeRunsDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	purgeRunsCmd.Flags().IntVar(&purgeRunsDays, "days", 90, "Delete runs older than this many days")
	rootCmd.AddCommand(purgeRunsCmd)
}

func runListRuns(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL, err := resolveDatabaseURL(listRunsDBURL)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(ctx, listRunsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		line := fmt.Sprintf("[%d] %s  %s  %s  hash=%s",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04"), run.Status, run.ModelName, shortHash(run.JobTextHash))
		if run.ErrorMessage != "" {
			line += "  error=" + run.ErrorMessage
		}
		fmt.Println(line)
	}
	return nil
}

func runPurgeRuns(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL, err := resolveDatabaseURL(purgeRunsDBURL)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	deleted, err := database.PurgeRuns(ctx, purgeRunsDays)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d runs older than %d days\n", deleted, purgeRunsDays)
	return nil
}

// shortHash abbreviates a job-text hash for one-line listings. Hashes
// written by the pipeline are 32 hex characters, but rows inserted by other
// tools may carry shorter values.
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
