package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-agent/internal/db"
	"github.com/jonathan/proposal-agent/internal/generation"
	"github.com/jonathan/proposal-agent/internal/relevance"
)

var (
	rankJob        string
	rankJobURL     string
	rankUseBrowser bool
	rankAPIKey     string
	rankModel      string
	rankDBURL      string
)

var rankProjectsCmd = &cobra.Command{
	Use:   "rank-projects",
	Short: "Rank stored projects against a job posting",
	Long:  `Analyzes a job posting and prints the stored projects ordered by relevance score, showing which ones a generated proposal would cite.`,
	RunE:  runRankProjects,
}

func init() {
	rankProjectsCmd.Flags().StringVarP(&rankJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	rankProjectsCmd.Flags().StringVar(&rankJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	rankProjectsCmd.Flags().BoolVar(&rankUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	rankProjectsCmd.Flags().StringVar(&rankAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	rankProjectsCmd.Flags().StringVar(&rankModel, "model", "", "Model override applied to all tiers")
	rankProjectsCmd.Flags().StringVar(&rankDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	rootCmd.AddCommand(rankProjectsCmd)
}

func runRankProjects(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if (rankJob == "") == (rankJobURL == "") {
		return fmt.Errorf("exactly one of --job or --job-url must be provided")
	}

	apiKey, err := resolveAPIKey(rankAPIKey)
	if err != nil {
		return err
	}
	databaseURL, err := resolveDatabaseURL(rankDBURL)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	projects, err := database.ListProjects(ctx)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects stored yet. Add one with 'add-project'.")
		return nil
	}

	jobText, err := loadJobText(ctx, rankJob, rankJobURL, rankUseBrowser)
	if err != nil {
		return err
	}

	client, err := newLLMClient(ctx, apiKey, rankModel)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	analysis, err := generation.AnalyzeJob(ctx, client, jobText, generation.Options{})
	if err != nil {
		return err
	}

	scored := relevance.Score(analysis, projects)
	fmt.Printf("Top %d of %d projects for this posting:\n\n", len(scored), len(projects))
	for i, sp := range scored {
		fmt.Printf("%d. %s (score %.0f)\n", i+1, sp.Project.Name, sp.Score)
		fmt.Printf("   Tech: %s\n", strings.Join(sp.Project.TechTags, ", "))
	}
	return nil
}
