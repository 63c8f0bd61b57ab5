package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-agent/internal/db"
)

var (
	listProjectsDBURL string
	listProjectsJSON  bool
)

var listProjectsCmd = &cobra.Command{
	Use:   "list-projects",
	Short: "List stored portfolio projects",
	RunE:  runListProjects,
}

func init() {
	listProjectsCmd.Flags().StringVar(&listProjectsDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	listProjectsCmd.Flags().BoolVar(&listProjectsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listProjectsCmd)
}

func runListProjects(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL, err := resolveDatabaseURL(listProjectsDBURL)
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

	if listProjectsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(projects)
	}

	if len(projects) == 0 {
		fmt.Println("No projects stored yet. Add one with 'add-project'.")
		return nil
	}

	for _, p := range projects {
		fmt.Printf("[%d] %s\n", p.ID, p.Name)
		fmt.Printf("    Tech: %s\n", strings.Join(p.TechTags, ", "))
		if p.Vertical != "" {
			fmt.Printf("    Vertical: %s\n", p.Vertical)
		}
		fmt.Printf("    Outcomes: %s\n", p.Outcomes)
	}
	return nil
}
