package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-agent/internal/db"
	"github.com/jonathan/proposal-agent/internal/types"
)

var (
	addProjectName        string
	addProjectDescription string
	addProjectTech        []string
	addProjectOutcomes    string
	addProjectVertical    string
	addProjectLink        string
	addProjectDBURL       string
)

var addProjectCmd = &cobra.Command{
	Use:   "add-project",
	Short: "Add a portfolio project to the database",
	Long:  `Stores a past project so it can be ranked against incoming job postings and cited as proof of work in generated proposals.`,
	RunE:  runAddProject,
}

func init() {
	addProjectCmd.Flags().StringVarP(&addProjectName, "name", "n", "", "Project name (required)")
	addProjectCmd.Flags().StringVarP(&addProjectDescription, "description", "d", "", "What the project did (required)")
	addProjectCmd.Flags().StringSliceVarP(&addProjectTech, "tech", "t", nil, "Comma-separated technology tags (required)")
	addProjectCmd.Flags().StringVarP(&addProjectOutcomes, "outcomes", "o", "", "Measurable outcomes (required)")
	addProjectCmd.Flags().StringVar(&addProjectVertical, "vertical", "", "Industry vertical (optional)")
	addProjectCmd.Flags().StringVar(&addProjectLink, "link", "", "Portfolio link (optional)")
	addProjectCmd.Flags().StringVar(&addProjectDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	rootCmd.AddCommand(addProjectCmd)
}

func runAddProject(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL, err := resolveDatabaseURL(addProjectDBURL)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	project := &types.Project{
		Name:          addProjectName,
		Description:   addProjectDescription,
		TechTags:      types.NormalizeTags(addProjectTech),
		Outcomes:      addProjectOutcomes,
		Vertical:      addProjectVertical,
		PortfolioLink: addProjectLink,
	}

	id, err := database.AddProject(ctx, project)
	if err != nil {
		return err
	}

	fmt.Printf("Added project %q with ID %d\n", project.Name, id)
	return nil
}
