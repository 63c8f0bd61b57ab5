package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-agent/internal/generation"
)

var (
	analyzeJob        string
	analyzeJobURL     string
	analyzeUseBrowser bool
	analyzeAPIKey     string
	analyzeModel      string
)

var analyzeJobCmd = &cobra.Command{
	Use:   "analyze-job",
	Short: "Analyze a job posting without generating a proposal",
	Long:  `Runs only the analysis stage: extracts pain points, client persona, tech stack, budget and timeline signals from a job posting and prints the result as JSON.`,
	RunE:  runAnalyzeJob,
}

func init() {
	analyzeJobCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	analyzeJobCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	analyzeJobCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	analyzeJobCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	analyzeJobCmd.Flags().StringVar(&analyzeModel, "model", "", "Model override applied to all tiers")
	rootCmd.AddCommand(analyzeJobCmd)
}

func runAnalyzeJob(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if (analyzeJob == "") == (analyzeJobURL == "") {
		return fmt.Errorf("exactly one of --job or --job-url must be provided")
	}

	apiKey, err := resolveAPIKey(analyzeAPIKey)
	if err != nil {
		return err
	}

	jobText, err := loadJobText(ctx, analyzeJob, analyzeJobURL, analyzeUseBrowser)
	if err != nil {
		return err
	}

	client, err := newLLMClient(ctx, apiKey, analyzeModel)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	analysis, err := generation.AnalyzeJob(ctx, client, jobText, generation.Options{})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(analysis)
}
