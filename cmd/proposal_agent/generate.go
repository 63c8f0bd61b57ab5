package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/proposal-agent/internal/config"
	"github.com/jonathan/proposal-agent/internal/db"
	"github.com/jonathan/proposal-agent/internal/pipeline"
	"github.com/jonathan/proposal-agent/internal/slides"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a full proposal for a job posting",
	Long: `Runs the full proposal pipeline: analyze the posting, rank stored projects, generate a slide deck spec, optionally render it to Google Slides and export a PDF, then write a cover letter and screening answers.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath  string
	genJob         string
	genJobURL      string
	genTone        string
	genRender      bool
	genOut         string
	genUseBrowser  bool
	genAPIKey      string
	genModel       string
	genDBURL       string
	genCredentials string
	genVerbose     bool
)

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	generateCmd.Flags().StringVarP(&genJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	generateCmd.Flags().StringVar(&genJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	generateCmd.Flags().StringVar(&genTone, "tone", "", "Tone override for the deck (defaults to the detected client persona)")
	generateCmd.Flags().BoolVar(&genRender, "render", false, "Render the deck to Google Slides and export a PDF (requires --credentials)")
	generateCmd.Flags().StringVarP(&genOut, "out", "O", "proposal.pdf", "Output path for the exported PDF")
	generateCmd.Flags().BoolVar(&genUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	generateCmd.Flags().StringVar(&genModel, "model", "", "Model override applied to all tiers")
	generateCmd.Flags().StringVar(&genDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	generateCmd.Flags().StringVar(&genCredentials, "credentials", "", "Path to Google service account JSON (optional, defaults to GOOGLE_APPLICATION_CREDENTIALS env var)")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadGenerateConfig(cmd)
	if err != nil {
		return err
	}

	if (genJob == "") == (genJobURL == "") {
		return fmt.Errorf("exactly one of --job or --job-url must be provided")
	}

	apiKey, err := resolveAPIKey(cfg.APIKey)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)

	client, err := newLLMClient(ctx, apiKey, cfg.Model)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	generator := &pipeline.Generator{
		LLM:    client,
		Logger: logger,
		Options: pipeline.Options{
			MinJobTextLen: cfg.MinJobTextLen,
			Retry:         retryPolicy(cfg),
		},
	}

	// Database is optional for one-off runs: without it the proposal uses
	// fallback project text and the run is not recorded.
	if databaseURL, err := resolveDatabaseURL(cfg.DatabaseURL); err == nil {
		database, err := db.Connect(ctx, databaseURL)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to database, continuing without persistence")
		} else {
			defer database.Close()
			if err := database.EnsureSchema(ctx); err != nil {
				return err
			}
			generator.Store = database
			generator.Runs = database
		}
	} else {
		logger.Warn().Msg("no database configured, continuing without project ranking or run log")
	}

	if genRender {
		credPath := cfg.GoogleCredentials
		if credPath == "" {
			credPath = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		}
		if credPath == "" {
			return fmt.Errorf("--render requires --credentials or GOOGLE_APPLICATION_CREDENTIALS")
		}
		credJSON, err := os.ReadFile(credPath)
		if err != nil {
			return fmt.Errorf("failed to read credentials file %s: %w", credPath, err)
		}
		renderer, err := slides.NewGoogleSlidesRenderer(ctx, credJSON)
		if err != nil {
			return err
		}
		exporter, err := slides.NewDriveExporter(ctx, credJSON)
		if err != nil {
			return err
		}
		generator.Renderer = renderer
		generator.Exporter = exporter
	}

	jobText, err := loadJobText(ctx, genJob, genJobURL, cfg.UseBrowser)
	if err != nil {
		return err
	}

	result, err := generator.Generate(ctx, pipeline.Request{
		JobText:      jobText,
		ToneOverride: genTone,
		CallerID:     "cli",
		RenderDeck:   genRender,
		OnProgress: func(event pipeline.ProgressEvent) {
			logger.Info().Str("stage", event.Stage).Msg(event.Message)
		},
	})
	if err != nil {
		return err
	}

	return writeProposalOutput(result, genOut)
}

// loadGenerateConfig resolves the effective config from file, flags and
// defaults, in increasing priority: defaults < config file < explicit flags.
func loadGenerateConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if genConfigPath != "" {
		loaded, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = genModel
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = genDBURL
	}
	if cmd.Flags().Changed("credentials") {
		cfg.GoogleCredentials = genCredentials
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = genUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	return cfg, cfg.Validate()
}

// writeProposalOutput prints the proposal to stdout and writes the PDF when
// one was exported.
func writeProposalOutput(result *pipeline.Result, pdfPath string) error {
	pack := result.Proposal

	fmt.Println("=== Cover Letter ===")
	fmt.Println(pack.CoverLetter)
	fmt.Println()

	fmt.Println("=== Screening Answers ===")
	for question, answer := range pack.ScreeningAnswers {
		fmt.Printf("Q: %s\nA: %s\n\n", question, answer)
	}

	if len(pack.Assumptions) > 0 {
		fmt.Println("=== Assumptions ===")
		for _, a := range pack.Assumptions {
			fmt.Println("- " + a)
		}
		fmt.Println()
	}
	if pack.PriceSignal != "" {
		fmt.Printf("Pricing tier: %s\n\n", pack.PriceSignal)
	}

	fmt.Println("=== Slide Deck Spec ===")
	deckJSON, err := json.MarshalIndent(pack.SlideDeck, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode deck spec: %w", err)
	}
	fmt.Println(string(deckJSON))

	if len(pack.PDF) > 0 {
		if err := os.WriteFile(pdfPath, pack.PDF, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF to %s: %w", pdfPath, err)
		}
		fmt.Printf("\nExported PDF: %s\n", pdfPath)
	}
	return nil
}
