package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/dictflow/internal/cli"
	"github.com/Veraticus/dictflow/internal/common"
	"github.com/Veraticus/dictflow/internal/dictionary"
	"github.com/Veraticus/dictflow/internal/engine"
	"github.com/Veraticus/dictflow/internal/llm"
	"github.com/Veraticus/dictflow/internal/model"
	"github.com/Veraticus/dictflow/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// timeRounding keeps the summary's elapsed time readable.
const timeRounding = 10 * time.Millisecond

func enrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich <input.csv>",
		Short: "Enrich a data dictionary CSV with LLM classifications",
		Long: `Reads a data-dictionary CSV, classifies each column into one of
identifier, numeric, categorical, or datetime, generates a short
description and confidence score, and writes an enriched CSV.

Columns that fail to classify (network errors, rate limits, malformed
replies) fall back to default values; the run always produces one output
row per input row.`,
		Args: cobra.ExactArgs(1),
		RunE: runEnrich,
	}

	cmd.Flags().StringP("output", "o", "", "output CSV path (default: <input>_enriched.csv)")
	cmd.Flags().StringP("sample-data", "s", "", "optional CSV with raw data samples for better analysis")
	cmd.Flags().StringP("model", "m", "", "model to use (default depends on provider)")
	cmd.Flags().StringP("api-key", "k", "", "API key (or set via config/environment)")
	cmd.Flags().String("provider", "", "LLM provider (openai, anthropic)")
	cmd.Flags().Int("workers", 1, "number of concurrent enrichment workers")
	cmd.Flags().String("cache", "", "path to a SQLite cache of prior enrichments")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	_ = viper.BindPFlag("llm.provider", cmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("llm.model", cmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("llm.api_key", cmd.Flags().Lookup("api-key"))
	_ = viper.BindPFlag("enrich.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("cache.path", cmd.Flags().Lookup("cache"))

	return cmd
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	inputPath := args[0]

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = dictionary.DefaultOutputPath(inputPath)
	}

	// Credentials are validated before any row is processed; a missing key
	// is fatal, unlike per-row transport failures.
	client, llmCfg, err := createLLMClient()
	if err != nil {
		return common.NewUserError("failed to configure LLM client", err)
	}

	dict, err := dictionary.Load(inputPath)
	if err != nil {
		return common.NewUserError("failed to load data dictionary", err)
	}

	samples := loadSampleData(cmd, dict)

	var cache engine.Cache
	if cachePath := viper.GetString("cache.path"); cachePath != "" {
		store, storeErr := storage.NewEnrichmentStore(cachePath, viper.GetDuration("cache.ttl"))
		if storeErr != nil {
			return common.NewUserError("failed to open enrichment cache", storeErr)
		}
		defer func() { _ = store.Close() }()
		cache = store
	}

	noProgress, _ := cmd.Flags().GetBool("no-progress")

	limiter := llm.NewRateLimiter(llmCfg.RateLimit)
	defer limiter.Close()

	enricher := engine.New(client, limiter, cache, slog.Default(), engine.Config{
		Model:        llmCfg.Model,
		Workers:      viper.GetInt("enrich.workers"),
		ShowProgress: !noProgress,
		Retry: common.RetryOptions{
			MaxAttempts:  viper.GetInt("llm.max_retries"),
			InitialDelay: viper.GetDuration("llm.retry_delay"),
		},
	})

	slog.Info("enriching data dictionary",
		"input", inputPath,
		"output", outputPath,
		"rows", len(dict.Rows),
		"model", llmCfg.Model)

	results, summary, err := enricher.Enrich(ctx, dict, samples)
	if err != nil {
		return common.NewUserError("enrichment run canceled", err)
	}

	if err := dictionary.WriteEnriched(outputPath, dict, results); err != nil {
		return common.NewUserError("failed to write enriched CSV", err)
	}

	printSummary(cmd, outputPath, summary)
	return nil
}

// loadSampleData reads the optional sample-data CSV. Failures here degrade
// the run's accuracy, not its outcome.
func loadSampleData(cmd *cobra.Command, dict *dictionary.Dictionary) model.SampleSet {
	samplePath, _ := cmd.Flags().GetString("sample-data")
	if samplePath == "" {
		return nil
	}

	samples, err := dictionary.LoadSamples(samplePath, dict.ColumnNames())
	if err != nil {
		slog.Warn("could not load sample data, continuing without samples",
			"path", samplePath,
			"error", err)
		return nil
	}

	slog.Info("loaded sample data", "path", samplePath, "columns", len(samples))
	return samples
}

func printSummary(cmd *cobra.Command, outputPath string, summary engine.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, cli.TitleStyle.Render("Enrichment complete"))
	fmt.Fprintln(out, cli.SuccessStyle.Render(fmt.Sprintf("  %d columns enriched in %s", summary.Rows, summary.Elapsed.Round(timeRounding))))
	if summary.CacheHits > 0 {
		fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("  %d served from cache", summary.CacheHits)))
	}
	if summary.Degraded > 0 {
		fmt.Fprintln(out, cli.WarningStyle.Render(fmt.Sprintf("  %d columns fell back to default values", summary.Degraded)))
	}
	fmt.Fprintln(out, cli.SubtleStyle.Render("  written to "+outputPath))
}
