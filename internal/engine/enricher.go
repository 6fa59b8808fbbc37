// Package engine orchestrates the enrichment loop: one LLM round-trip per
// dictionary row, with per-row failure containment.
package engine

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Veraticus/dictflow/internal/common"
	"github.com/Veraticus/dictflow/internal/dictionary"
	"github.com/Veraticus/dictflow/internal/llm"
	"github.com/Veraticus/dictflow/internal/model"
	"github.com/schollz/progressbar/v3"
)

// Cache stores enrichment results across runs. Implemented by
// storage.EnrichmentStore; nil disables caching.
type Cache interface {
	Get(ctx context.Context, columnName, modelName string) (model.EnrichmentResult, bool, error)
	Put(ctx context.Context, columnName, modelName string, result model.EnrichmentResult) error
}

// Config holds the per-run settings threaded through the enricher.
type Config struct {
	Model        string
	Workers      int
	ShowProgress bool
	Retry        common.RetryOptions
}

// Summary reports what happened during a run.
type Summary struct {
	Rows      int
	Degraded  int
	CacheHits int
	Elapsed   time.Duration
}

// Enricher drives the per-row classification loop.
type Enricher struct {
	client  llm.Client
	limiter *llm.RateLimiter
	cache   Cache
	logger  *slog.Logger
	cfg     Config
}

// New creates an Enricher. The cache may be nil.
func New(client llm.Client, limiter *llm.RateLimiter, cache Cache, logger *slog.Logger, cfg Config) *Enricher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		client:  client,
		limiter: limiter,
		cache:   cache,
		logger:  logger,
		cfg:     cfg,
	}
}

// Enrich classifies every dictionary row and returns one result per row, in
// input order. A failed LLM call or unparseable reply degrades that row to
// the default result; the run itself fails only on context cancellation.
func (e *Enricher) Enrich(ctx context.Context, dict *dictionary.Dictionary, samples model.SampleSet) ([]model.EnrichmentResult, Summary, error) {
	start := time.Now()
	results := make([]model.EnrichmentResult, len(dict.Rows))
	summary := Summary{Rows: len(dict.Rows)}

	var bar *progressbar.ProgressBar
	if e.cfg.ShowProgress {
		bar = progressbar.NewOptions(len(dict.Rows),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]Enriching columns...[reset]"),
		)
	}

	if e.cfg.Workers == 1 {
		for i, row := range dict.Rows {
			if err := ctx.Err(); err != nil {
				return nil, summary, err
			}

			outcome := e.enrichRow(ctx, row, samples)
			results[i] = outcome.result
			if outcome.degraded {
				summary.Degraded++
			}
			if outcome.cacheHit {
				summary.CacheHits++
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	} else {
		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)
		sem := make(chan struct{}, e.cfg.Workers)

		for i, row := range dict.Rows {
			wg.Add(1)
			go func(idx int, r model.DictionaryRow) {
				defer wg.Done()

				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					results[idx] = model.DefaultResult()
					return
				}

				outcome := e.enrichRow(ctx, r, samples)
				results[idx] = outcome.result

				mu.Lock()
				if outcome.degraded {
					summary.Degraded++
				}
				if outcome.cacheHit {
					summary.CacheHits++
				}
				mu.Unlock()

				if bar != nil {
					_ = bar.Add(1)
				}
			}(i, row)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	summary.Elapsed = time.Since(start)
	return results, summary, nil
}

type rowOutcome struct {
	result   model.EnrichmentResult
	degraded bool
	cacheHit bool
}

// enrichRow performs the PENDING -> PROMPTED -> PARSED -> MERGED progression
// for one row. It always produces a result.
func (e *Enricher) enrichRow(ctx context.Context, row model.DictionaryRow, samples model.SampleSet) rowOutcome {
	if e.cache != nil {
		cached, found, err := e.cache.Get(ctx, row.ColumnName, e.cfg.Model)
		if err != nil {
			e.logger.Warn("cache lookup failed",
				"column", row.ColumnName,
				"error", err)
		} else if found {
			e.logger.Debug("cache hit", "column", row.ColumnName)
			return rowOutcome{result: cached, cacheHit: true}
		}
	}

	prompt := llm.BuildPrompt(row.ColumnName, samples.Get(row.ColumnName))

	var raw string
	err := common.WithRetry(ctx, func() error {
		if e.limiter != nil {
			if waitErr := e.limiter.Wait(ctx); waitErr != nil {
				return waitErr
			}
		}

		var callErr error
		raw, callErr = e.client.Enrich(ctx, prompt)
		return callErr
	}, e.cfg.Retry)
	if err != nil {
		e.logger.Warn("enrichment failed, using default values",
			"column", row.ColumnName,
			"error", err)
		return rowOutcome{result: model.DefaultResult(), degraded: true}
	}

	result := llm.ParseEnrichment(raw)

	e.logger.Debug("column enriched",
		"column", row.ColumnName,
		"group", result.Group,
		"confidence", result.Confidence)

	if e.cache != nil {
		if err := e.cache.Put(ctx, row.ColumnName, e.cfg.Model, result); err != nil {
			e.logger.Warn("cache store failed",
				"column", row.ColumnName,
				"error", err)
		}
	}

	return rowOutcome{result: result}
}
