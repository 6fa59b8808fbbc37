// Package storage provides a persistent cache of prior enrichments so
// repeated runs over the same dictionary skip redundant API calls.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/dictflow/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// EnrichmentStore caches enrichment results in SQLite, keyed by column
// name and model identifier.
type EnrichmentStore struct {
	db     *sql.DB
	dbPath string
	ttl    time.Duration
}

// DefaultTTL is how long cached enrichments remain valid.
const DefaultTTL = 24 * time.Hour

// NewEnrichmentStore opens (creating if needed) the cache database at dbPath.
func NewEnrichmentStore(dbPath string, ttl time.Duration) (*EnrichmentStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	store := &EnrichmentStore{
		db:     db,
		dbPath: dbPath,
		ttl:    ttl,
	}

	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *EnrichmentStore) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS enrichments (
		column_name TEXT NOT NULL,
		model       TEXT NOT NULL,
		group_name  TEXT NOT NULL,
		description TEXT NOT NULL,
		confidence  REAL NOT NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (column_name, model)
	)`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create enrichments table: %w", err)
	}
	return nil
}

// Get returns the cached enrichment for a column, if present and unexpired.
func (s *EnrichmentStore) Get(ctx context.Context, columnName, modelName string) (model.EnrichmentResult, bool, error) {
	const query = `
	SELECT group_name, description, confidence, created_at
	FROM enrichments
	WHERE column_name = ? AND model = ?`

	var (
		groupName   string
		description string
		confidence  float64
		createdAt   time.Time
	)

	err := s.db.QueryRowContext(ctx, query, columnName, modelName).
		Scan(&groupName, &description, &confidence, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EnrichmentResult{}, false, nil
	}
	if err != nil {
		return model.EnrichmentResult{}, false, fmt.Errorf("failed to query enrichment cache: %w", err)
	}

	if time.Since(createdAt) > s.ttl {
		return model.EnrichmentResult{}, false, nil
	}

	group, err := model.ParseGroup(groupName)
	if err != nil {
		// Stale rows with unknown groups are treated as misses
		return model.EnrichmentResult{}, false, nil
	}

	return model.EnrichmentResult{
		Group:       group,
		Description: description,
		Confidence:  model.ClampConfidence(confidence),
	}, true, nil
}

// Put stores an enrichment result, replacing any prior entry for the
// same column and model.
func (s *EnrichmentStore) Put(ctx context.Context, columnName, modelName string, result model.EnrichmentResult) error {
	const query = `
	INSERT INTO enrichments (column_name, model, group_name, description, confidence, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (column_name, model) DO UPDATE SET
		group_name = excluded.group_name,
		description = excluded.description,
		confidence = excluded.confidence,
		created_at = excluded.created_at`

	_, err := s.db.ExecContext(ctx, query,
		columnName, modelName,
		string(result.Group), result.Description, result.Confidence,
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store enrichment: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *EnrichmentStore) Close() error {
	return s.db.Close()
}
