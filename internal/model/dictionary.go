// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
)

// Group is the semantic classification of a column's data.
type Group string

// Valid column groups.
const (
	GroupIdentifier  Group = "identifier"
	GroupNumeric     Group = "numeric"
	GroupCategorical Group = "categorical"
	GroupDatetime    Group = "datetime"
)

// Groups lists all valid groups in their canonical order.
var Groups = []Group{GroupIdentifier, GroupNumeric, GroupCategorical, GroupDatetime}

// Enrichment fallback values. A row that cannot be classified still
// produces a complete result, so a bad LLM reply degrades one row
// rather than aborting the batch.
const (
	DefaultGroup       = GroupCategorical
	DefaultDescription = "No description available"
	DefaultConfidence  = 0.5
)

// ParseGroup matches s against the valid groups case-insensitively.
func ParseGroup(s string) (Group, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, g := range Groups {
		if normalized == string(g) {
			return g, nil
		}
	}
	return "", fmt.Errorf("invalid group %q", s)
}

// DictionaryRow is one entry of the data dictionary: a column name plus
// the raw cells of its source CSV row, preserved for output.
type DictionaryRow struct {
	ColumnName string
	Fields     []string
}

// EnrichmentResult is the structured classification for a single column.
type EnrichmentResult struct {
	Group       Group
	Description string
	Confidence  float64
}

// DefaultResult returns the fallback enrichment used when a row cannot
// be classified.
func DefaultResult() EnrichmentResult {
	return EnrichmentResult{
		Group:       DefaultGroup,
		Description: DefaultDescription,
		Confidence:  DefaultConfidence,
	}
}

// ClampConfidence restricts a confidence score to [0, 1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// SampleSet maps column names to example values collected from the
// optional sample-data CSV. Columns without samples map to an empty slice.
type SampleSet map[string][]string

// Get returns the samples for a column, or nil if none were collected.
func (s SampleSet) Get(column string) []string {
	if s == nil {
		return nil
	}
	return s[column]
}
