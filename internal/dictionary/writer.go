package dictionary

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/dictflow/internal/model"
)

// Names of the columns appended to the enriched output.
const (
	GroupColumn       = "group"
	DescriptionColumn = "description"
	ConfidenceColumn  = "confidence"
)

// WriteEnriched serializes the dictionary with one enrichment per row
// appended as group, description, and confidence columns. Rows and their
// order are preserved exactly.
func WriteEnriched(path string, dict *Dictionary, results []model.EnrichmentResult) error {
	if len(results) != len(dict.Rows) {
		return fmt.Errorf("result count %d does not match row count %d", len(results), len(dict.Rows))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	writer := csv.NewWriter(f)

	header := make([]string, 0, len(dict.Header)+3)
	header = append(header, dict.Header...)
	header = append(header, GroupColumn, DescriptionColumn, ConfidenceColumn)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range dict.Rows {
		record := make([]string, 0, len(row.Fields)+3)
		record = append(record, row.Fields...)
		record = append(record,
			string(results[i].Group),
			results[i].Description,
			strconv.FormatFloat(results[i].Confidence, 'f', 2, 64),
		)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

// DefaultOutputPath derives the enriched output path from the input path.
func DefaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_enriched.csv"
}
