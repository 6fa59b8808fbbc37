// Package dictionary handles reading and writing data-dictionary CSV files.
package dictionary

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/dictflow/internal/common"
	"github.com/Veraticus/dictflow/internal/model"
)

// columnFieldAliases are the header names recognized as holding column
// names, checked case-insensitively in priority order.
var columnFieldAliases = []string{"column_name", "column", "name", "field"}

// Dictionary is a loaded data dictionary: the original header and rows,
// plus which field holds the column names.
type Dictionary struct {
	ColumnField string
	Header      []string
	Rows        []model.DictionaryRow
}

// Load reads a data dictionary CSV. The column-name field is detected from
// the header; when no alias matches, the first column is used.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data dictionary %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse data dictionary %s: %w", path, err)
	}

	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("%s: %w", path, common.ErrNoColumns)
	}

	header := records[0]
	fieldIdx := detectColumnField(header)
	if fieldIdx < 0 {
		slog.Warn("No column-name field found, using first column",
			"path", path,
			"header", header[0])
		fieldIdx = 0
	}

	rows := make([]model.DictionaryRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, model.DictionaryRow{
			ColumnName: record[fieldIdx],
			Fields:     record,
		})
	}

	return &Dictionary{
		ColumnField: header[fieldIdx],
		Header:      header,
		Rows:        rows,
	}, nil
}

// ColumnNames returns the column names of all rows in input order.
func (d *Dictionary) ColumnNames() []string {
	names := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		names[i] = row.ColumnName
	}
	return names
}

// detectColumnField returns the index of the first header matching an alias,
// or -1 when none match. Alias priority wins over header position.
func detectColumnField(header []string) int {
	for _, alias := range columnFieldAliases {
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), alias) {
				return i
			}
		}
	}
	return -1
}
