package dictionary

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/Veraticus/dictflow/internal/model"
)

// MaxSampleValues caps how many example values are collected per column.
const MaxSampleValues = 5

// LoadSamples reads the optional sample-data CSV and collects up to
// MaxSampleValues non-empty values for each dictionary column whose name
// exactly matches a header (case-sensitive). Columns absent from the sample
// file are left out of the set; callers see an empty sequence for them.
func LoadSamples(path string, columns []string) (model.SampleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.SampleSet{}, fmt.Errorf("failed to open sample data %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return model.SampleSet{}, fmt.Errorf("failed to parse sample data %s: %w", path, err)
	}

	if len(records) == 0 {
		return model.SampleSet{}, nil
	}

	header := records[0]
	indexByName := make(map[string]int, len(header))
	for i, name := range header {
		indexByName[name] = i
	}

	samples := make(model.SampleSet, len(columns))
	for _, column := range columns {
		idx, ok := indexByName[column]
		if !ok {
			continue
		}

		values := make([]string, 0, MaxSampleValues)
		for _, record := range records[1:] {
			if idx >= len(record) || record[idx] == "" {
				continue
			}
			values = append(values, record[idx])
			if len(values) == MaxSampleValues {
				break
			}
		}
		samples[column] = values
	}

	return samples, nil
}
