package dictionary

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSamples(t *testing.T) {
	t.Run("collects values for matching columns", func(t *testing.T) {
		path := writeCSV(t, "uid,email\n1,a@example.com\n2,b@example.com\n")

		samples, err := LoadSamples(path, []string{"uid", "email"})
		require.NoError(t, err)

		assert.Equal(t, []string{"1", "2"}, samples.Get("uid"))
		assert.Equal(t, []string{"a@example.com", "b@example.com"}, samples.Get("email"))
	})

	t.Run("caps samples per column", func(t *testing.T) {
		path := writeCSV(t, "age\n21\n22\n23\n24\n25\n26\n27\n")

		samples, err := LoadSamples(path, []string{"age"})
		require.NoError(t, err)

		assert.Equal(t, []string{"21", "22", "23", "24", "25"}, samples.Get("age"))
	})

	t.Run("skips empty values", func(t *testing.T) {
		path := writeCSV(t, "age,city\n21,\n,Paris\n23,Lyon\n")

		samples, err := LoadSamples(path, []string{"age", "city"})
		require.NoError(t, err)

		assert.Equal(t, []string{"21", "23"}, samples.Get("age"))
		assert.Equal(t, []string{"Paris", "Lyon"}, samples.Get("city"))
	})

	t.Run("column absent from sample file has no samples", func(t *testing.T) {
		path := writeCSV(t, "uid,email\n1,a@example.com\n")

		samples, err := LoadSamples(path, []string{"age"})
		require.NoError(t, err)

		assert.Empty(t, samples.Get("age"))
	})

	t.Run("header match is case-sensitive", func(t *testing.T) {
		path := writeCSV(t, "Age\n21\n")

		samples, err := LoadSamples(path, []string{"age"})
		require.NoError(t, err)

		assert.Empty(t, samples.Get("age"))
	})

	t.Run("missing file returns empty set with error for logging", func(t *testing.T) {
		samples, err := LoadSamples(filepath.Join(t.TempDir(), "missing.csv"), []string{"age"})

		require.Error(t, err)
		assert.Empty(t, samples)
	})
}
