package llm

import (
	"fmt"
	"strings"
)

// BuildPrompt composes the classification instruction for a single column.
// Sample values, when present, are included verbatim; when absent the model
// must rely on the column name alone.
func BuildPrompt(columnName string, samples []string) string {
	var b strings.Builder

	b.WriteString("Analyze the following data column and provide classification and description.\n\n")
	fmt.Fprintf(&b, "Column Name: %s\n", columnName)

	if len(samples) > 0 {
		fmt.Fprintf(&b, "Sample values: %s\n", strings.Join(samples, ", "))
	}

	b.WriteString(`
Provide a JSON response with the following fields:
1. "group": One of ["identifier", "numeric", "categorical", "datetime"]
   - identifier: unique identifiers like IDs, keys
   - numeric: numerical measurements or quantities
   - categorical: categories, labels, or classifications
   - datetime: dates, times, or timestamps
2. "description": A brief description of what this column represents (1-2 sentences)
3. "confidence": A confidence score between 0 and 1 indicating how confident you are about this classification and description

Respond ONLY with a JSON object with keys "group", "description", and "confidence", in this exact format:
{
  "group": "category_name",
  "description": "column description",
  "confidence": 0.95
}
`)

	return b.String()
}
