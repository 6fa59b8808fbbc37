package llm

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Veraticus/dictflow/internal/model"
)

// ParseEnrichment extracts a structured classification from the raw text of
// an LLM reply. It never fails: any field that cannot be recovered falls
// back to its default, and a reply with no parseable JSON object yields the
// full default record. Malformed replies degrade one row, never the batch.
func ParseEnrichment(content string) model.EnrichmentResult {
	raw, ok := extractJSONObject(content)
	if !ok {
		return model.DefaultResult()
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return model.DefaultResult()
	}

	return model.EnrichmentResult{
		Group:       parseGroupField(fields["group"]),
		Description: parseDescriptionField(fields["description"]),
		Confidence:  parseConfidenceField(fields["confidence"]),
	}
}

// extractJSONObject locates the JSON object embedded in free text, tolerating
// surrounding prose and markdown code fences.
func extractJSONObject(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return content[start : end+1], true
}

func parseGroupField(v any) model.Group {
	s, ok := v.(string)
	if !ok {
		return model.DefaultGroup
	}
	group, err := model.ParseGroup(s)
	if err != nil {
		return model.DefaultGroup
	}
	return group
}

func parseDescriptionField(v any) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return model.DefaultDescription
	}
	return strings.TrimSpace(s)
}

func parseConfidenceField(v any) float64 {
	switch c := v.(type) {
	case float64:
		return model.ClampConfidence(c)
	case string:
		// Models occasionally quote the score
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return model.DefaultConfidence
		}
		return model.ClampConfidence(f)
	default:
		return model.DefaultConfidence
	}
}
