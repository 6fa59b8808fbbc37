package llm

import (
	"testing"

	"github.com/Veraticus/dictflow/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestParseEnrichment(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    model.EnrichmentResult
	}{
		{
			name:    "valid JSON is parsed exactly",
			content: `{"group":"numeric","description":"Age in years","confidence":0.88}`,
			want: model.EnrichmentResult{
				Group:       model.GroupNumeric,
				Description: "Age in years",
				Confidence:  0.88,
			},
		},
		{
			name:    "no JSON yields full default record",
			content: "I think this is about age",
			want:    model.DefaultResult(),
		},
		{
			name:    "markdown code fence is tolerated and confidence clamped",
			content: "```json\n{\"group\":\"datetime\",\"description\":\"signup date\",\"confidence\":1.2}\n```",
			want: model.EnrichmentResult{
				Group:       model.GroupDatetime,
				Description: "signup date",
				Confidence:  1.0,
			},
		},
		{
			name:    "surrounding prose is tolerated",
			content: "Sure! Here is my analysis:\n{\"group\":\"identifier\",\"description\":\"Unique user ID\",\"confidence\":0.95}\nLet me know if you need more.",
			want: model.EnrichmentResult{
				Group:       model.GroupIdentifier,
				Description: "Unique user ID",
				Confidence:  0.95,
			},
		},
		{
			name:    "invalid group falls back to categorical",
			content: `{"group":"textual","description":"free text notes","confidence":0.7}`,
			want: model.EnrichmentResult{
				Group:       model.GroupCategorical,
				Description: "free text notes",
				Confidence:  0.7,
			},
		},
		{
			name:    "group match is case-insensitive",
			content: `{"group":"Numeric","description":"order total","confidence":0.9}`,
			want: model.EnrichmentResult{
				Group:       model.GroupNumeric,
				Description: "order total",
				Confidence:  0.9,
			},
		},
		{
			name:    "empty description falls back to placeholder",
			content: `{"group":"numeric","description":"  ","confidence":0.6}`,
			want: model.EnrichmentResult{
				Group:       model.GroupNumeric,
				Description: model.DefaultDescription,
				Confidence:  0.6,
			},
		},
		{
			name:    "missing fields get defaults",
			content: `{"group":"datetime"}`,
			want: model.EnrichmentResult{
				Group:       model.GroupDatetime,
				Description: model.DefaultDescription,
				Confidence:  model.DefaultConfidence,
			},
		},
		{
			name:    "negative confidence is clamped to zero",
			content: `{"group":"numeric","description":"count","confidence":-0.3}`,
			want: model.EnrichmentResult{
				Group:       model.GroupNumeric,
				Description: "count",
				Confidence:  0.0,
			},
		},
		{
			name:    "quoted confidence is parsed",
			content: `{"group":"numeric","description":"price","confidence":"0.75"}`,
			want: model.EnrichmentResult{
				Group:       model.GroupNumeric,
				Description: "price",
				Confidence:  0.75,
			},
		},
		{
			name:    "unparseable confidence defaults",
			content: `{"group":"numeric","description":"price","confidence":"high"}`,
			want: model.EnrichmentResult{
				Group:       model.GroupNumeric,
				Description: "price",
				Confidence:  model.DefaultConfidence,
			},
		},
		{
			name:    "malformed JSON yields full default record",
			content: `{"group":"numeric","description":`,
			want:    model.DefaultResult(),
		},
		{
			name:    "non-object JSON yields full default record",
			content: `"just a string" { not valid }`,
			want:    model.DefaultResult(),
		},
		{
			name:    "empty reply yields full default record",
			content: "",
			want:    model.DefaultResult(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEnrichment(tt.content)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEnrichmentIsIdempotent(t *testing.T) {
	content := `{"group":"numeric","description":"Age in years","confidence":0.88}`

	first := ParseEnrichment(content)
	second := ParseEnrichment(content)

	assert.Equal(t, first, second)
}
