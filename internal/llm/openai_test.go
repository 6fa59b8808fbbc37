package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/dictflow/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  Config{APIKey: "test-key"},
			wantErr: false,
		},
		{
			name:    "missing API key",
			config:  Config{},
			wantErr: true,
		},
		{
			name: "custom model and settings",
			config: Config{
				APIKey:      "test-key",
				Model:       "gpt-4",
				Temperature: 0.5,
				MaxTokens:   300,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := newOpenAIClient(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrMissingAPIKey)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestNewOpenAIClientDefaults(t *testing.T) {
	client, err := newOpenAIClient(Config{APIKey: "test-key"})
	require.NoError(t, err)

	c, ok := client.(*openAIClient)
	require.True(t, ok)
	assert.Equal(t, DefaultOpenAIModel, c.model)
	assert.Equal(t, DefaultTemperature, c.temperature)
	assert.Equal(t, DefaultMaxTokens, c.maxTokens)
	assert.Equal(t, openAIBaseURL, c.baseURL)
}

// newTestOpenAIClient points a real client at a test server.
func newTestOpenAIClient(t *testing.T, cfg Config, server *httptest.Server) *openAIClient {
	t.Helper()
	client, err := newOpenAIClient(cfg)
	require.NoError(t, err)

	c, ok := client.(*openAIClient)
	require.True(t, ok)
	c.baseURL = server.URL
	return c
}

func openAIReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	quoted, err := json.Marshal(content)
	require.NoError(t, err)
	_, err = fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%s},"finish_reason":"stop","index":0}]}`, quoted)
	require.NoError(t, err)
}

func TestOpenAIClientEnrich(t *testing.T) {
	const reply = `{"group":"numeric","description":"Age in years","confidence":0.88}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var requestBody struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&requestBody))

		assert.Equal(t, "gpt-4", requestBody.Model)
		assert.Equal(t, 0.2, requestBody.Temperature)
		assert.Equal(t, 150, requestBody.MaxTokens)
		require.Len(t, requestBody.Messages, 2)
		assert.Equal(t, "system", requestBody.Messages[0].Role)
		assert.Contains(t, requestBody.Messages[0].Content, "JSON")
		assert.Equal(t, "user", requestBody.Messages[1].Role)
		assert.Contains(t, requestBody.Messages[1].Content, "Column Name: age")

		openAIReply(t, w, reply)
	}))
	defer server.Close()

	client := newTestOpenAIClient(t, Config{
		APIKey:      "test-key",
		Model:       "gpt-4",
		Temperature: 0.2,
		MaxTokens:   150,
	}, server)

	content, err := client.Enrich(context.Background(), BuildPrompt("age", nil))
	require.NoError(t, err)
	assert.Equal(t, reply, content)
}

func TestOpenAIClientEnrichErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		sentinel   error
		errMsg     string
	}{
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			body:       `{"error":{"message":"invalid api key"}}`,
			sentinel:   common.ErrAuth,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			body:       `{"error":{"message":"slow down"}}`,
			sentinel:   common.ErrRateLimit,
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			body:       `{"error":{"message":"boom"}}`,
			sentinel:   common.ErrNetwork,
		},
		{
			name:       "malformed response body",
			statusCode: http.StatusOK,
			body:       "not json at all",
			errMsg:     "failed to parse response",
		},
		{
			name:       "no completion choices",
			statusCode: http.StatusOK,
			body:       `{"choices":[]}`,
			errMsg:     "no completion choices returned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestOpenAIClient(t, Config{APIKey: "test-key"}, server)

			_, err := client.Enrich(context.Background(), "prompt")
			require.Error(t, err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestOpenAIClientEnrichConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	client := newTestOpenAIClient(t, Config{APIKey: "test-key"}, server)
	server.Close()

	_, err := client.Enrich(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNetwork)
}
