// Package llm provides chat-completion clients and the prompt/response
// plumbing used to classify dictionary columns.
package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers. Enrich sends a single
// prompt and returns the raw text of the model's reply; it performs no
// retries and no response parsing.
type Client interface {
	Enrich(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for LLM clients.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	RateLimit   int
	Timeout     time.Duration
}

// Defaults applied when a Config field is zero.
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 200
	DefaultRateLimit   = 60 // requests per minute
	DefaultTimeout     = 30 * time.Second
)

const systemPrompt = "You are a data analyst expert who classifies and describes data columns. " +
	"You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, " +
	"markdown formatting, or commentary before or after the JSON. " +
	"Start your response directly with { and end with }."
