package main

import (
	"fmt"
	"os"

	"github.com/Veraticus/dictflow/internal/llm"
	"github.com/spf13/viper"
)

// createLLMClient creates an LLM client based on configuration. The resolved
// Config is returned alongside the client so the engine can reuse the model
// name and rate limit without re-reading viper.
func createLLMClient() (llm.Client, llm.Config, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "openai" // default provider
	}

	config := llm.Config{
		Provider:    provider,
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
		Timeout:     viper.GetDuration("llm.timeout"),
	}

	if config.RateLimit == 0 {
		config.RateLimit = llm.DefaultRateLimit
	}

	// Resolve the API key: flag/config first, then the provider's
	// conventional environment variable.
	apiKey := viper.GetString("llm.api_key")
	switch provider {
	case "openai":
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, llm.Config{}, fmt.Errorf("OpenAI API key not found in config or OPENAI_API_KEY environment variable")
		}
		if config.Model == "" {
			config.Model = llm.DefaultOpenAIModel
		}

	case "anthropic":
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, llm.Config{}, fmt.Errorf("anthropic API key not found in config or ANTHROPIC_API_KEY environment variable")
		}
		if config.Model == "" {
			config.Model = llm.DefaultAnthropicModel
		}

	default:
		return nil, llm.Config{}, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
	config.APIKey = apiKey

	client, err := llm.NewClient(config)
	if err != nil {
		return nil, llm.Config{}, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return client, config, nil
}
