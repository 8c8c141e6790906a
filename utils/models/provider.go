package models

import "context"

// ModelConfig represents default configuration options for model calls
type ModelConfig struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// CallOptions carries per-call overrides for one prompt. Zero values fall
// back to the provider's defaults.
type CallOptions struct {
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

// Response is the raw outcome of one model call
type Response struct {
	Text string
	// Truncated reports that the model stopped because it hit the output
	// token budget, so the text is very likely cut off mid-payload
	Truncated bool
}

// Provider represents a model provider (e.g., Anthropic, OpenAI, Google)
type Provider interface {
	Name() string
	SupportsModel(modelName string) bool
	Configure(apiKey string) error
	SetVerbose(verbose bool)
	SendPrompt(ctx context.Context, modelName string, prompt string, opts CallOptions) (*Response, error)
}

// DetectProvider determines the appropriate provider based on the model name
func DetectProvider(modelName string) Provider {
	return registry.FindProvider(modelName)
}

func (o CallOptions) maxTokensOr(def int) int {
	if o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return def
}

func (o CallOptions) temperatureOr(def float64) float64 {
	if o.Temperature > 0 {
		return o.Temperature
	}
	return def
}
