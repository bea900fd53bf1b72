// Package llm provides the model client abstraction used for text analysis.
package llm

// Provider represents an LLM provider.
type Provider string

// Provider constants define supported LLM providers.
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Config holds the model configuration for the application.
type Config struct {
	Provider    Provider
	Model       string
	Temperature float32
}

// DefaultConfig returns the default configuration (currently Gemini).
// Low temperature keeps structured output consistent between runs.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       DefaultModel,
		Temperature: 0.1,
	}
}

// WithModel returns a copy of the config using the given model name.
// An empty name keeps the current model.
func (c *Config) WithModel(model string) *Config {
	out := *c
	if model != "" {
		out.Model = model
	}
	return &out
}
