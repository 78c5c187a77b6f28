// Package llm provides language model configuration and client abstractions.
// A Client turns one prompt into one raw text response; callers parse it.
package llm

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider
	ProviderOpenAI Provider = "openai"
)

// Default model names per provider.
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultTemperature = 0.1
)

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Model       string
	Temperature float32
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       DefaultGeminiModel,
		Temperature: DefaultTemperature,
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       DefaultOpenAIModel,
		Temperature: DefaultTemperature,
	}
}

// ConfigFor returns the defaults for provider with model overridden when set.
// Unknown providers fall back to Gemini.
func ConfigFor(provider, model string) *Config {
	var cfg *Config
	switch Provider(provider) {
	case ProviderOpenAI:
		cfg = DefaultOpenAIConfig()
	default:
		cfg = DefaultGeminiConfig()
	}
	if model != "" {
		cfg = cfg.WithModel(model)
	}
	return cfg
}

// WithModel returns a new Config with a different model
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}
