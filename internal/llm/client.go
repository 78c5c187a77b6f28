package llm

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Client is an abstraction over LLM providers
type Client interface {
	// Generate sends a single prompt and returns the raw text response
	Generate(ctx context.Context, prompt string) (string, error)
	// Model returns the provider model name used for generation
	Model() string
	// Close releases any resources held by the client
	Close() error
}

type options struct {
	logger  logrus.FieldLogger
	baseURL string
}

// Option customizes client construction.
type Option func(*options)

// WithLogger sets the logger used for raw responses and failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.logger = l
	}
	return o
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string, opts ...Option) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey, opts...)
	default:
		return NewGeminiClient(ctx, config, apiKey, opts...)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
	logger logrus.FieldLogger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, opts ...Option) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	o := buildOptions(opts)

	clientOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(o.baseURL))
	}

	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
		logger: o.logger.WithFields(logrus.Fields{"provider": ProviderGemini, "model": config.Model}),
	}, nil
}

// Generate asks the model for a JSON response to prompt
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(c.config.Temperature)
	model.ResponseMIMEType = "application/json"

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.WithError(err).Error("Error during API call")
		return "", &ProviderError{Provider: ProviderGemini, Model: c.config.Model, Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		c.logger.WithError(err).Error("Unusable API response")
		return "", &ProviderError{Provider: ProviderGemini, Model: c.config.Model, Cause: err}
	}

	c.logger.WithFields(logrus.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
		"response":    text,
	}).Debug("API response")
	return text, nil
}

// Model returns the configured model name
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
