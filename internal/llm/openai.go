package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// OpenAIClient implements Client for the OpenAI chat completions API
type OpenAIClient struct {
	client *openai.Client
	config *Config
	logger logrus.FieldLogger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string, opts ...Option) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	o := buildOptions(opts)

	clientCfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		clientCfg.BaseURL = o.baseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		config: config,
		logger: o.logger.WithFields(logrus.Fields{"provider": ProviderOpenAI, "model": config.Model}),
	}, nil
}

// Generate asks the model for a JSON object response to prompt
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: c.config.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.WithError(err).Error("Error during API call")
		return "", &ProviderError{Provider: ProviderOpenAI, Model: c.config.Model, Cause: err}
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices in response")
		c.logger.WithError(err).Error("Unusable API response")
		return "", &ProviderError{Provider: ProviderOpenAI, Model: c.config.Model, Cause: err}
	}

	text := resp.Choices[0].Message.Content
	c.logger.WithFields(logrus.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
		"response":    text,
	}).Debug("API response")
	return text, nil
}

// Model returns the configured model name
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP client holds no long-lived resources.
func (c *OpenAIClient) Close() error {
	return nil
}
