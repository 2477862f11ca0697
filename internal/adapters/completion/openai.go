package completion

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const providerOpenAI = "openai"

// DefaultOpenAIModel is used when no model is configured
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIConfig holds OpenAI client configuration
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional, for OpenAI-compatible endpoints
}

// OpenAIProvider implements Provider on top of the OpenAI chat completions API
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider. The underlying client is reused across calls.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ProviderError{Provider: providerOpenAI, Model: cfg.Model, Err: ErrMissingAPIKey}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Model returns the model requests are sent to
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Complete sends prompt as a single user message and returns the first choice verbatim
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", p.wrap(ErrEmptyPrompt)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		N: 1,
	})
	if err != nil {
		return "", p.wrap(err)
	}

	// Empty content is a valid completion and is relayed as is
	if len(resp.Choices) == 0 {
		return "", p.wrap(ErrEmptyCompletion)
	}

	logrus.WithFields(logrus.Fields{
		"provider":          providerOpenAI,
		"model":             resp.Model,
		"completion_id":     resp.ID,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"finish_reason":     resp.Choices[0].FinishReason,
	}).Debug("Completion received")

	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) wrap(err error) error {
	providerErr := &ProviderError{Provider: providerOpenAI, Model: p.model, Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		providerErr.StatusCode = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		providerErr.StatusCode = reqErr.HTTPStatusCode
	}

	return providerErr
}
