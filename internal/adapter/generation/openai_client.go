package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"financeqa/internal/domain"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1024
)

// Config holds the settings shared by the hosted completion providers.
type Config struct {
	APIKey      string
	BaseURL     string
	APIVersion  string
	Model       string
	Temperature float32
	MaxTokens   int
	Logger      *slog.Logger
}

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint and
// binds every call to a named JSON schema via structured outputs.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *slog.Logger
}

// NewOpenAIClient creates a client against api.openai.com or any
// OpenAI-compatible BaseURL.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newClient(openai.NewClientWithConfig(clientCfg), cfg)
}

// NewAzureOpenAIClient creates a client against an Azure OpenAI deployment.
func NewAzureOpenAIClient(cfg Config) *OpenAIClient {
	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.BaseURL)
	if cfg.APIVersion != "" {
		clientCfg.APIVersion = cfg.APIVersion
	}
	return newClient(openai.NewClientWithConfig(clientCfg), cfg)
}

func newClient(client *openai.Client, cfg Config) *OpenAIClient {
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &OpenAIClient{
		client:      client,
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      cfg.Logger,
	}
}

// Complete implements domain.GenerationClient.
func (c *OpenAIClient) Complete(ctx context.Context, messages []domain.Message, schema domain.ResponseSchema) (json.RawMessage, error) {
	oaiMessages, err := toOpenAIMessages(messages)
	if err != nil {
		return nil, err
	}

	schemaJSON, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema %s: %w", schema.Name, err)
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    oaiMessages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schema.Name,
				Schema: json.RawMessage(schemaJSON),
				Strict: true,
			},
		},
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed for %s: %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices for %s", c.model)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("completion returned empty content for %s", c.model)
	}

	c.logger.Debug("completion_received",
		slog.String("model", c.model),
		slog.String("schema", schema.Name),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return json.RawMessage(content), nil
}

func toOpenAIMessages(messages []domain.Message) ([]openai.ChatCompletionMessage, error) {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		var role string
		switch m.Role {
		case domain.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case domain.RoleUser:
			role = openai.ChatMessageRoleUser
		default:
			return nil, fmt.Errorf("unknown role in message: %q", m.Role)
		}
		out[i] = openai.ChatCompletionMessage{Role: role, Content: m.Content}
	}
	return out, nil
}
