package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"financeqa/internal/domain"
	"financeqa/internal/infra/httpclient"
)

const ollamaKeepAlive = -1

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model     string            `json:"model"`
	Messages  []ollamaChatMessage `json:"messages"`
	Stream    bool              `json:"stream"`
	KeepAlive int               `json:"keep_alive"`
	Format    map[string]any    `json:"format,omitempty"`
	Options   map[string]any    `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// OllamaClient sends chat requests to an Ollama endpoint, using its `format`
// parameter for schema-constrained output. Intended for self-hosted setups.
type OllamaClient struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

// NewOllamaClient constructs a client for the given endpoint and model.
func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  httpclient.NewPooledClient(timeout),
	}
}

// Complete implements domain.GenerationClient.
func (c *OllamaClient) Complete(ctx context.Context, messages []domain.Message, schema domain.ResponseSchema) (json.RawMessage, error) {
	chatMessages := make([]ollamaChatMessage, len(messages))
	for i, m := range messages {
		chatMessages[i] = ollamaChatMessage{Role: m.Role, Content: m.Content}
	}

	reqBody := ollamaChatRequest{
		Model:     c.Model,
		Messages:  chatMessages,
		Stream:    false,
		KeepAlive: ollamaKeepAlive,
		Format:    schema.Definition,
		Options: map[string]any{
			"temperature": 0.2,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call generation endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("generation endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	content := strings.TrimSpace(chatResp.Message.Content)
	if content == "" {
		return nil, fmt.Errorf("generation endpoint returned empty content")
	}
	if !chatResp.Done {
		return nil, fmt.Errorf("generation response incomplete")
	}

	return json.RawMessage(content), nil
}
