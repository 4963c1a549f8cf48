package search

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	openai "github.com/sashabaranov/go-openai"
)

// EmbedderConfig holds the embedding provider settings.
type EmbedderConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	CacheSize int
	Logger    *slog.Logger
}

// OpenAIEmbedder embeds query text via an OpenAI-compatible embeddings
// endpoint. Results are cached in a bounded LRU keyed by the exact query
// text: embedding is the only per-request call whose input repeats across
// requests, and the provider charges per call.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
	cache  *lru.Cache[string, []float32]
	logger *slog.Logger
}

// NewOpenAIEmbedder creates the embedder with its LRU cache.
func NewOpenAIEmbedder(cfg EmbedderConfig) (*OpenAIEmbedder, error) {
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = 512
	}
	cache, err := lru.New[string, []float32](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  openai.EmbeddingModel(cfg.Model),
		cache:  cache,
		logger: cfg.Logger,
	}, nil
}

// Embed implements domain.Embedder.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.cache.Get(text); ok {
		return vec, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	vec := resp.Data[0].Embedding
	e.cache.Add(text, vec)

	e.logger.Debug("query_embedded",
		slog.String("model", string(e.model)),
		slog.Int("dimensions", len(vec)))

	return vec, nil
}
