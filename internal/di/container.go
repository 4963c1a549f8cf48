package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"financeqa/internal/adapter/generation"
	"financeqa/internal/adapter/search"
	"financeqa/internal/domain"
	"financeqa/internal/infra"
	"financeqa/internal/infra/config"
	"financeqa/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Corpus snapshot taken at startup; extraction prompts are built from it.
	Corpus []domain.DocumentIdentity

	SearchClient domain.SearchClient
	Generator    domain.GenerationClient

	AnswerUsecase usecase.AnswerQuestionUsecase

	// Pool is nil when the http search backend is selected.
	Pool *pgxpool.Pool
}

// NewApplicationComponents wires all dependencies from config.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	var (
		searchClient domain.SearchClient
		corpusLister domain.CorpusLister
		pool         *pgxpool.Pool
	)

	switch cfg.Search.Backend {
	case config.SearchBackendPgvector:
		var err error
		pool, err = infra.NewPostgresPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
		}

		embedder, err := search.NewOpenAIEmbedder(search.EmbedderConfig{
			APIKey:    cfg.Generation.OpenAIAPIKey,
			BaseURL:   cfg.Generation.OpenAIBaseURL,
			Model:     cfg.Embedding.Model,
			CacheSize: cfg.Embedding.CacheSize,
			Logger:    log,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
		}

		store := search.NewPassageStore(pool, embedder, log)
		searchClient = store
		corpusLister = store

	case config.SearchBackendHTTP:
		client := search.NewVectorIndexClient(cfg.Search.IndexURL, time.Duration(cfg.Search.Timeout)*time.Second)
		searchClient = client
		corpusLister = client

	default:
		return nil, fmt.Errorf("%w: unknown search backend %q", domain.ErrConfiguration, cfg.Search.Backend)
	}

	var generator domain.GenerationClient
	switch cfg.Generation.Backend {
	case config.GenerationBackendOpenAI:
		generator = generation.NewOpenAIClient(generation.Config{
			APIKey:      cfg.Generation.OpenAIAPIKey,
			BaseURL:     cfg.Generation.OpenAIBaseURL,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
			Logger:      log,
		})
	case config.GenerationBackendAzure:
		generator = generation.NewAzureOpenAIClient(generation.Config{
			APIKey:      cfg.Generation.AzureAPIKey,
			BaseURL:     cfg.Generation.AzureEndpoint,
			APIVersion:  cfg.Generation.AzureAPIVersion,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
			Logger:      log,
		})
	case config.GenerationBackendOllama:
		generator = generation.NewOllamaClient(
			cfg.Generation.OllamaURL,
			cfg.Generation.Model,
			time.Duration(cfg.Generation.OllamaTimeout)*time.Second,
		)
	default:
		return nil, fmt.Errorf("%w: unknown generation backend %q", domain.ErrConfiguration, cfg.Generation.Backend)
	}

	if cfg.RateLimit.RPS > 0 {
		generator = generation.NewRateLimitedClient(generator, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		log.Info("generation_rate_limit_enabled",
			slog.Float64("rps", cfg.RateLimit.RPS),
			slog.Int("burst", cfg.RateLimit.Burst))
	}

	corpus, err := corpusLister.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list corpus documents: %w", domain.ErrConfiguration, err)
	}
	log.Info("corpus_loaded", slog.Int("document_count", len(corpus)))

	extractUsecase := usecase.NewExtractFiltersUsecase(generator, corpus, log)
	retrieveUsecase := usecase.NewRetrievePassagesUsecase(searchClient, cfg.TopK, log)
	answerUsecase := usecase.NewAnswerQuestionUsecase(
		extractUsecase, retrieveUsecase, generator, usecase.NewAnswerValidator(), log,
	)

	return &ApplicationComponents{
		Corpus:        corpus,
		SearchClient:  searchClient,
		Generator:     generator,
		AnswerUsecase: answerUsecase,
		Pool:          pool,
	}, nil
}
