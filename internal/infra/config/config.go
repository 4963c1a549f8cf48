package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"financeqa/internal/domain"
)

const (
	SearchBackendPgvector = "pgvector"
	SearchBackendHTTP     = "http"

	GenerationBackendOpenAI = "openai"
	GenerationBackendAzure  = "azure"
	GenerationBackendOllama = "ollama"
)

type Config struct {
	Env            string
	Port           string
	APIKey         string
	TopK           int
	RequestTimeout int
	OTelEnabled    bool

	Search     SearchConfig
	DB         DBConfig
	Generation GenerationConfig
	Embedding  EmbeddingConfig
	RateLimit  RateLimitConfig
}

// SearchConfig selects the retrieval backend. The pgvector backend embeds
// queries itself and searches Postgres directly; the http backend delegates
// to a standalone vector-index service.
type SearchConfig struct {
	Backend  string
	IndexURL string
	Timeout  int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	MaxConns int
	MinConns int
}

// DSN builds the pgx connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type GenerationConfig struct {
	Backend     string
	Model       string
	Temperature float32
	MaxTokens   int

	OpenAIAPIKey  string
	OpenAIBaseURL string

	AzureEndpoint   string
	AzureAPIKey     string
	AzureAPIVersion string

	OllamaURL     string
	OllamaTimeout int
}

type EmbeddingConfig struct {
	Model     string
	CacheSize int
}

// RateLimitConfig bounds outbound completion calls. RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func Load() *Config {
	return &Config{
		Env:            getEnv("ENV", "development"),
		Port:           getEnv("PORT", "8000"),
		APIKey:         getSecret("FINANCEQA_API_KEY", "FINANCEQA_API_KEY_FILE", ""),
		TopK:           getEnvInt("TOP_K", 9),
		RequestTimeout: getEnvInt("REQUEST_TIMEOUT_SECONDS", 90),
		OTelEnabled:    getEnv("OTEL_LOGS_ENABLED", "false") == "true",
		Search: SearchConfig{
			Backend:  getEnv("SEARCH_BACKEND", SearchBackendPgvector),
			IndexURL: getEnv("VECTOR_INDEX_URL", "http://vector-index:8080"),
			Timeout:  getEnvInt("VECTOR_INDEX_TIMEOUT_SECONDS", 30),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "financeqa-db"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "financeqa_user"),
			Password: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "financeqa_password"),
			Name:     getEnv("DB_NAME", "financeqa_db"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
			MinConns: getEnvInt("DB_MIN_CONNS", 2),
		},
		Generation: GenerationConfig{
			Backend:         getEnv("GENERATION_BACKEND", GenerationBackendOpenAI),
			Model:           getEnv("GENERATION_MODEL", "gpt-4o"),
			Temperature:     getEnvFloat32("GENERATION_TEMPERATURE", 0.7),
			MaxTokens:       getEnvInt("GENERATION_MAX_TOKENS", 1024),
			OpenAIAPIKey:    getSecret("OPENAI_API_KEY", "OPENAI_API_KEY_FILE", ""),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
			AzureEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			AzureAPIKey:     getSecret("AZURE_OPENAI_API_KEY", "AZURE_OPENAI_API_KEY_FILE", ""),
			AzureAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-08-01-preview"),
			OllamaURL:       getEnv("OLLAMA_URL", "http://ollama:11434"),
			OllamaTimeout:   getEnvInt("OLLAMA_TIMEOUT_SECONDS", 120),
		},
		Embedding: EmbeddingConfig{
			Model:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			CacheSize: getEnvInt("EMBEDDING_CACHE_SIZE", 512),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat64("GENERATION_RPS", 0),
			Burst: getEnvInt("GENERATION_BURST", 1),
		},
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: FINANCEQA_API_KEY is required", domain.ErrConfiguration)
	}
	if c.TopK < 1 {
		return fmt.Errorf("%w: TOP_K must be at least 1", domain.ErrConfiguration)
	}

	switch c.Search.Backend {
	case SearchBackendPgvector, SearchBackendHTTP:
	default:
		return fmt.Errorf("%w: unknown search backend %q", domain.ErrConfiguration, c.Search.Backend)
	}

	switch c.Generation.Backend {
	case GenerationBackendOpenAI:
		if c.Generation.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required for the openai backend", domain.ErrConfiguration)
		}
	case GenerationBackendAzure:
		if c.Generation.AzureEndpoint == "" || c.Generation.AzureAPIKey == "" {
			return fmt.Errorf("%w: AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY are required for the azure backend", domain.ErrConfiguration)
		}
	case GenerationBackendOllama:
	default:
		return fmt.Errorf("%w: unknown generation backend %q", domain.ErrConfiguration, c.Generation.Backend)
	}

	if c.Search.Backend == SearchBackendPgvector && c.Generation.OpenAIAPIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY is required to embed queries for the pgvector backend", domain.ErrConfiguration)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}

	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat64(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat32(key string, fallback float32) float32 {
	return float32(getEnvFloat64(key, float64(fallback)))
}
