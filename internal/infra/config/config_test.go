package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeqa/internal/domain"
)

func validConfig() *Config {
	cfg := Load()
	cfg.APIKey = "test-key"
	cfg.Generation.OpenAIAPIKey = "sk-test"
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 9, cfg.TopK)
	assert.Equal(t, 90, cfg.RequestTimeout)
	assert.Equal(t, SearchBackendPgvector, cfg.Search.Backend)
	assert.Equal(t, GenerationBackendOpenAI, cfg.Generation.Backend)
	assert.Equal(t, float32(0.7), cfg.Generation.Temperature)
	assert.Equal(t, 1024, cfg.Generation.MaxTokens)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 512, cfg.Embedding.CacheSize)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("TOP_K", "15")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")
	t.Setenv("SEARCH_BACKEND", "http")
	t.Setenv("GENERATION_BACKEND", "ollama")
	t.Setenv("GENERATION_TEMPERATURE", "0.2")

	cfg := Load()

	assert.Equal(t, 15, cfg.TopK)
	assert.Equal(t, 30, cfg.RequestTimeout)
	assert.Equal(t, SearchBackendHTTP, cfg.Search.Backend)
	assert.Equal(t, GenerationBackendOllama, cfg.Generation.Backend)
	assert.Equal(t, float32(0.2), cfg.Generation.Temperature)
}

func TestDBConfig_DSN(t *testing.T) {
	db := DBConfig{
		Host: "localhost", Port: "5432",
		User: "u", Password: "p", Name: "financeqa",
	}

	assert.Equal(t, "postgres://u:p@localhost:5432/financeqa", db.DSN())
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.APIKey = ""

	err := cfg.Validate()

	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.ErrorContains(t, err, "FINANCEQA_API_KEY")
}

func TestValidate_UnknownSearchBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Backend = "chroma"

	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
}

func TestValidate_OpenAIBackendNeedsKey(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Backend = SearchBackendHTTP
	cfg.Generation.OpenAIAPIKey = ""

	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
}

func TestValidate_AzureBackendNeedsEndpointAndKey(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.Backend = GenerationBackendAzure
	cfg.Generation.AzureEndpoint = "https://example.openai.azure.com"
	cfg.Generation.AzureAPIKey = ""

	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
}

func TestValidate_OllamaBackendNeedsNoKey(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Backend = SearchBackendHTTP
	cfg.Generation.Backend = GenerationBackendOllama
	cfg.Generation.OpenAIAPIKey = ""

	assert.NoError(t, cfg.Validate())
}

func TestValidate_PgvectorNeedsEmbeddingKey(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.Backend = GenerationBackendOllama
	cfg.Generation.OpenAIAPIKey = ""

	err := cfg.Validate()

	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.ErrorContains(t, err, "embed")
}
