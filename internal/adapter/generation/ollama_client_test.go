package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"financeqa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() domain.ResponseSchema {
	return domain.ResponseSchema{
		Name: "test_schema",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"response": map[string]any{"type": "string"},
			},
			"required": []string{"response"},
		},
	}
}

func TestOllamaClient_Complete(t *testing.T) {
	var captured ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": `{"response": "ok"}`},
			"done":    true,
		})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3", 5*time.Second)
	raw, err := client.Complete(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "instructions"},
		{Role: domain.RoleUser, Content: "question"},
	}, testSchema())

	require.NoError(t, err)
	assert.JSONEq(t, `{"response": "ok"}`, string(raw))

	assert.Equal(t, "llama3", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.False(t, captured.Stream)
	// The schema definition rides along as Ollama's format constraint.
	assert.Equal(t, "object", captured.Format["type"])
}

func TestOllamaClient_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "missing", 5*time.Second)
	_, err := client.Complete(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "q"}}, testSchema())

	assert.ErrorContains(t, err, "404")
}

func TestOllamaClient_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": "   "},
			"done":    true,
		})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3", 5*time.Second)
	_, err := client.Complete(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "q"}}, testSchema())

	assert.ErrorContains(t, err, "empty content")
}

func TestOllamaClient_IncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": `{"response": "partial"}`},
			"done":    false,
		})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3", 5*time.Second)
	_, err := client.Complete(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "q"}}, testSchema())

	assert.ErrorContains(t, err, "incomplete")
}
