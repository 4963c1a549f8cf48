package domain

import (
	"context"
	"encoding/json"
)

// Chat roles accepted by every generation backend.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one entry of the chat exchange sent to the generation service.
type Message struct {
	Role    string
	Content string
}

// ResponseSchema names a JSON schema the generation service must conform to.
// Definition is a JSON-schema document; backends translate it to their native
// structured-output mechanism.
type ResponseSchema struct {
	Name       string
	Definition map[string]any
}

// GenerationClient is the structured-generation service boundary. Complete
// returns the raw schema-conformant JSON payload; callers own the
// parse-or-fail step.
type GenerationClient interface {
	Complete(ctx context.Context, messages []Message, schema ResponseSchema) (json.RawMessage, error)
}

// Embedder turns text into a dense vector. Used only by search backends that
// query a vector index directly.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
