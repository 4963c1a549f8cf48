package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"financeqa/internal/domain"
)

// ExtractFiltersInput carries the question and the request correlation ID.
type ExtractFiltersInput struct {
	Query       string
	RetrievalID string
}

// ExtractFiltersUsecase turns a question into zero or more filter tuples by
// asking the generation service which corpus documents the question names.
type ExtractFiltersUsecase interface {
	Execute(ctx context.Context, input ExtractFiltersInput) ([]domain.FilterTuple, error)
}

type extractFiltersUsecase struct {
	generator     domain.GenerationClient
	documentNames []string
	logger        *slog.Logger
}

// NewExtractFiltersUsecase creates the extractor over a fixed corpus listing.
// The listing is loaded once at startup and never re-read per request.
func NewExtractFiltersUsecase(generator domain.GenerationClient, corpus []domain.DocumentIdentity, logger *slog.Logger) ExtractFiltersUsecase {
	return &extractFiltersUsecase{
		generator:     generator,
		documentNames: domain.DocumentNames(corpus),
		logger:        logger,
	}
}

type filterListPayload struct {
	ListOfDocs []domain.FilterTuple `json:"list_of_docs"`
}

func (u *extractFiltersUsecase) Execute(ctx context.Context, input ExtractFiltersInput) ([]domain.FilterTuple, error) {
	messages := BuildExtractionMessages(u.documentNames, input.Query)

	raw, err := u.generator.Complete(ctx, messages, FilterListSchema())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}

	var payload filterListPayload
	if err := decodeStrict(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}

	u.logger.Info("filters_extracted",
		slog.String("retrieval_id", input.RetrievalID),
		slog.Int("tuple_count", len(payload.ListOfDocs)))

	return payload.ListOfDocs, nil
}

// decodeStrict is the parse-or-fail boundary for schema-bound payloads:
// unknown fields are rejected rather than silently dropped.
func decodeStrict(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("response does not conform to schema: %w", err)
	}
	return nil
}
