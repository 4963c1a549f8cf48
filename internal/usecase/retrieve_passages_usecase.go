package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"financeqa/internal/domain"
	"financeqa/internal/usecase/retrieval"
)

// RetrievePassagesInput carries the question, the extracted tuples and the
// request correlation ID.
type RetrievePassagesInput struct {
	Query       string
	Tuples      []domain.FilterTuple
	RetrievalID string
}

// RetrievePassagesOutput returns the fan-in passage list along with the
// filter plan that produced it.
type RetrievePassagesOutput struct {
	Passages []domain.RetrievedPassage
	Filters  []domain.PlannedFilter
}

// RetrievePassagesUsecase plans the extracted tuples into budgeted filters
// and runs the scoped searches.
type RetrievePassagesUsecase interface {
	Execute(ctx context.Context, input RetrievePassagesInput) (*RetrievePassagesOutput, error)
}

type retrievePassagesUsecase struct {
	searchClient domain.SearchClient
	topK         int
	logger       *slog.Logger
}

// NewRetrievePassagesUsecase creates the retriever with the global top-K
// budget shared across planned filters.
func NewRetrievePassagesUsecase(searchClient domain.SearchClient, topK int, logger *slog.Logger) RetrievePassagesUsecase {
	return &retrievePassagesUsecase{
		searchClient: searchClient,
		topK:         topK,
		logger:       logger,
	}
}

func (u *retrievePassagesUsecase) Execute(ctx context.Context, input RetrievePassagesInput) (*RetrievePassagesOutput, error) {
	planned := retrieval.Plan(input.Tuples, u.topK)

	u.logger.Info("filters_planned",
		slog.String("retrieval_id", input.RetrievalID),
		slog.Int("filter_count", len(planned)),
		slog.Int("per_filter_k", planned[0].K))

	passages, err := retrieval.FanOut(ctx, u.searchClient, input.Query, planned, input.RetrievalID, u.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}

	return &RetrievePassagesOutput{Passages: passages, Filters: planned}, nil
}
