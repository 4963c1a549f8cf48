package retrieval

import (
	"context"
	"log/slog"
	"time"

	"financeqa/internal/domain"

	"golang.org/x/sync/errgroup"
)

// FanOut issues one similarity search per planned filter concurrently and
// reassembles the hits in filter-submission order, each filter's hits kept in
// the search service's native relevance order. No dedup and no cross-filter
// re-ranking: fan-in is concatenation, not merge-by-score.
func FanOut(
	ctx context.Context,
	client domain.SearchClient,
	query string,
	filters []domain.PlannedFilter,
	retrievalID string,
	logger *slog.Logger,
) ([]domain.RetrievedPassage, error) {
	perFilter := make([][]domain.RetrievedPassage, len(filters))

	searchStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range filters {
		g.Go(func() error {
			hits, err := client.Search(gctx, query, f.Predicate, f.K)
			if err != nil {
				return err
			}
			perFilter[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var passages []domain.RetrievedPassage
	for _, hits := range perFilter {
		passages = append(passages, hits...)
	}

	logger.Info("fanout_completed",
		slog.String("retrieval_id", retrievalID),
		slog.Int("filter_count", len(filters)),
		slog.Int("passage_count", len(passages)),
		slog.Int64("duration_ms", time.Since(searchStart).Milliseconds()))

	return passages, nil
}
