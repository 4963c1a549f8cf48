package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"financeqa/internal/domain"
)

// passageColumns maps predicate fields to columns of the passages table.
// The ticker field is stored under the company column.
var passageColumns = map[string]string{
	domain.FieldYear:    "year",
	domain.FieldQuarter: "quarter",
	domain.FieldTicker:  "company",
}

// PassageStore serves scoped similarity searches from a pgvector-backed
// passages table. The table is populated by the (external) ingestion
// pipeline; this store only reads.
type PassageStore struct {
	pool     *pgxpool.Pool
	embedder domain.Embedder
	logger   *slog.Logger
}

// NewPassageStore creates a store over an existing connection pool.
func NewPassageStore(pool *pgxpool.Pool, embedder domain.Embedder, logger *slog.Logger) *PassageStore {
	return &PassageStore{pool: pool, embedder: embedder, logger: logger}
}

// Search implements domain.SearchClient: embeds the query and runs a cosine
// nearest-neighbor scan restricted to the filter predicate.
func (s *PassageStore) Search(ctx context.Context, query string, filter domain.Predicate, k int) ([]domain.RetrievedPassage, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	args := []any{pgvector.NewVector(vec)}
	where, args, err := buildWhere(filter, args)
	if err != nil {
		return nil, err
	}

	args = append(args, k)
	sql := fmt.Sprintf(`
		SELECT content, company, year, quarter, page, 1 - (embedding <=> $1) AS score
		FROM passages
		%s
		ORDER BY embedding <=> $1
		LIMIT $%d
	`, where, len(args))

	start := time.Now()
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query passages: %w", err)
	}
	defer rows.Close()

	var passages []domain.RetrievedPassage
	for rows.Next() {
		var p domain.RetrievedPassage
		if err := rows.Scan(&p.Text, &p.Company, &p.Year, &p.Quarter, &p.Page, &p.Score); err != nil {
			return nil, fmt.Errorf("failed to scan passage: %w", err)
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	s.logger.Debug("pgvector_search_completed",
		slog.Int("hit_count", len(passages)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return passages, nil
}

// ListDocuments implements domain.CorpusLister from the distinct filings
// present in the passages table.
func (s *PassageStore) ListDocuments(ctx context.Context) ([]domain.DocumentIdentity, error) {
	sql := `
		SELECT DISTINCT company, year, quarter
		FROM passages
		ORDER BY year, quarter, company
	`
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentIdentity
	for rows.Next() {
		var d domain.DocumentIdentity
		if err := rows.Scan(&d.Company, &d.Year, &d.Quarter); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return docs, nil
}

// buildWhere translates the predicate into a WHERE clause. Values within a
// field condition become OR-joined equality checks; conditions are
// AND-joined. An empty predicate yields no WHERE clause.
func buildWhere(filter domain.Predicate, args []any) (string, []any, error) {
	if filter.IsEmpty() {
		return "", args, nil
	}

	var clauses []string
	for _, cond := range filter.Conditions {
		column, ok := passageColumns[cond.Field]
		if !ok {
			return "", nil, fmt.Errorf("unknown filter field %q", cond.Field)
		}
		if len(cond.Values) == 0 {
			continue
		}

		var equalities []string
		for _, v := range cond.Values {
			args = append(args, v)
			equalities = append(equalities, fmt.Sprintf("%s = $%d", column, len(args)))
		}
		if len(equalities) == 1 {
			clauses = append(clauses, equalities[0])
		} else {
			clauses = append(clauses, "("+strings.Join(equalities, " OR ")+")")
		}
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, nil
}
