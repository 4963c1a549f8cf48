package search

import (
	"testing"

	pgvector "github.com/pgvector/pgvector-go"

	"financeqa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorArg() []any {
	return []any{pgvector.NewVector([]float32{0.1, 0.2})}
}

func TestBuildWhere_EmptyPredicate(t *testing.T) {
	where, args, err := buildWhere(domain.Predicate{}, vectorArg())

	require.NoError(t, err)
	assert.Equal(t, "", where)
	assert.Len(t, args, 1)
}

func TestBuildWhere_SingleValuePerField(t *testing.T) {
	p := domain.Predicate{Conditions: []domain.FieldCondition{
		{Field: domain.FieldYear, Values: []any{2023}},
		{Field: domain.FieldQuarter, Values: []any{"Q1"}},
		{Field: domain.FieldTicker, Values: []any{"AAPL"}},
	}}

	where, args, err := buildWhere(p, vectorArg())

	require.NoError(t, err)
	assert.Equal(t, "WHERE year = $2 AND quarter = $3 AND company = $4", where)
	require.Len(t, args, 4)
	assert.Equal(t, 2023, args[1])
	assert.Equal(t, "Q1", args[2])
	assert.Equal(t, "AAPL", args[3])
}

func TestBuildWhere_MultiValueFieldOrJoined(t *testing.T) {
	p := domain.Predicate{Conditions: []domain.FieldCondition{
		{Field: domain.FieldYear, Values: []any{2023}},
		{Field: domain.FieldTicker, Values: []any{"AAPL", "MSFT"}},
	}}

	where, args, err := buildWhere(p, vectorArg())

	require.NoError(t, err)
	assert.Equal(t, "WHERE year = $2 AND (company = $3 OR company = $4)", where)
	assert.Len(t, args, 4)
}

func TestBuildWhere_UnknownFieldRejected(t *testing.T) {
	p := domain.Predicate{Conditions: []domain.FieldCondition{
		{Field: "page; DROP TABLE passages", Values: []any{1}},
	}}

	_, _, err := buildWhere(p, vectorArg())

	assert.ErrorContains(t, err, "unknown filter field")
}
