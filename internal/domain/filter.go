package domain

import (
	"bytes"
	"encoding/json"
)

// Metadata field names recognized by the similarity search service.
const (
	FieldYear    = "year"
	FieldQuarter = "quarter"
	FieldTicker  = "ticker"
)

// FilterTuple is one extracted retrieval constraint. The extractor gives no
// uniqueness guarantee; the planner deduplicates.
type FilterTuple struct {
	Year    int    `json:"year"`
	Quarter string `json:"quarter"`
	Ticker  string `json:"ticker"`
}

// FieldCondition restricts one metadata field to a set of accepted values.
// Multiple values are OR-joined equalities.
type FieldCondition struct {
	Field  string
	Values []any
}

// Predicate is a query-ready metadata filter: field conditions AND-joined
// across fields. The zero value matches everything (unrestricted search).
type Predicate struct {
	Conditions []FieldCondition
}

// IsEmpty reports whether the predicate places no restriction on the search.
func (p Predicate) IsEmpty() bool {
	return len(p.Conditions) == 0
}

// MarshalJSON renders the Chroma-style filter document:
//
//	{"$and": [{"year": {"$eq": 2023}}, {"$or": [{"ticker": {"$eq": "AAPL"}}, ...]}]}
//
// An empty predicate marshals to {}.
func (p Predicate) MarshalJSON() ([]byte, error) {
	if p.IsEmpty() {
		return []byte("{}"), nil
	}

	and := make([]any, 0, len(p.Conditions))
	for _, cond := range p.Conditions {
		if len(cond.Values) == 1 {
			and = append(and, eqClause(cond.Field, cond.Values[0]))
			continue
		}
		or := make([]any, 0, len(cond.Values))
		for _, v := range cond.Values {
			or = append(or, eqClause(cond.Field, v))
		}
		and = append(and, map[string]any{"$or": or})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(map[string]any{"$and": and}); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

func eqClause(field string, value any) map[string]any {
	return map[string]any{field: map[string]any{"$eq": value}}
}

// PlannedFilter pairs a query-ready predicate with its result budget.
type PlannedFilter struct {
	Predicate Predicate
	K         int
}
