package retrieval

import (
	"financeqa/internal/domain"
)

// filterFields is the fixed field order used when building predicates.
var filterFields = []string{domain.FieldYear, domain.FieldQuarter, domain.FieldTicker}

func tupleField(t domain.FilterTuple, field string) any {
	switch field {
	case domain.FieldYear:
		return t.Year
	case domain.FieldQuarter:
		return t.Quarter
	default:
		return t.Ticker
	}
}

// CombinedPredicate merges all tuples into one predicate: per field, the
// deduplicated set of values seen across tuples, OR-joined; fields AND-joined.
//
// This is only correct when the tuples describe the same underlying slice of
// the corpus. When tuples differ in more than one field at once the result
// matches the cross-product of their values, including combinations that were
// never requested. The live query path therefore uses SeparatedPredicates;
// this strategy stays available for evaluation and single-document queries.
func CombinedPredicate(tuples []domain.FilterTuple) domain.Predicate {
	if len(tuples) == 0 {
		return domain.Predicate{}
	}

	var conditions []domain.FieldCondition
	for _, field := range filterFields {
		seen := make(map[any]struct{})
		var values []any
		for _, t := range tuples {
			v := tupleField(t, field)
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		conditions = append(conditions, domain.FieldCondition{Field: field, Values: values})
	}

	return domain.Predicate{Conditions: conditions}
}

// SeparatedPredicates builds one predicate per tuple, each pinning year,
// quarter and ticker to that tuple's values. No cross-tuple merging, so
// per-document intent is preserved.
func SeparatedPredicates(tuples []domain.FilterTuple) []domain.Predicate {
	predicates := make([]domain.Predicate, 0, len(tuples))
	for _, t := range tuples {
		predicates = append(predicates, domain.Predicate{Conditions: []domain.FieldCondition{
			{Field: domain.FieldYear, Values: []any{t.Year}},
			{Field: domain.FieldQuarter, Values: []any{t.Quarter}},
			{Field: domain.FieldTicker, Values: []any{t.Ticker}},
		}})
	}
	return predicates
}

// AllocateBudget splits the global top-K across n planned filters:
// k = topK/n + 1. Rounding up keeps small filter counts from being
// under-served; the total can exceed topK by up to n, an accepted over-fetch
// since downstream ranking and dedup are deliberately deferred.
func AllocateBudget(topK, n int) int {
	if n < 1 {
		n = 1
	}
	return topK/n + 1
}

// Plan expands tuples into independently budgeted filters using the separated
// strategy. Zero tuples plan as one unrestricted filter, never an error.
func Plan(tuples []domain.FilterTuple, topK int) []domain.PlannedFilter {
	predicates := SeparatedPredicates(tuples)
	if len(predicates) == 0 {
		predicates = []domain.Predicate{{}}
	}

	k := AllocateBudget(topK, len(predicates))
	planned := make([]domain.PlannedFilter, len(predicates))
	for i, p := range predicates {
		planned[i] = domain.PlannedFilter{Predicate: p, K: k}
	}
	return planned
}

// PlanCombined expands tuples into a single OR-joined filter holding the full
// top-K budget. See CombinedPredicate for the cross-product caveat.
func PlanCombined(tuples []domain.FilterTuple, topK int) []domain.PlannedFilter {
	return []domain.PlannedFilter{{
		Predicate: CombinedPredicate(tuples),
		K:         AllocateBudget(topK, 1),
	}}
}
