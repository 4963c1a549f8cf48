package usecase

import "financeqa/internal/domain"

// FilterListSchema binds filter extraction to a list of {year, quarter,
// ticker} objects. An empty list is valid output and means "no constraint".
func FilterListSchema() domain.ResponseSchema {
	return domain.ResponseSchema{
		Name: "document_filters",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"list_of_docs": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"year":    map[string]any{"type": "integer"},
							"quarter": map[string]any{"type": "string"},
							"ticker":  map[string]any{"type": "string"},
						},
						"required":             []string{"year", "quarter", "ticker"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"list_of_docs"},
			"additionalProperties": false,
		},
	}
}

// AnswerSchema binds answer generation to the {response, references[]}
// contract.
func AnswerSchema() domain.ResponseSchema {
	return domain.ResponseSchema{
		Name: "referenced_response",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"response": map[string]any{"type": "string"},
				"references": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"year":    map[string]any{"type": "integer"},
							"quarter": map[string]any{"type": "string"},
							"company": map[string]any{"type": "string"},
							"page":    map[string]any{"type": "integer"},
						},
						"required":             []string{"year", "quarter", "company", "page"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"response", "references"},
			"additionalProperties": false,
		},
	}
}
