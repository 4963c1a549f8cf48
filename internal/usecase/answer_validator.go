package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"financeqa/internal/domain"
)

// AnswerValidator enforces the AnswerResult contract on generation output.
// Non-conforming payloads are a hard failure, never best-effort parsing.
type AnswerValidator struct{}

// NewAnswerValidator creates a validator instance (stateless).
func NewAnswerValidator() AnswerValidator {
	return AnswerValidator{}
}

// Validate parses and checks the schema-bound payload returned by the
// generation service.
func (v AnswerValidator) Validate(raw json.RawMessage) (*domain.AnswerResult, error) {
	if len(raw) == 0 {
		return nil, errors.New("generation response is empty")
	}

	var result domain.AnswerResult
	if err := decodeStrict(raw, &result); err != nil {
		return nil, err
	}

	if strings.TrimSpace(result.Response) == "" {
		return nil, errors.New("missing response text")
	}

	for i, ref := range result.References {
		if strings.TrimSpace(ref.Company) == "" {
			return nil, fmt.Errorf("reference %d missing company", i)
		}
		if strings.TrimSpace(ref.Quarter) == "" {
			return nil, fmt.Errorf("reference %d missing quarter", i)
		}
	}

	// References may legitimately be empty; keep the JSON contract stable.
	if result.References == nil {
		result.References = []domain.Reference{}
	}

	return &result, nil
}
