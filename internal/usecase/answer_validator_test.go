package usecase_test

import (
	"encoding/json"
	"testing"

	"financeqa/internal/domain"
	"financeqa/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValidator_ValidPayload(t *testing.T) {
	raw := json.RawMessage(`{
		"response": "Apple's Q1 2023 revenue was $117.2B.",
		"references": [{"year": 2023, "quarter": "Q1", "company": "AAPL", "page": 3}]
	}`)

	result, err := usecase.NewAnswerValidator().Validate(raw)

	require.NoError(t, err)
	assert.Equal(t, "Apple's Q1 2023 revenue was $117.2B.", result.Response)
	require.Len(t, result.References, 1)
	assert.Equal(t, domain.Reference{Year: 2023, Quarter: "Q1", Company: "AAPL", Page: 3}, result.References[0])
}

func TestAnswerValidator_EmptyReferencesAllowed(t *testing.T) {
	raw := json.RawMessage(`{"response": "Please ask a finance question.", "references": []}`)

	result, err := usecase.NewAnswerValidator().Validate(raw)

	require.NoError(t, err)
	assert.NotNil(t, result.References)
	assert.Empty(t, result.References)
}

func TestAnswerValidator_NilReferencesNormalized(t *testing.T) {
	raw := json.RawMessage(`{"response": "ok", "references": null}`)

	result, err := usecase.NewAnswerValidator().Validate(raw)

	require.NoError(t, err)
	assert.NotNil(t, result.References)
}

func TestAnswerValidator_RejectsUnknownFields(t *testing.T) {
	raw := json.RawMessage(`{"response": "ok", "references": [], "confidence": 0.9}`)

	_, err := usecase.NewAnswerValidator().Validate(raw)

	assert.Error(t, err)
}

func TestAnswerValidator_RejectsMissingResponse(t *testing.T) {
	raw := json.RawMessage(`{"response": "   ", "references": []}`)

	_, err := usecase.NewAnswerValidator().Validate(raw)

	assert.ErrorContains(t, err, "missing response")
}

func TestAnswerValidator_RejectsMalformedJSON(t *testing.T) {
	_, err := usecase.NewAnswerValidator().Validate(json.RawMessage(`not json`))
	assert.Error(t, err)

	_, err = usecase.NewAnswerValidator().Validate(nil)
	assert.Error(t, err)
}

func TestAnswerValidator_RejectsIncompleteReference(t *testing.T) {
	raw := json.RawMessage(`{
		"response": "something",
		"references": [{"year": 2023, "quarter": "", "company": "AAPL", "page": 1}]
	}`)

	_, err := usecase.NewAnswerValidator().Validate(raw)

	assert.ErrorContains(t, err, "missing quarter")
}
