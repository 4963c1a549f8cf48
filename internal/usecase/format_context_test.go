package usecase_test

import (
	"testing"

	"financeqa/internal/domain"
	"financeqa/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestFormatContext_RendersProvenanceLines(t *testing.T) {
	passages := []domain.RetrievedPassage{
		{Text: "Revenue was $117.2B.", Company: "AAPL", Year: 2023, Quarter: "Q1", Page: 3},
		{Text: "Gross margin improved.", Company: "MSFT", Year: 2023, Quarter: "Q1", Page: 7},
	}

	got := usecase.FormatContext(passages)

	want := "Revenue was $117.2B.\n Reference: 2023 Q1 AAPL, page 3\n\n" +
		"Gross margin improved.\n Reference: 2023 Q1 MSFT, page 7"
	assert.Equal(t, want, got)
}

func TestFormatContext_PreservesPassageOrder(t *testing.T) {
	passages := []domain.RetrievedPassage{
		{Text: "second hit first", Company: "MSFT", Year: 2022, Quarter: "Q4", Page: 2},
		{Text: "first hit second", Company: "AAPL", Year: 2023, Quarter: "Q1", Page: 1},
	}

	got := usecase.FormatContext(passages)

	assert.Less(t, 0, len(got))
	assert.Regexp(t, `(?s)second hit first.*first hit second`, got)
}

func TestFormatContext_EmptyInputYieldsEmptyString(t *testing.T) {
	assert.Equal(t, "", usecase.FormatContext(nil))
	assert.Equal(t, "", usecase.FormatContext([]domain.RetrievedPassage{}))
}
