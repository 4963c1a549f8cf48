package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeqa/internal/domain"
	"financeqa/internal/usecase"
)

const testAPIKey = "secret-key"

type stubAnswerUsecase struct {
	result   *domain.AnswerResult
	err      error
	question string
}

func (s *stubAnswerUsecase) Execute(ctx context.Context, input usecase.AnswerQuestionInput) (*domain.AnswerResult, error) {
	s.question = input.Question
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(answer usecase.AnswerQuestionUsecase, timeout time.Duration) *echo.Echo {
	e := echo.New()
	Register(e, NewHandler(answer, timeout, testLogger()), testAPIKey)
	return e
}

func postQuery(e *echo.Echo, body string, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if apiKey != "" {
		req.Header.Set("Authorization", apiKey)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestQuery_AnswersLastMessage(t *testing.T) {
	stub := &stubAnswerUsecase{result: &domain.AnswerResult{
		Response: "Revenue was $117.2B.",
		References: []domain.Reference{
			{Year: 2023, Quarter: "Q1", Company: "AAPL", Page: 3},
		},
	}}
	e := newTestServer(stub, 0)

	body := `[{"message": "hello"}, {"message": "What was Apple's revenue?"}]`
	rec := postQuery(e, body, testAPIKey)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "What was Apple's revenue?", stub.question)

	var result domain.AnswerResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Revenue was $117.2B.", result.Response)
	require.Len(t, result.References, 1)
	assert.Equal(t, 3, result.References[0].Page)
}

func TestQuery_EmptyMessageListRejected(t *testing.T) {
	e := newTestServer(&stubAnswerUsecase{}, 0)

	rec := postQuery(e, `[]`, testAPIKey)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuery_MalformedBodyRejected(t *testing.T) {
	e := newTestServer(&stubAnswerUsecase{}, 0)

	rec := postQuery(e, `{"message": "not a list"}`, testAPIKey)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuery_MissingAPIKeyUnauthorized(t *testing.T) {
	e := newTestServer(&stubAnswerUsecase{}, 0)

	rec := postQuery(e, `[{"message": "q"}]`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQuery_WrongAPIKeyUnauthorized(t *testing.T) {
	e := newTestServer(&stubAnswerUsecase{}, 0)

	rec := postQuery(e, `[{"message": "q"}]`, "wrong-key")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQuery_PipelineFailureReturnsGenericError(t *testing.T) {
	stub := &stubAnswerUsecase{
		err: fmt.Errorf("%w: model endpoint unreachable at 10.0.0.5", domain.ErrGeneration),
	}
	e := newTestServer(stub, 0)

	rec := postQuery(e, `[{"message": "q"}]`, testAPIKey)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, genericServerError, body["error"])
	// Stage identity and upstream detail never leak to the caller.
	assert.NotContains(t, rec.Body.String(), "generation")
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestHealth(t *testing.T) {
	e := newTestServer(&stubAnswerUsecase{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "alive"}`, rec.Body.String())
}

func TestStageOf(t *testing.T) {
	assert.Equal(t, "extraction", stageOf(fmt.Errorf("%w: bad json", domain.ErrExtraction)))
	assert.Equal(t, "retrieval", stageOf(fmt.Errorf("%w: timeout", domain.ErrRetrieval)))
	assert.Equal(t, "generation", stageOf(fmt.Errorf("%w: refused", domain.ErrGeneration)))
	assert.Equal(t, "unknown", stageOf(fmt.Errorf("question is required")))
}
