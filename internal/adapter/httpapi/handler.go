package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"financeqa/internal/domain"
	"financeqa/internal/usecase"
)

// genericServerError is the only failure detail exposed to callers. Stage
// identity stays in the internal log.
const genericServerError = "An unexpected server error occurred"

// Message is one conversation entry of the query request body. Only the most
// recent message is used; multi-turn context is discarded.
type Message struct {
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Message   string     `json:"message"`
}

type Handler struct {
	answer  usecase.AnswerQuestionUsecase
	timeout time.Duration
	logger  *slog.Logger
}

func NewHandler(answer usecase.AnswerQuestionUsecase, timeout time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		answer:  answer,
		timeout: timeout,
		logger:  logger,
	}
}

// Register wires the routes. The query endpoint sits behind API-key auth;
// health stays open.
func Register(e *echo.Echo, h *Handler, apiKey string) {
	e.GET("/health", h.Health)
	e.POST("/query", h.Query, middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:Authorization",
		AuthScheme: "",
		Validator: func(key string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1, nil
		},
	}))
}

// Query answers one question. The whole extract, plan, retrieve, format,
// generate chain sits inside a single failure boundary: no partial answers.
func (h *Handler) Query(c echo.Context) error {
	var messages []Message
	if err := c.Bind(&messages); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if len(messages) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "at least one message is required"})
	}

	lastMessage := messages[len(messages)-1].Message

	ctx := c.Request().Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.answer.Execute(ctx, usecase.AnswerQuestionInput{Question: lastMessage})
	if err != nil {
		h.logger.Error("query_failed",
			slog.String("stage", stageOf(err)),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": genericServerError})
	}

	return c.JSON(http.StatusOK, result)
}

// Health reports process liveness only, never upstream service health.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "alive"})
}

func stageOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrExtraction):
		return "extraction"
	case errors.Is(err, domain.ErrRetrieval):
		return "retrieval"
	case errors.Is(err, domain.ErrGeneration):
		return "generation"
	default:
		return "unknown"
	}
}
