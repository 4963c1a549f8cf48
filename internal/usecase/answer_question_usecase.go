package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"financeqa/internal/domain"

	"github.com/google/uuid"
)

// AnswerQuestionInput carries the question driving one answer request. Only
// the most recent message of a conversation reaches this layer; multi-turn
// context is discarded upstream.
type AnswerQuestionInput struct {
	Question string
}

// AnswerQuestionUsecase runs the full extract, plan, retrieve, format,
// generate pipeline for one question.
type AnswerQuestionUsecase interface {
	Execute(ctx context.Context, input AnswerQuestionInput) (*domain.AnswerResult, error)
}

type answerQuestionUsecase struct {
	extract   ExtractFiltersUsecase
	retrieve  RetrievePassagesUsecase
	generator domain.GenerationClient
	validator AnswerValidator
	logger    *slog.Logger
}

// NewAnswerQuestionUsecase wires the pipeline stages together.
func NewAnswerQuestionUsecase(
	extract ExtractFiltersUsecase,
	retrieve RetrievePassagesUsecase,
	generator domain.GenerationClient,
	validator AnswerValidator,
	logger *slog.Logger,
) AnswerQuestionUsecase {
	return &answerQuestionUsecase{
		extract:   extract,
		retrieve:  retrieve,
		generator: generator,
		validator: validator,
		logger:    logger,
	}
}

func (u *answerQuestionUsecase) Execute(ctx context.Context, input AnswerQuestionInput) (*domain.AnswerResult, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, fmt.Errorf("question is required")
	}

	retrievalID := uuid.NewString()

	tuples, err := u.extract.Execute(ctx, ExtractFiltersInput{
		Query:       input.Question,
		RetrievalID: retrievalID,
	})
	if err != nil {
		return nil, err
	}

	retrieved, err := u.retrieve.Execute(ctx, RetrievePassagesInput{
		Query:       input.Question,
		Tuples:      tuples,
		RetrievalID: retrievalID,
	})
	if err != nil {
		return nil, err
	}

	knowledgeBase := FormatContext(retrieved.Passages)
	messages := BuildAnswerMessages(input.Question, knowledgeBase)

	raw, err := u.generator.Complete(ctx, messages, AnswerSchema())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	result, err := u.validator.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	u.logger.Info("answer_generated",
		slog.String("retrieval_id", retrievalID),
		slog.Int("passage_count", len(retrieved.Passages)),
		slog.Int("reference_count", len(result.References)))

	return result, nil
}
