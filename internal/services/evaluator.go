package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/skill-profiler/internal/models"
)

const maxScore = models.MaxQuestionScore

type EvaluatorService interface {
	Evaluate(ctx context.Context, client GenerationClient, questions, answers []string, jobDescription string) (models.ScoreResult, error)
}

type evaluatorService struct {
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewEvaluatorService(logger *zap.Logger) EvaluatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &evaluatorService{
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
	}
}

// Evaluate implements EvaluatorService.
//
// Questions are scored in order, one generation call per non-blank answer.
// Blank answers score "0" without a call. A failed call marks that entry as an
// evaluation error and the batch continues. A quota rejection stops the batch:
// the entries scored so far are returned together with the quota error.
func (e *evaluatorService) Evaluate(ctx context.Context, client GenerationClient, questions, answers []string, jobDescription string) (models.ScoreResult, error) {
	var result models.ScoreResult

	if len(questions) != len(answers) {
		return result, fmt.Errorf("%w: %d answers for %d questions", models.ErrAnswerIndex, len(answers), len(questions))
	}

	for i, question := range questions {
		answer := answers[i]

		if strings.TrimSpace(answer) == "" {
			result.Add(models.ScoreEntry{Question: question, Answer: answer, Score: "0"})
			continue
		}

		text, err := client.Generate(ctx, e.promptBuilder.BuildAnswerEvaluationPrompt(jobDescription, question, answer))
		if err != nil {
			if errors.Is(err, ErrQuotaExceeded) {
				e.logger.Warn("evaluation stopped by quota", zap.Int("evaluated", result.Len()), zap.Int("questions", len(questions)))
				return result, err
			}

			e.logger.Warn("answer evaluation failed", zap.Int("index", i), zap.Error(err))
			result.Add(models.ScoreEntry{Question: question, Answer: answer, Failed: true})
			continue
		}

		result.Add(models.ScoreEntry{Question: question, Answer: answer, Score: strings.TrimSpace(text)})
	}

	return result, nil
}
