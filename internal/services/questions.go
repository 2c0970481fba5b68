package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const DefaultQuestionCount = 5

type QuestionGeneratorService interface {
	GenerateQuestions(ctx context.Context, client GenerationClient, skills, jobDescription string) ([]string, error)
}

type questionGeneratorService struct {
	promptBuilder *PromptBuilder
	count         int
	logger        *zap.Logger
}

// NewQuestionGeneratorService asks for count questions per generation.
func NewQuestionGeneratorService(count int, logger *zap.Logger) QuestionGeneratorService {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &questionGeneratorService{
		promptBuilder: NewPromptBuilder(),
		count:         count,
		logger:        logger,
	}
}

// GenerateQuestions implements QuestionGeneratorService. Every non-empty line
// of the response is one question; the count actually returned is whatever the
// model produced. On failure the result is an empty slice.
func (q *questionGeneratorService) GenerateQuestions(ctx context.Context, client GenerationClient, skills, jobDescription string) ([]string, error) {
	text, err := client.Generate(ctx, q.promptBuilder.BuildQuestionsPrompt(skills, jobDescription, q.count))
	if err != nil {
		return []string{}, classify("generate questions", err)
	}

	questions := SplitQuestions(text)
	if len(questions) == 0 {
		return []string{}, &GenerationError{Op: "generate questions", Err: errors.New("no questions in response")}
	}

	if len(questions) != q.count {
		q.logger.Debug("question count differs from request", zap.Int("requested", q.count), zap.Int("received", len(questions)))
	}

	return questions, nil
}

// SplitQuestions returns the trimmed non-empty lines of text, dropping exact
// repeats so every question text is unique.
func SplitQuestions(text string) []string {
	seen := make(map[string]struct{})
	questions := []string{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		questions = append(questions, line)
	}

	return questions
}
