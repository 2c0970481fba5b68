package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

type SkillExtractorService interface {
	ExtractSkills(ctx context.Context, client GenerationClient, resumeText string) (string, error)
}

type skillExtractorService struct {
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewSkillExtractorService(logger *zap.Logger) SkillExtractorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &skillExtractorService{
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
	}
}

// ExtractSkills implements SkillExtractorService. On any error the returned
// summary is empty.
func (s *skillExtractorService) ExtractSkills(ctx context.Context, client GenerationClient, resumeText string) (string, error) {
	text, err := client.Generate(ctx, s.promptBuilder.BuildSkillsPrompt(resumeText))
	if err != nil {
		return "", classify("extract skills", err)
	}

	skills := strings.TrimSpace(text)
	if skills == "" {
		return "", &GenerationError{Op: "extract skills", Err: errors.New("no skills extracted")}
	}

	s.logger.Debug("skills extracted", zap.Int("characters", len(skills)))

	return skills, nil
}
