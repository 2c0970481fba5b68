package services

import (
	"fmt"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildSkillsPrompt asks for the résumé's technical and soft skills as a comma-separated list.
func (pb *PromptBuilder) BuildSkillsPrompt(resumeText string) string {
	return fmt.Sprintf(`Extract technical and soft skills from the following resume text:
%s
Return the skills as a comma-separated list.`, resumeText)
}

// BuildQuestionsPrompt asks for count numbered interview questions with no preamble.
func (pb *PromptBuilder) BuildQuestionsPrompt(skills, jobDescription string, count int) string {
	return fmt.Sprintf(`Generate %d interview questions based on these skills: %s.
## Job Description: %s
Return them as a numbered list. Just start giving questions, not the text like "Here are %d questions" and other such texts.`,
		count, skills, jobDescription, count)
}

// BuildAnswerEvaluationPrompt asks for a bare 0-10 integer score for one answer.
func (pb *PromptBuilder) BuildAnswerEvaluationPrompt(jobDescription, question, answer string) string {
	return fmt.Sprintf(`Evaluate the following answer keeping in mind the
## Job Description: %s
## Question: '%s'
## Answer: %s
Provide a score (0-%d). I just want an integer response, no extra text, no feedback, just marks out of %d.`,
		jobDescription, question, answer, maxScore, maxScore)
}
