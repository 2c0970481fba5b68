package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrAnswerIndex is returned when an answer does not line up with a question.
var ErrAnswerIndex = errors.New("answer index out of range")

// Session is the in-progress state of one candidate interaction.
type Session struct {
	ID         string   `json:"id"`
	JobID      string   `json:"job_id,omitempty"`
	ResumeText string   `json:"resume_text,omitempty"`
	Skills     string   `json:"skills,omitempty"`
	Questions  []string `json:"questions"`
	Answers    []string `json:"answers"`

	// Pending is an evaluated record that has not been persisted yet.
	Pending *ApplicationRecord `json:"pending,omitempty"`
	// Partial is a persisted record that is missing scores, usually because
	// the quota ran out. The next submission completes it under the same id.
	Partial       *ApplicationRecord `json:"partial,omitempty"`
	ApplicationID string             `json:"application_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns an empty session with a fresh id.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Questions: []string{},
		Answers:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Submitted reports whether the session's application has been persisted.
func (s *Session) Submitted() bool {
	return s.ApplicationID != ""
}

// HasUsableSkills reports whether skill extraction has produced a result.
func (s *Session) HasUsableSkills() bool {
	return strings.TrimSpace(s.Skills) != ""
}

// SelectJob switches the job. Questions generated for another job are dropped.
func (s *Session) SelectJob(jobID string) {
	if s.JobID != jobID {
		s.SetQuestions(nil)
	}
	s.JobID = jobID
	s.touch()
}

// SetResumeText stores freshly extracted résumé text.
func (s *Session) SetResumeText(text string) {
	s.ResumeText = text
	s.touch()
}

// SetSkills stores the outcome of skill extraction; an empty string means no usable skills.
func (s *Session) SetSkills(skills string) {
	s.Skills = skills
	s.touch()
}

// SetQuestions replaces the question sequence and resets the answers to
// empty strings of the same length.
func (s *Session) SetQuestions(questions []string) {
	s.Questions = append([]string{}, questions...)
	s.Answers = make([]string, len(s.Questions))
	s.Pending = nil
	s.Partial = nil
	s.touch()
}

// SetAnswer updates the answer for the question at index.
func (s *Session) SetAnswer(index int, answer string) error {
	if index < 0 || index >= len(s.Answers) {
		return fmt.Errorf("%w: %d (questions: %d)", ErrAnswerIndex, index, len(s.Questions))
	}
	s.Answers[index] = answer
	s.Pending = nil
	s.touch()
	return nil
}

// SetAnswers replaces all answers at once. The count must match the questions.
func (s *Session) SetAnswers(answers []string) error {
	if len(answers) != len(s.Questions) {
		return fmt.Errorf("%w: got %d answers for %d questions", ErrAnswerIndex, len(answers), len(s.Questions))
	}
	s.Answers = append([]string{}, answers...)
	s.Pending = nil
	s.touch()
	return nil
}

// Complete reports whether record holds a score for every question.
func (s *Session) Complete(record *ApplicationRecord) bool {
	for _, q := range s.Questions {
		if _, ok := record.Results.Get(q); !ok {
			return false
		}
	}
	return true
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}
