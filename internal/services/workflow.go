package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/skill-profiler/internal/logger"
	"alfredoptarigan/skill-profiler/internal/models"
	"alfredoptarigan/skill-profiler/internal/repositories"
)

// WorkflowService runs the candidate flow for one session at a time:
// résumé upload, skill extraction, question generation, answering and
// submission. A failing step never discards what earlier steps produced.
type WorkflowService interface {
	StartSession(ctx context.Context) (*models.Session, error)
	EndSession(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (*models.Session, error)

	SetCredential(ctx context.Context, sessionID, apiKey string) error
	CredentialStatus(ctx context.Context, sessionID string) (bool, error)

	SelectJob(ctx context.Context, sessionID, jobID string) (*models.Session, error)
	UploadResume(ctx context.Context, sessionID string, doc []byte) (*models.Session, error)
	ExtractSkills(ctx context.Context, sessionID string) (*models.Session, error)
	GenerateQuestions(ctx context.Context, sessionID string) (*models.Session, error)
	SetAnswer(ctx context.Context, sessionID string, index int, answer string) (*models.Session, error)
	SetAnswers(ctx context.Context, sessionID string, answers []string) (*models.Session, error)
	Submit(ctx context.Context, sessionID string) (*models.ApplicationRecord, error)

	Application(ctx context.Context, id uuid.UUID) (*models.ApplicationRecord, error)
}

type workflowService struct {
	sessions     repositories.SessionRepository
	applications repositories.ApplicationRepository
	jobs         JobService
	credentials  CredentialStore
	extractor    DocumentExtractor
	skills       SkillExtractorService
	questions    QuestionGeneratorService
	evaluator    EvaluatorService
	logger       *zap.Logger
}

type WorkflowDeps struct {
	Sessions     repositories.SessionRepository
	Applications repositories.ApplicationRepository
	Jobs         JobService
	Credentials  CredentialStore
	Extractor    DocumentExtractor
	Skills       SkillExtractorService
	Questions    QuestionGeneratorService
	Evaluator    EvaluatorService
}

func NewWorkflowService(deps WorkflowDeps, log *zap.Logger) WorkflowService {
	if log == nil {
		log = zap.NewNop()
	}
	return &workflowService{
		sessions:     deps.Sessions,
		applications: deps.Applications,
		jobs:         deps.Jobs,
		credentials:  deps.Credentials,
		extractor:    deps.Extractor,
		skills:       deps.Skills,
		questions:    deps.Questions,
		evaluator:    deps.Evaluator,
		logger:       log,
	}
}

func (w *workflowService) log(session *models.Session) *zap.Logger {
	return logger.WithSession(w.logger, session.ID, session.JobID)
}

// load fetches a session that may still be changed.
func (w *workflowService) load(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := w.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Submitted() {
		return nil, ErrAlreadySubmitted
	}
	return session, nil
}

func (w *workflowService) save(ctx context.Context, session *models.Session) error {
	if err := w.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// StartSession implements WorkflowService.
func (w *workflowService) StartSession(ctx context.Context) (*models.Session, error) {
	session, err := w.sessions.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	w.log(session).Info("session started")
	return session, nil
}

// EndSession implements WorkflowService. The credential is dropped with the session.
func (w *workflowService) EndSession(ctx context.Context, sessionID string) error {
	w.credentials.Forget(sessionID)
	if err := w.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	w.logger.Info("session ended", zap.String(logger.FieldSession, sessionID))
	return nil
}

// Session implements WorkflowService.
func (w *workflowService) Session(ctx context.Context, sessionID string) (*models.Session, error) {
	return w.sessions.Get(ctx, sessionID)
}

// SetCredential implements WorkflowService.
func (w *workflowService) SetCredential(ctx context.Context, sessionID, apiKey string) error {
	session, err := w.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := w.credentials.Set(session.ID, apiKey); err != nil {
		return err
	}
	w.log(session).Info("credential set")
	return nil
}

// CredentialStatus implements WorkflowService.
func (w *workflowService) CredentialStatus(ctx context.Context, sessionID string) (bool, error) {
	session, err := w.sessions.Get(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return w.credentials.Has(session.ID), nil
}

// SelectJob implements WorkflowService. Switching to another job drops the
// questions generated for the previous one.
func (w *workflowService) SelectJob(ctx context.Context, sessionID, jobID string) (*models.Session, error) {
	session, err := w.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := w.jobs.Get(jobID); err != nil {
		return nil, err
	}

	session.SelectJob(jobID)
	if err := w.save(ctx, session); err != nil {
		return nil, err
	}

	w.log(session).Info("job selected")
	return session, nil
}

// UploadResume implements WorkflowService. Only the extracted text is kept,
// with lines trimmed and blank lines dropped.
func (w *workflowService) UploadResume(ctx context.Context, sessionID string, doc []byte) (*models.Session, error) {
	session, err := w.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	text, err := w.extractor.Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	text = CleanText(text)
	if text == "" {
		return nil, ErrEmptyExtraction
	}

	session.SetResumeText(text)
	if err := w.save(ctx, session); err != nil {
		return nil, err
	}

	w.log(session).Info("résumé uploaded", zap.Int("characters", len(text)))
	return session, nil
}

// ExtractSkills implements WorkflowService. A failed extraction leaves the
// session without usable skills.
func (w *workflowService) ExtractSkills(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := w.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	client, err := w.credentials.Client(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(session.ResumeText) == "" {
		return nil, ErrNoResume
	}

	skills, genErr := w.skills.ExtractSkills(ctx, client, session.ResumeText)

	session.SetSkills(skills)
	if err := w.save(ctx, session); err != nil {
		return nil, err
	}

	if genErr != nil {
		w.log(session).Warn("skill extraction failed", zap.Error(genErr))
		return session, genErr
	}

	w.log(session).Info("skills extracted")
	return session, nil
}

// GenerateQuestions implements WorkflowService. Answers are reset to match the
// new questions; a failure leaves both empty.
func (w *workflowService) GenerateQuestions(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := w.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	client, err := w.credentials.Client(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if session.JobID == "" {
		return nil, ErrJobNotSelected
	}

	job, err := w.jobs.Get(session.JobID)
	if err != nil {
		return nil, err
	}

	if !session.HasUsableSkills() {
		return nil, ErrNoUsableSkills
	}

	questions, genErr := w.questions.GenerateQuestions(ctx, client, session.Skills, job.Description)

	session.SetQuestions(questions)
	if err := w.save(ctx, session); err != nil {
		return nil, err
	}

	if genErr != nil {
		w.log(session).Warn("question generation failed", zap.Error(genErr))
		return session, genErr
	}

	w.log(session).Info("questions generated", zap.Int("count", len(questions)))
	return session, nil
}

// SetAnswer implements WorkflowService.
func (w *workflowService) SetAnswer(ctx context.Context, sessionID string, index int, answer string) (*models.Session, error) {
	session, err := w.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(session.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	if err := session.SetAnswer(index, answer); err != nil {
		return nil, err
	}

	if err := w.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetAnswers implements WorkflowService.
func (w *workflowService) SetAnswers(ctx context.Context, sessionID string, answers []string) (*models.Session, error) {
	session, err := w.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(session.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	if err := session.SetAnswers(answers); err != nil {
		return nil, err
	}

	if err := w.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Submit implements WorkflowService.
//
// The answers are evaluated and the record persisted. When the quota runs out
// mid-batch the partial record is persisted and returned together with the
// quota error, and the session stays open: the next Submit scores only the
// answers the partial record is missing and completes it under the same id.
// When persisting fails the evaluated record stays on the session so the next
// Submit only retries the write.
func (w *workflowService) Submit(ctx context.Context, sessionID string) (*models.ApplicationRecord, error) {
	session, err := w.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	record := session.Pending
	var evalErr error

	if record == nil {
		client, err := w.credentials.Client(ctx, session.ID)
		if err != nil {
			return nil, err
		}

		if session.JobID == "" {
			return nil, ErrJobNotSelected
		}

		if len(session.Questions) == 0 {
			return nil, ErrNoQuestions
		}

		job, err := w.jobs.Get(session.JobID)
		if err != nil {
			return nil, err
		}

		record, evalErr = w.evaluate(ctx, client, session, job.Description)
		if record == nil {
			return nil, evalErr
		}

		session.Pending = record
		if err := w.save(ctx, session); err != nil {
			return nil, err
		}

		w.log(session).Info("answers evaluated",
			zap.Int("total_score", record.TotalScore),
			zap.Int("max_score", record.MaxScore),
			zap.Bool("partial", evalErr != nil),
		)
	}

	if err := w.applications.Save(ctx, record); err != nil {
		w.log(session).Error("failed to persist application", zap.Error(err))
		return nil, &PersistenceError{Err: err}
	}

	session.Pending = nil

	if !session.Complete(record) {
		session.Partial = record
		if err := w.save(ctx, session); err != nil {
			return nil, err
		}

		if evalErr == nil {
			evalErr = fmt.Errorf("%w: %d of %d answers evaluated", ErrQuotaExceeded, record.Results.Len(), len(session.Questions))
		}
		w.log(session).Warn("partial application saved",
			zap.String("application_id", record.ID.String()),
			zap.Int("evaluated", record.Results.Len()),
		)
		return record, evalErr
	}

	session.Partial = nil
	session.ApplicationID = record.ID.String()
	if err := w.save(ctx, session); err != nil {
		return nil, err
	}

	w.log(session).Info("application submitted", zap.String("application_id", session.ApplicationID))
	return record, evalErr
}

// evaluate scores the answers the session's partial record does not already
// hold for the same answer text. Scores are merged back in question order and
// the partial record's id is kept. A quota error comes back with the record.
func (w *workflowService) evaluate(ctx context.Context, client GenerationClient, session *models.Session, jobDescription string) (*models.ApplicationRecord, error) {
	var carried models.ScoreResult
	var questions, answers []string

	for i, question := range session.Questions {
		if session.Partial != nil {
			if entry, ok := session.Partial.Results.Get(question); ok && entry.Answer == session.Answers[i] {
				carried.Add(entry)
				continue
			}
		}
		questions = append(questions, question)
		answers = append(answers, session.Answers[i])
	}

	fresh, err := w.evaluator.Evaluate(ctx, client, questions, answers, jobDescription)
	if err != nil && !errors.Is(err, ErrQuotaExceeded) {
		return nil, err
	}

	var results models.ScoreResult
	for _, question := range session.Questions {
		if entry, ok := carried.Get(question); ok {
			results.Add(entry)
		} else if entry, ok := fresh.Get(question); ok {
			results.Add(entry)
		}
	}

	record := models.NewApplicationRecord(session.ID, session.JobID, results)
	if session.Partial != nil {
		record.ID = session.Partial.ID
	}
	return record, err
}

// Application implements WorkflowService.
func (w *workflowService) Application(ctx context.Context, id uuid.UUID) (*models.ApplicationRecord, error) {
	return w.applications.FindByID(ctx, id)
}
