package services

import (
	"errors"
	"fmt"
)

var (
	// ErrQuotaExceeded marks a generation call rejected for quota or rate limits.
	ErrQuotaExceeded = errors.New("generation quota exceeded")

	ErrMissingCredential = errors.New("generation credential is not set")
	ErrInvalidCredential = errors.New("api key must not be blank")
	ErrEmptyExtraction   = errors.New("no text could be extracted from the document")
	ErrNoResume          = errors.New("no résumé has been uploaded")
	ErrNoUsableSkills    = errors.New("no usable skills have been extracted")
	ErrJobNotSelected    = errors.New("no job has been selected")
	ErrJobNotFound       = errors.New("job not found")
	ErrNoQuestions       = errors.New("no questions have been generated")
	ErrAlreadySubmitted  = errors.New("application has already been submitted")
	ErrInvalidUpload     = errors.New("invalid upload")
)

// GenerationError wraps any generation failure that is not a quota rejection.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: generation failed", e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failure to store a finished application.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist application: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func quotaError(cause error) error {
	return fmt.Errorf("%w: %v", ErrQuotaExceeded, cause)
}

// classify keeps quota errors as they are and wraps everything else in a
// GenerationError for op.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return err
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &GenerationError{Op: op, Err: err}
}
