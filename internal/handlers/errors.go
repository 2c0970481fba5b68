package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skill-profiler/internal/messages"
	"alfredoptarigan/skill-profiler/internal/models"
	"alfredoptarigan/skill-profiler/internal/repositories"
	"alfredoptarigan/skill-profiler/internal/services"
)

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  status,
	})
}

// handleError writes the status and message that err maps to. Extra fields
// are merged into the body.
func handleError(c *fiber.Ctx, err error, extra ...fiber.Map) error {
	status, message := classifyError(err)

	body := fiber.Map{
		"error": message,
		"code":  status,
	}
	for _, m := range extra {
		for k, v := range m {
			body[k] = v
		}
	}

	return c.Status(status).JSON(body)
}

func classifyError(err error) (int, string) {
	var (
		genErr     *services.GenerationError
		persistErr *services.PersistenceError
		validErr   *models.ValidationError
	)

	switch {
	case errors.Is(err, repositories.ErrSessionNotFound),
		errors.Is(err, repositories.ErrApplicationNotFound),
		errors.Is(err, services.ErrJobNotFound):
		return fiber.StatusNotFound, err.Error()

	case errors.Is(err, services.ErrMissingCredential):
		return fiber.StatusPreconditionFailed, messages.CredentialRequired
	case errors.Is(err, services.ErrInvalidCredential):
		return fiber.StatusBadRequest, messages.CredentialInvalid

	case errors.Is(err, services.ErrQuotaExceeded):
		return fiber.StatusTooManyRequests, messages.QuotaExceeded
	case errors.As(err, &genErr):
		return fiber.StatusBadGateway, genErr.Error()

	case errors.Is(err, services.ErrEmptyExtraction):
		return fiber.StatusUnprocessableEntity, messages.EmptyExtraction

	case errors.As(err, &validErr):
		return fiber.StatusBadRequest, validErr.Error()
	case errors.Is(err, services.ErrInvalidUpload),
		errors.Is(err, models.ErrAnswerIndex),
		errors.Is(err, services.ErrNoResume),
		errors.Is(err, services.ErrNoUsableSkills),
		errors.Is(err, services.ErrJobNotSelected),
		errors.Is(err, services.ErrNoQuestions):
		return fiber.StatusBadRequest, err.Error()

	case errors.Is(err, services.ErrAlreadySubmitted):
		return fiber.StatusConflict, err.Error()

	case errors.As(err, &persistErr):
		return fiber.StatusInternalServerError, messages.ResultsNotSaved
	}

	return fiber.StatusInternalServerError, err.Error()
}
