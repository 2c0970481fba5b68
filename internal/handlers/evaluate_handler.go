package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skill-profiler/internal/messages"
	"alfredoptarigan/skill-profiler/internal/models"
	"alfredoptarigan/skill-profiler/internal/services"
)

type EvaluationHandler struct {
	workflow services.WorkflowService
}

func NewEvaluationHandler(workflow services.WorkflowService) *EvaluationHandler {
	return &EvaluationHandler{workflow: workflow}
}

// HandleSubmit handles POST /sessions/:id/submit
func (h *EvaluationHandler) HandleSubmit(c *fiber.Ctx) error {
	record, err := h.workflow.Submit(c.UserContext(), c.Params("id"))

	warning := ""
	if err != nil {
		// A quota stop still yields a persisted partial record.
		if record == nil || !errors.Is(err, services.ErrQuotaExceeded) {
			return handleError(c, err)
		}
		warning = messages.QuotaExceeded
	}

	return c.Status(fiber.StatusCreated).JSON(models.NewSubmitResponse(record, record.Summary(), warning))
}
