package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/skill-profiler/internal/models"
	"alfredoptarigan/skill-profiler/internal/services"
)

type ResultHandler struct {
	workflow services.WorkflowService
}

func NewResultHandler(workflow services.WorkflowService) *ResultHandler {
	return &ResultHandler{workflow: workflow}
}

// HandleGetResult handles GET /applications/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid application ID format")
	}

	record, err := h.workflow.Application(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(models.NewSubmitResponse(record, record.Summary(), ""))
}
