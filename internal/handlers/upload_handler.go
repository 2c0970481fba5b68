package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skill-profiler/internal/models"
	"alfredoptarigan/skill-profiler/internal/services"
)

type UploadHandler struct {
	workflow      services.WorkflowService
	uploadService services.UploadService
	maxFileSize   int64
}

func NewUploadHandler(
	workflow services.WorkflowService,
	uploadService services.UploadService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		workflow:      workflow,
		uploadService: uploadService,
		maxFileSize:   maxFileSize,
	}
}

// HandleUpload handles POST /sessions/:id/resume
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "No résumé uploaded. Please upload 'resume' as a PDF file.")
	}

	if file.Size > h.maxFileSize {
		return errorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("Résumé file too large. Max size: %d bytes", h.maxFileSize))
	}

	data, err := h.uploadService.ReadUpload(file)
	if err != nil {
		return handleError(c, err)
	}

	session, err := h.workflow.UploadResume(c.UserContext(), c.Params("id"), data)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		OriginalName: file.Filename,
		Characters:   len(session.ResumeText),
	})
}
