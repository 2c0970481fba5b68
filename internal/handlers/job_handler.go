package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skill-profiler/internal/messages"
	"alfredoptarigan/skill-profiler/internal/models"
	"alfredoptarigan/skill-profiler/internal/services"
)

type JobHandler struct {
	jobService services.JobService
}

func NewJobHandler(jobService services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// HandleCreate handles POST /jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobPosting
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	job, err := h.jobService.Create(req)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": messages.JobSubmitted,
		"job":     job,
	})
}

// HandleList handles GET /jobs
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	jobs, err := h.jobService.List()
	if err != nil {
		return handleError(c, err)
	}

	response := fiber.Map{"jobs": jobs}
	if len(jobs) == 0 {
		response["message"] = messages.NoJobs
	}

	return c.JSON(response)
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	job, err := h.jobService.Get(c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"job":   job,
		"label": job.Label(),
	})
}

// HandleUpdate handles PATCH /jobs/:id
func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	var req models.JobUpdate
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	job, err := h.jobService.Update(c.Params("id"), req)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{"job": job})
}

// HandleDelete handles DELETE /jobs/:id
func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.jobService.Delete(c.Params("id")); err != nil {
		return handleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
