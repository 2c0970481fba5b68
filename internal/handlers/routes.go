package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skill-profiler/internal/services"
)

type Dependencies struct {
	Jobs        services.JobService
	Workflow    services.WorkflowService
	Uploads     services.UploadService
	MaxFileSize int64
}

// Register mounts every API endpoint on router.
func Register(router fiber.Router, deps Dependencies) {
	jobHandler := NewJobHandler(deps.Jobs)
	sessionHandler := NewSessionHandler(deps.Workflow)
	uploadHandler := NewUploadHandler(deps.Workflow, deps.Uploads, deps.MaxFileSize)
	evaluationHandler := NewEvaluationHandler(deps.Workflow)
	resultHandler := NewResultHandler(deps.Workflow)

	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	jobs := router.Group("/jobs")
	jobs.Post("/", jobHandler.HandleCreate)
	jobs.Get("/", jobHandler.HandleList)
	jobs.Get("/:id", jobHandler.HandleGet)
	jobs.Patch("/:id", jobHandler.HandleUpdate)
	jobs.Delete("/:id", jobHandler.HandleDelete)

	sessions := router.Group("/sessions")
	sessions.Post("/", sessionHandler.HandleStart)
	sessions.Get("/:id", sessionHandler.HandleGet)
	sessions.Delete("/:id", sessionHandler.HandleEnd)
	sessions.Put("/:id/credential", sessionHandler.HandleSetCredential)
	sessions.Get("/:id/credential", sessionHandler.HandleCredentialStatus)
	sessions.Put("/:id/job", sessionHandler.HandleSelectJob)
	sessions.Post("/:id/resume", uploadHandler.HandleUpload)
	sessions.Post("/:id/skills", sessionHandler.HandleExtractSkills)
	sessions.Post("/:id/questions", sessionHandler.HandleGenerateQuestions)
	sessions.Put("/:id/answers", sessionHandler.HandleSetAnswers)
	sessions.Put("/:id/answers/:index", sessionHandler.HandleSetAnswer)
	sessions.Post("/:id/submit", evaluationHandler.HandleSubmit)

	router.Get("/applications/:id", resultHandler.HandleGetResult)
}
