package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skill-profiler/internal/messages"
	"alfredoptarigan/skill-profiler/internal/models"
	"alfredoptarigan/skill-profiler/internal/services"
)

type SessionHandler struct {
	workflow services.WorkflowService
}

func NewSessionHandler(workflow services.WorkflowService) *SessionHandler {
	return &SessionHandler{workflow: workflow}
}

func (h *SessionHandler) respond(c *fiber.Ctx, status int, session *models.Session) error {
	held, err := h.workflow.CredentialStatus(c.UserContext(), session.ID)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(status).JSON(models.SessionResponse{
		ID:            session.ID,
		JobID:         session.JobID,
		HasResume:     session.ResumeText != "",
		Skills:        session.Skills,
		Questions:     session.Questions,
		Answers:       session.Answers,
		CredentialSet: held,
		ApplicationID: session.ApplicationID,
	})
}

// HandleStart handles POST /sessions
func (h *SessionHandler) HandleStart(c *fiber.Ctx) error {
	session, err := h.workflow.StartSession(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return h.respond(c, fiber.StatusCreated, session)
}

// HandleGet handles GET /sessions/:id
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	session, err := h.workflow.Session(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return h.respond(c, fiber.StatusOK, session)
}

// HandleEnd handles DELETE /sessions/:id
func (h *SessionHandler) HandleEnd(c *fiber.Ctx) error {
	if err := h.workflow.EndSession(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetCredential handles PUT /sessions/:id/credential
func (h *SessionHandler) HandleSetCredential(c *fiber.Ctx) error {
	var req models.CredentialRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if err := h.workflow.SetCredential(c.UserContext(), c.Params("id"), req.APIKey); err != nil {
		return handleError(c, err)
	}

	return c.JSON(models.CredentialResponse{Held: true, Message: messages.CredentialSaved})
}

// HandleCredentialStatus handles GET /sessions/:id/credential
func (h *SessionHandler) HandleCredentialStatus(c *fiber.Ctx) error {
	held, err := h.workflow.CredentialStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	message := messages.CredentialMissing
	if held {
		message = messages.CredentialHeld
	}

	return c.JSON(models.CredentialResponse{Held: held, Message: message})
}

// HandleSelectJob handles PUT /sessions/:id/job
func (h *SessionHandler) HandleSelectJob(c *fiber.Ctx) error {
	var req models.SelectJobRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if req.JobID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "job_id is required")
	}

	session, err := h.workflow.SelectJob(c.UserContext(), c.Params("id"), req.JobID)
	if err != nil {
		return handleError(c, err)
	}
	return h.respond(c, fiber.StatusOK, session)
}

// HandleExtractSkills handles POST /sessions/:id/skills
func (h *SessionHandler) HandleExtractSkills(c *fiber.Ctx) error {
	session, err := h.workflow.ExtractSkills(c.UserContext(), c.Params("id"))
	if err != nil {
		if session == nil {
			return handleError(c, err)
		}

		display := messages.SkillExtractionError
		if errors.Is(err, services.ErrQuotaExceeded) {
			display = messages.QuotaExceededShort
		}
		return handleError(c, err, fiber.Map{"skills": display})
	}

	return c.JSON(models.SkillsResponse{Skills: session.Skills})
}

// HandleGenerateQuestions handles POST /sessions/:id/questions
func (h *SessionHandler) HandleGenerateQuestions(c *fiber.Ctx) error {
	session, err := h.workflow.GenerateQuestions(c.UserContext(), c.Params("id"))
	if err != nil {
		if session == nil {
			return handleError(c, err)
		}
		return handleError(c, err, fiber.Map{"questions": session.Questions, "answers": session.Answers})
	}

	return c.JSON(models.QuestionsResponse{Questions: session.Questions, Answers: session.Answers})
}

// HandleSetAnswers handles PUT /sessions/:id/answers
func (h *SessionHandler) HandleSetAnswers(c *fiber.Ctx) error {
	var req models.AnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	session, err := h.workflow.SetAnswers(c.UserContext(), c.Params("id"), req.Answers)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(models.QuestionsResponse{Questions: session.Questions, Answers: session.Answers})
}

// HandleSetAnswer handles PUT /sessions/:id/answers/:index
func (h *SessionHandler) HandleSetAnswer(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid answer index")
	}

	var req models.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	session, err := h.workflow.SetAnswer(c.UserContext(), c.Params("id"), index, req.Answer)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(models.QuestionsResponse{Questions: session.Questions, Answers: session.Answers})
}
