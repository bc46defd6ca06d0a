package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"speakcoach/evaluator/internal/db"
	"speakcoach/evaluator/internal/evaluation"
	"speakcoach/evaluator/internal/jobs"
	"speakcoach/evaluator/internal/worker"
	"speakcoach/evaluator/middleware"
	"speakcoach/evaluator/models"
	"speakcoach/evaluator/utils"
)

// CreateEvaluationRequest triggers a deep evaluation directly.
type CreateEvaluationRequest struct {
	SessionID  string            `json:"session_id" validate:"required"`
	UserID     string            `json:"user_id" validate:"required"`
	Transcript models.Transcript `json:"transcript" validate:"required,min=1,dive"`
	UserText   string            `json:"user_text,omitempty"`
	AudioURL   *string           `json:"audio_url,omitempty" validate:"omitempty,url"`
}

// StatusOKResponse is the plain acknowledgement body.
type StatusOKResponse struct {
	Status string `json:"status" example:"ok"`
}

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Status  string   `json:"status" example:"error"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// JobAccepted is returned when an evaluation has been queued.
type JobAccepted struct {
	JobID     string `json:"job_id"`
	SessionID string `json:"session_id"`
}

// EvaluationAcceptedResponse wraps JobAccepted.
type EvaluationAcceptedResponse struct {
	Status string      `json:"status" example:"success"`
	Data   JobAccepted `json:"data"`
}

// EvaluationSuccessResponse wraps a stored evaluation.
type EvaluationSuccessResponse struct {
	Status string                  `json:"status" example:"success"`
	Data   models.EvaluationRecord `json:"data"`
}

// CreateEvaluation godoc
// @Summary Queue a deep evaluation
// @Description Queues a deep evaluation for a finished session. user_text defaults to the user turns joined by spaces.
// @Tags evaluations
// @Accept  json
// @Produce  json
// @Param   evaluation body CreateEvaluationRequest true "Session to evaluate"
// @Success 202 {object} EvaluationAcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Job queue is full or shutting down"
// @Router /evaluations [post]
func (h *ApplicationHandler) CreateEvaluation(c *fiber.Ctx) error {
	var req CreateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Cannot parse JSON body")
	}
	req.SessionID = utils.SanitizeInput(req.SessionID)
	req.UserID = utils.SanitizeInput(req.UserID)
	if err := h.validator.Struct(req); err != nil {
		return utils.RespondWithValidationErrors(c, err)
	}
	if req.UserText == "" {
		req.UserText = req.Transcript.UserText()
	}

	job := jobs.NewDeepEvaluationJob(h.Pipeline, evaluation.RunRequest{
		SessionID:  req.SessionID,
		UserID:     req.UserID,
		Transcript: req.Transcript,
		UserText:   req.UserText,
		AudioURL:   req.AudioURL,
	})

	log := h.Logger.WithFields(map[string]interface{}{
		"request_id": middleware.RequestID(c),
		"session_id": req.SessionID,
		"job_id":     job.ID(),
	})
	if err := h.Jobs.SubmitJob(job); err != nil {
		log.WithError(err).Warn("Could not queue deep evaluation")
		if errors.Is(err, worker.ErrQueueFull) || errors.Is(err, worker.ErrStopped) {
			return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Evaluation queue is unavailable, try again later")
		}
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not queue evaluation")
	}
	log.Info("Deep evaluation queued")
	return utils.RespondWithJSON(c, fiber.StatusAccepted, JobAccepted{JobID: job.ID(), SessionID: req.SessionID})
}

// GetSessionEvaluation godoc
// @Summary Get a session's evaluation
// @Description Returns the newest evaluation record stored for the session.
// @Tags evaluations
// @Produce  json
// @Param   sessionId path string true "Session ID"
// @Success 200 {object} EvaluationSuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions/{sessionId}/evaluation [get]
func (h *ApplicationHandler) GetSessionEvaluation(c *fiber.Ctx) error {
	sessionID := utils.SanitizeInput(c.Params("sessionId"))
	if sessionID == "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Session ID is required")
	}

	rec, err := h.Store.LatestBySession(c.UserContext(), sessionID)
	if errors.Is(err, db.ErrNotFound) {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Evaluation not found")
	}
	if err != nil {
		h.Logger.WithError(err).WithField("session_id", sessionID).Error("Could not fetch evaluation")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not retrieve evaluation")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, rec)
}
