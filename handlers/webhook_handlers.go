package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"speakcoach/evaluator/internal/evaluation"
	"speakcoach/evaluator/internal/jobs"
	"speakcoach/evaluator/middleware"
)

// HandleCallEvent godoc
// @Summary Receive voice-call provider events
// @Description Accepts call events from the voice provider. An end-of-call report with session metadata and a transcript queues a deep evaluation. Always answers ok so the provider does not retry.
// @Tags webhooks
// @Accept  json
// @Produce  json
// @Success 200 {object} StatusOKResponse
// @Router /webhooks/call-events [post]
func (h *ApplicationHandler) HandleCallEvent(c *fiber.Ctx) error {
	log := h.Logger.WithField("request_id", middleware.RequestID(c))

	report, isReport, err := parseCallEvent(c.Body())
	if err != nil {
		log.WithError(err).Warn("Could not decode call event")
		return ackCallEvent(c)
	}
	if !isReport {
		return ackCallEvent(c)
	}

	log = log.WithFields(logrus.Fields{
		"session_id": report.SessionID,
		"user_id":    report.UserID,
		"turns":      len(report.Transcript),
		"has_audio":  report.AudioURL != nil,
	})
	if report.UserID == "" || report.SessionID == "" {
		log.Warn("End-of-call report without session metadata, skipping evaluation")
		return ackCallEvent(c)
	}
	if len(report.Transcript) == 0 {
		log.Info("End-of-call report without transcript, skipping evaluation")
		return ackCallEvent(c)
	}

	job := jobs.NewDeepEvaluationJob(h.Pipeline, evaluation.RunRequest{
		SessionID:  report.SessionID,
		UserID:     report.UserID,
		Transcript: report.Transcript,
		UserText:   report.UserText,
		AudioURL:   report.AudioURL,
	})
	if err := h.Jobs.SubmitJob(job); err != nil {
		log.WithError(err).Error("Could not queue deep evaluation")
		return ackCallEvent(c)
	}
	log.WithField("job_id", job.ID()).Info("Deep evaluation queued")
	return ackCallEvent(c)
}

func ackCallEvent(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(StatusOKResponse{Status: "ok"})
}
