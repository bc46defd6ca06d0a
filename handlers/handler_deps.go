package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"speakcoach/evaluator/internal/jobs"
	"speakcoach/evaluator/internal/worker"
	"speakcoach/evaluator/models"
)

// JobSubmitter queues background work.
type JobSubmitter interface {
	SubmitJob(job worker.Job) error
}

// EvaluationReader reads stored evaluations.
type EvaluationReader interface {
	LatestBySession(ctx context.Context, sessionID string) (*models.EvaluationRecord, error)
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Jobs      JobSubmitter
	Pipeline  jobs.Runner
	Store     EvaluationReader
	Logger    *logrus.Logger
	validator *validator.Validate
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(submitter JobSubmitter, pipeline jobs.Runner, store EvaluationReader, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		Jobs:      submitter,
		Pipeline:  pipeline,
		Store:     store,
		Logger:    logger,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}
