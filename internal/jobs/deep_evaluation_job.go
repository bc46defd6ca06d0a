package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"speakcoach/evaluator/internal/evaluation"
)

// Runner executes one evaluation pipeline run.
type Runner interface {
	Run(ctx context.Context, req evaluation.RunRequest) (string, error)
}

// DeepEvaluationJob evaluates one finished practice session.
type DeepEvaluationJob struct {
	JobID   string
	Request evaluation.RunRequest
	runner  Runner
}

// NewDeepEvaluationJob creates a job with a fresh id.
func NewDeepEvaluationJob(runner Runner, req evaluation.RunRequest) *DeepEvaluationJob {
	return &DeepEvaluationJob{
		JobID:   uuid.NewString(),
		Request: req,
		runner:  runner,
	}
}

// ID returns the unique identifier of the job.
func (j *DeepEvaluationJob) ID() string {
	return j.JobID
}

// Type returns the type of the job.
func (j *DeepEvaluationJob) Type() string {
	return "DEEP_EVALUATION"
}

// Execute runs the pipeline to a terminal state.
func (j *DeepEvaluationJob) Execute(ctx context.Context) error {
	if _, err := j.runner.Run(ctx, j.Request); err != nil {
		return fmt.Errorf("deep evaluation of session %s: %w", j.Request.SessionID, err)
	}
	return nil
}
