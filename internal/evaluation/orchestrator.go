package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"speakcoach/evaluator/models"
)

const maxErrorMessageRunes = 500

// ErrNoRecordID is returned by Run when the store created no record to track.
var ErrNoRecordID = errors.New("evaluation: record creation returned no id")

// ResultStore persists evaluation records.
type ResultStore interface {
	Create(ctx context.Context, sessionID, userID string, audioURL *string) (string, error)
	UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) error
}

type SegmentStage interface {
	Segment(ctx context.Context, transcript models.Transcript) []models.Topic
}

type VoiceStage interface {
	Evaluate(ctx context.Context, userText string, audioURL *string) models.VoiceMetrics
}

type TopicStage interface {
	Analyze(ctx context.Context, topics []models.Topic) []models.Topic
}

// OrchestratorDeps wires the pipeline stages and the store.
type OrchestratorDeps struct {
	Store     ResultStore
	Segmenter SegmentStage
	Voice     VoiceStage
	Topics    TopicStage
	Logger    *logrus.Entry
}

// Orchestrator drives one evaluation record from pending to a terminal state.
type Orchestrator struct {
	store     ResultStore
	segmenter SegmentStage
	voice     VoiceStage
	topics    TopicStage
	log       *logrus.Entry
}

func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		store:     deps.Store,
		segmenter: deps.Segmenter,
		voice:     deps.Voice,
		topics:    deps.Topics,
		log:       orDefaultLogger(deps.Logger),
	}
}

// RunRequest is the input of one pipeline run.
type RunRequest struct {
	SessionID  string            `json:"session_id"`
	UserID     string            `json:"user_id"`
	Transcript models.Transcript `json:"transcript"`
	UserText   string            `json:"user_text"`
	AudioURL   *string           `json:"audio_url,omitempty"`
}

// Run evaluates one session. It returns the record id once the record
// reached a terminal state, or the error that aborted the run. Cancellation
// of ctx does not interrupt a started run.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) (string, error) {
	ctx = context.WithoutCancel(ctx)
	log := o.log.WithFields(logrus.Fields{
		"session_id": req.SessionID,
		"user_id":    req.UserID,
	})

	var id string
	err := guard(func() error {
		var err error
		id, err = o.store.Create(ctx, req.SessionID, req.UserID, req.AudioURL)
		return err
	})
	if err == nil && id == "" {
		err = ErrNoRecordID
	}
	if err != nil {
		log.WithError(err).Error("could not create evaluation record, aborting")
		return "", fmt.Errorf("create evaluation record: %w", err)
	}
	log = log.WithField("evaluation_id", id)

	if err := o.process(ctx, id, req, log); err != nil {
		log.WithError(err).Error("evaluation failed")
		o.markFailed(ctx, id, err, log)
		return id, err
	}
	log.Info("evaluation completed")
	return id, nil
}

func (o *Orchestrator) process(ctx context.Context, id string, req RunRequest, log *logrus.Entry) error {
	if err := guard(func() error {
		return o.store.UpdateStatus(ctx, id, models.StatusUpdate{Status: models.StatusProcessing})
	}); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	var topics []models.Topic
	if err := guard(func() error {
		topics = o.segmenter.Segment(ctx, req.Transcript)
		return nil
	}); err != nil {
		return fmt.Errorf("segment transcript: %w", err)
	}
	log.WithField("topics", len(topics)).Debug("transcript segmented")

	var (
		wg                  sync.WaitGroup
		voice               models.VoiceMetrics
		analyzed            []models.Topic
		voiceErr, topicsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		voiceErr = guard(func() error {
			voice = o.voice.Evaluate(ctx, req.UserText, req.AudioURL)
			return nil
		})
	}()
	go func() {
		defer wg.Done()
		topicsErr = guard(func() error {
			analyzed = o.topics.Analyze(ctx, topics)
			return nil
		})
	}()
	wg.Wait()
	if err := errors.Join(voiceErr, topicsErr); err != nil {
		return fmt.Errorf("analyze session: %w", err)
	}

	summaries := make([]models.TopicSummary, 0, len(analyzed))
	for _, t := range analyzed {
		summaries = append(summaries, t.Summary())
	}

	if err := guard(func() error {
		return o.store.UpdateStatus(ctx, id, models.StatusUpdate{
			Status:       models.StatusCompleted,
			Topics:       summaries,
			VoiceMetrics: &voice,
		})
	}); err != nil {
		return fmt.Errorf("persist results: %w", err)
	}
	return nil
}

func (o *Orchestrator) markFailed(ctx context.Context, id string, cause error, log *logrus.Entry) {
	msg := truncate(cause.Error(), maxErrorMessageRunes)
	err := guard(func() error {
		return o.store.UpdateStatus(ctx, id, models.StatusUpdate{
			Status:       models.StatusFailed,
			ErrorMessage: &msg,
		})
	})
	if err != nil {
		log.WithError(err).Error("could not mark evaluation failed")
	}
}

// guard runs fn and turns a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
