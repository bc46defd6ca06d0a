// Package db holds the evaluation record stores: Supabase/PostgREST,
// direct Postgres and an embedded Badger store for local runs.
package db

import (
	"context"
	"errors"
	"time"

	"speakcoach/evaluator/models"
)

// DefaultTable is the table holding evaluation records.
const DefaultTable = "evaluations"

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("db: evaluation not found")

	// ErrNoRecordID is returned when an insert produced no usable id.
	ErrNoRecordID = errors.New("db: insert returned no record id")
)

// Store creates, updates and reads evaluation records.
type Store interface {
	Create(ctx context.Context, sessionID, userID string, audioURL *string) (string, error)
	UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) error
	LatestBySession(ctx context.Context, sessionID string) (*models.EvaluationRecord, error)
}

type newRecord struct {
	SessionID string                  `json:"session_id"`
	UserID    string                  `json:"user_id"`
	Status    models.EvaluationStatus `json:"status"`
	AudioURL  *string                 `json:"audio_url"`
}

func nowUTC() time.Time { return time.Now().UTC() }
