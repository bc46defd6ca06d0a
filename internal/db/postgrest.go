package db

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	postgrest "github.com/supabase-community/postgrest-go"

	"speakcoach/evaluator/models"
)

// Querier is satisfied by both *supabase.Client and *postgrest.Client.
type Querier interface {
	From(table string) *postgrest.QueryBuilder
}

// PostgrestStore keeps evaluation records in a PostgREST-exposed table.
type PostgrestStore struct {
	client Querier
	table  string
	log    *logrus.Entry
	now    func() time.Time
}

var _ Store = (*PostgrestStore)(nil)

// NewPostgrestClient connects straight to a PostgREST endpoint, e.g. a
// Supabase project's /rest/v1 path.
func NewPostgrestClient(restURL, serviceKey string) (*postgrest.Client, error) {
	client := postgrest.NewClient(restURL, "", map[string]string{
		"apikey":        serviceKey,
		"Authorization": "Bearer " + serviceKey,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("init postgrest client: %w", client.ClientError)
	}
	return client, nil
}

func NewPostgrestStore(client Querier, table string, log *logrus.Entry) *PostgrestStore {
	if table == "" {
		table = DefaultTable
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PostgrestStore{client: client, table: table, log: log, now: nowUTC}
}

// Create inserts a pending record and returns its id.
func (s *PostgrestStore) Create(_ context.Context, sessionID, userID string, audioURL *string) (string, error) {
	row := newRecord{
		SessionID: sessionID,
		UserID:    userID,
		Status:    models.StatusPending,
		AudioURL:  audioURL,
	}

	var inserted []models.EvaluationRecord
	_, err := s.client.From(s.table).Insert(row, false, "", "representation", "").ExecuteTo(&inserted)
	if err != nil {
		return "", fmt.Errorf("insert evaluation for session %s: %w", sessionID, err)
	}
	if len(inserted) == 0 || inserted[0].ID == "" {
		return "", ErrNoRecordID
	}

	s.log.WithFields(logrus.Fields{
		"evaluation_id": inserted[0].ID,
		"session_id":    sessionID,
	}).Debug("evaluation record created")
	return inserted[0].ID, nil
}

// UpdateStatus writes the status and any non-nil fields of update.
func (s *PostgrestStore) UpdateStatus(_ context.Context, id string, update models.StatusUpdate) error {
	values := map[string]any{
		"status":     update.Status,
		"updated_at": s.now(),
	}
	if update.Topics != nil {
		values["topics"] = update.Topics
	}
	if update.VoiceMetrics != nil {
		values["voice_metrics"] = update.VoiceMetrics
	}
	if update.ErrorMessage != nil {
		values["error_message"] = *update.ErrorMessage
	}

	var updated []models.EvaluationRecord
	_, err := s.client.From(s.table).Update(values, "representation", "").Eq("id", id).ExecuteTo(&updated)
	if err != nil {
		return fmt.Errorf("update evaluation %s: %w", id, err)
	}
	if len(updated) == 0 {
		return fmt.Errorf("update evaluation %s: %w", id, ErrNotFound)
	}
	return nil
}

// LatestBySession returns the newest record for sessionID.
func (s *PostgrestStore) LatestBySession(_ context.Context, sessionID string) (*models.EvaluationRecord, error) {
	var records []models.EvaluationRecord
	_, err := s.client.From(s.table).
		Select("*", "", false).
		Eq("session_id", sessionID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		ExecuteTo(&records)
	if err != nil {
		return nil, fmt.Errorf("fetch evaluation for session %s: %w", sessionID, err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}
