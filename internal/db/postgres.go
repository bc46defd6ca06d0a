package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"speakcoach/evaluator/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
    id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    session_id    text NOT NULL,
    user_id       text NOT NULL,
    status        text NOT NULL,
    topics        jsonb,
    voice_metrics jsonb,
    audio_url     text,
    error_message text,
    created_at    timestamptz NOT NULL DEFAULT NOW(),
    updated_at    timestamptz NOT NULL DEFAULT NOW()
)`

var recordColumns = []string{
	"id", "session_id", "user_id", "status", "topics", "voice_metrics",
	"audio_url", "error_message", "created_at", "updated_at",
}

// PostgresStore keeps evaluation records in Postgres through database/sql.
type PostgresStore struct {
	db    *sql.DB
	table string
	now   func() time.Time
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres opens and pings a lib/pq connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return conn, nil
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresStore{db: db, table: table, now: nowUTC}
}

// Migrate creates the evaluations table when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(createTableSQL, s.table)); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, sessionID, userID string, audioURL *string) (string, error) {
	query, args, err := insertQuery(s.table, newRecord{
		SessionID: sessionID,
		UserID:    userID,
		Status:    models.StatusPending,
		AudioURL:  audioURL,
	}).ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert: %w", err)
	}

	var id string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("insert evaluation for session %s: %w", sessionID, err)
	}
	if id == "" {
		return "", ErrNoRecordID
	}
	return id, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) error {
	builder, err := updateQuery(s.table, id, update, s.now())
	if err != nil {
		return err
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update evaluation %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update evaluation %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update evaluation %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) LatestBySession(ctx context.Context, sessionID string) (*models.EvaluationRecord, error) {
	query, args, err := latestQuery(s.table, sessionID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var (
		rec                    models.EvaluationRecord
		topics, voice          []byte
		audioURL, errorMessage sql.NullString
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID, &rec.SessionID, &rec.UserID, &rec.Status, &topics, &voice,
		&audioURL, &errorMessage, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch evaluation for session %s: %w", sessionID, err)
	}

	if len(topics) > 0 {
		if err := json.Unmarshal(topics, &rec.Topics); err != nil {
			return nil, fmt.Errorf("decode topics of %s: %w", rec.ID, err)
		}
	}
	if len(voice) > 0 {
		rec.VoiceMetrics = &models.VoiceMetrics{}
		if err := json.Unmarshal(voice, rec.VoiceMetrics); err != nil {
			return nil, fmt.Errorf("decode voice metrics of %s: %w", rec.ID, err)
		}
	}
	if audioURL.Valid {
		rec.AudioURL = &audioURL.String
	}
	if errorMessage.Valid {
		rec.ErrorMessage = &errorMessage.String
	}
	return &rec, nil
}

func insertQuery(table string, row newRecord) sq.InsertBuilder {
	return psql.Insert(table).
		Columns("session_id", "user_id", "status", "audio_url").
		Values(row.SessionID, row.UserID, string(row.Status), row.AudioURL).
		Suffix("RETURNING id")
}

func updateQuery(table, id string, update models.StatusUpdate, now time.Time) (sq.UpdateBuilder, error) {
	b := psql.Update(table).
		Set("status", string(update.Status)).
		Set("updated_at", now).
		Where(sq.Eq{"id": id})

	if update.Topics != nil {
		raw, err := json.Marshal(update.Topics)
		if err != nil {
			return b, fmt.Errorf("encode topics: %w", err)
		}
		b = b.Set("topics", string(raw))
	}
	if update.VoiceMetrics != nil {
		raw, err := json.Marshal(update.VoiceMetrics)
		if err != nil {
			return b, fmt.Errorf("encode voice metrics: %w", err)
		}
		b = b.Set("voice_metrics", string(raw))
	}
	if update.ErrorMessage != nil {
		b = b.Set("error_message", *update.ErrorMessage)
	}
	return b, nil
}

func latestQuery(table, sessionID string) sq.SelectBuilder {
	return psql.Select(recordColumns...).
		From(table).
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("created_at DESC").
		Limit(1)
}
