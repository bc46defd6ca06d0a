package db

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"speakcoach/evaluator/models"
)

func TestInsertQuery(t *testing.T) {
	audio := "https://cdn.example.com/a.wav"
	query, args, err := insertQuery("evaluations", newRecord{
		SessionID: "s1",
		UserID:    "u1",
		Status:    models.StatusPending,
		AudioURL:  &audio,
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}

	want := "INSERT INTO evaluations (session_id,user_id,status,audio_url) VALUES ($1,$2,$3,$4) RETURNING id"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(args) != 4 || args[0] != "s1" || args[2] != "pending" {
		t.Errorf("args = %v", args)
	}
	if p, ok := args[3].(*string); !ok || *p != audio {
		t.Errorf("audio arg = %#v", args[3])
	}
}

func TestUpdateQuery(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := "boom"

	tests := []struct {
		name     string
		update   models.StatusUpdate
		wantSets []string
		wantArgs int
	}{
		{
			name:     "status only",
			update:   models.StatusUpdate{Status: models.StatusProcessing},
			wantSets: []string{"status = $1", "updated_at = $2"},
			wantArgs: 3,
		},
		{
			name: "completed",
			update: models.StatusUpdate{
				Status:       models.StatusCompleted,
				Topics:       []models.TopicSummary{},
				VoiceMetrics: &models.VoiceMetrics{},
			},
			wantSets: []string{"topics = $3", "voice_metrics = $4"},
			wantArgs: 5,
		},
		{
			name:     "failed",
			update:   models.StatusUpdate{Status: models.StatusFailed, ErrorMessage: &msg},
			wantSets: []string{"error_message = $3"},
			wantArgs: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := updateQuery("evaluations", "eval-1", tt.update, now)
			if err != nil {
				t.Fatalf("updateQuery() error = %v", err)
			}
			query, args, err := b.ToSql()
			if err != nil {
				t.Fatalf("ToSql() error = %v", err)
			}
			if !strings.HasPrefix(query, "UPDATE evaluations SET ") {
				t.Errorf("query = %q", query)
			}
			for _, set := range tt.wantSets {
				if !strings.Contains(query, set) {
					t.Errorf("query %q misses %q", query, set)
				}
			}
			if !strings.HasSuffix(query, "WHERE id = $"+string(rune('0'+tt.wantArgs))) {
				t.Errorf("query %q does not filter by id last", query)
			}
			if len(args) != tt.wantArgs || args[len(args)-1] != "eval-1" {
				t.Errorf("args = %v", args)
			}
		})
	}
}

func TestUpdateQueryEncodesJSON(t *testing.T) {
	b, err := updateQuery("evaluations", "eval-1", models.StatusUpdate{
		Status: models.StatusCompleted,
		Topics: []models.TopicSummary{{Name: "Pitch", Scores: map[string]int{"structure": 80}}},
	}, time.Now())
	if err != nil {
		t.Fatalf("updateQuery() error = %v", err)
	}
	_, args, err := b.ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}

	raw, ok := args[2].(string)
	if !ok {
		t.Fatalf("topics arg = %#v, want JSON text", args[2])
	}
	var topics []models.TopicSummary
	if err := json.Unmarshal([]byte(raw), &topics); err != nil || topics[0].Scores["structure"] != 80 {
		t.Fatalf("topics arg %q did not decode: %v", raw, err)
	}
}

func TestLatestQuery(t *testing.T) {
	query, args, err := latestQuery("evaluations", "s1").ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}
	for _, want := range []string{
		"SELECT id, session_id, user_id, status",
		"FROM evaluations WHERE session_id = $1",
		"ORDER BY created_at DESC",
		"LIMIT 1",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query %q misses %q", query, want)
		}
	}
	if len(args) != 1 || args[0] != "s1" {
		t.Errorf("args = %v", args)
	}
}
