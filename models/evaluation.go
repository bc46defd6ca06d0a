package models

import "time"

// EvaluationStatus is the lifecycle state of an evaluation record.
type EvaluationStatus string

const (
	StatusPending    EvaluationStatus = "pending"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s EvaluationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Segment is a contiguous, inclusive range of transcript turn indices
// detected as one practice attempt.
type Segment struct {
	RawLabel   string `json:"raw_name"`
	StartIndex int    `json:"start_idx"`
	EndIndex   int    `json:"end_idx"`
}

// Topic is a segment enriched with a cleaned name and, once analyzed,
// its deep-analysis fields.
type Topic struct {
	Name         string         `json:"name"`
	Turns        []Turn         `json:"segment,omitempty"` // dropped before persistence
	StartIndex   int            `json:"start_idx"`
	EndIndex     int            `json:"end_idx"`
	Scores       map[string]int `json:"scores"`
	WentWell     []string       `json:"went_well"`
	ToImprove    []string       `json:"to_improve"`
	MissedPoints []string       `json:"missed_points"`
	Rewrite      string         `json:"rewrite"`
}

// Summary strips the bulk turn data, keeping what is stored long-term.
func (t Topic) Summary() TopicSummary {
	return TopicSummary{
		Name:         t.Name,
		StartIndex:   t.StartIndex,
		EndIndex:     t.EndIndex,
		Scores:       nonNilScores(t.Scores),
		WentWell:     nonNil(t.WentWell),
		ToImprove:    nonNil(t.ToImprove),
		MissedPoints: nonNil(t.MissedPoints),
		Rewrite:      t.Rewrite,
	}
}

// TopicSummary is the persisted form of a Topic.
type TopicSummary struct {
	Name         string         `json:"name"`
	StartIndex   int            `json:"start_idx"`
	EndIndex     int            `json:"end_idx"`
	Scores       map[string]int `json:"scores"`
	WentWell     []string       `json:"went_well"`
	ToImprove    []string       `json:"to_improve"`
	MissedPoints []string       `json:"missed_points"`
	Rewrite      string         `json:"rewrite"`
}

// MetricFeedback is the score and notes for one voice metric.
type MetricFeedback struct {
	Score     int      `json:"score"`
	Positives []string `json:"positives"`
	ToImprove []string `json:"to_improve"`
}

// VoiceMetrics holds the four fixed session-level communication metrics.
type VoiceMetrics struct {
	Grammar     MetricFeedback `json:"grammar"`
	Fluency     MetricFeedback `json:"fluency"`
	FillerWords MetricFeedback `json:"filler_words"`
	Clarity     MetricFeedback `json:"clarity"`
}

// UniformVoiceMetrics returns metrics where every dimension carries the same feedback.
func UniformVoiceMetrics(score int, positives, toImprove []string) VoiceMetrics {
	mk := func() MetricFeedback {
		return MetricFeedback{
			Score:     score,
			Positives: append([]string{}, positives...),
			ToImprove: append([]string{}, toImprove...),
		}
	}
	return VoiceMetrics{Grammar: mk(), Fluency: mk(), FillerWords: mk(), Clarity: mk()}
}

// EvaluationRecord maps to the evaluations table.
// Pointer fields are nullable columns.
type EvaluationRecord struct {
	ID           string           `json:"id,omitempty"`
	SessionID    string           `json:"session_id"`
	UserID       string           `json:"user_id"`
	Status       EvaluationStatus `json:"status"`
	Topics       []TopicSummary   `json:"topics,omitempty"`
	VoiceMetrics *VoiceMetrics    `json:"voice_metrics,omitempty"`
	AudioURL     *string          `json:"audio_url,omitempty"`
	ErrorMessage *string          `json:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at,omitempty"`
}

// StatusUpdate is a single write against an evaluation record.
// Nil fields are left untouched.
type StatusUpdate struct {
	Status       EvaluationStatus
	Topics       []TopicSummary
	VoiceMetrics *VoiceMetrics
	ErrorMessage *string
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilScores(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
