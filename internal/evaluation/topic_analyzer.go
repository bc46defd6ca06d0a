package evaluation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"speakcoach/evaluator/internal/scoring"
	"speakcoach/evaluator/models"
)

// TopicDimensions are the score keys every analyzed topic is rated on.
var TopicDimensions = []string{
	"structure",
	"opening_impact",
	"key_message_clarity",
	"persuasiveness",
	"confidence",
	"audience_awareness",
}

const maxSegmentTextRunes = 1500

var topicAnalysisRequest = scoring.Request{Temperature: 0.6, MaxTokens: 2000}

// TopicAnalyzer runs one batched deep-analysis call over all topics.
type TopicAnalyzer struct {
	scorer scoring.Scorer
	log    *logrus.Entry
}

func NewTopicAnalyzer(scorer scoring.Scorer, log *logrus.Entry) *TopicAnalyzer {
	return &TopicAnalyzer{scorer: scorer, log: orDefaultLogger(log)}
}

type topicInput struct {
	Name       string `json:"name"`
	Transcript string `json:"transcript"`
}

type topicAnalysis struct {
	Name         string             `json:"name"`
	Scores       map[string]float64 `json:"scores"`
	WentWell     []string           `json:"went_well"`
	ToImprove    []string           `json:"to_improve"`
	MissedPoints []string           `json:"missed_points"`
	Rewrite      string             `json:"rewrite"`
}

// Analyze fills the analysis fields of topics. Results are merged by
// position in the response array; topics without a matching entry, or all
// topics when the call fails, get empty placeholders.
func (a *TopicAnalyzer) Analyze(ctx context.Context, topics []models.Topic) []models.Topic {
	if len(topics) == 0 {
		return []models.Topic{}
	}

	out := make([]models.Topic, len(topics))
	copy(out, topics)
	for i := range out {
		clearAnalysis(&out[i])
	}

	analyses, err := a.analyze(ctx, topics)
	if err != nil {
		a.log.WithError(err).WithField("topics", len(topics)).Warn("topic analysis failed, using placeholders")
		return out
	}
	if len(analyses) != len(topics) {
		a.log.WithFields(logrus.Fields{
			"topics":   len(topics),
			"analyses": len(analyses),
		}).Warn("analysis count does not match topic count, merging by position")
	}

	for i := range out {
		if i >= len(analyses) {
			break
		}
		applyAnalysis(&out[i], analyses[i])
	}
	return out
}

func (a *TopicAnalyzer) analyze(ctx context.Context, topics []models.Topic) ([]topicAnalysis, error) {
	inputs := make([]topicInput, 0, len(topics))
	for _, t := range topics {
		inputs = append(inputs, topicInput{
			Name:       t.Name,
			Transcript: truncate(formatTurns(t.Turns, "\n", 0), maxSegmentTextRunes),
		})
	}
	payload, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("marshal topics: %w", err)
	}

	req := topicAnalysisRequest
	req.Prompt = fmt.Sprintf(topicAnalysisPrompt, payload)
	raw, err := a.scorer.Score(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analyze topics: %w", err)
	}

	var analyses []topicAnalysis
	if err := scoring.Decode(raw, topicAnalysisSchema, &analyses); err != nil {
		return nil, err
	}
	return analyses, nil
}

func clearAnalysis(t *models.Topic) {
	t.Scores = map[string]int{}
	t.WentWell = []string{}
	t.ToImprove = []string{}
	t.MissedPoints = []string{}
	t.Rewrite = ""
}

func applyAnalysis(t *models.Topic, a topicAnalysis) {
	scores := make(map[string]int, len(TopicDimensions))
	for _, d := range TopicDimensions {
		if v, ok := a.Scores[d]; ok {
			scores[d] = clampScore(v)
		}
	}
	t.Scores = scores
	t.WentWell = orEmpty(a.WentWell)
	t.ToImprove = orEmpty(a.ToImprove)
	t.MissedPoints = orEmpty(a.MissedPoints)
	t.Rewrite = a.Rewrite
}
