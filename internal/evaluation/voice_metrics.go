package evaluation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"speakcoach/evaluator/internal/scoring"
	"speakcoach/evaluator/models"
)

const (
	metricGrammar     = "grammar"
	metricFluency     = "fluency"
	metricFillerWords = "filler_words"
	metricClarity     = "clarity"

	maxUserTextRunes = 3000
)

var voiceMetricsRequest = scoring.Request{Temperature: 0.5, MaxTokens: 800}

// NoSpeechVoiceMetrics is returned for an empty transcript.
func NoSpeechVoiceMetrics() models.VoiceMetrics {
	return models.UniformVoiceMetrics(0, nil, []string{"No speech detected"})
}

// DegradedVoiceMetrics is returned when scoring fails.
func DegradedVoiceMetrics() models.VoiceMetrics {
	return models.UniformVoiceMetrics(50,
		[]string{"Could not fully analyze"},
		[]string{"Try again for detailed feedback"})
}

// VoiceMetricsEvaluator scores the session's user speech on the four fixed metrics.
type VoiceMetricsEvaluator struct {
	scorer scoring.Scorer
	log    *logrus.Entry
}

func NewVoiceMetricsEvaluator(scorer scoring.Scorer, log *logrus.Entry) *VoiceMetricsEvaluator {
	return &VoiceMetricsEvaluator{scorer: scorer, log: orDefaultLogger(log)}
}

// Evaluate scores userText. audioURL is carried for the record only; the
// text is the sole signal. Failures degrade to DegradedVoiceMetrics.
func (e *VoiceMetricsEvaluator) Evaluate(ctx context.Context, userText string, audioURL *string) models.VoiceMetrics {
	if strings.TrimSpace(userText) == "" {
		return NoSpeechVoiceMetrics()
	}

	metrics, err := e.score(ctx, truncate(userText, maxUserTextRunes))
	if err != nil {
		e.log.WithError(err).WithField("has_audio", audioURL != nil).Warn("voice metrics scoring failed, using defaults")
		return DegradedVoiceMetrics()
	}
	return metrics
}

type metricWire struct {
	Score     float64  `json:"score"`
	Positives []string `json:"positives"`
	ToImprove []string `json:"to_improve"`
}

func (m metricWire) feedback() models.MetricFeedback {
	return models.MetricFeedback{
		Score:     clampScore(m.Score),
		Positives: orEmpty(m.Positives),
		ToImprove: orEmpty(m.ToImprove),
	}
}

func (e *VoiceMetricsEvaluator) score(ctx context.Context, text string) (models.VoiceMetrics, error) {
	req := voiceMetricsRequest
	req.Prompt = fmt.Sprintf(voiceMetricsPrompt, text)
	raw, err := e.scorer.Score(ctx, req)
	if err != nil {
		return models.VoiceMetrics{}, fmt.Errorf("score voice metrics: %w", err)
	}

	var wire map[string]metricWire
	if err := scoring.Decode(raw, voiceMetricsSchema, &wire); err != nil {
		return models.VoiceMetrics{}, err
	}
	return models.VoiceMetrics{
		Grammar:     wire[metricGrammar].feedback(),
		Fluency:     wire[metricFluency].feedback(),
		FillerWords: wire[metricFillerWords].feedback(),
		Clarity:     wire[metricClarity].feedback(),
	}, nil
}
