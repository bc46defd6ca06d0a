package evaluation

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"speakcoach/evaluator/models"
)

func TestVoiceMetricsEmptyTextSkipsScorer(t *testing.T) {
	for _, text := range []string{"", "   \n\t"} {
		scorer := newFakeScorer()
		got := NewVoiceMetricsEvaluator(scorer, nil).Evaluate(context.Background(), text, nil)

		for name, m := range metricsByName(got) {
			if m.Score != 0 {
				t.Errorf("%s score = %d, want 0", name, m.Score)
			}
			if !reflect.DeepEqual(m.ToImprove, []string{"No speech detected"}) {
				t.Errorf("%s to_improve = %v", name, m.ToImprove)
			}
		}
		if scorer.callCount() != 0 {
			t.Fatalf("scorer called %d times for %q, want 0", scorer.callCount(), text)
		}
	}
}

func TestVoiceMetricsScoresAndClamps(t *testing.T) {
	scorer := newFakeScorer().reply(voiceMetricsRequest, validVoiceReply)
	got := NewVoiceMetricsEvaluator(scorer, nil).Evaluate(context.Background(), "I think we should ship it.", nil)

	want := map[string]int{"grammar": 82, "fluency": 75, "filler_words": 100, "clarity": 0}
	for name, m := range metricsByName(got) {
		if m.Score != want[name] {
			t.Errorf("%s score = %d, want %d", name, m.Score, want[name])
		}
		if m.Positives == nil || m.ToImprove == nil {
			t.Errorf("%s has nil lists: %+v", name, m)
		}
	}
	if got.Grammar.Positives[0] != "Clear tenses" {
		t.Errorf("grammar positives = %v", got.Grammar.Positives)
	}

	calls := scorer.callsFor(voiceMetricsRequest)
	if len(calls) != 1 || calls[0].Temperature != 0.5 {
		t.Fatalf("voice calls = %+v", calls)
	}
}

func TestVoiceMetricsTruncatesText(t *testing.T) {
	scorer := newFakeScorer().reply(voiceMetricsRequest, validVoiceReply)
	text := strings.Repeat("a", 3000) + strings.Repeat("b", 500)
	NewVoiceMetricsEvaluator(scorer, nil).Evaluate(context.Background(), text, nil)

	prompt := scorer.callsFor(voiceMetricsRequest)[0].Prompt
	if strings.Contains(prompt, strings.Repeat("a", 3000)+"b") {
		t.Fatal("prompt carries text past the cap")
	}
	if !strings.Contains(prompt, strings.Repeat("a", 3000)) {
		t.Fatal("prompt lost the capped text")
	}
}

func TestVoiceMetricsDegrades(t *testing.T) {
	tests := []struct {
		name   string
		scorer *fakeScorer
	}{
		{"call fails", newFakeScorer().fail(voiceMetricsRequest)},
		{"garbage", newFakeScorer().reply(voiceMetricsRequest, "no idea")},
		{"missing metric", newFakeScorer().reply(voiceMetricsRequest, `{"grammar": {"score": 90}}`)},
		{"score not a number", newFakeScorer().reply(voiceMetricsRequest,
			`{"grammar": {"score": "high"}, "fluency": {"score": 1}, "filler_words": {"score": 1}, "clarity": {"score": 1}}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := quietLogger()
			got := NewVoiceMetricsEvaluator(tt.scorer, log).Evaluate(context.Background(), "hello team", nil)
			if !reflect.DeepEqual(got, DegradedVoiceMetrics()) {
				t.Fatalf("Evaluate() = %+v, want degraded defaults", got)
			}
			if got.Clarity.Score != 50 || got.Clarity.Positives[0] != "Could not fully analyze" {
				t.Fatalf("unexpected degraded clarity: %+v", got.Clarity)
			}
		})
	}
}

func metricsByName(v models.VoiceMetrics) map[string]models.MetricFeedback {
	return map[string]models.MetricFeedback{
		"grammar":      v.Grammar,
		"fluency":      v.Fluency,
		"filler_words": v.FillerWords,
		"clarity":      v.Clarity,
	}
}
