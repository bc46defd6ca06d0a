package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"speakcoach/evaluator/internal/scoring"
	"speakcoach/evaluator/models"
)

const (
	generalPracticeLabel = "General practice"
	maxRawLabelRunes     = 100
	previewTurnCount     = 4
	previewContentRunes  = 80
)

// topicAskPatterns match assistant turns that invite the user to name
// (or retry) a practice topic. Matched against lower-cased content.
var topicAskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`what.*(?:topic|situation|scenario).*(?:practice|work on|try)`),
	regexp.MustCompile(`what do you want to practice`),
	regexp.MustCompile(`what.*want.*(?:practice|work on)`),
	regexp.MustCompile(`go ahead`),
	regexp.MustCompile(`give it.*(?:shot|try)`),
	regexp.MustCompile(`same topic`),
	regexp.MustCompile(`what.*next`),
	regexp.MustCompile(`try something new`),
}

var labelCleanupRequest = scoring.Request{Temperature: 0.3, MaxTokens: 300}

// Segmenter splits a transcript into practice topics.
type Segmenter struct {
	scorer scoring.Scorer
	log    *logrus.Entry
}

// NewSegmenter builds a Segmenter that cleans labels through scorer.
func NewSegmenter(scorer scoring.Scorer, log *logrus.Entry) *Segmenter {
	return &Segmenter{scorer: scorer, log: orDefaultLogger(log)}
}

// Segment detects topic boundaries and asks the classifier to clean labels.
// A classifier failure falls back to raw labels; it never fails the call.
func (s *Segmenter) Segment(ctx context.Context, transcript models.Transcript) []models.Topic {
	segments := DetectSegments(transcript)
	if len(segments) == 0 {
		return []models.Topic{}
	}

	verdicts, err := s.cleanLabels(ctx, transcript, segments)
	if err != nil {
		s.log.WithError(err).Warn("label cleanup failed, using raw labels")
		verdicts = nil
	}

	topics := make([]models.Topic, 0, len(segments))
	for i, seg := range segments {
		name := seg.RawLabel
		if i < len(verdicts) {
			if !verdicts[i].isValid() {
				s.log.WithField("raw_label", seg.RawLabel).Debug("segment marked invalid")
				continue
			}
			if n := strings.TrimSpace(verdicts[i].Name); n != "" {
				name = n
			}
		}
		topics = append(topics, models.Topic{
			Name:       name,
			Turns:      append([]models.Turn(nil), transcript[seg.StartIndex:seg.EndIndex+1]...),
			StartIndex: seg.StartIndex,
			EndIndex:   seg.EndIndex,
		})
	}
	return topics
}

// DetectSegments finds topic boundaries. A non-blank user turn that follows
// an ask pattern closes the open segment and opens a new one labeled with
// its content.
func DetectSegments(transcript models.Transcript) []models.Segment {
	if len(transcript) == 0 {
		return nil
	}

	var (
		segments []models.Segment
		open     *models.Segment
		asked    bool
	)
	for i, turn := range transcript {
		switch turn.Role {
		case models.RoleAssistant:
			if isTopicAsk(turn.Content) {
				asked = true
			}
		case models.RoleUser:
			if !asked || strings.TrimSpace(turn.Content) == "" {
				continue
			}
			if open != nil {
				open.EndIndex = i - 1
				segments = append(segments, *open)
			}
			open = &models.Segment{
				RawLabel:   truncate(strings.TrimSpace(turn.Content), maxRawLabelRunes),
				StartIndex: i,
			}
			asked = false
		}
	}

	last := len(transcript) - 1
	if open != nil {
		open.EndIndex = last
		segments = append(segments, *open)
	}

	if len(segments) == 0 && transcript.HasUserSpeech() {
		segments = []models.Segment{{RawLabel: generalPracticeLabel, StartIndex: 0, EndIndex: last}}
	}
	return segments
}

func isTopicAsk(content string) bool {
	lower := strings.ToLower(content)
	for _, p := range topicAskPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

type segmentPreview struct {
	RawName string `json:"raw_name"`
	Preview string `json:"preview"`
}

type labelVerdict struct {
	Name  string `json:"name"`
	Valid *bool  `json:"valid"`
}

func (v labelVerdict) isValid() bool { return v.Valid == nil || *v.Valid }

func (s *Segmenter) cleanLabels(ctx context.Context, transcript models.Transcript, segments []models.Segment) ([]labelVerdict, error) {
	previews := make([]segmentPreview, 0, len(segments))
	for _, seg := range segments {
		turns := transcript[seg.StartIndex : seg.EndIndex+1]
		if len(turns) > previewTurnCount {
			turns = turns[:previewTurnCount]
		}
		previews = append(previews, segmentPreview{
			RawName: seg.RawLabel,
			Preview: formatTurns(turns, " | ", previewContentRunes),
		})
	}

	payload, err := json.Marshal(previews)
	if err != nil {
		return nil, fmt.Errorf("marshal previews: %w", err)
	}

	req := labelCleanupRequest
	req.Prompt = fmt.Sprintf(labelCleanupPrompt, payload)
	raw, err := s.scorer.Score(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("classify segments: %w", err)
	}

	var verdicts []labelVerdict
	if err := scoring.Decode(raw, labelsSchema, &verdicts); err != nil {
		return nil, err
	}
	if len(verdicts) != len(segments) {
		s.log.WithFields(logrus.Fields{
			"segments": len(segments),
			"labels":   len(verdicts),
		}).Warn("classifier returned a different number of labels")
	}
	return verdicts, nil
}
