package evaluation

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"speakcoach/evaluator/internal/scoring"
	"speakcoach/evaluator/models"
)

var errScorerDown = errors.New("scorer down")

// fakeScorer answers by request kind, identified through the token budget
// each stage uses.
type fakeScorer struct {
	mu       sync.Mutex
	replies  map[int]string
	failures map[int]error
	calls    []scoring.Request
}

func newFakeScorer() *fakeScorer {
	return &fakeScorer{replies: map[int]string{}, failures: map[int]error{}}
}

func (f *fakeScorer) reply(req scoring.Request, text string) *fakeScorer {
	f.replies[req.MaxTokens] = text
	return f
}

func (f *fakeScorer) fail(req scoring.Request) *fakeScorer {
	f.failures[req.MaxTokens] = errScorerDown
	return f
}

func (f *fakeScorer) Score(_ context.Context, req scoring.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if err, ok := f.failures[req.MaxTokens]; ok {
		return "", err
	}
	if text, ok := f.replies[req.MaxTokens]; ok {
		return text, nil
	}
	return "", scoring.ErrEmptyResponse
}

func (f *fakeScorer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeScorer) callsFor(req scoring.Request) []scoring.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []scoring.Request
	for _, c := range f.calls {
		if c.MaxTokens == req.MaxTokens {
			out = append(out, c)
		}
	}
	return out
}

type storeWrite struct {
	id     string
	update models.StatusUpdate
}

type fakeStore struct {
	mu        sync.Mutex
	id        string
	createErr error
	updateErr map[models.EvaluationStatus]error
	created   int
	writes    []storeWrite
}

func (s *fakeStore) Create(_ context.Context, _, _ string, _ *string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created++
	if s.createErr != nil {
		return "", s.createErr
	}
	return s.id, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id string, update models.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, storeWrite{id: id, update: update})
	return s.updateErr[update.Status]
}

func (s *fakeStore) statuses() []models.EvaluationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EvaluationStatus, 0, len(s.writes))
	for _, w := range s.writes {
		out = append(out, w.update.Status)
	}
	return out
}

func (s *fakeStore) last() storeWrite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[len(s.writes)-1]
}

func quietLogger() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}

func turn(role models.Role, content string) models.Turn {
	return models.Turn{Role: role, Content: content}
}

const validVoiceReply = `{
  "grammar": {"score": 82, "positives": ["Clear tenses"], "to_improve": ["Watch plurals"]},
  "fluency": {"score": 74.6, "positives": ["Good pace"], "to_improve": ["Fewer restarts"]},
  "filler_words": {"score": 140, "positives": [], "to_improve": ["Drop 'like'"]},
  "clarity": {"score": -3, "positives": ["Strong close"], "to_improve": []}
}`
