// Package scoring is the text-scoring capability consumed by the evaluation
// stages: a prompt goes in, model text comes out.
//
// Responses are untrusted. Callers decode them with [Decode], which strips a
// markdown fence, repairs broken JSON once and validates the result against a
// JSON schema before it reaches typed structs.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyResponse is returned when the provider answered without text.
	ErrEmptyResponse = errors.New("scoring: empty response")

	// ErrMalformedResponse is returned when a response does not match the expected shape.
	ErrMalformedResponse = errors.New("scoring: malformed response")
)

// Request is one scoring call.
type Request struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Scorer sends a prompt to a text-generation backend and returns its raw text.
type Scorer interface {
	Score(ctx context.Context, req Request) (string, error)
}

// ScorerFunc adapts a function to [Scorer].
type ScorerFunc func(ctx context.Context, req Request) (string, error)

func (f ScorerFunc) Score(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

type timeoutScorer struct {
	next    Scorer
	timeout time.Duration
}

// WithTimeout bounds every call made through s by d.
// A non-positive d returns s unchanged.
func WithTimeout(s Scorer, d time.Duration) Scorer {
	if d <= 0 {
		return s
	}
	return &timeoutScorer{next: s, timeout: d}
}

func (t *timeoutScorer) Score(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.next.Score(ctx, req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("scoring: call exceeded %s: %w", t.timeout, ctx.Err())
		}
		return "", err
	}
	return out, nil
}
