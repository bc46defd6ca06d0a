package scoring

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var _ Scorer = (*GeminiScorer)(nil)

// GeminiScorer implements Scorer with the Gemini API.
type GeminiScorer struct {
	client *genai.Client
	model  string
}

// NewGeminiScorer builds a Gemini-backed scorer.
func NewGeminiScorer(ctx context.Context, apiKey, model string) (*GeminiScorer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &GeminiScorer{client: client, model: model}, nil
}

// Model returns the configured model name.
func (s *GeminiScorer) Model() string { return s.model }

// Score asks for a JSON response and concatenates the parts of the first candidate.
func (s *GeminiScorer) Score(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}},
	}, cfg)
	if err != nil {
		return "", fmt.Errorf("genai generate: %w", err)
	}

	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
