package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var _ Scorer = (*OpenAIScorer)(nil)

// OpenAIScorer implements Scorer with the OpenAI chat completions API.
type OpenAIScorer struct {
	client *openai.Client
	model  string
}

// NewOpenAIScorer builds a scorer for model. baseURL is optional and points
// the client at an OpenAI-compatible endpoint.
func NewOpenAIScorer(apiKey, baseURL, model string) *OpenAIScorer {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIScorer{client: &client, model: model}
}

// Model returns the configured model name.
func (s *OpenAIScorer) Model() string { return s.model }

// Score sends req.Prompt as a single user message.
func (s *OpenAIScorer) Score(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(req.Prompt)},
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("openai refused: %s", choice.Message.Refusal)
	}
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
