package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	log "github.com/sirupsen/logrus"
)

// openaiClient implements Client using the OpenAI chat completions API.
// It also serves any OpenAI-compatible endpoint via Config.BaseURL.
type openaiClient struct {
	client    openai.Client
	model     string
	maxTokens int64
}

func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}

	return &openaiClient{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: int64(cfg.MaxTokens),
	}, nil
}

func (c *openaiClient) Model() string {
	return c.model
}

func (c *openaiClient) Complete(ctx context.Context, system, user string) (string, error) {
	chat, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxCompletionTokens: openai.Int(c.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai API call: %w", err)
	}

	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("no choices in API response")
	}
	text := chat.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("no text content in API response")
	}

	log.Debugf("openai completion: model=%s len=%d", c.model, len(text))
	return text, nil
}
