// Package llm talks to OpenAI-compatible chat completion APIs (OpenAI,
// OpenRouter, local gateways).
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"onchainiq/internal/domain/models"
	"onchainiq/internal/domain/service"
	"onchainiq/pkg/logger"
)

// ErrEmptyCompletion is returned when the API answers without any choice.
var ErrEmptyCompletion = errors.New("completion has no choices")

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	// StrictSchema asks the API to enforce the JSON Schema. Only some models
	// support it; the schema is validated locally either way.
	StrictSchema bool
}

// Client implements service.ModelProvider.
type Client struct {
	api    *openai.Client
	cfg    Config
	logger *logger.Logger
}

var _ service.ModelProvider = (*Client)(nil)

func New(cfg Config, log *logger.Logger) (*Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &Client{api: openai.NewClientWithConfig(oc), cfg: cfg, logger: log}, nil
}

func (c *Client) GenerateStructured(ctx context.Context, req service.StructuredRequest) ([]byte, error) {
	start := time.Now()

	request := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxOutputTokens,
		Temperature: c.cfg.Temperature,
	}
	if req.Schema != nil {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
				Strict: c.cfg.StrictSchema,
			},
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", describe(err))
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	choice := resp.Choices[0]
	c.logger.Debug("structured completion finished",
		logger.String("model", resp.Model),
		logger.String("schema", req.SchemaName),
		logger.String("finish_reason", string(choice.FinishReason)),
		logger.Int("completion_tokens", resp.Usage.CompletionTokens),
		logger.Duration("duration_ms", time.Since(start)),
	)

	return []byte(StripCodeFence(choice.Message.Content)), nil
}

func (c *Client) StreamText(ctx context.Context, req service.ChatRequest) (service.TextStream, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == models.ChatRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   req.MaxOutputTokens,
		Temperature: c.cfg.Temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("open chat stream: %w", describe(err))
	}
	return &textStream{stream: stream}, nil
}

// describe adds the API status to errors that carry one.
func describe(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("api status %d: %w", apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("http status %d: %w", reqErr.HTTPStatusCode, err)
	}
	return err
}

// StripCodeFence removes a surrounding markdown code fence, which some
// models emit around JSON even in JSON mode.
func StripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = strings.TrimPrefix(t, "json")
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
