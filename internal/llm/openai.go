package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/crisisalpha/crisisalpha/internal/audit"
	"github.com/crisisalpha/crisisalpha/internal/config"
)

// OpenAIClient implements Completer over the OpenAI chat completions API.
// Temperature is fixed low at construction time to favor reproducibility of a
// financial-facing output over creativity.
type OpenAIClient struct {
	client   *openai.Client
	cfg      config.OpenAIConfig
	recorder audit.Recorder
	logger   *slog.Logger
}

// NewOpenAIClient creates a completion backend from explicit configuration.
func NewOpenAIClient(cfg config.OpenAIConfig, recorder audit.Recorder, logger *slog.Logger) *OpenAIClient {
	return &OpenAIClient{
		client:   openai.NewClient(cfg.APIKey),
		cfg:      cfg,
		recorder: recorder,
		logger:   logger,
	}
}

// Complete sends one chat completion request under a bounded timeout. Errors
// are returned to the caller untouched apart from wrapping; this layer never
// retries, because the callers' contract is to surface upstream failures as
// typed results rather than mask them.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	apiCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	}
	if req.JSONMode {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(apiCtx, request)
	latency := time.Since(start)

	c.record(ctx, req.Operation, resp, latency, err)

	if err != nil {
		return "", fmt.Errorf("openai completion (%s): %w", req.Operation, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned from model %s", c.cfg.Model)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response from model %s (finish_reason: %s)",
			c.cfg.Model, resp.Choices[0].FinishReason)
	}

	c.logger.Debug("completion received",
		"operation", req.Operation,
		"model", c.cfg.Model,
		"latency_ms", latency.Milliseconds(),
		"content_length", len(content))

	return content, nil
}

func (c *OpenAIClient) record(ctx context.Context, operation string, resp openai.ChatCompletionResponse, latency time.Duration, err error) {
	entry := audit.Entry{
		Provider:  "openai",
		Model:     c.cfg.Model,
		Operation: operation,
		LatencyMs: latency.Milliseconds(),
		Status:    "success",
	}
	if err != nil {
		entry.Status = "error"
		entry.ErrorMessage = err.Error()
	} else {
		entry.PromptTokens = resp.Usage.PromptTokens
		entry.CompletionTokens = resp.Usage.CompletionTokens
		entry.TotalTokens = resp.Usage.TotalTokens
	}

	c.recorder.Record(ctx, entry)
}

var _ Completer = (*OpenAIClient)(nil)
