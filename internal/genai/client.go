// Package genai wraps the chat-completion gateway used for document
// enrichment. Callers decide what a failed completion means; this
// package never turns one into an error.
package genai

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Options tune a single completion call.
type Options struct {
	MaxTokens   int64
	Temperature float64
}

// Result is the outcome of one completion. OK is false when the call
// failed or returned an empty message; Reason says why.
type Result struct {
	OK     bool
	Text   string
	Reason string
}

// Completer is the one-method gateway interface the refinement and
// enrichment engines depend on.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts Options) Result
}

// Client calls an OpenAI-compatible chat-completion endpoint.
type Client struct {
	api     openai.Client
	model   string
	timeout time.Duration
	logger  *log.Logger
}

// Config holds gateway settings. BaseURL points at any
// OpenAI-compatible endpoint; Model names the served model.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewClient(cfg Config, logger *log.Logger) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		api:     openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: timeout,
		logger:  logger,
	}
}

// Complete runs one chat completion. No retries: callers treat a failed
// completion as a skipped enrichment, not a fatal condition.
func (c *Client) Complete(ctx context.Context, prompt string, opts Options) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("genai: completion failed: %v", err)
		}
		return Result{Reason: err.Error()}
	}
	if len(completion.Choices) == 0 {
		return Result{Reason: "no choices returned"}
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return Result{Reason: "empty completion"}
	}
	return Result{OK: true, Text: text}
}
