// Package oracle calls an OpenAI-compatible chat completion endpoint with
// structured JSON-schema outputs to score discovered sources and to align
// feature text with an obligation catalog.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configures the OpenAI-compatible client. The client is disabled
// when Disabled is set or APIKey is empty.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Disabled    bool
}

// Client issues single blocking completion calls. It never retries.
type Client struct {
	openai  openai.Client
	opts    Options
	enabled bool
	logger  *slog.Logger
}

type completion struct {
	system      string
	user        string
	schemaName  string
	schema      any
	temperature float64
}

// New creates a Client.
func New(opts Options, logger *slog.Logger) *Client {
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2048
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	return &Client{
		openai:  openai.NewClient(reqOpts...),
		opts:    opts,
		enabled: !opts.Disabled && opts.APIKey != "",
		logger:  logger.With("system", "oracle"),
	}
}

// Enabled reports whether the client will attempt calls.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.opts.Model
}

func (c *Client) complete(ctx context.Context, req completion) (string, error) {
	if !c.enabled {
		return "", ErrDisabled
	}

	params := openai.ChatCompletionNewParams{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.system),
			openai.UserMessage(req.user),
		},
		MaxTokens:   openai.Int(int64(c.opts.MaxTokens)),
		Temperature: openai.Float(req.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        req.schemaName,
					Description: openai.String("Structured response schema"),
					Schema:      req.schema,
					Strict:      openai.Bool(true),
				},
			},
		},
	}

	start := time.Now()
	resp, err := c.openai.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: status %d: %w", ErrRequest, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%w: %w", ErrRequest, err)
	}

	c.logger.DebugContext(
		ctx, "oracle completion",
		"schema", req.schemaName,
		"model", c.opts.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformed)
	}
	return resp.Choices[0].Message.Content, nil
}

func schemaFor[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
