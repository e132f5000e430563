// Package llm wraps an OpenAI-compatible chat API behind the Extractor
// interface. A local Ollama endpoint works through the same client by
// pointing base_url at its /v1 surface.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pagegraph/smart-scraper/internal/scraper"
)

// Config identifies the model endpoint and generation limits.
type Config struct {
	Model       string
	BaseURL     string
	APIKey      string
	MaxTokens   int
	Temperature float64
}

// Client calls the chat completions API with a structured-output schema.
type Client struct {
	client *openai.Client
	cfg    Config
	logger *zap.Logger
}

// NewClient builds a Client. Extra request options are appended after the
// config-derived ones, so tests can override the transport.
func NewClient(cfg Config, logger *zap.Logger, opts ...option.RequestOption) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	requestOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(cfg.BaseURL))
	}
	requestOpts = append(requestOpts, opts...)

	return &Client{
		client: openai.NewClient(requestOpts...),
		cfg:    cfg,
		logger: logger,
	}
}

// Extract prompts the model with readable page content and decodes the
// structured result. Implements scraper.Extractor.
func (c *Client) Extract(ctx context.Context, content string) ([]scraper.RawProject, error) {
	start := time.Now()

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        openai.F("projects"),
		Description: openai.F("Structured records extracted from scraped web pages"),
		Schema:      openai.F[any](projectsSchema()),
		Strict:      openai.Bool(true),
	}

	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(extractionPrompt),
			openai.UserMessage(content),
		}),
		Model:       openai.F(c.cfg.Model),
		Temperature: openai.Float(c.cfg.Temperature),
		ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONSchemaParam{
				Type:       openai.F(openai.ResponseFormatJSONSchemaTypeJSONSchema),
				JSONSchema: openai.F(schemaParam),
			},
		),
	}
	if c.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.cfg.MaxTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "chat completion")
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	body := stripCodeFences(completion.Choices[0].Message.Content)
	raw, err := scraper.DecodeRaw([]byte(body))
	if err != nil {
		return nil, errors.Wrap(err, "decode extraction result")
	}

	c.logger.Debug("extraction completed",
		zap.String("model", c.cfg.Model),
		zap.Int("projects", len(raw.Projects)),
		zap.Duration("duration", time.Since(start)),
	)
	return raw.Projects, nil
}

// stripCodeFences removes a surrounding markdown fence. Smaller models
// wrap JSON in ```json blocks even when told not to.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
