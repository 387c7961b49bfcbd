// Package gemini provides a rate-limited client for the Google Gemini API.
package gemini

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/bobmcallan/arkrank/internal/common"
	"github.com/bobmcallan/arkrank/internal/interfaces"
)

const (
	DefaultModel     = "gemini-2.0-flash"
	DefaultRateLimit = 10 // requests per minute
)

// Client implements the ModelClient interface
type Client struct {
	client   *genai.Client
	model    string
	limiter  *rate.Limiter
	disabled bool
	logger   *common.Logger
}

var _ interfaces.ModelClient = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithRateLimit sets the request rate limit in requests per minute
func WithRateLimit(requestsPerMinute int) ClientOption {
	return func(c *Client) {
		if requestsPerMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), 1)
		}
	}
}

// WithDisabled forces the client into fallback-only mode
func WithDisabled(disabled bool) ClientOption {
	return func(c *Client) {
		c.disabled = disabled
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client. An empty API key produces a
// disabled client rather than an error; callers fall back to the
// deterministic renderer.
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		model:    DefaultModel,
		limiter:  rate.NewLimiter(rate.Limit(float64(DefaultRateLimit)/60), 1),
		logger:   common.NewSilentLogger(),
		disabled: apiKey == "",
	}

	if apiKey != "" {
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		c.client = genaiClient
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Enabled reports whether the client can make calls.
func (c *Client) Enabled() bool {
	return !c.disabled && c.client != nil
}

// Generate produces text from a prompt, waiting on the rate limiter first.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("gemini client is disabled")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	c.logger.Debug().Str("model", c.model).Int("prompt_len", len(prompt)).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text in response")
	}
	return text, nil
}
