package extraction

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Extractor turns one prompt into the model's raw text response. An empty
// response string means the model produced no text for the request.
type Extractor interface {
	Extract(ctx context.Context, prompt string) (string, error)
}

// Client calls an OpenAI-compatible chat completion API in JSON-only mode.
type Client struct {
	model   llms.Model
	timeout time.Duration
	logger  *logrus.Logger
}

// NewClient creates an extraction client for the configured host and model.
// The timeout bounds each model call separately from the caller's deadline
// so a slow model response cannot starve the rest of the request.
func NewClient(host, apiKey, model string, timeout time.Duration, logger *logrus.Logger) (*Client, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	llm, err := openai.New(
		openai.WithBaseURL(host),
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}

	return &Client{model: llm, timeout: timeout, logger: logger}, nil
}

// Extract sends the prompt and returns the raw response text. Temperature is
// pinned to zero so repeated extractions of the same listing stay comparable.
func (c *Client) Extract(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	content := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	response, err := c.model.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithJSONMode(),
	)
	if err != nil {
		c.logger.WithError(err).Error("Extraction model call failed")
		return "", err
	}

	if len(response.Choices) == 0 {
		c.logger.Warn("Extraction model returned no choices")
		return "", nil
	}

	return response.Choices[0].Content, nil
}
