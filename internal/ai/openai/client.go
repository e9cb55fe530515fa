package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultModel = "gpt-4o"

// Client adapts the OpenAI chat-completions API to the same generator
// contract as the Gemini client, so the provider is a config switch.
type Client struct {
	client openaigo.Client
	model  string
}

// New creates a new OpenAI-backed client.
func New(apiKey, model string, timeout time.Duration) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := openaigo.NewClient(
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
	)

	return &Client{client: client, model: model}, nil
}

// GenerateContent sends the prompt as a single user message and returns the
// first choice's text.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := c.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(c.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("openai api returned empty response")
	}
	return output, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}
