// Package anthropic adapts the Anthropic Messages API to the Completer port.
package anthropic

import (
	"context"
	"errors"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Client sends single-turn completion requests with fixed sampling.
type Client struct {
	api         sdk.Client
	temperature float64
	maxTokens   int64
}

// New builds a client for one API key. Sampling parameters are fixed for
// every request the client makes.
func New(apiKey string, temperature float64, maxTokens int) *Client {
	return &Client{
		api:         sdk.NewClient(option.WithAPIKey(apiKey)),
		temperature: temperature,
		maxTokens:   int64(maxTokens),
	}
}

// Complete sends one system instruction and one user turn, returning the
// first text block of the reply. Transport errors pass through untouched so
// the panel sees the provider's own message.
func (c *Client) Complete(ctx context.Context, model string, system string, prompt string) (string, error) {
	message, err := c.api.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(model),
		MaxTokens:   c.maxTokens,
		Temperature: sdk.Float(c.temperature),
		System: []sdk.TextBlockParam{
			{Text: system},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	return firstTextBlock(message.Content)
}

func firstTextBlock(blocks []sdk.ContentBlockUnion) (string, error) {
	for _, block := range blocks {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", errors.New("anthropic reply contained no text block")
}
