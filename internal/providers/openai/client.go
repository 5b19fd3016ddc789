// Package openai adapts the OpenAI chat completions API to the Completer port.
package openai

import (
	"context"
	"errors"

	sdk "github.com/sashabaranov/go-openai"
)

// Client sends single-turn completion requests with fixed sampling.
type Client struct {
	api         *sdk.Client
	temperature float32
	maxTokens   int
}

// New builds a client for one API key. Sampling parameters are fixed for
// every request the client makes.
func New(apiKey string, temperature float64, maxTokens int) *Client {
	return &Client{
		api:         sdk.NewClient(apiKey),
		temperature: float32(temperature),
		maxTokens:   maxTokens,
	}
}

// Complete sends one system instruction and one user turn, returning the
// first choice's message content. Transport errors pass through untouched so
// the panel sees the provider's own message.
func (c *Client) Complete(ctx context.Context, model string, system string, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, sdk.ChatCompletionRequest{
		Model:       model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []sdk.ChatCompletionMessage{
			{Role: sdk.ChatMessageRoleSystem, Content: system},
			{Role: sdk.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	return firstChoice(resp)
}

func firstChoice(resp sdk.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", errors.New("openai reply contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
