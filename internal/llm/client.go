// Package llm wraps the chat-completions call that consumes the assembled
// prompt context. The marker subsystem only defines the context shape; this
// client is the downstream collaborator that ships it.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = "You are a short-form video strategist. Analyze the provided " +
	"video context, paying particular attention to the temporal pattern data when present."

// Client is a thin wrapper over the OpenAI-compatible chat API.
type Client struct {
	client openai.Client
	model  openai.ChatModel
}

// New builds a client for the given API key and model name.
func New(apiKey, model string) *Client {
	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
	}
}

// Analyze sends the context block and analysis prompt and returns the
// model's response text.
func (c *Client) Analyze(ctx context.Context, contextBlock, promptText string) (string, error) {
	user := promptText
	if contextBlock != "" {
		user = contextBlock + "\n\n" + promptText
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(user),
		},
		Model:       c.model,
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("model returned empty content")
	}
	return content, nil
}
