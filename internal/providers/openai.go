package providers

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"chronicle-backend/internal/models"
)

const (
	chatModel       = "gpt-4o-mini"
	chatMaxTokens   = 150
	chatTemperature = 0.8
)

// OpenAIChatClient is the persona chat adapter.
type OpenAIChatClient struct {
	client openai.Client
	model  string
}

func NewOpenAIChatClient(apiKey string) *OpenAIChatClient {
	return &OpenAIChatClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  chatModel,
	}
}

// Complete sends the system prompt, normalized history, and the current
// user message, returning the first choice's text.
func (c *OpenAIChatClient) Complete(ctx context.Context, system string, history []models.ChatMessage, message string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(system))
	for _, m := range history {
		if m.Role == "assistant" {
			messages = append(messages, openai.AssistantMessage(m.Content))
		} else {
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	messages = append(messages, openai.UserMessage(message))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		MaxTokens:   openai.Int(chatMaxTokens),
		Temperature: openai.Float(chatTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
