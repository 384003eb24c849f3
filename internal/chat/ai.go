package chat

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
)

const systemPrompt = "You are the GameSuite assistant. GameSuite rents meeting rooms " +
	"in a three-floor building: floor 1 has ten single-person rooms (15000/hour), " +
	"floor 2 has five two-person rooms (30000/hour), floor 3 has five five-person " +
	"rooms (75000/hour). Rooms can be booked in whole hours between 08:00 and 22:00. " +
	"Premium members get 5% off and Deluxe members 10% off room prices. Memberships " +
	"run 30 days per month purchased; the first signup is half price. Answer " +
	"questions about bookings, prices and memberships briefly and helpfully. For " +
	"anything you cannot resolve, suggest messaging the admin through the support chat."

// AIClient answers member questions through the OpenAI chat API, feeding
// recent conversation history back in for continuity.
type AIClient struct {
	client *openai.Client
	model  string
}

// NewAIClient returns nil when no API key is configured; callers treat a
// nil client as the feature being disabled.
func NewAIClient(apiKey, model string) *AIClient {
	if apiKey == "" {
		return nil
	}
	return &AIClient{client: openai.NewClient(apiKey), model: model}
}

// Reply generates the assistant's answer to message, given the prior
// conversation between user and assistant in chronological order.
func (c *AIClient) Reply(ctx context.Context, history []model.ChatMessage, message string) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Sender == model.RecipientAI {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Body})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   600,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
