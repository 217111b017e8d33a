package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"personachat-backend/internal/models"
)

// CompletionClient is the single external collaborator of the send-message
// flow: it submits an ordered message history and returns the reply text.
// Tests substitute it without any HTTP interception.
type CompletionClient interface {
	Complete(ctx context.Context, messages []models.CompletionMessage) (string, error)
}

// OpenAIClient calls a chat-completions endpoint through the go-openai SDK.
// Any transport failure, non-2xx status or response without a first choice
// surfaces as an UpstreamError. One attempt per call, no retries.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	// Bounded timeout so a slow upstream cannot hold a request indefinitely
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []models.CompletionMessage) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: chatMessages,
	})
	if err != nil {
		return "", &UpstreamError{Message: fmt.Sprintf("completion API request failed: %v", err)}
	}

	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Message: "completion API returned no choices"}
	}

	return resp.Choices[0].Message.Content, nil
}
