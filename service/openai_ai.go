package service

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/arthamitra/finassist-be/types"
)

var systemMessageFinanceAssistant = openai.ChatCompletionMessage{
	Role:    openai.ChatMessageRoleSystem,
	Content: "You are a personal finance assistant AI. You answer questions grounded in the context provided with each request and never invent figures that are not in it.",
}

// OpenAIService is the completion capability backed by an
// OpenAI-compatible chat endpoint, including local servers.
type OpenAIService struct {
	client *openai.Client
	model  string
}

func NewOpenAIService(baseURL, apiKey, model string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (s *OpenAIService) Chat(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages: []openai.ChatCompletionMessage{
				systemMessageFinanceAssistant,
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Model: s.model,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response generated", types.ErrCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
