package generator

import (
	"context"
	"fmt"

	"cmdbot/internal/core/domain"

	"github.com/revrost/go-openrouter"
)

type OpenRouterGenerator struct {
	client       *openrouter.Client
	model        string
	systemPrompt string
}

func NewOpenRouterGenerator(apiKey, model, systemPrompt string) *OpenRouterGenerator {
	return &OpenRouterGenerator{
		model:        model,
		systemPrompt: systemPrompt,
		client: openrouter.NewClient(
			apiKey,
			openrouter.WithXTitle("cmdbot"),
		),
	}
}

func (c *OpenRouterGenerator) GenerateFromPrompt(
	ctx context.Context, prompts []domain.Prompt) (domain.ModelResponse, error) {
	messages := make([]openrouter.ChatCompletionMessage, len(prompts)+1)

	messages[0] = openrouter.ChatCompletionMessage{
		Role: openrouter.ChatMessageRoleSystem,
		Content: openrouter.Content{
			Text: c.systemPrompt,
		},
	}

	for i, prompt := range prompts {
		role := openrouter.ChatMessageRoleUser
		if prompt.Role == domain.RoleSystem {
			role = openrouter.ChatMessageRoleAssistant
		}
		messages[i+1] = openrouter.ChatCompletionMessage{
			Role: role,
			Content: openrouter.Content{
				Text: prompt.Text,
			},
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Messages: messages,
		Model:    c.model,
	})
	if err != nil {
		return domain.ModelResponse{}, fmt.Errorf("openrouter API error: %w", err)
	}

	return domain.ModelResponse{
		Response:         resp.Choices[0].Message.Content.Text,
		Model:            resp.Model,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}
