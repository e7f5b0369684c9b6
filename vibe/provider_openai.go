package vibe

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type openAIAdapter struct {
	client *openai.Client
	model  string
	system string
}

func init() {
	RegisterAdapter(func(client any, model string, cfg Config) (Adapter, bool) {
		c, ok := client.(*openai.Client)
		if !ok {
			return nil, false
		}
		return &openAIAdapter{client: c, model: model, system: cfg.SystemInstruction}, true
	})
}

func (a *openAIAdapter) Name() string { return "openai" }

func (a *openAIAdapter) SendStatementPrompt(ctx context.Context, prompt string) (string, error) {
	return a.generate(ctx, prompt)
}

func (a *openAIAdapter) SendFunctionPrompt(ctx context.Context, prompt string) (string, error) {
	return a.generate(ctx, prompt)
}

func (a *openAIAdapter) generate(ctx context.Context, prompt string) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if strings.TrimSpace(a.system) != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: a.system,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: msgs,
	})
	if err != nil {
		return "", &ProviderError{Provider: a.Name(), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: a.Name(), Err: errors.New("no choices in response")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
