package vibe

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

type googleAdapter struct {
	client *genai.Client
	model  string
	system string
}

func init() {
	RegisterAdapter(func(client any, model string, cfg Config) (Adapter, bool) {
		c, ok := client.(*genai.Client)
		if !ok {
			return nil, false
		}
		return &googleAdapter{client: c, model: model, system: cfg.SystemInstruction}, true
	})
}

func (a *googleAdapter) Name() string { return "google" }

func (a *googleAdapter) SendStatementPrompt(ctx context.Context, prompt string) (string, error) {
	return a.generate(ctx, prompt)
}

func (a *googleAdapter) SendFunctionPrompt(ctx context.Context, prompt string) (string, error) {
	return a.generate(ctx, prompt)
}

func (a *googleAdapter) generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if strings.TrimSpace(a.system) != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: a.system}},
		}
	}

	res, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", &ProviderError{Provider: a.Name(), Err: err}
	}
	text := textFromGenAI(res)
	if text == "" {
		return "", &ProviderError{Provider: a.Name(), Err: errors.New("empty response")}
	}
	return text, nil
}

func textFromGenAI(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var out string
	for _, p := range res.Candidates[0].Content.Parts {
		if p.Text == "" {
			continue
		}
		// Multiple text parts are concatenated with a newline.
		if out == "" {
			out = p.Text
		} else {
			out += "\n" + p.Text
		}
	}
	return strings.TrimSpace(out)
}
