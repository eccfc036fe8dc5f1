package translate

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-5-mini"

// OpenAI chat completions
type openAIModel struct {
	client openai.Client
	model  string
}

func newOpenAI(apiKey, model string) *openAIModel {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAIModel{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (m *openAIModel) Name() string {
	return string(ProviderOpenAI)
}

func (m *openAIModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: m.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty answer from model %s", m.model)
	}
	return resp.Choices[0].Message.Content, nil
}
