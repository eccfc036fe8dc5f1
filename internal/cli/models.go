package cli

import (
	"strings"

	"github.com/mgpai22/captionit/internal/translate"
)

var (
	geminiModels = []string{
		"gemini-3-pro-preview",
		"gemini-3-flash-preview",
		"gemini-2.5-pro",
		"gemini-2.5-flash",
		"gemini-2.5-flash-lite",
	}
	openAIModels = []string{
		"o1", "o3-mini", "o1-pro", "o3",
		"gpt-5", "gpt-5-nano", "gpt-5-mini", "gpt-5-pro",
		"gpt-5.1", "gpt-5.2", "gpt-5.2-pro",
	}
	anthropicModels = []string{
		"claude-haiku-4-5",
		"claude-sonnet-4-5",
		"claude-opus-4-1",
	}
)

func isValidGeminiModel(model string) bool {
	return containsModel(geminiModels, model)
}

func isValidOpenAIModel(model string) bool {
	return containsModel(openAIModels, model)
}

func isValidAnthropicModel(model string) bool {
	return containsModel(anthropicModels, model)
}

// models accepted for a provider, nil for unknown providers
func modelsFor(provider translate.Provider) []string {
	switch provider {
	case translate.ProviderGemini:
		return geminiModels
	case translate.ProviderOpenAI:
		return openAIModels
	case translate.ProviderAnthropic:
		return anthropicModels
	}
	return nil
}

func isValidModel(provider translate.Provider, model string) bool {
	switch provider {
	case translate.ProviderGemini:
		return isValidGeminiModel(model)
	case translate.ProviderOpenAI:
		return isValidOpenAIModel(model)
	case translate.ProviderAnthropic:
		return isValidAnthropicModel(model)
	}
	return false
}

func containsModel(models []string, model string) bool {
	model = strings.ToLower(strings.TrimSpace(model))
	for _, m := range models {
		if m == model {
			return true
		}
	}
	return false
}
