package factory

import (
	"fmt"

	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/anthropic"
	"ai-assistant-be/pkg/llm/ollama"
	"ai-assistant-be/pkg/llm/openai"
)

// NewLLMProvider builds a provider for the given kind. apiKey may be a
// server-wide key or a per-user key; ollama ignores it.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		return openai.NewOpenAIProvider(apiKey, modelName, baseURL)
	case "anthropic":
		if apiKey == "" {
			return nil, fmt.Errorf("%w: anthropic requires an api key", llm.ErrAuth)
		}
		return anthropic.NewAnthropicProvider(apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", llm.ErrUnsupportedModel, providerType)
	}
}
