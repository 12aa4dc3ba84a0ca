package openai

import (
	"context"
	"fmt"

	"ai-assistant-be/pkg/llm"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// OpenAIProvider talks to the OpenAI chat completions API through
// langchaingo. The zero value is not usable; construct with NewOpenAIProvider.
type OpenAIProvider struct {
	ModelName string
	client    *lcopenai.LLM
}

var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, modelName, baseURL string) (*OpenAIProvider, error) {
	opts := []lcopenai.Option{lcopenai.WithModel(modelName)}
	if apiKey != "" {
		opts = append(opts, lcopenai.WithToken(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(baseURL))
	}

	client, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}

	return &OpenAIProvider{
		ModelName: modelName,
		client:    client,
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	content := make([]llms.MessageContent, 0, len(history))
	for _, msg := range history {
		content = append(content, llms.TextParts(mapRole(msg.Role), msg.Content))
	}

	callOpts := []llms.CallOption{llms.WithTemperature(options.Temperature)}
	if options.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(options.MaxTokens))
	}
	if options.Model != "" {
		callOpts = append(callOpts, llms.WithModel(options.Model))
	}

	resp, err := p.client.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return nil, llm.Classify(p.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty response")
	}

	choice := resp.Choices[0]
	return &llm.Completion{
		Content:          choice.Content,
		PromptTokens:     infoInt(choice.GenerationInfo, "PromptTokens"),
		CompletionTokens: infoInt(choice.GenerationInfo, "CompletionTokens"),
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func mapRole(role string) llms.ChatMessageType {
	switch role {
	case llm.RoleSystem:
		return llms.ChatMessageTypeSystem
	case llm.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

// infoInt reads a numeric field from langchaingo's GenerationInfo map, which
// is untyped and varies between int and float64 across versions.
func infoInt(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
