package anthropic

import (
	"context"
	"errors"
	"fmt"

	"ai-assistant-be/pkg/llm"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic caps responses, a max_tokens value is mandatory on every call.
const defaultMaxTokens = 1024

// AnthropicProvider talks to the Anthropic messages API.
type AnthropicProvider struct {
	ModelName string
	client    *sdk.Client
}

var _ llm.LLMProvider = &AnthropicProvider{}

func NewAnthropicProvider(apiKey, modelName string) *AnthropicProvider {
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{
		ModelName: modelName,
		client:    &client,
	}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	// Anthropic keeps the system prompt out of the message list.
	var system []sdk.TextBlockParam
	var messages []sdk.MessageParam
	for _, msg := range history {
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, sdk.TextBlockParam{Text: msg.Content})
		case llm.RoleAssistant:
			messages = append(messages, sdk.NewAssistantMessage(sdk.NewTextBlock(msg.Content)))
		default:
			messages = append(messages, sdk.NewUserMessage(sdk.NewTextBlock(msg.Content)))
		}
	}

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}
	maxTokens := options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := sdk.MessageNewParams{
		Model:       sdk.Model(model),
		MaxTokens:   int64(maxTokens),
		Messages:    messages,
		System:      system,
		Temperature: sdk.Float(options.Temperature),
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			if kind := llm.ClassifyStatus(apiErr.StatusCode); kind != nil {
				return nil, fmt.Errorf("%w: anthropic: %v", kind, err)
			}
		}
		return nil, llm.Classify(p.Name(), err)
	}

	var content string
	for _, block := range resp.Content {
		switch block := block.AsAny().(type) {
		case sdk.TextBlock:
			content += block.Text
		}
	}

	return &llm.Completion{
		Content:          content,
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}, nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
