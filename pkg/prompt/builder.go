package prompt

import (
	"errors"
	"strings"

	"ai-assistant-be/pkg/agent"
	"ai-assistant-be/pkg/llm"
)

// ErrEmptyMessage rejects input that is empty after trimming whitespace.
// Nothing is sent and nothing is stored when this is returned.
var ErrEmptyMessage = errors.New("prompt: empty message")

// DefaultMaxHistoryTurns is the legacy context window: the six most recent
// turns of the same conversation.
const DefaultMaxHistoryTurns = 6

// messageOverheadTokens accounts for the role/markup tokens each message
// costs on top of its content.
const messageOverheadTokens = 4

// Builder assembles the ordered message list sent to the completion API.
//
// The output is always exactly one system message (the agent's prompt,
// verbatim), a chronological suffix of the history, and exactly one user
// message (the trimmed input). History is trimmed in two stages: a turn cap,
// then a token budget. Both drop from the oldest end and never split a turn.
// The budget is advisory for history only; the system prompt and the new
// message are emitted even when they alone exceed it.
type Builder struct {
	counter          TokenCounter
	maxHistoryTurns  int
	maxContextTokens int
}

// NewBuilder wires a builder. A nil counter falls back to the heuristic;
// maxHistoryTurns <= 0 uses DefaultMaxHistoryTurns; maxContextTokens <= 0
// disables the token budget.
func NewBuilder(counter TokenCounter, maxHistoryTurns, maxContextTokens int) *Builder {
	if counter == nil {
		counter = HeuristicCounter{}
	}
	if maxHistoryTurns <= 0 {
		maxHistoryTurns = DefaultMaxHistoryTurns
	}
	return &Builder{
		counter:          counter,
		maxHistoryTurns:  maxHistoryTurns,
		maxContextTokens: maxContextTokens,
	}
}

// Build produces the message list for one completion call. Deterministic
// for identical inputs.
func (b *Builder) Build(def *agent.Definition, history []Turn, newMessage string) ([]llm.Message, error) {
	trimmed := strings.TrimSpace(newMessage)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	kept := history
	if len(kept) > b.maxHistoryTurns {
		kept = kept[len(kept)-b.maxHistoryTurns:]
	}

	if b.maxContextTokens > 0 {
		kept = b.fitBudget(def.SystemPrompt, kept, trimmed)
	}

	messages := make([]llm.Message, 0, len(kept)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: def.SystemPrompt})
	for _, turn := range kept {
		messages = append(messages, turn.Message())
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: trimmed})

	return messages, nil
}

// fitBudget drops turns from the oldest end until the suffix plus the fixed
// parts fit under maxContextTokens.
func (b *Builder) fitBudget(systemPrompt string, turns []Turn, newMessage string) []Turn {
	fixed := b.cost(systemPrompt) + b.cost(newMessage)
	budget := b.maxContextTokens - fixed

	total := 0
	costs := make([]int, len(turns))
	for i, turn := range turns {
		costs[i] = b.cost(turn.Content)
		total += costs[i]
	}

	start := 0
	for start < len(turns) && total > budget {
		total -= costs[start]
		start++
	}
	return turns[start:]
}

func (b *Builder) cost(text string) int {
	return b.counter.Count(text) + messageOverheadTokens
}
