package prompt

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"ai-assistant-be/pkg/agent"
	"ai-assistant-be/pkg/llm"
)

// fixedCounter charges the same cost for every text, which makes budget
// arithmetic exact in tests.
type fixedCounter struct {
	per int
}

func (c fixedCounter) Count(string) int {
	return c.per
}

func testAgent() *agent.Definition {
	return &agent.Definition{
		ID:           "test-agent",
		Name:         "Test Agent",
		SystemPrompt: "You are concise.",
		Temperature:  0.7,
	}
}

func turn(role, content string, at time.Time) Turn {
	return Turn{Role: role, Content: content, Timestamp: at}
}

func TestBuildBasic(t *testing.T) {
	b := NewBuilder(nil, 0, 0)
	now := time.Now()
	history := []Turn{
		turn(llm.RoleUser, "hi", now.Add(-2*time.Minute)),
		turn(llm.RoleAssistant, "hello", now.Add(-1*time.Minute)),
	}

	got, err := b.Build(testAgent(), history, "What's 2+2?")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	want := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are concise."},
		{Role: llm.RoleUser, Content: "hi"},
		{Role: llm.RoleAssistant, Content: "hello"},
		{Role: llm.RoleUser, Content: "What's 2+2?"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build = %v, want %v", got, want)
	}
}

func TestBuildTrimsInput(t *testing.T) {
	b := NewBuilder(nil, 0, 0)

	got, err := b.Build(testAgent(), nil, "  What's 2+2?\n")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	last := got[len(got)-1]
	if last.Role != llm.RoleUser || last.Content != "What's 2+2?" {
		t.Errorf("trailing message = %+v, want trimmed user input", last)
	}
}

func TestBuildEmptyMessage(t *testing.T) {
	b := NewBuilder(nil, 0, 0)

	for _, input := range []string{"", "   ", "\n\t "} {
		if _, err := b.Build(testAgent(), nil, input); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Build(%q) err = %v, want ErrEmptyMessage", input, err)
		}
	}
}

func TestBuildTurnCap(t *testing.T) {
	b := NewBuilder(nil, 6, 0)
	now := time.Now()

	var history []Turn
	for i := 0; i < 20; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		history = append(history, turn(role, fmt.Sprintf("turn-%d", i), now.Add(time.Duration(i)*time.Second)))
	}

	got, err := b.Build(testAgent(), history, "next")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	// system + 6 turns + user
	if len(got) != 8 {
		t.Fatalf("got %d messages, want 8", len(got))
	}
	if got[1].Content != "turn-14" {
		t.Errorf("first kept turn = %q, want turn-14 (most recent six)", got[1].Content)
	}
	if got[6].Content != "turn-19" {
		t.Errorf("last kept turn = %q, want turn-19", got[6].Content)
	}
}

func TestBuildTokenBudgetKeepsRecentSuffix(t *testing.T) {
	// Every message costs 1 + 4 overhead = 5 tokens. Budget 20 leaves room
	// for system (5) + new message (5) + exactly two history turns.
	b := NewBuilder(fixedCounter{per: 1}, 200, 20)
	now := time.Now()

	var history []Turn
	for i := 0; i < 100; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		history = append(history, turn(role, fmt.Sprintf("turn-%d", i), now.Add(time.Duration(i)*time.Second)))
	}

	got, err := b.Build(testAgent(), history, "next")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("got %d messages, want system + 2 turns + user", len(got))
	}
	if got[1].Content != "turn-98" || got[2].Content != "turn-99" {
		t.Errorf("kept turns = %q, %q; want turn-98, turn-99 in original order", got[1].Content, got[2].Content)
	}
}

func TestBuildBudgetNeverDropsSystemOrNewMessage(t *testing.T) {
	// Budget far below even the fixed parts: history vanishes, the system
	// prompt and the new message survive verbatim.
	b := NewBuilder(fixedCounter{per: 100}, 200, 10)
	history := []Turn{turn(llm.RoleUser, "old", time.Now())}

	got, err := b.Build(testAgent(), history, "still here")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	want := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are concise."},
		{Role: llm.RoleUser, Content: "still here"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build = %v, want %v", got, want)
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(fixedCounter{per: 2}, 4, 50)
	now := time.Unix(1700000000, 0)

	var history []Turn
	for i := 0; i < 10; i++ {
		history = append(history, turn(llm.RoleUser, fmt.Sprintf("m%d", i), now.Add(time.Duration(i)*time.Minute)))
	}

	first, err := b.Build(testAgent(), history, "repeat me")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	second, err := b.Build(testAgent(), history, "repeat me")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Build is not deterministic:\n%v\n%v", first, second)
	}
}

func TestBuildStartsWithExactlyOneSystem(t *testing.T) {
	b := NewBuilder(nil, 0, 0)
	history := []Turn{
		turn(llm.RoleUser, "a", time.Now()),
		turn(llm.RoleAssistant, "b", time.Now()),
	}

	got, err := b.Build(testAgent(), history, "c")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if got[0].Role != llm.RoleSystem || got[0].Content != testAgent().SystemPrompt {
		t.Errorf("first message = %+v, want verbatim system prompt", got[0])
	}
	for i, msg := range got[1:] {
		if msg.Role == llm.RoleSystem {
			t.Errorf("unexpected system message at %d", i+1)
		}
	}
	if got[len(got)-1].Role != llm.RoleUser {
		t.Errorf("last message role = %q, want user", got[len(got)-1].Role)
	}
}

func TestHeuristicCounter(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"12345678", 2},
	}
	for _, tt := range tests {
		if got := (HeuristicCounter{}).Count(tt.text); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
