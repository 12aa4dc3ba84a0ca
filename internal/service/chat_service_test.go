// FILE: internal/service/chat_service_test.go
package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/security"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/agent"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/prompt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// ---- shared fakes ----

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) { return nil, nil }

// capturePublisher records every payload handed to the internal bus.
type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	p.payloads = append(p.payloads, cp)
	return nil
}

func (p *capturePublisher) all() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.payloads...)
}

// captureDelivery records realtime events instead of pushing to sockets.
type captureDelivery struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDelivery) Send(_ uuid.UUID, event events.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *captureDelivery) ofType(eventType string) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// failingAgentSource simulates the custom agent store being down.
type failingAgentSource struct{}

func (failingAgentSource) ListByOwner(context.Context, uuid.UUID) ([]agent.Definition, error) {
	return nil, errors.New("connection refused")
}

// ---- completion backend stub ----

// ollamaCall is one captured chat request as the backend saw it.
type ollamaCall struct {
	Model    string
	Messages []llm.Message
}

// ollamaStub speaks the local-model chat wire format so the chat service can
// be exercised end to end without a real backend.
type ollamaStub struct {
	mu     sync.Mutex
	status int
	reply  string
	calls  []ollamaCall
}

func (o *ollamaStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		o.mu.Lock()
		call := ollamaCall{Model: req.Model}
		for _, m := range req.Messages {
			call.Messages = append(call.Messages, llm.Message{Role: m.Role, Content: m.Content})
		}
		o.calls = append(o.calls, call)
		status := o.status
		reply := o.reply
		o.mu.Unlock()

		if status != 0 && status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":"stub failure"}`)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model":             req.Model,
			"message":           map[string]string{"role": "assistant", "content": reply},
			"done":              true,
			"prompt_eval_count": 12,
			"eval_count":        7,
		})
	}
}

func (o *ollamaStub) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.calls)
}

func (o *ollamaStub) lastCall() ollamaCall {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls[len(o.calls)-1]
}

// ---- fixture ----

type chatFixture struct {
	svc      IChatService
	stores   *memory.Stores
	stub     *ollamaStub
	bus      *capturePublisher
	delivery *captureDelivery
	cipher   *security.KeyCipher
	defaults ChatDefaults
}

type chatFixtureOptions struct {
	defaults  ChatDefaults
	source    agent.CustomAgentSource
	useCipher bool
}

func newChatFixture(t *testing.T, opts chatFixtureOptions) *chatFixture {
	t.Helper()

	stub := &ollamaStub{reply: "Here is my advice."}
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	factory := memory.NewRepositoryFactory()
	registry := agent.NewRegistry()
	source := opts.source
	if source == nil {
		source = NewAgentSource(factory)
	}
	resolver := agent.NewResolver(registry, source)

	defaults := opts.defaults
	if defaults.Provider == "" {
		defaults = ChatDefaults{
			Provider:        "ollama",
			Model:           "test-model",
			MaxTokens:       64,
			MaxHistoryTurns: 6,
		}
	}
	settings := NewAiSettingService(factory, defaults)

	var cipher *security.KeyCipher
	if opts.useCipher {
		var err error
		cipher, err = security.NewKeyCipher("0123456789abcdef0123456789abcdef")
		if err != nil {
			t.Fatalf("Failed to build cipher: %v", err)
		}
	}

	bus := &capturePublisher{}
	delivery := &captureDelivery{}

	svc := NewChatService(
		factory,
		resolver,
		prompt.HeuristicCounter{},
		settings,
		ProviderConfig{OllamaBaseURL: server.URL, RequestTimeout: 5 * time.Second},
		cipher,
		nil,
		bus,
		nil,
		delivery,
		nopLogger{},
	)

	return &chatFixture{
		svc:      svc,
		stores:   factory.Stores(),
		stub:     stub,
		bus:      bus,
		delivery: delivery,
		cipher:   cipher,
		defaults: defaults,
	}
}

func seedTurns(t *testing.T, f *chatFixture, userId uuid.UUID, agentId string, contents ...string) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	var turns []*entity.ChatTurn
	for i, content := range contents {
		role := entity.ChatTurnRoleUser
		if i%2 == 1 {
			role = entity.ChatTurnRoleAssistant
		}
		turns = append(turns, &entity.ChatTurn{
			Id:        uuid.New(),
			UserId:    userId,
			AgentId:   agentId,
			Role:      role,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	if err := f.stores.ChatTurns.CreateBatch(context.Background(), turns); err != nil {
		t.Fatalf("Failed to seed turns: %v", err)
	}
}

// ---- tests ----

func TestSendMessageStoresTurnPair(t *testing.T) {
	f := newChatFixture(t, chatFixtureOptions{})
	userId := uuid.New()

	resp, err := f.svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		AgentId: "sales-performance-coach",
		Message: "Draft a follow-up email for me.",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	assert.Equal(t, "sales-performance-coach", resp.AgentId)
	assert.False(t, resp.Fallback)
	assert.False(t, resp.StoreDegraded)
	assert.Equal(t, "user", resp.Sent.Role)
	assert.Equal(t, "Draft a follow-up email for me.", resp.Sent.Content)
	assert.Equal(t, "assistant", resp.Reply.Role)
	assert.Equal(t, "Here is my advice.", resp.Reply.Content)
	if assert.NotNil(t, resp.Usage) {
		assert.Equal(t, 12, resp.Usage.PromptTokens)
		assert.Equal(t, 7, resp.Usage.CompletionTokens)
	}

	// Both turns are persisted under the resolved agent.
	stored, err := f.stores.ChatTurns.FindRecent(context.Background(), userId, "sales-performance-coach", 0)
	assert.NoError(t, err)
	if assert.Len(t, stored, 2) {
		assert.Equal(t, entity.ChatTurnRoleUser, stored[0].Role)
		assert.Equal(t, entity.ChatTurnRoleAssistant, stored[1].Role)
		assert.Equal(t, "Here is my advice.", stored[1].Content)
	}

	// The exchange is handed to the usage pipeline.
	payloads := f.bus.all()
	if assert.Len(t, payloads, 1) {
		var msg dto.ChatCompletedMessage
		assert.NoError(t, json.Unmarshal(payloads[0], &msg))
		assert.Equal(t, userId, msg.UserId)
		assert.Equal(t, "sales-performance-coach", msg.AgentId)
		assert.Equal(t, 12, msg.PromptTokens)
		assert.Equal(t, 7, msg.CompletionTokens)
	}

	// Live connections are notified about the new pair.
	assert.Len(t, f.delivery.ofType("chat.turn"), 1)
}

func TestSendMessageFallsBackToDefaultAgent(t *testing.T) {
	f := newChatFixture(t, chatFixtureOptions{})
	userId := uuid.New()

	resp, err := f.svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		AgentId: "agent-that-never-existed",
		Message: "Hello?",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	assert.True(t, resp.Fallback)
	assert.Equal(t, agent.DefaultAgentID, resp.AgentId)

	// History lands under the fallback agent, not the bogus id.
	stored, err := f.stores.ChatTurns.FindRecent(context.Background(), userId, agent.DefaultAgentID, 0)
	assert.NoError(t, err)
	assert.Len(t, stored, 2)

	orphaned, err := f.stores.ChatTurns.FindRecent(context.Background(), userId, "agent-that-never-existed", 0)
	assert.NoError(t, err)
	assert.Empty(t, orphaned)
}

func TestSendMessageRejectsEmptyMessage(t *testing.T) {
	f := newChatFixture(t, chatFixtureOptions{})
	userId := uuid.New()

	_, err := f.svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		AgentId: "sales-performance-coach",
		Message: "   \n\t  ",
	})
	assert.ErrorIs(t, err, prompt.ErrEmptyMessage)

	// Nothing was sent and nothing was stored.
	assert.Equal(t, 0, f.stub.callCount())
	stored, _ := f.stores.ChatTurns.FindRecent(context.Background(), userId, "sales-performance-coach", 0)
	assert.Empty(t, stored)
	assert.Empty(t, f.bus.all())
}

func TestSendMessageProviderFailureStoresNothing(t *testing.T) {
	f := newChatFixture(t, chatFixtureOptions{})
	f.stub.status = http.StatusInternalServerError
	userId := uuid.New()

	_, err := f.svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		AgentId: "sales-performance-coach",
		Message: "This one will fail.",
	})
	assert.ErrorIs(t, err, llm.ErrTransient)

	// A failed completion must not leave a half exchange behind.
	stored, _ := f.stores.ChatTurns.FindRecent(context.Background(), userId, "sales-performance-coach", 0)
	assert.Empty(t, stored)
	assert.Empty(t, f.bus.all())
	assert.Empty(t, f.delivery.ofType("chat.turn"))
}

func TestSendMessageCapsHistoryWindow(t *testing.T) {
	f := newChatFixture(t, chatFixtureOptions{})
	userId := uuid.New()

	seedTurns(t, f, userId, "sales-performance-coach",
		"m1", "r1", "m2", "r2", "m3", "r3", "m4", "r4", "m5", "r5")

	_, err := f.svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		AgentId: "sales-performance-coach",
		Message: "latest question",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	call := f.stub.lastCall()
	assert.Equal(t, "test-model", call.Model)

	// system prompt + the six newest turns + the new message
	if assert.Len(t, call.Messages, 8) {
		assert.Equal(t, llm.RoleSystem, call.Messages[0].Role)
		assert.NotEmpty(t, call.Messages[0].Content)

		window := call.Messages[1:7]
		wantContents := []string{"m3", "r3", "m4", "r4", "m5", "r5"}
		for i, msg := range window {
			assert.Equal(t, wantContents[i], msg.Content)
		}

		last := call.Messages[7]
		assert.Equal(t, llm.RoleUser, last.Role)
		assert.Equal(t, "latest question", last.Content)
	}
}

func TestSendMessageDegradesWhenAgentStoreIsDown(t *testing.T) {
	f := newChatFixture(t, chatFixtureOptions{source: failingAgentSource{}})
	userId := uuid.New()

	resp, err := f.svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		AgentId: "sales-performance-coach",
		Message: "Still working?",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	// Built-in agents keep answering when the custom store is unreachable.
	assert.True(t, resp.StoreDegraded)
	assert.False(t, resp.Fallback)
	assert.Equal(t, "sales-performance-coach", resp.AgentId)
	assert.Equal(t, "Here is my advice.", resp.Reply.Content)
}

func TestProviderForPrefersStoredKey(t *testing.T) {
	f := newChatFixture(t, chatFixtureOptions{
		defaults: ChatDefaults{
			Provider:        entity.ProviderAnthropic,
			Model:           "claude-test",
			MaxTokens:       64,
			MaxHistoryTurns: 6,
		},
		useCipher: true,
	})
	userId := uuid.New()

	encrypted, err := f.cipher.Encrypt("sk-ant-REDACTED")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	err = f.stores.ProviderKeys.Upsert(context.Background(), &entity.ProviderKey{
		Id:       uuid.New(),
		UserId:   userId,
		Provider: entity.ProviderAnthropic,
		Cipher:   encrypted,
		Last4:    "0001",
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	svc := f.svc.(*chatService)
	uow := svc.uowFactory.NewUnitOfWork(context.Background())

	provider, err := svc.providerFor(context.Background(), uow, userId, f.defaults)
	assert.NoError(t, err)
	assert.Equal(t, "anthropic", provider.Name())

	// Another user without a stored key has no credentials at all.
	_, err = svc.providerFor(context.Background(), uow, uuid.New(), f.defaults)
	assert.ErrorIs(t, err, llm.ErrAuth)
}

func TestGetHistoryReturnsChronologicalTurns(t *testing.T) {
	f := newChatFixture(t, chatFixtureOptions{})
	userId := uuid.New()
	seedTurns(t, f, userId, "financial-controller", "first", "second", "third")

	resp, err := f.svc.GetHistory(context.Background(), userId, "financial-controller")
	assert.NoError(t, err)
	assert.Equal(t, "financial-controller", resp.AgentId)
	if assert.Len(t, resp.Turns, 3) {
		assert.Equal(t, "first", resp.Turns[0].Content)
		assert.Equal(t, "third", resp.Turns[2].Content)
		assert.True(t, resp.Turns[0].CreatedAt.Before(resp.Turns[2].CreatedAt))
	}
}

func TestClearHistoryDeletesAndNotifies(t *testing.T) {
	f := newChatFixture(t, chatFixtureOptions{})
	userId := uuid.New()
	seedTurns(t, f, userId, "financial-controller", "one", "two")
	seedTurns(t, f, userId, "sales-performance-coach", "keep me")

	err := f.svc.ClearHistory(context.Background(), userId, "financial-controller")
	assert.NoError(t, err)

	cleared, _ := f.stores.ChatTurns.FindRecent(context.Background(), userId, "financial-controller", 0)
	assert.Empty(t, cleared)

	// Other conversations are untouched.
	kept, _ := f.stores.ChatTurns.FindRecent(context.Background(), userId, "sales-performance-coach", 0)
	assert.Len(t, kept, 1)

	assert.Len(t, f.delivery.ofType("chat.cleared"), 1)
}

func TestExportHistoryProducesCSV(t *testing.T) {
	f := newChatFixture(t, chatFixtureOptions{})
	userId := uuid.New()
	seedTurns(t, f, userId, "financial-controller", "what should I do?", "take a break")

	data, err := f.svc.ExportHistory(context.Background(), userId, "financial-controller")
	assert.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	assert.NoError(t, err)
	if assert.Len(t, records, 3) {
		assert.Equal(t, []string{"timestamp", "role", "content"}, records[0])
		assert.Equal(t, "user", records[1][1])
		assert.Equal(t, "what should I do?", records[1][2])
		assert.Equal(t, "assistant", records[2][1])
		assert.Equal(t, "take a break", records[2][2])

		_, err := time.Parse(time.RFC3339, records[1][0])
		assert.NoError(t, err)
	}
}
