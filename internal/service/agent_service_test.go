// FILE: internal/service/agent_service_test.go
package service

import (
	"context"
	"strings"
	"testing"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/agent"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

type agentFixture struct {
	svc        IAgentService
	stores     *memory.Stores
	delivery   *captureDelivery
	predefined int
}

func newAgentFixture(t *testing.T) *agentFixture {
	t.Helper()

	factory := memory.NewRepositoryFactory()
	registry := agent.NewRegistry()
	resolver := agent.NewResolver(registry, NewAgentSource(factory))
	delivery := &captureDelivery{}

	return &agentFixture{
		svc:        NewAgentService(factory, resolver, nil, delivery),
		stores:     factory.Stores(),
		delivery:   delivery,
		predefined: len(registry.All()),
	}
}

func createTestAgent(t *testing.T, f *agentFixture, userId uuid.UUID, name string) uuid.UUID {
	t.Helper()
	resp, err := f.svc.CreateAgent(context.Background(), userId, &dto.CreateAgentRequest{
		Name:         name,
		Emoji:        "🧪",
		Category:     "Personal",
		Description:  "A test personality.",
		SystemPrompt: "You are a helpful test assistant.",
		Specialties:  []string{"testing"},
	})
	if err != nil {
		t.Fatalf("CreateAgent failed: %v", err)
	}
	return resp.Id
}

func TestCreateAgentAppearsInCatalog(t *testing.T) {
	f := newAgentFixture(t)
	userId := uuid.New()

	id := createTestAgent(t, f, userId, "Weekend Planner")

	catalog, err := f.svc.GetCatalog(context.Background(), userId, "", "")
	assert.NoError(t, err)
	assert.Equal(t, f.predefined+1, catalog.Total)
	assert.False(t, catalog.StoreDegraded)

	custom, found := lo.Find(catalog.Agents, func(a dto.AgentResponse) bool {
		return a.Id == id.String()
	})
	if assert.True(t, found) {
		assert.True(t, custom.IsCustom)
		assert.Equal(t, "Weekend Planner", custom.Name)
		assert.Equal(t, defaultTemperature, custom.Temperature)
		assert.NotNil(t, custom.CreatedAt)
	}

	assert.Len(t, f.delivery.ofType("agent.created"), 1)
}

func TestCustomAgentsAreInvisibleToOtherUsers(t *testing.T) {
	f := newAgentFixture(t)
	owner := uuid.New()
	stranger := uuid.New()

	createTestAgent(t, f, owner, "Private Coach")

	mine, err := f.svc.GetCatalog(context.Background(), owner, "", "")
	assert.NoError(t, err)
	assert.Equal(t, f.predefined+1, mine.Total)

	theirs, err := f.svc.GetCatalog(context.Background(), stranger, "", "")
	assert.NoError(t, err)
	assert.Equal(t, f.predefined, theirs.Total)
}

func TestGetCatalogFilters(t *testing.T) {
	f := newAgentFixture(t)
	userId := uuid.New()

	t.Run("by search term", func(t *testing.T) {
		catalog, err := f.svc.GetCatalog(context.Background(), userId, "sales", "")
		assert.NoError(t, err)
		assert.NotZero(t, catalog.Total)
		for _, a := range catalog.Agents {
			assert.False(t, a.IsCustom)
		}
	})

	t.Run("by category case-insensitively", func(t *testing.T) {
		all, err := f.svc.GetCatalog(context.Background(), userId, "", "")
		assert.NoError(t, err)
		category := all.Agents[0].Category

		filtered, err := f.svc.GetCatalog(context.Background(), userId, "", category)
		assert.NoError(t, err)
		assert.NotZero(t, filtered.Total)

		upper, err := f.svc.GetCatalog(context.Background(), userId, "", strings.ToUpper(category))
		assert.NoError(t, err)
		assert.Equal(t, filtered.Total, upper.Total)
	})

	t.Run("no match yields empty list", func(t *testing.T) {
		catalog, err := f.svc.GetCatalog(context.Background(), userId, "zzzzzz-no-such-agent", "")
		assert.NoError(t, err)
		assert.Zero(t, catalog.Total)
		assert.Empty(t, catalog.Agents)
	})
}

func TestGetCategoriesKeepsFirstAppearanceOrder(t *testing.T) {
	f := newAgentFixture(t)
	userId := uuid.New()

	categories, err := f.svc.GetCategories(context.Background(), userId)
	assert.NoError(t, err)
	assert.NotEmpty(t, categories)

	// The first category belongs to the first registry entry, and the
	// per-category counts add up to the whole catalog.
	first := agent.NewRegistry().All()[0]
	assert.Equal(t, first.Category, categories[0].Category)

	total := 0
	for _, c := range categories {
		assert.NotZero(t, c.Count)
		total += c.Count
	}
	assert.Equal(t, f.predefined, total)
}

func TestGetAgent(t *testing.T) {
	f := newAgentFixture(t)
	userId := uuid.New()

	t.Run("predefined by slug", func(t *testing.T) {
		resp, err := f.svc.GetAgent(context.Background(), userId, agent.DefaultAgentID)
		assert.NoError(t, err)
		assert.Equal(t, agent.DefaultAgentID, resp.Id)
		assert.False(t, resp.IsCustom)
		assert.NotEmpty(t, resp.SystemPrompt)
	})

	t.Run("custom by uuid", func(t *testing.T) {
		id := createTestAgent(t, f, userId, "Lookup Target")
		resp, err := f.svc.GetAgent(context.Background(), userId, id.String())
		assert.NoError(t, err)
		assert.True(t, resp.IsCustom)
		assert.Equal(t, "Lookup Target", resp.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.svc.GetAgent(context.Background(), userId, "nobody-home")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateAgentPatchesOnlyProvidedFields(t *testing.T) {
	f := newAgentFixture(t)
	userId := uuid.New()
	id := createTestAgent(t, f, userId, "Before Rename")

	newName := "After Rename"
	_, err := f.svc.UpdateAgent(context.Background(), userId, &dto.UpdateAgentRequest{
		Id:   id,
		Name: &newName,
	})
	assert.NoError(t, err)

	resp, err := f.svc.GetAgent(context.Background(), userId, id.String())
	assert.NoError(t, err)
	assert.Equal(t, "After Rename", resp.Name)

	// Untouched fields survive the patch.
	assert.Equal(t, "Personal", resp.Category)
	assert.Equal(t, "You are a helpful test assistant.", resp.SystemPrompt)
	assert.Equal(t, defaultTemperature, resp.Temperature)
	assert.NotNil(t, resp.UpdatedAt)

	assert.Len(t, f.delivery.ofType("agent.updated"), 1)
}

func TestUpdateAgentOwnership(t *testing.T) {
	f := newAgentFixture(t)
	owner := uuid.New()
	id := createTestAgent(t, f, owner, "Guarded")

	name := "Hijacked"
	_, err := f.svc.UpdateAgent(context.Background(), uuid.New(), &dto.UpdateAgentRequest{
		Id:   id,
		Name: &name,
	})
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.UpdateAgent(context.Background(), owner, &dto.UpdateAgentRequest{
		Id:   uuid.New(),
		Name: &name,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// The failed attempts changed nothing.
	resp, err := f.svc.GetAgent(context.Background(), owner, id.String())
	assert.NoError(t, err)
	assert.Equal(t, "Guarded", resp.Name)
}

func TestDeleteAgent(t *testing.T) {
	f := newAgentFixture(t)
	owner := uuid.New()
	id := createTestAgent(t, f, owner, "Short Lived")

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := f.svc.DeleteAgent(context.Background(), uuid.New(), id)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("owner deletes", func(t *testing.T) {
		err := f.svc.DeleteAgent(context.Background(), owner, id)
		assert.NoError(t, err)

		_, err = f.svc.GetAgent(context.Background(), owner, id.String())
		assert.ErrorIs(t, err, ErrNotFound)

		catalog, err := f.svc.GetCatalog(context.Background(), owner, "", "")
		assert.NoError(t, err)
		assert.Equal(t, f.predefined, catalog.Total)

		assert.Len(t, f.delivery.ofType("agent.deleted"), 1)
	})

	t.Run("already gone", func(t *testing.T) {
		err := f.svc.DeleteAgent(context.Background(), owner, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
