package agent

import (
	"strings"
	"testing"
)

func TestRegistryOrderStable(t *testing.T) {
	r := NewRegistry()

	if r.Len() != 14 {
		t.Fatalf("registry has %d agents, want 14", r.Len())
	}

	wantOrder := []string{
		"startup-strategist",
		"business-plan-writer",
		"venture-capital-advisor",
		"sales-performance-coach",
		"marketing-strategy-expert",
		"content-marketing-strategist",
		"financial-controller",
		"investment-banking-advisor",
		"digital-transformation-consultant",
		"ai-strategy-consultant",
		"operations-excellence-manager",
		"project-management-expert",
		"human-resources-director",
		"talent-acquisition-specialist",
	}

	defs := r.All()
	for i, want := range wantOrder {
		if defs[i].ID != want {
			t.Errorf("position %d = %q, want %q", i, defs[i].ID, want)
		}
	}

	// Two loads must agree, the order is part of the contract.
	again := NewRegistry().All()
	for i := range defs {
		if defs[i].ID != again[i].ID {
			t.Errorf("order differs between loads at %d: %q vs %q", i, defs[i].ID, again[i].ID)
		}
	}
}

func TestRegistryDefault(t *testing.T) {
	r := NewRegistry()

	def := r.Default()
	if def.ID != DefaultAgentID {
		t.Errorf("Default().ID = %q, want %q", def.ID, DefaultAgentID)
	}
	if def.Name != "Startup Strategist" {
		t.Errorf("Default().Name = %q, want Startup Strategist", def.Name)
	}
	if def.SystemPrompt == "" {
		t.Error("default agent has empty system prompt")
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get("financial-controller"); !ok {
		t.Error("Get(financial-controller) not found")
	}
	if _, ok := r.Get("no-such-agent"); ok {
		t.Error("Get(no-such-agent) unexpectedly found")
	}
}

func TestGeneratedSystemPrompt(t *testing.T) {
	r := NewRegistry()

	def, _ := r.Get("startup-strategist")

	wantParts := []string{
		"You are Startup Strategist, I specialize in helping new businesses with planning and execution.",
		"Your specialties include: Business Planning, MVP Development, Product-Market Fit, Growth Hacking",
		"professional, helpful manner",
	}
	for _, part := range wantParts {
		if !strings.Contains(def.SystemPrompt, part) {
			t.Errorf("system prompt missing %q\n\ngot:\n%s", part, def.SystemPrompt)
		}
	}

	if !strings.HasPrefix(def.SystemPrompt, "You are ") {
		t.Errorf("system prompt starts with %q", def.SystemPrompt[:20])
	}
}

func TestAllDefinitionsComplete(t *testing.T) {
	for _, def := range NewRegistry().All() {
		if def.Name == "" || def.Category == "" || def.Description == "" {
			t.Errorf("agent %q has empty display metadata", def.ID)
		}
		if def.SystemPrompt == "" {
			t.Errorf("agent %q has empty system prompt", def.ID)
		}
		if def.Temperature < 0 || def.Temperature > 2 {
			t.Errorf("agent %q temperature %v out of [0,2]", def.ID, def.Temperature)
		}
		if def.IsCustom || def.OwnerID != nil {
			t.Errorf("agent %q marked custom", def.ID)
		}
		if len(def.Specialties) == 0 || len(def.QuickActions) == 0 {
			t.Errorf("agent %q missing specialties or quick actions", def.ID)
		}
	}
}
