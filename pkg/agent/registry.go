package agent

import (
	"fmt"
	"strings"
)

// DefaultAgentID is the fallback whenever a selected id cannot be resolved
// (stale selector after a deletion, bad client state).
const DefaultAgentID = "startup-strategist"

// Registry is the immutable predefined catalog, built once at process start.
type Registry struct {
	order []string
	byID  map[string]Definition
}

// NewRegistry loads the static personality table and generates the system
// prompt for each entry.
func NewRegistry() *Registry {
	r := &Registry{
		order: make([]string, 0, len(builtins)),
		byID:  make(map[string]Definition, len(builtins)),
	}
	for _, def := range builtins {
		def.SystemPrompt = generateSystemPrompt(def)
		r.order = append(r.order, def.ID)
		r.byID[def.ID] = def
	}
	return r
}

// All returns the predefined definitions in declaration order.
func (r *Registry) All() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, r.byID[id])
	}
	return defs
}

func (r *Registry) Get(id string) (Definition, bool) {
	def, ok := r.byID[id]
	return def, ok
}

// Default returns the fallback agent. The registry always contains it.
func (r *Registry) Default() Definition {
	return r.byID[DefaultAgentID]
}

func (r *Registry) Len() int {
	return len(r.order)
}

// generateSystemPrompt expands the fixed template for predefined agents.
// Custom agents carry their prompt explicitly and never pass through here.
func generateSystemPrompt(def Definition) string {
	return fmt.Sprintf(`You are %s, %s

Your specialties include: %s

You should respond in a professional, helpful manner while staying true to your role and expertise.
Provide actionable advice and insights based on your specialization.
Be specific, practical, and focus on delivering value to business users.`,
		def.Name,
		def.Description,
		strings.Join(def.Specialties, ", "),
	)
}
