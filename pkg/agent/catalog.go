package agent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrUnknownAgent means the id is not in the resolved catalog. Callers fall
// back to the default agent explicitly; Resolve never substitutes one.
var ErrUnknownAgent = errors.New("agent: unknown agent")

// Catalog is the set of agents visible to one user: predefined first in
// declaration order, then the user's custom agents by creation time.
type Catalog struct {
	defs []Definition
	byID map[string]*Definition
}

func newCatalog(defs []Definition) *Catalog {
	c := &Catalog{
		defs: defs,
		byID: make(map[string]*Definition, len(defs)),
	}
	for i := range c.defs {
		c.byID[c.defs[i].ID] = &c.defs[i]
	}
	return c
}

// Resolve looks up one agent. Fails with ErrUnknownAgent when the id is
// absent, e.g. a stale selection after the custom bot was deleted.
func (c *Catalog) Resolve(id string) (*Definition, error) {
	def, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, id)
	}
	return def, nil
}

// All returns every visible definition in display order.
func (c *Catalog) All() []Definition {
	return c.defs
}

func (c *Catalog) Len() int {
	return len(c.defs)
}

// Search filters the catalog with case-insensitive fuzzy matching over name,
// category, description and specialties, preserving display order. An empty
// query returns everything.
func (c *Catalog) Search(query string) []Definition {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.defs
	}

	var out []Definition
	for _, def := range c.defs {
		if matchesQuery(query, def) {
			out = append(out, def)
		}
	}
	return out
}

func matchesQuery(query string, def Definition) bool {
	if fuzzy.MatchFold(query, def.Name) || fuzzy.MatchFold(query, def.Category) {
		return true
	}
	if len(fuzzy.Find(strings.ToLower(query), strings.Fields(strings.ToLower(def.Description)))) > 0 {
		return true
	}
	for _, s := range def.Specialties {
		if fuzzy.MatchFold(query, s) {
			return true
		}
	}
	return false
}
