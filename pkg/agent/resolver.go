package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// ErrStoreUnavailable signals that the custom agent store could not be
// reached. The resolver still returns the predefined catalog alongside it;
// chat must stay usable on built-ins when persistence is down.
var ErrStoreUnavailable = errors.New("agent: custom agent store unavailable")

// CustomAgentSource lists the stored agents owned by one user. Implementations
// must never return another user's agents.
type CustomAgentSource interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Definition, error)
}

// Resolver merges the immutable registry with the user's stored agents into
// one catalog per request. It does not know whether the source is
// database-backed or in-memory.
type Resolver struct {
	registry *Registry
	source   CustomAgentSource
}

func NewResolver(registry *Registry, source CustomAgentSource) *Resolver {
	return &Resolver{
		registry: registry,
		source:   source,
	}
}

func (r *Resolver) Registry() *Registry {
	return r.registry
}

// ResolveCatalog returns the catalog visible to the user. A nil userID is an
// anonymous session and sees only the predefined agents. A store failure
// degrades: the predefined catalog is returned together with
// ErrStoreUnavailable for the caller to surface.
func (r *Resolver) ResolveCatalog(ctx context.Context, userID *uuid.UUID) (*Catalog, error) {
	predefined := r.registry.All()
	if userID == nil || r.source == nil {
		return newCatalog(predefined), nil
	}

	custom, err := r.source.ListByOwner(ctx, *userID)
	if err != nil {
		return newCatalog(predefined), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return newCatalog(Merge(predefined, custom)), nil
}

// Merge combines the two catalog halves: predefined keep declaration order,
// custom follow ordered by creation time ascending (oldest first). Both
// inputs are treated as immutable; the result is a fresh slice. A custom id
// colliding with a predefined one is skipped, the predefined definition wins.
func Merge(predefined, custom []Definition) []Definition {
	merged := make([]Definition, 0, len(predefined)+len(custom))
	seen := make(map[string]struct{}, len(predefined)+len(custom))

	for _, def := range predefined {
		merged = append(merged, def)
		seen[def.ID] = struct{}{}
	}

	ordered := make([]Definition, len(custom))
	copy(ordered, custom)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	for _, def := range ordered {
		if _, dup := seen[def.ID]; dup {
			continue
		}
		merged = append(merged, def)
		seen[def.ID] = struct{}{}
	}

	return merged
}
