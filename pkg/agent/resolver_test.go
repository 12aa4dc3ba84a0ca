package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeSource struct {
	byOwner map[uuid.UUID][]Definition
	err     error
}

func (f *fakeSource) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]Definition, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byOwner[ownerID], nil
}

func customDef(id string, owner uuid.UUID, createdAt time.Time) Definition {
	return Definition{
		ID:           id,
		Name:         "Custom " + id,
		Category:     "Custom",
		Description:  "user authored",
		SystemPrompt: "You are a custom bot.",
		Temperature:  0.7,
		IsCustom:     true,
		OwnerID:      &owner,
		CreatedAt:    createdAt,
	}
}

func TestResolveCatalogOwnershipIsolation(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	src := &fakeSource{byOwner: map[uuid.UUID][]Definition{
		owner: {customDef("11111111-1111-1111-1111-111111111111", owner, time.Now())},
	}}
	r := NewResolver(NewRegistry(), src)

	catalog, err := r.ResolveCatalog(context.Background(), &owner)
	if err != nil {
		t.Fatalf("ResolveCatalog(owner) error: %v", err)
	}
	if _, err := catalog.Resolve("11111111-1111-1111-1111-111111111111"); err != nil {
		t.Errorf("owner cannot resolve own custom agent: %v", err)
	}

	otherCatalog, err := r.ResolveCatalog(context.Background(), &other)
	if err != nil {
		t.Fatalf("ResolveCatalog(other) error: %v", err)
	}
	if _, err := otherCatalog.Resolve("11111111-1111-1111-1111-111111111111"); !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("other user resolved foreign custom agent, err = %v", err)
	}
}

func TestResolveCatalogAnonymous(t *testing.T) {
	src := &fakeSource{err: errors.New("must not be called")}
	r := NewResolver(NewRegistry(), src)

	catalog, err := r.ResolveCatalog(context.Background(), nil)
	if err != nil {
		t.Fatalf("anonymous resolve error: %v", err)
	}
	if catalog.Len() != 14 {
		t.Errorf("anonymous catalog has %d agents, want 14 predefined", catalog.Len())
	}
}

func TestResolveCatalogStoreUnavailable(t *testing.T) {
	owner := uuid.New()
	src := &fakeSource{err: errors.New("connection refused")}
	r := NewResolver(NewRegistry(), src)

	catalog, err := r.ResolveCatalog(context.Background(), &owner)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
	if catalog == nil || catalog.Len() != 14 {
		t.Fatal("degraded catalog must still carry the predefined agents")
	}
	if _, err := catalog.Resolve(DefaultAgentID); err != nil {
		t.Errorf("default agent unusable while degraded: %v", err)
	}
}

func TestResolveUnknownAgent(t *testing.T) {
	owner := uuid.New()
	staleID := uuid.New().String()
	src := &fakeSource{byOwner: map[uuid.UUID][]Definition{
		owner: {customDef(staleID, owner, time.Now())},
	}}
	r := NewResolver(NewRegistry(), src)

	catalog, err := r.ResolveCatalog(context.Background(), &owner)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if _, err := catalog.Resolve(staleID); err != nil {
		t.Fatalf("expected custom agent present: %v", err)
	}

	// Bot deleted; a cached selector still holds the old id.
	src.byOwner = map[uuid.UUID][]Definition{}
	catalog, err = r.ResolveCatalog(context.Background(), &owner)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if _, err := catalog.Resolve(staleID); !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("stale id resolved, err = %v, want ErrUnknownAgent", err)
	}

	// The caller falls back to the default explicitly, never silently.
	if _, err := catalog.Resolve(DefaultAgentID); err != nil {
		t.Errorf("default fallback unavailable: %v", err)
	}
}

func TestMergeOrdering(t *testing.T) {
	owner := uuid.New()
	now := time.Now()
	oldest := customDef("aaaaaaaa-0000-0000-0000-000000000001", owner, now.Add(-2*time.Hour))
	middle := customDef("aaaaaaaa-0000-0000-0000-000000000002", owner, now.Add(-1*time.Hour))
	newest := customDef("aaaaaaaa-0000-0000-0000-000000000003", owner, now)

	predefined := NewRegistry().All()
	merged := Merge(predefined, []Definition{newest, oldest, middle})

	if len(merged) != len(predefined)+3 {
		t.Fatalf("merged length %d, want %d", len(merged), len(predefined)+3)
	}
	for i, def := range predefined {
		if merged[i].ID != def.ID {
			t.Errorf("predefined order broken at %d: %q", i, merged[i].ID)
		}
	}
	gotCustom := []string{merged[len(predefined)].ID, merged[len(predefined)+1].ID, merged[len(predefined)+2].ID}
	wantCustom := []string{oldest.ID, middle.ID, newest.ID}
	for i := range wantCustom {
		if gotCustom[i] != wantCustom[i] {
			t.Errorf("custom order[%d] = %q, want %q (creation time ascending)", i, gotCustom[i], wantCustom[i])
		}
	}
}

func TestMergeSkipsCollidingID(t *testing.T) {
	owner := uuid.New()
	impostor := customDef(DefaultAgentID, owner, time.Now())

	predefined := NewRegistry().All()
	merged := Merge(predefined, []Definition{impostor})

	if len(merged) != len(predefined) {
		t.Fatalf("merged length %d, want %d", len(merged), len(predefined))
	}
	for _, def := range merged {
		if def.ID == DefaultAgentID && def.IsCustom {
			t.Error("custom definition shadowed a predefined id")
		}
	}
}

func TestCatalogSearch(t *testing.T) {
	r := NewResolver(NewRegistry(), nil)
	catalog, _ := r.ResolveCatalog(context.Background(), nil)

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantHit bool
	}{
		{"by name", "startup", "startup-strategist", true},
		{"case folded", "FINANCIAL", "financial-controller", true},
		{"by specialty", "fundraising", "venture-capital-advisor", true},
		{"no match", "zzzzqqqq", "", false},
		{"empty returns all", "", "startup-strategist", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.Search(tt.query)
			if !tt.wantHit {
				if len(got) != 0 {
					t.Errorf("Search(%q) returned %d results, want none", tt.query, len(got))
				}
				return
			}
			found := false
			for _, def := range got {
				if def.ID == tt.wantID {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Search(%q) missing %q", tt.query, tt.wantID)
			}
		})
	}
}
