package memory

import (
	"sort"
	"strings"

	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// query holds the parsed content of the specification types the memory
// implementations understand. The GORM implementations are the reference
// behavior; this package interprets the same specifications over maps so the
// service stack can run without a database.
type query struct {
	id        *uuid.UUID
	ids       []uuid.UUID
	userID    *uuid.UUID
	ownerID   *uuid.UUID
	email     *string
	agentID   *string
	provider  *string
	key       *string
	role      *string
	token     *string
	tokenHash *string
	search    *string
	active    bool
	orderBy   string
	orderDesc bool
	limit     int
	offset    int
}

func parseSpecs(specs ...specification.Specification) query {
	q := query{limit: -1}
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			v := sp.ID
			q.id = &v
		case specification.ByIDs:
			q.ids = sp.IDs
		case specification.UserOwnedBy:
			v := sp.UserID
			q.userID = &v
		case specification.OwnedBy:
			v := sp.OwnerID
			q.ownerID = &v
		case specification.ByEmail:
			v := sp.Email
			q.email = &v
		case specification.ByAgentID:
			v := sp.AgentID
			q.agentID = &v
		case specification.ByProvider:
			v := sp.Provider
			q.provider = &v
		case specification.ByKey:
			v := sp.Key
			q.key = &v
		case specification.ByRole:
			v := sp.Role
			q.role = &v
		case specification.ByToken:
			v := sp.Token
			q.token = &v
		case specification.ByTokenHash:
			v := sp.Hash
			q.tokenHash = &v
		case specification.UserSearchQuery:
			v := strings.ToLower(sp.Query)
			q.search = &v
		case specification.ActiveUsers:
			q.active = true
		case specification.OrderBy:
			q.orderBy = sp.Field
			q.orderDesc = sp.Desc
		case specification.Pagination:
			q.limit = sp.Limit
			q.offset = sp.Offset
		}
	}
	return q
}

func (q query) matchesID(id uuid.UUID) bool {
	if q.id != nil && *q.id != id {
		return false
	}
	if len(q.ids) > 0 {
		found := false
		for _, v := range q.ids {
			if v == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func paginate[T any](items []T, q query) []T {
	if q.offset > 0 {
		if q.offset >= len(items) {
			return nil
		}
		items = items[q.offset:]
	}
	if q.limit >= 0 && q.limit < len(items) {
		items = items[:q.limit]
	}
	return items
}

// orderByTime sorts items by a time key when the query asks for created_at
// ordering; other fields are left to the callers that know them.
func orderByTime[T any](items []T, q query, createdAt func(T) int64) {
	if q.orderBy != "created_at" {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		if q.orderDesc {
			return createdAt(items[i]) > createdAt(items[j])
		}
		return createdAt(items[i]) < createdAt(items[j])
	})
}
