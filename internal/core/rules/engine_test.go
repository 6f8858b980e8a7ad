package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sups/practice-server/internal/core/domain"
)

var (
	peter = domain.Actor{User: domain.Document{"_id": "u1", "email": "peter@abv.bg"}}
	john  = domain.Actor{User: domain.Document{"_id": "u2", "email": "john@abv.bg"}}
	guest = domain.Actor{}
	admin = domain.Actor{Admin: true}
)

func newEngine(t *testing.T, raw map[string]any, records map[string]domain.Document) *Engine {
	t.Helper()
	table, err := Parse(raw)
	require.NoError(t, err)
	return NewEngine(table, func(collection, id string) (domain.Document, error) {
		if doc, ok := records[collection+"/"+id]; ok {
			return doc.Clone(), nil
		}
		return nil, domain.NotFound("Entry does not exist: " + id)
	})
}

func TestCanAccess_OwnerCascade(t *testing.T) {
	e := newEngine(t, nil, nil)
	record := domain.Document{"_id": "m1", "_ownerId": "u1", "title": "Heat"}

	_, err := e.CanAccess(Request{Action: ActionUpdate, Collection: "movies", Actor: john, Data: record, NewData: domain.Document{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCredential))

	_, err = e.CanAccess(Request{Action: ActionUpdate, Collection: "movies", Actor: peter, Data: record, NewData: domain.Document{}})
	assert.NoError(t, err)
}

func TestCanAccess_Baseline(t *testing.T) {
	e := newEngine(t, nil, nil)

	_, err := e.CanAccess(Request{Action: ActionCreate, Collection: "movies", Actor: guest, NewData: domain.Document{}})
	assert.True(t, errors.Is(err, domain.ErrAuthorization), "create needs a signed-in user")

	_, err = e.CanAccess(Request{Action: ActionCreate, Collection: "movies", Actor: john, NewData: domain.Document{}})
	assert.NoError(t, err)

	_, err = e.CanAccess(Request{Action: ActionRead, Collection: "movies", Actor: guest, Data: []domain.Document{}})
	assert.NoError(t, err, "reads are open by default")

	_, err = e.CanAccess(Request{Action: ActionDelete, Collection: "movies", Actor: guest, Data: domain.Document{"_id": "m1"}})
	assert.True(t, errors.Is(err, domain.ErrAuthorization))
}

func TestCanAccess_AdminBypassesTopLevel(t *testing.T) {
	e := newEngine(t, map[string]any{
		"movies": map[string]any{
			".delete": false,
			"*": map[string]any{
				"budget": map[string]any{".read": false},
			},
		},
	}, nil)

	_, err := e.CanAccess(Request{Action: ActionDelete, Collection: "movies", Actor: admin, Data: domain.Document{"_id": "m1", "_ownerId": "u1"}})
	assert.NoError(t, err)

	record := domain.Document{"_id": "m1", "budget": 60.0}
	_, err = e.CanAccess(Request{Action: ActionRead, Collection: "movies", Actor: admin, Data: record})
	require.NoError(t, err)
	assert.NotContains(t, record, "budget", "admins are still redacted")
}

func TestCanAccess_GlobalDefaultsMergeOverBaseline(t *testing.T) {
	e := newEngine(t, map[string]any{
		"*": map[string]any{".read": []any{"User"}},
	}, nil)

	_, err := e.CanAccess(Request{Action: ActionRead, Collection: "movies", Actor: guest, Data: []domain.Document{}})
	assert.True(t, errors.Is(err, domain.ErrAuthorization))

	_, err = e.CanAccess(Request{Action: ActionUpdate, Collection: "movies", Actor: john, Data: domain.Document{"_id": "m1", "_ownerId": "u1"}, NewData: domain.Document{}})
	assert.True(t, errors.Is(err, domain.ErrCredential), "baseline .update survives")
}

func TestCanAccess_EmptyRuleFallsBack(t *testing.T) {
	e := newEngine(t, map[string]any{
		"movies": map[string]any{".update": []any{}, ".read": ""},
	}, nil)

	_, err := e.CanAccess(Request{Action: ActionUpdate, Collection: "movies", Actor: john, Data: domain.Document{"_id": "m1", "_ownerId": "u1"}, NewData: domain.Document{}})
	assert.True(t, errors.Is(err, domain.ErrCredential))

	_, err = e.CanAccess(Request{Action: ActionRead, Collection: "movies", Actor: guest, Data: domain.Document{"_id": "m1"}})
	assert.NoError(t, err)
}

func TestCanAccess_RecordOverride(t *testing.T) {
	e := newEngine(t, map[string]any{
		"movies": map[string]any{
			".update": []any{"Owner"},
			"*": map[string]any{
				"rating": map[string]any{".update": false},
			},
			"m1": map[string]any{
				".update": []any{"User"},
				"title":   map[string]any{".update": false},
			},
		},
	}, nil)

	payload := domain.Document{"title": "Heat 2", "rating": 9.0, "year": 2026.0}
	d, err := e.CanAccess(Request{Action: ActionUpdate, Collection: "movies", Actor: john, Data: domain.Document{"_id": "m1", "_ownerId": "u1"}, NewData: payload})
	require.NoError(t, err)
	assert.Equal(t, domain.Document{"year": 2026.0}, payload)
	assert.Equal(t, []Redaction{{RecordID: "m1", Field: "rating"}, {RecordID: "m1", Field: "title"}}, d.Redactions)

	_, err = e.CanAccess(Request{Action: ActionUpdate, Collection: "movies", Actor: john, Data: domain.Document{"_id": "m2", "_ownerId": "u1"}, NewData: domain.Document{}})
	assert.True(t, errors.Is(err, domain.ErrCredential))
}

func TestCanAccess_ListReadRedactsPerRecord(t *testing.T) {
	e := newEngine(t, map[string]any{
		"movies": map[string]any{
			"*": map[string]any{
				"budget": map[string]any{".read": "isOwner(user, data)"},
			},
			"m2": map[string]any{
				"title": map[string]any{".read": false},
			},
		},
	}, nil)

	list := []domain.Document{
		{"_id": "m1", "_ownerId": "u1", "title": "Heat", "budget": 60.0},
		{"_id": "m2", "_ownerId": "u2", "title": "Dune", "budget": 165.0},
	}
	d, err := e.CanAccess(Request{Action: ActionRead, Collection: "movies", Actor: peter, Data: list})
	require.NoError(t, err)
	assert.Equal(t, []domain.Document{
		{"_id": "m1", "_ownerId": "u1", "title": "Heat", "budget": 60.0},
		{"_id": "m2", "_ownerId": "u2"},
	}, list)
	assert.Len(t, d.Redactions, 2)
}

func TestCanAccess_DefaultRules(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	records := map[string]domain.Document{
		"teams/t1": {"_id": "t1", "_ownerId": "u1", "name": "Gophers"},
	}
	e := NewEngine(table, func(collection, id string) (domain.Document, error) {
		if doc, ok := records[collection+"/"+id]; ok {
			return doc.Clone(), nil
		}
		return nil, domain.NotFound("Entry does not exist: " + id)
	})

	t.Run("status is forced to pending on create", func(t *testing.T) {
		payload := domain.Document{"teamId": "t1", "status": "member"}
		_, err := e.CanAccess(Request{Action: ActionCreate, Collection: "members", Actor: john, NewData: payload})
		require.NoError(t, err)
		assert.Equal(t, "pending", payload["status"])
	})

	t.Run("team owner updates membership but cannot move it", func(t *testing.T) {
		existing := domain.Document{"_id": "mb1", "_ownerId": "u2", "teamId": "t1", "status": "pending"}
		payload := domain.Document{"teamId": "t9", "status": "member"}
		_, err := e.CanAccess(Request{Action: ActionUpdate, Collection: "members", Actor: peter, Data: existing, NewData: payload})
		require.NoError(t, err)
		assert.Equal(t, domain.Document{"teamId": "t1", "status": "member"}, payload)
	})

	t.Run("member cannot update own membership", func(t *testing.T) {
		existing := domain.Document{"_id": "mb1", "_ownerId": "u2", "teamId": "t1"}
		_, err := e.CanAccess(Request{Action: ActionUpdate, Collection: "members", Actor: john, Data: existing, NewData: domain.Document{}})
		assert.True(t, errors.Is(err, domain.ErrCredential))
	})

	t.Run("member can leave", func(t *testing.T) {
		existing := domain.Document{"_id": "mb1", "_ownerId": "u2", "teamId": "t1"}
		_, err := e.CanAccess(Request{Action: ActionDelete, Collection: "members", Actor: john, Data: existing})
		assert.NoError(t, err)
	})

	t.Run("unknown team surfaces not found", func(t *testing.T) {
		existing := domain.Document{"_id": "mb2", "_ownerId": "u2", "teamId": "ghost"}
		_, err := e.CanAccess(Request{Action: ActionDelete, Collection: "members", Actor: john, Data: existing})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("users collection is closed", func(t *testing.T) {
		_, err := e.CanAccess(Request{Action: ActionCreate, Collection: "users", Actor: john, NewData: domain.Document{}})
		assert.True(t, errors.Is(err, domain.ErrCredential))

		_, err = e.CanAccess(Request{Action: ActionRead, Collection: "users", Actor: john, Data: domain.Document{"_id": "u1", "_ownerId": "u1"}})
		assert.True(t, errors.Is(err, domain.ErrCredential))
	})
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]map[string]any{
		"collection not a map":   {"movies": true},
		"unknown action":         {"movies": map[string]any{".list": true}},
		"bad expression":         {"movies": map[string]any{".read": "user.("}},
		"role not a string":      {"movies": map[string]any{".read": []any{1}}},
		"unsupported value":      {"movies": map[string]any{".read": 1}},
		"global field rule":      {"*": map[string]any{"title": map[string]any{".read": false}}},
		"field rules not a map":  {"movies": map[string]any{"*": []any{"title"}}},
		"field action not a map": {"movies": map[string]any{"*": map[string]any{"title": false}}},
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(raw)
			assert.Error(t, err)
		})
	}
}

func TestCanAccess_SourceResolvesProjectedRecords(t *testing.T) {
	e := newEngine(t, map[string]any{
		"movies": map[string]any{
			".read": []any{"Owner"},
			"m1": map[string]any{
				"budget": map[string]any{".read": false},
			},
		},
	}, nil)

	stored := domain.Document{"_id": "m1", "_ownerId": "u1", "title": "Heat", "budget": 60.0}
	shaped := domain.Document{"title": "Heat", "budget": 60.0}

	d, err := e.CanAccess(Request{Action: ActionRead, Collection: "movies", Actor: peter, Data: shaped, Source: stored})
	require.NoError(t, err)
	assert.Equal(t, domain.Document{"title": "Heat"}, shaped)
	assert.Equal(t, []Redaction{{RecordID: "m1", Field: "budget"}}, d.Redactions)
	assert.Contains(t, stored, "budget")

	_, err = e.CanAccess(Request{Action: ActionRead, Collection: "movies", Actor: john, Data: domain.Document{"title": "Heat"}, Source: stored})
	assert.True(t, errors.Is(err, domain.ErrCredential))
}
