package query

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sups/practice-server/internal/core/domain"
)

func ids(t *testing.T, out any) []string {
	t.Helper()
	docs, ok := out.([]domain.Document)
	require.True(t, ok, "expected []domain.Document, got %T", out)
	got := make([]string, len(docs))
	for i, d := range docs {
		got[i] = d.ID()
	}
	return got
}

func noLoad(string, string) (domain.Document, error) {
	return nil, errors.New("unexpected load")
}

func movies() []domain.Document {
	return []domain.Document{
		{"_id": "m1", "title": "Heat", "year": 1995.0, "genre": "crime", "rating": 8.3},
		{"_id": "m2", "title": "Pulp Fiction", "year": 1994.0, "genre": "crime", "rating": 8.9},
		{"_id": "m3", "title": "Dune", "year": 2021.0, "genre": "sci-fi", "rating": 8.0},
		{"_id": "m4", "title": "alien", "year": 1979.0, "genre": "sci-fi", "rating": 8.5},
	}
}

func TestRun_FilterGreaterThan(t *testing.T) {
	docs := []domain.Document{
		{"_id": "a", "price": 5.0},
		{"_id": "b", "price": 15.0},
	}
	out, err := NewPipeline(noLoad).Run(docs, Params{Where: "price>10"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(t, out))
}

func TestRun_WhereOperators(t *testing.T) {
	tests := []struct {
		name  string
		where string
		want  []string
	}{
		{"equal string", `genre="crime"`, []string{"m1", "m2"}},
		{"equal number", `year=1994`, []string{"m2"}},
		{"less or equal", `year<=1994`, []string{"m2", "m4"}},
		{"less", `year<1994`, []string{"m4"}},
		{"greater or equal", `rating>=8.5`, []string{"m2", "m4"}},
		{"like is case insensitive", `title LIKE "FICT"`, []string{"m2"}},
		{"in parenthesised", `year IN (1994, 2021)`, []string{"m2", "m3"}},
		{"in bracketed", `genre in ["sci-fi"]`, []string{"m3", "m4"}},
		{"and", `genre="crime" AND year>1994`, []string{"m1"}},
		{"or", `year=1979 or year=2021`, []string{"m3", "m4"}},
		{"missing field", `director="Mann"`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewPipeline(noLoad).Run(movies(), Params{Where: tt.where})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(t, out))
		})
	}
}

func TestRun_WhereSyntaxError(t *testing.T) {
	for _, where := range []string{"year", `title like 5`, `year=abc`, `year in 1994`} {
		_, err := NewPipeline(noLoad).Run(movies(), Params{Where: where})
		require.Error(t, err, where)
		assert.True(t, errors.Is(err, domain.ErrRequest), where)
		assert.Equal(t, ErrWhereSyntax, domain.Message(err))
	}
}

func TestRun_WhereMixedConnectives(t *testing.T) {
	for _, where := range []string{
		`genre="crime" AND year>1994 or year=1979`,
		`year=1979 OR genre="crime" and year>1994`,
	} {
		_, err := NewPipeline(noLoad).Run(movies(), Params{Where: where})
		require.Error(t, err, where)
		assert.True(t, errors.Is(err, domain.ErrRequest), where)
		assert.Equal(t, ErrWhereSyntax, domain.Message(err))
	}
}

func TestRunTracked_SourcesKeepUnselectedFields(t *testing.T) {
	out, sources, err := NewPipeline(noLoad).RunTracked(movies(), Params{Where: `genre="crime"`, Select: "title"})
	require.NoError(t, err)

	assert.Equal(t, []domain.Document{{"title": "Heat"}, {"title": "Pulp Fiction"}}, out)
	require.Len(t, sources, 2)
	assert.Equal(t, "m1", sources[0].ID())
	assert.Equal(t, "m2", sources[1].ID())

	_, sources, err = NewPipeline(noLoad).RunTracked(movies(), Params{Count: "1"})
	require.NoError(t, err)
	assert.Nil(t, sources)
}

func TestRun_SortDescending(t *testing.T) {
	docs := []domain.Document{
		{"_id": "old", "year": 1994.0},
		{"_id": "new", "year": 2021.0},
	}
	out, err := NewPipeline(noLoad).Run(docs, Params{SortBy: "year desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, ids(t, out))
}

func TestRun_SortFirstKeyDominates(t *testing.T) {
	out, err := NewPipeline(noLoad).Run(movies(), Params{SortBy: "genre,year desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3", "m4"}, ids(t, out))

	out, err = NewPipeline(noLoad).Run(movies(), Params{SortBy: "title"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m4", "m3", "m1", "m2"}, ids(t, out), "strings collate case-insensitively")
}

func TestRun_Pagination(t *testing.T) {
	docs := make([]domain.Document, 25)
	for i := range docs {
		docs[i] = domain.Document{"_id": fmt.Sprintf("r%d", i)}
	}
	out, err := NewPipeline(noLoad).Run(docs, Params{Offset: "10", PageSize: "5"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r10", "r11", "r12", "r13", "r14"}, ids(t, out))
}

func TestRun_PaginationDefaults(t *testing.T) {
	docs := make([]domain.Document, 25)
	for i := range docs {
		docs[i] = domain.Document{"_id": fmt.Sprintf("r%d", i)}
	}

	out, err := NewPipeline(noLoad).Run(docs, Params{PageSize: "oops"})
	require.NoError(t, err)
	assert.Len(t, ids(t, out), DefaultPageSize)

	out, err = NewPipeline(noLoad).Run(docs, Params{Offset: "-3", PageSize: "2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r0", "r1"}, ids(t, out))

	out, err = NewPipeline(noLoad).Run(docs, Params{Offset: "40"})
	require.NoError(t, err)
	assert.Empty(t, ids(t, out))

	out, err = NewPipeline(noLoad).Run(docs, Params{})
	require.NoError(t, err)
	assert.Len(t, ids(t, out), 25)
}

func TestRun_DistinctKeepsFirstSeen(t *testing.T) {
	out, err := NewPipeline(noLoad).Run(movies(), Params{Distinct: "genre"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m3"}, ids(t, out))
}

func TestRun_CountShortCircuits(t *testing.T) {
	out, err := NewPipeline(noLoad).Run(movies(), Params{Where: `genre="crime"`, Count: "true", Load: "bad"})
	require.NoError(t, err)
	assert.Equal(t, 2, out)
}

func TestRun_Select(t *testing.T) {
	out, err := NewPipeline(noLoad).Run(movies()[:1], Params{Select: "title,missing"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Document{{"title": "Heat"}}, out)
}

func TestRun_Load(t *testing.T) {
	users := map[string]domain.Document{
		"u1": {"_id": "u1", "email": "peter@abv.bg", "hashedPassword": "secret"},
	}
	resolve := func(collection, id string) (domain.Document, error) {
		require.Equal(t, "users", collection)
		u, ok := users[id]
		if !ok {
			return nil, domain.NotFound("Entry does not exist: " + id)
		}
		return u.Clone(), nil
	}
	docs := []domain.Document{{"_id": "c1", "_ownerId": "u1", "text": "great"}}

	out, err := NewPipeline(resolve).Run(docs, Params{Load: "author=_ownerId:users"})
	require.NoError(t, err)
	got := out.([]domain.Document)
	assert.Equal(t, domain.Document{"_id": "u1", "email": "peter@abv.bg"}, got[0]["author"])

	_, err = NewPipeline(resolve).Run([]domain.Document{{"_id": "c2", "_ownerId": "ghost"}}, Params{Load: "author=_ownerId:users"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = NewPipeline(resolve).Run(docs, Params{Load: "author=_ownerId"})
	assert.True(t, errors.Is(err, domain.ErrRequest))
}

func TestShape_SingleRecord(t *testing.T) {
	resolve := func(collection, id string) (domain.Document, error) {
		return domain.Document{"_id": id, "name": "Crime"}, nil
	}
	doc := domain.Document{"_id": "m1", "title": "Heat", "year": 1995.0, "genreId": "g1"}

	got, err := NewPipeline(resolve).Shape(doc, Params{Select: "title,genreId", Load: "genre=genreId:genres"})
	require.NoError(t, err)
	assert.Equal(t, domain.Document{
		"title":   "Heat",
		"genreId": "g1",
		"genre":   domain.Document{"_id": "g1", "name": "Crime"},
	}, got)
}

func TestParseRawQuery(t *testing.T) {
	p := ParseRawQuery(`where=_ownerId%3D%22u1%22&sortBy=_createdOn%20desc&pageSize=5&count&unknown=1`)
	assert.Equal(t, Params{
		Where:    `_ownerId="u1"`,
		SortBy:   "_createdOn desc",
		PageSize: "5",
	}, p)

	p = ParseRawQuery("where=title%20like%20%22a+b%22")
	assert.Equal(t, `title like "a+b"`, p.Where, "plus is not a space")
}
