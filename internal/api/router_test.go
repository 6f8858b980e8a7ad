package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/labstack/echo/v4"

	"github.com/sups/practice-server/internal/core/ports"
	"github.com/sups/practice-server/internal/core/rules"
	"github.com/sups/practice-server/internal/core/service"
	"github.com/sups/practice-server/internal/core/store"
	"github.com/sups/practice-server/internal/infrastructure/db/memory"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	general := store.New(ports.Seed{
		"movies": {
			"m1": {"_ownerId": "nobody", "title": "Heat", "year": 1995.0},
		},
	})
	protected := store.New(nil)
	table, err := rules.Default()
	require.NoError(t, err)

	log := zerolog.Nop()
	auth := service.NewAuthService(protected, memory.NewSessionRepository(protected), service.BcryptHasher{Cost: bcrypt.MinCost},
		service.AuthConfig{Identity: "email", JWTSecret: "secret", TokenTTL: time.Hour}, nil, log)
	data := service.NewDataService(general, protected, rules.NewEngine(table, general.Get), nil, log)

	return NewRouter(Deps{
		Auth: auth,
		Data: data,
		Util: service.NewUtilService(false, log),
		JSONStore: service.NewJSONStoreService(map[string]any{
			"settings": map[string]any{"theme": "dark"},
		}, log),
		Identity: "email",
		Registry: prometheus.NewRegistry(),
		Log:      log,
	})
}

func do(e *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_UserFlow(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodPost, "/users/register", `{"email":"peter@abv.bg","password":"123456"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["accessToken"].(string)
	require.NotEmpty(t, token)

	rec = do(e, http.MethodPost, "/users/register", `{"email":"peter@abv.bg","password":"x"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, map[string]any{"code": 409.0, "message": "A user with the same email already exists"}, decode(t, rec))

	auth := map[string]string{"X-Authorization": token}
	rec = do(e, http.MethodPost, "/data/comments", `{"text":"first","_ownerId":"someone"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	comment := decode(t, rec)
	assert.Equal(t, "first", comment["text"])
	assert.NotEqual(t, "someone", comment["_ownerId"])

	rec = do(e, http.MethodGet, "/users/logout", "", auth)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/users/me", "", auth)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid access token", decode(t, rec)["message"])
}

func TestRouter_DataErrors(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		code    int
		message string
	}{
		{"guest create", http.MethodPost, "/data/comments", `{"text":"x"}`, http.StatusUnauthorized, "Unauthorized"},
		{"missing record", http.MethodGet, "/data/movies/nope", "", http.StatusNotFound, ""},
		{"missing collection", http.MethodGet, "/data/ghosts", "", http.StatusNotFound, ""},
		{"too many segments", http.MethodGet, "/data/movies/m1/x", "", http.StatusBadRequest, "Request error"},
		{"bad where", http.MethodGet, "/data/movies?where=title%20~~%20x", "", http.StatusBadRequest, ""},
		{"put without id", http.MethodPut, "/data/movies", `{}`, http.StatusBadRequest, "Missing entry ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.method, tt.target, tt.body, nil)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			body := decode(t, rec)
			assert.Equal(t, float64(tt.code), body["code"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
		})
	}
}

func TestRouter_AdminOverride(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodPatch, "/data/movies/m1", `{"year":1996}`, map[string]string{"X-Admin": "1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1996.0, decode(t, rec)["year"])
}

func TestRouter_ListAndCount(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodGet, "/data", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["movies"]`, rec.Body.String())

	rec = do(e, http.MethodGet, "/data/movies?count=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", strings.TrimSpace(rec.Body.String()))
}

func TestRouter_CORSPreflight(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodOptions, "/data/movies", "", map[string]string{
		"Origin":                         "http://localhost:5173",
		"Access-Control-Request-Method":  "PATCH",
		"Access-Control-Request-Headers": "X-Authorization",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Authorization")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestRouter_UtilAndHealth(t *testing.T) {
	e := newTestServer(t)

	rec := do(e, http.MethodGet, "/util/throttle", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", strings.TrimSpace(rec.Body.String()))

	rec = do(e, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_JSONStore(t *testing.T) {
	e := newTestServer(t)
	guest := map[string]string{"X-Authorization": "not-a-token"}

	rec := do(e, http.MethodGet, "/jsonstore/settings/theme", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `"dark"`, strings.TrimSpace(rec.Body.String()))

	rec = do(e, http.MethodPost, "/jsonstore/notes/work", `{"text":"ship it"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id, _ := decode(t, rec)["_id"].(string)
	require.NotEmpty(t, id)

	rec = do(e, http.MethodPatch, "/jsonstore/notes/work/"+id, `{"done":true}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["done"])

	rec = do(e, http.MethodDelete, "/jsonstore/notes/work/"+id, "", guest)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ship it", decode(t, rec)["text"])

	rec = do(e, http.MethodGet, "/jsonstore/notes/work/"+id, "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/data/settings", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "jsonstore must not leak into /data")
}
