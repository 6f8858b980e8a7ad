package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sups/practice-server/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)
	return cfg
}

func TestNewServer_EmbeddedDefaults(t *testing.T) {
	srv, err := NewServer(context.Background(), testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close(context.Background()) })

	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Contains(t, names, "movies")

	rec = httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServer_BadRulesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.RulesFile = writeFile(t, "rules.yaml", "movies:\n  \".read\": \"(\"\n")

	_, err := NewServer(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewServer_BadJSONStoreDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.JSONStoreDir = t.TempDir() + "/missing"

	_, err := NewServer(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
