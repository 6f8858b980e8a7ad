package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "rules.json", `{
		"*": {".read": ["User"]},
		"movies": {".update": "isOwner(user, data)", "*": {"budget": {".read": false}}}
	}`)

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"movies"}, table.Collections())
	assert.Equal(t, RoleList{RoleUser}, table.global[ActionRead])
	assert.Equal(t, RoleList{RoleUser}, table.global[ActionCreate])
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "rules.yaml", `
comments:
  ".delete": [Owner]
  c1:
    ".delete": false
`)

	table, err := LoadFile(path)
	require.NoError(t, err)
	rule, _ := table.resolve(ActionDelete, "comments", map[string]any{"_id": "c1"})
	assert.Equal(t, Literal(false), rule)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "bad.yaml", "movies: [\n"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, "bad-expr.yaml", "movies:\n  \".read\": \"user.(\"\n"))
	assert.Error(t, err)
}

func TestLoadFile_Empty(t *testing.T) {
	table, err := LoadFile(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Empty(t, table.Collections())
}

func TestDefault(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"members", "users"}, table.Collections())
}
