package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "stixnav")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_SetPersistsAsTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("search.debounce_ms", 250))
	require.NoError(t, store.Set("search.fields", []string{"name", "attackID"}))
	require.NoError(t, store.Set("library.default_domain", "enterprise-attack"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[search]")
	assert.Contains(t, content, "[library]")
	assert.Contains(t, content, "debounce_ms = 250")
}

func TestConfigStore_ReloadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("search.debounce_ms", 250))
	require.NoError(t, store.Set("search.fields", []string{"name", "attackID"}))
	require.NoError(t, store.Set("library.default_domain", "enterprise-attack"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 250, reopened.GetInt("search.debounce_ms"))
	assert.Equal(t, []string{"name", "attackID"}, reopened.GetStringSlice("search.fields"))
	assert.Equal(t, "enterprise-attack", reopened.GetString("library.default_domain"))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[search]
debounce_ms = 120
fields = ["description"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 120, store.GetInt("search.debounce_ms"))
	assert.Equal(t, []string{"description"}, store.GetStringSlice("search.fields"))
	_, ok := store.Get("search")
	assert.False(t, ok)
}

func TestConfigStore_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("library.default_domain", "mobile-attack"))

	require.NoError(t, store.Delete("library.default_domain"))
	require.NoError(t, store.Delete("library.default_domain"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	_, ok := reopened.Get("library.default_domain")
	assert.False(t, ok)
}

func TestConfigStore_WrongTypes(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("search.debounce_ms", "fast"))

	assert.Zero(t, store.GetInt("search.debounce_ms"))
	assert.Empty(t, store.GetString("missing"))
	assert.Nil(t, store.GetStringSlice("search.debounce_ms"))
}

func TestNestMap(t *testing.T) {
	got := nestMap(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"top":   true,
	})

	assert.Equal(t, map[string]any{
		"a":   map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"top": true,
	}, got)
}

func TestFlattenMap(t *testing.T) {
	got := flattenMap(map[string]any{
		"a":   map[string]any{"b": int64(1)},
		"top": true,
	}, "")

	assert.Equal(t, map[string]any{"a.b": int64(1), "top": true}, got)
}
