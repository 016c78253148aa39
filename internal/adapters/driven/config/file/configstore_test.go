package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Path(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ConfigFileName), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_NestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStoreAt_ReadsSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verdict.toml")
	content := `
[generation]
provider = "openai"
timeout = "45s"
max_retries = 2
temperature = 0.5

[server]
json_logs = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := NewConfigStoreAt(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("generation.provider"))
	assert.Equal(t, 45*time.Second, store.GetDuration("generation.timeout"))
	assert.Equal(t, 2, store.GetInt("generation.max_retries"))
	assert.InDelta(t, 0.5, store.GetFloat("generation.temperature"), 1e-9)
	assert.True(t, store.GetBool("server.json_logs"))
	assert.Equal(t, []string{
		"generation.max_retries",
		"generation.provider",
		"generation.temperature",
		"generation.timeout",
		"server.json_logs",
	}, store.Keys())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("a.int", 7))
	require.NoError(t, store.Set("a.int_str", "12"))
	require.NoError(t, store.Set("a.bool_str", "true"))
	require.NoError(t, store.Set("a.float_int", int64(3)))
	require.NoError(t, store.Set("a.dur", 90*time.Second))
	require.NoError(t, store.Set("a.bad_dur", "soon"))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"int", store.GetInt("a.int"), 7},
		{"int from string", store.GetInt("a.int_str"), 12},
		{"bool from string", store.GetBool("a.bool_str"), true},
		{"float widened", store.GetFloat("a.float_int"), 3.0},
		{"duration stored as string", store.GetString("a.dur"), "1m30s"},
		{"duration", store.GetDuration("a.dur"), 90 * time.Second},
		{"bad duration", store.GetDuration("a.bad_dur"), time.Duration(0)},
		{"missing string", store.GetString("nope"), ""},
		{"missing int", store.GetInt("nope"), 0},
		{"wrong type", store.GetBool("a.int"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_SaveReload_WritesTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("embedding.batch_size", 32))
	require.NoError(t, store.Set("retrieval.top_k", 8))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[embedding]")
	assert.Contains(t, string(raw), "[retrieval]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", reloaded.GetString("embedding.provider"))
	assert.Equal(t, 32, reloaded.GetInt("embedding.batch_size"))
	assert.Equal(t, 8, reloaded.GetInt("retrieval.top_k"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("[[[ nope"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), nil, 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Empty(t, store.Keys())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.top_k", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("retrieval.top_k")
		}()
	}
	wg.Wait()

	_, ok := store.Get("retrieval.top_k")
	assert.True(t, ok)
}

func TestNestMap_InvertsFlatten(t *testing.T) {
	flat := map[string]any{"a.b": 1, "a.c.d": "x", "top": true}

	assert.Equal(t, flat, flattenMap(nestMap(flat), ""))
}
